package models

import (
	"time"
)

// EntityType identifies which collection a request endpoint refers to.
type EntityType string

const (
	EntityTypeUser     EntityType = "user"
	EntityTypeBusiness EntityType = "business"
	EntityTypeTeam     EntityType = "team"
	EntityTypeEvent    EntityType = "event"
	EntityTypeProgram  EntityType = "program"
	EntityTypePage     EntityType = "page"
)

// ValidEntityType reports whether t is a known entity type.
func ValidEntityType(t EntityType) bool {
	switch t {
	case EntityTypeUser, EntityTypeBusiness, EntityTypeTeam,
		EntityTypeEvent, EntityTypeProgram, EntityTypePage:
		return true
	}
	return false
}

// IsOrganization reports whether t refers to the organizations collection.
func (t EntityType) IsOrganization() bool {
	return t == EntityTypeBusiness || t == EntityTypeTeam || t == EntityTypePage
}

// RequestType distinguishes follow requests from friend requests.
type RequestType string

const (
	// RequestTypeFollow is a directed follow.
	RequestTypeFollow RequestType = "FOLLOW"
	// RequestTypeFriend is a mutual friendship proposal.
	RequestTypeFriend RequestType = "FRIEND"
)

// ValidRequestType reports whether t is a known request type.
func ValidRequestType(t RequestType) bool {
	return t == RequestTypeFollow || t == RequestTypeFriend
}

// RequestStatus is the lifecycle state of a request. REJECTED is not a
// retained terminal state: rejection deletes the record and reverts its
// adjacency effects.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// ValidRequestStatus reports whether s is a known request status.
func ValidRequestStatus(s RequestStatus) bool {
	return s == RequestStatusPending || s == RequestStatusAccepted || s == RequestStatusRejected
}

// Request represents one directed relationship proposal. The
// (requester, requestee) pair is unique at the store level so concurrent
// sends produce exactly one record and the loser a Conflict.
type Request struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	RequesterID   uint          `gorm:"not null;uniqueIndex:idx_request_pair;index" json:"requester_id"`
	RequesterType EntityType    `gorm:"type:varchar(20);not null" json:"requester_type"`
	RequesteeID   uint          `gorm:"not null;uniqueIndex:idx_request_pair;index" json:"requestee_id"`
	RequesteeType EntityType    `gorm:"type:varchar(20);not null" json:"requestee_type"`
	RequestType   RequestType   `gorm:"type:varchar(20);not null;index" json:"request_type"`
	Status        RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	RequestedAt time.Time  `json:"requested_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Request) TableName() string {
	return "requests"
}

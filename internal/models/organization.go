package models

import (
	"time"

	"gorm.io/gorm"
)

// OrganizationKind selects which flavor of organization a record is.
type OrganizationKind string

const (
	// OrganizationKindTeam is a team organization.
	OrganizationKindTeam OrganizationKind = "team"
	// OrganizationKindBusiness is a business organization.
	OrganizationKindBusiness OrganizationKind = "business"
)

// ValidOrganizationKind reports whether k is a known organization kind.
func ValidOrganizationKind(k OrganizationKind) bool {
	return k == OrganizationKindTeam || k == OrganizationKindBusiness
}

// Organization is a team or business that users can follow and join as
// members. Followers and Members are denormalized adjacency lists:
// Followers holds user ids, Members holds Member record ids.
type Organization struct {
	ID   uint             `gorm:"primaryKey" json:"id"`
	Name string           `gorm:"size:120;not null" json:"name"`
	Kind OrganizationKind `gorm:"type:varchar(20);not null;index" json:"kind"`

	// CanBeFollowed is the page-level visibility flag consulted by the
	// request engine before accepting a follow.
	CanBeFollowed bool `gorm:"not null;default:true" json:"can_be_followed"`

	Followers IDList `gorm:"type:text;not null;default:'[]'" json:"followers"`
	Members   IDList `gorm:"type:text;not null;default:'[]'" json:"members"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

package models

import (
	"time"
)

// MemberRole defines a member's role inside an organization.
type MemberRole string

const (
	// MemberRoleOwner is the organization owner role.
	MemberRoleOwner MemberRole = "owner"
	// MemberRoleAdmin is the organization administrator role.
	MemberRoleAdmin MemberRole = "admin"
	// MemberRoleMember is the default member role.
	MemberRoleMember MemberRole = "member"
)

// ValidMemberRole reports whether r is a known member role.
func ValidMemberRole(r MemberRole) bool {
	return r == MemberRoleOwner || r == MemberRoleAdmin || r == MemberRoleMember
}

// MemberStatus is the lifecycle state of a membership.
type MemberStatus string

const (
	// MemberStatusActive marks a current member.
	MemberStatusActive MemberStatus = "active"
	// MemberStatusSuspended marks a member barred from participating.
	MemberStatusSuspended MemberStatus = "suspended"
)

// ValidMemberStatus reports whether s is a known member status.
func ValidMemberStatus(s MemberStatus) bool {
	return s == MemberStatusActive || s == MemberStatusSuspended
}

// Member is the ternary relation (user, organization, organizationType).
// Uniqueness per (user, organization) is enforced by an existence check in
// the membership engine before insert, not by a store constraint; the
// organization's Members list and the Member record must agree.
type Member struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UserID           uint             `gorm:"not null;index" json:"user_id"`
	OrganizationID   uint             `gorm:"not null;index" json:"organization_id"`
	OrganizationType OrganizationKind `gorm:"type:varchar(20);not null" json:"organization_type"`
	Role             MemberRole       `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Status           MemberStatus     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Member) TableName() string {
	return "members"
}

package models

import (
	"time"
)

// PrivacySettings controls who may follow or befriend a user. BlockList
// holds Block record ids (not raw user ids); the block engine keeps it
// paired with the blocks collection inside one transaction.
type PrivacySettings struct {
	ID                    uint `gorm:"primaryKey" json:"id"`
	UserID                uint `gorm:"not null;uniqueIndex" json:"user_id"`
	CanBeFollowed         bool `gorm:"not null;default:true" json:"can_be_followed"`
	RequireFriendRequests bool `gorm:"not null;default:false" json:"require_friend_requests"`

	BlockList IDList `gorm:"type:text;not null;default:'[]'" json:"block_list"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PrivacySettings) TableName() string {
	return "privacy_settings"
}

// GeneralSettings is a plain key-value preferences document; it carries no
// graph invariants and exists so user deletion can clear it.
type GeneralSettings struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	Language string `gorm:"size:10;default:'en'" json:"language"`
	Timezone string `gorm:"size:40;default:'UTC'" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (GeneralSettings) TableName() string {
	return "general_settings"
}

// PreferenceSettings holds notification preferences; no graph invariants.
type PreferenceSettings struct {
	ID                 uint `gorm:"primaryKey" json:"id"`
	UserID             uint `gorm:"not null;uniqueIndex" json:"user_id"`
	EmailNotifications bool `gorm:"not null;default:true" json:"email_notifications"`
	PushNotifications  bool `gorm:"not null;default:true" json:"push_notifications"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PreferenceSettings) TableName() string {
	return "preference_settings"
}

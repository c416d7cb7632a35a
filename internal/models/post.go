package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post authored by a user. Likes holds Like record ids,
// Comments holds top-level Comment ids; both are maintained by the like
// engine and the cascade coordinator.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Likes    IDList `gorm:"type:text;not null;default:'[]'" json:"likes"`
	Comments IDList `gorm:"type:text;not null;default:'[]'" json:"comments"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}

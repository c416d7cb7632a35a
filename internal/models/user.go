package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a person on the platform. The four relationship arrays
// (followers, following, friends, likes) plus posts/comments are
// denormalized adjacency lists; the engines keep them in lockstep with the
// edge records (Request, Like) that they mirror.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Bio      string `gorm:"type:text" json:"bio,omitempty"`

	// Adjacency lists. Entries in Followers/Following must have a mirrored
	// entry on the counterpart user; violated only transiently inside a
	// transaction, never observably.
	Followers IDList `gorm:"type:text;not null;default:'[]'" json:"followers"`
	Following IDList `gorm:"type:text;not null;default:'[]'" json:"following"`
	Friends   IDList `gorm:"type:text;not null;default:'[]'" json:"friends"`
	Likes     IDList `gorm:"type:text;not null;default:'[]'" json:"likes"`
	Posts     IDList `gorm:"type:text;not null;default:'[]'" json:"posts"`
	Comments  IDList `gorm:"type:text;not null;default:'[]'" json:"comments"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// PublicProfile is the subset of user fields exposed when resolving
// likers, requesters and members.
type PublicProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Bio      string `json:"bio,omitempty"`
}

// Public returns the user's public profile fields.
func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Username: u.Username, Bio: u.Bio}
}

// ProfilePage is the user's public page document, deleted together with
// the user.
type ProfilePage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Headline  string    `gorm:"size:200" json:"headline"`
	About     string    `gorm:"type:text" json:"about"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ProfilePage) TableName() string {
	return "profile_pages"
}

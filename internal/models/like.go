package models

import (
	"time"
)

// LikeKind selects which collection a Like's AssociatedID refers to.
type LikeKind string

const (
	// LikeKindPost marks a like on a post.
	LikeKindPost LikeKind = "POST"
	// LikeKindComment marks a like on a top-level comment.
	LikeKindComment LikeKind = "COMMENT"
	// LikeKindReply marks a like on a reply comment.
	LikeKindReply LikeKind = "REPLY"
	// LikeKindPage marks a like on an organization page.
	LikeKindPage LikeKind = "PAGE"
	// LikeKindUser marks a like on a user profile.
	LikeKindUser LikeKind = "USER"
)

// ValidLikeKind reports whether k is a known likeable kind.
func ValidLikeKind(k LikeKind) bool {
	switch k {
	case LikeKindPost, LikeKindComment, LikeKindReply, LikeKindPage, LikeKindUser:
		return true
	}
	return false
}

// Like is a polymorphic join of (user, target, kind). The combination of
// UserID, AssociatedID and Kind must be unique; creation is an
// upsert-if-absent so concurrent likes converge to one record.
type Like struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	UserID       uint     `gorm:"not null;uniqueIndex:idx_like_user_target" json:"user_id"`
	AssociatedID uint     `gorm:"not null;uniqueIndex:idx_like_user_target" json:"associated_id"`
	Kind         LikeKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_like_user_target;index" json:"kind"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}

package models

import (
	"time"
)

// Block is a directed record of one user blocking another. Each Block is
// mirrored by exactly one entry (its id) in the blocker's privacy-settings
// block list; the pair is created and destroyed inside one transaction.
type Block struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_block_pair;index" json:"user_id"`
	BlockedID uint `gorm:"not null;uniqueIndex:idx_block_pair" json:"blocked_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Block) TableName() string {
	return "blocks"
}

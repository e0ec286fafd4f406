package models

import (
	"time"

	"github.com/google/uuid"
)

// Board represents the database model
type Board struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultBoardTitle is used when an item is created for a user without boards.
const DefaultBoardTitle = "My Board"

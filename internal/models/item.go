package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ItemType string

const (
	TypeTodo      ItemType = "todo"
	TypeChecklist ItemType = "checklist"
	TypeFolder    ItemType = "folder"
	TypeNote      ItemType = "note"
	TypeBookmark  ItemType = "bookmark"
	TypeEvent     ItemType = "event"
)

// ItemTypes lists every supported payload type in a stable order.
var ItemTypes = []ItemType{TypeTodo, TypeChecklist, TypeFolder, TypeNote, TypeBookmark, TypeEvent}

// ParseItemType normalises a client supplied tag. The boolean is false for unknown tags.
func ParseItemType(s string) (ItemType, bool) {
	t := ItemType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ItemTypes {
		if t == known {
			return t, true
		}
	}
	return t, false
}

// Item is the positional container wrapping exactly one payload row.
// FolderID points at folders.id, not at another item.
type Item struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	BoardID      uint      `gorm:"not null;index" json:"board_id"`
	FolderID     *uint     `gorm:"index" json:"folder_id"`
	ItemableType ItemType  `gorm:"type:varchar(32);not null;index:idx_items_itemable,priority:1" json:"itemable_type"`
	ItemableID   uint      `gorm:"not null;index:idx_items_itemable,priority:2" json:"itemable_id"`
	X            int       `gorm:"not null" json:"x"`
	Y            int       `gorm:"not null" json:"y"`
	Width        int       `gorm:"not null" json:"width"`
	Height       int       `gorm:"not null" json:"height"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Type is derived from the stored tag, never stored separately.
func (i Item) Type() ItemType {
	return ItemType(strings.ToLower(string(i.ItemableType)))
}

// ItemableRef identifies one payload row.
type ItemableRef struct {
	Type ItemType
	ID   uint
}

func (i Item) Ref() ItemableRef {
	return ItemableRef{Type: i.Type(), ID: i.ItemableID}
}

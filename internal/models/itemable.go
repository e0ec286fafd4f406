package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Itemable is implemented by the six payload models. The set is closed:
// the unexported marker keeps other packages from adding variants.
type Itemable interface {
	ItemType() ItemType
	PayloadID() uint
	isItemable()
}

type Todo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Completed   bool      `gorm:"not null" json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChecklistEntry is one line of a checklist, stored inside a JSON column.
type ChecklistEntry struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type Checklist struct {
	ID          uint                                `gorm:"primaryKey" json:"id"`
	Title       string                              `gorm:"type:varchar(255);not null" json:"title"`
	Description *string                             `gorm:"type:text" json:"description"`
	Items       datatypes.JSONSlice[ChecklistEntry] `json:"items"`
	CreatedAt   time.Time                           `json:"created_at"`
	UpdatedAt   time.Time                           `json:"updated_at"`
}

// Folder is both a payload and the containment scope items point at
// through Item.FolderID.
type Folder struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Color       string    `gorm:"type:varchar(32);not null" json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   *string   `gorm:"type:text" json:"content"`
	Color     string    `gorm:"type:varchar(32);not null" json:"color"`
	Pinned    bool      `gorm:"not null" json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Bookmark struct {
	ID         uint                        `gorm:"primaryKey" json:"id"`
	Title      string                      `gorm:"type:varchar(255);not null" json:"title"`
	URL        string                      `gorm:"type:text;not null" json:"url"`
	FaviconURL *string                     `gorm:"type:text" json:"favicon_url"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

type Event struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Title               string     `gorm:"type:varchar(255);not null" json:"title"`
	StartAt             time.Time  `gorm:"not null" json:"start_at"`
	EndAt               *time.Time `json:"end_at"`
	Location            *string    `gorm:"type:text" json:"location"`
	AllDay              bool       `gorm:"not null" json:"all_day"`
	RemindMinutesBefore *int       `json:"remind_minutes_before"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (*Todo) ItemType() ItemType      { return TypeTodo }
func (*Checklist) ItemType() ItemType { return TypeChecklist }
func (*Folder) ItemType() ItemType    { return TypeFolder }
func (*Note) ItemType() ItemType      { return TypeNote }
func (*Bookmark) ItemType() ItemType  { return TypeBookmark }
func (*Event) ItemType() ItemType     { return TypeEvent }

func (t *Todo) PayloadID() uint      { return t.ID }
func (c *Checklist) PayloadID() uint { return c.ID }
func (f *Folder) PayloadID() uint    { return f.ID }
func (n *Note) PayloadID() uint      { return n.ID }
func (b *Bookmark) PayloadID() uint  { return b.ID }
func (e *Event) PayloadID() uint     { return e.ID }

func (*Todo) isItemable()      {}
func (*Checklist) isItemable() {}
func (*Folder) isItemable()    {}
func (*Note) isItemable()      {}
func (*Bookmark) isItemable()  {}
func (*Event) isItemable()     {}

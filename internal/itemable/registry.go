// Package itemable is the dispatch table for the six payload types: field
// validation, quick-create defaults, partial updates and projection.
package itemable

import (
	"time"

	"github.com/google/uuid"

	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/models"
)

const (
	DefaultTodoTitle       = "New Todo"
	DefaultTodoDescription = "Click to edit description"
	DefaultFolderColor     = "#3b82f6"
	DefaultNoteTitle       = "New Note"
	DefaultNoteColor       = "#FEF3C7"
	DefaultBookmarkTitle   = "New Link"
	DefaultBookmarkURL     = "https://example.com"
	DefaultEventTitle      = "New Event"
)

// Definition describes one payload type.
type Definition struct {
	Type models.ItemType
	// Size used when a create request omits width or height.
	Width, Height int
	// Fields names the keys the projection adds on top of the base fields.
	Fields []string

	newPayload func() models.Itemable
	clone      func(p models.Itemable) models.Itemable
	assign     func(dst, src models.Itemable)
	defaults   func(now time.Time) models.Itemable
	apply      func(p models.Itemable, f Fields, c *checker)
	validate   func(p models.Itemable, c *checker)
	project    func(p models.Itemable) map[string]any
}

// define adapts typed callbacks to the untyped table. P is always the
// pointer to the payload model, so the assertions below cannot fail for
// payloads created through the registry.
func define[T any, P interface {
	*T
	models.Itemable
}](t models.ItemType, width, height int, fields []string,
	defaults func(now time.Time) P,
	apply func(p P, f Fields, c *checker),
	validate func(p P, c *checker),
	project func(p P) map[string]any,
) Definition {
	return Definition{
		Type:       t,
		Width:      width,
		Height:     height,
		Fields:     fields,
		newPayload: func() models.Itemable { return P(new(T)) },
		clone: func(p models.Itemable) models.Itemable {
			v := *p.(P)
			return P(&v)
		},
		assign:   func(dst, src models.Itemable) { *dst.(P) = *src.(P) },
		defaults: func(now time.Time) models.Itemable { return defaults(now) },
		apply: func(p models.Itemable, f Fields, c *checker) {
			apply(p.(P), f, c)
		},
		validate: func(p models.Itemable, c *checker) {
			if validate != nil {
				validate(p.(P), c)
			}
		},
		project: func(p models.Itemable) map[string]any { return project(p.(P)) },
	}
}

var registry = map[models.ItemType]Definition{
	models.TypeTodo: define(models.TypeTodo, 350, 200,
		[]string{"title", "description", "completed"},
		func(time.Time) *models.Todo {
			desc := DefaultTodoDescription
			return &models.Todo{Title: DefaultTodoTitle, Description: &desc}
		},
		func(p *models.Todo, f Fields, c *checker) {
			c.setString("title", &p.Title, f.Title)
			c.setNullableString("description", &p.Description, f.Description)
			c.setBool("completed", &p.Completed, f.Completed)
		},
		nil,
		func(p *models.Todo) map[string]any {
			return map[string]any{
				"title":       p.Title,
				"description": p.Description,
				"completed":   p.Completed,
			}
		},
	),
	models.TypeChecklist: define(models.TypeChecklist, defaultWidth, defaultHeight,
		[]string{"title", "description", "items"},
		func(time.Time) *models.Checklist {
			return &models.Checklist{Items: []models.ChecklistEntry{}}
		},
		func(p *models.Checklist, f Fields, c *checker) {
			c.setString("title", &p.Title, f.Title)
			c.setNullableString("description", &p.Description, f.Description)
			if v, ok, _ := read(c, "items", f.Items, false); ok {
				if v == nil {
					v = []models.ChecklistEntry{}
				}
				p.Items = v
			}
		},
		func(p *models.Checklist, c *checker) {
			c.required("title", p.Title)
		},
		func(p *models.Checklist) map[string]any {
			items := []models.ChecklistEntry(p.Items)
			if items == nil {
				items = []models.ChecklistEntry{}
			}
			return map[string]any{
				"title":       p.Title,
				"description": p.Description,
				"items":       items,
			}
		},
	),
	models.TypeFolder: define(models.TypeFolder, defaultWidth, defaultHeight,
		[]string{"uuid", "name", "description", "color"},
		func(time.Time) *models.Folder {
			return &models.Folder{UUID: uuid.New(), Color: DefaultFolderColor}
		},
		func(p *models.Folder, f Fields, c *checker) {
			c.setString("name", &p.Name, f.Name)
			c.setNullableString("description", &p.Description, f.Description)
			c.setString("color", &p.Color, f.Color)
		},
		func(p *models.Folder, c *checker) {
			c.required("name", p.Name)
		},
		func(p *models.Folder) map[string]any {
			return map[string]any{
				"uuid":        p.UUID.String(),
				"name":        p.Name,
				"description": p.Description,
				"color":       p.Color,
			}
		},
	),
	models.TypeNote: define(models.TypeNote, 320, 200,
		[]string{"title", "content", "color", "pinned"},
		func(time.Time) *models.Note {
			content := ""
			return &models.Note{Title: DefaultNoteTitle, Content: &content, Color: DefaultNoteColor}
		},
		func(p *models.Note, f Fields, c *checker) {
			c.setString("title", &p.Title, f.Title)
			c.setNullableString("content", &p.Content, f.Content)
			c.setString("color", &p.Color, f.Color)
			c.setBool("pinned", &p.Pinned, f.Pinned)
		},
		nil,
		func(p *models.Note) map[string]any {
			return map[string]any{
				"title":   p.Title,
				"content": p.Content,
				"color":   p.Color,
				"pinned":  p.Pinned,
			}
		},
	),
	models.TypeBookmark: define(models.TypeBookmark, 260, 120,
		[]string{"title", "url", "favicon_url", "tags"},
		func(time.Time) *models.Bookmark {
			return &models.Bookmark{Title: DefaultBookmarkTitle, URL: DefaultBookmarkURL, Tags: []string{}}
		},
		func(p *models.Bookmark, f Fields, c *checker) {
			c.setString("title", &p.Title, f.Title)
			c.setString("url", &p.URL, f.URL)
			c.setNullableString("favicon_url", &p.FaviconURL, f.FaviconURL)
			if v, ok, _ := read(c, "tags", f.Tags, false); ok {
				p.Tags = dedupe(v)
			}
		},
		nil,
		func(p *models.Bookmark) map[string]any {
			tags := []string(p.Tags)
			if tags == nil {
				tags = []string{}
			}
			return map[string]any{
				"title":       p.Title,
				"url":         p.URL,
				"favicon_url": p.FaviconURL,
				"tags":        tags,
			}
		},
	),
	models.TypeEvent: define(models.TypeEvent, 280, 140,
		[]string{"title", "start_at", "end_at", "location", "all_day", "remind_minutes_before"},
		func(now time.Time) *models.Event {
			return &models.Event{Title: DefaultEventTitle, StartAt: now}
		},
		func(p *models.Event, f Fields, c *checker) {
			c.setString("title", &p.Title, f.Title)
			if v, ok, _ := read(c, "start_at", f.StartAt, false); ok {
				p.StartAt = v.Time
			}
			v, ok, cleared := read(c, "end_at", f.EndAt, true)
			switch {
			case ok:
				p.EndAt = &v.Time
			case cleared:
				p.EndAt = nil
			}
			c.setNullableString("location", &p.Location, f.Location)
			c.setBool("all_day", &p.AllDay, f.AllDay)
			remind, ok, cleared := read(c, "remind_minutes_before", f.RemindMinutesBefore, true)
			switch {
			case ok:
				p.RemindMinutesBefore = &remind
			case cleared:
				p.RemindMinutesBefore = nil
			}
		},
		nil,
		func(p *models.Event) map[string]any {
			return map[string]any{
				"title":                 p.Title,
				"start_at":              p.StartAt,
				"end_at":                p.EndAt,
				"location":              p.Location,
				"all_day":               p.AllDay,
				"remind_minutes_before": p.RemindMinutesBefore,
			}
		},
	),
}

// Lookup returns the definition for t or a ValidationError on the type field.
func Lookup(t models.ItemType) (Definition, error) {
	def, ok := registry[t]
	if !ok {
		return Definition{}, apperr.Invalid("type", "must be one of todo, checklist, folder, note, bookmark, event")
	}
	return def, nil
}

// New returns an empty payload model of type t, suitable as a query target.
func New(t models.ItemType) (models.Itemable, error) {
	def, err := Lookup(t)
	if err != nil {
		return nil, err
	}
	return def.newPayload(), nil
}

// Build validates f for a new payload of type t and fills in the quick-create
// defaults. The returned payload has not been persisted.
func Build(t models.ItemType, f Fields, now time.Time) (models.Itemable, error) {
	def, err := Lookup(t)
	if err != nil {
		return nil, err
	}
	c := &checker{creating: true}
	c.check(f, def.Fields)
	p := def.defaults(now)
	def.apply(p, f, c)
	def.validate(p, c)
	if err := c.errs.OrNil(); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply merges the submitted fields into p. Absent keys are left untouched,
// explicit false, zero and empty string are written, and explicit null clears
// nullable columns. p is only modified when every field validates.
func Apply(p models.Itemable, f Fields) error {
	def, err := Lookup(p.ItemType())
	if err != nil {
		return err
	}
	c := &checker{}
	c.check(f, def.Fields)
	scratch := def.clone(p)
	def.apply(scratch, f, c)
	if err := c.errs.OrNil(); err != nil {
		return err
	}
	def.assign(p, scratch)
	return nil
}

// DefaultRect resolves a create request's geometry against the type's default size.
func DefaultRect(t models.ItemType, g Geometry) (Rect, error) {
	def, err := Lookup(t)
	if err != nil {
		return Rect{}, err
	}
	if err := g.Validate(); err != nil {
		return Rect{}, err
	}
	return g.ApplyTo(Rect{Width: def.Width, Height: def.Height}), nil
}

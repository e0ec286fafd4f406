package itemable

import (
	"boardspace-backend/internal/models"
)

// BaseFields are present on every projected item.
var BaseFields = []string{"id", "type", "x", "y", "width", "height", "created_at", "updated_at"}

// Resource is the outward JSON shape of an item.
type Resource map[string]any

// Project merges the container fields with the payload's type-specific
// fields. A missing payload, a payload of the wrong type or an unknown type
// tag yields the base fields only.
func Project(item models.Item, payload models.Itemable) Resource {
	t := item.Type()
	out := Resource{
		"id":         item.ID,
		"type":       string(t),
		"x":          item.X,
		"y":          item.Y,
		"width":      item.Width,
		"height":     item.Height,
		"created_at": item.CreatedAt,
		"updated_at": item.UpdatedAt,
	}
	def, ok := registry[t]
	if !ok || payload == nil || payload.ItemType() != t {
		return out
	}
	for k, v := range def.project(payload) {
		out[k] = v
	}
	return out
}

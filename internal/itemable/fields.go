package itemable

import (
	"slices"

	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/models"
	"boardspace-backend/internal/optional"
	"boardspace-backend/internal/validation"
)

// Fields carries every type-specific field a request may submit. Fields that
// do not belong to the item's type are ignored.
type Fields struct {
	Title               optional.Field[string]                  `json:"title" validate:"omitempty,max=255"`
	Description         optional.Field[string]                  `json:"description"`
	Completed           optional.Field[bool]                    `json:"completed"`
	Items               optional.Field[[]models.ChecklistEntry] `json:"items"`
	Name                optional.Field[string]                  `json:"name" validate:"omitempty,max=255"`
	Color               optional.Field[string]                  `json:"color" validate:"omitempty,max=32"`
	Content             optional.Field[string]                  `json:"content"`
	Pinned              optional.Field[bool]                    `json:"pinned"`
	URL                 optional.Field[string]                  `json:"url"`
	FaviconURL          optional.Field[string]                  `json:"favicon_url"`
	Tags                optional.Field[[]string]                `json:"tags"`
	StartAt             optional.Field[models.DateTime]         `json:"start_at"`
	EndAt               optional.Field[models.DateTime]         `json:"end_at"`
	Location            optional.Field[string]                  `json:"location"`
	AllDay              optional.Field[bool]                    `json:"all_day"`
	RemindMinutesBefore optional.Field[int]                     `json:"remind_minutes_before" validate:"omitempty,min=0"`
}

// checker accumulates field errors for one request. On create an explicit
// null behaves like an absent key so the type default applies.
type checker struct {
	creating bool
	errs     apperr.ValidationErrors
}

// read returns the submitted value. cleared is true when a nullable field was
// explicitly nulled.
func read[T any](c *checker, name string, f optional.Field[T], nullable bool) (v T, ok bool, cleared bool) {
	if !f.Present() {
		return v, false, false
	}
	if f.Err() != nil {
		c.errs.Add(name, "has an invalid type")
		return v, false, false
	}
	if f.IsNull() {
		switch {
		case c.creating:
		case nullable:
			return v, false, true
		default:
			c.errs.Add(name, "may not be null")
		}
		return v, false, false
	}
	v, _ = f.Get()
	return v, true, false
}

// check runs the tag rules of f and keeps the failures on keys the type
// owns. Keys of other types are ignored like their values.
func (c *checker) check(f Fields, owned []string) {
	var errs apperr.ValidationErrors
	validation.Check(&errs, f)
	for _, e := range errs {
		if slices.Contains(owned, e.Field) {
			c.errs = append(c.errs, e)
		}
	}
}

func (c *checker) setString(name string, dst *string, f optional.Field[string]) {
	if v, ok, _ := read(c, name, f, false); ok {
		*dst = v
	}
}

func (c *checker) setNullableString(name string, dst **string, f optional.Field[string]) {
	v, ok, cleared := read(c, name, f, true)
	switch {
	case ok:
		*dst = &v
	case cleared:
		*dst = nil
	}
}

func (c *checker) setBool(name string, dst *bool, f optional.Field[bool]) {
	if v, ok, _ := read(c, name, f, false); ok {
		*dst = v
	}
}

// required records an error when a mandatory text field ended up blank.
func (c *checker) required(name, value string) {
	if value == "" {
		c.errs.Add(name, "is required")
	}
}

// dedupe keeps the first occurrence of every tag.
func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Empty reports whether no type-specific key was submitted at all.
func (f Fields) Empty() bool {
	return !f.Title.Present() && !f.Description.Present() && !f.Completed.Present() &&
		!f.Items.Present() && !f.Name.Present() && !f.Color.Present() &&
		!f.Content.Present() && !f.Pinned.Present() && !f.URL.Present() &&
		!f.FaviconURL.Present() && !f.Tags.Present() && !f.StartAt.Present() &&
		!f.EndAt.Present() && !f.Location.Present() && !f.AllDay.Present() &&
		!f.RemindMinutesBefore.Present()
}

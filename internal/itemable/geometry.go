package itemable

import (
	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/optional"
	"boardspace-backend/internal/validation"
)

const (
	defaultWidth  = 200
	defaultHeight = 100
)

// Geometry is the submitted position and size of an item. Items are at least
// 50 wide and 30 high.
type Geometry struct {
	X      optional.Field[int] `json:"x" validate:"omitempty,min=0"`
	Y      optional.Field[int] `json:"y" validate:"omitempty,min=0"`
	Width  optional.Field[int] `json:"width" validate:"omitempty,min=50"`
	Height optional.Field[int] `json:"height" validate:"omitempty,min=30"`
}

// Rect is a fully resolved geometry.
type Rect struct {
	X, Y, Width, Height int
}

// Validate checks the submitted values only. Absent keys are fine, null is not.
func (g Geometry) Validate() error {
	var errs apperr.ValidationErrors
	checkPresent(&errs, "x", g.X)
	checkPresent(&errs, "y", g.Y)
	checkPresent(&errs, "width", g.Width)
	checkPresent(&errs, "height", g.Height)
	validation.Check(&errs, g)
	return errs.OrNil()
}

// Empty reports whether no geometry key was submitted.
func (g Geometry) Empty() bool {
	return !g.X.Present() && !g.Y.Present() && !g.Width.Present() && !g.Height.Present()
}

// ApplyTo overwrites the submitted values on r.
func (g Geometry) ApplyTo(r Rect) Rect {
	r.X = g.X.Or(r.X)
	r.Y = g.Y.Or(r.Y)
	r.Width = g.Width.Or(r.Width)
	r.Height = g.Height.Or(r.Height)
	return r
}

// checkPresent rejects submitted keys that are null or not integers. Ranges
// are left to the struct tags.
func checkPresent(errs *apperr.ValidationErrors, name string, f optional.Field[int]) {
	switch {
	case !f.Present():
	case f.Err() != nil:
		errs.Add(name, "must be an integer")
	case f.IsNull():
		errs.Add(name, "may not be null")
	}
}

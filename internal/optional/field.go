// Package optional models request fields that can be absent, explicitly
// null, or carry a value. Partial updates only touch fields that were sent.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field is the zero value when the key was not present in the request.
type Field[T any] struct {
	set   bool
	null  bool
	value T
	err   error
}

func Of[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// Present reports whether the key was submitted, null or not.
func (f Field[T]) Present() bool { return f.set }

// IsNull reports whether the key was submitted with an explicit null.
func (f Field[T]) IsNull() bool { return f.set && f.null }

// HasValue reports whether the key was submitted with a usable non-null value.
func (f Field[T]) HasValue() bool { return f.set && !f.null && f.err == nil }

// Err returns the decode error when the submitted value had the wrong JSON type.
// Such a field is present but carries no value.
func (f Field[T]) Err() error { return f.err }

// Get returns the value and whether one was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.HasValue()
}

// Or returns the value if one was supplied, fallback otherwise.
func (f Field[T]) Or(fallback T) T {
	if f.HasValue() {
		return f.value
	}
	return fallback
}

// Ptr returns nil for absent or null, a pointer to a copy of the value otherwise.
func (f Field[T]) Ptr() *T {
	if !f.HasValue() {
		return nil
	}
	v := f.value
	return &v
}

// UnmarshalJSON is only invoked by encoding/json for keys that are present,
// which is what distinguishes "absent" from "null".
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	f.null = false
	if err := json.Unmarshal(data, &f.value); err != nil {
		var zero T
		f.value = zero
		f.err = err
	}
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.HasValue() {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

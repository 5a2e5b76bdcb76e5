// Package opt provides a presence-aware value for partial updates.
package opt

import (
	"bytes"
	"encoding/json"
)

// Field holds a value that is either present or absent. A JSON field that is
// missing or null decodes to an absent Field.
type Field[T any] struct {
	value T
	set   bool
}

// Some returns a present Field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// None returns an absent Field.
func None[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// IsSet reports whether the value is present.
func (f Field[T]) IsSet() bool {
	return f.set
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (f Field[T]) Ptr() *T {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

// ValidationValue is the value seen by struct validators: a nil pointer when
// absent, a pointer to the value otherwise.
func (f Field[T]) ValidationValue() any {
	return f.Ptr()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Field[T]{}
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Some(v)
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

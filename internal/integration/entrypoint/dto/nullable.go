package dto

import (
	"bytes"
	"encoding/json"
)

// Nullable distinguishes an omitted JSON field from an explicit null.
// Set is true when the key was present; Value is nil when it was null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Clears reports whether the field was explicitly set to null.
func (n Nullable[T]) Clears() bool {
	return n.Set && n.Value == nil
}

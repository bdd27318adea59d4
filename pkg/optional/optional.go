// Package optional models PATCH fields that distinguish "absent", "explicit null" and "value".
package optional

import (
	"bytes"
	"encoding/json"
)

type Value[T any] struct {
	set   bool
	null  bool
	value T
}

func Of[T any](value T) Value[T] {
	return Value[T]{set: true, value: value}
}

func Null[T any]() Value[T] {
	return Value[T]{set: true, null: true}
}

func (v Value[T]) IsSet() bool {
	return v.set
}

func (v Value[T]) IsNull() bool {
	return v.set && v.null
}

// Get reports the value and whether a non-null value was supplied.
func (v Value[T]) Get() (T, bool) {
	if !v.set || v.null {
		var zero T
		return zero, false
	}
	return v.value, true
}

// Apply writes the supplied value into dst: nil for null, untouched when absent.
func (v Value[T]) Apply(dst **T) {
	if !v.set {
		return
	}
	if v.null {
		*dst = nil
		return
	}
	value := v.value
	*dst = &value
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.null = true
		var zero T
		v.value = zero
		return nil
	}
	v.null = false
	return json.Unmarshal(data, &v.value)
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.set || v.null {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}

package util

import "encoding/json"

// Optional is a tri-state update field: absent from the payload (Set is
// false), explicitly null (Null is true, meaning "clear this field"), or
// carrying a value. Plain pointer DTO fields cannot tell the first two
// apart.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// HasValue reports whether the field was sent with a concrete value.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

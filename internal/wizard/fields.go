package wizard

import (
	"encoding/json"
	"fmt"
)

// FieldSetter writes value into form. Value is either the Go type of the field or raw JSON.
type FieldSetter[T any] func(form *T, value interface{}) error

// Field builds a setter for a field of type V reached through ref.
func Field[T any, V any](ref func(form *T) *V) FieldSetter[T] {
	return func(form *T, value interface{}) error {
		switch v := value.(type) {
		case V:
			*ref(form) = v
			return nil
		case json.RawMessage:
			return decodeInto(ref(form), v)
		case []byte:
			return decodeInto(ref(form), v)
		default:
			var zero V
			return fmt.Errorf("%w: got %T, want %T", ErrInvalidValue, value, zero)
		}
	}
}

func decodeInto[V any](dst *V, raw []byte) error {
	var out V
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	*dst = out
	return nil
}

package model

import (
	"bytes"
	"encoding/json"
)

// Optional is a patch field for a nullable column.  Set records that the
// key was present in the request body; Value is nil for an explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set field holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: &v} }

// Null returns a set field that clears the column.
func Null[T any]() Optional[T] { return Optional[T]{Set: true} }

// UnmarshalJSON is only invoked for keys present in the body, which is
// what distinguishes {"memo": null} from {}.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

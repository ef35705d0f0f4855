package models

import (
	"bytes"
	"encoding/json"
)

// List is a multi-valued record field. An empty list is encoded as JSON null,
// never as [].
type List[T any] []T

func (l List[T]) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal([]T(l))
}

func (l *List[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*l = nil
		return nil
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		items = nil
	}
	*l = items
	return nil
}

// Column returns the JSON encoding stored in the database, nil for an empty list.
func (l List[T]) Column() ([]byte, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal([]T(l))
}

package storage

import (
	"context"
	"io"
)

// Object is one archived file.
type Object struct {
	Name        string
	Body        io.Reader
	ContentType string
	// Metadata is attached to the object as custom metadata.
	Metadata map[string]string
}

// ObjectStore writes archived objects, overwriting an existing name.
type ObjectStore interface {
	Put(ctx context.Context, obj Object) error
}

package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by GetObject when no object exists at the
// requested key.
var ErrObjectNotFound = errors.New("object not found")

type Object struct {
	Name string
	Size int64
}

// ObjectStore is the single-bucket blob interface backing uploaded media,
// mirrored illustrations, and job records.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data io.Reader) error

	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	DeleteObjects(ctx context.Context, prefix string) error

	ListObjects(ctx context.Context, prefix string) ([]Object, error)
}

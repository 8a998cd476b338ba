package storage

import (
	"context"
	"errors"
)

/*
The storage provider interface describes the operations the footer fetch path
needs from persistent storage: ranged reads and object sizes, as supported by
any popular object storage implementation. Footers sit at the tail of large
objects, so reads are always ranged; nothing here ever fetches a whole object.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrObjectNotFound is returned when an object is not found.
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidRange is returned when a requested range falls outside an object.
var ErrInvalidRange = errors.New("invalid range")

// Provider is the interface for a storage provider.
type Provider interface {
	Put(ctx context.Context, id string, data []byte) error
	GetRange(ctx context.Context, id string, offset int64, length int) ([]byte, error)
	Size(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
	String() string
}

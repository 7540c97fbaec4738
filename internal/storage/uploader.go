// Package storage uploads binary objects (product images) to the
// hosted object store and resolves their public URLs.
package storage

import (
	"context"
	"io"
)

// ProgressFunc receives the number of bytes sent so far.
type ProgressFunc func(sent int64)

type Uploader interface {
	// Upload stores the object under path and returns its publicly
	// resolvable URL. progress may be nil.
	Upload(ctx context.Context, path, contentType string, r io.Reader, size int64, progress ProgressFunc) (string, error)
}

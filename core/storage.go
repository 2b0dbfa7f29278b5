package core

import (
	"context"
	"io"
)

// FileStorage is any service that can store uploaded content files and serve
// them back by URL. Implementations own key layout and URL scheme; callers
// only ever hold on to the returned URL.
type FileStorage interface {
	// Store writes the file under the given key and returns its public URL.
	Store(ctx context.Context, key string, r io.Reader) (string, error)
	// Retrieve opens the file previously stored under the given URL.
	Retrieve(ctx context.Context, url string) (io.ReadCloser, error)
	// Delete removes the file previously stored under the given URL.
	// Deleting an unknown URL is not an error.
	Delete(ctx context.Context, url string) error
}

package objectstore

import (
	"context"
	"io"
)

// PutInput describes an upload (resume PDF, company logo).
type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

// PutResult carries the stored object key and its public URL, which is what
// ends up on application and company rows.
type PutResult struct {
	Key string
	URL string
}

// Store abstracts the external blob storage the API delegates uploads to.
type Store interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

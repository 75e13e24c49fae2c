package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes uploads to a local directory. Development fallback when
// no bucket is configured.
type LocalStore struct {
	baseDir   string
	urlPrefix string
}

func NewLocalStore(baseDir, urlPrefix string) *LocalStore {
	return &LocalStore{
		baseDir:   baseDir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

func (l *LocalStore) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	key := uuid.NewString() + ext

	if err := os.MkdirAll(l.baseDir, 0o755); err != nil {
		return PutResult{}, fmt.Errorf("failed to create upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(l.baseDir, key))
	if err != nil {
		return PutResult{}, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return PutResult{}, fmt.Errorf("failed to write upload: %w", err)
	}

	return PutResult{Key: key, URL: l.urlPrefix + "/" + key}, nil
}

func (l *LocalStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(l.baseDir, filepath.Base(key))); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

package kv

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// DocumentRepository stores every key as its own object <baseURL>/<key>.json
// on any afs-supported file system (file://, mem://, ...).
type DocumentRepository struct {
	baseURL string
	fs      afs.Service
	mu      sync.Mutex
}

// NewDocumentRepository returns a repository rooted at baseURL. A nil fs
// uses afs.New().
func NewDocumentRepository(fs afs.Service, baseURL string) *DocumentRepository {
	if fs == nil {
		fs = afs.New()
	}
	return &DocumentRepository{baseURL: baseURL, fs: fs}
}

func (r *DocumentRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(ctx, key)
}

func (r *DocumentRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set(ctx, key, value)
}

func (r *DocumentRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.objectURL(key)
	exists, err := r.fs.Exists(ctx, u)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", u, err)
	}
	if !exists {
		return nil
	}
	if err := r.fs.Delete(ctx, u); err != nil {
		return fmt.Errorf("failed to delete %s: %w", u, err)
	}
	return nil
}

// Update holds the repository lock across read and write. It does not guard
// against other processes writing the same object.
func (r *DocumentRepository) Update(ctx context.Context, key string, fn UpdateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, err := r.get(ctx, key)
	if err != nil {
		return err
	}
	value, err := fn(old)
	if err != nil {
		return err
	}
	return r.set(ctx, key, value)
}

func (r *DocumentRepository) get(ctx context.Context, key string) ([]byte, error) {
	u := r.objectURL(key)
	exists, err := r.fs.Exists(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", u, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := r.fs.DownloadWithURL(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u, err)
	}
	return data, nil
}

func (r *DocumentRepository) set(ctx context.Context, key string, value []byte) error {
	u := r.objectURL(key)
	if err := r.fs.Upload(ctx, u, file.DefaultFileOsMode, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", u, err)
	}
	return nil
}

func (r *DocumentRepository) objectURL(key string) string {
	return url.Join(r.baseURL, key+".json")
}

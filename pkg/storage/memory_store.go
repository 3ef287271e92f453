package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"estately/pkg/domain"
)

// MemoryMediaStore keeps asset IDs in-process. It backs tests without a
// MinIO instance while preserving the upload contract: the local temp file
// is consumed either way.
type MemoryMediaStore struct {
	mu      sync.Mutex
	objects map[string]struct{}
}

// NewMemoryMediaStore initializes an empty in-memory media store.
func NewMemoryMediaStore() *MemoryMediaStore {
	return &MemoryMediaStore{objects: make(map[string]struct{})}
}

// UploadImage records an image asset and removes the local file.
func (m *MemoryMediaStore) UploadImage(ctx context.Context, localPath string) (domain.Asset, error) {
	return m.upload("images", localPath)
}

// UploadVideo records a video asset and removes the local file.
func (m *MemoryMediaStore) UploadVideo(ctx context.Context, localPath string) (domain.Asset, error) {
	return m.upload("videos", localPath)
}

func (m *MemoryMediaStore) upload(prefix, localPath string) (domain.Asset, error) {
	defer os.Remove(localPath)
	if _, err := os.Stat(localPath); err != nil {
		return domain.Asset{}, fmt.Errorf("read upload: %w", err)
	}
	key := path.Join(prefix, uuid.NewString()+filepath.Ext(localPath))
	m.mu.Lock()
	m.objects[key] = struct{}{}
	m.mu.Unlock()
	return domain.Asset{URL: "memory://" + key, ID: key}, nil
}

// DeleteImage removes a recorded image asset.
func (m *MemoryMediaStore) DeleteImage(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.objects, id)
	m.mu.Unlock()
	return nil
}

// DeleteVideo removes a recorded video asset.
func (m *MemoryMediaStore) DeleteVideo(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.objects, id)
	m.mu.Unlock()
	return nil
}

// Has reports whether an asset is currently stored.
func (m *MemoryMediaStore) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[id]
	return ok
}

// Count returns the number of stored assets.
func (m *MemoryMediaStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

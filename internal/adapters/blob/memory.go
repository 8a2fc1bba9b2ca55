package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"pet-care-manager/internal/ports/blobstore"
)

type memObject struct {
	data []byte
	info blobstore.Info
}

// Memory guarda blobs en un map. Para tests y modo dev sin disco.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{objects: map[string]memObject{}, now: time.Now}
}

func (m *Memory) Driver() blobstore.Driver { return blobstore.DriverMemory }

func (m *Memory) Put(_ context.Context, key string, r io.Reader, opts blobstore.PutOptions) (blobstore.Info, error) {
	k, err := cleanKey(key)
	if err != nil {
		return blobstore.Info{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return blobstore.Info{}, fmt.Errorf("memory blob read: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[k]; ok {
		return blobstore.Info{}, blobstore.ErrExists
	}
	info := blobstore.Info{Key: k, Size: int64(len(data)), ContentType: opts.ContentType, LastModified: m.now().UTC()}
	m.objects[k] = memObject{data: data, info: info}
	return info, nil
}

func (m *Memory) Get(_ context.Context, key string) (blobstore.Info, io.ReadCloser, error) {
	k, err := cleanKey(key)
	if err != nil {
		return blobstore.Info{}, nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[k]
	if !ok {
		return blobstore.Info{}, nil, blobstore.ErrNotFound
	}
	return obj.info, io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *Memory) Head(_ context.Context, key string) (blobstore.Info, error) {
	k, err := cleanKey(key)
	if err != nil {
		return blobstore.Info{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[k]
	if !ok {
		return blobstore.Info{}, blobstore.ErrNotFound
	}
	return obj.info, nil
}

func (m *Memory) Delete(_ context.Context, key string) (bool, error) {
	k, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[k]
	delete(m.objects, k)
	return ok, nil
}

// Len es útil en tests para verificar limpieza de adjuntos.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mulgadc/arenawire/types"
)

type MemoryConfig struct {
	Namespace string
}

// Backend keeps objects in a map. Useful for tests and for processes that
// only need the store as an in-memory message cache.
type Backend struct {
	config MemoryConfig

	mu      sync.RWMutex
	objects map[string][]byte
}

func New(config any) (backend *Backend) {
	cfg, _ := config.(MemoryConfig)
	return &Backend{config: cfg, objects: make(map[string][]byte)}
}

func (backend *Backend) Init() error { return nil }
func (backend *Backend) Sync()       {}

func (backend *Backend) Read(ctx context.Context, fileType types.FileType, objectId uint64, offset uint32, length uint32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := types.GetFilePath(fileType, objectId, backend.config.Namespace)

	backend.mu.RLock()
	obj, ok := backend.objects[key]
	backend.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", key, types.ErrObjectNotFound)
	}

	end := uint64(len(obj))
	if length > 0 {
		end = uint64(offset) + uint64(length)
	}
	if uint64(offset) > uint64(len(obj)) || end > uint64(len(obj)) {
		return nil, fmt.Errorf("%s: range %d+%d beyond object size %d", key, offset, length, len(obj))
	}

	data := make([]byte, end-uint64(offset))
	copy(data, obj[offset:end])
	return data, nil
}

func (backend *Backend) Write(ctx context.Context, fileType types.FileType, objectId uint64, headers *[]byte, data *[]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := types.GetFilePath(fileType, objectId, backend.config.Namespace)

	var body []byte
	if headers != nil {
		body = append(body, *headers...)
	}
	if data != nil {
		body = append(body, *data...)
	}

	backend.mu.Lock()
	backend.objects[key] = body
	backend.mu.Unlock()
	return nil
}

func (backend *Backend) Delete(ctx context.Context, fileType types.FileType, objectId uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := types.GetFilePath(fileType, objectId, backend.config.Namespace)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if _, ok := backend.objects[key]; !ok {
		return fmt.Errorf("%s: %w", key, types.ErrObjectNotFound)
	}
	delete(backend.objects, key)
	return nil
}

func (backend *Backend) GetNamespace() string   { return backend.config.Namespace }
func (backend *Backend) GetBackendType() string { return "memory" }
func (backend *Backend) GetHost() string        { return "" }

func (backend *Backend) SetConfig(config any) {
	backend.config = config.(MemoryConfig)
}

// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mulgadc/arenawire/types"
)

type FileConfig struct {
	BaseDir   string
	Namespace string
}

type FileBackend struct {
	config FileConfig
}

type Backend struct {
	FileBackend
}

func New(config any) (backend *Backend) {
	return &Backend{FileBackend: FileBackend{config: config.(FileConfig)}}
}

func (backend *Backend) Init() error {

	slog.Info("Init for file backend", "baseDir", backend.config.BaseDir, "namespace", backend.config.Namespace)

	// Check if the directory exists
	if _, err := os.Stat(backend.config.BaseDir); os.IsNotExist(err) {
		slog.Error("Directory does not exist", "error", err)
		return err
	}

	return nil
}

func (backend *Backend) path(fileType types.FileType, objectId uint64) string {
	return filepath.Join(backend.config.BaseDir, filepath.FromSlash(types.GetFilePath(fileType, objectId, backend.config.Namespace)))
}

func (backend *Backend) Read(ctx context.Context, fileType types.FileType, objectId uint64, offset uint32, length uint32) (data []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filename := backend.path(fileType, objectId)

	// Whole-object reads are used for state and message frames
	if length == 0 {
		data, err = os.ReadFile(filename)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", filename, types.ErrObjectNotFound)
		}
		return data, err
	}

	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", filename, types.ErrObjectNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data = make([]byte, length)
	n, err := f.ReadAt(data, int64(offset))
	if err != nil && !(errors.Is(err, io.EOF) && n == len(data)) {
		return nil, err
	}

	return data, nil
}

func (backend *Backend) Write(ctx context.Context, fileType types.FileType, objectId uint64, headers *[]byte, data *[]byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	filename := backend.path(fileType, objectId)

	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		slog.Error("Failed to create object directory", "error", err)
		return err
	}

	// Write to a temp file first so readers never see a partial object
	tmp := filename + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		slog.Error("Failed to create object file", "error", err)
		return err
	}

	if headers != nil {
		if _, err = file.Write(*headers); err != nil {
			file.Close()
			return err
		}
	}
	if data != nil {
		if _, err = file.Write(*data); err != nil {
			file.Close()
			return err
		}
	}

	if err = file.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, filename)
}

func (backend *Backend) Delete(ctx context.Context, fileType types.FileType, objectId uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filename := backend.path(fileType, objectId)
	err := os.Remove(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", filename, types.ErrObjectNotFound)
	}
	return err
}

func (backend *Backend) Sync() {
}

func (backend *Backend) GetNamespace() string {
	return backend.config.Namespace
}

func (backend *Backend) GetBackendType() string {
	return "file"
}

func (backend *Backend) SetConfig(config any) {
	backend.config = config.(FileConfig)
}

func (backend *Backend) GetHost() string {
	return ""
}

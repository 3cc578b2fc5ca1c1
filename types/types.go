// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package types

import (
	"context"
	"errors"
	"fmt"
)

// ErrObjectNotFound is returned by backends when a key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// FileType selects the key layout of an object on a backend.
type FileType uint8

const (
	// FileTypeMessage is a framed arena payload
	FileTypeMessage FileType = iota
	// FileTypeState is the JSON store state
	FileTypeState
	// FileTypeSnapshot is a frozen copy of the state
	FileTypeSnapshot
)

func (f FileType) String() string {
	switch f {
	case FileTypeMessage:
		return "message"
	case FileTypeState:
		return "state"
	case FileTypeSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// GetFilePath returns the backend key of an object within a namespace.
func GetFilePath(fileType FileType, objectId uint64, namespace string) string {
	switch fileType {
	case FileTypeState:
		return fmt.Sprintf("%s/state.json", namespace)
	case FileTypeSnapshot:
		return fmt.Sprintf("%s/snapshots/snap.%08d.json", namespace, objectId)
	default:
		return fmt.Sprintf("%s/messages/msg.%016d.bin", namespace, objectId)
	}
}

// Backend stores opaque objects for the message store.
type Backend interface {
	Init() error
	// Read returns length bytes at offset, or the whole object if length is 0.
	Read(ctx context.Context, fileType FileType, objectId uint64, offset uint32, length uint32) (data []byte, err error)
	Write(ctx context.Context, fileType FileType, objectId uint64, headers *[]byte, data *[]byte) (err error)
	Delete(ctx context.Context, fileType FileType, objectId uint64) error
	Sync()
	GetNamespace() string
	GetBackendType() string
	GetHost() string
	SetConfig(config any)
}

// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mulgadc/arenawire/arena"
	"github.com/mulgadc/arenawire/types"
)

// DefaultCacheSize is the number of persisted frames kept in memory.
const DefaultCacheSize = 128

// stateObjectID is the backend object id of the state file.
const stateObjectID = 0

var (
	ErrNotFound      = errors.New("message not found")
	ErrEmptyMessage  = errors.New("message arena is empty")
	ErrStateMismatch = errors.New("state file does not match store")
)

type Config struct {
	// CacheSize is the LRU capacity in frames
	CacheSize int
}

// State is the persisted catalogue of messages on the backend.
type State struct {
	Version   uint16
	Namespace string
	SeqNum    uint64
	SnapNum   uint64
	Messages  []StateMessage
}

type StateMessage struct {
	ID  uint64
	Tag uint16
}

// Stats is a snapshot of the store counters.
type Stats struct {
	Puts         uint64
	Gets         uint64
	HotReads     uint64
	CacheHits    uint64
	BackendReads uint64
	Flushed      uint64
	Deletes      uint64

	Hot       int
	Persisted int
}

type storeStats struct {
	puts         atomic.Uint64
	gets         atomic.Uint64
	hotReads     atomic.Uint64
	cacheHits    atomic.Uint64
	backendReads atomic.Uint64
	flushed      atomic.Uint64
	deletes      atomic.Uint64
}

// MessageStore keeps sliced arena payloads, framed with their schema tag.
// New messages stay in memory until Flush writes them to the backend;
// reads return frozen arenas that can be shared between goroutines.
type MessageStore struct {
	Backend types.Backend

	index   *Index
	cache   *lru.Cache[uint64, []byte]
	snapNum atomic.Uint64

	stats storeStats
}

func New(cfg Config, backend types.Backend) (*MessageStore, error) {
	if backend == nil {
		return nil, errors.New("store: nil backend")
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}

	cache, err := lru.New[uint64, []byte](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &MessageStore{
		Backend: backend,
		index:   NewIndex(),
		cache:   cache,
	}, nil
}

// Put copies the used part of a into a new Hot message and returns its id.
// a may be reset or reused once Put returns.
func (ms *MessageStore) Put(ctx context.Context, tag uint16, a *arena.Arena) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if a.Len() <= arena.RootSize {
		return 0, ErrEmptyMessage
	}

	frame, err := EncodeFrame(tag, a.SlicedBuffer())
	if err != nil {
		return 0, err
	}

	id := ms.index.Add(tag, frame)
	ms.stats.puts.Add(1)
	return id, nil
}

// Flush writes every Hot message to the backend. Messages that fail to
// write stay Hot and the first error is returned.
func (ms *MessageStore) Flush(ctx context.Context) error {
	hot := ms.index.ByState(MessageStateHot)
	if len(hot) == 0 {
		return nil
	}

	var firstErr error
	flushed := 0
	for _, entry := range hot {
		if err := ctx.Err(); err != nil {
			return err
		}

		headers := entry.Frame[:FrameHeaderSize]
		payload := entry.Frame[FrameHeaderSize:]
		if err := ms.Backend.Write(ctx, types.FileTypeMessage, entry.ID, &headers, &payload); err != nil {
			slog.Error("Flush: could not write message", "id", entry.ID, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("flush message %d: %w", entry.ID, err)
			}
			continue
		}

		if ms.index.MarkPersisted(entry.ID) {
			ms.cache.Add(entry.ID, entry.Frame)
			flushed++
		}
	}

	ms.Backend.Sync()
	ms.stats.flushed.Add(uint64(flushed))
	slog.Info("Flushed messages", "count", flushed, "backend", ms.Backend.GetBackendType())

	return firstErr
}

// Get returns message id as a read-only arena along with its schema tag.
func (ms *MessageStore) Get(ctx context.Context, id uint64) (*arena.Arena, uint16, error) {
	ms.stats.gets.Add(1)

	entry, ok := ms.index.Lookup(id)
	if !ok {
		return nil, 0, fmt.Errorf("message %d: %w", id, ErrNotFound)
	}

	var frame []byte
	switch entry.State {
	case MessageStateHot:
		ms.stats.hotReads.Add(1)
		frame = entry.Frame
	case MessageStatePersisted:
		if cached, ok := ms.cache.Get(id); ok {
			ms.stats.cacheHits.Add(1)
			frame = cached
			break
		}

		data, err := ms.Backend.Read(ctx, types.FileTypeMessage, id, 0, 0)
		if errors.Is(err, types.ErrObjectNotFound) {
			return nil, 0, fmt.Errorf("message %d: %w", id, ErrNotFound)
		}
		if err != nil {
			slog.Error("Get: backend read failed", "id", id, "error", err)
			return nil, 0, err
		}
		ms.stats.backendReads.Add(1)
		frame = data
	default:
		return nil, 0, fmt.Errorf("message %d in state %s: %w", id, entry.State, ErrNotFound)
	}

	tag, payload, err := DecodeFrame(frame)
	if err != nil {
		return nil, 0, fmt.Errorf("message %d: %w", id, err)
	}
	if tag != entry.Tag {
		return nil, 0, fmt.Errorf("message %d: frame tag %d, index tag %d: %w", id, tag, entry.Tag, ErrStateMismatch)
	}
	if entry.State == MessageStatePersisted {
		ms.cache.Add(id, frame)
	}

	a, err := arena.FromBytes(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("message %d: %w", id, err)
	}
	return a, tag, nil
}

// Delete removes message id from memory and, once persisted, the backend.
func (ms *MessageStore) Delete(ctx context.Context, id uint64) error {
	entry, ok := ms.index.Remove(id)
	if !ok {
		return fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	ms.cache.Remove(id)
	ms.stats.deletes.Add(1)

	if entry.State != MessageStatePersisted {
		return nil
	}
	err := ms.Backend.Delete(ctx, types.FileTypeMessage, id)
	if err != nil && !errors.Is(err, types.ErrObjectNotFound) {
		slog.Error("Delete: backend delete failed", "id", id, "error", err)
		return err
	}
	return nil
}

func (ms *MessageStore) Stats() Stats {
	counts := ms.index.CountByState()
	return Stats{
		Puts:         ms.stats.puts.Load(),
		Gets:         ms.stats.gets.Load(),
		HotReads:     ms.stats.hotReads.Load(),
		CacheHits:    ms.stats.cacheHits.Load(),
		BackendReads: ms.stats.backendReads.Load(),
		Flushed:      ms.stats.flushed.Load(),
		Deletes:      ms.stats.deletes.Load(),
		Hot:          counts[MessageStateHot],
		Persisted:    counts[MessageStatePersisted],
	}
}

// SaveState writes the catalogue of persisted messages to the backend.
// Hot messages are not included; call Flush first.
func (ms *MessageStore) SaveState(ctx context.Context) error {
	state := State{
		Version:   FrameVersion,
		Namespace: ms.Backend.GetNamespace(),
		SeqNum:    ms.index.SeqNum(),
		SnapNum:   ms.snapNum.Load(),
	}
	for _, entry := range ms.index.ByState(MessageStatePersisted) {
		state.Messages = append(state.Messages, StateMessage{ID: entry.ID, Tag: entry.Tag})
	}

	jsonData, err := json.Marshal(state)
	if err != nil {
		return err
	}

	if err := ms.Backend.Write(ctx, types.FileTypeState, stateObjectID, nil, &jsonData); err != nil {
		slog.Error("SaveState: write failed", "error", err)
		return err
	}
	return nil
}

// LoadState reads the catalogue written by SaveState and registers every
// listed message as persisted. A missing state file returns an error
// wrapping types.ErrObjectNotFound.
func (ms *MessageStore) LoadState(ctx context.Context) error {
	jsonData, err := ms.Backend.Read(ctx, types.FileTypeState, stateObjectID, 0, 0)
	if err != nil {
		return err
	}

	var state State
	if err := json.Unmarshal(jsonData, &state); err != nil {
		return fmt.Errorf("parse state: %w", err)
	}
	if state.Version != FrameVersion {
		return fmt.Errorf("state version %d: %w", state.Version, ErrUnsupportedVersion)
	}
	if state.Namespace != ms.Backend.GetNamespace() {
		return fmt.Errorf("state namespace %q, backend %q: %w", state.Namespace, ms.Backend.GetNamespace(), ErrStateMismatch)
	}

	for _, m := range state.Messages {
		ms.index.SetPersisted(m.ID, m.Tag)
	}
	ms.index.RaiseSeqNum(state.SeqNum)
	if state.SnapNum > ms.snapNum.Load() {
		ms.snapNum.Store(state.SnapNum)
	}

	slog.Info("Loaded store state", "messages", len(state.Messages), "seqNum", state.SeqNum)
	return nil
}

// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mulgadc/arenawire/types"
)

// SnapshotState is a frozen catalogue of persisted messages. No message
// data is copied; the snapshot references the store's existing objects.
type SnapshotState struct {
	SnapshotID   uint64         `json:"SnapshotID"`
	Namespace    string         `json:"Namespace"`
	SeqNum       uint64         `json:"SeqNum"`
	MessageCount int            `json:"MessageCount"`
	Messages     []StateMessage `json:"Messages"`
	CreatedAt    time.Time      `json:"CreatedAt"`
}

// CreateSnapshot flushes Hot messages and records every persisted message
// under a new snapshot id.
func (ms *MessageStore) CreateSnapshot(ctx context.Context) (*SnapshotState, error) {
	if err := ms.Flush(ctx); err != nil {
		return nil, fmt.Errorf("snapshot flush failed: %w", err)
	}

	snap := &SnapshotState{
		SnapshotID: ms.snapNum.Add(1),
		Namespace:  ms.Backend.GetNamespace(),
		SeqNum:     ms.index.SeqNum(),
		CreatedAt:  time.Now().UTC(),
	}
	for _, entry := range ms.index.ByState(MessageStatePersisted) {
		snap.Messages = append(snap.Messages, StateMessage{ID: entry.ID, Tag: entry.Tag})
	}
	snap.MessageCount = len(snap.Messages)

	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot state: %w", err)
	}
	if err := ms.Backend.Write(ctx, types.FileTypeSnapshot, snap.SnapshotID, nil, &snapJSON); err != nil {
		return nil, fmt.Errorf("failed to write snapshot %d: %w", snap.SnapshotID, err)
	}

	slog.Info("CreateSnapshot: complete", "snapshotID", snap.SnapshotID, "messages", snap.MessageCount)
	return snap, nil
}

// LoadSnapshot reads and validates a snapshot without changing the store.
func (ms *MessageStore) LoadSnapshot(ctx context.Context, snapshotID uint64) (*SnapshotState, error) {
	data, err := ms.Backend.Read(ctx, types.FileTypeSnapshot, snapshotID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %d: %w", snapshotID, err)
	}

	var snap SnapshotState
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %d: %w", snapshotID, err)
	}
	if snap.SnapshotID != snapshotID || snap.Namespace != ms.Backend.GetNamespace() {
		return nil, fmt.Errorf("snapshot %d in %q: %w", snap.SnapshotID, snap.Namespace, ErrStateMismatch)
	}
	if snap.MessageCount != len(snap.Messages) {
		return nil, fmt.Errorf("snapshot message count mismatch: metadata says %d, catalogue has %d: %w",
			snap.MessageCount, len(snap.Messages), ErrStateMismatch)
	}

	return &snap, nil
}

// RestoreSnapshot replaces the catalogue with the one recorded in the
// snapshot. Messages added since are dropped from the index but their
// objects stay on the backend, and ids keep increasing past them.
// Messages deleted since the snapshot stay missing.
func (ms *MessageStore) RestoreSnapshot(ctx context.Context, snapshotID uint64) error {
	snap, err := ms.LoadSnapshot(ctx, snapshotID)
	if err != nil {
		return err
	}

	ms.index.Clear()
	ms.cache.Purge()
	for _, m := range snap.Messages {
		ms.index.SetPersisted(m.ID, m.Tag)
	}
	ms.index.RaiseSeqNum(snap.SeqNum)

	slog.Info("RestoreSnapshot: catalogue replaced", "snapshotID", snapshotID, "messages", snap.MessageCount)
	return nil
}

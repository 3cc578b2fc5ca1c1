// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package store

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
)

// MessageState is the lifecycle state of a message in the index.
type MessageState uint8

const (
	// MessageStateEmpty is never stored; it is returned for unknown ids
	MessageStateEmpty MessageState = iota
	// MessageStateHot holds the frame in memory, not yet on the backend
	MessageStateHot
	// MessageStatePersisted means the frame lives on the backend only
	MessageStatePersisted
)

func (s MessageState) String() string {
	switch s {
	case MessageStateEmpty:
		return "Empty"
	case MessageStateHot:
		return "Hot"
	case MessageStatePersisted:
		return "Persisted"
	default:
		return "Unknown"
	}
}

// MessageEntry is the index record of one stored message.
type MessageEntry struct {
	ID    uint64
	Tag   uint16
	State MessageState
	Frame []byte // Hot only
}

type indexShard struct {
	mu      sync.RWMutex
	entries map[uint64]*MessageEntry
}

const (
	// NumShards is the number of index shards (must be power of 2)
	NumShards = 16
	// ShardMask is used for fast modulo (NumShards - 1)
	ShardMask = NumShards - 1
)

// Index maps message ids to their state with per-shard locking, so
// concurrent Put and Get calls on different ids rarely contend.
type Index struct {
	shards [NumShards]*indexShard
	seqNum atomic.Uint64
}

func NewIndex() *Index {
	idx := &Index{}
	for i := 0; i < NumShards; i++ {
		idx.shards[i] = &indexShard{entries: make(map[uint64]*MessageEntry)}
	}
	return idx
}

func (idx *Index) getShard(id uint64) *indexShard {
	return idx.shards[id&ShardMask]
}

// Add assigns the next id to frame and stores it Hot.
func (idx *Index) Add(tag uint16, frame []byte) uint64 {
	id := idx.seqNum.Add(1)
	shard := idx.getShard(id)

	shard.mu.Lock()
	shard.entries[id] = &MessageEntry{ID: id, Tag: tag, State: MessageStateHot, Frame: frame}
	shard.mu.Unlock()

	return id
}

// Lookup returns a copy of the entry for id.
func (idx *Index) Lookup(id uint64) (MessageEntry, bool) {
	shard := idx.getShard(id)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	entry, ok := shard.entries[id]
	if !ok {
		return MessageEntry{}, false
	}
	return *entry, true
}

// MarkPersisted moves a Hot entry to Persisted and releases its frame.
func (idx *Index) MarkPersisted(id uint64) bool {
	shard := idx.getShard(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	entry, ok := shard.entries[id]
	if !ok || entry.State != MessageStateHot {
		return false
	}
	entry.State = MessageStatePersisted
	entry.Frame = nil
	return true
}

// SetPersisted records a message already on the backend. Used when
// loading state.
func (idx *Index) SetPersisted(id uint64, tag uint16) {
	shard := idx.getShard(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if entry, ok := shard.entries[id]; ok && entry.State == MessageStateHot {
		return
	}
	shard.entries[id] = &MessageEntry{ID: id, Tag: tag, State: MessageStatePersisted}
}

// ByState returns the entries in state, ordered by id.
func (idx *Index) ByState(state MessageState) []MessageEntry {
	var entries []MessageEntry

	for i := 0; i < NumShards; i++ {
		shard := idx.shards[i]
		shard.mu.RLock()
		for _, entry := range shard.entries {
			if entry.State == state {
				entries = append(entries, *entry)
			}
		}
		shard.mu.RUnlock()
	}

	slices.SortFunc(entries, func(a, b MessageEntry) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return entries
}

// CountByState returns the number of entries in each state.
func (idx *Index) CountByState() map[MessageState]int {
	counts := make(map[MessageState]int)

	for i := 0; i < NumShards; i++ {
		shard := idx.shards[i]
		shard.mu.RLock()
		for _, entry := range shard.entries {
			counts[entry.State]++
		}
		shard.mu.RUnlock()
	}

	return counts
}

// Remove deletes id and returns the entry it held.
func (idx *Index) Remove(id uint64) (MessageEntry, bool) {
	shard := idx.getShard(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	entry, ok := shard.entries[id]
	if !ok {
		return MessageEntry{}, false
	}
	delete(shard.entries, id)
	return *entry, true
}

// Clear removes all entries. The sequence is kept so ids are never reused.
func (idx *Index) Clear() {
	for i := 0; i < NumShards; i++ {
		shard := idx.shards[i]
		shard.mu.Lock()
		shard.entries = make(map[uint64]*MessageEntry)
		shard.mu.Unlock()
	}
}

// SeqNum returns the last assigned id.
func (idx *Index) SeqNum() uint64 {
	return idx.seqNum.Load()
}

// RaiseSeqNum moves the sequence forward to at least seqNum.
func (idx *Index) RaiseSeqNum(seqNum uint64) {
	for {
		cur := idx.seqNum.Load()
		if cur >= seqNum || idx.seqNum.CompareAndSwap(cur, seqNum) {
			return
		}
	}
}

// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package arena

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Pool hands out writable arenas of one shape so a service can encode many
// independent messages without allocating a new buffer for each.
type Pool struct {
	capacity        int
	stringCacheSize int
	pool            sync.Pool

	// Stats
	created atomic.Uint64
	gets    atomic.Uint64
}

// NewPool creates a pool of arenas with the given capacity and intern cache
// size.
func NewPool(capacity, stringCacheSize int) *Pool {
	p := &Pool{
		capacity:        capacity,
		stringCacheSize: stringCacheSize,
	}
	p.pool.New = func() any {
		a, err := New(capacity, stringCacheSize, false)
		if err != nil {
			slog.Error("arena pool: cannot create arena", "capacity", capacity, "error", err)
			return nil
		}
		p.created.Add(1)
		return a
	}
	return p
}

// Get returns a clean writable arena.
func (p *Pool) Get() (*Arena, error) {
	p.gets.Add(1)
	v := p.pool.Get()
	if v == nil {
		a, err := New(p.capacity, p.stringCacheSize, false)
		if err == nil {
			p.created.Add(1)
		}
		return a, err
	}
	a := v.(*Arena)
	if a.Len() > RootSize {
		// Returned arenas are reset on Put, so this only happens if a
		// caller kept writing after handing it back.
		if err := a.Reset(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Put resets a and makes it available again. Frozen arenas and arenas of a
// different shape are dropped.
func (p *Pool) Put(a *Arena) {
	if a == nil || a.ReadOnly() || a.Capacity() != p.capacity || len(a.interned) != p.stringCacheSize {
		return
	}
	if err := a.Reset(); err != nil {
		return
	}
	p.pool.Put(a)
}

// Stats returns how many arenas were created and how many Get calls were
// served from the pool.
func (p *Pool) Stats() (created, reused uint64) {
	created = p.created.Load()
	return created, p.gets.Load() - created
}

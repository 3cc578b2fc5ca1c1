// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mulgadc/arenawire/arena"
	"github.com/mulgadc/arenawire/store/backends/file"
	"github.com/mulgadc/arenawire/store/backends/memory"
	"github.com/mulgadc/arenawire/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textMessage(t *testing.T, s string) *arena.Arena {
	t.Helper()
	a, err := arena.New(256, arena.DefaultStringCacheSize, false)
	require.NoError(t, err)
	txt, err := a.AllocateText(s)
	require.NoError(t, err)
	require.NoError(t, a.SetRoot(txt))
	return a
}

func rootText(t *testing.T, a *arena.Arena) string {
	t.Helper()
	txt, err := arena.RootAs(a, arena.TextCodec{})
	require.NoError(t, err)
	s, err := txt.Decode()
	require.NoError(t, err)
	return s
}

func TestStorePutGet(t *testing.T) {
	ctx := context.Background()
	ms, err := New(Config{}, memory.New(memory.MemoryConfig{Namespace: "test"}))
	require.NoError(t, err)

	src := textMessage(t, "hello")
	id, err := ms.Put(ctx, 7, src)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	// The store owns a copy, so the source arena can be reused
	require.NoError(t, src.Reset())

	a, tag, err := ms.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), tag)
	assert.True(t, a.ReadOnly())
	assert.Equal(t, "hello", rootText(t, a))

	_, err = a.AllocateText("x")
	assert.ErrorIs(t, err, arena.ErrReadOnly)

	stats := ms.Stats()
	assert.Equal(t, uint64(1), stats.Puts)
	assert.Equal(t, uint64(1), stats.HotReads)
	assert.Equal(t, 1, stats.Hot)
}

func TestStoreEmptyMessage(t *testing.T) {
	ms, err := New(Config{}, memory.New(memory.MemoryConfig{}))
	require.NoError(t, err)

	a, err := arena.New(64, 0, false)
	require.NoError(t, err)
	_, err = ms.Put(context.Background(), 1, a)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestStoreFlushAndReload(t *testing.T) {
	ctx := context.Background()
	backend := file.New(file.FileConfig{BaseDir: t.TempDir(), Namespace: "ns"})
	require.NoError(t, backend.Init())

	ms, err := New(Config{CacheSize: 4}, backend)
	require.NoError(t, err)

	var ids []uint64
	for i := 0; i < 3; i++ {
		id, err := ms.Put(ctx, uint16(i), textMessage(t, fmt.Sprintf("msg-%d", i)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, ms.Flush(ctx))
	stats := ms.Stats()
	assert.Equal(t, 0, stats.Hot)
	assert.Equal(t, 3, stats.Persisted)
	assert.Equal(t, uint64(3), stats.Flushed)

	// Flushed frames are cached
	a, tag, err := ms.Get(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, uint16(1), tag)
	assert.Equal(t, "msg-1", rootText(t, a))
	assert.Equal(t, uint64(1), ms.Stats().CacheHits)

	require.NoError(t, ms.SaveState(ctx))

	// A new store over the same backend reads from disk
	reloaded, err := New(Config{}, backend)
	require.NoError(t, err)
	require.NoError(t, reloaded.LoadState(ctx))

	for i, id := range ids {
		a, tag, err := reloaded.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, uint16(i), tag)
		assert.Equal(t, fmt.Sprintf("msg-%d", i), rootText(t, a))
	}
	assert.Equal(t, uint64(3), reloaded.Stats().BackendReads)

	// Ids continue after the reloaded sequence
	id, err := reloaded.Put(ctx, 0, textMessage(t, "next"))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id)
}

func TestStoreLoadStateMissing(t *testing.T) {
	ms, err := New(Config{}, memory.New(memory.MemoryConfig{Namespace: "ns"}))
	require.NoError(t, err)
	assert.ErrorIs(t, ms.LoadState(context.Background()), types.ErrObjectNotFound)
}

func TestStoreLoadStateOtherNamespace(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(memory.MemoryConfig{Namespace: "a"})
	state := []byte(`{"Version":1,"Namespace":"b","SeqNum":3,"Messages":[{"ID":3,"Tag":1}]}`)
	require.NoError(t, backend.Write(ctx, types.FileTypeState, 0, nil, &state))

	ms, err := New(Config{}, backend)
	require.NoError(t, err)
	assert.ErrorIs(t, ms.LoadState(ctx), ErrStateMismatch)
	assert.Equal(t, 0, ms.Stats().Persisted)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(memory.MemoryConfig{Namespace: "ns"})
	ms, err := New(Config{}, backend)
	require.NoError(t, err)

	hot, err := ms.Put(ctx, 1, textMessage(t, "hot"))
	require.NoError(t, err)
	require.NoError(t, ms.Delete(ctx, hot))

	persisted, err := ms.Put(ctx, 1, textMessage(t, "persisted"))
	require.NoError(t, err)
	require.NoError(t, ms.Flush(ctx))
	require.NoError(t, ms.Delete(ctx, persisted))

	_, err = backend.Read(ctx, types.FileTypeMessage, persisted, 0, 0)
	assert.ErrorIs(t, err, types.ErrObjectNotFound)

	for _, id := range []uint64{hot, persisted, 99} {
		_, _, err := ms.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, ms.Delete(ctx, id), ErrNotFound)
	}
}

func TestStoreCorruptObject(t *testing.T) {
	ctx := context.Background()
	backend := memory.New(memory.MemoryConfig{Namespace: "ns"})
	ms, err := New(Config{CacheSize: 1}, backend)
	require.NoError(t, err)

	id, err := ms.Put(ctx, 1, textMessage(t, "one"))
	require.NoError(t, err)
	_, err = ms.Put(ctx, 1, textMessage(t, "two"))
	require.NoError(t, err)
	require.NoError(t, ms.Flush(ctx))

	// Only the last flushed frame fits in the cache, so id is read back
	data, err := backend.Read(ctx, types.FileTypeMessage, id, 0, 0)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, backend.Write(ctx, types.FileTypeMessage, id, nil, &data))

	_, _, err = ms.Get(ctx, id)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

type failingBackend struct {
	*memory.Backend
}

var errWrite = errors.New("write refused")

func (b failingBackend) Write(ctx context.Context, fileType types.FileType, objectId uint64, headers *[]byte, data *[]byte) error {
	return errWrite
}

func TestStoreFlushFailureKeepsHot(t *testing.T) {
	ctx := context.Background()
	ms, err := New(Config{}, failingBackend{memory.New(memory.MemoryConfig{})})
	require.NoError(t, err)

	id, err := ms.Put(ctx, 1, textMessage(t, "kept"))
	require.NoError(t, err)

	assert.ErrorIs(t, ms.Flush(ctx), errWrite)
	assert.Equal(t, 1, ms.Stats().Hot)

	a, _, err := ms.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "kept", rootText(t, a))
}

func TestStoreConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	ms, err := New(Config{}, memory.New(memory.MemoryConfig{Namespace: "ns"}))
	require.NoError(t, err)

	id, err := ms.Put(ctx, 1, textMessage(t, "shared"))
	require.NoError(t, err)
	require.NoError(t, ms.Flush(ctx))

	a, _, err := ms.Get(ctx, id)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				txt, err := arena.RootAs(a, arena.TextCodec{})
				if err != nil {
					t.Error(err)
					return
				}
				s, err := txt.Decode()
				if err != nil || s != "shared" {
					t.Errorf("got %q, %v", s, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

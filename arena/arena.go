// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package arena

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/mulgadc/arenawire/utils"
)

// RootSize is the number of bytes reserved at the start of every buffer
// for the root offset.
const RootSize = 4

// DefaultStringCacheSize is used by callers that have no better estimate
// of how many distinct strings a message repeats.
const DefaultStringCacheSize = 16

// Arena is a bump-pointer allocator over a single fixed-capacity buffer.
// Records, text, lists and dictionaries are laid out back to back and
// refer to each other by 4-byte offsets from the start of the buffer.
//
// An Arena has a single owner and is not safe for concurrent mutation.
// Once Freeze has been called it may be read from any number of goroutines.
type Arena struct {
	buf      []byte
	ptr      uint32
	readOnly bool

	// epoch is bumped on Reset so handles from a previous message fail.
	epoch uint64

	// Ring of recently interned strings, replaced round-robin.
	interned []internEntry
	filled   int
	next     int

	stats Stats
}

type internEntry struct {
	text   string
	offset uint32
}

// Stats reports allocation counters since creation or the last Reset.
type Stats struct {
	Allocs       uint64
	Bytes        uint64
	InternHits   uint64
	InternMisses uint64
}

// New creates a zeroed arena of capacity bytes. The cursor starts just
// after the root slot, and the root slot initially holds the cursor value.
func New(capacity, stringCacheSize int, readOnly bool) (*Arena, error) {
	if capacity < RootSize {
		return nil, fmt.Errorf("arena capacity %d smaller than root slot: %w", capacity, ErrOutOfCapacity)
	}
	if _, ok := utils.IntToUint32(capacity); !ok {
		return nil, fmt.Errorf("arena capacity %d exceeds 32-bit offsets: %w", capacity, ErrOutOfCapacity)
	}
	if stringCacheSize < 0 {
		stringCacheSize = 0
	}

	a := &Arena{
		buf:      make([]byte, capacity),
		ptr:      RootSize,
		readOnly: readOnly,
		interned: make([]internEntry, stringCacheSize),
	}
	binary.LittleEndian.PutUint32(a.buf[0:RootSize], a.ptr)
	return a, nil
}

// FromBytes wraps a payload previously produced by SlicedBuffer as a
// read-only arena. The bytes are not copied; the caller must not modify
// them while views into the arena are in use.
func FromBytes(data []byte) (*Arena, error) {
	if len(data) < RootSize {
		return nil, fmt.Errorf("payload of %d bytes has no root slot: %w", len(data), ErrOutOfBounds)
	}
	size, ok := utils.IntToUint32(len(data))
	if !ok {
		return nil, fmt.Errorf("payload of %d bytes exceeds 32-bit offsets: %w", len(data), ErrOutOfBounds)
	}

	a := &Arena{
		buf:      data,
		ptr:      size,
		readOnly: true,
	}
	if root := a.Root(); root > size {
		return nil, fmt.Errorf("root offset %d beyond payload size %d: %w", root, size, ErrOutOfBounds)
	}
	return a, nil
}

// Capacity returns the total size of the backing buffer.
func (a *Arena) Capacity() int {
	return len(a.buf)
}

// Len returns the number of bytes in use, including the root slot.
func (a *Arena) Len() int {
	return int(a.ptr)
}

// ReadOnly reports whether the arena refuses allocation and writes.
func (a *Arena) ReadOnly() bool {
	return a.readOnly
}

// Freeze makes the arena read-only. It cannot be undone.
func (a *Arena) Freeze() {
	a.readOnly = true
}

// Stats returns a copy of the allocation counters.
func (a *Arena) Stats() Stats {
	return a.stats
}

// reserve bumps the cursor by size bytes and returns the start offset.
func (a *Arena) reserve(size int) (uint32, error) {
	if a.readOnly {
		return 0, ErrReadOnly
	}
	if size < 0 {
		return 0, fmt.Errorf("negative allocation size %d: %w", size, ErrOutOfCapacity)
	}
	if size > len(a.buf)-int(a.ptr) {
		return 0, fmt.Errorf("allocating %d bytes at offset %d of %d: %w", size, a.ptr, len(a.buf), ErrOutOfCapacity)
	}

	start := a.ptr
	a.ptr += uint32(size)

	a.stats.Allocs++
	a.stats.Bytes += uint64(size)
	return start, nil
}

func (a *Arena) handle(off uint32) Handle {
	return Handle{arena: a, off: off, epoch: a.epoch}
}

// AllocateDynamic reserves size raw bytes and returns a handle to them.
// It is the primitive behind variable-size values such as lists.
func (a *Arena) AllocateDynamic(size int) (Handle, error) {
	off, err := a.reserve(size)
	if err != nil {
		return Handle{}, err
	}
	return a.handle(off), nil
}

// Allocate reserves the fixed footprint of a record and returns a view of
// it. The bytes are zero, so every reference field starts out null.
func Allocate[T View](a *Arena, codec RecordCodec[T]) (T, error) {
	h, err := a.AllocateDynamic(codec.Size())
	if err != nil {
		var zero T
		return zero, err
	}
	return codec.FromHandle(h), nil
}

// AllocateText stores s as a length-prefixed UTF-8 value. Strings still
// present in the intern cache are returned without a new allocation; the
// cache is bounded, so equal strings are not guaranteed to share bytes.
func (a *Arena) AllocateText(s string) (Text, error) {
	if a.readOnly {
		return Text{}, ErrReadOnly
	}
	if !utf8.ValidString(s) {
		return Text{}, ErrInvalidUTF8
	}

	for i := 0; i < a.filled; i++ {
		if a.interned[i].text == s {
			a.stats.InternHits++
			return Text{h: a.handle(a.interned[i].offset)}, nil
		}
	}
	a.stats.InternMisses++

	n, ok := utils.IntToUint32(len(s))
	if !ok {
		return Text{}, fmt.Errorf("text of %d bytes: %w", len(s), ErrOutOfCapacity)
	}
	off, err := a.reserve(4 + len(s))
	if err != nil {
		return Text{}, err
	}
	binary.LittleEndian.PutUint32(a.buf[off:], n)
	copy(a.buf[off+4:], s)

	a.intern(s, off)
	return Text{h: a.handle(off)}, nil
}

func (a *Arena) intern(s string, off uint32) {
	if len(a.interned) == 0 {
		return
	}
	a.interned[a.next] = internEntry{text: s, offset: off}
	a.next = (a.next + 1) % len(a.interned)
	if a.filled < len(a.interned) {
		a.filled++
	}
}

// Reset zero-fills the buffer, rewinds the cursor and clears the intern
// cache so the arena can hold an unrelated message. Handles obtained
// before the reset return ErrStaleHandle afterwards.
func (a *Arena) Reset() error {
	if a.readOnly {
		return ErrReadOnly
	}

	slog.Debug("arena reset", "capacity", len(a.buf), "used", a.ptr, "allocs", a.stats.Allocs)

	clear(a.buf)
	a.ptr = RootSize
	binary.LittleEndian.PutUint32(a.buf[0:RootSize], a.ptr)

	clear(a.interned)
	a.filled = 0
	a.next = 0

	a.epoch++
	a.stats = Stats{}
	return nil
}

// Root returns the offset stored in the root slot.
func (a *Arena) Root() uint32 {
	return binary.LittleEndian.Uint32(a.buf[0:RootSize])
}

// SetRoot records v as the entry point of the message.
func (a *Arena) SetRoot(v View) error {
	if a.readOnly {
		return ErrReadOnly
	}
	h := v.Handle()
	if h.IsNull() {
		binary.LittleEndian.PutUint32(a.buf[0:RootSize], 0)
		return nil
	}
	if err := a.owns(h); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(a.buf[0:RootSize], h.off)
	return nil
}

// RootAs returns a view of the root record through codec.
func RootAs[T View](a *Arena, codec Codec[T]) (T, error) {
	var zero T
	root := a.Root()
	if root == 0 {
		return zero, fmt.Errorf("root: %w", ErrNullReference)
	}
	if root < RootSize || root >= a.ptr {
		return zero, fmt.Errorf("root offset %d outside [%d, %d): %w", root, RootSize, a.ptr, ErrOutOfBounds)
	}
	return codec.FromHandle(a.handle(root)), nil
}

// SlicedBuffer returns the used prefix of the buffer. It aliases the arena
// and is only valid until the next Reset.
func (a *Arena) SlicedBuffer() []byte {
	return a.buf[:a.ptr]
}

// owns checks that h was issued by this arena in the current epoch.
func (a *Arena) owns(h Handle) error {
	if h.arena != a {
		return ErrForeignHandle
	}
	if h.epoch != a.epoch {
		return ErrStaleHandle
	}
	return nil
}

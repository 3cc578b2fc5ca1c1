// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package arena

import (
	"encoding/binary"
	"fmt"
)

// Handle is a borrowed position inside an arena. It never owns the bytes
// it points at, and any number of handles may alias the same region.
// The zero Handle is the null reference.
type Handle struct {
	arena *Arena
	off   uint32
	epoch uint64
}

// IsNull reports whether h is the null reference.
func (h Handle) IsNull() bool {
	return h.arena == nil
}

// Arena returns the arena h points into, or nil for the null handle.
func (h Handle) Arena() *Arena {
	return h.arena
}

// Offset returns the byte offset of h from the start of the buffer.
func (h Handle) Offset() uint32 {
	return h.off
}

// At returns a handle to another offset in the same arena.
func (h Handle) At(off uint32) Handle {
	return Handle{arena: h.arena, off: off, epoch: h.epoch}
}

// span validates that [h.off+rel, h.off+rel+n) lies inside the used part
// of the arena and returns the absolute start.
func (h Handle) span(rel, n uint32) (uint32, error) {
	if h.arena == nil {
		return 0, ErrNullReference
	}
	if h.epoch != h.arena.epoch {
		return 0, ErrStaleHandle
	}
	start := uint64(h.off) + uint64(rel)
	end := start + uint64(n)
	if start < RootSize || end > uint64(h.arena.ptr) {
		return 0, fmt.Errorf("access [%d, %d) outside [%d, %d): %w", start, end, RootSize, h.arena.ptr, ErrOutOfBounds)
	}
	return uint32(start), nil
}

func (h Handle) writable(rel, n uint32) (uint32, error) {
	if h.arena != nil && h.arena.readOnly {
		return 0, ErrReadOnly
	}
	return h.span(rel, n)
}

// Bytes returns n bytes at rel without copying.
func (h Handle) Bytes(rel, n uint32) ([]byte, error) {
	start, err := h.span(rel, n)
	if err != nil {
		return nil, err
	}
	return h.arena.buf[start : start+n : start+n], nil
}

// Int16 reads a little-endian int16 at rel.
func (h Handle) Int16(rel uint32) (int16, error) {
	start, err := h.span(rel, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(h.arena.buf[start:])), nil
}

// Int32 reads a little-endian int32 at rel.
func (h Handle) Int32(rel uint32) (int32, error) {
	v, err := h.Uint32(rel)
	return int32(v), err
}

// Uint32 reads a little-endian uint32 at rel.
func (h Handle) Uint32(rel uint32) (uint32, error) {
	start, err := h.span(rel, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(h.arena.buf[start:]), nil
}

// PutInt16 writes v at rel.
func (h Handle) PutInt16(rel uint32, v int16) error {
	start, err := h.writable(rel, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(h.arena.buf[start:], uint16(v))
	return nil
}

// PutInt32 writes v at rel.
func (h Handle) PutInt32(rel uint32, v int32) error {
	return h.PutUint32(rel, uint32(v))
}

// PutUint32 writes v at rel.
func (h Handle) PutUint32(rel uint32, v uint32) error {
	start, err := h.writable(rel, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(h.arena.buf[start:], v)
	return nil
}

// PutBytes copies b to rel.
func (h Handle) PutBytes(rel uint32, b []byte) error {
	n := uint32(len(b))
	if int(n) != len(b) {
		return ErrOutOfBounds
	}
	start, err := h.writable(rel, n)
	if err != nil {
		return err
	}
	copy(h.arena.buf[start:], b)
	return nil
}

// Deref reads the 4-byte offset stored at rel. A stored 0 yields the null
// handle; anything else must land inside the used part of the arena.
func (h Handle) Deref(rel uint32) (Handle, error) {
	off, err := h.Uint32(rel)
	if err != nil {
		return Handle{}, err
	}
	if off == 0 {
		return Handle{}, nil
	}
	if off < RootSize || off >= h.arena.ptr {
		return Handle{}, fmt.Errorf("reference %d outside [%d, %d): %w", off, RootSize, h.arena.ptr, ErrOutOfBounds)
	}
	return h.At(off), nil
}

// PutRef stores the offset of target at rel, or 0 when target is null.
// target must come from the same arena and epoch as h.
func (h Handle) PutRef(rel uint32, target Handle) error {
	if target.IsNull() {
		return h.PutUint32(rel, 0)
	}
	if h.arena == nil {
		return ErrNullReference
	}
	if err := h.arena.owns(target); err != nil {
		return err
	}
	return h.PutUint32(rel, target.off)
}

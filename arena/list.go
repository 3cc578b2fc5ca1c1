// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package arena

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// List is a fixed-length sequence of references:
// [int32 count][count × int32 offsetOrZero]. Element order is significant.
type List[T View, C Codec[T]] struct {
	h Handle
}

// NewList allocates a list sized for elems and stores them in order. Null
// views become null slots.
func NewList[T View, C Codec[T]](a *Arena, codec C, elems []T) (List[T, C], error) {
	h, err := a.AllocateDynamic(4 + 4*len(elems))
	if err != nil {
		return List[T, C]{}, err
	}
	if err := h.PutInt32(0, int32(len(elems))); err != nil {
		return List[T, C]{}, err
	}

	l := List[T, C]{h: h}
	for i, e := range elems {
		if err := l.Set(i, e); err != nil {
			return List[T, C]{}, err
		}
	}
	return l, nil
}

func (l List[T, C]) Handle() Handle {
	return l.h
}

// Len returns the element count fixed at creation.
func (l List[T, C]) Len() (int, error) {
	n, err := l.h.Int32(0)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > (math.MaxUint32-4)/4 {
		return 0, fmt.Errorf("list count %d: %w", n, ErrOutOfBounds)
	}
	if _, err := l.h.span(0, 4+4*uint32(n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (l List[T, C]) slot(i int) (uint32, error) {
	n, err := l.Len()
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("list index %d with count %d: %w", i, n, ErrIndexOutOfRange)
	}
	return 4 + 4*uint32(i), nil
}

// Set stores elem at index i; a null elem clears the slot.
func (l List[T, C]) Set(i int, elem T) error {
	rel, err := l.slot(i)
	if err != nil {
		return err
	}
	return l.h.PutRef(rel, elem.Handle())
}

// Get returns the element at i and fails if the slot is null.
func (l List[T, C]) Get(i int) (T, error) {
	rel, err := l.slot(i)
	if err != nil {
		var zero T
		return zero, err
	}
	var codec C
	v, err := ReadRef[T](l.h, rel, codec)
	if err != nil {
		return v, fmt.Errorf("list index %d: %w", i, err)
	}
	return v, nil
}

// GetOrNull returns the element at i; ok is false for a null slot.
func (l List[T, C]) GetOrNull(i int) (v T, ok bool, err error) {
	rel, err := l.slot(i)
	if err != nil {
		return v, false, err
	}
	var codec C
	return ReadRefOrNull[T](l.h, rel, codec)
}

// Elements materialises every slot in order, with null views for null slots.
func (l List[T, C]) Elements() ([]T, error) {
	n, err := l.Len()
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		if out[i], _, err = l.GetOrNull(i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (l List[T, C]) EncodeJSON() ([]byte, error) {
	elems, err := l.Elements()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		raw, err := EncodeOrNull(e)
		if err != nil {
			return nil, fmt.Errorf("list index %d: %w", i, err)
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// ListCodec is the Codec for List[T, C], so lists can nest inside records,
// dictionaries and other lists.
type ListCodec[T View, C Codec[T]] struct{}

func (ListCodec[T, C]) FromHandle(h Handle) List[T, C] {
	return List[T, C]{h: h}
}

// DecodeJSON expects a JSON array; null items become null slots.
func (ListCodec[T, C]) DecodeJSON(a *Arena, v gjson.Result) (List[T, C], error) {
	if !v.IsArray() {
		return List[T, C]{}, Mismatch("array", KindOf(v))
	}

	var codec C
	items := v.Array()
	elems := make([]T, len(items))
	for i, item := range items {
		e, err := DecodeOrNull[T](a, item, codec)
		if err != nil {
			return List[T, C]{}, WithPath(err, strconv.Itoa(i))
		}
		elems[i] = e
	}
	return NewList(a, codec, elems)
}

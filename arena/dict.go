// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package arena

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// Entry is one key/value pair of a dictionary.
type Entry[T View] struct {
	Key   string
	Value T
}

// Dict is a fixed-capacity sequence of key/value references:
// [int32 count][count × (int32 keyOffset, int32 valueOffset)].
//
// Lookups are linear scans comparing decoded keys. Duplicate keys are kept
// in storage and Get returns the first one.
type Dict[T View, C Codec[T]] struct {
	h Handle
}

// NewDict allocates room for len(entries) pairs and stores them in order,
// interning every key.
func NewDict[T View, C Codec[T]](a *Arena, codec C, entries []Entry[T]) (Dict[T, C], error) {
	d, err := allocDict[T, C](a, len(entries))
	if err != nil {
		return d, err
	}
	for _, e := range entries {
		key, err := a.AllocateText(e.Key)
		if err != nil {
			return Dict[T, C]{}, err
		}
		if err := d.SetByText(key, e.Value); err != nil {
			return Dict[T, C]{}, err
		}
	}
	return d, nil
}

func allocDict[T View, C Codec[T]](a *Arena, count int) (Dict[T, C], error) {
	h, err := a.AllocateDynamic(4 + 8*count)
	if err != nil {
		return Dict[T, C]{}, err
	}
	if err := h.PutInt32(0, int32(count)); err != nil {
		return Dict[T, C]{}, err
	}
	return Dict[T, C]{h: h}, nil
}

func (d Dict[T, C]) Handle() Handle {
	return d.h
}

// Len returns the number of slots fixed at creation.
func (d Dict[T, C]) Len() (int, error) {
	n, err := d.h.Int32(0)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > (math.MaxUint32-4)/8 {
		return 0, fmt.Errorf("dictionary count %d: %w", n, ErrOutOfBounds)
	}
	if _, err := d.h.span(0, 4+8*uint32(n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

// SetByText stores the pair in the first free slot. A slot is free while
// its key offset is 0; offset 0 is the root slot, so no key can live there.
func (d Dict[T, C]) SetByText(key Text, value T) error {
	if key.Handle().IsNull() {
		return fmt.Errorf("dictionary key: %w", ErrNullReference)
	}
	n, err := d.Len()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		rel := 4 + 8*uint32(i)
		k, err := d.h.Uint32(rel)
		if err != nil {
			return err
		}
		if k != 0 {
			continue
		}
		if err := d.h.PutRef(rel+4, value.Handle()); err != nil {
			return err
		}
		return d.h.PutRef(rel, key.Handle())
	}
	return fmt.Errorf("dictionary with %d slots: %w", n, ErrDictFull)
}

// Get returns the value of the first entry whose key equals key. ok is
// false when no key matches or the matching value is null.
func (d Dict[T, C]) Get(key string) (v T, ok bool, err error) {
	n, err := d.Len()
	if err != nil {
		return v, false, err
	}
	var codec C
	for i := 0; i < n; i++ {
		rel := 4 + 8*uint32(i)
		k, set, err := ReadRefOrNull[Text](d.h, rel, TextCodec{})
		if err != nil {
			return v, false, err
		}
		if !set {
			continue
		}
		ks, err := k.Decode()
		if err != nil {
			return v, false, err
		}
		if ks == key {
			return ReadRefOrNull[T](d.h, rel+4, codec)
		}
	}
	return v, false, nil
}

// Entries returns every filled slot in storage order.
func (d Dict[T, C]) Entries() ([]Entry[T], error) {
	n, err := d.Len()
	if err != nil {
		return nil, err
	}
	var codec C
	out := make([]Entry[T], 0, n)
	for i := 0; i < n; i++ {
		rel := 4 + 8*uint32(i)
		k, set, err := ReadRefOrNull[Text](d.h, rel, TextCodec{})
		if err != nil {
			return nil, err
		}
		if !set {
			continue
		}
		ks, err := k.Decode()
		if err != nil {
			return nil, err
		}
		val, _, err := ReadRefOrNull[T](d.h, rel+4, codec)
		if err != nil {
			return nil, fmt.Errorf("dictionary key %q: %w", ks, err)
		}
		out = append(out, Entry[T]{Key: ks, Value: val})
	}
	return out, nil
}

func (d Dict[T, C]) EncodeJSON() ([]byte, error) {
	entries, err := d.Entries()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		raw, err := EncodeOrNull(e.Value)
		if err != nil {
			return nil, fmt.Errorf("dictionary key %q: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DictCodec is the Codec for Dict[T, C].
type DictCodec[T View, C Codec[T]] struct{}

func (DictCodec[T, C]) FromHandle(h Handle) Dict[T, C] {
	return Dict[T, C]{h: h}
}

// DecodeJSON expects a JSON object. Member order is kept; null members
// become null values.
func (DictCodec[T, C]) DecodeJSON(a *Arena, v gjson.Result) (Dict[T, C], error) {
	if !v.IsObject() {
		return Dict[T, C]{}, Mismatch("object", KindOf(v))
	}

	var (
		codec   C
		entries []Entry[T]
		derr    error
	)
	v.ForEach(func(key, value gjson.Result) bool {
		e, err := DecodeOrNull[T](a, value, codec)
		if err != nil {
			derr = WithPath(err, key.String())
			return false
		}
		entries = append(entries, Entry[T]{Key: key.String(), Value: e})
		return true
	})
	if derr != nil {
		return Dict[T, C]{}, derr
	}
	return NewDict(a, codec, entries)
}

// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/mulgadc/arenawire/arena"
	"github.com/tidwall/gjson"
)

// Simple layout: [0] fie int32, [4] hund Text ref, [8] enumeration int16.
const SimpleSize = 10

type Simple struct {
	h arena.Handle
}

func NewSimple(a *arena.Arena, fie int32, hund arena.Text, enumeration Top) (Simple, error) {
	if hund.Handle().IsNull() {
		return Simple{}, fmt.Errorf("hund: %w", arena.ErrNullReference)
	}
	v, err := arena.Allocate(a, SimpleCodec{})
	if err != nil {
		return v, err
	}
	if err := v.h.PutInt32(0, fie); err != nil {
		return Simple{}, err
	}
	if err := v.h.PutRef(4, hund.Handle()); err != nil {
		return Simple{}, err
	}
	if err := topTable.Write(v.h, 8, enumeration); err != nil {
		return Simple{}, err
	}
	return v, nil
}

func (v Simple) Handle() arena.Handle { return v.h }

func (v Simple) Fie() (int32, error) {
	return v.h.Int32(0)
}

func (v Simple) Hund() (arena.Text, error) {
	return arena.ReadRef(v.h, 4, arena.TextCodec{})
}

func (v Simple) Enumeration() (Top, error) {
	return topTable.Read(v.h, 8)
}

func (v Simple) EncodeJSON() ([]byte, error) {
	w := newObject()

	fie, err := v.Fie()
	w.fail("fie", err)
	w.set("fie", fie)

	hund, err := v.Hund()
	w.setView("hund", hund, err)

	enumeration, err := v.Enumeration()
	setEnum(w, "enumeration", topTable, enumeration, err)

	return w.bytes()
}

type SimpleCodec struct{}

func (SimpleCodec) Size() int { return SimpleSize }

func (SimpleCodec) FromHandle(h arena.Handle) Simple { return Simple{h: h} }

func (SimpleCodec) DecodeJSON(a *arena.Arena, v gjson.Result) (Simple, error) {
	if err := requireObject(v); err != nil {
		return Simple{}, err
	}

	fie, err := decodeInt32(v, "fie")
	if err != nil {
		return Simple{}, err
	}
	hund, err := decodeRequired(a, v, "hund", arena.TextCodec{})
	if err != nil {
		return Simple{}, err
	}
	enumeration, err := decodeEnum(v, "enumeration", topTable)
	if err != nil {
		return Simple{}, err
	}

	return NewSimple(a, fie, hund, enumeration)
}

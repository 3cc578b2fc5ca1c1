// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/mulgadc/arenawire/arena"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// objectWriter builds a JSON object field by field, keeping the first
// error so record encoders can read straight through their fields.
type objectWriter struct {
	buf []byte
	err error
}

func newObject() *objectWriter {
	return &objectWriter{buf: []byte("{}")}
}

func (w *objectWriter) fail(field string, err error) {
	if w.err == nil && err != nil {
		w.err = fmt.Errorf("%s: %w", field, err)
	}
}

func (w *objectWriter) set(field string, v any) {
	if w.err != nil {
		return
	}
	w.buf, w.err = sjson.SetBytes(w.buf, field, v)
}

func (w *objectWriter) setRaw(field string, raw []byte) {
	if w.err != nil {
		return
	}
	w.buf, w.err = sjson.SetRawBytes(w.buf, field, raw)
}

// setView writes a nested value, or null for a null view.
func (w *objectWriter) setView(field string, v arena.View, err error) {
	if err != nil {
		w.fail(field, err)
		return
	}
	raw, err := arena.EncodeOrNull(v)
	if err != nil {
		w.fail(field, err)
		return
	}
	w.setRaw(field, raw)
}

func setEnum[E ~int16](w *objectWriter, field string, t *arena.EnumTable[E], e E, err error) {
	if err != nil {
		w.fail(field, err)
		return
	}
	name, err := t.Name(e)
	if err != nil {
		w.fail(field, err)
		return
	}
	w.set(field, name)
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

func requireObject(v gjson.Result) error {
	if !v.IsObject() {
		return arena.Mismatch("object", arena.KindOf(v))
	}
	return nil
}

func decodeEnum[E ~int16](v gjson.Result, field string, t *arena.EnumTable[E]) (E, error) {
	e, err := t.DecodeJSON(v.Get(field))
	if err != nil {
		return 0, arena.WithPath(err, field)
	}
	return e, nil
}

func decodeInt32(v gjson.Result, field string) (int32, error) {
	n, err := arena.DecodeInt32(v.Get(field))
	if err != nil {
		return 0, arena.WithPath(err, field)
	}
	return n, nil
}

func decodeRequired[T arena.View](a *arena.Arena, v gjson.Result, field string, codec arena.Codec[T]) (T, error) {
	out, err := arena.DecodeRequired(a, v.Get(field), codec)
	if err != nil {
		return out, arena.WithPath(err, field)
	}
	return out, nil
}

func decodeOptional[T arena.View](a *arena.Arena, v gjson.Result, field string, codec arena.Codec[T]) (T, error) {
	out, err := arena.DecodeOrNull(a, v.Get(field), codec)
	if err != nil {
		return out, arena.WithPath(err, field)
	}
	return out, nil
}

// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package arena

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Text is a length-prefixed UTF-8 value: [int32 byteLength][bytes].
type Text struct {
	h Handle
}

func (t Text) Handle() Handle {
	return t.h
}

// Len returns the payload length in bytes.
func (t Text) Len() (int, error) {
	n, err := t.h.Int32(0)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrOutOfBounds
	}
	return int(n), nil
}

// Bytes returns the payload without copying.
func (t Text) Bytes() ([]byte, error) {
	n, err := t.Len()
	if err != nil {
		return nil, err
	}
	return t.h.Bytes(4, uint32(n))
}

// Decode returns the payload as a string. Invalid UTF-8 is an error rather
// than being replaced.
func (t Text) Decode() (string, error) {
	b, err := t.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

func (t Text) EncodeJSON() ([]byte, error) {
	s, err := t.Decode()
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// TextCodec is the Codec for Text.
type TextCodec struct{}

func (TextCodec) FromHandle(h Handle) Text {
	return Text{h: h}
}

// DecodeJSON interns the JSON string through the arena's cache.
func (TextCodec) DecodeJSON(a *Arena, v gjson.Result) (Text, error) {
	if v.Type != gjson.String {
		return Text{}, Mismatch("string", KindOf(v))
	}
	return a.AllocateText(v.Str)
}

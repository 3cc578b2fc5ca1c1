// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package arena

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// View is a typed window onto arena bytes.
type View interface {
	Handle() Handle
	EncodeJSON() ([]byte, error)
}

// Codec describes how to view and decode one type. Implementations are
// stateless zero-size values, so generic containers can use the zero value
// of their codec type parameter.
type Codec[T View] interface {
	FromHandle(h Handle) T
	DecodeJSON(a *Arena, v gjson.Result) (T, error)
}

// RecordCodec is a Codec for fixed-size records.
type RecordCodec[T View] interface {
	Codec[T]
	Size() int
}

// ReadRef follows the required reference at rel.
func ReadRef[T View](h Handle, rel uint32, codec Codec[T]) (T, error) {
	v, ok, err := ReadRefOrNull(h, rel, codec)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, ErrNullReference
	}
	return v, nil
}

// ReadRefOrNull follows an optional reference at rel. ok is false when the
// stored offset is 0.
func ReadRefOrNull[T View](h Handle, rel uint32, codec Codec[T]) (v T, ok bool, err error) {
	target, err := h.Deref(rel)
	if err != nil || target.IsNull() {
		return v, false, err
	}
	return codec.FromHandle(target), true, nil
}

// EncodeOrNull encodes v, or the JSON literal null when v is a null view.
func EncodeOrNull(v View) ([]byte, error) {
	if v.Handle().IsNull() {
		return []byte("null"), nil
	}
	return v.EncodeJSON()
}

// DecodeOrNull decodes v through codec, mapping JSON null and absent values
// to the null view.
func DecodeOrNull[T View](a *Arena, v gjson.Result, codec Codec[T]) (T, error) {
	if !v.Exists() || v.Type == gjson.Null {
		var zero T
		return zero, nil
	}
	return codec.DecodeJSON(a, v)
}

// DecodeRequired decodes v through codec and rejects null or absent values.
func DecodeRequired[T View](a *Arena, v gjson.Result, codec Codec[T]) (T, error) {
	if !v.Exists() {
		var zero T
		return zero, &DecodeError{Want: "value", Got: "missing", Err: ErrDecodeMismatch}
	}
	if v.Type == gjson.Null {
		var zero T
		return zero, Mismatch("value", "null")
	}
	return codec.DecodeJSON(a, v)
}

// DecodeInt32 validates that v is an integral JSON number within int32.
func DecodeInt32(v gjson.Result) (int32, error) {
	if v.Type != gjson.Number {
		return 0, Mismatch("number", KindOf(v))
	}
	if v.Num != math.Trunc(v.Num) || v.Num < math.MinInt32 || v.Num > math.MaxInt32 {
		return 0, Mismatch("int32", v.Raw)
	}
	return int32(v.Num), nil
}

// KindOf names the JSON kind of v for error messages.
func KindOf(v gjson.Result) string {
	if !v.Exists() {
		return "missing"
	}
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "bool"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	case gjson.JSON:
		if v.IsArray() {
			return "array"
		}
		return "object"
	default:
		return v.Type.String()
	}
}

// DecodeMessage parses data, decodes it into a fresh value through codec
// and makes that value the root of a.
func DecodeMessage[T View](a *Arena, codec Codec[T], data []byte) (T, error) {
	var zero T
	if !gjson.ValidBytes(data) {
		return zero, ErrInvalidJSON
	}
	v, err := codec.DecodeJSON(a, gjson.ParseBytes(data))
	if err != nil {
		return zero, err
	}
	if err := a.SetRoot(v); err != nil {
		return zero, err
	}
	return v, nil
}

// EncodeMessage sets v as the root of its arena and returns the sliced
// buffer ready for storage or transmission.
func EncodeMessage(v View) ([]byte, error) {
	a := v.Handle().Arena()
	if a == nil {
		return nil, fmt.Errorf("encode message: %w", ErrNullReference)
	}
	if err := a.SetRoot(v); err != nil {
		return nil, err
	}
	return a.SlicedBuffer(), nil
}

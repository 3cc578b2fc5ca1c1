// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package arena

import (
	"errors"
	"fmt"
	"strings"
)

// Allocator misuse
var (
	ErrReadOnly      = errors.New("arena is read-only")
	ErrOutOfCapacity = errors.New("arena capacity exceeded")
	ErrOutOfBounds   = errors.New("offset out of bounds")
	ErrStaleHandle   = errors.New("handle was issued before the last reset")
	ErrForeignHandle = errors.New("handle belongs to a different arena")
)

// Bounds violations
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDictFull        = errors.New("dictionary has no free slots")
)

// Decoding
var (
	ErrDecodeMismatch = errors.New("json shape mismatch")
	ErrInvalidJSON    = errors.New("invalid json")
	ErrUnknownEnum    = errors.New("unknown enum value")
	ErrInvalidUTF8    = errors.New("invalid utf-8 in text value")
)

// ErrNullReference is returned when a required reference holds offset 0.
var ErrNullReference = errors.New("null reference")

// DecodeError describes where a JSON value failed to match the expected
// shape. Path segments are field names, dictionary keys or list indices.
type DecodeError struct {
	Path []string
	Want string
	Got  string
	Err  error
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("decode")
	if len(e.Path) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(e.Path, "."))
	}
	if e.Want != "" {
		fmt.Fprintf(&sb, ": want %s, got %s", e.Want, e.Got)
	}
	if e.Err != nil && e.Err != ErrDecodeMismatch {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() error {
	if e.Err == nil {
		return ErrDecodeMismatch
	}
	return e.Err
}

// Is reports every shape or enum failure as ErrDecodeMismatch, whatever
// the underlying cause. Errors only carrying a path keep their cause.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecodeMismatch && e.Want != ""
}

// Mismatch builds a DecodeError for a value of the wrong JSON kind.
func Mismatch(want, got string) error {
	return &DecodeError{Want: want, Got: got, Err: ErrDecodeMismatch}
}

// WithPath prefixes seg to the path of a DecodeError. Any other error is
// wrapped in a DecodeError so the location is not lost.
func WithPath(err error, seg string) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		de.Path = append([]string{seg}, de.Path...)
		return de
	}
	return &DecodeError{Path: []string{seg}, Err: err}
}

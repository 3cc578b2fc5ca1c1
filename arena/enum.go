// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package arena

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// EnumTable pairs the int16 wire codes of an enum with their serial names.
// Codes are dense: the code of a name is its index in the table. Tables are
// built once at package initialisation and never mutated.
type EnumTable[E ~int16] struct {
	typeName string
	names    []string
	codes    map[string]E
}

// NewEnumTable builds a table from serial names in code order. Duplicate
// names panic, since they would make decoding ambiguous.
func NewEnumTable[E ~int16](typeName string, names ...string) *EnumTable[E] {
	if len(names) > math.MaxInt16+1 {
		panic(fmt.Sprintf("enum %s: %d names exceed int16 codes", typeName, len(names)))
	}
	t := &EnumTable[E]{
		typeName: typeName,
		names:    names,
		codes:    make(map[string]E, len(names)),
	}
	for code, name := range names {
		if _, dup := t.codes[name]; dup {
			panic(fmt.Sprintf("enum %s: duplicate serial name %q", typeName, name))
		}
		t.codes[name] = E(code)
	}
	return t
}

func (t *EnumTable[E]) known(e E) bool {
	return e >= 0 && int(e) < len(t.names)
}

// Len returns the number of enum values.
func (t *EnumTable[E]) Len() int {
	return len(t.names)
}

// Name returns the serial name of e.
func (t *EnumTable[E]) Name(e E) (string, error) {
	if !t.known(e) {
		return "", fmt.Errorf("%s code %d: %w", t.typeName, int16(e), ErrUnknownEnum)
	}
	return t.names[e], nil
}

// Code returns the enum value with the given serial name.
func (t *EnumTable[E]) Code(name string) (E, error) {
	e, ok := t.codes[name]
	if !ok {
		return 0, fmt.Errorf("%s name %q: %w", t.typeName, name, ErrUnknownEnum)
	}
	return e, nil
}

// String is a convenience for fmt.Stringer implementations.
func (t *EnumTable[E]) String(e E) string {
	if t.known(e) {
		return t.names[e]
	}
	return fmt.Sprintf("%s(%d)", t.typeName, int16(e))
}

// Read loads the code at rel and checks it is known.
func (t *EnumTable[E]) Read(h Handle, rel uint32) (E, error) {
	raw, err := h.Int16(rel)
	if err != nil {
		return 0, err
	}
	e := E(raw)
	if !t.known(e) {
		return 0, fmt.Errorf("%s code %d: %w", t.typeName, raw, ErrUnknownEnum)
	}
	return e, nil
}

// Write stores e at rel after checking it is known.
func (t *EnumTable[E]) Write(h Handle, rel uint32, e E) error {
	if !t.known(e) {
		return fmt.Errorf("%s code %d: %w", t.typeName, int16(e), ErrUnknownEnum)
	}
	return h.PutInt16(rel, int16(e))
}

// DecodeJSON expects a JSON string holding a serial name.
func (t *EnumTable[E]) DecodeJSON(v gjson.Result) (E, error) {
	if v.Type != gjson.String {
		return 0, Mismatch(t.typeName, KindOf(v))
	}
	e, err := t.Code(v.Str)
	if err != nil {
		return 0, &DecodeError{Want: t.typeName, Got: fmt.Sprintf("%q", v.Str), Err: err}
	}
	return e, nil
}

// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mulgadc/arenawire/arena"
)

var ErrUnknownType = errors.New("unknown message type")

// Schema tags stored in store frames. Never reuse a tag.
const (
	TagSimple           uint16 = 1
	TagAvatar           uint16 = 2
	TagFindBulkRequest  uint16 = 3
	TagFindBulkResponse uint16 = 4
	TagUserProfile      uint16 = 5
)

// MessageType is a top-level message that can be decoded from JSON into
// an arena and read back from its root.
type MessageType struct {
	Name string
	Tag  uint16

	// Decode parses JSON into a and sets the result as its root.
	Decode func(a *arena.Arena, data []byte) (arena.View, error)
	// Root returns the root record of a.
	Root func(a *arena.Arena) (arena.View, error)
}

func messageType[T arena.View](name string, tag uint16, codec arena.Codec[T]) MessageType {
	return MessageType{
		Name: name,
		Tag:  tag,
		Decode: func(a *arena.Arena, data []byte) (arena.View, error) {
			return arena.DecodeMessage(a, codec, data)
		},
		Root: func(a *arena.Arena) (arena.View, error) {
			return arena.RootAs(a, codec)
		},
	}
}

var registry = []MessageType{
	messageType("simple", TagSimple, arena.Codec[Simple](SimpleCodec{})),
	messageType("avatar", TagAvatar, arena.Codec[Avatar](AvatarCodec{})),
	messageType("find_bulk_request", TagFindBulkRequest, arena.Codec[FindBulkRequest](FindBulkRequestCodec{})),
	messageType("find_bulk_response", TagFindBulkResponse, arena.Codec[FindBulkResponse](FindBulkResponseCodec{})),
	messageType("user_profile", TagUserProfile, arena.Codec[UserProfile](UserProfileCodec{})),
}

func Lookup(name string) (MessageType, error) {
	for _, mt := range registry {
		if mt.Name == name {
			return mt, nil
		}
	}
	return MessageType{}, fmt.Errorf("%q: %w", name, ErrUnknownType)
}

func LookupTag(tag uint16) (MessageType, error) {
	for _, mt := range registry {
		if mt.Tag == tag {
			return mt, nil
		}
	}
	return MessageType{}, fmt.Errorf("tag %d: %w", tag, ErrUnknownType)
}

// Names lists the registered type names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, mt := range registry {
		names = append(names, mt.Name)
	}
	slices.Sort(names)
	return names
}

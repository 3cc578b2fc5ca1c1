// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/mulgadc/arenawire/arena"
	"github.com/tidwall/gjson"
)

// UserProfile layout: [0] username Text ref, [4] avatar ref (nullable),
// [8] nicknames List<Text> ref.
const UserProfileSize = 12

type UserProfile struct {
	h arena.Handle
}

// NewUserProfile allocates a profile. avatar may be the zero Avatar.
func NewUserProfile(a *arena.Arena, username arena.Text, avatar Avatar, nicknames TextList) (UserProfile, error) {
	if username.Handle().IsNull() {
		return UserProfile{}, fmt.Errorf("username: %w", arena.ErrNullReference)
	}
	if nicknames.Handle().IsNull() {
		return UserProfile{}, fmt.Errorf("nicknames: %w", arena.ErrNullReference)
	}

	v, err := arena.Allocate(a, UserProfileCodec{})
	if err != nil {
		return v, err
	}
	if err := v.h.PutRef(0, username.Handle()); err != nil {
		return UserProfile{}, err
	}
	if err := v.h.PutRef(4, avatar.Handle()); err != nil {
		return UserProfile{}, err
	}
	if err := v.h.PutRef(8, nicknames.Handle()); err != nil {
		return UserProfile{}, err
	}
	return v, nil
}

func (v UserProfile) Handle() arena.Handle { return v.h }

func (v UserProfile) Username() (arena.Text, error) {
	return arena.ReadRef(v.h, 0, arena.TextCodec{})
}

// Avatar returns the avatar; ok is false when the profile has none.
func (v UserProfile) Avatar() (avatar Avatar, ok bool, err error) {
	return arena.ReadRefOrNull(v.h, 4, AvatarCodec{})
}

func (v UserProfile) Nicknames() (TextList, error) {
	return arena.ReadRef(v.h, 8, arena.ListCodec[arena.Text, arena.TextCodec]{})
}

func (v UserProfile) EncodeJSON() ([]byte, error) {
	w := newObject()

	username, err := v.Username()
	w.setView("username", username, err)

	avatar, _, err := v.Avatar()
	w.setView("avatar", avatar, err)

	nicknames, err := v.Nicknames()
	w.setView("nicknames", nicknames, err)

	return w.bytes()
}

type UserProfileCodec struct{}

func (UserProfileCodec) Size() int { return UserProfileSize }

func (UserProfileCodec) FromHandle(h arena.Handle) UserProfile { return UserProfile{h: h} }

func (UserProfileCodec) DecodeJSON(a *arena.Arena, v gjson.Result) (UserProfile, error) {
	if err := requireObject(v); err != nil {
		return UserProfile{}, err
	}

	username, err := decodeRequired(a, v, "username", arena.TextCodec{})
	if err != nil {
		return UserProfile{}, err
	}
	avatar, err := decodeOptional(a, v, "avatar", AvatarCodec{})
	if err != nil {
		return UserProfile{}, err
	}
	nicknames, err := decodeRequired(a, v, "nicknames", arena.ListCodec[arena.Text, arena.TextCodec]{})
	if err != nil {
		return UserProfile{}, err
	}

	return NewUserProfile(a, username, avatar, nicknames)
}

// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/mulgadc/arenawire/arena"
	"github.com/tidwall/gjson"
)

type (
	TextList   = arena.List[arena.Text, arena.TextCodec]
	AvatarDict = arena.Dict[Avatar, AvatarCodec]
)

// FindBulkRequest layout: [0] usernames List<Text> ref, [4] page int32.
const FindBulkRequestSize = 8

type FindBulkRequest struct {
	h arena.Handle
}

func NewFindBulkRequest(a *arena.Arena, usernames TextList, page int32) (FindBulkRequest, error) {
	if usernames.Handle().IsNull() {
		return FindBulkRequest{}, fmt.Errorf("usernames: %w", arena.ErrNullReference)
	}
	v, err := arena.Allocate(a, FindBulkRequestCodec{})
	if err != nil {
		return v, err
	}
	if err := v.h.PutRef(0, usernames.Handle()); err != nil {
		return FindBulkRequest{}, err
	}
	if err := v.h.PutInt32(4, page); err != nil {
		return FindBulkRequest{}, err
	}
	return v, nil
}

func (v FindBulkRequest) Handle() arena.Handle { return v.h }

func (v FindBulkRequest) Usernames() (TextList, error) {
	return arena.ReadRef(v.h, 0, arena.ListCodec[arena.Text, arena.TextCodec]{})
}

func (v FindBulkRequest) Page() (int32, error) {
	return v.h.Int32(4)
}

func (v FindBulkRequest) EncodeJSON() ([]byte, error) {
	w := newObject()

	usernames, err := v.Usernames()
	w.setView("usernames", usernames, err)

	page, err := v.Page()
	w.fail("page", err)
	w.set("page", page)

	return w.bytes()
}

type FindBulkRequestCodec struct{}

func (FindBulkRequestCodec) Size() int { return FindBulkRequestSize }

func (FindBulkRequestCodec) FromHandle(h arena.Handle) FindBulkRequest {
	return FindBulkRequest{h: h}
}

func (FindBulkRequestCodec) DecodeJSON(a *arena.Arena, v gjson.Result) (FindBulkRequest, error) {
	if err := requireObject(v); err != nil {
		return FindBulkRequest{}, err
	}

	usernames, err := decodeRequired(a, v, "usernames", arena.ListCodec[arena.Text, arena.TextCodec]{})
	if err != nil {
		return FindBulkRequest{}, err
	}
	page, err := decodeInt32(v, "page")
	if err != nil {
		return FindBulkRequest{}, err
	}

	return NewFindBulkRequest(a, usernames, page)
}

// FindBulkResponse maps usernames to avatars. A null value is a user
// without an avatar.
const FindBulkResponseSize = 4

type FindBulkResponse struct {
	h arena.Handle
}

func NewFindBulkResponse(a *arena.Arena, avatars AvatarDict) (FindBulkResponse, error) {
	if avatars.Handle().IsNull() {
		return FindBulkResponse{}, fmt.Errorf("avatars: %w", arena.ErrNullReference)
	}
	v, err := arena.Allocate(a, FindBulkResponseCodec{})
	if err != nil {
		return v, err
	}
	if err := v.h.PutRef(0, avatars.Handle()); err != nil {
		return FindBulkResponse{}, err
	}
	return v, nil
}

func (v FindBulkResponse) Handle() arena.Handle { return v.h }

func (v FindBulkResponse) Avatars() (AvatarDict, error) {
	return arena.ReadRef(v.h, 0, arena.DictCodec[Avatar, AvatarCodec]{})
}

func (v FindBulkResponse) EncodeJSON() ([]byte, error) {
	w := newObject()
	avatars, err := v.Avatars()
	w.setView("avatars", avatars, err)
	return w.bytes()
}

type FindBulkResponseCodec struct{}

func (FindBulkResponseCodec) Size() int { return FindBulkResponseSize }

func (FindBulkResponseCodec) FromHandle(h arena.Handle) FindBulkResponse {
	return FindBulkResponse{h: h}
}

func (FindBulkResponseCodec) DecodeJSON(a *arena.Arena, v gjson.Result) (FindBulkResponse, error) {
	if err := requireObject(v); err != nil {
		return FindBulkResponse{}, err
	}

	avatars, err := decodeRequired(a, v, "avatars", arena.DictCodec[Avatar, AvatarCodec]{})
	if err != nil {
		return FindBulkResponse{}, err
	}

	return NewFindBulkResponse(a, avatars)
}

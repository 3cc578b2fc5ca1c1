// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package schema

import (
	"errors"
	"testing"

	"github.com/mulgadc/arenawire/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArena(t *testing.T) *arena.Arena {
	t.Helper()
	a, err := arena.New(4096, arena.DefaultStringCacheSize, false)
	require.NoError(t, err)
	return a
}

func TestSimpleEndToEnd(t *testing.T) {
	a := newArena(t)

	hund, err := a.AllocateText("gamer")
	require.NoError(t, err)
	simple, err := NewSimple(a, 1337, hund, TopEyepatch)
	require.NoError(t, err)

	payload, err := arena.EncodeMessage(simple)
	require.NoError(t, err)

	// Decode an independent copy of the bytes
	received := append([]byte(nil), payload...)
	require.NoError(t, a.Reset())

	ro, err := arena.FromBytes(received)
	require.NoError(t, err)
	got, err := arena.RootAs(ro, SimpleCodec{})
	require.NoError(t, err)

	fie, err := got.Fie()
	require.NoError(t, err)
	assert.Equal(t, int32(1337), fie)

	text, err := got.Hund()
	require.NoError(t, err)
	s, err := text.Decode()
	require.NoError(t, err)
	assert.Equal(t, "gamer", s)

	enumeration, err := got.Enumeration()
	require.NoError(t, err)
	assert.Equal(t, TopEyepatch, enumeration)
	assert.Equal(t, "EYEPATCH", enumeration.String())

	raw, err := got.EncodeJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"fie":1337,"hund":"gamer","enumeration":"EYEPATCH"}`, string(raw))
}

const avatarJSON = `{"top":"LONG_HAIR_BOB","accessories":"ROUND","hairColor":"PASTEL_PINK",` +
	`"facialHair":"BLANK","clothes":"HOODIE","eyes":"WINK","eyebrow":"UP_DOWN","mouth":"SMILE","skin":"LIGHT"}`

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"simple", `{"fie":-5,"hund":"","enumeration":"NO_HAIR"}`},
		{"avatar", avatarJSON},
		{"find_bulk_request", `{"usernames":["alice","bob",null,"alice"],"page":3}`},
		{"find_bulk_request", `{"usernames":[],"page":0}`},
		{"find_bulk_response", `{"avatars":{"alice":` + avatarJSON + `,"bob":null}}`},
		{"find_bulk_response", `{"avatars":{}}`},
		{"user_profile", `{"username":"ünïcode ☃","avatar":` + avatarJSON + `,"nicknames":["a","b"]}`},
		{"user_profile", `{"username":"carol","avatar":null,"nicknames":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt, err := Lookup(tt.name)
			require.NoError(t, err)

			a := newArena(t)
			v, err := mt.Decode(a, []byte(tt.json))
			require.NoError(t, err)

			first, err := v.EncodeJSON()
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(first))

			// Decode the encoding again from the stored bytes
			ro, err := arena.FromBytes(append([]byte(nil), a.SlicedBuffer()...))
			require.NoError(t, err)
			root, err := mt.Root(ro)
			require.NoError(t, err)
			second, err := root.EncodeJSON()
			require.NoError(t, err)
			assert.Equal(t, string(first), string(second))

			b := newArena(t)
			again, err := mt.Decode(b, first)
			require.NoError(t, err)
			third, err := again.EncodeJSON()
			require.NoError(t, err)
			assert.Equal(t, string(first), string(third))
		})
	}
}

func TestUserProfileMissingAvatar(t *testing.T) {
	a := newArena(t)
	p, err := arena.DecodeMessage(a, UserProfileCodec{}, []byte(`{"username":"dave","nicknames":["d"]}`))
	require.NoError(t, err)

	_, ok, err := p.Avatar()
	require.NoError(t, err)
	assert.False(t, ok)

	raw, err := p.EncodeJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"dave","avatar":null,"nicknames":["d"]}`, string(raw))
}

func TestFindBulkResponseLookup(t *testing.T) {
	a := newArena(t)
	resp, err := arena.DecodeMessage(a, FindBulkResponseCodec{},
		[]byte(`{"avatars":{"alice":`+avatarJSON+`,"bob":null}}`))
	require.NoError(t, err)

	avatars, err := resp.Avatars()
	require.NoError(t, err)

	alice, ok, err := avatars.Get("alice")
	require.NoError(t, err)
	require.True(t, ok)
	fields, err := alice.Fields()
	require.NoError(t, err)
	assert.Equal(t, AvatarFields{
		Top:         TopLongHairBob,
		Accessories: AccessoriesRound,
		HairColor:   HairColorPastelPink,
		FacialHair:  FacialHairBlank,
		Clothes:     ClothesHoodie,
		Eyes:        EyesWink,
		Eyebrow:     EyebrowUpDown,
		Mouth:       MouthSmile,
		Skin:        SkinLight,
	}, fields)

	_, ok, err = avatars.Get("bob")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = avatars.Get("mallory")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindBulkRequestInterning(t *testing.T) {
	a := newArena(t)
	req, err := arena.DecodeMessage(a, FindBulkRequestCodec{}, []byte(`{"usernames":["alice","alice"],"page":1}`))
	require.NoError(t, err)

	usernames, err := req.Usernames()
	require.NoError(t, err)
	first, err := usernames.Get(0)
	require.NoError(t, err)
	second, err := usernames.Get(1)
	require.NoError(t, err)
	assert.Equal(t, first.Handle().Offset(), second.Handle().Offset())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		json     string
		path     []string
		wantErrs []error
	}{
		{"invalid json", "simple", `{"fie":`, nil, []error{arena.ErrInvalidJSON}},
		{"not an object", "simple", `[1,2]`, nil, []error{arena.ErrDecodeMismatch}},
		{"missing required", "simple", `{"fie":1,"enumeration":"HAT"}`, []string{"hund"}, []error{arena.ErrDecodeMismatch}},
		{"null required", "simple", `{"fie":1,"hund":null,"enumeration":"HAT"}`, []string{"hund"}, []error{arena.ErrDecodeMismatch}},
		{"string for int", "simple", `{"fie":"1","hund":"x","enumeration":"HAT"}`, []string{"fie"}, []error{arena.ErrDecodeMismatch}},
		{"fractional int", "simple", `{"fie":1.5,"hund":"x","enumeration":"HAT"}`, []string{"fie"}, []error{arena.ErrDecodeMismatch}},
		{"int overflow", "simple", `{"fie":2147483648,"hund":"x","enumeration":"HAT"}`, []string{"fie"}, []error{arena.ErrDecodeMismatch}},
		{"number for text", "simple", `{"fie":1,"hund":7,"enumeration":"HAT"}`, []string{"hund"}, []error{arena.ErrDecodeMismatch}},
		{"unknown enum", "simple", `{"fie":1,"hund":"x","enumeration":"MOHAWK"}`, []string{"enumeration"}, []error{arena.ErrDecodeMismatch, arena.ErrUnknownEnum}},
		{"enum as code", "simple", `{"fie":1,"hund":"x","enumeration":1}`, []string{"enumeration"}, []error{arena.ErrDecodeMismatch}},
		{"object for list", "find_bulk_request", `{"usernames":{},"page":1}`, []string{"usernames"}, []error{arena.ErrDecodeMismatch}},
		{"bad list item", "find_bulk_request", `{"usernames":["a",2],"page":1}`, []string{"usernames", "1"}, []error{arena.ErrDecodeMismatch}},
		{"nested enum", "find_bulk_response", `{"avatars":{"alice":{"top":"HAT"}}}`, []string{"avatars", "alice", "accessories"}, []error{arena.ErrDecodeMismatch}},
		{"array for dict", "find_bulk_response", `{"avatars":[]}`, []string{"avatars"}, []error{arena.ErrDecodeMismatch}},
		{"bad optional", "user_profile", `{"username":"u","avatar":"none","nicknames":[]}`, []string{"avatar"}, []error{arena.ErrDecodeMismatch}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt, err := Lookup(tt.typ)
			require.NoError(t, err)

			a := newArena(t)
			_, err = mt.Decode(a, []byte(tt.json))
			require.Error(t, err)
			for _, want := range tt.wantErrs {
				assert.ErrorIs(t, err, want)
			}

			if tt.path != nil {
				var de *arena.DecodeError
				require.True(t, errors.As(err, &de))
				assert.Equal(t, tt.path, de.Path)
			}
		})
	}
}

func TestDecodeOutOfCapacity(t *testing.T) {
	a, err := arena.New(32, 0, false)
	require.NoError(t, err)

	_, err = arena.DecodeMessage(a, UserProfileCodec{}, []byte(`{"username":"a long enough username","nicknames":[]}`))
	assert.ErrorIs(t, err, arena.ErrOutOfCapacity)
	assert.NotErrorIs(t, err, arena.ErrDecodeMismatch)
}

func TestUnknownEnumCode(t *testing.T) {
	a := newArena(t)
	avatar, err := NewAvatar(a, AvatarFields{Skin: SkinBlack})
	require.NoError(t, err)

	require.NoError(t, avatar.Handle().PutInt16(16, 99))

	_, err = avatar.Skin()
	assert.ErrorIs(t, err, arena.ErrUnknownEnum)
	_, err = avatar.EncodeJSON()
	assert.ErrorIs(t, err, arena.ErrUnknownEnum)

	_, err = NewAvatar(a, AvatarFields{Mouth: Mouth(-1)})
	assert.ErrorIs(t, err, arena.ErrUnknownEnum)
}

func TestNullRequiredField(t *testing.T) {
	a := newArena(t)
	_, err := NewSimple(a, 1, arena.Text{}, TopHat)
	assert.ErrorIs(t, err, arena.ErrNullReference)

	// A zeroed record has a null hund
	zero, err := arena.Allocate(a, SimpleCodec{})
	require.NoError(t, err)
	_, err = zero.EncodeJSON()
	assert.ErrorIs(t, err, arena.ErrNullReference)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"avatar", "find_bulk_request", "find_bulk_response", "simple", "user_profile"}, Names())

	mt, err := LookupTag(TagAvatar)
	require.NoError(t, err)
	assert.Equal(t, "avatar", mt.Name)

	_, err = Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = LookupTag(0)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestEnumTables(t *testing.T) {
	assert.Equal(t, 35, topTable.Len())

	code, err := topTable.Code("EYEPATCH")
	require.NoError(t, err)
	assert.Equal(t, TopEyepatch, code)

	assert.Equal(t, "Skin(42)", Skin(42).String())
}

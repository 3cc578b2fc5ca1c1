// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package schema

import (
	"github.com/mulgadc/arenawire/arena"
	"github.com/tidwall/gjson"
)

// Avatar layout: nine int16 enum codes.
//
//	[0]  top          [2]  accessories  [4]  hairColor
//	[6]  facialHair   [8]  clothes      [10] eyes
//	[12] eyebrow      [14] mouth        [16] skin
const AvatarSize = 18

// AvatarFields holds the decoded values of an Avatar.
type AvatarFields struct {
	Top         Top
	Accessories Accessories
	HairColor   HairColor
	FacialHair  FacialHair
	Clothes     Clothes
	Eyes        Eyes
	Eyebrow     Eyebrow
	Mouth       Mouth
	Skin        Skin
}

type Avatar struct {
	h arena.Handle
}

// NewAvatar allocates an Avatar and writes every field.
func NewAvatar(a *arena.Arena, f AvatarFields) (Avatar, error) {
	v, err := arena.Allocate(a, AvatarCodec{})
	if err != nil {
		return v, err
	}

	h := v.h
	for _, write := range []func() error{
		func() error { return topTable.Write(h, 0, f.Top) },
		func() error { return accessoriesTable.Write(h, 2, f.Accessories) },
		func() error { return hairColorTable.Write(h, 4, f.HairColor) },
		func() error { return facialHairTable.Write(h, 6, f.FacialHair) },
		func() error { return clothesTable.Write(h, 8, f.Clothes) },
		func() error { return eyesTable.Write(h, 10, f.Eyes) },
		func() error { return eyebrowTable.Write(h, 12, f.Eyebrow) },
		func() error { return mouthTable.Write(h, 14, f.Mouth) },
		func() error { return skinTable.Write(h, 16, f.Skin) },
	} {
		if err := write(); err != nil {
			return Avatar{}, err
		}
	}
	return v, nil
}

func (v Avatar) Handle() arena.Handle { return v.h }

func (v Avatar) Top() (Top, error)                 { return topTable.Read(v.h, 0) }
func (v Avatar) Accessories() (Accessories, error) { return accessoriesTable.Read(v.h, 2) }
func (v Avatar) HairColor() (HairColor, error)     { return hairColorTable.Read(v.h, 4) }
func (v Avatar) FacialHair() (FacialHair, error)   { return facialHairTable.Read(v.h, 6) }
func (v Avatar) Clothes() (Clothes, error)         { return clothesTable.Read(v.h, 8) }
func (v Avatar) Eyes() (Eyes, error)               { return eyesTable.Read(v.h, 10) }
func (v Avatar) Eyebrow() (Eyebrow, error)         { return eyebrowTable.Read(v.h, 12) }
func (v Avatar) Mouth() (Mouth, error)             { return mouthTable.Read(v.h, 14) }
func (v Avatar) Skin() (Skin, error)               { return skinTable.Read(v.h, 16) }

// Fields reads every field, failing on the first unknown code.
func (v Avatar) Fields() (f AvatarFields, err error) {
	if f.Top, err = v.Top(); err != nil {
		return f, err
	}
	if f.Accessories, err = v.Accessories(); err != nil {
		return f, err
	}
	if f.HairColor, err = v.HairColor(); err != nil {
		return f, err
	}
	if f.FacialHair, err = v.FacialHair(); err != nil {
		return f, err
	}
	if f.Clothes, err = v.Clothes(); err != nil {
		return f, err
	}
	if f.Eyes, err = v.Eyes(); err != nil {
		return f, err
	}
	if f.Eyebrow, err = v.Eyebrow(); err != nil {
		return f, err
	}
	if f.Mouth, err = v.Mouth(); err != nil {
		return f, err
	}
	f.Skin, err = v.Skin()
	return f, err
}

func (v Avatar) EncodeJSON() ([]byte, error) {
	w := newObject()
	top, err := v.Top()
	setEnum(w, "top", topTable, top, err)
	accessories, err := v.Accessories()
	setEnum(w, "accessories", accessoriesTable, accessories, err)
	hairColor, err := v.HairColor()
	setEnum(w, "hairColor", hairColorTable, hairColor, err)
	facialHair, err := v.FacialHair()
	setEnum(w, "facialHair", facialHairTable, facialHair, err)
	clothes, err := v.Clothes()
	setEnum(w, "clothes", clothesTable, clothes, err)
	eyes, err := v.Eyes()
	setEnum(w, "eyes", eyesTable, eyes, err)
	eyebrow, err := v.Eyebrow()
	setEnum(w, "eyebrow", eyebrowTable, eyebrow, err)
	mouth, err := v.Mouth()
	setEnum(w, "mouth", mouthTable, mouth, err)
	skin, err := v.Skin()
	setEnum(w, "skin", skinTable, skin, err)
	return w.bytes()
}

type AvatarCodec struct{}

func (AvatarCodec) Size() int { return AvatarSize }

func (AvatarCodec) FromHandle(h arena.Handle) Avatar { return Avatar{h: h} }

func (AvatarCodec) DecodeJSON(a *arena.Arena, v gjson.Result) (Avatar, error) {
	if err := requireObject(v); err != nil {
		return Avatar{}, err
	}

	var (
		f   AvatarFields
		err error
	)
	if f.Top, err = decodeEnum(v, "top", topTable); err != nil {
		return Avatar{}, err
	}
	if f.Accessories, err = decodeEnum(v, "accessories", accessoriesTable); err != nil {
		return Avatar{}, err
	}
	if f.HairColor, err = decodeEnum(v, "hairColor", hairColorTable); err != nil {
		return Avatar{}, err
	}
	if f.FacialHair, err = decodeEnum(v, "facialHair", facialHairTable); err != nil {
		return Avatar{}, err
	}
	if f.Clothes, err = decodeEnum(v, "clothes", clothesTable); err != nil {
		return Avatar{}, err
	}
	if f.Eyes, err = decodeEnum(v, "eyes", eyesTable); err != nil {
		return Avatar{}, err
	}
	if f.Eyebrow, err = decodeEnum(v, "eyebrow", eyebrowTable); err != nil {
		return Avatar{}, err
	}
	if f.Mouth, err = decodeEnum(v, "mouth", mouthTable); err != nil {
		return Avatar{}, err
	}
	if f.Skin, err = decodeEnum(v, "skin", skinTable); err != nil {
		return Avatar{}, err
	}

	return NewAvatar(a, f)
}

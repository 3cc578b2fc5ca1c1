// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package schema

import "github.com/mulgadc/arenawire/arena"

// Avatar enums. Codes are stored as int16 and must stay stable; append new
// values at the end of each list.

// Top lists the hair, headwear and eyepatch styles.
type Top int16

const (
	TopNoHair Top = iota
	TopEyepatch
	TopHat
	TopHijab
	TopTurban
	TopWinterHat1
	TopWinterHat2
	TopWinterHat3
	TopWinterHat4
	TopLongHairBigHair
	TopLongHairBob
	TopLongHairBun
	TopLongHairCurly
	TopLongHairCurvy
	TopLongHairDreads
	TopLongHairFrida
	TopLongHairFro
	TopLongHairFroBand
	TopLongHairNotTooLong
	TopLongHairShavedSides
	TopLongHairMiaWallace
	TopLongHairStraight
	TopLongHairStraight2
	TopLongHairStraightStrand
	TopShortHairDreads01
	TopShortHairDreads02
	TopShortHairFrizzle
	TopShortHairShaggyMullet
	TopShortHairShortCurly
	TopShortHairShortFlat
	TopShortHairShortRound
	TopShortHairShortWaved
	TopShortHairSides
	TopShortHairTheCaesar
	TopShortHairTheCaesarSidePart
)

var topTable = arena.NewEnumTable[Top]("Top",
	"NO_HAIR", "EYEPATCH", "HAT", "HIJAB", "TURBAN", "WINTER_HAT_1",
	"WINTER_HAT_2", "WINTER_HAT_3", "WINTER_HAT_4", "LONG_HAIR_BIG_HAIR",
	"LONG_HAIR_BOB", "LONG_HAIR_BUN", "LONG_HAIR_CURLY", "LONG_HAIR_CURVY",
	"LONG_HAIR_DREADS", "LONG_HAIR_FRIDA", "LONG_HAIR_FRO",
	"LONG_HAIR_FRO_BAND", "LONG_HAIR_NOT_TOO_LONG", "LONG_HAIR_SHAVED_SIDES",
	"LONG_HAIR_MIA_WALLACE", "LONG_HAIR_STRAIGHT", "LONG_HAIR_STRAIGHT_2",
	"LONG_HAIR_STRAIGHT_STRAND", "SHORT_HAIR_DREADS_01",
	"SHORT_HAIR_DREADS_02", "SHORT_HAIR_FRIZZLE", "SHORT_HAIR_SHAGGY_MULLET",
	"SHORT_HAIR_SHORT_CURLY", "SHORT_HAIR_SHORT_FLAT",
	"SHORT_HAIR_SHORT_ROUND", "SHORT_HAIR_SHORT_WAVED", "SHORT_HAIR_SIDES",
	"SHORT_HAIR_THE_CAESAR", "SHORT_HAIR_THE_CAESAR_SIDE_PART",
)

func (e Top) String() string { return topTable.String(e) }

type Accessories int16

const (
	AccessoriesBlank Accessories = iota
	AccessoriesKurt
	AccessoriesPrescription01
	AccessoriesPrescription02
	AccessoriesRound
	AccessoriesSunglasses
	AccessoriesWayfarers
)

var accessoriesTable = arena.NewEnumTable[Accessories]("Accessories",
	"BLANK", "KURT", "PRESCRIPTION_01", "PRESCRIPTION_02", "ROUND",
	"SUNGLASSES", "WAYFARERS",
)

func (e Accessories) String() string { return accessoriesTable.String(e) }

type HairColor int16

const (
	HairColorAuburn HairColor = iota
	HairColorBlack
	HairColorBlonde
	HairColorBlondeGolden
	HairColorBrown
	HairColorBrownDark
	HairColorPastelPink
	HairColorPlatinum
	HairColorRed
	HairColorSilverGray
)

var hairColorTable = arena.NewEnumTable[HairColor]("HairColor",
	"AUBURN", "BLACK", "BLONDE", "BLONDE_GOLDEN", "BROWN", "BROWN_DARK",
	"PASTEL_PINK", "PLATINUM", "RED", "SILVER_GRAY",
)

func (e HairColor) String() string { return hairColorTable.String(e) }

type FacialHair int16

const (
	FacialHairBlank FacialHair = iota
	FacialHairBeardMedium
	FacialHairBeardLight
	FacialHairBeardMajestic
	FacialHairMoustacheFancy
	FacialHairMoustacheMagnum
)

var facialHairTable = arena.NewEnumTable[FacialHair]("FacialHair",
	"BLANK", "BEARD_MEDIUM", "BEARD_LIGHT", "BEARD_MAJESTIC",
	"MOUSTACHE_FANCY", "MOUSTACHE_MAGNUM",
)

func (e FacialHair) String() string { return facialHairTable.String(e) }

type Clothes int16

const (
	ClothesBlazerShirt Clothes = iota
	ClothesBlazerSweater
	ClothesCollarSweater
	ClothesGraphicShirt
	ClothesHoodie
	ClothesOverall
	ClothesShirtCrewNeck
	ClothesShirtScoopNeck
	ClothesShirtVNeck
)

var clothesTable = arena.NewEnumTable[Clothes]("Clothes",
	"BLAZER_SHIRT", "BLAZER_SWEATER", "COLLAR_SWEATER", "GRAPHIC_SHIRT",
	"HOODIE", "OVERALL", "SHIRT_CREW_NECK", "SHIRT_SCOOP_NECK",
	"SHIRT_V_NECK",
)

func (e Clothes) String() string { return clothesTable.String(e) }

type Eyes int16

const (
	EyesClose Eyes = iota
	EyesCry
	EyesDefault
	EyesDizzy
	EyesEyeRoll
	EyesHappy
	EyesHearts
	EyesSide
	EyesSquint
	EyesSurprised
	EyesWink
	EyesWinkWacky
)

var eyesTable = arena.NewEnumTable[Eyes]("Eyes",
	"CLOSE", "CRY", "DEFAULT", "DIZZY", "EYE_ROLL", "HAPPY", "HEARTS", "SIDE",
	"SQUINT", "SURPRISED", "WINK", "WINK_WACKY",
)

func (e Eyes) String() string { return eyesTable.String(e) }

type Eyebrow int16

const (
	EyebrowAngry Eyebrow = iota
	EyebrowAngryNatural
	EyebrowDefault
	EyebrowDefaultNatural
	EyebrowFlatNatural
	EyebrowRaisedExcited
	EyebrowRaisedExcitedNatural
	EyebrowSadConcerned
	EyebrowSadConcernedNatural
	EyebrowUniBrowNatural
	EyebrowUpDown
	EyebrowUpDownNatural
)

var eyebrowTable = arena.NewEnumTable[Eyebrow]("Eyebrow",
	"ANGRY", "ANGRY_NATURAL", "DEFAULT", "DEFAULT_NATURAL", "FLAT_NATURAL",
	"RAISED_EXCITED", "RAISED_EXCITED_NATURAL", "SAD_CONCERNED",
	"SAD_CONCERNED_NATURAL", "UNI_BROW_NATURAL", "UP_DOWN", "UP_DOWN_NATURAL",
)

func (e Eyebrow) String() string { return eyebrowTable.String(e) }

type Mouth int16

const (
	MouthConcerned Mouth = iota
	MouthDefault
	MouthDisbelief
	MouthEating
	MouthGrimace
	MouthSad
	MouthScreamOpen
	MouthSerious
	MouthSmile
	MouthTongue
	MouthTwinkle
	MouthVomit
)

var mouthTable = arena.NewEnumTable[Mouth]("Mouth",
	"CONCERNED", "DEFAULT", "DISBELIEF", "EATING", "GRIMACE", "SAD",
	"SCREAM_OPEN", "SERIOUS", "SMILE", "TONGUE", "TWINKLE", "VOMIT",
)

func (e Mouth) String() string { return mouthTable.String(e) }

type Skin int16

const (
	SkinTanned Skin = iota
	SkinYellow
	SkinPale
	SkinLight
	SkinBrown
	SkinDarkBrown
	SkinBlack
)

var skinTable = arena.NewEnumTable[Skin]("Skin",
	"TANNED", "YELLOW", "PALE", "LIGHT", "BROWN", "DARK_BROWN", "BLACK",
)

func (e Skin) String() string { return skinTable.String(e) }

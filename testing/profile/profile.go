// Package profile holds a 96 byte user profile record used to test the structs package end
// to end. The record packs over seventy little-order bitfields around two ID blocks, two
// UTF-16LE names and a big-endian CRC.
package profile

import (
	"github.com/bearlytools/bitstruct/languages/go/structs"
)

// Size is the length of a packed record.
const Size = 96

var storeData = structs.MustStruct("",
	structs.UBitLE("miiVersion", 8), structs.UBitLE("copyable", 1), structs.UBitLE("ngWord", 1), structs.UBitLE("regionMove", 2),
	structs.UBitLE("fontRegion", 2), structs.UBitLE("reserved_0", 2), structs.UBitLE("roomIndex", 4), structs.UBitLE("positionInRoom", 4),
	structs.UBitLE("authorType", 4), structs.UBitLE("birthPlatform", 3), structs.UBitLE("reserved_1", 1),
	structs.MustStruct("authorID", structs.Repeat(structs.Uint8("data"), 8)),
	structs.MustStruct("createID", structs.Repeat(structs.Uint8("data"), 10)),
	structs.Repeat(structs.Uint8("reserved_2"), 2),
	structs.UBitLE("gender", 1), structs.UBitLE("birthMonth", 4), structs.UBitLE("birthDay", 5), structs.UBitLE("favoriteColor", 4),
	structs.UBitLE("favorite", 1), structs.UBitLE("padding_0", 1),
	structs.Char16LE("name", 20),
	structs.Uint8("height"), structs.Uint8("build"),
	structs.UBitLE("localonly", 1), structs.UBitLE("faceType", 4), structs.UBitLE("faceColor", 3), structs.UBitLE("faceTex", 4),
	structs.UBitLE("faceMake", 4), structs.UBitLE("hairType", 8), structs.UBitLE("hairColor", 3), structs.UBitLE("hairFlip", 1), structs.UBitLE("padding_1", 4),
	structs.UBitLE("eyeType", 6), structs.UBitLE("eyeColor", 3), structs.UBitLE("eyeScale", 4), structs.UBitLE("eyeAspect", 3),
	structs.UBitLE("eyeRotate", 5), structs.UBitLE("eyeX", 4), structs.UBitLE("eyeY", 5), structs.UBitLE("padding_2", 2),
	structs.UBitLE("eyebrowType", 5), structs.UBitLE("eyebrowColor", 3), structs.UBitLE("eyebrowScale", 4), structs.UBitLE("eyebrowAspect", 3),
	structs.UBitLE("padding_3", 1), structs.UBitLE("eyebrowRotate", 5), structs.UBitLE("eyebrowX", 4), structs.UBitLE("eyebrowY", 5), structs.UBitLE("padding_4", 2),
	structs.UBitLE("noseType", 5), structs.UBitLE("noseScale", 4), structs.UBitLE("noseY", 5), structs.UBitLE("padding_5", 2),
	structs.UBitLE("mouthType", 6), structs.UBitLE("mouthColor", 3), structs.UBitLE("mouthScale", 4), structs.UBitLE("mouthAspect", 3), structs.UBitLE("mouthY", 5),
	structs.UBitLE("mustacheType", 3), structs.UBitLE("padding_6", 8), structs.UBitLE("beardType", 3), structs.UBitLE("beardColor", 3),
	structs.UBitLE("beardScale", 4), structs.UBitLE("beardY", 5), structs.UBitLE("padding_7", 1),
	structs.UBitLE("glassType", 4), structs.UBitLE("glassColor", 3), structs.UBitLE("glassScale", 4), structs.UBitLE("glassY", 5),
	structs.UBitLE("moleType", 1), structs.UBitLE("moleScale", 4), structs.UBitLE("moleX", 5), structs.UBitLE("moleY", 5), structs.UBitLE("padding_8", 1),
	structs.Char16LE("creatorName", 20),
	structs.Uint16LE("padding_9"),
	structs.Uint16("crc"),
)

// StoreData returns the profile record layout.
func StoreData() *structs.Struct {
	return storeData
}

// Sample is a packed record captured from a real device.
type Sample struct {
	Name string
	Data [Size]byte
}

// Samples returns the captured records. The first has a creator name that starts with a null
// code unit, so it reads back as empty even though the bytes after it are set.
func Samples() []Sample {
	return []Sample{
		{
			Name: "JasmineChlora",
			Data: [Size]byte{
				0x03, 0x00, 0x00, 0x40, 0xa0, 0x41, 0x38, 0xc4, 0xa0, 0x84, 0x00, 0x00, 0xdb, 0xb8, 0x87, 0x31,
				0xbe, 0x60, 0x2b, 0x2a, 0x2a, 0x42, 0x00, 0x00, 0x59, 0x2d, 0x4a, 0x00, 0x61, 0x00, 0x73, 0x00,
				0x6d, 0x00, 0x69, 0x00, 0x6e, 0x00, 0x65, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1c, 0x37,
				0x12, 0x10, 0x7b, 0x01, 0x21, 0x6e, 0x43, 0x1c, 0x0d, 0x64, 0xc7, 0x18, 0x00, 0x08, 0x1e, 0x82,
				0x0d, 0x00, 0x30, 0x41, 0xb3, 0x5b, 0x82, 0x6d, 0x00, 0x00, 0x6f, 0x00, 0x73, 0x00, 0x69, 0x00,
				0x67, 0x00, 0x6f, 0x00, 0x6e, 0x00, 0x61, 0x00, 0x6c, 0x00, 0x00, 0x00, 0x00, 0x00, 0x90, 0x3a,
			},
		},
		{
			Name: "chacha12_1101",
			Data: [Size]byte{
				0x03, 0x00, 0x05, 0x30, 0x6d, 0x2b, 0x02, 0x22, 0x89, 0x44, 0xb7, 0xb5, 0x9c, 0x35, 0xb0, 0x37,
				0x98, 0xb6, 0xe9, 0x7e, 0x6e, 0xb8, 0x00, 0x00, 0x63, 0x41, 0x63, 0x00, 0x68, 0x00, 0x61, 0x00,
				0x72, 0x00, 0x6c, 0x00, 0x69, 0x00, 0x6e, 0x00, 0x65, 0x00, 0x00, 0x00, 0x00, 0x00, 0x4c, 0x26,
				0x02, 0x90, 0x65, 0x06, 0xdb, 0x68, 0x44, 0x18, 0x20, 0x34, 0x46, 0x14, 0x81, 0x12, 0x13, 0x62,
				0x0d, 0x00, 0x00, 0x29, 0x00, 0x52, 0x48, 0x50, 0x63, 0x00, 0x68, 0x00, 0x61, 0x00, 0x72, 0x00,
				0x6c, 0x00, 0x69, 0x00, 0x6e, 0x00, 0x65, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x72, 0xdb,
			},
		},
	}
}

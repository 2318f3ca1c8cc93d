package tmx

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"
)

// DecodeBase64 decodes the text of a <data encoding="base64"> element into
// little-endian words of wordBytes bytes each. Whitespace anywhere in the
// text, non-breaking spaces included, is ignored. A trailing partial word is
// padded with zero bytes.
func DecodeBase64(text string, wordBytes int) ([]uint32, error) {
	if wordBytes < 1 || wordBytes > 4 {
		return nil, fmt.Errorf("%w: word size %d", ErrInvalidData, wordBytes)
	}

	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	raw, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrInvalidData, err)
	}
	return packWords(raw, wordBytes), nil
}

func packWords(raw []byte, wordBytes int) []uint32 {
	words := make([]uint32, (len(raw)+wordBytes-1)/wordBytes)
	for i := range words {
		offset := i * wordBytes

		// Tiled always writes 4-byte GIDs
		if wordBytes == 4 && offset+4 <= len(raw) {
			words[i] = binary.LittleEndian.Uint32(raw[offset:])
			continue
		}

		var w uint32
		for j := wordBytes - 1; j >= 0; j-- {
			if offset+j < len(raw) {
				w |= uint32(raw[offset+j]) << (8 * j)
			}
		}
		words[i] = w
	}
	return words
}

// EncodeBase64 is the inverse of DecodeBase64 for 4-byte words.
func EncodeBase64(gids []uint32) string {
	raw := make([]byte, 4*len(gids))
	for i, gid := range gids {
		binary.LittleEndian.PutUint32(raw[4*i:], gid)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// Package gameid mints sortable identifiers for game runs. An id is a
// UUIDv7 rendered as 26 characters of Crockford base32, so ids sort by
// creation time and stay filesystem and log friendly.
package gameid

import (
	"fmt"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet, as used by TypeID.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// New returns a fresh game id.
func New() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating game id: %w", err)
	}
	return encode(id), nil
}

// encode renders a 128-bit UUID as 26 base32 characters, reading the bits
// big-endian in 5-bit groups. Big-endian encoding preserves the UUIDv7
// time ordering in the string form.
func encode(id uuid.UUID) string {
	result := make([]byte, 26)
	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (id[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (id[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= id[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}
		result[i] = alphabet[value]
	}
	return string(result)
}

// Validate checks that id is 26 characters of base32 with a plausible
// leading character. The leading character encodes the top of the UUIDv7
// timestamp, which stays at or below 7 for any realistic clock.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("game id must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game id first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		valid := false
		for _, validChar := range alphabet {
			if char == validChar {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}

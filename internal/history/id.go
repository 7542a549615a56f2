package history

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"
)

// Crockford's base32, as used by TypeID
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// IDLength is the length of a session ID
const IDLength = 26

// NewSessionID returns a UUIDv7 for the given time, encoded as 26 base32
// characters. IDs sort by creation time. random supplies the low 74 bits and
// defaults to crypto/rand.
func NewSessionID(now time.Time, random io.Reader) (string, error) {
	if random == nil {
		random = rand.Reader
	}

	var uuid [16]byte
	ms := now.UnixMilli()
	for i := 0; i < 6; i++ {
		uuid[i] = byte(ms >> (40 - 8*i))
	}
	if _, err := io.ReadFull(random, uuid[6:]); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70 // version 7
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // variant 10

	return encodeBase32(uuid), nil
}

// encodeBase32 encodes 128 bits as 26 characters, five bits at a time,
// padding the final character with two zero bits.
func encodeBase32(data [16]byte) string {
	out := make([]byte, IDLength)
	for i := range out {
		bit := i * 5
		byteIndex, shift := bit/8, bit%8

		// Read 16 bits starting at byteIndex and take the five we need
		window := uint16(data[byteIndex]) << 8
		if byteIndex+1 < len(data) {
			window |= uint16(data[byteIndex+1])
		}
		out[i] = alphabet[(window>>(11-shift))&0x1f]
	}
	return string(out)
}

// ValidateSessionID checks that id could have come from NewSessionID
func ValidateSessionID(id string) error {
	if len(id) != IDLength {
		return fmt.Errorf("session ID must be exactly %d characters, got %d", IDLength, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("session ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}

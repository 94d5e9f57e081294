// Package idgen generates the opaque 12-byte identifiers used for
// version_id and upload_id (§3). IDs are random, not derived from any
// sequence, and carry no structure a client may rely on.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const byteLen = 12

// ID is a 12-byte opaque identifier, hex-encoded for wire/storage use.
type ID [byteLen]byte

// New generates a fresh random ID.
func New() (ID, error) {
	var id ID
	if _, err := rand.Read(id[:]); err != nil {
		return ID{}, fmt.Errorf("idgen: read random bytes: %w", err)
	}
	return id, nil
}

// MustNew panics on entropy failure. Used at call sites that have no
// sensible error path, such as test fixtures.
func MustNew() ID {
	id, err := New()
	if err != nil {
		panic(err)
	}
	return id
}

// String renders the ID as lowercase hex, the canonical wire form.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Upper renders the ID as uppercase hex.
func (id ID) Upper() string {
	return strings.ToUpper(id.String())
}

// Parse decodes a hex-encoded ID, accepting either case.
func Parse(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	b, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, fmt.Errorf("idgen: decode %q: %w", s, err)
	}
	if len(b) != byteLen {
		return ID{}, fmt.Errorf("idgen: %q decodes to %d bytes, want %d", s, len(b), byteLen)
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Package hashutil computes and verifies the content hashes used across
// the upload and publish pipelines: SHA-256 for reassembled upload
// integrity (§4.6 step 2) and CRC-32 for the per-file checksum recorded
// against each published update file (§4.6 step 7).
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/playforge/updatedist/pkg/apperr"
)

// SHA256File hashes the file at path and returns its lowercase hex digest.
func SHA256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("hashutil: open %s: %w", path, err))
	}
	defer f.Close()
	return SHA256Reader(f)
}

// SHA256Reader hashes everything read from r.
func SHA256Reader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", apperr.Internal(fmt.Errorf("hashutil: copy: %w", err))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifySHA256File recomputes the hash of path and compares it against
// expected. Returns an IntegrityError (§7) on mismatch, not a bare error,
// so transports can map it to the right status without string matching.
func VerifySHA256File(path, expected string) error {
	got, err := SHA256File(path)
	if err != nil {
		return err
	}
	if got != expected {
		return apperr.Integrity(fmt.Sprintf("hash mismatch: expected %s, got %s", expected, got))
	}
	return nil
}

// CRC32File computes the IEEE CRC-32 of path and returns its hex digest,
// the checksum recorded per update file (§4.6 step 7).
func CRC32File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("hashutil: open %s: %w", path, err))
	}
	defer f.Close()
	return CRC32Reader(f)
}

// CRC32Reader computes the IEEE CRC-32 of everything read from r.
func CRC32Reader(r io.Reader) (string, error) {
	h := crc32.NewIEEE()
	if _, err := io.Copy(h, r); err != nil {
		return "", apperr.Internal(fmt.Errorf("hashutil: copy: %w", err))
	}
	return fmt.Sprintf("%08x", h.Sum32()), nil
}

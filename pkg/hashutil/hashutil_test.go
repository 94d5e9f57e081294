package hashutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/playforge/updatedist/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSHA256Reader_KnownVector(t *testing.T) {
	got, err := SHA256Reader(strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", got)
}

func TestSHA256File(t *testing.T) {
	path := writeTemp(t, "hello world")
	got, err := SHA256File(path)
	require.NoError(t, err)
	assert.Len(t, got, 64)
}

func TestVerifySHA256File_Match(t *testing.T) {
	path := writeTemp(t, "payload")
	sum, err := SHA256File(path)
	require.NoError(t, err)
	assert.NoError(t, VerifySHA256File(path, sum))
}

func TestVerifySHA256File_Mismatch(t *testing.T) {
	path := writeTemp(t, "payload")
	err := VerifySHA256File(path, "not-the-right-hash")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindIntegrity))
}

func TestCRC32Reader_Deterministic(t *testing.T) {
	a, err := CRC32Reader(strings.NewReader("same bytes"))
	require.NoError(t, err)
	b, err := CRC32Reader(strings.NewReader("same bytes"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 8)
}

func TestCRC32File(t *testing.T) {
	path := writeTemp(t, "checksum me")
	got, err := CRC32File(path)
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

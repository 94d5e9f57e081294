package usecases

import (
	"archive/zip"
	"bytes"
	"compress/zlib"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatenateChunks_OrdersByOffset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000001.data"), []byte("B"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000000.data"), []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000010.data"), []byte("C"), 0o644))

	dst := filepath.Join(dir, "out.zip")
	require.NoError(t, concatenateChunks(dir, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(got))
}

func TestConcatenateChunks_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000000.data"), []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	dst := filepath.Join(dir, "out.zip")
	require.NoError(t, concatenateChunks(dir, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "A", string(got))
}

// TestDeflate_RoundTrip is the compress/decompress round-trip law of §8:
// inflating what deflate produced must reproduce the original bytes.
func TestDeflate_RoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog"), 200)

	packed, err := deflate(original)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(original), "repetitive input should compress")

	zr, err := zlib.NewReader(bytes.NewReader(packed))
	require.NoError(t, err)
	defer zr.Close()
	roundTripped, err := io.ReadAll(zr)
	require.NoError(t, err)

	assert.Equal(t, original, roundTripped)
}

func TestDeflate_EmptyInput(t *testing.T) {
	packed, err := deflate(nil)
	require.NoError(t, err)

	zr, err := zlib.NewReader(bytes.NewReader(packed))
	require.NoError(t, err)
	defer zr.Close()
	roundTripped, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Empty(t, roundTripped)
}

func TestExtractZip_RestoresTreeAndContents(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "src.zip")

	func() {
		f, err := os.Create(zipPath)
		require.NoError(t, err)
		defer f.Close()
		zw := zip.NewWriter(f)
		w, err := zw.Create("windows/bin/game.exe")
		require.NoError(t, err)
		_, err = w.Write([]byte("binary-contents"))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
	}()

	dst := filepath.Join(dir, "out")
	require.NoError(t, extractZip(zipPath, dst))

	got, err := os.ReadFile(filepath.Join(dst, "windows", "bin", "game.exe"))
	require.NoError(t, err)
	assert.Equal(t, "binary-contents", string(got))
}

func TestWalkFiles_ListsRelativePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "windows", "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "windows", "bin", "a.dat"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "general"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "general", "b.dat"), []byte("y"), 0o644))

	rels, err := walkFiles(dir)
	require.NoError(t, err)
	assert.Len(t, rels, 2)
}

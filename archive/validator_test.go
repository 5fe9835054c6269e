package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildZip writes a zip archive with the given name->content entries and
// returns its path
func buildZip(t *testing.T, dir, name string, entries map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for entryName, content := range entries {
		w, err := zw.Create(entryName)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestValidateArchiveAccepts(t *testing.T) {
	dir := t.TempDir()
	path := buildZip(t, dir, "ok.zip", map[string][]byte{
		"Takeout/Google Photos/img.jpg": []byte("jpeg-ish content that does not compress to nothing"),
	})

	err := ValidateArchive(path, dir, DefaultLimits(), zerolog.Nop())
	assert.NoError(t, err)
}

func TestValidateArchiveRejectsEntryCount(t *testing.T) {
	dir := t.TempDir()
	path := buildZip(t, dir, "many.zip", map[string][]byte{
		"a.jpg": []byte("a"),
		"b.jpg": []byte("b"),
		"c.jpg": []byte("c"),
	})

	limits := DefaultLimits()
	limits.MaxEntries = 2
	err := ValidateArchive(path, dir, limits, zerolog.Nop())
	assert.ErrorContains(t, err, "more than 2 entries")
}

func TestValidateArchiveRejectsUncompressedTotal(t *testing.T) {
	dir := t.TempDir()
	path := buildZip(t, dir, "big.zip", map[string][]byte{
		"big.jpg": bytes.Repeat([]byte("x"), 4096),
	})

	limits := DefaultLimits()
	limits.MaxUncompressed = 1024
	err := ValidateArchive(path, dir, limits, zerolog.Nop())
	assert.ErrorContains(t, err, "uncompressed bytes")
}

func TestValidateArchiveRejectsCompressionRatio(t *testing.T) {
	dir := t.TempDir()
	// a megabyte of zeros deflates to a few kilobytes, well past 100:1
	path := buildZip(t, dir, "bomb.zip", map[string][]byte{
		"zeros.bin": make([]byte, 1<<20),
	})

	err := ValidateArchive(path, dir, DefaultLimits(), zerolog.Nop())
	assert.ErrorContains(t, err, "compression ratio")
}

func TestValidateArchiveUnreadable(t *testing.T) {
	dir := t.TempDir()
	err := ValidateArchive(filepath.Join(dir, "missing.zip"), dir, DefaultLimits(), zerolog.Nop())
	assert.ErrorContains(t, err, "failed to open archive")
}

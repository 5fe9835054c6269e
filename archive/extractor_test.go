package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWritesTreeAndTimestamps(t *testing.T) {
	dir := t.TempDir()
	modified := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("Takeout/Google Photos/Album X/")
	require.NoError(t, err)
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     "Takeout/Google Photos/Album X/img.jpg",
		Method:   zip.Deflate,
		Modified: modified,
	})
	require.NoError(t, err)
	_, err = w.Write([]byte("image bytes"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	archivePath := filepath.Join(dir, "takeout-001.zip")
	require.NoError(t, os.WriteFile(archivePath, buf.Bytes(), 0644))

	destDir := filepath.Join(dir, "staging")
	require.NoError(t, Extract(archivePath, destDir))

	extracted := filepath.Join(destDir, "Takeout", "Google Photos", "Album X", "img.jpg")
	content, err := os.ReadFile(extracted)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(content))

	info, err := os.Stat(extracted)
	require.NoError(t, err)
	assert.WithinDuration(t, modified, info.ModTime(), 2*time.Second)
}

func TestExtractOverwritesIntoSharedTree(t *testing.T) {
	dir := t.TempDir()
	destDir := filepath.Join(dir, "staging")

	first := buildZip(t, dir, "takeout-001.zip", map[string][]byte{
		"Takeout/a.jpg": []byte("first"),
	})
	second := buildZip(t, dir, "takeout-002.zip", map[string][]byte{
		"Takeout/a.jpg": []byte("second archive wins"),
		"Takeout/b.jpg": []byte("only in second"),
	})

	require.NoError(t, Extract(first, destDir))
	require.NoError(t, Extract(second, destDir))

	content, err := os.ReadFile(filepath.Join(destDir, "Takeout", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second archive wins", string(content))
	assert.FileExists(t, filepath.Join(destDir, "Takeout", "b.jpg"))
}

func TestExtractRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	path := buildZip(t, dir, "evil.zip", map[string][]byte{
		"../escape.txt": []byte("nope"),
	})

	err := Extract(path, filepath.Join(dir, "staging"))
	assert.ErrorContains(t, err, "escapes destination")
	assert.NoFileExists(t, filepath.Join(dir, "escape.txt"))
}

func TestSafeJoinRejectsAbsolute(t *testing.T) {
	_, err := safeJoin("/staging", "/etc/passwd")
	assert.ErrorContains(t, err, "absolute path")
}

func TestExtractWithRetryPropagatesFinalError(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.zip")

	start := time.Now()
	err := ExtractWithRetry(missing, filepath.Join(dir, "staging"), 2, time.Millisecond, zerolog.Nop())
	assert.ErrorContains(t, err, "failed to open archive")
	// one retry with the delay clamped up to the 100ms floor
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestExtractWithRetrySucceedsFirstTry(t *testing.T) {
	dir := t.TempDir()
	path := buildZip(t, dir, "ok.zip", map[string][]byte{
		"Takeout/a.jpg": []byte("content"),
	})

	start := time.Now()
	err := ExtractWithRetry(path, filepath.Join(dir, "staging"), 3, time.Second, zerolog.Nop())
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

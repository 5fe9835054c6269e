package organizer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestPlaceFileAllocatesSuffixes(t *testing.T) {
	dir := t.TempDir()
	destDir := filepath.Join(dir, "by-year", "2021")
	require.NoError(t, os.MkdirAll(destDir, 0755))

	policy := PlacePolicy{UseHardLinks: true, CopyFallback: true}

	srcA := filepath.Join(dir, "a", "photo.jpg")
	srcB := filepath.Join(dir, "b", "photo.jpg")
	srcC := filepath.Join(dir, "c", "photo.jpg")
	writeFile(t, srcA, "first")
	writeFile(t, srcB, "second")
	writeFile(t, srcC, "third")

	first, err := PlaceFile(srcA, destDir, "photo.jpg", policy)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "photo.jpg"), first)

	second, err := PlaceFile(srcB, destDir, "photo.jpg", policy)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "photo_2.jpg"), second)

	third, err := PlaceFile(srcC, destDir, "photo.jpg", policy)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "photo_3.jpg"), third)

	// nothing was overwritten
	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))
}

func TestPlaceFileHardLinkSharesInode(t *testing.T) {
	dir := t.TempDir()
	destDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(destDir, 0755))

	src := filepath.Join(dir, "src", "img.jpg")
	writeFile(t, src, "content")

	target, err := PlaceFile(src, destDir, "img.jpg", PlacePolicy{UseHardLinks: true})
	require.NoError(t, err)

	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	targetInfo, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, os.SameFile(srcInfo, targetInfo))
}

func TestPlaceFileCopyPreservesTimestamps(t *testing.T) {
	dir := t.TempDir()
	destDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(destDir, 0755))

	src := filepath.Join(dir, "src", "img.jpg")
	writeFile(t, src, "content")
	mtime := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	target, err := PlaceFile(src, destDir, "img.jpg", PlacePolicy{UseHardLinks: false})
	require.NoError(t, err)

	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	targetInfo, err := os.Stat(target)
	require.NoError(t, err)
	assert.False(t, os.SameFile(srcInfo, targetInfo))
	assert.True(t, targetInfo.ModTime().Equal(mtime))
}

func TestPlaceFileSourceEqualsTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "img.jpg")
	writeFile(t, src, "content")

	target, err := PlaceFile(src, dir, "img.jpg", PlacePolicy{UseHardLinks: true})
	require.NoError(t, err)
	assert.Equal(t, src, target)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCandidateName(t *testing.T) {
	assert.Equal(t, "photo.jpg", candidateName("photo.jpg", 1))
	assert.Equal(t, "photo_2.jpg", candidateName("photo.jpg", 2))
	assert.Equal(t, "photo_10.jpg", candidateName("photo.jpg", 10))
	assert.Equal(t, "noext_2", candidateName("noext", 2))
	assert.Equal(t, "img(1)_2.jpg", candidateName("img(1).jpg", 2))
}

func TestIsExists(t *testing.T) {
	assert.False(t, isExists(nil))
	assert.True(t, isExists(os.ErrExist))

	dir := t.TempDir()
	path := filepath.Join(dir, "x")
	writeFile(t, path, "a")
	_, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	assert.True(t, isExists(err))

	err = os.Link(path, path)
	assert.True(t, isExists(err))
}

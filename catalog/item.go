package catalog

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/camden-git/takeoutorganizer/media"
)

// Status is the lifecycle state of a MediaItem. transitions are
// pending -> completed or pending -> failed, both terminal
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// yearFolderPrefix marks Takeout's year-bucket folders, which are not user
// albums and never get a by-album destination
const yearFolderPrefix = "Photos from "

// MediaItem is one discovered media file and everything later stages learn
// about it. an item is created during discovery and never deleted; exactly
// one worker owns it at any time, so its fields need no locking
type MediaItem struct {
	ID           string // blake3 fingerprint of the absolute original path
	OriginalPath string
	Filename     string
	Extension    string // possibly corrected from the declared extension
	Metadata     *media.Metadata
	SourceAlbum  string // first path segment under the media root, "" at root

	DuplicateGroup string // base filename, set only for numbered variants
	DuplicateIndex int    // 0 = canonical, N = the (N) suffix

	YearPath  string // by-year destination, "" until organized
	AlbumPath string // by-album destination, "" unless album-classified

	Size    int64
	ModTime time.Time // filesystem mtime of the original, cascade fallback

	Status Status
	Error  string
}

// ItemID computes the content-independent identity for a file: a blake3
// fingerprint of its absolute original path, stable across runs against the
// same staging layout
func ItemID(absPath string) string {
	sum := blake3.Sum256([]byte(absPath))
	return hex.EncodeToString(sum[:])
}

// IsAlbumClassified reports whether the item's source folder counts as a
// real user album rather than a year bucket
func (m *MediaItem) IsAlbumClassified() bool {
	return m.SourceAlbum != "" && !strings.HasPrefix(m.SourceAlbum, yearFolderPrefix)
}

// GroupKey returns the key used for duplicate grouping: the parsed base
// filename for numbered variants, the filename itself otherwise
func (m *MediaItem) GroupKey() string {
	if m.DuplicateGroup != "" {
		return m.DuplicateGroup
	}
	return m.Filename
}

// SetError records a failure message with first-wins semantics; later
// stages never overwrite an earlier stage's error
func (m *MediaItem) SetError(msg string) {
	if m.Error == "" {
		m.Error = msg
	}
}

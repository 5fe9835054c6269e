package organizer

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/camden-git/takeoutorganizer/catalog"
)

// filenameDateRe finds YYYY[-_]?MM[-_]?DD anywhere in a filename, year
// restricted to 20[0-2]x so phone sequence numbers don't match
var filenameDateRe = regexp.MustCompile(`(20[0-2]\d)[-_]?(\d{2})[-_]?(\d{2})`)

// yearFolderRe matches Takeout's year-bucket source folders
var yearFolderRe = regexp.MustCompile(`^Photos from (\d{4})$`)

// captureSource produces a validated candidate instant for an item, or
// reports none. the resolver takes the first hit, so priority lives in
// the source list, not inside any source
type captureSource func(item *catalog.MediaItem) (time.Time, bool)

var captureSources = []captureSource{
	fromTakenTime,
	fromCreationTime,
	fromFilenameDate,
	fromYearFolder,
	fromModTime,
}

// ResolveCaptureTime walks the capture-time cascade: sidecar taken time,
// sidecar creation time, a date pattern in the filename, a "Photos from
// YYYY" source folder, then the original file's mtime. false means every
// source failed validation and the item routes to the unknown-year folder
func ResolveCaptureTime(item *catalog.MediaItem) (time.Time, bool) {
	for _, source := range captureSources {
		if t, ok := source(item); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ResolveYearLabel names the by-year bucket for an item
func ResolveYearLabel(item *catalog.MediaItem, unknownName string) string {
	if t, ok := ResolveCaptureTime(item); ok {
		return strconv.Itoa(t.UTC().Year())
	}
	return unknownName
}

func fromTakenTime(item *catalog.MediaItem) (time.Time, bool) {
	return item.Metadata.TakenTime()
}

func fromCreationTime(item *catalog.MediaItem) (time.Time, bool) {
	return item.Metadata.CreatedTime()
}

func fromFilenameDate(item *catalog.MediaItem) (time.Time, bool) {
	m := filenameDateRe.FindStringSubmatch(item.Filename)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return validated(t)
}

func fromYearFolder(item *catalog.MediaItem) (time.Time, bool) {
	m := yearFolderRe.FindStringSubmatch(item.SourceAlbum)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	return validated(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
}

func fromModTime(item *catalog.MediaItem) (time.Time, bool) {
	if item.ModTime.IsZero() {
		return time.Time{}, false
	}
	return validated(item.ModTime.UTC())
}

// ResolveAuthoritativeTime picks the instant the timestamp setter writes
// to the materialized paths: sidecar taken time, creation time, then the
// mtime of the already-materialized primary path
func ResolveAuthoritativeTime(item *catalog.MediaItem) (time.Time, bool) {
	if t, ok := item.Metadata.TakenTime(); ok {
		return t, true
	}
	if t, ok := item.Metadata.CreatedTime(); ok {
		return t, true
	}
	if item.YearPath != "" {
		if info, err := os.Stat(item.YearPath); err == nil {
			return info.ModTime(), true
		}
	}
	return time.Time{}, false
}

// validated accepts an instant only when its year lies in the window
// [1990, currentYear+1]
func validated(t time.Time) (time.Time, bool) {
	year := t.UTC().Year()
	if year < 1990 || year > time.Now().UTC().Year()+1 {
		return time.Time{}, false
	}
	return t, true
}

// filenameHasDate is used by tests and diagnostics to check source (c)
// in isolation
func filenameHasDate(filename string) bool {
	return filenameDateRe.FindStringIndex(strings.TrimSpace(filename)) != nil
}

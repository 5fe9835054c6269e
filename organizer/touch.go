package organizer

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/camden-git/takeoutorganizer/catalog"
)

// SetItemTimestamps sets access and modification time on an item's
// materialized paths to its authoritative capture instant. a hard-linked
// album path shares the primary's inode and must not be touched twice;
// only a genuinely separate file (copy fallback) gets its own utimes.
// failures are non-fatal: counted, recorded first-wins, run continues
func SetItemTimestamps(ctx *catalog.Context, item *catalog.MediaItem, log zerolog.Logger) {
	if err := setTimestamps(item); err != nil {
		ctx.Stats.TimestampFailures.Add(1)
		item.SetError(err.Error())
		log.Warn().Err(err).Str("file", item.Filename).Msg("timestamp update failed")
	}
}

func setTimestamps(item *catalog.MediaItem) error {
	if item.YearPath == "" {
		return nil
	}

	instant, ok := ResolveAuthoritativeTime(item)
	if !ok {
		return nil
	}

	if err := os.Chtimes(item.YearPath, instant, instant); err != nil {
		return fmt.Errorf("failed to set timestamps on %s: %w", item.YearPath, err)
	}

	if item.AlbumPath == "" || sameInode(item.YearPath, item.AlbumPath) {
		return nil
	}
	if err := os.Chtimes(item.AlbumPath, instant, instant); err != nil {
		return fmt.Errorf("failed to set timestamps on %s: %w", item.AlbumPath, err)
	}
	return nil
}

// sameInode compares the underlying files of two paths
func sameInode(a, b string) bool {
	aInfo, err := os.Stat(a)
	if err != nil {
		return false
	}
	bInfo, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(aInfo, bInfo)
}

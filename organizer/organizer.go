package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/camden-git/takeoutorganizer/catalog"
	"github.com/camden-git/takeoutorganizer/config"
)

// Organizer materializes catalog items into the by-year and by-album
// trees. one Organizer serves all workers; per-item state lives on the
// item itself
type Organizer struct {
	cfg *config.Config
	log zerolog.Logger
}

func New(cfg *config.Config, log zerolog.Logger) *Organizer {
	return &Organizer{cfg: cfg, log: log}
}

// ProcessItem runs the per-item state machine: resolve the capture year,
// materialize under the year tree, then link into the album tree when the
// source folder is album-classified. any failure marks the item failed
// with first-wins error semantics; partial artifacts are left in place
// for diagnosis
func (o *Organizer) ProcessItem(ctx *catalog.Context, item *catalog.MediaItem) {
	if err := o.organize(item); err != nil {
		item.Status = catalog.StatusFailed
		item.SetError(err.Error())
		ctx.Stats.FailedFiles.Add(1)
		o.log.Error().Err(err).Str("file", item.Filename).Msg("organization failed")
		return
	}
	item.Status = catalog.StatusCompleted
	ctx.Stats.ProcessedFiles.Add(1)
}

func (o *Organizer) organize(item *catalog.MediaItem) error {
	label := ResolveYearLabel(item, o.cfg.Output.UnknownYearName)

	yearDir := filepath.Join(o.cfg.YearDir(), label)
	if err := os.MkdirAll(yearDir, 0755); err != nil {
		return fmt.Errorf("failed to create year directory %s: %w", yearDir, err)
	}

	policy := PlacePolicy{
		UseHardLinks: o.cfg.Processing.UseHardLinks,
		CopyFallback: o.cfg.Processing.CopyFallback,
	}

	yearPath, err := PlaceFile(item.OriginalPath, yearDir, o.destFilename(item), policy)
	if err != nil {
		return fmt.Errorf("failed to place %s under %s: %w", item.Filename, yearDir, err)
	}
	item.YearPath = yearPath

	if !item.IsAlbumClassified() {
		return nil
	}

	albumDir := filepath.Join(o.cfg.AlbumDir(), item.SourceAlbum)
	if err := os.MkdirAll(albumDir, 0755); err != nil {
		return fmt.Errorf("failed to create album directory %s: %w", albumDir, err)
	}

	// the year copy is the link source so both trees share one inode
	albumPath, err := PlaceFile(item.YearPath, albumDir, o.destFilename(item), policy)
	if err != nil {
		return fmt.Errorf("failed to place %s under %s: %w", item.Filename, albumDir, err)
	}
	item.AlbumPath = albumPath
	return nil
}

// destFilename applies the corrected extension to the item's filename
func (o *Organizer) destFilename(item *catalog.MediaItem) string {
	declared := filepath.Ext(item.Filename)
	if declared == item.Extension {
		return item.Filename
	}
	return strings.TrimSuffix(item.Filename, declared) + item.Extension
}

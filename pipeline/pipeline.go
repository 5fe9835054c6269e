package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/camden-git/takeoutorganizer/archive"
	"github.com/camden-git/takeoutorganizer/catalog"
	"github.com/camden-git/takeoutorganizer/config"
	"github.com/camden-git/takeoutorganizer/media"
	"github.com/camden-git/takeoutorganizer/organizer"
	"github.com/camden-git/takeoutorganizer/scanner"
	"github.com/camden-git/takeoutorganizer/tagger"
	"github.com/camden-git/takeoutorganizer/workers"
)

// tagging invokes an external process per file; cap its pool below the
// general concurrency level
const tagWriterConcurrency = 2

// Pipeline wires the six processing stages over one shared context
type Pipeline struct {
	cfg       *config.Config
	log       zerolog.Logger
	tagWriter tagger.Writer
}

func New(cfg *config.Config, tagWriter tagger.Writer, log zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, tagWriter: tagWriter}
}

// Run executes the full pipeline into a fresh context. the context
// carries the final catalog and stats even when individual items failed;
// only the fatal conditions of stage 1 and environment failures abort
// with an error
func (p *Pipeline) Run() (*catalog.Context, error) {
	ctx := catalog.NewContext(p.cfg)
	return ctx, p.RunInto(ctx)
}

// RunInto executes the pipeline into a caller-provided context, which may
// already be observed concurrently (e.g. by the status endpoint)
func (p *Pipeline) RunInto(ctx *catalog.Context) error {
	if err := p.prepareDirs(); err != nil {
		return err
	}
	if err := p.extractArchives(); err != nil {
		return err
	}

	ctx.MediaRoot = scanner.ResolveMediaRoot(p.cfg.Output.StagingDir)
	if err := scanner.Scan(ctx, ctx.MediaRoot, p.log); err != nil {
		return err
	}

	catalog.Analyze(ctx, p.log)

	org := organizer.New(p.cfg, p.log)
	pending := ctx.ItemsWithStatus(catalog.StatusPending)
	workers.RunBatch(pending, p.cfg.Processing.Concurrency, p.log, "organize", func(item *catalog.MediaItem) {
		org.ProcessItem(ctx, item)
	})

	completed := ctx.ItemsWithStatus(catalog.StatusCompleted)
	workers.RunBatch(completed, tagWriterConcurrency, p.log, "write-metadata", func(item *catalog.MediaItem) {
		tagger.WriteItemTags(ctx, item, p.tagWriter, p.log)
	})

	workers.RunBatch(completed, p.cfg.Processing.Concurrency, p.log, "set-timestamps", func(item *catalog.MediaItem) {
		organizer.SetItemTimestamps(ctx, item, p.log)
	})

	if p.cfg.Previews.Enabled {
		p.generatePreviews(ctx, completed)
	}

	snap := ctx.Stats.Snapshot()
	p.log.Info().
		Int64("total", snap.TotalFiles).
		Int64("processed", snap.ProcessedFiles).
		Int64("failed", snap.FailedFiles).
		Int64("exif_failures", snap.ExifFailures).
		Int64("timestamp_failures", snap.TimestampFailures).
		Msg("pipeline finished")
	return nil
}

func (p *Pipeline) prepareDirs() error {
	for _, dir := range []string{p.cfg.Output.StagingDir, p.cfg.YearDir(), p.cfg.AlbumDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// extractArchives validates and extracts every matched archive, strictly
// sequentially: later stages assume the staging tree is complete before
// discovery starts. any archive's unrecoverable failure aborts the run
func (p *Pipeline) extractArchives() error {
	pattern := filepath.Join(p.cfg.Input.ArchiveDir, p.cfg.Input.ArchiveGlob)
	archives, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("bad archive glob %s: %w", pattern, err)
	}
	if len(archives) == 0 {
		return fmt.Errorf("no archives matched %s", pattern)
	}

	limits := archive.DefaultLimits()
	for _, archivePath := range archives {
		name := filepath.Base(archivePath)
		p.log.Info().Str("archive", name).Msg("validating archive")
		if err := archive.ValidateArchive(archivePath, p.cfg.Output.StagingDir, limits, p.log); err != nil {
			return fmt.Errorf("archive %s failed validation: %w", name, err)
		}

		p.log.Info().Str("archive", name).Msg("extracting archive")
		err := archive.ExtractWithRetry(
			archivePath,
			p.cfg.Output.StagingDir,
			p.cfg.Processing.RetryAttempts,
			p.cfg.Processing.RetryDelay,
			p.log,
		)
		if err != nil {
			return fmt.Errorf("archive %s failed to extract: %w", name, err)
		}
	}
	return nil
}

func (p *Pipeline) generatePreviews(ctx *catalog.Context, completed []*catalog.MediaItem) {
	previewDir := p.cfg.PreviewDir()
	workers.RunBatch(completed, p.cfg.Processing.Concurrency, p.log, "previews", func(item *catalog.MediaItem) {
		if media.IsVideoExt(item.Extension) || item.YearPath == "" {
			return
		}
		if _, err := media.GeneratePreview(item.YearPath, previewDir, p.cfg.Previews.MaxSize); err != nil {
			p.log.Warn().Err(err).Str("file", item.Filename).Msg("preview generation failed")
		}
	})
}

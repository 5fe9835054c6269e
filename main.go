package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/camden-git/takeoutorganizer/catalog"
	"github.com/camden-git/takeoutorganizer/config"
	"github.com/camden-git/takeoutorganizer/database"
	"github.com/camden-git/takeoutorganizer/handlers"
	"github.com/camden-git/takeoutorganizer/logging"
	"github.com/camden-git/takeoutorganizer/pipeline"
	"github.com/camden-git/takeoutorganizer/tagger"
)

func main() {
	_ = godotenv.Load() // no .env is the common case outside development

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Console, os.Stderr)

	var writer tagger.Writer
	if exifTool, err := tagger.NewExifTool(log); err == nil {
		writer = exifTool
	} else {
		log.Warn().Err(err).Msg("metadata writing disabled, exiftool unavailable")
		writer = tagger.NopWriter{}
	}
	defer writer.Close()

	startedAt := time.Now()
	p := pipeline.New(cfg, writer, log)

	// the context exists before the run starts so the status endpoint
	// can watch counters fill in as stages progress
	ctx := catalog.NewContext(cfg)
	if cfg.Server.Enabled {
		startStatusServer(ctx, cfg.Server.Port, log)
	}

	if err := p.RunInto(ctx); err != nil {
		log.Fatal().Err(err).Msg("run aborted")
	}

	if cfg.Database.Enabled {
		persistRun(ctx, cfg, startedAt, log)
	}

	snap := ctx.Stats.Snapshot()
	log.Info().
		Int64("processed", snap.ProcessedFiles).
		Int64("failed", snap.FailedFiles).
		Dur("elapsed", time.Since(startedAt)).
		Msg("organization complete")
}

func startStatusServer(ctx *catalog.Context, port int, log zerolog.Logger) {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handlers.NewRouter(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Info().Int("port", port).Msg("status endpoint listening")
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn().Err(err).Msg("status server stopped")
		}
	}()
}

func persistRun(ctx *catalog.Context, cfg *config.Config, startedAt time.Time, log zerolog.Logger) {
	db, err := database.InitGormDB(cfg.Database.Path)
	if err != nil {
		log.Error().Err(err).Msg("run persistence skipped")
		return
	}

	run, err := database.SaveRun(db, ctx, startedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to persist run")
		return
	}

	if years, err := database.CountByYear(db, run.ID); err == nil {
		for _, row := range years {
			log.Info().Str("year", row.Bucket).Int64("files", row.Count).Msg("report: by-year")
		}
	}
	if albums, err := database.CountByAlbum(db, run.ID); err == nil {
		for _, row := range albums {
			log.Info().Str("album", row.Bucket).Int64("files", row.Count).Msg("report: by-album")
		}
	}
}

package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/camden-git/takeoutorganizer/catalog"
	"github.com/camden-git/takeoutorganizer/media"
)

// takeoutMediaPath is where Takeout exports place the media tree inside
// the archive; staging itself is the media root when the layout differs
var takeoutMediaPath = filepath.Join("Takeout", "Google Photos")

// ResolveMediaRoot locates the media root inside the staging directory
func ResolveMediaRoot(stagingDir string) string {
	candidate := filepath.Join(stagingDir, takeoutMediaPath)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return stagingDir
}

// Scan walks the staging media root and populates the catalog: one
// MediaItem per supported media file, with verified extension, sidecar or
// EXIF metadata, source album and duplicate-suffix parsing. per-file
// failures are counted and logged without stopping the walk
func Scan(ctx *catalog.Context, mediaRoot string, log zerolog.Logger) error {
	albums := make(map[string]bool)

	err := filepath.WalkDir(mediaRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if catalog.IsSidecarName(name) || !media.IsMediaFile(name) {
			return nil
		}

		item, err := buildItem(path, mediaRoot, log)
		if err != nil {
			ctx.Stats.FailedFiles.Add(1)
			log.Warn().Err(err).Str("path", path).Msg("discovery failed for file")
			return nil
		}

		ctx.Add(item)
		ctx.Stats.TotalFiles.Add(1)
		ctx.Stats.TotalBytes.Add(item.Size)
		if item.IsAlbumClassified() && !albums[item.SourceAlbum] {
			albums[item.SourceAlbum] = true
			ctx.Stats.Albums.Add(1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk media root %s: %w", mediaRoot, err)
	}

	log.Info().
		Int64("files", ctx.Stats.TotalFiles.Load()).
		Int64("albums", ctx.Stats.Albums.Load()).
		Int64("bytes", ctx.Stats.TotalBytes.Load()).
		Msg("discovery complete")
	return nil
}

func buildItem(path, mediaRoot string, log zerolog.Logger) (*catalog.MediaItem, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", absPath, err)
	}

	album, err := sourceAlbum(absPath, mediaRoot)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(absPath)
	declaredExt := filepath.Ext(filename)
	detected := media.DetectType(absPath)
	ext := media.CorrectExtension(declaredExt, detected)
	if ext != declaredExt {
		log.Debug().
			Str("file", filename).
			Str("declared", declaredExt).
			Str("corrected", ext).
			Msg("extension corrected from signature")
	}

	meta := loadMetadata(absPath, filename, ext, log)

	base, ordinal := catalog.ParseDuplicateName(filename)
	group := ""
	if base != filename {
		group = base
	}

	return &catalog.MediaItem{
		ID:             catalog.ItemID(absPath),
		OriginalPath:   absPath,
		Filename:       filename,
		Extension:      ext,
		Metadata:       meta,
		SourceAlbum:    album,
		DuplicateGroup: group,
		DuplicateIndex: ordinal,
		Size:           info.Size(),
		ModTime:        info.ModTime(),
		Status:         catalog.StatusPending,
	}, nil
}

// loadMetadata probes sidecar variants first; a photo without a sidecar
// falls back to its embedded EXIF. both misses mean no metadata, which is
// not an error
func loadMetadata(absPath, filename, ext string, log zerolog.Logger) *media.Metadata {
	if sidecarPath, ok := media.ProbeSidecar(absPath); ok {
		meta, err := media.ParseSidecar(sidecarPath)
		if err != nil {
			log.Warn().Err(err).Str("sidecar", sidecarPath).Msg("ignoring unusable sidecar")
			return nil
		}
		return meta
	}
	if !media.IsVideoExt(ext) {
		return media.ProbeEXIF(absPath, filename)
	}
	return nil
}

// sourceAlbum derives the first path segment under the media root. a
// segment containing traversal or an absolute form aborts discovery
func sourceAlbum(absPath, mediaRoot string) (string, error) {
	rel, err := filepath.Rel(mediaRoot, absPath)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s against %s: %w", absPath, mediaRoot, err)
	}
	if filepath.IsAbs(rel) || strings.Contains(rel, "..") {
		return "", fmt.Errorf("path traversal in staging tree: %s", rel)
	}

	segments := strings.Split(filepath.ToSlash(rel), "/")
	if len(segments) < 2 {
		return "", nil // file sits directly at the media root
	}
	return segments[0], nil
}

package archive

import (
	"archive/zip"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
)

// Limits bounds what an untrusted archive may declare before extraction
// is even attempted
type Limits struct {
	MaxEntries      int64
	MaxUncompressed uint64
	MaxRatio        float64 // uncompressed/compressed zip-bomb heuristic
}

// DefaultLimits returns the validation bounds used for Takeout exports
func DefaultLimits() Limits {
	return Limits{
		MaxEntries:      2_000_000,
		MaxUncompressed: 500 << 30, // 500 GiB
		MaxRatio:        100,
	}
}

// ValidateArchive scans an archive's central directory and rejects it when
// the declared entry count, uncompressed total, compression ratio, or the
// free space at the staging root make extraction unsafe. declared sizes
// are never trusted past this gate; extraction re-checks nothing
func ValidateArchive(archivePath, stagingDir string, limits Limits, log zerolog.Logger) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	var entries int64
	var compressed, uncompressed uint64
	for _, entry := range reader.File {
		entries++
		if entries > limits.MaxEntries {
			return fmt.Errorf("archive %s declares more than %d entries", archivePath, limits.MaxEntries)
		}
		compressed += entry.CompressedSize64
		uncompressed += entry.UncompressedSize64
		if uncompressed > limits.MaxUncompressed {
			return fmt.Errorf("archive %s declares more than %d uncompressed bytes", archivePath, limits.MaxUncompressed)
		}
	}

	if compressed > 0 {
		ratio := float64(uncompressed) / float64(compressed)
		if ratio > limits.MaxRatio {
			return fmt.Errorf("archive %s compression ratio %.1f:1 exceeds %.0f:1 limit", archivePath, ratio, limits.MaxRatio)
		}
	}

	if usage, err := disk.Usage(stagingDir); err == nil {
		if uncompressed > usage.Free {
			return fmt.Errorf("archive %s needs %d bytes but only %d are free at %s",
				archivePath, uncompressed, usage.Free, stagingDir)
		}
	} else {
		log.Warn().Err(err).Str("path", stagingDir).Msg("could not probe free disk space, skipping check")
	}

	log.Debug().
		Str("archive", archivePath).
		Int64("entries", entries).
		Uint64("uncompressed", uncompressed).
		Msg("archive validated")
	return nil
}

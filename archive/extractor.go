package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const minRetryDelay = 100 * time.Millisecond

// ExtractWithRetry extracts an archive into destDir, retrying failed
// attempts with exponential backoff: max(delay, 100ms) << attempt. the
// final attempt's error propagates unmodified
func ExtractWithRetry(archivePath, destDir string, attempts int, delay time.Duration, log zerolog.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	if delay < minRetryDelay {
		delay = minRetryDelay
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := delay << uint(attempt-1)
			log.Warn().
				Err(err).
				Str("archive", archivePath).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("retrying extraction")
			time.Sleep(backoff)
		}
		err = Extract(archivePath, destDir)
		if err == nil {
			return nil
		}
	}
	return err
}

// Extract unpacks all entries of a zip archive into destDir. entry paths
// are cleaned and confined to destDir; multiple archives may extract into
// the same tree, so existing directories are fine and files overwrite
func Extract(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create extraction directory %s: %w", destDir, err)
	}

	for _, entry := range reader.File {
		if err := extractEntry(entry, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, destDir string) error {
	target, err := safeJoin(destDir, entry.Name)
	if err != nil {
		return err
	}

	if entry.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", target, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", target, err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode().Perm()|0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	_, err = io.Copy(dst, src)
	closeErr := dst.Close()
	if err != nil {
		os.Remove(target)
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", target, closeErr)
	}

	// carry the archived mtime so the organizer's filesystem fallback
	// sees the export-time date rather than extraction time
	if !entry.Modified.IsZero() {
		_ = os.Chtimes(target, entry.Modified, entry.Modified)
	}
	return nil
}

// safeJoin resolves an archive entry name under destDir, rejecting
// absolute names and traversal outside the destination
func safeJoin(destDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("archive entry has absolute path: %s", name)
	}
	target := filepath.Join(destDir, filepath.Clean(name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}

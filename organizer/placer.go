package organizer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxPlacementAttempts bounds the unique-suffix search; exhausting it is
// fatal for the item
const maxPlacementAttempts = 10000

// ErrPlacementExhausted reports that no unique name could be allocated
var ErrPlacementExhausted = errors.New("unique path allocation exhausted")

// PlacePolicy selects how files are materialized
type PlacePolicy struct {
	UseHardLinks bool
	CopyFallback bool
}

// PlaceFile materializes srcPath inside destDir under a race-safe unique
// name: filename first, then name_2.ext, name_3.ext and so on. concurrent
// workers targeting the same directory are handled by retrying on the
// "already exists" condition rather than locking. hard links are tried
// first when enabled, with a timestamp-preserving non-overwriting copy as
// fallback. returns the allocated path
func PlaceFile(srcPath, destDir, filename string, policy PlacePolicy) (string, error) {
	for attempt := 1; attempt <= maxPlacementAttempts; attempt++ {
		target := filepath.Join(destDir, candidateName(filename, attempt))

		if samePath(srcPath, target) {
			return target, nil // materializing onto itself is a no-op
		}

		if !policy.UseHardLinks {
			switch err := copyNoOverwrite(srcPath, target); {
			case err == nil:
				return target, nil
			case isExists(err):
				continue
			default:
				return "", err
			}
		}

		err := os.Link(srcPath, target)
		if err == nil {
			return target, nil
		}
		if isExists(err) {
			continue
		}
		if !policy.CopyFallback {
			return "", fmt.Errorf("failed to link %s to %s: %w", srcPath, target, err)
		}

		switch copyErr := copyNoOverwrite(srcPath, target); {
		case copyErr == nil:
			return target, nil
		case isExists(copyErr):
			continue
		default:
			return "", copyErr
		}
	}
	return "", fmt.Errorf("%w for %s in %s", ErrPlacementExhausted, filename, destDir)
}

// candidateName yields filename for the first attempt and name_N.ext for
// attempt N afterwards, so the first collision lands on name_2.ext
func candidateName(filename string, attempt int) string {
	if attempt == 1 {
		return filename
	}
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	return fmt.Sprintf("%s_%d%s", base, attempt, ext)
}

// isExists detects the already-exists condition by error code or message
// content; link and copy paths fail with different shapes across
// platforms and both must route to the next suffix
func isExists(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, fs.ErrExist) || os.IsExist(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "file exists") || strings.Contains(msg, "already exists")
}

// samePath reports whether src and target resolve to the same file
func samePath(src, target string) bool {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	targetInfo, err := os.Stat(target)
	if err != nil {
		return false
	}
	return os.SameFile(srcInfo, targetInfo)
}

// copyNoOverwrite copies src to target, refusing to replace an existing
// file, and carries the source's modification time onto the copy
func copyNoOverwrite(src, target string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat copy source %s: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open copy source %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, srcInfo.Mode().Perm()|0600)
	if err != nil {
		return err // keep the raw error so isExists can inspect it
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(target)
		return fmt.Errorf("failed to copy %s to %s: %w", src, target, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", target, closeErr)
	}

	if err := os.Chtimes(target, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return fmt.Errorf("failed to preserve timestamps on %s: %w", target, err)
	}
	return nil
}

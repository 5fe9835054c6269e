package tagger

import (
	"fmt"
	"os/exec"
	"sort"

	"github.com/rs/zerolog"
)

// ExifToolWriter shells out to the exiftool binary, one invocation per
// file. acquired once per run via NewExifTool and released with Close
// after the tag-writing pool settles
type ExifToolWriter struct {
	binary string
	log    zerolog.Logger
}

// NewExifTool locates the exiftool binary on PATH
func NewExifTool(log zerolog.Logger) (*ExifToolWriter, error) {
	binary, err := exec.LookPath("exiftool")
	if err != nil {
		return nil, fmt.Errorf("exiftool not found on PATH: %w", err)
	}
	log.Debug().Str("binary", binary).Msg("exiftool located")
	return &ExifToolWriter{binary: binary, log: log}, nil
}

// Write applies the tag set to the file. tags are passed in sorted order
// so invocations are reproducible in logs
func (w *ExifToolWriter) Write(path string, tags Tags, preserveOriginal bool) error {
	args := make([]string, 0, len(tags)+2)

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, fmt.Sprintf("-%s=%s", name, tags[name]))
	}

	if !preserveOriginal {
		args = append(args, "-overwrite_original")
	}
	args = append(args, path)

	out, err := exec.Command(w.binary, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("exiftool failed for %s: %w (output: %s)", path, err, string(out))
	}
	return nil
}

// Close releases the writer. per-invocation execution holds no persistent
// process, so there is nothing to await
func (w *ExifToolWriter) Close() error {
	return nil
}

// NopWriter discards all tag writes; used when exiftool is unavailable
// and metadata propagation is disabled for the run
type NopWriter struct{}

func (NopWriter) Write(string, Tags, bool) error { return nil }
func (NopWriter) Close() error                   { return nil }

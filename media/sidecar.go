package media

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sidecar filename variants in priority order; Takeout truncates long
// names, hence the shortened supplemental form
var sidecarSuffixes = []string{
	".json",
	".supplemental-metadata.json",
	".supplemental-me.json",
}

// ProbeSidecar locates the sidecar JSON for a media file, if any. probes
// <path><suffix> for each known suffix, then
// <dir>/<base-without-ext>.supplemental-metadata.json; first hit wins
func ProbeSidecar(mediaPath string) (string, bool) {
	for _, suffix := range sidecarSuffixes {
		candidate := mediaPath + suffix
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	dir := filepath.Dir(mediaPath)
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	candidate := filepath.Join(dir, base+".supplemental-metadata.json")
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate, true
	}
	return "", false
}

// ParseSidecar reads and validates a sidecar file. a record without a
// title is rejected; missing description defaults to empty
func ParseSidecar(sidecarPath string) (*Metadata, error) {
	data, err := os.ReadFile(sidecarPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar %s: %w", sidecarPath, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse sidecar %s: %w", sidecarPath, err)
	}

	if strings.TrimSpace(meta.Title) == "" {
		return nil, fmt.Errorf("sidecar %s has no title", sidecarPath)
	}
	return &meta, nil
}

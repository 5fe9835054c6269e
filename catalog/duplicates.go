package catalog

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/facette/natsort"
	"github.com/rs/zerolog"
)

// duplicateSuffixRe matches Takeout's numbered variants: name(2).jpg. the
// base filename is the name with the suffix stripped, extension kept
var duplicateSuffixRe = regexp.MustCompile(`^(.*)\((\d+)\)(\.[^.]*)?$`)

// DuplicateGroup is a base filename with its ordinal-sorted variants.
// derived from the catalog each run, never persisted
type DuplicateGroup struct {
	BaseName string
	Variants []*MediaItem
}

// ParseDuplicateName splits a filename of the form name(N).ext into its
// base filename (name.ext) and numeric ordinal. non-matching names return
// the filename unchanged with ordinal 0
func ParseDuplicateName(filename string) (base string, ordinal int) {
	m := duplicateSuffixRe.FindStringSubmatch(filename)
	if m == nil {
		return filename, 0
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return filename, 0
	}
	return m[1] + m[3], n
}

// BuildGroups collects items sharing a group key into ordered groups.
// only groups with more than one member are true duplicate groups; the
// result is naturally ordered by base name so summaries are stable
func BuildGroups(items map[string]*MediaItem) []DuplicateGroup {
	byKey := make(map[string][]*MediaItem)
	for _, item := range items {
		key := item.GroupKey()
		byKey[key] = append(byKey[key], item)
	}

	names := make([]string, 0, len(byKey))
	for key, members := range byKey {
		if len(members) < 2 {
			continue
		}
		names = append(names, key)
	}
	natsort.Sort(names)

	groups := make([]DuplicateGroup, 0, len(names))
	for _, name := range names {
		members := byKey[name]
		sort.Slice(members, func(i, j int) bool {
			return members[i].DuplicateIndex < members[j].DuplicateIndex
		})
		groups = append(groups, DuplicateGroup{BaseName: name, Variants: members})
	}
	return groups
}

// Analyze runs the duplicate/stat pass: counts duplicate groups and
// computes the capture-year range from item metadata
func Analyze(ctx *Context, log zerolog.Logger) []DuplicateGroup {
	groups := BuildGroups(ctx.Items)
	ctx.Stats.DuplicateGroups.Store(int64(len(groups)))

	for _, g := range groups {
		log.Debug().
			Str("base", g.BaseName).
			Int("variants", len(g.Variants)).
			Msg("duplicate group")
	}

	maxYear := time.Now().UTC().Year() + 1
	for _, item := range ctx.Items {
		if item.Metadata == nil {
			continue
		}
		taken, ok := item.Metadata.TakenTime()
		if !ok {
			continue
		}
		year := taken.UTC().Year()
		if year < 1990 || year > maxYear {
			continue
		}
		ctx.Stats.RecordYear(year)
	}

	snap := ctx.Stats.Snapshot()
	log.Info().
		Int("duplicate_groups", len(groups)).
		Int64("year_min", snap.YearMin).
		Int64("year_max", snap.YearMax).
		Msg("catalog analysis complete")
	return groups
}

// sidecar paths never become items, but a filename that is itself a
// sidecar of another filename confuses grouping; keep the check here so
// scanner and analyzer agree
func IsSidecarName(filename string) bool {
	return filepath.Ext(filename) == ".json"
}

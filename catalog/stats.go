package catalog

import "sync/atomic"

// Stats holds the run counters. every field is updated through atomics so
// concurrent workers never lose increments; each stage touches only its own
// counters
type Stats struct {
	TotalFiles        atomic.Int64
	ProcessedFiles    atomic.Int64
	FailedFiles       atomic.Int64
	DuplicateGroups   atomic.Int64
	Albums            atomic.Int64
	TotalBytes        atomic.Int64
	YearMin           atomic.Int64
	YearMax           atomic.Int64
	ExifFailures      atomic.Int64
	TimestampFailures atomic.Int64
}

// StatsSnapshot is a plain copy of the counters, safe to marshal
type StatsSnapshot struct {
	TotalFiles        int64 `json:"total_files"`
	ProcessedFiles    int64 `json:"processed_files"`
	FailedFiles       int64 `json:"failed_files"`
	DuplicateGroups   int64 `json:"duplicate_groups"`
	Albums            int64 `json:"albums"`
	TotalBytes        int64 `json:"total_bytes"`
	YearMin           int64 `json:"year_min"`
	YearMax           int64 `json:"year_max"`
	ExifFailures      int64 `json:"exif_failures"`
	TimestampFailures int64 `json:"timestamp_failures"`
}

// Snapshot reads all counters at once for reporting
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		TotalFiles:        s.TotalFiles.Load(),
		ProcessedFiles:    s.ProcessedFiles.Load(),
		FailedFiles:       s.FailedFiles.Load(),
		DuplicateGroups:   s.DuplicateGroups.Load(),
		Albums:            s.Albums.Load(),
		TotalBytes:        s.TotalBytes.Load(),
		YearMin:           s.YearMin.Load(),
		YearMax:           s.YearMax.Load(),
		ExifFailures:      s.ExifFailures.Load(),
		TimestampFailures: s.TimestampFailures.Load(),
	}
}

// RecordYear widens the [min,max] capture-year range. callers validate the
// year before recording; a range of [0,0] means no valid year was seen
func (s *Stats) RecordYear(year int) {
	y := int64(year)
	if min := s.YearMin.Load(); min == 0 || y < min {
		s.YearMin.Store(y)
	}
	if y > s.YearMax.Load() {
		s.YearMax.Store(y)
	}
}

package media

import (
	"strconv"
	"time"
)

// earliest capture instant accepted anywhere in the pipeline. exports
// predating digital photography are treated as clock garbage
var minValidTime = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

// Metadata is the parsed sidecar record for one media file. immutable
// once parsed
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`

	PhotoTakenTime *SidecarTime `json:"photoTakenTime,omitempty"`
	CreationTime   *SidecarTime `json:"creationTime,omitempty"`

	// GeoData is the app-sourced coordinate, GeoDataExif the one lifted
	// from the file's own EXIF; the exif variant wins when both are set
	GeoData     *GeoCoordinate `json:"geoData,omitempty"`
	GeoDataExif *GeoCoordinate `json:"geoDataExif,omitempty"`
}

// SidecarTime is a timestamp block as exported: epoch seconds as a string
// plus a human-formatted rendering
type SidecarTime struct {
	Timestamp string `json:"timestamp"`
	Formatted string `json:"formatted"`
}

// GeoCoordinate is a sidecar geo block
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// Epoch parses the sidecar's string epoch; false when absent or malformed
func (t *SidecarTime) Epoch() (int64, bool) {
	if t == nil || t.Timestamp == "" {
		return 0, false
	}
	secs, err := strconv.ParseInt(t.Timestamp, 10, 64)
	if err != nil {
		return 0, false
	}
	return secs, true
}

// Time converts and validates the timestamp; false when the instant falls
// outside [1990-01-01, now+1y]
func (t *SidecarTime) Time() (time.Time, bool) {
	secs, ok := t.Epoch()
	if !ok {
		return time.Time{}, false
	}
	instant := time.Unix(secs, 0).UTC()
	if !ValidInstant(instant) {
		return time.Time{}, false
	}
	return instant, true
}

// ValidInstant reports whether an instant lies inside the accepted window
func ValidInstant(t time.Time) bool {
	return !t.Before(minValidTime) && !t.After(time.Now().UTC().AddDate(1, 0, 0))
}

// TakenTime returns the validated capture timestamp if present
func (m *Metadata) TakenTime() (time.Time, bool) {
	if m == nil {
		return time.Time{}, false
	}
	return m.PhotoTakenTime.Time()
}

// CreatedTime returns the validated creation timestamp if present
func (m *Metadata) CreatedTime() (time.Time, bool) {
	if m == nil {
		return time.Time{}, false
	}
	return m.CreationTime.Time()
}

// Valid reports whether the coordinate is inside lat/lon ranges and not
// the (0,0) null island marker both sources emit for "no fix"
func (g *GeoCoordinate) Valid() bool {
	if g == nil {
		return false
	}
	if g.Latitude < -90 || g.Latitude > 90 || g.Longitude < -180 || g.Longitude > 180 {
		return false
	}
	return g.Latitude != 0 || g.Longitude != 0
}

// BestGeo picks the coordinate to trust: the exif-sourced one when present
// and non-zero, the app-sourced one otherwise. nil when neither is usable
func (m *Metadata) BestGeo() *GeoCoordinate {
	if m == nil {
		return nil
	}
	if m.GeoDataExif.Valid() {
		return m.GeoDataExif
	}
	if m.GeoData.Valid() {
		return m.GeoData
	}
	return nil
}

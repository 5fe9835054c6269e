package media

import (
	"os"
	"strconv"

	"github.com/rwcarlsen/goexif/exif"
)

// ProbeEXIF builds a metadata record from a photo's embedded EXIF when no
// sidecar exists. returns nil when the file has no usable EXIF; callers
// treat that as "no metadata", never as an error
func ProbeEXIF(path, filename string) *Metadata {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	exifData, err := exif.Decode(f)
	if err != nil {
		return nil
	}

	meta := &Metadata{Title: filename}
	populated := false

	if dt, err := exifData.DateTime(); err == nil {
		instant := dt.UTC()
		if ValidInstant(instant) {
			meta.PhotoTakenTime = &SidecarTime{
				Timestamp: strconv.FormatInt(instant.Unix(), 10),
				Formatted: instant.Format("Jan 2, 2006, 3:04:05 PM UTC"),
			}
			populated = true
		}
	}

	if lat, lon, err := exifData.LatLong(); err == nil {
		geo := &GeoCoordinate{Latitude: lat, Longitude: lon}
		if geo.Valid() {
			meta.GeoDataExif = geo
			populated = true
		}
	}

	if !populated {
		return nil
	}
	return meta
}

package tagger

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/camden-git/takeoutorganizer/catalog"
	"github.com/camden-git/takeoutorganizer/config"
	"github.com/camden-git/takeoutorganizer/media"
)

// exifTimeLayout is the tag format for dates: colon-separated date,
// space-separated time, UTC
const exifTimeLayout = "2006:01:02 15:04:05"

// Tags is a named tag set destined for one file
type Tags map[string]string

// Writer is the external tag-writing capability: given a file path and a
// tag set, write the tags into the file or fail. implementations may be
// slow external processes; Close releases the resource after the run
type Writer interface {
	Write(path string, tags Tags, preserveOriginal bool) error
	Close() error
}

// WriteItemTags pushes capture metadata into a completed item's primary
// file. videos and items without metadata or a primary path are skipped
// silently; a write failure is a non-fatal per-item failure
func WriteItemTags(ctx *catalog.Context, item *catalog.MediaItem, w Writer, log zerolog.Logger) {
	if media.IsVideoExt(item.Extension) {
		return
	}
	if item.Metadata == nil || item.YearPath == "" {
		return
	}

	tags := BuildTags(item, ctx.Cfg.Metadata)
	if len(tags) == 0 {
		return
	}

	if err := w.Write(item.YearPath, tags, ctx.Cfg.Metadata.PreserveOriginals); err != nil {
		ctx.Stats.ExifFailures.Add(1)
		item.SetError(fmt.Sprintf("metadata write failed: %v", err))
		log.Warn().Err(err).Str("file", item.Filename).Msg("metadata write failed")
	}
}

// BuildTags assembles the tag set for an item according to the metadata
// toggles. an empty result means there is nothing worth writing
func BuildTags(item *catalog.MediaItem, cfg config.MetadataConfig) Tags {
	tags := Tags{}
	meta := item.Metadata

	if cfg.WriteDates {
		if taken, ok := meta.TakenTime(); ok {
			formatted := taken.UTC().Format(exifTimeLayout)
			tags["DateTimeOriginal"] = formatted
			tags["CreateDate"] = formatted
		} else if created, ok := meta.CreatedTime(); ok {
			tags["CreateDate"] = created.UTC().Format(exifTimeLayout)
		}
	}

	if cfg.WriteGPS {
		if geo := meta.BestGeo(); geo != nil {
			addGPSTags(tags, geo)
		}
	}

	if cfg.WriteDescription {
		if meta.Description != "" {
			tags["ImageDescription"] = meta.Description
		}
		if meta.Title != "" && meta.Title != item.Filename {
			tags["Title"] = meta.Title
		}
	}

	if cfg.WriteKeywords && item.AlbumPath != "" {
		album := filepath.Base(filepath.Dir(item.AlbumPath))
		tags["Keywords"] = album
		tags["Subject"] = album
	}

	return tags
}

func addGPSTags(tags Tags, geo *media.GeoCoordinate) {
	tags["GPSLatitude"] = fmt.Sprintf("%f", geo.Latitude)
	tags["GPSLongitude"] = fmt.Sprintf("%f", geo.Longitude)
	if geo.Latitude >= 0 {
		tags["GPSLatitudeRef"] = "N"
	} else {
		tags["GPSLatitudeRef"] = "S"
	}
	if geo.Longitude >= 0 {
		tags["GPSLongitudeRef"] = "E"
	} else {
		tags["GPSLongitudeRef"] = "W"
	}
	if geo.Altitude != 0 {
		tags["GPSAltitude"] = fmt.Sprintf("%f", geo.Altitude)
	}
}

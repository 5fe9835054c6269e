package tagger

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/takeoutorganizer/catalog"
	"github.com/camden-git/takeoutorganizer/config"
	"github.com/camden-git/takeoutorganizer/media"
)

// recordingWriter captures calls for assertions, optionally failing
type recordingWriter struct {
	calls []string
	tags  []Tags
	fail  error
}

func (w *recordingWriter) Write(path string, tags Tags, preserveOriginal bool) error {
	w.calls = append(w.calls, path)
	w.tags = append(w.tags, tags)
	return w.fail
}

func (w *recordingWriter) Close() error { return nil }

func allToggles() config.MetadataConfig {
	return config.MetadataConfig{
		WriteGPS:         true,
		WriteDescription: true,
		WriteKeywords:    true,
		WriteDates:       true,
	}
}

func metadataItem() *catalog.MediaItem {
	return &catalog.MediaItem{
		Filename:  "img.jpg",
		Extension: ".jpg",
		YearPath:  "/out/by-year/2021/img.jpg",
		AlbumPath: "/out/by-album/Album X/img.jpg",
		Metadata: &media.Metadata{
			Title:          "Beach sunset",
			Description:    "golden hour at the pier",
			PhotoTakenTime: &media.SidecarTime{Timestamp: "1609459200"},
			GeoData:        &media.GeoCoordinate{Latitude: -33.86, Longitude: 151.21, Altitude: 12},
		},
	}
}

func TestBuildTagsFull(t *testing.T) {
	tags := BuildTags(metadataItem(), allToggles())

	assert.Equal(t, "2021:01:01 00:00:00", tags["DateTimeOriginal"])
	assert.Equal(t, "2021:01:01 00:00:00", tags["CreateDate"])
	assert.Equal(t, "S", tags["GPSLatitudeRef"])
	assert.Equal(t, "E", tags["GPSLongitudeRef"])
	assert.NotEmpty(t, tags["GPSLatitude"])
	assert.NotEmpty(t, tags["GPSAltitude"])
	assert.Equal(t, "golden hour at the pier", tags["ImageDescription"])
	assert.Equal(t, "Beach sunset", tags["Title"])
	assert.Equal(t, "Album X", tags["Keywords"])
	assert.Equal(t, "Album X", tags["Subject"])
}

func TestBuildTagsCreationTimeFallback(t *testing.T) {
	item := metadataItem()
	item.Metadata.PhotoTakenTime = nil
	item.Metadata.CreationTime = &media.SidecarTime{Timestamp: "1262304000"}

	tags := BuildTags(item, allToggles())
	assert.NotContains(t, tags, "DateTimeOriginal")
	assert.Equal(t, "2010:01:01 00:00:00", tags["CreateDate"])
}

func TestBuildTagsSkipsTitleMatchingFilename(t *testing.T) {
	item := metadataItem()
	item.Metadata.Title = "img.jpg"

	tags := BuildTags(item, allToggles())
	assert.NotContains(t, tags, "Title")
	assert.Contains(t, tags, "ImageDescription")
}

func TestBuildTagsSkipsZeroGeo(t *testing.T) {
	item := metadataItem()
	item.Metadata.GeoData = &media.GeoCoordinate{}

	tags := BuildTags(item, allToggles())
	assert.NotContains(t, tags, "GPSLatitude")
}

func TestBuildTagsNorthernHemisphere(t *testing.T) {
	item := metadataItem()
	item.Metadata.GeoData = &media.GeoCoordinate{Latitude: 52.52, Longitude: -13.4}

	tags := BuildTags(item, allToggles())
	assert.Equal(t, "N", tags["GPSLatitudeRef"])
	assert.Equal(t, "W", tags["GPSLongitudeRef"])
	assert.NotContains(t, tags, "GPSAltitude")
}

func TestBuildTagsHonorsToggles(t *testing.T) {
	tags := BuildTags(metadataItem(), config.MetadataConfig{WriteDates: true})
	assert.Contains(t, tags, "DateTimeOriginal")
	assert.NotContains(t, tags, "GPSLatitude")
	assert.NotContains(t, tags, "ImageDescription")
	assert.NotContains(t, tags, "Keywords")
}

func TestBuildTagsNoKeywordsWithoutAlbumPath(t *testing.T) {
	item := metadataItem()
	item.AlbumPath = ""

	tags := BuildTags(item, allToggles())
	assert.NotContains(t, tags, "Keywords")
	assert.NotContains(t, tags, "Subject")
}

func TestWriteItemTagsSkipsVideos(t *testing.T) {
	cfg := &config.Config{Metadata: allToggles()}
	ctx := catalog.NewContext(cfg)
	w := &recordingWriter{}

	item := metadataItem()
	item.Extension = ".mp4"
	WriteItemTags(ctx, item, w, zerolog.Nop())

	assert.Empty(t, w.calls)
}

func TestWriteItemTagsSkipsWithoutMetadata(t *testing.T) {
	cfg := &config.Config{Metadata: allToggles()}
	ctx := catalog.NewContext(cfg)
	w := &recordingWriter{}

	item := metadataItem()
	item.Metadata = nil
	WriteItemTags(ctx, item, w, zerolog.Nop())

	assert.Empty(t, w.calls)
}

func TestWriteItemTagsWritesPrimaryPath(t *testing.T) {
	cfg := &config.Config{Metadata: allToggles()}
	ctx := catalog.NewContext(cfg)
	w := &recordingWriter{}

	item := metadataItem()
	WriteItemTags(ctx, item, w, zerolog.Nop())

	require.Len(t, w.calls, 1)
	assert.Equal(t, item.YearPath, w.calls[0])
	assert.Contains(t, w.tags[0], "DateTimeOriginal")
	assert.EqualValues(t, 0, ctx.Stats.ExifFailures.Load())
}

func TestWriteItemTagsRecordsFailure(t *testing.T) {
	cfg := &config.Config{Metadata: allToggles()}
	ctx := catalog.NewContext(cfg)
	w := &recordingWriter{fail: errors.New("exiftool exploded")}

	item := metadataItem()
	WriteItemTags(ctx, item, w, zerolog.Nop())

	assert.EqualValues(t, 1, ctx.Stats.ExifFailures.Load())
	assert.Contains(t, item.Error, "metadata write failed")
}

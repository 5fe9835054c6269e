package database

import (
	"fmt"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/camden-git/takeoutorganizer/catalog"
	"github.com/camden-git/takeoutorganizer/models"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// SaveRun persists the run summary and one record per catalog item
func SaveRun(db *gorm.DB, ctx *catalog.Context, startedAt time.Time) (*models.Run, error) {
	snap := ctx.Stats.Snapshot()
	run := &models.Run{
		StartedAt:         startedAt.Unix(),
		FinishedAt:        time.Now().Unix(),
		TotalFiles:        snap.TotalFiles,
		ProcessedFiles:    snap.ProcessedFiles,
		FailedFiles:       snap.FailedFiles,
		DuplicateGroups:   snap.DuplicateGroups,
		Albums:            snap.Albums,
		TotalBytes:        snap.TotalBytes,
		YearMin:           snap.YearMin,
		YearMax:           snap.YearMax,
		ExifFailures:      snap.ExifFailures,
		TimestampFailures: snap.TimestampFailures,
	}

	for _, item := range ctx.Items {
		record := models.MediaItemRecord{
			Item:           item.ID,
			OriginalPath:   item.OriginalPath,
			Filename:       item.Filename,
			Extension:      item.Extension,
			Album:          item.SourceAlbum,
			Year:           yearLabel(item),
			DuplicateGroup: item.DuplicateGroup,
			DuplicateIndex: item.DuplicateIndex,
			YearPath:       item.YearPath,
			AlbumPath:      item.AlbumPath,
			Status:         string(item.Status),
		}
		if item.Error != "" {
			msg := item.Error
			record.Error = &msg
		}
		run.Items = append(run.Items, record)
	}

	if err := db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}
	return run, nil
}

// yearLabel recovers the by-year bucket an item landed in from its
// materialized path; unorganized items have no label
func yearLabel(item *catalog.MediaItem) string {
	if item.YearPath == "" {
		return ""
	}
	return filepath.Base(filepath.Dir(item.YearPath))
}

// BucketCount is one row of a per-year or per-album report
type BucketCount struct {
	Bucket string
	Count  int64
}

// CountByYear reports how many items of a run landed in each year bucket
func CountByYear(db *gorm.DB, runID uint) ([]BucketCount, error) {
	return bucketCounts(db, runID, "year")
}

// CountByAlbum reports how many items of a run belong to each album
func CountByAlbum(db *gorm.DB, runID uint) ([]BucketCount, error) {
	return bucketCounts(db, runID, "album")
}

func bucketCounts(db *gorm.DB, runID uint, column string) ([]BucketCount, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	queryBuilder := qb.Select(column, "COUNT(*)").
		From("media_items").
		Where(sq.Eq{"run_id": runID}).
		Where(sq.NotEq{column: ""}).
		GroupBy(column).
		OrderBy(column)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s report query: %w", column, err)
	}

	rows, err := sqlDB.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s report query: %w", column, err)
	}
	defer rows.Close()

	var out []BucketCount
	for rows.Next() {
		var bc BucketCount
		if err := rows.Scan(&bc.Bucket, &bc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s report row: %w", column, err)
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}

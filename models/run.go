package models

// Run is the persisted summary of one organization run
type Run struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	StartedAt  int64 `gorm:"not null" json:"started_at"`
	FinishedAt int64 `gorm:"not null" json:"finished_at"`

	TotalFiles        int64 `gorm:"not null" json:"total_files"`
	ProcessedFiles    int64 `gorm:"not null" json:"processed_files"`
	FailedFiles       int64 `gorm:"not null" json:"failed_files"`
	DuplicateGroups   int64 `gorm:"not null" json:"duplicate_groups"`
	Albums            int64 `gorm:"not null" json:"albums"`
	TotalBytes        int64 `gorm:"not null" json:"total_bytes"`
	YearMin           int64 `gorm:"not null" json:"year_min"`
	YearMax           int64 `gorm:"not null" json:"year_max"`
	ExifFailures      int64 `gorm:"not null" json:"exif_failures"`
	TimestampFailures int64 `gorm:"not null" json:"timestamp_failures"`

	Items []MediaItemRecord `gorm:"foreignKey:RunID" json:"items,omitempty"`
}

func (Run) TableName() string {
	return "runs"
}

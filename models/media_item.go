package models

// MediaItemRecord is the persisted outcome for one catalog item within a
// run. the item identity is the blake3 path fingerprint, stable across
// re-runs against the same staging layout
type MediaItemRecord struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	RunID uint   `gorm:"index;not null" json:"run_id"`
	Item  string `gorm:"index;not null" json:"item"`

	OriginalPath   string  `gorm:"not null" json:"original_path"`
	Filename       string  `gorm:"not null" json:"filename"`
	Extension      string  `gorm:"not null" json:"extension"`
	Album          string  `gorm:"index" json:"album"`
	Year           string  `gorm:"index" json:"year"` // by-year bucket label, may be the unknown folder
	DuplicateGroup string  `json:"duplicate_group"`
	DuplicateIndex int     `json:"duplicate_index"`
	YearPath       string  `json:"year_path"`
	AlbumPath      string  `json:"album_path"`
	Status         string  `gorm:"not null;default:pending" json:"status"`
	Error          *string `json:"error,omitempty"`
}

func (MediaItemRecord) TableName() string {
	return "media_items"
}

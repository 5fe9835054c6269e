package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const previewJpegQuality = 80

// GeneratePreview creates a bounded JPEG preview of an organized photo
// with a UUID filename and returns the full path where it was saved
func GeneratePreview(originalPath, previewDir string, maxSize int) (string, error) {
	if err := os.MkdirAll(previewDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create preview directory %s: %w", previewDir, err)
	}

	img, err := imaging.Open(originalPath)
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", originalPath, err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	previewUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID for preview: %w", err)
	}
	savePath := filepath.Join(previewDir, previewUUID.String()+".jpg")

	if err := imaging.Save(thumb, savePath, imaging.JPEGQuality(previewJpegQuality)); err != nil {
		return "", fmt.Errorf("failed to save preview to %s: %w", savePath, err)
	}
	return savePath, nil
}

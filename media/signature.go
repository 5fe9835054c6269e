package media

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// FileType is a media container format recognized by signature sniffing
type FileType string

const (
	TypeJPEG    FileType = "jpeg"
	TypePNG     FileType = "png"
	TypeGIF     FileType = "gif"
	TypeWEBP    FileType = "webp"
	TypeBMP     FileType = "bmp"
	TypeTIFF    FileType = "tiff"
	TypeHEIC    FileType = "heic"
	TypeUnknown FileType = "unknown"
)

// extensions considered media during discovery, lowercase with dot
var supportedMediaExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".jpe": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
	".heic": true, ".heif": true,
	".dng": true, ".cr2": true, ".nef": true, ".arw": true, ".raw": true,
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
	".m4v": true, ".mpg": true, ".mpeg": true, ".3gp": true, ".mts": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
	".m4v": true, ".mpg": true, ".mpeg": true, ".3gp": true, ".mts": true,
}

// TIFF-structured RAW containers keep their declared extension even when
// the signature resolves to TIFF
var rawExtensions = map[string]bool{
	".dng": true, ".cr2": true, ".nef": true, ".arw": true, ".raw": true,
}

// extensions accepted as valid for each sniffed type; first entry is the
// canonical substitution
var typeExtensions = map[FileType][]string{
	TypeJPEG: {".jpg", ".jpeg", ".jpe"},
	TypePNG:  {".png"},
	TypeGIF:  {".gif"},
	TypeWEBP: {".webp"},
	TypeBMP:  {".bmp"},
	TypeTIFF: {".tif", ".tiff"},
	TypeHEIC: {".heic", ".heif"},
}

// ftyp brands that identify HEIC/HEIF containers
var heicBrands = map[string]bool{
	"heic": true, "heix": true, "hevc": true, "hevx": true,
	"heim": true, "heis": true, "hevm": true, "hevs": true,
	"mif1": true, "msf1": true,
}

// IsMediaFile reports whether the filename carries a supported media
// extension (case-insensitive)
func IsMediaFile(filename string) bool {
	return supportedMediaExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsVideoExt reports whether an extension names a video container
func IsVideoExt(ext string) bool {
	return videoExtensions[strings.ToLower(ext)]
}

// DetectType sniffs the leading bytes of a file for a known signature.
// unreadable files report TypeUnknown; callers treat that as non-fatal
func DetectType(path string) FileType {
	f, err := os.Open(path)
	if err != nil {
		return TypeUnknown
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil || n < 4 {
		return TypeUnknown
	}
	header = header[:n]
	return sniff(header)
}

func sniff(header []byte) FileType {
	switch {
	case bytes.HasPrefix(header, []byte{0xFF, 0xD8, 0xFF}):
		return TypeJPEG
	case bytes.HasPrefix(header, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return TypePNG
	case bytes.HasPrefix(header, []byte("GIF87a")) || bytes.HasPrefix(header, []byte("GIF89a")):
		return TypeGIF
	case len(header) >= 12 && bytes.HasPrefix(header, []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WEBP")):
		return TypeWEBP
	case bytes.HasPrefix(header, []byte("BM")):
		return TypeBMP
	case bytes.HasPrefix(header, []byte{'I', 'I', 0x2A, 0x00}) || bytes.HasPrefix(header, []byte{'M', 'M', 0x00, 0x2A}):
		return TypeTIFF
	case len(header) >= 12 && bytes.Equal(header[4:8], []byte("ftyp")) && heicBrands[string(header[8:12])]:
		return TypeHEIC
	}
	return TypeUnknown
}

// CorrectExtension reconciles a declared extension with the sniffed type.
// a recognized signature whose type does not admit the declared extension
// substitutes the canonical extension, preserving the declared case style.
// TIFF signatures keep declared RAW extensions, and an unknown signature
// keeps the declaration untouched
func CorrectExtension(declaredExt string, detected FileType) string {
	if detected == TypeUnknown {
		return declaredExt
	}

	lower := strings.ToLower(declaredExt)
	if detected == TypeTIFF && rawExtensions[lower] {
		return declaredExt
	}

	valid, ok := typeExtensions[detected]
	if !ok {
		return declaredExt
	}
	for _, ext := range valid {
		if ext == lower {
			return declaredExt
		}
	}

	canonical := valid[0]
	if isAllUpper(declaredExt) {
		return strings.ToUpper(canonical)
	}
	return canonical
}

// isAllUpper reports whether every letter in the extension is uppercase,
// e.g. ".PNG" but not ".Png"
func isAllUpper(ext string) bool {
	trimmed := strings.TrimPrefix(ext, ".")
	if trimmed == "" {
		return false
	}
	return trimmed == strings.ToUpper(trimmed) && trimmed != strings.ToLower(trimmed)
}

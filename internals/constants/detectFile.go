package constants

import (
	"path/filepath"
	"strings"
)

type FileKind int

const (
	FileUnknown FileKind = iota
	FileImage
	FileVideo
)

func DetectFileKindFromExt(filename string) FileKind {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileImage
	case ".mp4", ".webm", ".mov":
		return FileVideo
	default:
		return FileUnknown
	}
}

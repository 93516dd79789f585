package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the scanned root.
	RelPath string
	// Key is the source key (relpath without extension).
	Key string
	// Format is the format implied by the extension (png, jpeg, webp, ...).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// Discover returns the sources at path: the file itself, or every image
// below it when path is a directory.
func Discover(path string) ([]Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ScanImages(path)
	}
	src, err := newSource(filepath.Dir(path), path, info)
	if err != nil {
		return nil, err
	}
	return []Source{src}, nil
}

// SourceFromFile describes a single image file. The extension is not
// checked; decoding decides whether the file is usable.
func SourceFromFile(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("%s is a directory", path)
	}
	return newSource(filepath.Dir(path), path, info)
}

// ScanImages walks the input directory and returns all image sources.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && info.Name() != "." && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		src, err := newSource(inputDir, path, info)
		if err != nil {
			return err
		}
		sources = append(sources, src)
		return nil
	})

	return sources, err
}

func newSource(root, path string, info os.FileInfo) (Source, error) {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return Source{}, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Source{}, err
	}

	ext := filepath.Ext(relPath)
	key := filepath.ToSlash(strings.TrimSuffix(relPath, ext))

	return Source{
		AbsPath: absPath,
		RelPath: filepath.ToSlash(relPath),
		Key:     key,
		Format:  normalizeFormat(strings.TrimPrefix(strings.ToLower(ext), ".")),
		Size:    info.Size(),
	}, nil
}

func normalizeFormat(format string) string {
	switch format {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return format
}

// Package asset lists, pools and decodes reward images.
package asset

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format.
	_ "image/jpeg" // Register JPEG format.
	_ "image/png"  // Register PNG format.
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp" // Register BMP format.
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
	".gif":  {},
}

// Error reports an image that could not be loaded.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsImage reports whether name has a known image extension.
func IsImage(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// List returns the image files directly inside dir, sorted by name. A missing
// directory yields no images and no error.
func List(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !IsImage(entry.Name()) {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		info, err := os.Stat(full)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, full)
	}
	sort.Strings(paths)
	return paths, nil
}

// Loader decodes an image by path.
type Loader interface {
	Load(path string) (image.Image, error)
}

// FileLoader decodes images from the filesystem.
type FileLoader struct{}

// Load decodes the image at path. Failures are returned as *Error.
func (FileLoader) Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only image.
			_ = cerr
		}
	}()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return img, nil
}

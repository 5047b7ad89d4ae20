package artifact

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists screenshots under a single output directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path returns where name would be written.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Save writes an image to name inside the output directory. The data must be
// a recognised image and its format must match the file extension.
func (w *Writer) Save(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("artifact %s: empty image", name)
	}
	ext := sniffExt(data)
	if ext == ".bin" {
		return "", fmt.Errorf("artifact %s: unrecognised image data", name)
	}
	if want := filepath.Ext(name); want != "" && !sameFormat(want, ext) {
		return "", fmt.Errorf("artifact %s: data is %s, not %s", name, ext, want)
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	path := w.Path(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

func sameFormat(ext, sniffed string) bool {
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	return ext == sniffed
}

// sniffExt detects the image type from magic bytes.
func sniffExt(data []byte) string {
	switch {
	case len(data) >= 4 && data[0] == 0x89 && bytes.Equal(data[1:4], []byte("PNG")):
		return ".png"
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return ".jpg"
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return ".webp"
	default:
		return ".bin"
	}
}

package app

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// LoadImage decodes a radiograph. PNG, JPEG, BMP and TIFF are supported.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// imageSize reads the dimensions of an image without decoding it
func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// IsDocument reports whether a file name looks like a measurement document
func IsDocument(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, ext := range []string{".vetm.json", ".vetm.yaml", ".vetm.yml"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Open loads a measurement document. An image path is accepted too: its
// document is loaded when one exists next to it, otherwise an empty one is
// created. Image dimensions missing from the document are read from the
// image file.
func Open(path string) (*Document, string, error) {
	docPath := path
	if !IsDocument(path) {
		docPath = DocumentPath(path)
		if _, err := os.Stat(docPath); os.IsNotExist(err) {
			doc := &Document{Version: DocumentVersion, Image: ImageData{Path: path}}
			if err := doc.resolveImage(""); err != nil {
				return nil, "", err
			}
			return doc, docPath, nil
		}
	}

	doc, err := LoadDocument(docPath)
	if err != nil {
		return nil, "", err
	}
	if err := doc.resolveImage(filepath.Dir(docPath)); err != nil {
		return nil, "", err
	}
	return doc, docPath, nil
}

// ImagePath returns the image path, relative paths resolved against dir
func (d *Document) ImagePath(dir string) string {
	if d.Image.Path == "" || filepath.IsAbs(d.Image.Path) || dir == "" {
		return d.Image.Path
	}
	return filepath.Join(dir, d.Image.Path)
}

func (d *Document) resolveImage(dir string) error {
	if (d.Image.Width > 0 && d.Image.Height > 0) || d.Image.Path == "" {
		return nil
	}
	w, h, err := imageSize(d.ImagePath(dir))
	if err != nil {
		return err
	}
	d.Image.Width, d.Image.Height = w, h
	return nil
}

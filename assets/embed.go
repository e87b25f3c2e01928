package assets

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed images sounds music
var assetsFS embed.FS

// ErrAssetMissing is wrapped when an expected image or sound cannot be found.
var ErrAssetMissing = errors.New("asset missing")

var (
	imageMu    sync.Mutex
	imageCache = map[string]*ebiten.Image{}
)

// LoadImage loads an embedded image by assets-relative path. Images are
// decoded once and shared.
func LoadImage(path string) (*ebiten.Image, error) {
	clean := cleanAssetPath(path)
	imageMu.Lock()
	defer imageMu.Unlock()
	if img, ok := imageCache[clean]; ok {
		return img, nil
	}
	img, err := LoadImageFS(assetsFS, clean)
	if err != nil {
		return nil, err
	}
	imageCache[clean] = img
	return img, nil
}

// LoadImageFS decodes an image from any filesystem.
func LoadImageFS(fsys fs.FS, path string) (*ebiten.Image, error) {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("assets: load %s: %w", path, ErrAssetMissing)
		}
		return nil, fmt.Errorf("assets: load %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	b, err := assetsFS.ReadFile(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("assets: load %s: %w", clean, ErrAssetMissing)
		}
		return nil, fmt.Errorf("assets: load %s: %w", clean, err)
	}
	return b, nil
}

// Find returns the first candidate path that exists.
func Find(candidates ...string) (string, bool) {
	for _, c := range candidates {
		clean := cleanAssetPath(c)
		if _, err := fs.Stat(assetsFS, clean); err == nil {
			return clean, true
		}
	}
	return "", false
}

// Placeholder returns a solid magenta image used where a tile image could not
// be resolved.
func Placeholder(w, h int) *ebiten.Image {
	img := ebiten.NewImage(w, h)
	img.Fill(color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff})
	return img
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}

// Package image loads the raster images drawn behind scenes, such as the
// world map under the sales bubbles.
package image

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/tiff"
)

// Background is a decoded background image.
type Background struct {
	Path  string
	Image image.Image
}

// Load decodes the image at path. PNG, JPEG and TIFF are supported.
func Load(path string) (*Background, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Background{Path: path, Image: img}, nil
}

// Width returns the image width in pixels.
func (b *Background) Width() int {
	return b.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (b *Background) Height() int {
	return b.Image.Bounds().Dy()
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// Cache loads each path once. A path that fails to load is remembered and
// logged only the first time.
type Cache struct {
	mu     sync.Mutex
	images map[string]*Background
	failed map[string]error
	log    zerolog.Logger
}

// NewCache creates an empty cache.
func NewCache(log zerolog.Logger) *Cache {
	return &Cache{
		images: make(map[string]*Background),
		failed: make(map[string]error),
		log:    log,
	}
}

// Get returns the decoded image for path, or nil if it cannot be loaded.
func (c *Cache) Get(path string) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()

	if bg, ok := c.images[path]; ok {
		return bg.Image
	}
	if _, ok := c.failed[path]; ok {
		return nil
	}

	bg, err := Load(path)
	if err != nil {
		c.failed[path] = err
		c.log.Warn().Err(err).Str("path", path).Msg("background image unavailable")
		return nil
	}
	c.images[path] = bg
	return bg.Image
}

// Forget drops path from the cache so the next Get reloads it.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	delete(c.images, path)
	delete(c.failed, path)
	c.mu.Unlock()
}

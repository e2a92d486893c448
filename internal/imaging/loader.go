package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	"github.com/patrickmn/go-cache"
	_ "golang.org/x/image/webp" // Register WEBP format decoder
	"golang.org/x/sync/singleflight"
	filetype "gopkg.in/h2non/filetype.v1"
	"gopkg.in/h2non/filetype.v1/matchers"
)

// SourceImage is a decoded image ready for partitioning.
//
// The pixels are an owned RGBA copy anchored at (0,0), so the source never
// changes after it is created, whatever the caller does with the image it
// was built from. A SourceImage is safe to share between goroutines.
type SourceImage struct {
	img *image.RGBA

	// Format is the detected input format: "jpeg", "png", "gif", "webp",
	// or "memory" for images built with NewSource.
	Format string

	// SizeBytes is the encoded input size, 0 for in-memory images.
	SizeBytes int64
}

// NewSource copies img into a new SourceImage.
//
// # Errors
//
//   - Returns an ErrDecode error if img is nil or has zero width or height
func NewSource(img image.Image) (*SourceImage, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrDecode)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrDecode, b.Dx(), b.Dy())
	}

	rgba := clone.AsRGBA(img)
	// Re-anchor at the origin; RGBA pixel offsets are relative to Rect.Min.
	rgba.Rect = rgba.Rect.Sub(rgba.Rect.Min)

	return &SourceImage{img: rgba, Format: "memory"}, nil
}

// Width returns the source width in pixels.
func (s *SourceImage) Width() int { return s.img.Rect.Dx() }

// Height returns the source height in pixels.
func (s *SourceImage) Height() int { return s.img.Rect.Dy() }

// Bounds returns the source bounds, always anchored at (0,0).
func (s *SourceImage) Bounds() image.Rectangle { return s.img.Rect }

// Image returns the source pixels. Callers must not modify the result.
func (s *SourceImage) Image() image.Image { return s.img }

// HasAlpha reports whether any pixel is not fully opaque.
func (s *SourceImage) HasAlpha() bool { return !s.img.Opaque() }

// DetectFormat sniffs the image format from the leading bytes of data.
//
// Returns "jpeg", "png", "gif" or "webp", or an ErrUnsupportedFormat error
// for anything else.
func DetectFormat(data []byte) (string, error) {
	t, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	switch t {
	case matchers.TypeJpeg:
		return "jpeg", nil
	case matchers.TypePng:
		return "png", nil
	case matchers.TypeGif:
		return "gif", nil
	case matchers.TypeWebp:
		return "webp", nil
	default:
		if t.MIME.Value != "" {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, t.MIME.Value)
		}
		return "", ErrUnsupportedFormat
	}
}

// DecodeBytes decodes an encoded JPEG, PNG, GIF or WEBP image.
//
// EXIF orientation is applied, so a rotated phone photo is partitioned the
// way it is displayed.
//
// # Errors
//
//   - ErrUnsupportedFormat if the bytes are not one of the accepted formats
//   - ErrDecode if the bytes are recognised but cannot be decoded
func DecodeBytes(data []byte) (*SourceImage, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	src, err := NewSource(img)
	if err != nil {
		return nil, err
	}
	src.Format = format
	src.SizeBytes = int64(len(data))
	return src, nil
}

// Decode reads r to the end and decodes it with DecodeBytes.
func Decode(r io.Reader) (*SourceImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return DecodeBytes(data)
}

// ImageCache caches decoded sources by file path.
//
// Entries expire after the configured TTL so an idle server does not hold
// user images indefinitely. Concurrent loads of the same uncached path share
// a single decode.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	items *cache.Cache
	group singleflight.Group
}

// NewImageCache creates an empty cache. Entries live for ttl and expired
// entries are purged every cleanupInterval.
func NewImageCache(ttl, cleanupInterval time.Duration) *ImageCache {
	return &ImageCache{
		items: cache.New(ttl, cleanupInterval),
	}
}

// Load retrieves a source from the cache or reads and decodes it from disk.
//
// The source is cached under the exact path string provided. Different
// paths to the same file result in separate entries.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns ErrUnsupportedFormat or ErrDecode as DecodeBytes does
func (c *ImageCache) Load(path string) (*SourceImage, error) {
	if v, ok := c.items.Get(path); ok {
		return v.(*SourceImage), nil
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		src, err := DecodeBytes(data)
		if err != nil {
			return nil, err
		}
		c.items.Set(path, src, cache.DefaultExpiration)
		return src, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*SourceImage), nil
}

// Len returns the number of cached sources, including expired entries not
// yet purged.
func (c *ImageCache) Len() int {
	return c.items.ItemCount()
}

// Clear removes all sources from the cache.
func (c *ImageCache) Clear() {
	c.items.Flush()
}

// Evict removes a specific source from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.items.Delete(path)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the sniffed input format: "png", "jpeg", "gif" or "webp".
	Format string `json:"format"`

	// HasAlpha indicates whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the encoded size of the image in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Info summarises a source.
func (s *SourceImage) Info() *ImageInfo {
	return &ImageInfo{
		Width:         s.Width(),
		Height:        s.Height(),
		Format:        s.Format,
		HasAlpha:      s.HasAlpha(),
		FileSizeBytes: s.SizeBytes,
	}
}

// LoadImageInfo loads an image through the cache and returns its metadata.
func LoadImageInfo(c *ImageCache, path string) (*ImageInfo, error) {
	src, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return src.Info(), nil
}

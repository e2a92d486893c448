package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultThumbnailSize is the edge of the square box thumbnails fit into.
const DefaultThumbnailSize = 80

// SlicePreview is a small rendering of one slice for listing next to its
// download action.
type SlicePreview struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Swatch is the slice's average colour as "#rrggbb", usable as a
	// placeholder while the thumbnail loads.
	Swatch string `json:"swatch"`

	ThumbnailWidth  int    `json:"thumbnail_width"`
	ThumbnailHeight int    `json:"thumbnail_height"`
	ThumbnailBase64 string `json:"thumbnail_base64,omitempty"`
	MimeType        string `json:"mime_type"`
}

// Previews renders a thumbnail and swatch for each of the four slices of src
// in mode. Thumbnails fit inside size x size, keep the aspect ratio and are
// never upscaled. A size of 0 or less uses DefaultThumbnailSize.
func Previews(src *SourceImage, mode PartitionMode, size int) ([SliceCount]SlicePreview, error) {
	var previews [SliceCount]SlicePreview

	if size <= 0 {
		size = DefaultThumbnailSize
	}

	slices, err := Layout(src.Width(), src.Height(), mode)
	if err != nil {
		return previews, err
	}

	for i, s := range slices {
		p := SlicePreview{
			Index:    s.Index,
			Label:    s.Label,
			Width:    s.Width(),
			Height:   s.Height(),
			Swatch:   "#000000",
			MimeType: "image/png",
		}
		if !s.Empty() {
			region := imaging.Crop(src.Image(), s.Rect)
			p.Swatch = AverageColor(region)

			thumb := imaging.Fit(region, size, size, imaging.Lanczos)
			var buf bytes.Buffer
			if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
				return previews, fmt.Errorf("failed to encode thumbnail %d: %w", i+1, err)
			}
			p.ThumbnailWidth = thumb.Bounds().Dx()
			p.ThumbnailHeight = thumb.Bounds().Dy()
			p.ThumbnailBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
		}
		previews[i] = p
	}

	return previews, nil
}

// AverageColor returns the alpha-weighted mean colour of img as "#rrggbb".
// Fully transparent or empty images return "#000000".
func AverageColor(img image.Image) string {
	b := img.Bounds()
	var sumR, sumG, sumB, sumA uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			sumR += uint64(r)
			sumG += uint64(g)
			sumB += uint64(bl)
			sumA += uint64(a)
		}
	}
	if sumA == 0 {
		return "#000000"
	}

	// Premultiplied sums divided by total alpha give the straight mean.
	mean := color.NRGBA64{
		R: uint16(sumR * 0xffff / sumA),
		G: uint16(sumG * 0xffff / sumA),
		B: uint16(sumB * 0xffff / sumA),
		A: 0xffff,
	}
	c, ok := colorful.MakeColor(mean)
	if !ok {
		return "#000000"
	}
	return c.Hex()
}

package imaging

import (
	"fmt"
	"image"
)

// Slice is one of the four rectangular regions cut from a source image.
//
// Rect is in source coordinates with the source origin at (0,0): Min is
// inclusive, Max exclusive, matching image.Rectangle.
type Slice struct {
	Index int             `json:"index"`
	Label string          `json:"label"`
	Rect  image.Rectangle `json:"-"`
}

// Width returns the slice width in pixels.
func (s Slice) Width() int { return s.Rect.Dx() }

// Height returns the slice height in pixels.
func (s Slice) Height() int { return s.Rect.Dy() }

// Empty reports whether the slice covers no pixels.
func (s Slice) Empty() bool { return s.Rect.Empty() }

// Layout computes the four slice rectangles for an image of the given size.
//
// Band heights and half dimensions are floored; the remainder goes to the
// last band in Horizontal mode and to the right column and bottom row in
// Grid mode, so the slices always tile the image exactly. Images too small
// to split yield zero-area slices rather than an error.
//
// Example: 1600x900 gives four 1600x225 bands, or four 800x450 quadrants.
func Layout(width, height int, mode PartitionMode) ([SliceCount]Slice, error) {
	var slices [SliceCount]Slice

	if width < 0 || height < 0 {
		return slices, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	switch mode {
	case Horizontal:
		band := height / SliceCount
		for i := 0; i < SliceCount; i++ {
			y1 := i * band
			y2 := y1 + band
			if i == SliceCount-1 {
				y2 = height
			}
			slices[i] = Slice{Index: i, Rect: image.Rect(0, y1, width, y2)}
		}
	case Grid:
		midX := width / 2
		midY := height / 2
		slices[0] = Slice{Index: 0, Rect: image.Rect(0, 0, midX, midY)}
		slices[1] = Slice{Index: 1, Rect: image.Rect(midX, 0, width, midY)}
		slices[2] = Slice{Index: 2, Rect: image.Rect(0, midY, midX, height)}
		slices[3] = Slice{Index: 3, Rect: image.Rect(midX, midY, width, height)}
	default:
		return slices, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}

	for i := range slices {
		slices[i].Label = mode.Label(i)
	}
	return slices, nil
}

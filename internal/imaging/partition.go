package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DefaultFilenamePrefix is the prefix of suggested slice filenames.
const DefaultFilenamePrefix = "split"

// EncodedOutput is one slice encoded as a PNG file.
type EncodedOutput struct {
	// Index is the 0-based slice position.
	Index int `json:"index"`

	// Label names the slice: part-1..part-4 or left-top, right-top, ...
	Label string `json:"label"`

	// X and Y are the slice origin in the source.
	X int `json:"x"`
	Y int `json:"y"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Data holds the PNG bytes; empty for zero-area slices.
	Data []byte `json:"-"`

	MimeType string `json:"mime_type"`

	// Filename is the suggested download name, <prefix>_<mode>_<n>.png.
	Filename string `json:"filename"`
}

// Empty reports whether the slice produced no pixels.
func (o *EncodedOutput) Empty() bool {
	return len(o.Data) == 0
}

// Rect returns the slice rectangle in source coordinates.
func (o *EncodedOutput) Rect() image.Rectangle {
	return image.Rect(o.X, o.Y, o.X+o.Width, o.Y+o.Height)
}

// Result is the complete output of one partition: exactly four slices in
// slice order.
type Result struct {
	Mode         PartitionMode             `json:"mode"`
	SourceWidth  int                       `json:"source_width"`
	SourceHeight int                       `json:"source_height"`
	Outputs      [SliceCount]EncodedOutput `json:"outputs"`
}

// Output returns the slice at 0-based index i.
func (r *Result) Output(i int) (*EncodedOutput, error) {
	if i < 0 || i >= SliceCount {
		return nil, fmt.Errorf("%w: %d", ErrSliceIndex, i)
	}
	return &r.Outputs[i], nil
}

// SliceFilename returns the suggested filename of slice index i (0-based).
func SliceFilename(prefix string, mode PartitionMode, i int) string {
	if prefix == "" {
		prefix = DefaultFilenamePrefix
	}
	return fmt.Sprintf("%s_%s_%d.png", prefix, mode, i+1)
}

// Partitioner cuts source images into four PNG-encoded slices.
//
// A Partitioner is safe for concurrent use; each call checks out its own
// drawing surface from the shared pool.
type Partitioner struct {
	surfaces *SurfacePool
	prefix   string
}

// PartitionerOption configures a Partitioner.
type PartitionerOption func(*Partitioner)

// WithSurfacePool sets the pool surfaces are drawn from.
func WithSurfacePool(pool *SurfacePool) PartitionerOption {
	return func(p *Partitioner) {
		p.surfaces = pool
	}
}

// WithFilenamePrefix sets the prefix of suggested filenames.
func WithFilenamePrefix(prefix string) PartitionerOption {
	return func(p *Partitioner) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

// NewPartitioner creates a Partitioner. Without options it uses an unlimited
// surface pool and the "split" filename prefix.
func NewPartitioner(opts ...PartitionerOption) *Partitioner {
	p := &Partitioner{prefix: DefaultFilenamePrefix}
	for _, opt := range opts {
		opt(p)
	}
	if p.surfaces == nil {
		p.surfaces = NewSurfacePool(0)
	}
	return p
}

// Partition cuts src into four slices according to mode and encodes each as
// PNG.
//
// One drawing surface, sized for the largest slice, is checked out for the
// whole call and cleared before each slice is drawn. The result is all four
// slices or an error; there is no partial result. The output depends only on
// (src, mode), so repeated calls produce byte-identical PNGs.
//
// Zero-area slices (images smaller than 4 rows in Horizontal mode, or 2x2 in
// Grid mode) are returned with zero size and no data.
//
// # Errors
//
//   - ErrInvalidMode for an unknown mode
//   - ErrSurfaceUnavailable if no surface can be acquired
//   - PNG encoding failures
func (p *Partitioner) Partition(src *SourceImage, mode PartitionMode) (*Result, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source image", ErrDecode)
	}

	slices, err := Layout(src.Width(), src.Height(), mode)
	if err != nil {
		return nil, err
	}

	maxW, maxH := 0, 0
	for _, s := range slices {
		maxW = max(maxW, s.Width())
		maxH = max(maxH, s.Height())
	}

	surface, err := p.surfaces.Acquire(maxW, maxH)
	if err != nil {
		return nil, err
	}
	defer surface.Release()

	result := &Result{
		Mode:         mode,
		SourceWidth:  src.Width(),
		SourceHeight: src.Height(),
	}

	for i, s := range slices {
		out := p.newOutput(mode, s)
		if !s.Empty() {
			view, err := surface.Draw(src.Image(), s.Rect)
			if err != nil {
				return nil, err
			}
			out.Data, err = encodePNG(view)
			if err != nil {
				return nil, fmt.Errorf("failed to encode slice %d: %w", i+1, err)
			}
		}
		result.Outputs[i] = out
	}

	return result, nil
}

func (p *Partitioner) newOutput(mode PartitionMode, s Slice) EncodedOutput {
	return EncodedOutput{
		Index:    s.Index,
		Label:    s.Label,
		X:        s.Rect.Min.X,
		Y:        s.Rect.Min.Y,
		Width:    s.Width(),
		Height:   s.Height(),
		MimeType: "image/png",
		Filename: SliceFilename(p.prefix, mode, s.Index),
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

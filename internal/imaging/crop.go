package imaging

import (
	"encoding/base64"
	"fmt"
)

// ExtractSlice produces a single slice on its own, without drawing the other
// three.
//
// The PNG bytes are identical to Outputs[index] of a Partition call with the
// same source and mode, so a client can fetch one slice lazily and still get
// the file the full partition would have produced.
//
// # Errors
//
//   - ErrSliceIndex if index is outside 0-3
//   - ErrInvalidMode for an unknown mode
func (p *Partitioner) ExtractSlice(src *SourceImage, mode PartitionMode, index int) (*EncodedOutput, error) {
	if index < 0 || index >= SliceCount {
		return nil, fmt.Errorf("%w: %d", ErrSliceIndex, index)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no source image", ErrDecode)
	}

	slices, err := Layout(src.Width(), src.Height(), mode)
	if err != nil {
		return nil, err
	}
	s := slices[index]

	out := p.newOutput(mode, s)
	if s.Empty() {
		return &out, nil
	}

	// The source is an immutable RGBA, so a sub-image view is enough.
	view := src.img.SubImage(s.Rect)
	out.Data, err = encodePNG(view)
	if err != nil {
		return nil, fmt.Errorf("failed to encode slice %d: %w", index+1, err)
	}
	return &out, nil
}

// CropResult is a base64 rendering of an encoded slice for JSON transports.
type CropResult struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Filename    string `json:"filename"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// ToCropResult base64-encodes an output. Empty slices carry an empty string.
func ToCropResult(o *EncodedOutput) *CropResult {
	return &CropResult{
		Index:       o.Index,
		Label:       o.Label,
		Filename:    o.Filename,
		Width:       o.Width,
		Height:      o.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(o.Data),
		MimeType:    o.MimeType,
	}
}

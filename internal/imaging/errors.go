package imaging

import "errors"

var (
	// ErrDecode means the input bytes could not be interpreted as an image.
	ErrDecode = errors.New("failed to decode image")

	// ErrUnsupportedFormat means the input was recognised as something other
	// than a JPEG, PNG, GIF or WEBP image.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrSurfaceUnavailable means no drawing surface could be acquired for
	// the requested size.
	ErrSurfaceUnavailable = errors.New("drawing surface unavailable")

	// ErrInvalidMode means a partition mode name or value is not recognised.
	ErrInvalidMode = errors.New("invalid partition mode")

	// ErrSliceIndex means a slice index is outside 0-3.
	ErrSliceIndex = errors.New("slice index out of range")
)

// Package imaging cuts a source image into four slices and encodes each one
// for download.
//
// Two partition modes are supported:
//   - Horizontal: four full-width bands stacked top to bottom
//   - Grid: a 2x2 grid ordered top-left, top-right, bottom-left, bottom-right
//
// The grid order is relied on by callers that label slices "left-top",
// "right-top", "left-bottom" and "right-bottom", and never changes.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the
// top-left corner. Regions use image.Rectangle semantics: Min is inclusive,
// Max is exclusive.
//
// # Rounding
//
// Band heights and half dimensions are floored. The remainder goes to the
// last band (Horizontal) or to the right column and bottom row (Grid), so the
// four slices always tile the source with no gap and no overlap. Images too
// small to split produce zero-area slices instead of failing, and a partition
// always has exactly four outputs.
//
// # Drawing Surface
//
// A Partitioner draws slices through one reusable Surface checked out from a
// SurfacePool per call. The surface is cleared before every slice so no
// pixels from one slice can leak into the next. The pool may cap surface size;
// requests over the cap fail with ErrSurfaceUnavailable.
//
// # Thread Safety
//
// SourceImage values are immutable. Partitioner, SurfacePool and ImageCache
// are safe for concurrent use.
//
// # Error Handling
//
// Failures wrap one of the package sentinels so callers can use errors.Is:
//   - ErrUnsupportedFormat: input is not JPEG, PNG, GIF or WEBP
//   - ErrDecode: input could not be decoded, or the image is empty
//   - ErrSurfaceUnavailable: no drawing surface could be acquired
//   - ErrInvalidMode: unknown partition mode
//   - ErrSliceIndex: slice index outside 0-3
package imaging

package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"sync"
)

// SurfacePool hands out reusable drawing surfaces.
//
// A partition checks out one surface, draws each slice into it in turn and
// releases it afterwards. Released buffers are kept for the next caller so
// repeated partitions of similar images do not reallocate.
//
// SurfacePool is safe for concurrent use; a single Surface is not.
type SurfacePool struct {
	maxPixels int
	pool      sync.Pool
}

// NewSurfacePool creates a pool whose surfaces never exceed maxPixels
// (width*height). A maxPixels of 0 means no limit.
func NewSurfacePool(maxPixels int) *SurfacePool {
	return &SurfacePool{maxPixels: maxPixels}
}

// Surface is a scratch RGBA canvas checked out from a SurfacePool.
type Surface struct {
	canvas *image.RGBA
	pool   *SurfacePool
}

// Acquire checks out a cleared surface of at least w x h pixels.
//
// # Errors
//
//   - ErrSurfaceUnavailable if w or h is not positive
//   - ErrSurfaceUnavailable if w*h exceeds the pool's pixel ceiling
func (p *SurfacePool) Acquire(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrSurfaceUnavailable, w, h)
	}
	pixels := int64(w) * int64(h)
	if p.maxPixels > 0 && pixels > int64(p.maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds limit of %d pixels", ErrSurfaceUnavailable, w, h, p.maxPixels)
	}

	need := 4 * w * h
	var canvas *image.RGBA
	if buf, ok := p.pool.Get().(*[]byte); ok && cap(*buf) >= need {
		canvas = &image.RGBA{
			Pix:    (*buf)[:need],
			Stride: 4 * w,
			Rect:   image.Rect(0, 0, w, h),
		}
		clear(canvas.Pix)
	} else {
		canvas = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	return &Surface{canvas: canvas, pool: p}, nil
}

// Bounds returns the full surface bounds.
func (s *Surface) Bounds() image.Rectangle {
	return s.canvas.Rect
}

// Draw clears the top-left r.Dx() x r.Dy() area of the surface, copies the
// pixels of src inside r into it and returns that area as an image.
//
// The returned image aliases the surface and is only valid until the next
// Draw or Release.
func (s *Surface) Draw(src image.Image, r image.Rectangle) (*image.RGBA, error) {
	target := image.Rect(0, 0, r.Dx(), r.Dy())
	if !target.In(s.canvas.Rect) {
		return nil, fmt.Errorf("%w: region %dx%d larger than surface %dx%d",
			ErrSurfaceUnavailable, r.Dx(), r.Dy(), s.canvas.Rect.Dx(), s.canvas.Rect.Dy())
	}

	s.clear(target)
	draw.Draw(s.canvas, target, src, r.Min, draw.Src)

	return s.canvas.SubImage(target).(*image.RGBA), nil
}

func (s *Surface) clear(r image.Rectangle) {
	draw.Draw(s.canvas, r, image.Transparent, image.Point{}, draw.Src)
}

// Release returns the surface's buffer to its pool. The surface must not be
// used afterwards.
func (s *Surface) Release() {
	if s.canvas == nil {
		return
	}
	buf := s.canvas.Pix[:0]
	s.canvas = nil
	s.pool.pool.Put(&buf)
}

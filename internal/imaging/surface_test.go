package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestSurfacePool_Acquire(t *testing.T) {
	pool := NewSurfacePool(0)

	s, err := pool.Acquire(40, 30)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer s.Release()

	if s.Bounds() != image.Rect(0, 0, 40, 30) {
		t.Errorf("Bounds: got %v, want 40x30", s.Bounds())
	}
}

func TestSurfacePool_AcquireInvalid(t *testing.T) {
	tests := []struct {
		name      string
		max, w, h int
	}{
		{"zero width", 0, 0, 10},
		{"negative height", 0, 10, -1},
		{"over limit", 100, 11, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSurfacePool(tt.max).Acquire(tt.w, tt.h)
			if !errors.Is(err, ErrSurfaceUnavailable) {
				t.Errorf("got %v, want ErrSurfaceUnavailable", err)
			}
		})
	}
}

func TestSurfacePool_AtLimit(t *testing.T) {
	s, err := NewSurfacePool(100).Acquire(10, 10)
	if err != nil {
		t.Fatalf("Acquire at exactly the limit failed: %v", err)
	}
	s.Release()
}

func TestSurface_ReuseIsCleared(t *testing.T) {
	pool := NewSurfacePool(0)
	red := createInMemoryImage(20, 20, color.RGBA{255, 0, 0, 255})

	s, err := pool.Acquire(20, 20)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if _, err := s.Draw(red, image.Rect(0, 0, 20, 20)); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	s.Release()

	// A smaller surface may reuse the red buffer; it must come back clear.
	s, err = pool.Acquire(10, 10)
	if err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
	defer s.Release()

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if _, _, _, a := s.canvas.At(x, y).RGBA(); a != 0 {
				t.Fatalf("pixel (%d,%d) not cleared after reuse", x, y)
			}
		}
	}
}

func TestSurface_DrawClearsPreviousContent(t *testing.T) {
	pool := NewSurfacePool(0)
	s, err := pool.Acquire(10, 10)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer s.Release()

	if _, err := s.Draw(createInMemoryImage(10, 10, color.RGBA{255, 0, 0, 255}), image.Rect(0, 0, 10, 10)); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	transparent := image.NewRGBA(image.Rect(0, 0, 10, 10))
	view, err := s.Draw(transparent, image.Rect(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	if _, _, _, a := view.At(5, 5).RGBA(); a != 0 {
		t.Error("transparent draw should not show the previous red slice")
	}
}

func TestSurface_DrawReturnsRegion(t *testing.T) {
	src := createPatternImage(100, 100)
	s, err := NewSurfacePool(0).Acquire(50, 50)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer s.Release()

	view, err := s.Draw(src, image.Rect(50, 50, 100, 100))
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if view.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("view bounds: got %v, want 50x50 at origin", view.Bounds())
	}
	r, g, b, _ := view.At(25, 25).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("bottom-right region should be white, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestSurface_DrawTooLarge(t *testing.T) {
	s, err := NewSurfacePool(0).Acquire(10, 10)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer s.Release()

	_, err = s.Draw(createPatternImage(20, 20), image.Rect(0, 0, 20, 20))
	if !errors.Is(err, ErrSurfaceUnavailable) {
		t.Errorf("got %v, want ErrSurfaceUnavailable", err)
	}
}

// Package export writes partition results to disk as PNG files.
package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ironsheep/image-split-mcp/internal/imaging"
)

// ErrEmptySlice is returned when asked to write a slice with no pixels.
var ErrEmptySlice = errors.New("slice has no pixels")

// Writer saves slices into Dir under their suggested filenames.
type Writer struct {
	Dir    string
	Logger *slog.Logger
}

// NewWriter returns a Writer for dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{Dir: dir, Logger: logger}
}

// WriteSlice writes the slice at 0-based index and returns its path.
func (w *Writer) WriteSlice(result *imaging.Result, index int) (string, error) {
	out, err := result.Output(index)
	if err != nil {
		return "", err
	}
	if out.Empty() {
		return "", fmt.Errorf("%w: %s", ErrEmptySlice, out.Filename)
	}
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return w.write(out)
}

// WriteAll writes every non-empty slice in order and returns the paths
// written. Zero-area slices are skipped.
func (w *Writer) WriteAll(result *imaging.Result) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, imaging.SliceCount)
	for i := range result.Outputs {
		out := &result.Outputs[i]
		if out.Empty() {
			w.Logger.Debug("skipping empty slice", "label", out.Label)
			continue
		}
		path, err := w.write(out)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) write(out *imaging.EncodedOutput) (string, error) {
	path := filepath.Join(w.Dir, out.Filename)
	if err := os.WriteFile(path, out.Data, 0644); err != nil {
		w.Logger.Error("failed to save slice", "path", path, "error", err)
		return "", fmt.Errorf("failed to save slice %s: %w", out.Filename, err)
	}
	w.Logger.Info("slice saved", "path", path, "width", out.Width, "height", out.Height)
	return path, nil
}

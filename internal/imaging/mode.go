package imaging

import (
	"fmt"
	"strings"
)

// PartitionMode selects how a source image is cut into four slices.
type PartitionMode int

const (
	// Horizontal cuts the image into four full-width bands, top to bottom.
	Horizontal PartitionMode = iota

	// Grid cuts the image into a 2x2 grid ordered top-left, top-right,
	// bottom-left, bottom-right.
	Grid
)

// SliceCount is the number of slices every partition produces.
const SliceCount = 4

var gridLabels = [SliceCount]string{"left-top", "right-top", "left-bottom", "right-bottom"}

// String returns the lowercase mode name used in filenames and tool arguments.
func (m PartitionMode) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Grid:
		return "grid"
	default:
		return fmt.Sprintf("PartitionMode(%d)", int(m))
	}
}

// Valid reports whether m is one of the defined modes.
func (m PartitionMode) Valid() bool {
	return m == Horizontal || m == Grid
}

// ParseMode converts a mode name to a PartitionMode. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseMode(name string) (PartitionMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "horizontal":
		return Horizontal, nil
	case "grid":
		return Grid, nil
	default:
		return Horizontal, fmt.Errorf("%w: %q", ErrInvalidMode, name)
	}
}

// Label returns the display label of slice index i (0-based) in mode m.
func (m PartitionMode) Label(i int) string {
	if i < 0 || i >= SliceCount {
		return ""
	}
	if m == Grid {
		return gridLabels[i]
	}
	return fmt.Sprintf("part-%d", i+1)
}

// MarshalText implements encoding.TextMarshaler so modes render as names in JSON.
func (m PartitionMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PartitionMode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

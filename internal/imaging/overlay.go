package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
)

// DefaultOverlayColor is used when the requested cut-line colour is missing
// or malformed.
var DefaultOverlayColor = color.NRGBA{255, 0, 0, 128}

// OverlayResult contains the source image with cut lines drawn on it.
type OverlayResult struct {
	Mode        PartitionMode `json:"mode"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	ImageBase64 string        `json:"image_base64"`
	MimeType    string        `json:"mime_type"`
}

// CutOverlay returns a copy of the source with the cut lines of mode drawn in
// lineColorHex and each slice numbered 1-4 in its top-left corner, so a user
// can see where the image will be split before saving anything.
func CutOverlay(src *SourceImage, mode PartitionMode, lineColorHex string) (*OverlayResult, error) {
	slices, err := Layout(src.Width(), src.Height(), mode)
	if err != nil {
		return nil, err
	}

	lineColor, err := parseHexColor(lineColorHex)
	if err != nil {
		lineColor = DefaultOverlayColor
	}

	bounds := src.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, src.Image(), bounds.Min, draw.Src)

	// Every interior edge is the top or left edge of some slice.
	for _, s := range slices {
		if s.Empty() {
			continue
		}
		if s.Rect.Min.Y > 0 {
			for x := s.Rect.Min.X; x < s.Rect.Max.X; x++ {
				result.Set(x, s.Rect.Min.Y, lineColor)
			}
		}
		if s.Rect.Min.X > 0 {
			for y := s.Rect.Min.Y; y < s.Rect.Max.Y; y++ {
				result.Set(s.Rect.Min.X, y, lineColor)
			}
		}
	}

	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}
	for _, s := range slices {
		if s.Empty() {
			continue
		}
		drawLabel(result, s.Rect.Min.X+2, s.Rect.Min.Y+2, strconv.Itoa(s.Index+1), labelColor, bgColor)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, result, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &OverlayResult{
		Mode:        mode,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080".
// The alpha byte is straight (non-premultiplied) alpha.
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// digitGlyphs is a 3x5 pixel font for slice numbers.
var digitGlyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel draws a small numeric label with a background box at (x, y),
// clipped to the image bounds. Characters without a glyph leave a gap.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if (image.Point{X: px, Y: py}).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := digitGlyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				px, py := cx+col, y+row
				if (image.Point{X: px, Y: py}).In(bounds) {
					img.Set(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}

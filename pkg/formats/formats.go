// Package formats provides parsers for heightmap file formats.
//
// Every parser returns samples in row-major order with row 0 as the
// southernmost row, regardless of the order the format stores rows in.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned when a heightmap format cannot be determined.
var ErrUnknownFormat = errors.New("unknown heightmap format")

// Sample is the set of scalar types heightmap parsers produce.
type Sample interface {
	~uint8 | ~uint16 | ~int16 | ~float32
}

// Heightmap is a width x height grid of samples, row 0 southernmost.
type Heightmap[T Sample] struct {
	Width   int
	Height  int
	Heights []T
}

// At returns the sample at column x, row y.
func (h *Heightmap[T]) At(x, y int) T {
	return h.Heights[y*h.Width+x]
}

// Range returns the lowest and highest sample.
func (h *Heightmap[T]) Range() (min, max T) {
	if len(h.Heights) == 0 {
		return min, max
	}
	min, max = h.Heights[0], h.Heights[0]
	for _, v := range h.Heights[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Floats returns the samples converted to float32.
func (h *Heightmap[T]) Floats() []float32 {
	out := make([]float32, len(h.Heights))
	for i, v := range h.Heights {
		out[i] = float32(v)
	}
	return out
}

// flipRows reverses the row order of a row-major slice in place.
func flipRows[T any](s []T, width, height int) {
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := s[top*width : (top+1)*width]
		b := s[bottom*width : (bottom+1)*width]
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	}
}

// Format identifies a heightmap file format.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	FormatASCIIGrid
	FormatBMP
	FormatPNG
	FormatSRTM
)

// String returns the short format name used on the command line.
func (f Format) String() string {
	switch f {
	case FormatASCIIGrid:
		return "asc"
	case FormatBMP:
		return "bmp"
	case FormatPNG:
		return "png"
	case FormatSRTM:
		return "hgt"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// ParseFormat converts a short format name into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "asc", "ascii", "grd":
		return FormatASCIIGrid, nil
	case "bmp":
		return FormatBMP, nil
	case "png":
		return FormatPNG, nil
	case "hgt", "srtm":
		return FormatSRTM, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Detect determines the format of a heightmap file by its extension.
func Detect(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatUnknown, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

func readFile(kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s file: %w", kind, err)
	}
	return data, nil
}

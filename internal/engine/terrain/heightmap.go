package terrain

import (
	"errors"
	"fmt"
)

// Triangulation errors.
var (
	ErrNilHeights               = errors.New("height samples are nil")
	ErrInvalidGridDimensions    = errors.New("invalid grid dimensions")
	ErrInvalidSphericalBounds   = errors.New("invalid spherical bounds")
	ErrInvalidDirection         = errors.New("invalid direction code")
	ErrUnsupportedTriangulation = errors.New("triangulation mode not implemented")
	ErrUnknownMode              = errors.New("unknown triangulation mode")
)

// Grid is a read-only view over width*height row-major samples, decimated by
// xStep and yStep. Row 0 is the southernmost row.
type Grid[T Number] struct {
	heights      []T
	width        int
	height       int
	xStep        int
	yStep        int
	actualWidth  int
	actualHeight int
}

// NewGrid validates the samples and dimensions and returns a grid view.
func NewGrid[T Number](heights []T, width, height, xStep, yStep int) (*Grid[T], error) {
	if heights == nil {
		return nil, ErrNilHeights
	}
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: %dx%d, need at least 2x2", ErrInvalidGridDimensions, width, height)
	}
	if xStep < 1 || yStep < 1 {
		return nil, fmt.Errorf("%w: steps %d,%d must be at least 1", ErrInvalidGridDimensions, xStep, yStep)
	}
	// Compared by division so huge dimensions cannot wrap the product.
	if width > len(heights)/height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d grid", ErrInvalidGridDimensions, len(heights), width, height)
	}

	actualWidth := (width-1)/xStep + 1
	actualHeight := (height-1)/yStep + 1
	if actualWidth < 2 || actualHeight < 2 {
		return nil, fmt.Errorf("%w: decimated grid %dx%d (steps %d,%d), need at least 2x2",
			ErrInvalidGridDimensions, actualWidth, actualHeight, xStep, yStep)
	}

	return &Grid[T]{
		heights:      heights,
		width:        width,
		height:       height,
		xStep:        xStep,
		yStep:        yStep,
		actualWidth:  actualWidth,
		actualHeight: actualHeight,
	}, nil
}

// Width returns the undecimated number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the undecimated number of rows.
func (g *Grid[T]) Height() int { return g.height }

// XStep returns the column decimation factor.
func (g *Grid[T]) XStep() int { return g.xStep }

// YStep returns the row decimation factor.
func (g *Grid[T]) YStep() int { return g.yStep }

// ActualWidth returns the number of columns after decimation.
func (g *Grid[T]) ActualWidth() int { return g.actualWidth }

// ActualHeight returns the number of rows after decimation.
func (g *Grid[T]) ActualHeight() int { return g.actualHeight }

// Sample returns the raw sample at column x, row y of the undecimated grid.
func (g *Grid[T]) Sample(x, y int) (float32, error) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return 0, fmt.Errorf("%w: sample (%d,%d) outside %dx%d", ErrInvalidGridDimensions, x, y, g.width, g.height)
	}
	return float32(g.heights[y*g.width+x]), nil
}

// At returns the decimated sample (x, y), i.e. raw sample (x*xStep, y*yStep).
// The caller keeps x and y inside the decimated grid.
func (g *Grid[T]) At(x, y int) float32 {
	return float32(g.heights[y*g.yStep*g.width+x*g.xStep])
}

// Range returns the lowest and highest decimated sample.
func (g *Grid[T]) Range() (min, max float32) {
	min = g.At(0, 0)
	max = min
	for y := 0; y < g.actualHeight; y++ {
		for x := 0; x < g.actualWidth; x++ {
			h := g.At(x, y)
			if h < min {
				min = h
			}
			if h > max {
				max = h
			}
		}
	}
	return min, max
}

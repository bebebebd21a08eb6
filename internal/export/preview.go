package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidPreview is returned for heights that cannot form an image.
var ErrInvalidPreview = errors.New("invalid preview dimensions")

// reliefStops runs from lowland green to snow.
var reliefStops = []string{"#2b6e3a", "#8fbc5a", "#e8d98a", "#a0785a", "#ffffff"}

// Relief maps heights onto a hypsometric gradient blended in Lab space.
type Relief struct {
	stops []colorful.Color
}

// NewRelief builds a gradient from hex colour stops, lowest first.
func NewRelief(hex ...string) (*Relief, error) {
	if len(hex) < 2 {
		return nil, fmt.Errorf("%w: need at least two colour stops", ErrInvalidPreview)
	}
	r := &Relief{stops: make([]colorful.Color, len(hex))}
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("parsing colour stop %q: %w", h, err)
		}
		r.stops[i] = c
	}
	return r, nil
}

// At returns the colour at t in [0, 1]; values outside are clamped.
func (r *Relief) At(t float64) colorful.Color {
	if t <= 0 {
		return r.stops[0]
	}
	if t >= 1 {
		return r.stops[len(r.stops)-1]
	}
	pos := t * float64(len(r.stops)-1)
	i := int(pos)
	return r.stops[i].BlendLab(r.stops[i+1], pos-float64(i)).Clamped()
}

// RenderPreview encodes a colour relief PNG of a width x height grid.
// Row 0 of heights is south and is drawn at the bottom of the image.
func RenderPreview(w io.Writer, heights []float32, width, height int) error {
	if width < 1 || height < 1 || width > len(heights)/height {
		return fmt.Errorf("%w: %dx%d with %d samples", ErrInvalidPreview, width, height, len(heights))
	}
	relief, err := NewRelief(reliefStops...)
	if err != nil {
		return err
	}

	lo, hi := heights[0], heights[0]
	for _, h := range heights[:width*height] {
		lo = min(lo, h)
		hi = max(hi, h)
	}
	span := float64(hi - lo)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := 0.0
			if span > 0 {
				t = float64(heights[y*width+x]-lo) / span
			}
			img.Set(x, height-1-y, relief.At(t))
		}
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding preview: %w", err)
	}
	return nil
}

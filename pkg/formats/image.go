package formats

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/bmp"
)

// ErrInvalidImage is returned when an image heightmap cannot be decoded.
var ErrInvalidImage = errors.New("invalid heightmap image")

// ParseBMP decodes a BMP image into 8-bit heights. Colour pixels are
// reduced to their luminance.
func ParseBMP(data []byte) (*Heightmap[uint8], error) {
	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	w, h, err := imageSize(img)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	hm := &Heightmap[uint8]{Width: w, Height: h, Heights: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		row := h - 1 - y
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			hm.Heights[row*w+x] = g.Y
		}
	}
	return hm, nil
}

// ParseBMPFile parses a BMP heightmap from disk.
func ParseBMPFile(path string) (*Heightmap[uint8], error) {
	data, err := readFile("BMP", path)
	if err != nil {
		return nil, err
	}
	return ParseBMP(data)
}

// ParsePNG decodes a PNG image into 16-bit heights. 8-bit images are
// widened so that 0xff maps to 0xffff.
func ParsePNG(data []byte) (*Heightmap[uint16], error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	w, h, err := imageSize(img)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	hm := &Heightmap[uint16]{Width: w, Height: h, Heights: make([]uint16, w*h)}
	gray, isGray := img.(*image.Gray16)
	for y := 0; y < h; y++ {
		row := h - 1 - y
		for x := 0; x < w; x++ {
			px, py := b.Min.X+x, b.Min.Y+y
			if isGray {
				hm.Heights[row*w+x] = gray.Gray16At(px, py).Y
				continue
			}
			hm.Heights[row*w+x] = color.Gray16Model.Convert(img.At(px, py)).(color.Gray16).Y
		}
	}
	return hm, nil
}

// ParsePNGFile parses a PNG heightmap from disk.
func ParsePNGFile(path string) (*Heightmap[uint16], error) {
	data, err := readFile("PNG", path)
	if err != nil {
		return nil, err
	}
	return ParsePNG(data)
}

func imageSize(img image.Image) (int, int, error) {
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return 0, 0, fmt.Errorf("%w: empty image %dx%d", ErrInvalidImage, b.Dx(), b.Dy())
	}
	return b.Dx(), b.Dy(), nil
}

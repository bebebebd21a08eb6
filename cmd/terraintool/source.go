package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nrz/ylikuutio-sub008/internal/config"
	"github.com/nrz/ylikuutio-sub008/internal/engine/terrain"
	"github.com/nrz/ylikuutio-sub008/internal/logger"
	"github.com/nrz/ylikuutio-sub008/pkg/formats"
)

// source is a loaded heightmap with its sample type erased.
type source struct {
	path   string
	format formats.Format
	width  int
	height int
	min    float64
	max    float64
	floats func() []float32
	mesh   func(xStep, yStep int, triangulate bool, opts terrain.Options) (*terrain.Mesh, error)
}

func newSource[T formats.Sample](path string, f formats.Format, hm *formats.Heightmap[T]) *source {
	lo, hi := hm.Range()
	return &source{
		path:   path,
		format: f,
		width:  hm.Width,
		height: hm.Height,
		min:    float64(lo),
		max:    float64(hi),
		floats: hm.Floats,
		mesh: func(xStep, yStep int, triangulate bool, opts terrain.Options) (*terrain.Mesh, error) {
			return terrain.FromSamples(hm.Heights, hm.Width, hm.Height, xStep, yStep, triangulate, opts)
		},
	}
}

// load reads a heightmap, using the configured format or the file extension.
func load(path string, cfg *config.Config) (*source, error) {
	var (
		f   formats.Format
		err error
	)
	if cfg.Terrain.Format != "" {
		f, err = formats.ParseFormat(cfg.Terrain.Format)
	} else {
		f, err = formats.Detect(path)
	}
	if err != nil {
		return nil, err
	}

	switch f {
	case formats.FormatASCIIGrid:
		g, err := formats.ParseASCIIGridFile(path)
		if err != nil {
			return nil, err
		}
		return newSource(path, f, &g.Heightmap), nil
	case formats.FormatBMP:
		hm, err := formats.ParseBMPFile(path)
		if err != nil {
			return nil, err
		}
		return newSource(path, f, hm), nil
	case formats.FormatPNG:
		hm, err := formats.ParsePNGFile(path)
		if err != nil {
			return nil, err
		}
		return newSource(path, f, hm), nil
	case formats.FormatSRTM:
		hm, err := formats.ParseSRTMFile(path)
		if err != nil {
			return nil, err
		}
		return newSource(path, f, hm), nil
	default:
		return nil, fmt.Errorf("%w: %s", formats.ErrUnknownFormat, f)
	}
}

// options builds triangulation options for src. SRTM tiles named after
// their south-west corner supply their own bounds unless the config
// already sets some.
func options(src *source, cfg *config.Config) (terrain.Options, error) {
	opts, err := cfg.TriangulationOptions()
	if err != nil {
		return opts, err
	}
	if src.format != formats.FormatSRTM || opts.Bounds != terrain.DefaultSphericalBounds() {
		return opts, nil
	}

	lat, lon, err := formats.ParseSRTMName(src.path)
	if err != nil {
		logger.Debug("SRTM tile name gives no bounds", zap.String("path", src.path), zap.Error(err))
		return opts, nil
	}
	step := 1 / float32(src.width-1)
	opts.Bounds = terrain.SphericalBounds{
		SouthernLatitude:     float32(lat),
		NorthernLatitude:     float32(lat + 1),
		WesternLongitude:     float32(lon),
		EasternLongitude:     float32(lon + 1),
		LatitudeStepDegrees:  step,
		LongitudeStepDegrees: step,
	}
	return opts, nil
}

// build loads path and produces its mesh as configured.
func build(path string, cfg *config.Config) (*source, *terrain.Mesh, error) {
	src, err := load(path, cfg)
	if err != nil {
		return nil, nil, err
	}
	opts, err := options(src, cfg)
	if err != nil {
		return nil, nil, err
	}
	mesh, err := src.mesh(cfg.Terrain.XStep, cfg.Terrain.YStep, cfg.Terrain.Triangulate, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, mesh, nil
}

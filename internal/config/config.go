// Package config handles terraintool configuration loading and management.
package config

import (
	"fmt"
	"math"

	"github.com/nrz/ylikuutio-sub008/internal/engine/terrain"
)

// Config holds all settings.
type Config struct {
	Terrain   TerrainConfig   `yaml:"terrain"`
	Spherical SphericalConfig `yaml:"spherical"`
	Output    OutputConfig    `yaml:"output"`
	Batch     BatchConfig     `yaml:"batch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TerrainConfig holds heightmap loading and triangulation settings.
type TerrainConfig struct {
	Format                 string `yaml:"format"` // empty = by file extension
	XStep                  int    `yaml:"x_step"`
	YStep                  int    `yaml:"y_step"`
	Triangulate            bool   `yaml:"triangulate"`
	TriangulationType      string `yaml:"triangulation_type"`
	RealTextureCoordinates bool   `yaml:"use_real_texture_coordinates"`
}

// SphericalConfig holds the spherical projection settings. A nil radius
// disables the projection.
type SphericalConfig struct {
	SphereRadius         *float32 `yaml:"sphere_radius"`
	SouthernLatitude     float32  `yaml:"southern_latitude"`
	NorthernLatitude     float32  `yaml:"northern_latitude"`
	WesternLongitude     float32  `yaml:"western_longitude"`
	EasternLongitude     float32  `yaml:"eastern_longitude"`
	LatitudeStepDegrees  float32  `yaml:"latitude_step_degrees"`
	LongitudeStepDegrees float32  `yaml:"longitude_step_degrees"`
}

// OutputConfig holds mesh post-processing and export settings.
type OutputConfig struct {
	IndexVBO bool   `yaml:"index_vbo"`
	STLPath  string `yaml:"stl_path"`
}

// BatchConfig holds settings for the batch command.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	bounds := terrain.DefaultSphericalBounds()
	return &Config{
		Terrain: TerrainConfig{
			XStep:             1,
			YStep:             1,
			Triangulate:       true,
			TriangulationType: terrain.BilinearInterpolation.String(),
		},
		Spherical: SphericalConfig{
			SouthernLatitude:     bounds.SouthernLatitude,
			NorthernLatitude:     bounds.NorthernLatitude,
			WesternLongitude:     bounds.WesternLongitude,
			EasternLongitude:     bounds.EasternLongitude,
			LatitudeStepDegrees:  bounds.LatitudeStepDegrees,
			LongitudeStepDegrees: bounds.LongitudeStepDegrees,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// TriangulationOptions converts the terrain and spherical settings into
// options for terrain.Triangulate.
func (c *Config) TriangulationOptions() (terrain.Options, error) {
	mode, err := terrain.ParseMode(c.Terrain.TriangulationType)
	if err != nil {
		return terrain.Options{}, fmt.Errorf("terrain.triangulation_type: %w", err)
	}

	radius := float32(math.NaN())
	if c.Spherical.SphereRadius != nil {
		radius = *c.Spherical.SphereRadius
	}

	return terrain.Options{
		Mode:                   mode,
		RealTextureCoordinates: c.Terrain.RealTextureCoordinates,
		SphereRadius:           radius,
		Bounds: terrain.SphericalBounds{
			SouthernLatitude:     c.Spherical.SouthernLatitude,
			NorthernLatitude:     c.Spherical.NorthernLatitude,
			WesternLongitude:     c.Spherical.WesternLongitude,
			EasternLongitude:     c.Spherical.EasternLongitude,
			LatitudeStepDegrees:  c.Spherical.LatitudeStepDegrees,
			LongitudeStepDegrees: c.Spherical.LongitudeStepDegrees,
		},
	}, nil
}

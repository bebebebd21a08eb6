// Package terrain triangulates heightmap grids into triangle meshes.
package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Number is any scalar type a heightmap sample may be stored as.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// Mode selects how each grid quad is split into triangles.
type Mode int

// Triangulation modes.
const (
	BilinearInterpolation   Mode = iota // 4 triangles around an interpolated center vertex
	SoutheastNorthwestEdges             // 2 triangles split along the SE-NW diagonal
	SouthwestNortheastEdges             // 2 triangles split along the SW-NE diagonal (not implemented)
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case BilinearInterpolation:
		return "bilinear_interpolation"
	case SoutheastNorthwestEdges:
		return "southeast_northwest_edges"
	case SouthwestNortheastEdges:
		return "southwest_northeast_edges"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMode converts a configuration name into a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "bilinear_interpolation", "":
		return BilinearInterpolation, nil
	case "southeast_northwest_edges":
		return SoutheastNorthwestEdges, nil
	case "southwest_northeast_edges":
		return SouthwestNortheastEdges, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// SRTMStepDegrees is the angular sample spacing of SRTM3 data (3 arc seconds).
const SRTMStepDegrees = 1.0 / 1200.0

// SphericalBounds declares the geographic field of view of a grid.
// Latitudes and longitudes are in degrees.
type SphericalBounds struct {
	SouthernLatitude     float32
	NorthernLatitude     float32
	WesternLongitude     float32
	EasternLongitude     float32
	LatitudeStepDegrees  float32
	LongitudeStepDegrees float32
}

// DefaultSphericalBounds returns a one degree tile at the origin sampled at
// SRTM resolution.
func DefaultSphericalBounds() SphericalBounds {
	return SphericalBounds{
		SouthernLatitude:     0,
		NorthernLatitude:     1,
		WesternLongitude:     0,
		EasternLongitude:     1,
		LatitudeStepDegrees:  SRTMStepDegrees,
		LongitudeStepDegrees: SRTMStepDegrees,
	}
}

// Validate checks that the bounds describe a non-empty, stepped area.
func (b SphericalBounds) Validate() error {
	if !(b.LatitudeStepDegrees > 0) || !(b.LongitudeStepDegrees > 0) {
		return fmt.Errorf("%w: steps must be positive (lat %v, lon %v)",
			ErrInvalidSphericalBounds, b.LatitudeStepDegrees, b.LongitudeStepDegrees)
	}
	if !(b.SouthernLatitude < b.NorthernLatitude) {
		return fmt.Errorf("%w: southern latitude %v not below northern %v",
			ErrInvalidSphericalBounds, b.SouthernLatitude, b.NorthernLatitude)
	}
	if !(b.WesternLongitude < b.EasternLongitude) {
		return fmt.Errorf("%w: western longitude %v not below eastern %v",
			ErrInvalidSphericalBounds, b.WesternLongitude, b.EasternLongitude)
	}
	return nil
}

// Options controls a triangulation call.
type Options struct {
	Mode Mode

	// RealTextureCoordinates maps every quad to [0,1]x[0,1] instead of the
	// checkerboard placeholder.
	RealTextureCoordinates bool

	// SphereRadius enables the spherical projection when it is not NaN.
	SphereRadius float32

	Bounds SphericalBounds
}

// DefaultOptions returns bilinear triangulation without projection.
func DefaultOptions() Options {
	return Options{
		Mode:         BilinearInterpolation,
		SphereRadius: float32(math.NaN()),
		Bounds:       DefaultSphericalBounds(),
	}
}

// Spherical reports whether the options request a spherical projection.
func (o Options) Spherical() bool {
	return !math.IsNaN(float64(o.SphereRadius))
}

// Mesh is a non-indexed triangle stream. Every three consecutive entries
// form one triangle. UVs and Normals are empty for raw grid output.
type Mesh struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Normals   []mgl32.Vec3 // unnormalized sums of adjacent face normals
	Bounds    Bounds
}

// VertexCount returns the number of emitted vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles in the stream.
func (m *Mesh) TriangleCount() int {
	if len(m.UVs) == 0 && len(m.Normals) == 0 {
		return 0
	}
	return len(m.Positions) / 3
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Size returns the extent of the box on each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

func computeBounds(positions []mgl32.Vec3) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < b.Min[i] {
				b.Min[i] = p[i]
			}
			if p[i] > b.Max[i] {
				b.Max[i] = p[i]
			}
		}
	}
	return b
}

package terrain

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/nrz/ylikuutio-sub008/internal/logger"
)

// centerUV is the texture coordinate of every interpolated center vertex.
var centerUV = mgl32.Vec2{0.5, 0.5}

// FromSamples builds a grid over heights and either triangulates it or,
// when triangulate is false, returns the raw grid positions.
func FromSamples[T Number](heights []T, width, height, xStep, yStep int, triangulate bool, opts Options) (*Mesh, error) {
	grid, err := NewGrid(heights, width, height, xStep, yStep)
	if err != nil {
		return nil, err
	}
	if !triangulate {
		return Raw(grid)
	}
	return Triangulate(grid, opts)
}

// Raw returns the decimated grid positions (x, height, y) in row-major
// order without generating triangles. UVs and normals are empty.
func Raw[T Number](grid *Grid[T]) (*Mesh, error) {
	if grid == nil {
		return nil, ErrNilHeights
	}

	aw, ah := grid.ActualWidth(), grid.ActualHeight()
	positions := make([]mgl32.Vec3, 0, aw*ah)
	for y := 0; y < ah; y++ {
		for x := 0; x < aw; x++ {
			positions = append(positions, mgl32.Vec3{float32(x), grid.At(x, y), float32(y)})
		}
	}

	return &Mesh{
		Positions: positions,
		Bounds:    computeBounds(positions),
	}, nil
}

// Triangulate converts the grid into a triangle stream. On failure no mesh
// is returned.
func Triangulate[T Number](grid *Grid[T], opts Options) (*Mesh, error) {
	if grid == nil {
		return nil, ErrNilHeights
	}
	if opts.Spherical() {
		if err := opts.Bounds.Validate(); err != nil {
			return nil, err
		}
	}

	var (
		mesh *Mesh
		err  error
	)
	switch opts.Mode {
	case BilinearInterpolation:
		mesh, err = triangulateBilinear(grid, opts)
	case SoutheastNorthwestEdges:
		mesh, err = triangulateSoutheastNorthwest(grid, opts)
	case SouthwestNortheastEdges:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTriangulation, opts.Mode)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, opts.Mode)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidDirection) {
			logger.Error("triangulation aborted", zap.Error(err))
		}
		return nil, err
	}

	mesh.Bounds = computeBounds(mesh.Positions)

	logger.Debug("triangulated heightmap",
		zap.Stringer("mode", opts.Mode),
		zap.Int("width", grid.ActualWidth()),
		zap.Int("height", grid.ActualHeight()),
		zap.Bool("spherical", opts.Spherical()),
		zap.Int("triangles", mesh.TriangleCount()),
	)

	return mesh, nil
}

// vertexBuffer holds grid vertices followed, in bilinear mode, by one
// center vertex per quad.
type vertexBuffer struct {
	layout    quadLayout
	positions []mgl32.Vec3
	uvs       []mgl32.Vec2
	realUV    bool
}

// buildVertices runs the base vertex pass and, when withCenters is set,
// the interpolation pass. Real-texture UVs hold the grid coordinate and are
// rebased per quad on emission.
func buildVertices[T Number](grid *Grid[T], withCenters, realUV bool) *vertexBuffer {
	l := quadLayout{width: grid.ActualWidth(), height: grid.ActualHeight()}

	size := l.gridVertexCount()
	if withCenters {
		size = l.vertexCount()
	}
	vb := &vertexBuffer{
		layout:    l,
		positions: make([]mgl32.Vec3, 0, size),
		uvs:       make([]mgl32.Vec2, 0, size),
		realUV:    realUV,
	}

	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			vb.positions = append(vb.positions, mgl32.Vec3{float32(x), grid.At(x, y), float32(y)})
			if realUV {
				vb.uvs = append(vb.uvs, mgl32.Vec2{float32(x), float32(y)})
			} else {
				vb.uvs = append(vb.uvs, mgl32.Vec2{float32(x & 1), float32(y & 1)})
			}
		}
	}

	if !withCenters {
		return vb
	}

	for y := 1; y < l.height; y++ {
		for x := 1; x < l.width; x++ {
			sw := grid.At(x-1, y-1)
			se := grid.At(x, y-1)
			nw := grid.At(x-1, y)
			ne := grid.At(x, y)
			mean := (sw + se + nw + ne) / 4.0
			vb.positions = append(vb.positions, mgl32.Vec3{float32(x) - 0.5, mean, float32(y) - 0.5})
			vb.uvs = append(vb.uvs, centerUV)
		}
	}

	return vb
}

// uv returns the texture coordinate of vertex i as emitted for quad (x, y).
func (vb *vertexBuffer) uv(i, x, y int) mgl32.Vec2 {
	if !vb.realUV || i >= vb.layout.gridVertexCount() {
		return vb.uvs[i]
	}
	return vb.uvs[i].Sub(mgl32.Vec2{float32(x - 1), float32(y - 1)})
}

func triangulateBilinear[T Number](grid *Grid[T], opts Options) (*Mesh, error) {
	vb := buildVertices(grid, true, opts.RealTextureCoordinates)
	l := vb.layout

	if opts.Spherical() {
		projectVertices(vb.positions, l, true, grid.XStep(), grid.YStep(), opts.SphereRadius, opts.Bounds)
	}

	faces, err := faceNormals(vb.positions, l)
	if err != nil {
		return nil, err
	}
	normals, err := vertexNormals(faces, l)
	if err != nil {
		return nil, err
	}

	return emitBilinear(vb, normals)
}

// emitBilinear writes the S, W, N and E triangles of every quad in
// row-major order. Each triangle starts at the quad center.
func emitBilinear(vb *vertexBuffer, normals []mgl32.Vec3) (*Mesh, error) {
	l := vb.layout
	n := 12 * l.quadCount()
	mesh := &Mesh{
		Positions: make([]mgl32.Vec3, 0, n),
		UVs:       make([]mgl32.Vec2, 0, n),
		Normals:   make([]mgl32.Vec3, 0, n),
	}

	for y := 1; y < l.height; y++ {
		for x := 1; x < l.width; x++ {
			center := l.centerIndex(x, y)
			for d := south; d <= east; d++ {
				a, b, err := l.corners(x, y, d)
				if err != nil {
					return nil, err
				}
				for _, i := range [3]int{center, a, b} {
					mesh.Positions = append(mesh.Positions, vb.positions[i])
					mesh.UVs = append(mesh.UVs, vb.uv(i, x, y))
					mesh.Normals = append(mesh.Normals, normals[i])
				}
			}
		}
	}

	return mesh, nil
}

// southeastNorthwestTriangles lists the two triangles of quad (x, y) split
// along its SE-NW diagonal.
func southeastNorthwestTriangles(l quadLayout, x, y int) [2][3]int {
	sw, se := l.southwest(x, y), l.southeast(x, y)
	nw, ne := l.northwest(x, y), l.northeast(x, y)
	return [2][3]int{
		{sw, nw, se},
		{ne, se, nw},
	}
}

func triangulateSoutheastNorthwest[T Number](grid *Grid[T], opts Options) (*Mesh, error) {
	vb := buildVertices(grid, false, opts.RealTextureCoordinates)
	l := vb.layout

	if opts.Spherical() {
		projectVertices(vb.positions, l, false, grid.XStep(), grid.YStep(), opts.SphereRadius, opts.Bounds)
	}

	// Sum each face normal into its three vertices.
	normals := make([]mgl32.Vec3, l.gridVertexCount())
	for y := 1; y < l.height; y++ {
		for x := 1; x < l.width; x++ {
			for _, tri := range southeastNorthwestTriangles(l, x, y) {
				face := triangleNormal(vb.positions[tri[0]], vb.positions[tri[1]], vb.positions[tri[2]])
				for _, i := range tri {
					normals[i] = normals[i].Add(face)
				}
			}
		}
	}

	n := 6 * l.quadCount()
	mesh := &Mesh{
		Positions: make([]mgl32.Vec3, 0, n),
		UVs:       make([]mgl32.Vec2, 0, n),
		Normals:   make([]mgl32.Vec3, 0, n),
	}
	for y := 1; y < l.height; y++ {
		for x := 1; x < l.width; x++ {
			for _, tri := range southeastNorthwestTriangles(l, x, y) {
				for _, i := range tri {
					mesh.Positions = append(mesh.Positions, vb.positions[i])
					mesh.UVs = append(mesh.UVs, vb.uv(i, x, y))
					mesh.Normals = append(mesh.Normals, normals[i])
				}
			}
		}
	}

	return mesh, nil
}

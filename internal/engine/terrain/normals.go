package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// direction names one of the four triangles around a quad center, in
// emission order.
type direction int

const (
	south direction = iota
	west
	north
	east
)

func (d direction) String() string {
	switch d {
	case south:
		return "S"
	case west:
		return "W"
	case north:
		return "N"
	case east:
		return "E"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// compass names a face incident to a grid vertex by the direction in which
// the face lies, seen from the vertex.
type compass int

const (
	southSouthwest compass = iota // SSW
	westSouthwest                 // WSW
	westNorthwest                 // WNW
	northNorthwest                // NNW
	northNortheast                // NNE
	eastNortheast                 // ENE
	eastSoutheast                 // ESE
	southSoutheast                // SSE
)

// compassCodes lists every code in summation order.
var compassCodes = [...]compass{
	southSouthwest, westSouthwest, westNorthwest, northNorthwest,
	northNortheast, eastNortheast, eastSoutheast, southSoutheast,
}

func (c compass) String() string {
	switch c {
	case southSouthwest:
		return "SSW"
	case westSouthwest:
		return "WSW"
	case westNorthwest:
		return "WNW"
	case northNorthwest:
		return "NNW"
	case northNortheast:
		return "NNE"
	case eastNortheast:
		return "ENE"
	case eastSoutheast:
		return "ESE"
	case southSoutheast:
		return "SSE"
	default:
		return fmt.Sprintf("compass(%d)", int(c))
	}
}

// compassFaces resolves a compass code to the quad that holds the face,
// as an offset from the vertex to the quad's northeast corner, and to the
// face of that quad.
var compassFaces = [...]struct {
	dx, dy int
	face   direction
}{
	southSouthwest: {0, 0, east},
	westSouthwest:  {0, 0, north},
	westNorthwest:  {0, 1, south},
	northNorthwest: {0, 1, east},
	northNortheast: {1, 1, west},
	eastNortheast:  {1, 1, south},
	eastSoutheast:  {1, 0, north},
	southSoutheast: {1, 0, west},
}

// quadLayout does the index arithmetic over a decimated grid of
// width x height vertices. A quad is addressed by its northeast grid
// vertex (x, y) with 1 <= x < width and 1 <= y < height.
type quadLayout struct {
	width  int
	height int
}

func (l quadLayout) gridVertexCount() int {
	return l.width * l.height
}

func (l quadLayout) quadCount() int {
	return (l.width - 1) * (l.height - 1)
}

func (l quadLayout) vertexCount() int {
	return l.gridVertexCount() + l.quadCount()
}

func (l quadLayout) hasQuad(x, y int) bool {
	return x >= 1 && y >= 1 && x < l.width && y < l.height
}

func (l quadLayout) quadIndex(x, y int) int {
	return (y-1)*(l.width-1) + (x - 1)
}

func (l quadLayout) gridIndex(x, y int) int {
	return y*l.width + x
}

func (l quadLayout) centerIndex(x, y int) int {
	return l.gridVertexCount() + l.quadIndex(x, y)
}

func (l quadLayout) southwest(x, y int) int { return l.gridIndex(x-1, y-1) }
func (l quadLayout) southeast(x, y int) int { return l.gridIndex(x, y-1) }
func (l quadLayout) northwest(x, y int) int { return l.gridIndex(x-1, y) }
func (l quadLayout) northeast(x, y int) int { return l.gridIndex(x, y) }

// faceIndex returns the slot of face d of quad (x, y) in a buffer holding
// four faces per quad.
func (l quadLayout) faceIndex(x, y int, d direction) int {
	return 4*l.quadIndex(x, y) + int(d)
}

// corners returns the two grid vertices of triangle d of quad (x, y), in
// winding order after the center.
func (l quadLayout) corners(x, y int, d direction) (int, int, error) {
	switch d {
	case south:
		return l.southeast(x, y), l.southwest(x, y), nil
	case west:
		return l.southwest(x, y), l.northwest(x, y), nil
	case north:
		return l.northwest(x, y), l.northeast(x, y), nil
	case east:
		return l.northeast(x, y), l.southeast(x, y), nil
	default:
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidDirection, d)
	}
}

// gridFace resolves the face lying in direction c of grid vertex (x, y).
// ok is false when that face falls outside the grid.
func (l quadLayout) gridFace(x, y int, c compass) (face int, ok bool, err error) {
	if c < 0 || int(c) >= len(compassFaces) {
		return 0, false, fmt.Errorf("%w: %s at vertex (%d,%d)", ErrInvalidDirection, c, x, y)
	}
	f := compassFaces[c]
	qx, qy := x+f.dx, y+f.dy
	if !l.hasQuad(qx, qy) {
		return 0, false, nil
	}
	return l.faceIndex(qx, qy, f.face), true, nil
}

// faceNormals computes the unnormalized normal of the four triangles of
// every quad. Both edges start at the quad center.
func faceNormals(vertices []mgl32.Vec3, l quadLayout) ([]mgl32.Vec3, error) {
	faces := make([]mgl32.Vec3, 4*l.quadCount())
	for y := 1; y < l.height; y++ {
		for x := 1; x < l.width; x++ {
			center := vertices[l.centerIndex(x, y)]
			for d := south; d <= east; d++ {
				a, b, err := l.corners(x, y, d)
				if err != nil {
					return nil, err
				}
				edge1 := vertices[a].Sub(center)
				edge2 := vertices[b].Sub(center)
				faces[l.faceIndex(x, y, d)] = edge1.Cross(edge2)
			}
		}
	}
	return faces, nil
}

// vertexNormals sums the normals of the faces around every vertex. Grid
// vertices collect 2, 4 or 8 faces depending on their position, centers
// always 4. The sums are not normalized.
func vertexNormals(faces []mgl32.Vec3, l quadLayout) ([]mgl32.Vec3, error) {
	normals := make([]mgl32.Vec3, l.vertexCount())

	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			var sum mgl32.Vec3
			for _, c := range compassCodes {
				face, ok, err := l.gridFace(x, y, c)
				if err != nil {
					return nil, err
				}
				if ok {
					sum = sum.Add(faces[face])
				}
			}
			normals[l.gridIndex(x, y)] = sum
		}
	}

	for y := 1; y < l.height; y++ {
		for x := 1; x < l.width; x++ {
			var sum mgl32.Vec3
			for d := south; d <= east; d++ {
				sum = sum.Add(faces[l.faceIndex(x, y, d)])
			}
			normals[l.centerIndex(x, y)] = sum
		}
	}

	return normals, nil
}

// triangleNormal returns cross(b-a, c-a).
func triangleNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

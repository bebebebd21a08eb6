// Package vbo deduplicates triangle-stream vertices into an indexed buffer.
package vbo

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Tolerance is the per-component distance below which two attributes are
// considered equal.
const Tolerance = 0.01

// ErrMismatchedLengths is returned when attribute slices differ in length.
var ErrMismatchedLengths = errors.New("mismatched vertex attribute lengths")

// IndexedMesh holds unique vertices and the index list that rebuilds the
// original triangle stream from them.
type IndexedMesh struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// Reduction returns the fraction of input vertices eliminated.
func (m *IndexedMesh) Reduction() float64 {
	if len(m.Indices) == 0 {
		return 0
	}
	return 1 - float64(len(m.Positions))/float64(len(m.Indices))
}

type cell [3]int64

func cellOf(p mgl32.Vec3) cell {
	return cell{
		int64(math.Floor(float64(p[0]) / Tolerance)),
		int64(math.Floor(float64(p[1]) / Tolerance)),
		int64(math.Floor(float64(p[2]) / Tolerance)),
	}
}

func near(a, b float32) bool {
	return math.Abs(float64(a)-float64(b)) < Tolerance
}

func near3(a, b mgl32.Vec3) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

// IndexVBO merges vertices whose position, uv and normal all lie within
// Tolerance of an earlier vertex. When several earlier vertices qualify the
// first one emitted wins. uvs and normals may be empty; otherwise they must
// match positions in length.
func IndexVBO(positions []mgl32.Vec3, uvs []mgl32.Vec2, normals []mgl32.Vec3) (*IndexedMesh, error) {
	n := len(positions)
	if len(uvs) != 0 && len(uvs) != n {
		return nil, fmt.Errorf("%w: %d positions, %d uvs", ErrMismatchedLengths, n, len(uvs))
	}
	if len(normals) != 0 && len(normals) != n {
		return nil, fmt.Errorf("%w: %d positions, %d normals", ErrMismatchedLengths, n, len(normals))
	}
	hasUV, hasNormal := len(uvs) != 0, len(normals) != 0

	out := &IndexedMesh{Indices: make([]uint32, 0, n)}
	buckets := make(map[cell][]uint32)

	for i, p := range positions {
		c := cellOf(p)
		match := -1

		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, j := range buckets[cell{c[0] + dx, c[1] + dy, c[2] + dz}] {
						if match >= 0 && int(j) >= match {
							break
						}
						if !near3(p, out.Positions[j]) {
							continue
						}
						if hasUV && !(near(uvs[i][0], out.UVs[j][0]) && near(uvs[i][1], out.UVs[j][1])) {
							continue
						}
						if hasNormal && !near3(normals[i], out.Normals[j]) {
							continue
						}
						match = int(j)
						break
					}
				}
			}
		}

		if match >= 0 {
			out.Indices = append(out.Indices, uint32(match))
			continue
		}

		idx := uint32(len(out.Positions))
		out.Positions = append(out.Positions, p)
		if hasUV {
			out.UVs = append(out.UVs, uvs[i])
		}
		if hasNormal {
			out.Normals = append(out.Normals, normals[i])
		}
		buckets[c] = append(buckets[c], idx)
		out.Indices = append(out.Indices, idx)
	}
	return out, nil
}

// Expand rebuilds the flat triangle stream from an indexed mesh.
func (m *IndexedMesh) Expand() (positions []mgl32.Vec3, uvs []mgl32.Vec2, normals []mgl32.Vec3) {
	positions = make([]mgl32.Vec3, len(m.Indices))
	if len(m.UVs) != 0 {
		uvs = make([]mgl32.Vec2, len(m.Indices))
	}
	if len(m.Normals) != 0 {
		normals = make([]mgl32.Vec3, len(m.Indices))
	}
	for i, idx := range m.Indices {
		positions[i] = m.Positions[idx]
		if uvs != nil {
			uvs[i] = m.UVs[idx]
		}
		if normals != nil {
			normals[i] = m.Normals[idx]
		}
	}
	return positions, uvs, normals
}

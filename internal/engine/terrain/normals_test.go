package terrain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGridFaceCompassCodes(t *testing.T) {
	l := quadLayout{width: 3, height: 3}

	// Interior vertex (1,1) touches all four quads.
	tests := []struct {
		code   compass
		qx, qy int
		face   direction
	}{
		{southSouthwest, 1, 1, east},
		{westSouthwest, 1, 1, north},
		{westNorthwest, 1, 2, south},
		{northNorthwest, 1, 2, east},
		{northNortheast, 2, 2, west},
		{eastNortheast, 2, 2, south},
		{eastSoutheast, 2, 1, north},
		{southSoutheast, 2, 1, west},
	}
	for _, tt := range tests {
		face, ok, err := l.gridFace(1, 1, tt.code)
		if err != nil || !ok {
			t.Fatalf("%s: ok=%v err=%v", tt.code, ok, err)
		}
		if want := l.faceIndex(tt.qx, tt.qy, tt.face); face != want {
			t.Errorf("%s resolved to face %d, want %d (quad %d,%d %s)", tt.code, face, want, tt.qx, tt.qy, tt.face)
		}
	}
}

func TestGridFaceIncidenceCounts(t *testing.T) {
	l := quadLayout{width: 4, height: 3}

	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			count := 0
			for _, c := range compassCodes {
				_, ok, err := l.gridFace(x, y, c)
				if err != nil {
					t.Fatalf("gridFace(%d,%d,%s): %v", x, y, c, err)
				}
				if ok {
					count++
				}
			}

			onX := x == 0 || x == l.width-1
			onY := y == 0 || y == l.height-1
			want := 8
			switch {
			case onX && onY:
				want = 2
			case onX || onY:
				want = 4
			}
			if count != want {
				t.Errorf("vertex (%d,%d) has %d faces, want %d", x, y, count, want)
			}
		}
	}
}

func TestInvalidDirection(t *testing.T) {
	l := quadLayout{width: 3, height: 3}

	if _, _, err := l.gridFace(1, 1, compass(len(compassCodes))); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection, got %v", err)
	}
	if _, _, err := l.gridFace(1, 1, compass(-1)); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection, got %v", err)
	}
	if _, _, err := l.corners(1, 1, direction(4)); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection, got %v", err)
	}
}

func TestVertexNormalsFlatGrid(t *testing.T) {
	heights := make([]float32, 4*3)
	grid, err := NewGrid(heights, 4, 3, 1, 1)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	vb := buildVertices(grid, true, false)
	faces, err := faceNormals(vb.positions, vb.layout)
	if err != nil {
		t.Fatalf("faceNormals failed: %v", err)
	}
	for i, f := range faces {
		if f != (mgl32.Vec3{0, 0.5, 0}) {
			t.Errorf("face %d = %v, want (0, 0.5, 0)", i, f)
		}
	}

	normals, err := vertexNormals(faces, vb.layout)
	if err != nil {
		t.Fatalf("vertexNormals failed: %v", err)
	}

	// Raw sums: 2 faces at corners, 4 on edges, 8 inside, 4 at centers.
	l := vb.layout
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			onX := x == 0 || x == l.width-1
			onY := y == 0 || y == l.height-1
			want := float32(4)
			switch {
			case onX && onY:
				want = 1
			case onX || onY:
				want = 2
			}
			if got := normals[l.gridIndex(x, y)]; got != (mgl32.Vec3{0, want, 0}) {
				t.Errorf("grid normal (%d,%d) = %v, want (0, %v, 0)", x, y, got, want)
			}
		}
	}
	for y := 1; y < l.height; y++ {
		for x := 1; x < l.width; x++ {
			if got := normals[l.centerIndex(x, y)]; got != (mgl32.Vec3{0, 2, 0}) {
				t.Errorf("center normal (%d,%d) = %v, want (0, 2, 0)", x, y, got)
			}
		}
	}
}

// scatterNormals accumulates each face into the vertices of its triangle,
// independent of the compass lookup.
func scatterNormals(faces []mgl32.Vec3, l quadLayout) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, l.vertexCount())
	for y := 1; y < l.height; y++ {
		for x := 1; x < l.width; x++ {
			for d := south; d <= east; d++ {
				a, b, _ := l.corners(x, y, d)
				f := faces[l.faceIndex(x, y, d)]
				for _, i := range []int{l.centerIndex(x, y), a, b} {
					normals[i] = normals[i].Add(f)
				}
			}
		}
	}
	return normals
}

func TestVertexNormalsMatchScatter(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	heights := make([]float32, 6*5)
	for i := range heights {
		heights[i] = rng.Float32() * 100
	}
	grid, err := NewGrid(heights, 6, 5, 1, 1)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	vb := buildVertices(grid, true, false)
	faces, err := faceNormals(vb.positions, vb.layout)
	if err != nil {
		t.Fatalf("faceNormals failed: %v", err)
	}
	got, err := vertexNormals(faces, vb.layout)
	if err != nil {
		t.Fatalf("vertexNormals failed: %v", err)
	}
	want := scatterNormals(faces, vb.layout)

	for i := range want {
		if !vecNear(got[i], want[i], 1e-2) {
			t.Errorf("normal %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestVertexNormalsAreNotNormalized(t *testing.T) {
	mesh, err := FromSamples([]float32{0, 0, 0, 0, 9, 0, 0, 0, 0}, 3, 3, 1, 1, true, DefaultOptions())
	if err != nil {
		t.Fatalf("FromSamples failed: %v", err)
	}

	longer := 0
	for _, n := range mesh.Normals {
		if n.Len() > 1.01 {
			longer++
		}
	}
	if longer == 0 {
		t.Error("expected raw face sums longer than unit length")
	}
}

func TestFaceNormalsPointUp(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	heights := make([]uint8, 8*8)
	for i := range heights {
		heights[i] = uint8(rng.Intn(3))
	}

	mesh, err := FromSamples(heights, 8, 8, 1, 1, true, DefaultOptions())
	if err != nil {
		t.Fatalf("FromSamples failed: %v", err)
	}
	for i, n := range mesh.Normals {
		if n.Y() <= 0 {
			t.Errorf("normal %d = %v points down", i, n)
		}
	}
}

func TestTriangleNormal(t *testing.T) {
	got := triangleNormal(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0})
	if got != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("triangleNormal = %v, want (0, 1, 0)", got)
	}
}

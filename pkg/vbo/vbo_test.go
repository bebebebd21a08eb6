package vbo

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIndexVBO_MergesDuplicates(t *testing.T) {
	positions := []mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 0, 1},
		{1, 0, 0}, {1, 0, 1}, {0.005, 0, 1.004},
	}
	uvs := []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 0}, {1, 1}, {0, 1}}
	normals := make([]mgl32.Vec3, len(positions))
	for i := range normals {
		normals[i] = mgl32.Vec3{0, 1, 0}
	}

	m, err := IndexVBO(positions, uvs, normals)
	if err != nil {
		t.Fatalf("IndexVBO failed: %v", err)
	}

	if len(m.Positions) != 4 {
		t.Fatalf("expected 4 unique vertices, got %d", len(m.Positions))
	}
	want := []uint32{0, 1, 2, 1, 3, 2}
	for i, idx := range want {
		if m.Indices[i] != idx {
			t.Errorf("index %d = %d, want %d", i, m.Indices[i], idx)
		}
	}
	if len(m.UVs) != 4 || len(m.Normals) != 4 {
		t.Errorf("expected 4 uvs and normals, got %d, %d", len(m.UVs), len(m.Normals))
	}
}

func TestIndexVBO_AttributesKeepVerticesApart(t *testing.T) {
	positions := []mgl32.Vec3{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	uvs := []mgl32.Vec2{{0, 0}, {1, 0}, {0, 0}}
	normals := []mgl32.Vec3{{0, 1, 0}, {0, 1, 0}, {1, 0, 0}}

	m, err := IndexVBO(positions, uvs, normals)
	if err != nil {
		t.Fatalf("IndexVBO failed: %v", err)
	}
	if len(m.Positions) != 3 {
		t.Errorf("expected 3 unique vertices, got %d", len(m.Positions))
	}
}

func TestIndexVBO_EarliestMatchWins(t *testing.T) {
	// 0 and 1 are 0.012 apart so both survive; 2 is near both and must
	// resolve to 0, which lies in a neighbouring cell.
	positions := []mgl32.Vec3{{0.009, 0, 0}, {0.021, 0, 0}, {0.015, 0, 0}}

	m, err := IndexVBO(positions, nil, nil)
	if err != nil {
		t.Fatalf("IndexVBO failed: %v", err)
	}
	if len(m.Positions) != 2 {
		t.Fatalf("expected 2 unique vertices, got %d", len(m.Positions))
	}
	if m.Indices[2] != 0 {
		t.Errorf("expected vertex 2 to reuse 0, got %d", m.Indices[2])
	}
	if m.UVs != nil || m.Normals != nil {
		t.Error("expected no uvs or normals")
	}
}

func TestIndexVBO_ToleranceIsStrict(t *testing.T) {
	positions := []mgl32.Vec3{{0, 0, 0}, {0, 0.02, 0}, {0, -0.0099, 0}}

	m, err := IndexVBO(positions, nil, nil)
	if err != nil {
		t.Fatalf("IndexVBO failed: %v", err)
	}
	if len(m.Positions) != 2 {
		t.Errorf("expected 2 unique vertices, got %d", len(m.Positions))
	}
	if m.Indices[2] != 0 {
		t.Errorf("expected vertex 2 to reuse 0, got %d", m.Indices[2])
	}
}

func TestIndexVBO_MismatchedLengths(t *testing.T) {
	positions := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}
	if _, err := IndexVBO(positions, []mgl32.Vec2{{0, 0}}, nil); !errors.Is(err, ErrMismatchedLengths) {
		t.Errorf("expected ErrMismatchedLengths for uvs, got %v", err)
	}
	if _, err := IndexVBO(positions, nil, []mgl32.Vec3{{0, 1, 0}}); !errors.Is(err, ErrMismatchedLengths) {
		t.Errorf("expected ErrMismatchedLengths for normals, got %v", err)
	}
}

func TestIndexedMesh_ExpandAndReduction(t *testing.T) {
	positions := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 0}}
	normals := []mgl32.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0}}

	m, err := IndexVBO(positions, nil, normals)
	if err != nil {
		t.Fatalf("IndexVBO failed: %v", err)
	}
	if r := m.Reduction(); r != 0.25 {
		t.Errorf("Reduction() = %v, want 0.25", r)
	}

	p, uv, n := m.Expand()
	if uv != nil {
		t.Error("expected nil uvs")
	}
	for i := range positions {
		if p[i] != positions[i] || n[i] != normals[i] {
			t.Errorf("vertex %d = %v/%v, want %v/%v", i, p[i], n[i], positions[i], normals[i])
		}
	}

	empty := &IndexedMesh{}
	if empty.Reduction() != 0 {
		t.Error("expected zero reduction for empty mesh")
	}
}

// Package export writes triangulated terrain to files: binary STL meshes
// and colour relief previews.
package export

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/nrz/ylikuutio-sub008/internal/engine/terrain"
	"github.com/nrz/ylikuutio-sub008/internal/logger"
)

// ErrNoTriangles is returned when a mesh has nothing to export.
var ErrNoTriangles = errors.New("mesh has no triangles")

// Triangles converts a terrain triangle stream to sdfx triangles.
//
// Terrain is Y-up; STL consumers expect Z-up, so Y and Z are swapped and
// each triangle's winding is reversed to keep normals pointing outward.
func Triangles(mesh *terrain.Mesh) ([]*sdf.Triangle3, error) {
	if mesh == nil || mesh.TriangleCount() == 0 {
		return nil, ErrNoTriangles
	}

	zUp := func(p mgl32.Vec3) v3.Vec {
		return v3.Vec{X: float64(p.X()), Y: float64(p.Z()), Z: float64(p.Y())}
	}

	out := make([]*sdf.Triangle3, 0, mesh.TriangleCount())
	for i := 0; i+2 < len(mesh.Positions); i += 3 {
		out = append(out, &sdf.Triangle3{
			zUp(mesh.Positions[i]),
			zUp(mesh.Positions[i+2]),
			zUp(mesh.Positions[i+1]),
		})
	}
	return out, nil
}

// WriteSTL writes the mesh to path as a binary STL file.
func WriteSTL(path string, mesh *terrain.Mesh) error {
	tris, err := Triangles(mesh)
	if err != nil {
		return err
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("writing STL %s: %w", path, err)
	}
	logger.Debug("wrote STL", zap.String("path", path), zap.Int("triangles", len(tris)))
	return nil
}

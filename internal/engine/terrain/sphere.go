package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Project maps a vertex read as (longitude, altitude, -latitude), angles in
// degrees, onto a sphere of the given radius. The altitude is added to the
// radius. Longitude is the azimuthal angle and latitude the polar one.
func Project(v mgl32.Vec3, radius float32) mgl32.Vec3 {
	rho := radius + v.Y()
	theta := mgl32.DegToRad(v.X())
	phi := mgl32.DegToRad(-v.Z())
	return mgl32.SphericalToCartesian(rho, theta, phi)
}

// projectVertices overwrites x and z of every vertex with its scan position
// in degrees and projects it onto the sphere. Grid vertex (x, y) sits at
// sample (x*xStep, y*yStep), so the angular step is scaled by the
// decimation. Centers sit half a step south-west of their quad's
// northeast vertex. Positions must still hold planar coordinates; the pass
// cannot be applied twice.
func projectVertices(positions []mgl32.Vec3, l quadLayout, withCenters bool,
	xStep, yStep int, radius float32, b SphericalBounds) {

	lonStep := b.LongitudeStepDegrees * float32(xStep)
	latStep := b.LatitudeStepDegrees * float32(yStep)

	place := func(i int, gx, gy float32) {
		p := positions[i]
		p[0] = b.WesternLongitude + gx*lonStep
		p[2] = -(b.SouthernLatitude + gy*latStep)
		positions[i] = Project(p, radius)
	}

	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			place(l.gridIndex(x, y), float32(x), float32(y))
		}
	}

	if !withCenters {
		return
	}
	for y := 1; y < l.height; y++ {
		for x := 1; x < l.width; x++ {
			place(l.centerIndex(x, y), float32(x)-0.5, float32(y)-0.5)
		}
	}
}

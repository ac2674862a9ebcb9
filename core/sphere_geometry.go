package core

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// GenerateSphereData builds a latitude/longitude sphere centred on the origin.
//
// Vertex 0 is the north pole, followed by vertical-1 rings of horizontal
// vertices each, and the south pole last. Every vertex is position followed by
// normal. Triangles wind as a fan around each pole and as two triangles per
// quad between neighbouring rings.
func GenerateSphereData(horizontal, vertical int, radius float32) (Mesh, error) {
	if horizontal < 3 || vertical < 2 {
		return Mesh{}, fmt.Errorf("%w: sphere needs horizontal >= 3 and vertical >= 2, got %d x %d",
			ErrInvalidTessellation, horizontal, vertical)
	}
	if radius <= 0 {
		return Mesh{}, fmt.Errorf("%w: sphere radius must be positive, got %g", ErrInvalidTessellation, radius)
	}

	pitchStep := 180.0 / float32(vertical)
	yawStep := 360.0 / float32(horizontal)

	vertexCount := 2 + (vertical-1)*horizontal
	vertices := make([]float32, 0, vertexCount*VertexStride)
	indices := make([]uint32, 0, 6*horizontal*(vertical-1))

	// North pole
	vertices = append(vertices, 0, radius, 0, 0, 1, 0)

	h := uint32(horizontal)
	south := uint32(1 + (vertical-1)*horizontal)

	for i := 1; i < vertical; i++ {
		pitch := mgl32.DegToRad(float32(i)*pitchStep - 90)
		ring := uint32(i-1)*h + 1
		next := uint32(i)*h + 1

		for j := 0; j < horizontal; j++ {
			yaw := mgl32.DegToRad(float32(j) * yawStep)
			x := radius * math32.Cos(pitch) * math32.Cos(yaw)
			y := -radius * math32.Sin(pitch)
			z := radius * math32.Cos(pitch) * math32.Sin(yaw)
			vertices = append(vertices, x, y, z, x/radius, y/radius, z/radius)

			cur := uint32(j)
			nxt := (uint32(j) + 1) % h

			if i == 1 {
				indices = append(indices, ring+cur, ring+nxt, 0)
			}

			if i != vertical-1 {
				indices = append(indices,
					ring+cur, ring+nxt, next+cur,
					next+cur, next+nxt, ring+nxt,
				)
			} else {
				indices = append(indices, ring+cur, ring+nxt, south)
			}
		}
	}

	// South pole
	vertices = append(vertices, 0, -radius, 0, 0, -1, 0)

	return Mesh{Vertices: vertices, Indices: indices, Stride: VertexStride}, nil
}

// GenerateTrailData builds the closed ellipse an orbiting body follows around
// its center, sampled every half degree in the XZ plane. The mesh is meant to
// be drawn as GL_LINES and translated to the center body's position.
func GenerateTrailData(eccentricity, focalDistance float32) Mesh {
	ratio := math32.Sqrt(1 - sq(ClampEccentricity(eccentricity)))
	points := int(360 / trailStepDegrees)

	vertices := make([]float32, 0, points*VertexStride)
	indices := make([]uint32, 0, points*2)

	for k := 0; k < points; k++ {
		d := mgl32.DegToRad(float32(k) * trailStepDegrees)
		x := math32.Cos(d) * focalDistance
		z := ratio * math32.Sin(d) * focalDistance
		vertices = append(vertices, x, 0, z, x, 0, z)
		indices = append(indices, uint32(k), uint32((k+1)%points))
	}

	return Mesh{Vertices: vertices, Indices: indices, Stride: VertexStride}
}

// OrbitPoint returns the offset from the center at the given angle, in
// degrees, on the same ellipse GenerateTrailData draws.
func OrbitPoint(angle, eccentricity, focalDistance float32) mgl32.Vec3 {
	ratio := math32.Sqrt(1 - sq(ClampEccentricity(eccentricity)))
	r := mgl32.DegToRad(angle)
	return mgl32.Vec3{
		math32.Cos(r) * focalDistance,
		0,
		ratio * math32.Sin(r) * focalDistance,
	}
}

func sq(v float32) float32 { return v * v }

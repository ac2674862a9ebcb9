package core

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnknownPlanet is returned when a body name is not in the world.
	ErrUnknownPlanet = errors.New("unknown planet")
	// ErrDuplicatePlanet is returned when AddPlanet reuses a name.
	ErrDuplicatePlanet = errors.New("duplicate planet")
	// ErrInvalidTessellation is returned for degenerate mesh parameters.
	ErrInvalidTessellation = errors.New("invalid tessellation")
)

// Editable ranges exposed by the overlay sliders and the telemetry API.
const (
	MinEccentricity  = 0.01
	MaxEccentricity  = 0.99
	MinFocalDistance = 0.0
	MaxFocalDistance = 1000.0
	MinMass          = 1.0
	MaxMass          = 999999.0
	VertexStride     = 6 // position xyz + normal xyz
	trailStepDegrees = 0.5
	gravityConstant  = 9999.0
)

// Mesh is CPU-side geometry ready to be uploaded as an interleaved vertex
// buffer plus an index buffer.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
	Stride   int // floats per vertex
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int {
	if m.Stride == 0 {
		return 0
	}
	return len(m.Vertices) / m.Stride
}

// Position returns the position of vertex i.
func (m Mesh) Position(i int) mgl32.Vec3 {
	o := i * m.Stride
	return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

// Bounds returns the axis aligned bounding box of all vertex positions.
func (m Mesh) Bounds() (min, max mgl32.Vec3) {
	n := m.VertexCount()
	if n == 0 {
		return
	}
	min = m.Position(0)
	max = min
	for i := 1; i < n; i++ {
		p := m.Position(i)
		for k := 0; k < 3; k++ {
			min[k] = math32.Min(min[k], p[k])
			max[k] = math32.Max(max[k], p[k])
		}
	}
	return min, max
}

// PlanetSpec describes a body to add to the World.
type PlanetSpec struct {
	Name          string
	Center        string
	Eccentricity  float32
	FocalDistance float32
	Mass          float32
	Offset        mgl32.Vec3 // initial position relative to the center
	Scale         mgl32.Vec3
	Color         [4]float32
}

// BodyState is a read-only copy of one body, safe to hand to other goroutines.
type BodyState struct {
	Name          string     `json:"name"`
	Center        string     `json:"center"`
	Eccentricity  float32    `json:"eccentricity"`
	FocalDistance float32    `json:"focalDistance"`
	Mass          float32    `json:"mass"`
	Position      mgl32.Vec3 `json:"position"`
	Scale         mgl32.Vec3 `json:"scale"`
	Color         [4]float32 `json:"color"`
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// ClampEccentricity limits e to the range where the ellipse stays well formed.
func ClampEccentricity(e float32) float32 {
	return clamp(e, MinEccentricity, MaxEccentricity)
}

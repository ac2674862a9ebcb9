package core

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	starSpread   = 400.0 // half size of the cube stars spawn in
	starKeepOut  = 200.0 // per-axis radius of the respawn zone around the camera
	starScale    = 0.01
	DefaultStars = 3000
	MinStars     = 1000
	MaxStars     = 5000
)

// StarField is the galaxy backdrop: tiny white spheres scattered in a cube
// around the camera. Stars that drift too close to the camera are thrown back
// out so flying never runs out of sky.
type StarField struct {
	rng   *rand.Rand
	stars []mgl32.Vec3
}

// NewStarField creates an empty field drawing positions from rng.
func NewStarField(rng *rand.Rand) *StarField {
	return &StarField{rng: rng}
}

// Update resizes the field to count stars and respawns the ones inside the
// keep-out zone of camera. Shrinking clears the field before refilling it.
func (s *StarField) Update(camera mgl32.Vec3, count int) {
	if count < 0 {
		count = 0
	}
	if len(s.stars) > count {
		s.stars = s.stars[:0]
	}
	for len(s.stars) < count {
		s.stars = append(s.stars, s.spawn(camera))
	}

	keepOut := mgl32.Vec3{starKeepOut, starKeepOut, starKeepOut}.Len()
	respawned := 0
	for i, p := range s.stars {
		if p.Sub(camera).Len() < keepOut {
			s.stars[i] = s.spawn(camera)
			respawned++
		}
	}
	if respawned > 0 {
		Logger().Debug("stars respawned", "count", respawned)
	}
}

// Positions returns the current star positions. The slice is reused between
// updates.
func (s *StarField) Positions() []mgl32.Vec3 {
	return s.stars
}

// ModelMatrix returns the transform of a star at pos.
func (s *StarField) ModelMatrix(pos mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).Mul4(mgl32.Scale3D(starScale, starScale, starScale))
}

func (s *StarField) spawn(camera mgl32.Vec3) mgl32.Vec3 {
	var p mgl32.Vec3
	for k := 0; k < 3; k++ {
		p[k] = camera[k] - starSpread + s.rng.Float32()*2*starSpread
	}
	return p
}

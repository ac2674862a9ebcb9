package core

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestPlanetUpdate(t *testing.T) {
	const (
		sunMass   = 333400
		earthMass = 4000
		fd        = 100
		e         = 0.7
	)
	p := NewPlanet(earthMass, mgl32.Vec3{fd, 0, 0}, mgl32.Vec3{0.5, 0.5, 0.5}, [4]float32{0, 0, 1, 1})

	// The first call only records the clock.
	p.Update(mgl32.Vec3{}, sunMass, e, fd, 10)
	assert.Zero(t, p.Angle())
	assert.InDelta(t, fd, p.Position()[0], 1e-4)
	assert.InDelta(t, 0, p.Position()[2], 1e-4)

	p.Update(mgl32.Vec3{}, sunMass, e, fd, 11)

	force := float32(gravityConstant) * sunMass * earthMass / (fd * fd)
	w := math32.Sqrt(force / (earthMass * fd))
	assert.InDelta(t, w, p.Angle(), 1e-3)

	ratio := math32.Sqrt(1 - e*e)
	rad := mgl32.DegToRad(w)
	assert.InDelta(t, math32.Cos(rad)*fd, p.Position()[0], 1e-3)
	assert.InDelta(t, 0, p.Position()[1], 1e-6)
	assert.InDelta(t, ratio*math32.Sin(rad)*fd, p.Position()[2], 1e-3)
}

func TestPlanetUpdateFollowsCenter(t *testing.T) {
	center := mgl32.Vec3{50, 5, -20}
	p := NewPlanet(1, center.Add(mgl32.Vec3{40, 0, 0}), mgl32.Vec3{1, 1, 1}, [4]float32{1, 1, 1, 1})

	p.Update(center, 4000, 0.7, 40, 0)
	assert.InDelta(t, 90, p.Position()[0], 1e-4)
	assert.InDelta(t, 5, p.Position()[1], 1e-6)
	assert.InDelta(t, -20, p.Position()[2], 1e-4)
}

func TestPlanetUpdateAtCenterDoesNotMove(t *testing.T) {
	p := NewPlanet(1, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, [4]float32{1, 1, 1, 1})
	p.Update(mgl32.Vec3{}, 100, 0.5, 10, 0)
	p.Update(mgl32.Vec3{}, 100, 0.5, 10, 5)
	assert.Equal(t, mgl32.Vec3{}, p.Position())
	assert.Zero(t, p.Angle())
}

func TestPlanetUpdateMasslessDoesNotMove(t *testing.T) {
	start := mgl32.Vec3{10, 0, 0}
	p := NewPlanet(0, start, mgl32.Vec3{1, 1, 1}, [4]float32{1, 1, 1, 1})
	p.Update(mgl32.Vec3{}, 100, 0.5, 10, 0)
	p.Update(mgl32.Vec3{}, 100, 0.5, 10, 5)
	assert.Equal(t, start, p.Position())
}

func TestPlanetModelMatrix(t *testing.T) {
	p := NewPlanet(1, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{2, 2, 2}, [4]float32{})
	got := p.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{3, 2, 3, 1}, got)
}

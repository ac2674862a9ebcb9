package core

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCameraLooksAtSun(t *testing.T) {
	c := NewCamera(DefaultCameraPosition, DefaultPitch, DefaultYaw, 1280.0/720.0)
	toSun := c.Position().Mul(-1).Normalize()
	assert.Greater(t, c.Front().Dot(toSun), float32(0.99))

	x, y, ok := ProjectToScreen(c.ViewProjection(), mgl32.Vec3{}, 1280, 720)
	require.True(t, ok)
	assert.InDelta(t, 640, x, 100)
	assert.InDelta(t, 360, y, 100)
}

func TestCameraMove(t *testing.T) {
	tests := []struct {
		name string
		dir  Direction
		want func(c *Camera) mgl32.Vec3
	}{
		{"forward", Forward, func(c *Camera) mgl32.Vec3 { return horizontal(c.Front()).Mul(10) }},
		{"backward", Backward, func(c *Camera) mgl32.Vec3 { return horizontal(c.Front()).Mul(-10) }},
		{"right", Right, func(c *Camera) mgl32.Vec3 { return c.Right().Mul(10) }},
		{"left", Left, func(c *Camera) mgl32.Vec3 { return c.Right().Mul(-10) }},
		{"up", Up, func(*Camera) mgl32.Vec3 { return mgl32.Vec3{0, 10, 0} }},
		{"down", Down, func(*Camera) mgl32.Vec3 { return mgl32.Vec3{0, -10, 0} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCamera(mgl32.Vec3{1, 2, 3}, 20, 40, 1)
			start := c.Position()
			want := start.Add(tc.want(c))
			c.Move(tc.dir, 10)
			assert.True(t, c.Position().ApproxEqualThreshold(want, 1e-4), "got %v want %v", c.Position(), want)
		})
	}
}

func horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], 0, v[2]}.Normalize()
}

func TestCameraForwardKeepsAltitude(t *testing.T) {
	c := NewCamera(DefaultCameraPosition, DefaultPitch, DefaultYaw, 1)
	start := c.Position()

	c.Move(Forward, 10)
	assert.InDelta(t, start[1], c.Position()[1], 1e-4)
	assert.InDelta(t, 10, c.Position().Sub(start).Len(), 1e-3)
	assert.Greater(t, c.Position().Sub(start).Dot(c.Front()), float32(0), "moves toward the view direction")

	c.Move(Backward, 10)
	assert.True(t, c.Position().ApproxEqualThreshold(start, 1e-3))
}

func TestCameraRightIsHorizontal(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 45, 10, 1)
	assert.InDelta(t, 0, c.Right()[1], 1e-6)
	assert.InDelta(t, 0, c.Right().Dot(c.Front()), 1e-5)
}

func TestCameraRotate(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 0, 0, 1)

	c.Rotate(100, 0, 0.1)
	assert.InDelta(t, 10, c.Yaw(), 1e-5)

	// Mouse up looks up.
	c.Rotate(0, -50, 0.1)
	assert.InDelta(t, 5, c.Pitch(), 1e-5)

	c.Rotate(0, -10000, 0.1)
	assert.InDelta(t, 89, c.Pitch(), 1e-5)
	c.Rotate(0, 10000, 0.1)
	assert.InDelta(t, -89, c.Pitch(), 1e-5)

	// Yaw accumulates without wrapping.
	c.Rotate(3600, 0, 1)
	assert.InDelta(t, 3610, c.Yaw(), 1e-2)
}

func TestCameraSetAspect(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 0, 0, 1)
	before := c.ProjectionMatrix()
	c.SetAspect(0)
	assert.Equal(t, before, c.ProjectionMatrix(), "non-positive aspect ignored")
	c.SetAspect(2)
	assert.NotEqual(t, before, c.ProjectionMatrix())
}

func TestProjectToScreen(t *testing.T) {
	x, y, ok := ProjectToScreen(mgl32.Ident4(), mgl32.Vec3{0, 0, 0.5}, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, 400, x, 1e-5)
	assert.InDelta(t, 300, y, 1e-5)

	x, y, ok = ProjectToScreen(mgl32.Ident4(), mgl32.Vec3{1, 1, 0}, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, 801, x, 1e-5)
	assert.InDelta(t, 1, y, 1e-5)

	c := NewCamera(mgl32.Vec3{0, 0, 10}, 0, -90, 1)
	_, _, ok = ProjectToScreen(c.ViewProjection(), mgl32.Vec3{0, 0, 20}, 800, 600)
	assert.False(t, ok, "behind the camera")
	_, _, ok = ProjectToScreen(c.ViewProjection(), mgl32.Vec3{0, 0, 0}, 800, 600)
	assert.True(t, ok)
}

func TestFormatLines(t *testing.T) {
	assert.Equal(t,
		"Camera position: x: 1.000, y: 2.000, z: 3.000, pitch: -30.750, yaw: -69.750",
		FormatCameraLine(mgl32.Vec3{1, 2, 3}, -30.75, -69.75))

	b := BodyState{Name: "Earth", Center: "Sun", Eccentricity: 0.7, FocalDistance: 100, Mass: 4000, Position: mgl32.Vec3{100, 0, 0}}
	assert.Equal(t,
		"Earth: x: 100.000, y: 0.000, z: 0.000, mass, 4000.000, center: Sun, ecc: 0.700, fd: 100.000",
		FormatBodyLine(b))
}

func TestHUDLabels(t *testing.T) {
	bodies := []BodyState{
		{Name: "Sun", Center: "Sun"},
		{Name: "Earth", Center: "Sun", Position: mgl32.Vec3{0, 0, 20}},
	}

	stats := StatsLabels(mgl32.Vec3{1, 2, 3}, -30.75, -69.75, bodies)
	require.Len(t, stats, 3)
	assert.Equal(t, float32(0), stats[0].Y)
	assert.Equal(t, float32(40), stats[2].Y)
	assert.Equal(t, float32(20), stats[2].X)
	assert.Equal(t, FormatBodyLine(bodies[1]), stats[2].Text)

	c := NewCamera(mgl32.Vec3{0, 0, 10}, 0, -90, 1)
	names := NameLabels(c.ViewProjection(), bodies, 800, 600)
	require.Len(t, names, 1, "Earth is behind the camera")
	assert.Equal(t, "Sun", names[0].Text)
	assert.InDelta(t, 400, names[0].X, 1e-3)
	assert.InDelta(t, 300, names[0].Y, 1e-3)
}

func TestStarField(t *testing.T) {
	s := NewStarField(rand.New(rand.NewSource(1)))
	cam := mgl32.Vec3{10, -20, 30}

	s.Update(cam, 500)
	require.Len(t, s.Positions(), 500)
	for _, p := range s.Positions() {
		for k := 0; k < 3; k++ {
			assert.GreaterOrEqual(t, p[k], cam[k]-starSpread)
			assert.LessOrEqual(t, p[k], cam[k]+starSpread)
		}
	}

	s.Update(cam, 200)
	assert.Len(t, s.Positions(), 200)

	s.Update(cam, -5)
	assert.Empty(t, s.Positions())

	got := s.ModelMatrix(mgl32.Vec3{1, 1, 1}).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1.01, got[0], 1e-6)
	assert.InDelta(t, 1, got[1], 1e-6)
}

func TestStarFieldKeepsDistantStars(t *testing.T) {
	s := NewStarField(rand.New(rand.NewSource(7)))
	s.Update(mgl32.Vec3{}, 1000)
	before := append([]mgl32.Vec3(nil), s.Positions()...)

	// Nothing is near a camera that jumped far away, so nothing respawns.
	s.Update(mgl32.Vec3{5000, 0, 0}, 1000)
	assert.Equal(t, before, s.Positions())

	// Back at the origin every star inside the keep-out zone is thrown out
	// into the cube again.
	s.Update(mgl32.Vec3{}, 1000)
	changed := 0
	for i, p := range s.Positions() {
		if p != before[i] {
			changed++
		}
	}
	assert.Greater(t, changed, 0)
	assert.Len(t, s.Positions(), 1000)
}

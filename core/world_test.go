package core

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(12, 8, 20)
	require.NoError(t, err)

	specs := []PlanetSpec{
		{Name: "Sun", Center: "Sun", Eccentricity: 1, Mass: 333400, Scale: mgl32.Vec3{1, 1, 1}, Color: [4]float32{1, 0, 0, 1}},
		{Name: "Earth", Center: "Sun", Eccentricity: 0.7, FocalDistance: 100, Mass: 4000, Offset: mgl32.Vec3{100, 0, 0}, Scale: mgl32.Vec3{0.5, 0.5, 0.5}, Color: [4]float32{0, 0, 1, 1}},
		{Name: "Moon", Center: "Earth", Eccentricity: 0.7, FocalDistance: 40, Mass: 1, Offset: mgl32.Vec3{40, 0, 0}, Scale: mgl32.Vec3{0.1, 0.1, 0.1}, Color: [4]float32{1, 1, 1, 1}},
	}
	for _, s := range specs {
		require.NoError(t, w.AddPlanet(s))
	}
	return w
}

func TestNewWorldInvalidSphere(t *testing.T) {
	_, err := NewWorld(1, 1, 20)
	assert.ErrorIs(t, err, ErrInvalidTessellation)
}

func TestWorldAddPlanet(t *testing.T) {
	w := newTestWorld(t)
	assert.Equal(t, 3, w.Len())

	moon, err := w.Body("Moon")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{140, 0, 0}, moon.Position, "offset is relative to the center")

	bodies := w.Bodies()
	names := make([]string, len(bodies))
	for i, b := range bodies {
		names[i] = b.Name
	}
	assert.Equal(t, []string{"Sun", "Earth", "Moon"}, names)

	err = w.AddPlanet(PlanetSpec{Name: "Earth", Center: "Sun"})
	assert.ErrorIs(t, err, ErrDuplicatePlanet)
	assert.Equal(t, 3, w.Len())
}

func TestWorldAddPlanetUnknownCenter(t *testing.T) {
	w, err := NewWorld(4, 3, 1)
	require.NoError(t, err)
	require.NoError(t, w.AddPlanet(PlanetSpec{Name: "Rogue", Center: "Nowhere", Offset: mgl32.Vec3{5, 0, 0}, Mass: 1}))

	b, err := w.Body("Rogue")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, b.Position)

	w.Update(0)
	w.Update(1)
	b, _ = w.Body("Rogue")
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, b.Position)

	c, err := w.TrailCenter("Rogue")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{}, c)
}

func TestWorldUpdate(t *testing.T) {
	w := newTestWorld(t)
	w.Update(0)
	w.Update(0.5)

	sun, _ := w.Body("Sun")
	earth, _ := w.Body("Earth")
	moon, _ := w.Body("Moon")

	assert.Equal(t, mgl32.Vec3{}, sun.Position, "self-centred body stays put")
	assert.NotEqual(t, mgl32.Vec3{100, 0, 0}, earth.Position)

	// The moon stays on its own ellipse around the earth's current position.
	rel := moon.Position.Sub(earth.Position)
	ratio := float32(0.71414284) // sqrt(1 - 0.7^2)
	norm := rel[0]*rel[0]/(40*40) + rel[2]*rel[2]/(40*ratio*40*ratio)
	assert.InDelta(t, 1, norm, 1e-3)

	center, err := w.TrailCenter("Moon")
	require.NoError(t, err)
	assert.Equal(t, earth.Position, center)
}

func TestWorldSetters(t *testing.T) {
	w := newTestWorld(t)
	v := w.TrailVersion("Earth")

	require.NoError(t, w.SetEccentricity("Earth", 0.3))
	assert.Equal(t, v+1, w.TrailVersion("Earth"))

	// Same value: no rebuild.
	require.NoError(t, w.SetEccentricity("Earth", 0.3))
	assert.Equal(t, v+1, w.TrailVersion("Earth"))

	require.NoError(t, w.SetEccentricity("Earth", 5))
	b, _ := w.Body("Earth")
	assert.InDelta(t, MaxEccentricity, b.Eccentricity, 1e-6)

	require.NoError(t, w.SetFocalDistance("Earth", 2000))
	b, _ = w.Body("Earth")
	assert.InDelta(t, MaxFocalDistance, b.FocalDistance, 1e-6)

	trail, version, err := w.Trail("Earth")
	require.NoError(t, err)
	assert.Equal(t, w.TrailVersion("Earth"), version)
	assert.InDelta(t, MaxFocalDistance, trail.Position(0)[0], 1e-3)

	require.NoError(t, w.SetMass("Earth", 0))
	b, _ = w.Body("Earth")
	assert.InDelta(t, MinMass, b.Mass, 1e-6)

	require.NoError(t, w.SetColor("Earth", [4]float32{2, 0.5, -1, 1}))
	b, _ = w.Body("Earth")
	assert.Equal(t, [4]float32{1, 0.5, 0, 1}, b.Color)
}

func TestWorldAddPlanetClamps(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.AddPlanet(PlanetSpec{
		Name: "Comet", Center: "Sun", Eccentricity: 0, FocalDistance: 5000,
		Mass: 0, Scale: mgl32.Vec3{1, 1, 1}, Color: [4]float32{2, 0.5, -1, 1},
	}))

	b, err := w.Body("Comet")
	require.NoError(t, err)
	assert.InDelta(t, MinEccentricity, b.Eccentricity, 1e-6)
	assert.InDelta(t, MaxFocalDistance, b.FocalDistance, 1e-6)
	assert.InDelta(t, MinMass, b.Mass, 1e-6)
	assert.Equal(t, [4]float32{1, 0.5, 0, 1}, b.Color)

	trail, _, err := w.Trail("Comet")
	require.NoError(t, err)
	assert.InDelta(t, MaxFocalDistance, trail.Position(0)[0], 1e-3)

	// Self-centred bodies keep their orbit values.
	sun, err := w.Body("Sun")
	require.NoError(t, err)
	assert.InDelta(t, 1, sun.Eccentricity, 1e-6)
}

func TestWorldUnknownPlanet(t *testing.T) {
	w := newTestWorld(t)

	assert.ErrorIs(t, w.SetEccentricity("Vulcan", 0.5), ErrUnknownPlanet)
	assert.ErrorIs(t, w.SetFocalDistance("Vulcan", 5), ErrUnknownPlanet)
	assert.ErrorIs(t, w.SetMass("Vulcan", 5), ErrUnknownPlanet)
	assert.ErrorIs(t, w.SetColor("Vulcan", [4]float32{}), ErrUnknownPlanet)

	_, err := w.Body("Vulcan")
	assert.ErrorIs(t, err, ErrUnknownPlanet)
	_, _, err = w.Trail("Vulcan")
	assert.ErrorIs(t, err, ErrUnknownPlanet)
	_, err = w.TrailCenter("Vulcan")
	assert.ErrorIs(t, err, ErrUnknownPlanet)
	_, err = w.ModelMatrix("Vulcan")
	assert.ErrorIs(t, err, ErrUnknownPlanet)
	assert.Zero(t, w.TrailVersion("Vulcan"))
}

func TestWorldConcurrentAccess(t *testing.T) {
	w := newTestWorld(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				w.Update(float64(k) * 0.01)
			}
		}()
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				_ = w.Bodies()
				_ = w.SetMass("Earth", float32(k+1))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, w.Len())
}

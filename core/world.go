package core

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// body is a planet plus the orbit it follows.
type body struct {
	name          string
	center        string
	eccentricity  float32
	focalDistance float32
	planet        *Planet
	trail         Mesh
	trailVersion  uint64
}

// World owns every body of the scene, the shared sphere mesh and one trail
// mesh per body. All methods are safe for concurrent use.
type World struct {
	mu     sync.RWMutex
	sphere Mesh
	bodies []*body
	byName map[string]*body
}

// NewWorld creates an empty world whose bodies are all drawn from one sphere
// of the given tessellation and radius.
func NewWorld(horizontal, vertical int, radius float32) (*World, error) {
	sphere, err := GenerateSphereData(horizontal, vertical, radius)
	if err != nil {
		return nil, fmt.Errorf("world sphere: %w", err)
	}
	Logger().Debug("sphere mesh generated",
		"vertices", sphere.VertexCount(), "indices", len(sphere.Indices))
	return &World{sphere: sphere, byName: make(map[string]*body)}, nil
}

// Sphere returns the mesh every body is drawn with.
func (w *World) Sphere() Mesh {
	return w.sphere
}

// AddPlanet adds a body. Its initial position is spec.Offset relative to the
// current position of its center; a center that does not exist yet is
// treated as the origin. A body may name itself as its center, which keeps it
// fixed. Mass and color are clamped like the setters do, and so are the
// eccentricity and focal distance of orbiting bodies.
func (w *World) AddPlanet(spec PlanetSpec) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.byName[spec.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePlanet, spec.Name)
	}

	var center mgl32.Vec3
	if c, ok := w.byName[spec.Center]; ok {
		center = c.planet.Position()
	} else if spec.Center != spec.Name {
		Logger().Warn("center body not found, orbiting the origin",
			"planet", spec.Name, "center", spec.Center)
	}

	e, fd := spec.Eccentricity, spec.FocalDistance
	if spec.Center != spec.Name {
		e = ClampEccentricity(e)
		fd = clamp(fd, MinFocalDistance, MaxFocalDistance)
	}
	color := spec.Color
	for i := range color {
		color[i] = clamp(color[i], 0, 1)
	}

	b := &body{
		name:          spec.Name,
		center:        spec.Center,
		eccentricity:  e,
		focalDistance: fd,
		planet:        NewPlanet(clamp(spec.Mass, MinMass, MaxMass), spec.Offset.Add(center), spec.Scale, color),
		trail:         GenerateTrailData(e, fd),
		trailVersion:  1,
	}
	w.bodies = append(w.bodies, b)
	w.byName[spec.Name] = b

	Logger().Info("planet added", "name", spec.Name, "center", spec.Center,
		"eccentricity", e, "focalDistance", fd)
	return nil
}

// Update advances every orbiting body to time now, in seconds. Bodies are
// visited in insertion order so a moon sees its parent's new position.
func (w *World) Update(now float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, b := range w.bodies {
		if b.center == b.name {
			continue
		}
		c, ok := w.byName[b.center]
		if !ok {
			continue
		}
		b.planet.Update(c.planet.Position(), c.planet.Mass(), b.eccentricity, b.focalDistance, now)
	}
}

// Len returns the number of bodies.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}

// Bodies returns a snapshot of all bodies in insertion order.
func (w *World) Bodies() []BodyState {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]BodyState, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b.state()
	}
	return out
}

// Body returns a snapshot of the named body.
func (w *World) Body(name string) (BodyState, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	b, ok := w.byName[name]
	if !ok {
		return BodyState{}, fmt.Errorf("%w: %q", ErrUnknownPlanet, name)
	}
	return b.state(), nil
}

// ModelMatrix returns the model transform of the named body.
func (w *World) ModelMatrix(name string) (mgl32.Mat4, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	b, ok := w.byName[name]
	if !ok {
		return mgl32.Ident4(), fmt.Errorf("%w: %q", ErrUnknownPlanet, name)
	}
	return b.planet.ModelMatrix(), nil
}

// Trail returns the orbit mesh of the named body and its version. The version
// changes whenever the orbit shape is edited.
func (w *World) Trail(name string) (Mesh, uint64, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	b, ok := w.byName[name]
	if !ok {
		return Mesh{}, 0, fmt.Errorf("%w: %q", ErrUnknownPlanet, name)
	}
	return b.trail, b.trailVersion, nil
}

// TrailVersion returns the current trail version of the named body, or 0.
func (w *World) TrailVersion(name string) uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if b, ok := w.byName[name]; ok {
		return b.trailVersion
	}
	return 0
}

// TrailCenter returns where the trail of the named body is anchored: the
// current position of its center body, or the origin.
func (w *World) TrailCenter(name string) (mgl32.Vec3, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	b, ok := w.byName[name]
	if !ok {
		return mgl32.Vec3{}, fmt.Errorf("%w: %q", ErrUnknownPlanet, name)
	}
	if c, ok := w.byName[b.center]; ok {
		return c.planet.Position(), nil
	}
	return mgl32.Vec3{}, nil
}

// SetEccentricity changes the orbit shape of the named body. The value is
// clamped to [MinEccentricity, MaxEccentricity].
func (w *World) SetEccentricity(name string, e float32) error {
	return w.edit(name, func(b *body) {
		e = ClampEccentricity(e)
		if e == b.eccentricity {
			return
		}
		b.eccentricity = e
		b.rebuildTrail()
	})
}

// SetFocalDistance changes the orbit size of the named body. The value is
// clamped to [MinFocalDistance, MaxFocalDistance].
func (w *World) SetFocalDistance(name string, fd float32) error {
	return w.edit(name, func(b *body) {
		fd = clamp(fd, MinFocalDistance, MaxFocalDistance)
		if fd == b.focalDistance {
			return
		}
		b.focalDistance = fd
		b.rebuildTrail()
	})
}

// SetMass changes the mass of the named body, clamped to [MinMass, MaxMass].
func (w *World) SetMass(name string, mass float32) error {
	return w.edit(name, func(b *body) {
		b.planet.SetMass(clamp(mass, MinMass, MaxMass))
	})
}

// SetColor changes the RGBA color of the named body.
func (w *World) SetColor(name string, color [4]float32) error {
	return w.edit(name, func(b *body) {
		for i := range color {
			color[i] = clamp(color[i], 0, 1)
		}
		b.planet.SetColor(color)
	})
}

func (w *World) edit(name string, fn func(b *body)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlanet, name)
	}
	fn(b)
	return nil
}

func (b *body) rebuildTrail() {
	b.trail = GenerateTrailData(b.eccentricity, b.focalDistance)
	b.trailVersion++
	Logger().Debug("trail rebuilt", "planet", b.name, "version", b.trailVersion)
}

func (b *body) state() BodyState {
	return BodyState{
		Name:          b.name,
		Center:        b.center,
		Eccentricity:  b.eccentricity,
		FocalDistance: b.focalDistance,
		Mass:          b.planet.Mass(),
		Position:      b.planet.Position(),
		Scale:         b.planet.Scale(),
		Color:         b.planet.Color(),
	}
}

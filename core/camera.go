package core

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Direction is a camera movement axis.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

// Initial view of the whole system, looking down at the Sun from above the
// outer orbits.
var DefaultCameraPosition = mgl32.Vec3{-165.291, 233.284, 360.599}

const (
	DefaultPitch = -30.75
	DefaultYaw   = -69.75
	DefaultFOV   = 45.0
	DefaultNear  = 0.1
	DefaultFar   = 1000.0
	maxPitch     = 89.0
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is a free-fly camera described by a position and pitch/yaw angles in
// degrees. It is moved from the controller goroutine and read by the render
// loop, so every method locks.
type Camera struct {
	mu         sync.RWMutex
	position   mgl32.Vec3
	pitch, yaw float32
	fov        float32
	aspect     float32
	near, far  float32
}

// NewCamera creates a camera at pos looking along pitch/yaw.
func NewCamera(pos mgl32.Vec3, pitch, yaw, aspect float32) *Camera {
	return &Camera{
		position: pos,
		pitch:    clamp(pitch, -maxPitch, maxPitch),
		yaw:      yaw,
		fov:      DefaultFOV,
		aspect:   aspect,
		near:     DefaultNear,
		far:      DefaultFar,
	}
}

// SetAspect updates the projection aspect ratio after a resize.
func (c *Camera) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	c.aspect = aspect
	c.mu.Unlock()
}

// SetClip sets the near and far clip planes.
func (c *Camera) SetClip(near, far float32) {
	c.mu.Lock()
	c.near, c.far = near, far
	c.mu.Unlock()
}

func (c *Camera) Position() mgl32.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.position
}

func (c *Camera) Pitch() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pitch
}

func (c *Camera) Yaw() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.yaw
}

// Front returns the unit view direction.
func (c *Camera) Front() mgl32.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return front(c.pitch, c.yaw)
}

// Right returns the unit vector to the right of the view direction.
func (c *Camera) Right() mgl32.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return front(c.pitch, c.yaw).Cross(worldUp).Normalize()
}

// ViewMatrix returns the look-at matrix for the current pose.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return mgl32.LookAtV(c.position, c.position.Add(front(c.pitch, c.yaw)), worldUp)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Move translates the camera by distance along dir. Forward and backward
// follow the view direction projected onto the XZ plane, so only up and down
// change the altitude. Left and right follow the horizontal right vector.
func (c *Camera) Move(dir Direction, distance float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := front(c.pitch, c.yaw)
	r := f.Cross(worldUp).Normalize()
	level := worldUp.Cross(r).Normalize()
	switch dir {
	case Forward:
		c.position = c.position.Add(level.Mul(distance))
	case Backward:
		c.position = c.position.Sub(level.Mul(distance))
	case Right:
		c.position = c.position.Add(r.Mul(distance))
	case Left:
		c.position = c.position.Sub(r.Mul(distance))
	case Up:
		c.position = c.position.Add(worldUp.Mul(distance))
	case Down:
		c.position = c.position.Sub(worldUp.Mul(distance))
	}
}

// Rotate turns the camera by a mouse delta in pixels. Moving the mouse up
// (negative dy) looks up. Pitch is clamped short of straight up or down.
func (c *Camera) Rotate(dx, dy, sensitivity float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.yaw += dx * sensitivity
	c.pitch = clamp(c.pitch-dy*sensitivity, -maxPitch, maxPitch)
}

func front(pitch, yaw float32) mgl32.Vec3 {
	p := mgl32.DegToRad(pitch)
	y := mgl32.DegToRad(yaw)
	return mgl32.Vec3{
		math32.Cos(p) * math32.Cos(y),
		math32.Sin(p),
		math32.Cos(p) * math32.Sin(y),
	}.Normalize()
}

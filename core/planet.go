package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Planet is one body of the scene: a transform, a color and a mass. Its
// position is advanced along an ellipse around a center body by Update.
type Planet struct {
	position mgl32.Vec3
	scale    mgl32.Vec3
	color    [4]float32
	mass     float32

	angle    float32 // degrees travelled along the orbit
	lastTime float64
	started  bool
}

// NewPlanet creates a body at pos.
func NewPlanet(mass float32, pos, scale mgl32.Vec3, color [4]float32) *Planet {
	return &Planet{position: pos, scale: scale, color: color, mass: mass}
}

// Update moves the planet along its orbit around center.
//
// The angular velocity comes from a toy centripetal force
// F = G*M*m/d^2, w = sqrt(F/(m*d)), measured in degrees per second and
// integrated over the wall-clock time since the previous call. The very first
// call only records now.
func (p *Planet) Update(center mgl32.Vec3, centerMass, eccentricity, focalDistance float32, now float64) {
	distance := p.position.Sub(center).Len()
	if distance == 0 || p.mass == 0 {
		return
	}
	force := gravityConstant * centerMass * p.mass / (distance * distance)
	angularVelocity := math32.Sqrt(force / (p.mass * distance))

	if !p.started {
		p.lastTime = now
		p.started = true
	}
	p.angle += float32(now-p.lastTime) * angularVelocity
	p.lastTime = now

	p.position = center.Add(OrbitPoint(p.angle, eccentricity, focalDistance))
}

// Angle returns how far along its orbit the planet is, in degrees.
func (p *Planet) Angle() float32 { return p.angle }

func (p *Planet) MoveTo(pos mgl32.Vec3)     { p.position = pos }
func (p *Planet) SetScale(scale mgl32.Vec3) { p.scale = scale }
func (p *Planet) SetColor(color [4]float32) { p.color = color }
func (p *Planet) SetMass(mass float32)      { p.mass = mass }
func (p *Planet) Position() mgl32.Vec3      { return p.position }
func (p *Planet) Scale() mgl32.Vec3         { return p.scale }
func (p *Planet) Color() [4]float32         { return p.color }
func (p *Planet) Mass() float32             { return p.mass }

// ModelMatrix returns translate(position) * scale(scale).
func (p *Planet) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(p.position[0], p.position[1], p.position[2]).
		Mul4(mgl32.Scale3D(p.scale[0], p.scale[1], p.scale[2]))
}

package opengl

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"solarsystem/control"
	"solarsystem/core"
)

// Stars are drawn from a coarse sphere; at their size the tessellation of
// the planet mesh is invisible.
const (
	starHorizontal = 8
	starVertical   = 6
)

var (
	lightColor = mgl32.Vec3{1, 1, 1}
	starColor  = [4]float32{1, 1, 1, 1}
)

// Options selects the optional parts of the scene.
type Options struct {
	Trails bool
	Stars  bool
}

type trail struct {
	va      *VertexArray
	version uint64
}

// Renderer owns the window, the scene shader and the GPU copies of every
// mesh the world uses.
type Renderer struct {
	window *glfw.Window

	shader *Shader
	sphere *VertexArray
	star   *VertexArray
	trails map[string]*trail

	width, height int // framebuffer size

	onResize func(width, height int)
	onCursor func(x, y float64)
}

// NewRenderer opens a window with an OpenGL 4.1 core context. It locks the
// calling goroutine to its OS thread; every other method must be called from
// the same goroutine.
func NewRenderer(width, height int, title string, vsync bool) (*Renderer, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()

	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	core.Logger().Info("OpenGL context ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	shader, err := NewShader(sceneVertexShader, sceneFragmentShader)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to compile scene shader: %w", err)
	}

	r := &Renderer{
		window: window,
		shader: shader,
		trails: make(map[string]*trail),
	}
	r.width, r.height = window.GetFramebufferSize()

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		r.width, r.height = width, height
		if r.onResize != nil {
			r.onResize(width, height)
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if r.onCursor != nil {
			r.onCursor(xpos, ypos)
		}
	})

	return r, nil
}

// LoadSphere uploads the mesh every body is drawn with and derives the star
// mesh from its radius.
func (r *Renderer) LoadSphere(sphere core.Mesh) error {
	_, max := sphere.Bounds()
	star, err := core.GenerateSphereData(starHorizontal, starVertical, max[1])
	if err != nil {
		return fmt.Errorf("star mesh: %w", err)
	}
	if r.sphere != nil {
		r.sphere.Delete()
		r.star.Delete()
	}
	r.sphere = NewVertexArray(sphere, PositionNormal)
	r.star = NewVertexArray(star, PositionNormal)
	return nil
}

// Window returns the GLFW window, e.g. for the overlay platform.
func (r *Renderer) Window() *glfw.Window {
	return r.window
}

// OnResize registers fn to be called with the new framebuffer size.
func (r *Renderer) OnResize(fn func(width, height int)) {
	r.onResize = fn
}

// OnCursor registers fn to be called with every cursor position.
func (r *Renderer) OnCursor(fn func(x, y float64)) {
	r.onCursor = fn
}

// FramebufferSize returns the drawable size in pixels.
func (r *Renderer) FramebufferSize() (int, int) {
	return r.width, r.height
}

// Aspect returns the framebuffer aspect ratio, or 0 while minimized.
func (r *Renderer) Aspect() float32 {
	if r.height == 0 {
		return 0
	}
	return float32(r.width) / float32(r.height)
}

// SetCursorCaptured hides and locks the cursor for free look, or releases
// it for the menu.
func (r *Renderer) SetCursorCaptured(captured bool) {
	mode := glfw.CursorNormal
	if captured {
		mode = glfw.CursorDisabled
	}
	r.window.SetInputMode(glfw.CursorMode, mode)
}

// HeldKeys reports the movement keys currently down.
func (r *Renderer) HeldKeys() control.KeySet {
	var keys control.KeySet
	for _, b := range keyBindings {
		for _, k := range b.keys {
			if r.window.GetKey(k) == glfw.Press {
				keys = keys.With(b.key)
				break
			}
		}
	}
	return keys
}

// KeyDown reports whether k is held.
func (r *Renderer) KeyDown(k glfw.Key) bool {
	return r.window.GetKey(k) == glfw.Press
}

func (r *Renderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

func (r *Renderer) SetShouldClose(v bool) {
	r.window.SetShouldClose(v)
}

func (r *Renderer) PollEvents() {
	glfw.PollEvents()
}

func (r *Renderer) SwapBuffers() {
	r.window.SwapBuffers()
}

// Time returns seconds since the window system was initialized.
func (r *Renderer) Time() float64 {
	return glfw.GetTime()
}

// BeginFrame clears the framebuffer.
func (r *Renderer) BeginFrame() {
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.Enable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawScene draws every body of world lit from the origin, their trails and
// the star field as seen by camera. stars may be nil.
func (r *Renderer) DrawScene(world *core.World, camera *core.Camera, stars *core.StarField, opts Options) {
	if r.sphere == nil {
		return
	}
	if err := gl.GetError(); err != gl.NO_ERROR {
		core.Logger().Warn("OpenGL error before scene", "code", fmt.Sprintf("0x%x", err))
	}

	s := r.shader
	s.Use()
	s.SetMat4("u_view", camera.ViewMatrix())
	s.SetMat4("u_projection", camera.ProjectionMatrix())
	s.SetVec3("u_lightPos", mgl32.Vec3{})
	s.SetVec3("u_lightColor", lightColor)
	s.SetVec3("u_viewPos", camera.Position())

	bodies := world.Bodies()
	for _, b := range bodies {
		model, err := world.ModelMatrix(b.Name)
		if err != nil {
			continue
		}
		// A body orbiting itself is a light source and is drawn unlit.
		s.SetBool("u_shouldEnableLighting", b.Center != b.Name)
		s.SetVec4("u_color", b.Color)
		s.SetMat4("u_model", model)
		r.drawMesh(r.sphere, gl.TRIANGLES, gl.FILL)
	}

	s.SetBool("u_shouldEnableLighting", false)

	if opts.Trails {
		for _, b := range bodies {
			if b.Center == b.Name {
				continue
			}
			t := r.trail(world, b.Name)
			if t == nil {
				continue
			}
			center, err := world.TrailCenter(b.Name)
			if err != nil {
				continue
			}
			s.SetVec4("u_color", b.Color)
			s.SetMat4("u_model", mgl32.Translate3D(center[0], center[1], center[2]))
			r.drawMesh(t.va, gl.LINES, gl.FILL)
		}
	}

	if opts.Stars && stars != nil {
		s.SetVec4("u_color", starColor)
		for _, p := range stars.Positions() {
			s.SetMat4("u_model", stars.ModelMatrix(p))
			r.drawMesh(r.star, gl.TRIANGLES, gl.FILL)
		}
	}
}

// trail returns the GPU copy of a body's orbit, uploading it again when the
// orbit changed since the last frame.
func (r *Renderer) trail(world *core.World, name string) *trail {
	version := world.TrailVersion(name)
	if t, ok := r.trails[name]; ok && t.version == version {
		return t
	}

	mesh, version, err := world.Trail(name)
	if err != nil {
		return nil
	}
	t, ok := r.trails[name]
	if !ok {
		t = &trail{va: NewVertexArray(mesh, PositionNormal)}
		r.trails[name] = t
	} else {
		t.va.Upload(mesh)
	}
	t.version = version
	core.Logger().Debug("trail uploaded", "planet", name, "version", version)
	return t
}

func (r *Renderer) drawMesh(va *VertexArray, primitive, fill uint32) {
	gl.PolygonMode(gl.FRONT_AND_BACK, fill)
	va.Draw(primitive)
}

// Terminate releases GPU resources and closes the window.
func (r *Renderer) Terminate() {
	for _, t := range r.trails {
		t.va.Delete()
	}
	if r.sphere != nil {
		r.sphere.Delete()
		r.star.Delete()
	}
	r.shader.Delete()
	r.window.Destroy()
	glfw.Terminate()
}

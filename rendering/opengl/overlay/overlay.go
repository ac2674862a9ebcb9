package overlay

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"

	"solarsystem/core"
)

// State holds the values the menu edits. The caller reads them back after
// every frame.
type State struct {
	ShowMenu   bool
	ShowStats  bool
	ShowNames  bool
	ShowTrails bool
	ShowStars  bool
	StarCount  int32
}

var white = imgui.PackedColorFromVec4(imgui.Vec4{X: 1, Y: 1, Z: 1, W: 1})

// Overlay is the imgui layer drawn over the scene: the menu window and the
// text readouts.
type Overlay struct {
	State

	context  *imgui.Context
	io       imgui.IO
	platform *Platform
	renderer *OpenGL3

	fps float32
}

// New creates the imgui context for window. The window's GL context must be
// current.
func New(window *glfw.Window, state State) (*Overlay, error) {
	context := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	io.SetIniFilename("")
	imgui.StyleColorsDark()

	renderer, err := NewOpenGL3(io)
	if err != nil {
		context.Destroy()
		return nil, fmt.Errorf("imgui renderer: %w", err)
	}

	return &Overlay{
		State:    state,
		context:  context,
		io:       io,
		platform: NewPlatform(io, window),
		renderer: renderer,
	}, nil
}

// WantsMouse reports whether imgui is using the mouse this frame.
func (o *Overlay) WantsMouse() bool {
	return o.io.WantCaptureMouse()
}

// Frame builds and draws one overlay frame for world as seen by camera.
func (o *Overlay) Frame(world *core.World, camera *core.Camera, dt float32) {
	o.platform.NewFrame()
	imgui.NewFrame()

	if dt > 0 {
		// Exponential moving average keeps the readout steady.
		o.fps += (1/dt - o.fps) * 0.1
	}

	display := o.platform.DisplaySize()
	bodies := world.Bodies()
	draw := imgui.BackgroundDrawList()

	if o.ShowStats {
		for _, l := range core.StatsLabels(camera.Position(), camera.Pitch(), camera.Yaw(), bodies) {
			draw.AddText(imgui.Vec2{X: l.X, Y: l.Y}, white, l.Text)
		}
	}
	if o.ShowNames {
		for _, l := range core.NameLabels(camera.ViewProjection(), bodies, int(display[0]), int(display[1])) {
			draw.AddText(imgui.Vec2{X: l.X, Y: l.Y}, white, l.Text)
		}
	}
	draw.AddText(imgui.Vec2{X: 20, Y: display[1] - 30}, white,
		fmt.Sprintf("A basic solar system. %.0f fps. Press [INSERT] for the menu.", o.fps))

	if o.ShowMenu {
		o.menu(world, bodies)
	}

	imgui.Render()
	o.renderer.Render(display, o.platform.FramebufferSize(), imgui.RenderedDrawData())
}

// Destroy releases the renderer and the imgui context.
func (o *Overlay) Destroy() {
	o.renderer.Destroy()
	o.context.Destroy()
}

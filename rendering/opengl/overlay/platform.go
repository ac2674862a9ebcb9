package overlay

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
)

var glfwButtonIndexByID = map[glfw.MouseButton]int{
	glfw.MouseButton1: 0,
	glfw.MouseButton2: 1,
	glfw.MouseButton3: 2,
}

var glfwButtonIDByIndex = map[int]glfw.MouseButton{
	0: glfw.MouseButton1,
	1: glfw.MouseButton2,
	2: glfw.MouseButton3,
}

// Platform feeds window input into imgui. It shares a window the scene
// renderer created instead of opening its own.
type Platform struct {
	io     imgui.IO
	window *glfw.Window

	time             float64
	mouseJustPressed [3]bool
}

// NewPlatform installs the imgui input callbacks on window.
func NewPlatform(io imgui.IO, window *glfw.Window) *Platform {
	p := &Platform{io: io, window: window}
	p.setKeyMapping()
	p.installCallbacks()
	return p
}

// DisplaySize returns the window size in screen coordinates.
func (p *Platform) DisplaySize() [2]float32 {
	w, h := p.window.GetSize()
	return [2]float32{float32(w), float32(h)}
}

// FramebufferSize returns the drawable size in pixels.
func (p *Platform) FramebufferSize() [2]float32 {
	w, h := p.window.GetFramebufferSize()
	return [2]float32{float32(w), float32(h)}
}

// NewFrame updates the display size, the time step and the mouse state.
func (p *Platform) NewFrame() {
	size := p.DisplaySize()
	p.io.SetDisplaySize(imgui.Vec2{X: size[0], Y: size[1]})

	now := glfw.GetTime()
	if p.time > 0 {
		p.io.SetDeltaTime(float32(now - p.time))
	}
	p.time = now

	if p.window.GetAttrib(glfw.Focused) != 0 && p.window.GetInputMode(glfw.CursorMode) == glfw.CursorNormal {
		x, y := p.window.GetCursorPos()
		p.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	} else {
		p.io.SetMousePosition(imgui.Vec2{X: -math.MaxFloat32, Y: -math.MaxFloat32})
	}

	for i := 0; i < len(p.mouseJustPressed); i++ {
		down := p.mouseJustPressed[i] || (p.window.GetMouseButton(glfwButtonIDByIndex[i]) == glfw.Press)
		p.io.SetMouseButtonDown(i, down)
		p.mouseJustPressed[i] = false
	}
}

func (p *Platform) setKeyMapping() {
	p.io.KeyMap(imgui.KeyTab, int(glfw.KeyTab))
	p.io.KeyMap(imgui.KeyLeftArrow, int(glfw.KeyLeft))
	p.io.KeyMap(imgui.KeyRightArrow, int(glfw.KeyRight))
	p.io.KeyMap(imgui.KeyUpArrow, int(glfw.KeyUp))
	p.io.KeyMap(imgui.KeyDownArrow, int(glfw.KeyDown))
	p.io.KeyMap(imgui.KeyPageUp, int(glfw.KeyPageUp))
	p.io.KeyMap(imgui.KeyPageDown, int(glfw.KeyPageDown))
	p.io.KeyMap(imgui.KeyHome, int(glfw.KeyHome))
	p.io.KeyMap(imgui.KeyEnd, int(glfw.KeyEnd))
	p.io.KeyMap(imgui.KeyInsert, int(glfw.KeyInsert))
	p.io.KeyMap(imgui.KeyDelete, int(glfw.KeyDelete))
	p.io.KeyMap(imgui.KeyBackspace, int(glfw.KeyBackspace))
	p.io.KeyMap(imgui.KeySpace, int(glfw.KeySpace))
	p.io.KeyMap(imgui.KeyEnter, int(glfw.KeyEnter))
	p.io.KeyMap(imgui.KeyEscape, int(glfw.KeyEscape))
	p.io.KeyMap(imgui.KeyA, int(glfw.KeyA))
	p.io.KeyMap(imgui.KeyC, int(glfw.KeyC))
	p.io.KeyMap(imgui.KeyV, int(glfw.KeyV))
	p.io.KeyMap(imgui.KeyX, int(glfw.KeyX))
	p.io.KeyMap(imgui.KeyY, int(glfw.KeyY))
	p.io.KeyMap(imgui.KeyZ, int(glfw.KeyZ))
}

func (p *Platform) installCallbacks() {
	p.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if i, ok := glfwButtonIndexByID[button]; ok && action == glfw.Press {
			p.mouseJustPressed[i] = true
		}
	})
	p.window.SetScrollCallback(func(w *glfw.Window, x, y float64) {
		p.io.AddMouseWheelDelta(float32(x), float32(y))
	})
	p.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press {
			p.io.KeyPress(int(key))
		}
		if action == glfw.Release {
			p.io.KeyRelease(int(key))
		}
		p.io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
		p.io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
		p.io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
		p.io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
	})
	p.window.SetCharCallback(func(w *glfw.Window, char rune) {
		p.io.AddInputCharacters(string(char))
	})
}

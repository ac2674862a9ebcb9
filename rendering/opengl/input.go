package opengl

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"solarsystem/control"
)

// MenuKey toggles the overlay menu.
const MenuKey = glfw.KeyInsert

var keyBindings = []struct {
	key  control.Key
	keys []glfw.Key
}{
	{control.KeyForward, []glfw.Key{glfw.KeyW}},
	{control.KeyBackward, []glfw.Key{glfw.KeyS}},
	{control.KeyLeft, []glfw.Key{glfw.KeyA}},
	{control.KeyRight, []glfw.Key{glfw.KeyD}},
	{control.KeyUp, []glfw.Key{glfw.KeySpace}},
	{control.KeyDown, []glfw.Key{glfw.KeyLeftControl, glfw.KeyRightControl}},
}

package overlay

import (
	"github.com/inkyblackness/imgui-go/v4"

	"solarsystem/core"
)

const sliderWidth = 75

var keyHelp = []string{
	"Keybinds for this demo system (controllers only work when the menu is closed):",
	"Press [INSERT] to open/close menu",
	"Hold [W][A][S][D] to move forward/left/backward/right",
	"Hold [SPACE][CTRL] to move up/down",
	"Move mouse to look around.",
}

func (o *Overlay) menu(world *core.World, bodies []core.BodyState) {
	imgui.SetNextWindowSizeV(imgui.Vec2{X: 570, Y: 480}, imgui.ConditionFirstUseEver)
	if imgui.BeginV("Menu(Readme)", nil, imgui.WindowFlagsNoCollapse|imgui.WindowFlagsNoResize) {
		for _, line := range keyHelp {
			imgui.Text(line)
		}

		imgui.Checkbox("Render basic stats", &o.ShowStats)
		imgui.SameLine()
		imgui.Checkbox("Render planet names", &o.ShowNames)
		imgui.SameLine()
		imgui.Checkbox("Show trails", &o.ShowTrails)
		imgui.SameLine()
		imgui.Checkbox("Galaxy skybox", &o.ShowStars)
		if o.ShowStars {
			imgui.SliderInt("Star count", &o.StarCount, core.MinStars, core.MaxStars)
		}

		imgui.BeginChildV("planet edit", imgui.Vec2{}, true, 0)
		for _, b := range bodies {
			editBody(world, b)
		}
		imgui.EndChild()
	}
	imgui.End()
}

// editBody draws the sliders of one body and writes changes back through the
// world setters, which clamp them.
func editBody(world *core.World, b core.BodyState) {
	imgui.PushID(b.Name)
	defer imgui.PopID()

	imgui.Text(b.Name + ": ")
	imgui.SameLine()

	imgui.PushItemWidth(sliderWidth)
	e, fd, mass := b.Eccentricity, b.FocalDistance, b.Mass
	if imgui.SliderFloatV("Eccentricity", &e, core.MinEccentricity, core.MaxEccentricity, "%.2f", imgui.SliderFlagsNone) {
		world.SetEccentricity(b.Name, e)
	}
	imgui.SameLine()
	if imgui.SliderFloatV("Focal distance", &fd, core.MinFocalDistance, core.MaxFocalDistance, "%.2f", imgui.SliderFlagsNone) {
		world.SetFocalDistance(b.Name, fd)
	}
	imgui.SameLine()
	if imgui.SliderFloatV("Mass", &mass, core.MinMass, core.MaxMass, "%.2f", imgui.SliderFlagsNone) {
		world.SetMass(b.Name, mass)
	}
	imgui.PopItemWidth()

	color := b.Color
	if imgui.ColorEdit4("Color", &color) {
		world.SetColor(b.Name, color)
	}
}

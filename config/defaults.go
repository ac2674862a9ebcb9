package config

import (
	"github.com/lucasb-eyer/go-colorful"

	"solarsystem/core"
)

// Default returns the stock scene: the Sun, eight planets, Pluto and three
// moons, seen from above the outer orbits.
func Default() Settings {
	pos := core.DefaultCameraPosition
	return Settings{
		Window: WindowSettings{
			Width:  1280,
			Height: 720,
			Title:  "Solar System",
			VSync:  true,
		},
		Camera: CameraSettings{
			Position:    [3]float32{pos[0], pos[1], pos[2]},
			Pitch:       core.DefaultPitch,
			Yaw:         core.DefaultYaw,
			Near:        core.DefaultNear,
			Far:         core.DefaultFar,
			Speed:       25,
			Sensitivity: 0.25,
			TickMs:      10,
		},
		World: WorldSettings{
			SphereHorizontal: 50,
			SphereVertical:   50,
			SphereRadius:     20,
		},
		Stars: StarSettings{
			Enabled: true,
			Count:   core.DefaultStars,
			Seed:    1,
		},
		Overlay: OverlaySettings{
			ShowMenu:   true,
			ShowStats:  true,
			ShowNames:  true,
			ShowTrails: true,
		},
		Server: ServerSettings{
			Enabled:          false,
			Addr:             "localhost:8080",
			UpdateIntervalMs: 100,
		},
		Bodies: DefaultBodies(),
	}
}

func rgb(r, g, b float64) string {
	return colorful.Color{R: r, G: g, B: b}.Hex()
}

// DefaultBodies is the stock solar system. Masses, eccentricities and
// distances are tuned for looks, not astronomy.
func DefaultBodies() []BodySettings {
	saturn := rgb(0.89, 0.71, 0.49)
	return []BodySettings{
		{Name: "Sun", Center: "Sun", Eccentricity: 1, FocalDistance: 0, Mass: 333400, Scale: 1, Color: rgb(1, 0, 0)},
		{Name: "Mercury", Center: "Sun", Eccentricity: 0.6, FocalDistance: 30, Mass: 1, Scale: 0.2, Color: rgb(0.75, 0.45, 0.13)},
		{Name: "Venus", Center: "Sun", Eccentricity: 0.65, FocalDistance: 60, Mass: 1, Scale: 0.3, Color: rgb(0.55, 0.44, 0.27)},
		{Name: "Earth", Center: "Sun", Eccentricity: 0.7, FocalDistance: 100, Mass: 4000, Scale: 0.5, Color: rgb(0, 0, 1)},
		{Name: "Mars", Center: "Sun", Eccentricity: 0.72, FocalDistance: 140, Mass: 1, Scale: 0.28, Color: rgb(0.73, 0.33, 0.23)},
		{Name: "Jupiter", Center: "Sun", Eccentricity: 0.75, FocalDistance: 170, Mass: 3000, Scale: 0.7, Color: rgb(0.57, 0.40, 0.25)},
		{Name: "Saturn", Center: "Sun", Eccentricity: 0.79, FocalDistance: 200, Mass: 3000, Scale: 0.65, Color: saturn},
		{Name: "Uranus", Center: "Sun", Eccentricity: 0.81, FocalDistance: 230, Mass: 1, Scale: 0.38, Color: rgb(0.16, 0.75, 0.93)},
		{Name: "Neptune", Center: "Sun", Eccentricity: 0.83, FocalDistance: 260, Mass: 1, Scale: 0.38, Color: rgb(0.16, 0.75, 0.93)},
		{Name: "Pluto", Center: "Sun", Eccentricity: 0.85, FocalDistance: 300, Mass: 1, Scale: 0.2, Color: rgb(0.46, 0.67, 0.71)},
		{Name: "Moon", Center: "Earth", Eccentricity: 0.7, FocalDistance: 40, Mass: 1, Scale: 0.1, Color: rgb(1, 1, 1)},
		{Name: "Ganymede", Center: "Jupiter", Eccentricity: 0.6, FocalDistance: 50, Mass: 1, Scale: 0.1, Color: rgb(0.21, 0.22, 0.17), Offset: [3]float32{40, 0, 0}},
		{Name: "Titan", Center: "Saturn", Eccentricity: 0.6, FocalDistance: 50, Mass: 1, Scale: 0.1, Color: saturn, Offset: [3]float32{40, 0, 0}},
	}
}

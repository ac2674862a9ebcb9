package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"solarsystem/core"
)

// DefaultPath is read when no settings file is given.
const DefaultPath = "settings.json"

// ErrInvalidSettings wraps every validation problem reported by Validate.
var ErrInvalidSettings = errors.New("invalid settings")

type Settings struct {
	Window  WindowSettings  `json:"window" toml:"window" yaml:"window"`
	Camera  CameraSettings  `json:"camera" toml:"camera" yaml:"camera"`
	World   WorldSettings   `json:"world" toml:"world" yaml:"world"`
	Stars   StarSettings    `json:"stars" toml:"stars" yaml:"stars"`
	Overlay OverlaySettings `json:"overlay" toml:"overlay" yaml:"overlay"`
	Server  ServerSettings  `json:"server" toml:"server" yaml:"server"`
	Bodies  []BodySettings  `json:"bodies" toml:"bodies" yaml:"bodies"`
}

type WindowSettings struct {
	Width  int    `json:"width" toml:"width" yaml:"width"`
	Height int    `json:"height" toml:"height" yaml:"height"`
	Title  string `json:"title" toml:"title" yaml:"title"`
	VSync  bool   `json:"vsync" toml:"vsync" yaml:"vsync"`
}

type CameraSettings struct {
	Position    [3]float32 `json:"position" toml:"position" yaml:"position"`
	Pitch       float32    `json:"pitch" toml:"pitch" yaml:"pitch"`
	Yaw         float32    `json:"yaw" toml:"yaw" yaml:"yaw"`
	Near        float32    `json:"near" toml:"near" yaml:"near"`
	Far         float32    `json:"far" toml:"far" yaml:"far"`
	Speed       float32    `json:"speed" toml:"speed" yaml:"speed"`
	Sensitivity float32    `json:"sensitivity" toml:"sensitivity" yaml:"sensitivity"`
	TickMs      int        `json:"tickMs" toml:"tickMs" yaml:"tickMs"`
}

// WorldSettings controls the sphere every body is drawn with.
type WorldSettings struct {
	SphereHorizontal int     `json:"sphereHorizontal" toml:"sphereHorizontal" yaml:"sphereHorizontal"`
	SphereVertical   int     `json:"sphereVertical" toml:"sphereVertical" yaml:"sphereVertical"`
	SphereRadius     float32 `json:"sphereRadius" toml:"sphereRadius" yaml:"sphereRadius"`
}

type StarSettings struct {
	Enabled bool  `json:"enabled" toml:"enabled" yaml:"enabled"`
	Count   int   `json:"count" toml:"count" yaml:"count"`
	Seed    int64 `json:"seed" toml:"seed" yaml:"seed"`
}

// OverlaySettings are the initial states of the menu checkboxes.
type OverlaySettings struct {
	ShowMenu   bool `json:"showMenu" toml:"showMenu" yaml:"showMenu"`
	ShowStats  bool `json:"showStats" toml:"showStats" yaml:"showStats"`
	ShowNames  bool `json:"showNames" toml:"showNames" yaml:"showNames"`
	ShowTrails bool `json:"showTrails" toml:"showTrails" yaml:"showTrails"`
}

type ServerSettings struct {
	Enabled          bool   `json:"enabled" toml:"enabled" yaml:"enabled"`
	Addr             string `json:"addr" toml:"addr" yaml:"addr"`
	UpdateIntervalMs int    `json:"updateIntervalMs" toml:"updateIntervalMs" yaml:"updateIntervalMs"`
}

// BodySettings describes one body. Bodies are added in order, so a center
// must appear before the bodies orbiting it. Offset is the starting position
// relative to the center and defaults to (focalDistance, 0, 0).
type BodySettings struct {
	Name          string     `json:"name" toml:"name" yaml:"name"`
	Center        string     `json:"center" toml:"center" yaml:"center"`
	Eccentricity  float32    `json:"eccentricity" toml:"eccentricity" yaml:"eccentricity"`
	FocalDistance float32    `json:"focalDistance" toml:"focalDistance" yaml:"focalDistance"`
	Mass          float32    `json:"mass" toml:"mass" yaml:"mass"`
	Scale         float32    `json:"scale" toml:"scale" yaml:"scale"`
	Color         string     `json:"color" toml:"color" yaml:"color"`
	Offset        [3]float32 `json:"offset,omitempty" toml:"offset,omitempty" yaml:"offset,omitempty"`
}

// Load reads settings from path, or DefaultPath when path is empty. JSON,
// TOML and YAML files are accepted, chosen by extension, and a leading ~ is
// expanded. A missing file yields the defaults. The result is validated.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		path = DefaultPath
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return s, fmt.Errorf("settings path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			core.Logger().Info("no settings file found, using defaults", "path", path)
			return s, nil
		}
		return s, fmt.Errorf("read settings: %w", err)
	}

	// Bodies given in the file replace the default system instead of being
	// merged into it.
	s.Bodies = nil
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return s, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if len(s.Bodies) == 0 {
		s.Bodies = DefaultBodies()
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	core.Logger().Info("loaded settings", "path", path, "bodies", len(s.Bodies),
		"sphere", fmt.Sprintf("%dx%d", s.World.SphereHorizontal, s.World.SphereVertical))
	return s, nil
}

// EncodeTOML renders s as TOML, e.g. to seed a settings file.
func (s Settings) EncodeTOML() ([]byte, error) {
	return toml.Marshal(s)
}

// Validate reports every problem found, joined, each wrapping
// ErrInvalidSettings.
func (s Settings) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidSettings}, args...)...))
	}

	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		bad("window size %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.World.SphereHorizontal < 3 || s.World.SphereVertical < 2 {
		bad("sphere tessellation %dx%d", s.World.SphereHorizontal, s.World.SphereVertical)
	}
	if s.World.SphereRadius <= 0 {
		bad("sphere radius %g", s.World.SphereRadius)
	}
	if s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near {
		bad("camera clip planes near=%g far=%g", s.Camera.Near, s.Camera.Far)
	}
	if s.Camera.Speed < 0 || s.Camera.Sensitivity < 0 {
		bad("camera speed %g sensitivity %g", s.Camera.Speed, s.Camera.Sensitivity)
	}
	if s.Stars.Count < core.MinStars || s.Stars.Count > core.MaxStars {
		bad("star count %d outside [%d, %d]", s.Stars.Count, core.MinStars, core.MaxStars)
	}
	if s.Server.Enabled {
		if s.Server.Addr == "" {
			bad("server address is empty")
		}
		if s.Server.UpdateIntervalMs <= 0 {
			bad("server update interval %dms", s.Server.UpdateIntervalMs)
		}
	}

	seen := make(map[string]bool, len(s.Bodies))
	for i, b := range s.Bodies {
		if b.Name == "" {
			bad("body %d has no name", i)
			continue
		}
		if seen[b.Name] {
			bad("body %q defined twice", b.Name)
		}
		if b.Center != b.Name && !seen[b.Center] {
			bad("body %q orbits %q which is not defined before it", b.Name, b.Center)
		}
		seen[b.Name] = true

		if b.Eccentricity < 0 || b.Eccentricity > 1 {
			bad("body %q eccentricity %g outside [0, 1]", b.Name, b.Eccentricity)
		}
		if b.FocalDistance < core.MinFocalDistance || b.FocalDistance > core.MaxFocalDistance {
			bad("body %q focal distance %g outside [%g, %g]", b.Name, b.FocalDistance,
				core.MinFocalDistance, core.MaxFocalDistance)
		}
		if b.Mass < 0 {
			bad("body %q mass %g", b.Name, b.Mass)
		}
		if b.Scale <= 0 {
			bad("body %q scale %g", b.Name, b.Scale)
		}
		if _, err := ParseColor(b.Color); err != nil {
			bad("body %q: %v", b.Name, err)
		}
	}

	return errors.Join(errs...)
}

// PlanetSpecs converts the configured bodies for core.World.AddPlanet.
func (s Settings) PlanetSpecs() ([]core.PlanetSpec, error) {
	specs := make([]core.PlanetSpec, 0, len(s.Bodies))
	for _, b := range s.Bodies {
		color, err := ParseColor(b.Color)
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", b.Name, err)
		}
		offset := mgl32.Vec3(b.Offset)
		if offset == (mgl32.Vec3{}) {
			offset = mgl32.Vec3{b.FocalDistance, 0, 0}
		}
		specs = append(specs, core.PlanetSpec{
			Name:          b.Name,
			Center:        b.Center,
			Eccentricity:  b.Eccentricity,
			FocalDistance: b.FocalDistance,
			Mass:          b.Mass,
			Offset:        offset,
			Scale:         mgl32.Vec3{b.Scale, b.Scale, b.Scale},
			Color:         color,
		})
	}
	return specs, nil
}

// NewWorld creates the world the settings describe: the shared sphere mesh
// and every configured body, in order.
func (s Settings) NewWorld() (*core.World, error) {
	world, err := core.NewWorld(s.World.SphereHorizontal, s.World.SphereVertical, s.World.SphereRadius)
	if err != nil {
		return nil, err
	}
	specs, err := s.PlanetSpecs()
	if err != nil {
		return nil, err
	}
	for _, spec := range specs {
		if err := world.AddPlanet(spec); err != nil {
			return nil, err
		}
	}
	return world, nil
}

// ParseColor accepts "#rgb", "#rrggbb" and "#rrggbbaa" and returns RGBA in
// [0, 1]. Alpha defaults to 1.
func ParseColor(s string) ([4]float32, error) {
	alpha := 1.0
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return [4]float32{}, fmt.Errorf("color %q: bad alpha: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return [4]float32{}, fmt.Errorf("color %q: %w", s, err)
	}
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(alpha)}, nil
}

// FormatColor is the inverse of ParseColor. Opaque colors drop the alpha
// byte.
func FormatColor(c [4]float32) string {
	hex := colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Clamped().Hex()
	if c[3] >= 1 {
		return hex
	}
	a := c[3]
	if a < 0 {
		a = 0
	}
	return fmt.Sprintf("%s%02x", hex, uint8(a*255+0.5))
}

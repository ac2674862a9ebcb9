package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarsystem/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Len(t, s.Bodies, 13)
	assert.Equal(t, "Sun", s.Bodies[0].Name)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "settings.json", `{
		"window": {"width": 800, "height": 600},
		"server": {"enabled": true, "addr": ":9000", "updateIntervalMs": 50}
	}`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, s.Window.Width)
	assert.Equal(t, 600, s.Window.Height)
	assert.Equal(t, "Solar System", s.Window.Title, "unset fields keep defaults")
	assert.True(t, s.Server.Enabled)
	assert.Equal(t, ":9000", s.Server.Addr)
	assert.Equal(t, DefaultBodies(), s.Bodies)
}

func TestLoadTOMLReplacesBodies(t *testing.T) {
	path := writeFile(t, "system.toml", `
[world]
sphereHorizontal = 12
sphereVertical = 8
sphereRadius = 5.0

[[bodies]]
name = "Star"
center = "Star"
eccentricity = 1.0
mass = 1000.0
scale = 1.0
color = "#ffcc00"

[[bodies]]
name = "Rock"
center = "Star"
eccentricity = 0.5
focalDistance = 25.0
mass = 1.0
scale = 0.2
color = "#888"
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, s.World.SphereHorizontal)
	require.Len(t, s.Bodies, 2)
	assert.Equal(t, "Rock", s.Bodies[1].Name)
	assert.InDelta(t, 25, s.Bodies[1].FocalDistance, 1e-6)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "broken.json", `{"window": `))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", `{"window": {"width": -1}}`))
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
	}{
		{"window", func(s *Settings) { s.Window.Height = 0 }},
		{"sphere", func(s *Settings) { s.World.SphereVertical = 1 }},
		{"radius", func(s *Settings) { s.World.SphereRadius = 0 }},
		{"clip", func(s *Settings) { s.Camera.Far = s.Camera.Near }},
		{"stars", func(s *Settings) { s.Stars.Count = core.MaxStars + 1 }},
		{"server", func(s *Settings) { s.Server.Enabled = true; s.Server.Addr = "" }},
		{"duplicate", func(s *Settings) { s.Bodies = append(s.Bodies, s.Bodies[1]) }},
		{"center order", func(s *Settings) { s.Bodies[0], s.Bodies[3] = s.Bodies[3], s.Bodies[0] }},
		{"unknown center", func(s *Settings) { s.Bodies[1].Center = "Vulcan" }},
		{"eccentricity", func(s *Settings) { s.Bodies[1].Eccentricity = 1.5 }},
		{"focal distance", func(s *Settings) { s.Bodies[1].FocalDistance = 5000 }},
		{"scale", func(s *Settings) { s.Bodies[1].Scale = 0 }},
		{"color", func(s *Settings) { s.Bodies[1].Color = "blue" }},
		{"no name", func(s *Settings) { s.Bodies[1].Name = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.modify(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestPlanetSpecs(t *testing.T) {
	specs, err := Default().PlanetSpecs()
	require.NoError(t, err)
	require.Len(t, specs, 13)

	earth := specs[3]
	assert.Equal(t, "Earth", earth.Name)
	assert.Equal(t, mgl32.Vec3{100, 0, 0}, earth.Offset, "offset defaults to the focal distance")
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, earth.Scale)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, earth.Color)

	ganymede := specs[11]
	assert.Equal(t, mgl32.Vec3{40, 0, 0}, ganymede.Offset)

	w, err := core.NewWorld(8, 6, 20)
	require.NoError(t, err)
	for _, spec := range specs {
		require.NoError(t, w.AddPlanet(spec))
	}
	assert.Equal(t, 13, w.Len())
}

func TestNewWorld(t *testing.T) {
	w, err := Default().NewWorld()
	require.NoError(t, err)
	assert.Equal(t, len(DefaultBodies()), w.Len())
	assert.Equal(t, 2+49*50, w.Sphere().VertexCount())

	s := Default()
	s.World.SphereVertical = 1
	_, err = s.NewWorld()
	assert.ErrorIs(t, err, core.ErrInvalidTessellation)

	s = Default()
	s.Bodies[2].Color = "mauve"
	_, err = s.NewWorld()
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [4]float32
		wantErr bool
	}{
		{"#ff0000", [4]float32{1, 0, 0, 1}, false},
		{"#fff", [4]float32{1, 1, 1, 1}, false},
		{"#00ff0080", [4]float32{0, 1, 0, 128.0 / 255}, false},
		{"#00ff00zz", [4]float32{}, true},
		{"red", [4]float32{}, true},
		{"", [4]float32{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for i := range got {
				assert.InDelta(t, tc.want[i], got[i], 1e-6)
			}
		})
	}
}

func TestFormatColor(t *testing.T) {
	assert.Equal(t, "#ff0000", FormatColor([4]float32{1, 0, 0, 1}))
	assert.Equal(t, "#0000ff80", FormatColor([4]float32{0, 0, 1, 128.0 / 255}))

	c, err := ParseColor(FormatColor([4]float32{0.2, 0.4, 0.6, 0.5}))
	require.NoError(t, err)
	assert.InDelta(t, 0.2, c[0], 1.0/255)
	assert.InDelta(t, 0.5, c[3], 1.0/255)
}

func TestEncodeTOML(t *testing.T) {
	data, err := Default().EncodeTOML()
	require.NoError(t, err)

	s, err := Load(writeFile(t, "seed.toml", string(data)))
	require.NoError(t, err)
	assert.Equal(t, Default().Window, s.Window)
	assert.Len(t, s.Bodies, 13)
	assert.Equal(t, "Titan", s.Bodies[12].Name)
}

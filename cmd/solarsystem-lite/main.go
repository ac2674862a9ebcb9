// Command solarsystem-lite draws the same world as solarsystem with raylib
// instead of raw OpenGL: no menu, but stats, names and trails can be toggled
// from the keyboard.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"

	"solarsystem/config"
	"solarsystem/control"
	"solarsystem/core"
)

const (
	sphereRings  = 16
	sphereSlices = 16
	fontSize     = 10
)

func init() {
	runtime.LockOSThread()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var configPath string
	var debug bool
	cmd := &cobra.Command{
		Use:          "solarsystem-lite",
		Short:        "Fly around the solar system (raylib renderer)",
		Long:         "Hold W/A/S/D and SPACE/CTRL to fly, move the mouse to look. F1 toggles stats, F2 names, F3 trails.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			core.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			s, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), s)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "settings file (.json, .toml or .yaml)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, s config.Settings) error {
	world, err := s.NewWorld()
	if err != nil {
		return err
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(s.Window.Width), int32(s.Window.Height), s.Window.Title)
	defer rl.CloseWindow()
	if s.Window.VSync {
		rl.SetTargetFPS(int32(rl.GetMonitorRefreshRate(rl.GetCurrentMonitor())))
	}
	rl.SetExitKey(rl.KeyEscape)
	rl.DisableCursor()

	camera := core.NewCamera(mgl32.Vec3(s.Camera.Position), s.Camera.Pitch, s.Camera.Yaw,
		float32(s.Window.Width)/float32(s.Window.Height))
	camera.SetClip(s.Camera.Near, s.Camera.Far)

	controller := control.NewController(camera, control.Settings{
		Speed:       s.Camera.Speed,
		Sensitivity: s.Camera.Sensitivity,
		Tick:        time.Duration(s.Camera.TickMs) * time.Millisecond,
	})
	controller.Install(ctx)
	defer controller.Uninstall()

	showStats := control.NewToggle(s.Overlay.ShowStats)
	showNames := control.NewToggle(s.Overlay.ShowNames)
	showTrails := control.NewToggle(s.Overlay.ShowTrails)
	stars := core.NewStarField(rand.New(rand.NewSource(s.Stars.Seed)))

	core.Logger().Info("lite viewer started", "bodies", world.Len())

	start := time.Now()
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		showStats.Update(rl.IsKeyDown(rl.KeyF1))
		showNames.Update(rl.IsKeyDown(rl.KeyF2))
		showTrails.Update(rl.IsKeyDown(rl.KeyF3))

		controller.SetKeys(heldKeys())
		mouse := rl.GetMousePosition()
		controller.OnCursor(float64(mouse.X), float64(mouse.Y))
		if h := rl.GetScreenHeight(); h > 0 {
			camera.SetAspect(float32(rl.GetScreenWidth()) / float32(h))
		}

		world.Update(time.Since(start).Seconds())
		if s.Stars.Enabled {
			stars.Update(camera.Position(), s.Stars.Count)
		}
		bodies := world.Bodies()
		view := toCamera3D(camera)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		rl.BeginMode3D(view)
		for _, b := range bodies {
			rl.DrawSphereEx(toVector3(b.Position), s.World.SphereRadius*b.Scale[0],
				sphereRings, sphereSlices, toColor(b.Color))
		}
		for _, p := range stars.Positions() {
			rl.DrawPoint3D(toVector3(p), rl.White)
		}
		if showTrails.On() {
			for _, b := range bodies {
				drawTrail(world, b)
			}
		}
		rl.EndMode3D()

		if showNames.On() {
			for _, b := range bodies {
				if !inFront(camera, b.Position) {
					continue
				}
				p := rl.GetWorldToScreen(toVector3(b.Position), view)
				rl.DrawText(b.Name, int32(p.X), int32(p.Y), fontSize, rl.White)
			}
		}
		if showStats.On() {
			for _, l := range core.StatsLabels(camera.Position(), camera.Pitch(), camera.Yaw(), bodies) {
				rl.DrawText(l.Text, int32(l.X), int32(l.Y)+4, fontSize, rl.White)
			}
		}
		rl.DrawText(fmt.Sprintf("%d fps", rl.GetFPS()), 20, int32(rl.GetScreenHeight())-30, fontSize*2, rl.White)

		rl.EndDrawing()
	}
	return nil
}

func heldKeys() control.KeySet {
	var keys control.KeySet
	bindings := []struct {
		key  control.Key
		down bool
	}{
		{control.KeyForward, rl.IsKeyDown(rl.KeyW)},
		{control.KeyBackward, rl.IsKeyDown(rl.KeyS)},
		{control.KeyLeft, rl.IsKeyDown(rl.KeyA)},
		{control.KeyRight, rl.IsKeyDown(rl.KeyD)},
		{control.KeyUp, rl.IsKeyDown(rl.KeySpace)},
		{control.KeyDown, rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)},
	}
	for _, b := range bindings {
		if b.down {
			keys = keys.With(b.key)
		}
	}
	return keys
}

// drawTrail draws the orbit of b around the current position of its center.
func drawTrail(world *core.World, b core.BodyState) {
	if b.Center == b.Name {
		return
	}
	trail, _, err := world.Trail(b.Name)
	if err != nil {
		return
	}
	center, err := world.TrailCenter(b.Name)
	if err != nil {
		return
	}
	color := toColor(b.Color)
	for i := 0; i+1 < len(trail.Indices); i += 2 {
		a := trail.Position(int(trail.Indices[i])).Add(center)
		c := trail.Position(int(trail.Indices[i+1])).Add(center)
		rl.DrawLine3D(toVector3(a), toVector3(c), color)
	}
}

// inFront reports whether p is ahead of the camera. GetWorldToScreen also
// maps points behind the camera onto the screen.
func inFront(camera *core.Camera, p mgl32.Vec3) bool {
	return p.Sub(camera.Position()).Dot(camera.Front()) > 0
}

func toCamera3D(c *core.Camera) rl.Camera3D {
	pos := c.Position()
	return rl.NewCamera3D(toVector3(pos), toVector3(pos.Add(c.Front())),
		rl.NewVector3(0, 1, 0), core.DefaultFOV, rl.CameraPerspective)
}

func toVector3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

func toColor(c [4]float32) rl.Color {
	return rl.ColorFromNormalized(rl.NewVector4(c[0], c[1], c[2], c[3]))
}

package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"solarsystem/config"
	"solarsystem/control"
	"solarsystem/core"
	"solarsystem/rendering/opengl"
	"solarsystem/rendering/opengl/overlay"
	"solarsystem/telemetry"
)

// runViewer opens the window and runs the frame loop until the window is
// closed or ctx is cancelled. It must be called from the main goroutine.
func runViewer(ctx context.Context, opts *options) error {
	s := opts.settings
	world, err := s.NewWorld()
	if err != nil {
		return err
	}

	renderer, err := opengl.NewRenderer(s.Window.Width, s.Window.Height, s.Window.Title, s.Window.VSync)
	if err != nil {
		return err
	}
	defer renderer.Terminate()
	if err := renderer.LoadSphere(world.Sphere()); err != nil {
		return err
	}

	camera := core.NewCamera(mgl32.Vec3(s.Camera.Position), s.Camera.Pitch, s.Camera.Yaw, renderer.Aspect())
	camera.SetClip(s.Camera.Near, s.Camera.Far)
	renderer.OnResize(func(width, height int) {
		if height > 0 {
			camera.SetAspect(float32(width) / float32(height))
		}
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	controller := control.NewController(camera, control.Settings{
		Speed:       s.Camera.Speed,
		Sensitivity: s.Camera.Sensitivity,
		Tick:        time.Duration(s.Camera.TickMs) * time.Millisecond,
	})
	controller.Install(ctx)
	defer controller.Uninstall()
	renderer.OnCursor(controller.OnCursor)

	ui, err := overlay.New(renderer.Window(), overlay.State{
		ShowMenu:   s.Overlay.ShowMenu,
		ShowStats:  s.Overlay.ShowStats,
		ShowNames:  s.Overlay.ShowNames,
		ShowTrails: s.Overlay.ShowTrails,
		ShowStars:  s.Stars.Enabled,
		StarCount:  int32(s.Stars.Count),
	})
	if err != nil {
		return err
	}
	defer ui.Destroy()

	g, gctx := errgroup.WithContext(ctx)
	if s.Server.Enabled {
		srv := telemetry.NewServer(world, time.Duration(s.Server.UpdateIntervalMs)*time.Millisecond, glfw.GetTime)
		g.Go(func() error {
			return srv.Run(gctx, s.Server.Addr)
		})
	}

	if path, ok := watchPath(opts); ok {
		g.Go(func() error {
			return config.Watch(gctx, path, func(next config.Settings) {
				if err := next.Apply(world); err != nil {
					core.Logger().Warn("settings not fully applied", "err", err)
					return
				}
				core.Logger().Info("settings reloaded", "bodies", world.Len())
			})
		})
	}

	stars := core.NewStarField(rand.New(rand.NewSource(s.Stars.Seed)))
	menu := control.NewToggle(s.Overlay.ShowMenu)
	setMenu(renderer, controller, menu.On())

	core.Logger().Info("viewer started", "bodies", world.Len(),
		"window", fmt.Sprintf("%dx%d", s.Window.Width, s.Window.Height))

	last := renderer.Time()
	for !renderer.ShouldClose() && gctx.Err() == nil {
		renderer.PollEvents()

		now := renderer.Time()
		dt := now - last
		last = now

		if renderer.KeyDown(glfw.KeyEscape) {
			renderer.SetShouldClose(true)
		}
		if menu.Update(renderer.KeyDown(opengl.MenuKey)) {
			setMenu(renderer, controller, menu.On())
		}
		ui.ShowMenu = menu.On()
		if ui.ShowMenu {
			controller.SetKeys(0)
		} else {
			controller.SetKeys(renderer.HeldKeys())
		}

		world.Update(now)
		if ui.ShowStars {
			stars.Update(camera.Position(), int(ui.StarCount))
		}

		renderer.BeginFrame()
		renderer.DrawScene(world, camera, stars, opengl.Options{
			Trails: ui.ShowTrails,
			Stars:  ui.ShowStars,
		})
		ui.Frame(world, camera, float32(dt))
		renderer.SwapBuffers()
	}

	core.Logger().Info("viewer closing")
	cancel()
	return g.Wait()
}

// watchPath returns the settings file to watch, if watching is enabled and
// the file exists.
func watchPath(opts *options) (string, bool) {
	if !opts.watch {
		return "", false
	}
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// setMenu pauses navigation and frees the cursor while the menu is open.
func setMenu(renderer *opengl.Renderer, controller *control.Controller, open bool) {
	if open {
		controller.Pause()
	} else {
		controller.Resume()
	}
	renderer.SetCursorCaptured(!open)
}

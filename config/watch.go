package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"

	"solarsystem/core"
)

// Watch calls fn with the reloaded settings every time the file at path is
// written, until ctx is cancelled. Files that fail to load or validate are
// logged and skipped. The directory is watched rather than the file because
// many editors save by replacing it.
func Watch(ctx context.Context, path string, fn func(Settings)) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("settings path: %w", err)
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("settings path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	core.Logger().Info("watching settings", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			s, err := Load(path)
			if err != nil {
				core.Logger().Warn("settings reload failed", "path", path, "err", err)
				continue
			}
			fn(s)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			core.Logger().Warn("settings watcher error", "err", err)
		}
	}
}

// Apply brings the bodies of world in line with s: existing bodies take the
// configured orbit, mass and color, and new bodies are added. Bodies missing
// from s are left alone, as are the sphere and scale which only apply at
// startup.
func (s Settings) Apply(world *core.World) error {
	specs, err := s.PlanetSpecs()
	if err != nil {
		return err
	}

	var errs []error
	for _, spec := range specs {
		if _, err := world.Body(spec.Name); errors.Is(err, core.ErrUnknownPlanet) {
			errs = append(errs, world.AddPlanet(spec))
			continue
		}
		if spec.Center != spec.Name {
			errs = append(errs,
				world.SetEccentricity(spec.Name, spec.Eccentricity),
				world.SetFocalDistance(spec.Name, spec.FocalDistance),
			)
		}
		errs = append(errs,
			world.SetMass(spec.Name, spec.Mass),
			world.SetColor(spec.Name, spec.Color),
		)
	}
	return errors.Join(errs...)
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"solarsystem/config"
	"solarsystem/core"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	width      int
	height     int
	logLevel   string
	telemetry  string
	watch      bool

	settings config.Settings
}

func init() {
	// GLFW must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "solarsystem",
		Short: "Fly around a small solar system",
		Long: `Opens a window showing the Sun, its planets and a few moons on elliptical
orbits. Hold W/A/S/D to move, SPACE/CTRL to go up/down, move the mouse to look
around and press INSERT for the menu.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "settings file (.json, .toml or .yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.IntVar(&opts.width, "width", 0, "window width, overrides the settings file")
	flags.IntVar(&opts.height, "height", 0, "window height, overrides the settings file")
	flags.StringVar(&opts.telemetry, "telemetry", "", "serve the websocket state stream on this address")

	root.Flags().BoolVar(&opts.watch, "watch", true, "reload bodies when the settings file changes")

	root.AddCommand(newOrbitsCmd(opts), newMeshCmd(opts), newConfigCmd(opts))
	return root
}

// load installs the logger, reads the settings file and applies the flag
// overrides.
func (o *options) load(cmd *cobra.Command) error {
	level, err := parseLevel(o.logLevel)
	if err != nil {
		return err
	}
	core.SetLogger(newLogger(cmd.ErrOrStderr(), level))

	s, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.width > 0 {
		s.Window.Width = o.width
	}
	if o.height > 0 {
		s.Window.Height = o.height
	}
	if o.telemetry != "" {
		s.Server.Enabled = true
		s.Server.Addr = o.telemetry
	}
	o.settings = s
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

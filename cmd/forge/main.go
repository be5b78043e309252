// Command forge opens a window and renders a demo scene through the batch
// renderer: a grid of shared-mesh objects drawn with instancing, a few
// unique-material objects drawn individually, and debug lines.
//
// Controls:
//
//	W/A/S/D, E/Q  move, mouse look
//	Scroll        movement speed (fly) or orbit distance (orbit)
//	F             toggle wireframe
//	I             toggle auto-instancing
//	K             toggle frustum culling
//	C             log culling debug info
//	M             cycle camera mode
//	Esc           release or capture the mouse
package main

import (
	"context"
	"fmt"
	"runtime"

	"forge3d/internal/config"
	"forge3d/internal/graphics/gpu/opengl"
	"forge3d/internal/graphics/renderer"
	"forge3d/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	closer.Bind(logger.Sync)
	if err := newRootCommand().Execute(); err != nil {
		closer.Exit(1)
	}
	closer.Close()
}

type options struct {
	configPath   string
	threshold    int
	noInstancing bool
	wireframe    bool
	grid         int
	logLevel     string
	jsonLogs     bool
	albedo       string
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "forge",
		Short:        "Render an instanced 3D demo scene",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.Default()
			if opts.configPath != "" {
				loaded, err := config.Load(opts.configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				settings = loaded
			}
			opts.override(cmd, &settings)
			return run(cmd.Context(), cmd, &opts, settings)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML or YAML render settings, reloaded on change")
	f.IntVar(&opts.threshold, "threshold", 3, "smallest group drawn with instancing")
	f.BoolVar(&opts.noInstancing, "no-instancing", false, "draw every object with its own call")
	f.BoolVar(&opts.wireframe, "wireframe", false, "start in wireframe mode")
	f.IntVar(&opts.grid, "grid", 32, "edge length of the demo object grid")
	f.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	f.BoolVar(&opts.jsonLogs, "json-logs", false, "log as JSON")
	f.StringVar(&opts.albedo, "albedo", "", "image (png, jpeg, gif, bmp, webp) used as the pillars' albedo map")
	return cmd
}

// override applies explicitly set flags on top of file settings. It runs
// again on every reload so flags keep precedence.
func (o *options) override(cmd *cobra.Command, s *config.RenderSettings) {
	f := cmd.Flags()
	if f.Changed("threshold") {
		s.InstancingThreshold = o.threshold
	}
	if o.noInstancing {
		s.AutoInstancing = false
	}
	if o.wireframe {
		s.Wireframe = true
	}
	if f.Changed("grid") {
		s.GridSize = o.grid
	}
	if f.Changed("log-level") {
		s.LogLevel = o.logLevel
	}
	s.Validate()
}

func run(ctx context.Context, cmd *cobra.Command, opts *options, settings config.RenderSettings) error {
	if err := logger.Init(settings.LogLevel, opts.jsonLogs); err != nil {
		return err
	}

	// closed after every deferred GL and window teardown below has run
	done := make(chan struct{})
	defer close(done)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	closer.Bind(shutdownHook(cancel, done))

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	r, err := renderer.New(dev, settings)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	var reloads <-chan config.RenderSettings
	if opts.configPath != "" {
		reloads, err = config.Watch(ctx, opts.configPath)
		if err != nil {
			logger.Log.Warn("config hot reload disabled", zap.Error(err))
		}
	}

	s := newScene(dev, settings.GridSize, opts.albedo)
	defer s.delete(r)

	v := newViewer(window, r, s, settings)
	v.reconfigure = func(next config.RenderSettings) config.RenderSettings {
		opts.override(cmd, &next)
		return next
	}
	v.run(ctx, reloads)
	return nil
}

// shutdownHook stops the render loop and blocks until run has released the
// window and GL objects, so an interrupt cannot exit the process mid-teardown.
func shutdownHook(stop context.CancelFunc, done <-chan struct{}) func() {
	return func() {
		stop()
		<-done
	}
}

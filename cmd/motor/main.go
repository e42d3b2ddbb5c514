package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"motor/internal/app"
	_ "motor/internal/asset/obj"
	"motor/internal/config"
	"motor/internal/controls"
	"motor/internal/graphics"
	"motor/internal/graphics/opengl"
	"motor/internal/platform/desktop"
	"motor/internal/render"
	"motor/internal/scene"

	"github.com/pkg/profile"
)

const defaultModel = "models/scene.obj"

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		slog.Error("motor failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "settings file (TOML)")
	scenePath := flag.String("scene", "", "scene manifest (YAML); overrides the model argument")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to this directory")
	vv := flag.Bool("vv", false, "debug logging")
	v := flag.Bool("v", false, "info logging")
	q := flag.Bool("q", false, "only log errors")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [model-path]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel(*vv, *v, *q),
	})))

	if *cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuProfile), profile.NoShutdownHook).Stop()
	}

	if *configPath != "" {
		if _, err := config.Load(*configPath); err != nil {
			return err
		}
	}

	manifest, err := loadScene(*scenePath, flag.Arg(0))
	if err != nil {
		return err
	}

	s := config.Get()
	win, err := desktop.Open(s.Window)
	if err != nil {
		return err
	}
	defer win.Close()

	backend, err := opengl.New()
	if err != nil {
		return err
	}
	slog.Info("opengl ready", "version", backend.Version())

	program, err := loadProgram(s.Render)
	if err != nil {
		return err
	}

	rc := render.NewContext(backend, program, graphics.NewFileDecoder())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := app.New(win, rc).
		WithStartup(manifest).
		WithFrameHandler(controls.NewKeyboard(nil))

	if err := a.Run(ctx); err != nil {
		return err
	}
	slog.Info("terminated", "frames", a.Frames())
	return nil
}

func loadScene(scenePath, modelPath string) (*scene.Manifest, error) {
	if scenePath != "" {
		return scene.Load(scenePath)
	}
	if modelPath == "" {
		modelPath = defaultModel
	}
	return scene.FromModel(modelPath), nil
}

func loadProgram(s config.RenderSettings) (graphics.Program, error) {
	if s.VertexShader != "" || s.FragmentShader != "" {
		if s.VertexShader == "" || s.FragmentShader == "" {
			return 0, fmt.Errorf("both vertex and fragment shader paths are required")
		}
		return opengl.NewProgramFromFiles(s.VertexShader, s.FragmentShader)
	}
	return opengl.NewProgram()
}

package config

import "sync"

// WindowSettings holds window and context configuration
type WindowSettings struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

// CameraSettings holds projection and movement configuration
type CameraSettings struct {
	FOV      float32 `toml:"fov"` // degrees
	Near     float32 `toml:"near"`
	Far      float32 `toml:"far"`
	MoveStep float32 `toml:"move_step"`
	TurnStep float32 `toml:"turn_step"` // degrees per key press
}

// RenderSettings holds frame configuration
type RenderSettings struct {
	ClearColor     [4]float32 `toml:"clear_color"`
	FPSLimit       int        `toml:"fps_limit"` // 0 = unlimited
	VertexShader   string     `toml:"vertex_shader"`
	FragmentShader string     `toml:"fragment_shader"`
}

// Settings is the full runtime configuration
type Settings struct {
	Window WindowSettings `toml:"window"`
	Camera CameraSettings `toml:"camera"`
	Render RenderSettings `toml:"render"`
}

// Defaults returns the built-in configuration
func Defaults() Settings {
	return Settings{
		Window: WindowSettings{
			Width:  600,
			Height: 600,
			Title:  "motor",
			VSync:  true,
		},
		Camera: CameraSettings{
			FOV:      45,
			Near:     0.1,
			Far:      1000,
			MoveStep: 1,
			TurnStep: 5,
		},
		Render: RenderSettings{
			ClearColor: [4]float32{0, 0, 1, 1},
			FPSLimit:   0,
		},
	}
}

var (
	mu      sync.RWMutex
	current = Defaults()
)

// Get returns a copy of the current settings
func Get() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set replaces the current settings after clamping them to sane values
func Set(s Settings) {
	clamp(&s)
	mu.Lock()
	defer mu.Unlock()
	current = s
}

// GetFPSLimit returns the frame rate cap, 0 meaning unlimited
func GetFPSLimit() int {
	mu.RLock()
	defer mu.RUnlock()
	return current.Render.FPSLimit
}

// SetFPSLimit sets the frame rate cap
func SetFPSLimit(limit int) {
	mu.Lock()
	defer mu.Unlock()
	current.Render.FPSLimit = clampFPS(limit)
}

func clamp(s *Settings) {
	def := Defaults()

	if s.Window.Width <= 0 {
		s.Window.Width = def.Window.Width
	}
	if s.Window.Height <= 0 {
		s.Window.Height = def.Window.Height
	}
	if s.Window.Title == "" {
		s.Window.Title = def.Window.Title
	}

	// Keep the projection well-formed
	if s.Camera.FOV < 1 {
		s.Camera.FOV = 1
	}
	if s.Camera.FOV > 179 {
		s.Camera.FOV = 179
	}
	if s.Camera.Near <= 0 {
		s.Camera.Near = def.Camera.Near
	}
	if s.Camera.Far <= s.Camera.Near {
		s.Camera.Far = s.Camera.Near * 10000
	}

	s.Render.FPSLimit = clampFPS(s.Render.FPSLimit)
}

func clampFPS(limit int) int {
	if limit < 0 {
		return 0
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

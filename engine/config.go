package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/components"
	"github.com/spaghettifunk/bilhar/engine/systems"
)

const (
	DefaultConfigPath = "assets/config/bilhar.toml"

	// Environment variables read by LoadApplicationConfigFromEnv.
	EnvConfigPath = "BILHAR_CONFIG"
	EnvLogLevel   = "BILHAR_LOG_LEVEL"
)

type WindowConfig struct {
	// The application name used in windowing.
	Title string `toml:"title"`
	// Window starting position.
	X int `toml:"x"`
	Y int `toml:"y"`
	// Window starting size.
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	// Wait for the vertical blank before swapping.
	VSync bool `toml:"vsync"`
	// Give the remaining frame time back to the OS. 0 disables the limit.
	FrameLimit float64 `toml:"frame_limit"`
}

type ShaderPathsConfig struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

type MainCameraConfig struct {
	Target      mgl32.Vec3 `toml:"target"`
	FOV         float32    `toml:"fov"`
	OrbitRadius float32    `toml:"orbit_radius"`
	Height      float32    `toml:"height"`
	MinFOV      float32    `toml:"min_fov"`
	MaxFOV      float32    `toml:"max_fov"`
	MinHeight   float32    `toml:"min_height"`
	MaxHeight   float32    `toml:"max_height"`
}

type MinimapCameraConfig struct {
	Enabled  bool       `toml:"enabled"`
	Position mgl32.Vec3 `toml:"position"`
	Target   mgl32.Vec3 `toml:"target"`
	Up       mgl32.Vec3 `toml:"up"`
	FOV      float32    `toml:"fov"`
	// Side of the square viewport and its distance from the top-right corner, in pixels.
	Size   int32 `toml:"size"`
	Margin int32 `toml:"margin"`
}

type CamerasConfig struct {
	Main    MainCameraConfig    `toml:"main"`
	Minimap MinimapCameraConfig `toml:"minimap"`
}

type TableConfig struct {
	// OBJ file for the table. Empty draws the built-in box.
	Model    string     `toml:"model"`
	Position mgl32.Vec3 `toml:"position"`
	Colour   mgl32.Vec3 `toml:"colour"`
}

type BallConfig struct {
	Name     string     `toml:"name"`
	Model    string     `toml:"model"`
	Position mgl32.Vec3 `toml:"position"`
}

type BallsConfig struct {
	// fmt pattern taking the ball number, used for the generated rack.
	ModelPattern string  `toml:"model_pattern"`
	CueModel     string  `toml:"cue_model"`
	Radius       float32 `toml:"radius"`
	Scale        float32 `toml:"scale"`
	// Explicit placements. Empty generates 15 racked balls plus the cue ball.
	Rack []BallConfig `toml:"rack"`
}

type ApplicationConfig struct {
	Window    WindowConfig      `toml:"window"`
	LogLevel  string            `toml:"log_level"`
	AssetsDir string            `toml:"assets_dir"`
	Shaders   ShaderPathsConfig `toml:"shaders"`
	Cameras   CamerasConfig     `toml:"cameras"`
	Table     TableConfig       `toml:"table"`
	Balls     BallsConfig       `toml:"balls"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Window: WindowConfig{
			Title:  "Bilhar",
			X:      100,
			Y:      100,
			Width:  640,
			Height: 480,
			VSync:  true,
		},
		LogLevel:  core.InfoLevel.String(),
		AssetsDir: "assets",
		Shaders: ShaderPathsConfig{
			Vertex:   "shaders/shader.vert",
			Fragment: "shaders/shader.frag",
		},
		Cameras: CamerasConfig{
			Main: MainCameraConfig{
				FOV:         components.DefaultFOV,
				OrbitRadius: components.DefaultOrbitRadius,
				Height:      components.DefaultHeight,
				MinFOV:      components.MinFOV,
				MaxFOV:      components.MaxFOV,
				MinHeight:   components.MinHeight,
				MaxHeight:   components.MaxHeight,
			},
			Minimap: MinimapCameraConfig{
				Enabled:  true,
				Position: mgl32.Vec3{0, 30, 0},
				Up:       mgl32.Vec3{0, 0, -1},
				FOV:      45,
				Size:     150,
				Margin:   10,
			},
		},
		Table: TableConfig{
			Position: mgl32.Vec3{0, -2, 0},
			Colour:   systems.TableColour,
		},
		Balls: BallsConfig{
			ModelPattern: "models/PoolBalls/ball%d.obj",
			CueModel:     "models/PoolBalls/ball0.obj",
			Radius:       0.3,
			Scale:        1,
		},
	}
}

// LoadApplicationConfig reads the TOML file at path over the defaults. Keys
// missing from the file keep their default value; unknown keys are an error.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrFileOpen, err)
	}
	defer f.Close()

	cfg, err := DecodeApplicationConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func DecodeApplicationConfig(r io.Reader) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown configuration keys:\n%s", strict.String())
		}
		return nil, err
	}
	return cfg, nil
}

// LoadApplicationConfigFromEnv loads the given .env files (".env" when none are
// given), then the config file named by BILHAR_CONFIG or DefaultConfigPath.
// A missing default file falls back to the defaults; a missing file that was
// asked for explicitly is an error. BILHAR_LOG_LEVEL overrides log_level.
func LoadApplicationConfigFromEnv(envFiles ...string) (*ApplicationConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading environment file: %w", err)
	}

	path, explicit := os.LookupEnv(EnvConfigPath)
	if !explicit || path == "" {
		path = DefaultConfigPath
		explicit = false
	}
	cfg, err := LoadApplicationConfig(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		core.LogWarn("no configuration at %s, using defaults", path)
		cfg = DefaultApplicationConfig()
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		return fmt.Errorf("both shader stages must be configured")
	}

	cam := c.Cameras.Main
	if cam.MinFOV <= 0 || cam.MinFOV > cam.MaxFOV || cam.MaxFOV >= 180 {
		return fmt.Errorf("camera fov limits [%g, %g] are invalid", cam.MinFOV, cam.MaxFOV)
	}
	if cam.FOV < cam.MinFOV || cam.FOV > cam.MaxFOV {
		return fmt.Errorf("camera fov %g outside [%g, %g]", cam.FOV, cam.MinFOV, cam.MaxFOV)
	}
	if cam.MinHeight > cam.MaxHeight || cam.Height < cam.MinHeight || cam.Height > cam.MaxHeight {
		return fmt.Errorf("camera height %g outside [%g, %g]", cam.Height, cam.MinHeight, cam.MaxHeight)
	}
	if cam.OrbitRadius <= 0 {
		return fmt.Errorf("camera orbit radius must be positive, got %g", cam.OrbitRadius)
	}

	minimap := c.Cameras.Minimap
	if minimap.Enabled && (minimap.Size <= 0 || minimap.Margin < 0) {
		return fmt.Errorf("minimap size %d and margin %d are invalid", minimap.Size, minimap.Margin)
	}

	if c.Balls.Radius <= 0 || c.Balls.Scale <= 0 {
		return fmt.Errorf("ball radius and scale must be positive")
	}
	seen := make(map[string]struct{}, len(c.Balls.Rack))
	for i, b := range c.Balls.Rack {
		if b.Name == "" || b.Model == "" {
			return fmt.Errorf("ball %d needs a name and a model", i)
		}
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf("ball '%s' is configured twice", b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return nil
}

// Level returns the parsed log level, InfoLevel when it does not parse.
func (c *ApplicationConfig) Level() core.LogLevel {
	level, _ := core.ParseLogLevel(c.LogLevel)
	return level
}

// AssetPath resolves a path from the config against the assets directory.
func (c *ApplicationConfig) AssetPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.AssetsDir, p)
}

// ApplyMain configures the orbiting camera and places it on its orbit.
func (c *MainCameraConfig) ApplyMain(camera *components.Camera) {
	camera.Target = c.Target
	camera.FOV = c.FOV
	camera.OrbitRadius = c.OrbitRadius
	camera.Height = c.Height
	camera.MinFOV, camera.MaxFOV = c.MinFOV, c.MaxFOV
	camera.MinHeight, camera.MaxHeight = c.MinHeight, c.MaxHeight
	camera.UpdatePosition()
}

func (c *MinimapCameraConfig) ApplyMinimap(camera *components.Camera) {
	camera.Orbit = false
	camera.Position = c.Position
	camera.Target = c.Target
	camera.Up = c.Up
	camera.FOV = c.FOV
}

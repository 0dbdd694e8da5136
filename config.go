package canopy

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment overrides, e.g. CANOPY_WIDTH.
const envPrefix = "CANOPY"

// RunConfig configures the window and frame loop started by Renderer.Start.
// It can be loaded from a YAML file and overridden from the environment.
type RunConfig struct {
	Title     string `yaml:"title" envconfig:"TITLE"`
	Width     int    `yaml:"width" envconfig:"WIDTH"`
	Height    int    `yaml:"height" envconfig:"HEIGHT"`
	Resizable bool   `yaml:"resizable" envconfig:"RESIZABLE"`
	TPS       int    `yaml:"tps" envconfig:"TPS"`

	// ClearColor is a CSS color name ("midnightblue") or a hex string
	// ("#1e1e2e", "#1e1e2e80").
	ClearColor string `yaml:"clear_color" envconfig:"CLEAR_COLOR"`
	AutoClear  bool   `yaml:"auto_clear" envconfig:"AUTO_CLEAR"`

	DragDeadZone float64 `yaml:"drag_dead_zone" envconfig:"DRAG_DEAD_ZONE"`

	Debug   bool `yaml:"debug" envconfig:"DEBUG"`
	ShowFPS bool `yaml:"show_fps" envconfig:"SHOW_FPS"`

	ScreenshotDir string `yaml:"screenshot_dir" envconfig:"SCREENSHOT_DIR"`
	// TestScript is the path of a JSON script replayed by Start.
	TestScript string `yaml:"test_script" envconfig:"TEST_SCRIPT"`
}

// DefaultRunConfig returns the configuration used when nothing overrides it.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "canopy",
		Width:         800,
		Height:        600,
		Resizable:     true,
		TPS:           60,
		ClearColor:    "black",
		AutoClear:     true,
		DragDeadZone:  defaultDragDeadZone,
		ScreenshotDir: "screenshots",
	}
}

// LoadRunConfig returns the defaults overlaid with the YAML file at path
// (skipped when path is empty) and then with CANOPY_* environment
// variables.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read run config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse run config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("run config env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c RunConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("run config: window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.TPS < 0 {
		return fmt.Errorf("run config: tps %d must not be negative", c.TPS)
	}
	if c.DragDeadZone < 0 {
		return fmt.Errorf("run config: drag dead zone %v must not be negative", c.DragDeadZone)
	}
	if _, err := ParseColor(c.ClearColor); err != nil {
		return fmt.Errorf("run config: clear color: %w", err)
	}
	return nil
}

// clearColor returns the parsed ClearColor, or transparent when it does not
// parse.
func (c RunConfig) clearColor() Color {
	col, err := ParseColor(c.ClearColor)
	if err != nil {
		return ColorTransparent
	}
	return col
}

var errBadColor = errors.New("unrecognized color")

// ParseColor parses a color name from golang.org/x/image/colornames or a
// #rgb, #rrggbb or #rrggbbaa hex string. The empty string is transparent.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "transparent" {
		return ColorTransparent, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return ColorFromRGBA(c), nil
	}
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("%q: %w", s, errBadColor)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("%q: %w", s, errBadColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%q: %w", s, errBadColor)
	}
	return ColorFromRGBA(color.RGBA{
		R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v),
	}), nil
}

package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Color is an RGBA colour written in YAML as [r, g, b] or [r, g, b, a].
type Color color.RGBA

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var parts []int
	if err := value.Decode(&parts); err != nil {
		return fmt.Errorf("colour must be a list of 3 or 4 bytes: %w", err)
	}
	if len(parts) != 3 && len(parts) != 4 {
		return fmt.Errorf("colour must have 3 or 4 components, got %d", len(parts))
	}
	rgba := [4]uint8{3: 255}
	for i, p := range parts {
		if p < 0 || p > 255 {
			return fmt.Errorf("colour component %d out of range", p)
		}
		rgba[i] = uint8(p)
	}
	*c = Color{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}

func (c Color) MarshalYAML() (interface{}, error) {
	return []uint8{c.R, c.G, c.B, c.A}, nil
}

func (c Color) RGBA() color.RGBA {
	return color.RGBA(c)
}

// Config holds the experiment parameters.
type Config struct {
	ProjectName string `yaml:"project_name"`

	// Window
	ScreenWidth  int  `yaml:"screen_width"`
	ScreenHeight int  `yaml:"screen_height"`
	Fullscreen   bool `yaml:"fullscreen"`
	Debug        bool `yaml:"debug"`

	// Directories
	DataDir      string `yaml:"data_dir"`
	LocalDir     string `yaml:"local_dir"`
	ResourcesDir string `yaml:"resources_dir"`
	ConfigDir    string `yaml:"config_dir"`
	DatabasePath string `yaml:"database_path"`

	// Modes
	DevelopmentMode      bool `yaml:"development_mode"`
	CaptureFiguresMode   bool `yaml:"capture_figures_mode"`
	IgnoreLocalOverrides bool `yaml:"ignore_local_overrides"`
	UseLogFile           bool `yaml:"use_log_file"`

	// Study design
	FinalCondition string   `yaml:"final_condition"`
	DefaultFigures []string `yaml:"default_figures"`
	TestSessions   []int    `yaml:"test_sessions"`

	// Look
	BackgroundColor Color `yaml:"background_color"`
	DefaultColor    Color `yaml:"default_color"`

	// Post-session questionnaire
	Likert LikertConfig `yaml:"likert"`
}

// LikertConfig describes the rating question shown after each session.
type LikertConfig struct {
	Question string `yaml:"question"`
	First    int    `yaml:"first"`
	Last     int    `yaml:"last"`
	// Width as a fraction of the screen width.
	Width float64 `yaml:"width"`
}

// Default returns the built-in parameters.
func Default() *Config {
	return &Config{
		ProjectName:     "TraceLab",
		ScreenWidth:     1024,
		ScreenHeight:    768,
		DataDir:         "ExpAssets/Data",
		LocalDir:        "ExpAssets/Local",
		ResourcesDir:    "ExpAssets/Resources",
		ConfigDir:       "ExpAssets/Config",
		DatabasePath:    "ExpAssets/TraceLab.db",
		UseLogFile:      true,
		FinalCondition:  "physical",
		TestSessions:    []int{1, 5},
		BackgroundColor: Color{R: 45, G: 45, B: 45, A: 255},
		DefaultColor:    Color{R: 255, G: 255, B: 255, A: 255},
		Likert: LikertConfig{
			Question: "How vivid was your imagery during this session?",
			First:    1,
			Last:     7,
			Width:    0.7,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("screen size %dx%d must be positive", c.ScreenWidth, c.ScreenHeight)
	}
	if c.Likert.Last-c.Likert.First < 1 {
		return fmt.Errorf("likert range [%d, %d] needs at least two items", c.Likert.First, c.Likert.Last)
	}
	if c.Likert.Width <= 0 || c.Likert.Width > 1 {
		return fmt.Errorf("likert width %v must be a fraction of the screen", c.Likert.Width)
	}
	switch c.FinalCondition {
	case "physical", "imagery", "control":
	default:
		return fmt.Errorf("unknown final condition %q", c.FinalCondition)
	}
	return nil
}

// IsTestSession reports whether session n is a testing session.
func (c *Config) IsTestSession(n int) bool {
	for _, s := range c.TestSessions {
		if s == n {
			return true
		}
	}
	return false
}

// FigureSetsFile is the shared figure set definition file.
func (c *Config) FigureSetsFile() string {
	return filepath.Join(c.ConfigDir, "figure_sets.yaml")
}

// FigureSetsLocalFile is the per-machine override of FigureSetsFile.
func (c *Config) FigureSetsLocalFile() string {
	return filepath.Join(c.LocalDir, "figure_sets.yaml")
}

// FiguresDir holds saved figure archives.
func (c *Config) FiguresDir() string {
	return filepath.Join(c.ResourcesDir, "figures")
}

// LogDir holds per-participant log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.LocalDir, "logs")
}

// Package config holds the detection settings shared by the MCP server and
// the face-skin sample.
package config

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/ironsheep/object-finder-mcp/internal/detection"
)

// EnvPath names the variable holding the JSON configuration file path.
const EnvPath = "ODF_CONFIG"

// Config holds runtime configuration for detection.
// Fields may be loaded from a JSON file and overridden by ODF_* environment
// variables or command-line flags.
type Config struct {
	// Sliding window
	WindowWidth  int     `json:"window_width"`
	WindowHeight int     `json:"window_height"`
	StepX        int     `json:"step_x"` // 0 = WindowWidth/8
	StepY        int     `json:"step_y"` // 0 = WindowHeight/8
	Threshold    float64 `json:"threshold"`

	// Tiled scanning; TileSize 0 scans in one pass.
	TileSize    int  `json:"tile_size"`
	Workers     int  `json:"workers"`
	Consolidate bool `json:"consolidate"`

	// Masks
	LuminanceLevel int     `json:"luminance_level"`
	DiffLevel      int     `json:"diff_level"`
	OpenRadius     float64 `json:"open_radius"`

	// Rendering
	HighlightColor string `json:"highlight_color"`
	Thickness      int    `json:"thickness"`

	CacheSize int `json:"cache_size"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:    30,
		WindowHeight:   30,
		Threshold:      30,
		Workers:        4,
		LuminanceLevel: 128,
		DiffLevel:      40,
		OpenRadius:     2,
		HighlightColor: "red",
		Thickness:      2,
		CacheSize:      32,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.WindowWidth <= 0 {
		c.WindowWidth = 30
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = 30
	}
	if c.StepX < 0 {
		c.StepX = 0
	}
	if c.StepY < 0 {
		c.StepY = 0
	}
	if c.Threshold < 0 || c.Threshold > 100 {
		c.Threshold = 30
	}
	if c.TileSize < 0 {
		c.TileSize = 0
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.LuminanceLevel < 0 || c.LuminanceLevel > 255 {
		c.LuminanceLevel = 128
	}
	if c.DiffLevel <= 0 || c.DiffLevel > 255 {
		c.DiffLevel = 40
	}
	if c.OpenRadius < 0 {
		c.OpenRadius = 0
	}
	if c.HighlightColor == "" {
		c.HighlightColor = "red"
	}
	if c.Thickness <= 0 {
		c.Thickness = 2
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 32
	}
	return nil
}

// Window builds the sliding window described by the configuration. Zero
// strides fall back to 1/8 of the window size.
func (c *Config) Window() *detection.SlidingWindow {
	sx, sy := detection.NewSlidingWindow(c.WindowWidth, c.WindowHeight).Step()
	if c.StepX > 0 {
		sx = c.StepX
	}
	if c.StepY > 0 {
		sy = c.StepY
	}
	return detection.NewSlidingWindowWithStep(c.WindowWidth, c.WindowHeight, sx, sy)
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ApplyEnv overrides fields from ODF_* environment variables. Unset or
// unparsable variables leave the field unchanged.
func (c *Config) ApplyEnv() {
	c.WindowWidth = getEnvAsIntOrDefault("ODF_WINDOW_WIDTH", c.WindowWidth)
	c.WindowHeight = getEnvAsIntOrDefault("ODF_WINDOW_HEIGHT", c.WindowHeight)
	c.StepX = getEnvAsIntOrDefault("ODF_STEP_X", c.StepX)
	c.StepY = getEnvAsIntOrDefault("ODF_STEP_Y", c.StepY)
	c.Threshold = getEnvAsFloatOrDefault("ODF_THRESHOLD", c.Threshold)
	c.TileSize = getEnvAsIntOrDefault("ODF_TILE_SIZE", c.TileSize)
	c.Workers = getEnvAsIntOrDefault("ODF_WORKERS", c.Workers)
	c.Consolidate = getEnvAsBoolOrDefault("ODF_CONSOLIDATE", c.Consolidate)
	c.CacheSize = getEnvAsIntOrDefault("ODF_CACHE_SIZE", c.CacheSize)
	c.HighlightColor = getEnvOrDefault("ODF_HIGHLIGHT_COLOR", c.HighlightColor)
	_ = c.Validate()
}

// FromEnv loads the file named by ODF_CONFIG (defaults when unset) and
// applies the environment overrides.
func FromEnv() (*Config, error) {
	cfg, err := Load(os.Getenv(EnvPath))
	cfg.ApplyEnv()
	return cfg, err
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

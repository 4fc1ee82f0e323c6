package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

// Config holds every setting of the application
type Config struct {
	// Addr is the address the HTTP shell listens on, empty for a headless run
	Addr string
	// Window holds the dimensions of the window the canvas fills
	Window Dimensions
	// CanvasID is the identifier the canvas surface is mounted under
	CanvasID string
	// Output is the path the rendered heatmap is written to in a headless run
	Output string
	// Players restricts a headless run to these players, empty for all
	Players []string
	// Rounds restricts a headless run to these round indices, empty for all
	Rounds []int
	// Progress enables the decoding progress bar
	Progress bool
	// Verbose enables informational diagnostics
	Verbose bool
}

// DefaultConfig returns the built-in settings
func DefaultConfig() Config {
	return Config{
		Window:   Dimensions{Width: 1024, Height: 1024},
		CanvasID: CanvasID,
		Progress: true,
	}
}

// LoadConfig returns the default settings overridden by the environment. The
// variables in envFile are loaded first (if the file exists) without
// replacing variables which are already set.
func LoadConfig(envFile string) (Config, error) {
	cfg := DefaultConfig()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("unable to load %s: %w", envFile, err)
		}
	}

	if addr := os.Getenv("HEATMAP_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if id := os.Getenv("HEATMAP_CANVAS_ID"); id != "" {
		cfg.CanvasID = id
	}

	var err error
	if cfg.Window.Width, err = envInt("HEATMAP_WIDTH", cfg.Window.Width); err != nil {
		return cfg, err
	}
	if cfg.Window.Height, err = envInt("HEATMAP_HEIGHT", cfg.Window.Height); err != nil {
		return cfg, err
	}
	if cfg.Progress, err = envBool("HEATMAP_PROGRESS", cfg.Progress); err != nil {
		return cfg, err
	}
	if cfg.Verbose, err = envBool("HEATMAP_VERBOSE", cfg.Verbose); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// BindFlags registers a command line flag for every setting, using the
// current values as defaults
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVarP(&c.Addr, "serve", "s", c.Addr, "Serve the interactive heatmap over HTTP on this address\n(e.g. \":8080\") instead of rendering a single file.")
	fs.IntVarP(&c.Window.Width, "width", "W", c.Window.Width, "Width of the window the canvas fills, in pixels.")
	fs.IntVarP(&c.Window.Height, "height", "H", c.Window.Height, "Height of the window the canvas fills, in pixels.")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "Path of the output PNG file. If omitted, the heatmap is\nwritten to DEMO_FILE.heatmap.png.")
	fs.StringSliceVarP(&c.Players, "players", "p", c.Players, "Only draw these players (comma separated names).")
	fs.IntSliceVarP(&c.Rounds, "rounds", "r", c.Rounds, "Only draw these rounds (comma separated indices,\nstarting at 0).")
	fs.BoolVar(&c.Progress, "progress", c.Progress, "Show a progress bar whilst decoding.")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "Print state changes and other diagnostics.")
	fs.StringVar(&c.CanvasID, "canvas-id", c.CanvasID, "Identifier the canvas surface is mounted under.")
}

// Validate checks that the settings can be used
func (c Config) Validate() error {
	if c.Window.IsZero() {
		return fmt.Errorf("invalid window dimensions %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.CanvasID == "" {
		return errors.New("canvas id must not be empty")
	}
	for _, r := range c.Rounds {
		if r < 0 {
			return fmt.Errorf("invalid round index %d", r)
		}
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func envBool(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

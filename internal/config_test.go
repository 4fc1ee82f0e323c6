package internal

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	flag "github.com/spf13/pflag"
)

var configKeys = []string{
	"HEATMAP_ADDR",
	"HEATMAP_CANVAS_ID",
	"HEATMAP_WIDTH",
	"HEATMAP_HEIGHT",
	"HEATMAP_PROGRESS",
	"HEATMAP_VERBOSE",
}

// clearConfigEnv unsets every configuration variable for the duration of the
// test
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Got LoadConfig() error = %v, expected a missing file to be ignored", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("Got config %+v, expected the defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HEATMAP_ADDR", ":9000")
	t.Setenv("HEATMAP_WIDTH", "640")
	t.Setenv("HEATMAP_HEIGHT", "480")
	t.Setenv("HEATMAP_PROGRESS", "false")
	t.Setenv("HEATMAP_VERBOSE", "1")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Got addr %q, expected \":9000\"", cfg.Addr)
	}
	if cfg.Window != (Dimensions{Width: 640, Height: 480}) {
		t.Errorf("Got window %v, expected 640x480", cfg.Window)
	}
	if cfg.Progress || !cfg.Verbose {
		t.Errorf("Got progress = %v, verbose = %v, expected false and true", cfg.Progress, cfg.Verbose)
	}
	if cfg.CanvasID != CanvasID {
		t.Errorf("Got canvas id %q, expected %q", cfg.CanvasID, CanvasID)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	clearConfigEnv(t)
	// variables already set win over the file
	t.Setenv("HEATMAP_WIDTH", "300")

	envFile := filepath.Join(t.TempDir(), ".env")
	contents := "HEATMAP_CANVAS_ID=heatmap\nHEATMAP_WIDTH=200\nHEATMAP_HEIGHT=100\n"
	if err := os.WriteFile(envFile, []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	cfg, err := LoadConfig(envFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.CanvasID != "heatmap" {
		t.Errorf("Got canvas id %q, expected \"heatmap\"", cfg.CanvasID)
	}
	if cfg.Window != (Dimensions{Width: 300, Height: 100}) {
		t.Errorf("Got window %v, expected 300x100", cfg.Window)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	testCases := map[string]string{
		"HEATMAP_WIDTH":   "wide",
		"HEATMAP_HEIGHT":  "1.5",
		"HEATMAP_VERBOSE": "maybe",
	}
	for key, value := range testCases {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)
			if _, err := LoadConfig(""); err == nil {
				t.Errorf("Got LoadConfig() error = nil for %s=%s, expected an error", key, value)
			}
		})
	}
}

func TestBindFlags(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("csgo-heatmap", flag.ContinueOnError)
	cfg.BindFlags(fs)

	args := []string{"-W", "640", "--height=320", "-p", "s1mple,ZywOo", "-r", "0,3", "-o", "out.png", "--progress=false", "-v", "demo.dem"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	if cfg.Window != (Dimensions{Width: 640, Height: 320}) {
		t.Errorf("Got window %v, expected 640x320", cfg.Window)
	}
	if !reflect.DeepEqual(cfg.Players, []string{"s1mple", "ZywOo"}) {
		t.Errorf("Got players %v, expected [s1mple ZywOo]", cfg.Players)
	}
	if !reflect.DeepEqual(cfg.Rounds, []int{0, 3}) {
		t.Errorf("Got rounds %v, expected [0 3]", cfg.Rounds)
	}
	if cfg.Output != "out.png" || cfg.Progress || !cfg.Verbose {
		t.Errorf("Got config %+v, expected output, progress and verbose to be set", cfg)
	}
	if !reflect.DeepEqual(fs.Args(), []string{"demo.dem"}) {
		t.Errorf("Got args %v, expected [demo.dem]", fs.Args())
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Got Validate() error = %v for the defaults, expected nil", err)
	}

	invalid := []Config{
		{Window: Dimensions{Width: -1, Height: 10}, CanvasID: CanvasID},
		{Window: Dimensions{Width: 10, Height: 10}},
		{Window: Dimensions{Width: 10, Height: 10}, CanvasID: CanvasID, Rounds: []int{2, -1}},
	}
	for _, cfg := range invalid {
		if err := cfg.Validate(); err == nil {
			t.Errorf("Got Validate() error = nil for %+v, expected an error", cfg)
		}
	}
}

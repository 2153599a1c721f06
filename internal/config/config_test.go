package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/JaimeStill/flyer-viewer/internal/config"
	"github.com/JaimeStill/flyer-viewer/pkg/logging"
)

const baseConfig = `
shutdown_timeout = "20s"

[server]
port = 9090

[logging]
level = "debug"

[storage]
base_path = "/var/lib/flyers"

[fetch]
max_size = "10MB"

[render]
min_width = 1200

[viewer]
retain_radius = 2
purge_on_close = false
`

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q, want %q", cfg.Server.Addr(), "0.0.0.0:8080")
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("ShutdownTimeoutDuration() = %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Logging.Level != logging.LevelInfo {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, logging.LevelInfo)
	}
	if cfg.Storage.BasePath != ".data/flyers" {
		t.Errorf("Storage.BasePath = %q, want %q", cfg.Storage.BasePath, ".data/flyers")
	}
	if cfg.Fetch.MaxSizeBytes() != 50_000_000 {
		t.Errorf("Fetch.MaxSizeBytes() = %d, want 50000000", cfg.Fetch.MaxSizeBytes())
	}
	if cfg.Fetch.TimeoutDuration() != 30*time.Second {
		t.Errorf("Fetch.TimeoutDuration() = %v, want 30s", cfg.Fetch.TimeoutDuration())
	}
	if cfg.Fetch.AllowLocal {
		t.Error("Fetch.AllowLocal = true, want false by default")
	}
	if cfg.Render.UpscaleFactor != 2 || cfg.Render.MinWidth != 1000 || cfg.Render.MaxWidth != 4096 {
		t.Errorf("Render = %+v, want upscale 2, min width 1000 and max width 4096", cfg.Render)
	}
	if cfg.Viewer.Radius() != 1 || cfg.Viewer.IndexStripSize != 5 || cfg.Viewer.SwipeThreshold != 48 {
		t.Errorf("Viewer = %+v, want defaults", cfg.Viewer)
	}
	if !cfg.Viewer.Purge() {
		t.Error("Viewer.Purge() = false, want true by default")
	}
}

func TestLoad_BaseFile(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, config.BaseConfigFile, baseConfig)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.ShutdownTimeoutDuration() != 20*time.Second {
		t.Errorf("ShutdownTimeoutDuration() = %v, want 20s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Logging.Level != logging.LevelDebug {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Storage.BasePath != "/var/lib/flyers" {
		t.Errorf("Storage.BasePath = %q", cfg.Storage.BasePath)
	}
	if cfg.Fetch.MaxSizeBytes() != 10_000_000 {
		t.Errorf("Fetch.MaxSizeBytes() = %d, want 10000000", cfg.Fetch.MaxSizeBytes())
	}
	if cfg.Render.MinWidth != 1200 {
		t.Errorf("Render.MinWidth = %d, want 1200", cfg.Render.MinWidth)
	}
	if cfg.Viewer.Radius() != 2 {
		t.Errorf("Viewer.Radius() = %d, want 2", cfg.Viewer.Radius())
	}
	if cfg.Viewer.Purge() {
		t.Error("Viewer.Purge() = true, want false")
	}
}

func TestLoad_Overlay(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, config.BaseConfigFile, baseConfig)
	writeFile(t, "config.staging.toml", `
[server]
host = "127.0.0.1"

[render]
upscale_factor = 3

[viewer]
retain_radius = 0
`)
	t.Setenv(config.EnvServiceEnv, "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Env() != "staging" {
		t.Errorf("Env() = %q, want staging", cfg.Env())
	}
	if cfg.Server.Addr() != "127.0.0.1:9090" {
		t.Errorf("Server.Addr() = %q, want 127.0.0.1:9090", cfg.Server.Addr())
	}
	if cfg.Render.UpscaleFactor != 3 || cfg.Render.MinWidth != 1200 {
		t.Errorf("Render = %+v, want overlay upscale with base min width", cfg.Render)
	}
	if cfg.Viewer.Radius() != 0 {
		t.Errorf("Viewer.Radius() = %d, want overlay 0", cfg.Viewer.Radius())
	}
}

func TestLoad_RetainRadiusZero(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, config.BaseConfigFile, "[viewer]\nretain_radius = 0\n")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Viewer.Radius() != 0 {
		t.Errorf("Viewer.Radius() = %d, want 0", cfg.Viewer.Radius())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, config.BaseConfigFile, baseConfig)

	t.Setenv(config.EnvServerPort, "7070")
	t.Setenv(config.EnvFetchMaxSize, "2MB")
	t.Setenv(config.EnvFetchAllowLocal, "true")
	t.Setenv(config.EnvRenderMaxWidth, "2400")
	t.Setenv(config.EnvViewerRetainRadius, "0")
	t.Setenv(config.EnvViewerSwipeThreshold, "64")
	t.Setenv(config.EnvViewerPurgeOnClose, "true")
	t.Setenv("LOGGING_FORMAT", "json")
	t.Setenv("STORAGE_BASE_PATH", "/tmp/flyers")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Fetch.MaxSizeBytes() != 2_000_000 {
		t.Errorf("Fetch.MaxSizeBytes() = %d, want 2000000", cfg.Fetch.MaxSizeBytes())
	}
	if !cfg.Fetch.AllowLocal {
		t.Error("Fetch.AllowLocal = false, want env override true")
	}
	if cfg.Render.MaxWidth != 2400 {
		t.Errorf("Render.MaxWidth = %d, want 2400", cfg.Render.MaxWidth)
	}
	if cfg.Viewer.Radius() != 0 {
		t.Errorf("Viewer.Radius() = %d, want env override 0", cfg.Viewer.Radius())
	}
	if cfg.Viewer.SwipeThreshold != 64 {
		t.Errorf("Viewer.SwipeThreshold = %v, want 64", cfg.Viewer.SwipeThreshold)
	}
	if !cfg.Viewer.Purge() {
		t.Error("Viewer.Purge() = false, want env override true")
	}
	if cfg.Logging.Format != logging.FormatJSON {
		t.Errorf("Logging.Format = %s, want json", cfg.Logging.Format)
	}
	if cfg.Storage.BasePath != "/tmp/flyers" {
		t.Errorf("Storage.BasePath = %q, want /tmp/flyers", cfg.Storage.BasePath)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", "[server\nport = 1"},
		{"bad shutdown timeout", `shutdown_timeout = "soon"`},
		{"bad port", "[server]\nport = 70000"},
		{"bad max size", "[fetch]\nmax_size = \"huge\""},
		{"bad upscale", "[render]\nupscale_factor = 0.5"},
		{"max width below min width", "[render]\nmin_width = 2000\nmax_width = 1500"},
		{"negative retain radius", "[viewer]\nretain_radius = -1"},
		{"retain radius too large", "[viewer]\nretain_radius = 4"},
		{"bad log level", "[logging]\nlevel = \"loud\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			writeFile(t, config.BaseConfigFile, tt.content)

			if _, err := config.Load(); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	purge := false
	radius := 1
	cfg := &config.Config{
		ShutdownTimeout: "30s",
		Server:          config.ServerConfig{Host: "0.0.0.0", Port: 8080},
		Viewer:          config.ViewerConfig{RetainRadius: &radius},
	}

	cfg.Merge(&config.Config{
		ShutdownTimeout: "5s",
		Server:          config.ServerConfig{Port: 9000},
		Viewer:          config.ViewerConfig{PurgeOnClose: &purge},
	})

	if cfg.ShutdownTimeout != "5s" {
		t.Errorf("ShutdownTimeout = %q, want 5s", cfg.ShutdownTimeout)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9000 {
		t.Errorf("Server = %+v, want host kept and port 9000", cfg.Server)
	}
	if cfg.Viewer.Radius() != 1 || cfg.Viewer.Purge() {
		t.Errorf("Viewer = %+v, want radius kept and purge disabled", cfg.Viewer)
	}
}

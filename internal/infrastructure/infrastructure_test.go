package infrastructure_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/flyer-viewer/internal/config"
	"github.com/JaimeStill/flyer-viewer/internal/infrastructure"
)

func TestInfrastructure_Start(t *testing.T) {
	base := filepath.Join(t.TempDir(), "flyers")

	cfg := &config.Config{}
	cfg.Storage.BasePath = base
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Logger == nil || infra.Storage == nil || infra.Lifecycle == nil {
		t.Fatalf("New() = %+v, want every system populated", infra)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	infra.Lifecycle.WaitForStartup()

	if !infra.Lifecycle.Ready() {
		t.Error("Ready() = false after WaitForStartup")
	}
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		t.Errorf("storage directory %s not created: %v", base, err)
	}

	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

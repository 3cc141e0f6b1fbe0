package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/imgrid/imgrid/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
resize = true
background = [255, 255, 255]
workers = 4
jpeg_quality = 90
`)

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile() error = %v", err)
	}
	if !cfg.Resize {
		t.Error("Resize = false, want true")
	}
	if cfg.Fill {
		t.Error("Fill = true, want false (not set)")
	}
	if len(cfg.Background) != 3 || cfg.Background[0] != 255 {
		t.Errorf("Background = %v, want [255 255 255]", cfg.Background)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.JPEGQuality != 90 {
		t.Errorf("JPEGQuality = %d, want 90", cfg.JPEGQuality)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadConfigFile() error = %v for missing file", err)
	}
	if cfg.Resize || cfg.Fill || cfg.Workers != 0 {
		t.Errorf("missing config should yield zero config, got %+v", cfg)
	}
}

func TestLoadConfigFileMalformed(t *testing.T) {
	path := writeConfig(t, `resize = "definitely`)

	_, err := loadConfigFile(path)
	if err == nil {
		t.Fatal("loadConfigFile() expected error for malformed TOML")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestLoadConfigFileBadBackground(t *testing.T) {
	path := writeConfig(t, `background = [1, 2]`)

	_, err := loadConfigFile(path)
	if err == nil {
		t.Fatal("loadConfigFile() expected error for 2-element background")
	}
	if !errors.Is(err, errors.ErrCodeInvalidBackground) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidBackground)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *settings != *DefaultSettings() {
		t.Errorf("Load() = %+v, want defaults", settings)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"hsmusic": true, "output_dir": "/srv/art"}`), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !settings.HSMusic {
		t.Error("HSMusic should be read from the file")
	}
	if settings.OutputDir != "/srv/art" {
		t.Errorf("OutputDir = %q, want %q", settings.OutputDir, "/srv/art")
	}
	if settings.MaxConcurrentPages != DefaultSettings().MaxConcurrentPages {
		t.Errorf("MaxConcurrentPages = %d, want default", settings.MaxConcurrentPages)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestSettings_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	settings := DefaultSettings()
	settings.Overwrite = true
	if err := settings.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.Overwrite {
		t.Error("Overwrite should survive Save and Load")
	}
}

func TestSettings_ApplyEnv(t *testing.T) {
	t.Setenv("BANDCAMP_ART_OUTPUT_DIR", "/env/art")
	t.Setenv("BANDCAMP_ART_HSMUSIC", "true")
	t.Setenv("BANDCAMP_ART_MAX_CONCURRENT_PAGES", "8")
	t.Setenv("BANDCAMP_ART_TIMEOUT", "2.5")

	settings := DefaultSettings()
	if err := settings.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if settings.OutputDir != "/env/art" {
		t.Errorf("OutputDir = %q, want %q", settings.OutputDir, "/env/art")
	}
	if !settings.HSMusic {
		t.Error("HSMusic should be set from the environment")
	}
	if settings.MaxConcurrentPages != 8 {
		t.Errorf("MaxConcurrentPages = %d, want 8", settings.MaxConcurrentPages)
	}
	if settings.Timeout() != 2500*time.Millisecond {
		t.Errorf("Timeout() = %v, want 2.5s", settings.Timeout())
	}
}

func TestSettings_ApplyEnvInvalidValue(t *testing.T) {
	t.Setenv("BANDCAMP_ART_OVERWRITE", "sometimes")

	settings := DefaultSettings()
	if err := settings.ApplyEnv(); err == nil {
		t.Error("expected an error for an invalid boolean")
	}
	if settings.Overwrite {
		t.Error("Overwrite should keep its previous value")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("BANDCAMP_ART_USER_AGENT=dotenv-agent\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BANDCAMP_ART_USER_AGENT", "")
	os.Unsetenv("BANDCAMP_ART_USER_AGENT")

	if err := LoadDotEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}

	settings := DefaultSettings()
	if err := settings.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if settings.UserAgent != "dotenv-agent" {
		t.Errorf("UserAgent = %q, want %q", settings.UserAgent, "dotenv-agent")
	}
}

func TestSettings_ToNamingConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.HSMusic = true

	cfg := settings.ToNamingConfig()
	if !cfg.HSMusic {
		t.Error("HSMusic should carry over")
	}
	if cfg.TrackNumbers {
		t.Error("TrackNumbers should be off in HSMusic mode")
	}
}

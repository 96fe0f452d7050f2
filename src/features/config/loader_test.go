package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
soundcloud:
  auth_token: "1-1111-1111111"
downloads:
  path: ` + filepath.Join(dir, "downloads") + `
database:
  path: ` + filepath.Join(dir, "tracks.db") + `
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	manager, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	cfg := manager.Get()
	if cfg.SoundCloud.ExploreSongs != 25 {
		t.Errorf("expected default explore_songs 25, got %d", cfg.SoundCloud.ExploreSongs)
	}
	if cfg.SoundCloud.StreamPref != "progressive" {
		t.Errorf("expected default stream_pref progressive, got %q", cfg.SoundCloud.StreamPref)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("expected default cache backend memory, got %q", cfg.Cache.Backend)
	}
	if cfg.Server.Port != 3636 {
		t.Errorf("expected default port 3636, got %d", cfg.Server.Port)
	}
	if _, err := os.Stat(cfg.Downloads.Path); err != nil {
		t.Errorf("expected downloads dir to be created: %v", err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadCreatesDefaultConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")

	if _, err := Load(path); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config file to be written: %v", err)
	}
}

func TestLoadEnvOverridesToken(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	yaml := `
soundcloud:
  auth_token: "from-file"
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SOUNDCLOUD_AUTH_TOKEN", "1-2222-2222222")

	manager, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := manager.Get().SoundCloud.AuthToken; got != "1-2222-2222222" {
		t.Errorf("expected env token to win, got %q", got)
	}
}

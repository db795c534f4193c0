package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveConfigPathPrefersXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "reagent")
	if err := os.MkdirAll(cfgDir, 0o700); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(cfgDir, "reagent.yaml")
	if err := os.WriteFile(cfgPath, []byte("version: \"1\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveConfigPath()
	if err != nil {
		t.Fatalf("ResolveConfigPath: %v", err)
	}
	if got != cfgPath {
		t.Errorf("path = %q, want %q", got, cfgPath)
	}
}

func TestResolveConfigPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	t.Chdir(t.TempDir())

	if _, err := ResolveConfigPath(); err == nil {
		t.Error("ResolveConfigPath() error = nil, want not-found error")
	}
}

func TestDefaultDataDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	got := DefaultDataDir()
	if !strings.HasSuffix(got, filepath.Join("xdg-data", "reagent")) {
		t.Errorf("DefaultDataDir() = %q", got)
	}
}

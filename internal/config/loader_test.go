package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reagent.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Basic(t *testing.T) {
	path := writeConfig(t, `
version: "1"
modules:
  provider.openai:
    model: gpt-4o
  tool.searx:
    instance_url: http://localhost:8888/search
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != "1" {
		t.Errorf("Version = %q, want \"1\"", cfg.Version)
	}
	if len(cfg.Modules) != 2 {
		t.Errorf("len(Modules) = %d, want 2", len(cfg.Modules))
	}
	if _, ok := cfg.Modules["provider.openai"]; !ok {
		t.Error("missing provider.openai module entry")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("REAGENT_TEST_KEY", "sk-value-from-env")

	path := writeConfig(t, `
version: "1"
modules:
  provider.openai:
    api_key: ${REAGENT_TEST_KEY}
    model: ${REAGENT_TEST_MODEL:-gpt-4o}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	node := cfg.Modules["provider.openai"]
	var decoded struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	}
	if err := node.Decode(&decoded); err != nil {
		t.Fatalf("decode module config: %v", err)
	}
	if decoded.APIKey != "sk-value-from-env" {
		t.Errorf("api_key = %q, want env value", decoded.APIKey)
	}
	if decoded.Model != "gpt-4o" {
		t.Errorf("model = %q, want default gpt-4o", decoded.Model)
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	path := writeConfig(t, `
version: "1"
modules:
  provider.openai:
    api_key: ${REAGENT_DEFINITELY_UNSET_VAR}
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unresolved variable")
	}
	if !strings.Contains(err.Error(), "REAGENT_DEFINITELY_UNSET_VAR") {
		t.Errorf("error %q does not name the unresolved variable", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name:    "missing version",
			cfg:     &Config{},
			wantErr: "version field is required",
		},
		{
			name:    "unsupported version",
			cfg:     &Config{Version: "2"},
			wantErr: "unsupported version",
		},
		{
			name:    "no modules",
			cfg:     &Config{Version: "1"},
			wantErr: "at least one module",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tc.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}

// Package app provides the shared entry point for the reagent binary.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flemzord/reagent/internal/config"
	"github.com/flemzord/reagent/internal/core"
	"github.com/flemzord/reagent/internal/security"
)

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string

	// DataDir overrides the default persistent data directory.
	DataDir string

	// LogLevel sets the minimum log level. Defaults to slog.LevelInfo.
	LogLevel slog.Level
}

// Run loads configuration, starts all modules, and blocks until a
// shutdown signal is received.
func Run(params RunParams) error {
	application, _, err := Build(params)
	if err != nil {
		return err
	}
	return application.Run()
}

// Build loads configuration and provisions every configured module
// without starting anything. Callers that need module services before
// the lifecycle begins (the ask command) use Build directly.
func Build(params RunParams) (*core.App, *core.AppContext, error) {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return nil, nil, err
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}

	logger := NewLogger(os.Stderr, params.LogLevel)

	dataDir := params.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	appCtx := core.NewAppContext(logger, dataDir)
	appCtx = appCtx.WithModuleConfigs(cfg.Modules)
	appCtx.RegisterService("config.path", cfgPath)

	application := core.NewApp(appCtx)
	if err := application.LoadModules(config.Resolve(cfg)); err != nil {
		return nil, nil, err
	}

	return application, appCtx, nil
}

// NewLogger builds the application logger: a text handler wrapped in a
// redacting handler so credentials never reach the log stream.
func NewLogger(w *os.File, level slog.Level) *slog.Logger {
	redactor := security.NewRedactor()
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(security.NewRedactingHandler(inner, redactor))
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/reagent/reagent.yaml →
// ~/.config/reagent/reagent.yaml → ./reagent.yaml
func ResolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "reagent", "reagent.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "reagent", "reagent.yaml"))
	}

	candidates = append(candidates, "reagent.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

// DefaultDataDir returns the default persistent data directory.
// Uses $XDG_DATA_HOME/reagent if set, otherwise ~/.local/share/reagent.
func DefaultDataDir() string {
	if dir, ok := os.LookupEnv("XDG_DATA_HOME"); ok {
		return filepath.Join(dir, "reagent")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "reagent")
}

// Package cli implements the tressel command set.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tressel-dev/tressel/internal/logger"
	"github.com/tressel-dev/tressel/pkg/config"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/installer"
	"github.com/tressel-dev/tressel/pkg/orchestrator"
	"github.com/tressel-dev/tressel/pkg/registry"
	"github.com/tressel-dev/tressel/pkg/resolve"
	"github.com/tressel-dev/tressel/pkg/retry"
	"github.com/tressel-dev/tressel/pkg/script"
	"github.com/tressel-dev/tressel/pkg/store"
)

// These variables are set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
	Directory  *string
)

// StoreDir is the per-project directory holding downloaded packages.
const StoreDir = ".tressel/store"

func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default config path")
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel)
	return cfg, nil
}

func projectDir() (string, error) {
	if Directory != nil && *Directory != "" {
		abs, err := filepath.Abs(*Directory)
		if err != nil {
			return "", errors.Wrap(err, "failed to resolve project directory")
		}
		return abs, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get working directory")
	}
	return dir, nil
}

// buildOrchestrator wires the registry client, resolver, store and installer
// for one project directory. concurrency overrides the configured download
// limit when positive.
func buildOrchestrator(cfg *config.Config, dir string, concurrency int) (*orchestrator.Orchestrator, error) {
	if concurrency <= 0 {
		concurrency = cfg.Settings.MaxConcurrent
	}
	policy := retry.Policy{Attempts: cfg.Settings.RetryAttempts, Delay: 500 * time.Millisecond}

	client := registry.NewClient(cfg.RegistryURL(), cfg.Settings.HTTPTimeout, cfg.TokenFor)
	resolver := resolve.NewResolver(client, policy)

	pkgStore, err := store.New(filepath.Join(dir, StoreDir), client, concurrency, policy)
	if err != nil {
		return nil, err
	}

	modulesDir := filepath.Join(dir, "node_modules")
	inst := installer.New(pkgStore, script.NewShellRunner(), modulesDir, installer.Hooks{
		OnEvent: printInstallerEvent,
	})

	orch := orchestrator.New(resolver, client, inst, pkgStore, dir, orchestrator.Hooks{
		OnEvent: printOrchestratorEvent,
	})
	orch.DisallowScripts = cfg.Settings.DisallowInstallScripts
	return orch, nil
}

func printOrchestratorEvent(e orchestrator.Event) {
	if e.Msg != "" {
		fmt.Printf("%s: %s\n", e.Phase, e.Msg)
	} else {
		fmt.Printf("%s\n", e.Phase)
	}
}

func printInstallerEvent(e installer.Event) {
	switch {
	case e.ID != "":
		fmt.Printf("  %s %s\n", e.Phase, e.ID)
	case e.Msg != "":
		fmt.Printf("  %s: %s\n", e.Phase, e.Msg)
	}
}

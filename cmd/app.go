package cmd

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/OliveiraNt/offset-scout/internal/application"
	"github.com/OliveiraNt/offset-scout/internal/infrastructure/kafka"
	"github.com/OliveiraNt/offset-scout/internal/infrastructure/repository"
	"github.com/OliveiraNt/offset-scout/internal/metrics"
	"github.com/OliveiraNt/offset-scout/internal/utils"
)

// app holds the wired layers shared by every command.
type app struct {
	repo    *repository.ClusterRepository
	svc     *application.Service
	bridge  *application.Bridge
	metrics *metrics.Registry
}

func newApp(configPath string) (*app, error) {
	repo := repository.NewClusterRepository(configPath)
	if err := repo.LoadFromFile(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		utils.Logger.Debug("config file not found, using defaults", "path", configPath)
	}

	cfg := repo.Config()
	engine := application.NewEngine(kafka.NewFactory(repo), cfg.Settings.FanoutLimit)
	svc := application.NewService(engine, cfg)
	repo.OnReload(svc.ApplyConfig)

	reg := metrics.NewRegistry(metrics.DefaultOptions())
	utils.Logger.Debug("application initialized", "config", configPath, "clusters", len(cfg.Clusters))

	return &app{
		repo:    repo,
		svc:     svc,
		bridge:  application.NewBridge(svc, reg),
		metrics: reg,
	}, nil
}

func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		utils.Logger.Warn("closing config watcher failed", "err", err)
	}
}

func configCandidates() []string {
	const dir = "offset-scout"
	names := []string{"config.yml", "config.yaml"}
	var candidates []string

	for _, n := range names {
		candidates = append(candidates, "./"+n)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		for _, n := range names {
			candidates = append(candidates, filepath.Join(xdg, dir, n))
		}
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		for _, n := range names {
			candidates = append(candidates, filepath.Join(home, ".config", dir, n))
		}
	}
	for _, n := range names {
		candidates = append(candidates, filepath.Join("/etc", dir, n))
	}
	return candidates
}

// findConfigPath returns the first existing candidate, or ./config.yml.
func findConfigPath() string {
	for _, p := range configCandidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "./config.yml"
}

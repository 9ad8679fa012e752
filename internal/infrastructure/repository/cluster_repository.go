package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/utils"
	"github.com/fsnotify/fsnotify"
)

// ErrClusterNotFound is returned when removing a cluster the config does not name.
var ErrClusterNotFound = errors.New("cluster not found")

const debounceDelay = 350 * time.Millisecond

// ClusterRepository holds the file configuration and resolves request hosts onto cluster
// settings. The configuration is swapped wholesale on reload.
type ClusterRepository struct {
	mu         sync.RWMutex
	configData config.FileConfig
	configPath string
	watcher    *fsnotify.Watcher
	listeners  []func(config.FileConfig)
}

var _ domain.ClusterResolver = (*ClusterRepository)(nil)

// NewClusterRepository creates a new cluster repository
func NewClusterRepository(configPath string) *ClusterRepository {
	return &ClusterRepository{configPath: configPath}
}

// Path returns the backing config file path.
func (r *ClusterRepository) Path() string {
	return r.configPath
}

// LoadFromFile loads configuration from file
func (r *ClusterRepository) LoadFromFile() error {
	cfg, err := config.ReadConfig(r.configPath)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.configData = cfg
	listeners := append([]func(config.FileConfig){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(cfg)
	}
	return nil
}

// OnReload registers fn to run after every successful load.
func (r *ClusterRepository) OnReload(fn func(config.FileConfig)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Config returns a copy of the current configuration.
func (r *ClusterRepository) Config() config.FileConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg := r.configData
	cfg.Clusters = append([]config.ClusterConfig(nil), r.configData.Clusters...)
	return cfg
}

// Resolve maps host onto a configured cluster by name. Unknown hosts are treated as a
// broker list and dialed with the default driver.
func (r *ClusterRepository) Resolve(host string) config.ClusterConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def := r.configData.Settings.DefaultDriver
	if c, ok := r.configData.FindCluster(host); ok {
		c.Driver = c.DriverOrDefault(def)
		return c
	}
	return config.ClusterConfig{
		Name:    host,
		Brokers: config.ParseHost(host),
		Driver:  config.ClusterConfig{}.DriverOrDefault(def),
	}
}

// FindAll retrieves all cluster configurations
func (r *ClusterRepository) FindAll() []config.ClusterConfig {
	return r.Config().Clusters
}

// Save creates or replaces a named cluster and persists the file.
func (r *ClusterRepository) Save(cfg config.ClusterConfig) error {
	if cfg.Name == "" || len(cfg.Brokers) == 0 {
		return fmt.Errorf("%w: cluster needs a name and at least one broker", domain.ErrInvalidRequest)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i := range r.configData.Clusters {
		if r.configData.Clusters[i].Name == cfg.Name {
			r.configData.Clusters[i] = cfg
			found = true
			break
		}
	}
	if !found {
		r.configData.Clusters = append(r.configData.Clusters, cfg)
	}
	return r.writeToFile()
}

// Delete removes a cluster configuration by name
func (r *ClusterRepository) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.configData.Clusters {
		if r.configData.Clusters[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrClusterNotFound
	}
	r.configData.Clusters = append(r.configData.Clusters[:idx], r.configData.Clusters[idx+1:]...)
	return r.writeToFile()
}

// Watch sets a fsnotify watcher on the file for hot reload
func (r *ClusterRepository) Watch() error {
	abs, err := filepath.Abs(r.configPath)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory so editors that replace the file via rename keep triggering.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return err
	}

	r.mu.Lock()
	r.watcher = w
	r.mu.Unlock()

	go r.watchLoop(w, abs)
	return nil
}

func (r *ClusterRepository) watchLoop(w *fsnotify.Watcher, abs string) {
	reload := func() {
		for i := 0; i < 10; i++ {
			if _, err := os.Stat(abs); err == nil {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}

		utils.Logger.Info("config file changed", "path", abs)
		if err := r.LoadFromFile(); err != nil {
			utils.Logger.Error("failed to reload config", "path", abs, "err", err)
		}
	}

	var timer *time.Timer
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Name != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(debounceDelay, reload)
			} else {
				timer.Reset(debounceDelay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			utils.Logger.Warn("fsnotify error", "err", err)
		}
	}
}

// Close stops the file watcher.
func (r *ClusterRepository) Close() error {
	r.mu.Lock()
	w := r.watcher
	r.watcher = nil
	r.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}

// writeToFile persists current in-memory config to file
func (r *ClusterRepository) writeToFile() error {
	dir := filepath.Dir(r.configPath)
	_ = os.MkdirAll(dir, 0755)
	return config.WriteConfig(r.configPath, r.configData)
}

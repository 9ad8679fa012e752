package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

const sampleConfig = `clusters:
  - name: dev
    brokers: ["localhost:9092"]
  - name: legacy
    brokers: ["old-1:9092", "old-2:9092"]
    driver: kafka-go
timeouts:
  topic_list:
    initial_ms: 2000
    increment_ms: 500
    max_tries: 4
settings:
  fanout_limit: 8
  default_driver: franz
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFileAndResolve(t *testing.T) {
	t.Parallel()
	repo := NewClusterRepository(writeConfig(t, sampleConfig))
	require.NoError(t, repo.LoadFromFile())

	dev := repo.Resolve("dev")
	require.Equal(t, []string{"localhost:9092"}, dev.Brokers)
	require.Equal(t, config.DriverFranz, dev.Driver)

	legacy := repo.Resolve("legacy")
	require.Equal(t, config.DriverKafkaGo, legacy.Driver)
	require.Len(t, legacy.Brokers, 2)

	adhoc := repo.Resolve("kafka://b1:9092,b2:9092")
	require.Equal(t, "kafka://b1:9092,b2:9092", adhoc.Name)
	require.Equal(t, []string{"b1:9092", "b2:9092"}, adhoc.Brokers)
	require.Equal(t, config.DriverFranz, adhoc.Driver)

	cfg := repo.Config()
	require.Equal(t, 8, cfg.Settings.FanoutLimit)
	require.Equal(t, 4, cfg.TimeoutFor(config.SiteTopicList).MaxTries)
}

func TestResolveWithoutConfig(t *testing.T) {
	t.Parallel()
	repo := NewClusterRepository(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, repo.LoadFromFile())

	got := repo.Resolve("localhost:9092")
	require.Equal(t, []string{"localhost:9092"}, got.Brokers)
	require.Equal(t, config.DriverFranz, got.Driver)
}

func TestSaveDelete(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	repo := NewClusterRepository(path)

	require.ErrorIs(t, repo.Save(config.ClusterConfig{Name: "empty"}), domain.ErrInvalidRequest)
	require.NoError(t, repo.Save(config.ClusterConfig{Name: "dev", Brokers: []string{"localhost:9092"}}))
	require.NoError(t, repo.Save(config.ClusterConfig{Name: "prod", Brokers: []string{"kafka:9092"}}))
	require.NoError(t, repo.Save(config.ClusterConfig{Name: "dev", Brokers: []string{"localhost:9093"}}))
	require.Len(t, repo.FindAll(), 2)

	reread := NewClusterRepository(path)
	require.NoError(t, reread.LoadFromFile())
	require.Equal(t, []string{"localhost:9093"}, reread.Resolve("dev").Brokers)

	require.NoError(t, repo.Delete("dev"))
	require.ErrorIs(t, repo.Delete("dev"), ErrClusterNotFound)
	all := repo.FindAll()
	require.Len(t, all, 1)
	require.Equal(t, "prod", all[0].Name)
}

func TestWatchReloads(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, sampleConfig)
	repo := NewClusterRepository(path)
	require.NoError(t, repo.LoadFromFile())

	reloaded := make(chan config.FileConfig, 4)
	repo.OnReload(func(cfg config.FileConfig) { reloaded <- cfg })

	require.NoError(t, repo.Watch())
	t.Cleanup(func() { _ = repo.Close() })

	updated := "clusters:\n  - name: dev\n    brokers: [\"localhost:19092\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case cfg := <-reloaded:
		require.Len(t, cfg.Clusters, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
	require.Equal(t, []string{"localhost:19092"}, repo.Resolve("dev").Brokers)
}

package kafka

import (
	"context"
	"os"
	"testing"

	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/testutil"
	"github.com/OliveiraNt/offset-scout/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func TestFactoryOpen_NoBrokers(t *testing.T) {
	t.Parallel()
	f := NewFactory(testutil.StaticResolver{})

	_, err := f.Open(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestFactoryOpen_UnknownDriver(t *testing.T) {
	t.Parallel()
	f := NewFactory(testutil.StaticResolver{Cluster: config.ClusterConfig{
		Brokers: []string{"localhost:9092"},
		Driver:  "sarama",
	}})

	_, err := f.Open(context.Background(), "dev")
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	require.Contains(t, err.Error(), "sarama")
}

func TestFactoryOpen_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, driver := range []string{config.DriverFranz, config.DriverKafkaGo} {
		f := NewFactory(testutil.StaticResolver{Cluster: config.ClusterConfig{
			Brokers:       []string{"127.0.0.1:1"},
			Driver:        driver,
			DialTimeoutMs: 200,
		}})
		_, err := f.Open(ctx, "unreachable")
		require.Error(t, err, driver)
	}
}

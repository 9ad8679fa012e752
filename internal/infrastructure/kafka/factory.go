package kafka

import (
	"context"
	"fmt"

	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/infrastructure/kafkago"
)

// Factory opens a fresh broker connection per call, picking the driver configured for the
// resolved cluster.
type Factory struct {
	resolver domain.ClusterResolver
}

var _ domain.ConnFactory = (*Factory)(nil)

// NewFactory creates a new connection factory.
func NewFactory(resolver domain.ClusterResolver) *Factory {
	return &Factory{resolver: resolver}
}

// Open resolves host and dials it with the cluster's driver.
func (f *Factory) Open(ctx context.Context, host string) (domain.BrokerConn, error) {
	cfg := f.resolver.Resolve(host)
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("%w: host %q has no brokers", domain.ErrInvalidRequest, host)
	}

	switch driver := cfg.DriverOrDefault(""); driver {
	case config.DriverFranz:
		return NewClient(ctx, cfg)
	case config.DriverKafkaGo:
		return kafkago.NewConn(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown driver %q for host %q", domain.ErrInvalidRequest, driver, host)
	}
}

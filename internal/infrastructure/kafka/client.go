package kafka

import (
	"context"
	"fmt"

	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/utils"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Client implements domain.BrokerConn using franz-go. It owns its kgo client and is
// closed after a single call.
type Client struct {
	client *kgo.Client
	admin  AdminClient
	host   string
}

var _ domain.BrokerConn = (*Client)(nil)

// NewClient opens a franz-go client for cfg and pings it so an unreachable cluster fails
// with a Connection error here rather than as a slow retry loop later.
func NewClient(ctx context.Context, cfg config.ClusterConfig) (*Client, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DialTimeout(cfg.DialTimeout()),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: tls: %w", domain.ErrConnection, err)
	}
	if tlsCfg != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConnection, cfg.Name, err)
	}
	utils.Logger.Debug("broker connection opened", "driver", config.DriverFranz, "host", cfg.Name)

	return &Client{client: cl, admin: kadm.NewClient(cl), host: cfg.Name}, nil
}

// TopicMetadata returns validated topic metadata.
func (c *Client) TopicMetadata(ctx context.Context, includeInternal bool, topics ...string) ([]domain.TopicMetadata, error) {
	return ListTopicMetadata(ctx, c.admin, includeInternal, topics...)
}

// EarliestOffset returns the log start offset of a partition.
func (c *Client) EarliestOffset(ctx context.Context, topic string, partition int32) (int64, error) {
	listed, err := c.admin.ListStartOffsets(ctx, topic)
	if err != nil {
		return 0, classify(ctx, err)
	}
	return LookupOffset(ctx, listed, topic, partition)
}

// LatestOffset returns the high watermark of a partition.
func (c *Client) LatestOffset(ctx context.Context, topic string, partition int32) (int64, error) {
	listed, err := c.admin.ListEndOffsets(ctx, topic)
	if err != nil {
		return 0, classify(ctx, err)
	}
	return LookupOffset(ctx, listed, topic, partition)
}

// Close releases resources
func (c *Client) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

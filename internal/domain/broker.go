package domain

import (
	"context"

	"github.com/OliveiraNt/offset-scout/internal/config"
)

// BrokerConn is one open connection to a broker cluster. Every method honors ctx
// cancellation; a cancelled call returns ctx.Err().
type BrokerConn interface {
	// TopicMetadata returns metadata for the given topics, or for every topic when none are
	// named. Internal topics are only included when includeInternal is set.
	TopicMetadata(ctx context.Context, includeInternal bool, topics ...string) ([]TopicMetadata, error)
	EarliestOffset(ctx context.Context, topic string, partition int32) (int64, error)
	LatestOffset(ctx context.Context, topic string, partition int32) (int64, error)
	Close()
}

// ConnFactory opens broker connections. Connections are never pooled: each call gets its
// own and closes it.
type ConnFactory interface {
	Open(ctx context.Context, host string) (BrokerConn, error)
}

// ClusterResolver maps a request host onto cluster connectivity settings.
type ClusterResolver interface {
	Resolve(host string) config.ClusterConfig
}

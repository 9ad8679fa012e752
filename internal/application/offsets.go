package application

import (
	"context"

	"github.com/OliveiraNt/offset-scout/internal/domain"
)

// OffsetAccessor reads single partition offsets. Each call opens and closes its own broker
// connection, so earliest and latest lookups can run side by side.
type OffsetAccessor struct {
	conns domain.ConnFactory
}

// NewOffsetAccessor creates a new offset accessor.
func NewOffsetAccessor(conns domain.ConnFactory) *OffsetAccessor {
	return &OffsetAccessor{conns: conns}
}

// EarliestOffset returns the first retained offset of a partition.
func (a *OffsetAccessor) EarliestOffset(ctx context.Context, host, topic string, partition int32) (int64, error) {
	conn, err := a.conns.Open(ctx, host)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	return conn.EarliestOffset(ctx, topic, partition)
}

// LatestOffset returns the high watermark of a partition.
func (a *OffsetAccessor) LatestOffset(ctx context.Context, host, topic string, partition int32) (int64, error) {
	conn, err := a.conns.Open(ctx, host)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	return conn.LatestOffset(ctx, topic, partition)
}

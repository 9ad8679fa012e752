// Package kafkago implements domain.BrokerConn on top of segmentio/kafka-go. It speaks the
// same metadata and offset calls as the franz-go driver through kafka.Client, whose
// transport routes every offset request to the partition leader.
package kafkago

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/utils"
	"github.com/segmentio/kafka-go"
)

// Conn is a kafka-go client bound to the brokers of one cluster. Metadata requests never
// ask the broker to auto-create topics.
type Conn struct {
	client    *kafka.Client
	transport *kafka.Transport
	host      string
}

var _ domain.BrokerConn = (*Conn)(nil)

// NewConn builds a client for cfg and checks that a broker answers.
func NewConn(ctx context.Context, cfg config.ClusterConfig) (*Conn, error) {
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: tls: %w", domain.ErrConnection, err)
	}
	transport := &kafka.Transport{
		DialTimeout: cfg.DialTimeout(),
		ClientID:    cfg.ClientID,
		TLS:         tlsCfg,
	}
	c := &Conn{
		client:    &kafka.Client{Addr: kafka.TCP(cfg.Brokers...), Transport: transport},
		transport: transport,
		host:      cfg.Name,
	}

	if _, err := c.client.ApiVersions(ctx, &kafka.ApiVersionsRequest{}); err != nil {
		c.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConnection, cfg.Name, err)
	}
	utils.Logger.Debug("broker connection opened", "driver", config.DriverKafkaGo, "host", cfg.Name)
	return c, nil
}

// TopicMetadata returns validated topic metadata ordered by topic name.
func (c *Conn) TopicMetadata(ctx context.Context, includeInternal bool, topics ...string) ([]domain.TopicMetadata, error) {
	res, err := c.client.Metadata(ctx, &kafka.MetadataRequest{Topics: topics})
	if err != nil {
		return nil, classify(ctx, err)
	}
	return toTopicMetadata(ctx, res.Topics, includeInternal, topics)
}

// EarliestOffset returns the first offset of a partition.
func (c *Conn) EarliestOffset(ctx context.Context, topic string, partition int32) (int64, error) {
	po, err := c.listOffset(ctx, topic, kafka.FirstOffsetOf(int(partition)))
	if err != nil {
		return 0, err
	}
	return po.FirstOffset, nil
}

// LatestOffset returns the high watermark of a partition.
func (c *Conn) LatestOffset(ctx context.Context, topic string, partition int32) (int64, error) {
	po, err := c.listOffset(ctx, topic, kafka.LastOffsetOf(int(partition)))
	if err != nil {
		return 0, err
	}
	return po.LastOffset, nil
}

func (c *Conn) listOffset(ctx context.Context, topic string, req kafka.OffsetRequest) (kafka.PartitionOffsets, error) {
	res, err := c.client.ListOffsets(ctx, &kafka.ListOffsetsRequest{
		Topics: map[string][]kafka.OffsetRequest{topic: {req}},
	})
	if err != nil {
		return kafka.PartitionOffsets{}, fmt.Errorf("partition %s/%d: %w", topic, req.Partition, classify(ctx, err))
	}
	return partitionOffsets(ctx, res, topic, req.Partition)
}

// Close drops the transport's idle broker connections.
func (c *Conn) Close() {
	if c != nil && c.transport != nil {
		c.transport.CloseIdleConnections()
	}
}

func partitionOffsets(ctx context.Context, res *kafka.ListOffsetsResponse, topic string, partition int) (kafka.PartitionOffsets, error) {
	for _, po := range res.Topics[topic] {
		if po.Partition != partition {
			continue
		}
		if po.Error != nil {
			return kafka.PartitionOffsets{}, fmt.Errorf("partition %s/%d: %w", topic, partition, classify(ctx, po.Error))
		}
		return po, nil
	}
	return kafka.PartitionOffsets{}, fmt.Errorf("%w: partition %s/%d", domain.ErrNotFound, topic, partition)
}

func toTopicMetadata(ctx context.Context, topics []kafka.Topic, includeInternal bool, named []string) ([]domain.TopicMetadata, error) {
	byName := make(map[string]domain.TopicMetadata, len(topics))
	for _, t := range topics {
		if t.Error != nil {
			return nil, fmt.Errorf("topic %q: %w", t.Name, classify(ctx, t.Error))
		}
		md := domain.TopicMetadata{Name: t.Name, Internal: t.Internal}
		for _, p := range t.Partitions {
			if p.Error != nil && !errors.Is(p.Error, kafka.ReplicaNotAvailable) {
				return nil, fmt.Errorf("topic %q partition %d: %w", t.Name, p.ID, classify(ctx, p.Error))
			}
			md.Partitions = append(md.Partitions, domain.PartitionMetadata{
				ID:       int32(p.ID),
				Leader:   int32(p.Leader.ID),
				Replicas: brokerIDs(p.Replicas),
				ISR:      brokerIDs(p.Isr),
			})
		}
		byName[t.Name] = md
	}

	for _, name := range named {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("%w: topic %q", domain.ErrNotFound, name)
		}
	}

	names := make([]string, 0, len(byName))
	for name, md := range byName {
		if md.Internal && !includeInternal && len(named) == 0 {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]domain.TopicMetadata, 0, len(names))
	for _, name := range names {
		md := byName[name]
		if err := md.Validate(); err != nil {
			return nil, err
		}
		out = append(out, md)
	}
	return out, nil
}

func brokerIDs(bs []kafka.Broker) []int32 {
	if len(bs) == 0 {
		return nil
	}
	out := make([]int32, len(bs))
	for i, b := range bs {
		out[i] = int32(b.ID)
	}
	return out
}

// classify maps kafka-go errors onto domain kinds. Context errors pass through.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var ke kafka.Error
	switch {
	case errors.Is(err, kafka.UnknownTopicOrPartition):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.As(err, &ke) && ke.Temporary():
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	case errors.As(err, &ke):
		return fmt.Errorf("%w: %w", domain.ErrProtocol, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
}

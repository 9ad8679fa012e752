package application

import (
	"context"
	"fmt"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/utils"
)

// Engine composes offset and metadata reads into message count aggregates. Every aggregate
// is all-or-nothing: the first failing constituent fails the whole call.
type Engine struct {
	meta    *MetadataFetcher
	offsets *OffsetAccessor
	fanout  int
}

// NewEngine creates an engine over conns. fanout bounds concurrent calls per join, 0 means
// unbounded.
func NewEngine(conns domain.ConnFactory, fanout int) *Engine {
	return &Engine{
		meta:    NewMetadataFetcher(conns),
		offsets: NewOffsetAccessor(conns),
		fanout:  fanout,
	}
}

// PartitionOffsets fetches the earliest and latest offsets of a partition concurrently.
func (e *Engine) PartitionOffsets(ctx context.Context, host, topic string, partition int32) (domain.PartitionOffsets, error) {
	if err := validatePartition(host, topic, partition); err != nil {
		return domain.PartitionOffsets{}, err
	}

	offs, err := FailFast(ctx, topic+"/offsets", 2, 0, func(ctx context.Context, i int) (int64, error) {
		if i == 0 {
			return e.offsets.EarliestOffset(ctx, host, topic, partition)
		}
		return e.offsets.LatestOffset(ctx, host, topic, partition)
	})
	if err != nil {
		return domain.PartitionOffsets{}, err
	}

	po := domain.PartitionOffsets{Topic: topic, Partition: partition, Earliest: offs[0], Latest: offs[1]}
	if po.MessageCount() < 0 {
		utils.Logger.Warn("broker reported latest offset below earliest",
			"host", host, "topic", topic, "partition", partition, "earliest", po.Earliest, "latest", po.Latest)
	}
	return po, nil
}

// PartitionMessageCount returns latest minus earliest for one partition.
func (e *Engine) PartitionMessageCount(ctx context.Context, host, topic string, partition int32) (int64, error) {
	po, err := e.PartitionOffsets(ctx, host, topic, partition)
	if err != nil {
		return 0, err
	}
	return po.MessageCount(), nil
}

// TopicMessageCount sums the message counts of partitions [0, partitionCount).
func (e *Engine) TopicMessageCount(ctx context.Context, host, topic string, partitionCount int) (int64, error) {
	if err := validateTopic(host, topic); err != nil {
		return 0, err
	}
	if partitionCount < 0 {
		return 0, fmt.Errorf("%w: negative partition count %d for topic %q", domain.ErrInvalidRequest, partitionCount, topic)
	}

	counts, err := FailFast(ctx, topic, partitionCount, e.fanout, func(ctx context.Context, i int) (int64, error) {
		return e.PartitionMessageCount(ctx, host, topic, int32(i))
	})
	if err != nil {
		return 0, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return total, nil
}

// TopicListSummary counts every topic of host. Rows follow the metadata order.
func (e *Engine) TopicListSummary(ctx context.Context, host string, showInternal bool) ([]domain.TopicSummary, error) {
	topics, err := e.listTopics(ctx, host, showInternal)
	if err != nil {
		return nil, err
	}

	counts, err := FailFast(ctx, "topics", len(topics), e.fanout, func(ctx context.Context, i int) (int64, error) {
		return e.TopicMessageCount(ctx, host, topics[i].Name, topics[i].PartitionCount)
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.TopicSummary, len(topics))
	for i, t := range topics {
		out[i] = domain.TopicSummary{TopicName: t.Name, NumberOfPartitions: t.PartitionCount, MsgCount: &counts[i]}
	}
	return out, nil
}

// TopicListSummaryTolerant is TopicListSummary where a failing topic yields a row carrying
// its error instead of failing the list. A metadata failure still fails the call.
func (e *Engine) TopicListSummaryTolerant(ctx context.Context, host string, showInternal bool) ([]domain.TopicSummary, error) {
	topics, err := e.listTopics(ctx, host, showInternal)
	if err != nil {
		return nil, err
	}

	return FailFast(ctx, "topics", len(topics), e.fanout, func(ctx context.Context, i int) (domain.TopicSummary, error) {
		t := topics[i]
		row := domain.TopicSummary{TopicName: t.Name, NumberOfPartitions: t.PartitionCount}
		count, err := e.TopicMessageCount(ctx, host, t.Name, t.PartitionCount)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return row, ctxErr
			}
			utils.Logger.Warn("topic count failed", "host", host, "topic", t.Name, "err", err)
			row.Error = domain.NewFault(err)
			return row, nil
		}
		row.MsgCount = &count
		return row, nil
	})
}

// BrokerPartitionInfo returns the leader of a partition and its replicas other than the
// leader.
func (e *Engine) BrokerPartitionInfo(ctx context.Context, host, topic string, partition int32) (domain.PartitionBrokers, error) {
	if err := validatePartition(host, topic, partition); err != nil {
		return domain.PartitionBrokers{}, err
	}

	md, err := e.meta.DescribeTopic(ctx, host, topic)
	if err != nil {
		return domain.PartitionBrokers{}, err
	}
	p, ok := md.Partition(partition)
	if !ok {
		return domain.PartitionBrokers{}, fmt.Errorf("%w: partition %s/%d", domain.ErrNotFound, topic, partition)
	}

	replicas := make([]int32, 0, len(p.Replicas))
	for _, r := range p.Replicas {
		if r != p.Leader {
			replicas = append(replicas, r)
		}
	}
	return domain.PartitionBrokers{Leader: p.Leader, Replicas: replicas}, nil
}

// PartitionInfo returns the offset view of a partition.
func (e *Engine) PartitionInfo(ctx context.Context, host, topic string, partition int32) (domain.PartitionInfo, error) {
	po, err := e.PartitionOffsets(ctx, host, topic, partition)
	if err != nil {
		return domain.PartitionInfo{}, err
	}
	return domain.PartitionInfo{
		HighwaterOffset: po.Latest,
		MessageCount:    po.MessageCount(),
		EarliestOffset:  po.Earliest,
	}, nil
}

// TopicCount describes a single topic and counts its messages.
func (e *Engine) TopicCount(ctx context.Context, host, topic string) (domain.TopicSummary, error) {
	if err := validateTopic(host, topic); err != nil {
		return domain.TopicSummary{}, err
	}

	md, err := e.meta.DescribeTopic(ctx, host, topic)
	if err != nil {
		return domain.TopicSummary{}, err
	}
	count, err := e.TopicMessageCount(ctx, host, topic, md.PartitionCount())
	if err != nil {
		return domain.TopicSummary{}, err
	}
	return domain.TopicSummary{TopicName: topic, NumberOfPartitions: md.PartitionCount(), MsgCount: &count}, nil
}

func (e *Engine) listTopics(ctx context.Context, host string, showInternal bool) ([]domain.Topic, error) {
	if host == "" {
		return nil, ErrMissingHost
	}
	return e.meta.ListTopics(ctx, host, showInternal)
}

func validateTopic(host, topic string) error {
	if host == "" {
		return ErrMissingHost
	}
	if topic == "" {
		return ErrMissingTopic
	}
	return nil
}

func validatePartition(host, topic string, partition int32) error {
	if err := validateTopic(host, topic); err != nil {
		return err
	}
	if partition < 0 {
		return fmt.Errorf("%w: negative partition id %d", domain.ErrInvalidRequest, partition)
	}
	return nil
}

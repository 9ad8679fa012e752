package application

import (
	"context"
	"fmt"
	"slices"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/utils"
)

// MetadataFetcher lists topics and describes single topics.
type MetadataFetcher struct {
	conns domain.ConnFactory
}

// NewMetadataFetcher creates a new metadata fetcher.
func NewMetadataFetcher(conns domain.ConnFactory) *MetadataFetcher {
	return &MetadataFetcher{conns: conns}
}

// ListTopics returns every topic with its partition count, in the order the broker driver
// reports them.
func (m *MetadataFetcher) ListTopics(ctx context.Context, host string, showInternal bool) ([]domain.Topic, error) {
	conn, err := m.conns.Open(ctx, host)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	mds, err := conn.TopicMetadata(ctx, showInternal)
	if err != nil {
		utils.Logger.Error("list topics failed", "host", host, "err", err)
		return nil, err
	}

	topics := make([]domain.Topic, 0, len(mds))
	for _, md := range mds {
		md.Partitions = slices.Clone(md.Partitions)
		if err := md.Validate(); err != nil {
			return nil, err
		}
		topics = append(topics, domain.Topic{Name: md.Name, PartitionCount: md.PartitionCount()})
	}
	return topics, nil
}

// DescribeTopic returns the metadata of one topic.
func (m *MetadataFetcher) DescribeTopic(ctx context.Context, host, topic string) (domain.TopicMetadata, error) {
	conn, err := m.conns.Open(ctx, host)
	if err != nil {
		return domain.TopicMetadata{}, err
	}
	defer conn.Close()

	mds, err := conn.TopicMetadata(ctx, true, topic)
	if err != nil {
		return domain.TopicMetadata{}, err
	}
	for _, md := range mds {
		if md.Name != topic {
			continue
		}
		md.Partitions = slices.Clone(md.Partitions)
		if err := md.Validate(); err != nil {
			return domain.TopicMetadata{}, err
		}
		return md, nil
	}
	return domain.TopicMetadata{}, fmt.Errorf("%w: topic %q", domain.ErrNotFound, topic)
}

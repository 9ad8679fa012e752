package kafka

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
)

// AdminClient is the subset of *kadm.Client the driver needs.
type AdminClient interface {
	ListTopics(ctx context.Context, topics ...string) (kadm.TopicDetails, error)
	ListTopicsWithInternal(ctx context.Context, topics ...string) (kadm.TopicDetails, error)
	ListStartOffsets(ctx context.Context, topics ...string) (kadm.ListedOffsets, error)
	ListEndOffsets(ctx context.Context, topics ...string) (kadm.ListedOffsets, error)
}

var _ AdminClient = (*kadm.Client)(nil)

// ListTopicMetadata fetches topic metadata and converts it into validated records ordered
// by topic name. Named topics missing from the response are NotFound.
func ListTopicMetadata(ctx context.Context, admin AdminClient, includeInternal bool, topics ...string) ([]domain.TopicMetadata, error) {
	var details kadm.TopicDetails
	var err error

	if includeInternal || len(topics) > 0 {
		details, err = admin.ListTopicsWithInternal(ctx, topics...)
	} else {
		details, err = admin.ListTopics(ctx)
	}
	if err != nil {
		return nil, classify(ctx, err)
	}

	for _, name := range topics {
		if _, ok := details[name]; !ok {
			return nil, fmt.Errorf("%w: topic %q", domain.ErrNotFound, name)
		}
	}

	names := make([]string, 0, len(details))
	for name := range details {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]domain.TopicMetadata, 0, len(names))
	for _, name := range names {
		md, err := toTopicMetadata(ctx, name, details[name])
		if err != nil {
			return nil, err
		}
		out = append(out, md)
	}
	return out, nil
}

func toTopicMetadata(ctx context.Context, name string, td kadm.TopicDetail) (domain.TopicMetadata, error) {
	if td.Err != nil {
		return domain.TopicMetadata{}, fmt.Errorf("topic %q: %w", name, classify(ctx, td.Err))
	}
	if td.Topic != "" && td.Topic != name {
		return domain.TopicMetadata{}, fmt.Errorf("%w: topic key %q holds metadata for %q", domain.ErrProtocol, name, td.Topic)
	}

	md := domain.TopicMetadata{
		Name:       name,
		Internal:   td.IsInternal,
		Partitions: make([]domain.PartitionMetadata, 0, len(td.Partitions)),
	}
	for id, p := range td.Partitions {
		md.Partitions = append(md.Partitions, domain.PartitionMetadata{
			ID:       id,
			Leader:   p.Leader,
			Replicas: slices.Clone(p.Replicas),
			ISR:      slices.Clone(p.ISR),
		})
	}
	if err := md.Validate(); err != nil {
		return domain.TopicMetadata{}, err
	}
	return md, nil
}

// LookupOffset extracts one partition's offset from a listing.
func LookupOffset(ctx context.Context, listed kadm.ListedOffsets, topic string, partition int32) (int64, error) {
	ps, ok := listed[topic]
	if !ok {
		return 0, fmt.Errorf("%w: topic %q", domain.ErrNotFound, topic)
	}
	o, ok := ps[partition]
	if !ok {
		return 0, fmt.Errorf("%w: partition %s/%d", domain.ErrNotFound, topic, partition)
	}
	if o.Err != nil {
		return 0, fmt.Errorf("partition %s/%d: %w", topic, partition, classify(ctx, o.Err))
	}
	return o.Offset, nil
}

// classify maps franz-go and transport errors onto domain kinds. Context errors pass
// through untouched so the timeout guard can recognise its own cancellation.
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

	var ke *kerr.Error
	switch {
	case errors.Is(err, kerr.UnknownTopicOrPartition), errors.Is(err, kerr.UnknownTopicID):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.As(err, &ke) && kerr.IsRetriable(err):
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	case errors.As(err, &ke):
		return fmt.Errorf("%w: %w", domain.ErrProtocol, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
}

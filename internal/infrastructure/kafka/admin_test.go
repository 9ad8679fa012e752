package kafka

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
)

// fakeAdmin implements AdminClient for tests.
type fakeAdmin struct {
	topics   kadm.TopicDetails
	internal kadm.TopicDetails
	start    kadm.ListedOffsets
	end      kadm.ListedOffsets
	err      error

	calledInternal bool
}

func (f *fakeAdmin) ListTopics(_ context.Context, _ ...string) (kadm.TopicDetails, error) {
	return f.topics, f.err
}

func (f *fakeAdmin) ListTopicsWithInternal(_ context.Context, topics ...string) (kadm.TopicDetails, error) {
	f.calledInternal = true
	if len(topics) == 0 {
		return f.internal, f.err
	}
	out := kadm.TopicDetails{}
	for _, t := range topics {
		if td, ok := f.internal[t]; ok {
			out[t] = td
		}
	}
	return out, f.err
}

func (f *fakeAdmin) ListStartOffsets(_ context.Context, _ ...string) (kadm.ListedOffsets, error) {
	return f.start, f.err
}

func (f *fakeAdmin) ListEndOffsets(_ context.Context, _ ...string) (kadm.ListedOffsets, error) {
	return f.end, f.err
}

func partitions(n int32, leader int32) kadm.PartitionDetails {
	out := kadm.PartitionDetails{}
	for i := int32(0); i < n; i++ {
		out[i] = kadm.PartitionDetail{Partition: i, Leader: leader, Replicas: []int32{leader, leader + 1}}
	}
	return out
}

func newFakeAdmin() *fakeAdmin {
	topics := kadm.TopicDetails{
		"orders":   {Topic: "orders", Partitions: partitions(3, 1)},
		"payments": {Topic: "payments", Partitions: partitions(1, 2)},
	}
	internal := kadm.TopicDetails{
		"orders":             topics["orders"],
		"payments":           topics["payments"],
		"__consumer_offsets": {Topic: "__consumer_offsets", IsInternal: true, Partitions: partitions(2, 1)},
	}
	return &fakeAdmin{
		topics:   topics,
		internal: internal,
		start: kadm.ListedOffsets{"orders": {
			0: {Topic: "orders", Partition: 0, Offset: 10},
			1: {Topic: "orders", Partition: 1, Err: kerr.NotLeaderForPartition},
		}},
		end: kadm.ListedOffsets{"orders": {
			0: {Topic: "orders", Partition: 0, Offset: 37},
		}},
	}
}

func TestListTopicMetadata(t *testing.T) {
	t.Parallel()
	admin := newFakeAdmin()

	out, err := ListTopicMetadata(context.Background(), admin, false)
	require.NoError(t, err)
	require.False(t, admin.calledInternal)
	require.Len(t, out, 2)
	require.Equal(t, "orders", out[0].Name)
	require.Equal(t, 3, out[0].PartitionCount())
	require.Equal(t, "payments", out[1].Name)
	require.Equal(t, int32(2), out[1].Partitions[0].Leader)
}

func TestListTopicMetadata_WithInternalSortedByName(t *testing.T) {
	t.Parallel()
	out, err := ListTopicMetadata(context.Background(), newFakeAdmin(), true)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, "__consumer_offsets", out[0].Name)
	require.True(t, out[0].Internal)
}

func TestListTopicMetadata_NamedTopic(t *testing.T) {
	t.Parallel()
	admin := newFakeAdmin()

	out, err := ListTopicMetadata(context.Background(), admin, false, "payments")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, []int32{2, 3}, out[0].Partitions[0].Replicas)

	_, err = ListTopicMetadata(context.Background(), admin, false, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTopicMetadata_Errors(t *testing.T) {
	t.Parallel()

	unknown := newFakeAdmin()
	unknown.internal["ghost"] = kadm.TopicDetail{Topic: "ghost", Err: kerr.UnknownTopicOrPartition}
	_, err := ListTopicMetadata(context.Background(), unknown, false, "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)

	gap := newFakeAdmin()
	gap.topics["broken"] = kadm.TopicDetail{Topic: "broken", Partitions: kadm.PartitionDetails{0: {}, 2: {}}}
	_, err = ListTopicMetadata(context.Background(), gap, false)
	require.ErrorIs(t, err, domain.ErrProtocol)

	mislabeled := newFakeAdmin()
	mislabeled.topics["a"] = kadm.TopicDetail{Topic: "b"}
	_, err = ListTopicMetadata(context.Background(), mislabeled, false)
	require.ErrorIs(t, err, domain.ErrProtocol)

	down := newFakeAdmin()
	down.err = io.EOF
	_, err = ListTopicMetadata(context.Background(), down, false)
	require.ErrorIs(t, err, domain.ErrConnection)
}

func TestLookupOffset(t *testing.T) {
	t.Parallel()
	admin := newFakeAdmin()
	ctx := context.Background()

	off, err := LookupOffset(ctx, admin.start, "orders", 0)
	require.NoError(t, err)
	require.Equal(t, int64(10), off)

	_, err = LookupOffset(ctx, admin.start, "orders", 9)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = LookupOffset(ctx, admin.start, "missing", 0)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = LookupOffset(ctx, admin.start, "orders", 1)
	require.ErrorIs(t, err, domain.ErrConnection)
}

func TestClientOffsets(t *testing.T) {
	t.Parallel()
	c := &Client{admin: newFakeAdmin()}

	earliest, err := c.EarliestOffset(context.Background(), "orders", 0)
	require.NoError(t, err)
	latest, err := c.LatestOffset(context.Background(), "orders", 0)
	require.NoError(t, err)
	require.Equal(t, int64(27), latest-earliest)

	_, err = c.LatestOffset(context.Background(), "orders", 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClassify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	require.NoError(t, classify(ctx, nil))
	require.ErrorIs(t, classify(ctx, kerr.UnknownTopicOrPartition), domain.ErrNotFound)
	require.ErrorIs(t, classify(ctx, kerr.LeaderNotAvailable), domain.ErrConnection)
	require.ErrorIs(t, classify(ctx, kerr.InvalidRequest), domain.ErrProtocol)
	require.ErrorIs(t, classify(ctx, errors.New("dial tcp: connection refused")), domain.ErrConnection)
	require.ErrorIs(t, classify(ctx, context.DeadlineExceeded), context.DeadlineExceeded)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, classify(cancelled, io.EOF), context.Canceled)
}

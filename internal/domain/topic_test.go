package domain_test

import (
	"testing"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestTopicMetadata_Validate(t *testing.T) {
	t.Parallel()

	md := domain.TopicMetadata{Name: "orders", Partitions: []domain.PartitionMetadata{{ID: 2}, {ID: 0}, {ID: 1}}}
	require.NoError(t, md.Validate())
	require.Equal(t, 3, md.PartitionCount())
	require.Equal(t, int32(0), md.Partitions[0].ID, "partitions are sorted by id")

	empty := domain.TopicMetadata{Name: "fresh"}
	require.NoError(t, empty.Validate())
	require.Equal(t, 0, empty.PartitionCount())

	gap := domain.TopicMetadata{Name: "orders", Partitions: []domain.PartitionMetadata{{ID: 0}, {ID: 2}}}
	require.ErrorIs(t, gap.Validate(), domain.ErrProtocol)

	dup := domain.TopicMetadata{Name: "orders", Partitions: []domain.PartitionMetadata{{ID: 0}, {ID: 0}}}
	require.ErrorIs(t, dup.Validate(), domain.ErrProtocol)

	nameless := domain.TopicMetadata{Partitions: []domain.PartitionMetadata{{ID: 0}}}
	require.ErrorIs(t, nameless.Validate(), domain.ErrProtocol)
}

func TestTopicMetadata_Partition(t *testing.T) {
	t.Parallel()
	md := domain.TopicMetadata{Name: "orders", Partitions: []domain.PartitionMetadata{{ID: 0, Leader: 1}, {ID: 1, Leader: 2}}}
	p, ok := md.Partition(1)
	require.True(t, ok)
	require.Equal(t, int32(2), p.Leader)
	_, ok = md.Partition(5)
	require.False(t, ok)
}

func TestPartitionOffsets_MessageCount(t *testing.T) {
	t.Parallel()
	require.Equal(t, int64(27), domain.PartitionOffsets{Earliest: 10, Latest: 37}.MessageCount())
	require.Equal(t, int64(0), domain.PartitionOffsets{Earliest: 5, Latest: 5}.MessageCount())
	require.Equal(t, int64(-3), domain.PartitionOffsets{Earliest: 8, Latest: 5}.MessageCount())
}

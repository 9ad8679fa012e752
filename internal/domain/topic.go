// Package domain defines the broker metadata records, aggregate results, request and event
// shapes, error kinds, and the broker boundary interfaces used by offset-scout.
package domain

import (
	"fmt"
	"slices"
)

// Topic is a topic name with its partition count.
type Topic struct {
	Name           string `json:"topicName"`
	PartitionCount int    `json:"numberOfPartitions"`
}

// PartitionMetadata is one partition as reported by the broker.
type PartitionMetadata struct {
	ID       int32   `json:"id"`
	Leader   int32   `json:"leader"`
	Replicas []int32 `json:"replicas"`
	ISR      []int32 `json:"isr"`
}

// TopicMetadata is the typed metadata record for one topic. Partitions are sorted by ID.
type TopicMetadata struct {
	Name       string              `json:"name"`
	Internal   bool                `json:"internal"`
	Partitions []PartitionMetadata `json:"partitions"`
}

// PartitionCount is the cardinality of the partition set.
func (t TopicMetadata) PartitionCount() int {
	return len(t.Partitions)
}

// Partition looks up a partition by ID.
func (t TopicMetadata) Partition(id int32) (PartitionMetadata, bool) {
	for _, p := range t.Partitions {
		if p.ID == id {
			return p, true
		}
	}
	return PartitionMetadata{}, false
}

// Validate checks the record against the broker contract: a name and partition IDs that
// exactly span [0, n).
func (t *TopicMetadata) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: topic without name", ErrProtocol)
	}
	slices.SortFunc(t.Partitions, func(a, b PartitionMetadata) int { return int(a.ID) - int(b.ID) })
	for i, p := range t.Partitions {
		if p.ID != int32(i) {
			return fmt.Errorf("%w: topic %q partition ids do not span [0,%d), got %d at position %d",
				ErrProtocol, t.Name, len(t.Partitions), p.ID, i)
		}
	}
	return nil
}

// PartitionOffsets holds the earliest and latest offsets of one partition.
type PartitionOffsets struct {
	Topic     string
	Partition int32
	Earliest  int64
	Latest    int64
}

// MessageCount is latest minus earliest. Negative values indicate an inconsistent broker.
func (o PartitionOffsets) MessageCount() int64 {
	return o.Latest - o.Earliest
}

// TopicSummary is the aggregate count for one topic. Error is only set in tolerant mode,
// in which case MsgCount is nil.
type TopicSummary struct {
	TopicName          string `json:"topicName"`
	NumberOfPartitions int    `json:"numberOfPartitions"`
	MsgCount           *int64 `json:"msgCount"`
	Error              *Fault `json:"error,omitempty"`
}

// PartitionInfo is the offset view of a single partition.
type PartitionInfo struct {
	HighwaterOffset int64 `json:"highwaterOffset"`
	MessageCount    int64 `json:"messageCount"`
	EarliestOffset  int64 `json:"earliestOffset"`
}

// PartitionBrokers is the leader of a partition and its other replicas.
type PartitionBrokers struct {
	Leader   int32   `json:"leader"`
	Replicas []int32 `json:"replicas"`
}

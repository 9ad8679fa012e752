package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/OliveiraNt/offset-scout/internal/domain"
)

// Call kinds reported to FakeConnFactory.Hook.
const (
	CallOpen     = "open"
	CallMetadata = "metadata"
	CallEarliest = "earliest"
	CallLatest   = "latest"
)

// Call describes one broker call made through a fake connection.
type Call struct {
	Kind      string
	Host      string
	Topic     string
	Partition int32
}

// TP identifies a topic partition.
type TP struct {
	Topic     string
	Partition int32
}

// FakeConnFactory is an in-memory broker cluster implementing domain.ConnFactory. Every
// Open returns a fresh FakeConn sharing the factory state.
type FakeConnFactory struct {
	mu       sync.Mutex
	Topics   []domain.TopicMetadata
	Earliest map[TP]int64
	Latest   map[TP]int64
	Errs     map[TP]error

	OpenErr     error
	MetadataErr error

	// Hook runs before every call. A non-nil error is returned in place of the result.
	Hook func(ctx context.Context, call Call) error

	opened atomic.Int64
	closed atomic.Int64
}

var _ domain.ConnFactory = (*FakeConnFactory)(nil)

func NewFakeConnFactory() *FakeConnFactory {
	return &FakeConnFactory{
		Earliest: map[TP]int64{},
		Latest:   map[TP]int64{},
		Errs:     map[TP]error{},
	}
}

// AddTopic registers a topic with n partitions led by broker 1 and replicated to 2 and 3.
func (f *FakeConnFactory) AddTopic(name string, n int, internal bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Topics = append(f.Topics, TopicMetadata(name, n, internal))
}

// SetOffsets sets the earliest and latest offsets of a partition.
func (f *FakeConnFactory) SetOffsets(topic string, partition int32, earliest, latest int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Earliest[TP{topic, partition}] = earliest
	f.Latest[TP{topic, partition}] = latest
}

// SetErr makes both offset calls of a partition fail with err.
func (f *FakeConnFactory) SetErr(topic string, partition int32, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errs[TP{topic, partition}] = err
}

// Opened reports how many connections were opened.
func (f *FakeConnFactory) Opened() int64 { return f.opened.Load() }

// Closed reports how many connections were closed.
func (f *FakeConnFactory) Closed() int64 { return f.closed.Load() }

func (f *FakeConnFactory) Open(ctx context.Context, host string) (domain.BrokerConn, error) {
	if err := f.hook(ctx, Call{Kind: CallOpen, Host: host}); err != nil {
		return nil, err
	}
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	f.opened.Add(1)
	return &FakeConn{factory: f, host: host}, nil
}

func (f *FakeConnFactory) hook(ctx context.Context, call Call) error {
	if f.Hook == nil {
		return nil
	}
	return f.Hook(ctx, call)
}

// FakeConn is a connection handed out by FakeConnFactory.
type FakeConn struct {
	factory *FakeConnFactory
	host    string
	closed  atomic.Bool
}

func (c *FakeConn) TopicMetadata(ctx context.Context, includeInternal bool, topics ...string) ([]domain.TopicMetadata, error) {
	f := c.factory
	if err := f.hook(ctx, Call{Kind: CallMetadata, Host: c.host}); err != nil {
		return nil, err
	}
	if f.MetadataErr != nil {
		return nil, f.MetadataErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(topics) == 0 {
		out := make([]domain.TopicMetadata, 0, len(f.Topics))
		for _, t := range f.Topics {
			if t.Internal && !includeInternal {
				continue
			}
			out = append(out, t)
		}
		return out, nil
	}

	out := make([]domain.TopicMetadata, 0, len(topics))
	for _, name := range topics {
		found := false
		for _, t := range f.Topics {
			if t.Name == name {
				out = append(out, t)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: topic %q", domain.ErrNotFound, name)
		}
	}
	return out, nil
}

func (c *FakeConn) EarliestOffset(ctx context.Context, topic string, partition int32) (int64, error) {
	return c.offset(ctx, CallEarliest, topic, partition)
}

func (c *FakeConn) LatestOffset(ctx context.Context, topic string, partition int32) (int64, error) {
	return c.offset(ctx, CallLatest, topic, partition)
}

func (c *FakeConn) offset(ctx context.Context, kind, topic string, partition int32) (int64, error) {
	f := c.factory
	if err := f.hook(ctx, Call{Kind: kind, Host: c.host, Topic: topic, Partition: partition}); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tp := TP{topic, partition}
	if err := f.Errs[tp]; err != nil {
		return 0, err
	}
	offsets := f.Earliest
	if kind == CallLatest {
		offsets = f.Latest
	}
	off, ok := offsets[tp]
	if !ok {
		return 0, fmt.Errorf("%w: partition %s/%d", domain.ErrNotFound, topic, partition)
	}
	return off, nil
}

func (c *FakeConn) Close() {
	if c.closed.CompareAndSwap(false, true) {
		c.factory.closed.Add(1)
	}
}

// TopicMetadata builds a valid metadata record with n partitions.
func TopicMetadata(name string, n int, internal bool) domain.TopicMetadata {
	md := domain.TopicMetadata{Name: name, Internal: internal}
	for i := 0; i < n; i++ {
		md.Partitions = append(md.Partitions, domain.PartitionMetadata{
			ID:       int32(i),
			Leader:   1,
			Replicas: []int32{1, 2, 3},
			ISR:      []int32{1, 2, 3},
		})
	}
	return md
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StaticResolver resolves every host to the same brokers.
type StaticResolver struct {
	Cluster config.ClusterConfig
}

func (r StaticResolver) Resolve(host string) config.ClusterConfig {
	c := r.Cluster
	if c.Name == "" {
		c.Name = host
	}
	return c
}

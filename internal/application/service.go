package application

import (
	"context"
	"sync/atomic"

	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/OliveiraNt/offset-scout/internal/domain"
)

// Service is the guarded entry point to the Engine. Each call site owns one TimeoutGuard so
// retries at one site escalate independently of the others.
type Service struct {
	engine *Engine
	guards map[string]*TimeoutGuard

	// showInternal makes topic listings include internal topics for every request.
	showInternal atomic.Bool
}

var sites = []string{
	config.SiteTopicList,
	config.SiteTopicCount,
	config.SitePartition,
	config.SitePartitionBrokers,
}

// NewService creates a new service with guards built from cfg.
func NewService(engine *Engine, cfg config.FileConfig) *Service {
	s := &Service{engine: engine, guards: make(map[string]*TimeoutGuard, len(sites))}
	for _, site := range sites {
		s.guards[site] = NewTimeoutGuard(site, cfg.TimeoutFor(site))
	}
	s.showInternal.Store(cfg.Settings.ShowInternal)
	return s
}

// ApplyConfig updates the guard policies after a config reload.
func (s *Service) ApplyConfig(cfg config.FileConfig) {
	for site, g := range s.guards {
		g.SetPolicy(cfg.TimeoutFor(site))
	}
	s.showInternal.Store(cfg.Settings.ShowInternal)
}

// Guard returns the guard of a call site.
func (s *Service) Guard(site string) *TimeoutGuard {
	return s.guards[site]
}

// Topics returns the message count summary of every topic on host.
func (s *Service) Topics(ctx context.Context, host string, showInternal, tolerant bool) ([]domain.TopicSummary, error) {
	showInternal = showInternal || s.showInternal.Load()
	return Guard(ctx, s.guards[config.SiteTopicList], func(ctx context.Context) ([]domain.TopicSummary, error) {
		if tolerant {
			return s.engine.TopicListSummaryTolerant(ctx, host, showInternal)
		}
		return s.engine.TopicListSummary(ctx, host, showInternal)
	})
}

// Topic returns the message count summary of one topic.
func (s *Service) Topic(ctx context.Context, host, topic string) (domain.TopicSummary, error) {
	return Guard(ctx, s.guards[config.SiteTopicCount], func(ctx context.Context) (domain.TopicSummary, error) {
		return s.engine.TopicCount(ctx, host, topic)
	})
}

// Partition returns the offset view of one partition.
func (s *Service) Partition(ctx context.Context, host, topic string, partition int32) (domain.PartitionInfo, error) {
	return Guard(ctx, s.guards[config.SitePartition], func(ctx context.Context) (domain.PartitionInfo, error) {
		return s.engine.PartitionInfo(ctx, host, topic, partition)
	})
}

// PartitionBrokers returns the leader and follower replicas of one partition.
func (s *Service) PartitionBrokers(ctx context.Context, host, topic string, partition int32) (domain.PartitionBrokers, error) {
	return Guard(ctx, s.guards[config.SitePartitionBrokers], func(ctx context.Context) (domain.PartitionBrokers, error) {
		return s.engine.BrokerPartitionInfo(ctx, host, topic, partition)
	})
}

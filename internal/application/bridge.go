package application

import (
	"context"
	"fmt"
	"time"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/utils"
)

// Recorder observes served requests. kind is empty for successes.
type Recorder interface {
	ObserveRequest(op string, kind domain.Kind, d time.Duration)
}

// Bridge turns consumer requests into exactly one terminal event each.
type Bridge struct {
	svc      *Service
	recorder Recorder
}

// NewBridge creates a new bridge. recorder may be nil.
func NewBridge(svc *Service, recorder Recorder) *Bridge {
	return &Bridge{svc: svc, recorder: recorder}
}

// Serve handles req and emits its terminal event to sink. Serve blocks until the event has
// been emitted; callers that multiplex requests run it in its own goroutine.
func (b *Bridge) Serve(ctx context.Context, req domain.Request, sink domain.EventSink) {
	start := time.Now()
	op := req.ResolveOp()

	ev := b.handle(ctx, req, op)
	if b.recorder != nil {
		var kind domain.Kind
		if ev.Error != nil {
			kind = ev.Error.Kind
		}
		b.recorder.ObserveRequest(op, kind, time.Since(start))
	}
	sink.Emit(ev)
}

// Do serves req synchronously and returns its event.
func (b *Bridge) Do(ctx context.Context, req domain.Request) domain.Event {
	var out domain.Event
	b.Serve(ctx, req, domain.SinkFunc(func(ev domain.Event) { out = ev }))
	return out
}

func (b *Bridge) handle(ctx context.Context, req domain.Request, op string) (ev domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			utils.Logger.Error("request handler panicked", "id", req.ID, "op", op, "panic", r)
			ev = errorEvent(req, op, fmt.Errorf("internal error: %v", r))
		}
	}()

	data, err := b.dispatch(ctx, req, op)
	if err != nil {
		utils.Logger.Debug("request failed", "id", req.ID, "op", op, "host", req.Host, "err", err)
		return errorEvent(req, op, err)
	}
	return domain.Event{ID: req.ID, Op: op, Type: domain.EventSuccess, Data: data}
}

func (b *Bridge) dispatch(ctx context.Context, req domain.Request, op string) (any, error) {
	if req.Host == "" {
		return nil, ErrMissingHost
	}

	switch op {
	case domain.OpTopics:
		return b.svc.Topics(ctx, req.Host, req.ShowInternal, req.Tolerant)
	case domain.OpTopic:
		if req.TopicName == "" {
			return nil, ErrMissingTopic
		}
		return b.svc.Topic(ctx, req.Host, req.TopicName)
	case domain.OpPartition, domain.OpPartitionBrokers:
		if req.TopicName == "" {
			return nil, ErrMissingTopic
		}
		if req.PartitionID == nil {
			return nil, ErrMissingPartition
		}
		if op == domain.OpPartition {
			return b.svc.Partition(ctx, req.Host, req.TopicName, *req.PartitionID)
		}
		return b.svc.PartitionBrokers(ctx, req.Host, req.TopicName, *req.PartitionID)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, op)
	}
}

func errorEvent(req domain.Request, op string, err error) domain.Event {
	return domain.Event{ID: req.ID, Op: op, Type: domain.EventError, Error: domain.NewFault(err)}
}

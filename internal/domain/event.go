package domain

// Operations a Request can select.
const (
	OpTopics           = "topics"
	OpTopic            = "topic"
	OpPartition        = "partition"
	OpPartitionBrokers = "brokers"
)

// Event types.
const (
	EventSuccess = "success"
	EventError   = "error"
)

// Request is a consumer request to the bridge. Op may be left empty and is then inferred
// from which fields are set.
type Request struct {
	ID           string `json:"id,omitempty"`
	Op           string `json:"op,omitempty"`
	Host         string `json:"host"`
	TopicName    string `json:"topicName,omitempty"`
	PartitionID  *int32 `json:"partitionId,omitempty"`
	ShowInternal bool   `json:"showInternal,omitempty"`
	Tolerant     bool   `json:"tolerant,omitempty"`
}

// ResolveOp returns the explicit Op or the one implied by the request fields.
func (r Request) ResolveOp() string {
	if r.Op != "" {
		return r.Op
	}
	switch {
	case r.TopicName == "":
		return OpTopics
	case r.PartitionID != nil:
		return OpPartition
	default:
		return OpTopic
	}
}

// Fault is the wire form of an error.
type Fault struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// NewFault converts err into its wire form.
func NewFault(err error) *Fault {
	if err == nil {
		return nil
	}
	return &Fault{Kind: KindOf(err), Message: err.Error()}
}

func (f *Fault) Error() string { return string(f.Kind) + ": " + f.Message }

// Is lets a decoded Fault match the sentinel of its kind.
func (f *Fault) Is(target error) bool {
	switch f.Kind {
	case KindConnection:
		return target == ErrConnection
	case KindProtocol:
		return target == ErrProtocol
	case KindNotFound:
		return target == ErrNotFound
	case KindTimeout:
		return target == ErrTimeout
	case KindInvalid:
		return target == ErrInvalidRequest
	case KindAggregation:
		return target == ErrAggregation
	}
	return false
}

// Event is the single terminal response to a Request.
type Event struct {
	ID    string `json:"id,omitempty"`
	Op    string `json:"op"`
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Fault `json:"error,omitempty"`
}

// Err returns the event's failure, or nil for a success event.
func (e Event) Err() error {
	if e.Error == nil {
		return nil
	}
	return e.Error
}

// EventSink receives terminal events.
type EventSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

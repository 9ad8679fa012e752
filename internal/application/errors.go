package application

import (
	"fmt"

	"github.com/OliveiraNt/offset-scout/internal/domain"
)

var (
	// ErrMissingHost is returned when a request names no host.
	ErrMissingHost = fmt.Errorf("%w: host is required", domain.ErrInvalidRequest)

	// ErrMissingTopic is returned when a topic scoped request names no topic.
	ErrMissingTopic = fmt.Errorf("%w: topicName is required", domain.ErrInvalidRequest)

	// ErrMissingPartition is returned when a partition scoped request carries no partition id.
	ErrMissingPartition = fmt.Errorf("%w: partitionId is required", domain.ErrInvalidRequest)

	// ErrUnknownOp is returned for requests selecting an operation the bridge does not serve.
	ErrUnknownOp = fmt.Errorf("%w: unknown op", domain.ErrInvalidRequest)
)

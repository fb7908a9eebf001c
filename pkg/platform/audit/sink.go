package audit

import "context"

// Sink delivers audit events to their destination (Kafka topic, log stream,
// memory for tests).
type Sink interface {
	Write(ctx context.Context, event Event) error
}

package interfaces

import "context"

// EventPublisher ships processing events to an external topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

package ports

import "context"

// RMQConsumer reads photo lifecycle events and reconciles orphaned remote images.
type RMQConsumer interface {
	Init() error
	DeliveryWorker(ctx context.Context)
}

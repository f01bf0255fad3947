package batcher

// Consumer is the interface that must be implemented by users of the Batcher.
// It is responsible for processing a batch of items.
type Consumer[T any] interface {
	// Consume processes a batch of items. The batch is owned by the
	// Consumer once passed in.
	Consume(batch []T) error
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc[T any] func(batch []T) error

// Consume calls f(batch).
func (f ConsumerFunc[T]) Consume(batch []T) error { return f(batch) }

// Config holds configuration for the Batcher.
type Config struct {
	// Size is the number of items collected before a flush.
	Size int
}

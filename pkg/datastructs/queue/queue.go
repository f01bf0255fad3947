package queue

import "context"

// Queue is a generic interface for bounded FIFO queues shared between
// goroutines.
type Queue[T any] interface {
	// Enqueue adds an item to the queue.
	// Returns ErrQueueFull or ErrQueueClosed when the item was not stored.
	Enqueue(item T) error

	// EnqueueContext is Enqueue that also gives up when ctx is done.
	EnqueueContext(ctx context.Context, item T) error

	// Dequeue removes and returns the oldest item, blocking while the queue is empty.
	// Returns ErrQueueClosed once the queue is closed and drained.
	Dequeue() (T, error)

	// DequeueContext is Dequeue that also gives up when ctx is done.
	DequeueContext(ctx context.Context) (T, error)

	// Close stops accepting items and wakes every blocked caller.
	Close()

	// Len returns the number of buffered items.
	Len() int

	// Capacity returns the total capacity of the queue.
	Capacity() int
}

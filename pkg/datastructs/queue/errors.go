package queue

import "github.com/pkg/errors"

var (
	// ErrInvalidCapacity is returned by NewBlocking for a non-positive capacity.
	ErrInvalidCapacity = errors.New("queue: capacity must be positive")

	// ErrQueueFull is returned by Enqueue under OverflowReject when no slot is free.
	ErrQueueFull = errors.New("queue: full")

	// ErrQueueEmpty is returned by TryDequeue when nothing is buffered.
	ErrQueueEmpty = errors.New("queue: empty")

	// ErrQueueClosed is returned after Close: always by Enqueue, and by
	// Dequeue once the remaining items have been drained.
	ErrQueueClosed = errors.New("queue: closed")

	// ErrPoisoned is returned once a panic has unwound through a critical section.
	ErrPoisoned = errors.New("queue: poisoned by a panic in a previous operation")
)

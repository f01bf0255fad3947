package batcher

import (
	"sync"

	"github.com/pkg/errors"
)

const defaultSize = 512

// ErrClosed is returned by Push after Close.
var ErrClosed = errors.New("batcher: closed")

// Batcher collects items from concurrent callers and hands them to a
// Consumer in batches of Config.Size. Unlike a pooled design, nothing is
// lost on shutdown: Close flushes whatever is buffered.
type Batcher[T any] struct {
	mu     sync.Mutex
	stripe *stripe[T]
	closed bool
}

// New creates a new Batcher for type T.
func New[T any](cons Consumer[T], cfg Config) *Batcher[T] {
	if cfg.Size <= 0 {
		cfg.Size = defaultSize
	}

	return &Batcher[T]{
		stripe: newStripe[T](cons, cfg.Size),
	}
}

// Push adds an item. When the batch becomes full it is consumed on the
// calling goroutine and the consumer error is returned.
func (b *Batcher[T]) Push(item T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	return b.stripe.push(item)
}

// Flush consumes any buffered items now.
func (b *Batcher[T]) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.stripe.flush()
}

// Close flushes the remaining items and rejects further pushes.
func (b *Batcher[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return b.stripe.flush()
}

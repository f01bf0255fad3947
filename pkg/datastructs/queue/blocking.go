package queue

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var _ Queue[int] = (*Blocking[int])(nil)

// Blocking is a bounded FIFO queue guarded by a single mutex.
//
// Items live in a fixed ring of capacity slots. head is the next slot to
// dequeue, tail the next slot to enqueue, and count disambiguates the
// empty and full states, so every slot is usable:
//
//	empty: count == 0
//	full:  count == capacity
//
// Consumers park on notEmpty while the queue is empty. Producers park on
// notFull only under OverflowBlock. Close wakes everyone; blocked consumers
// then drain what is left and receive ErrQueueClosed.
type Blocking[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items []T
	head  int
	tail  int
	count int

	closed   bool
	poisoned bool
	overflow OverflowPolicy

	enqueued uint64
	dequeued uint64
	rejected uint64
}

// Stats is a point-in-time snapshot of a Blocking queue.
type Stats struct {
	Capacity int    `json:"capacity"`
	Len      int    `json:"len"`
	Enqueued uint64 `json:"enqueued"`
	Dequeued uint64 `json:"dequeued"`
	Rejected uint64 `json:"rejected"`
	Closed   bool   `json:"closed"`
	Policy   string `json:"overflow_policy"`
}

// NewBlocking creates a queue holding at most capacity items.
func NewBlocking[T any](capacity int, opts ...Option) (*Blocking[T], error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	q := &Blocking[T]{
		items:    make([]T, capacity),
		overflow: o.overflow,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)

	return q, nil
}

// Enqueue appends item to the tail of the queue.
func (q *Blocking[T]) Enqueue(item T) error {
	return q.EnqueueContext(context.Background(), item)
}

// EnqueueContext appends item to the tail of the queue. On a full queue it
// fails with ErrQueueFull under OverflowReject, and otherwise waits until a
// slot frees up, the queue is closed or ctx is done.
func (q *Blocking[T]) EnqueueContext(ctx context.Context, item T) error {
	q.mu.Lock()
	defer q.release()

	if q.poisoned {
		return ErrPoisoned
	}
	if q.closed {
		return ErrQueueClosed
	}

	if q.count == len(q.items) {
		if q.overflow == OverflowReject {
			q.rejected++
			return ErrQueueFull
		}

		stop := q.wakeOnDone(ctx)
		defer stop()

		for q.count == len(q.items) && !q.closed && !q.poisoned {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, "queue: enqueue")
			}
			q.notFull.Wait()
		}

		if q.poisoned {
			return ErrPoisoned
		}
		if q.closed {
			return ErrQueueClosed
		}
	}

	q.put(item)
	q.notEmpty.Signal()
	return nil
}

// Dequeue removes and returns the item at the head of the queue, waiting
// while the queue is empty.
func (q *Blocking[T]) Dequeue() (T, error) {
	return q.DequeueContext(context.Background())
}

// DequeueContext removes and returns the item at the head of the queue.
// It waits while the queue is empty and open, and gives up with the
// context error when ctx is done first.
func (q *Blocking[T]) DequeueContext(ctx context.Context) (T, error) {
	var zero T

	q.mu.Lock()
	defer q.release()

	if q.poisoned {
		return zero, ErrPoisoned
	}

	if q.count == 0 && !q.closed {
		stop := q.wakeOnDone(ctx)
		defer stop()

		// Another consumer may win the race for the item we were woken for.
		for q.count == 0 && !q.closed && !q.poisoned {
			if err := ctx.Err(); err != nil {
				return zero, errors.Wrap(err, "queue: dequeue")
			}
			q.notEmpty.Wait()
		}

		if q.poisoned {
			return zero, ErrPoisoned
		}
	}

	if q.count == 0 {
		return zero, ErrQueueClosed
	}

	item := q.take()
	q.notFull.Signal()
	return item, nil
}

// TryDequeue removes the head item without waiting.
// It returns ErrQueueEmpty on an empty open queue.
func (q *Blocking[T]) TryDequeue() (T, error) {
	var zero T

	q.mu.Lock()
	defer q.release()

	if q.poisoned {
		return zero, ErrPoisoned
	}
	if q.count == 0 {
		if q.closed {
			return zero, ErrQueueClosed
		}
		return zero, ErrQueueEmpty
	}

	item := q.take()
	q.notFull.Signal()
	return item, nil
}

// Close marks the queue closed and wakes every blocked producer and
// consumer. Buffered items can still be dequeued. Close is idempotent.
func (q *Blocking[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len returns the number of buffered items.
func (q *Blocking[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Capacity returns the maximum number of buffered items.
func (q *Blocking[T]) Capacity() int { return len(q.items) }

// IsClosed reports whether Close has been called.
func (q *Blocking[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Stats returns a snapshot of the queue counters.
func (q *Blocking[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return Stats{
		Capacity: len(q.items),
		Len:      q.count,
		Enqueued: q.enqueued,
		Dequeued: q.dequeued,
		Rejected: q.rejected,
		Closed:   q.closed,
		Policy:   q.overflow.String(),
	}
}

// put stores item at tail. Caller holds mu and has checked for space.
func (q *Blocking[T]) put(item T) {
	q.items[q.tail] = item
	q.tail++
	if q.tail == len(q.items) {
		q.tail = 0
	}
	q.count++
	q.enqueued++
}

// take removes the item at head. Caller holds mu and has checked count > 0.
func (q *Blocking[T]) take() T {
	var zero T

	item := q.items[q.head]
	q.items[q.head] = zero // hand the only reference to the caller
	q.head++
	if q.head == len(q.items) {
		q.head = 0
	}
	q.count--
	q.dequeued++
	return item
}

// wakeOnDone broadcasts both conditions when ctx is done so that waiters
// observe the cancellation. The broadcast takes mu, so it cannot fire
// between a waiter's ctx check and its Wait.
func (q *Blocking[T]) wakeOnDone(ctx context.Context) (stop func() bool) {
	if ctx.Done() == nil {
		return func() bool { return false }
	}
	return context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.notEmpty.Broadcast()
		q.notFull.Broadcast()
		q.mu.Unlock()
	})
}

// release unlocks mu. A panic unwinding through the critical section
// poisons the queue and wakes all waiters before it propagates.
func (q *Blocking[T]) release() {
	if r := recover(); r != nil {
		q.poisoned = true
		q.notEmpty.Broadcast()
		q.notFull.Broadcast()
		q.mu.Unlock()
		panic(r)
	}
	q.mu.Unlock()
}

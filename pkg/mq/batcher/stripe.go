package batcher

// stripe is a single buffer flushed to its consumer when full.
// It is NOT thread-safe; Batcher serialises access.
type stripe[T any] struct {
	cons Consumer[T]
	data []T
	cap  int
}

// newStripe creates a new stripe with the given consumer and capacity.
func newStripe[T any](cons Consumer[T], capacity int) *stripe[T] {
	return &stripe[T]{
		cons: cons,
		data: make([]T, 0, capacity),
		cap:  capacity,
	}
}

// push appends an item and flushes once the stripe is full.
func (s *stripe[T]) push(item T) error {
	s.data = append(s.data, item)
	if len(s.data) >= s.cap {
		return s.flush()
	}
	return nil
}

// flush hands the buffered items to the consumer. The stripe starts a
// fresh slice whether or not the consumer fails, since the consumer owns
// what it was given.
func (s *stripe[T]) flush() error {
	if len(s.data) == 0 {
		return nil
	}
	batch := s.data
	s.data = make([]T, 0, s.cap)
	return s.cons.Consume(batch)
}

package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huynhanx03/go-sharedqueue/pkg/datastructs/queue"
	"github.com/huynhanx03/go-sharedqueue/pkg/message"
	"github.com/huynhanx03/go-sharedqueue/pkg/mq/sink"
	"github.com/huynhanx03/go-sharedqueue/pkg/settings"
)

// counterIDs hands out 1, 2, 3, ...
type counterIDs struct{ n atomic.Int64 }

func (c *counterIDs) Next() int64 { return c.n.Add(1) }

// collectSink records every delivered message, safe for concurrent use.
type collectSink struct {
	mu    sync.Mutex
	ids   map[int64]int
	fail  error
	count atomic.Int64
}

func newCollectSink() *collectSink { return &collectSink{ids: make(map[int64]int)} }

func (s *collectSink) Write(_ context.Context, consumerID int, msg message.Message) error {
	if s.fail != nil {
		return s.fail
	}
	s.mu.Lock()
	s.ids[msg.ID()]++
	s.mu.Unlock()
	s.count.Add(1)
	return nil
}

func (s *collectSink) Close() error { return nil }

var _ sink.Sink = (*collectSink)(nil)

func newQueue(t *testing.T, capacity int, opts ...queue.Option) *queue.Blocking[message.Message] {
	t.Helper()
	q, err := queue.NewBlocking[message.Message](capacity, opts...)
	if err != nil {
		t.Fatalf("NewBlocking error: %v", err)
	}
	return q
}

func newConsumers(n int, s sink.Sink, delay time.Duration) []*Consumer {
	cs := make([]*Consumer, n)
	for i := range cs {
		cs[i] = NewConsumer(i+1, s, delay, nil)
	}
	return cs
}

func runWithTimeout(t *testing.T, ctx context.Context, q queue.Queue[message.Message], p *Producer, cs []*Consumer) (Report, error) {
	t.Helper()

	type result struct {
		report Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		r, err := Run(ctx, q, p, cs, nil)
		done <- result{r, err}
	}()

	select {
	case r := <-done:
		return r.report, r.err
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not finish")
		return Report{}, nil
	}
}

// =============================================================================
// Run Tests
// =============================================================================

func TestRun_DeliversEveryMessageOnce(t *testing.T) {
	const total = 1000
	q := newQueue(t, 4)
	s := newCollectSink()
	p := NewProducer(settings.Producer{Messages: total, BurstSize: 5, MessagePrefix: "Message"}, &counterIDs{}, nil, nil)

	report, err := runWithTimeout(t, context.Background(), q, p, newConsumers(5, s, 0))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Produced != total {
		t.Errorf("Produced = %d, want %d", report.Produced, total)
	}
	if got := report.TotalConsumed(); got != total {
		t.Errorf("TotalConsumed = %d, want %d", got, total)
	}
	if len(s.ids) != total {
		t.Errorf("sink saw %d distinct messages, want %d", len(s.ids), total)
	}
	for id, n := range s.ids {
		if n != 1 {
			t.Errorf("message %d delivered %d times", id, n)
		}
	}
	if !q.IsClosed() {
		t.Error("queue should be closed after the producer finished")
	}
}

func TestRun_DropWhenFull(t *testing.T) {
	const total = 200
	q := newQueue(t, 1, queue.WithOverflowPolicy(queue.OverflowReject))
	s := newCollectSink()
	p := NewProducer(settings.Producer{Messages: total, BurstSize: 10, OnFull: "drop"}, &counterIDs{}, nil, nil)

	report, err := runWithTimeout(t, context.Background(), q, p, newConsumers(2, s, time.Millisecond))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Produced+report.Dropped != total {
		t.Errorf("Produced %d + Dropped %d != %d", report.Produced, report.Dropped, total)
	}
	if report.Dropped == 0 {
		t.Error("expected some drops with a 1-slot queue and slow consumers")
	}
	if got := report.TotalConsumed(); got != report.Produced {
		t.Errorf("TotalConsumed = %d, want Produced %d", got, report.Produced)
	}
}

func TestRun_RetryWhenFull(t *testing.T) {
	const total = 100
	q := newQueue(t, 2, queue.WithOverflowPolicy(queue.OverflowReject))
	s := newCollectSink()
	p := NewProducer(settings.Producer{Messages: total, BurstSize: 5, OnFull: "retry", RetryBackoff: 1}, &counterIDs{}, nil, nil)

	report, err := runWithTimeout(t, context.Background(), q, p, newConsumers(3, s, 0))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Dropped != 0 || report.Produced != total {
		t.Errorf("Produced = %d Dropped = %d, want %d and 0", report.Produced, report.Dropped, total)
	}
	if got := s.count.Load(); got != total {
		t.Errorf("sink received %d, want %d", got, total)
	}
}

func TestRun_ContextCancelDrains(t *testing.T) {
	q := newQueue(t, 100)
	s := newCollectSink()
	p := NewProducer(settings.Producer{BurstSize: 5, Interval: 10, MessagePrefix: "Message"}, &counterIDs{}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	report, err := runWithTimeout(t, ctx, q, p, newConsumers(5, s, 0))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Produced == 0 {
		t.Error("producer produced nothing before cancellation")
	}
	if got := report.TotalConsumed(); got != report.Produced {
		t.Errorf("TotalConsumed = %d, want Produced %d (drained)", got, report.Produced)
	}
}

func TestRun_SinkErrorStopsRun(t *testing.T) {
	errSink := errors.New("sink down")
	q := newQueue(t, 4)
	s := newCollectSink()
	s.fail = errSink
	p := NewProducer(settings.Producer{BurstSize: 5}, &counterIDs{}, nil, nil)

	_, err := runWithTimeout(t, context.Background(), q, p, newConsumers(3, s, 0))
	if !errors.Is(err, errSink) {
		t.Errorf("Run() error = %v, want sink error", err)
	}
}

// =============================================================================
// Producer Tests
// =============================================================================

func TestProducer_MessageBodies(t *testing.T) {
	q := newQueue(t, 16)
	p := NewProducer(settings.Producer{Messages: 7, BurstSize: 5, MessagePrefix: "Message"}, &counterIDs{}, nil, nil)

	if err := p.Run(context.Background(), q); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []string{"Message 1", "Message 2", "Message 3", "Message 4", "Message 5", "Message 1", "Message 2"}
	for i, w := range want {
		msg, err := q.TryDequeue()
		if err != nil {
			t.Fatalf("TryDequeue %d error: %v", i, err)
		}
		if msg.String() != w {
			t.Errorf("message %d = %q, want %q", i, msg.String(), w)
		}
		if msg.ID() != int64(i+1) {
			t.Errorf("message %d id = %d, want %d", i, msg.ID(), i+1)
		}
	}
	if q.Len() != 0 {
		t.Errorf("queue holds %d extra messages", q.Len())
	}
}

func TestProducer_StopsOnClosedQueue(t *testing.T) {
	q := newQueue(t, 2)
	q.Close()
	p := NewProducer(settings.Producer{BurstSize: 5}, &counterIDs{}, nil, nil)

	if err := p.Run(context.Background(), q); err != nil {
		t.Errorf("Run() on closed queue error = %v, want nil", err)
	}
	if p.Produced() != 0 {
		t.Errorf("Produced = %d, want 0", p.Produced())
	}
}

// =============================================================================
// Consumer Tests
// =============================================================================

func TestConsumer_ExitsOnClose(t *testing.T) {
	q := newQueue(t, 4)
	s := newCollectSink()
	c := NewConsumer(1, s, 0, nil)

	_ = q.Enqueue(message.NewString(1, "a", time.Now()))
	_ = q.Enqueue(message.NewString(2, "b", time.Now()))
	q.Close()

	if err := c.Run(context.Background(), q); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if c.Consumed() != 2 {
		t.Errorf("Consumed = %d, want 2", c.Consumed())
	}
	if c.ID() != 1 {
		t.Errorf("ID = %d, want 1", c.ID())
	}
}

package queue

import (
	"fmt"

	"github.com/pkg/errors"
)

// OverflowPolicy decides what Enqueue does when the queue is full.
type OverflowPolicy int

const (
	// OverflowBlock parks the producer until a consumer frees a slot.
	OverflowBlock OverflowPolicy = iota
	// OverflowReject fails immediately with ErrQueueFull.
	OverflowReject
)

// String returns the configuration name of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case OverflowBlock:
		return "block"
	case OverflowReject:
		return "reject"
	default:
		return fmt.Sprintf("OverflowPolicy(%d)", int(p))
	}
}

// ParseOverflowPolicy maps a configuration name to an OverflowPolicy.
// An empty name selects OverflowBlock.
func ParseOverflowPolicy(name string) (OverflowPolicy, error) {
	switch name {
	case "", "block":
		return OverflowBlock, nil
	case "reject":
		return OverflowReject, nil
	default:
		return OverflowBlock, errors.Errorf("queue: unknown overflow policy %q", name)
	}
}

type options struct {
	overflow OverflowPolicy
}

func defaultOptions() options {
	return options{overflow: OverflowBlock}
}

// Option configures a Blocking queue.
type Option func(*options)

// WithOverflowPolicy sets the behaviour of Enqueue on a full queue.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(o *options) {
		o.overflow = p
	}
}

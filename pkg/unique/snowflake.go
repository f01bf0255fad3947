package unique

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/huynhanx03/go-sharedqueue/pkg/settings"
	"github.com/huynhanx03/go-sharedqueue/pkg/timer"
)

// secondsThreshold is the total bit width below which timestamps switch
// from milliseconds to seconds to delay overflow.
const secondsThreshold = 50

var (
	ErrWorkerIDRange = errors.New("unique: worker id exceeds node bits")
	ErrBitLayout     = errors.New("unique: total bits must exceed node + step bits")
)

// Generator issues roughly time-ordered, unique int64 IDs laid out as
// timestamp | worker | sequence. Safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	lastTime int64
	sequence int64

	worker    int64
	epoch     int64
	seconds   bool
	seqMask   int64
	timeShift uint8
	nodeShift uint8
	limitMask int64

	clock timer.Clock
}

// NewGenerator validates the bit layout and worker ID.
func NewGenerator(cfg settings.SnowflakeNode, clock timer.Clock) (*Generator, error) {
	layout := cfg.Config
	nodeMax := int64(-1 ^ (-1 << layout.Node))

	if cfg.WorkerID < 0 || cfg.WorkerID > nodeMax {
		return nil, errors.Wrapf(ErrWorkerIDRange, "worker %d, max %d", cfg.WorkerID, nodeMax)
	}

	totalBits := layout.TotalBits
	if totalBits == 0 {
		totalBits = 63
	}
	if totalBits <= layout.Node+layout.Step {
		return nil, errors.Wrapf(ErrBitLayout, "total %d, node %d, step %d", totalBits, layout.Node, layout.Step)
	}

	limitMask := int64(1)<<totalBits - 1
	if totalBits >= 63 {
		limitMask = int64(^uint64(0) >> 1)
	}

	if clock == nil {
		clock = timer.SystemClock{}
	}

	return &Generator{
		worker:    cfg.WorkerID,
		epoch:     layout.Epoch,
		seconds:   totalBits < secondsThreshold,
		seqMask:   int64(-1 ^ (-1 << layout.Step)),
		timeShift: layout.Node + layout.Step,
		nodeShift: layout.Step,
		limitMask: limitMask,
		clock:     clock,
	}, nil
}

// Next returns a new ID. When the sequence for the current tick is
// exhausted it spins until the clock moves on.
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.tick()
	if now < g.lastTime {
		// Clock moved backwards; stay on the last tick.
		now = g.lastTime
	}

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & g.seqMask
		if g.sequence == 0 {
			for now <= g.lastTime {
				now = g.tick()
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTime = now

	id := ((now - g.epoch) << g.timeShift) | (g.worker << g.nodeShift) | g.sequence
	return id & g.limitMask
}

func (g *Generator) tick() int64 {
	if g.seconds {
		return g.clock.Now().Unix()
	}
	return g.clock.Now().UnixMilli()
}

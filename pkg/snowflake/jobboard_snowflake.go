// Package snowflake generates time-ordered 64-bit entity IDs.
//
// Layout: 1 unused sign bit, 41 bits of milliseconds since 2024-01-01 UTC,
// 10 bits of node ID and a 12 bit per-millisecond sequence.
package snowflake

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

const (
	epoch int64 = 1704067200000

	nodeBits     = 10
	sequenceBits = 12

	maxNodeID   = (1 << nodeBits) - 1
	maxSequence = (1 << sequenceBits) - 1

	timestampShift = nodeBits + sequenceBits
	nodeShift      = sequenceBits
)

var (
	ErrInvalidNodeID  = errors.New("snowflake: node ID must be between 0 and 1023")
	ErrClockMovedBack = errors.New("snowflake: clock moved backwards")
	ErrInvalidID      = errors.New("snowflake: invalid ID")
)

// Generator hands out unique IDs for one node.
type Generator struct {
	mu       sync.Mutex
	nodeID   int64
	sequence int64
	lastTime int64
	now      func() int64
}

// NewGenerator creates a generator for nodeID (0..1023).
func NewGenerator(nodeID int64) (*Generator, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, ErrInvalidNodeID
	}
	return &Generator{
		nodeID: nodeID,
		now:    func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// Generate returns the next ID.
func (g *Generator) Generate() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now < g.lastTime {
		return 0, ErrClockMovedBack
	}

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			for now <= g.lastTime {
				time.Sleep(100 * time.Microsecond)
				now = g.now()
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTime = now

	return ((now - epoch) << timestampShift) | (g.nodeID << nodeShift) | g.sequence, nil
}

// Timestamp extracts the creation time from an ID.
func Timestamp(id int64) time.Time {
	return time.UnixMilli((id >> timestampShift) + epoch)
}

// NodeID extracts the generating node from an ID.
func NodeID(id int64) int64 {
	return (id >> nodeShift) & maxNodeID
}

// ParseID parses a decimal ID from a path parameter or query value.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

var (
	global     *Generator
	globalOnce sync.Once
	globalErr  error
)

// Init configures the process-wide generator. Call once at startup.
func Init(nodeID int64) error {
	globalOnce.Do(func() {
		global, globalErr = NewGenerator(nodeID)
	})
	return globalErr
}

// ID returns the next ID from the process-wide generator, initialising it
// with node 0 if Init was never called.
func ID() int64 {
	if global == nil {
		if err := Init(0); err != nil {
			panic(err)
		}
	}
	id, err := global.Generate()
	if err != nil {
		panic(err)
	}
	return id
}

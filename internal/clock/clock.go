// Package clock provides the logical height supplied to every ledger
// operation. Heights are monotonically non-decreasing across the total
// order of calls; deadlines and communication timestamps are expressed
// in heights, never wall time.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock yields the current logical height.
type Clock interface {
	Height() uint64
}

// BlockClock derives heights from wall time: the height is the number of
// whole intervals elapsed since genesis, plus one. Wall time only moves
// forward between calls in practice, but the last observed height is
// pinned so the clock never goes backwards even if the system clock does.
type BlockClock struct {
	genesis  time.Time
	interval time.Duration
	last     atomic.Uint64
}

// NewBlockClock creates a clock anchored at genesis, producing one height
// per interval.
func NewBlockClock(genesis time.Time, interval time.Duration) *BlockClock {
	return &BlockClock{genesis: genesis, interval: interval}
}

// Height returns the current height, starting at 1 at genesis.
func (c *BlockClock) Height() uint64 {
	elapsed := time.Since(c.genesis)
	if elapsed < 0 {
		elapsed = 0
	}
	h := uint64(elapsed/c.interval) + 1

	for {
		last := c.last.Load()
		if h <= last {
			return last
		}
		if c.last.CompareAndSwap(last, h) {
			return h
		}
	}
}

// ManualClock is a test clock whose height is set explicitly.
type ManualClock struct {
	height atomic.Uint64
}

// NewManualClock creates a manual clock at the given height.
func NewManualClock(height uint64) *ManualClock {
	c := &ManualClock{}
	c.height.Store(height)
	return c
}

// Height returns the current height.
func (c *ManualClock) Height() uint64 {
	return c.height.Load()
}

// SetHeight moves the clock. Moving backwards is ignored; the ledger
// contract requires heights to be non-decreasing.
func (c *ManualClock) SetHeight(h uint64) {
	for {
		last := c.height.Load()
		if h <= last {
			return
		}
		if c.height.CompareAndSwap(last, h) {
			return
		}
	}
}

// Advance moves the clock forward by delta heights.
func (c *ManualClock) Advance(delta uint64) {
	c.height.Add(delta)
}

// Package sequence issues per-game message sequence numbers.
package sequence

import (
	"context"
	"sync"
	"sync/atomic"
)

// Counter returns 1 on the first Next for a game id and the previous value
// plus one afterwards. Implementations must be safe for concurrent use.
type Counter interface {
	Next(ctx context.Context, gameID int) (int64, error)
	// Forget drops the state for gameID; the next Next starts again at 1.
	Forget(ctx context.Context, gameID int) error
}

// Memory is a process-wide counter. Each game id owns one atomic value, so
// concurrent callers never see a duplicate or a gap.
type Memory struct {
	m sync.Map // int -> *atomic.Int64
}

func NewMemory() *Memory { return &Memory{} }

func (c *Memory) Next(_ context.Context, gameID int) (int64, error) {
	for {
		if n, ok := c.take(gameID, c.counter(gameID)); ok {
			return n, nil
		}
	}
}

func (c *Memory) counter(gameID int) *atomic.Int64 {
	v, ok := c.m.Load(gameID)
	if !ok {
		v, _ = c.m.LoadOrStore(gameID, new(atomic.Int64))
	}
	return v.(*atomic.Int64)
}

// take draws from p and keeps the value only if p is still the live counter
// for gameID. A value drawn from a counter that Forget already dropped is
// discarded, so every value handed out after Forget comes from the new
// counter.
func (c *Memory) take(gameID int, p *atomic.Int64) (int64, bool) {
	n := p.Add(1)
	cur, ok := c.m.Load(gameID)
	return n, ok && cur.(*atomic.Int64) == p
}

func (c *Memory) Forget(_ context.Context, gameID int) error {
	c.m.Delete(gameID)
	return nil
}

// Len is the number of games currently tracked.
func (c *Memory) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

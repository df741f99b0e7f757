package harness

import "sync/atomic"

// Clock stamps trace events with strictly increasing sequence numbers,
// starting at 1 for the first event of a run.
type Clock struct {
	seq atomic.Int64
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number, or 0.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

package observer

import "sync/atomic"

// Sequence hands out pass sequence numbers used to order artifact names.
type Sequence interface {
	// Next increments the sequence and returns the new value.
	Next() int
	// Current returns the last value handed out, or 0.
	Current() int
}

// Counter is a Sequence starting at 1.
type Counter struct {
	n atomic.Int64
}

// NewCounter returns a counter whose first Next returns 1.
func NewCounter() *Counter {
	return &Counter{}
}

// Next implements Sequence.
func (c *Counter) Next() int { return int(c.n.Add(1)) }

// Current implements Sequence.
func (c *Counter) Current() int { return int(c.n.Load()) }

var defaultSequence = NewCounter()

// DefaultSequence returns the process-wide sequence used by observers that
// were not given one with WithSequence.
func DefaultSequence() Sequence { return defaultSequence }

// PassCount returns the current value of the process-wide pass sequence:
// the number of enabled observers constructed so far.
func PassCount() int { return defaultSequence.Current() }

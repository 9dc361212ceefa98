package tracking

import (
	"fmt"
	"image"
	"io"
	"sync"
)

// StateUpdater receives centroid changes for the dashboard
type StateUpdater interface {
	UpdatePosition(pos Position)
}

// Tracker remembers the last reported centroid and prints a line each time
// a found centroid differs from it.
//
// The previous position starts at the origin and is kept while the mask is
// empty, so a target that disappears and comes back at the same spot is not
// reported again.
type Tracker struct {
	out   io.Writer
	state StateUpdater

	mu       sync.RWMutex
	previous image.Point
	last     Position
	reported int
}

// NewTracker creates a tracker printing to out
func NewTracker(out io.Writer) *Tracker {
	return &Tracker{out: out}
}

// SetStateUpdater sets the dashboard state updater
func (t *Tracker) SetStateUpdater(state StateUpdater) {
	t.state = state
}

// Observe records the centroid of the current frame. It returns true when a
// line was written.
func (t *Tracker) Observe(pos Position) (bool, error) {
	t.mu.Lock()
	t.last = pos
	if !pos.Found || pos.Point == t.previous {
		t.mu.Unlock()
		return false, nil
	}
	t.previous = pos.Point
	t.reported++
	t.mu.Unlock()

	if _, err := fmt.Fprintln(t.out, pos.String()); err != nil {
		return true, fmt.Errorf("write position: %w", err)
	}

	if t.state != nil {
		t.state.UpdatePosition(pos)
	}
	return true, nil
}

// Previous returns the last reported point
func (t *Tracker) Previous() image.Point {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.previous
}

// Last returns the position seen on the most recent frame, found or not
func (t *Tracker) Last() Position {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// Reported returns how many lines have been written
func (t *Tracker) Reported() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.reported
}

package tracking

import (
	"image"
	"sync"
)

// requestQueueSize bounds how many dashboard requests can wait for the loop.
const requestQueueSize = 16

// Request is a change asked for from outside the capture loop. Exactly one
// field is set. The loop applies it on its own thread so OpenCV objects are
// never touched concurrently.
type Request struct {
	Params *Params
	Click  *image.Point
}

// Snapshot is a consistent view of the loop state for readers on other
// goroutines.
type Snapshot struct {
	Params   Params   `json:"params"`
	Radius   int      `json:"blur_radius"`
	Position Position `json:"position"`
	Frames   uint64   `json:"frames"`
}

// Store publishes the live tuning state and queues outside requests.
type Store struct {
	mu       sync.RWMutex
	params   Params
	position Position
	frames   uint64

	requests chan Request
}

// NewStore creates a store holding p
func NewStore(p Params) *Store {
	return &Store{
		params:   p,
		requests: make(chan Request, requestQueueSize),
	}
}

// GetParams returns the current tuning parameters
func (s *Store) GetParams() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Publish records the parameters and centroid of a processed frame.
func (s *Store) Publish(p Params, pos Position) {
	s.mu.Lock()
	s.params = p
	s.position = pos
	s.frames++
	s.mu.Unlock()
}

// Snapshot returns the latest published state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Params:   s.params,
		Radius:   s.params.BlurRadius(),
		Position: s.position,
		Frames:   s.frames,
	}
}

// RequestParams queues new slider values. It returns false when the queue
// is full.
func (s *Store) RequestParams(p Params) bool {
	return s.enqueue(Request{Params: &p})
}

// RequestClick queues a click-sample at (x, y) of the raw frame.
func (s *Store) RequestClick(x, y int) bool {
	pt := image.Pt(x, y)
	return s.enqueue(Request{Click: &pt})
}

func (s *Store) enqueue(r Request) bool {
	select {
	case s.requests <- r:
		return true
	default:
		// Queue full, loop is behind
		return false
	}
}

// Drain returns every queued request without blocking.
func (s *Store) Drain() []Request {
	var out []Request
	for {
		select {
		case r := <-s.requests:
			out = append(out, r)
		default:
			return out
		}
	}
}

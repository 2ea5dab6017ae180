package dispatch

import (
	"context"
	"sync"
)

// State is the observable phase of a submitted request.
type State int

const (
	StatePending State = iota
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateComplete:
		return "COMPLETE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Response is a raw HTTP outcome. Any well-formed response counts,
// whatever its status code; interpreting the status is the caller's
// business.
type Response struct {
	StatusCode int
	Body       []byte
}

// Handle is a single-assignment result cell for one dispatched
// request. It starts Pending and transitions exactly once to
// Complete or Failed. Many goroutines may poll or wait on it
// concurrently; only the dispatcher writes to it.
type Handle struct {
	mutex    sync.Mutex
	done     chan struct{}
	state    State
	response *Response
	err      error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// State returns the current phase without blocking.
func (h *Handle) State() State {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.state
}

// Done returns a channel closed when the handle reaches a terminal
// state, for callers who want to select on it.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the handle is terminal or ctx is cancelled. On a
// terminal handle it returns the response and error exactly as
// Response and Err would.
func (h *Handle) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-h.done:
		return h.Response(), h.Err()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Response returns the completed response, or nil if the handle is
// pending or failed.
func (h *Handle) Response() *Response {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.response
}

// Err returns the failure, or nil if the handle is pending or
// complete.
func (h *Handle) Err() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.err
}

func (h *Handle) complete(response *Response) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.state != StatePending {
		return
	}

	h.state = StateComplete
	h.response = response
	close(h.done)
}

func (h *Handle) fail(err error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.state != StatePending {
		return
	}

	h.state = StateFailed
	h.err = err
	close(h.done)
}

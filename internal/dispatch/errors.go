package dispatch

import (
	"errors"
	"fmt"

	"github.com/angeloszaimis/influxcluster/internal/instance"
)

// ErrNoInstances is the terminal error of a request submitted while
// the available set was empty. It is never retried internally.
var ErrNoInstances = errors.New("no instances available")

// TransportError wraps a connection, DNS or timeout failure against
// one instance. It marks the instance as a host-health problem; the
// dispatcher demotes the instance when it surfaces one of these.
type TransportError struct {
	Instance instance.Instance
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure against %s: %v", e.Instance, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

package influxcluster

import (
	"fmt"

	"github.com/angeloszaimis/influxcluster/internal/dispatch"
)

// ErrNoInstances reports a submission made while no instance was in
// rotation.
var ErrNoInstances = dispatch.ErrNoInstances

// TransportError reports a connection-level failure against one
// instance. The instance has been demoted and will be retried after
// the failover cooldown.
type TransportError = dispatch.TransportError

// StatusError is a well-formed server response with a non-2xx status.
// It does not indicate an unhealthy instance.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := string(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, body)
}

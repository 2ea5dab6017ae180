package dispatch

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/angeloszaimis/influxcluster/internal/failover"
	"github.com/angeloszaimis/influxcluster/internal/instance"
	"github.com/angeloszaimis/influxcluster/internal/metrics"
	"github.com/angeloszaimis/influxcluster/internal/pool"
)

// Param is one query parameter. Parameters keep the order the caller
// gave them; credentials are appended after all of them.
type Param struct {
	Key   string
	Value string
}

// Dispatcher turns logical requests into HTTP calls against pool
// instances. Each submission picks the next instance in rotation,
// fires the call on its own goroutine and resolves the returned
// handle exactly once. A transport-level failure demotes the chosen
// instance and hands it to the failover scheduler; a well-formed
// response of any status completes the handle. One instance, one
// outcome: the dispatcher never retries on another instance.
type Dispatcher struct {
	pool      *pool.Pool
	scheduler *failover.Scheduler
	client    *http.Client
	logger    *slog.Logger
	collector *metrics.Collector

	username string
	password string

	mutex          sync.RWMutex
	requestTimeout time.Duration
}

// NewDispatcher creates a dispatcher issuing calls through client.
// The collector may be nil. A zero requestTimeout means no bound.
func NewDispatcher(
	p *pool.Pool,
	scheduler *failover.Scheduler,
	client *http.Client,
	username, password string,
	logger *slog.Logger,
	collector *metrics.Collector,
) *Dispatcher {
	return &Dispatcher{
		pool:      p,
		scheduler: scheduler,
		client:    client,
		username:  username,
		password:  password,
		logger:    logger,
		collector: collector,
	}
}

// RequestTimeout returns the current per-request timeout bound.
func (d *Dispatcher) RequestTimeout() time.Duration {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.requestTimeout
}

// SetRequestTimeout bounds how long a dispatched call may wait for a
// response before it is treated as a transport failure. Zero
// disables the bound. Takes effect for subsequent submissions.
func (d *Dispatcher) SetRequestTimeout(timeout time.Duration) {
	d.mutex.Lock()
	d.requestTimeout = timeout
	d.mutex.Unlock()
}

// Submit picks an instance, builds the target URL with credentials
// attached, and fires the call in the background. It returns the
// status handle before the call completes and never blocks on
// network I/O. With no instance available the handle comes back
// already failed with ErrNoInstances and no call is attempted.
func (d *Dispatcher) Submit(method string, segments []string, params []Param) *Handle {
	return d.SubmitPayload(method, segments, params, nil)
}

// SubmitPayload is Submit with an opaque request body attached. The
// dispatcher never inspects the payload; a nil payload sends no body.
func (d *Dispatcher) SubmitPayload(method string, segments []string, params []Param, payload []byte) *Handle {
	handle := newHandle()

	inst, ok := d.pool.Next()
	if !ok {
		d.logger.Warn("No instances available",
			slog.String("method", method),
			slog.String("path", "/"+strings.Join(segments, "/")))
		handle.fail(ErrNoInstances)
		return handle
	}

	d.emit(metrics.Event{
		Type:      metrics.EventRequestSubmitted,
		Timestamp: time.Now(),
		Instance:  inst.String(),
	})
	d.emit(metrics.Event{
		Type:      metrics.EventInstanceSelected,
		Timestamp: time.Now(),
		Instance:  inst.String(),
	})

	target := d.buildURL(inst, segments, params)

	d.logger.Debug("Dispatching request",
		slog.String("method", method),
		slog.String("instance", inst.String()))

	go d.execute(inst, method, target, payload, handle)

	return handle
}

func (d *Dispatcher) execute(inst instance.Instance, method, target string, payload []byte, handle *Handle) {
	ctx := context.Background()
	if timeout := d.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		// A malformed request is a caller problem, not a signal
		// about the instance's health.
		handle.fail(err)
		return
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	res, err := d.client.Do(req)
	if err != nil {
		d.failover(inst, handle, err)
		return
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		d.failover(inst, handle, err)
		return
	}

	d.emit(metrics.Event{
		Type:       metrics.EventResponseCompleted,
		Timestamp:  time.Now(),
		Instance:   inst.String(),
		Duration:   time.Since(start),
		StatusCode: res.StatusCode,
	})

	handle.complete(&Response{StatusCode: res.StatusCode, Body: respBody})
}

func (d *Dispatcher) emit(event metrics.Event) {
	if d.collector == nil {
		return
	}
	d.collector.Emit(event)
}

// failover takes inst out of rotation, schedules its re-admission
// and fails the handle. If a concurrent dispatch demoted the
// instance first, only the handle is touched.
func (d *Dispatcher) failover(inst instance.Instance, handle *Handle, cause error) {
	d.logger.Warn("Transport failure, demoting instance",
		slog.String("instance", inst.String()),
		slog.Any("err", cause))

	if d.pool.Demote(inst) {
		d.emit(metrics.Event{
			Type:      metrics.EventInstanceDemoted,
			Timestamp: time.Now(),
			Instance:  inst.String(),
		})
		d.scheduler.Demoted(inst)
	}

	handle.fail(&TransportError{Instance: inst, Err: cause})
}

// buildURL assembles scheme://host:port/segments?params&u=...&p=...
// The query string is built by hand so parameter order survives and
// the credential pair always lands last. Caller params named u or p
// are dropped so the credentials appear exactly once.
func (d *Dispatcher) buildURL(inst instance.Instance, segments []string, params []Param) string {
	base := inst.BaseURL()

	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	base.RawPath = ""
	base.Path = "/" + strings.Join(segments, "/")
	if len(segments) > 0 {
		base.RawPath = "/" + strings.Join(escaped, "/")
	}

	var query strings.Builder
	for _, param := range params {
		if param.Key == "u" || param.Key == "p" {
			continue
		}
		query.WriteString(url.QueryEscape(param.Key))
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(param.Value))
		query.WriteByte('&')
	}
	query.WriteString("u=")
	query.WriteString(url.QueryEscape(d.username))
	query.WriteString("&p=")
	query.WriteString(url.QueryEscape(d.password))

	base.RawQuery = query.String()
	return base.String()
}

package influxcluster

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/influxcluster/config"
	"github.com/angeloszaimis/influxcluster/internal/dispatch"
	"github.com/angeloszaimis/influxcluster/internal/failover"
	"github.com/angeloszaimis/influxcluster/internal/instance"
	"github.com/angeloszaimis/influxcluster/internal/metrics"
	"github.com/angeloszaimis/influxcluster/internal/pool"
	"github.com/angeloszaimis/influxcluster/internal/transport"
	"github.com/angeloszaimis/influxcluster/pkg/logger"
)

// Handle is the pollable status cell returned by Submit.
type Handle = dispatch.Handle

// Response is the raw outcome of a completed request.
type Response = dispatch.Response

// Param is one ordered query parameter.
type Param = dispatch.Param

// MetricsSnapshot is a point-in-time view of per-instance counters.
type MetricsSnapshot = metrics.Snapshot

const metricsBufferSize = 1000

// Cluster is a client for a set of database instances. It owns the
// instance pool, the failover scheduler and the dispatcher, and is
// safe for concurrent use. Close releases the metrics pipeline;
// in-flight requests and pending failover timers finish on their own.
type Cluster struct {
	pool       *pool.Pool
	scheduler  *failover.Scheduler
	dispatcher *dispatch.Dispatcher
	collector  *metrics.Collector
	logger     *slog.Logger
	cancel     context.CancelFunc
}

// New builds a Cluster from a loaded configuration.
func New(cfg *config.Config) (*Cluster, error) {
	log := logger.New(cfg.Logging.Level, false, cfg.Logging.Environment)

	urls := make([]string, len(cfg.Instances))
	for i, ic := range cfg.Instances {
		urls[i] = ic.URL
	}

	c, err := newCluster(cfg.Cluster.Username, cfg.Cluster.Password, log, urls)
	if err != nil {
		return nil, err
	}

	c.scheduler.SetCooldown(cfg.Cluster.ParsedFailoverCooldown())
	c.dispatcher.SetRequestTimeout(cfg.Cluster.ParsedRequestTimeout())

	return c, nil
}

// NewCluster builds a Cluster directly from credentials and instance
// URLs, with the default 60s failover cooldown and no request
// timeout. Logging is discarded; construct through New and a config
// to get structured logs.
func NewCluster(username, password string, instanceURLs ...string) (*Cluster, error) {
	return newCluster(username, password, logger.Discard(), instanceURLs)
}

func newCluster(username, password string, log *slog.Logger, instanceURLs []string) (*Cluster, error) {
	p := pool.New()
	for _, raw := range instanceURLs {
		inst, err := instance.Parse(raw)
		if err != nil {
			return nil, err
		}
		p.Add(inst)
	}

	ctx, cancel := context.WithCancel(context.Background())

	collector := metrics.NewCollector(metricsBufferSize, log)
	collector.Start(ctx)

	scheduler := failover.NewScheduler(p, failover.DefaultCooldown, log, collector)
	dispatcher := dispatch.NewDispatcher(p, scheduler, transport.NewClient(), username, password, log, collector)

	return &Cluster{
		pool:       p,
		scheduler:  scheduler,
		dispatcher: dispatcher,
		collector:  collector,
		logger:     log,
		cancel:     cancel,
	}, nil
}

// AddInstance appends an endpoint to the available set. Duplicates
// are not rejected; add each endpoint once.
func (c *Cluster) AddInstance(rawURL string) error {
	inst, err := instance.Parse(rawURL)
	if err != nil {
		return err
	}
	c.pool.Add(inst)
	return nil
}

// AvailableInstances returns the endpoints currently in rotation.
func (c *Cluster) AvailableInstances() []string {
	return instanceStrings(c.pool.Available())
}

// DisabledInstances returns the endpoints sitting out a cooldown.
func (c *Cluster) DisabledInstances() []string {
	return instanceStrings(c.pool.Disabled())
}

// SetFailoverCooldown changes how long demoted instances sit out.
// Timers already armed keep their original duration.
func (c *Cluster) SetFailoverCooldown(cooldown time.Duration) {
	c.scheduler.SetCooldown(cooldown)
}

// SetRequestTimeout bounds each dispatched call. Zero disables the
// bound.
func (c *Cluster) SetRequestTimeout(timeout time.Duration) {
	c.dispatcher.SetRequestTimeout(timeout)
}

// Metrics returns a snapshot of per-instance request counters.
func (c *Cluster) Metrics() MetricsSnapshot {
	return c.collector.Snapshot()
}

// Submit dispatches a raw request asynchronously and returns its
// status handle. Most callers want the blocking operation wrappers
// instead.
func (c *Cluster) Submit(method string, segments []string, params []Param) *Handle {
	return c.dispatcher.Submit(method, segments, params)
}

// Close stops the metrics pipeline. Outstanding requests and
// failover timers run to completion against the still-valid pool.
func (c *Cluster) Close() {
	c.cancel()
}

// Database returns a handle for per-database operations. No request
// is made; the database is not checked for existence.
func (c *Cluster) Database(name string) *Database {
	return &Database{cluster: c, Name: name}
}

// CreateDatabase creates a database. Requires cluster admin
// privileges.
func (c *Cluster) CreateDatabase(ctx context.Context, name string) error {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, []string{"db"}, nil, payload)
	return err
}

// DeleteDatabase removes a database. Requires cluster admin
// privileges.
func (c *Cluster) DeleteDatabase(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodDelete, []string{"db", name}, nil, nil)
	return err
}

// DatabaseNames lists the databases on the cluster. Requires cluster
// admin privileges.
func (c *Cluster) DatabaseNames(ctx context.Context) ([]string, error) {
	res, err := c.do(ctx, http.MethodGet, []string{"db"}, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeNames(res.Body)
}

// Users lists the users of a database. Requires cluster admin
// privileges.
func (c *Cluster) Users(ctx context.Context, db string) ([]string, error) {
	res, err := c.do(ctx, http.MethodGet, []string{"db", db, "users"}, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeNames(res.Body)
}

// User fetches one user of a database as the raw server document.
// Requires cluster admin privileges.
func (c *Cluster) User(ctx context.Context, db, name string) ([]byte, error) {
	res, err := c.do(ctx, http.MethodGet, []string{"db", db, "users", name}, nil, nil)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// CreateUser adds a user to a database. Requires cluster admin
// privileges.
func (c *Cluster) CreateUser(ctx context.Context, db, name, password string) error {
	payload, err := json.Marshal(map[string]string{"name": name, "password": password})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, []string{"db", db, "users"}, nil, payload)
	return err
}

// UpdateUser updates a user with a raw JSON options document, passed
// through to the server uninterpreted. Requires cluster admin
// privileges.
func (c *Cluster) UpdateUser(ctx context.Context, db, name string, options []byte) error {
	_, err := c.do(ctx, http.MethodPost, []string{"db", db, "users", name}, nil, options)
	return err
}

// do submits a request and blocks until its handle resolves or ctx
// is cancelled. Non-2xx responses come back as *StatusError.
func (c *Cluster) do(ctx context.Context, method string, segments []string, params []Param, payload []byte) (*Response, error) {
	handle := c.dispatcher.SubmitPayload(method, segments, params, payload)

	res, err := handle.Wait(ctx)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: res.Body}
	}

	return res, nil
}

func instanceStrings(instances []instance.Instance) []string {
	out := make([]string, len(instances))
	for i, inst := range instances {
		out[i] = inst.String()
	}
	return out
}

// decodeNames extracts the "name" field from a JSON array of
// objects, the shape the server uses for database and user listings.
func decodeNames(body []byte) ([]string, error) {
	var entries []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, err
	}

	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}
	return names, nil
}

package influxcluster

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// TimePrecision selects the resolution of timestamps sent to and
// returned by the server.
type TimePrecision string

const (
	PrecisionSeconds      TimePrecision = "s"
	PrecisionMilliseconds TimePrecision = "ms"
	PrecisionMicroseconds TimePrecision = "u"
)

// Series is one named series with uniform columns, in the server's
// wire shape.
type Series struct {
	Name    string          `json:"name"`
	Columns []string        `json:"columns"`
	Points  [][]interface{} `json:"points"`
}

// Database scopes operations to one database on the cluster. Obtain
// one from Cluster.Database.
type Database struct {
	cluster *Cluster
	Name    string
}

// SeriesNames lists the series in the database. Requires database
// admin privileges.
func (d *Database) SeriesNames(ctx context.Context) ([]string, error) {
	res, err := d.cluster.do(ctx, http.MethodGet, []string{"db", d.Name, "series"},
		[]Param{{Key: "q", Value: "list series"}}, nil)
	if err != nil {
		return nil, err
	}
	return decodeNames(res.Body)
}

// Query runs a raw query and returns the undecoded response body.
// Creating continuous queries through here requires database admin
// privileges.
func (d *Database) Query(ctx context.Context, query string, precision TimePrecision) ([]byte, error) {
	params := []Param{{Key: "q", Value: query}}
	params = appendPrecision(params, precision)

	res, err := d.cluster.do(ctx, http.MethodGet, []string{"db", d.Name, "series"}, params, nil)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// WriteSeries writes batches of points across several series in one
// request.
func (d *Database) WriteSeries(ctx context.Context, series []Series, precision TimePrecision) error {
	payload, err := json.Marshal(series)
	if err != nil {
		return err
	}

	params := appendPrecision(nil, precision)
	_, err = d.cluster.do(ctx, http.MethodPost, []string{"db", d.Name, "series"}, params, payload)
	return err
}

// WritePoints writes rows of points into one series.
func (d *Database) WritePoints(ctx context.Context, series string, columns []string, points [][]interface{}, precision TimePrecision) error {
	return d.WriteSeries(ctx, []Series{{Name: series, Columns: columns, Points: points}}, precision)
}

// WritePoint writes a single row into one series.
func (d *Database) WritePoint(ctx context.Context, series string, columns []string, point []interface{}, precision TimePrecision) error {
	return d.WritePoints(ctx, series, columns, [][]interface{}{point}, precision)
}

// ContinuousQueries returns the database's continuous queries as the
// raw server document. Requires database admin privileges.
func (d *Database) ContinuousQueries(ctx context.Context) ([]byte, error) {
	res, err := d.cluster.do(ctx, http.MethodGet, []string{"db", d.Name, "continuous_queries"}, nil, nil)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// DropContinuousQuery removes a continuous query by id. Requires
// database admin privileges.
func (d *Database) DropContinuousQuery(ctx context.Context, id int) error {
	_, err := d.cluster.do(ctx, http.MethodDelete,
		[]string{"db", d.Name, "continuous_queries", strconv.Itoa(id)}, nil, nil)
	return err
}

// DropSeries removes a series and its data.
func (d *Database) DropSeries(ctx context.Context, series string) error {
	_, err := d.cluster.do(ctx, http.MethodDelete, []string{"db", d.Name, "series", series}, nil, nil)
	return err
}

func appendPrecision(params []Param, precision TimePrecision) []Param {
	if precision == "" {
		return params
	}
	return append(params, Param{Key: "time_precision", Value: string(precision)})
}

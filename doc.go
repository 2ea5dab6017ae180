// Package influxcluster is a client for a cluster of InfluxDB-style
// time-series database instances reached over HTTP.
//
// The client keeps a pool of instances and spreads requests across
// them round-robin. An instance that fails at the transport level is
// taken out of rotation and automatically re-admitted after a
// cooldown; a response with an error status stays in rotation, since
// application errors say nothing about host health.
//
//	cluster, err := influxcluster.NewCluster("root", "root",
//		"http://db1.local:8086", "http://db2.local:8086")
//	if err != nil {
//		// ...
//	}
//	defer cluster.Close()
//
//	err = cluster.CreateDatabase(ctx, "metrics")
//
// Every operation is a thin wrapper that shapes a request and hands
// it to the dispatcher; Submit exposes the same path asynchronously
// through a pollable status handle.
package influxcluster

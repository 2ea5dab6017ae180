// Package transport constructs the shared HTTP client with
// connection pooling and dial limits suited to repeated calls
// against a small set of cluster instances.
package transport

// Package instance defines the immutable descriptor of one cluster
// endpoint (scheme, host, port) and parsing from URL strings.
package instance

// Package config loads and validates the cluster client configuration
// from config.yaml and environment variables.
package config

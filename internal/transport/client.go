package transport

import (
	"net"
	"net/http"
	"time"
)

// NewClient builds the HTTP client shared by every dispatch.
//
// The client itself carries no overall timeout: the dispatcher
// applies the configured per-request bound through the request
// context, so an unset bound really means unbounded. Dialing and TLS
// setup keep short limits so a dead host fails the dial instead of
// hanging the goroutine.
func NewClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		},
	}
}

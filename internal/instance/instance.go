package instance

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Scheme is the URL scheme used to reach an instance.
type Scheme int

const (
	SchemeHTTP Scheme = iota
	SchemeHTTPS
)

// DefaultPort is the port instances listen on unless told otherwise.
const DefaultPort uint16 = 8086

func (s Scheme) String() string {
	switch s {
	case SchemeHTTPS:
		return "https"
	default:
		return "http"
	}
}

// Instance identifies one backend endpoint. It is a plain value type:
// two instances are the same endpoint exactly when scheme, host and
// port are all equal, so it can be used as a map key and compared
// with ==. The pool relies on this for value-based removal.
type Instance struct {
	Scheme Scheme
	Host   string
	Port   uint16
}

// String renders the instance as scheme://host:port.
func (i Instance) String() string {
	return fmt.Sprintf("%s://%s", i.Scheme, net.JoinHostPort(i.Host, strconv.Itoa(int(i.Port))))
}

// BaseURL returns a URL with scheme and host:port set and no path.
func (i Instance) BaseURL() *url.URL {
	return &url.URL{
		Scheme: i.Scheme.String(),
		Host:   net.JoinHostPort(i.Host, strconv.Itoa(int(i.Port))),
	}
}

// Parse builds an Instance from a raw URL such as "http://db1.local:8086".
// The scheme must be http or https; a missing port falls back to
// DefaultPort. The host is validated before the instance is returned.
func Parse(raw string) (Instance, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Instance{}, fmt.Errorf("parse instance url %q: %w", raw, err)
	}

	var scheme Scheme
	switch parsed.Scheme {
	case "http":
		scheme = SchemeHTTP
	case "https":
		scheme = SchemeHTTPS
	default:
		return Instance{}, fmt.Errorf("instance url %q: scheme must be http or https", raw)
	}

	host := parsed.Hostname()
	if host == "" {
		return Instance{}, fmt.Errorf("instance url %q: missing host", raw)
	}
	if err := validation.Validate(host, is.Host); err != nil {
		return Instance{}, fmt.Errorf("instance url %q: invalid host: %w", raw, err)
	}

	port := DefaultPort
	if p := parsed.Port(); p != "" {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Instance{}, fmt.Errorf("instance url %q: invalid port: %w", raw, err)
		}
		port = uint16(n)
	}

	return Instance{Scheme: scheme, Host: host, Port: port}, nil
}

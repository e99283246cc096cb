package httpclient

import (
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// New returns a client whose every request is bounded by timeout. Outbound calls to the
// payment provider and the hosted datastore share this constructor.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        32,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: timeout,
		},
	}
}

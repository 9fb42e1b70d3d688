package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config tunes the shared outbound HTTP client. A zero Timeout leaves the
// client without a deadline of its own.
type Config struct {
	Timeout             time.Duration `default:"0s"`
	MaxIdleConns        int           `split_words:"true" default:"10"`
	MaxIdleConnsPerHost int           `split_words:"true" default:"5"`
	IdleConnTimeout     time.Duration `split_words:"true" default:"90s"`
}

func (c Config) New() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        c.MaxIdleConns,
		MaxIdleConnsPerHost: c.MaxIdleConnsPerHost,
		IdleConnTimeout:     c.IdleConnTimeout,
	}

	return &http.Client{
		Transport: otelhttp.NewTransport(transport),
		Timeout:   c.Timeout,
	}
}

package api

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"domjudge-tool/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// Client talks to the DOMjudge REST API (the read path). Write paths
// the server only exposes through its jury web UI live in the sibling
// web package.
type Client struct {
	Host string
	Http *resty.Client
}

type ClientOptions struct {
	Host     string
	Username string
	Password string
	// skips TLS certificate verification
	DisableSSL bool
	// per-request timeout, 0 means no timeout
	Timeout time.Duration
	// connection pool limits, 0 keeps the transport defaults
	MaxConnections          int
	MaxKeepaliveConnections int
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("api client: host is required")
	}

	client := resty.New()
	client.SetBaseURL(opts.Host + "/api/v4")
	client.SetBasicAuth(opts.Username, opts.Password)
	client.SetTimeout(opts.Timeout)

	if opts.MaxConnections > 0 || opts.MaxKeepaliveConnections > 0 {
		client.SetTransport(&http.Transport{
			MaxConnsPerHost:     opts.MaxConnections,
			MaxIdleConnsPerHost: opts.MaxKeepaliveConnections,
		})
	}
	if opts.DisableSSL {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		if res.IsError() {
			return fmt.Errorf(
				"%s %s: status %d",
				res.Request.Method, res.Request.URL, res.StatusCode(),
			)
		}
		return nil
	})

	telemetry.InstrumentResty(client, "scrapers/domjudge/api")

	return &Client{
		Host: opts.Host,
		Http: client,
	}, nil
}

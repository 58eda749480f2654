package web

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"domjudge-tool/lib/htmlutil"
	"domjudge-tool/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/domjudge/web")

var ErrLoginFailed = errors.New("failed to login to the jury interface")

// Client automates the session-based jury web UI for the write and
// scrape paths the REST API does not cover. It emulates an operator:
// fetch the current form state, patch only the intended fields, submit,
// and infer the outcome from where the server redirected to.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	username string
	password string
}

type ClientOptions struct {
	Host     string
	Username string
	Password string
	// skips TLS certificate verification
	DisableSSL bool
	// per-request timeout, 0 means no timeout
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.Host)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.Host)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)
	if opts.DisableSSL {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	// the jury UI reports validation failures by redisplaying the form
	// with a 200, so a 4xx/5xx is always a transport-level failure and
	// must not be mistaken for a parseable page
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		if res.IsError() {
			return fmt.Errorf(
				"%s %s: status %d",
				res.Request.Method, res.Request.URL, res.StatusCode(),
			)
		}
		return nil
	})

	telemetry.InstrumentResty(client, "scrapers/domjudge/web")

	return &Client{
		BaseUrl:  baseUrl,
		Http:     client,
		username: opts.Username,
		password: opts.Password,
	}, nil
}

// getPage fetches a jury page and parses it.
func (c *Client) getPage(ctx context.Context, path string) (*goquery.Document, *resty.Response, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, res, nil
}

// formSnapshot fetches a form page and extracts its default payload.
func (c *Client) formSnapshot(ctx context.Context, path string) (url.Values, error) {
	doc, _, err := c.getPage(ctx, path)
	if err != nil {
		return nil, err
	}
	form := url.Values{}
	for name, value := range htmlutil.FormFields(doc) {
		form.Set(name, value)
	}
	return form, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*resty.Response, error) {
	return c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(path)
}

// finalPath is the path the server left us on after redirects.
func finalPath(res *resty.Response) string {
	return res.RawResponse.Request.URL.Path
}

// accepted reports whether a form submission was taken by the server:
// the jury UI redirects away from the form on success and redisplays
// it (same URL) on validation failure. This redirect sentinel is the
// only outcome signal the server provides.
func accepted(res *resty.Response, submitPath string) bool {
	return finalPath(res) != submitPath
}

func lastPathSegment(path string) string {
	trimmed := strings.TrimRight(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}

// Login authenticates the session against the web UI. It must be
// called before any other operation on the client.
func (c *Client) Login(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	form, err := c.formSnapshot(ctx, pathLogin)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login form")
		return err
	}
	form.Set("_username", c.username)
	form.Set("_password", c.password)

	res, err := c.postForm(ctx, pathLogin, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit login form")
		return err
	}

	if finalPath(res) != pathJuryHome {
		span.SetStatus(codes.Error, "login rejected")
		return fmt.Errorf("%w: user %q", ErrLoginFailed, c.username)
	}
	return nil
}

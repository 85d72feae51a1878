package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skillsenselab/azurekit/errors"
	"github.com/skillsenselab/azurekit/logger"
	"github.com/skillsenselab/azurekit/version"
)

const tracerName = "github.com/skillsenselab/azurekit/httpclient"

// Client issues proxy-aware GET requests with optional bearer authentication.
type Client struct {
	config    Config
	lookupEnv LookupEnv
	log       *logger.Logger
	tracer    trace.Tracer
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithEnvLookup overrides the environment lookup used for proxy resolution.
// Intended for tests.
func WithEnvLookup(lookup LookupEnv) Option {
	return func(c *Client) { c.lookupEnv = lookup }
}

// New creates a new client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:    cfg,
		lookupEnv: os.LookupEnv,
		log:       logger.WithComponent("httpclient"),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Response is the result of a fetch. Every HTTP status code is a completed
// response; interpreting the status is the caller's job.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, flattened to single values.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Fetch performs an unauthenticated GET request against an absolute URL.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	return c.get(ctx, rawURL, "")
}

// FetchWithToken performs a GET request with a bearer token attached.
func (c *Client) FetchWithToken(ctx context.Context, rawURL, token string) (*Response, error) {
	return c.get(ctx, rawURL, token)
}

func (c *Client) get(ctx context.Context, rawURL, token string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, errors.Config("request url must be an absolute URL").WithDetail("url", rawURL)
	}

	resolution, err := ResolveProxy(c.lookupEnv, c.config)
	if err != nil {
		return nil, err
	}

	target := rawURL
	transport := &http.Transport{}
	if resolution.Proxied() {
		mode := chooseTunnelMode(isHTTPSURL(u), isHTTPSURL(resolution.URL))
		c.log.Debug("routing request through proxy tunnel", logger.Fields(
			logger.FieldProxySource, string(resolution.Source),
			"tunnel_mode", string(mode),
			"proxy", resolution.Authority.Addr(),
		))
		transport, err = newTunnelTransport(resolution)
		if err != nil {
			return nil, err
		}
		// Some proxies mis-route URLs without an explicit port; pin it for
		// authenticated requests.
		if token != "" {
			target = explicitPortURL(u)
		}
	}

	if c.config.EnableTracing {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "httpclient.get", trace.WithAttributes(
			attribute.String("http.url", target),
			attribute.String("proxy.source", string(resolution.Source)),
		))
		defer span.End()
		resp, err := c.dispatch(ctx, target, token, transport)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		return resp, nil
	}

	return c.dispatch(ctx, target, token, transport)
}

func (c *Client) dispatch(ctx context.Context, target, token string, transport *http.Transport) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Config("create request").WithCause(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   c.config.Timeout,
	}

	c.log.Debug("dispatching GET request", logger.Fields(logger.FieldURL, target))
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Transport("fetch", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Transport("read response body", err)
	}

	c.log.Debug("response received", logger.Fields(
		logger.FieldURL, target,
		logger.FieldStatus, resp.StatusCode,
	))
	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}, nil
}

// explicitPortURL rewrites a URL to carry an explicit port, 443 for HTTPS
// and 80 otherwise.
func explicitPortURL(u *url.URL) string {
	if u.Port() != "" {
		return u.String()
	}
	port := "80"
	if isHTTPSURL(u) {
		port = "443"
	}
	rewritten := *u
	rewritten.Host = net.JoinHostPort(u.Hostname(), port)
	return rewritten.String()
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	interrors "github.com/jrsteele09/go-jobportal-client/internal/errors"
	"github.com/jrsteele09/go-jobportal-client/token"
	"github.com/jrsteele09/go-jobportal-client/token/refresh"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout        = 15 * time.Second
	defaultRefreshTimeout = 10 * time.Second

	// RequestIDHeader identifies one logical request; a resend after refresh reuses it
	RequestIDHeader = "X-Request-ID"
)

// Client sends requests to the job-portal backend, attaching the stored bearer token and
// recovering once from an expired access token by refreshing it.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          *token.Store
	coordinator    *refresh.Coordinator
	timeout        time.Duration
	refreshTimeout time.Duration
	userAgent      string
	tracing        bool
	registerer     prometheus.Registerer
	metrics        *metrics
	logger         zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout should be zero; per-call
// timeouts are applied by the Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout bounds every individual attempt
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRefreshTimeout bounds the refresh-token call
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.refreshTimeout = timeout
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRegisterer registers the client metrics on reg instead of a private registry
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) {
		if reg != nil {
			c.registerer = reg
		}
	}
}

// WithTracing wraps the transport with OpenTelemetry client spans
func WithTracing(enabled bool) Option {
	return func(c *Client) {
		c.tracing = enabled
	}
}

// New creates a Client for the backend rooted at baseURL, e.g. http://localhost:15000/api.
func New(baseURL string, store *token.Store, options ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("[New] token store is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(interrors.ErrInvalidRequest, "[New] invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{},
		store:          store,
		timeout:        defaultTimeout,
		refreshTimeout: defaultRefreshTimeout,
		registerer:     prometheus.NewRegistry(),
		logger:         zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}

	if c.tracing {
		traced := *c.httpClient
		base := traced.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		traced.Transport = otelhttp.NewTransport(base)
		c.httpClient = &traced
	}

	c.metrics, err = newMetrics(c.registerer)
	if err != nil {
		return nil, errors.Wrap(err, "[New] metrics")
	}

	c.coordinator = refresh.NewCoordinator(store, tokenRefresher{client: c},
		refresh.WithTimeout(c.refreshTimeout),
		refresh.WithLogger(c.logger),
		refresh.WithObserver(c.metrics.observeRefresh),
	)
	return c, nil
}

// Store returns the token store the client reads credentials from
func (c *Client) Store() *token.Store {
	return c.store
}

// OnLogout registers fn to run when a failed refresh ends the session. The returned
// function unregisters it.
func (c *Client) OnLogout(fn refresh.LogoutFunc) func() {
	return c.coordinator.OnLogout(fn)
}

// Refreshes returns how many refresh-token calls the client has made
func (c *Client) Refreshes() int64 {
	return c.coordinator.Refreshes()
}

// Do sends req. Unless req is anonymous the stored access token is attached, and a 401
// triggers one refresh followed by exactly one resend.
//
// A JWT access token already past its exp is refreshed before the first send. That counts
// as the request's one refresh: a 401 for the refreshed token is returned without another
// refresh. If that early refresh ends the session nothing is sent, and Do returns a nil
// Response with a 401 *APIError wrapping ErrSessionExpired and the cause.
//
// Responses with status 400 or above are returned together with an *APIError. A 401
// that could not be recovered carries the refresh failure as the APIError's cause.
// Transport failures return a nil Response and an error wrapping ErrTransport and the
// underlying cause, so context.DeadlineExceeded can still be matched.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Path == "" {
		return nil, errors.Wrap(interrors.ErrInvalidRequest, "[Do] request path is required")
	}

	p, err := newPendingRequest(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", interrors.ErrInvalidRequest, err)
	}

	if !req.Anonymous {
		p.token = c.store.Token()
		if p.token != nil && !p.token.Valid() && !req.NoRefresh {
			// access token is a JWT past its exp; refresh before spending a round trip
			if err := c.refreshBeforeSend(ctx, p); err != nil {
				return nil, err
			}
		}
	}

	resp, err := c.send(ctx, p)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || req.Anonymous || req.NoRefresh || p.attempted {
		return resp, resp.asError()
	}

	p.attempted = true
	fresh, err := c.coordinator.Refresh(ctx, p.accessToken())
	if err != nil {
		c.logger.Debug().Err(err).Str("path", req.Path).Str("request_id", p.requestID).Msg("401 not recovered")
		return resp, newAPIError(resp, err)
	}

	p.token = fresh
	resp, err = c.send(ctx, p)
	if err != nil {
		return nil, err
	}
	return resp, resp.asError()
}

// DoJSON sends req and decodes a successful response body into out
func (c *Client) DoJSON(ctx context.Context, req *Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (c *Client) refreshBeforeSend(ctx context.Context, p *pendingRequest) error {
	p.attempted = true
	fresh, err := c.coordinator.Refresh(ctx, p.token.AccessToken)
	switch {
	case err == nil:
		p.token = fresh
		return nil
	case ctx.Err() != nil:
		return errors.Wrap(ctx.Err(), "[Do] waiting for token refresh")
	case errors.Is(err, interrors.ErrSessionExpired):
		// the session ended; nothing is sent
		c.logger.Debug().Err(err).Str("path", p.req.Path).Msg("refresh of expired access token failed")
		return &APIError{StatusCode: http.StatusUnauthorized, Err: err}
	default:
		// no refresh token to use; the backend judges the stale token
		return nil
	}
}

// send makes one attempt bounded by the per-call timeout and reads the whole body.
func (c *Client) send(ctx context.Context, p *pendingRequest) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := c.newHTTPRequest(ctx, p)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.observeRequest(p.method(), 0, time.Since(start))
		c.logger.Debug().Err(err).Str("method", p.method()).Str("path", p.req.Path).
			Str("request_id", p.requestID).Msg("request failed")
		return nil, fmt.Errorf("%w: %s %s: %w", interrors.ErrTransport, p.method(), p.req.Path, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.metrics.observeRequest(p.method(), 0, time.Since(start))
		return nil, fmt.Errorf("%w: %s %s: read body: %w", interrors.ErrTransport, p.method(), p.req.Path, err)
	}

	elapsed := time.Since(start)
	c.metrics.observeRequest(p.method(), httpResp.StatusCode, elapsed)
	c.logger.Debug().Str("method", p.method()).Str("path", p.req.Path).Int("status", httpResp.StatusCode).
		Dur("elapsed", elapsed).Str("request_id", p.requestID).Msg("request")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, p *pendingRequest) (*http.Request, error) {
	path := p.req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := c.baseURL + path
	if len(p.req.Query) > 0 {
		target += "?" + p.req.Query.Encode()
	}

	var body io.Reader
	if p.body != nil {
		body = bytes.NewReader(p.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, p.method(), target, body)
	if err != nil {
		return nil, errors.Wrapf(interrors.ErrInvalidRequest, "[newHTTPRequest] %s %s: %v", p.method(), path, err)
	}

	for key, values := range p.req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if p.contentType != "" {
		httpReq.Header.Set("Content-Type", p.contentType)
	}
	httpReq.Header.Set(RequestIDHeader, p.requestID)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if p.token != nil && !p.req.Anonymous {
		p.token.SetAuthHeader(httpReq)
	}
	return httpReq, nil
}

// asError converts a 4xx/5xx response into an *APIError
func (r *Response) asError() error {
	if r.StatusCode < http.StatusBadRequest {
		return nil
	}
	return newAPIError(r, nil)
}

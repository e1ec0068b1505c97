// Package client implements the resilient call layer used by every
// TrainHub API consumer: per-resource retry policies with exponential
// backoff, failure classification, and normalization of every outcome
// into either a typed success, an expected-condition sentinel, or an
// *APIError.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Client executes logical API calls against the TrainHub backend.
// Concurrent calls are independent; the only shared state is the
// immutable policy resolver and the resty transport.
type Client struct {
	rest     *resty.Client
	tokens   TokenSource
	resolver *Resolver
	log      zerolog.Logger
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithTokenSource injects the bearer-token supplier.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger used for attempt and classification
// diagnostics. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithResolver replaces the policy resolver. Useful when resource
// policy fragments are registered up front.
func WithResolver(r *Resolver) Option {
	return func(c *Client) { c.resolver = r }
}

// WithTimeout sets the per-attempt transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.rest.SetTimeout(d) }
}

// WithHTTPClient swaps the underlying http.Client, mainly for tests.
// The base URL, default headers, and timeout configured so far carry
// over; a non-zero timeout on hc itself wins.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		rest := resty.NewWithClient(hc).SetBaseURL(c.rest.BaseURL)
		rest.Header = c.rest.Header.Clone()
		if hc.Timeout == 0 {
			rest.SetTimeout(c.rest.GetClient().Timeout)
		}
		c.rest = rest
	}
}

// New creates a Client for the given base URL. Retrying is handled by
// this package's own dispatcher, so resty's built-in retry stays off.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		rest:     resty.New().SetBaseURL(baseURL).SetHeader("Accept", "application/json").SetTimeout(30 * time.Second),
		resolver: NewResolver(DefaultPolicy()),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallRequest describes one logical call. It is created per invocation
// and never persisted.
type CallRequest struct {
	Endpoint string
	Method   string // GET, POST, PUT, PATCH or DELETE
	Body     interface{}

	// Resource selects a registered retry-policy fragment; unknown or
	// empty tags fall back to the default policy.
	Resource string
	// Policy carries call-level overrides merged over the resource
	// policy.
	Policy *PolicyOverrides
	// PublicContext marks calls from pages that tolerate anonymous
	// visitors, enabling the 401 carve-out on GETs.
	PublicContext bool

	// Result, when non-nil, receives the decoded success payload.
	Result interface{}
}

// Outcome is the terminal state of one call. A nil Expected field means
// real data was decoded into the request's Result; otherwise the call
// ended in one of the anticipated business conditions.
type Outcome struct {
	StatusCode int
	Expected   *ExpectedCondition
}

// OK reports whether the call produced real data.
func (o *Outcome) OK() bool { return o.Expected == nil }

// Absent reports whether the call hit the "resource does not exist yet"
// sentinel.
func (o *Outcome) Absent() bool {
	return o.Expected != nil && o.Expected.Kind == ExpectedAbsent
}

// Anonymous reports whether the call hit the "no active session"
// sentinel.
func (o *Outcome) Anonymous() bool {
	return o.Expected != nil && o.Expected.Kind == ExpectedAnonymous
}

// Call runs one logical call to completion: it loops through attempts,
// sleeping with exponential backoff between retryable failures, and
// returns exactly one of a success outcome, an expected-condition
// outcome, or a terminal *APIError.
//
// At most policy.MaxRetries+1 attempts are made. The loop is sequential;
// ctx cancellation is honored before each attempt and during each
// backoff sleep.
func (c *Client) Call(ctx context.Context, req CallRequest) (*Outcome, error) {
	policy := c.resolver.Resolve(req.Resource, req.Policy)

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, normalizeError(nil, err, req.Endpoint, req.Method)
		}

		resp, err := c.attempt(ctx, req)

		if err == nil && resp.IsSuccess() {
			c.log.Debug().
				Str("method", req.Method).
				Str("endpoint", req.Endpoint).
				Int("attempt", attempt+1).
				Int("status", resp.StatusCode()).
				Msg("call succeeded")
			if req.Result != nil && len(resp.Body()) > 0 {
				if decodeErr := json.Unmarshal(resp.Body(), req.Result); decodeErr != nil {
					return nil, &APIError{
						Message:    fmt.Sprintf("Request error: decoding response: %s", decodeErr),
						StatusCode: resp.StatusCode(),
						Endpoint:   req.Endpoint,
						Method:     req.Method,
					}
				}
			}
			return &Outcome{StatusCode: resp.StatusCode()}, nil
		}

		if err == nil {
			if ec := expectedCondition(req.Method, req.PublicContext, resp.StatusCode(), resp.Body()); ec != nil {
				// Anticipated business state, not a failure: no retry,
				// no error-level logging
				c.log.Debug().
					Str("method", req.Method).
					Str("endpoint", req.Endpoint).
					Str("kind", string(ec.Kind)).
					Int("status", ec.StatusCode).
					Msg("expected condition")
				return &Outcome{StatusCode: resp.StatusCode(), Expected: ec}, nil
			}
		}

		status := 0
		if err == nil {
			status = resp.StatusCode()
		}
		retry := Retryable(policy, status) && ctx.Err() == nil

		c.log.Debug().
			Str("method", req.Method).
			Str("endpoint", req.Endpoint).
			Int("attempt", attempt+1).
			Int("status", status).
			Bool("retryable", retry).
			Err(err).
			Msg("attempt failed")

		if !retry || attempt >= policy.MaxRetries {
			apiErr := normalizeError(resp, err, req.Endpoint, req.Method)
			c.log.Warn().
				Str("method", req.Method).
				Str("endpoint", req.Endpoint).
				Int("attempts", attempt+1).
				Int("status", apiErr.StatusCode).
				Msg(apiErr.Message)
			return nil, apiErr
		}

		if sleepErr := c.backoff(ctx, policy, attempt); sleepErr != nil {
			return nil, normalizeError(nil, sleepErr, req.Endpoint, req.Method)
		}
	}
}

// attempt executes a single shaped HTTP request.
func (c *Client) attempt(ctx context.Context, req CallRequest) (*resty.Response, error) {
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	r := c.rest.R().SetContext(ctx)
	shapeRequest(r, token, req.Method, req.Body)
	return r.Execute(req.Method, req.Endpoint)
}

// backoff sleeps for the policy delay of the given attempt index, waking
// early if ctx is cancelled.
func (c *Client) backoff(ctx context.Context, policy RetryPolicy, attempt int) error {
	delay := Backoff(policy, attempt)
	c.log.Debug().Dur("delay", delay).Int("attempt", attempt+1).Msg("backing off")

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

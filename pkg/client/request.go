package client

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// It is injected into the Client so call behavior stays deterministic
// under test instead of reading ambient process state.
type TokenSource interface {
	// Token returns the current bearer token, or "" when no session
	// is active.
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// TokenFunc adapts a plain function to the TokenSource interface.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// shapeRequest applies the header rules for a single attempt:
//
//   - GET carries no body and no Content-Type, stripping any header
//     inherited from the client
//   - every other method sends JSON and attaches the body when present
//   - a non-empty token becomes an Authorization bearer header; an
//     empty token attaches nothing
//
// Pure header/body shaping, no I/O.
func shapeRequest(req *resty.Request, token, method string, body interface{}) *resty.Request {
	if method == http.MethodGet {
		req.Header.Del("Content-Type")
	} else {
		req.SetHeader("Content-Type", "application/json")
		if body != nil {
			req.SetBody(body)
		}
	}
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

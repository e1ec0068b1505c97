package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/go-resty/resty/v2"
)

// APIError is the normalized form of a terminal call failure. It is
// immutable once built and safe to surface to a user or log as-is.
type APIError struct {
	Message    string
	StatusCode int // 0 when no response was received
	Payload    map[string]interface{}
	Endpoint   string
	Method     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: %s (HTTP %d)", e.Method, e.Endpoint, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Endpoint, e.Message)
}

// errorBody is the shape of the backend's error responses. FastAPI-style
// backends put the human-readable text in "detail"; some endpoints use
// "message" instead.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// errorDetail extracts the machine-readable detail field from a response
// body, or "" when the body is not JSON or carries no detail.
func errorDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.Detail
}

// normalizeError converts the raw outcome of a failed attempt into an
// APIError. Exactly one of three cases applies:
//
//   - a response arrived: message comes from the body's detail field,
//     then its message field, then a generated fallback
//   - the request went out but nothing came back: fixed connectivity
//     message, no status code
//   - the request could not even be built or sent: the underlying error
//     is wrapped verbatim
func normalizeError(resp *resty.Response, err error, endpoint, method string) *APIError {
	apiErr := &APIError{Endpoint: endpoint, Method: method}

	if resp != nil && resp.StatusCode() > 0 {
		apiErr.StatusCode = resp.StatusCode()

		var eb errorBody
		body := resp.Body()
		if jsonErr := json.Unmarshal(body, &eb); jsonErr == nil {
			switch {
			case eb.Detail != "":
				apiErr.Message = eb.Detail
			case eb.Message != "":
				apiErr.Message = eb.Message
			}
			var payload map[string]interface{}
			if json.Unmarshal(body, &payload) == nil {
				apiErr.Payload = payload
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("Error %d: request failed", resp.StatusCode())
		}
		return apiErr
	}

	if err != nil && requestWasSent(err) {
		apiErr.Message = "no response received, check connection"
		return apiErr
	}

	if err != nil {
		apiErr.Message = fmt.Sprintf("Request error: %s", err.Error())
		return apiErr
	}

	apiErr.Message = "Request error: unknown failure"
	return apiErr
}

// requestWasSent reports whether the failure happened after the request
// left the client (timeout, connection reset, DNS) rather than while it
// was still being built.
func requestWasSent(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

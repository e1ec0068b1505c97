package client

import (
	"math/rand"
	"net/http"
	"time"
)

// Retryable reports whether a failed attempt may be retried under policy
// p. status is the HTTP status of the response, or 0 when no response
// was received (pure transport failure, assumed transient).
//
// A status in NonRetryableStatuses is never retried, even if it also
// appears in RetryableStatuses.
func Retryable(p RetryPolicy, status int) bool {
	if status == 0 {
		return true
	}
	if containsStatus(p.NonRetryableStatuses, status) {
		return false
	}
	return containsStatus(p.RetryableStatuses, status)
}

// Backoff calculates the delay inserted after failed attempt index n
// (0-based): RetryDelay * 2^n, optionally capped at MaxDelay and spread
// by the policy's jitter fraction. Cap and jitter are opt-in; the
// default policy uses plain exponential growth.
func Backoff(p RetryPolicy, attempt int) time.Duration {
	delay := p.RetryDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			delay = p.MaxDelay
			break
		}
	}
	if p.Jitter > 0 {
		// Spread the delay over [1-jitter, 1+jitter]
		factor := 1 - p.Jitter + rand.Float64()*2*p.Jitter
		delay = time.Duration(float64(delay) * factor)
	}
	return delay
}

// ExpectedKind labels the anticipated business conditions that are
// surfaced as sentinels instead of errors.
type ExpectedKind string

const (
	// ExpectedAbsent means a GET returned 404 with a machine-readable
	// detail: the resource simply does not exist yet
	ExpectedAbsent ExpectedKind = "absent"
	// ExpectedAnonymous means a GET returned 401 in a context that
	// tolerates unauthenticated callers
	ExpectedAnonymous ExpectedKind = "anonymous"
)

// ExpectedCondition is a non-error sentinel for an anticipated HTTP
// failure response.
type ExpectedCondition struct {
	Kind       ExpectedKind
	StatusCode int
	Detail     string
}

// expectedCondition checks the two read-only carve-outs before generic
// retry classification. Both apply to GET calls only: a POST returning
// the same status is a real failure.
func expectedCondition(method string, publicContext bool, status int, body []byte) *ExpectedCondition {
	if method != http.MethodGet {
		return nil
	}
	switch status {
	case http.StatusNotFound:
		if detail := errorDetail(body); detail != "" {
			return &ExpectedCondition{Kind: ExpectedAbsent, StatusCode: status, Detail: detail}
		}
	case http.StatusUnauthorized:
		if publicContext {
			return &ExpectedCondition{Kind: ExpectedAnonymous, StatusCode: status}
		}
	}
	return nil
}

package client

import (
	"reflect"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func durPtr(v time.Duration) *time.Duration { return &v }

func TestResolve_UnknownResourceIsDefault(t *testing.T) {
	r := NewResolver(DefaultPolicy())

	got := r.Resolve("no-such-resource", nil)
	want := r.Resolve("", nil)

	if !reflect.DeepEqual(got, want) {
		t.Errorf("unknown resource should resolve to the default policy\ngot:  %+v\nwant: %+v", got, want)
	}
	if !reflect.DeepEqual(got, DefaultPolicy()) {
		t.Errorf("resolved policy differs from the default: %+v", got)
	}
}

func TestResolve_ResourceFragmentReplacesStatusSets(t *testing.T) {
	r := NewResolver(DefaultPolicy())
	r.Register("sessions", PolicyOverrides{
		MaxRetries:        intPtr(5),
		RetryableStatuses: []int{503},
	})

	got := r.Resolve("sessions", nil)

	if got.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", got.MaxRetries)
	}
	// Replace, not union: the fragment's set wins wholesale
	if !reflect.DeepEqual(got.RetryableStatuses, []int{503}) {
		t.Errorf("RetryableStatuses = %v, want [503]", got.RetryableStatuses)
	}
	// Untouched fields keep the default
	if got.RetryDelay != time.Second {
		t.Errorf("RetryDelay = %v, want 1s", got.RetryDelay)
	}
	if !reflect.DeepEqual(got.NonRetryableStatuses, DefaultPolicy().NonRetryableStatuses) {
		t.Errorf("NonRetryableStatuses = %v, want default set", got.NonRetryableStatuses)
	}
}

func TestResolve_CallOverridesBeatResourceFragment(t *testing.T) {
	r := NewResolver(DefaultPolicy())
	r.Register("auth", PolicyOverrides{
		MaxRetries: intPtr(1),
		RetryDelay: durPtr(50 * time.Millisecond),
	})

	got := r.Resolve("auth", &PolicyOverrides{
		MaxRetries:           intPtr(0),
		NonRetryableStatuses: []int{401},
	})

	if got.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want call-level override 0", got.MaxRetries)
	}
	if got.RetryDelay != 50*time.Millisecond {
		t.Errorf("RetryDelay = %v, want resource-level 50ms", got.RetryDelay)
	}
	if !reflect.DeepEqual(got.NonRetryableStatuses, []int{401}) {
		t.Errorf("NonRetryableStatuses = %v, want [401]", got.NonRetryableStatuses)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r := NewResolver(DefaultPolicy())
	r.Register("processors", PolicyOverrides{RetryableStatuses: []int{429, 503}})
	overrides := &PolicyOverrides{MaxRetries: intPtr(2)}

	first := r.Resolve("processors", overrides)
	second := r.Resolve("processors", overrides)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Resolve with identical arguments differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestResolve_ReturnedPolicyDoesNotAliasResolverState(t *testing.T) {
	r := NewResolver(DefaultPolicy())

	p := r.Resolve("", nil)
	p.RetryableStatuses[0] = 999

	if got := r.Resolve("", nil); got.RetryableStatuses[0] == 999 {
		t.Error("mutating a resolved policy leaked into the resolver")
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	if p.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", p.MaxRetries)
	}
	if p.RetryDelay != time.Second {
		t.Errorf("RetryDelay = %v, want 1s", p.RetryDelay)
	}
	if !reflect.DeepEqual(p.RetryableStatuses, []int{408, 429, 502, 503, 504}) {
		t.Errorf("RetryableStatuses = %v", p.RetryableStatuses)
	}
	if !reflect.DeepEqual(p.NonRetryableStatuses, []int{400, 401, 403, 404, 422, 500}) {
		t.Errorf("NonRetryableStatuses = %v", p.NonRetryableStatuses)
	}
}

package client

import "time"

// RetryPolicy controls how the dispatcher retries a failed call.
// NonRetryableStatuses always wins over RetryableStatuses when a status
// appears in both sets.
type RetryPolicy struct {
	MaxRetries           int
	RetryDelay           time.Duration
	MaxDelay             time.Duration // 0 disables the backoff cap
	Jitter               float64       // 0 disables jitter; 0.3 means +/-30%
	RetryableStatuses    []int
	NonRetryableStatuses []int
}

// PolicyOverrides is a partial RetryPolicy used to derive a resource- or
// call-specific policy from the default. Status-set fields replace the
// base sets wholesale; they are never unioned.
type PolicyOverrides struct {
	MaxRetries           *int
	RetryDelay           *time.Duration
	MaxDelay             *time.Duration
	Jitter               *float64
	RetryableStatuses    []int
	NonRetryableStatuses []int
}

// DefaultPolicy returns the global default retry policy.
func DefaultPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:           3,
		RetryDelay:           1 * time.Second,
		RetryableStatuses:    []int{408, 429, 502, 503, 504},
		NonRetryableStatuses: []int{400, 401, 403, 404, 422, 500},
	}
}

// Resolver merges the default policy with per-resource fragments and
// per-call overrides. Resolution is pure: the same inputs always yield
// structurally equal policies, and unknown resource names yield the
// unmodified default.
type Resolver struct {
	base      RetryPolicy
	resources map[string]PolicyOverrides
}

// NewResolver creates a Resolver seeded with the given base policy.
func NewResolver(base RetryPolicy) *Resolver {
	return &Resolver{
		base:      base,
		resources: make(map[string]PolicyOverrides),
	}
}

// Register records a policy fragment for a resource tag. Later Resolve
// calls for that tag merge the fragment over the base policy.
func (r *Resolver) Register(resource string, overrides PolicyOverrides) {
	r.resources[resource] = overrides
}

// Resolve produces the effective policy for one call: base, then the
// resource fragment if registered, then the call overrides.
func (r *Resolver) Resolve(resource string, overrides *PolicyOverrides) RetryPolicy {
	p := r.base.clone()
	if frag, ok := r.resources[resource]; ok {
		p = applyOverrides(p, frag)
	}
	if overrides != nil {
		p = applyOverrides(p, *overrides)
	}
	return p
}

// applyOverrides merges set fields of o over p. Status sets replace the
// existing sets rather than merging with them.
func applyOverrides(p RetryPolicy, o PolicyOverrides) RetryPolicy {
	if o.MaxRetries != nil {
		p.MaxRetries = *o.MaxRetries
	}
	if o.RetryDelay != nil {
		p.RetryDelay = *o.RetryDelay
	}
	if o.MaxDelay != nil {
		p.MaxDelay = *o.MaxDelay
	}
	if o.Jitter != nil {
		p.Jitter = *o.Jitter
	}
	if o.RetryableStatuses != nil {
		p.RetryableStatuses = copyStatuses(o.RetryableStatuses)
	}
	if o.NonRetryableStatuses != nil {
		p.NonRetryableStatuses = copyStatuses(o.NonRetryableStatuses)
	}
	return p
}

// clone copies the policy so a resolved policy cannot alias the
// resolver's internal state.
func (p RetryPolicy) clone() RetryPolicy {
	out := p
	out.RetryableStatuses = copyStatuses(p.RetryableStatuses)
	out.NonRetryableStatuses = copyStatuses(p.NonRetryableStatuses)
	return out
}

func copyStatuses(statuses []int) []int {
	out := make([]int, len(statuses))
	copy(out, statuses)
	return out
}

func containsStatus(statuses []int, status int) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

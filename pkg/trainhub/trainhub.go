// Package trainhub provides typed services for the TrainHub backend
// API, one per backend router, all sharing a single resilient call
// layer.
package trainhub

import (
	"time"

	"github.com/trainhub/trainctl/pkg/client"
)

// Resource tags select retry-policy fragments in the call layer.
const (
	ResourceAuth           = "auth"
	ResourceUsers          = "users"
	ResourceAddress        = "address"
	ResourceSessions       = "sessions"
	ResourceQuestionnaires = "questionnaires"
	ResourceProcessors     = "processors"
	ResourceInteractions   = "interactions"
)

// API bundles the per-resource services over one call layer.
type API struct {
	Auth           *AuthService
	Users          *UserService
	Address        *AddressService
	Sessions       *SessionService
	Questionnaires *QuestionnaireService
	Processors     *ProcessorService
	Interactions   *InteractionService
}

// New wires every resource service to the given client.
func New(c *client.Client) *API {
	return &API{
		Auth:           &AuthService{client: c},
		Users:          &UserService{client: c},
		Address:        &AddressService{client: c},
		Sessions:       &SessionService{client: c},
		Questionnaires: &QuestionnaireService{client: c},
		Processors:     &ProcessorService{client: c},
		Interactions:   &InteractionService{client: c},
	}
}

// NewResolver returns the policy resolver with the platform's
// per-resource retry fragments registered.
func NewResolver() *client.Resolver {
	r := client.NewResolver(client.DefaultPolicy())

	// Login and signup are not idempotent from the user's point of
	// view; a single retry on transient failure is plenty
	one := 1
	r.Register(ResourceAuth, client.PolicyOverrides{MaxRetries: &one})

	// Interaction batches are fire-and-forget telemetry; retry harder
	// with a shorter initial delay
	five := 5
	delay := 500 * time.Millisecond
	r.Register(ResourceInteractions, client.PolicyOverrides{
		MaxRetries: &five,
		RetryDelay: &delay,
	})

	return r
}

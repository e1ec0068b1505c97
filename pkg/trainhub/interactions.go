package trainhub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trainhub/trainctl/pkg/client"
	"github.com/trainhub/trainctl/pkg/models"
)

// InteractionService submits captured UI interaction events for
// background processing.
type InteractionService struct {
	client *client.Client
}

// SubmitBatch sends a batch of events. The backend queues the batch and
// returns the task handle.
func (s *InteractionService) SubmitBatch(ctx context.Context, batch models.InteractionBatch) (*models.InteractionBatchResult, error) {
	var result models.InteractionBatchResult
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/interactions/batch",
		Method:   http.MethodPost,
		Body:     batch,
		Resource: ResourceInteractions,
		Result:   &result,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit interaction batch: %w", err)
	}
	return &result, nil
}

// Submit sends a single event batch without waiting for queue placement
// details.
func (s *InteractionService) Submit(ctx context.Context, batch models.InteractionBatch) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/interactions",
		Method:   http.MethodPost,
		Body:     batch,
		Resource: ResourceInteractions,
	})
	if err != nil {
		return fmt.Errorf("failed to submit interactions: %w", err)
	}
	return nil
}

package trainhub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trainhub/trainctl/pkg/client"
	"github.com/trainhub/trainctl/pkg/models"
)

// ProcessorService handles LLM post-processing configurations and their
// run results.
type ProcessorService struct {
	client *client.Client
}

// Create registers a new processor.
func (s *ProcessorService) Create(ctx context.Context, req models.ProcessorCreate) (*models.Processor, error) {
	var processor models.Processor
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/processors",
		Method:   http.MethodPost,
		Body:     req,
		Resource: ResourceProcessors,
		Result:   &processor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}
	return &processor, nil
}

// List returns all processors visible to the caller.
func (s *ProcessorService) List(ctx context.Context) ([]models.Processor, error) {
	var processors []models.Processor
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/processors",
		Method:   http.MethodGet,
		Resource: ResourceProcessors,
		Result:   &processors,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list processors: %w", err)
	}
	return processors, nil
}

// Get fetches one processor.
func (s *ProcessorService) Get(ctx context.Context, id int) (*models.Processor, error) {
	var processor models.Processor
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/processors/%d", id),
		Method:   http.MethodGet,
		Resource: ResourceProcessors,
		Result:   &processor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch processor %d: %w", id, err)
	}
	return &processor, nil
}

// Update applies partial changes to a processor.
func (s *ProcessorService) Update(ctx context.Context, id int, update models.ProcessorUpdate) (*models.Processor, error) {
	var processor models.Processor
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/processors/%d", id),
		Method:   http.MethodPatch,
		Body:     update,
		Resource: ResourceProcessors,
		Result:   &processor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update processor %d: %w", id, err)
	}
	return &processor, nil
}

// Delete removes a processor and its questionnaire assignments.
func (s *ProcessorService) Delete(ctx context.Context, id int) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/processors/%d", id),
		Method:   http.MethodDelete,
		Resource: ResourceProcessors,
	})
	if err != nil {
		return fmt.Errorf("failed to delete processor %d: %w", id, err)
	}
	return nil
}

// Assign attaches a processor to a questionnaire's questions.
func (s *ProcessorService) Assign(ctx context.Context, processorID, questionnaireID int) ([]models.ProcessorMapping, error) {
	var mappings []models.ProcessorMapping
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/processors/%d/assign", processorID),
		Method:   http.MethodPost,
		Body:     map[string]int{"questionnaire_id": questionnaireID},
		Resource: ResourceProcessors,
		Result:   &mappings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign processor %d: %w", processorID, err)
	}
	return mappings, nil
}

// Unassign removes one question-level assignment.
func (s *ProcessorService) Unassign(ctx context.Context, processorID, questionID int) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/processors/%d/assign/%d", processorID, questionID),
		Method:   http.MethodDelete,
		Resource: ResourceProcessors,
	})
	if err != nil {
		return fmt.Errorf("failed to unassign processor %d from question %d: %w", processorID, questionID, err)
	}
	return nil
}

// ResultsForResponse lists the processor runs for one questionnaire
// response.
func (s *ProcessorService) ResultsForResponse(ctx context.Context, responseID int) ([]models.ProcessingResult, error) {
	var results []models.ProcessingResult
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/processors/results/response/%d", responseID),
		Method:   http.MethodGet,
		Resource: ResourceProcessors,
		Result:   &results,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list results for response %d: %w", responseID, err)
	}
	return results, nil
}

// Result fetches one processor run with its raw and processed output.
func (s *ProcessorService) Result(ctx context.Context, resultID int) (*models.ProcessingResultDetail, error) {
	var result models.ProcessingResultDetail
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/processors/results/%d", resultID),
		Method:   http.MethodGet,
		Resource: ResourceProcessors,
		Result:   &result,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch result %d: %w", resultID, err)
	}
	return &result, nil
}

// Requeue schedules processor runs for a response again, optionally for
// a single processor.
func (s *ProcessorService) Requeue(ctx context.Context, responseID int, processorID *int) error {
	body := map[string]interface{}{}
	if processorID != nil {
		body["processor_id"] = *processorID
	}
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/processors/requeue/%d", responseID),
		Method:   http.MethodPost,
		Body:     body,
		Resource: ResourceProcessors,
	})
	if err != nil {
		return fmt.Errorf("failed to requeue response %d: %w", responseID, err)
	}
	return nil
}

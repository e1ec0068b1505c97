package trainhub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trainhub/trainctl/pkg/client"
	"github.com/trainhub/trainctl/pkg/models"
)

// QuestionnaireService handles questionnaire authoring and completion.
type QuestionnaireService struct {
	client *client.Client
}

// Create authors a questionnaire together with its initial questions.
func (s *QuestionnaireService) Create(ctx context.Context, req models.QuestionnaireCreate) (*models.IDResponse, error) {
	var result models.IDResponse
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/questionnaires",
		Method:   http.MethodPost,
		Body:     req,
		Resource: ResourceQuestionnaires,
		Result:   &result,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create questionnaire: %w", err)
	}
	return &result, nil
}

// List returns the questionnaires authored by or visible to the caller.
func (s *QuestionnaireService) List(ctx context.Context) ([]models.Questionnaire, error) {
	var questionnaires []models.Questionnaire
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/questionnaires",
		Method:   http.MethodGet,
		Resource: ResourceQuestionnaires,
		Result:   &questionnaires,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list questionnaires: %w", err)
	}
	return questionnaires, nil
}

// ListForClient returns the client-facing view: active instances with
// the caller's completion state.
func (s *QuestionnaireService) ListForClient(ctx context.Context) ([]models.ClientQuestionnaire, error) {
	var questionnaires []models.ClientQuestionnaire
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/questionnaires/client",
		Method:   http.MethodGet,
		Resource: ResourceQuestionnaires,
		Result:   &questionnaires,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list client questionnaires: %w", err)
	}
	return questionnaires, nil
}

// Get fetches one questionnaire with its questions.
func (s *QuestionnaireService) Get(ctx context.Context, id int) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/questionnaires/%d", id),
		Method:   http.MethodGet,
		Resource: ResourceQuestionnaires,
		Result:   &questionnaire,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questionnaire %d: %w", id, err)
	}
	return &questionnaire, nil
}

// Update applies partial changes to a questionnaire's metadata.
func (s *QuestionnaireService) Update(ctx context.Context, id int, update models.QuestionnaireUpdate) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/questionnaires/%d", id),
		Method:   http.MethodPatch,
		Body:     update,
		Resource: ResourceQuestionnaires,
	})
	if err != nil {
		return fmt.Errorf("failed to update questionnaire %d: %w", id, err)
	}
	return nil
}

// AddQuestion appends a question to a questionnaire.
func (s *QuestionnaireService) AddQuestion(ctx context.Context, questionnaireID int, q models.Question) (*models.IDResponse, error) {
	var result models.IDResponse
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/questionnaires/%d/questions", questionnaireID),
		Method:   http.MethodPost,
		Body:     q,
		Resource: ResourceQuestionnaires,
		Result:   &result,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add question: %w", err)
	}
	return &result, nil
}

// UpdateQuestion edits one question in place.
func (s *QuestionnaireService) UpdateQuestion(ctx context.Context, questionnaireID, questionID int, update models.QuestionUpdate) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/questionnaires/%d/questions/%d", questionnaireID, questionID),
		Method:   http.MethodPatch,
		Body:     update,
		Resource: ResourceQuestionnaires,
	})
	if err != nil {
		return fmt.Errorf("failed to update question %d: %w", questionID, err)
	}
	return nil
}

// DeleteQuestion removes one question.
func (s *QuestionnaireService) DeleteQuestion(ctx context.Context, questionnaireID, questionID int) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/questionnaires/%d/questions/%d", questionnaireID, questionID),
		Method:   http.MethodDelete,
		Resource: ResourceQuestionnaires,
	})
	if err != nil {
		return fmt.Errorf("failed to delete question %d: %w", questionID, err)
	}
	return nil
}

// Start opens (or resumes) the caller's response to a questionnaire and
// returns the response ID used for answer submission.
func (s *QuestionnaireService) Start(ctx context.Context, questionnaireID int) (*models.StartResponse, error) {
	var result models.StartResponse
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/questionnaires/%d/start", questionnaireID),
		Method:   http.MethodPost,
		Resource: ResourceQuestionnaires,
		Result:   &result,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start questionnaire %d: %w", questionnaireID, err)
	}
	return &result, nil
}

// SubmitAnswer stores one answer inside a started response.
func (s *QuestionnaireService) SubmitAnswer(ctx context.Context, questionnaireID, responseID, questionID int, answer models.AnswerSubmit) (*models.SubmitResult, error) {
	var result models.SubmitResult
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/questionnaires/%d/responses/%d/questions/%d", questionnaireID, responseID, questionID),
		Method:   http.MethodPost,
		Body:     answer,
		Resource: ResourceQuestionnaires,
		Result:   &result,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit answer for question %d: %w", questionID, err)
	}
	return &result, nil
}

// Complete finalizes a started response, making it eligible for
// processor runs.
func (s *QuestionnaireService) Complete(ctx context.Context, questionnaireID, responseID int) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/questionnaires/%d/responses/%d/complete", questionnaireID, responseID),
		Method:   http.MethodPost,
		Resource: ResourceQuestionnaires,
	})
	if err != nil {
		return fmt.Errorf("failed to complete response %d: %w", responseID, err)
	}
	return nil
}

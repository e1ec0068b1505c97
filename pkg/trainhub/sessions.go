package trainhub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/trainhub/trainctl/pkg/client"
	"github.com/trainhub/trainctl/pkg/models"
)

// SessionService handles training sessions, their questionnaire
// instances and client enrollments.
type SessionService struct {
	client *client.Client
}

// Create opens a new training session.
func (s *SessionService) Create(ctx context.Context, req models.SessionCreate) (*models.Session, error) {
	var session models.Session
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/sessions/",
		Method:   http.MethodPost,
		Body:     req,
		Resource: ResourceSessions,
		Result:   &session,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// List returns the sessions visible to the caller.
func (s *SessionService) List(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/sessions/",
		Method:   http.MethodGet,
		Resource: ResourceSessions,
		Result:   &sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Get fetches one session by ID.
func (s *SessionService) Get(ctx context.Context, id int) (*models.Session, error) {
	var session models.Session
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/%d", id),
		Method:   http.MethodGet,
		Resource: ResourceSessions,
		Result:   &session,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session %d: %w", id, err)
	}
	return &session, nil
}

// Update replaces a session's editable fields.
func (s *SessionService) Update(ctx context.Context, id int, update models.SessionUpdate) (*models.Session, error) {
	var session models.Session
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/%d", id),
		Method:   http.MethodPut,
		Body:     update,
		Resource: ResourceSessions,
		Result:   &session,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update session %d: %w", id, err)
	}
	return &session, nil
}

// Delete removes a session.
func (s *SessionService) Delete(ctx context.Context, id int) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/%d", id),
		Method:   http.MethodDelete,
		Resource: ResourceSessions,
	})
	if err != nil {
		return fmt.Errorf("failed to delete session %d: %w", id, err)
	}
	return nil
}

// AttachQuestionnaire creates a questionnaire instance inside a session.
func (s *SessionService) AttachQuestionnaire(ctx context.Context, req models.QuestionnaireInstanceCreate) (*models.QuestionnaireInstance, error) {
	var instance models.QuestionnaireInstance
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/sessions/instances",
		Method:   http.MethodPost,
		Body:     req,
		Resource: ResourceSessions,
		Result:   &instance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to attach questionnaire: %w", err)
	}
	return &instance, nil
}

// Instances lists the questionnaire instances of a session.
func (s *SessionService) Instances(ctx context.Context, sessionID int) ([]models.QuestionnaireInstance, error) {
	var instances []models.QuestionnaireInstance
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/instances/%d", sessionID),
		Method:   http.MethodGet,
		Resource: ResourceSessions,
		Result:   &instances,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list instances for session %d: %w", sessionID, err)
	}
	return instances, nil
}

// UpdateInstance renames or toggles a questionnaire instance.
func (s *SessionService) UpdateInstance(ctx context.Context, instanceID int, update models.QuestionnaireInstanceUpdate) (*models.QuestionnaireInstance, error) {
	var instance models.QuestionnaireInstance
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/instances/%d", instanceID),
		Method:   http.MethodPut,
		Body:     update,
		Resource: ResourceSessions,
		Result:   &instance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update instance %d: %w", instanceID, err)
	}
	return &instance, nil
}

// DetachInstance removes a questionnaire instance from its session.
func (s *SessionService) DetachInstance(ctx context.Context, instanceID int) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/instances/%d", instanceID),
		Method:   http.MethodDelete,
		Resource: ResourceSessions,
	})
	if err != nil {
		return fmt.Errorf("failed to detach instance %d: %w", instanceID, err)
	}
	return nil
}

// ActivateInstance makes an instance visible to enrolled clients.
func (s *SessionService) ActivateInstance(ctx context.Context, instanceID int) (*models.QuestionnaireInstance, error) {
	return s.toggleInstance(ctx, instanceID, "activate")
}

// DeactivateInstance hides an instance from enrolled clients.
func (s *SessionService) DeactivateInstance(ctx context.Context, instanceID int) (*models.QuestionnaireInstance, error) {
	return s.toggleInstance(ctx, instanceID, "deactivate")
}

func (s *SessionService) toggleInstance(ctx context.Context, instanceID int, action string) (*models.QuestionnaireInstance, error) {
	var instance models.QuestionnaireInstance
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/instances/%d/%s", instanceID, action),
		Method:   http.MethodPost,
		Resource: ResourceSessions,
		Result:   &instance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s instance %d: %w", action, instanceID, err)
	}
	return &instance, nil
}

// IsQuestionnaireAttached reports whether any session uses the given
// questionnaire, which blocks destructive edits to it.
func (s *SessionService) IsQuestionnaireAttached(ctx context.Context, questionnaireID int) (bool, error) {
	var result struct {
		IsAttached bool `json:"is_attached"`
	}
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/questionnaire/%d/is-attached", questionnaireID),
		Method:   http.MethodGet,
		Resource: ResourceSessions,
		Result:   &result,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check questionnaire %d attachment: %w", questionnaireID, err)
	}
	return result.IsAttached, nil
}

// Enroll adds a client to a session.
func (s *SessionService) Enroll(ctx context.Context, sessionID int, req models.EnrollmentCreate) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/%d/enrollments", sessionID),
		Method:   http.MethodPost,
		Body:     req,
		Resource: ResourceSessions,
		Result:   &enrollment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enroll client in session %d: %w", sessionID, err)
	}
	return &enrollment, nil
}

// ListEnrollments returns the enrollments of a session. Trainer or
// admin only.
func (s *SessionService) ListEnrollments(ctx context.Context, sessionID int) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/%d/enrollments", sessionID),
		Method:   http.MethodGet,
		Resource: ResourceSessions,
		Result:   &enrollments,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for session %d: %w", sessionID, err)
	}
	return enrollments, nil
}

// ListClientEnrollments returns every enrollment of one client across
// sessions. Clients may only query themselves.
func (s *SessionService) ListClientEnrollments(ctx context.Context, clientID int) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/client/%d/enrollments", clientID),
		Method:   http.MethodGet,
		Resource: ResourceSessions,
		Result:   &enrollments,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for client %d: %w", clientID, err)
	}
	return enrollments, nil
}

// GenerateCode rotates the join code of a session and returns the
// session carrying the fresh code.
func (s *SessionService) GenerateCode(ctx context.Context, sessionID int) (*models.Session, error) {
	var session models.Session
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/%d/generate-code", sessionID),
		Method:   http.MethodPost,
		Resource: ResourceSessions,
		Result:   &session,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate code for session %d: %w", sessionID, err)
	}
	return &session, nil
}

// EnrollByCode enrolls the calling client using a session join code.
// The backend takes the code as a query parameter.
func (s *SessionService) EnrollByCode(ctx context.Context, code string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/sessions/enroll-by-code?session_code=" + url.QueryEscape(code),
		Method:   http.MethodPost,
		Resource: ResourceSessions,
		Result:   &enrollment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enroll with code %q: %w", code, err)
	}
	return &enrollment, nil
}

// EnrollSelf enrolls the calling client in a public session. Private
// sessions reject this and require a join code.
func (s *SessionService) EnrollSelf(ctx context.Context, sessionID int) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/sessions/%d/enroll", sessionID),
		Method:   http.MethodPost,
		Resource: ResourceSessions,
		Result:   &enrollment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enroll in session %d: %w", sessionID, err)
	}
	return &enrollment, nil
}

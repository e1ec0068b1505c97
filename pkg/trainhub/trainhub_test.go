package trainhub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/trainhub/trainctl/pkg/client"
	"github.com/trainhub/trainctl/pkg/models"
)

// newTestAPI spins up a stub backend and an API wired to it.
func newTestAPI(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(client.New(srv.URL, client.WithResolver(NewResolver())))
}

func TestAuthService_Login(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding login body: %v", err)
		}
		if body["email"] != "user@example.com" {
			t.Errorf("email = %q", body["email"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "tok-xyz",
			"token_type": "bearer",
			"user": {"id": 7, "email": "user@example.com", "first_name": "Ada", "last_name": "L", "role": "CLIENT"}
		}`))
	})

	token, err := api.Auth.Login(context.Background(), "user@example.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token.AccessToken != "tok-xyz" {
		t.Errorf("AccessToken = %q", token.AccessToken)
	}
	if token.User.ID != 7 || token.User.Role != "CLIENT" {
		t.Errorf("user = %+v", token.User)
	}
}

func TestAuthService_LoginRejected(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Incorrect email or password"}`))
	})

	_, err := api.Auth.Login(context.Background(), "user@example.com", "bad")
	if err == nil {
		t.Fatal("rejected login must error")
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error chain lacks *client.APIError: %v", err)
	}
	if apiErr.StatusCode != 401 || apiErr.Message != "Incorrect email or password" {
		t.Errorf("normalized error = %+v", apiErr)
	}
}

func TestAddressService_GetAbsent(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Address not found"}`))
	})

	addr, found, err := api.Address.Get(context.Background())
	if err != nil {
		t.Fatalf("absent address must not error, got %v", err)
	}
	if found || addr != nil {
		t.Errorf("Get() = (%+v, %v), want (nil, false)", addr, found)
	}
}

func TestAuthService_ValidateAnonymous(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	ok, err := api.Auth.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if ok {
		t.Error("missing token must report ok=false")
	}
}

func TestUserService_MeIfAuthenticated(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 3, "email": "t@example.com", "first_name": "T", "last_name": "R", "role": "TRAINER"}`))
	})

	user, ok, err := api.Users.MeIfAuthenticated(context.Background())
	if err != nil {
		t.Fatalf("MeIfAuthenticated() error = %v", err)
	}
	if !ok || user == nil || user.Role != "TRAINER" {
		t.Errorf("got (%+v, %v)", user, ok)
	}
}

func TestSessionService_Enroll(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions/4/enrollments" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 11, "client_id": 2, "session_id": 4, "status": "active"}`))
	})

	enrollment, err := api.Sessions.Enroll(context.Background(), 4, models.EnrollmentCreate{
		ClientID:  2,
		SessionID: 4,
	})
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if enrollment.ID != 11 || enrollment.Status != "active" {
		t.Errorf("enrollment = %+v", enrollment)
	}
}

func TestSessionService_ListEnrollments(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/sessions/4/enrollments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 11, "client_id": 2, "session_id": 4, "status": "active", "enrolled_at": "2026-08-20T09:00:00Z", "client_name": "Ada L", "session_title": "Spring Onboarding"},
			{"id": 12, "client_id": 5, "session_id": 4, "status": "active"}
		]`))
	})

	enrollments, err := api.Sessions.ListEnrollments(context.Background(), 4)
	if err != nil {
		t.Fatalf("ListEnrollments() error = %v", err)
	}
	if len(enrollments) != 2 {
		t.Fatalf("got %d enrollments, want 2", len(enrollments))
	}
	if enrollments[0].ClientName != "Ada L" || enrollments[0].SessionTitle != "Spring Onboarding" {
		t.Errorf("enrollment = %+v", enrollments[0])
	}
}

func TestSessionService_ListClientEnrollments(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/sessions/client/2/enrollments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 11, "client_id": 2, "session_id": 4, "status": "active", "session_title": "Spring Onboarding"}]`))
	})

	enrollments, err := api.Sessions.ListClientEnrollments(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListClientEnrollments() error = %v", err)
	}
	if len(enrollments) != 1 || enrollments[0].SessionID != 4 {
		t.Errorf("enrollments = %+v", enrollments)
	}
}

func TestSessionService_GenerateCode(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sessions/4/generate-code" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 4, "title": "Spring Onboarding", "session_code": "X7K9QT", "is_public": false}`))
	})

	session, err := api.Sessions.GenerateCode(context.Background(), 4)
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if session.SessionCode != "X7K9QT" {
		t.Errorf("SessionCode = %q, want X7K9QT", session.SessionCode)
	}
}

func TestSessionService_EnrollByCode(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sessions/enroll-by-code" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		// The code travels as a query parameter, not in the body.
		if got := r.URL.Query().Get("session_code"); got != "X7K9QT" {
			t.Errorf("session_code = %q, want X7K9QT", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 13, "client_id": 2, "session_id": 4, "status": "active"}`))
	})

	enrollment, err := api.Sessions.EnrollByCode(context.Background(), "X7K9QT")
	if err != nil {
		t.Fatalf("EnrollByCode() error = %v", err)
	}
	if enrollment.ID != 13 || enrollment.SessionID != 4 {
		t.Errorf("enrollment = %+v", enrollment)
	}
}

func TestSessionService_EnrollByCodeInvalid(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Invalid session code"}`))
	})

	_, err := api.Sessions.EnrollByCode(context.Background(), "WRONG1")
	if err == nil {
		t.Fatal("invalid code must error")
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error chain lacks *client.APIError: %v", err)
	}
	if apiErr.StatusCode != 404 || apiErr.Message != "Invalid session code" {
		t.Errorf("normalized error = %+v", apiErr)
	}
}

func TestSessionService_EnrollSelfPrivateSession(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sessions/9/enroll" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail": "Cannot directly enroll in a private session. Please use a session code."}`))
	})

	_, err := api.Sessions.EnrollSelf(context.Background(), 9)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error chain lacks *client.APIError: %v", err)
	}
	if apiErr.StatusCode != 403 {
		t.Errorf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
}

func TestInteractionService_SubmitBatch(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/interactions/batch" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"batch_id": 9, "task_id": "task-1", "message": "queued"}`))
	})

	result, err := api.Interactions.SubmitBatch(context.Background(), models.InteractionBatch{
		UserID: 3,
		Events: []models.Event{{Type: "click", Timestamp: "2026-08-26T10:00:00Z"}},
	})
	if err != nil {
		t.Fatalf("SubmitBatch() error = %v", err)
	}
	if result.BatchID != 9 || result.TaskID != "task-1" {
		t.Errorf("result = %+v", result)
	}
}

func TestNewResolver_ResourceFragments(t *testing.T) {
	r := NewResolver()

	auth := r.Resolve(ResourceAuth, nil)
	if auth.MaxRetries != 1 {
		t.Errorf("auth MaxRetries = %d, want 1", auth.MaxRetries)
	}

	interactions := r.Resolve(ResourceInteractions, nil)
	if interactions.MaxRetries != 5 {
		t.Errorf("interactions MaxRetries = %d, want 5", interactions.MaxRetries)
	}
	if interactions.RetryDelay != 500*time.Millisecond {
		t.Errorf("interactions RetryDelay = %v, want 500ms", interactions.RetryDelay)
	}

	// Untagged resources fall back to the default policy
	def := r.Resolve(ResourceSessions, nil)
	if def.MaxRetries != client.DefaultPolicy().MaxRetries {
		t.Errorf("sessions MaxRetries = %d, want default", def.MaxRetries)
	}
}

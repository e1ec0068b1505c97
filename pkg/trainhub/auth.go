package trainhub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trainhub/trainctl/pkg/client"
	"github.com/trainhub/trainctl/pkg/models"
)

// AuthService handles signup, login and token validation.
type AuthService struct {
	client *client.Client
}

// Signup creates a new account and returns the new user's ID.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.IDResponse, error) {
	var result models.IDResponse
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/auth/signup",
		Method:   http.MethodPost,
		Body:     req,
		Resource: ResourceAuth,
		Result:   &result,
	})
	if err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	return &result, nil
}

// Login exchanges credentials for a bearer token plus the user record.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Token, error) {
	var token models.Token
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/auth/login",
		Method:   http.MethodPost,
		Body:     models.LoginRequest{Email: email, Password: password},
		Resource: ResourceAuth,
		Result:   &token,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &token, nil
}

// Validate checks whether the current bearer token is still accepted.
// In a public context an expired or missing token reports ok=false
// instead of an error.
func (s *AuthService) Validate(ctx context.Context) (bool, error) {
	var result models.MessageResponse
	outcome, err := s.client.Call(ctx, client.CallRequest{
		Endpoint:      "/auth/validate",
		Method:        http.MethodGet,
		Resource:      ResourceAuth,
		PublicContext: true,
		Result:        &result,
	})
	if err != nil {
		return false, fmt.Errorf("token validation failed: %w", err)
	}
	return outcome.OK(), nil
}

package trainhub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trainhub/trainctl/pkg/client"
	"github.com/trainhub/trainctl/pkg/models"
)

// UserService handles account and profile operations.
type UserService struct {
	client *client.Client
}

// Me returns the authenticated user's profile.
func (s *UserService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/users/me",
		Method:   http.MethodGet,
		Resource: ResourceUsers,
		Result:   &user,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &user, nil
}

// MeIfAuthenticated is Me for public pages: a 401 reports ok=false
// instead of an error.
func (s *UserService) MeIfAuthenticated(ctx context.Context) (*models.User, bool, error) {
	var user models.User
	outcome, err := s.client.Call(ctx, client.CallRequest{
		Endpoint:      "/users/me",
		Method:        http.MethodGet,
		Resource:      ResourceUsers,
		PublicContext: true,
		Result:        &user,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if outcome.Anonymous() {
		return nil, false, nil
	}
	return &user, true, nil
}

// UpdateMe applies profile changes to the authenticated user.
func (s *UserService) UpdateMe(ctx context.Context, update models.UserUpdate) (*models.User, error) {
	var user models.User
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/users/me",
		Method:   http.MethodPatch,
		Body:     update,
		Resource: ResourceUsers,
		Result:   &user,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}

// List returns all users (admin only).
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/users",
		Method:   http.MethodGet,
		Resource: ResourceUsers,
		Result:   &users,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Clients returns the users visible to a trainer as clients.
func (s *UserService) Clients(ctx context.Context) ([]models.User, error) {
	var users []models.User
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/users/clients",
		Method:   http.MethodGet,
		Resource: ResourceUsers,
		Result:   &users,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return users, nil
}

// Create provisions an account with an explicit role (admin only).
func (s *UserService) Create(ctx context.Context, req models.UserCreate) (*models.User, error) {
	var user models.User
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/users/create",
		Method:   http.MethodPost,
		Body:     req,
		Resource: ResourceUsers,
		Result:   &user,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Get fetches one user by ID.
func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/users/%d", id),
		Method:   http.MethodGet,
		Resource: ResourceUsers,
		Result:   &user,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %d: %w", id, err)
	}
	return &user, nil
}

// Update applies changes to another user's account (admin only).
func (s *UserService) Update(ctx context.Context, id int, update models.UserUpdate) (*models.User, error) {
	var user models.User
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/users/%d", id),
		Method:   http.MethodPatch,
		Body:     update,
		Resource: ResourceUsers,
		Result:   &user,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return &user, nil
}

// Delete removes an account (admin only).
func (s *UserService) Delete(ctx context.Context, id int) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: fmt.Sprintf("/users/%d", id),
		Method:   http.MethodDelete,
		Resource: ResourceUsers,
	})
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

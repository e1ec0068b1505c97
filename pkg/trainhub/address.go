package trainhub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trainhub/trainctl/pkg/client"
	"github.com/trainhub/trainctl/pkg/models"
)

// AddressService handles the authenticated user's postal address.
type AddressService struct {
	client *client.Client
}

// Get fetches the user's address. A user who has not saved one yet
// reports found=false, not an error.
func (s *AddressService) Get(ctx context.Context) (*models.Address, bool, error) {
	var addr models.Address
	outcome, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/address/me",
		Method:   http.MethodGet,
		Resource: ResourceAddress,
		Result:   &addr,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch address: %w", err)
	}
	if outcome.Absent() {
		return nil, false, nil
	}
	return &addr, true, nil
}

// Create saves the user's address for the first time.
func (s *AddressService) Create(ctx context.Context, req models.AddressCreate) (*models.Address, error) {
	var addr models.Address
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/address/me",
		Method:   http.MethodPost,
		Body:     req,
		Resource: ResourceAddress,
		Result:   &addr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return &addr, nil
}

// Update applies partial changes to the saved address.
func (s *AddressService) Update(ctx context.Context, update models.AddressUpdate) (*models.Address, error) {
	var addr models.Address
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/address/me",
		Method:   http.MethodPatch,
		Body:     update,
		Resource: ResourceAddress,
		Result:   &addr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return &addr, nil
}

// Delete removes the saved address.
func (s *AddressService) Delete(ctx context.Context) error {
	_, err := s.client.Call(ctx, client.CallRequest{
		Endpoint: "/address/me",
		Method:   http.MethodDelete,
		Resource: ResourceAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	return nil
}

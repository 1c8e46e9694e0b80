package requests

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, r *PickupRequest) (*PickupRequest, error)
	GetByID(ctx context.Context, id string) (*PickupRequest, error)
	SelectByRecipient(ctx context.Context, recipientID string) ([]*PickupRequest, error)
	SelectByListings(ctx context.Context, listingIDs []string) ([]*PickupRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

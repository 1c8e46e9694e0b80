package listings

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, l *Listing) (*Listing, error)
	GetByID(ctx context.Context, id string) (*Listing, error)
	// Select returns listings filtered by category and/or status; empty
	// arguments mean no filter.
	Select(ctx context.Context, category, status string) ([]*Listing, error)
	SelectByDonor(ctx context.Context, donorID string) ([]*Listing, error)
	UpdateStatus(ctx context.Context, id, status string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

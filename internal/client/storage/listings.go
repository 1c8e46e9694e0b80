package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/foodshare/foodshare/internal/client/models"
	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/dbx"
)

// ListingCache stores listings fetched from the server (and the donor's own
// published listings) so browsing keeps working while offline.
type ListingCache interface {
	Upsert(ctx context.Context, l *models.Listing) error
	GetAll(ctx context.Context) ([]models.Listing, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	DeleteByID(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// SQLiteListingCache implements ListingCache on the listings table.
// The full listing is stored as a JSON payload; a few columns are broken
// out for filtering without decoding every row.
type SQLiteListingCache struct {
	db dbx.DBTX
}

func NewSQLiteListingCache(db dbx.DBTX) *SQLiteListingCache {
	return &SQLiteListingCache{db: db}
}

func (r *SQLiteListingCache) Upsert(ctx context.Context, l *models.Listing) error {
	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO listings (id, category, status, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			status = excluded.status,
			payload = excluded.payload
	`, l.ID, string(l.Category), string(l.Status), payload)
	if err != nil {
		return fmt.Errorf("failed to upsert listing: %w", err)
	}
	return nil
}

func (r *SQLiteListingCache) GetAll(ctx context.Context) ([]models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM listings`)
	if err != nil {
		return nil, fmt.Errorf("failed to select listings: %w", err)
	}
	defer rows.Close()

	var result []models.Listing
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var l models.Listing
		if err := json.Unmarshal(payload, &l); err != nil {
			return nil, fmt.Errorf("failed to decode listing: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteListingCache) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM listings WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	l := &models.Listing{}
	if err := json.Unmarshal(payload, l); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}
	return l, nil
}

func (r *SQLiteListingCache) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

func (r *SQLiteListingCache) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM listings`)
	if err != nil {
		return fmt.Errorf("failed to clear listings: %w", err)
	}
	return nil
}

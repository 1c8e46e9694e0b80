package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foodshare/foodshare/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, req *PickupRequest) (*PickupRequest, error) {

	query :=
		`INSERT INTO requests (listing_id, recipient_id, slot, note, status)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		req.ListingID, req.RecipientID, req.Slot, req.Note, req.Status,
	).Scan(&req.ID, &req.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return req, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*PickupRequest, error) {
	query :=
		`SELECT id, listing_id, recipient_id, slot, note, status, created_at
		 FROM requests WHERE id = $1
		 `

	req := &PickupRequest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.ListingID, &req.RecipientID, &req.Slot, &req.Note, &req.Status, &req.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return req, nil
}

func (r *PostgresRepository) SelectByRecipient(ctx context.Context, recipientID string) ([]*PickupRequest, error) {
	query :=
		`SELECT id, listing_id, recipient_id, slot, note, status, created_at
		 FROM requests WHERE recipient_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	return collect(rows)
}

func (r *PostgresRepository) SelectByListings(ctx context.Context, listingIDs []string) ([]*PickupRequest, error) {
	query :=
		`SELECT id, listing_id, recipient_id, slot, note, status, created_at
		 FROM requests WHERE listing_id = ANY($1)
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, listingIDs)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	return collect(rows)
}

func collect(rows *sql.Rows) ([]*PickupRequest, error) {
	var result []*PickupRequest
	for rows.Next() {
		var req PickupRequest
		if err := rows.Scan(
			&req.ID, &req.ListingID, &req.RecipientID, &req.Slot, &req.Note, &req.Status, &req.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE requests SET status = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, count(*) FROM requests GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	result := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		result[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

package listings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/foodshare/foodshare/internal/common"
)

// PostgresRepository stores listings with the scalar columns broken out for
// filtering and the structured parts (photo keys, location, slots,
// checklists) as JSON columns.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

const listingColumns = `id, donor_id, title, description, category, quantity, unit,
	photo_keys, expiration_date, best_by_date, location, pickup_slots,
	special_instructions, safety_checklist, certifications, status,
	request_date, created_at`

func (r *PostgresRepository) Create(ctx context.Context, l *Listing) (*Listing, error) {

	photoKeys, err := json.Marshal(l.PhotoKeys)
	if err != nil {
		return nil, err
	}
	location, err := json.Marshal(l.Location)
	if err != nil {
		return nil, err
	}
	slots, err := json.Marshal(l.PickupSlots)
	if err != nil {
		return nil, err
	}
	safety, err := json.Marshal(l.SafetyChecklist)
	if err != nil {
		return nil, err
	}
	certs, err := json.Marshal(l.Certifications)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO listings (donor_id, title, description, category, quantity, unit,
			photo_keys, expiration_date, best_by_date, location, pickup_slots,
			special_instructions, safety_checklist, certifications, status, request_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		l.DonorID, l.Title, l.Description, l.Category, l.Quantity, l.Unit,
		photoKeys, l.ExpirationDate, l.BestByDate, location, slots,
		l.SpecialInstructions, safety, certs, l.Status, l.RequestDate,
	).Scan(&l.ID, &l.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return l, nil
}

func scanListing(scan func(dest ...any) error) (*Listing, error) {
	var l Listing
	var photoKeys, location, slots, safety, certs []byte

	err := scan(
		&l.ID, &l.DonorID, &l.Title, &l.Description, &l.Category, &l.Quantity, &l.Unit,
		&photoKeys, &l.ExpirationDate, &l.BestByDate, &location, &slots,
		&l.SpecialInstructions, &safety, &certs, &l.Status,
		&l.RequestDate, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, pair := range []struct {
		raw []byte
		dst any
	}{
		{photoKeys, &l.PhotoKeys},
		{location, &l.Location},
		{slots, &l.PickupSlots},
		{safety, &l.SafetyChecklist},
		{certs, &l.Certifications},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return nil, fmt.Errorf("corrupt listing payload: %w", err)
		}
	}

	return &l, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	l, err := scanListing(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	return l, nil
}

func (r *PostgresRepository) Select(ctx context.Context, category, status string) ([]*Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, category, status)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func (r *PostgresRepository) SelectByDonor(ctx context.Context, donorID string) ([]*Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
		WHERE donor_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, donorID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func collectListings(rows *sql.Rows) ([]*Listing, error) {
	var result []*Listing
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE listings SET status = $2 WHERE id = $1`

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
	query := `SELECT status, count(*) FROM listings GROUP BY status`

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

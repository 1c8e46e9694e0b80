package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/foodshare/foodshare/internal/server/listings"
	"github.com/foodshare/foodshare/internal/server/messaging"
	"github.com/foodshare/foodshare/internal/server/migrations"
	"github.com/foodshare/foodshare/internal/server/refreshtokens"
	"github.com/foodshare/foodshare/internal/server/requests"
	"github.com/foodshare/foodshare/internal/server/users"
)

type PostgresRepositoryManager struct {
	db            *sql.DB
	users         users.Repository
	refreshTokens refreshtokens.Repository
	listings      listings.Repository
	requests      requests.Repository
	messaging     messaging.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *PostgresRepositoryManager) Listings() listings.Repository {
	return m.listings
}

func (m *PostgresRepositoryManager) Requests() requests.Repository {
	return m.requests
}

func (m *PostgresRepositoryManager) Messaging() messaging.Repository {
	return m.messaging
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	userRepo, err := users.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}

	tokenRepo, err := refreshtokens.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("refresh token repo creation error: %w", err)
	}

	listingRepo, err := listings.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("listing repo creation error: %w", err)
	}

	requestRepo, err := requests.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("request repo creation error: %w", err)
	}

	messagingRepo, err := messaging.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("messaging repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:            db,
		users:         userRepo,
		refreshTokens: tokenRepo,
		listings:      listingRepo,
		requests:      requestRepo,
		messaging:     messagingRepo,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

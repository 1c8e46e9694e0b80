package db

import (
	"context"
	"database/sql"

	"github.com/foodshare/foodshare/internal/server/listings"
	"github.com/foodshare/foodshare/internal/server/messaging"
	"github.com/foodshare/foodshare/internal/server/refreshtokens"
	"github.com/foodshare/foodshare/internal/server/requests"
	"github.com/foodshare/foodshare/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Listings() listings.Repository
	Requests() requests.Repository
	Messaging() messaging.Repository
}

package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/foodshare/foodshare/internal/client/api"
	"github.com/foodshare/foodshare/internal/client/config"
	"github.com/foodshare/foodshare/internal/client/session"
	"github.com/foodshare/foodshare/internal/client/storage"
	"github.com/foodshare/foodshare/internal/logging"

	_ "modernc.org/sqlite"
)

// Mode reflects the client's view of server reachability.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App bundles everything the interactive client needs: configuration, the
// local sqlite-backed stores, the session, and the HTTP API client.
type App struct {
	config  *config.Config
	api     *api.Client
	session *session.Store
	kv      storage.KVStore
	cache   storage.ListingCache
	db      *sql.DB
	log     logging.Logger
	Mode    Mode
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.OpenDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	kv := storage.NewSQLiteKV(db)
	sess := session.NewStore(kv, log)
	apiClient := api.New(c.ServerAddr)

	// Keep the API client's bearer token in lockstep with the session.
	sess.Subscribe(func(s session.Session) {
		apiClient.SetToken(s.Token)
	})
	if cur := sess.Current(ctx); cur.Authenticated {
		apiClient.SetToken(cur.Token)
	}

	return &App{
		config:  c,
		api:     apiClient,
		session: sess,
		kv:      kv,
		cache:   storage.NewSQLiteListingCache(db),
		db:      db,
		log:     log,
		Mode:    ModeOffline,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Current(context.Background()).Authenticated
}

func (a *App) currentRole() string {
	return string(a.session.Current(context.Background()).Role)
}

// StartOnlineStatusWatcher periodically pings the server and flips Mode
// between online and offline accordingly. It blocks until ctx is done,
// so run it in its own goroutine.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

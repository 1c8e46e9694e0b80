// Package session holds the process-wide authentication/role pair that
// gates which commands and screens the client offers. The store is backed
// by the local key/value store, mutated only through its own operations,
// and read by many components; subscribers are notified after every
// mutation. If local storage is unavailable the store degrades to
// in-memory-only behavior for the process lifetime.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/foodshare/foodshare/internal/client/storage"
	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/logging"
)

// Role determines which affordances and default actions are offered.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleRecipient Role = "recipient"
	RoleAdmin     Role = "admin"
)

// DefaultRole is the baseline for unauthenticated, read-only browsing.
const DefaultRole = RoleRecipient

func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleRecipient || r == RoleAdmin
}

// Persisted key names.
const (
	KeyAuthToken = "auth_token"
	KeyUserRole  = "user_role"
	KeyUserEmail = "user_email"
	KeyLanguage  = "language"
)

// Session is the current authentication/role pair.
type Session struct {
	Role          Role
	Authenticated bool
	Email         string
	Token         string
}

// Store is the single owner of the session. All mutations persist
// synchronously; reads never write.
type Store struct {
	mu       sync.Mutex
	kv       storage.KVStore
	log      logging.Logger
	cur      *Session
	degraded bool
	subs     []func(Session)
}

func NewStore(kv storage.KVStore, log logging.Logger) *Store {
	return &Store{kv: kv, log: log.With("component", "session")}
}

// Current returns the in-memory session, lazily loading persisted state on
// first access. Missing keys default to an unauthenticated recipient.
func (s *Store) Current(ctx context.Context) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.load(ctx)
}

func (s *Store) load(ctx context.Context) *Session {
	if s.cur != nil {
		return s.cur
	}

	cur := &Session{Role: DefaultRole}

	token, err := s.kv.Get(ctx, KeyAuthToken)
	switch {
	case err == nil:
		cur.Token = token
		cur.Authenticated = token != ""
	case !errors.Is(err, common.ErrorNotFound):
		s.markDegraded(ctx, err)
		s.cur = cur
		return cur
	}

	if role, err := s.kv.Get(ctx, KeyUserRole); err == nil && Role(role).Valid() {
		cur.Role = Role(role)
	}
	if email, err := s.kv.Get(ctx, KeyUserEmail); err == nil {
		cur.Email = email
	}

	s.cur = cur
	return cur
}

func (s *Store) markDegraded(ctx context.Context, err error) {
	if !s.degraded {
		s.degraded = true
		s.log.Warn(ctx, "session storage unavailable, continuing in memory", "error", err)
	}
}

// Subscribe registers a callback invoked (synchronously) after every
// mutation with the new session value.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// snapshotSubs must be called with the lock held; notification itself runs
// after unlock so subscribers may call back into the store.
func (s *Store) snapshotSubs() []func(Session) {
	return append(([]func(Session))(nil), s.subs...)
}

func notify(subs []func(Session), cur Session) {
	for _, fn := range subs {
		fn(cur)
	}
}

// Login marks the session authenticated under the given role and persists
// the credentials. An invalid or empty role falls back to the default.
func (s *Store) Login(ctx context.Context, role Role, email, token string) Session {
	s.mu.Lock()

	if !role.Valid() {
		role = DefaultRole
	}

	cur := s.load(ctx)
	cur.Role = role
	cur.Authenticated = true
	cur.Email = email
	cur.Token = token

	s.persist(ctx, KeyAuthToken, token)
	s.persist(ctx, KeyUserRole, string(role))
	s.persist(ctx, KeyUserEmail, email)

	out := *cur
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, out)
	return out
}

// Logout resets the session to the unauthenticated default and clears the
// persisted auth keys.
func (s *Store) Logout(ctx context.Context) Session {
	s.mu.Lock()

	cur := s.load(ctx)
	cur.Role = DefaultRole
	cur.Authenticated = false
	cur.Email = ""
	cur.Token = ""

	s.remove(ctx, KeyAuthToken)
	s.remove(ctx, KeyUserRole)
	s.remove(ctx, KeyUserEmail)

	out := *cur
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, out)
	return out
}

// UpdateRole changes the active role without touching the authentication
// flag. Invalid roles are ignored.
func (s *Store) UpdateRole(ctx context.Context, role Role) Session {
	s.mu.Lock()

	cur := s.load(ctx)
	if role.Valid() {
		cur.Role = role
		s.persist(ctx, KeyUserRole, string(role))
	}

	out := *cur
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, out)
	return out
}

// SetLanguage persists the UI language preference.
func (s *Store) SetLanguage(ctx context.Context, lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist(ctx, KeyLanguage, lang)
}

// Language returns the persisted language preference, defaulting to "en".
func (s *Store) Language(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lang, err := s.kv.Get(ctx, KeyLanguage)
	if err != nil || lang == "" {
		return "en"
	}
	return lang
}

func (s *Store) persist(ctx context.Context, key, value string) {
	if err := s.kv.Set(ctx, key, value); err != nil {
		s.markDegraded(ctx, err)
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	if err := s.kv.Delete(ctx, key); err != nil {
		s.markDegraded(ctx, err)
	}
}

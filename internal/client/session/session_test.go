package session

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/foodshare/foodshare/internal/client/storage"
	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) (string, error) {
	return "", common.ErrStorageUnavailable
}
func (failingKV) Set(ctx context.Context, key, value string) error {
	return common.ErrStorageUnavailable
}
func (failingKV) Delete(ctx context.Context, key string) error {
	return common.ErrStorageUnavailable
}

func TestCurrent_FreshStoreDefaults(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), testLogger())

	cur := s.Current(context.Background())

	assert.Equal(t, RoleRecipient, cur.Role)
	assert.False(t, cur.Authenticated)
	assert.Empty(t, cur.Email)
}

func TestLoginLogoutRoundTrip(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := NewStore(kv, testLogger())
	ctx := context.Background()

	cur := s.Login(ctx, RoleDonor, "donor@foodshare.com", "tok-1")
	assert.Equal(t, RoleDonor, cur.Role)
	assert.True(t, cur.Authenticated)

	cur = s.Current(ctx)
	assert.Equal(t, RoleDonor, cur.Role)
	assert.True(t, cur.Authenticated)
	assert.Equal(t, "donor@foodshare.com", cur.Email)

	cur = s.Logout(ctx)
	assert.Equal(t, RoleRecipient, cur.Role)
	assert.False(t, cur.Authenticated)

	// Persisted keys are cleared, not just the in-memory value.
	_, err := kv.Get(ctx, KeyAuthToken)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = kv.Get(ctx, KeyUserRole)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLogin_InvalidRoleFallsBackToDefault(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), testLogger())

	cur := s.Login(context.Background(), Role("superuser"), "x@y.z", "tok")
	assert.Equal(t, RoleRecipient, cur.Role)
	assert.True(t, cur.Authenticated)
}

func TestCurrent_LoadsPersistedState(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, KeyAuthToken, "tok"))
	require.NoError(t, kv.Set(ctx, KeyUserRole, "admin"))
	require.NoError(t, kv.Set(ctx, KeyUserEmail, "admin@foodshare.com"))

	s := NewStore(kv, testLogger())
	cur := s.Current(ctx)

	assert.Equal(t, RoleAdmin, cur.Role)
	assert.True(t, cur.Authenticated)
	assert.Equal(t, "admin@foodshare.com", cur.Email)
}

func TestUpdateRole_KeepsAuthenticationFlag(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), testLogger())
	ctx := context.Background()

	s.Login(ctx, RoleRecipient, "a@b.c", "tok")
	cur := s.UpdateRole(ctx, RoleDonor)

	assert.Equal(t, RoleDonor, cur.Role)
	assert.True(t, cur.Authenticated)

	// Invalid role is ignored.
	cur = s.UpdateRole(ctx, Role("wizard"))
	assert.Equal(t, RoleDonor, cur.Role)
}

func TestSubscribe_NotifiedOnEveryMutation(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), testLogger())
	ctx := context.Background()

	var seen []Session
	s.Subscribe(func(cur Session) { seen = append(seen, cur) })

	s.Login(ctx, RoleDonor, "a@b.c", "tok")
	s.UpdateRole(ctx, RoleAdmin)
	s.Logout(ctx)

	require.Len(t, seen, 3)
	assert.Equal(t, RoleDonor, seen[0].Role)
	assert.Equal(t, RoleAdmin, seen[1].Role)
	assert.False(t, seen[2].Authenticated)
}

func TestSubscribe_CallbackMayReadTheStore(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), testLogger())
	ctx := context.Background()

	var seen Session
	s.Subscribe(func(Session) { seen = s.Current(ctx) })

	s.Login(ctx, RoleDonor, "a@b.c", "tok")

	assert.Equal(t, RoleDonor, seen.Role)
	assert.True(t, seen.Authenticated)
}

func TestStorageUnavailable_FallsBackToMemory(t *testing.T) {
	s := NewStore(failingKV{}, testLogger())
	ctx := context.Background()

	cur := s.Current(ctx)
	assert.Equal(t, RoleRecipient, cur.Role)
	assert.False(t, cur.Authenticated)

	// Mutations still work in memory for the process lifetime.
	cur = s.Login(ctx, RoleDonor, "a@b.c", "tok")
	assert.True(t, cur.Authenticated)
	assert.Equal(t, RoleDonor, s.Current(ctx).Role)
}

func TestLanguagePreference(t *testing.T) {
	s := NewStore(storage.NewMemoryKV(), testLogger())
	ctx := context.Background()

	assert.Equal(t, "en", s.Language(ctx))
	s.SetLanguage(ctx, "es")
	assert.Equal(t, "es", s.Language(ctx))
}

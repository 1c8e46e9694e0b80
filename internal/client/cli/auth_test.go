package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/client/api"
	"github.com/foodshare/foodshare/internal/client/config"
	"github.com/foodshare/foodshare/internal/client/session"
	"github.com/foodshare/foodshare/internal/client/storage"
	"github.com/foodshare/foodshare/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestApp(t *testing.T, serverURL string) *App {
	t.Helper()
	log := discardLogger()
	kv := storage.NewMemoryKV()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	apiClient := api.New(serverURL)
	sess := session.NewStore(kv, log)
	sess.Subscribe(func(s session.Session) { apiClient.SetToken(s.Token) })

	return &App{
		config:  cfg,
		api:     apiClient,
		session: sess,
		kv:      kv,
		log:     log,
		reader:  bufio.NewReader(strings.NewReader("")),
	}
}

func stubPrompts(t *testing.T, text string, password []byte, choice string) {
	t.Helper()
	origText, origPw, origChoice := getSimpleText, getPassword, getChoice
	t.Cleanup(func() {
		getSimpleText, getPassword, getChoice = origText, origPw, origChoice
	})
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return text, nil }
	getPassword = func(io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	getChoice = func(_ *bufio.Reader, _ string, _ []string, _ string, _ io.Writer) (string, error) {
		return choice, nil
	}
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRegister_SendsRoleAndCredentials(t *testing.T) {
	silencePrintln(t)
	stubPrompts(t, "donor@example.com", []byte("secret"), "donor")

	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	a := newTestApp(t, srv.URL)
	require.NoError(t, a.Register(context.Background()))

	assert.Equal(t, "donor@example.com", got["email"])
	assert.Equal(t, "secret", got["password"])
	assert.Equal(t, "donor", got["role"])
}

func TestLogin_PersistsSessionAndToken(t *testing.T) {
	silencePrintln(t)
	stubPrompts(t, "donor@example.com", []byte("secret"), "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-123",
			"user_id":      "u1",
			"role":         "donor",
		})
	}))
	defer srv.Close()

	a := newTestApp(t, srv.URL)
	require.NoError(t, a.Login(context.Background()))

	cur := a.session.Current(context.Background())
	assert.True(t, cur.Authenticated)
	assert.Equal(t, session.RoleDonor, cur.Role)
	assert.Equal(t, "donor@example.com", cur.Email)
	assert.Equal(t, "tok-123", cur.Token)
	assert.Equal(t, ModeOnline, a.Mode)
	assert.True(t, a.isLoggedIn())
}

func TestLogin_ServerDownKeepsSavedSession(t *testing.T) {
	silencePrintln(t)
	stubPrompts(t, "donor@example.com", []byte("secret"), "")

	a := newTestApp(t, "http://127.0.0.1:1") // nothing listens here
	a.session.Login(context.Background(), session.RoleDonor, "donor@example.com", "old-token")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, ModeOffline, a.Mode)
	assert.True(t, a.session.Current(context.Background()).Authenticated)
}

func TestLogout_ClearsSession(t *testing.T) {
	silencePrintln(t)

	a := newTestApp(t, "http://127.0.0.1:1")
	a.session.Login(context.Background(), session.RoleDonor, "d@example.com", "tok")
	require.True(t, a.isLoggedIn())

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, string(session.DefaultRole), a.currentRole())
}

func TestSwitchRole_RejectsAdmin(t *testing.T) {
	silencePrintln(t)

	a := newTestApp(t, "http://127.0.0.1:1")
	a.session.Login(context.Background(), session.RoleRecipient, "r@example.com", "tok")

	require.Error(t, a.SwitchRole(context.Background(), "admin"))
	assert.Equal(t, "recipient", a.currentRole())

	require.NoError(t, a.SwitchRole(context.Background(), "donor"))
	assert.Equal(t, "donor", a.currentRole())
}

func TestNewListing_RequiresDonorRole(t *testing.T) {
	silencePrintln(t)

	a := newTestApp(t, "http://127.0.0.1:1")
	a.session.Login(context.Background(), session.RoleRecipient, "r@example.com", "tok")

	// Declines immediately without touching the wizard or prompting.
	require.NoError(t, a.NewListing(context.Background()))
}

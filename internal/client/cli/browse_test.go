package cli

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/logging"
)

func TestBrowse_ServerErrorIsLoggedAndReturned(t *testing.T) {
	silencePrintln(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	app := newTestApp(t, srv.URL)
	app.log = logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	err := app.Browse(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "listing fetch failed")
}

func TestBrowse_RejectsUnknownCategory(t *testing.T) {
	silencePrintln(t)

	app := newTestApp(t, "http://127.0.0.1:1")
	err := app.Browse(context.Background(), "gadgets")
	require.NoError(t, err)
}

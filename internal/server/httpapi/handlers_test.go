package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/server/auth"
	"github.com/foodshare/foodshare/internal/server/listings"
	"github.com/foodshare/foodshare/internal/server/messaging"
	"github.com/foodshare/foodshare/internal/server/requests"
	"github.com/foodshare/foodshare/internal/server/users"
)

var testSecret = []byte("test-secret")

type fakeUsers struct {
	registered *users.User
	listed     []*users.User
	byRole     map[string]int
}

func (f *fakeUsers) Register(ctx context.Context, email, password, role string) (*users.User, error) {
	f.registered = &users.User{ID: "U1", Email: email, Role: role}
	return f.registered, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*users.TokenPair, error) {
	if password != "secret12" {
		return nil, common.ErrorUnauthorized
	}
	return &users.TokenPair{AccessToken: "at", RefreshToken: "rt", UserID: "U1", Role: users.RoleDonor}, nil
}

func (f *fakeUsers) Refresh(ctx context.Context, refreshToken string) (*users.TokenPair, error) {
	if refreshToken != "rt" {
		return nil, common.ErrorUnauthorized
	}
	return &users.TokenPair{AccessToken: "at2", RefreshToken: "rt2", UserID: "U1", Role: users.RoleDonor}, nil
}

func (f *fakeUsers) List(ctx context.Context) ([]*users.User, error) { return f.listed, nil }

func (f *fakeUsers) CountByRole(ctx context.Context) (map[string]int, error) { return f.byRole, nil }

type fakeListings struct {
	created    *listings.Listing
	createdBy  string
	forDonorID string
	byStatus   map[string]int
	moderated  map[string]string
}

func (f *fakeListings) Create(ctx context.Context, donorID string, l *listings.Listing) (*listings.Listing, error) {
	if l.Title == "" {
		return nil, listings.ErrValidation
	}
	f.created, f.createdBy = l, donorID
	l.ID = "L1"
	return l, nil
}

func (f *fakeListings) List(ctx context.Context, category string) ([]*listings.Listing, error) {
	return []*listings.Listing{{ID: "L1", Category: category}}, nil
}

func (f *fakeListings) Get(ctx context.Context, id string) (*listings.Listing, error) {
	if id != "L1" {
		return nil, common.ErrorNotFound
	}
	return &listings.Listing{ID: "L1", Title: "Apples"}, nil
}

func (f *fakeListings) ForDonor(ctx context.Context, donorID string) ([]*listings.Listing, error) {
	f.forDonorID = donorID
	return []*listings.Listing{{ID: "L1", DonorID: donorID}}, nil
}

func (f *fakeListings) Moderate(ctx context.Context, id, action string) error {
	if f.moderated == nil {
		f.moderated = map[string]string{}
	}
	f.moderated[id] = action
	return nil
}

func (f *fakeListings) CountByStatus(ctx context.Context) (map[string]int, error) {
	return f.byStatus, nil
}

type fakeRequests struct {
	resolved map[string]string
}

func (f *fakeRequests) Create(ctx context.Context, recipientID, listingID, slot, note string) (*requests.PickupRequest, error) {
	if listingID == "gone" {
		return nil, requests.ErrListingClaimed
	}
	return &requests.PickupRequest{ID: "R1", ListingID: listingID, RecipientID: recipientID, Slot: slot, Note: note, Status: requests.StatusPending}, nil
}

func (f *fakeRequests) ForUser(ctx context.Context, userID string) ([]*requests.PickupRequest, error) {
	return []*requests.PickupRequest{{ID: "R1", RecipientID: userID}}, nil
}

func (f *fakeRequests) Resolve(ctx context.Context, donorID, requestID, action string) error {
	if f.resolved == nil {
		f.resolved = map[string]string{}
	}
	f.resolved[requestID] = donorID + ":" + action
	return nil
}

func (f *fakeRequests) CountByStatus(ctx context.Context) (map[string]int, error) {
	return map[string]int{requests.StatusPending: 4}, nil
}

type fakeMessaging struct {
	sentListing      string
	sentConversation string
}

func (f *fakeMessaging) Send(ctx context.Context, senderID, listingID, body string) (*messaging.Message, error) {
	f.sentListing = listingID
	return &messaging.Message{ID: "M1", ConversationID: "C1", SenderID: senderID, Body: body}, nil
}

func (f *fakeMessaging) SendToConversation(ctx context.Context, senderID, conversationID, body string) (*messaging.Message, error) {
	f.sentConversation = conversationID
	return &messaging.Message{ID: "M2", ConversationID: conversationID, SenderID: senderID, Body: body}, nil
}

func (f *fakeMessaging) ConversationsForUser(ctx context.Context, userID string) ([]*messaging.Conversation, error) {
	return []*messaging.Conversation{{ID: "C1", Unread: 2}}, nil
}

func (f *fakeMessaging) Messages(ctx context.Context, userID, conversationID string) ([]*messaging.Message, error) {
	if conversationID != "C1" {
		return nil, messaging.ErrNotParticipant
	}
	return []*messaging.Message{{ID: "M1", ConversationID: conversationID}}, nil
}

type fakePhotos struct{}

func (f *fakePhotos) PresignedPutURL(ctx context.Context) (string, string, error) {
	return "listings/2026/8/31/abc", "http://minio/put/abc", nil
}

type testAPI struct {
	handler   http.Handler
	users     *fakeUsers
	listings  *fakeListings
	requests  *fakeRequests
	messaging *fakeMessaging
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	u := &fakeUsers{byRole: map[string]int{users.RoleDonor: 3, users.RoleRecipient: 5, users.RoleAdmin: 1}}
	l := &fakeListings{byStatus: map[string]int{listings.StatusAvailable: 7, listings.StatusFlagged: 1, listings.StatusRemoved: 2}}
	rq := &fakeRequests{}
	m := &fakeMessaging{}

	h := NewHandler(u, l, rq, m, &fakePhotos{}, log)
	return &testAPI{handler: NewRouter(h, testSecret), users: u, listings: l, requests: rq, messaging: m}
}

func bearerFor(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, role, testSecret, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func TestPing_NoAuthRequired(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_RejectsMissingAndBadTokens(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/listings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodGet, "/api/listings", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := auth.GenerateToken("U1", users.RoleDonor, testSecret, -time.Minute)
	require.NoError(t, err)
	w = api.do(t, http.MethodGet, "/api/listings", "Bearer "+expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "d@x.com", "password": "secret12", "role": "donor"})
	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, api.users.registered)
	assert.Equal(t, "d@x.com", api.users.registered.Email)

	w = api.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "d@x.com", "password": "secret12"})
	assert.Equal(t, http.StatusOK, w.Code)

	var pair users.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	assert.Equal(t, "at", pair.AccessToken)
	assert.Equal(t, "U1", pair.UserID)

	w = api.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "d@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateListing_UsesTokenIdentity(t *testing.T) {
	api := newTestAPI(t)
	token := bearerFor(t, "donor-7", users.RoleDonor)

	w := api.do(t, http.MethodPost, "/api/listings", token, map[string]any{
		"title":    "Fresh apples",
		"category": "produce",
		"quantity": "10",
		"unit":     "pounds",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "donor-7", api.listings.createdBy)
	assert.Equal(t, "Fresh apples", api.listings.created.Title)
	assert.JSONEq(t, `{"id":"L1"}`, w.Body.String())

	w = api.do(t, http.MethodPost, "/api/listings", token, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListingRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := bearerFor(t, "donor-7", users.RoleDonor)

	w := api.do(t, http.MethodGet, "/api/listings?category=produce", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/listings/mine", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "donor-7", api.listings.forDonorID)

	w = api.do(t, http.MethodGet, "/api/listings/L1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/listings/nope", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := bearerFor(t, "rec-1", users.RoleRecipient)

	w := api.do(t, http.MethodPost, "/api/requests", token,
		map[string]string{"listing_id": "L1", "slot": "morning", "note": "after 9"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var req requests.PickupRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &req))
	assert.Equal(t, "rec-1", req.RecipientID)
	assert.Equal(t, "morning", req.Slot)

	w = api.do(t, http.MethodPost, "/api/requests", token,
		map[string]string{"listing_id": "gone", "slot": "morning"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodGet, "/api/requests", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	donorToken := bearerFor(t, "donor-7", users.RoleDonor)
	w = api.do(t, http.MethodPost, "/api/requests/R1/resolve", donorToken,
		map[string]string{"action": "approve"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "donor-7:approve", api.requests.resolved["R1"])
}

func TestMessagingRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := bearerFor(t, "rec-1", users.RoleRecipient)

	w := api.do(t, http.MethodPost, "/api/messages", token,
		map[string]string{"listing_id": "L1", "body": "Still available?"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "L1", api.messaging.sentListing)

	w = api.do(t, http.MethodPost, "/api/messages", token,
		map[string]string{"conversation_id": "C1", "body": "Reply"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "C1", api.messaging.sentConversation)

	w = api.do(t, http.MethodGet, "/api/conversations", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/conversations/C1/messages", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/conversations/C9/messages", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPresignPhoto(t *testing.T) {
	api := newTestAPI(t)
	token := bearerFor(t, "donor-7", users.RoleDonor)

	w := api.do(t, http.MethodPost, "/api/photos/presign", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key":"listings/2026/8/31/abc","url":"http://minio/put/abc"}`, w.Body.String())
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	api := newTestAPI(t)

	donorToken := bearerFor(t, "donor-7", users.RoleDonor)
	w := api.do(t, http.MethodGet, "/api/admin/stats", donorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := bearerFor(t, "admin-1", users.RoleAdmin)
	w = api.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats adminStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 9, stats.Users)
	assert.Equal(t, 3, stats.Donors)
	assert.Equal(t, 5, stats.Recipients)
	assert.Equal(t, 10, stats.Listings)
	assert.Equal(t, 7, stats.AvailableListings)
	assert.Equal(t, 1, stats.FlaggedListings)
	assert.Equal(t, 4, stats.PendingRequests)

	w = api.do(t, http.MethodPost, "/api/admin/listings/L1/moderate", adminToken,
		map[string]string{"action": "flag"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "flag", api.listings.moderated["L1"])

	api.users.listed = []*users.User{{ID: "U1", Email: "d@x.com", Role: users.RoleDonor}}
	w = api.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

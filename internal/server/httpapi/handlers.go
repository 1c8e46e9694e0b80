// Package httpapi exposes the server's services over an HTTP/JSON API.
// Routing is chi based; authentication is a bearer access token parsed by
// middleware, with the caller's identity carried in the request context.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/server/listings"
	"github.com/foodshare/foodshare/internal/server/messaging"
	"github.com/foodshare/foodshare/internal/server/requests"
	"github.com/foodshare/foodshare/internal/server/users"
)

// UserService is the account and token surface the API needs.
type UserService interface {
	Register(ctx context.Context, email, password, role string) (*users.User, error)
	Login(ctx context.Context, email, password string) (*users.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*users.TokenPair, error)
	List(ctx context.Context) ([]*users.User, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

// ListingService is the listing surface the API needs.
type ListingService interface {
	Create(ctx context.Context, donorID string, l *listings.Listing) (*listings.Listing, error)
	List(ctx context.Context, category string) ([]*listings.Listing, error)
	Get(ctx context.Context, id string) (*listings.Listing, error)
	ForDonor(ctx context.Context, donorID string) ([]*listings.Listing, error)
	Moderate(ctx context.Context, id, action string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// RequestService is the pickup-request surface the API needs.
type RequestService interface {
	Create(ctx context.Context, recipientID, listingID, slot, note string) (*requests.PickupRequest, error)
	ForUser(ctx context.Context, userID string) ([]*requests.PickupRequest, error)
	Resolve(ctx context.Context, donorID, requestID, action string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// MessagingService is the conversation surface the API needs.
type MessagingService interface {
	Send(ctx context.Context, senderID, listingID, body string) (*messaging.Message, error)
	SendToConversation(ctx context.Context, senderID, conversationID, body string) (*messaging.Message, error)
	ConversationsForUser(ctx context.Context, userID string) ([]*messaging.Conversation, error)
	Messages(ctx context.Context, userID, conversationID string) ([]*messaging.Message, error)
}

// PhotoService issues presigned photo upload URLs.
type PhotoService interface {
	PresignedPutURL(ctx context.Context) (string, string, error)
}

type Handler struct {
	users     UserService
	listings  ListingService
	requests  RequestService
	messaging MessagingService
	photos    PhotoService
	log       logging.Logger
}

func NewHandler(users UserService, listings ListingService, requests RequestService,
	messaging MessagingService, photos PhotoService, log logging.Logger) *Handler {
	return &Handler{
		users:     users,
		listings:  listings,
		requests:  requests,
		messaging: messaging,
		photos:    photos,
		log:       log,
	}
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, common.ErrorInvalidListing)
		return
	}

	user, err := h.users.Register(r.Context(), in.Email, in.Password, in.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": user.ID})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	pair, err := h.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	pair, err := h.users.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pair)
}

func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var l listings.Listing
	if err := decodeJSON(r, &l); err != nil {
		respondError(w, listings.ErrValidation)
		return
	}

	created, err := h.listings.Create(r.Context(), identity.UserID, &l)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}

func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	result, err := h.listings.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	l, err := h.listings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (h *Handler) MyListings(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	result, err := h.listings.ForDonor(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type createRequestRequest struct {
	ListingID string `json:"listing_id"`
	Slot      string `json:"slot"`
	Note      string `json:"note"`
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var in createRequestRequest
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, requests.ErrSlotNotOffered)
		return
	}

	req, err := h.requests.Create(r.Context(), identity.UserID, in.ListingID, in.Slot, in.Note)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, req)
}

func (h *Handler) MyRequests(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	result, err := h.requests.ForUser(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type resolveRequest struct {
	Action string `json:"action"`
}

func (h *Handler) ResolveRequest(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var in resolveRequest
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, requests.ErrUnknownResolution)
		return
	}

	if err := h.requests.Resolve(r.Context(), identity.UserID, chi.URLParam(r, "id"), in.Action); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Conversations(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	result, err := h.messaging.ConversationsForUser(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	result, err := h.messaging.Messages(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type sendMessageRequest struct {
	ListingID      string `json:"listing_id"`
	ConversationID string `json:"conversation_id"`
	Body           string `json:"body"`
}

// SendMessage posts a message either by listing (starting the conversation
// if needed) or by conversation id (replies).
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var in sendMessageRequest
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, messaging.ErrEmptyBody)
		return
	}

	var msg *messaging.Message
	var err error
	if in.ConversationID != "" {
		msg, err = h.messaging.SendToConversation(r.Context(), identity.UserID, in.ConversationID, in.Body)
	} else {
		msg, err = h.messaging.Send(r.Context(), identity.UserID, in.ListingID, in.Body)
	}
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

func (h *Handler) PresignPhoto(w http.ResponseWriter, r *http.Request) {
	key, url, err := h.photos.PresignedPutURL(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}

type adminStats struct {
	Users             int `json:"users"`
	Donors            int `json:"donors"`
	Recipients        int `json:"recipients"`
	Listings          int `json:"listings"`
	AvailableListings int `json:"available_listings"`
	FlaggedListings   int `json:"flagged_listings"`
	PendingRequests   int `json:"pending_requests"`
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	byRole, err := h.users.CountByRole(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	byStatus, err := h.listings.CountByStatus(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	requestCounts, err := h.requests.CountByStatus(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	stats := adminStats{
		Donors:            byRole[users.RoleDonor],
		Recipients:        byRole[users.RoleRecipient],
		AvailableListings: byStatus[listings.StatusAvailable],
		FlaggedListings:   byStatus[listings.StatusFlagged],
		PendingRequests:   requestCounts[requests.StatusPending],
	}
	for _, n := range byRole {
		stats.Users += n
	}
	for _, n := range byStatus {
		stats.Listings += n
	}

	respondJSON(w, http.StatusOK, stats)
}

type adminUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	result := make([]adminUser, 0, len(list))
	for _, u := range list {
		result = append(result, adminUser{
			ID:        u.ID,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, result)
}

type moderateRequest struct {
	Action string `json:"action"`
}

func (h *Handler) ModerateListing(w http.ResponseWriter, r *http.Request) {
	var in moderateRequest
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, listings.ErrUnknownAction)
		return
	}

	if err := h.listings.Moderate(r.Context(), chi.URLParam(r, "id"), in.Action); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Package api is the HTTP client for the FoodShare server. It carries the
// bearer token issued at login, maps transport failures to
// common.ErrUnavailable so callers can fall back to cached data, and
// implements the wizard's submission collaborator.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/foodshare/foodshare/internal/client/models"
	"github.com/foodshare/foodshare/internal/common"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// SetToken installs the access token attached to subsequent requests.
// An empty token clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return common.ErrorForbidden
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case resp.StatusCode >= 400:
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Ping checks server liveness.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/ping", nil, nil)
}

// Register creates an account with the given role.
func (c *Client) Register(ctx context.Context, email, password, role string) error {
	in := map[string]string{"email": email, "password": password, "role": role}
	return c.do(ctx, http.MethodPost, "/api/auth/register", in, nil)
}

// LoginResult is the token pair and identity returned by the server.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
}

// Login authenticates and installs the returned access token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// SubmitListing publishes a completed listing: pending photos are uploaded
// to presigned URLs first, then the listing itself is created. It satisfies
// the wizard engine's Submitter contract.
func (c *Client) SubmitListing(ctx context.Context, form models.FormState, requestDate time.Time) (string, error) {
	keys, err := c.uploadPendingPhotos(ctx, form.Photos)
	if err != nil {
		return "", err
	}

	in := createListingRequest{
		Title:               form.Title,
		Description:         form.Description,
		Category:            form.Category,
		Quantity:            form.Quantity,
		Unit:                form.Unit,
		PhotoKeys:           keys,
		ExpirationDate:      form.ExpirationDate,
		BestByDate:          form.BestByDate,
		Location:            form.Location,
		PickupSlots:         form.PickupSlots,
		SpecialInstructions: form.SpecialInstructions,
		SafetyChecklist:     form.SafetyChecklist,
		Certifications:      form.Certifications,
		RequestDate:         requestDate,
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/listings", in, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

type createListingRequest struct {
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	Category            models.Category        `json:"category"`
	Quantity            string                 `json:"quantity"`
	Unit                models.Unit            `json:"unit"`
	PhotoKeys           []string               `json:"photo_keys"`
	ExpirationDate      string                 `json:"expiration_date"`
	BestByDate          string                 `json:"best_by_date"`
	Location            models.Location        `json:"location"`
	PickupSlots         []models.PickupSlot    `json:"pickup_slots"`
	SpecialInstructions string                 `json:"special_instructions"`
	SafetyChecklist     []models.SafetyItem    `json:"safety_checklist"`
	Certifications      []models.Certification `json:"certifications"`
	RequestDate         time.Time              `json:"request_date"`
}

// Listings fetches published listings, optionally filtered by category.
func (c *Client) Listings(ctx context.Context, category string) ([]models.Listing, error) {
	path := "/api/listings"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var out []models.Listing
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Listing fetches a single listing by id.
func (c *Client) Listing(ctx context.Context, id string) (*models.Listing, error) {
	var out models.Listing
	if err := c.do(ctx, http.MethodGet, "/api/listings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyListings fetches the authenticated donor's own listings.
func (c *Client) MyListings(ctx context.Context) ([]models.Listing, error) {
	var out []models.Listing
	if err := c.do(ctx, http.MethodGet, "/api/listings/mine", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PickupRequest mirrors the server's request resource.
type PickupRequest struct {
	ID          string    `json:"id"`
	ListingID   string    `json:"listing_id"`
	RecipientID string    `json:"recipient_id"`
	Slot        string    `json:"slot"`
	Note        string    `json:"note"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// RequestPickup asks for a pickup slot on a listing.
func (c *Client) RequestPickup(ctx context.Context, listingID, slot, note string) (*PickupRequest, error) {
	in := map[string]string{"listing_id": listingID, "slot": slot, "note": note}
	var out PickupRequest
	if err := c.do(ctx, http.MethodPost, "/api/requests", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyRequests lists pickup requests involving the authenticated user
// (sent for recipients, received for donors).
func (c *Client) MyRequests(ctx context.Context) ([]PickupRequest, error) {
	var out []PickupRequest
	if err := c.do(ctx, http.MethodGet, "/api/requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveRequest approves, declines or completes a pickup request.
func (c *Client) ResolveRequest(ctx context.Context, id, action string) error {
	in := map[string]string{"action": action}
	return c.do(ctx, http.MethodPost, "/api/requests/"+url.PathEscape(id)+"/resolve", in, nil)
}

// Conversation mirrors the server's conversation resource.
type Conversation struct {
	ID          string    `json:"id"`
	ListingID   string    `json:"listing_id"`
	DonorID     string    `json:"donor_id"`
	RecipientID string    `json:"recipient_id"`
	Unread      int       `json:"unread"`
	CreatedAt   time.Time `json:"created_at"`
}

// Message mirrors the server's message resource.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversations lists the authenticated user's conversations.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var out []Conversation
	if err := c.do(ctx, http.MethodGet, "/api/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Messages lists a conversation's messages and marks them read.
func (c *Client) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	var out []Message
	path := "/api/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage sends a message about a listing, creating the conversation
// if none exists yet.
func (c *Client) SendMessage(ctx context.Context, listingID, body string) (*Message, error) {
	in := map[string]string{"listing_id": listingID, "body": body}
	var out Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminStats mirrors the server's platform statistics.
type AdminStats struct {
	Users             int `json:"users"`
	Donors            int `json:"donors"`
	Recipients        int `json:"recipients"`
	Listings          int `json:"listings"`
	AvailableListings int `json:"available_listings"`
	FlaggedListings   int `json:"flagged_listings"`
	PendingRequests   int `json:"pending_requests"`
}

// Stats fetches platform statistics (admin only).
func (c *Client) Stats(ctx context.Context) (*AdminStats, error) {
	var out AdminStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUser is the admin view of an account.
type AdminUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Users lists accounts (admin only).
func (c *Client) Users(ctx context.Context) ([]AdminUser, error) {
	var out []AdminUser
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Moderate flags or removes a listing (admin only).
func (c *Client) Moderate(ctx context.Context, listingID, action string) error {
	in := map[string]string{"action": action}
	return c.do(ctx, http.MethodPost, "/api/admin/listings/"+url.PathEscape(listingID)+"/moderate", in, nil)
}

// IsUnavailable reports whether err indicates the server could not be
// reached at all.
func IsUnavailable(err error) bool {
	return errors.Is(err, common.ErrUnavailable)
}

package requests

import "time"

// Request statuses. A request starts pending, the donor approves or
// declines it, and an approved request is completed after handover.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusDeclined  = "declined"
	StatusCompleted = "completed"
)

type PickupRequest struct {
	ID          string    `json:"id"`
	ListingID   string    `json:"listing_id"`
	RecipientID string    `json:"recipient_id"`
	Slot        string    `json:"slot"`
	Note        string    `json:"note"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

package models

import "time"

// ListingStatus tracks a published listing through its lifecycle.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingClaimed   ListingStatus = "claimed"
	ListingCompleted ListingStatus = "completed"
	ListingFlagged   ListingStatus = "flagged"
	ListingRemoved   ListingStatus = "removed"
)

// Listing is a published food listing as returned by the server and cached
// locally for offline browsing.
type Listing struct {
	ID                  string          `json:"id"`
	DonorID             string          `json:"donor_id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Category            Category        `json:"category"`
	Quantity            string          `json:"quantity"`
	Unit                Unit            `json:"unit"`
	PhotoKeys           []string        `json:"photo_keys"`
	ExpirationDate      string          `json:"expiration_date"`
	BestByDate          string          `json:"best_by_date"`
	Location            Location        `json:"location"`
	PickupSlots         []PickupSlot    `json:"pickup_slots"`
	SpecialInstructions string          `json:"special_instructions"`
	SafetyChecklist     []SafetyItem    `json:"safety_checklist"`
	Certifications      []Certification `json:"certifications"`
	Status              ListingStatus   `json:"status"`
	RequestDate         time.Time       `json:"request_date"`
	CreatedAt           time.Time       `json:"created_at"`
}

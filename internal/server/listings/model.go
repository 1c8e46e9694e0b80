package listings

import "time"

// Listing statuses.
const (
	StatusAvailable = "available"
	StatusClaimed   = "claimed"
	StatusCompleted = "completed"
	StatusFlagged   = "flagged"
	StatusRemoved   = "removed"
)

// Categories a listing may belong to.
var Categories = []string{"produce", "prepared", "packaged", "bakery", "dairy", "frozen"}

// Units a quantity may be measured in.
var Units = []string{"servings", "pounds", "kilograms", "pieces", "containers", "bags"}

// PickupSlots a donor may offer.
var PickupSlots = []string{"morning", "afternoon", "evening", "flexible"}

// RequiredSafetyItems must all be acknowledged before a listing is accepted.
var RequiredSafetyItems = []string{
	"proper_storage", "no_contamination", "clean_preparation",
	"safe_packaging", "no_recalls",
}

// Location is the pickup address and contact details, stored as one JSON
// column.
type Location struct {
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
}

type Listing struct {
	ID                  string    `json:"id"`
	DonorID             string    `json:"donor_id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Category            string    `json:"category"`
	Quantity            string    `json:"quantity"`
	Unit                string    `json:"unit"`
	PhotoKeys           []string  `json:"photo_keys"`
	ExpirationDate      string    `json:"expiration_date"`
	BestByDate          string    `json:"best_by_date"`
	Location            Location  `json:"location"`
	PickupSlots         []string  `json:"pickup_slots"`
	SpecialInstructions string    `json:"special_instructions"`
	SafetyChecklist     []string  `json:"safety_checklist"`
	Certifications      []string  `json:"certifications"`
	Status              string    `json:"status"`
	RequestDate         time.Time `json:"request_date"`
	CreatedAt           time.Time `json:"created_at"`
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

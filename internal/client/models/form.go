package models

import "time"

// DateLayout is the calendar-date format used throughout the form.
const DateLayout = "2006-01-02"

const (
	// MaxPhotos bounds the number of photos attached to one listing.
	MaxPhotos = 5
	// MaxPhotoBytes bounds a single photo's size (5 MiB).
	MaxPhotoBytes = 5 * 1024 * 1024
)

// Photo references an image attached to a listing. Bytes stay on disk at
// Path until upload; StorageKey is set once the photo has been uploaded.
type Photo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	MIMEType   string `json:"mime_type"`
	StorageKey string `json:"storage_key,omitempty"`
}

// Location is the pickup address and contact details for a listing.
type Location struct {
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
}

// FormState is the single source of truth for a listing-in-progress.
// It is owned by exactly one wizard session and mutated only through the
// wizard engine's typed setters.
type FormState struct {
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Category            Category        `json:"category"`
	Quantity            string          `json:"quantity"`
	Unit                Unit            `json:"unit"`
	Photos              []Photo         `json:"photos"`
	ExpirationDate      string          `json:"expiration_date"`
	BestByDate          string          `json:"best_by_date"`
	Location            Location        `json:"location"`
	PickupSlots         []PickupSlot    `json:"pickup_slots"`
	SpecialInstructions string          `json:"special_instructions"`
	SafetyChecklist     []SafetyItem    `json:"safety_checklist"`
	Certifications      []Certification `json:"certifications"`
}

// NewFormState returns the documented defaults for every field: all empty
// except the unit, which starts at servings.
func NewFormState() FormState {
	return FormState{Unit: UnitServings}
}

// HasSafetyItem reports whether the checklist contains the given item.
func (f FormState) HasSafetyItem(item SafetyItem) bool {
	for _, v := range f.SafetyChecklist {
		if v == item {
			return true
		}
	}
	return false
}

// HasPickupSlot reports whether the given slot is selected.
func (f FormState) HasPickupSlot(slot PickupSlot) bool {
	for _, v := range f.PickupSlots {
		if v == slot {
			return true
		}
	}
	return false
}

// HasCertification reports whether the given certification is attached.
func (f FormState) HasCertification(c Certification) bool {
	for _, v := range f.Certifications {
		if v == c {
			return true
		}
	}
	return false
}

// ExpirationTime parses the expiration date. ok is false when the field
// is empty or not a valid calendar date.
func (f FormState) ExpirationTime() (t time.Time, ok bool) {
	if f.ExpirationDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, f.ExpirationDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

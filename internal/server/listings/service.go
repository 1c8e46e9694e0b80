package listings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Sentinel errors for listing validation and moderation.
var (
	ErrValidation      = errors.New("listing validation failed")
	ErrUnknownAction   = errors.New("unknown moderation action")
	ErrNotAvailable    = errors.New("listing is not available")
	ErrNotListingOwner = errors.New("not the listing owner")
)

// maxExpirationDays bounds how far out an expiration date may lie.
const maxExpirationDays = 365

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create validates and persists a new listing for donorID. The same rules
// the client wizard enforces per step are re-checked here; the server is
// the authority.
func (s *Service) Create(ctx context.Context, donorID string, l *Listing) (*Listing, error) {
	if err := s.validate(l); err != nil {
		return nil, err
	}

	l.DonorID = donorID
	l.Status = StatusAvailable
	if l.RequestDate.IsZero() {
		l.RequestDate = s.now()
	}

	return s.repo.Create(ctx, l)
}

func (s *Service) validate(l *Listing) error {
	if !contains(Categories, l.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, l.Category)
	}
	q, err := strconv.ParseFloat(l.Quantity, 64)
	if err != nil || q <= 0 {
		return fmt.Errorf("%w: quantity must be a number greater than zero", ErrValidation)
	}
	if !contains(Units, l.Unit) {
		return fmt.Errorf("%w: unknown unit %q", ErrValidation, l.Unit)
	}

	exp, err := time.Parse(dateLayout, l.ExpirationDate)
	if err != nil {
		return fmt.Errorf("%w: expiration date must be a calendar date", ErrValidation)
	}
	// Past dates are accepted (the client warns); far-future dates are not.
	if exp.After(s.now().AddDate(0, 0, maxExpirationDays)) {
		return fmt.Errorf("%w: expiration date is more than a year away", ErrValidation)
	}

	if l.Location.Address == "" || l.Location.City == "" || l.Location.State == "" {
		return fmt.Errorf("%w: pickup address, city and state are required", ErrValidation)
	}
	if len(l.PickupSlots) == 0 {
		return fmt.Errorf("%w: at least one pickup time slot is required", ErrValidation)
	}
	for _, slot := range l.PickupSlots {
		if !contains(PickupSlots, slot) {
			return fmt.Errorf("%w: unknown pickup slot %q", ErrValidation, slot)
		}
	}
	for _, item := range RequiredSafetyItems {
		if !contains(l.SafetyChecklist, item) {
			return fmt.Errorf("%w: safety item %q must be acknowledged", ErrValidation, item)
		}
	}
	return nil
}

// List returns available listings, optionally filtered by category.
func (s *Service) List(ctx context.Context, category string) ([]*Listing, error) {
	if category != "" && !contains(Categories, category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	return s.repo.Select(ctx, category, StatusAvailable)
}

// Get returns one listing by id.
func (s *Service) Get(ctx context.Context, id string) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// ForDonor returns all of a donor's listings regardless of status.
func (s *Service) ForDonor(ctx context.Context, donorID string) ([]*Listing, error) {
	return s.repo.SelectByDonor(ctx, donorID)
}

// Claim marks an available listing as claimed. Used when a pickup request
// is approved.
func (s *Service) Claim(ctx context.Context, id string) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l.Status != StatusAvailable {
		return ErrNotAvailable
	}
	return s.repo.UpdateStatus(ctx, id, StatusClaimed)
}

// Release returns a claimed listing to the available pool.
func (s *Service) Release(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusAvailable)
}

// Complete marks a listing as handed over.
func (s *Service) Complete(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusCompleted)
}

// Moderate applies an admin action to a listing: flag, remove or restore.
func (s *Service) Moderate(ctx context.Context, id, action string) error {
	var status string
	switch action {
	case "flag":
		status = StatusFlagged
	case "remove":
		status = StatusRemoved
	case "restore":
		status = StatusAvailable
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// CountByStatus returns the number of listings per status.
func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

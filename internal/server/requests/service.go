package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/server/listings"
)

var (
	ErrOwnListing        = errors.New("donors cannot request their own listing")
	ErrSlotNotOffered    = errors.New("pickup slot is not offered by this listing")
	ErrBadTransition     = errors.New("request cannot change to that status")
	ErrNotListingOwner   = errors.New("only the listing's donor can resolve the request")
	ErrListingClaimed    = errors.New("listing is no longer available")
	ErrUnknownResolution = errors.New("unknown resolution action")
)

type Service struct {
	repo     Repository
	listings *listings.Service
}

func NewService(repo Repository, listingService *listings.Service) *Service {
	return &Service{repo: repo, listings: listingService}
}

// Create files a pickup request for a listing. The listing must be
// available, the slot must be one the donor offered, and donors cannot
// request their own food.
func (s *Service) Create(ctx context.Context, recipientID, listingID, slot, note string) (*PickupRequest, error) {

	l, err := s.listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.DonorID == recipientID {
		return nil, ErrOwnListing
	}
	if l.Status != listings.StatusAvailable {
		return nil, ErrListingClaimed
	}

	offered := false
	for _, offeredSlot := range l.PickupSlots {
		if offeredSlot == slot {
			offered = true
			break
		}
	}
	if !offered {
		return nil, ErrSlotNotOffered
	}

	req := &PickupRequest{
		ListingID:   listingID,
		RecipientID: recipientID,
		Slot:        slot,
		Note:        note,
		Status:      StatusPending,
	}
	return s.repo.Create(ctx, req)
}

// ForUser returns requests relevant to userID: requests they sent as a
// recipient plus requests received on their own listings as a donor.
func (s *Service) ForUser(ctx context.Context, userID string) ([]*PickupRequest, error) {

	sent, err := s.repo.SelectByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	own, err := s.listings.ForDonor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(own) == 0 {
		return sent, nil
	}

	ids := make([]string, len(own))
	for i, l := range own {
		ids[i] = l.ID
	}
	received, err := s.repo.SelectByListings(ctx, ids)
	if err != nil {
		return nil, err
	}

	return append(sent, received...), nil
}

// Resolve applies a donor's decision to a request.
//
// Transitions: pending -> approved (the listing is claimed), pending ->
// declined, approved -> completed (the listing is completed). Approving a
// request on a listing that is no longer available fails.
func (s *Service) Resolve(ctx context.Context, donorID, requestID, action string) error {

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	l, err := s.listings.Get(ctx, req.ListingID)
	if err != nil {
		return err
	}
	if l.DonorID != donorID {
		return ErrNotListingOwner
	}

	switch action {
	case "approve":
		if req.Status != StatusPending {
			return fmt.Errorf("%w: %s -> approved", ErrBadTransition, req.Status)
		}
		if err := s.listings.Claim(ctx, req.ListingID); err != nil {
			if errors.Is(err, listings.ErrNotAvailable) {
				return ErrListingClaimed
			}
			return err
		}
		return s.repo.UpdateStatus(ctx, requestID, StatusApproved)

	case "decline":
		if req.Status != StatusPending {
			return fmt.Errorf("%w: %s -> declined", ErrBadTransition, req.Status)
		}
		return s.repo.UpdateStatus(ctx, requestID, StatusDeclined)

	case "complete":
		if req.Status != StatusApproved {
			return fmt.Errorf("%w: %s -> completed", ErrBadTransition, req.Status)
		}
		if err := s.listings.Complete(ctx, req.ListingID); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, requestID, StatusCompleted)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownResolution, action)
	}
}

// CountByStatus returns the number of requests per status.
func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return map[string]int{}, nil
		}
		return nil, err
	}
	return counts, nil
}

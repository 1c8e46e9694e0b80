package requests

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/server/listings"
)

type fakeRequestRepo struct {
	byID   map[string]*PickupRequest
	nextID int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byID: map[string]*PickupRequest{}, nextID: 1}
}

func (f *fakeRequestRepo) Create(ctx context.Context, r *PickupRequest) (*PickupRequest, error) {
	r.ID = "R" + strconv.Itoa(f.nextID)
	f.nextID++
	r.CreatedAt = time.Now()
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (*PickupRequest, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRequestRepo) SelectByRecipient(ctx context.Context, recipientID string) ([]*PickupRequest, error) {
	var out []*PickupRequest
	for _, r := range f.byID {
		if r.RecipientID == recipientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) SelectByListings(ctx context.Context, listingIDs []string) ([]*PickupRequest, error) {
	var out []*PickupRequest
	for _, r := range f.byID {
		for _, id := range listingIDs {
			if r.ListingID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeRequestRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, r := range f.byID {
		out[r.Status]++
	}
	return out, nil
}

// fakeListingRepo reuses the listings package fake via its exported surface.
type fakeListingRepo struct {
	byID   map[string]*listings.Listing
	nextID int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{byID: map[string]*listings.Listing{}, nextID: 1}
}

func (f *fakeListingRepo) Create(ctx context.Context, l *listings.Listing) (*listings.Listing, error) {
	l.ID = "L" + strconv.Itoa(f.nextID)
	f.nextID++
	f.byID[l.ID] = l
	return l, nil
}

func (f *fakeListingRepo) GetByID(ctx context.Context, id string) (*listings.Listing, error) {
	if l, ok := f.byID[id]; ok {
		return l, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeListingRepo) Select(ctx context.Context, category, status string) ([]*listings.Listing, error) {
	return nil, nil
}

func (f *fakeListingRepo) SelectByDonor(ctx context.Context, donorID string) ([]*listings.Listing, error) {
	var out []*listings.Listing
	for _, l := range f.byID {
		if l.DonorID == donorID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	l, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	l.Status = status
	return nil
}

func (f *fakeListingRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

func fixture(t *testing.T) (*Service, *fakeRequestRepo, *fakeListingRepo, string) {
	t.Helper()
	lrepo := newFakeListingRepo()
	l, err := lrepo.Create(context.Background(), &listings.Listing{
		DonorID:     "donor-1",
		Status:      listings.StatusAvailable,
		PickupSlots: []string{"morning", "evening"},
	})
	require.NoError(t, err)

	rrepo := newFakeRequestRepo()
	svc := NewService(rrepo, listings.NewService(lrepo))
	return svc, rrepo, lrepo, l.ID
}

func TestCreate_Checks(t *testing.T) {
	svc, _, _, listingID := fixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "donor-1", listingID, "morning", "")
	assert.ErrorIs(t, err, ErrOwnListing)

	_, err = svc.Create(ctx, "rec-1", listingID, "midnight", "")
	assert.ErrorIs(t, err, ErrSlotNotOffered)

	_, err = svc.Create(ctx, "rec-1", "missing", "morning", "")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	req, err := svc.Create(ctx, "rec-1", listingID, "morning", "after 6 works best")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
}

func TestResolve_ApproveClaimsListing(t *testing.T) {
	svc, _, lrepo, listingID := fixture(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, "rec-1", listingID, "morning", "")
	require.NoError(t, err)

	// only the donor may resolve
	assert.ErrorIs(t, svc.Resolve(ctx, "rec-1", req.ID, "approve"), ErrNotListingOwner)

	require.NoError(t, svc.Resolve(ctx, "donor-1", req.ID, "approve"))
	assert.Equal(t, listings.StatusClaimed, lrepo.byID[listingID].Status)

	// approve is not repeatable
	assert.ErrorIs(t, svc.Resolve(ctx, "donor-1", req.ID, "approve"), ErrBadTransition)

	// handover
	require.NoError(t, svc.Resolve(ctx, "donor-1", req.ID, "complete"))
	assert.Equal(t, listings.StatusCompleted, lrepo.byID[listingID].Status)
}

func TestResolve_ApproveRace(t *testing.T) {
	svc, _, _, listingID := fixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "rec-1", listingID, "morning", "")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "rec-2", listingID, "evening", "")
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(ctx, "donor-1", first.ID, "approve"))
	assert.ErrorIs(t, svc.Resolve(ctx, "donor-1", second.ID, "approve"), ErrListingClaimed)

	// the losing request can still be declined
	require.NoError(t, svc.Resolve(ctx, "donor-1", second.ID, "decline"))
}

func TestResolve_DeclineAndComplete(t *testing.T) {
	svc, _, _, listingID := fixture(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, "rec-1", listingID, "morning", "")
	require.NoError(t, err)

	// cannot complete a pending request
	assert.ErrorIs(t, svc.Resolve(ctx, "donor-1", req.ID, "complete"), ErrBadTransition)

	require.NoError(t, svc.Resolve(ctx, "donor-1", req.ID, "decline"))
	assert.ErrorIs(t, svc.Resolve(ctx, "donor-1", req.ID, "decline"), ErrBadTransition)

	assert.ErrorIs(t, svc.Resolve(ctx, "donor-1", req.ID, "nuke"), ErrUnknownResolution)
}

func TestForUser_MergesSentAndReceived(t *testing.T) {
	svc, _, lrepo, listingID := fixture(t)
	ctx := context.Background()

	// rec-1 sends a request on donor-1's listing
	_, err := svc.Create(ctx, "rec-1", listingID, "morning", "")
	require.NoError(t, err)

	// rec-1 also owns a listing that donor-1 requests
	own, err := lrepo.Create(ctx, &listings.Listing{
		DonorID:     "rec-1",
		Status:      listings.StatusAvailable,
		PickupSlots: []string{"flexible"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "donor-1", own.ID, "flexible", "")
	require.NoError(t, err)

	got, err := svc.ForUser(ctx, "rec-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

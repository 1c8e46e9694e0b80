package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/foodshare/foodshare/internal/client/api"
	"github.com/foodshare/foodshare/internal/client/models"
	"github.com/foodshare/foodshare/internal/client/session"
)

// Browse lists available listings, optionally filtered by category. On
// success the results refresh the local cache; when the server is
// unreachable the cached listings are shown instead.
func (a *App) Browse(ctx context.Context, category string) error {
	if category != "" && !models.Category(category).Valid() {
		printlnFn("Unknown category. One of:", categoryNames())
		return nil
	}

	listings, err := a.api.Listings(ctx, category)
	if err != nil {
		if !api.IsUnavailable(err) {
			a.log.Error(ctx, "listing fetch failed", "error", err)
			return err
		}
		a.setMode(ModeOffline)
		cached, cacheErr := a.cache.GetAll(ctx)
		if cacheErr != nil {
			return cacheErr
		}
		printlnFn("Offline: showing cached listings.")
		listings = filterByCategory(cached, category)
	} else {
		a.setMode(ModeOnline)
		for i := range listings {
			if err := a.cache.Upsert(ctx, &listings[i]); err != nil {
				a.log.Warn(ctx, "cache update failed", "error", err)
				break
			}
		}
	}

	if len(listings) == 0 {
		printlnFn("No listings found.")
		return nil
	}
	for _, l := range listings {
		printListingRow(l)
	}
	return nil
}

func filterByCategory(listings []models.Listing, category string) []models.Listing {
	if category == "" {
		return listings
	}
	out := listings[:0]
	for _, l := range listings {
		if string(l.Category) == category {
			out = append(out, l)
		}
	}
	return out
}

func categoryNames() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func printListingRow(l models.Listing) {
	printlnFn(fmt.Sprintf("%s  [%s] %s (%s %s) expires %s, %s",
		l.ID, l.Category, l.Title, l.Quantity, l.Unit, l.ExpirationDate, l.Status))
}

// Show prints one listing in full, falling back to the cache when offline.
func (a *App) Show(ctx context.Context, id string) error {
	l, err := a.api.Listing(ctx, id)
	if err != nil {
		if !api.IsUnavailable(err) {
			a.log.Error(ctx, "listing fetch failed", "error", err)
			return err
		}
		a.setMode(ModeOffline)
		l, err = a.cache.GetByID(ctx, id)
		if err != nil {
			return err
		}
		printlnFn("Offline: showing cached copy.")
	}

	printlnFn(fmt.Sprintf("%s (%s)", l.Title, l.Status))
	printlnFn(fmt.Sprintf("  Category:  %s", l.Category))
	printlnFn(fmt.Sprintf("  Quantity:  %s %s", l.Quantity, l.Unit))
	printlnFn(fmt.Sprintf("  Expires:   %s", l.ExpirationDate))
	printlnFn(fmt.Sprintf("  Pickup at: %s, %s", l.Location.Address, l.Location.City))
	slots := make([]string, len(l.PickupSlots))
	for i, s := range l.PickupSlots {
		slots[i] = s.Label()
	}
	printlnFn(fmt.Sprintf("  Slots:     %s", strings.Join(slots, ", ")))
	if l.Description != "" {
		printlnFn(fmt.Sprintf("  About:     %s", l.Description))
	}
	if l.SpecialInstructions != "" {
		printlnFn(fmt.Sprintf("  Notes:     %s", l.SpecialInstructions))
	}
	return nil
}

// MyListings shows the donor's own listings with their current status.
func (a *App) MyListings(ctx context.Context) error {
	listings, err := a.api.MyListings(ctx)
	if err != nil {
		a.log.Error(ctx, "listing fetch failed", "error", err)
		return err
	}
	if len(listings) == 0 {
		printlnFn("You have no listings yet. Use 'new' to create one.")
		return nil
	}
	for _, l := range listings {
		printListingRow(l)
	}
	return nil
}

// Request asks for a pickup on a listing: the user picks a slot from the
// listing's offered ones and may attach a note.
func (a *App) Request(ctx context.Context, listingID string) error {
	if role := a.currentRole(); role != string(session.RoleRecipient) {
		printlnFn("Only recipients can request pickups. Use 'role recipient' to switch.")
		return nil
	}

	l, err := a.api.Listing(ctx, listingID)
	if err != nil {
		a.log.Error(ctx, "listing fetch failed", "error", err)
		return err
	}
	if len(l.PickupSlots) == 0 {
		printlnFn("This listing offers no pickup slots.")
		return nil
	}

	options := make([]string, len(l.PickupSlots))
	for i, s := range l.PickupSlots {
		options[i] = string(s)
	}
	slot, err := getChoice(a.reader, "Pickup slot:", options, options[0], os.Stdout)
	if err != nil {
		return err
	}

	note, err := getSimpleText(a.reader, "Note to the donor (optional)", os.Stdout)
	if err != nil {
		return err
	}

	req, err := a.api.RequestPickup(ctx, listingID, slot, note)
	if err != nil {
		a.log.Error(ctx, "pickup request failed", "error", err)
		return err
	}
	printlnFn(fmt.Sprintf("Request sent (%s), status: %s", req.ID, req.Status))
	return nil
}

// Requests lists pickup requests involving the current user.
func (a *App) Requests(ctx context.Context) error {
	reqs, err := a.api.MyRequests(ctx)
	if err != nil {
		a.log.Error(ctx, "request fetch failed", "error", err)
		return err
	}
	if len(reqs) == 0 {
		printlnFn("No pickup requests.")
		return nil
	}
	for _, r := range reqs {
		line := fmt.Sprintf("%s  listing %s, slot %s, %s", r.ID, r.ListingID, r.Slot, r.Status)
		if r.Note != "" {
			line += fmt.Sprintf(" (%s)", r.Note)
		}
		printlnFn(line)
	}
	return nil
}

// Resolve approves, declines or completes a pickup request.
func (a *App) Resolve(ctx context.Context, id, action string) error {
	switch action {
	case "approve", "decline", "complete":
	default:
		printlnFn("Action must be approve, decline or complete")
		return nil
	}
	if err := a.api.ResolveRequest(ctx, id, action); err != nil {
		a.log.Error(ctx, "request resolution failed", "error", err)
		return err
	}
	printlnFn(fmt.Sprintf("Request %s: %sd", id, action))
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/foodshare/foodshare/internal/client/session"
)

func (a *App) requireAdmin() bool {
	if a.currentRole() != string(session.RoleAdmin) {
		printlnFn("Admin access required.")
		return false
	}
	return true
}

// Stats prints platform-wide statistics.
func (a *App) Stats(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}
	s, err := a.api.Stats(ctx)
	if err != nil {
		a.log.Error(ctx, "stats fetch failed", "error", err)
		return err
	}
	printlnFn(fmt.Sprintf("Users:     %d (%d donors, %d recipients)", s.Users, s.Donors, s.Recipients))
	printlnFn(fmt.Sprintf("Listings:  %d (%d available, %d flagged)", s.Listings, s.AvailableListings, s.FlaggedListings))
	printlnFn(fmt.Sprintf("Requests:  %d pending", s.PendingRequests))
	return nil
}

// Users lists registered accounts.
func (a *App) Users(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}
	users, err := a.api.Users(ctx)
	if err != nil {
		a.log.Error(ctx, "user fetch failed", "error", err)
		return err
	}
	for _, u := range users {
		printlnFn(fmt.Sprintf("%s  %s (%s) joined %s",
			u.ID, u.Email, u.Role, u.CreatedAt.Format("2006-01-02")))
	}
	return nil
}

// Moderate flags, removes or restores a listing.
func (a *App) Moderate(ctx context.Context, listingID, action string) error {
	if !a.requireAdmin() {
		return nil
	}
	switch action {
	case "flag", "remove", "restore":
	default:
		printlnFn("Action must be flag, remove or restore")
		return nil
	}
	if err := a.api.Moderate(ctx, listingID, action); err != nil {
		a.log.Error(ctx, "moderation failed", "error", err)
		return err
	}
	printlnFn(fmt.Sprintf("Listing %s: %s applied", listingID, action))
	return nil
}

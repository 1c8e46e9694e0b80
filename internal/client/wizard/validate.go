package wizard

import (
	"strconv"
	"time"

	"github.com/foodshare/foodshare/internal/client/models"
)

// Field keys used in StepResult.FieldErrors.
const (
	FieldCategory    = "category"
	FieldQuantity    = "quantity"
	FieldUnit        = "unit"
	FieldExpiration  = "expiration_date"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldState       = "state"
	FieldPickupSlots = "pickup_slots"
	FieldSafety      = "safety_checklist"
)

// MaxExpirationDays bounds how far out an expiration date may lie.
const MaxExpirationDays = 365

// StepResult is the outcome of validating one step. Warnings do not block
// forward navigation; field errors do.
type StepResult struct {
	Valid       bool
	FieldErrors map[string]string
	Warnings    []string
}

func passed() StepResult {
	return StepResult{Valid: true}
}

// validateStep evaluates the rules for one step against the form. It is
// deterministic for a fixed now and has no side effects.
func validateStep(step Step, f models.FormState, now time.Time) StepResult {
	switch step {
	case StepCategory:
		if !f.Category.Valid() {
			return failed(FieldCategory, "select a food category")
		}
		return passed()

	case StepQuantity:
		errs := map[string]string{}
		q, err := strconv.ParseFloat(f.Quantity, 64)
		if f.Quantity == "" || err != nil || q <= 0 {
			errs[FieldQuantity] = "quantity must be a number greater than zero"
		}
		if !f.Unit.Valid() {
			errs[FieldUnit] = "select a unit"
		}
		if len(errs) > 0 {
			return StepResult{FieldErrors: errs}
		}
		return passed()

	case StepPhotos:
		// Photos are optional; per-photo constraints are enforced when a
		// photo is attached.
		return passed()

	case StepExpiration:
		exp, ok := f.ExpirationTime()
		if !ok {
			return failed(FieldExpiration, "set an expiration date")
		}
		today := truncateToDay(now)
		if exp.After(today.AddDate(0, 0, MaxExpirationDays)) {
			return failed(FieldExpiration, "expiration date is more than a year away")
		}
		r := passed()
		if exp.Before(today) {
			r.Warnings = append(r.Warnings, "expiration date is in the past")
		}
		return r

	case StepPickup:
		errs := map[string]string{}
		if f.Location.Address == "" {
			errs[FieldAddress] = "address is required"
		}
		if f.Location.City == "" {
			errs[FieldCity] = "city is required"
		}
		if f.Location.State == "" {
			errs[FieldState] = "state is required"
		}
		if len(f.PickupSlots) == 0 {
			errs[FieldPickupSlots] = "select at least one pickup time slot"
		}
		if len(errs) > 0 {
			return StepResult{FieldErrors: errs}
		}
		return passed()

	case StepSafety:
		for _, item := range models.RequiredSafetyItems {
			if !f.HasSafetyItem(item) {
				return failed(FieldSafety, "all required safety checks must be acknowledged")
			}
		}
		return passed()

	case StepPreview:
		return passed()

	default:
		return StepResult{FieldErrors: map[string]string{}}
	}
}

func failed(field, msg string) StepResult {
	return StepResult{FieldErrors: map[string]string{field: msg}}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

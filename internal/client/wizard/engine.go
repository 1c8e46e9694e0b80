package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/foodshare/foodshare/internal/client/models"
	"github.com/foodshare/foodshare/internal/client/storage"
	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/logging"
	"github.com/google/uuid"
)

// DefaultSubmitTimeout is the client-side deadline applied to one
// submission attempt.
const DefaultSubmitTimeout = 15 * time.Second

// Submitter publishes a completed listing. The engine passes along the
// derived request date; implementations must honor ctx cancellation.
type Submitter interface {
	SubmitListing(ctx context.Context, form models.FormState, requestDate time.Time) (string, error)
}

// Engine drives one listing-creation session. All navigation and field
// mutation goes through it; validation failures are returned as data, never
// as errors.
type Engine struct {
	mu        sync.Mutex
	store     storage.KVStore
	submitter Submitter
	log       logging.Logger

	now           func() time.Time
	submitTimeout time.Duration

	form        models.FormState
	step        Step
	phase       Phase
	draftLoaded bool
	fieldErrors map[string]string
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithClock replaces the wall clock, fixing "today" for validation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSubmitTimeout overrides the per-attempt submission deadline.
func WithSubmitTimeout(d time.Duration) Option {
	return func(e *Engine) { e.submitTimeout = d }
}

func New(store storage.KVStore, submitter Submitter, log logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		submitter:     submitter,
		log:           log.With("component", "wizard"),
		now:           time.Now,
		submitTimeout: DefaultSubmitTimeout,
		form:          models.NewFormState(),
		fieldErrors:   map[string]string{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize restores a persisted draft if one exists and deserializes
// validly; otherwise the session starts from the documented defaults.
// A missing or corrupt draft is treated as "no draft"; Initialize never
// fails. When a draft is restored the session resumes at the first step
// whose validation fails, so the donor keeps their place.
func (e *Engine) Initialize(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.form = models.NewFormState()
	e.step = StepCategory
	e.phase = PhaseEditing
	e.draftLoaded = false
	e.fieldErrors = map[string]string{}

	blob, err := e.store.Get(ctx, models.DraftKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			e.log.Warn(ctx, "draft store unavailable, starting fresh", "error", err)
		}
		return
	}

	form, ok := models.DecodeDraft(blob)
	if !ok {
		e.log.Warn(ctx, "stored draft is corrupt, starting fresh")
		return
	}

	e.form = form
	e.draftLoaded = true
	e.step = e.firstIncompleteStep()
	e.log.Info(ctx, "draft restored", "resume_step", e.step.Title())
}

func (e *Engine) firstIncompleteStep() Step {
	now := e.now()
	for _, s := range Steps[:len(Steps)-1] {
		if r := validateStep(s, e.form, now); !r.Valid {
			return s
		}
	}
	return StepPreview
}

// Form returns a snapshot of the current form state.
func (e *Engine) Form() models.FormState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// Step returns the zero-based index of the current step.
func (e *Engine) Step() Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

// Phase returns the session's lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// DraftLoaded reports whether Initialize restored a persisted draft.
func (e *Engine) DraftLoaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draftLoaded
}

// FieldError returns the cached validation message for a field, if any.
func (e *Engine) FieldError(field string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fieldErrors[field]
}

func (e *Engine) setField(clear []string, mutate func(*models.FormState)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	mutate(&e.form)
	for _, f := range clear {
		delete(e.fieldErrors, f)
	}
}

// SetTitle updates the listing title.
func (e *Engine) SetTitle(v string) {
	e.setField(nil, func(f *models.FormState) { f.Title = strings.TrimSpace(v) })
}

// SetDescription updates the free-text description.
func (e *Engine) SetDescription(v string) {
	e.setField(nil, func(f *models.FormState) { f.Description = v })
}

// SetCategory selects the food category. Choosing a category with no
// expiration date set prefills one from the category's shelf-life default.
func (e *Engine) SetCategory(c models.Category) {
	e.setField([]string{FieldCategory}, func(f *models.FormState) {
		f.Category = c
		if f.ExpirationDate == "" {
			if days := c.SuggestedShelfLifeDays(); days > 0 {
				f.ExpirationDate = e.now().AddDate(0, 0, days).Format(models.DateLayout)
			}
		}
	})
}

// SetQuantity updates the quantity estimate (kept as entered, validated at
// the gate).
func (e *Engine) SetQuantity(v string) {
	e.setField([]string{FieldQuantity}, func(f *models.FormState) { f.Quantity = strings.TrimSpace(v) })
}

// SetUnit selects the measurement unit.
func (e *Engine) SetUnit(u models.Unit) {
	e.setField([]string{FieldUnit}, func(f *models.FormState) { f.Unit = u })
}

// AddPhoto attaches a photo reference. The per-photo invariants are
// enforced here, at the point of entry: at most models.MaxPhotos photos,
// each an image no larger than models.MaxPhotoBytes.
func (e *Engine) AddPhoto(p models.Photo) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.form.Photos) >= models.MaxPhotos {
		return fmt.Errorf("at most %d photos per listing", models.MaxPhotos)
	}
	if p.Size > models.MaxPhotoBytes {
		return fmt.Errorf("photo %q exceeds the 5MB limit", p.Name)
	}
	if !strings.HasPrefix(p.MIMEType, "image/") {
		return fmt.Errorf("photo %q is not an image", p.Name)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	e.form.Photos = append(e.form.Photos, p)
	return nil
}

// RemovePhoto detaches a photo by id. Unknown ids are ignored.
func (e *Engine) RemovePhoto(id string) {
	e.setField(nil, func(f *models.FormState) {
		kept := f.Photos[:0]
		for _, p := range f.Photos {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		f.Photos = kept
	})
}

// SetExpirationDate updates the expiration date (expected in
// models.DateLayout form).
func (e *Engine) SetExpirationDate(v string) {
	e.setField([]string{FieldExpiration}, func(f *models.FormState) { f.ExpirationDate = strings.TrimSpace(v) })
}

// SetBestByDate updates the optional best-by date.
func (e *Engine) SetBestByDate(v string) {
	e.setField(nil, func(f *models.FormState) { f.BestByDate = strings.TrimSpace(v) })
}

// SetLocation replaces the pickup address record.
func (e *Engine) SetLocation(loc models.Location) {
	e.setField([]string{FieldAddress, FieldCity, FieldState}, func(f *models.FormState) { f.Location = loc })
}

// TogglePickupSlot adds or removes a pickup time slot.
func (e *Engine) TogglePickupSlot(slot models.PickupSlot) {
	e.setField([]string{FieldPickupSlots}, func(f *models.FormState) {
		for i, v := range f.PickupSlots {
			if v == slot {
				f.PickupSlots = append(f.PickupSlots[:i], f.PickupSlots[i+1:]...)
				return
			}
		}
		f.PickupSlots = append(f.PickupSlots, slot)
	})
}

// SetSpecialInstructions updates the pickup instructions.
func (e *Engine) SetSpecialInstructions(v string) {
	e.setField(nil, func(f *models.FormState) { f.SpecialInstructions = v })
}

// ToggleSafetyItem acknowledges or retracts one safety checklist item.
func (e *Engine) ToggleSafetyItem(item models.SafetyItem) {
	e.setField([]string{FieldSafety}, func(f *models.FormState) {
		for i, v := range f.SafetyChecklist {
			if v == item {
				f.SafetyChecklist = append(f.SafetyChecklist[:i], f.SafetyChecklist[i+1:]...)
				return
			}
		}
		f.SafetyChecklist = append(f.SafetyChecklist, item)
	})
}

// ToggleCertification attaches or detaches a certification.
func (e *Engine) ToggleCertification(c models.Certification) {
	e.setField(nil, func(f *models.FormState) {
		for i, v := range f.Certifications {
			if v == c {
				f.Certifications = append(f.Certifications[:i], f.Certifications[i+1:]...)
				return
			}
		}
		f.Certifications = append(f.Certifications, c)
	})
}

// ValidateStep evaluates one step's rules against the current form.
// Deterministic and side-effect free; callable repeatedly.
func (e *Engine) ValidateStep(s Step) StepResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return validateStep(s, e.form, e.now())
}

// Next advances to the following step iff the current step validates.
// On failure the step index is unchanged and the result carries the field
// errors for the caller to surface.
func (e *Engine) Next() StepResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := validateStep(e.step, e.form, e.now())
	if !r.Valid {
		for k, v := range r.FieldErrors {
			e.fieldErrors[k] = v
		}
		return r
	}
	if e.step < StepPreview {
		e.step++
	}
	return r
}

// Previous moves one step back. At the first step it is a no-op; going
// backward never requires validation.
func (e *Engine) Previous() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.step > 0 {
		e.step--
	}
}

// JumpTo moves directly to a previously visited step. Jumping ahead of the
// current step is refused with ErrInvalidTransition, so forward progress
// always passes each gate.
func (e *Engine) JumpTo(target Step) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if target < 0 || target > e.step {
		return ErrInvalidTransition
	}
	e.step = target
	return nil
}

// SaveDraft persists the form state under the fixed draft key, overwriting
// any prior draft. Drafts may be incomplete; no validation is performed.
// Storage unavailability degrades to a logged no-op so listing creation
// stays usable without persistence.
func (e *Engine) SaveDraft(ctx context.Context) {
	e.mu.Lock()
	form := e.form
	e.mu.Unlock()

	blob, err := models.EncodeDraft(form)
	if err != nil {
		e.log.Error(ctx, "draft encode failed", "error", err)
		return
	}
	if err := e.store.Set(ctx, models.DraftKey, blob); err != nil {
		e.log.Warn(ctx, "draft save skipped, storage unavailable", "error", err)
	}
}

// ClearDraft removes the persisted draft.
func (e *Engine) ClearDraft(ctx context.Context) {
	if err := e.store.Delete(ctx, models.DraftKey); err != nil {
		e.log.Warn(ctx, "draft clear skipped, storage unavailable", "error", err)
	}
}

// Submit is only available from the preview step; calls from any earlier
// step fail with ErrInvalidTransition. It re-validates the safety step (the
// form may have been edited after it was passed), then publishes the listing through the submission
// collaborator under the configured deadline. At most one submission may be
// in flight; concurrent calls fail with ErrSubmissionInProgress. On success
// the draft is cleared and the listing id returned; on failure the form
// state is retained so the donor can retry.
func (e *Engine) Submit(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.phase == PhaseSubmitting {
		e.mu.Unlock()
		return "", ErrSubmissionInProgress
	}
	if e.step != StepPreview {
		e.mu.Unlock()
		return "", ErrInvalidTransition
	}
	form := e.form
	now := e.now()
	if r := validateStep(StepSafety, form, now); !r.Valid {
		e.mu.Unlock()
		return "", &ValidationBlockedError{Step: StepSafety, Result: r}
	}
	e.phase = PhaseSubmitting
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.submitTimeout)
	defer cancel()

	id, err := e.submitter.SubmitListing(ctx, form, now)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.phase = PhaseEditing
		return "", &SubmitError{Kind: classifySubmitErr(ctx, err), Err: err}
	}

	e.phase = PhaseSubmitted
	e.ClearDraft(context.WithoutCancel(ctx))
	return id, nil
}

func classifySubmitErr(ctx context.Context, err error) SubmitErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return SubmitTimeout
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return SubmitCanceled
	default:
		return SubmitNetworkOrServer
	}
}

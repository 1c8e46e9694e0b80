// Package wizard implements the multi-step listing-creation engine: step
// sequencing over a single form state, per-step validation gating, draft
// save/restore through the local key/value store, and final submission to
// the server with an at-most-one-in-flight guarantee.
package wizard

// Step indexes one stage of the listing-creation flow.
type Step int

const (
	StepCategory Step = iota
	StepQuantity
	StepPhotos
	StepExpiration
	StepPickup
	StepSafety
	StepPreview

	stepCount
)

// StepCount is the number of wizard steps.
const StepCount = int(stepCount)

// Steps lists every step in order.
var Steps = []Step{
	StepCategory, StepQuantity, StepPhotos, StepExpiration,
	StepPickup, StepSafety, StepPreview,
}

func (s Step) Title() string {
	switch s {
	case StepCategory:
		return "Food Category"
	case StepQuantity:
		return "Quantity & Details"
	case StepPhotos:
		return "Photos"
	case StepExpiration:
		return "Expiration Date"
	case StepPickup:
		return "Pickup Details"
	case StepSafety:
		return "Safety Compliance"
	case StepPreview:
		return "Preview & Publish"
	default:
		return "Unknown"
	}
}

// Phase is the coarse lifecycle state of a wizard session beyond the step
// index: editing, a submission in flight, or done.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

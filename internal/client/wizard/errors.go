package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a jump targets a step ahead of
	// the current one. The UI should prevent this; the engine refuses it
	// regardless.
	ErrInvalidTransition = errors.New("invalid step transition")

	// ErrSubmissionInProgress is returned by Submit while another
	// submission is still in flight. Callers should disable the submit
	// control rather than retry.
	ErrSubmissionInProgress = errors.New("submission already in progress")
)

// ValidationBlockedError reports that a step's validation failed. It is
// recoverable and carries the per-field messages for the caller to render;
// the engine's step index is left unchanged.
type ValidationBlockedError struct {
	Step   Step
	Result StepResult
}

func (e *ValidationBlockedError) Error() string {
	return fmt.Sprintf("validation blocked at step %q", e.Step.Title())
}

// SubmitErrorKind classifies submission transport failures.
type SubmitErrorKind int

const (
	// SubmitNetworkOrServer covers connection and server-side failures.
	// Retryable; the form state is retained.
	SubmitNetworkOrServer SubmitErrorKind = iota
	// SubmitTimeout means the client-side deadline elapsed. Treated the
	// same as SubmitNetworkOrServer for recovery purposes.
	SubmitTimeout
	// SubmitCanceled means the caller canceled the submission.
	SubmitCanceled
)

func (k SubmitErrorKind) String() string {
	switch k {
	case SubmitNetworkOrServer:
		return "network or server error"
	case SubmitTimeout:
		return "timeout"
	case SubmitCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// SubmitError wraps a failed submission with its classification.
type SubmitError struct {
	Kind SubmitErrorKind
	Err  error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submission failed (%s): %v", e.Kind, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

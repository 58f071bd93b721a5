// Package workflow runs the two lifecycle flows a provider triggers from an
// open order: handoff verification and cancellation.
//
// A Workflow is bound to one order detail. The host drives it with explicit
// request/response messages (CodeRequest/CodeResponse and
// ConfirmRequest/ConfirmResponse), each carrying an id, so at most one prompt
// is outstanding per detail and a stale answer is rejected instead of being
// applied to a newer request. The only asynchronous step, confirming a
// submitted code, runs as a cancellable Task whose single TaskResult the host
// feeds back through Finish.
package workflow

import (
	"errors"
	"fmt"
	"time"
)

// Phase is the workflow's position in either flow.
type Phase int

const (
	Idle                 Phase = iota // Nothing outstanding
	AwaitingCode                      // Code prompt issued
	Validating                        // Code accepted, confirmation task running
	Confirmed                         // Handoff verified (terminal)
	AwaitingConfirmation              // Cancel confirmation prompt issued
	Cancelled                         // Order cancelled (terminal)
	Aborted                           // Detail closed underneath the workflow (terminal)
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case AwaitingCode:
		return "awaiting_code"
	case Validating:
		return "validating"
	case Confirmed:
		return "confirmed"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	case Cancelled:
		return "cancelled"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Terminal reports whether no flow can start from p.
func (p Phase) Terminal() bool {
	return p == Confirmed || p == Cancelled || p == Aborted
}

// Kind names a flow.
type Kind string

const (
	KindVerify Kind = "verify"
	KindCancel Kind = "cancel"
)

// Result is how a flow ended, as reported to the Recorder.
type Result string

const (
	ResultConfirmed Result = "confirmed"
	ResultCancelled Result = "cancelled"
	ResultDeclined  Result = "declined"
	ResultInvalid   Result = "invalid"
	ResultFailed    Result = "failed"
	ResultAborted   Result = "aborted"
)

// DefaultMinCodeLength is the shortest verification code accepted.
const DefaultMinCodeLength = 3

var (
	// ErrBusy is returned when a flow is started while another is outstanding.
	ErrBusy = errors.New("workflow busy")

	// ErrStaleResponse is returned for an answer that does not match the
	// outstanding request.
	ErrStaleResponse = errors.New("response does not match outstanding request")

	// ErrClosed is returned once the workflow reached a terminal phase.
	ErrClosed = errors.New("workflow closed")

	// ErrNotActionable is returned when the order is no longer claimed.
	ErrNotActionable = errors.New("order is not actionable")

	// ErrInvalidCode matches every *ValidationError.
	ErrInvalidCode = errors.New("invalid verification code")
)

// ValidationError reports a verification code that failed the shape check.
type ValidationError struct {
	Code string
	Min  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("verification code must be at least %d characters", e.Min)
}

// Is makes errors.Is(err, ErrInvalidCode) hold for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidCode
}

// CodeRequest asks the host to collect a verification code.
type CodeRequest struct {
	ID      string
	OrderID string
}

// CodeResponse answers a CodeRequest. Declined means the provider dismissed
// the prompt.
type CodeResponse struct {
	RequestID string
	Code      string
	Declined  bool
}

// ConfirmRequest asks the host for a yes/no answer.
type ConfirmRequest struct {
	ID      string
	OrderID string
	Message string
}

// ConfirmResponse answers a ConfirmRequest.
type ConfirmResponse struct {
	RequestID string
	Confirmed bool
}

// NoticeLevel classifies a notification for display.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notification is a one-way message for the provider.
type Notification struct {
	Level   NoticeLevel
	OrderID string
	Message string
}

// MutationKind is the lifecycle change a flow asks the claim store for.
type MutationKind string

const (
	MutationComplete MutationKind = "complete"
	MutationCancel   MutationKind = "cancel"
)

// MutationRequest is emitted exactly once per terminal transition.
type MutationRequest struct {
	ID          string
	Kind        MutationKind
	OrderID     string
	Code        string // verification code, complete only
	RequestedAt time.Time
}

// Outcome tells the host what to do after a flow step.
type Outcome struct {
	CloseDetail  bool
	Notification *Notification
	Mutation     *MutationRequest
	MutationErr  error // sink failure; the transition itself stands
}

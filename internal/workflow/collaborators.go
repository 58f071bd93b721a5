package workflow

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
)

// Notifier displays notifications. Calls must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// MutationSink receives lifecycle changes for the claim store.
type MutationSink interface {
	RequestMutation(ctx context.Context, req MutationRequest) error
}

// MutationSinkFunc adapts a function to MutationSink.
type MutationSinkFunc func(context.Context, MutationRequest) error

func (f MutationSinkFunc) RequestMutation(ctx context.Context, req MutationRequest) error {
	return f(ctx, req)
}

// DateLayout formats completion dates written back to claim records.
const DateLayout = "2006-01-02"

// StoreSink applies mutation requests to a claims.Store.
type StoreSink struct {
	Store claims.Store
}

func (s StoreSink) RequestMutation(ctx context.Context, req MutationRequest) error {
	switch req.Kind {
	case MutationComplete:
		return s.Store.SetStatus(ctx, req.OrderID, claims.StatusCompleted, req.RequestedAt.Format(DateLayout))
	case MutationCancel:
		return s.Store.SetStatus(ctx, req.OrderID, claims.StatusCancelled, "")
	}
	return fmt.Errorf("unknown mutation kind %q", req.Kind)
}

// Prompter is the blocking form of the prompt exchange, used by
// non-interactive hosts. PromptCode returns ok=false when the provider
// declines.
type Prompter interface {
	PromptCode(ctx context.Context, req CodeRequest) (code string, ok bool, err error)
	Confirm(ctx context.Context, req ConfirmRequest) (bool, error)
}

// Contacter opens an external messaging channel to phone.
type Contacter interface {
	Contact(ctx context.Context, phone, message string) error
}

// ContactURL builds a WhatsApp click-to-chat link.
func ContactURL(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	u := "https://wa.me/" + digits
	if message != "" {
		u += "?text=" + url.QueryEscape(message)
	}
	return u
}

// Recorder observes flow starts and endings.
type Recorder interface {
	Started(kind Kind)
	Finished(kind Kind, result Result, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Started(Kind)                          {}
func (nopRecorder) Finished(Kind, Result, time.Duration) {}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

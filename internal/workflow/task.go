package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultConfirmDelay is how long DelayConfirmer takes to accept a code.
const DefaultConfirmDelay = 1500 * time.Millisecond

// Confirmer checks a submitted code with whatever backs verification.
type Confirmer interface {
	ConfirmCode(ctx context.Context, orderID, code string) error
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, orderID, code string) error

func (f ConfirmerFunc) ConfirmCode(ctx context.Context, orderID, code string) error {
	return f(ctx, orderID, code)
}

// DelayConfirmer accepts every code after a fixed delay. It stands in for the
// verification service until one exists.
type DelayConfirmer struct {
	Delay time.Duration
}

func (d DelayConfirmer) ConfirmCode(ctx context.Context, _, _ string) error {
	delay := d.Delay
	if delay <= 0 {
		delay = DefaultConfirmDelay
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TaskResult is the single value a Task delivers.
type TaskResult struct {
	TaskID  string
	OrderID string
	Code    string
	Err     error
}

// Task is a running code confirmation. Exactly one TaskResult is delivered on
// Done, including after Cancel.
type Task struct {
	ID      string
	OrderID string

	cancel context.CancelFunc
	done   chan TaskResult
}

func startTask(parent context.Context, c Confirmer, orderID, code string) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{
		ID:      uuid.NewString(),
		OrderID: orderID,
		cancel:  cancel,
		done:    make(chan TaskResult, 1),
	}
	go func() {
		defer cancel()
		err := c.ConfirmCode(ctx, orderID, code)
		t.done <- TaskResult{TaskID: t.ID, OrderID: orderID, Code: code, Err: err}
	}()
	return t
}

// Done returns the channel the result is delivered on.
func (t *Task) Done() <-chan TaskResult { return t.done }

// Cancel stops the confirmation. Safe to call more than once.
func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the result arrives or ctx ends. On ctx end the task is
// cancelled and ctx.Err returned.
func (t *Task) Wait(ctx context.Context) (TaskResult, error) {
	select {
	case res := <-t.done:
		return res, nil
	case <-ctx.Done():
		t.Cancel()
		return TaskResult{}, ctx.Err()
	}
}

package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
)

// Options configures a Workflow. Zero values get defaults.
type Options struct {
	MinCodeLength int
	Confirmer     Confirmer
	Notifier      Notifier
	Sink          MutationSink
	Recorder      Recorder
	Audit         *logging.AuditLogger
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MinCodeLength <= 0 {
		o.MinCodeLength = DefaultMinCodeLength
	}
	if o.Confirmer == nil {
		o.Confirmer = DelayConfirmer{Delay: DefaultConfirmDelay}
	}
	if o.Notifier == nil {
		o.Notifier = nopNotifier{}
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
	if o.Audit == nil {
		o.Audit = logging.Audit()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Workflow drives verification and cancellation for a single order detail.
// All methods are safe for concurrent use; the confirmation goroutine never
// touches workflow state, it only delivers a TaskResult.
type Workflow struct {
	mu      sync.Mutex
	order   orders.OrderView
	opts    Options
	phase   Phase
	kind    Kind
	pending string // outstanding request id
	task    *Task
	started time.Time
}

// New binds a workflow to order.
func New(order orders.OrderView, opts Options) *Workflow {
	return &Workflow{order: order, opts: opts.withDefaults()}
}

// Order returns the order the workflow is bound to.
func (w *Workflow) Order() orders.OrderView { return w.order }

// Phase returns the current phase.
func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Busy reports whether a code confirmation is in flight.
func (w *Workflow) Busy() bool {
	return w.Phase() == Validating
}

// begin must be called with w.mu held.
func (w *Workflow) begin(kind Kind, next Phase) (string, error) {
	if w.phase.Terminal() {
		return "", ErrClosed
	}
	if w.phase != Idle {
		return "", fmt.Errorf("start %s on order %s while %s: %w", kind, w.order.ID, w.phase, ErrBusy)
	}
	if !w.order.Actionable() {
		return "", fmt.Errorf("%s order %s (%s): %w", kind, w.order.ID, w.order.Status, ErrNotActionable)
	}
	w.phase = next
	w.kind = kind
	w.pending = uuid.NewString()
	w.started = w.opts.Now()
	w.opts.Recorder.Started(kind)
	return w.pending, nil
}

// end returns to Idle or a terminal phase and reports the result. Must be
// called with w.mu held.
func (w *Workflow) end(next Phase, result Result) {
	w.opts.Recorder.Finished(w.kind, result, w.opts.Now().Sub(w.started))
	logging.WorkflowDebug("order %s %s: %s -> %s (%s)", w.order.ID, w.kind, w.phase, next, result)
	w.phase = next
	w.pending = ""
	w.task = nil
}

// StartVerify begins handoff verification and returns the code prompt the
// host must answer with SubmitCode.
func (w *Workflow) StartVerify() (CodeRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, err := w.begin(KindVerify, AwaitingCode)
	if err != nil {
		return CodeRequest{}, err
	}
	w.opts.Audit.Log(logging.AuditEvent{EventType: logging.AuditVerifyStarted, OrderID: w.order.ID, RequestID: id, Success: true})
	return CodeRequest{ID: id, OrderID: w.order.ID}, nil
}

// SubmitCode answers the outstanding CodeRequest. A declined prompt returns
// (nil, nil). A code that fails the shape check returns a *ValidationError
// after notifying the provider. Otherwise the confirmation Task is returned;
// its result goes to Finish.
func (w *Workflow) SubmitCode(ctx context.Context, resp CodeResponse) (*Task, error) {
	w.mu.Lock()
	if w.phase.Terminal() {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	if w.phase != AwaitingCode || resp.RequestID != w.pending {
		w.mu.Unlock()
		return nil, ErrStaleResponse
	}

	if resp.Declined {
		w.end(Idle, ResultDeclined)
		w.mu.Unlock()
		w.opts.Audit.Event(logging.AuditVerifyDeclined, w.order.ID, true)
		return nil, nil
	}

	code := strings.TrimSpace(resp.Code)
	if utf8.RuneCountInString(code) < w.opts.MinCodeLength {
		w.end(Idle, ResultInvalid)
		w.mu.Unlock()
		verr := &ValidationError{Code: code, Min: w.opts.MinCodeLength}
		w.opts.Audit.Log(logging.AuditEvent{EventType: logging.AuditVerifyRejected, OrderID: w.order.ID, Error: verr.Error()})
		w.opts.Notifier.Notify(Notification{
			Level:   NoticeWarning,
			OrderID: w.order.ID,
			Message: fmt.Sprintf("Kode verifikasi minimal %d karakter.", w.opts.MinCodeLength),
		})
		return nil, verr
	}

	w.phase = Validating
	w.pending = ""
	w.task = startTask(ctx, w.opts.Confirmer, w.order.ID, code)
	task := w.task
	w.mu.Unlock()
	logging.WorkflowDebug("order %s confirming code (task %s)", w.order.ID, task.ID)
	return task, nil
}

// Finish applies a confirmation result. Results from a task that is no longer
// current return ErrStaleResponse, and results arriving after Abort return
// ErrClosed; the host drops both.
func (w *Workflow) Finish(ctx context.Context, res TaskResult) (Outcome, error) {
	w.mu.Lock()
	if w.phase.Terminal() {
		w.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if w.phase != Validating || w.task == nil || res.TaskID != w.task.ID {
		w.mu.Unlock()
		return Outcome{}, ErrStaleResponse
	}

	elapsed := w.opts.Now().Sub(w.started)
	if res.Err != nil {
		w.end(Idle, ResultFailed)
		w.mu.Unlock()
		w.opts.Audit.Log(logging.AuditEvent{EventType: logging.AuditVerifyConfirmed, OrderID: w.order.ID, Duration: elapsed, Error: res.Err.Error()})
		n := Notification{Level: NoticeError, OrderID: w.order.ID, Message: "Verifikasi gagal, silakan coba lagi."}
		w.opts.Notifier.Notify(n)
		return Outcome{Notification: &n}, nil
	}

	w.end(Confirmed, ResultConfirmed)
	w.mu.Unlock()
	w.opts.Audit.Log(logging.AuditEvent{EventType: logging.AuditVerifyConfirmed, OrderID: w.order.ID, Success: true, Duration: elapsed})
	logging.Workflow("order %s verified", w.order.ID)

	n := Notification{
		Level:   NoticeSuccess,
		OrderID: w.order.ID,
		Message: fmt.Sprintf("Verifikasi berhasil! Kode %s diterima, pesanan selesai.", res.Code),
	}
	return w.complete(ctx, n, MutationRequest{Kind: MutationComplete, Code: res.Code}), nil
}

// StartCancel begins cancellation and returns the confirmation prompt.
func (w *Workflow) StartCancel() (ConfirmRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, err := w.begin(KindCancel, AwaitingConfirmation)
	if err != nil {
		return ConfirmRequest{}, err
	}
	w.opts.Audit.Log(logging.AuditEvent{EventType: logging.AuditCancelStarted, OrderID: w.order.ID, RequestID: id, Success: true})
	return ConfirmRequest{
		ID:      id,
		OrderID: w.order.ID,
		Message: fmt.Sprintf("Batalkan pesanan %s?", w.order.FoodName),
	}, nil
}

// AnswerCancel applies the provider's answer to the cancellation prompt.
func (w *Workflow) AnswerCancel(ctx context.Context, resp ConfirmResponse) (Outcome, error) {
	w.mu.Lock()
	if w.phase.Terminal() {
		w.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if w.phase != AwaitingConfirmation || resp.RequestID != w.pending {
		w.mu.Unlock()
		return Outcome{}, ErrStaleResponse
	}

	if !resp.Confirmed {
		w.end(Idle, ResultDeclined)
		w.mu.Unlock()
		w.opts.Audit.Event(logging.AuditCancelDeclined, w.order.ID, true)
		return Outcome{}, nil
	}

	w.end(Cancelled, ResultCancelled)
	w.mu.Unlock()
	w.opts.Audit.Event(logging.AuditCancelConfirmed, w.order.ID, true)
	logging.Workflow("order %s cancelled", w.order.ID)

	n := Notification{Level: NoticeInfo, OrderID: w.order.ID, Message: "Pesanan dibatalkan."}
	return w.complete(ctx, n, MutationRequest{Kind: MutationCancel}), nil
}

// complete runs after a terminal transition has been committed. The phase
// change already guarantees it runs once per workflow.
func (w *Workflow) complete(ctx context.Context, n Notification, req MutationRequest) Outcome {
	req.ID = uuid.NewString()
	req.OrderID = w.order.ID
	req.RequestedAt = w.opts.Now()

	w.opts.Notifier.Notify(n)
	out := Outcome{CloseDetail: true, Notification: &n, Mutation: &req}
	if w.opts.Sink != nil {
		if err := w.opts.Sink.RequestMutation(ctx, req); err != nil {
			logging.Get(logging.CategoryWorkflow).
				With("order", w.order.ID, "request", req.ID).
				Error("%s mutation failed: %v", req.Kind, err)
			w.opts.Audit.Log(logging.AuditEvent{EventType: logging.AuditMutationFailed, OrderID: w.order.ID, RequestID: req.ID, Error: err.Error()})
			out.MutationErr = fmt.Errorf("%s order %s: %w", req.Kind, w.order.ID, err)
		}
	}
	return out
}

// Abort ends the workflow because its detail slot was cleared. An in-flight
// confirmation is cancelled and its result will be ignored. No notification or
// mutation is emitted.
func (w *Workflow) Abort() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase.Terminal() {
		return
	}
	if w.task != nil {
		w.task.Cancel()
	}
	if w.phase != Idle {
		w.opts.Audit.Log(logging.AuditEvent{EventType: logging.AuditWorkflowAborted, OrderID: w.order.ID, Message: w.phase.String()})
		w.end(Aborted, ResultAborted)
		return
	}
	w.phase = Aborted
}

package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu            sync.Mutex
	notifications []Notification
	mutations     []MutationRequest
	started       []Kind
	finished      []Result
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) RequestMutation(_ context.Context, req MutationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations = append(r.mutations, req)
	return nil
}

func (r *recorder) Started(k Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, k)
}

func (r *recorder) Finished(_ Kind, res Result, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, res)
}

// gate is a Confirmer that blocks until released.
type gate struct {
	release chan error
}

func newGate() *gate { return &gate{release: make(chan error, 1)} }

func (g *gate) ConfirmCode(ctx context.Context, _, _ string) error {
	select {
	case err := <-g.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func claimed(id string) orders.OrderView {
	return orders.Project(claims.Record{ID: id, FoodName: "Nasi Kotak", Status: claims.StatusActive})
}

func newWorkflow(t *testing.T, c Confirmer) (*Workflow, *recorder) {
	t.Helper()
	rec := &recorder{}
	w := New(claimed("1"), Options{Confirmer: c, Notifier: rec, Sink: rec, Recorder: rec})
	return w, rec
}

// Scenario C: a two-character code never sets busy and leaves the detail open.
func TestVerify_ShortCodeStaysIdle(t *testing.T) {
	w, rec := newWorkflow(t, newGate())

	req, err := w.StartVerify()
	require.NoError(t, err)
	assert.Equal(t, AwaitingCode, w.Phase())
	assert.Equal(t, "1", req.OrderID)
	assert.NotEmpty(t, req.ID)

	task, err := w.SubmitCode(context.Background(), CodeResponse{RequestID: req.ID, Code: "ab"})
	assert.Nil(t, task)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCode))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, DefaultMinCodeLength, verr.Min)

	assert.Equal(t, Idle, w.Phase())
	assert.False(t, w.Busy())
	assert.Empty(t, rec.mutations)
	require.Len(t, rec.notifications, 1)
	assert.Equal(t, NoticeWarning, rec.notifications[0].Level)
	assert.Equal(t, []Result{ResultInvalid}, rec.finished)

	// recoverable: the flow can start again
	_, err = w.StartVerify()
	assert.NoError(t, err)
}

func TestVerify_CodeLengthCountsRunesAfterTrim(t *testing.T) {
	w, _ := newWorkflow(t, ConfirmerFunc(func(context.Context, string, string) error { return nil }))

	req, _ := w.StartVerify()
	_, err := w.SubmitCode(context.Background(), CodeResponse{RequestID: req.ID, Code: "  ab  "})
	assert.ErrorIs(t, err, ErrInvalidCode)

	req, _ = w.StartVerify()
	task, err := w.SubmitCode(context.Background(), CodeResponse{RequestID: req.ID, Code: "ñé✓"})
	require.NoError(t, err)
	require.NotNil(t, task)
	res := <-task.Done()
	assert.Equal(t, "ñé✓", res.Code)
	_, err = w.Finish(context.Background(), res)
	require.NoError(t, err)
}

// Scenario D: a valid code is busy during confirmation, then closes the
// detail with exactly one success notification and one mutation.
func TestVerify_ValidCodeConfirms(t *testing.T) {
	g := newGate()
	w, rec := newWorkflow(t, g)

	req, err := w.StartVerify()
	require.NoError(t, err)
	task, err := w.SubmitCode(context.Background(), CodeResponse{RequestID: req.ID, Code: "FAR-1234"})
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.True(t, w.Busy())
	assert.Equal(t, Validating, w.Phase())

	_, err = w.StartVerify()
	assert.ErrorIs(t, err, ErrBusy)
	_, err = w.StartCancel()
	assert.ErrorIs(t, err, ErrBusy)

	g.release <- nil
	res := <-task.Done()
	require.NoError(t, res.Err)

	out, err := w.Finish(context.Background(), res)
	require.NoError(t, err)
	assert.True(t, out.CloseDetail)
	assert.False(t, w.Busy())
	assert.Equal(t, Confirmed, w.Phase())

	require.Len(t, rec.notifications, 1)
	assert.Equal(t, NoticeSuccess, rec.notifications[0].Level)
	assert.Contains(t, rec.notifications[0].Message, "FAR-1234")
	require.Len(t, rec.mutations, 1)
	assert.Equal(t, MutationComplete, rec.mutations[0].Kind)
	assert.Equal(t, "1", rec.mutations[0].OrderID)
	assert.Equal(t, "FAR-1234", rec.mutations[0].Code)
	assert.Equal(t, *out.Mutation, rec.mutations[0])

	// a duplicate delivery is ignored
	_, err = w.Finish(context.Background(), res)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Len(t, rec.notifications, 1)
	assert.Len(t, rec.mutations, 1)

	_, err = w.StartVerify()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestVerify_Declined(t *testing.T) {
	w, rec := newWorkflow(t, newGate())
	req, _ := w.StartVerify()
	task, err := w.SubmitCode(context.Background(), CodeResponse{RequestID: req.ID, Declined: true})
	assert.NoError(t, err)
	assert.Nil(t, task)
	assert.Equal(t, Idle, w.Phase())
	assert.Empty(t, rec.notifications)
	assert.Empty(t, rec.mutations)
}

func TestVerify_StaleResponses(t *testing.T) {
	w, _ := newWorkflow(t, newGate())

	_, err := w.SubmitCode(context.Background(), CodeResponse{RequestID: "nope", Code: "FAR-1"})
	assert.ErrorIs(t, err, ErrStaleResponse)

	req, _ := w.StartVerify()
	_, err = w.SubmitCode(context.Background(), CodeResponse{RequestID: "other", Code: "FAR-1"})
	assert.ErrorIs(t, err, ErrStaleResponse)
	assert.Equal(t, AwaitingCode, w.Phase())

	task, err := w.SubmitCode(context.Background(), CodeResponse{RequestID: req.ID, Code: "FAR-1"})
	require.NoError(t, err)
	_, err = w.Finish(context.Background(), TaskResult{TaskID: "someone-else"})
	assert.ErrorIs(t, err, ErrStaleResponse)
	assert.True(t, w.Busy())

	w.Abort()
	<-task.Done()
}

func TestVerify_ConfirmerFailureReturnsToIdle(t *testing.T) {
	g := newGate()
	w, rec := newWorkflow(t, g)
	req, _ := w.StartVerify()
	task, err := w.SubmitCode(context.Background(), CodeResponse{RequestID: req.ID, Code: "FAR-9"})
	require.NoError(t, err)

	g.release <- errors.New("service down")
	out, err := w.Finish(context.Background(), <-task.Done())
	require.NoError(t, err)
	assert.False(t, out.CloseDetail)
	assert.Equal(t, Idle, w.Phase())
	assert.Empty(t, rec.mutations)
	require.Len(t, rec.notifications, 1)
	assert.Equal(t, NoticeError, rec.notifications[0].Level)
}

func TestAbortDuringValidation(t *testing.T) {
	w, rec := newWorkflow(t, newGate())
	req, _ := w.StartVerify()
	task, err := w.SubmitCode(context.Background(), CodeResponse{RequestID: req.ID, Code: "FAR-1234"})
	require.NoError(t, err)

	w.Abort()
	assert.Equal(t, Aborted, w.Phase())
	assert.False(t, w.Busy())

	res := <-task.Done()
	assert.ErrorIs(t, res.Err, context.Canceled)

	_, err = w.Finish(context.Background(), res)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, rec.notifications)
	assert.Empty(t, rec.mutations)
	assert.Equal(t, []Result{ResultAborted}, rec.finished)

	w.Abort() // idempotent
	_, err = w.StartCancel()
	assert.ErrorIs(t, err, ErrClosed)
}

// Scenario E: declining cancellation changes nothing.
func TestCancel_Declined(t *testing.T) {
	w, rec := newWorkflow(t, newGate())
	req, err := w.StartCancel()
	require.NoError(t, err)
	assert.Equal(t, AwaitingConfirmation, w.Phase())
	assert.Contains(t, req.Message, "Nasi Kotak")

	out, err := w.AnswerCancel(context.Background(), ConfirmResponse{RequestID: req.ID, Confirmed: false})
	require.NoError(t, err)
	assert.False(t, out.CloseDetail)
	assert.Equal(t, Idle, w.Phase())
	assert.Empty(t, rec.notifications)
	assert.Empty(t, rec.mutations)
}

func TestCancel_Confirmed(t *testing.T) {
	w, rec := newWorkflow(t, newGate())
	req, _ := w.StartCancel()

	_, err := w.StartVerify()
	assert.ErrorIs(t, err, ErrBusy)

	out, err := w.AnswerCancel(context.Background(), ConfirmResponse{RequestID: req.ID, Confirmed: true})
	require.NoError(t, err)
	assert.True(t, out.CloseDetail)
	assert.Equal(t, Cancelled, w.Phase())
	require.Len(t, rec.notifications, 1)
	require.Len(t, rec.mutations, 1)
	assert.Equal(t, MutationCancel, rec.mutations[0].Kind)

	_, err = w.AnswerCancel(context.Background(), ConfirmResponse{RequestID: req.ID, Confirmed: true})
	assert.ErrorIs(t, err, ErrClosed)
	assert.Len(t, rec.mutations, 1)
}

func TestNotActionable(t *testing.T) {
	done := orders.Project(claims.Record{ID: "2", Status: claims.StatusCompleted})
	w := New(done, Options{})
	_, err := w.StartVerify()
	assert.ErrorIs(t, err, ErrNotActionable)
	_, err = w.StartCancel()
	assert.ErrorIs(t, err, ErrNotActionable)
	assert.Equal(t, Idle, w.Phase())
}

func TestSinkFailureStillCloses(t *testing.T) {
	rec := &recorder{}
	sink := MutationSinkFunc(func(context.Context, MutationRequest) error { return claims.ErrTerminal })
	w := New(claimed("1"), Options{Notifier: rec, Sink: sink})

	req, _ := w.StartCancel()
	out, err := w.AnswerCancel(context.Background(), ConfirmResponse{RequestID: req.ID, Confirmed: true})
	require.NoError(t, err)
	assert.True(t, out.CloseDetail)
	assert.ErrorIs(t, out.MutationErr, claims.ErrTerminal)
	assert.Len(t, rec.notifications, 1)
}

func TestConcurrentFinishEmitsOnce(t *testing.T) {
	g := newGate()
	w, rec := newWorkflow(t, g)
	req, _ := w.StartVerify()
	task, err := w.SubmitCode(context.Background(), CodeResponse{RequestID: req.ID, Code: "FAR-1234"})
	require.NoError(t, err)
	g.release <- nil
	res := <-task.Done()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Finish(context.Background(), res)
		}()
	}
	wg.Wait()
	assert.Len(t, rec.notifications, 1)
	assert.Len(t, rec.mutations, 1)
}

func TestDelayConfirmer(t *testing.T) {
	start := time.Now()
	require.NoError(t, DelayConfirmer{Delay: 20 * time.Millisecond}.ConfirmCode(context.Background(), "1", "abc"))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, DelayConfirmer{Delay: time.Hour}.ConfirmCode(ctx, "1", "abc"), context.Canceled)
}

func TestStoreSink(t *testing.T) {
	store := claims.NewMemoryStore(
		claims.Record{ID: "1", Status: claims.StatusActive, Date: "2024-01-01"},
		claims.Record{ID: "2", Status: claims.StatusActive, Date: "2024-01-01"},
	)
	sink := StoreSink{Store: store}
	at := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	require.NoError(t, sink.RequestMutation(ctx, MutationRequest{Kind: MutationComplete, OrderID: "1", RequestedAt: at}))
	require.NoError(t, sink.RequestMutation(ctx, MutationRequest{Kind: MutationCancel, OrderID: "2", RequestedAt: at}))

	recs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, claims.StatusCompleted, recs[0].Status)
	assert.Equal(t, "2024-02-03", recs[0].Date)
	assert.Equal(t, claims.StatusCancelled, recs[1].Status)
	assert.Equal(t, "2024-01-01", recs[1].Date)

	err = sink.RequestMutation(ctx, MutationRequest{Kind: MutationCancel, OrderID: "1"})
	assert.ErrorIs(t, err, claims.ErrTerminal)
	assert.Error(t, sink.RequestMutation(ctx, MutationRequest{Kind: "archive", OrderID: "1"}))
}

func TestContactURL(t *testing.T) {
	assert.Equal(t, "https://wa.me/6281234567890", ContactURL("+62 812-3456-7890", ""))
	assert.Equal(t, "https://wa.me/628?text=Halo+kak", ContactURL("628", "Halo kak"))
}

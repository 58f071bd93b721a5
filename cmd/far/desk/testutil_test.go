package desk

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/cmd/far/ui"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/workflow"
)

// =============================================================================
// FIXTURES
// =============================================================================

func fixtures() []claims.Record {
	return []claims.Record{
		{ID: "a1", FoodName: "Nasi Goreng", Status: claims.StatusActive, Date: "2024-05-01"},
		{ID: "a2", FoodName: "Soto Ayam", Status: claims.StatusActive, Date: "2024-05-02",
			DeliveryMethod: claims.Method(claims.DeliveryDelivery), CourierPhone: claims.String("6281111")},
		{ID: "h1", FoodName: "Roti Bakar", Status: claims.StatusCompleted, Date: "2024-04-01",
			Rating: &claims.Rating{Stars: 4}},
		{ID: "h2", FoodName: "Bubur", Status: claims.StatusCancelled, Date: "2024-04-02", IsReported: true},
	}
}

// fakeContacter records contact attempts.
type fakeContacter struct {
	mu     sync.Mutex
	phones []string
	err    error
}

func (f *fakeContacter) Contact(_ context.Context, phone, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phones = append(f.phones, phone)
	return f.err
}

// NewTestModel returns a loaded desk over an in-memory store. Confirmation
// succeeds immediately.
func NewTestModel(t *testing.T) (Model, *claims.MemoryStore) {
	t.Helper()
	store := claims.NewMemoryStore(fixtures()...)
	renderer, err := ui.NewRenderer(ui.LightTheme(), 80)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	m := New(context.Background(), Options{
		Store:     store,
		Styles:    ui.NewStyles(ui.LightTheme()),
		Renderer:  renderer,
		Contacter: &fakeContacter{},
		Workflow: workflow.Options{
			Confirmer: workflow.ConfirmerFunc(func(context.Context, string, string) error { return nil }),
		},
		ShowContact: true,
	})
	m = send(t, m, m.load()())
	return m, store
}

// =============================================================================
// HELPERS
// =============================================================================

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, _ = sendCmd(t, m, msg)
	return m
}

func sendCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// collect executes cmd and any batched commands, returning the messages. Only
// use it on commands known not to block.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// openOrder switches to the orders tab and opens the detail at index i.
func openOrder(t *testing.T, m Model, i int) Model {
	t.Helper()
	m = send(t, m, runes("2"))
	for j := 0; j < i; j++ {
		m = send(t, m, key(tea.KeyDown))
	}
	return send(t, m, key(tea.KeyEnter))
}

// submitCode answers an open code prompt and returns the confirmation result
// message without delivering it.
func submitCode(t *testing.T, m Model, code string) (Model, taskDoneMsg) {
	t.Helper()
	m = send(t, m, runes(code))
	m, cmd := sendCmd(t, m, key(tea.KeyEnter))
	done, ok := findMsg[taskDoneMsg](collect(cmd))
	if !ok {
		t.Fatalf("no confirmation task started for code %q", code)
	}
	return m, done
}

var errContact = errors.New("no browser")

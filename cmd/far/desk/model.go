// Package desk implements the interactive provider desk: the stock, orders and
// history tabs, order details, and the verification and cancellation flows.
package desk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/cmd/far/ui"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/metrics"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/navigation"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/workflow"
)

// Options wires the desk to its collaborators.
type Options struct {
	Store     claims.Store
	Styles    ui.Styles
	Renderer  *ui.Renderer
	Contacter workflow.Contacter
	Metrics   *metrics.Recorder

	// Workflow is the template for every order workflow. Notifier and Sink
	// are always replaced by the desk's own.
	Workflow workflow.Options

	ShowContact bool

	// View is the section shown first.
	View navigation.TopView
}

// slowLoad is the snapshot read time above which a warning is logged.
const slowLoad = 500 * time.Millisecond

// promptMode is the modal input currently capturing keys.
type promptMode int

const (
	promptNone promptMode = iota
	promptCode
	promptConfirm
)

// Messages
type (
	snapshotMsg struct {
		recs []claims.Record
		err  error
	}
	changedMsg struct{}
	taskDoneMsg struct {
		list navigation.List
		flow *workflow.Workflow
		res  workflow.TaskResult
	}
	contactDoneMsg struct {
		link string
		err  error
	}
)

// Model is the bubbletea model of the desk.
type Model struct {
	ctx       context.Context
	store     claims.Store
	projector *orders.Projector
	styles    ui.Styles
	renderer  *ui.Renderer
	contacter workflow.Contacter
	metrics   *metrics.Recorder
	wfOpts    workflow.Options

	showContact bool
	width       int
	height      int

	snapshot orders.Partitioned
	loaded   bool
	nav      navigation.State
	cursor   [2]int    // per navigation.List
	queries  [2]string // per navigation.List
	category orders.Category

	search    textinput.Model
	searching bool
	detail    viewport.Model
	spinner   spinner.Model

	// Workflows live as long as their list's selection slot.
	flows      [2]*workflow.Workflow
	prompt     promptMode
	promptList navigation.List
	codeReq    workflow.CodeRequest
	confirmReq workflow.ConfirmRequest
	codeInput  textinput.Model

	notices chan workflow.Notification
	notice  *workflow.Notification
	changes chan struct{}
	err     error

	shutdownOnce *sync.Once
}

// New creates the desk model. ctx bounds every store call and confirmation
// task started from the desk.
func New(ctx context.Context, opts Options) Model {
	search := textinput.New()
	search.Placeholder = "Cari makanan atau penerima..."
	search.Prompt = "/ "
	search.CharLimit = 64
	search.Width = 40
	search.PromptStyle = opts.Styles.Prompt
	search.TextStyle = opts.Styles.UserInput

	code := textinput.New()
	code.Placeholder = "Kode verifikasi"
	code.Prompt = "Kode: "
	code.CharLimit = 32
	code.Width = 24
	code.PromptStyle = opts.Styles.Prompt
	code.TextStyle = opts.Styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Styles.Spinner

	m := Model{
		ctx:          ctx,
		store:        opts.Store,
		projector:    orders.NewProjector(),
		styles:       opts.Styles,
		renderer:     opts.Renderer,
		contacter:    opts.Contacter,
		metrics:      opts.Metrics,
		wfOpts:       opts.Workflow,
		showContact:  opts.ShowContact,
		nav:          navigation.Initial().SelectTopView(opts.View),
		category:     orders.CategoryAll,
		search:       search,
		detail:       viewport.New(80, 20),
		spinner:      sp,
		codeInput:    code,
		notices:      make(chan workflow.Notification, 16),
		changes:      make(chan struct{}, 1),
		shutdownOnce: &sync.Once{},
	}
	if m.metrics != nil && m.wfOpts.Recorder == nil {
		m.wfOpts.Recorder = m.metrics
	}
	return m
}

// Run runs p until it exits and shuts down the model it ended with, which is
// the only copy holding the live workflows.
func Run(p *tea.Program) (Model, error) {
	final, err := p.Run()
	m, ok := final.(Model)
	if ok {
		m.Shutdown()
	}
	return m, err
}

// Init loads the first snapshot and starts listening for store changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChanges())
}

// NotifyChanged tells the desk the claim store changed outside of it. It never
// blocks; pending changes coalesce into a single reload.
func (m Model) NotifyChanged() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

// Shutdown aborts every open workflow.
func (m Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		for _, f := range m.flows {
			if f != nil {
				f.Abort()
			}
		}
		logging.Desk("desk shut down")
	})
}

func (m Model) load() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		timer := logging.StartTimer(logging.CategoryDesk, "load snapshot")
		defer timer.StopWithThreshold(slowLoad)
		recs, err := store.List(ctx)
		return snapshotMsg{recs: recs, err: err}
	}
}

func (m Model) waitForChanges() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return changedMsg{}
	}
}

func waitForTask(list navigation.List, flow *workflow.Workflow, task *workflow.Task) tea.Cmd {
	return func() tea.Msg {
		return taskDoneMsg{list: list, flow: flow, res: <-task.Done()}
	}
}

func (m Model) contact(p orders.Person, order orders.OrderView) tea.Cmd {
	c, ctx := m.contacter, m.ctx
	msg := ui.ContactMessage(p.Name, order.FoodName)
	return func() tea.Msg {
		err := c.Contact(ctx, p.Phone, msg)
		return contactDoneMsg{link: workflow.ContactURL(p.Phone, msg), err: err}
	}
}

// notify is the desk's workflow.Notifier. Notifications are drained by Update
// right after the workflow call that produced them.
func (m Model) notify(n workflow.Notification) {
	select {
	case m.notices <- n:
	default:
		logging.DeskDebug("notification dropped: %s", n.Message)
	}
}

func (m *Model) drainNotices() {
	for {
		select {
		case n := <-m.notices:
			m.notice = &n
		default:
			return
		}
	}
}

// flow returns the workflow bound to list's selection, creating it on first
// use.
func (m *Model) flow(list navigation.List) (*workflow.Workflow, bool) {
	item, ok := m.nav.Selected(list)
	if !ok {
		return nil, false
	}
	if f := m.flows[list]; f != nil {
		return f, true
	}
	opts := m.wfOpts
	opts.Notifier = workflow.NotifierFunc(m.notify)
	opts.Sink = workflow.StoreSink{Store: m.store}
	m.flows[list] = workflow.New(item, opts)
	return m.flows[list], true
}

// releaseFlow aborts and forgets the workflow of list. Terminal workflows are
// left as they are.
func (m *Model) releaseFlow(list navigation.List) {
	if f := m.flows[list]; f != nil {
		f.Abort()
		m.flows[list] = nil
	}
	if m.prompt != promptNone && m.promptList == list {
		m.closePrompt()
	}
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.codeInput.Reset()
	m.codeInput.Blur()
}

func (m Model) busy() bool {
	for _, f := range m.flows {
		if f != nil && f.Busy() {
			return true
		}
	}
	return false
}

// items returns the filtered contents of list.
func (m Model) items(list navigation.List) []orders.OrderView {
	if list == navigation.HistoryList {
		return orders.FilterHistory(m.snapshot.History, m.queries[list], m.category)
	}
	return orders.FilterOrders(m.snapshot.Active, m.queries[list])
}

func (m *Model) clampCursor(list navigation.List) {
	n := len(m.items(list))
	if m.cursor[list] >= n {
		m.cursor[list] = n - 1
	}
	if m.cursor[list] < 0 {
		m.cursor[list] = 0
	}
}

// resolveSelections rebinds every open detail to its order in the current
// snapshot. An order that left its list closes the detail and aborts its
// workflow, whatever the phase. When the order changed, an idle workflow is
// dropped so the next action starts from the fresh view.
func (m *Model) resolveSelections() {
	changed := false
	for _, list := range []navigation.List{navigation.OrdersList, navigation.HistoryList} {
		item, ok := m.nav.Selected(list)
		if !ok {
			continue
		}
		pool := m.snapshot.Active
		if list == navigation.HistoryList {
			pool = m.snapshot.History
		}
		fresh, found := findByID(pool, item.ID)
		if !found {
			logging.DeskDebug("order %s left the %s list, closing its detail", item.ID, list)
			m.releaseFlow(list)
			m.nav = m.nav.CloseDetail(list)
			m.notice = &workflow.Notification{
				Level:   workflow.NoticeInfo,
				OrderID: item.ID,
				Message: fmt.Sprintf("Pesanan %s sudah berubah dan ditutup.", item.FoodName),
			}
			changed = true
			continue
		}
		if fresh == item {
			continue
		}
		if f := m.flows[list]; f != nil && f.Phase() == workflow.Idle {
			m.releaseFlow(list)
		}
		m.nav = m.nav.OpenDetail(list, fresh)
		changed = true
	}
	if changed {
		m.refreshDetail()
	}
}

func findByID(items []orders.OrderView, id string) (orders.OrderView, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return orders.OrderView{}, false
}

// refreshDetail renders the visible detail into the viewport.
func (m *Model) refreshDetail() {
	v := m.nav.Visible()
	if v.Item == nil {
		return
	}
	m.detail.SetContent(m.renderer.Order(*v.Item))
	m.detail.GotoTop()
}

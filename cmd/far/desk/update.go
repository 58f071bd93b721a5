package desk

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/navigation"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/workflow"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = max(msg.Width, 0), max(msg.Height, 0)
		m.detail.Width = max(m.width-4, 20)
		m.detail.Height = max(m.height-8, 5)
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd, _ = m.handleKeyMsg(msg)
		return m, cmd

	case snapshotMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to load claims: %w", msg.err)
			logging.Get(logging.CategoryDesk).Error("%v", m.err)
			return m, nil
		}
		m.snapshot = m.projector.Partition(msg.recs)
		m.loaded = true
		m.err = nil
		m.clampCursor(navigation.OrdersList)
		m.clampCursor(navigation.HistoryList)
		m.resolveSelections()
		if m.metrics != nil {
			m.metrics.ObservePartition(m.snapshot)
		}
		logging.DeskDebug("snapshot: %d active, %d history, %d dropped",
			len(m.snapshot.Active), len(m.snapshot.History), len(m.snapshot.Dropped))
		return m, nil

	case changedMsg:
		return m, tea.Batch(m.load(), m.waitForChanges())

	case taskDoneMsg:
		return m.finishTask(msg)

	case contactDoneMsg:
		if msg.err != nil {
			m.notice = &workflow.Notification{Level: workflow.NoticeInfo, Message: "Buka tautan: " + msg.link}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg processes keyboard input. handled is false when the key did
// nothing.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if msg.Type == tea.KeyCtrlC {
		m.Shutdown()
		return m, tea.Quit, true
	}

	switch m.prompt {
	case promptCode:
		return m.handleCodeKey(msg)
	case promptConfirm:
		return m.handleConfirmKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q":
		m.Shutdown()
		return m, tea.Quit, true
	case "tab":
		m.nav = m.nav.SelectTopView(m.nav.Top.Next())
		m.refreshDetail()
		return m, nil, true
	case "1", "2", "3":
		m.nav = m.nav.SelectTopView(navigation.TopViews[int(msg.Runes[0]-'1')])
		m.refreshDetail()
		return m, nil, true
	case "r":
		return m, m.load(), true
	}

	list, ok := navigation.ListFor(m.nav.Top)
	if !ok {
		return m, nil, false
	}
	if m.nav.ShowingDetail(list) {
		return m.handleDetailKey(list, msg)
	}
	return m.handleListKey(list, msg)
}

func (m Model) handleListKey(list navigation.List, msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "up", "k":
		if m.cursor[list] > 0 {
			m.cursor[list]--
		}
		return m, nil, true
	case "down", "j":
		if m.cursor[list] < len(m.items(list))-1 {
			m.cursor[list]++
		}
		return m, nil, true
	case "enter":
		items := m.items(list)
		if len(items) == 0 {
			return m, nil, false
		}
		m.releaseFlow(list)
		m.nav = m.nav.OpenDetail(list, items[m.cursor[list]])
		m.refreshDetail()
		return m, nil, true
	case "/":
		m.searching = true
		m.search.SetValue(m.queries[list])
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd, true
	case "c":
		if list != navigation.HistoryList {
			return m, nil, false
		}
		m.category = m.category.Next()
		m.clampCursor(list)
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	list, _ := navigation.ListFor(m.nav.Top)
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil, true
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.Reset()
		m.queries[list] = ""
		m.clampCursor(list)
		return m, nil, true
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.queries[list] = m.search.Value()
	m.cursor[list] = 0
	return m, cmd, true
}

func (m Model) handleDetailKey(list navigation.List, msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	item, _ := m.nav.Selected(list)
	switch msg.String() {
	case "esc", "backspace":
		m.releaseFlow(list)
		m.nav = m.nav.CloseDetail(list)
		return m, nil, true
	case "v":
		return m.startVerify(list)
	case "x":
		return m.startCancel(list)
	case "w":
		if !m.showContact || m.contacter == nil {
			return m, nil, false
		}
		return m, m.contact(item.Receiver, item), true
	case "d":
		if !m.showContact || m.contacter == nil || item.Courier == nil {
			return m, nil, false
		}
		return m, m.contact(*item.Courier, item), true
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd, true
}

func (m Model) startVerify(list navigation.List) (Model, tea.Cmd, bool) {
	f, ok := m.flow(list)
	if !ok {
		return m, nil, false
	}
	req, err := f.StartVerify()
	if err != nil {
		m.noticeFor(err)
		return m, nil, true
	}
	m.prompt = promptCode
	m.promptList = list
	m.codeReq = req
	m.codeInput.Reset()
	cmd := m.codeInput.Focus()
	return m, cmd, true
}

func (m Model) startCancel(list navigation.List) (Model, tea.Cmd, bool) {
	f, ok := m.flow(list)
	if !ok {
		return m, nil, false
	}
	req, err := f.StartCancel()
	if err != nil {
		m.noticeFor(err)
		return m, nil, true
	}
	m.prompt = promptConfirm
	m.promptList = list
	m.confirmReq = req
	return m, nil, true
}

func (m Model) handleCodeKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	list := m.promptList
	f := m.flows[list]
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		resp := workflow.CodeResponse{RequestID: m.codeReq.ID, Code: m.codeInput.Value(), Declined: msg.Type == tea.KeyEsc}
		m.closePrompt()
		if f == nil {
			return m, nil, true
		}
		task, err := f.SubmitCode(m.ctx, resp)
		m.drainNotices()
		if err != nil {
			logging.DeskDebug("submit code for %s: %v", f.Order().ID, err)
			return m, nil, true
		}
		if task == nil {
			return m, nil, true
		}
		return m, tea.Batch(m.spinner.Tick, waitForTask(list, f, task)), true
	}
	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	return m, cmd, true
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	var yes bool
	switch msg.String() {
	case "y", "Y":
		yes = true
	case "n", "N", "esc":
	default:
		return m, nil, false
	}
	list := m.promptList
	f := m.flows[list]
	m.closePrompt()
	if f == nil {
		return m, nil, true
	}
	out, err := f.AnswerCancel(m.ctx, workflow.ConfirmResponse{RequestID: m.confirmReq.ID, Confirmed: yes})
	m.drainNotices()
	if err != nil {
		logging.DeskDebug("answer cancel for %s: %v", f.Order().ID, err)
		return m, nil, true
	}
	return m.applyOutcome(list, f, out)
}

// finishTask hands a confirmation result back to its workflow. Results for a
// workflow that no longer owns its slot were aborted and are dropped by
// Finish itself.
func (m Model) finishTask(msg taskDoneMsg) (tea.Model, tea.Cmd) {
	out, err := msg.flow.Finish(m.ctx, msg.res)
	m.drainNotices()
	if err != nil {
		logging.DeskDebug("drop task result %s: %v", msg.res.TaskID, err)
		return m, nil
	}
	var cmd tea.Cmd
	m, cmd, _ = m.applyOutcome(msg.list, msg.flow, out)
	return m, cmd
}

func (m Model) applyOutcome(list navigation.List, f *workflow.Workflow, out workflow.Outcome) (Model, tea.Cmd, bool) {
	if out.MutationErr != nil {
		m.err = out.MutationErr
	}
	if out.CloseDetail && m.flows[list] == f {
		m.flows[list] = nil
		m.nav = m.nav.CloseDetail(list)
	}
	if out.Mutation != nil {
		return m, m.load(), true
	}
	return m, nil, true
}

// noticeFor turns a refused workflow start into a notification.
func (m *Model) noticeFor(err error) {
	n := workflow.Notification{Level: workflow.NoticeWarning, Message: err.Error()}
	switch {
	case errors.Is(err, workflow.ErrNotActionable):
		n.Message = "Pesanan ini sudah tidak dapat diubah."
	case errors.Is(err, workflow.ErrBusy):
		n.Message = "Masih memproses, tunggu sebentar."
	case errors.Is(err, workflow.ErrClosed):
		n.Message = "Pesanan ini sudah selesai diproses."
	}
	m.notice = &n
}

// categoryLabel names a history category for display.
func categoryLabel(c orders.Category) string {
	switch c {
	case orders.CategoryRated:
		return "Dinilai"
	case orders.CategoryReported:
		return "Dilaporkan"
	}
	return "Semua"
}

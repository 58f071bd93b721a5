package desk

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/navigation"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/workflow"
)

var tabTitles = map[navigation.TopView]string{
	navigation.StockView:   "Stok",
	navigation.OrdersView:  "Pesanan",
	navigation.HistoryView: "Riwayat",
}

// View implements tea.Model.
func (m Model) View() string {
	var sections []string
	sections = append(sections, m.renderHeader())

	vis := m.nav.Visible()
	switch {
	case vis.Top == navigation.StockView:
		sections = append(sections, m.styles.Content.Render(
			m.styles.Muted.Render("Stok donasi dikelola dari aplikasi FAR. Tekan 2 untuk pesanan aktif.")))
	case !m.loaded && m.err == nil:
		sections = append(sections, m.styles.Content.Render(m.styles.Muted.Render("Memuat pesanan...")))
	case vis.Mode == navigation.ModeDetail:
		sections = append(sections, m.renderDetail(vis))
	default:
		list, _ := navigation.ListFor(vis.Top)
		sections = append(sections, m.renderList(list))
	}

	if s := m.renderStatus(); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, m.renderHelp(vis))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	tabs := make([]string, 0, len(navigation.TopViews))
	for i, v := range navigation.TopViews {
		title := fmt.Sprintf("%d %s", i+1, tabTitles[v])
		switch v {
		case navigation.OrdersView:
			title += fmt.Sprintf(" (%d)", len(m.snapshot.Active))
		case navigation.HistoryView:
			title += fmt.Sprintf(" (%d)", len(m.snapshot.History))
		}
		if v == m.nav.Top {
			tabs = append(tabs, m.styles.ActiveTab.Render(title))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(title))
		}
	}
	header := m.styles.Header.Render("FAR · Meja Penyedia")
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderList(list navigation.List) string {
	var sb strings.Builder

	if m.searching {
		sb.WriteString(m.search.View())
		sb.WriteString("\n")
	} else if q := m.queries[list]; q != "" {
		sb.WriteString(m.styles.Muted.Render("Cari: " + q))
		sb.WriteString("\n")
	}
	if list == navigation.HistoryList {
		sb.WriteString(m.styles.Subtitle.Render("Kategori: " + categoryLabel(m.category)))
		sb.WriteString("\n")
	}

	items := m.items(list)
	if len(items) == 0 {
		empty := "Belum ada pesanan aktif."
		if list == navigation.HistoryList {
			empty = "Belum ada riwayat pesanan."
		}
		if m.queries[list] != "" || (list == navigation.HistoryList && m.category != orders.CategoryAll) {
			empty = "Tidak ada pesanan yang cocok."
		}
		sb.WriteString(m.styles.Muted.Render(empty))
		return m.styles.Content.Render(sb.String())
	}

	for i, it := range items {
		line := fmt.Sprintf("%s · %s · %s", it.FoodName, it.Receiver.Name, it.Quantity)
		if i == m.cursor[list] {
			sb.WriteString(m.styles.Cursor.Render("› ") + m.styles.Selected.Render(line))
		} else {
			sb.WriteString("  " + m.styles.Body.Render(line))
		}
		sb.WriteString(" " + m.styles.StatusBadge(it.Status))
		if it.Rating != nil {
			sb.WriteString(m.styles.Muted.Render(fmt.Sprintf(" ★%d", it.Rating.Stars)))
		}
		if it.Report != nil {
			sb.WriteString(m.styles.Warning.Render(" ⚠"))
		}
		sb.WriteString("\n")
	}
	return m.styles.Content.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) renderDetail(vis navigation.Visible) string {
	parts := []string{m.detail.View()}

	list, _ := navigation.ListFor(vis.Top)
	if f := m.flows[list]; f != nil && f.Busy() {
		parts = append(parts, m.spinner.View()+" "+m.styles.Muted.Render("Memverifikasi kode..."))
	}
	if m.prompt != promptNone && m.promptList == list {
		parts = append(parts, m.renderPrompt())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderPrompt() string {
	switch m.prompt {
	case promptCode:
		return m.styles.Dialog.Render(
			m.styles.Bold.Render("Masukkan kode verifikasi dari penerima") + "\n" +
				m.codeInput.View() + "\n" +
				m.styles.Muted.Render("enter kirim · esc batal"))
	case promptConfirm:
		return m.styles.Dialog.Render(
			m.styles.Bold.Render(m.confirmReq.Message) + "\n" +
				m.styles.Muted.Render("y ya · n tidak"))
	}
	return ""
}

func (m Model) renderStatus() string {
	var lines []string
	if m.notice != nil {
		style := m.styles.Info
		switch m.notice.Level {
		case workflow.NoticeSuccess:
			style = m.styles.Success
		case workflow.NoticeWarning:
			style = m.styles.Warning
		case workflow.NoticeError:
			style = m.styles.Error
		}
		lines = append(lines, style.Render(m.notice.Message))
	}
	if m.err != nil {
		lines = append(lines, m.styles.Error.Render("Error: "+m.err.Error()))
	}
	if len(lines) == 0 {
		return ""
	}
	return m.styles.Footer.Render(strings.Join(lines, "\n"))
}

func (m Model) renderHelp(vis navigation.Visible) string {
	keys := []string{"tab/1-3 pindah", "r muat ulang", "q keluar"}
	switch {
	case m.prompt != promptNone:
		return ""
	case m.searching:
		keys = []string{"enter selesai", "esc hapus"}
	case vis.Mode == navigation.ModeDetail:
		keys = append([]string{"esc kembali"}, keys...)
		if vis.Item != nil && vis.Item.Actionable() {
			keys = append([]string{"v verifikasi", "x batalkan"}, keys...)
		}
		if m.showContact && m.contacter != nil {
			keys = append(keys, "w hubungi penerima")
			if vis.Item != nil && vis.Item.Courier != nil {
				keys = append(keys, "d hubungi kurir")
			}
		}
	case vis.Top != navigation.StockView:
		keys = append([]string{"↑/↓ pilih", "enter detail", "/ cari"}, keys...)
		if vis.Top == navigation.HistoryView {
			keys = append(keys, "c kategori")
		}
	}
	return m.styles.Footer.Render(strings.Join(keys, " · "))
}

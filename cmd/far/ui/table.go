package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
)

// SimpleTable is a static table for CLI output.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
	Empty   string // shown instead of the table when there are no rows
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow adds a row to the table. Missing cells render empty.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}
	if len(t.Rows) == 0 {
		if t.Empty != "" {
			sb.WriteString(styles.Muted.Render(t.Empty))
			sb.WriteString("\n")
		}
		return sb.String()
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	// lipgloss Width includes padding
	for i := range widths {
		widths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sep := styles.Muted.Render("│")

	cells := make([]string, len(widths))
	for i, h := range t.Headers {
		cells[i] = headerStyle.Width(widths[i]).Render(h)
	}
	sb.WriteString(strings.Join(cells, sep))
	sb.WriteString("\n")

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.RenderDivider(total))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = rowStyle.Width(widths[i]).Render(cell)
		}
		sb.WriteString(strings.Join(cells, sep))
		sb.WriteString("\n")
	}
	return sb.String()
}

// OrdersTable lays out order views for the orders and history commands.
func OrdersTable(title string, items []orders.OrderView, history bool) *SimpleTable {
	headers := []string{"ID", "Makanan", "Jumlah", "Penerima", "Metode", "Tanggal"}
	if history {
		headers = append(headers, "Status", "Rating", "Laporan")
	}
	t := NewSimpleTable(title, headers)
	t.Empty = "Tidak ada pesanan."
	for _, v := range items {
		row := []string{v.ID, v.FoodName, v.Quantity, v.Receiver.Name, MethodLabel(v.DeliveryMethod), v.Timestamps.ClaimedAt}
		if history {
			row = append(row, string(v.Status), RatingLabel(v.Rating), ReportLabel(v.Report))
		}
		t.AddRow(row...)
	}
	return t
}

// MethodLabel names a delivery method for display.
func MethodLabel(m claims.DeliveryMethod) string {
	if m == claims.DeliveryDelivery {
		return "Diantar"
	}
	return "Ambil sendiri"
}

// RatingLabel renders a rating as stars, or "-" when absent.
func RatingLabel(r *orders.Rating) string {
	if r == nil {
		return "-"
	}
	n := r.Stars
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// ReportLabel marks reported orders.
func ReportLabel(r *orders.Report) string {
	if r == nil {
		return "-"
	}
	return "⚠ " + r.Issue
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
)

// OrderMarkdown renders the detail page of an order as markdown.
func OrderMarkdown(v orders.OrderView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", v.FoodName)
	if v.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", v.Description)
	}

	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| ID | `%s` |\n", v.ID)
	fmt.Fprintf(&sb, "| Status | %s |\n", statusLabel(v.Status))
	fmt.Fprintf(&sb, "| Jumlah | %s |\n", v.Quantity)
	fmt.Fprintf(&sb, "| Metode | %s |\n", MethodLabel(v.DeliveryMethod))
	fmt.Fprintf(&sb, "| Diklaim | %s |\n", v.Timestamps.ClaimedAt)
	if v.Timestamps.CompletedAt != nil {
		fmt.Fprintf(&sb, "| Selesai | %s |\n", *v.Timestamps.CompletedAt)
	}

	sb.WriteString("\n## Penerima\n\n")
	fmt.Fprintf(&sb, "**%s** (%s)\n", v.Receiver.Name, v.Receiver.Phone)

	if v.Courier != nil {
		sb.WriteString("\n## Kurir\n\n")
		fmt.Fprintf(&sb, "**%s** (%s)\n", v.Courier.Name, v.Courier.Phone)
	}

	if v.Rating != nil {
		sb.WriteString("\n## Ulasan\n\n")
		fmt.Fprintf(&sb, "%s\n", RatingLabel(v.Rating))
		if v.Rating.Comment != "" {
			fmt.Fprintf(&sb, "\n> %s\n", v.Rating.Comment)
		}
	}

	if v.Report != nil {
		sb.WriteString("\n## Laporan\n\n")
		issue := v.Report.Issue
		if v.Report.IsUrgent {
			issue += " (mendesak)"
		}
		fmt.Fprintf(&sb, "**%s**\n", issue)
		if v.Report.Description != "" {
			fmt.Fprintf(&sb, "\n%s\n", v.Report.Description)
		}
	}
	return sb.String()
}

func statusLabel(s orders.DisplayStatus) string {
	switch s {
	case orders.DisplayCompleted:
		return "Selesai"
	case orders.DisplayCancelled:
		return "Dibatalkan"
	}
	return "Diklaim"
}

// Renderer turns markdown into styled terminal output.
type Renderer struct {
	md *glamour.TermRenderer
}

// NewRenderer creates a glamour renderer matching theme. A wrap width of zero
// or less falls back to 80 columns.
func NewRenderer(theme Theme, wrap int) (*Renderer, error) {
	if wrap <= 0 {
		wrap = 80
	}
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{md: md}, nil
}

// Render renders markdown. On failure the raw markdown is returned so the
// provider still sees the content.
func (r *Renderer) Render(markdown string) string {
	if r == nil || r.md == nil {
		return markdown
	}
	out, err := r.md.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

// Order renders an order's detail page.
func (r *Renderer) Order(v orders.OrderView) string {
	return r.Render(OrderMarkdown(v))
}

// ContactMessage is the greeting prefilled in contact links.
func ContactMessage(name, foodName string) string {
	return fmt.Sprintf("Halo %s, saya menghubungi terkait pesanan %s di FAR.", name, foodName)
}

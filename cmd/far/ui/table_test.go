package ui

import (
	"strings"
	"testing"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
)

func TestSimpleTable(t *testing.T) {
	table := NewSimpleTable("Test Table", []string{"Col1", "Col2"})
	table.AddRow("Row1Col1", "Row1Col2")
	table.AddRow("short")

	view := table.View(NewStyles(LightTheme()))
	t.Logf("View:\n%q", view)

	if !strings.Contains(view, "Test Table") {
		t.Error("View missing title")
	}
	if !strings.Contains(view, "Row1Col1") {
		t.Error("View missing cell content")
	}
	if !strings.Contains(view, "short") {
		t.Error("View missing short row")
	}
}

func TestSimpleTable_Empty(t *testing.T) {
	table := NewSimpleTable("Kosong", []string{"A"})
	table.Empty = "nothing here"
	view := table.View(NewStyles(LightTheme()))
	if !strings.Contains(view, "nothing here") {
		t.Errorf("empty view = %q", view)
	}
	if strings.Contains(view, "─") {
		t.Error("empty table should not draw a header rule")
	}
}

func TestOrdersTable(t *testing.T) {
	p := orders.Partition([]claims.Record{
		{ID: "a1", FoodName: "Nasi Goreng", Status: claims.StatusActive, Date: "2024-05-01"},
		{ID: "h1", FoodName: "Roti", Status: claims.StatusCompleted, Date: "2024-04-01",
			Rating: &claims.Rating{Stars: 4}, IsReported: true},
	})

	active := OrdersTable("Pesanan", p.Active, false)
	if len(active.Headers) != 6 {
		t.Errorf("active headers = %v", active.Headers)
	}
	if len(active.Rows) != 1 || active.Rows[0][0] != "a1" {
		t.Errorf("active rows = %v", active.Rows)
	}

	history := OrdersTable("Riwayat", p.History, true)
	row := history.Rows[0]
	if row[6] != "completed" {
		t.Errorf("status cell = %q", row[6])
	}
	if row[7] != "★★★★☆" {
		t.Errorf("rating cell = %q", row[7])
	}
	if !strings.HasPrefix(row[8], "⚠") {
		t.Errorf("report cell = %q", row[8])
	}
}

func TestLabels(t *testing.T) {
	if MethodLabel(claims.DeliveryDelivery) != "Diantar" {
		t.Error("delivery label")
	}
	if MethodLabel(claims.DeliveryPickup) != "Ambil sendiri" {
		t.Error("pickup label")
	}
	if RatingLabel(nil) != "-" || ReportLabel(nil) != "-" {
		t.Error("absent annotations render as -")
	}
	if got := RatingLabel(&orders.Rating{Stars: 9}); got != "★★★★★" {
		t.Errorf("clamped rating = %q", got)
	}
}

package ui

import (
	"strings"
	"testing"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
)

func TestOrderMarkdown(t *testing.T) {
	v := orders.Project(claims.Record{
		ID:             "c9",
		FoodName:       "Sayur Asem",
		Description:    claims.String("Masih hangat"),
		Status:         claims.StatusCompleted,
		DeliveryMethod: claims.Method(claims.DeliveryDelivery),
		Date:           "2024-05-02",
		Rating:         &claims.Rating{Stars: 5, Review: claims.String("Enak")},
		IsReported:     true,
	})

	md := OrderMarkdown(v)
	for _, want := range []string{"# Sayur Asem", "Masih hangat", "`c9`", "Selesai", "## Kurir", "> Enak", "## Laporan"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestOrderMarkdown_PickupHasNoCourier(t *testing.T) {
	v := orders.Project(claims.Record{ID: "c1", FoodName: "Bubur", Status: claims.StatusActive})
	md := OrderMarkdown(v)
	if strings.Contains(md, "## Kurir") {
		t.Error("pickup orders have no courier section")
	}
	if strings.Contains(md, "## Ulasan") || strings.Contains(md, "## Laporan") {
		t.Error("unannotated order should have no rating or report sections")
	}
}

func TestRenderer(t *testing.T) {
	r, err := NewRenderer(LightTheme(), 0)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	out := r.Order(orders.Project(claims.Record{ID: "c1", FoodName: "Bubur", Status: claims.StatusActive}))
	if !strings.Contains(out, "Bubur") {
		t.Errorf("rendered output missing title: %q", out)
	}

	var nilRenderer *Renderer
	if got := nilRenderer.Render("# x"); got != "# x" {
		t.Errorf("nil renderer should pass markdown through, got %q", got)
	}
}

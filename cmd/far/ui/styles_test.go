package ui

import (
	"strings"
	"testing"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("FAR_DARK_MODE", "1")
	dark := DetectTheme()
	if !dark.IsDark {
		t.Fatalf("expected dark theme when FAR_DARK_MODE=1")
	}

	t.Setenv("FAR_DARK_MODE", "")
	light := DetectTheme()
	if light.IsDark {
		t.Fatalf("expected light theme when FAR_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for a black terminal background")
	}
}

func TestThemeFor(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("FAR_DARK_MODE", "")
	if !ThemeFor("DARK").IsDark {
		t.Error("ThemeFor(DARK) should be dark")
	}
	if ThemeFor("light").IsDark {
		t.Error("ThemeFor(light) should be light")
	}
	if ThemeFor("auto").IsDark {
		t.Error("ThemeFor(auto) should follow detection")
	}
}

func TestStatusBadge(t *testing.T) {
	styles := NewStyles(LightTheme())
	cases := map[orders.DisplayStatus]string{
		orders.DisplayClaimed:   "Diklaim",
		orders.DisplayCompleted: "Selesai",
		orders.DisplayCancelled: "Dibatalkan",
	}
	for st, want := range cases {
		if got := styles.StatusBadge(st); !strings.Contains(got, want) {
			t.Errorf("StatusBadge(%s) = %q, want it to contain %q", st, got, want)
		}
	}
}

func TestRenderDivider(t *testing.T) {
	styles := NewStyles(LightTheme())
	if got := styles.RenderDivider(0); !strings.Contains(got, "─") {
		t.Errorf("RenderDivider(0) = %q, want at least one rule", got)
	}
}

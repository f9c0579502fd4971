package components

import (
	"strings"
	"testing"

	"github.com/abhisek/studyquest/internal/ui/theme"
)

func TestPanelWidth(t *testing.T) {
	tests := []struct {
		frame, want int
	}{
		{10, 20},
		{50, 44},
		{200, 56},
	}
	for _, tt := range tests {
		if got := PanelWidth(tt.frame); got != tt.want {
			t.Errorf("PanelWidth(%d) = %d, want %d", tt.frame, got, tt.want)
		}
	}
}

func TestButtonMarksSelection(t *testing.T) {
	if !strings.Contains(Button("Go", true, 12), "▸ Go") {
		t.Error("selected button should carry the marker")
	}
	if strings.Contains(Button("Go", false, 12), "▸") {
		t.Error("unselected button should not carry the marker")
	}
}

func TestPanelKeepsContent(t *testing.T) {
	out := Panel("+50 XP", 30, theme.Gold)
	if !strings.Contains(out, "+50 XP") {
		t.Errorf("panel lost its content: %q", out)
	}
}

package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquest/internal/ui/theme"
)

const (
	meterFull  = "█"
	meterEmpty = "░"
	minMeter   = 4
)

// Meter renders fraction (clamped to [0, 1]) as a bar followed by a
// percentage, all within width columns. A non-empty label is printed in
// front. A full meter turns gold.
func Meter(label string, fraction float64, width int) string {
	fraction = max(0, min(fraction, 1))
	pct := fmt.Sprintf(" %3d%%", int(fraction*100+0.5))

	var b strings.Builder
	if label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(label))
		b.WriteString("  ")
	}
	bar := max(width-lipgloss.Width(b.String())-len(pct), minMeter)
	filled := int(float64(bar)*fraction + 0.5)

	fill := theme.Primary
	if fraction >= 1 {
		fill = theme.Gold
	}
	b.WriteString(lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat(meterFull, filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat(meterEmpty, bar-filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(pct))
	return b.String()
}

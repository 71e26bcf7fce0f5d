package output

import (
	"fmt"
	"math"
	"strings"
)

// Percent formats a 0..1 share as a whole percentage.
func Percent(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(clamp(v)*100)))
}

// Bar draws a 0..1 share as a bar of width cells.
func Bar(v float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(clamp(v) * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Package timeutil formats progress dates for CLI output.
package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is used when the server has no date format preference.
const DateLayout = "2006-01-02"

// FormatDate formats t with layout, or "-" for a missing date.
func FormatDate(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	if layout == "" {
		layout = DateLayout
	}
	return t.Format(layout)
}

// FormatAge describes how long ago t was, e.g. "3d ago" or "today".
// Progress dates carry no time of day, so the resolution is one day.
func FormatAge(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days < 0:
		return "in the future"
	case days == 0:
		return "today"
	case days < 60:
		return fmt.Sprintf("%dd ago", days)
	case days < 730:
		return fmt.Sprintf("%dmo ago", days/30)
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}

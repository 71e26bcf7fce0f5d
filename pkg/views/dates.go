package views

import "time"

// DefaultDateLayout is used when no date format is configured.
const DefaultDateLayout = "2006-01-02"

// DateStr formats t with a Go layout. A zero time yields "".
func DateStr(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return t.Format(layout)
}

// DateStrPtr is DateStr for optional dates.
func DateStrPtr(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return DateStr(*t, layout)
}

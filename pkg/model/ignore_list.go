package model

// ignoreList collects what a later activity file asks to drop from the
// activities loaded so far.
type ignoreList struct {
	categories map[string]bool
	dimensions map[string]bool
	uuids      map[string]bool
	names      map[string]bool
}

func newIgnoreList() *ignoreList {
	return &ignoreList{
		categories: make(map[string]bool),
		dimensions: make(map[string]bool),
		uuids:      make(map[string]bool),
		names:      make(map[string]bool),
	}
}

func (l *ignoreList) empty() bool {
	return len(l.categories)+len(l.dimensions)+len(l.uuids)+len(l.names) == 0
}

func (l *ignoreList) matches(a *Activity) bool {
	return l.categories[a.Category] ||
		l.dimensions[a.Dimension] ||
		(a.UUID != "" && l.uuids[a.UUID]) ||
		l.names[a.Name]
}

package model

import "fmt"

// DataStore aggregates everything loaded from the YAML data files.
type DataStore struct {
	Meta       *MetaStore
	Activities *ActivityStore
	Progress   *ProgressStore
}

func NewDataStore() *DataStore {
	return &DataStore{
		Meta:       &MetaStore{Lang: DefaultLang},
		Activities: NewActivityStore(),
		Progress:   NewProgressStore(),
	}
}

// AddActivities replaces the activity store.
func (d *DataStore) AddActivities(s *ActivityStore) {
	d.Activities = s
}

// AddProgressData merges progress into the progress store.
func (d *DataStore) AddProgressData(p Progress) {
	if p == nil {
		return
	}
	d.Progress.AddProgressData(p)
}

// MaxLevel is the highest activity level.
func (d *DataStore) MaxLevel() int {
	return d.Activities.MaxLevel()
}

// Levels returns one display name per maturity level up to MaxLevel. Levels
// without a configured name are called "Level N".
func (d *DataStore) Levels() []string {
	names := d.Meta.StringList("maturity_levels")
	max := d.MaxLevel()
	if max < len(names) {
		max = len(names)
	}
	out := make([]string, 0, max)
	for i := 0; i < max; i++ {
		if i < len(names) && names[i] != "" {
			out = append(out, names[i])
			continue
		}
		out = append(out, fmt.Sprintf("Level %d", i+1))
	}
	return out
}

// MetaString returns a meta string, or key itself when it is not defined.
func (d *DataStore) MetaString(key string, index int) string {
	if s := d.Meta.String(key, index); s != "" {
		return s
	}
	if index >= 0 {
		return fmt.Sprintf("%s[%d]", key, index)
	}
	return key
}

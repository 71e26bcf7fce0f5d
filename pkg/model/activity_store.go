package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Data is the activity hierarchy: category, then dimension, then activity name.
type Data map[string]map[string]map[string]*Activity

// ActivityStore indexes the activities merged from one or more activity files.
// It is not safe for concurrent mutation.
type ActivityStore struct {
	data        Data
	list        []*Activity
	byName      map[string]*Activity
	byUUID      map[string]*Activity
	categories  []string
	dimensions  []string
	byDimension map[string][]*Activity
	maxLevel    int
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{
		data:        make(Data),
		byName:      make(map[string]*Activity),
		byUUID:      make(map[string]*Activity),
		byDimension: make(map[string][]*Activity),
		maxLevel:    -1,
	}
}

// AddActivityFile merges the activities of one YAML document into the store.
//
// The first file populates the store. Later files first drop the activities
// they ignore, then override existing activities field by field (matched by
// uuid, or by name when the new activity has no uuid) and append the rest.
// Data problems such as duplicates are returned as messages; a malformed
// document is returned as an error.
func (s *ActivityStore) AddActivityFile(doc *yaml.Node) ([]string, error) {
	incoming, ignored, err := prepareActivities(doc)
	if err != nil {
		return nil, err
	}

	var problems []string
	if len(s.list) == 0 {
		s.list = incoming
		s.byName = make(map[string]*Activity)
		s.byUUID = make(map[string]*Activity)
		problems = s.buildLookups()
	} else {
		s.removeIgnored(ignored)
		problems = s.merge(incoming)
		problems = append(problems, s.buildLookups()...)
	}

	s.replaceDependsOnUUIDs()
	s.buildHierarchy()
	s.buildDimensions()
	return problems, nil
}

func prepareActivities(doc *yaml.Node) ([]*Activity, *ignoreList, error) {
	ignored := newIgnoreList()
	root := doc
	if root != nil && root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root == nil || (root.Kind == yaml.ScalarNode && root.Tag == "!!null") {
		return nil, ignored, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("line %d: expected categories mapping", root.Line)
	}

	var out []*Activity
	for i := 0; i+1 < len(root.Content); i += 2 {
		category, catNode := root.Content[i].Value, root.Content[i+1]
		if catNode.Kind != yaml.MappingNode {
			return nil, nil, fmt.Errorf("category %q: expected dimensions mapping", category)
		}

		for j := 0; j+1 < len(catNode.Content); j += 2 {
			dimension, dimNode := catNode.Content[j].Value, catNode.Content[j+1]
			if dimension == "ignore" {
				ignored.categories[category] = true
				continue
			}
			if dimNode.Kind != yaml.MappingNode {
				return nil, nil, fmt.Errorf("dimension %q: expected activities mapping", dimension)
			}

			for k := 0; k+1 < len(dimNode.Content); k += 2 {
				name, actNode := dimNode.Content[k].Value, dimNode.Content[k+1]
				if name == "ignore" {
					ignored.dimensions[dimension] = true
					continue
				}

				a := new(Activity)
				if err := actNode.Decode(a); err != nil {
					return nil, nil, fmt.Errorf("activity %q: %w", name, err)
				}
				if a.Ignore {
					if a.UUID != "" {
						ignored.uuids[a.UUID] = true
					} else {
						ignored.names[name] = true
					}
					continue
				}

				a.Category = category
				a.Dimension = dimension
				a.Name = name
				out = append(out, a)
			}
		}
	}
	return out, ignored, nil
}

func (s *ActivityStore) removeIgnored(ignored *ignoreList) {
	if ignored.empty() {
		return
	}
	kept := s.list[:0]
	for _, a := range s.list {
		if !ignored.matches(a) {
			kept = append(kept, a)
		}
	}
	s.list = kept
}

func (s *ActivityStore) merge(incoming []*Activity) []string {
	var problems []string
	for _, a := range incoming {
		var existing *Activity
		if a.UUID == "" {
			existing = s.byName[a.Name]
		} else if e, ok := s.byUUID[a.UUID]; ok {
			existing = e
		} else if e, ok := s.byName[a.Name]; ok {
			problems = append(problems, fmt.Sprintf(
				"The activity '%s' exists with different uuids (%s and %s)", a.Name, a.UUID, e.UUID))
		}

		if existing == nil {
			s.byName[a.Name] = a
			s.byUUID[a.UUID] = a
			s.list = append(s.list, a)
			continue
		}
		existing.overrideWith(a)
		s.byName[existing.Name] = existing
		s.byUUID[existing.UUID] = existing
	}
	return problems
}

func (s *ActivityStore) buildLookups() []string {
	var problems []string
	byName := make(map[string]*Activity, len(s.list))
	byUUID := make(map[string]*Activity, len(s.list))

	for _, a := range s.list {
		n, nameTaken := byName[a.Name]
		u, uuidTaken := byUUID[a.UUID]
		switch {
		case nameTaken && uuidTaken:
			problems = append(problems, fmt.Sprintf(
				"Duplicate activity '%s' (%s). Please remove one from your activity yaml files.", a.Name, a.UUID))
		case nameTaken:
			problems = append(problems, fmt.Sprintf(
				"Duplicate activity name '%s' (%s and %s). Please remove or rename one of the activities.", a.Name, a.UUID, n.UUID))
		case uuidTaken:
			problems = append(problems, fmt.Sprintf(
				"Duplicate activity uuid '%s' ('%s' and '%s').", a.UUID, a.Name, u.Name))
		default:
			byName[a.Name] = a
			byUUID[a.UUID] = a
		}
	}

	s.byName = byName
	s.byUUID = byUUID
	return problems
}

// replaceDependsOnUUIDs swaps uuid references in dependsOn for activity names.
func (s *ActivityStore) replaceDependsOnUUIDs() {
	for _, a := range s.list {
		for i, dep := range a.DependsOn {
			if !uuidPattern.MatchString(dep) {
				continue
			}
			if target, ok := s.byUUID[dep]; ok {
				a.DependsOn[i] = target.Name
			}
		}
	}
}

func (s *ActivityStore) buildHierarchy() {
	data := make(Data)
	for _, a := range s.list {
		dims, ok := data[a.Category]
		if !ok {
			dims = make(map[string]map[string]*Activity)
			data[a.Category] = dims
		}
		acts, ok := dims[a.Dimension]
		if !ok {
			acts = make(map[string]*Activity)
			dims[a.Dimension] = acts
		}
		acts[a.Name] = a
	}
	s.data = data
}

func (s *ActivityStore) buildDimensions() {
	s.maxLevel = -1
	s.categories = nil
	s.dimensions = nil
	s.byDimension = make(map[string][]*Activity)

	seenCategory := make(map[string]bool)
	for _, a := range s.list {
		if !seenCategory[a.Category] {
			seenCategory[a.Category] = true
			s.categories = append(s.categories, a.Category)
		}
		if _, ok := s.byDimension[a.Dimension]; !ok {
			s.dimensions = append(s.dimensions, a.Dimension)
		}
		s.byDimension[a.Dimension] = append(s.byDimension[a.Dimension], a)
		if a.Level > s.maxLevel {
			s.maxLevel = a.Level
		}
	}
}

// Data returns the category/dimension/activity hierarchy.
func (s *ActivityStore) Data() Data { return s.data }

// AllActivities returns every activity in load order.
func (s *ActivityStore) AllActivities() []*Activity { return s.list }

// AllActivitiesUpToLevel returns the activities with a level of at most
// maxLevel. A maxLevel of 0 or less returns all activities.
func (s *ActivityStore) AllActivitiesUpToLevel(maxLevel int) []*Activity {
	if maxLevel <= 0 {
		return s.list
	}
	out := make([]*Activity, 0, len(s.list))
	for _, a := range s.list {
		if a.Level <= maxLevel {
			out = append(out, a)
		}
	}
	return out
}

// AllCategoryNames returns category names in first-seen order.
func (s *ActivityStore) AllCategoryNames() []string { return s.categories }

// AllDimensionNames returns dimension names in first-seen order.
func (s *ActivityStore) AllDimensionNames() []string { return s.dimensions }

func (s *ActivityStore) ActivityByName(name string) (*Activity, bool) {
	a, ok := s.byName[name]
	return a, ok
}

func (s *ActivityStore) ActivityByUUID(uuid string) (*Activity, bool) {
	a, ok := s.byUUID[uuid]
	return a, ok
}

// Activity looks an activity up by uuid and falls back to its name.
func (s *ActivityStore) Activity(uuid, name string) (*Activity, bool) {
	if a, ok := s.byUUID[uuid]; ok && uuid != "" {
		return a, true
	}
	return s.ActivityByName(name)
}

// Activities returns the activities of a dimension at exactly level.
func (s *ActivityStore) Activities(dimension string, level int) []*Activity {
	var out []*Activity
	for _, a := range s.byDimension[dimension] {
		if a.Level == level {
			out = append(out, a)
		}
	}
	return out
}

// MaxLevel is the highest activity level, or -1 when the store is empty.
func (s *ActivityStore) MaxLevel() int { return s.maxLevel }

// ActivityMap maps activity uuids to names.
func (s *ActivityStore) ActivityMap() map[string]string {
	m := make(map[string]string, len(s.list))
	for _, a := range s.list {
		m[a.UUID] = a.Name
	}
	return m
}

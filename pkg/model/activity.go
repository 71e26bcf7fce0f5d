package model

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// uuidPattern matches the activity uuids used in dependsOn lists.
var uuidPattern = regexp.MustCompile(`(?i)([0-9a-f]{6,}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{6,})`)

// Activity is a single maturity-model activity. Category, Dimension and Name
// come from the keys of the enclosing YAML mappings.
type Activity struct {
	UUID       string `yaml:"uuid" json:"uuid"`
	Category   string `yaml:"-" json:"category"`
	Dimension  string `yaml:"-" json:"dimension"`
	Name       string `yaml:"-" json:"name"`
	Level      int    `yaml:"level" json:"level"`
	Ignore     bool   `yaml:"ignore,omitempty" json:"-"`
	Usefulness int    `yaml:"usefulness,omitempty" json:"usefulness,omitempty"`

	Description         MarkdownText `yaml:"description,omitempty" json:"description,omitempty"`
	Risk                MarkdownText `yaml:"risk,omitempty" json:"risk,omitempty"`
	Measure             MarkdownText `yaml:"measure,omitempty" json:"measure,omitempty"`
	ImplementationGuide MarkdownText `yaml:"implementationGuide,omitempty" json:"implementationGuide,omitempty"`
	Comments            MarkdownText `yaml:"comments,omitempty" json:"comments,omitempty"`
	Evidence            MarkdownText `yaml:"evidence,omitempty" json:"evidence,omitempty"`
	Assessment          MarkdownText `yaml:"assessment,omitempty" json:"assessment,omitempty"`

	Tags                       StringList              `yaml:"tags,omitempty" json:"tags,omitempty"`
	DependsOn                  StringList              `yaml:"dependsOn,omitempty" json:"dependsOn,omitempty"`
	DifficultyOfImplementation Difficulty              `yaml:"difficultyOfImplementation,omitempty" json:"difficultyOfImplementation"`
	Implementation             []Implementation        `yaml:"implementation,omitempty" json:"implementation,omitempty"`
	References                 References              `yaml:"references,omitempty" json:"references"`
	TeamsEvidence              map[string]MarkdownText `yaml:"teamsEvidence,omitempty" json:"teamsEvidence,omitempty"`
	IsImplemented              bool                    `yaml:"isImplemented,omitempty" json:"isImplemented,omitempty"`

	// keys present in the YAML mapping this activity was decoded from
	present map[string]bool
}

// Difficulty rates how hard an activity is to implement, usually on a 1 to 5 scale.
type Difficulty struct {
	Knowledge int `yaml:"knowledge" json:"knowledge"`
	Time      int `yaml:"time" json:"time"`
	Resources int `yaml:"resources" json:"resources"`
}

// Implementation is a tool or practice that helps implementing an activity.
type Implementation struct {
	UUID        string       `yaml:"uuid,omitempty" json:"uuid,omitempty"`
	Name        string       `yaml:"name" json:"name"`
	Tags        StringList   `yaml:"tags,omitempty" json:"tags,omitempty"`
	URL         string       `yaml:"url,omitempty" json:"url,omitempty"`
	Description MarkdownText `yaml:"description,omitempty" json:"description,omitempty"`
}

// References maps an activity to controls of other frameworks.
type References struct {
	SAMM2       StringList `yaml:"samm2,omitempty" json:"samm2,omitempty"`
	ISO27001v17 StringList `yaml:"iso27001-2017,omitempty" json:"iso27001_2017,omitempty"`
	ISO27001v22 StringList `yaml:"iso27001-2022,omitempty" json:"iso27001_2022,omitempty"`
	OpenCRE     StringList `yaml:"openCRE,omitempty" json:"openCRE,omitempty"`
}

// UnmarshalYAML accepts both the dashed ISO keys used in the data files and
// their underscore spelling.
func (r *References) UnmarshalYAML(n *yaml.Node) error {
	var raw map[string]StringList
	if err := n.Decode(&raw); err != nil {
		return err
	}
	for k, v := range raw {
		switch k {
		case "samm2":
			r.SAMM2 = v
		case "iso27001-2017", "iso27001_2017":
			r.ISO27001v17 = v
		case "iso27001-2022", "iso27001_2022":
			r.ISO27001v22 = v
		case "openCRE":
			r.OpenCRE = v
		}
	}
	return nil
}

// StringList decodes either a YAML sequence or a single scalar.
type StringList []string

func (s *StringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = StringList{n.Value}
		return nil
	case yaml.SequenceNode:
		out := make(StringList, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected a string", c.Line)
			}
			out = append(out, c.Value)
		}
		*s = out
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", n.Line)
}

// Contains reports whether v is in the list.
func (s StringList) Contains(v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

func (a *Activity) UnmarshalYAML(n *yaml.Node) error {
	type plain Activity
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*a = Activity(p)

	a.present = make(map[string]bool)
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			a.present[n.Content[i].Value] = true
		}
	}
	return nil
}

// has reports whether key was set in the source YAML. Activities built in
// code count every field as set.
func (a *Activity) has(key string) bool {
	if a.present == nil {
		return true
	}
	return a.present[key]
}

// overrideWith copies the fields set on src into a. Fields src does not
// define keep their current value.
func (a *Activity) overrideWith(src *Activity) {
	a.Category = src.Category
	a.Dimension = src.Dimension
	a.Name = src.Name

	set := func(key string, apply func()) {
		if src.has(key) {
			apply()
		}
	}
	set("uuid", func() { a.UUID = src.UUID })
	set("level", func() { a.Level = src.Level })
	set("usefulness", func() { a.Usefulness = src.Usefulness })
	set("description", func() { a.Description = src.Description })
	set("risk", func() { a.Risk = src.Risk })
	set("measure", func() { a.Measure = src.Measure })
	set("implementationGuide", func() { a.ImplementationGuide = src.ImplementationGuide })
	set("comments", func() { a.Comments = src.Comments })
	set("evidence", func() { a.Evidence = src.Evidence })
	set("assessment", func() { a.Assessment = src.Assessment })
	set("tags", func() { a.Tags = src.Tags })
	set("dependsOn", func() { a.DependsOn = src.DependsOn })
	set("difficultyOfImplementation", func() { a.DifficultyOfImplementation = src.DifficultyOfImplementation })
	set("implementation", func() { a.Implementation = src.Implementation })
	set("references", func() { a.References = src.References })
	set("teamsEvidence", func() { a.TeamsEvidence = src.TeamsEvidence })
	set("isImplemented", func() { a.IsImplemented = src.IsImplemented })
}

// HasAnyTag reports whether the activity carries one of the selected tags.
func (a *Activity) HasAnyTag(selected map[string]bool) bool {
	for _, t := range a.Tags {
		if selected[t] {
			return true
		}
	}
	return false
}

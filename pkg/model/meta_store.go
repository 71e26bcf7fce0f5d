package model

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLang is used when meta.yaml does not name a language.
const DefaultLang = "en"

// Group is a named set of teams.
type Group struct {
	Name  string   `json:"name"`
	Teams []string `json:"teams"`
}

// Groups keeps team groups in the order they were defined.
type Groups []Group

func (g *Groups) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		*g = nil
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected group to teams mapping", n.Line)
	}
	out := make(Groups, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var teams StringList
		if err := n.Content[i+1].Decode(&teams); err != nil {
			return fmt.Errorf("group %q: %w", n.Content[i].Value, err)
		}
		out = append(out, Group{Name: n.Content[i].Value, Teams: []string(teams)})
	}
	*g = out
	return nil
}

func (g Groups) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, grp := range g {
		teams := &yaml.Node{Kind: yaml.SequenceNode}
		for _, t := range grp.Teams {
			teams.Content = append(teams.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: t})
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: grp.Name}, teams)
	}
	return n, nil
}

// Find returns the group with the given name.
func (g Groups) Find(name string) (Group, bool) {
	for _, grp := range g {
		if grp.Name == name {
			return grp, true
		}
	}
	return Group{}, false
}

// Names lists the group names in order.
func (g Groups) Names() []string {
	out := make([]string, len(g))
	for i, grp := range g {
		out[i] = grp.Name
	}
	return out
}

// Clone returns a deep copy.
func (g Groups) Clone() Groups {
	if g == nil {
		return nil
	}
	out := make(Groups, len(g))
	for i, grp := range g {
		out[i] = Group{Name: grp.Name, Teams: append([]string(nil), grp.Teams...)}
	}
	return out
}

// ActivityMeta is the optional meta document at the start of an activity file.
type ActivityMeta struct {
	DsommVersion string         `yaml:"dsommVersion,omitempty" json:"dsommVersion,omitempty"`
	Released     string         `yaml:"released,omitempty" json:"released,omitempty"`
	Publisher    string         `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Source       string         `yaml:"source,omitempty" json:"source,omitempty"`
	Extra        map[string]any `yaml:",inline" json:"extra,omitempty"`
}

// NewerThan compares dotted versions such as "v1.10.2" numerically.
// Missing components count as zero.
func (m *ActivityMeta) NewerThan(other *ActivityMeta) bool {
	if m == nil || m.DsommVersion == "" {
		return false
	}
	if other == nil || other.DsommVersion == "" {
		return true
	}
	return compareVersions(m.DsommVersion, other.DsommVersion) > 0
}

func compareVersions(a, b string) int {
	pa := strings.Split(strings.TrimPrefix(strings.TrimSpace(a), "v"), ".")
	pb := strings.Split(strings.TrimPrefix(strings.TrimSpace(b), "v"), ".")
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var sa, sb string
		if i < len(pa) {
			sa = pa[i]
		}
		if i < len(pb) {
			sb = pb[i]
		}
		na, errA := strconv.Atoi(orZero(sa))
		nb, errB := strconv.Atoi(orZero(sb))
		if errA != nil || errB != nil {
			if c := strings.Compare(sa, sb); c != 0 {
				return c
			}
			continue
		}
		if na != nb {
			if na > nb {
				return 1
			}
			return -1
		}
	}
	return 0
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// MetaStore holds the content of meta.yaml plus the team edits applied on top.
type MetaStore struct {
	Strings                      map[string]map[string]any     `yaml:"strings" json:"strings"`
	Lang                         string                        `yaml:"lang" json:"lang"`
	ProgressDefinition           map[string]ProgressDefinition `yaml:"progressDefinition" json:"progressDefinition"`
	Teams                        []string                      `yaml:"teams" json:"teams"`
	TeamGroups                   Groups                        `yaml:"teamGroups" json:"teamGroups"`
	ActivityFiles                []string                      `yaml:"activityFiles" json:"activityFiles"`
	TeamProgressFile             string                        `yaml:"teamProgressFile" json:"teamProgressFile"`
	AllowChangeTeamNameInBrowser bool                          `yaml:"allowChangeTeamNameInBrowser" json:"allowChangeTeamNameInBrowser"`

	ActivityMeta *ActivityMeta `yaml:"-" json:"activityMeta,omitempty"`

	fileTeams  []string
	fileGroups Groups
}

// TeamsDocument is the stored form of edited teams and groups.
type TeamsDocument struct {
	Teams      []string `yaml:"teams" json:"teams"`
	TeamGroups Groups   `yaml:"teamGroups" json:"teamGroups"`
}

// ParseMeta decodes a meta document whose references are already resolved.
func ParseMeta(n *yaml.Node) (*MetaStore, error) {
	m := &MetaStore{}
	if err := n.Decode(m); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	if m.Lang == "" {
		m.Lang = DefaultLang
	}
	if m.Teams == nil {
		m.Teams = []string{}
	}
	m.fileTeams = append([]string(nil), m.Teams...)
	m.fileGroups = m.TeamGroups.Clone()
	return m, nil
}

// langStrings returns the strings of the active language, or of the default language.
func (m *MetaStore) langStrings() map[string]any {
	if s, ok := m.Strings[m.Lang]; ok {
		return s
	}
	return m.Strings[DefaultLang]
}

// String returns a meta string. With index >= 0 the string is an element of
// a list. Missing strings yield the empty string.
func (m *MetaStore) String(key string, index int) string {
	v, ok := m.langStrings()[key]
	if !ok {
		return ""
	}
	if index < 0 {
		if s, ok := v.(string); ok {
			return s
		}
		return ""
	}
	list, ok := v.([]any)
	if !ok || index >= len(list) {
		return ""
	}
	return fmt.Sprint(list[index])
}

// StringList returns a meta string list such as the maturity level names.
func (m *MetaStore) StringList(key string) []string {
	list, ok := m.langStrings()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = fmt.Sprint(v)
	}
	return out
}

// FilterGroupMembers drops group members that are not defined as teams.
func (m *MetaStore) FilterGroupMembers() {
	filterMembers(m.Teams, m.TeamGroups)
}

func filterMembers(teams []string, groups Groups) {
	known := make(map[string]bool, len(teams))
	for _, t := range teams {
		known[t] = true
	}
	for i, g := range groups {
		kept := g.Teams[:0]
		for _, t := range g.Teams {
			if known[t] {
				kept = append(kept, t)
			}
		}
		groups[i].Teams = kept
	}
}

// Normalized returns a copy whose groups only list defined teams.
func (d TeamsDocument) Normalized() TeamsDocument {
	out := TeamsDocument{Teams: append([]string{}, d.Teams...), TeamGroups: d.TeamGroups.Clone()}
	filterMembers(out.Teams, out.TeamGroups)
	return out
}

// YAML renders the document in meta.yaml form.
func (d TeamsDocument) YAML() (string, error) {
	b, err := yaml.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UpdateTeamsAndGroups replaces the teams and groups.
func (m *MetaStore) UpdateTeamsAndGroups(teams []string, groups Groups) {
	m.Teams = append([]string(nil), teams...)
	m.TeamGroups = groups.Clone()
	m.FilterGroupMembers()
}

// ResetTeamsAndGroups reverts to the teams and groups of meta.yaml.
func (m *MetaStore) ResetTeamsAndGroups() {
	m.Teams = append([]string(nil), m.fileTeams...)
	m.TeamGroups = m.fileGroups.Clone()
	m.FilterGroupMembers()
}

// TeamsDocument returns the current teams and groups.
func (m *MetaStore) TeamsDocument() TeamsDocument {
	return TeamsDocument{Teams: append([]string(nil), m.Teams...), TeamGroups: m.TeamGroups.Clone()}
}

// TeamsYAML renders the current teams and groups as a YAML document that can
// be pasted into meta.yaml.
func (m *MetaStore) TeamsYAML() (string, error) {
	return m.TeamsDocument().YAML()
}

// HasTeam reports whether name is a known team.
func (m *MetaStore) HasTeam(name string) bool {
	for _, t := range m.Teams {
		if t == name {
			return true
		}
	}
	return false
}

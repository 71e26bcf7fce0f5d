package tracker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/marmos91/dsomm/pkg/model"
)

// FindNextName returns "<prefix> N" for the smallest N > len(existing)
// that is not taken.
func FindNextName(existing []string, prefix string) string {
	for i := len(existing) + 1; ; i++ {
		name := fmt.Sprintf("%s %d", prefix, i)
		if !slices.Contains(existing, name) {
			return name
		}
	}
}

// ComputeRenames pairs old and new team lists by position, the way the
// teams editor saves. A position only counts as a rename when the new name
// is not one of the old names, so deleting or reordering teams never merges
// progress of two teams.
func ComputeRenames(oldTeams, newTeams []string) map[string]string {
	renames := make(map[string]string)
	for i, old := range oldTeams {
		if i >= len(newTeams) {
			break
		}
		name := newTeams[i]
		if name == old || name == "" || slices.Contains(oldTeams, name) || slices.Contains(newTeams, old) {
			continue
		}
		renames[old] = name
	}
	return renames
}

// AddTeam appends a team with the next free default name.
func AddTeam(doc *model.TeamsDocument) string {
	name := FindNextName(doc.Teams, "Team")
	doc.Teams = append(doc.Teams, name)
	return name
}

// RenameTeam renames a team and its group memberships.
func RenameTeam(doc *model.TeamsDocument, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return model.ErrEmptyName
	}
	idx := slices.Index(doc.Teams, oldName)
	if idx < 0 {
		return fmt.Errorf("%w: %s", model.ErrTeamNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if slices.Contains(doc.Teams, newName) {
		return fmt.Errorf("%w: %s", model.ErrDuplicateName, newName)
	}
	doc.Teams[idx] = newName
	for i := range doc.TeamGroups {
		for j, t := range doc.TeamGroups[i].Teams {
			if t == oldName {
				doc.TeamGroups[i].Teams[j] = newName
			}
		}
	}
	return nil
}

// DeleteTeam removes a team from the team list and every group.
func DeleteTeam(doc *model.TeamsDocument, name string) {
	doc.Teams = slices.DeleteFunc(doc.Teams, func(t string) bool { return t == name })
	for i := range doc.TeamGroups {
		doc.TeamGroups[i].Teams = slices.DeleteFunc(doc.TeamGroups[i].Teams, func(t string) bool { return t == name })
	}
}

// AddGroup appends an empty group with the next free default name.
func AddGroup(doc *model.TeamsDocument) string {
	name := FindNextName(doc.TeamGroups.Names(), "Group")
	doc.TeamGroups = append(doc.TeamGroups, model.Group{Name: name, Teams: []string{}})
	return name
}

// RenameGroup renames a group in place.
func RenameGroup(doc *model.TeamsDocument, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return model.ErrEmptyName
	}
	idx := slices.IndexFunc(doc.TeamGroups, func(g model.Group) bool { return g.Name == oldName })
	if idx < 0 {
		return fmt.Errorf("%w: %s", model.ErrGroupNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, ok := doc.TeamGroups.Find(newName); ok {
		return fmt.Errorf("%w: %s", model.ErrDuplicateName, newName)
	}
	doc.TeamGroups[idx].Name = newName
	return nil
}

// DeleteGroup removes a group. Its teams are kept.
func DeleteGroup(doc *model.TeamsDocument, name string) {
	doc.TeamGroups = slices.DeleteFunc(doc.TeamGroups, func(g model.Group) bool { return g.Name == name })
}

// ToggleTeamInGroup adds the team to the group, or removes it when it is
// already a member.
func ToggleTeamInGroup(doc *model.TeamsDocument, team, group string) error {
	if !slices.Contains(doc.Teams, team) {
		return fmt.Errorf("%w: %s", model.ErrTeamNotFound, team)
	}
	idx := slices.IndexFunc(doc.TeamGroups, func(g model.Group) bool { return g.Name == group })
	if idx < 0 {
		return fmt.Errorf("%w: %s", model.ErrGroupNotFound, group)
	}
	members := doc.TeamGroups[idx].Teams
	if slices.Contains(members, team) {
		doc.TeamGroups[idx].Teams = slices.DeleteFunc(members, func(t string) bool { return t == team })
	} else {
		doc.TeamGroups[idx].Teams = append(members, team)
	}
	return nil
}

// RelatedGroups lists the groups a team belongs to.
func RelatedGroups(doc *model.TeamsDocument, team string) []string {
	var out []string
	for _, g := range doc.TeamGroups {
		if slices.Contains(g.Teams, team) {
			out = append(out, g.Name)
		}
	}
	return out
}

// RelatedTeams lists the members of a group.
func RelatedTeams(doc *model.TeamsDocument, group string) []string {
	g, ok := doc.TeamGroups.Find(group)
	if !ok {
		return nil
	}
	return g.Teams
}

// validateTeams rejects empty and duplicate team or group names.
func validateTeams(doc *model.TeamsDocument) error {
	seen := make(map[string]bool, len(doc.Teams))
	for _, t := range doc.Teams {
		if strings.TrimSpace(t) == "" {
			return model.ErrEmptyName
		}
		if seen[t] {
			return fmt.Errorf("%w: team %s", model.ErrDuplicateName, t)
		}
		seen[t] = true
	}
	groups := make(map[string]bool, len(doc.TeamGroups))
	for _, g := range doc.TeamGroups {
		if strings.TrimSpace(g.Name) == "" {
			return model.ErrEmptyName
		}
		if groups[g.Name] {
			return fmt.Errorf("%w: group %s", model.ErrDuplicateName, g.Name)
		}
		groups[g.Name] = true
	}
	return nil
}

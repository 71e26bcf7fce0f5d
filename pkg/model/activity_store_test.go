package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const baseActivities = `
Category 1:
  Dimension 11:
    Activity 111:
      uuid: 00000000-1111-1111-1111-000000000000
      level: 1
      description: Description from base yaml
      tags: [scanning, ci]
    Activity 112:
      uuid: 00000000-1111-1111-2222-000000000000
      level: 1
      description: Description from base yaml
      dependsOn:
        - 00000000-1111-1111-1111-000000000000
  Dimension 12:
    Activity 121:
      uuid: 00000000-1111-2222-1111-000000000000
      level: 1
      description: Description from base yaml
      references:
        samm2: [I-SB-A-1]
        iso27001-2017: ["12.6.1"]
        iso27001-2022: "8.8"
    Activity 122:
      uuid: 00000000-1111-2222-2222-000000000000
      level: 1
      description: Description from base yaml
Category 2:
  Dimension 21:
    Activity 211:
      uuid: 00000000-2222-1111-1111-000000000000
      level: 1
      description: Description from base yaml
`

const extraActivities = `
Category 1:
  Dimension 11:
    OVERRIDE 111:
      uuid: 00000000-1111-1111-1111-000000000000
      level: 2
      description: OVERRIDE DESC AND LEVEL
    Activity 112:
      description: 'OVERRIDE: BASED ON NAME'
  Dimension 12:
    Activity 121:
      ignore: true
Category 2:
  Dimension 21:
    ignore: true
Category 3:
  Dimension 31:
    New Activity 311:
      uuid: 00000000-3333-1111-1111-000000000000
      level: 3
`

func parseDoc(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &n))
	return &n
}

func loadStore(t *testing.T, docs ...string) (*ActivityStore, []string) {
	t.Helper()
	s := NewActivityStore()
	var problems []string
	for _, d := range docs {
		p, err := s.AddActivityFile(parseDoc(t, d))
		require.NoError(t, err)
		problems = append(problems, p...)
	}
	return s, problems
}

func TestActivityStoreLoadBase(t *testing.T) {
	s, problems := loadStore(t, baseActivities)
	require.Empty(t, problems)

	assert.Equal(t, []string{"Dimension 11", "Dimension 12", "Dimension 21"}, s.AllDimensionNames())
	assert.Equal(t, []string{"Category 1", "Category 2"}, s.AllCategoryNames())
	assert.Equal(t, 1, s.MaxLevel())

	a, ok := s.ActivityByUUID("00000000-1111-1111-1111-000000000000")
	require.True(t, ok)
	assert.Equal(t, "Activity 111", a.Name)
	assert.Equal(t, "Category 1", a.Category)
	assert.Equal(t, "Dimension 11", a.Dimension)

	b, ok := s.ActivityByName("Activity 121")
	require.True(t, ok)
	assert.Equal(t, "00000000-1111-2222-1111-000000000000", b.UUID)
	assert.Equal(t, StringList{"I-SB-A-1"}, b.References.SAMM2)
	assert.Equal(t, StringList{"12.6.1"}, b.References.ISO27001v17)
	assert.Equal(t, StringList{"8.8"}, b.References.ISO27001v22)

	level1 := s.Activities("Dimension 11", 1)
	require.Len(t, level1, 2)
	assert.Equal(t, "Activity 112", level1[1].Name)
	assert.Empty(t, s.Activities("Dimension 11", 2))

	assert.Contains(t, s.Data()["Category 2"]["Dimension 21"], "Activity 211")
}

func TestActivityStoreDependsOnNames(t *testing.T) {
	s, _ := loadStore(t, baseActivities)

	a, ok := s.ActivityByName("Activity 112")
	require.True(t, ok)
	assert.Equal(t, StringList{"Activity 111"}, a.DependsOn)
}

func TestActivityStoreOverride(t *testing.T) {
	s, problems := loadStore(t, baseActivities, extraActivities)
	require.Empty(t, problems)

	assert.Len(t, s.AllDimensionNames(), 3)

	_, ok := s.ActivityByName("Activity 111")
	assert.False(t, ok, "renamed by uuid match")

	renamed, ok := s.ActivityByName("OVERRIDE 111")
	require.True(t, ok)
	assert.Equal(t, "00000000-1111-1111-1111-000000000000", renamed.UUID)
	assert.Equal(t, MarkdownText("OVERRIDE DESC AND LEVEL"), renamed.Description)
	assert.Equal(t, 2, renamed.Level)
	assert.Equal(t, StringList{"scanning", "ci"}, renamed.Tags, "fields absent from the override are kept")

	byName, ok := s.ActivityByName("Activity 112")
	require.True(t, ok)
	assert.Equal(t, MarkdownText("OVERRIDE: BASED ON NAME"), byName.Description)
	assert.Equal(t, "00000000-1111-1111-2222-000000000000", byName.UUID)
	assert.Equal(t, StringList{"Activity 111"}, byName.DependsOn, "resolved when first loaded")

	_, ok = s.ActivityByName("Activity 121")
	assert.False(t, ok, "ignored by name")
	_, ok = s.ActivityByName("Activity 211")
	assert.False(t, ok, "ignored by dimension")

	_, ok = s.ActivityByName("New Activity 311")
	assert.True(t, ok)
	assert.Equal(t, 3, s.MaxLevel())
	assert.Len(t, s.AllActivitiesUpToLevel(2), 3)
	assert.Len(t, s.AllActivitiesUpToLevel(0), 4)
}

func TestActivityStoreDuplicates(t *testing.T) {
	dupes := baseActivities + `
Category 3:
  Dimension 31:
    Activity 111:
      uuid: 00000000-1111-1111-1111-000000000000
      level: 1
    Activity 311:
      uuid: 00000000-1111-1111-1111-000000000000
      level: 1
    Activity 121:
      uuid: fake-uuid
      level: 1
`
	_, problems := loadStore(t, dupes)
	require.Len(t, problems, 3)
	assert.True(t, containsSubstring(problems, "Duplicate activity '"))
	assert.True(t, containsSubstring(problems, "Duplicate activity uuid"))
	assert.True(t, containsSubstring(problems, "Duplicate activity name"))
}

func TestActivityStoreMergeDifferentUUIDs(t *testing.T) {
	extra := `
Category 1:
  Dimension 12:
    Activity 121:
      ignore: true
Category 2:
  Dimension 21:
    Activity 121:
      uuid: fake-uuid
      level: 1
`
	_, problems := loadStore(t, baseActivities, extra)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "exists with different uuids")
}

func TestActivityStoreIgnoreCategory(t *testing.T) {
	extra := `
Category 2:
  ignore: true
`
	s, problems := loadStore(t, baseActivities, extra)
	require.Empty(t, problems)
	assert.Equal(t, []string{"Category 1"}, s.AllCategoryNames())
}

func TestActivityStoreMalformed(t *testing.T) {
	s := NewActivityStore()
	_, err := s.AddActivityFile(parseDoc(t, "- just\n- a list\n"))
	assert.Error(t, err)

	_, err = s.AddActivityFile(parseDoc(t, "Category:\n  Dimension:\n    Act:\n      level: [1]\n"))
	assert.Error(t, err)
}

func TestActivityLookupFallsBackToName(t *testing.T) {
	s, _ := loadStore(t, baseActivities)

	a, ok := s.Activity("unknown-uuid", "Activity 122")
	require.True(t, ok)
	assert.Equal(t, "00000000-1111-2222-2222-000000000000", a.UUID)

	_, ok = s.Activity("", "nope")
	assert.False(t, ok)
}

func TestMarkdownHTML(t *testing.T) {
	html, err := MarkdownText("Use **SAST** in https://example.org").HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>SAST</strong>")
	assert.Contains(t, html, `<a href="https://example.org">`)

	empty, err := MarkdownText("").HTML()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

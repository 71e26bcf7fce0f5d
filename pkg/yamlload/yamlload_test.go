package yamlload

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/dsomm/pkg/source"
)

func decode(t *testing.T, n *yaml.Node) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, n.Decode(&out))
	return out
}

func TestParseMultiple(t *testing.T) {
	docs, err := ParseMultiple([]byte("meta:\n  dsommVersion: v1\n---\nCat:\n  Dim: {}\n"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, yaml.MappingNode, docs[0].Kind)
	assert.Equal(t, "meta", docs[0].Content[0].Value)

	n, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "!!null", n.Tag)
}

func TestResolveReferences(t *testing.T) {
	fsys := fstest.MapFS{
		"yaml/meta.yaml": {Data: []byte(`
strings:
  en:
    $ref: strings.yaml#/en
labels:
  $ref: "#/strings/en/labels"
teams: [A, B]
`)},
		"yaml/strings.yaml": {Data: []byte(`
en:
  labels: [Very Low, Low, High]
  allTeamsGroupName: All
  nested:
    $ref: "#/other"
other: value
`)},
	}
	svc := New(source.NewFS(fsys))

	n, err := svc.LoadWithReferencesResolved(context.Background(), "yaml/meta.yaml")
	require.NoError(t, err)

	out := decode(t, n)
	en := out["strings"].(map[string]any)["en"].(map[string]any)
	assert.Equal(t, "All", en["allTeamsGroupName"])
	assert.Equal(t, "value", en["nested"])
	assert.Equal(t, []any{"Very Low", "Low", "High"}, out["labels"])
}

func TestResolveMissingPath(t *testing.T) {
	fsys := fstest.MapFS{
		"meta.yaml": {Data: []byte("a:\n  $ref: other.yaml#/missing\n")},
		"other.yaml": {Data: []byte("present: 1\n")},
	}
	_, err := New(source.NewFS(fsys)).LoadWithReferencesResolved(context.Background(), "meta.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot find '/missing'")
}

func TestResolveCircularFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("x:\n  $ref: b.yaml\n")},
		"b.yaml": {Data: []byte("y:\n  $ref: a.yaml\n")},
	}
	_, err := New(source.NewFS(fsys)).LoadWithReferencesResolved(context.Background(), "a.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular reference")
}

func TestReferencedFilesAreCached(t *testing.T) {
	fsys := fstest.MapFS{
		"meta.yaml":   {Data: []byte("a:\n  $ref: shared.yaml#/v\nb:\n  $ref: shared.yaml#/v\n")},
		"shared.yaml": {Data: []byte("v: 1\n")},
	}
	svc := New(source.NewFS(fsys))
	_, err := svc.LoadWithReferencesResolved(context.Background(), "meta.yaml")
	require.NoError(t, err)
	assert.Contains(t, svc.refs, "shared.yaml")

	svc.ClearCache()
	assert.Empty(t, svc.refs)
}

func TestGetYPath(t *testing.T) {
	n, err := Parse([]byte("a:\n  b:\n    - x\n    - y\n"))
	require.NoError(t, err)

	got, err := GetYPath(n, "/a/b/1")
	require.NoError(t, err)
	assert.Equal(t, "y", got.Value)

	same, err := GetYPath(n, "")
	require.NoError(t, err)
	assert.Same(t, n, same)

	_, err = GetYPath(n, "/a/c")
	assert.Error(t, err)
}

func TestParseRef(t *testing.T) {
	file, p := ParseRef(" strings.yaml # /en ")
	assert.Equal(t, "strings.yaml", file)
	assert.Equal(t, "/en", p)

	file, p = ParseRef("#/local")
	assert.Empty(t, file)
	assert.Equal(t, "/local", p)
}

func TestMakeFullPath(t *testing.T) {
	tests := []struct {
		rel, to string
		want    string
		wantErr bool
	}{
		{"strings.yaml", "assets/YAML/meta.yaml", "assets/YAML/strings.yaml", false},
		{"default/activities.yaml", "assets/YAML/meta.yaml", "assets/YAML/default/activities.yaml", false},
		{"./x/../y.yaml", "assets/YAML/meta.yaml", "assets/YAML/y.yaml", false},
		{"../secret.yaml", "assets/YAML/meta.yaml", "", true},
		{"/assets/YAML/z.yaml", "assets/YAML/meta.yaml", "assets/YAML/z.yaml", false},
		{"/etc/passwd", "assets/YAML/meta.yaml", "", true},
		{"sub/a.yaml", "meta.yaml", "sub/a.yaml", false},
		{"../a.yaml", "meta.yaml", "", true},
	}
	for _, tt := range tests {
		got, err := MakeFullPath(tt.rel, tt.to)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrEscapesRoot, tt.rel)
			continue
		}
		require.NoError(t, err, tt.rel)
		assert.Equal(t, tt.want, got, tt.rel)
	}
}

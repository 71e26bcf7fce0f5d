package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSReadFile(t *testing.T) {
	src := NewFS(fstest.MapFS{
		"meta.yaml":            {Data: []byte("teams: []\n")},
		"activities/base.yaml": {Data: []byte("C: {}\n")},
	})
	ctx := context.Background()

	data, err := src.ReadFile(ctx, "activities/../meta.yaml")
	require.NoError(t, err)
	assert.Equal(t, "teams: []\n", string(data))

	_, err = src.ReadFile(ctx, "missing.yaml")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.ReadFile(ctx, "../etc/passwd")
	assert.Error(t, err)

	assert.Equal(t, "fs", src.String())
	assert.Empty(t, src.Dir())
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.yaml"), []byte("lang: en\n"), 0o644))

	src := NewDir(dir)
	data, err := src.ReadFile(context.Background(), "meta.yaml")
	require.NoError(t, err)
	assert.Equal(t, "lang: en\n", string(data))
	assert.Equal(t, dir, src.Dir())

	var _ Local = src
}

func TestFSReadFileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFS(fstest.MapFS{}).ReadFile(ctx, "meta.yaml")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewS3Prefix(t *testing.T) {
	s := NewS3(nil, "bucket", "data")
	assert.Equal(t, "s3://bucket/data/", s.String())
}

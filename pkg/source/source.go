// Package source reads the YAML data files from a local directory or an S3
// bucket. Paths are slash separated and relative to the source root.
package source

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a file does not exist in the source.
var ErrNotFound = errors.New("file not found")

// Source reads data files by relative path.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// String describes the source for log lines.
	String() string
}

// Local is implemented by sources backed by a directory on this machine,
// which can be watched for changes.
type Local interface {
	Source
	Dir() string
}

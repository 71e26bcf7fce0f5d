package loader

import (
	"errors"
	"strings"
)

// ErrNotWatchable is returned by Watch for sources that are not local directories.
var ErrNotWatchable = errors.New("data source is not a local directory")

// DataValidationError reports content problems in the YAML data files.
type DataValidationError struct {
	// Context says what was being validated, e.g. "progress definition in meta.yaml".
	Context  string
	Problems []string

	bulleted bool
}

func newProgressDefinitionError(problems []string) *DataValidationError {
	return &DataValidationError{
		Context:  "progress definition in meta.yaml",
		Problems: problems,
		bulleted: true,
	}
}

func newActivityFileError(file string, problems []string) *DataValidationError {
	return &DataValidationError{
		Context:  "after loading: " + file,
		Problems: problems,
	}
}

func (e *DataValidationError) Error() string {
	if e.bulleted {
		return "Data validation error for " + e.Context + ": \n\n- " + strings.Join(e.Problems, "\n- ")
	}
	return "Data validation error " + e.Context + "\n\n----\n\n" + strings.Join(e.Problems, "\n\n")
}

// IsDataValidation reports whether err is, or wraps, a DataValidationError.
func IsDataValidation(err error) bool {
	var dv *DataValidationError
	return errors.As(err, &dv)
}

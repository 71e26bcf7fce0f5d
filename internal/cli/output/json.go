package output

import (
	"encoding/json"
	"io"
)

// PrintJSON writes data as indented JSON. HTML characters are left as is
// since activity descriptions carry markdown and rendered HTML.
func PrintJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

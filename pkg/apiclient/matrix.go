package apiclient

import (
	"net/url"

	"github.com/marmos91/dsomm/pkg/views"
)

// Matrix is the activity matrix with its filter chips.
type Matrix struct {
	Levels           []views.LevelLabel `json:"levels"`
	Categories       []string           `json:"categories"`
	Columns          []string           `json:"columns"`
	TagFilters       views.Filters      `json:"tagFilters"`
	DimensionFilters views.Filters      `json:"dimensionFilters"`
	HasFilterValues  bool               `json:"hasFilterValues"`
	Rows             []views.MatrixRow  `json:"rows"`
}

// Matrix returns the matrix for sel. A nil sel uses the selection stored on
// the server.
func (c *Client) Matrix(sel *views.MatrixSelection) (*Matrix, error) {
	v := url.Values{}
	if sel != nil {
		for _, t := range sel.Tags {
			v.Add("tag", t)
		}
		for _, d := range sel.Dimensions {
			v.Add("dimension", d)
		}
	}
	return getResource[Matrix](c, withQuery("/api/v1/matrix", v))
}

// MatrixFilters returns the stored chip selection.
func (c *Client) MatrixFilters() (*views.MatrixSelection, error) {
	return getResource[views.MatrixSelection](c, "/api/v1/matrix/filters")
}

// SetMatrixFilters stores the chip selection. An empty selection clears it.
func (c *Client) SetMatrixFilters(sel views.MatrixSelection) (*views.MatrixSelection, error) {
	return updateResource[views.MatrixSelection](c, "/api/v1/matrix/filters", sel)
}

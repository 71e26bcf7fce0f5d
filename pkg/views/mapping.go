package views

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/marmos91/dsomm/pkg/model"
)

// MappingRow relates an activity to SAMM and ISO 27001 controls.
type MappingRow struct {
	UUID         string   `json:"uuid"`
	Dimension    string   `json:"dimension"`
	SubDimension string   `json:"subDimension"`
	ActivityName string   `json:"activityName"`
	SAMM2        []string `json:"samm2"`
	ISO17        []string `json:"ISO17"`
	ISO22        []string `json:"ISO22"`
	Description  string   `json:"description,omitempty"`
	Risk         string   `json:"risk,omitempty"`
	Measure      string   `json:"measure,omitempty"`
	Knowledge    string   `json:"knowledge,omitempty"`
	Resources    string   `json:"resources,omitempty"`
	Time         string   `json:"time,omitempty"`
	Usefulness   string   `json:"usefulness,omitempty"`
	DependsOn    []string `json:"dependsOn,omitempty"`
	Comments     string   `json:"comments,omitempty"`
	Assessment   string   `json:"assessment,omitempty"`
	Level        int      `json:"level"`
}

// SortMode orders mapping rows.
type SortMode string

const (
	SortByActivity SortMode = "sortByActivity"
	SortBySAMM     SortMode = "sortBySAMM"
	SortByISO      SortMode = "sortByISO"
	SortByISO22    SortMode = "sortByISO22"
)

// ParseSortMode accepts the mode names and the short forms activity, samm,
// iso, iso17 and iso22.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "activity", "sortbyactivity":
		return SortByActivity, nil
	case "samm", "samm2", "sortbysamm":
		return SortBySAMM, nil
	case "iso", "iso17", "sortbyiso":
		return SortByISO, nil
	case "iso22", "sortbyiso22":
		return SortByISO22, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// BuildMappingRows returns a row per activity up to maxLevel (0 means all).
func BuildMappingRows(data *model.DataStore, maxLevel int) []MappingRow {
	acts := data.Activities.AllActivitiesUpToLevel(maxLevel)
	rows := make([]MappingRow, 0, len(acts))
	for _, a := range acts {
		d := a.DifficultyOfImplementation
		rows = append(rows, MappingRow{
			UUID:         a.UUID,
			Dimension:    a.Category,
			SubDimension: a.Dimension,
			ActivityName: a.Name,
			SAMM2:        nonNil(a.References.SAMM2),
			ISO17:        nonNil(a.References.ISO27001v17),
			ISO22:        nonNil(a.References.ISO27001v22),
			Description:  a.Description.String(),
			Risk:         a.Risk.String(),
			Measure:      a.Measure.String(),
			Knowledge:    RatingLabel(data, "knowledgeLabels", d.Knowledge),
			Resources:    RatingLabel(data, "labels", d.Resources),
			Time:         RatingLabel(data, "labels", d.Time),
			Usefulness:   RatingLabel(data, "labels", a.Usefulness),
			DependsOn:    nonNil(a.DependsOn),
			Comments:     a.Comments.String(),
			Assessment:   a.Assessment.String(),
			Level:        a.Level,
		})
	}
	return rows
}

// RatingLabel names a 1-based rating with the meta string list key. Unset
// ratings yield "".
func RatingLabel(data *model.DataStore, key string, rating int) string {
	if rating <= 0 {
		return ""
	}
	return data.MetaString(key, rating-1)
}

func nonNil(l model.StringList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

// searchText is the lower-cased text matched by search terms.
func (r *MappingRow) searchText() string {
	return strings.ToLower(strings.Join([]string{
		r.Dimension,
		r.SubDimension,
		r.ActivityName,
		strings.Join(r.SAMM2, " "),
		strings.Join(r.ISO17, " "),
		strings.Join(r.ISO22, " "),
	}, " "))
}

// FilterMapping keeps rows matching every term, case-insensitively. Blank
// terms are ignored.
func FilterMapping(rows []MappingRow, terms []string) []MappingRow {
	var needles []string
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			needles = append(needles, t)
		}
	}
	if len(needles) == 0 {
		return rows
	}

	out := make([]MappingRow, 0, len(rows))
	for i := range rows {
		text := rows[i].searchText()
		match := true
		for _, n := range needles {
			if !strings.Contains(text, n) {
				match = false
				break
			}
		}
		if match {
			out = append(out, rows[i])
		}
	}
	return out
}

// SortMapping sorts rows in place. For reference modes rows without a
// reference go last; ties are broken by activity name.
func SortMapping(rows []MappingRow, mode SortMode) {
	key := func(r *MappingRow) string { return r.ActivityName }
	switch mode {
	case SortBySAMM:
		key = func(r *MappingRow) string { return strings.Join(r.SAMM2, ", ") }
	case SortByISO:
		key = func(r *MappingRow) string { return strings.Join(r.ISO17, ", ") }
	case SortByISO22:
		key = func(r *MappingRow) string { return strings.Join(r.ISO22, ", ") }
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ki, kj := key(&rows[i]), key(&rows[j])
		if (ki == "") != (kj == "") {
			return kj == ""
		}
		if ki != kj {
			return naturalLess(ki, kj)
		}
		return rows[i].ActivityName < rows[j].ActivityName
	})
}

// naturalLess compares strings so that "A.5.10" sorts after "A.5.9".
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		na, ra := leadingNumber(a)
		nb, rb := leadingNumber(b)
		if na >= 0 && nb >= 0 {
			if na != nb {
				return na < nb
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func leadingNumber(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return -1, s
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return -1, s
	}
	return n, s[i:]
}

// WriteMappingCSV writes the mapping table, one reference list per cell.
func WriteMappingCSV(w io.Writer, rows []MappingRow) error {
	cw := csv.NewWriter(w)
	header := []string{"Dimension", "Sub-Dimension", "Activity", "Level", "SAMM 2", "ISO 27001:2017", "ISO 27001:2022", "UUID"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Dimension,
			r.SubDimension,
			r.ActivityName,
			strconv.Itoa(r.Level),
			strings.Join(r.SAMM2, ", "),
			strings.Join(r.ISO17, ", "),
			strings.Join(r.ISO22, ", "),
			r.UUID,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

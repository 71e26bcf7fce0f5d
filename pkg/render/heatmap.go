// Package render draws the circular heatmap as a standalone SVG document.
//
// Sectors are laid out ring by ring: ring n holds the sectors of maturity
// level n+1, one segment per dimension, starting at 12 o'clock and running
// clockwise. A segment is filled with a color between Theme.Background (no
// progress) and Theme.Filled (complete).
package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/marmos91/dsomm/pkg/views"
)

// Theme holds the heatmap colors as #rrggbb.
type Theme struct {
	Background string `json:"background" yaml:"background"`
	Filled     string `json:"filled" yaml:"filled"`
	Disabled   string `json:"disabled" yaml:"disabled"`
	Stroke     string `json:"stroke" yaml:"stroke"`
	Text       string `json:"text" yaml:"text"`
}

var (
	LightTheme = Theme{Background: "#ffffff", Filled: "#2e7d32", Disabled: "#dcdcdc", Stroke: "#252525", Text: "#252525"}
	DarkTheme  = Theme{Background: "#424242", Filled: "#66bb6a", Disabled: "#303030", Stroke: "#dcdcdc", Text: "#dcdcdc"}
)

// ThemeByName returns the light or dark theme.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case "", "light":
		return LightTheme, nil
	case "dark":
		return DarkTheme, nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}

// Config controls the geometry of the chart.
type Config struct {
	InnerRadius        float64
	SegmentHeight      float64
	SegmentLabelHeight float64
	Margin             float64
	Theme              Theme
}

func DefaultConfig() Config {
	return Config{
		InnerRadius:        20,
		SegmentHeight:      20,
		SegmentLabelHeight: 12,
		Margin:             20,
		Theme:              LightTheme,
	}
}

// HeatmapSVG writes h as an SVG document.
func HeatmapSVG(w io.Writer, h *views.Heatmap, cfg Config) error {
	n := len(h.Dimensions)
	if n == 0 {
		return fmt.Errorf("heatmap has no dimensions")
	}
	rings := (len(h.Sectors) + n - 1) / n
	outer := cfg.InnerRadius + float64(rings)*cfg.SegmentHeight
	labelR := outer + cfg.SegmentLabelHeight/3
	center := cfg.Margin + labelR + cfg.SegmentLabelHeight
	size := 2 * center

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(size), num(size), num(size), num(size))
	fmt.Fprintf(&b, `<g class="circular-heat" transform="translate(%s,%s)">`+"\n", num(center), num(center))

	for i, s := range h.Sectors {
		ring := float64(i / n)
		ir := cfg.InnerRadius + ring*cfg.SegmentHeight
		or := ir + cfg.SegmentHeight
		sa := float64(i%n) * 2 * math.Pi / float64(n)
		ea := float64(i%n+1) * 2 * math.Pi / float64(n)

		fill := cfg.Theme.Disabled
		if !s.Disabled {
			fill = Interpolate(cfg.Theme.Background, cfg.Theme.Filled, s.Progress)
		}
		title := fmt.Sprintf("%s, level %d", s.Dimension, s.Level)
		if !s.Disabled {
			title += fmt.Sprintf(": %d%%", int(math.Round(s.Progress*100)))
		}
		fmt.Fprintf(&b, `<path id="index-%d" class="segment-%s" d="%s" stroke="%s" fill="%s"><title>%s</title></path>`+"\n",
			i, html.EscapeString(strings.ReplaceAll(s.Dimension, " ", "-")), arcPath(ir, or, sa, ea),
			cfg.Theme.Stroke, fill, html.EscapeString(title))
	}
	b.WriteString("</g>\n")

	// dimension labels follow a circle just outside the last ring
	fontSize := cfg.SegmentLabelHeight * 2 / 3
	fmt.Fprintf(&b, `<g class="labels segment" transform="translate(%s,%s)">`+"\n", num(center), num(center))
	fmt.Fprintf(&b, `<defs><path id="segment-label-path" d="m0 -%s a%s %s 0 1 1 -1 0"/></defs>`+"\n", num(labelR), num(labelR), num(labelR))
	for i, dim := range h.Dimensions {
		offset := (float64(i) + 0.5) * 100 / float64(n)
		fmt.Fprintf(&b, `<text fill="%s" style="font-size: %spx"><textPath xlink:href="#segment-label-path" text-anchor="middle" startOffset="%s%%">%s</textPath></text>`+"\n",
			cfg.Theme.Text, num(fontSize), num(offset), html.EscapeString(dim))
	}
	b.WriteString("</g>\n</svg>\n")

	_, err := w.Write(b.Bytes())
	return err
}

// arcPath returns the outline of an annulus segment. Angles are in radians,
// clockwise from 12 o'clock.
func arcPath(ir, or, sa, ea float64) string {
	if ea-sa >= 2*math.Pi-1e-9 {
		// a single arc cannot close a circle: draw two halves per radius
		return fmt.Sprintf("M0,%s A%s,%s 0 1,1 0,%s A%s,%s 0 1,1 0,%s Z M0,%s A%s,%s 0 1,0 0,%s A%s,%s 0 1,0 0,%s Z",
			num(-or), num(or), num(or), num(or), num(or), num(or), num(-or),
			num(-ir), num(ir), num(ir), num(ir), num(ir), num(ir), num(-ir))
	}
	large := 0
	if ea-sa > math.Pi {
		large = 1
	}
	x0, y0 := polar(or, sa)
	x1, y1 := polar(or, ea)
	x2, y2 := polar(ir, ea)
	x3, y3 := polar(ir, sa)
	return fmt.Sprintf("M%s,%s A%s,%s 0 %d,1 %s,%s L%s,%s A%s,%s 0 %d,0 %s,%s Z",
		num(x0), num(y0), num(or), num(or), large, num(x1), num(y1),
		num(x2), num(y2), num(ir), num(ir), large, num(x3), num(y3))
}

func polar(r, angle float64) (float64, float64) {
	return r * math.Sin(angle), -r * math.Cos(angle)
}

// num formats with at most three decimals and no trailing zeros.
func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 3, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// Interpolate mixes two #rrggbb colors; t is clamped to [0, 1]. Invalid
// colors yield from.
func Interpolate(from, to string, t float64) string {
	a, okA := parseHex(from)
	c, okC := parseHex(to)
	if !okA || !okC {
		return from
	}
	t = math.Max(0, math.Min(1, t))
	var out [3]int
	for i := range out {
		out[i] = int(math.Round(float64(a[i]) + (float64(c[i])-float64(a[i]))*t))
	}
	return fmt.Sprintf("#%02x%02x%02x", out[0], out[1], out[2])
}

func parseHex(s string) ([3]int, bool) {
	var rgb [3]int
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return rgb, false
	}
	for i := range rgb {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return rgb, false
		}
		rgb[i] = int(v)
	}
	return rgb, true
}

package prompt

import (
	"strings"

	"github.com/manifoldco/promptui"
)

// Option is one entry of a selection list. Hint is shown below the list
// while the option is highlighted.
type Option struct {
	Label string
	Value string
	Hint  string
}

const listSize = 10

// Select lets the user pick one option and returns its Value. The cursor
// starts on the option whose Value equals current.
func Select(label string, options []Option, current string) (string, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}
	for _, o := range options {
		if o.Hint != "" {
			templates.Details = `{{ with .Hint }}{{ . | faint }}{{ end }}`
			break
		}
	}

	p := promptui.Select{
		Label:     label,
		Items:     options,
		Templates: templates,
		Size:      listSize,
		CursorPos: indexOf(options, current),
		Searcher: func(input string, i int) bool {
			return containsFold(options[i].Label, input)
		},
	}
	i, _, err := p.Run()
	if err != nil {
		return "", wrapError(err)
	}
	return options[i].Value, nil
}

func indexOf(options []Option, value string) int {
	for i, o := range options {
		if o.Value == value {
			return i
		}
	}
	return 0
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Package prompt holds the interactive questions dsommctl asks when a
// required argument is missing from the command line.
package prompt

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user leaves a prompt with Ctrl+C or Ctrl+D.
var ErrAborted = errors.New("aborted")

func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}

func wrapError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsAborted(err), errors.Is(err, promptui.ErrAbort):
		return ErrAborted
	}
	return err
}

// ConfirmWithForce asks a y/N question unless force is set. A plain enter
// answers no.
func ConfirmWithForce(question string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	p := promptui.Prompt{Label: question, IsConfirm: true}
	answer, err := p.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, wrapError(err)
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

// ConfirmDanger only accepts the exact word, for commands that throw away
// recorded progress.
func ConfirmDanger(question, word string) (bool, error) {
	p := promptui.Prompt{
		Label: fmt.Sprintf("%s. Type %q to continue", question, word),
		Validate: func(in string) error {
			if in != word {
				return fmt.Errorf("expected %q", word)
			}
			return nil
		},
	}
	answer, err := p.Run()
	if err != nil {
		if wrapError(err) == ErrAborted {
			return false, nil
		}
		return false, err
	}
	return answer == word, nil
}

// InputServerURL asks for the base URL of a dsomm server.
func InputServerURL(defaultURL string) (string, error) {
	p := promptui.Prompt{
		Label:    "Server URL",
		Default:  defaultURL,
		Validate: ValidateServerURL,
	}
	answer, err := p.Run()
	return strings.TrimRight(strings.TrimSpace(answer), "/"), wrapError(err)
}

// ValidateServerURL accepts absolute http and https URLs.
func ValidateServerURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("must be an http(s) URL such as http://localhost:8080")
	}
	return nil
}

// Token asks for an API token without echoing it. An empty answer is
// allowed and means read-only access.
func Token(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(in string) error {
			if strings.ContainsAny(in, " \t") {
				return errors.New("tokens contain no whitespace")
			}
			return nil
		},
	}
	answer, err := p.Run()
	return answer, wrapError(err)
}

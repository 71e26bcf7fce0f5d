package model

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// MarkdownText is activity prose written in markdown.
type MarkdownText string

// HTML renders the text. Raw HTML in the source is dropped.
func (m MarkdownText) HTML() (string, error) {
	if m == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(m), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m MarkdownText) String() string { return string(m) }

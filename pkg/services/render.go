package services

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderBody converts a document body to HTML.
func RenderBody(body string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OutlineEntry is one h2/h3 heading of a rendered body.
type OutlineEntry struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// ExtractOutline pulls the heading outline out of rendered HTML.
func ExtractOutline(html string) ([]OutlineEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	var outline []OutlineEntry
	doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		level := 2
		if goquery.NodeName(s) == "h3" {
			level = 3
		}
		id, _ := s.Attr("id")
		outline = append(outline, OutlineEntry{Level: level, ID: id, Text: strings.TrimSpace(s.Text())})
	})
	return outline, nil
}

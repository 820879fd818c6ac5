package models

import "time"

// Metadata is the structured front-matter block of a content document.
// Unknown keys survive a parse/serialize round trip through Extra.
type Metadata struct {
	Author      string         `json:"author"`
	Title       string         `json:"title"`
	Date        time.Time      `json:"date"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Categories  []string       `json:"categories,omitempty"`
	Series      []string       `json:"series,omitempty"`
	Aliases     []string       `json:"aliases,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Document represents one parsed content file.
type Document struct {
	Path      string   `json:"path"` // relative to the posts dir
	Permalink string   `json:"permalink"`
	Meta      Metadata `json:"metadata"`
	Body      string   `json:"body,omitempty"`
	Format    string   `json:"format,omitempty"` // yaml, toml, json
	IsDirty   bool     `json:"is_dirty"`
}

// Summary is the listing view of a document.
type Summary struct {
	Path        string    `json:"path"`
	Permalink   string    `json:"permalink"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	IsDirty     bool      `json:"is_dirty"`
}

// Summary derives the listing view.
func (d *Document) Summary() Summary {
	return Summary{
		Path:        d.Path,
		Permalink:   d.Permalink,
		Title:       d.Meta.Title,
		Date:        d.Meta.Date,
		Description: d.Meta.Description,
		Tags:        d.Meta.Tags,
		IsDirty:     d.IsDirty,
	}
}

package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"blog-cms/pkg/models"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// ErrMissingDelimiter is returned when the metadata/body boundary cannot be
// located: no front-matter marker at the top, or an unterminated block.
var ErrMissingDelimiter = errors.New("front matter delimiter not found")

// MalformedMetadataError reports a metadata field that is absent or does not
// parse to its declared type.
type MalformedMetadataError struct {
	Path  string
	Field string
	Err   error
}

func (e *MalformedMetadataError) Error() string {
	msg := "malformed metadata"
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Field != "" {
		msg += ": field " + strconv.Quote(e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedMetadataError) Unwrap() error { return e.Err }

// ParseDocument splits raw file content into metadata and body and binds the
// metadata to the typed record. Pure and stateless.
func ParseDocument(content []byte) (*models.Document, error) {
	rawMeta, body, format, err := splitFrontMatter(content)
	if err != nil {
		return nil, err
	}
	fields, err := decodeMetadata(rawMeta, format)
	if err != nil {
		return nil, err
	}
	meta, err := bindMetadata(fields)
	if err != nil {
		return nil, err
	}
	return &models.Document{Meta: meta, Body: body, Format: format}, nil
}

// ParseFile reads and parses one content document from disk, stamping the
// posts-relative path onto the record and any error.
func ParseFile(path, relPath string) (*models.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(content)
	if err != nil {
		var malformed *MalformedMetadataError
		if errors.As(err, &malformed) {
			malformed.Path = relPath
			return nil, malformed
		}
		return nil, fmt.Errorf("%s: %w", relPath, err)
	}
	doc.Path = relPath
	doc.Permalink = Permalink(relPath)
	return doc, nil
}

// Permalink maps a posts-relative file path to its canonical URL path.
func Permalink(relPath string) string {
	slug := strings.TrimSuffix(filepath.ToSlash(relPath), ".md")
	return "/posts/" + slug + "/"
}

func splitFrontMatter(content []byte) ([]byte, string, string, error) {
	str := strings.ReplaceAll(string(content), "\r\n", "\n")
	switch {
	case strings.HasPrefix(str, "---\n"):
		meta, body, ok := cutDelimited(str[4:], "---")
		if !ok {
			return nil, "", "", fmt.Errorf("unterminated yaml block: %w", ErrMissingDelimiter)
		}
		return []byte(meta), strings.TrimSpace(body), FormatYAML, nil
	case strings.HasPrefix(str, "+++\n"):
		meta, body, ok := cutDelimited(str[4:], "+++")
		if !ok {
			return nil, "", "", fmt.Errorf("unterminated toml block: %w", ErrMissingDelimiter)
		}
		return []byte(meta), strings.TrimSpace(body), FormatTOML, nil
	case strings.HasPrefix(strings.TrimSpace(str), "{"):
		// JSON front matter is the whole file; there is no body.
		return []byte(strings.TrimSpace(str)), "", FormatJSON, nil
	}
	return nil, "", "", ErrMissingDelimiter
}

// cutDelimited splits the remainder of a document at the closing marker line.
func cutDelimited(rest, marker string) (meta, body string, ok bool) {
	if rest == marker || strings.HasPrefix(rest, marker+"\n") {
		return "", strings.TrimPrefix(strings.TrimPrefix(rest, marker), "\n"), true
	}
	if i := strings.Index(rest, "\n"+marker+"\n"); i >= 0 {
		return rest[:i+1], rest[i+len(marker)+2:], true
	}
	if strings.HasSuffix(rest, "\n"+marker) {
		return rest[:len(rest)-len(marker)], "", true
	}
	return "", "", false
}

func decodeMetadata(raw []byte, format string) (map[string]any, error) {
	fields := map[string]any{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &fields)
	case FormatTOML:
		err = toml.Unmarshal(raw, &fields)
	case FormatJSON:
		err = json.Unmarshal(raw, &fields)
	default:
		err = fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, &MalformedMetadataError{Err: err}
	}
	return fields, nil
}

var knownMetadataKeys = map[string]bool{
	"author":      true,
	"title":       true,
	"date":        true,
	"description": true,
	"tags":        true,
	"categories":  true,
	"series":      true,
	"aliases":     true,
}

func bindMetadata(fields map[string]any) (models.Metadata, error) {
	var meta models.Metadata
	var err error
	if meta.Author, err = stringField(fields, "author"); err != nil {
		return meta, err
	}
	if meta.Title, err = stringField(fields, "title"); err != nil {
		return meta, err
	}
	if meta.Description, err = stringField(fields, "description"); err != nil {
		return meta, err
	}
	if meta.Date, err = dateField(fields, "date"); err != nil {
		return meta, err
	}
	if meta.Tags, err = listField(fields, "tags"); err != nil {
		return meta, err
	}
	if meta.Categories, err = listField(fields, "categories"); err != nil {
		return meta, err
	}
	if meta.Series, err = listField(fields, "series"); err != nil {
		return meta, err
	}
	if meta.Aliases, err = listField(fields, "aliases"); err != nil {
		return meta, err
	}

	for k, v := range fields {
		if knownMetadataKeys[k] {
			continue
		}
		if meta.Extra == nil {
			meta.Extra = map[string]any{}
		}
		meta.Extra[k] = v
	}

	if err := validateMetadata(meta); err != nil {
		return meta, err
	}
	return meta, nil
}

func stringField(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &MalformedMetadataError{Field: key, Err: fmt.Errorf("expected a string, got %T", v)}
	}
	return s, nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func dateField(fields map[string]any, key string) (time.Time, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return time.Time{}, nil
	}
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case toml.LocalDate:
		return d.AsTime(time.UTC), nil
	case toml.LocalDateTime:
		return d.AsTime(time.UTC), nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t, nil
			}
		}
		return time.Time{}, &MalformedMetadataError{Field: key, Err: fmt.Errorf("unparseable date %q", d)}
	}
	return time.Time{}, &MalformedMetadataError{Field: key, Err: fmt.Errorf("expected a date, got %T", v)}
}

func listField(fields map[string]any, key string) ([]string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case string:
		// a bare scalar reads as a single-entry list
		return []string{list}, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &MalformedMetadataError{Field: key, Err: fmt.Errorf("expected a list of strings, got element %T", item)}
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, &MalformedMetadataError{Field: key, Err: fmt.Errorf("expected a list of strings, got %T", v)}
}

// encodedMetadata fixes the field order of serialized front matter.
type encodedMetadata struct {
	Author      string   `yaml:"author" toml:"author" json:"author"`
	Title       string   `yaml:"title" toml:"title" json:"title"`
	Date        string   `yaml:"date" toml:"date" json:"date"`
	Description string   `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" toml:"tags,omitempty" json:"tags,omitempty"`
	Categories  []string `yaml:"categories,omitempty" toml:"categories,omitempty" json:"categories,omitempty"`
	Series      []string `yaml:"series,omitempty" toml:"series,omitempty" json:"series,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty" toml:"aliases,omitempty" json:"aliases,omitempty"`
}

// SerializeDocument writes a document back out in its original format.
// Parsing the result yields the same structured fields and body.
func SerializeDocument(doc *models.Document) ([]byte, error) {
	em := encodedMetadata{
		Author:      doc.Meta.Author,
		Title:       doc.Meta.Title,
		Date:        formatDate(doc.Meta.Date),
		Description: doc.Meta.Description,
		Tags:        doc.Meta.Tags,
		Categories:  doc.Meta.Categories,
		Series:      doc.Meta.Series,
		Aliases:     doc.Meta.Aliases,
	}

	var buf bytes.Buffer
	switch doc.Format {
	case FormatYAML, "":
		buf.WriteString("---\n")
		block, err := marshalYAML(em)
		if err != nil {
			return nil, err
		}
		buf.Write(block)
		if len(doc.Meta.Extra) > 0 {
			extra, err := marshalYAML(doc.Meta.Extra)
			if err != nil {
				return nil, err
			}
			buf.Write(extra)
		}
		buf.WriteString("---\n")
	case FormatTOML:
		buf.WriteString("+++\n")
		block, err := toml.Marshal(em)
		if err != nil {
			return nil, err
		}
		buf.Write(block)
		if len(doc.Meta.Extra) > 0 {
			extra, err := toml.Marshal(doc.Meta.Extra)
			if err != nil {
				return nil, err
			}
			buf.Write(extra)
		}
		buf.WriteString("+++\n")
	case FormatJSON:
		merged := map[string]any{
			"author": em.Author,
			"title":  em.Title,
			"date":   em.Date,
		}
		if em.Description != "" {
			merged["description"] = em.Description
		}
		for key, list := range map[string][]string{
			"tags": em.Tags, "categories": em.Categories, "series": em.Series, "aliases": em.Aliases,
		} {
			if len(list) > 0 {
				merged[key] = list
			}
		}
		for k, v := range doc.Meta.Extra {
			merged[k] = v
		}
		out, err := json.MarshalIndent(merged, "", "  ")
		if err != nil {
			return nil, err
		}
		buf.Write(out)
		buf.WriteString("\n")
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", doc.Format)
	}

	if doc.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(doc.Body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

package services

import (
	"sort"

	"blog-cms/pkg/models"
)

// Taxonomy groups documents under a shared term.
type Taxonomy map[string][]*models.Document

// Term is one taxonomy entry with its document count.
type Term struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Terms lists the taxonomy's terms alphabetically.
func (t Taxonomy) Terms() []Term {
	terms := make([]Term, 0, len(t))
	for name, docs := range t {
		terms = append(terms, Term{Name: name, Count: len(docs)})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Name < terms[j].Name })
	return terms
}

// SiteIndex is the navigation view over the parsed library.
type SiteIndex struct {
	ByDate     []*models.Document
	Tags       Taxonomy
	Categories Taxonomy
	Series     Taxonomy          // oldest first within a series
	Aliases    map[string]string // alias -> permalink
}

// BuildIndex derives the navigation structures from a date-descending listing.
// Metadata keeps duplicate terms verbatim; a taxonomy page lists the document
// once regardless.
func BuildIndex(docs []*models.Document) *SiteIndex {
	idx := &SiteIndex{
		ByDate:     docs,
		Tags:       Taxonomy{},
		Categories: Taxonomy{},
		Series:     Taxonomy{},
		Aliases:    map[string]string{},
	}
	for _, doc := range docs {
		for _, tag := range doc.Meta.Tags {
			if !containsDoc(idx.Tags[tag], doc) {
				idx.Tags[tag] = append(idx.Tags[tag], doc)
			}
		}
		for _, cat := range doc.Meta.Categories {
			if !containsDoc(idx.Categories[cat], doc) {
				idx.Categories[cat] = append(idx.Categories[cat], doc)
			}
		}
		for _, name := range doc.Meta.Series {
			if !containsDoc(idx.Series[name], doc) {
				idx.Series[name] = append(idx.Series[name], doc)
			}
		}
		for _, alias := range doc.Meta.Aliases {
			// first claim wins; ValidateLibrary reports the conflict
			if _, taken := idx.Aliases[alias]; !taken {
				idx.Aliases[alias] = doc.Permalink
			}
		}
	}

	for name, entries := range idx.Series {
		sorted := make([]*models.Document, len(entries))
		copy(sorted, entries)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Meta.Date.Before(sorted[j].Meta.Date)
		})
		idx.Series[name] = sorted
	}
	return idx
}

func containsDoc(list []*models.Document, doc *models.Document) bool {
	for _, d := range list {
		if d == doc {
			return true
		}
	}
	return false
}

// GetIndex builds the index over the cached library.
func GetIndex() (*SiteIndex, error) {
	docs, err := GetLibrary()
	if err != nil {
		return nil, err
	}
	return BuildIndex(docs), nil
}

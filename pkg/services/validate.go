package services

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"blog-cms/pkg/config"
	"blog-cms/pkg/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Issue is one authoring mistake: the file to fix and, when known, the field.
type Issue struct {
	File    string `json:"file"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func validateMetadata(meta models.Metadata) error {
	err := validation.ValidateStruct(&meta,
		validation.Field(&meta.Author, validation.Required.Error("author is required")),
		validation.Field(&meta.Title, validation.Required.Error("title is required")),
		validation.Field(&meta.Date, validation.Required.Error("date is required")),
	)
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for f := range verrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return &MalformedMetadataError{Field: fields[0], Err: verrs[fields[0]]}
	}
	return &MalformedMetadataError{Err: err}
}

// ValidateLibrary re-reads every content document from disk and reports each
// malformed file with the offending field, for authors to fix and reprocess.
func ValidateLibrary() ([]Issue, error) {
	var issues []Issue
	var parsed []*models.Document

	root := config.PostsPath()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		relPath, _ := filepath.Rel(root, path)

		doc, err := ParseFile(path, relPath)
		if err != nil {
			issues = append(issues, issueFromError(relPath, err))
			return nil
		}
		if doc.Format != FormatJSON && strings.TrimSpace(doc.Body) == "" {
			issues = append(issues, Issue{File: relPath, Field: "body", Message: "body must not be empty"})
		}
		parsed = append(parsed, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	issues = append(issues, aliasConflicts(parsed)...)
	return issues, nil
}

func issueFromError(relPath string, err error) Issue {
	var malformed *MalformedMetadataError
	if errors.As(err, &malformed) {
		return Issue{File: relPath, Field: malformed.Field, Message: malformed.Error()}
	}
	return Issue{File: relPath, Message: err.Error()}
}

// aliasConflicts flags two documents claiming the same alternate URL slug.
func aliasConflicts(docs []*models.Document) []Issue {
	owners := make(map[string]string)
	var issues []Issue
	for _, doc := range docs {
		for _, alias := range doc.Meta.Aliases {
			if other, taken := owners[alias]; taken {
				issues = append(issues, Issue{
					File:    doc.Path,
					Field:   "aliases",
					Message: fmt.Sprintf("alias %q already claimed by %s", alias, other),
				})
				continue
			}
			owners[alias] = doc.Path
		}
	}
	return issues
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentYAML(t *testing.T) {
	content := []byte(`---
author: Jane Doe
title: "Example"
date: 2023-06-04
tags:
  - kotlin
  - android
---

# Heading

Body text.
`)
	doc, err := ParseDocument(content)
	require.NoError(t, err)

	assert.Equal(t, "Example", doc.Meta.Title)
	assert.Equal(t, "Jane Doe", doc.Meta.Author)
	assert.True(t, doc.Meta.Date.Equal(time.Date(2023, 6, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"kotlin", "android"}, doc.Meta.Tags)
	assert.Equal(t, FormatYAML, doc.Format)
	assert.Contains(t, doc.Body, "# Heading")
	assert.Contains(t, doc.Body, "Body text.")
}

func TestParseDocumentTOML(t *testing.T) {
	content := []byte(`+++
author = "Jane Doe"
title = "TOML Post"
date = "2023-06-04"
categories = ["android", "android"]
+++

Body.
`)
	doc, err := ParseDocument(content)
	require.NoError(t, err)

	assert.Equal(t, "TOML Post", doc.Meta.Title)
	assert.Equal(t, FormatTOML, doc.Format)
	// duplicates are kept and order is preserved
	assert.Equal(t, []string{"android", "android"}, doc.Meta.Categories)
}

func TestParseDocumentJSON(t *testing.T) {
	content := []byte(`{
  "author": "Jane Doe",
  "title": "JSON Post",
  "date": "2023-06-04",
  "aliases": ["/posts/old/"]
}`)
	doc, err := ParseDocument(content)
	require.NoError(t, err)

	assert.Equal(t, "JSON Post", doc.Meta.Title)
	assert.Equal(t, FormatJSON, doc.Format)
	assert.Equal(t, []string{"/posts/old/"}, doc.Meta.Aliases)
	assert.Empty(t, doc.Body)
}

func TestParseDocumentMissingTitle(t *testing.T) {
	content := []byte("---\nauthor: Jane\ndate: 2023-06-04\n---\n\nBody.\n")
	_, err := ParseDocument(content)

	var malformed *MalformedMetadataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "title", malformed.Field)
	assert.Contains(t, err.Error(), "title")
}

func TestParseDocumentUnparseableDate(t *testing.T) {
	content := []byte("---\nauthor: Jane\ntitle: Post\ndate: someday soon\n---\n\nBody.\n")
	_, err := ParseDocument(content)

	var malformed *MalformedMetadataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "date", malformed.Field)
}

func TestParseDocumentWrongTagType(t *testing.T) {
	content := []byte("---\nauthor: Jane\ntitle: Post\ndate: 2023-06-04\ntags: 5\n---\n\nBody.\n")
	_, err := ParseDocument(content)

	var malformed *MalformedMetadataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "tags", malformed.Field)
}

func TestParseDocumentMissingDelimiter(t *testing.T) {
	cases := map[string]string{
		"no marker at all":  "title: Post\n\nBody.\n",
		"unterminated yaml": "---\nauthor: Jane\ntitle: Post\ndate: 2023-06-04\n\nBody.\n",
		"unterminated toml": "+++\nauthor = \"Jane\"\ntitle = \"Post\"\n\nBody.\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocument([]byte(content))
			require.ErrorIs(t, err, ErrMissingDelimiter)
		})
	}
}

func TestParseDocumentScalarListEntry(t *testing.T) {
	content := []byte("---\nauthor: Jane\ntitle: Post\ndate: 2023-06-04\nseries: coroutines\n---\n\nBody.\n")
	doc, err := ParseDocument(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"coroutines"}, doc.Meta.Series)
}

func TestParseDocumentKeepsUnknownKeys(t *testing.T) {
	content := []byte("---\nauthor: Jane\ntitle: Post\ndate: 2023-06-04\ndraft: true\n---\n\nBody.\n")
	doc, err := ParseDocument(content)
	require.NoError(t, err)
	assert.Equal(t, true, doc.Meta.Extra["draft"])
}

func TestSerializeRoundTrip(t *testing.T) {
	cases := map[string]string{
		"yaml": `---
author: Jane Doe
title: "Round Trip"
date: 2023-06-04
description: "A post"
tags:
  - kotlin
  - kotlin
  - android
aliases:
  - /posts/rt/
draft: false
---

Some **body** text.

` + "```kotlin\nval x = 1\n```\n",
		"toml": `+++
author = "Jane Doe"
title = "Round Trip"
date = "2023-06-04"
tags = ["kotlin", "android"]
series = ["coroutines-in-practice"]
+++

> A quote.
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(content))
			require.NoError(t, err)

			out, err := SerializeDocument(doc)
			require.NoError(t, err)

			doc2, err := ParseDocument(out)
			require.NoError(t, err)

			assert.Equal(t, doc.Meta.Author, doc2.Meta.Author)
			assert.Equal(t, doc.Meta.Title, doc2.Meta.Title)
			assert.True(t, doc2.Meta.Date.Equal(doc.Meta.Date))
			assert.Equal(t, doc.Meta.Description, doc2.Meta.Description)
			assert.Equal(t, doc.Meta.Tags, doc2.Meta.Tags)
			assert.Equal(t, doc.Meta.Categories, doc2.Meta.Categories)
			assert.Equal(t, doc.Meta.Series, doc2.Meta.Series)
			assert.Equal(t, doc.Meta.Aliases, doc2.Meta.Aliases)
			assert.Equal(t, doc.Meta.Extra, doc2.Meta.Extra)
			assert.Equal(t, doc.Body, doc2.Body)
			assert.Equal(t, doc.Format, doc2.Format)
		})
	}
}

func TestPermalink(t *testing.T) {
	assert.Equal(t, "/posts/coroutine-dispatchers/", Permalink("coroutine-dispatchers.md"))
	assert.Equal(t, "/posts/2024/retro/", Permalink("2024/retro.md"))
}

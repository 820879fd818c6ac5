package services

import (
	"testing"

	"blog-cms/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFeedRSS(t *testing.T) {
	site := models.SiteConfig{
		Title:       "Mobile Notes",
		BaseURL:     "https://mobilenotes.dev",
		Description: "Notes.",
		FeedLimit:   20,
	}
	docs := []*models.Document{
		makeDoc("newest", "2024-05-02", models.Metadata{Description: "The newest one"}),
		makeDoc("oldest", "2024-03-17", models.Metadata{}),
	}

	rss, err := BuildFeed(site, docs).ToRss()
	require.NoError(t, err)

	assert.Contains(t, rss, "<title>Mobile Notes</title>")
	assert.Contains(t, rss, "https://mobilenotes.dev/posts/newest/")
	assert.Contains(t, rss, "The newest one")
	assert.Contains(t, rss, "https://mobilenotes.dev/posts/oldest/")
}

func TestBuildFeedRespectsLimit(t *testing.T) {
	site := models.SiteConfig{Title: "T", BaseURL: "https://t.dev", FeedLimit: 1}
	docs := []*models.Document{
		makeDoc("kept", "2024-05-02", models.Metadata{}),
		makeDoc("dropped", "2024-03-17", models.Metadata{}),
	}

	feed := BuildFeed(site, docs)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "kept", feed.Items[0].Title)
}

func TestBuildFeedAtom(t *testing.T) {
	site := models.SiteConfig{Title: "T", BaseURL: "https://t.dev", FeedLimit: 20}
	atom, err := BuildFeed(site, []*models.Document{makeDoc("only", "2024-05-02", models.Metadata{})}).ToAtom()
	require.NoError(t, err)
	assert.Contains(t, atom, "only")
}

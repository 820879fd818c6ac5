package services

import (
	"strings"
	"time"

	"blog-cms/pkg/models"

	"github.com/gorilla/feeds"
)

// BuildFeed assembles the syndication feed of the newest posts.
func BuildFeed(site models.SiteConfig, docs []*models.Document) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       site.Title,
		Link:        &feeds.Link{Href: site.BaseURL},
		Description: site.Description,
		Created:     time.Now(),
	}
	if site.DefaultAuthor != "" {
		feed.Author = &feeds.Author{Name: site.DefaultAuthor}
	}

	limit := site.FeedLimit
	if limit <= 0 || limit > len(docs) {
		limit = len(docs)
	}
	for _, doc := range docs[:limit] {
		link := strings.TrimSuffix(site.BaseURL, "/") + doc.Permalink
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       doc.Meta.Title,
			Link:        &feeds.Link{Href: link},
			Description: doc.Meta.Description,
			Author:      &feeds.Author{Name: doc.Meta.Author},
			Created:     doc.Meta.Date,
		})
	}
	return feed
}

func FeedRSS() (string, error) {
	site, err := GetSiteConfig()
	if err != nil {
		return "", err
	}
	docs, err := GetLibrary()
	if err != nil {
		return "", err
	}
	return BuildFeed(site, docs).ToRss()
}

func FeedAtom() (string, error) {
	site, err := GetSiteConfig()
	if err != nil {
		return "", err
	}
	docs, err := GetLibrary()
	if err != nil {
		return "", err
	}
	return BuildFeed(site, docs).ToAtom()
}

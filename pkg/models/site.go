package models

type SiteConfig struct {
	Title         string `yaml:"title"`
	BaseURL       string `yaml:"base_url"`
	Description   string `yaml:"description"`
	DefaultAuthor string `yaml:"default_author"`
	FeedLimit     int    `yaml:"feed_limit"`
}

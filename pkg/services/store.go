package services

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"blog-cms/pkg/config"
	"blog-cms/pkg/models"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var (
	libraryCache []*models.Document
	cacheMutex   sync.Mutex
	cacheLoaded  bool
)

// GetLibrary returns every parseable content document, newest first.
// Files that fail to parse are skipped here; ValidateLibrary reports them.
func GetLibrary() ([]*models.Document, error) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	if cacheLoaded {
		return libraryCache, nil
	}

	root := config.PostsPath()
	dirtyFiles, _ := getGitDirtyFiles(config.RepoPath)

	var docs []*models.Document
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
			log.Warn().Str("file", relPath).Err(err).Msg("skipping malformed document")
			return nil
		}

		repoRelPath, _ := filepath.Rel(config.RepoPath, path)
		doc.IsDirty = dirtyFiles[filepath.ToSlash(repoRelPath)]

		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Meta.Date.After(docs[j].Meta.Date)
	})

	libraryCache = docs
	cacheLoaded = true
	return libraryCache, nil
}

func InvalidateLibrary() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	cacheLoaded = false
	libraryCache = nil
}

func getGitDirtyFiles(dir string) (map[string]bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	dirty := make(map[string]bool)
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		path = strings.Trim(path, "\"")
		dirty[path] = true
	}
	return dirty, nil
}

// LoadDocument reads one document fresh from disk.
func LoadDocument(relPath string) (*models.Document, error) {
	fullPath := SafeJoin(config.RepoPath, config.PostsDir, relPath)
	if fullPath == "" {
		return nil, fmt.Errorf("invalid path: %s", relPath)
	}
	return ParseFile(fullPath, relPath)
}

// SaveDocument serializes a document and writes it back to the content tree.
func SaveDocument(doc *models.Document) error {
	content, err := SerializeDocument(doc)
	if err != nil {
		return err
	}
	fullPath := SafeJoin(config.RepoPath, config.PostsDir, doc.Path)
	if fullPath == "" {
		return fmt.Errorf("invalid path: %s", doc.Path)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return err
	}
	InvalidateLibrary()
	return nil
}

// ScaffoldDocument creates a new post seeded from the site config.
func ScaffoldDocument(relPath, title string) (*models.Document, error) {
	fullPath := SafeJoin(config.RepoPath, config.PostsDir, relPath)
	if fullPath == "" {
		return nil, fmt.Errorf("invalid path: %s", relPath)
	}
	if _, err := os.Stat(fullPath); err == nil {
		return nil, os.ErrExist
	}

	site, _ := GetSiteConfig()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(relPath), ".md")
	}
	doc := &models.Document{
		Path:      relPath,
		Permalink: Permalink(relPath),
		Format:    FormatYAML,
		Meta: models.Metadata{
			Author: site.DefaultAuthor,
			Title:  title,
			Date:   time.Now(),
			Tags:   []string{},
		},
		Body: "Draft.",
	}
	if err := SaveDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(target)
	if strings.Contains(cleanTarget, "..") {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

// GetSiteConfig reads config/site.yml, falling back to defaults when absent.
func GetSiteConfig() (models.SiteConfig, error) {
	cfg := models.SiteConfig{
		Title:     "Blog",
		BaseURL:   config.GetAppURL(),
		FeedLimit: 20,
	}
	content, err := os.ReadFile(filepath.Join(config.RepoPath, config.SiteConfigPath))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	if cfg.FeedLimit <= 0 {
		cfg.FeedLimit = 20
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.GetAppURL()
	}
	return cfg, nil
}

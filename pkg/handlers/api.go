package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"blog-cms/pkg/config"
	"blog-cms/pkg/models"
	"blog-cms/pkg/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func ListDocuments(c *gin.Context) {
	docs, err := services.GetLibrary()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to load content"})
		return
	}
	summaries := make([]models.Summary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, doc.Summary())
	}
	c.JSON(http.StatusOK, summaries)
}

func GetDocument(c *gin.Context) {
	doc, ok := loadDocument(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

func GetDocumentHTML(c *gin.Context) {
	doc, ok := loadDocument(c)
	if !ok {
		return
	}
	html, err := services.RenderBody(doc.Body)
	if err != nil {
		c.JSON(500, gin.H{"error": "Render failed"})
		return
	}
	outline, _ := services.ExtractOutline(html)
	c.JSON(http.StatusOK, gin.H{
		"path":      doc.Path,
		"permalink": doc.Permalink,
		"metadata":  doc.Meta,
		"html":      html,
		"outline":   outline,
	})
}

func loadDocument(c *gin.Context) (*models.Document, bool) {
	doc, err := services.LoadDocument(c.Query("path"))
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(404, gin.H{"error": "File not found"})
		} else {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return doc, true
}

func SaveDocument(c *gin.Context) {
	var doc models.Document
	if err := c.BindJSON(&doc); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}
	if doc.Format == "" {
		doc.Format = services.FormatYAML
	}
	if err := services.SaveDocument(&doc); err != nil {
		c.JSON(500, gin.H{"error": "Save failed: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"status": "saved"})
}

func CreateDocument(c *gin.Context) {
	var req struct {
		Path  string `json:"path"`
		Title string `json:"title"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.Path == "" || strings.Contains(req.Path, "..") {
		c.JSON(400, gin.H{"error": "Invalid path"})
		return
	}

	doc, err := services.ScaffoldDocument(req.Path, req.Title)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			c.JSON(409, gin.H{"error": "File already exists"})
		} else {
			c.JSON(500, gin.H{"error": "Create failed: " + err.Error()})
		}
		return
	}
	c.JSON(200, gin.H{"status": "created", "document": doc})
}

func ValidateContent(c *gin.Context) {
	issues, err := services.ValidateLibrary()
	if err != nil {
		c.JSON(500, gin.H{"error": "Validation walk failed: " + err.Error()})
		return
	}
	status := "ok"
	if len(issues) > 0 {
		status = "invalid"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "issues": issues})
}

func ListTags(c *gin.Context)       { listTerms(c, func(i *services.SiteIndex) services.Taxonomy { return i.Tags }) }
func ListCategories(c *gin.Context) { listTerms(c, func(i *services.SiteIndex) services.Taxonomy { return i.Categories }) }
func ListSeries(c *gin.Context)     { listTerms(c, func(i *services.SiteIndex) services.Taxonomy { return i.Series }) }

func GetTag(c *gin.Context)      { getTerm(c, func(i *services.SiteIndex) services.Taxonomy { return i.Tags }) }
func GetCategory(c *gin.Context) { getTerm(c, func(i *services.SiteIndex) services.Taxonomy { return i.Categories }) }
func GetSeries(c *gin.Context)   { getTerm(c, func(i *services.SiteIndex) services.Taxonomy { return i.Series }) }

func listTerms(c *gin.Context, pick func(*services.SiteIndex) services.Taxonomy) {
	idx, err := services.GetIndex()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to load content"})
		return
	}
	c.JSON(http.StatusOK, pick(idx).Terms())
}

func getTerm(c *gin.Context, pick func(*services.SiteIndex) services.Taxonomy) {
	idx, err := services.GetIndex()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to load content"})
		return
	}
	docs, ok := pick(idx)[c.Param("name")]
	if !ok {
		c.JSON(404, gin.H{"error": "Unknown term"})
		return
	}
	summaries := make([]models.Summary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, doc.Summary())
	}
	c.JSON(http.StatusOK, summaries)
}

func GetAliases(c *gin.Context) {
	idx, err := services.GetIndex()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to load content"})
		return
	}
	c.JSON(http.StatusOK, idx.Aliases)
}

// AliasRedirect resolves alternate URL slugs against the live preview.
func AliasRedirect(c *gin.Context) {
	idx, err := services.GetIndex()
	if err == nil {
		if target, ok := idx.Aliases[c.Request.URL.Path]; ok {
			c.Redirect(http.StatusFound, config.PreviewURL+strings.TrimPrefix(target, "/"))
			return
		}
	}
	c.Status(http.StatusNotFound)
}

func GetFeed(c *gin.Context) {
	rss, err := services.FeedRSS()
	if err != nil {
		c.JSON(500, gin.H{"error": "Feed generation failed"})
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func GetAtom(c *gin.Context) {
	atom, err := services.FeedAtom()
	if err != nil {
		c.JSON(500, gin.H{"error": "Feed generation failed"})
		return
	}
	c.Data(http.StatusOK, "application/atom+xml; charset=utf-8", []byte(atom))
}

func HandleBuild(c *gin.Context) {
	err, log := services.BuildSite()
	if err != nil {
		c.JSON(500, gin.H{"status": "error", "log": log})
		return
	}
	c.JSON(200, gin.H{"status": "ok", "log": log})
}

func HandleSync(c *gin.Context) {
	session := sessions.Default(c)
	token := session.Get("access_token").(string)
	err, log := services.SyncRepo(token)
	if err != nil {
		c.JSON(500, gin.H{"status": "error", "log": log})
		return
	}
	c.JSON(200, gin.H{"status": "ok", "log": log})
}

func HandlePublish(c *gin.Context) {
	session := sessions.Default(c)
	token := session.Get("access_token").(string)
	err, log := services.PublishRepo(token)
	if err != nil {
		c.JSON(500, gin.H{"status": "error", "log": log})
		return
	}
	c.JSON(200, gin.H{"status": "ok", "log": log})
}

func GetDiff(c *gin.Context) {
	var doc models.Document
	if err := c.BindJSON(&doc); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}
	if doc.Format == "" {
		doc.Format = services.FormatYAML
	}

	newContent, err := services.SerializeDocument(&doc)
	if err != nil {
		c.JSON(500, gin.H{"error": "Construction failed"})
		return
	}

	fullPath := services.SafeJoin(config.RepoPath, config.PostsDir, doc.Path)
	currentContent, err := os.ReadFile(fullPath)
	if err != nil {
		currentContent = []byte("")
	}

	tmpDir := os.TempDir()
	f1, _ := os.CreateTemp(tmpDir, "diff_old_*")
	f2, _ := os.CreateTemp(tmpDir, "diff_new_*")
	defer os.Remove(f1.Name())
	defer os.Remove(f2.Name())

	f1.Write(currentContent)
	f2.Write(newContent)
	f1.Close()
	f2.Close()

	relPath := filepath.Join(config.PostsDir, doc.Path)
	diffStr, diffType := services.Diff(f1.Name(), f2.Name(), relPath)

	c.JSON(200, gin.H{"diff": diffStr, "type": diffType})
}

func ListAssets(c *gin.Context) {
	files, err := services.ListAssets()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to list assets: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, files)
}

func UploadAsset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"error": "No file uploaded"})
		return
	}
	info, err := services.SaveAsset(file)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to save file: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func DeleteAsset(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := services.DeleteAsset(req.Name); err != nil {
		c.JSON(500, gin.H{"error": "Failed to delete: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"status": "deleted"})
}

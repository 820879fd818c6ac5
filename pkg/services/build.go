package services

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"blog-cms/pkg/config"
	"blog-cms/pkg/models"
)

const postPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Site.Title}} - {{.Doc.Meta.Title}}</title>
</head>
<body>
<article>
<h1>{{.Doc.Meta.Title}}</h1>
<p class="meta">{{.Doc.Meta.Author}}, {{.Doc.Meta.Date.Format "2006-01-02"}}</p>
{{if .Outline}}<nav class="outline"><ul>
{{range .Outline}}<li class="level-{{.Level}}"><a href="#{{.ID}}">{{.Text}}</a></li>
{{end}}</ul></nav>{{end}}
{{.Body}}
</article>
</body>
</html>
`

const listPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Site.Title}} - {{.Heading}}</title>
</head>
<body>
<h1>{{.Heading}}</h1>
<ul>
{{range .Docs}}<li><a href="{{.Permalink}}">{{.Meta.Title}}</a> <time>{{.Meta.Date.Format "2006-01-02"}}</time></li>
{{end}}</ul>
</body>
</html>
`

const redirectPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="0; url={{.}}">
<link rel="canonical" href="{{.}}">
</head>
<body><a href="{{.}}">Moved</a></body>
</html>
`

var (
	postTmpl     = template.Must(template.New("post").Parse(postPage))
	listTmpl     = template.Must(template.New("list").Parse(listPage))
	redirectTmpl = template.Must(template.New("redirect").Parse(redirectPage))
)

type postPageData struct {
	Site    models.SiteConfig
	Doc     *models.Document
	Body    template.HTML
	Outline []OutlineEntry
}

type listPageData struct {
	Site    models.SiteConfig
	Heading string
	Docs    []*models.Document
}

// BuildSite renders the whole content tree into the public dir: every post,
// the listing and taxonomy pages, alias redirect stubs, and the feeds.
func BuildSite() (error, string) {
	var buildLog strings.Builder

	InvalidateLibrary()
	docs, err := GetLibrary()
	if err != nil {
		return err, buildLog.String()
	}
	site, err := GetSiteConfig()
	if err != nil {
		return err, buildLog.String()
	}
	idx := BuildIndex(docs)

	out := config.PublicPath
	if err := os.RemoveAll(out); err != nil {
		return err, buildLog.String()
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return err, buildLog.String()
	}

	for _, doc := range docs {
		if err := writePost(out, site, doc); err != nil {
			return err, buildLog.String()
		}
		fmt.Fprintf(&buildLog, "rendered %s\n", doc.Permalink)
	}

	if err := writeListing(out, site, site.Title, docs); err != nil {
		return err, buildLog.String()
	}
	for prefix, tax := range map[string]Taxonomy{
		"tags": idx.Tags, "categories": idx.Categories, "series": idx.Series,
	} {
		for _, term := range tax.Terms() {
			dir := filepath.Join(out, prefix, term.Name)
			if err := writeListing(dir, site, term.Name, tax[term.Name]); err != nil {
				return err, buildLog.String()
			}
		}
	}

	for alias, target := range idx.Aliases {
		if err := writeRedirect(out, alias, target); err != nil {
			return err, buildLog.String()
		}
		fmt.Fprintf(&buildLog, "alias %s -> %s\n", alias, target)
	}

	rss, err := BuildFeed(site, docs).ToRss()
	if err != nil {
		return err, buildLog.String()
	}
	if err := os.WriteFile(filepath.Join(out, "feed.xml"), []byte(rss), 0644); err != nil {
		return err, buildLog.String()
	}
	atom, err := BuildFeed(site, docs).ToAtom()
	if err != nil {
		return err, buildLog.String()
	}
	if err := os.WriteFile(filepath.Join(out, "atom.xml"), []byte(atom), 0644); err != nil {
		return err, buildLog.String()
	}

	staticSrc := filepath.Join(config.RepoPath, config.StaticDir)
	if err := copyDir(staticSrc, filepath.Join(out, "static")); err != nil {
		return err, buildLog.String()
	}

	fmt.Fprintf(&buildLog, "built %d documents\n", len(docs))
	return nil, buildLog.String()
}

func writePost(out string, site models.SiteConfig, doc *models.Document) error {
	html, err := RenderBody(doc.Body)
	if err != nil {
		return err
	}
	outline, err := ExtractOutline(html)
	if err != nil {
		return err
	}

	dir := filepath.Join(out, filepath.FromSlash(strings.Trim(doc.Permalink, "/")))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()
	return postTmpl.Execute(f, postPageData{
		Site:    site,
		Doc:     doc,
		Body:    template.HTML(html),
		Outline: outline,
	})
}

func writeListing(dir string, site models.SiteConfig, heading string, docs []*models.Document) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()
	return listTmpl.Execute(f, listPageData{Site: site, Heading: heading, Docs: docs})
}

func writeRedirect(out, alias, target string) error {
	dir := filepath.Join(out, filepath.FromSlash(strings.Trim(alias, "/")))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()
	return redirectTmpl.Execute(f, target)
}

func copyDir(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, path)
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, in)
		return err
	})
}

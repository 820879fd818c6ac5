package services

import (
	"os"
	"path/filepath"
	"testing"

	"blog-cms/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSite(t *testing.T) {
	root := setupContentDir(t)
	writePostFile(t, root, "hello.md",
		"---\nauthor: Jane\ntitle: Hello\ndate: 2024-05-02\ntags:\n  - kotlin\naliases:\n  - /posts/hi/\n---\n\n## Greeting\n\nHello world.\n")
	writePostFile(t, root, "second.md",
		"---\nauthor: Jane\ntitle: Second\ndate: 2024-03-17\ncategories:\n  - android\n---\n\nBody.\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "static/images"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "static/images/pic.png"), []byte("png"), 0644))

	err, buildLog := BuildSite()
	require.NoError(t, err)
	assert.Contains(t, buildLog, "built 2 documents")

	out := config.PublicPath

	post, err := os.ReadFile(filepath.Join(out, "posts/hello/index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "<h1>Hello</h1>")
	assert.Contains(t, string(post), `<h2 id="greeting">Greeting</h2>`)
	assert.Contains(t, string(post), `href="#greeting"`)

	listing, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(listing), "/posts/hello/")
	assert.Contains(t, string(listing), "/posts/second/")

	tagPage, err := os.ReadFile(filepath.Join(out, "tags/kotlin/index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(tagPage), "Hello")

	catPage, err := os.ReadFile(filepath.Join(out, "categories/android/index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(catPage), "Second")

	redirect, err := os.ReadFile(filepath.Join(out, "posts/hi/index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(redirect), "/posts/hello/")
	assert.Contains(t, string(redirect), "http-equiv")

	_, err = os.Stat(filepath.Join(out, "feed.xml"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "atom.xml"))
	require.NoError(t, err)

	copied, err := os.ReadFile(filepath.Join(out, "static/images/pic.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(copied))
}

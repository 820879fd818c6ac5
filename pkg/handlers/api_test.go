package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"blog-cms/pkg/config"
	"blog-cms/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	oldRepo, oldPosts := config.RepoPath, config.PostsDir
	config.RepoPath = root
	config.PostsDir = "content/posts"
	t.Cleanup(func() {
		config.RepoPath, config.PostsDir = oldRepo, oldPosts
		services.InvalidateLibrary()
	})

	require.NoError(t, os.MkdirAll(filepath.Join(root, "content/posts"), 0755))
	post := "---\nauthor: Jane\ntitle: Post\ndate: 2024-05-02\ntags:\n  - kotlin\naliases:\n  - /posts/old/\n---\n\nBody.\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "content/posts/post.md"), []byte(post), 0644))
	services.InvalidateLibrary()

	r := gin.New()
	r.GET("/api/documents", ListDocuments)
	r.GET("/api/document", GetDocument)
	r.GET("/api/tags/:name", GetTag)
	r.GET("/api/validate", ValidateContent)
	r.NoRoute(AliasRedirect)
	return r
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestListDocuments(t *testing.T) {
	r := setupRouter(t)
	w := doRequest(r, http.MethodGet, "/api/documents")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Post"`)
	assert.Contains(t, w.Body.String(), `"permalink":"/posts/post/"`)
}

func TestGetDocument(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/document?path=post.md")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"author":"Jane"`)

	w = doRequest(r, http.MethodGet, "/api/document?path=missing.md")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTag(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/tags/kotlin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Post"`)

	w = doRequest(r, http.MethodGet, "/api/tags/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidateEndpoint(t *testing.T) {
	r := setupRouter(t)
	w := doRequest(r, http.MethodGet, "/api/validate")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAliasRedirect(t *testing.T) {
	r := setupRouter(t)
	w := doRequest(r, http.MethodGet, "/posts/old/")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/preview/posts/post/", w.Header().Get("Location"))
}

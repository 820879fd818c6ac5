package main

import (
	"net/http"
	"os"

	"blog-cms/pkg/config"
	"blog-cms/pkg/handlers"
	"blog-cms/pkg/logger"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize config & logging
	config.Init()
	logger.Init(config.Env)

	r := gin.Default()

	// Session Setup
	store := cookie.NewStore([]byte(os.Getenv("SESSION_SECRET")))
	r.Use(sessions.Sessions("blogcms_session", store))

	// Built site preview & static assets
	r.Static(config.PreviewURL, config.PublicPath)
	r.Static("/static", config.StaticDir)

	// --- Auth Routes ---
	r.GET("/login", handlers.Login)
	r.GET("/auth/callback", handlers.AuthCallback)
	r.GET("/logout", handlers.Logout)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, config.PreviewURL) })
	r.GET("/feed.xml", handlers.GetFeed)
	r.GET("/atom.xml", handlers.GetAtom)

	// --- Read API ---
	api := r.Group("/api")
	{
		api.GET("/documents", handlers.ListDocuments)
		api.GET("/document", handlers.GetDocument)
		api.GET("/document/html", handlers.GetDocumentHTML)
		api.GET("/tags", handlers.ListTags)
		api.GET("/tags/:name", handlers.GetTag)
		api.GET("/categories", handlers.ListCategories)
		api.GET("/categories/:name", handlers.GetCategory)
		api.GET("/series", handlers.ListSeries)
		api.GET("/series/:name", handlers.GetSeries)
		api.GET("/aliases", handlers.GetAliases)
		api.GET("/validate", handlers.ValidateContent)
	}

	// --- Authoring API (Authorized) ---
	authorized := r.Group("/api")
	authorized.Use(handlers.AuthRequired)
	{
		authorized.POST("/document", handlers.SaveDocument)
		authorized.POST("/create", handlers.CreateDocument)
		authorized.POST("/diff", handlers.GetDiff)
		authorized.POST("/build", handlers.HandleBuild)
		authorized.POST("/sync", handlers.HandleSync)
		authorized.POST("/publish", handlers.HandlePublish)
		authorized.GET("/assets", handlers.ListAssets)
		authorized.POST("/assets", handlers.UploadAsset)
		authorized.POST("/assets/delete", handlers.DeleteAsset)
	}

	// Alias slugs redirect into the preview
	r.NoRoute(handlers.AliasRedirect)

	r.Run(config.ListenAddr)
}

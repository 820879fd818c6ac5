package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var (
	RepoPath       = "."
	PostsDir       = "content/posts"
	StaticDir      = "static"
	AssetDir       = "static/images"
	PublicPath     = "./public"
	SiteConfigPath = "config/site.yml"
	PreviewURL     = "/preview/"

	ListenAddr = ":8080"
	Env        = "development"

	// Git settings
	GitUserEmail = "bot@blog-cms.local"
	GitUserName  = "Blog CMS Bot"
	GitBranch    = "main"
	GitRemote    = "origin"
)

var OauthConf *oauth2.Config

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	appURL := getEnv("APP_URL", "http://localhost:8080")
	redirectURL := getEnv("GITHUB_REDIRECT_URL", appURL+"/auth/callback")

	RepoPath = getEnv("REPO_PATH", ".")
	PostsDir = getEnv("POSTS_DIR", "content/posts")
	StaticDir = getEnv("STATIC_DIR", "static")
	AssetDir = getEnv("ASSET_DIR", filepath.Join(StaticDir, "images"))
	PublicPath = getEnv("PUBLIC_PATH", "./public")
	SiteConfigPath = getEnv("SITE_CONFIG_PATH", "config/site.yml")

	ListenAddr = getEnv("LISTEN_ADDR", ":8080")
	Env = getEnv("APP_ENV", "development")

	GitUserEmail = getEnv("GIT_USER_EMAIL", "bot@blog-cms.local")
	GitUserName = getEnv("GIT_USER_NAME", "Blog CMS Bot")
	GitBranch = getEnv("GIT_BRANCH", "main")
	GitRemote = getEnv("GIT_REMOTE", "origin")

	OauthConf = &oauth2.Config{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		Scopes:       []string{"repo"},
		Endpoint:     github.Endpoint,
		RedirectURL:  redirectURL,
	}
}

func GetAppURL() string {
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}
	return appURL
}

// PostsPath is the on-disk location of the content documents.
func PostsPath() string {
	return filepath.Join(RepoPath, PostsDir)
}

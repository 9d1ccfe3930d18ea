// Package crimepress is the publishing engine behind an Arabic-first true
// crime site: a public catalog of stories organized by category, with search,
// related-content recommendations, newsletter signup and SEO metadata
// generation, plus a session-guarded admin dashboard for managing stories and
// categories over SQLite.
//
// Callers provide their own templ components via the ViewFuncs struct; the
// engine owns handlers, middleware, the query layer and the SEO generator.
package crimepress

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components the engine calls when rendering pages.
// This is the inversion-of-control mechanism that keeps templates caller-owned.
type ViewFuncs struct {
	Home           func(d HomeData) templ.Component
	Story          func(d StoryData) templ.Component
	Category       func(d CategoryData) templ.Component
	Best           func(stories []Story) templ.Component
	Contact        func(sent, failed bool, csrfToken string) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(d AdminData) templ.Component
	AdminStoryForm func(s Story, categories []Category, csrfToken string) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App wires together the store, cache, scraper, handlers, middleware and
// caller-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Cache   *StoryCache
	Views   ViewFuncs
	Scraper *Scraper

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates an App around an already-opened Store. The store's lifecycle
// stays with the process entry point.
func New(cfg SiteConfig, store *Store, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:       cfg,
		Echo:         echo.New(),
		Store:        store,
		Cache:        NewStoryCache(store, cfg.StoryCacheTTL),
		Views:        views,
		Scraper:      NewScraper(nil),
		loginLimiter: NewLoginLimiter(5, time.Minute),
		staticDir:    "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start validates config, installs middleware and routes, and serves.
func (a *App) Start() error {
	if a.Config.AdminEmail == "" || a.Config.AdminPassword == "" {
		return fmt.Errorf("crimepress: AdminEmail and AdminPassword are required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("crimepress: SessionSecret is required")
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public pages
	e.GET("/", a.handleHome)
	e.GET("/videos/best/", a.handleBest)
	e.GET("/videos/:slug/", a.handleStory)
	e.GET("/category/:slug/", a.handleCategory)
	e.GET("/contact/", a.handleContact)
	e.POST("/contact/", a.handleContactSubmit)

	// JSON API
	e.GET("/api/search", a.handleSearch)
	e.GET("/api/random", a.handleRandom)
	e.POST("/api/newsletter", a.handleNewsletter)
	e.GET("/api/revalidate", a.handleRevalidate)
	e.POST("/api/revalidate", a.handleRevalidate)
	e.GET("/api/yt-info", a.handleVideoInfo)

	// Admin
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/story/:id/", a.handleAdminStoryForm)
	e.POST("/admin/story/save/", a.handleAdminSaveStory)
	e.DELETE("/admin/story/:id/", a.handleAdminDeleteStory)
	e.POST("/admin/category/save/", a.handleAdminSaveCategory)
	e.DELETE("/admin/category/:id/", a.handleAdminDeleteCategory)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

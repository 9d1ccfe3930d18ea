package crimepress

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Read failures on public pages degrade to empty results: visitors see an
// empty state, never an error page. Errors are still logged for diagnosis.

func (a *App) handleHome(c echo.Context) error {
	d := HomeData{}
	var err error
	if d.Latest, err = a.Cache.Latest(6); err != nil {
		c.Logger().Errorf("home: latest stories: %v", err)
	}
	if d.Best, err = a.Cache.Best(6); err != nil {
		c.Logger().Errorf("home: best stories: %v", err)
	}
	if d.Trending, err = a.Cache.Trending(6); err != nil {
		c.Logger().Errorf("home: trending stories: %v", err)
	}
	if d.Categories, err = a.Cache.Categories(); err != nil {
		c.Logger().Errorf("home: categories: %v", err)
	}
	return Render(c, a.Views.Home(d))
}

func (a *App) handleStory(c echo.Context) error {
	slug := c.Param("slug")
	story, err := a.Cache.GetStoryBySlug(slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}

	// The only field public traffic mutates. A failed bump never blocks the
	// page render.
	if err := a.Store.IncrementViews(story.ID); err != nil {
		c.Logger().Errorf("story %d: increment views: %v", story.ID, err)
	}

	related, err := a.Cache.Related(story, 4)
	if err != nil {
		c.Logger().Errorf("story %d: related: %v", story.ID, err)
	}

	faqs := StoryFAQs(a.Config, story)
	crumbs := []Breadcrumb{
		{Name: a.Config.ShortName, URL: CanonicalURL(a.Config, "/")},
	}
	if story.CategoryName != "" {
		crumbs = append(crumbs, Breadcrumb{Name: story.CategoryName, URL: CanonicalURL(a.Config, "/category/"+story.CategorySlug)})
	}
	crumbs = append(crumbs, Breadcrumb{Name: story.Title, URL: CanonicalURL(a.Config, "/videos/"+story.Slug)})

	return Render(c, a.Views.Story(StoryData{
		Story:       story,
		Related:     related,
		Meta:        StoryMetadata(a.Config, story),
		FAQs:        faqs,
		ReadingTime: ReadingTime(story.Content),
		JSONLD: []string{
			ArticleSchema(a.Config, story),
			VideoObjectSchema(a.Config, story),
			BreadcrumbSchema(crumbs),
			FAQSchema(faqs),
		},
	}))
}

func (a *App) handleCategory(c echo.Context) error {
	slug := c.Param("slug")
	category, err := a.Cache.GetCategoryBySlug(slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	stories, err := a.Cache.ByCategory(category.ID)
	if err != nil {
		c.Logger().Errorf("category %s: stories: %v", category.Slug, err)
	}
	return Render(c, a.Views.Category(CategoryData{
		Category: category,
		Stories:  stories,
		Intro:    CategoryIntro(category, a.Config.Intros()),
		Meta:     CategoryMetadata(a.Config, category, len(stories)),
		JSONLD: []string{
			CollectionPageSchema(a.Config, category, len(stories)),
			BreadcrumbSchema([]Breadcrumb{
				{Name: a.Config.ShortName, URL: CanonicalURL(a.Config, "/")},
				{Name: category.Name, URL: CanonicalURL(a.Config, "/category/"+category.Slug)},
			}),
		},
	}))
}

func (a *App) handleBest(c echo.Context) error {
	stories, err := a.Cache.Best(50)
	if err != nil {
		c.Logger().Errorf("best stories: %v", err)
	}
	return Render(c, a.Views.Best(stories))
}

func (a *App) handleContact(c echo.Context) error {
	return Render(c, a.Views.Contact(false, false, CsrfToken(c)))
}

func (a *App) handleContactSubmit(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	message := strings.TrimSpace(c.FormValue("message"))
	if len([]rune(name)) < 2 || !ValidEmail(email) || len([]rune(message)) < 10 {
		return Render(c, a.Views.Contact(false, true, CsrfToken(c)))
	}
	if err := a.Store.InsertContactMessage(name, email, message); err != nil {
		c.Logger().Errorf("contact message: %v", err)
		return Render(c, a.Views.Contact(false, true, CsrfToken(c)))
	}
	return Render(c, a.Views.Contact(true, false, CsrfToken(c)))
}

// handleSearch returns up to 10 reduced story records matching q. Queries
// shorter than 2 characters short-circuit to an empty array without touching
// the store.
func (a *App) handleSearch(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if len([]rune(q)) < 2 {
		return c.JSON(http.StatusOK, []StorySummary{})
	}
	results, err := a.Store.SearchStories(q)
	if err != nil {
		c.Logger().Errorf("search %q: %v", q, err)
		results = nil
	}
	if results == nil {
		results = []StorySummary{}
	}
	return c.JSON(http.StatusOK, results)
}

// handleRandom picks a story slug uniformly at random, or falls back to the
// home path when there are none.
func (a *App) handleRandom(c echo.Context) error {
	slugs, err := a.Store.ListStorySlugs()
	if err != nil {
		c.Logger().Errorf("random story: %v", err)
	}
	if len(slugs) == 0 {
		return c.Redirect(http.StatusTemporaryRedirect, "/")
	}
	return c.JSON(http.StatusOK, map[string]string{"slug": slugs[rand.Intn(len(slugs))]})
}

func (a *App) handleNewsletter(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil || !ValidEmail(strings.TrimSpace(body.Email)) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "بريد إلكتروني غير صالح"})
	}
	if err := a.Store.SubscribeNewsletter(body.Email); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "هذا البريد مشترك بالفعل!"})
		}
		c.Logger().Errorf("newsletter subscribe: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "حدث خطأ، حاول مرة أخرى"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "تم الاشتراك بنجاح!"})
}

// handleRevalidate drops cached content for a path after admin writes. The
// cache is process-wide, so any valid path invalidates the whole story cache.
func (a *App) handleRevalidate(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := c.Bind(&body); err == nil {
			path = body.Path
		}
	}
	if path == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Path is required"})
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]any{"revalidated": true, "path": path})
}

func (a *App) handleVideoInfo(c echo.Context) error {
	videoURL := c.QueryParam("url")
	if videoURL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "URL is required"})
	}
	if !strings.HasPrefix(videoURL, "http") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "يرجى إدخال رابط صحيح (يبدأ بـ http)"})
	}
	info, err := a.Scraper.FetchVideoInfo(c.Request().Context(), videoURL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, info)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically from the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", strings.TrimSuffix(a.Config.URL, "/"))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

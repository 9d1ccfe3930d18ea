package crimepress

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubComponent(label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, label)
		return err
	})
}

func stubViews() ViewFuncs {
	return ViewFuncs{
		Home:           func(HomeData) templ.Component { return stubComponent("home") },
		Story:          func(d StoryData) templ.Component { return stubComponent("story:" + d.Story.Slug) },
		Category:       func(d CategoryData) templ.Component { return stubComponent("category:" + d.Category.Slug) },
		Best:           func([]Story) templ.Component { return stubComponent("best") },
		Contact:        func(sent, failed bool, _ string) templ.Component { return stubComponent("contact") },
		AdminLogin:     func(bool, string) templ.Component { return stubComponent("login") },
		AdminDashboard: func(AdminData) templ.Component { return stubComponent("dashboard") },
		AdminStoryForm: func(Story, []Category, string) templ.Component { return stubComponent("form") },
		AdminImages:    func([]Image, string) templ.Component { return stubComponent("images") },
		NotFound:       func() templ.Component { return stubComponent("not found") },
		ServerError:    func() templ.Component { return stubComponent("server error") },
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	store := setupTestStore(t)
	app := New(SiteConfig{URL: "https://example.com"}, store, stubViews())
	app.setupRoutes()
	return app
}

func doRequest(app *App, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echoHeaderContentType, "application/json")
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func TestSearchShortQuery(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/api/search?q=a", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestSearchReturnsMatches(t *testing.T) {
	app := newTestApp(t)
	mustSave(t, app.Store, testStory("قضية-البحث"))

	rec := doRequest(app, http.MethodGet, "/api/search?q=%D9%85%D9%84%D8%AE%D8%B5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "قضية-البحث")
	// The reduced projection never carries the content body.
	assert.NotContains(t, rec.Body.String(), "التفاصيل الكاملة")
}

func TestNewsletterEndpoint(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodPost, "/api/newsletter", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(app, http.MethodPost, "/api/newsletter", `{"email":"reader@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(app, http.MethodPost, "/api/newsletter", `{"email":"Reader@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRevalidateEndpoint(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodPost, "/api/revalidate", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(app, http.MethodGet, "/api/revalidate?path=/videos/x/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"revalidated":true`)
}

func TestRandomEndpoint(t *testing.T) {
	app := newTestApp(t)

	// No stories: fall back to the home page.
	rec := doRequest(app, http.MethodGet, "/api/random", "")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	mustSave(t, app.Store, testStory("only-story"))
	rec = doRequest(app, http.MethodGet, "/api/random", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "only-story")
}

func TestVideoInfoRequiresURL(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/api/yt-info", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(app, http.MethodGet, "/api/yt-info?url=ftp%3A%2F%2Fx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoryPageNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/videos/no-such-story/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", rec.Body.String())
}

func TestStoryPageIncrementsViews(t *testing.T) {
	app := newTestApp(t)
	id := mustSave(t, app.Store, testStory("viewed-story"))

	rec := doRequest(app, http.MethodGet, "/videos/viewed-story/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "story:viewed-story", rec.Body.String())

	got, err := app.Store.GetStoryBySlug("viewed-story")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)
	_ = id
}

func TestHomeAndCategoryPages(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "home", rec.Body.String())

	catID, err := app.Store.SaveCategory(Category{Name: "اختفاء", Slug: "اختفاء"})
	require.NoError(t, err)
	_ = catID
	app.Cache.Invalidate()

	rec = doRequest(app, http.MethodGet, "/category/"+"%D8%A7%D8%AE%D8%AA%D9%81%D8%A7%D8%A1"+"/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "category:اختفاء", rec.Body.String())

	rec = doRequest(app, http.MethodGet, "/category/missing/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRobotsTxt(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/robots.txt", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Disallow: /admin/")
	assert.Contains(t, rec.Body.String(), "https://example.com/sitemap.xml")
}

func TestSitemapAndFeed(t *testing.T) {
	app := newTestApp(t)
	mustSave(t, app.Store, testStory("قضية-الخريطة"))

	rec := doRequest(app, http.MethodGet, "/sitemap.xml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	// Arabic slugs appear percent-encoded.
	assert.Contains(t, rec.Body.String(), "/videos/"+"%D9%82%D8%B6%D9%8A%D8%A9-%D8%A7%D9%84%D8%AE%D8%B1%D9%8A%D8%B7%D8%A9"+"/")

	rec = doRequest(app, http.MethodGet, "/feed.xml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<rss")
	assert.Contains(t, rec.Body.String(), "قضية قضية-الخريطة")
}

package crimepress

import (
	"crypto/subtle"
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	email := strings.TrimSpace(c.FormValue("email"))
	pass := c.FormValue("password")
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.Config.AdminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1
	if emailOK && passOK {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminStoryForm serves the story editor. The id "new" opens an empty
// form.
func (a *App) handleAdminStoryForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	categories, err := a.Store.ListCategories()
	if err != nil {
		return err
	}
	idParam := c.Param("id")
	if idParam == "new" {
		return Render(c, a.Views.AdminStoryForm(Story{}, categories, CsrfToken(c)))
	}
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	story, err := a.storyByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminStoryForm(story, categories, CsrfToken(c)))
}

func (a *App) storyByID(id int64) (Story, error) {
	stories, err := a.Store.ListAllStories()
	if err != nil {
		return Story{}, err
	}
	for _, s := range stories {
		if s.ID == id {
			return s, nil
		}
	}
	return Story{}, sql.ErrNoRows
}

func (a *App) handleAdminSaveStory(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}

	id, _ := strconv.ParseInt(c.FormValue("id"), 10, 64)
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	excerpt := strings.TrimSpace(c.FormValue("excerpt"))
	content := strings.TrimSpace(c.FormValue("content"))
	youtubeID := strings.TrimSpace(c.FormValue("youtube_id"))

	switch {
	case len([]rune(title)) < 3:
		return a.adminRedirect(c, "العنوان قصير جدًا (3 أحرف على الأقل)")
	case !ValidSlug(slug):
		return a.adminRedirect(c, "الرابط الدائم غير صالح")
	case len([]rune(excerpt)) < 10:
		return a.adminRedirect(c, "الوصف المختصر قصير جدًا (10 أحرف على الأقل)")
	case len([]rune(content)) < 50:
		return a.adminRedirect(c, "المحتوى قصير جدًا (50 حرفًا على الأقل)")
	case len(youtubeID) < 5:
		return a.adminRedirect(c, "معرّف الفيديو غير صالح")
	}

	publishedAt := strings.TrimSpace(c.FormValue("published_at"))
	if publishedAt == "" {
		publishedAt = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", publishedAt); err != nil {
		return a.adminRedirect(c, "صيغة التاريخ غير صحيحة، استخدم YYYY-MM-DD")
	}

	categoryID, _ := strconv.ParseInt(c.FormValue("category_id"), 10, 64)

	people := strings.Split(c.FormValue("people_involved"), ",")
	for i := range people {
		people[i] = strings.TrimSpace(people[i])
	}

	_, err := a.Store.SaveStory(Story{
		ID:             id,
		Title:          title,
		Slug:           slug,
		Excerpt:        excerpt,
		Content:        content,
		YouTubeID:      youtubeID,
		ThumbnailURL:   strings.TrimSpace(c.FormValue("thumbnail_url")),
		Location:       strings.TrimSpace(c.FormValue("location")),
		PeopleInvolved: FilterEmpty(people),
		CategoryID:     categoryID,
		ExternalOnly:   c.FormValue("external_only") != "",
		Best:           c.FormValue("best") != "",
		PublishedAt:    publishedAt,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return a.adminRedirect(c, "هذا الرابط الدائم مستخدم بالفعل")
		}
		return err
	}
	a.Cache.Invalidate()
	return a.adminRedirect(c, "saved")
}

func (a *App) handleAdminDeleteStory(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	if err := a.Store.DeleteStory(id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) handleAdminSaveCategory(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, _ := strconv.ParseInt(c.FormValue("id"), 10, 64)
	name := strings.TrimSpace(c.FormValue("name"))
	if len([]rune(name)) < 2 {
		return a.adminRedirect(c, "اسم القسم قصير جدًا")
	}
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(name)
	}
	if !ValidSlug(slug) {
		return a.adminRedirect(c, "رابط القسم غير صالح")
	}
	_, err := a.Store.SaveCategory(Category{
		ID:          id,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(c.FormValue("description")),
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return a.adminRedirect(c, "هذا الرابط الدائم مستخدم بالفعل")
		}
		return err
	}
	a.Cache.Invalidate()
	return a.adminRedirect(c, "saved")
}

// handleAdminDeleteCategory removes a category. Stories keep existing and
// become uncategorized via the schema's SET NULL reference.
func (a *App) handleAdminDeleteCategory(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	if err := a.Store.DeleteCategory(id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) adminRedirect(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	stories, err := a.Store.ListAllStories()
	if err != nil {
		return err
	}
	categories, err := a.Store.ListCategories()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(AdminData{
		Stories:    stories,
		Categories: categories,
		Message:    msg,
		CSRF:       CsrfToken(c),
	}))
}

package crimepress

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// handleSitemap lists the home page, static pages, category listings and
// every story. Arabic slugs are percent-encoded into valid URLs.
func (a *App) handleSitemap(c echo.Context) error {
	stories, err := a.Cache.Stories()
	if err != nil {
		return err
	}
	categories, err := a.Cache.Categories()
	if err != nil {
		return err
	}

	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "videos", "best")},
		{Loc: BuildURL(base, "contact")},
	}
	for _, cat := range categories {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "category", PathEscape(cat.Slug))})
	}
	for _, s := range stories {
		lastMod := s.PublishedAt
		if len(s.UpdatedAt) >= 10 {
			lastMod = s.UpdatedAt[:10]
		}
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "videos", PathEscape(s.Slug)),
			LastMod: lastMod,
		})
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}

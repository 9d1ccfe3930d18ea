package crimepress

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aslhikaya/crimepress/htmltext"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// handleFeed serves the RSS feed of the most recent stories.
func (a *App) handleFeed(c echo.Context) error {
	stories, err := a.Cache.Latest(30)
	if err != nil {
		return err
	}

	base := a.Config.URL
	items := make([]rssItem, 0, len(stories))
	for _, s := range stories {
		pubDate := ""
		if t, err := time.Parse("2006-01-02", s.PublishedAt); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		storyURL := BuildURL(base, "videos", PathEscape(s.Slug))
		items = append(items, rssItem{
			Title:       s.Title,
			Link:        storyURL,
			// Excerpts are sometimes pasted with markup; feed readers get text.
			Description: htmltext.DecodeEntities(htmltext.StripTags(s.Excerpt)),
			PubDate:     pubDate,
			GUID:        storyURL,
		})
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Language:    a.Config.Language,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

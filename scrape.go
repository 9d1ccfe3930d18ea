package crimepress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// VideoInfo is the best-effort scrape result used to pre-fill the admin
// story form. Any field that cannot be extracted stays empty.
type VideoInfo struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Keywords     []string `json:"keywords"`
	YouTubeID    string   `json:"youtube_id"`
	ThumbnailURL string   `json:"thumbnail_url"`
}

// Scraper extracts video metadata from YouTube pages. It has no stable
// contract with the third party: every extraction step is a fallback chain
// over an undocumented page structure.
type Scraper struct {
	client     *http.Client
	oembedBase string
}

// NewScraper returns a Scraper using the given client, or a default client
// with a request timeout when nil.
func NewScraper(client *http.Client) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Scraper{
		client:     client,
		oembedBase: "https://www.youtube.com/oembed",
	}
}

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxPageBytes caps how much of the video page is read.
const maxPageBytes = 5 << 20

var (
	reYouTubeID = regexp.MustCompile(`(?:youtube\.com/(?:[^/\s]+/\S+/|(?:v|e(?:mbed)?)/|shorts/|live/|\S*?[?&]v=)|youtu\.be/)([A-Za-z0-9_-]{11})`)

	// Known shapes of the embedded player JSON. The page structure is not
	// ours; each path is independently fallible.
	reShortDescription      = regexp.MustCompile(`"shortDescription":"((?:[^"\\]|\\.)*)"`)
	reAttributedDescription = regexp.MustCompile(`"attributedDescription":\{"content":"((?:[^"\\]|\\.)*)"`)
)

// FetchVideoInfo scrapes title, description, keywords, video id and thumbnail
// for the video at rawURL. Missing fields are returned empty; only a failed
// page fetch fails the whole operation.
func (s *Scraper) FetchVideoInfo(ctx context.Context, rawURL string) (VideoInfo, error) {
	if !strings.HasPrefix(rawURL, "http") {
		return VideoInfo{}, errors.New("video URL must start with http")
	}

	oembed := s.fetchOEmbed(ctx, rawURL)

	page, err := s.fetchPage(ctx, rawURL)
	if err != nil {
		return VideoInfo{}, err
	}
	meta := extractPageMeta(page)

	info := VideoInfo{
		Title:     oembed.Title,
		YouTubeID: ExtractYouTubeID(rawURL),
	}
	if info.Title == "" {
		info.Title = strings.TrimSuffix(meta.title, " - YouTube")
	}
	info.Description = extractPlayerDescription(page)
	if info.Description == "" {
		// Meta descriptions truncate long text; accepted limitation.
		info.Description = meta.description
	}
	info.Keywords = splitKeywords(meta.keywords)
	info.ThumbnailURL = oembed.ThumbnailURL
	if info.ThumbnailURL == "" && info.YouTubeID != "" {
		info.ThumbnailURL = "https://img.youtube.com/vi/" + info.YouTubeID + "/maxresdefault.jpg"
	}
	return info, nil
}

type oembedResult struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// fetchOEmbed asks the oEmbed endpoint for title and thumbnail. Best effort:
// any failure returns an empty result.
func (s *Scraper) fetchOEmbed(ctx context.Context, videoURL string) oembedResult {
	var result oembedResult
	endpoint := s.oembedBase + "?url=" + url.QueryEscape(videoURL) + "&format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return result
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return result
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return result
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result)
	return result
}

func (s *Scraper) fetchPage(ctx context.Context, videoURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch video page: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read video page: %w", err)
	}
	return string(body), nil
}

// ExtractYouTubeID pulls the 11-character video id out of a watch, short,
// shorts, live or embed URL. Returns "" for unrecognized shapes.
func ExtractYouTubeID(videoURL string) string {
	m := reYouTubeID.FindStringSubmatch(videoURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// extractPlayerDescription walks the known embedded-JSON paths for the full
// description. Returns "" when none match.
func extractPlayerDescription(page string) string {
	for _, re := range []*regexp.Regexp{reShortDescription, reAttributedDescription} {
		m := re.FindStringSubmatch(page)
		if m == nil {
			continue
		}
		if unquoted, err := strconv.Unquote(`"` + m[1] + `"`); err == nil {
			return unquoted
		}
	}
	return ""
}

type pageMeta struct {
	title       string
	description string
	keywords    string
}

// extractPageMeta tokenizes the document head for the <title> text and the
// description/keywords meta tags. Entity decoding comes with the tokenizer.
func extractPageMeta(page string) pageMeta {
	var m pageMeta
	z := html.NewTokenizer(strings.NewReader(page))
	inTitle := false
	for {
		switch tt := z.Next(); tt {
		case html.ErrorToken:
			return m
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			switch t.Data {
			case "title":
				inTitle = tt == html.StartTagToken
			case "meta":
				var name, content string
				for _, attr := range t.Attr {
					switch attr.Key {
					case "name":
						name = attr.Val
					case "content":
						content = attr.Val
					}
				}
				switch name {
				case "description":
					if m.description == "" {
						m.description = content
					}
				case "keywords":
					if m.keywords == "" {
						m.keywords = content
					}
				}
			}
		case html.TextToken:
			if inTitle && m.title == "" {
				m.title = strings.TrimSpace(z.Token().Data)
			}
		case html.EndTagToken:
			if z.Token().Data == "title" {
				inTitle = false
			}
		}
	}
}

// splitKeywords splits a meta keywords value on commas, trims entries, and
// drops generic platform tokens.
func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		switch strings.ToLower(k) {
		case "youtube", "video", "videos":
			continue
		}
		out = append(out, k)
	}
	return out
}

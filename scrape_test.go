package crimepress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://example.com/watch?v=dQw4w9WgXcQ", ""},
		{"https://www.youtube.com/", ""},
		{"not a url", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractYouTubeID(tt.url), "url: %s", tt.url)
	}
}

func TestSplitKeywords(t *testing.T) {
	assert.Nil(t, splitKeywords(""))
	assert.Equal(t,
		[]string{"جريمة", "قضية غامضة"},
		splitKeywords("جريمة, YouTube, video, , قضية غامضة , videos"))
}

func TestExtractPageMeta(t *testing.T) {
	page := `<!DOCTYPE html><html><head>
<title>قضية الفيلا - YouTube</title>
<meta name="description" content="وصف مختصر">
<meta name="keywords" content="جريمة,غموض">
</head><body></body></html>`

	m := extractPageMeta(page)
	assert.Equal(t, "قضية الفيلا - YouTube", m.title)
	assert.Equal(t, "وصف مختصر", m.description)
	assert.Equal(t, "جريمة,غموض", m.keywords)
}

func TestExtractPlayerDescription(t *testing.T) {
	page := `{"videoDetails":{"shortDescription":"السطر الأول\nالسطر الثاني"}}`
	assert.Equal(t, "السطر الأول\nالسطر الثاني", extractPlayerDescription(page))

	// Fallback path when shortDescription is absent.
	page = `{"attributedDescription":{"content":"وصف بديل"}}`
	assert.Equal(t, "وصف بديل", extractPlayerDescription(page))

	assert.Equal(t, "", extractPlayerDescription("<html></html>"))
}

func TestFetchVideoInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"عنوان من oEmbed","thumbnail_url":"https://example.com/thumb.jpg"}`))
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
<title>عنوان الصفحة - YouTube</title>
<meta name="description" content="وصف قصير">
<meta name="keywords" content="جريمة,youtube,تحقيق">
</head><body>"shortDescription":"الوصف الكامل للفيديو"</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewScraper(srv.Client())
	s.oembedBase = srv.URL + "/oembed"

	info, err := s.FetchVideoInfo(context.Background(), srv.URL+"/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "عنوان من oEmbed", info.Title)
	assert.Equal(t, "الوصف الكامل للفيديو", info.Description)
	assert.Equal(t, []string{"جريمة", "تحقيق"}, info.Keywords)
	assert.Equal(t, "https://example.com/thumb.jpg", info.ThumbnailURL)
}

func TestFetchVideoInfoWithoutOEmbed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
<title>عنوان الصفحة - YouTube</title>
<meta name="description" content="وصف من الميتا">
</head><body></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewScraper(srv.Client())
	s.oembedBase = srv.URL + "/oembed"

	info, err := s.FetchVideoInfo(context.Background(), srv.URL+"/watch")
	require.NoError(t, err)

	// Title falls back to the page title with the platform suffix trimmed,
	// description to the meta tag.
	assert.Equal(t, "عنوان الصفحة", info.Title)
	assert.Equal(t, "وصف من الميتا", info.Description)
}

func TestFetchVideoInfoRejectsNonHTTP(t *testing.T) {
	s := NewScraper(nil)
	_, err := s.FetchVideoInfo(context.Background(), "ftp://example.com/video")
	require.Error(t, err)
}

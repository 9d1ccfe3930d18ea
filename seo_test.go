package crimepress

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seoTestConfig() SiteConfig {
	cfg := SiteConfig{
		Name:      "أصل الحكاية",
		ShortName: "أصل الحكاية",
		URL:       "https://example.com",
		Author:    "المقدم",
		Keywords:  []string{"جرائم حقيقية", "قصص جرائم"},
	}
	cfg.setDefaults()
	return cfg
}

func TestStoryFAQsDeterministic(t *testing.T) {
	cfg := seoTestConfig()
	story := Story{
		Title:          "لغز الفيلا المهجورة",
		Excerpt:        "ملخص القضية",
		PublishedAt:    "2024-03-10",
		Location:       "الإسكندرية",
		PeopleInvolved: []string{"منى", "خالد"},
		CategoryName:   "اختفاء",
	}

	faqs := StoryFAQs(cfg, story)
	require.Len(t, faqs, 5)

	assert.Contains(t, faqs[0].Question, story.Title)
	assert.Equal(t, story.Excerpt, faqs[0].Answer)
	assert.Contains(t, faqs[1].Answer, "مارس 2024")
	assert.Contains(t, faqs[1].Answer, "الإسكندرية")
	assert.Contains(t, faqs[2].Answer, "منى، خالد")
	assert.Contains(t, faqs[3].Answer, cfg.ShortName)

	// Same fields always yield the same FAQs.
	assert.Equal(t, faqs, StoryFAQs(cfg, story))
}

func TestStoryFAQsFallbacks(t *testing.T) {
	cfg := seoTestConfig()
	faqs := StoryFAQs(cfg, Story{Title: "قضية بلا تفاصيل", PublishedAt: "2024-01-01"})
	require.Len(t, faqs, 5)

	// No excerpt: first answer is templated from the title.
	assert.Contains(t, faqs[0].Answer, "قضية بلا تفاصيل")
	// No people: generic answer.
	assert.Contains(t, faqs[2].Answer, "جميع الأطراف المتورطة")
}

func TestCategoryIntro(t *testing.T) {
	curated := Category{Name: "جرائم قتل", Slug: "جرائم-قتل", Description: "وصف مخصص"}
	// A curated slug wins even when the category has its own description.
	assert.Equal(t, DefaultCategoryIntros["جرائم-قتل"], CategoryIntro(curated, nil))

	generic := Category{Name: "سرقات", Slug: "سرقات"}
	intro := CategoryIntro(generic, nil)
	assert.Contains(t, intro, "سرقات")
	assert.Contains(t, intro, "category-intro")

	// Config overrides replace the built-in table entry.
	custom := map[string]string{"سرقات": "<p>مقدمة مخصصة</p>"}
	assert.Equal(t, "<p>مقدمة مخصصة</p>", CategoryIntro(generic, custom))
}

func TestVideoObjectSchema(t *testing.T) {
	cfg := seoTestConfig()
	story := Story{
		Title:       "قضية",
		YouTubeID:   "dQw4w9WgXcQ",
		PublishedAt: "2024-01-15",
		Views:       1234,
	}

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(VideoObjectSchema(cfg, story)), &data))

	assert.Equal(t, "VideoObject", data["@type"])
	assert.Equal(t, "PT15M", data["duration"])
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", data["contentUrl"])

	stat, ok := data["interactionStatistic"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1234, stat["userInteractionCount"])
}

func TestStoryMetadata(t *testing.T) {
	cfg := seoTestConfig()
	story := Story{
		Title:        "جرائم حقيقية", // collides with a site keyword
		Slug:         "دليل",
		YouTubeID:    "dQw4w9WgXcQ",
		PublishedAt:  "2024-01-15",
		CategoryName: "اختفاء",
	}

	meta := StoryMetadata(cfg, story)
	assert.Equal(t, "جرائم حقيقية | أصل الحكاية", meta.Title)
	assert.Equal(t, "https://example.com/videos/دليل", meta.Canonical)
	assert.Equal(t, "article", meta.OGType)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", meta.OGImage)
	// Empty excerpt falls back to a templated description.
	assert.Contains(t, meta.Description, story.Title)

	seen := map[string]int{}
	for _, k := range meta.Keywords {
		seen[k]++
	}
	assert.Equal(t, 1, seen["جرائم حقيقية"], "keywords must be deduplicated")
}

func TestCategoryMetadataFallbackDescription(t *testing.T) {
	cfg := seoTestConfig()
	meta := CategoryMetadata(cfg, Category{Name: "اختفاء", Slug: "اختفاء"}, 7)
	assert.Contains(t, meta.Description, "7")
	assert.Contains(t, meta.Description, "اختفاء")

	withDesc := CategoryMetadata(cfg, Category{Name: "اختفاء", Slug: "اختفاء", Description: "وصف"}, 7)
	assert.Equal(t, "وصف", withDesc.Description)
}

func TestBreadcrumbSchema(t *testing.T) {
	out := BreadcrumbSchema([]Breadcrumb{
		{Name: "الرئيسية", URL: "https://example.com/"},
		{Name: "اختفاء", URL: "https://example.com/category/اختفاء"},
	})

	var data struct {
		Items []struct {
			Position int    `json:"position"`
			Name     string `json:"name"`
		} `json:"itemListElement"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	require.Len(t, data.Items, 2)
	assert.Equal(t, 1, data.Items[0].Position)
	assert.Equal(t, 2, data.Items[1].Position)
	assert.Equal(t, "اختفاء", data.Items[1].Name)
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 0, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("<p>كلمة</p>"))

	long := "<p>" + strings.Repeat("كلمة ", 400) + "</p>"
	assert.Equal(t, 2, ReadingTime(long))
}

package crimepress

import (
	"database/sql"
	"errors"
	"net/url"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testStory(slug string) Story {
	return Story{
		Title:       "قضية " + slug,
		Slug:        slug,
		Excerpt:     "ملخص قصير للقضية",
		Content:     "<p>التفاصيل الكاملة للقضية</p>",
		YouTubeID:   "dQw4w9WgXcQ",
		PublishedAt: "2024-01-15",
	}
}

func mustSave(t *testing.T, s *Store, st Story) int64 {
	t.Helper()
	id, err := s.SaveStory(st)
	if err != nil {
		t.Fatalf("SaveStory(%q) failed: %v", st.Slug, err)
	}
	return id
}

func TestSaveAndGetStory(t *testing.T) {
	s := setupTestStore(t)

	catID, err := s.SaveCategory(Category{Name: "جرائم قتل", Slug: "جرائم-قتل"})
	if err != nil {
		t.Fatalf("SaveCategory failed: %v", err)
	}

	story := testStory("قضية-الاختبار")
	story.Location = "القاهرة"
	story.PeopleInvolved = []string{"أحمد", "سارة"}
	story.CategoryID = catID
	story.Best = true
	mustSave(t, s, story)

	got, err := s.GetStoryBySlug("قضية-الاختبار")
	if err != nil {
		t.Fatalf("GetStoryBySlug failed: %v", err)
	}
	if got.Title != story.Title {
		t.Errorf("Title = %q, want %q", got.Title, story.Title)
	}
	if got.Location != "القاهرة" {
		t.Errorf("Location = %q, want %q", got.Location, "القاهرة")
	}
	if len(got.PeopleInvolved) != 2 || got.PeopleInvolved[0] != "أحمد" {
		t.Errorf("PeopleInvolved = %v, want [أحمد سارة]", got.PeopleInvolved)
	}
	if got.CategoryID != catID {
		t.Errorf("CategoryID = %d, want %d", got.CategoryID, catID)
	}
	if got.CategoryName != "جرائم قتل" {
		t.Errorf("CategoryName = %q, want %q", got.CategoryName, "جرائم قتل")
	}
	if !got.Best {
		t.Error("Best should be true")
	}
	if got.UpdatedAt == "" {
		t.Error("UpdatedAt should be set on save")
	}
}

func TestGetStoryBySlugPercentEncoded(t *testing.T) {
	s := setupTestStore(t)

	slug := "جريمة-المنصورة"
	mustSave(t, s, testStory(slug))

	got, err := s.GetStoryBySlug(url.PathEscape(slug))
	if err != nil {
		t.Fatalf("GetStoryBySlug with encoded slug failed: %v", err)
	}
	if got.Slug != slug {
		t.Errorf("Slug = %q, want %q", got.Slug, slug)
	}

	if _, err := s.GetStoryBySlug("no-such-slug"); err != sql.ErrNoRows {
		t.Errorf("missing slug error = %v, want sql.ErrNoRows", err)
	}
}

func TestIncrementViews(t *testing.T) {
	s := setupTestStore(t)

	id := mustSave(t, s, testStory("views-story"))

	for i := 0; i < 3; i++ {
		if err := s.IncrementViews(id); err != nil {
			t.Fatalf("IncrementViews failed: %v", err)
		}
	}

	got, err := s.GetStoryBySlug("views-story")
	if err != nil {
		t.Fatalf("GetStoryBySlug failed: %v", err)
	}
	if got.Views != 3 {
		t.Errorf("Views = %d, want 3", got.Views)
	}

	if err := s.IncrementViews(99999); err != ErrNotFound {
		t.Errorf("IncrementViews on missing id = %v, want ErrNotFound", err)
	}
}

func TestSaveStoryDuplicateSlug(t *testing.T) {
	s := setupTestStore(t)

	mustSave(t, s, testStory("dup-slug"))

	_, err := s.SaveStory(testStory("dup-slug"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second save error = %v, want ErrDuplicate", err)
	}

	all, err := s.ListAllStories()
	if err != nil {
		t.Fatalf("ListAllStories failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("story count = %d, want 1", len(all))
	}
}

func TestRelatedStories(t *testing.T) {
	s := setupTestStore(t)

	catID, err := s.SaveCategory(Category{Name: "اختفاء", Slug: "اختفاء"})
	if err != nil {
		t.Fatalf("SaveCategory failed: %v", err)
	}

	first := testStory("first")
	first.CategoryID = catID
	firstID := mustSave(t, s, first)

	second := testStory("second")
	second.CategoryID = catID
	mustSave(t, s, second)

	looseID := mustSave(t, s, testStory("loose"))

	related, err := s.RelatedStories(catID, firstID, 4)
	if err != nil {
		t.Fatalf("RelatedStories failed: %v", err)
	}
	if len(related) != 1 || related[0].Slug != "second" {
		t.Errorf("related = %v, want only the same-category sibling", slugs(related))
	}

	// Uncategorized current story falls back to site-wide recency.
	related, err = s.RelatedStories(0, looseID, 4)
	if err != nil {
		t.Fatalf("RelatedStories fallback failed: %v", err)
	}
	if len(related) != 2 {
		t.Errorf("fallback related count = %d, want 2", len(related))
	}
	for _, r := range related {
		if r.ID == looseID {
			t.Error("related should never include the current story")
		}
	}
}

func slugs(stories []Story) []string {
	out := make([]string, len(stories))
	for i, s := range stories {
		out[i] = s.Slug
	}
	return out
}

func TestSearchStories(t *testing.T) {
	s := setupTestStore(t)

	st := testStory("search-target")
	st.Title = "اختفاء غامض في الإسكندرية"
	mustSave(t, s, st)
	mustSave(t, s, testStory("other"))

	results, err := s.SearchStories("الإسكندرية")
	if err != nil {
		t.Fatalf("SearchStories failed: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "search-target" {
		t.Fatalf("results = %v, want single match by title", results)
	}

	// Excerpt matches too.
	results, err = s.SearchStories("ملخص قصير")
	if err != nil {
		t.Fatalf("SearchStories failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("excerpt match count = %d, want 2", len(results))
	}
}

func TestSubscribeNewsletterDuplicate(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SubscribeNewsletter("Reader@Example.com"); err != nil {
		t.Fatalf("first subscribe failed: %v", err)
	}
	// Same address, different casing and whitespace.
	if err := s.SubscribeNewsletter("  reader@example.com "); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second subscribe error = %v, want ErrDuplicate", err)
	}
}

func TestDeleteCategoryKeepsStories(t *testing.T) {
	s := setupTestStore(t)

	catID, err := s.SaveCategory(Category{Name: "احتيال", Slug: "احتيال"})
	if err != nil {
		t.Fatalf("SaveCategory failed: %v", err)
	}
	story := testStory("fraud-story")
	story.CategoryID = catID
	mustSave(t, s, story)

	if err := s.DeleteCategory(catID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	got, err := s.GetStoryBySlug("fraud-story")
	if err != nil {
		t.Fatalf("story should survive category deletion: %v", err)
	}
	if got.CategoryID != 0 {
		t.Errorf("CategoryID = %d, want 0 after category deletion", got.CategoryID)
	}
	if got.CategoryName != "" {
		t.Errorf("CategoryName = %q, want empty", got.CategoryName)
	}
}

func TestListCategoriesOrdered(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.SaveCategory(Category{Name: "ب", Slug: "b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveCategory(Category{Name: "أ", Slug: "a"}); err != nil {
		t.Fatal(err)
	}

	cats, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "أ" {
		t.Errorf("categories not ordered by name: %v", cats)
	}
}

func TestBestAndTrendingLists(t *testing.T) {
	s := setupTestStore(t)

	plain := mustSave(t, s, testStory("plain"))
	curated := testStory("curated")
	curated.Best = true
	mustSave(t, s, curated)

	for i := 0; i < 5; i++ {
		if err := s.IncrementViews(plain); err != nil {
			t.Fatal(err)
		}
	}

	best, err := s.ListBestStories(10)
	if err != nil {
		t.Fatalf("ListBestStories failed: %v", err)
	}
	if len(best) != 1 || best[0].Slug != "curated" {
		t.Errorf("best = %v, want only the curated story", slugs(best))
	}

	trending, err := s.ListTrendingStories(10)
	if err != nil {
		t.Fatalf("ListTrendingStories failed: %v", err)
	}
	if len(trending) != 2 || trending[0].Slug != "plain" {
		t.Errorf("trending order = %v, want most viewed first", slugs(trending))
	}
}

package crimepress

import (
	"sort"
	"sync"
	"time"
)

// StoryCache is an in-memory TTL cache of stories and categories. Public
// page renders read through it; admin writes and the revalidate API
// invalidate it.
type StoryCache struct {
	mu         sync.RWMutex
	stories    []Story
	categories []Category
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

// NewStoryCache creates a StoryCache backed by the given Store.
func NewStoryCache(s *Store, ttl time.Duration) *StoryCache {
	return &StoryCache{store: s, ttl: ttl}
}

func (c *StoryCache) valid() bool {
	return c.stories != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *StoryCache) Invalidate() {
	c.mu.Lock()
	c.stories = nil
	c.categories = nil
	c.mu.Unlock()
}

func (c *StoryCache) load() error {
	if c.valid() {
		return nil
	}
	stories, err := c.store.ListAllStories()
	if err != nil {
		return err
	}
	categories, err := c.store.ListCategories()
	if err != nil {
		return err
	}
	if stories == nil {
		stories = []Story{}
	}
	c.stories = stories
	c.categories = categories
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached stories and categories after ensuring the cache
// is fresh. Read lock fast path; write lock only when a reload is needed.
func (c *StoryCache) ensureLoaded() ([]Story, []Category, error) {
	c.mu.RLock()
	if c.valid() {
		stories, categories := c.stories, c.categories
		c.mu.RUnlock()
		return stories, categories, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.stories, c.categories, nil
}

// Stories returns all stories, newest first.
func (c *StoryCache) Stories() ([]Story, error) {
	stories, _, err := c.ensureLoaded()
	return stories, err
}

// Categories returns all categories ordered by name.
func (c *StoryCache) Categories() ([]Category, error) {
	_, categories, err := c.ensureLoaded()
	return categories, err
}

// Latest returns up to limit stories, newest first.
func (c *StoryCache) Latest(limit int) ([]Story, error) {
	stories, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if len(stories) > limit {
		stories = stories[:limit]
	}
	return stories, nil
}

// Best returns up to limit curated stories, newest first.
func (c *StoryCache) Best(limit int) ([]Story, error) {
	stories, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var best []Story
	for _, s := range stories {
		if s.Best {
			best = append(best, s)
			if len(best) == limit {
				break
			}
		}
	}
	return best, nil
}

// Trending returns up to limit stories ordered by view count descending.
func (c *StoryCache) Trending(limit int) ([]Story, error) {
	stories, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	trending := make([]Story, len(stories))
	copy(trending, stories)
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].Views > trending[j].Views
	})
	if len(trending) > limit {
		trending = trending[:limit]
	}
	return trending, nil
}

// GetStoryBySlug looks a story up by slug. Slug decoding fallbacks live in
// the store; the cache only serves exact matches and defers misses there.
func (c *StoryCache) GetStoryBySlug(slug string) (Story, error) {
	stories, _, err := c.ensureLoaded()
	if err != nil {
		return Story{}, err
	}
	for _, s := range stories {
		if s.Slug == slug {
			return s, nil
		}
	}
	return c.store.GetStoryBySlug(slug)
}

// GetCategoryBySlug looks a category up by slug, deferring misses to the
// store for percent-decode retry.
func (c *StoryCache) GetCategoryBySlug(slug string) (Category, error) {
	_, categories, err := c.ensureLoaded()
	if err != nil {
		return Category{}, err
	}
	for _, cat := range categories {
		if cat.Slug == slug {
			return cat, nil
		}
	}
	return c.store.GetCategoryBySlug(slug)
}

// ByCategory returns stories in the given category, newest first.
func (c *StoryCache) ByCategory(categoryID int64) ([]Story, error) {
	stories, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var filtered []Story
	for _, s := range stories {
		if s.CategoryID == categoryID {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// Related returns up to limit stories related to current: same category when
// it has one, otherwise the most recent stories site-wide. The current story
// is never included.
func (c *StoryCache) Related(current Story, limit int) ([]Story, error) {
	stories, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var related []Story
	for _, s := range stories {
		if s.ID == current.ID {
			continue
		}
		if current.CategoryID != 0 && s.CategoryID != current.CategoryID {
			continue
		}
		related = append(related, s)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

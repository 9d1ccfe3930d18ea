package crimepress

// Story is the core content record: a true-crime case with an optional
// companion article body. Content is admin-authored HTML rendered as-is.
type Story struct {
	ID             int64
	Title          string
	Slug           string
	Excerpt        string
	Content        string
	YouTubeID      string
	ThumbnailURL   string
	Location       string
	PeopleInvolved []string
	CategoryID     int64 // 0 means uncategorized
	ExternalOnly   bool
	Best           bool
	Views          int64
	PublishedAt    string // YYYY-MM-DD
	UpdatedAt      string
	CreatedAt      string

	// Joined from categories on story reads; empty when uncategorized.
	CategoryName string
	CategorySlug string
}

// StorySummary is the reduced projection returned by search: no content body.
type StorySummary struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Excerpt      string `json:"excerpt"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Category groups stories. Slug is unique and may contain Arabic letters.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	CreatedAt   string
}

// Image holds metadata for an uploaded image file.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// HomeData carries everything the home page renders.
type HomeData struct {
	Latest     []Story
	Best       []Story
	Trending   []Story
	Categories []Category
}

// StoryData carries a single story page: the record, its related sidebar,
// SEO metadata and the JSON-LD blocks embedded in the page head.
type StoryData struct {
	Story       Story
	Related     []Story
	Meta        Metadata
	FAQs        []FAQ
	ReadingTime int
	JSONLD      []string
}

// CategoryData carries a category listing page.
type CategoryData struct {
	Category Category
	Stories  []Story
	Intro    string // trusted HTML
	Meta     Metadata
	JSONLD   []string
}

// AdminData carries the admin dashboard.
type AdminData struct {
	Stories    []Story
	Categories []Category
	Message    string
	CSRF       string
}

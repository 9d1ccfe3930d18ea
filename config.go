package crimepress

import "time"

// SiteConfig holds all configuration for a crimepress site.
type SiteConfig struct {
	Name        string // Full site name
	ShortName   string // Short name used in page title suffixes
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for meta tags, RSS and JSON-LD
	Author      string // Author/presenter name for JSON-LD
	Locale      string // OpenGraph locale (default "ar_EG")
	Language    string // Content language code (default "ar")
	TwitterSite string // Twitter handle for card attribution
	Keywords    []string
	SocialLinks []string // Organization sameAs profile URLs
	ContactMail string   // Organization contact email

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/site.db")

	AdminEmail    string // Required: admin login email
	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	StoryCacheTTL time.Duration // Story cache TTL (default 5min)

	// CategoryIntros maps category slugs to curated intro HTML. Merged over
	// DefaultCategoryIntros, so adding a curated intro is a config change.
	CategoryIntros map[string]string
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "أصل الحكاية"
	}
	if c.ShortName == "" {
		c.ShortName = c.Name
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Locale == "" {
		c.Locale = "ar_EG"
	}
	if c.Language == "" {
		c.Language = "ar"
	}
	if len(c.Keywords) == 0 {
		c.Keywords = []string{"جرائم حقيقية", "قصص جرائم", "قضايا جنائية"}
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.StoryCacheTTL == 0 {
		c.StoryCacheTTL = 5 * time.Minute
	}
}

// Intros returns the effective curated intro table: config overrides merged
// over the built-in defaults.
func (c *SiteConfig) Intros() map[string]string {
	if len(c.CategoryIntros) == 0 {
		return DefaultCategoryIntros
	}
	merged := make(map[string]string, len(DefaultCategoryIntros)+len(c.CategoryIntros))
	for slug, html := range DefaultCategoryIntros {
		merged[slug] = html
	}
	for slug, html := range c.CategoryIntros {
		merged[slug] = html
	}
	return merged
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance before
// the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
// Uploads land in its "uploads" subdirectory.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithScraper replaces the default video metadata scraper, mainly for tests.
func WithScraper(s *Scraper) Option {
	return func(a *App) {
		a.Scraper = s
	}
}

package crimepress

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = sql.ErrNoRows

// ErrDuplicate is returned when an insert violates a unique constraint
// (story/category slug, subscriber email). Callers special-case it into a
// specific user-facing message instead of a generic failure.
var ErrDuplicate = errors.New("duplicate key")

// Store wraps a SQLite database and provides the query layer over stories,
// categories, contact messages and newsletter subscribers.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy_timeout so writers wait
	// instead of failing with SQLITE_BUSY, foreign_keys for the
	// category ON DELETE SET NULL rule.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS stories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL,
    youtube_id TEXT NOT NULL,
    thumbnail_url TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    people_involved TEXT NOT NULL DEFAULT '',
    category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
    is_external_only INTEGER NOT NULL DEFAULT 0,
    is_best INTEGER NOT NULL DEFAULT 0,
    views INTEGER NOT NULL DEFAULT 0,
    published_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_stories_published_at ON stories(published_at);
CREATE INDEX IF NOT EXISTS idx_stories_category_id ON stories(category_id);
CREATE INDEX IF NOT EXISTS idx_stories_views ON stories(views);

CREATE TABLE IF NOT EXISTS contact_messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS newsletter_subscribers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

// isDuplicate reports whether err is a unique-constraint violation.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const storyColumns = `s.id, s.title, s.slug, s.excerpt, s.content, s.youtube_id,
	s.thumbnail_url, s.location, s.people_involved, s.category_id,
	s.is_external_only, s.is_best, s.views, s.published_at, s.updated_at, s.created_at,
	COALESCE(c.name, ''), COALESCE(c.slug, '')`

const storyFrom = ` FROM stories s LEFT JOIN categories c ON c.id = s.category_id `

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(r rowScanner) (Story, error) {
	var st Story
	var people string
	var categoryID sql.NullInt64
	var external, best int
	err := r.Scan(&st.ID, &st.Title, &st.Slug, &st.Excerpt, &st.Content, &st.YouTubeID,
		&st.ThumbnailURL, &st.Location, &people, &categoryID,
		&external, &best, &st.Views, &st.PublishedAt, &st.UpdatedAt, &st.CreatedAt,
		&st.CategoryName, &st.CategorySlug)
	if err != nil {
		return Story{}, err
	}
	st.PeopleInvolved = parseList(people)
	st.CategoryID = categoryID.Int64
	st.ExternalOnly = external == 1
	st.Best = best == 1
	return st, nil
}

func (s *Store) queryStories(query string, args ...any) ([]Story, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []Story
	for rows.Next() {
		st, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, st)
	}
	return stories, rows.Err()
}

// ListLatestStories returns up to limit stories ordered by publish date
// descending, each joined with its category name and slug.
func (s *Store) ListLatestStories(limit int) ([]Story, error) {
	return s.queryStories(`SELECT `+storyColumns+storyFrom+`ORDER BY s.published_at DESC, s.id DESC LIMIT ?`, limit)
}

// ListAllStories returns every story ordered by publish date descending.
func (s *Store) ListAllStories() ([]Story, error) {
	return s.queryStories(`SELECT ` + storyColumns + storyFrom + `ORDER BY s.published_at DESC, s.id DESC`)
}

// ListTrendingStories returns up to limit stories ordered by view count descending.
func (s *Store) ListTrendingStories(limit int) ([]Story, error) {
	return s.queryStories(`SELECT `+storyColumns+storyFrom+`ORDER BY s.views DESC, s.id DESC LIMIT ?`, limit)
}

// ListBestStories returns up to limit curated stories, newest first.
func (s *Store) ListBestStories(limit int) ([]Story, error) {
	return s.queryStories(`SELECT `+storyColumns+storyFrom+`WHERE s.is_best = 1 ORDER BY s.published_at DESC, s.id DESC LIMIT ?`, limit)
}

// ListStoriesByCategory returns stories in the given category, newest first.
func (s *Store) ListStoriesByCategory(categoryID int64) ([]Story, error) {
	return s.queryStories(`SELECT `+storyColumns+storyFrom+`WHERE s.category_id = ? ORDER BY s.published_at DESC, s.id DESC`, categoryID)
}

// GetStoryBySlug returns a single story by exact slug match. If no row exists
// and the slug still carries percent-encoding, it retries with the decoded
// form, since double-encoded Arabic slugs arrive that way from routing.
func (s *Store) GetStoryBySlug(slug string) (Story, error) {
	st, err := scanStory(s.db.QueryRow(`SELECT `+storyColumns+storyFrom+`WHERE s.slug = ?`, slug))
	if err == sql.ErrNoRows && strings.Contains(slug, "%") {
		if decoded, derr := url.PathUnescape(slug); derr == nil && decoded != slug {
			return s.GetStoryBySlug(decoded)
		}
	}
	return st, err
}

// RelatedStories returns up to limit stories from the same category, excluding
// the current one, newest first. With categoryID zero the category filter is
// dropped and the most recent stories site-wide are returned instead.
func (s *Store) RelatedStories(categoryID, excludeID int64, limit int) ([]Story, error) {
	if categoryID != 0 {
		return s.queryStories(`SELECT `+storyColumns+storyFrom+`WHERE s.id != ? AND s.category_id = ? ORDER BY s.published_at DESC, s.id DESC LIMIT ?`,
			excludeID, categoryID, limit)
	}
	return s.queryStories(`SELECT `+storyColumns+storyFrom+`WHERE s.id != ? ORDER BY s.published_at DESC, s.id DESC LIMIT ?`,
		excludeID, limit)
}

// SearchStories matches query case-insensitively against title or excerpt,
// newest first, capped at 10 results, and returns the reduced projection.
// Callers must short-circuit queries shorter than 2 characters.
func (s *Store) SearchStories(query string) ([]StorySummary, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	rows, err := s.db.Query(`SELECT id, title, slug, excerpt, thumbnail_url FROM stories
		WHERE instr(lower(title), ?1) > 0 OR instr(lower(excerpt), ?1) > 0
		ORDER BY published_at DESC, id DESC LIMIT 10`, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []StorySummary
	for rows.Next() {
		var r StorySummary
		if err := rows.Scan(&r.ID, &r.Title, &r.Slug, &r.Excerpt, &r.ThumbnailURL); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// IncrementViews bumps a story's view counter by one in a single atomic
// server-side update. Views only ever grow.
func (s *Store) IncrementViews(storyID int64) error {
	res, err := s.db.Exec(`UPDATE stories SET views = views + 1 WHERE id = ?`, storyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListStorySlugs returns the slugs of all stories, for random selection and
// the sitemap.
func (s *Store) ListStorySlugs() ([]string, error) {
	rows, err := s.db.Query(`SELECT slug FROM stories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// SaveStory inserts a new story (ID zero) or updates an existing one.
// Returns ErrDuplicate when the slug is already taken.
func (s *Store) SaveStory(st Story) (int64, error) {
	people := encodeList(st.PeopleInvolved)
	now := time.Now().UTC().Format(time.RFC3339)
	var category any
	if st.CategoryID != 0 {
		category = st.CategoryID
	}
	external, best := 0, 0
	if st.ExternalOnly {
		external = 1
	}
	if st.Best {
		best = 1
	}
	if st.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO stories
			(title, slug, excerpt, content, youtube_id, thumbnail_url, location, people_involved,
			 category_id, is_external_only, is_best, published_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			st.Title, st.Slug, st.Excerpt, st.Content, st.YouTubeID, st.ThumbnailURL, st.Location, people,
			category, external, best, st.PublishedAt, now)
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.Exec(`UPDATE stories SET
		title = ?, slug = ?, excerpt = ?, content = ?, youtube_id = ?, thumbnail_url = ?,
		location = ?, people_involved = ?, category_id = ?, is_external_only = ?, is_best = ?,
		published_at = ?, updated_at = ?
		WHERE id = ?`,
		st.Title, st.Slug, st.Excerpt, st.Content, st.YouTubeID, st.ThumbnailURL,
		st.Location, people, category, external, best,
		st.PublishedAt, now, st.ID)
	if isDuplicate(err) {
		return 0, ErrDuplicate
	}
	return st.ID, err
}

// DeleteStory removes a story by id.
func (s *Store) DeleteStory(id int64) error {
	_, err := s.db.Exec(`DELETE FROM stories WHERE id = ?`, id)
	return err
}

// ListCategories returns all categories ordered by name ascending.
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT id, name, slug, description, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoryBySlug returns a category by exact slug match.
func (s *Store) GetCategoryBySlug(slug string) (Category, error) {
	var c Category
	err := s.db.QueryRow(`SELECT id, name, slug, description, created_at FROM categories WHERE slug = ?`, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if err == sql.ErrNoRows && strings.Contains(slug, "%") {
		if decoded, derr := url.PathUnescape(slug); derr == nil && decoded != slug {
			return s.GetCategoryBySlug(decoded)
		}
	}
	return c, err
}

// CountStoriesInCategory returns how many stories reference the category.
func (s *Store) CountStoriesInCategory(categoryID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM stories WHERE category_id = ?`, categoryID).Scan(&n)
	return n, err
}

// SaveCategory inserts a new category (ID zero) or updates an existing one.
// Returns ErrDuplicate on a taken slug.
func (s *Store) SaveCategory(c Category) (int64, error) {
	if c.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO categories (name, slug, description) VALUES (?, ?, ?)`,
			c.Name, c.Slug, c.Description)
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.Exec(`UPDATE categories SET name = ?, slug = ?, description = ? WHERE id = ?`,
		c.Name, c.Slug, c.Description, c.ID)
	if isDuplicate(err) {
		return 0, ErrDuplicate
	}
	return c.ID, err
}

// DeleteCategory removes a category. Stories referencing it become
// uncategorized via ON DELETE SET NULL.
func (s *Store) DeleteCategory(id int64) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	return err
}

// InsertContactMessage stores a public contact form submission.
func (s *Store) InsertContactMessage(name, email, message string) error {
	_, err := s.db.Exec(`INSERT INTO contact_messages (name, email, message) VALUES (?, ?, ?)`,
		name, email, message)
	return err
}

// SubscribeNewsletter records a subscriber. Emails are lowercased and trimmed
// before insert; an existing subscription returns ErrDuplicate.
func (s *Store) SubscribeNewsletter(email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	_, err := s.db.Exec(`INSERT INTO newsletter_subscribers (email) VALUES (?)`, normalized)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// SaveImage stores upload metadata.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns uploaded images, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}

// Maintain runs periodic database housekeeping. Wired to a nightly cron job
// by the process entry point.
func (s *Store) Maintain() error {
	if _, err := s.db.Exec(`PRAGMA optimize;`); err != nil {
		return err
	}
	_, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE);`)
	return err
}

// encodeList stores a free-form list as a comma-delimited string with
// sentinel commas, matching how lookups and parsing expect it.
func encodeList(items []string) string {
	items = FilterEmpty(items)
	if len(items) == 0 {
		return ""
	}
	return "," + strings.Join(items, ",") + ","
}

// parseList splits a comma-delimited list string (e.g. ",a,b,") into a slice.
func parseList(encoded string) []string {
	encoded = strings.Trim(encoded, ",")
	if encoded == "" {
		return nil
	}
	parts := strings.Split(encoded, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

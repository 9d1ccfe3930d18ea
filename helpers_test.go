package crimepress

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Trim Me  ", "trim-me"},
		{"جريمة القرن", "جريمة-القرن"},
		{"قضية 2024!", "قضية-2024"},
		{"trailing---", "trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidSlug(t *testing.T) {
	valid := []string{"hello-world", "جريمة-القرن", "mixed-جريمة-123"}
	for _, s := range valid {
		if !ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "Hello", "has space", "under_score", "semi;colon"}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = true, want false", s)
		}
	}
}

func TestValidEmail(t *testing.T) {
	if !ValidEmail("reader@example.com") {
		t.Error("expected plain address to validate")
	}
	for _, s := range []string{"", "no-at-sign", "a@b", "spaces in@example.com"} {
		if ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = true, want false", s)
		}
	}
}

func TestBuildURL(t *testing.T) {
	if got := BuildURL("https://example.com"); got != "https://example.com" {
		t.Errorf("BuildURL base = %q", got)
	}
	if got := BuildURL("https://example.com/", "videos", "slug"); got != "https://example.com/videos/slug/" {
		t.Errorf("BuildURL = %q", got)
	}
	// Pre-escaped segments pass through untouched.
	if got := BuildURL("https://example.com", "category", "%D8%A3"); got != "https://example.com/category/%D8%A3/" {
		t.Errorf("BuildURL escaped = %q", got)
	}
}

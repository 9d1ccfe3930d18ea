package htmltext

import "testing"

func TestStripTags(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"<p>hello</p>", "hello"},
		{`<div class="x"><strong>a</strong> b</div>`, "a b"},
		{"<br/>", ""},
	}
	for _, tt := range tests {
		if got := StripTags(tt.input); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"&quot;x&quot;", `"x"`},
		{"a &amp; b", "a & b"},
		{"&lt;p&gt;", "<p>"},
		{"&#1575;&#1604;", "ال"},
		{"no entities", "no entities"},
		{"&bogus;", "&bogus;"},
	}
	for _, tt := range tests {
		if got := DecodeEntities(tt.input); got != tt.want {
			t.Errorf("DecodeEntities(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"<p></p>", 0},
		{"one", 1},
		{"<p>one two</p> three", 3},
		{"  spaced   out  ", 2},
	}
	for _, tt := range tests {
		if got := WordCount(tt.input); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

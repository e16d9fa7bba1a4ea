package answer

import (
	"strings"
	"testing"
	"unicode/utf8"

	dretr "github.com/volna-cloud/kontext/internal/domain/retrieval"
)

func textPassage(id, text string) dretr.Passage {
	return dretr.NewPassage(id, 0.9, dretr.NewPayload(text, "", "", nil))
}

func TestBuildSystemPromptNumbersExcerpts(t *testing.T) {
	prompt := buildSystemPrompt([]dretr.Passage{
		textPassage("a", "first passage"),
		textPassage("b", "second passage"),
	}, 1000)

	if !strings.Contains(prompt, "[1] first passage\n") {
		t.Errorf("missing first excerpt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[2] second passage\n") {
		t.Errorf("missing second excerpt:\n%s", prompt)
	}
	if strings.Index(prompt, "[1]") > strings.Index(prompt, "[2]") {
		t.Error("excerpts out of order")
	}
}

func TestBuildSystemPromptTruncatesLongExcerpts(t *testing.T) {
	long := strings.Repeat("x", 5000)
	prompt := buildSystemPrompt([]dretr.Passage{textPassage("a", long)}, 1000)

	if strings.Contains(prompt, strings.Repeat("x", 1001)) {
		t.Error("excerpt not truncated to 1000 runes")
	}
	if !strings.Contains(prompt, strings.Repeat("x", 1000)) {
		t.Error("excerpt truncated too aggressively")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, "hello"},
		{"", 5, ""},
		{"héllo", 2, "hé"},
		{"сәлем әлем", 5, "сәлем"},
	}
	for _, tc := range tests {
		got := truncateRunes(tc.s, tc.n)
		if got != tc.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tc.s, tc.n, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateRunes(%q, %d) produced invalid UTF-8", tc.s, tc.n)
		}
	}
}

package pages

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/brogergvhs/skillquiz/internal/providers"
)

func TestValidateURL(t *testing.T) {
	cases := []struct {
		url string
		ok  bool
	}{
		{"https://github.com/Ebazhanov/linkedin-skill-assessments-quizzes/blob/main/go/go-quiz.md", true},
		{"http://example.com/a/B.MD", true},
		{"ftp://example.com/quiz.md", false},
		{"https://example.com/quiz.html", false},
		{"/local/quiz.md", false},
		{"https:///quiz.md", false},
		{"::::", false},
	}

	for _, tc := range cases {
		err := ValidateURL(tc.url)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.url, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("%q: expected error", tc.url)
			}
			if !errors.Is(err, ErrInvalidURL) {
				t.Fatalf("%q: expected ErrInvalidURL, got %v", tc.url, err)
			}
		}
	}
}

func TestOutputName(t *testing.T) {
	p := New("https://github.com/x/y/blob/main/go/go-quiz.md")
	if got := p.OutputName("ndjson"); got != "go-quiz-data.ndjson" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := p.OutputName(".json"); got != "go-quiz-data.json" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := p.OutputPath("out", "json"); got != filepath.Join("out", "go-quiz-data.json") {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestOutputName_FallsBackToLabel(t *testing.T) {
	p := Page{QuizPage: providers.QuizPage{URL: "https://example.com/", Label: "C# (Sharp) Quiz"}}
	if got := p.OutputName("ndjson"); got != "c_sharp_quiz-data.ndjson" {
		t.Fatalf("unexpected name: %q", got)
	}

	empty := Page{}
	if got := empty.OutputName("ndjson"); got != "quiz-data.ndjson" {
		t.Fatalf("unexpected name: %q", got)
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("  Go — Basics (v2) "); got != "go_basics_v2" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	p := Page{QuizPage: providers.QuizPage{URL: "https://e.com/a/rust-quiz.md"}}
	if p.DisplayName() != "rust-quiz" {
		t.Fatalf("unexpected: %q", p.DisplayName())
	}
	p.Label = "rust"
	if p.DisplayName() != "rust" {
		t.Fatalf("unexpected: %q", p.DisplayName())
	}
}

package providers

import "testing"

func pages(labels ...string) []QuizPage {
	out := make([]QuizPage, len(labels))
	for i, l := range labels {
		out[i] = QuizPage{URL: "https://example.com/" + l + ".md", Label: l}
	}
	return out
}

func labels(ps []QuizPage) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Label
	}
	return out
}

func TestFilter(t *testing.T) {
	all := pages("accounting-quiz", "go-quiz", "rust-quiz", "css-quiz")

	cases := []struct {
		name            string
		quiz, rng, list string
		want            []string
	}{
		{"everything", "", "", "", []string{"accounting-quiz", "go-quiz", "rust-quiz", "css-quiz"}},
		{"by label", "Go-Quiz", "", "", []string{"go-quiz"}},
		{"by index", "3", "", "", []string{"rust-quiz"}},
		{"index out of range", "9", "", "", []string{}},
		{"range", "", "2-3", "", []string{"go-quiz", "rust-quiz"}},
		{"bad range", "", "3-2", "", []string{}},
		{"list skips junk", "", "", "4, x, 1, 12", []string{"css-quiz", "accounting-quiz"}},
		{"quiz wins over range", "1", "2-4", "", []string{"accounting-quiz"}},
	}

	for _, tc := range cases {
		got := labels(Filter(all, tc.quiz, tc.rng, tc.list))
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
			}
		}
	}
}

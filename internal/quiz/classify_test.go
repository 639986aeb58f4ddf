package quiz

import "testing"

func TestClassifyClass(t *testing.T) {
	cases := []struct {
		class string
		want  Kind
	}{
		{"markdown-heading", KindHeading},
		{"markdown-heading extra", KindIgnored},
		{"highlight", KindDescription},
		{"highlight highlight-source-js notranslate", KindDescription},
		{"contains-task-list", KindChecklist},
		{"contains-task-list other", KindChecklist},
		{"", KindIgnored},
		{"snippet-clipboard-content", KindIgnored},
	}

	for _, tc := range cases {
		if got := classifyClass(tc.class); got != tc.want {
			t.Fatalf("classifyClass(%q) = %s, want %s", tc.class, got, tc.want)
		}
	}
}

func TestClassify_MissingClassIsIgnored(t *testing.T) {
	if got := Classify(txt("p", "plain")); got != KindIgnored {
		t.Fatalf("expected ignored, got %s", got)
	}
}

func TestClassify_HeadingWinsOverSubstringRules(t *testing.T) {
	n := el("div", map[string]string{"class": "markdown-heading"})
	if got := Classify(n); got != KindHeading {
		t.Fatalf("expected heading, got %s", got)
	}
}

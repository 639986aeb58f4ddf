package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brogergvhs/skillquiz/internal/export"
	"github.com/brogergvhs/skillquiz/internal/pages"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "skillquiz version: dev") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()

	a := filepath.Join(dir, "go-quiz-data.ndjson")
	b := filepath.Join(dir, "rust-quiz-data.json")
	out := filepath.Join(dir, "all.json")

	rec := `{"question":"Q1","type":"single_choice","description":"","options":[{"value":"a"},{"value":"b"}],"answer":[1]}`
	short := `{"question":"Q2","type":"single_choice","description":"","options":[{"value":"a"}],"answer":[0]}`
	outOfRange := `{"question":"Q3","type":"single_choice","description":"","options":[{"value":"a"},{"value":"b"}],"answer":[7]}`
	noAnswer := `{"question":"Q4","type":"single_choice","description":"","options":[{"value":"a"},{"value":"b"}]}`

	lines := strings.Join([]string{rec, short, outOfRange, noAnswer}, "\n") + "\n"
	if err := os.WriteFile(a, []byte(lines), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("["+rec+",]"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "merge", a, b, "--output", out, "--dedupe"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { flagMergeOutput, flagMergeDedupe = "", false })

	qs, err := export.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].Question != "Q1" || qs[0].Answer[0] != 1 {
		t.Fatalf("unexpected merge result: %+v", qs)
	}

	raw, _ := os.ReadFile(out)
	if !strings.HasPrefix(string(raw), "[") {
		t.Fatalf("a .json output must be an array, got %q", raw)
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SKILLQUIZ_WORKERS=6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SKILLQUIZ_WORKERS", "")
	os.Unsetenv("SKILLQUIZ_WORKERS")

	if err := loadEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("SKILLQUIZ_WORKERS"); got != "6" {
		t.Fatalf("expected 6, got %q", got)
	}

	if err := loadEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("an explicit env file must exist")
	}
}

const blobPage = `<html><body><main><section><div>
<article class="markdown-body entry-content">
<div class="markdown-heading"><h4 class="heading-element">Q1. Which keyword declares a constant?</h4></div>
<div class="highlight highlight-source-go"><pre>x := 1</pre></div>
<ul class="contains-task-list">
<li class="task-list-item"><input type="checkbox" class="task-list-item-checkbox" disabled> <code>var</code></li>
<li class="task-list-item"><input type="checkbox" class="task-list-item-checkbox" checked disabled> <code>const</code></li>
</ul>
<div class="markdown-heading"><h4 class="heading-element">Q2. Unanswerable</h4></div>
<ul class="contains-task-list"><li class="task-list-item"><input type="checkbox" checked> only</li></ul>
</article>
</div></section></main></body></html>`

func quizServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/go/go-quiz.md":
			_, _ = fmt.Fprint(w, blobPage)
		case "/empty/empty-quiz.md":
			_, _ = fmt.Fprint(w, "<html><body><p>nothing rendered</p></body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// scrapeEnv isolates config lookup and resets the package-level flags
// that cobra leaves set between Execute calls.
func scrapeEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"RENDERER", "OUTPUT", "FORMAT", "URL", "INDEX", "SKIP_BROKEN"} {
		t.Setenv("SKILLQUIZ_"+k, "")
	}

	t.Cleanup(func() {
		flagIgnoreConfig, flagDebug = false, false
		flagURL, flagIndex, flagQuiz, flagRange, flagList, flagPick = "", "", "", "", "", false
		flagOutput, flagFormat, flagWorkers, flagRenderer, flagSelector = "", "", 0, "", ""
		flagBrowserPath, flagTimeout, flagStdout, flagDryRun, flagSkipBroken = "", 0, false, false, false
		flagCookie, flagCookieFile, flagUserAgent, flagCloudflareBypass = "", "", "", false
	})
}

func runSplit(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestScrape_StdoutNDJSON(t *testing.T) {
	scrapeEnv(t)
	srv := quizServer(t)

	out, info, err := runSplit(t, "scrape", "--ignore-config", "--renderer", "http",
		"--url", srv.URL+"/go/go-quiz.md", "--stdout")
	if err != nil {
		t.Fatalf("scrape: %v\n%s", err, info)
	}

	want := `{"question":"Which keyword declares a constant?","type":"single_choice","description":"x := 1","options":[{"value":"var"},{"value":"const"}],"answer":[1]}` + "\n"
	if out != want {
		t.Fatalf("unexpected stdout:\n got %q\nwant %q", out, want)
	}
	if !strings.Contains(info, "Scrape Summary:") {
		t.Fatalf("summary must go to stderr, got %q", info)
	}
}

func TestScrape_WritesFile(t *testing.T) {
	scrapeEnv(t)
	srv := quizServer(t)
	dir := t.TempDir()

	_, info, err := runSplit(t, "scrape", "--ignore-config", "--renderer", "http",
		"--url", srv.URL+"/go/go-quiz.md", "--output", dir, "--format", "json")
	if err != nil {
		t.Fatalf("scrape: %v\n%s", err, info)
	}

	qs, err := export.ReadFile(filepath.Join(dir, "go-quiz-data.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].Answer[0] != 1 || qs[0].Options[1].Value != "const" {
		t.Fatalf("unexpected records: %+v", qs)
	}
}

func TestScrape_MissingContainerFails(t *testing.T) {
	scrapeEnv(t)
	srv := quizServer(t)

	_, _, err := runSplit(t, "scrape", "--ignore-config", "--renderer", "http",
		"--url", srv.URL+"/empty/empty-quiz.md", "--stdout")
	if err == nil || !strings.Contains(err.Error(), "failed 1/1 pages") {
		t.Fatalf("expected a failed page, got %v", err)
	}
}

func TestScrape_RejectsNonMarkdownURL(t *testing.T) {
	scrapeEnv(t)
	srv := quizServer(t)

	_, _, err := runSplit(t, "scrape", "--ignore-config", "--renderer", "http",
		"--url", srv.URL+"/go/go-quiz.html", "--stdout")
	if !errors.Is(err, pages.ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}

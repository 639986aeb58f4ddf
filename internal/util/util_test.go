package util

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.ndjson")

	n, err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello\n")
		return err
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 bytes, got %d", n)
	}

	b, err := os.ReadFile(path)
	if err != nil || string(b) != "hello\n" {
		t.Fatalf("unexpected content %q (%v)", b, err)
	}
}

func TestWriteFileAtomic_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	boom := errors.New("boom")
	if _, err := WriteFileAtomic(path, func(w io.Writer) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, found %d entries", len(entries))
	}
}

func TestCleanupUnfinishedFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{".a.json.1" + TempSuffix, "keep.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if got := CleanupUnfinishedFiles(dir); got != 1 {
		t.Fatalf("expected 1 removal, got %d", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "keep.json")); err != nil {
		t.Fatalf("keep.json should survive: %v", err)
	}
}

func TestDoWithRetry_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := DoWithRetry(srv.Client(), req, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	defer resp.Body.Close()

	if hits.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits.Load())
	}
}

func TestDoWithRetry_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := DoWithRetry(srv.Client(), req, 2, time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "HTTP 503") {
		t.Fatalf("expected HTTP 503 error, got %v", err)
	}
}

func TestNewHTTPClient_SetsHeaders(t *testing.T) {
	var ua, cookie string
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		cookie = r.Header.Get("Cookie")
	}))
	defer srv.Close()

	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(cookieFile, []byte("\n  session=abc  \nignored=1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewHTTPClient(HTTPClientOptions{
		Timeout:    time.Second,
		UserAgent:  "skillquiz-test",
		Cookie:     "a=1",
		CookieFile: cookieFile,
	})
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if ua != "skillquiz-test" {
		t.Fatalf("unexpected user agent %q", ua)
	}
	if cookie != "a=1; session=abc" {
		t.Fatalf("unexpected cookie %q", cookie)
	}
}

func TestHuman(t *testing.T) {
	cases := map[int64]string{
		12:      "12 B",
		2048:    "2.00 KB",
		3 << 20: "3.00 MB",
	}
	for in, want := range cases {
		if got := Human(in); got != want {
			t.Fatalf("Human(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "question"); got != "1 question" {
		t.Fatalf("got %q", got)
	}
	if got := Plural(0, "page"); got != "0 pages" {
		t.Fatalf("got %q", got)
	}
}

package hackernews

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testTool(t *testing.T, handler http.HandlerFunc) *HackerNews {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{Endpoint: srv.URL}
	cfg.defaults()

	return &HackerNews{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		client: srv.Client(),
	}
}

// algoliaStub answers story searches with the given stories and comment
// searches with one comment per story ID.
func algoliaStub(t *testing.T, stories string, comments map[string]string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		tags := r.URL.Query().Get("tags")
		if tags == "story" {
			if got := r.URL.Query().Get("numericFilters"); got != "points>100" {
				t.Errorf("numericFilters = %q, want points>100", got)
			}
			_, _ = fmt.Fprintf(w, `{"hits": %s}`, stories)
			return
		}

		for id, comment := range comments {
			if tags == "comment,story_"+id {
				_, _ = fmt.Fprintf(w, `{"hits": [{"comment_text": %q}]}`, comment)
				return
			}
		}
		_, _ = w.Write([]byte(`{"hits": []}`))
	}
}

func TestInvokeRendersStoriesWithComments(t *testing.T) {
	t.Parallel()

	stories := `[
		{"title": "Go 1.25 released", "objectID": "1"},
		{"title": "SQLite internals", "objectID": "2"}
	]`
	h := testTool(t, algoliaStub(t, stories, map[string]string{
		"1": "Great release.",
		"2": "Deep dive, worth reading.",
	}))

	out, err := h.Invoke(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	want := "Title: Go 1.25 released\n\tComment: Great release.\nTitle: SQLite internals\n\tComment: Deep dive, worth reading.\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInvokeCapsStoryCount(t *testing.T) {
	t.Parallel()

	var hits []string
	for i := range 8 {
		hits = append(hits, fmt.Sprintf(`{"title": "story %d", "objectID": "%d"}`, i, i))
	}
	h := testTool(t, algoliaStub(t, "["+strings.Join(hits, ",")+"]", nil))

	out, err := h.Invoke(context.Background(), "q")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got := strings.Count(out, "Title: "); got != 5 {
		t.Errorf("rendered %d stories, want 5", got)
	}
}

func TestInvokeTruncatesLongComments(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 5000)
	h := testTool(t, algoliaStub(t, `[{"title": "t", "objectID": "1"}]`, map[string]string{"1": long}))

	out, err := h.Invoke(context.Background(), "q")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if strings.Count(out, "x") != 2000 {
		t.Errorf("comment length = %d, want 2000", strings.Count(out, "x"))
	}
}

func TestInvokeNoHits(t *testing.T) {
	t.Parallel()

	h := testTool(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits": []}`))
	})

	out, err := h.Invoke(context.Background(), "obscure")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != "No Hacker News stories were found" {
		t.Errorf("output = %q", out)
	}
}

func TestInvokeStoryWithoutComments(t *testing.T) {
	t.Parallel()

	h := testTool(t, algoliaStub(t, `[{"title": "quiet story", "objectID": "9"}]`, nil))

	out, err := h.Invoke(context.Background(), "q")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != "Title: quiet story\n" {
		t.Errorf("output = %q", out)
	}
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.defaults()

	if cfg.Endpoint != defaultEndpoint {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.MaxStories != 5 || cfg.MinPoints != 100 || cfg.MaxCommentLen != 2000 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
}

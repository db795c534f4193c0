// Package hackernews implements the tool.hackernews module: story search
// against the Algolia Hacker News API, enriched with one user comment
// per story.
package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flemzord/reagent/internal/core"
	"github.com/flemzord/reagent/internal/tool"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&HackerNews{})
}

// defaultEndpoint is the Algolia HN search API.
const defaultEndpoint = "https://hn.algolia.com/api/v1/search_by_date"

// maxResponseSize caps each API response body (4 MB).
const maxResponseSize = 4 * 1024 * 1024

// Interface guards.
var (
	_ core.Module       = (*HackerNews)(nil)
	_ core.Configurable = (*HackerNews)(nil)
	_ core.Provisioner  = (*HackerNews)(nil)
	_ tool.Tool         = (*HackerNews)(nil)
)

// Config holds the tool.hackernews module configuration.
type Config struct {
	Endpoint string `yaml:"endpoint"`

	// MaxStories bounds how many hits are rendered.
	MaxStories int `yaml:"max_stories"`

	// MinPoints filters out low-signal stories.
	MinPoints int `yaml:"min_points"`

	// MaxCommentLen truncates each comment.
	MaxCommentLen int `yaml:"max_comment_len"`

	Timeout time.Duration `yaml:"timeout"`
}

func (c *Config) defaults() {
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.MaxStories <= 0 {
		c.MaxStories = 5
	}
	if c.MinPoints <= 0 {
		c.MinPoints = 100
	}
	if c.MaxCommentLen <= 0 {
		c.MaxCommentLen = 2000
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}

// HackerNews is the tool.hackernews module.
type HackerNews struct {
	config Config
	logger *slog.Logger
	client *http.Client
}

// ModuleInfo implements core.Module.
func (h *HackerNews) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "tool.hackernews",
		New: func() core.Module { return &HackerNews{} },
	}
}

// Configure implements core.Configurable.
func (h *HackerNews) Configure(node *yaml.Node) error {
	if err := node.Decode(&h.config); err != nil {
		return err
	}
	h.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (h *HackerNews) Provision(ctx *core.AppContext) error {
	h.logger = ctx.Logger
	h.client = &http.Client{Timeout: h.config.Timeout}
	ctx.RegisterService("tool.hackernews", h)
	return nil
}

// Name implements tool.Tool.
func (h *HackerNews) Name() string { return "Hacker News Search" }

// Description implements tool.Tool.
func (h *HackerNews) Description() string {
	return "Get insight from hacker news users to specific search terms. Input should be a search term (e.g. How to get rich?). The output will be the most recent stories related to it with a user comment."
}

// hit is one Algolia search result.
type hit struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	ObjectID    string `json:"objectID"`
	CommentText string `json:"comment_text"`
}

type searchResponse struct {
	Hits []hit `json:"hits"`
}

// Invoke implements tool.Tool. It searches recent stories and attaches
// the first comment of each to give the model some reader sentiment.
func (h *HackerNews) Invoke(ctx context.Context, input string) (string, error) {
	query := url.Values{
		"query":          {input},
		"tags":           {"story"},
		"numericFilters": {fmt.Sprintf("points>%d", h.config.MinPoints)},
	}

	sr, err := h.search(ctx, query)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, story := range sr.Hits {
		if i >= h.config.MaxStories {
			break
		}
		fmt.Fprintf(&sb, "Title: %s\n", story.Title)

		comment, err := h.firstComment(ctx, story.ObjectID)
		if err != nil {
			h.logger.Warn("fetching story comment failed", "story", story.ObjectID, "error", err)
			continue
		}
		if comment != "" {
			fmt.Fprintf(&sb, "\tComment: %s\n", comment)
		}
	}

	if sb.Len() == 0 {
		return "No Hacker News stories were found", nil
	}
	return sb.String(), nil
}

// firstComment fetches the first comment on a story, truncated to the
// configured length.
func (h *HackerNews) firstComment(ctx context.Context, storyID string) (string, error) {
	query := url.Values{
		"tags":        {"comment,story_" + storyID},
		"hitsPerPage": {"1"},
	}

	sr, err := h.search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(sr.Hits) == 0 {
		return "", nil
	}

	comment := sr.Hits[0].CommentText
	if len(comment) > h.config.MaxCommentLen {
		comment = comment[:h.config.MaxCommentLen]
	}
	return comment, nil
}

// search performs one GET against the Algolia endpoint.
func (h *HackerNews) search(ctx context.Context, query url.Values) (searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.config.Endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return searchResponse{}, fmt.Errorf("hackernews: create request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return searchResponse{}, fmt.Errorf("hackernews: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return searchResponse{}, fmt.Errorf("hackernews: HTTP %d from API", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return searchResponse{}, fmt.Errorf("hackernews: read response: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return searchResponse{}, fmt.Errorf("hackernews: decode response: %w", err)
	}
	return sr, nil
}

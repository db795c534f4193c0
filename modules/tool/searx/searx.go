// Package searx implements the tool.searx module: web search through a
// SearXNG instance's JSON API.
//
// JSON output is disabled by default in SearXNG; the instance must list
// "json" under search.formats in its settings.yml.
package searx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/flemzord/reagent/internal/core"
	"github.com/flemzord/reagent/internal/tool"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Searx{})
}

// noResultMessage is returned when the instance has nothing useful.
const noResultMessage = "No good Searx Search Result was found"

// maxResponseSize caps the search response body (4 MB).
const maxResponseSize = 4 * 1024 * 1024

// Interface guards.
var (
	_ core.Module       = (*Searx)(nil)
	_ core.Configurable = (*Searx)(nil)
	_ core.Provisioner  = (*Searx)(nil)
	_ core.Validator    = (*Searx)(nil)
	_ tool.Tool         = (*Searx)(nil)
)

// Config holds the tool.searx module configuration.
type Config struct {
	// InstanceURL is the SearXNG search endpoint. Falls back to the
	// SEARX_INSTANCE_URL environment variable.
	InstanceURL string `yaml:"instance_url"`

	// SafeSearch enables the instance's safe-search filter.
	SafeSearch bool `yaml:"safesearch"`

	// MaxResults bounds how many plain results are used when the
	// instance returns neither answers nor infoboxes.
	MaxResults int `yaml:"max_results"`

	Timeout time.Duration `yaml:"timeout"`
}

func (c *Config) defaults() {
	if c.InstanceURL == "" {
		c.InstanceURL = os.Getenv("SEARX_INSTANCE_URL")
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 10
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}

// Searx is the tool.searx module.
type Searx struct {
	config Config
	logger *slog.Logger
	client *http.Client
}

// ModuleInfo implements core.Module.
func (s *Searx) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "tool.searx",
		New: func() core.Module { return &Searx{} },
	}
}

// Configure implements core.Configurable.
func (s *Searx) Configure(node *yaml.Node) error {
	if err := node.Decode(&s.config); err != nil {
		return err
	}
	s.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (s *Searx) Provision(ctx *core.AppContext) error {
	s.logger = ctx.Logger
	s.client = &http.Client{Timeout: s.config.Timeout}
	ctx.RegisterService("tool.searx", s)
	return nil
}

// Validate implements core.Validator.
func (s *Searx) Validate() error {
	if s.config.InstanceURL == "" {
		return errors.New("tool.searx: instance_url is required (or set SEARX_INSTANCE_URL)")
	}
	if _, err := url.Parse(s.config.InstanceURL); err != nil {
		return fmt.Errorf("tool.searx: invalid instance_url: %w", err)
	}
	return nil
}

// Name implements tool.Tool.
func (s *Searx) Name() string { return "Searx Search" }

// Description implements tool.Tool.
func (s *Searx) Description() string {
	return "Get specific information from a search query. Input should be a question like 'How to add number in Clojure?'. Result will be the answer to the question."
}

// searchResponse is the SearXNG JSON envelope, reduced to the fields
// the tool reads.
type searchResponse struct {
	Answers   []contentItem `json:"answers"`
	Infoboxes []contentItem `json:"infoboxes"`
	Results   []contentItem `json:"results"`
}

type contentItem struct {
	Content string `json:"content"`
}

// Invoke implements tool.Tool. Answers take precedence over infoboxes,
// which take precedence over plain results.
func (s *Searx) Invoke(ctx context.Context, input string) (string, error) {
	form := url.Values{
		"q":          {input},
		"safesearch": {"0"},
		"format":     {"json"},
	}
	if s.config.SafeSearch {
		form.Set("safesearch", "1")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.InstanceURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("searx: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("searx: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("searx: HTTP %d from instance", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("searx: read response: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("searx: decode response: %w", err)
	}

	return s.render(sr), nil
}

// render flattens a search response to the observation string.
func (s *Searx) render(sr searchResponse) string {
	var parts []string
	switch {
	case len(sr.Answers) > 0:
		parts = contents(sr.Answers, len(sr.Answers))
	case len(sr.Infoboxes) > 0:
		parts = contents(sr.Infoboxes, len(sr.Infoboxes))
	case len(sr.Results) > 0:
		parts = contents(sr.Results, s.config.MaxResults)
	}

	if len(parts) == 0 {
		return noResultMessage
	}
	return strings.Join(parts, " ")
}

// contents collects non-empty content fields from up to max items.
func contents(items []contentItem, max int) []string {
	var out []string
	for i, item := range items {
		if i >= max {
			break
		}
		if item.Content != "" {
			out = append(out, item.Content)
		}
	}
	return out
}

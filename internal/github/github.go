// Package github is a small REST client for the public GitHub endpoints the
// repository cards need.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "folio"

type Client struct {
	http    *http.Client
	baseURL string
	token   string
	logger  *slog.Logger
}

// NewClient returns a client for baseURL. token may be empty.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger.With("component", "github"),
	}
}

// StatusError is returned for any non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API responded with status %d for %s", e.StatusCode, e.URL)
}

type Rate struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

type rateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}

type Repo struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	HTMLURL         string `json:"html_url"`
	LanguagesURL    string `json:"languages_url"`
	StargazersCount int    `json:"stargazers_count"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// Languages maps a language name to its byte count.
type Languages map[string]int64

// RateLimit reads the core quota. Checking it does not count against it.
func (c *Client) RateLimit(ctx context.Context) (Rate, error) {
	var resp rateLimitResponse
	if err := c.get(ctx, c.baseURL+"/rate_limit", &resp); err != nil {
		return Rate{}, fmt.Errorf("check rate limit: %w", err)
	}
	core := resp.Resources.Core
	return Rate{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     time.Unix(core.Reset, 0),
	}, nil
}

// ListRepos returns user's repositories, most recently updated first.
func (c *Client) ListRepos(ctx context.Context, user string, perPage int) ([]Repo, error) {
	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	u := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(user), q.Encode())

	var repos []Repo
	if err := c.get(ctx, u, &repos); err != nil {
		return nil, fmt.Errorf("list repos for %s: %w", user, err)
	}
	return repos, nil
}

// Languages fetches a repository's languages_url.
func (c *Client) Languages(ctx context.Context, languagesURL string) (Languages, error) {
	if strings.HasPrefix(languagesURL, "/") {
		languagesURL = c.baseURL + languagesURL
	}
	var langs Languages
	if err := c.get(ctx, languagesURL, &langs); err != nil {
		return nil, fmt.Errorf("fetch languages: %w", err)
	}
	if langs == nil {
		langs = Languages{}
	}
	return langs, nil
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("request", "url", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: u, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

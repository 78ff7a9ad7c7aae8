// Package repos turns a user's most recently updated GitHub repositories
// into display cards, backed by a TTL cache in the key/value store.
package repos

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/lasmate/folio/internal/github"
)

// Cache keys. Bump CacheVersion when the stored shapes change.
const (
	KeyRepos     = "github_repos_cache"
	KeyTimestamp = "github_repos_cache_time"
	KeyLanguages = "github_languages_cache"
	KeyVersion   = "github_cache_version"

	CacheVersion = "1.1"
)

var cacheKeys = []string{KeyRepos, KeyTimestamp, KeyLanguages, KeyVersion}

const (
	// MinRemaining covers the list request plus per-repo language requests.
	MinRemaining = 5
	// LanguageDelay separates consecutive language requests.
	LanguageDelay = 200 * time.Millisecond
	TopLanguages  = 3
	// DefaultPrimary labels a repository with no detected languages.
	DefaultPrimary = "Code"
)

var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitError reports a failed quota precheck.
type RateLimitError struct {
	Remaining int
	Reset     time.Time
}

func (e *RateLimitError) Error() string {
	return "Rate limit exceeded. Resets at " + e.Reset.Local().Format("15:04:05")
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// Cache is the key/value store the fetcher persists into.
type Cache interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// API is the subset of the GitHub client the fetcher calls.
type API interface {
	RateLimit(ctx context.Context) (github.Rate, error)
	ListRepos(ctx context.Context, user string, perPage int) ([]github.Repo, error)
	Languages(ctx context.Context, languagesURL string) (github.Languages, error)
}

type Options struct {
	User          string
	PerPage       int
	TTL           time.Duration
	LanguageDelay time.Duration
}

type Card struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	Stars       int      `json:"stars"`
	Languages   []string `json:"languages"`
	Primary     string   `json:"primary"`
}

// NewCard builds a card with the top languages by byte count.
func NewCard(r github.Repo, langs github.Languages) Card {
	top := topLanguages(langs, TopLanguages)
	primary := DefaultPrimary
	if len(top) > 0 {
		primary = top[0]
	}
	return Card{
		Name:        r.Name,
		Description: r.Description,
		URL:         r.HTMLURL,
		Stars:       r.StargazersCount,
		Languages:   top,
		Primary:     primary,
	}
}

func topLanguages(langs github.Languages, n int) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(langs[b], langs[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

type Result struct {
	Cards     []Card
	FromCache bool
	// Skipped counts repositories dropped because their languages failed.
	Skipped int
}

type Fetcher struct {
	api    API
	cache  Cache
	opts   Options
	logger *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewFetcher(api API, cache Cache, opts Options, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		api:    api,
		cache:  cache,
		opts:   opts,
		logger: logger.With("component", "repos", "user", opts.User),
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// EnsureVersion clears every cache key when the stored version differs from
// CacheVersion, then records the current version.
func (f *Fetcher) EnsureVersion() error {
	v, ok, err := f.cache.Get(KeyVersion)
	if err != nil {
		return fmt.Errorf("read cache version: %w", err)
	}
	if ok && v == CacheVersion {
		return nil
	}
	f.logger.Info("cache version changed, clearing", "stored", v, "current", CacheVersion)
	if err := f.Clear(); err != nil {
		return err
	}
	if err := f.cache.Set(KeyVersion, CacheVersion); err != nil {
		return fmt.Errorf("write cache version: %w", err)
	}
	return nil
}

// Clear removes every cache key, the version included.
func (f *Fetcher) Clear() error {
	if err := f.cache.Delete(cacheKeys...); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Fetch produces the cards, calling onCard for each as soon as it is ready.
// A fresh and complete cache makes no network calls. Otherwise the rate
// limit is checked before anything is listed.
func (f *Fetcher) Fetch(ctx context.Context, onCard func(Card)) (Result, error) {
	if repos, langs, ok := f.cached(); ok {
		f.logger.Debug("serving cards from cache", "repos", len(repos))
		res, err := f.render(ctx, repos, langs, onCard)
		res.FromCache = true
		return res, err
	}

	rate, err := f.api.RateLimit(ctx)
	if err != nil {
		return Result{}, err
	}
	if rate.Remaining < MinRemaining {
		f.logger.Warn("rate limit too low", "remaining", rate.Remaining, "reset", rate.Reset)
		return Result{}, &RateLimitError{Remaining: rate.Remaining, Reset: rate.Reset}
	}

	repos, err := f.api.ListRepos(ctx, f.opts.User, f.opts.PerPage)
	if err != nil {
		return Result{}, err
	}
	data, err := json.Marshal(repos)
	if err != nil {
		return Result{}, fmt.Errorf("encode repos: %w", err)
	}
	if err := f.cache.Set(KeyRepos, string(data)); err != nil {
		return Result{}, fmt.Errorf("cache repos: %w", err)
	}
	if err := f.cache.Set(KeyTimestamp, strconv.FormatInt(f.now().UnixMilli(), 10)); err != nil {
		return Result{}, fmt.Errorf("cache timestamp: %w", err)
	}
	f.logger.Info("listed repos", "count", len(repos))

	return f.render(ctx, repos, map[string]github.Languages{}, onCard)
}

// cached returns the stored repos and languages when all three entries exist
// and are younger than the TTL.
func (f *Fetcher) cached() ([]github.Repo, map[string]github.Languages, bool) {
	reposRaw, ok1, err1 := f.cache.Get(KeyRepos)
	tsRaw, ok2, err2 := f.cache.Get(KeyTimestamp)
	langsRaw, ok3, err3 := f.cache.Get(KeyLanguages)
	if err := errors.Join(err1, err2, err3); err != nil {
		f.logger.Warn("read cache", "error", err)
		return nil, nil, false
	}
	if !ok1 || !ok2 || !ok3 {
		return nil, nil, false
	}

	ms, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		f.logger.Warn("bad cache timestamp", "value", tsRaw)
		return nil, nil, false
	}
	if f.now().Sub(time.UnixMilli(ms)) >= f.opts.TTL {
		return nil, nil, false
	}

	var repos []github.Repo
	var langs map[string]github.Languages
	if err := json.Unmarshal([]byte(reposRaw), &repos); err != nil {
		f.logger.Warn("bad cached repos", "error", err)
		return nil, nil, false
	}
	if err := json.Unmarshal([]byte(langsRaw), &langs); err != nil {
		f.logger.Warn("bad cached languages", "error", err)
		return nil, nil, false
	}
	if langs == nil {
		langs = map[string]github.Languages{}
	}
	return repos, langs, true
}

// render walks repos in order. Languages come from langs or are fetched
// one at a time, and langs is written back after each successful fetch.
func (f *Fetcher) render(ctx context.Context, repos []github.Repo, langs map[string]github.Languages, onCard func(Card)) (Result, error) {
	var res Result
	requests := 0
	for _, r := range repos {
		l, ok := langs[r.Name]
		if !ok {
			if requests > 0 {
				if err := f.sleep(ctx, f.opts.LanguageDelay); err != nil {
					return res, err
				}
			}
			requests++

			var err error
			l, err = f.api.Languages(ctx, r.LanguagesURL)
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				f.logger.Warn("skipping repo", "repo", r.Name, "error", err)
				res.Skipped++
				continue
			}
			langs[r.Name] = l
			if err := f.storeLanguages(langs); err != nil {
				f.logger.Warn("cache languages", "error", err)
			}
		}

		card := NewCard(r, l)
		res.Cards = append(res.Cards, card)
		if onCard != nil {
			onCard(card)
		}
	}
	return res, nil
}

func (f *Fetcher) storeLanguages(langs map[string]github.Languages) error {
	data, err := json.Marshal(langs)
	if err != nil {
		return err
	}
	return f.cache.Set(KeyLanguages, string(data))
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lasmate/folio/internal/animation"
	"github.com/lasmate/folio/internal/config"
	"github.com/lasmate/folio/internal/github"
	"github.com/lasmate/folio/internal/i18n"
	"github.com/lasmate/folio/internal/logging"
	"github.com/lasmate/folio/internal/repos"
	"github.com/lasmate/folio/internal/store"
)

// markdownWidth is the wrap width for translated markdown.
const markdownWidth = 72

// app holds what every command shares: config, logger and the cache store.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	logCloser io.Closer
	store     *store.Store
}

// setup loads config and logging. quiet keeps logs off stderr, for when the
// TUI owns the terminal.
func setup(quiet bool) (*app, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.Setup(logging.Options{
		File:  cfg.LogFile,
		Level: cfg.Log.Level,
		Quiet: quiet,
	})
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	logger.Debug("config loaded", "path", path)
	return &app{cfg: cfg, logger: logger, logCloser: closer}, nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close store", "err", err)
		}
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func (a *app) openStore() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := store.Open(a.cfg.Cache.Driver, a.cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

func (a *app) fetcher() (*repos.Fetcher, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	gh := a.cfg.GitHub
	token := os.Getenv(gh.TokenEnv)
	if token == "" {
		a.logger.Debug("no GitHub token, using unauthenticated quota", "env", gh.TokenEnv)
	}
	client := github.NewClient(gh.BaseURL, token, gh.Timeout, a.logger)
	return repos.NewFetcher(client, s, repos.Options{
		User:          gh.User,
		PerPage:       gh.PerPage,
		TTL:           a.cfg.Cache.TTL,
		LanguageDelay: repos.LanguageDelay,
	}, a.logger), nil
}

// translator builds the i18n manager with the saved language restored from
// the store.
func (a *app) translator() (*i18n.Manager, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	cat, err := i18n.Load(a.cfg.LocalesDir)
	if err != nil {
		return nil, err
	}
	reg, err := i18n.NewRegistry(i18n.DefaultElements()...)
	if err != nil {
		return nil, err
	}

	var renderer i18n.Renderer
	if r, err := i18n.NewMarkdownRenderer(a.cfg.TUI.GlamourStyle, markdownWidth); err != nil {
		a.logger.Warn("markdown renderer unavailable, showing raw text", "err", err)
	} else {
		renderer = r
	}

	return i18n.NewManager(cat, reg, s, renderer, a.cfg.Language, a.logger)
}

func (a *app) animationConfig() animation.Config {
	return animation.Config{
		CircleDuration: a.cfg.Animation.CircleDuration,
		StarDuration:   a.cfg.Animation.StarDuration,
		Variant:        animation.ParseVariant(a.cfg.Animation.Variant),
	}
}

func (a *app) outline() bool {
	return a.cfg.Animation.Outline == nil || *a.cfg.Animation.Outline
}

func (a *app) vignette() bool {
	return a.cfg.Animation.Vignette == nil || *a.cfg.Animation.Vignette
}

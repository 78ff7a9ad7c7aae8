package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogFile    string          `yaml:"log_file"`
	Language   string          `yaml:"language"`
	LocalesDir string          `yaml:"locales_dir"`
	GitHub     GitHubConfig    `yaml:"github"`
	Cache      CacheConfig     `yaml:"cache"`
	Log        LogConfig       `yaml:"log"`
	Animation  AnimationConfig `yaml:"animation"`
	TUI        TUIConfig       `yaml:"tui"`
	Panels     []PanelConfig   `yaml:"panels"`
	Contact    ContactConfig   `yaml:"contact"`
}

type GitHubConfig struct {
	User       string        `yaml:"user"`
	PerPage    int           `yaml:"per_page"`
	BaseURL    string        `yaml:"base_url"`
	TokenEnv   string        `yaml:"token_env"`
	Timeout    time.Duration `yaml:"-"`
	RawTimeout string        `yaml:"timeout"`
}

type CacheConfig struct {
	Path   string        `yaml:"path"`
	Driver string        `yaml:"driver"`
	TTL    time.Duration `yaml:"-"`
	RawTTL string        `yaml:"ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AnimationConfig struct {
	Variant           string        `yaml:"variant"`
	CircleDuration    time.Duration `yaml:"-"`
	RawCircleDuration string        `yaml:"circle_duration"`
	StarDuration      time.Duration `yaml:"-"`
	RawStarDuration   string        `yaml:"star_duration"`
	FPS               int           `yaml:"fps"`
	Outline           *bool         `yaml:"outline,omitempty"`
	Vignette          *bool         `yaml:"vignette,omitempty"`
}

type TUIConfig struct {
	RefreshInterval time.Duration `yaml:"-"`
	RawInterval     string        `yaml:"refresh_interval"`
	GlamourStyle    string        `yaml:"glamour_style"`
}

// ContactConfig fills the contact panel. Empty fields show as "-".
type ContactConfig struct {
	AcademicEmail string `yaml:"academic_email"`
	PersonalEmail string `yaml:"personal_email"`
	City          string `yaml:"city"`
	Suburb        string `yaml:"suburb"`
}

// PanelConfig describes one corner navigation button and the panel it opens.
type PanelConfig struct {
	ID         string `yaml:"id"`
	Label      string `yaml:"label"`
	Corner     string `yaml:"corner"`
	Background string `yaml:"background"`
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultPath returns <UserConfigDir>/folio/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "folio", "config.yaml")
}

func (c *Config) setDefaults() error {
	if c.GitHub.User == "" {
		c.GitHub.User = "lasmate"
	}
	if c.GitHub.PerPage == 0 {
		c.GitHub.PerPage = 5
	}
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = "https://api.github.com"
	}
	c.GitHub.BaseURL = strings.TrimRight(c.GitHub.BaseURL, "/")
	if c.GitHub.TokenEnv == "" {
		c.GitHub.TokenEnv = "GITHUB_TOKEN"
	}
	d, err := parseDuration("github.timeout", &c.GitHub.RawTimeout, "10s")
	if err != nil {
		return err
	}
	c.GitHub.Timeout = d

	dataDir := defaultDataDir()
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(dataDir, "folio.db")
	}
	c.Cache.Path = expandPath(c.Cache.Path)
	if c.Cache.Driver == "" {
		c.Cache.Driver = "sqlite"
	}
	if c.Cache.TTL, err = parseDuration("cache.ttl", &c.Cache.RawTTL, "1h"); err != nil {
		return err
	}

	if c.LogFile == "" {
		c.LogFile = filepath.Join(dataDir, "logs", "folio.log")
	}
	c.LogFile = expandPath(c.LogFile)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.LocalesDir != "" {
		c.LocalesDir = expandPath(c.LocalesDir)
	}

	if c.Animation.Variant == "" {
		c.Animation.Variant = "hover"
	}
	if c.Animation.CircleDuration, err = parseDuration("animation.circle_duration", &c.Animation.RawCircleDuration, "1500ms"); err != nil {
		return err
	}
	if c.Animation.StarDuration, err = parseDuration("animation.star_duration", &c.Animation.RawStarDuration, "500ms"); err != nil {
		return err
	}
	if c.Animation.FPS == 0 {
		c.Animation.FPS = 30
	}
	if c.Animation.Outline == nil {
		defaultTrue := true
		c.Animation.Outline = &defaultTrue
	}
	if c.Animation.Vignette == nil {
		defaultTrue := true
		c.Animation.Vignette = &defaultTrue
	}

	if c.TUI.RefreshInterval, err = parseDuration("tui.refresh_interval", &c.TUI.RawInterval, "500ms"); err != nil {
		return err
	}
	if c.TUI.GlamourStyle == "" {
		c.TUI.GlamourStyle = "dark"
	}

	if len(c.Panels) == 0 {
		c.Panels = []PanelConfig{
			{ID: "about", Label: "nav.about", Corner: "top-left"},
			{ID: "contact", Label: "nav.contact", Corner: "top-right"},
			{ID: "work", Label: "nav.work", Corner: "bottom-left"},
			{ID: "news", Label: "nav.news", Corner: "bottom-right"},
		}
	}
	for i := range c.Panels {
		if c.Panels[i].Label == "" {
			c.Panels[i].Label = "nav." + c.Panels[i].ID
		}
	}

	return nil
}

func (c *Config) validate() error {
	if c.GitHub.PerPage < 1 || c.GitHub.PerPage > 100 {
		return fmt.Errorf("github.per_page must be within 1..100, got %d", c.GitHub.PerPage)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.RawTTL)
	}
	switch c.Cache.Driver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("invalid cache.driver %q (sqlite|sqlite3)", c.Cache.Driver)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (debug|info|warn|error)", c.Log.Level)
	}
	switch c.Animation.Variant {
	case "hover", "wheel":
	default:
		return fmt.Errorf("invalid animation.variant %q (hover|wheel)", c.Animation.Variant)
	}
	if c.Animation.CircleDuration < 500*time.Millisecond || c.Animation.CircleDuration > 1500*time.Millisecond {
		return fmt.Errorf("animation.circle_duration must be within 500ms..1500ms, got %s", c.Animation.CircleDuration)
	}
	if c.Animation.StarDuration < 250*time.Millisecond || c.Animation.StarDuration > 500*time.Millisecond {
		return fmt.Errorf("animation.star_duration must be within 250ms..500ms, got %s", c.Animation.StarDuration)
	}
	if c.Animation.FPS < 1 || c.Animation.FPS > 120 {
		return fmt.Errorf("animation.fps must be within 1..120, got %d", c.Animation.FPS)
	}
	if c.TUI.RefreshInterval <= 0 {
		return fmt.Errorf("tui.refresh_interval must be positive, got %s", c.TUI.RawInterval)
	}
	if len(c.Panels) > 4 {
		return fmt.Errorf("at most 4 panels supported, got %d", len(c.Panels))
	}

	seenIDs := make(map[string]bool)
	seenCorners := make(map[string]bool)
	for i, p := range c.Panels {
		if p.ID == "" {
			return fmt.Errorf("panels[%d]: id required", i)
		}
		if seenIDs[p.ID] {
			return fmt.Errorf("panels[%d]: duplicate id %q", i, p.ID)
		}
		seenIDs[p.ID] = true
		switch p.Corner {
		case "top-left", "top-right", "bottom-left", "bottom-right":
		default:
			return fmt.Errorf("panels[%d]: invalid corner %q", i, p.Corner)
		}
		if seenCorners[p.Corner] {
			return fmt.Errorf("panels[%d]: corner %q already taken", i, p.Corner)
		}
		seenCorners[p.Corner] = true
	}
	return nil
}

func parseDuration(field string, raw *string, def string) (time.Duration, error) {
	if *raw == "" {
		*raw = def
	}
	d, err := time.ParseDuration(*raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, *raw, err)
	}
	return d, nil
}

func defaultDataDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "folio")
	}
	return filepath.Join(dir, "folio")
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

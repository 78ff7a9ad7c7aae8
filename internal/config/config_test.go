package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "lasmate", cfg.GitHub.User)
	assert.Equal(t, 5, cfg.GitHub.PerPage)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "hover", cfg.Animation.Variant)
	assert.Equal(t, 1500*time.Millisecond, cfg.Animation.CircleDuration)
	assert.Equal(t, 500*time.Millisecond, cfg.Animation.StarDuration)
	assert.Equal(t, 30, cfg.Animation.FPS)
	assert.True(t, *cfg.Animation.Outline)
	assert.True(t, *cfg.Animation.Vignette)
	assert.Equal(t, 500*time.Millisecond, cfg.TUI.RefreshInterval)
	assert.Equal(t, "en", cfg.Language)
	require.Len(t, cfg.Panels, 4)
	assert.Equal(t, "nav.about", cfg.Panels[0].Label)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
language: fr
github:
  user: octocat
  per_page: 10
  base_url: http://localhost:9999/
cache:
  ttl: 30m
  driver: sqlite3
animation:
  variant: wheel
  circle_duration: 800ms
  star_duration: 250ms
  outline: false
  vignette: false
contact:
  academic_email: lya@school.example
  city: Lyon
panels:
  - id: work
    corner: bottom-right
    background: "#336699"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "octocat", cfg.GitHub.User)
	assert.Equal(t, 10, cfg.GitHub.PerPage)
	assert.Equal(t, "http://localhost:9999", cfg.GitHub.BaseURL)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "sqlite3", cfg.Cache.Driver)
	assert.Equal(t, "wheel", cfg.Animation.Variant)
	assert.Equal(t, 800*time.Millisecond, cfg.Animation.CircleDuration)
	assert.False(t, *cfg.Animation.Outline)
	assert.False(t, *cfg.Animation.Vignette)
	assert.Equal(t, "fr", cfg.Language)
	require.Len(t, cfg.Panels, 1)
	assert.Equal(t, "nav.work", cfg.Panels[0].Label)
	assert.Equal(t, "#336699", cfg.Panels[0].Background)
	assert.Equal(t, "lya@school.example", cfg.Contact.AcademicEmail)
	assert.Equal(t, "Lyon", cfg.Contact.City)
	assert.Empty(t, cfg.Contact.Suburb)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad variant", "animation:\n  variant: scroll\n"},
		{"circle too long", "animation:\n  circle_duration: 3s\n"},
		{"star too short", "animation:\n  star_duration: 100ms\n"},
		{"bad driver", "cache:\n  driver: postgres\n"},
		{"bad level", "log:\n  level: verbose\n"},
		{"per page", "github:\n  per_page: 500\n"},
		{"bad corner", "panels:\n  - id: x\n    corner: middle\n"},
		{"dup corner", "panels:\n  - id: a\n    corner: top-left\n  - id: b\n    corner: top-left\n"},
		{"dup id", "panels:\n  - id: a\n    corner: top-left\n  - id: a\n    corner: top-right\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}

func TestLoad_BadDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "cache:\n  ttl: forever\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.ttl")
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "github: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "x/y"), expandPath("~/x/y"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Open   key.Binding
	Close  key.Binding
	Lang   key.Binding
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Copy   key.Binding
	Retry  key.Binding
	Quit   key.Binding
}

func newKeyMap(openKeys string) keyMap {
	return keyMap{
		Open:   key.NewBinding(key.WithKeys(strings.Split(openKeys, "/")...), key.WithHelp(openKeys, "open")),
		Close:  key.NewBinding(key.WithKeys("esc", "x"), key.WithHelp("esc", "close")),
		Lang:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "language")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "select")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// localize swaps help descriptions for the current language.
func (k *keyMap) localize(t func(string) string) {
	k.Open.SetHelp(k.Open.Help().Key, t("ui.open"))
	k.Close.SetHelp("esc", t("ui.close"))
	k.Lang.SetHelp("l", t("ui.language"))
	k.Up.SetHelp("↑/↓", t("ui.select"))
	k.Filter.SetHelp("/", t("repos.filter"))
	k.Copy.SetHelp("y", t("repos.copy"))
	k.Retry.SetHelp("r", t("repos.retry"))
	k.Quit.SetHelp("q", t("ui.quit"))
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Close, k.Lang, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Close, k.Lang, k.Quit},
		{k.Up, k.Filter, k.Copy, k.Retry},
	}
}

// workHelp is shown while the work panel is open.
func (k keyMap) workHelp(failed bool) []key.Binding {
	b := []key.Binding{k.Close, k.Up, k.Filter, k.Copy}
	if failed {
		b = append(b, k.Retry)
	}
	return b
}

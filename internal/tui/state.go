package tui

import (
	"time"

	"github.com/lasmate/folio/internal/i18n"
	"github.com/lasmate/folio/internal/repos"
)

// SnapshotProvider feeds the work panel. The repo service implements it.
type SnapshotProvider interface {
	GetSnapshot() repos.Snapshot
	Retry()
}

type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// ParseCorner accepts the config spellings; anything else is top-left.
func ParseCorner(s string) Corner {
	switch s {
	case "top-right":
		return TopRight
	case "bottom-left":
		return BottomLeft
	case "bottom-right":
		return BottomRight
	default:
		return TopLeft
	}
}

func (c Corner) right() bool  { return c == TopRight || c == BottomRight }
func (c Corner) bottom() bool { return c == BottomLeft || c == BottomRight }

// PanelSpec is one corner button and the panel it opens. Label is an i18n
// key; Background is the button color the reveal derives from.
type PanelSpec struct {
	ID         string
	Label      string
	Corner     Corner
	Background string
}

type hitKind int

const (
	hitPanel hitKind = iota
	hitLang
	hitClose
)

// hitbox is a clickable single-row span of the top or bottom bar.
type hitbox struct {
	kind  hitKind
	id    string
	label string
	x, y  int
	w     int
}

func (h hitbox) contains(x, y int) bool {
	return y == h.y && x >= h.x && x < h.x+h.w
}

type frameMsg time.Time

type tickMsg time.Time

type clearStatusMsg struct{}

// LocalesReloadedMsg carries a catalog reloaded from the override directory.
type LocalesReloadedMsg struct {
	Catalog i18n.Catalog
	Err     error
}

// Package tui is the interactive portfolio: the animated disk and star scene
// framed by a top and bottom bar, corner buttons that reveal content panels
// through a circular transition, and a language selector.
//
// The model polls a SnapshotProvider for GitHub repository cards shown on the
// work panel. Scene frames are rasterized and encoded as half-block cells, so
// the scene's pixel space is the terminal width by twice the rows between the
// bars.
package tui

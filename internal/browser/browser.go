// Package browser holds the view state of the file browser and the
// transitions user actions apply to it. Transitions are pure: they return the
// next state and an Effect describing any render the host has to perform.
package browser

import (
	"path/filepath"

	"github.com/zackbart/codebrowser/internal/theme"
)

// BrowseBanner is shown when the browser starts without a file.
const BrowseBanner = "BROWSE"

// State is the whole of the browser's view state.
type State struct {
	TreeVisible bool
	// Selected is the path of the displayed file, empty when none is.
	Selected   string
	ThemeIndex int
}

// HasSelection reports whether a file is displayed.
func (s State) HasSelection() bool { return s.Selected != "" }

// Request asks the host to render Path under Theme.
type Request struct {
	Path  string
	Theme string
	// ScrollToTop is set for fresh selections and cleared for re-renders of
	// the file already on screen.
	ScrollToTop bool
}

// Effect is what the host must do after a transition. At most one of Render
// and Banner is set.
type Effect struct {
	Render *Request
	Banner string
}

// Policy holds the behaviors that differ between deployments.
type Policy struct {
	// HideTreeOnSelect hides the tree pane whenever a file is picked.
	HideTreeOnSelect bool
}

// Browser applies transitions against a fixed theme catalog.
type Browser struct {
	themes *theme.Catalog
	policy Policy
}

// New returns a Browser cycling through themes.
func New(themes *theme.Catalog, policy Policy) *Browser {
	return &Browser{themes: themes, policy: policy}
}

// Themes returns the catalog the browser cycles through.
func (b *Browser) Themes() *theme.Catalog { return b.themes }

// Policy returns the configured policy.
func (b *Browser) Policy() Policy { return b.policy }

// Initial is the state before Mount: tree shown, nothing selected, first theme.
func (b *Browser) Initial() State {
	return State{TreeVisible: true}
}

// Theme returns the active theme name.
func (b *Browser) Theme(s State) string {
	return b.themes.Name(s.ThemeIndex)
}

// Mount starts the session. A preselected file hides the tree and is rendered
// immediately; otherwise the tree is shown with the browse banner.
func (b *Browser) Mount(s State, preselected string) (State, Effect) {
	if preselected == "" {
		s.TreeVisible = true
		s.Selected = ""
		return s, Effect{Banner: BrowseBanner}
	}
	s.TreeVisible = false
	s.Selected = filepath.Clean(preselected)
	return s, Effect{Render: b.request(s, true)}
}

// SelectFile displays path from the top. The tree pane stays as it is unless
// the policy hides it.
func (b *Browser) SelectFile(s State, path string) (State, Effect) {
	s.Selected = filepath.Clean(path)
	if b.policy.HideTreeOnSelect {
		s.TreeVisible = false
	}
	return s, Effect{Render: b.request(s, true)}
}

// ToggleTree flips tree visibility. Nothing is re-rendered.
func (b *Browser) ToggleTree(s State) (State, Effect) {
	s.TreeVisible = !s.TreeVisible
	return s, Effect{}
}

// CycleTheme advances to the next theme and re-renders the selection in
// place. Without a selection it does nothing.
func (b *Browser) CycleTheme(s State) (State, Effect) {
	if !s.HasSelection() {
		return s, Effect{}
	}
	s.ThemeIndex = b.themes.Next(s.ThemeIndex)
	return s, Effect{Render: b.request(s, false)}
}

// Reload re-renders the selection in place when path is the selected file,
// typically after it changed on disk.
func (b *Browser) Reload(s State, path string) (State, Effect) {
	if !s.HasSelection() || filepath.Clean(path) != s.Selected {
		return s, Effect{}
	}
	return s, Effect{Render: b.request(s, false)}
}

// Refresh re-renders the selection in place, for instance after the content
// pane was resized.
func (b *Browser) Refresh(s State) (State, Effect) {
	if !s.HasSelection() {
		return s, Effect{}
	}
	return s, Effect{Render: b.request(s, false)}
}

func (b *Browser) request(s State, top bool) *Request {
	return &Request{Path: s.Selected, Theme: b.Theme(s), ScrollToTop: top}
}

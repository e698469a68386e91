// Package tui hosts the browser in a bubbletea program: it turns key presses
// into browser transitions, performs the renders they ask for and lays out
// the tree and content panes.
package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/zackbart/codebrowser/internal/browser"
	"github.com/zackbart/codebrowser/internal/render"
	"github.com/zackbart/codebrowser/internal/tree"
	"github.com/zackbart/codebrowser/internal/watch"
)

// Options wires a Model to its collaborators.
type Options struct {
	Browser  *browser.Browser
	Renderer *render.Renderer
	// Formatter, when set, has its wrap width kept in step with the content
	// pane.
	Formatter *render.TerminalFormatter
	Tree      *tree.Tree
	// Watcher is optional; without it files are not reloaded on change.
	Watcher *watch.Watcher
	Logger  logrus.FieldLogger
	// Preselected is the file given on the command line, if any.
	Preselected string
}

// Model is the bubbletea model of the browser.
type Model struct {
	browser   *browser.Browser
	renderer  *render.Renderer
	formatter *render.TerminalFormatter
	tree      *tree.Tree
	watcher   *watch.Watcher
	log       logrus.FieldLogger

	preselected string
	mounted     bool
	state       browser.State
	result      *render.Result
	banner      string
	status      string

	content viewport.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
}

type mountMsg struct{}

type fileChangedMsg struct{ path string }

// New returns a model that mounts on Init.
func New(opts Options) Model {
	log := opts.Logger
	if log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		log = quiet
	}
	m := Model{
		browser:     opts.Browser,
		renderer:    opts.Renderer,
		formatter:   opts.Formatter,
		tree:        opts.Tree,
		watcher:     opts.Watcher,
		log:         log,
		preselected: opts.Preselected,
		state:       opts.Browser.Initial(),
		content:     viewport.New(0, 0),
		help:        help.New(),
		keys:        defaultKeyMap(),
	}
	m.content.KeyMap = m.keys.contentKeys(m.state.TreeVisible)
	m.content.SetHorizontalStep(8)
	return m
}

// State returns the current view state.
func (m Model) State() browser.State { return m.state }

// Result returns the last render, nil when none has happened.
func (m Model) Result() *render.Result { return m.result }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{func() tea.Msg { return mountMsg{} }}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// waitForChange blocks until the watcher reports a change.
func waitForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-w.Events()
		if !ok {
			return nil
		}
		return fileChangedMsg{path: path}
	}
}

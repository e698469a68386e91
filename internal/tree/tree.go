// Package tree is the directory tree pane: a lazily loaded, expandable view
// of a root directory with a cursor.
package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Node is one entry in the tree. Directory children are read on first
// expansion.
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Open     bool
	Level    int
	Parent   *Node
	Children []*Node
	loaded   bool
}

// Options control which entries are listed.
type Options struct {
	ShowHidden bool
	// Ignore holds glob patterns matched against entry names.
	Ignore []string
}

// Tree is a directory tree with a cursor over its visible rows.
type Tree struct {
	Root   *Node
	Cursor int
	Offset int

	rows       []*Node
	showHidden bool
	ignore     []glob.Glob
}

// New builds a tree rooted at dir with the root expanded.
func New(dir string, opts Options) (*Tree, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	t := &Tree{showHidden: opts.ShowHidden}
	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		t.ignore = append(t.ignore, g)
	}

	t.Root = &Node{Name: filepath.Base(dir), Path: dir, IsDir: true, Open: true}
	if err := t.load(t.Root); err != nil {
		return nil, err
	}
	t.refreshRows()
	return t, nil
}

// Rows returns the visible rows in display order.
func (t *Tree) Rows() []*Node { return t.rows }

// Current returns the node under the cursor.
func (t *Tree) Current() *Node {
	if t.Cursor < 0 || t.Cursor >= len(t.rows) {
		return nil
	}
	return t.rows[t.Cursor]
}

// ShowHidden reports whether dotfiles are listed.
func (t *Tree) ShowHidden() bool { return t.showHidden }

// load reads n's directory. Children that are still present keep their
// expansion state.
func (t *Tree) load(n *Node) error {
	entries, err := os.ReadDir(n.Path)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	existing := make(map[string]*Node, len(n.Children))
	for _, c := range n.Children {
		existing[c.Name] = c
	}

	children := make([]*Node, 0, len(entries))
	for _, e := range entries {
		if t.skip(e.Name()) {
			continue
		}
		if c, ok := existing[e.Name()]; ok && c.IsDir == e.IsDir() {
			children = append(children, c)
			continue
		}
		children = append(children, &Node{
			Name:   e.Name(),
			Path:   filepath.Join(n.Path, e.Name()),
			IsDir:  e.IsDir(),
			Level:  n.Level + 1,
			Parent: n,
		})
	}
	n.Children = children
	n.loaded = true
	return nil
}

func (t *Tree) skip(name string) bool {
	if !t.showHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, g := range t.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (t *Tree) refreshRows() {
	t.rows = t.rows[:0]
	var walk func(*Node)
	walk = func(n *Node) {
		t.rows = append(t.rows, n)
		if n.Open {
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(t.Root)
	if t.Cursor >= len(t.rows) {
		t.Cursor = max(0, len(t.rows)-1)
	}
}

// MoveUp moves the cursor one row up.
func (t *Tree) MoveUp() {
	if t.Cursor > 0 {
		t.Cursor--
	}
}

// MoveDown moves the cursor one row down.
func (t *Tree) MoveDown() {
	if t.Cursor < len(t.rows)-1 {
		t.Cursor++
	}
}

// Open acts on the row under the cursor. Directories are toggled; for a file
// its path is returned with ok set, which is the tree's "file clicked" event.
func (t *Tree) Open() (path string, ok bool, err error) {
	n := t.Current()
	if n == nil {
		return "", false, nil
	}
	if !n.IsDir {
		return n.Path, true, nil
	}
	if n == t.Root {
		return "", false, nil
	}
	if !n.Open {
		if err := t.load(n); err != nil {
			return "", false, err
		}
	}
	n.Open = !n.Open
	t.refreshRows()
	return "", false, nil
}

// Collapse closes the directory under the cursor, or moves to the parent row
// when the cursor is on a file or closed directory.
func (t *Tree) Collapse() {
	n := t.Current()
	if n == nil {
		return
	}
	if n.IsDir && n.Open && n != t.Root {
		n.Open = false
		t.refreshRows()
		return
	}
	if n.Parent == nil {
		return
	}
	for i, row := range t.rows {
		if row == n.Parent {
			t.Cursor = i
			return
		}
	}
}

// Reveal expands the directories leading to path and puts the cursor on it.
// It reports whether path was found under the root.
func (t *Tree) Reveal(path string) bool {
	rel, err := filepath.Rel(t.Root.Path, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	n := t.Root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if n.IsDir && !n.loaded {
			if err := t.load(n); err != nil {
				return false
			}
		}
		var next *Node
		for _, c := range n.Children {
			if c.Name == part {
				next = c
				break
			}
		}
		if next == nil {
			return false
		}
		n.Open = true
		n = next
	}
	t.refreshRows()
	for i, row := range t.rows {
		if row == n {
			t.Cursor = i
			return true
		}
	}
	return false
}

// SetShowHidden changes dotfile visibility and reloads every expanded
// directory. The cursor stays on the same path when it is still listed.
func (t *Tree) SetShowHidden(show bool) error {
	if show == t.showHidden {
		return nil
	}
	t.showHidden = show
	return t.Reload()
}

// Reload re-reads every expanded directory from disk.
func (t *Tree) Reload() error {
	var current string
	if n := t.Current(); n != nil {
		current = n.Path
	}

	var walk func(*Node) error
	walk = func(n *Node) error {
		if err := t.load(n); err != nil {
			return err
		}
		for _, c := range n.Children {
			if c.IsDir && c.Open {
				if err := walk(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(t.Root); err != nil {
		return err
	}
	t.refreshRows()

	for i, row := range t.rows {
		if row.Path == current {
			t.Cursor = i
			break
		}
	}
	return nil
}

// visibleWindow returns the [start, end) range of rows that fit in height,
// keeping the cursor on screen.
func (t *Tree) visibleWindow(height int) (int, int) {
	total := len(t.rows)
	if total <= height {
		t.Offset = 0
		return 0, total
	}
	if t.Cursor < t.Offset {
		t.Offset = t.Cursor
	}
	if t.Cursor >= t.Offset+height {
		t.Offset = t.Cursor - height + 1
	}
	t.Offset = min(max(0, t.Offset), total-height)
	return t.Offset, t.Offset + height
}

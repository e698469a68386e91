package tree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zackbart/codebrowser/internal/palette"
)

// fixture lays out:
//
//	root/
//	  .hidden
//	  b.md
//	  A.go
//	  node_modules/x.js
//	  src/
//	    lib/
//	      deep.py
//	    main.go
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{".hidden", "b.md", "A.go", "node_modules/x.js", "src/lib/deep.py", "src/main.go"} {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	return root
}

func names(t *Tree) []string {
	var out []string
	for _, n := range t.Rows() {
		out = append(out, strings.Repeat(" ", n.Level)+n.Name)
	}
	return out
}

func TestNewListsDirectoriesFirst(t *testing.T) {
	root := fixture(t)
	tr, err := New(root, Options{Ignore: []string{"node_modules"}})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Base(root), " src", " A.go", " b.md"}, names(tr))
}

func TestNewRejectsFiles(t *testing.T) {
	root := fixture(t)
	_, err := New(filepath.Join(root, "b.md"), Options{})
	assert.Error(t, err)
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New(fixture(t), Options{Ignore: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestShowHidden(t *testing.T) {
	root := fixture(t)
	tr, err := New(root, Options{ShowHidden: true, Ignore: []string{"node_*"}})
	require.NoError(t, err)
	assert.Contains(t, names(tr), " .hidden")

	require.NoError(t, tr.SetShowHidden(false))
	assert.NotContains(t, names(tr), " .hidden")
	assert.False(t, tr.ShowHidden())
}

func TestOpenTogglesDirectoriesAndEmitsFiles(t *testing.T) {
	root := fixture(t)
	tr, err := New(root, Options{Ignore: []string{"node_modules"}})
	require.NoError(t, err)

	tr.MoveDown() // src
	path, ok, err := tr.Open()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
	assert.Equal(t, []string{filepath.Base(root), " src", "  lib", "  main.go", " A.go", " b.md"}, names(tr))

	tr.MoveDown()
	tr.MoveDown() // main.go
	path, ok, err = tr.Open()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src", "main.go"), path)
}

func TestCollapse(t *testing.T) {
	root := fixture(t)
	tr, err := New(root, Options{Ignore: []string{"node_modules"}})
	require.NoError(t, err)

	tr.MoveDown()
	_, _, err = tr.Open()
	require.NoError(t, err)
	tr.MoveDown() // lib

	tr.Collapse() // closed dir -> parent
	assert.Equal(t, "src", tr.Current().Name)

	tr.Collapse() // open dir -> closed
	assert.False(t, tr.Current().Open)
	assert.Len(t, tr.Rows(), 4)
}

func TestCursorBounds(t *testing.T) {
	tr, err := New(fixture(t), Options{})
	require.NoError(t, err)

	tr.MoveUp()
	assert.Equal(t, 0, tr.Cursor)
	for i := 0; i < 20; i++ {
		tr.MoveDown()
	}
	assert.Equal(t, len(tr.Rows())-1, tr.Cursor)
}

func TestReveal(t *testing.T) {
	root := fixture(t)
	tr, err := New(root, Options{})
	require.NoError(t, err)

	require.True(t, tr.Reveal(filepath.Join(root, "src", "lib", "deep.py")))
	assert.Equal(t, "deep.py", tr.Current().Name)

	assert.False(t, tr.Reveal(filepath.Join(root, "src", "missing.go")))
	assert.False(t, tr.Reveal(filepath.Dir(root)))
}

func TestReloadKeepsExpansionAndCursor(t *testing.T) {
	root := fixture(t)
	tr, err := New(root, Options{Ignore: []string{"node_modules"}})
	require.NoError(t, err)
	require.True(t, tr.Reveal(filepath.Join(root, "src", "lib", "deep.py")))

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "lib", "new.py"), nil, 0o644))
	require.NoError(t, tr.Reload())

	assert.Equal(t, "deep.py", tr.Current().Name)
	assert.Contains(t, names(tr), "   new.py")
}

func TestViewShape(t *testing.T) {
	root := fixture(t)
	tr, err := New(root, Options{})
	require.NoError(t, err)

	out := tr.View(12, 10, "")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	for _, l := range lines {
		assert.Equal(t, 12, runewidth.StringWidth(ansi.Strip(l)))
	}
}

func TestViewScrollsToCursor(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 30; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "f"+string(rune('a'+i%26))+string(rune('a'+i/26))), nil, 0o644))
	}
	tr, err := New(root, Options{})
	require.NoError(t, err)
	for i := 0; i < 25; i++ {
		tr.MoveDown()
	}

	out := ansi.Strip(tr.View(20, 5, ""))
	assert.Contains(t, out, tr.Current().Name)
	assert.Equal(t, 21, tr.Offset)
}

func TestViewHighlightsOnlyCursorRow(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	root := fixture(t)
	tr, err := New(root, Options{})
	require.NoError(t, err)
	tr.MoveDown()
	selected := tr.Rows()[2].Path

	accent := termenv.ANSI256.Color(string(palette.Accent)).Sequence(true)
	lines := strings.Split(tr.View(20, 4, selected), "\n")
	require.Len(t, lines, 4)
	for i, l := range lines {
		if i == tr.Cursor {
			assert.Contains(t, l, accent, "cursor row %d", i)
		} else {
			assert.NotContains(t, l, accent, "row %d", i)
		}
	}
}

func TestCursorUsesSharedPalette(t *testing.T) {
	assert.Equal(t, lipgloss.TerminalColor(palette.Accent), cursorStyle.GetBackground())
	assert.Equal(t, lipgloss.TerminalColor(palette.Dir), categoryStyles[catDir].GetForeground())
}

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zackbart/codebrowser/internal/render"
)

const minTreeWidth = 26

func (m Model) treeWidth() int {
	if !m.state.TreeVisible || m.tree == nil {
		return 0
	}
	return min(max(minTreeWidth, m.width/4), m.width/2)
}

func (m Model) footerHeight() int {
	return max(1, lipgloss.Height(m.help.View(m.keys)))
}

// bodyHeight is what remains below the top bar and above the help footer.
func (m Model) bodyHeight() int {
	return max(2, m.height-1-m.footerHeight())
}

// layout sizes the content pane to what is left beside the tree.
func (m *Model) layout() {
	contentW := m.width
	if tw := m.treeWidth(); tw > 0 {
		contentW = m.width - tw - 1 // -1 for the separator column
	}
	m.content.Width = max(1, contentW)
	m.content.Height = max(1, m.bodyHeight()-1)
	m.help.Width = m.width
	if m.formatter != nil {
		m.formatter.Width = max(24, contentW-4)
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return mutedStyle.Render("loading…")
	}

	bodyH := m.bodyHeight()
	content := m.renderContentPane()
	body := content
	if tw := m.treeWidth(); tw > 0 {
		sepLines := make([]string, bodyH)
		for i := range sepLines {
			sepLines[i] = separatorStyle.Render("│")
		}
		tree := m.tree.View(tw, bodyH, m.state.Selected)
		body = lipgloss.JoinHorizontal(lipgloss.Top, tree, strings.Join(sepLines, "\n"), content)
	}

	return m.renderTopBar() + "\n" + body + "\n" + m.help.View(m.keys)
}

// renderTopBar shows the tree root on the left and the status on the right.
func (m Model) renderTopBar() string {
	left := titleStyle.Render("codebrowser")
	if m.tree != nil {
		left += mutedStyle.Render(" › ") + rootStyle.Render(m.tree.Root.Path)
	}

	var right string
	switch {
	case m.result != nil && m.result.Failed():
		right = errorStyle.Render(m.status)
	case m.status != "":
		right = okStyle.Render(m.status)
	}

	budget := m.width - 1
	rightW := lipgloss.Width(right)
	if rightW > budget/2 {
		right = ansi.Truncate(right, budget/2, "…")
		rightW = lipgloss.Width(right)
	}
	left = ansi.Truncate(left, max(1, budget-rightW-1), "…")
	gap := max(1, budget-lipgloss.Width(left)-rightW)

	return barStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderContentPane draws the header row and the viewport.
func (m Model) renderContentPane() string {
	w := m.content.Width

	var header string
	switch {
	case m.result != nil:
		name := filepath.Base(m.result.Path)
		header = titleStyle.Render(name) + mutedStyle.Render("  "+describe(*m.result))
	case m.banner != "":
		header = mutedStyle.Render("pick a file from the tree")
	}
	if m.content.YOffset > 0 {
		header += scrollStyle.Render(fmt.Sprintf("  ↑ line %d", m.content.YOffset+1))
	}
	header = ansi.Truncate(header, max(1, w-1), "…")
	headerLine := barStyle.Width(w).Render(header)

	return headerLine + "\n" + m.content.View()
}

func describe(r render.Result) string {
	switch r.Kind {
	case render.KindSyntax:
		return r.Language
	case render.KindTable:
		return fmt.Sprintf("%d rows × %d columns", len(r.Rows), len(r.Columns))
	case render.KindError:
		return "could not be displayed"
	default:
		return r.Kind.String()
	}
}

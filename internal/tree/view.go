package tree

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/zackbart/codebrowser/internal/palette"
)

type category int

const (
	catDir category = iota
	catImage
	catDoc
	catData
	catCode
	catConfig
	catOther
)

func categorise(n *Node) category {
	if n.IsDir {
		return catDir
	}
	switch strings.ToLower(filepath.Ext(n.Name)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif", ".bmp", ".tiff", ".svg":
		return catImage
	case ".md", ".markdown", ".mdx", ".rst", ".txt":
		return catDoc
	case ".csv", ".tsv", ".parquet":
		return catData
	case ".go", ".js", ".ts", ".jsx", ".tsx", ".py", ".rb", ".rs", ".c", ".cpp",
		".h", ".java", ".cs", ".php", ".swift", ".kt", ".sh", ".bash", ".zsh",
		".fish", ".lua", ".ex", ".exs", ".hs", ".ml", ".mli", ".clj", ".scala", ".vim":
		return catCode
	case ".json", ".yaml", ".yml", ".toml", ".ini", ".env", ".conf", ".cfg", ".xml":
		return catConfig
	}
	return catOther
}

func icon(n *Node) string {
	switch categorise(n) {
	case catDir:
		if n.Open {
			return "▾ "
		}
		return "▸ "
	case catImage:
		return "⬡ "
	case catDoc:
		return "≡ "
	case catData:
		return "▦ "
	case catCode:
		return "⟨⟩ "
	case catConfig:
		return "⚙ "
	default:
		return "· "
	}
}

var (
	cursorStyle   = lipgloss.NewStyle().Background(palette.Accent).Foreground(palette.AccentText).Bold(true)
	selectedStyle = lipgloss.NewStyle().Underline(true)
)

var categoryStyles = map[category]lipgloss.Style{
	catDir:    lipgloss.NewStyle().Foreground(palette.Dir).Bold(true),
	catImage:  lipgloss.NewStyle().Foreground(palette.Image),
	catDoc:    lipgloss.NewStyle().Foreground(palette.Doc),
	catData:   lipgloss.NewStyle().Foreground(palette.Data),
	catCode:   lipgloss.NewStyle().Foreground(palette.Code),
	catConfig: lipgloss.NewStyle().Foreground(palette.Config),
	catOther:  lipgloss.NewStyle().Foreground(palette.Other),
}

// View renders height rows of the tree, each at most width cells wide. The
// cursor row is highlighted and selected marks the displayed file.
func (t *Tree) View(width, height int, selected string) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	start, end := t.visibleWindow(height)

	lines := make([]string, 0, height)
	for i := start; i < end; i++ {
		n := t.rows[i]
		label := strings.Repeat("  ", n.Level) + icon(n) + n.Name
		if n.IsDir && n != t.Root {
			label += "/"
		}
		label = runewidth.FillRight(runewidth.Truncate(label, width, "…"), width)

		switch {
		case i == t.Cursor:
			lines = append(lines, cursorStyle.Render(label))
		case n.Path == selected:
			lines = append(lines, selectedStyle.Inherit(categoryStyles[categorise(n)]).Render(label))
		default:
			lines = append(lines, categoryStyles[categorise(n)].Render(label))
		}
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

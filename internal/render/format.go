package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	glamstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	defaultWrap = 80
	indentSize  = 4
)

// TerminalFormatter styles content with ANSI escapes: chroma for source,
// glamour for Markdown and lipgloss tables for tabular data.
type TerminalFormatter struct {
	// Width is the word-wrap width for Markdown. Zero means 80.
	Width int
	// Output is a chroma formatter name such as "terminal256".
	Output string
}

// NewTerminalFormatter returns a formatter producing 256 color output.
func NewTerminalFormatter(width int) *TerminalFormatter {
	return &TerminalFormatter{Width: width, Output: "terminal256"}
}

// Highlight renders text with line numbers and indent guides. Lines are
// never wrapped.
func (f *TerminalFormatter) Highlight(path, text, theme string) (string, string, error) {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(theme)
	out := formatters.Get(f.Output)
	if out == nil {
		out = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", "", fmt.Errorf("tokenise: %w", err)
	}
	lines := chroma.SplitTokensIntoLines(iterator.Tokens())

	gutter := lipgloss.NewStyle().Foreground(chromaColor(style, chroma.LineNumbers, "240"))
	guide := lipgloss.NewStyle().Foreground(chromaColor(style, chroma.LineNumbers, "238")).Faint(true)
	digits := len(strconv.Itoa(len(lines)))

	var sb strings.Builder
	var buf bytes.Buffer
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(gutter.Render(fmt.Sprintf("%*d ", digits, i+1)))
		sb.WriteString(" ")

		indent, rest := splitIndent(trimNewline(line))
		if len(rest) > 0 && indent > 0 {
			sb.WriteString(guide.Render(indentGuides(indent)))
		} else if indent > 0 {
			sb.WriteString(strings.Repeat(" ", indent))
		}

		buf.Reset()
		if err := out.Format(&buf, style, chroma.Literator(rest...)); err != nil {
			return "", "", fmt.Errorf("format line %d: %w", i+1, err)
		}
		sb.Write(buf.Bytes())
	}
	return sb.String(), lexer.Config().Name, nil
}

// Markdown renders text with glamour. Code blocks use theme; the document
// palette follows the theme's background brightness.
func (f *TerminalFormatter) Markdown(text, theme string) (string, error) {
	cfg := glamstyles.DarkStyleConfig
	if isLight(theme) {
		cfg = glamstyles.LightStyleConfig
	}
	cfg.CodeBlock.Chroma = nil
	cfg.CodeBlock.Theme = theme

	wrap := f.Width
	if wrap <= 0 {
		wrap = defaultWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(cfg),
		glamour.WithWordWrap(wrap),
		glamour.WithPreservedNewLines(),
		glamour.WithEmoji(),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147")).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1)
	tableOdd    = tableCell.Foreground(lipgloss.Color("245"))
	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Table lays rows out under a header row.
func (f *TerminalFormatter) Table(columns []string, rows [][]string) (string, error) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeader
			case row%2 == 1:
				return tableOdd
			default:
				return tableCell
			}
		}).
		Headers(columns...).
		Rows(rows...)
	return t.String(), nil
}

func chromaColor(style *chroma.Style, tt chroma.TokenType, fallback string) lipgloss.Color {
	if c := style.Get(tt).Colour; c.IsSet() {
		return lipgloss.Color(c.String())
	}
	return lipgloss.Color(fallback)
}

func isLight(theme string) bool {
	bg := styles.Get(theme).Get(chroma.Background).Background
	return bg.IsSet() && bg.Brightness() > 0.5
}

func trimNewline(line []chroma.Token) []chroma.Token {
	if n := len(line); n > 0 {
		last := line[n-1]
		last.Value = strings.TrimRight(last.Value, "\r\n")
		line = append(line[:n-1:n-1], last)
	}
	return line
}

// splitIndent strips leading spaces and tabs from a line of tokens and
// returns their width in columns.
func splitIndent(line []chroma.Token) (int, []chroma.Token) {
	width := 0
	for i, tok := range line {
		trimmed := strings.TrimLeft(tok.Value, " \t")
		for _, r := range tok.Value[:len(tok.Value)-len(trimmed)] {
			if r == '\t' {
				width += indentSize - width%indentSize
			} else {
				width++
			}
		}
		if trimmed != "" {
			rest := append([]chroma.Token{{Type: tok.Type, Value: trimmed}}, line[i+1:]...)
			return width, rest
		}
	}
	return width, nil
}

func indentGuides(width int) string {
	var sb strings.Builder
	for i := 0; i < width; i++ {
		if i%indentSize == 0 {
			sb.WriteRune('│')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

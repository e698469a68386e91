// Package render turns a file path into display-ready content, choosing a
// representation from the file extension and degrading to a fixed
// placeholder when anything about the file cannot be read or parsed.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/zackbart/codebrowser/internal/ascii"
)

// DefaultMaxRows caps how many data rows a table view holds.
const DefaultMaxRows = 500

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// kinds maps lowercase extensions to their representation. Anything missing
// is rendered as source code.
var kinds = map[string]Kind{
	".md":      KindMarkdown,
	".csv":     KindTable,
	".parquet": KindTable,
	".png":     KindASCIIArt,
	".jpg":     KindASCIIArt,
	".jpeg":    KindASCIIArt,
}

// KindFor returns the representation chosen for path.
func KindFor(path string) Kind {
	if k, ok := kinds[strings.ToLower(filepath.Ext(path))]; ok {
		return k
	}
	return KindSyntax
}

// Formatter styles content for the terminal.
type Formatter interface {
	// Highlight returns text highlighted for theme and the name of the
	// language inferred from path.
	Highlight(path, text, theme string) (styled, language string, err error)
	Markdown(text, theme string) (string, error)
	Table(columns []string, rows [][]string) (string, error)
}

// Renderer dispatches files to a representation. It holds no per-file state.
type Renderer struct {
	formatter Formatter
	ascii     *ascii.Converter
	maxRows   int
	log       logrus.FieldLogger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxRows sets the table row limit.
func WithMaxRows(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxRows = n
		}
	}
}

// WithASCIIColumns sets the requested ASCII art width.
func WithASCIIColumns(n int) Option {
	return func(r *Renderer) { r.ascii = ascii.New(n) }
}

// WithLogger sets where render failures are reported.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// New returns a Renderer that styles output with f.
func New(f Formatter, opts ...Option) *Renderer {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	r := &Renderer{
		formatter: f,
		ascii:     ascii.New(ascii.DefaultColumns),
		maxRows:   DefaultMaxRows,
		log:       quiet,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Formatter returns the formatter the renderer styles output with.
func (r *Renderer) Formatter() Formatter { return r.formatter }

// Render renders path under theme. It never fails: any error, including a
// panic inside a decoder or formatter, yields the encoding error placeholder.
func (r *Renderer) Render(path, theme string) Result {
	res, err := r.TryRender(path, theme)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"path":  path,
			"kind":  err.Kind.String(),
			"error": err.Err,
		}).Warn("render failed")
		return Placeholder(path, theme)
	}
	return res
}

// TryRender is Render with the failure kept instead of replaced by the
// placeholder.
func (r *Renderer) TryRender(path, theme string) (res Result, fail *Failure) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{}
			fail = unsupported(path, fmt.Errorf("panic: %v", p))
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		return Result{}, readFailure(path, err)
	}
	if info.IsDir() {
		return Result{}, unsupported(path, errors.New("is a directory"))
	}

	kind := KindFor(path)
	switch kind {
	case KindMarkdown:
		res, err = r.markdown(path, theme)
	case KindTable:
		res, err = r.table(path)
	case KindASCIIArt:
		res, err = r.asciiArt(path)
	default:
		res, err = r.syntax(path, theme)
	}
	if err != nil {
		return Result{}, asFailure(path, err)
	}
	res.Kind = kind
	res.Path = path
	res.Theme = theme
	return res, nil
}

func (r *Renderer) syntax(path, theme string) (Result, error) {
	text, err := readText(path)
	if err != nil {
		return Result{}, err
	}
	styled, lang, err := r.formatter.Highlight(path, text, theme)
	if err != nil {
		return Result{}, unsupported(path, err)
	}
	return Result{Text: text, Language: lang, Styled: styled}, nil
}

func (r *Renderer) markdown(path, theme string) (Result, error) {
	text, err := readText(path)
	if err != nil {
		return Result{}, err
	}
	styled, err := r.formatter.Markdown(text, theme)
	if err != nil {
		return Result{}, unsupported(path, err)
	}
	return Result{Text: text, Styled: styled}, nil
}

func (r *Renderer) table(path string) (Result, error) {
	var (
		cols []string
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		cols, rows, err = readParquet(path, r.maxRows)
	} else {
		cols, rows, err = readCSV(path, r.maxRows)
	}
	if err != nil {
		return Result{}, err
	}
	styled, err := r.formatter.Table(cols, rows)
	if err != nil {
		return Result{}, unsupported(path, err)
	}
	return Result{Columns: cols, Rows: rows, Styled: styled}, nil
}

func (r *Renderer) asciiArt(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, readFailure(path, err)
	}
	defer f.Close()

	text, err := r.ascii.Convert(f)
	if err != nil {
		if errors.Is(err, ascii.ErrEmptyGrid) {
			return Result{}, unsupported(path, err)
		}
		return Result{}, decodeFailure(path, err)
	}
	return Result{Text: text, Styled: text}, nil
}

// readText reads a whole file that must be UTF-8.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", readFailure(path, err)
	}
	if !utf8.Valid(data) {
		return "", decodeFailure(path, errInvalidUTF8)
	}
	return string(data), nil
}

package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFormatter records calls and returns its inputs unstyled.
type stubFormatter struct {
	calls []string
	err   error
	panic bool
}

func (s *stubFormatter) Highlight(path, text, theme string) (string, string, error) {
	s.calls = append(s.calls, "highlight:"+theme)
	if s.panic {
		panic("highlighter exploded")
	}
	return text, "Stub", s.err
}

func (s *stubFormatter) Markdown(text, theme string) (string, error) {
	s.calls = append(s.calls, "markdown:"+theme)
	return text, s.err
}

func (s *stubFormatter) Table(columns []string, rows [][]string) (string, error) {
	s.calls = append(s.calls, fmt.Sprintf("table:%d", len(rows)))
	return strings.Join(columns, ","), s.err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 256)
	}
	img.SetGray(0, 0, color.Gray{Y: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func csvBytes(rows int) []byte {
	var sb strings.Builder
	sb.WriteString("id,name,score\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "%d,row-%d,%d.5\n", i, i, i%97)
	}
	return []byte(sb.String())
}

type measurement struct {
	Sensor string  `parquet:"sensor"`
	Value  float64 `parquet:"value"`
	Tick   int64   `parquet:"tick"`
}

func writeParquet(t *testing.T, dir, name string, n int) string {
	t.Helper()
	rows := make([]measurement, n)
	for i := range rows {
		rows[i] = measurement{Sensor: fmt.Sprintf("s%d", i%3), Value: float64(i) / 2, Tick: int64(i)}
	}
	p := filepath.Join(dir, name)
	require.NoError(t, parquet.WriteFile(p, rows))
	return p
}

func TestKindFor(t *testing.T) {
	tests := map[string]Kind{
		"README.md":      KindMarkdown,
		"NOTES.MD":       KindMarkdown,
		"data.csv":       KindTable,
		"data.CSV":       KindTable,
		"frame.parquet":  KindTable,
		"photo.png":      KindASCIIArt,
		"photo.JPG":      KindASCIIArt,
		"photo.jpeg":     KindASCIIArt,
		"script.py":      KindSyntax,
		"main.go":        KindSyntax,
		"Makefile":       KindSyntax,
		"archive.tar.gz": KindSyntax,
	}
	for path, want := range tests {
		assert.Equal(t, want, KindFor(path), path)
	}
}

func TestRenderDispatch(t *testing.T) {
	dir := t.TempDir()
	files := []struct {
		name string
		data []byte
		kind Kind
	}{
		{"doc.md", []byte("# Title\n\nbody\n"), KindMarkdown},
		{"DOC.Md", []byte("# Upper\n"), KindMarkdown},
		{"table.csv", csvBytes(3), KindTable},
		{"image.png", pngBytes(t, 300, 120), KindASCIIArt},
		{"IMAGE.PNG", pngBytes(t, 300, 120), KindASCIIArt},
		{"code.py", []byte("def f():\n    return 1\n"), KindSyntax},
	}
	for _, f := range files {
		t.Run(f.name, func(t *testing.T) {
			p := writeFile(t, dir, f.name, f.data)
			stub := &stubFormatter{}
			res := New(stub).Render(p, "monokai")
			assert.Equal(t, f.kind, res.Kind)
			assert.Equal(t, p, res.Path)
			assert.Equal(t, "monokai", res.Theme)
		})
	}

	t.Run("parquet", func(t *testing.T) {
		p := writeParquet(t, dir, "frame.parquet", 4)
		res := New(&stubFormatter{}).Render(p, "monokai")
		assert.Equal(t, KindTable, res.Kind)
		assert.Equal(t, []string{"sensor", "value", "tick"}, res.Columns)
		require.Len(t, res.Rows, 4)
		assert.Equal(t, []string{"s1", "0.5", "1"}, res.Rows[1])
	})
}

func TestRenderPassesThemeToFormatter(t *testing.T) {
	dir := t.TempDir()
	stub := &stubFormatter{}
	r := New(stub)

	r.Render(writeFile(t, dir, "a.go", []byte("package a\n")), "dracula")
	r.Render(writeFile(t, dir, "b.md", []byte("*b*\n")), "vim")

	assert.Equal(t, []string{"highlight:dracula", "markdown:vim"}, stub.calls)
}

func TestRenderSyntaxKeepsSourceAndLanguage(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	p := writeFile(t, dir, "main.go", []byte(src))

	res := New(NewTerminalFormatter(80)).Render(p, "monokai")
	require.Equal(t, KindSyntax, res.Kind)
	assert.Equal(t, src, res.Text)
	assert.Equal(t, "Go", res.Language)

	plain := ansi.Strip(res.Styled)
	lines := strings.Split(plain, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "1  package main", lines[0])
	assert.Equal(t, "4  │   println(\"hi\")", lines[3])
}

func TestRenderCSVTruncation(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		rows int
		want int
	}{
		{10000, 500},
		{501, 500},
		{500, 500},
		{10, 10},
		{0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.rows), func(t *testing.T) {
			p := writeFile(t, dir, fmt.Sprintf("rows-%d.csv", tt.rows), csvBytes(tt.rows))
			res := New(&stubFormatter{}).Render(p, "monokai")
			require.Equal(t, KindTable, res.Kind)
			assert.Len(t, res.Rows, tt.want)
			assert.Equal(t, []string{"id", "name", "score"}, res.Columns)
			if tt.want > 0 {
				assert.Equal(t, []string{"0", "row-0", "0.5"}, res.Rows[0])
			}
		})
	}
}

func TestRenderParquetTruncation(t *testing.T) {
	dir := t.TempDir()
	p := writeParquet(t, dir, "big.parquet", 2000)

	res := New(&stubFormatter{}).Render(p, "monokai")
	require.Equal(t, KindTable, res.Kind)
	assert.Len(t, res.Rows, 500)
	assert.Equal(t, "499", res.Rows[499][2])
}

func TestRenderCSVPadsShortRows(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "short.csv", []byte("a,b,c\n1,2,3\n4,5\n"))

	res := New(&stubFormatter{}).Render(p, "monokai")
	require.Equal(t, KindTable, res.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, res.Columns)
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", ""}}, res.Rows)
}

func TestRenderCSVStripsByteOrderMark(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "bom.csv", []byte("\ufeffa,b\n1,2\n"))

	res := New(&stubFormatter{}).Render(p, "monokai")
	require.Equal(t, KindTable, res.Kind)
	assert.Equal(t, []string{"a", "b"}, res.Columns)
	assert.Equal(t, [][]string{{"1", "2"}}, res.Rows)
}

func TestRenderMaxRowsOption(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "rows.csv", csvBytes(50))
	res := New(&stubFormatter{}, WithMaxRows(7)).Render(p, "monokai")
	assert.Len(t, res.Rows, 7)
}

func TestRenderTableWithTerminalFormatter(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "rows.csv", csvBytes(2))
	res := New(NewTerminalFormatter(80)).Render(p, "monokai")
	require.Equal(t, KindTable, res.Kind)

	plain := ansi.Strip(res.Styled)
	assert.Contains(t, plain, "name")
	assert.Contains(t, plain, "row-1")
}

func TestRenderMarkdownWithTerminalFormatter(t *testing.T) {
	dir := t.TempDir()
	md := "# Heading\n\nSee [docs](https://example.com).\n\n```go\nfunc f() {}\n```\n"
	p := writeFile(t, dir, "doc.md", []byte(md))

	for _, theme := range []string{"monokai", "solarized-light"} {
		res := New(NewTerminalFormatter(60)).Render(p, theme)
		require.Equal(t, KindMarkdown, res.Kind, theme)
		assert.Equal(t, md, res.Text)
		plain := ansi.Strip(res.Styled)
		assert.Contains(t, plain, "Heading")
		assert.Contains(t, plain, "https://example.com")
		assert.Contains(t, plain, "func f() {}")
	}
}

func TestRenderASCIIArt(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "pic.png", pngBytes(t, 1500, 600))

	res := New(&stubFormatter{}).Render(p, "monokai")
	require.Equal(t, KindASCIIArt, res.Kind)
	lines := strings.Split(strings.TrimSuffix(res.Text, "\n"), "\n")
	assert.Len(t, lines, 30)
	assert.Len(t, lines[0], 150)
	assert.Equal(t, res.Text, res.Styled)
}

func TestRenderFailuresYieldPlaceholder(t *testing.T) {
	dir := t.TempDir()
	pic := pngBytes(t, 400, 400)
	binary := []byte{0xff, 0xfe, 0x00, 0x81, 0xc3, 0x28, 0xa0, 0xa1}

	cases := []struct {
		name string
		path string
		kind FailureKind
	}{
		{"missing file", filepath.Join(dir, "nope.py"), NotFound},
		{"missing markdown", filepath.Join(dir, "nope.md"), NotFound},
		{"truncated png", writeFile(t, dir, "cut.png", pic[:len(pic)/3]), DecodeFailure},
		{"text as jpeg", writeFile(t, dir, "fake.jpg", []byte("hello")), DecodeFailure},
		{"tiny image", writeFile(t, dir, "tiny.png", pngBytes(t, 4, 4)), Unsupported},
		{"binary markdown", writeFile(t, dir, "bin.md", binary), DecodeFailure},
		{"binary source", writeFile(t, dir, "bin.py", binary), DecodeFailure},
		{"ragged csv", writeFile(t, dir, "ragged.csv", []byte("a,b\n1,2,3\n")), DecodeFailure},
		{"long trailing csv row", writeFile(t, dir, "long.csv", []byte("a,b,c\n1,2,3\n4,5,6,7\n")), DecodeFailure},
		{"empty csv", writeFile(t, dir, "empty.csv", nil), DecodeFailure},
		{"corrupt parquet", writeFile(t, dir, "bad.parquet", []byte("PAR1 garbage")), DecodeFailure},
		{"directory", dir, Unsupported},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New(NewTerminalFormatter(80))

			res := r.Render(tc.path, "monokai")
			assert.Equal(t, KindError, res.Kind)
			assert.True(t, res.Failed())
			assert.Equal(t, EncodingErrorMessage, res.Text)
			assert.Equal(t, "monokai", res.Theme)

			_, fail := r.TryRender(tc.path, "monokai")
			require.NotNil(t, fail)
			assert.Equal(t, tc.kind, fail.Kind)
			assert.Equal(t, tc.path, fail.Path)
		})
	}
}

func TestRenderContainsFormatterErrors(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "x.md", []byte("# x\n"))

	stub := &stubFormatter{err: errors.New("boom")}
	_, fail := New(stub).TryRender(p, "monokai")
	require.NotNil(t, fail)
	assert.Equal(t, Unsupported, fail.Kind)
	assert.ErrorContains(t, fail, "boom")
}

func TestRenderRecoversPanics(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "x.py", []byte("print(1)\n"))

	r := New(&stubFormatter{panic: true})
	assert.NotPanics(t, func() {
		res := r.Render(p, "monokai")
		assert.Equal(t, KindError, res.Kind)
	})

	_, fail := r.TryRender(p, "monokai")
	require.NotNil(t, fail)
	assert.Contains(t, fail.Error(), "highlighter exploded")
}

func TestRenderLogsFailures(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	r := New(&stubFormatter{}, WithLogger(logger))

	r.Render("/does/not/exist.md", "monokai")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "not-found", entry.Data["kind"])
	assert.Equal(t, "/does/not/exist.md", entry.Data["path"])
}

func TestRenderRechecksExistence(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "gone.py", []byte("x = 1\n"))
	r := New(&stubFormatter{})

	assert.Equal(t, KindSyntax, r.Render(p, "monokai").Kind)
	require.NoError(t, os.Remove(p))
	assert.Equal(t, KindError, r.Render(p, "monokai").Kind)
}

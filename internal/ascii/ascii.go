// Package ascii turns raster images into fixed-width ASCII art by averaging
// rectangular pixel cells into glyphs from a 70 step intensity ramp.
package ascii

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
)

// Ramp runs from the densest glyph to the lightest.
const Ramp = `$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\|()1{}[]?-_+~<>i!lI;:,"^` + "`'. "

const (
	// DefaultColumns is the requested output width in characters.
	DefaultColumns = 150

	fallbackCellWidth  = 6
	fallbackCellHeight = 12
)

// ErrEmptyGrid is returned when an image is too small to fill a single cell.
var ErrEmptyGrid = errors.New("image too small for a single cell")

// Grid describes the cell layout chosen for an image.
type Grid struct {
	Columns    int
	Rows       int
	CellWidth  int
	CellHeight int
}

// Converter downsamples images to text.
type Converter struct {
	Columns int
}

// New returns a converter targeting columns output characters per row.
func New(columns int) *Converter {
	if columns <= 0 {
		columns = DefaultColumns
	}
	return &Converter{Columns: columns}
}

// Convert decodes r and returns its ASCII rendering.
func (c *Converter) Convert(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return c.ConvertImage(img)
}

// ConvertBytes is Convert over an in-memory image.
func (c *Converter) ConvertBytes(data []byte) (string, error) {
	return c.Convert(bytes.NewReader(data))
}

// Layout picks cell dimensions for a width x height image. Cells are twice as
// tall as they are wide to match terminal glyph proportions. When the
// requested column count does not fit, fixed 6x12 cells are used instead.
func (c *Converter) Layout(width, height int) Grid {
	g := Grid{Columns: c.Columns, CellWidth: width / c.Columns}
	g.CellHeight = 2 * g.CellWidth
	if g.CellHeight > 0 {
		g.Rows = height / g.CellHeight
	}
	if g.Columns > width || g.Rows > height || g.CellWidth == 0 {
		g = Grid{
			CellWidth:  fallbackCellWidth,
			CellHeight: fallbackCellHeight,
			Columns:    width / fallbackCellWidth,
			Rows:       height / fallbackCellHeight,
		}
	}
	return g
}

// ConvertImage renders an already decoded image.
func (c *Converter) ConvertImage(img image.Image) (string, error) {
	gray := toGray(img)
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()

	g := c.Layout(width, height)
	if g.Columns <= 0 || g.Rows <= 0 {
		return "", fmt.Errorf("%dx%d: %w", width, height, ErrEmptyGrid)
	}

	var sb strings.Builder
	sb.Grow((g.Columns + 1) * g.Rows)
	for i := 0; i < g.Rows; i++ {
		y0 := i * g.CellHeight
		y1 := min((i+1)*g.CellHeight, height)
		for j := 0; j < g.Columns; j++ {
			x0 := j * g.CellWidth
			x1 := min((j+1)*g.CellWidth, width)
			sb.WriteByte(glyph(meanIntensity(gray, x0, y0, x1, y1)))
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// glyph maps a mean intensity in [0,255] onto the ramp, truncating.
func glyph(mean float64) byte {
	idx := int(mean * float64(len(Ramp)) / 255)
	if idx >= len(Ramp) {
		idx = len(Ramp) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return Ramp[idx]
}

// meanIntensity averages the gray values in [x0,x1) x [y0,y1), relative to
// the image origin.
func meanIntensity(img *image.Gray, x0, y0, x1, y1 int) float64 {
	if x1 <= x0 || y1 <= y0 {
		return 0
	}
	var sum uint64
	for y := y0; y < y1; y++ {
		row := img.Pix[y*img.Stride:]
		for x := x0; x < x1; x++ {
			sum += uint64(row[x])
		}
	}
	return float64(sum) / float64((x1-x0)*(y1-y0))
}

// toGray returns a copy of img as 8-bit grayscale with its origin at (0,0).
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.SetGray(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)).(color.Gray))
		}
	}
	return gray
}

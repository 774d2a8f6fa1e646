// Package plane draws a contour and the poles of an analysis on a
// character grid of the complex plane.
package plane

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/charmbracelet/lipgloss"

	goresidue "github.com/njchilds90/goresidue"
)

// Margin is added around the contour when choosing the visible square.
const Margin = 1.5

const samples = 720

type glyph int

const (
	empty glyph = iota
	axisH
	axisV
	axisX
	curve
	poleIn
	poleOut
)

var glyphRunes = map[glyph]rune{
	empty:   ' ',
	axisH:   '─',
	axisV:   '│',
	axisX:   '┼',
	curve:   '·',
	poleIn:  '●',
	poleOut: '○',
}

// Options sizes the grid. Zero fields take the defaults.
type Options struct {
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Width < 3 {
		o.Width = 61
	}
	if o.Height < 3 {
		o.Height = 25
	}
	return o
}

// Limit is the half-width of the square view centred on the origin.
func Limit(c goresidue.Contour) float64 {
	switch c := c.(type) {
	case goresidue.Circle:
		return math.Max(math.Abs(real(c.Center)), math.Abs(imag(c.Center))) + c.Radius + Margin
	case goresidue.Rectangle:
		m := 0.0
		for _, v := range []float64{real(c.LowerLeft), imag(c.LowerLeft), real(c.UpperRight), imag(c.UpperRight)} {
			m = math.Max(m, math.Abs(v))
		}
		return m + Margin
	}
	return 1 + Margin
}

type canvas struct {
	lim    float64
	w, h   int
	cells  [][]glyph
	styles map[glyph]lipgloss.Style
}

func newCanvas(lim float64, w, h int) *canvas {
	cells := make([][]glyph, h)
	for i := range cells {
		cells[i] = make([]glyph, w)
	}
	return &canvas{lim: lim, w: w, h: h, cells: cells, styles: map[glyph]lipgloss.Style{
		axisH:   axisStyle,
		axisV:   axisStyle,
		axisX:   axisStyle,
		curve:   circleStyle,
		poleIn:  enclosedStyle,
		poleOut: outsideStyle,
	}}
}

// cell maps z to its column and row; ok is false outside the view.
func (cv *canvas) cell(z complex128) (col, row int, ok bool) {
	if cmplx.IsNaN(z) || cmplx.IsInf(z) {
		return 0, 0, false
	}
	span := 2 * cv.lim
	col = int(math.Round((real(z) + cv.lim) / span * float64(cv.w-1)))
	row = int(math.Round((cv.lim - imag(z)) / span * float64(cv.h-1)))
	return col, row, col >= 0 && col < cv.w && row >= 0 && row < cv.h
}

func (cv *canvas) set(z complex128, g glyph) {
	if col, row, ok := cv.cell(z); ok {
		cv.cells[row][col] = g
	}
}

func (cv *canvas) axes() {
	_, row, rowOK := cv.cell(0)
	col, _, colOK := cv.cell(0)
	if rowOK {
		for j := range cv.cells[row] {
			cv.cells[row][j] = axisH
		}
	}
	if colOK {
		for i := range cv.cells {
			cv.cells[i][col] = axisV
		}
	}
	if rowOK && colOK {
		cv.cells[row][col] = axisX
	}
}

func (cv *canvas) contour(c goresidue.Contour) {
	switch c := c.(type) {
	case goresidue.Circle:
		for k := 0; k < samples; k++ {
			cv.set(c.Center+cmplx.Rect(c.Radius, 2*math.Pi*float64(k)/samples), curve)
		}
	case goresidue.Rectangle:
		cv.styles[curve] = rectangleStyle
		ll, ur := c.LowerLeft, c.UpperRight
		corners := []complex128{ll, complex(real(ur), imag(ll)), ur, complex(real(ll), imag(ur)), ll}
		for e := 0; e < 4; e++ {
			a, b := corners[e], corners[e+1]
			for k := 0; k <= samples/4; k++ {
				cv.set(a+(b-a)*complex(float64(k)/(samples/4), 0), curve)
			}
		}
	}
}

func (cv *canvas) render() string {
	lines := make([]string, cv.h)
	var sb strings.Builder
	for i, row := range cv.cells {
		sb.Reset()
		for _, g := range row {
			r := string(glyphRunes[g])
			if st, ok := cv.styles[g]; ok {
				r = st.Render(r)
			}
			sb.WriteString(r)
		}
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// Label formats a pole position the way the legend shows it.
func Label(z complex128, enclosed bool) string {
	status := "Outside"
	if enclosed {
		status = "Enclosed"
	}
	// Adding zero turns -0 into +0.
	return fmt.Sprintf("z=%.1f%+.1fj (%s)", real(z)+0, imag(z)+0, status)
}

func describe(c goresidue.Contour) string {
	switch c := c.(type) {
	case goresidue.Circle:
		return fmt.Sprintf("circle |z - (%g%+gj)| = %g", real(c.Center), imag(c.Center), c.Radius)
	case goresidue.Rectangle:
		return fmt.Sprintf("rectangle from %g%+gj to %g%+gj",
			real(c.LowerLeft), imag(c.LowerLeft), real(c.UpperRight), imag(c.UpperRight))
	}
	return "contour"
}

func draw(r *goresidue.Result, opts Options) *canvas {
	opts = opts.withDefaults()
	cv := newCanvas(Limit(r.Contour), opts.Width, opts.Height)
	cv.axes()
	cv.contour(r.Contour)
	for _, p := range r.Poles {
		g := poleOut
		if _, in := r.Enclosed.Lookup(p.Point.String()); in {
			g = poleIn
		}
		cv.set(p.Point.Complex(), g)
	}
	return cv
}

// Render draws r in a bordered panel with a legend of its poles.
func Render(r *goresidue.Result, opts Options) string {
	cv := draw(r, opts)

	legend := make([]string, 0, len(r.Poles)+1)
	for _, p := range r.Poles {
		_, in := r.Enclosed.Lookup(p.Point.String())
		mark, st := glyphRunes[poleOut], outsideStyle
		if in {
			mark, st = glyphRunes[poleIn], enclosedStyle
		}
		legend = append(legend, st.Render(fmt.Sprintf("%c %s", mark, Label(p.Point.Complex(), in))))
	}
	if len(r.Poles) == 0 {
		legend = append(legend, dimStyle.Render("no poles"))
	}

	v := r.Variable
	if v == "" {
		v = goresidue.DefaultVariable
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("f(%s) = %s", v, r.Function)),
		dimStyle.Render(fmt.Sprintf("%s, view [-%.1f, %.1f]", describe(r.Contour), cv.lim, cv.lim)),
		"",
		cv.render(),
		"",
		strings.Join(legend, "\n"),
	)
	return frameStyle.Render(body)
}

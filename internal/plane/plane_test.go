package plane

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goresidue "github.com/njchilds90/goresidue"
)

func analyze(t *testing.T, req goresidue.Request) *goresidue.Result {
	t.Helper()
	_, res, err := goresidue.Analyze(req)
	require.NoError(t, err)
	return res
}

func TestLimit(t *testing.T) {
	tests := []struct {
		name string
		c    goresidue.Contour
		want float64
	}{
		{"circle at origin", goresidue.Circle{Center: 0, Radius: 3}, 4.5},
		{"shifted circle", goresidue.Circle{Center: 1 - 2i, Radius: 1}, 4.5},
		{"rectangle", goresidue.Rectangle{LowerLeft: -4 - 1i, UpperRight: 4 + 1i}, 5.5},
		{"small rectangle", goresidue.Rectangle{LowerLeft: -1 - 1i, UpperRight: 0.5 + 0.5i}, 2.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Limit(tt.c), 1e-12, tt.name)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "z=2.0+0.0j (Enclosed)", Label(2, true))
	assert.Equal(t, "z=0.0-2.0j (Outside)", Label(-2i, false))
	assert.Equal(t, "z=-1.4+0.0j (Enclosed)", Label(complex(-1.41421356, -0.0), true))
}

func TestDraw_Circle(t *testing.T) {
	res := analyze(t, goresidue.Request{Function: "exp(z)/(z-2)**3", Contour: "circle", Center: "0", Radius: "3"})
	cv := draw(res, Options{Width: 61, Height: 25})

	assert.Equal(t, axisX, cv.cells[12][30])
	// 2 maps to column round(6.5/9*60) = 43.
	assert.Equal(t, poleIn, cv.cells[12][43])
	// The circle crosses the positive imaginary axis at 3i, row round(1.5/9*24) = 4.
	assert.Equal(t, curve, cv.cells[4][30])
	assert.Equal(t, empty, cv.cells[0][0])
}

func TestDraw_Rectangle(t *testing.T) {
	res := analyze(t, goresidue.Request{Function: "1/(z*(z-2))", Contour: "rectangle", LowerLeft: "-1-1j", UpperRight: "1+1j"})
	cv := draw(res, Options{Width: 21, Height: 21})

	// Limit 2.5 maps the unit square corners onto rows and columns 6 and 14.
	assert.Equal(t, curve, cv.cells[6][6])
	assert.Equal(t, curve, cv.cells[14][14])
	assert.Equal(t, curve, cv.cells[6][10])
	assert.Equal(t, poleIn, cv.cells[10][10])
	assert.Equal(t, poleOut, cv.cells[10][18])
}

func TestRender(t *testing.T) {
	res := analyze(t, goresidue.Request{Function: "z**2/(z-1)", Contour: "circle", Center: "0+0j", Radius: "0.5"})
	out := Render(res, Options{})
	assert.Contains(t, out, "f(z) = z**2/(z-1)")
	assert.Contains(t, out, "○ z=1.0+0.0j (Outside)")
	assert.Contains(t, out, "view [-2.0, 2.0]")
	assert.Contains(t, out, "╭")

	res = analyze(t, goresidue.Request{Function: "1/(z**2+4)", Contour: "circle", Center: "0+0j", Radius: "3.0"})
	out = Render(res, Options{})
	assert.Contains(t, out, "● z=0.0-2.0j (Enclosed)")
	assert.Contains(t, out, "● z=0.0+2.0j (Enclosed)")

	res = analyze(t, goresidue.Request{Function: "z + 1", Contour: "circle", Center: "0", Radius: "1"})
	assert.Contains(t, Render(res, Options{}), "no poles")
}

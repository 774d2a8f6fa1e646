package goresidue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPoly(cs ...int64) poly {
	p := make(poly, len(cs))
	for i, c := range cs {
		p[i] = IntValue(c)
	}
	return p
}

func rootStrings(rs []root) ([]string, []int) {
	vals := make([]string, len(rs))
	mults := make([]int, len(rs))
	for i, r := range rs {
		vals[i] = r.val.String()
		mults[i] = r.mult
	}
	return vals, mults
}

// ============================================================
// Arithmetic
// ============================================================

func TestPoly_DivMod(t *testing.T) {
	quo, rem, err := intPoly(-1, 0, 1).divMod(intPoly(-1, 1))
	require.NoError(t, err)
	assert.True(t, quo.equal(intPoly(1, 1)), quo.String())
	assert.Equal(t, -1, rem.deg())

	_, rem, err = intPoly(1, 0, 1).divMod(intPoly(-1, 1))
	require.NoError(t, err)
	assert.Equal(t, "2", rem.lead().String())

	_, _, err = intPoly(1, 1).divMod(nil)
	assert.ErrorIs(t, err, ErrNotInvertible)
}

func TestPoly_GCD(t *testing.T) {
	// (z-2)^3 and its derivative share (z-2)^2.
	p := intPoly(-8, 12, -6, 1)
	g, err := polyGCD(p, p.deriv())
	require.NoError(t, err)
	assert.True(t, g.equal(intPoly(4, -4, 1)), g.String())
}

func TestPoly_TaylorAt(t *testing.T) {
	// (1+h)^2 = 1 + 2h + h^2
	cs := intPoly(0, 0, 1).taylorAt(IntValue(1), 4)
	got := make([]string, len(cs))
	for i, c := range cs {
		got[i] = c.String()
	}
	assert.Equal(t, []string{"1", "2", "1", "0"}, got)
}

func TestPoly_String(t *testing.T) {
	assert.Equal(t, "z^2 + 4", intPoly(4, 0, 1).String())
	assert.Equal(t, "z^3 - 6*z^2 + 12*z - 8", intPoly(-8, 12, -6, 1).String())
}

// ============================================================
// Roots
// ============================================================

func TestPolyRoots(t *testing.T) {
	tests := []struct {
		name  string
		p     poly
		roots []string
		mults []int
	}{
		{"linear", intPoly(-3, 1), []string{"3"}, []int{1}},
		{"imaginary pair", intPoly(4, 0, 1), []string{"-2*I", "2*I"}, []int{1, 1}},
		{"triple", intPoly(-8, 12, -6, 1), []string{"2"}, []int{3}},
		{"surds", intPoly(-2, 0, 1), []string{"-sqrt(2)", "sqrt(2)"}, []int{1, 1}},
		{"complex pair", intPoly(2, -2, 1), []string{"1 - I", "1 + I"}, []int{1, 1}},
		{"fourth roots of unity", intPoly(-1, 0, 0, 0, 1), []string{"-1", "-I", "I", "1"}, []int{1, 1, 1, 1}},
		{"biquadratic", intPoly(6, 0, -5, 0, 1), []string{"-sqrt(3)", "-sqrt(2)", "sqrt(2)", "sqrt(3)"}, []int{1, 1, 1, 1}},
		{"mixed multiplicity", intPoly(0, 0, -1, 1), []string{"0", "1"}, []int{2, 1}},
		{"non-monic", intPoly(1, 0, 4), []string{"-I/2", "I/2"}, []int{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := polyRoots(tt.p)
			require.NoError(t, err)
			vals, mults := rootStrings(rs)
			assert.Equal(t, tt.roots, vals)
			assert.Equal(t, tt.mults, mults)
		})
	}
}

func TestPolyRoots_Constant(t *testing.T) {
	rs, err := polyRoots(intPoly(5))
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestPolyRoots_NoClosedForm(t *testing.T) {
	_, err := polyRoots(intPoly(-2, 0, 0, 1))
	assert.ErrorIs(t, err, ErrNoClosedForm)
}

func TestPoly_Pow(t *testing.T) {
	tests := []struct {
		name string
		p    poly
		n    int
		want poly
	}{
		{"cube", intPoly(1, 1), 3, intPoly(1, 3, 3, 1)},
		{"constant", intPoly(2), 10, intPoly(1024)},
		{"one to a huge power", intPoly(1), 100000000, intPoly(1)},
		{"zeroth power", polyX(), 0, intPoly(1)},
		{"zero polynomial", nil, 5, nil},
		{"at the degree bound", polyX(), maxDegree, append(make(poly, maxDegree), one())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.p.pow(tt.n)
			require.NoError(t, err)
			assert.True(t, got.equal(tt.want), got.String())
		})
	}
}

func TestPoly_PowDegreeBound(t *testing.T) {
	for _, tt := range []struct {
		p poly
		n int
	}{
		{polyX(), 100000000},
		{intPoly(-1, 1), 2000},
		{intPoly(1, 0, 1), maxDegree/2 + 1},
		{intPoly(3), 1 << 20},
	} {
		_, err := tt.p.pow(tt.n)
		assert.ErrorIs(t, err, ErrUnsupported, "%s ** %d", tt.p, tt.n)
	}
}

func TestFactoredRoots(t *testing.T) {
	tests := []struct {
		in    string
		want  []string
		mults []int
	}{
		{"1/(z - pi)", []string{"pi"}, []int{1}},
		{"1/(z - sqrt(2))**2", []string{"sqrt(2)"}, []int{2}},
		{"1/(z**2 + pi**2)", []string{"-I*pi", "I*pi"}, []int{1, 1}},
		{"1/((z - pi)*(z - 1)**2)", []string{"1", "pi"}, []int{2, 1}},
		{"1/((z - pi)*(z**2 + 4))", []string{"-2*I", "2*I", "pi"}, []int{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := Parse(tt.in, "z")
			require.NoError(t, err)
			r, err := together(e, "z")
			require.NoError(t, err)
			require.False(t, r.den.isGauss(), r.den.String())
			rs, err := r.roots()
			require.NoError(t, err)
			vals, mults := rootStrings(rs)
			assert.Equal(t, tt.want, vals)
			assert.Equal(t, tt.mults, mults)
		})
	}
}

func TestFactoredRoots_NoClosedForm(t *testing.T) {
	e, err := Parse("1/(z**2 - pi*z + 1)", "z")
	require.NoError(t, err)
	r, err := together(e, "z")
	require.NoError(t, err)
	_, err = r.roots()
	assert.ErrorIs(t, err, ErrNoClosedForm)
}

func TestToPoly(t *testing.T) {
	e := MulOf(AddOf(S("z"), N(-1)), AddOf(S("z"), N(1)))
	p, err := toPoly(e, "z")
	require.NoError(t, err)
	assert.True(t, p.equal(intPoly(-1, 0, 1)), p.String())

	_, err = toPoly(SinOf(S("z")), "z")
	assert.ErrorIs(t, err, ErrUnsupported)
}

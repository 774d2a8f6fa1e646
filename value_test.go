package goresidue_test

import (
	"encoding/json"
	"math"
	"math/big"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goresidue "github.com/njchilds90/goresidue"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"exp(2)/2", "exp(2)/2"},
		{"1/(-4*I)", "I/4"},
		{"2*pi*I", "2*I*pi"},
		{"exp(I*pi)", "-1"},
		{"exp(I*pi/2)", "I"},
		{"exp(2)*exp(-2)", "1"},
		{"exp(1 + I*pi)", "-exp(1)"},
		{"sqrt(8)", "2*sqrt(2)"},
		{"sqrt(-16)", "4*I"},
		{"sqrt(2)*sqrt(2)", "2"},
		{"sqrt(2)*sqrt(6)", "2*sqrt(3)"},
		{"1/sqrt(2)", "sqrt(2)/2"},
		{"1/(1+sqrt(2))", "-1 + sqrt(2)"},
		{"(3+4*I)**(1/2)", "2 + I"},
		{"sin(1)", "sin(1)"},
		{"pi/pi", "1"},
		{"1/pi", "1/pi"},
		{"(1+I)**4", "-4"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := goresidue.Evaluate(mustParse(t, tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestEvaluate_Numeric(t *testing.T) {
	tests := []struct {
		in   string
		want complex128
	}{
		{"exp(2)/2", complex(math.Exp(2)/2, 0)},
		{"I*pi*exp(2)", complex(0, math.Pi*math.Exp(2))},
		{"sqrt(3) + I", complex(math.Sqrt(3), 1)},
		{"cos(I)", cmplx.Cos(1i)},
		{"cos(-1 + pi/3)", cmplx.Cos(complex(math.Pi/3-1, 0))},
		{"sin(5*pi/6 + I)", cmplx.Sin(complex(5*math.Pi/6, 1))},
		{"1/(1 + pi)", complex(1/(1+math.Pi), 0)},
		{"1/(sqrt(2) + sqrt(3) + 1)", complex(1/(math.Sqrt2+math.Sqrt(3)+1), 0)},
	}
	for _, tt := range tests {
		v, err := goresidue.Evaluate(mustParse(t, tt.in))
		require.NoError(t, err, tt.in)
		assert.InDelta(t, real(tt.want), real(v.Complex()), 1e-12, tt.in)
		assert.InDelta(t, imag(tt.want), imag(v.Complex()), 1e-12, tt.in)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := goresidue.Evaluate(goresidue.S("z"))
	assert.ErrorIs(t, err, goresidue.ErrUnsupported)

	_, err = goresidue.Evaluate(mustParse(t, "2**I"))
	assert.ErrorIs(t, err, goresidue.ErrUnsupported)
}

func TestEvaluate_Trig(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sin(pi)", "0"},
		{"cos(pi)", "-1"},
		{"sin(pi/2)", "1"},
		{"cos(pi/2)", "0"},
		{"sin(7*pi)", "0"},
		{"cos(3*pi)", "-1"},
		{"sin(pi/6)", "1/2"},
		{"cos(pi/4)", "sqrt(2)/2"},
		{"sin(pi/3)", "sqrt(3)/2"},
		{"sin(2*pi/3)", "sqrt(3)/2"},
		{"cos(2*pi/3)", "-1/2"},
		{"sin(-pi/4)", "-sqrt(2)/2"},
		{"cos(pi/5)", "cos(pi/5)"},
		{"sin(-1)", "-sin(1)"},
		{"cos(-1)", "cos(1)"},
		{"sin(-I)", "-sin(I)"},
		{"sin(1 + pi)", "-sin(1)"},
		{"cos(-1 + pi/3)", "sin(1 + pi/6)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := goresidue.Evaluate(mustParse(t, tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}

	sum := mustValue(t, "sin(I)").Add(mustValue(t, "sin(-I)"))
	assert.True(t, sum.IsZero(), sum.String())
}

func TestValue_InverseOfSum(t *testing.T) {
	tests := []struct {
		in   string
		want string
		back string
	}{
		{"1/(1 + pi)", "1/(1 + pi)", "1 + pi"},
		{"2/(2 + 2*pi)", "1/(1 + pi)", "1 + pi"},
		{"1/(pi - 1)", "-1/(1 - pi)", "-1 + pi"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := mustValue(t, tt.in)
			assert.Equal(t, tt.want, v.String())

			back, err := v.Inverse()
			require.NoError(t, err)
			assert.Equal(t, tt.back, back.String())
		})
	}
}

func TestValue_Arithmetic(t *testing.T) {
	two := goresidue.IntValue(2)
	half := goresidue.ComplexValue(big.NewRat(1, 2), big.NewRat(0, 1))
	i := goresidue.ComplexValue(big.NewRat(0, 1), big.NewRat(1, 1))

	assert.Equal(t, "1", two.Mul(half).String())
	assert.Equal(t, "2 + I", two.Add(i).String())
	assert.Equal(t, "0", i.Sub(i).String())
	assert.True(t, i.Sub(i).IsZero())
	assert.True(t, two.Equal(goresidue.IntValue(2)))
	assert.Equal(t, two.String(), two.Key())

	inv, err := two.Add(i).Inverse()
	require.NoError(t, err)
	assert.Equal(t, "2/5 - I/5", inv.String())

	p, err := i.Pow(-3)
	require.NoError(t, err)
	assert.Equal(t, "I", p.String())

	_, err = goresidue.IntValue(0).Inverse()
	assert.ErrorIs(t, err, goresidue.ErrNotInvertible)
}

func TestValue_Expr(t *testing.T) {
	for _, in := range []string{"exp(2)/2", "-I/4", "2*sqrt(3) - I", "I*pi*exp(2)", "1/(1 + pi)", "sin(1 + pi/6)"} {
		v, err := goresidue.Evaluate(mustParse(t, in))
		require.NoError(t, err, in)
		back, err := goresidue.Evaluate(v.Expr())
		require.NoError(t, err, in)
		assert.Equal(t, v.String(), back.String(), in)
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	v, err := goresidue.Evaluate(mustParse(t, "-I/4"))
	require.NoError(t, err)
	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"exact":"-I/4","re":0,"im":-0.25}`, string(b))
}

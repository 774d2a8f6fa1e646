package goresidue_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goresidue "github.com/njchilds90/goresidue"
)

// ============================================================
// Num & Sym
// ============================================================

func TestNum_String(t *testing.T) {
	assert.Equal(t, "42", goresidue.N(42).String())
	assert.Equal(t, "1/3", goresidue.F(1, 3).String())
	assert.Equal(t, "I", goresidue.I().String())
	assert.Equal(t, "2*I", goresidue.MulOf(goresidue.N(2), goresidue.I()).String())
}

func TestNum_LaTeX(t *testing.T) {
	assert.Equal(t, `\frac{2}{5}`, goresidue.F(2, 5).LaTeX())
	assert.Equal(t, "i", goresidue.I().LaTeX())
	assert.Equal(t, "1 + i", goresidue.AddOf(goresidue.N(1), goresidue.I()).LaTeX())
}

func TestSym_Diff(t *testing.T) {
	assert.Equal(t, "1", goresidue.Diff(goresidue.S("z"), "z").String())
	assert.Equal(t, "0", goresidue.Diff(goresidue.S("w"), "z").String())
	assert.Equal(t, "0", goresidue.Diff(goresidue.N(5), "z").String())
}

// ============================================================
// Add & Mul
// ============================================================

func TestAdd_Simplify(t *testing.T) {
	z := goresidue.S("z")
	tests := []struct {
		name string
		expr goresidue.Expr
		want string
	}{
		{"simple", goresidue.AddOf(z, goresidue.N(3)), "z + 3"},
		{"collapse", goresidue.AddOf(goresidue.N(1), goresidue.N(-1)), "0"},
		{"like terms", goresidue.AddOf(z, z), "2*z"},
		{"cancel", goresidue.AddOf(z, goresidue.MulOf(goresidue.N(-1), z)), "0"},
		{"single", goresidue.AddOf(goresidue.N(5)), "5"},
		{"degree order", goresidue.AddOf(goresidue.N(4), goresidue.PowOf(z, goresidue.N(2))), "z^2 + 4"},
		{"negative", goresidue.AddOf(z, goresidue.N(-2)), "z - 2"},
		{"gaussian", goresidue.AddOf(goresidue.N(1), goresidue.I(), goresidue.N(1)), "2 + I"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestMul_Simplify(t *testing.T) {
	z := goresidue.S("z")
	tests := []struct {
		name string
		expr goresidue.Expr
		want string
	}{
		{"coefficient", goresidue.MulOf(goresidue.N(3), z), "3*z"},
		{"zero", goresidue.MulOf(goresidue.N(0), z), "0"},
		{"one", goresidue.MulOf(goresidue.N(1), z), "z"},
		{"square", goresidue.MulOf(z, z), "z^2"},
		{"reciprocal", goresidue.MulOf(z, goresidue.PowOf(z, goresidue.N(-1))), "1"},
		{"fraction", goresidue.MulOf(goresidue.F(1, 2), z), "z/2"},
		{"exp merge", goresidue.MulOf(goresidue.ExpOf(z), goresidue.ExpOf(z)), "exp(2*z)"},
		{
			"quotient",
			goresidue.MulOf(goresidue.ExpOf(z), goresidue.PowOf(goresidue.AddOf(z, goresidue.N(-2)), goresidue.N(-3))),
			"exp(z)/(z - 2)^3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestMul_ProductRule(t *testing.T) {
	z := goresidue.S("z")
	d := goresidue.Diff(goresidue.MulOf(z, goresidue.SinOf(z)), "z")
	assert.Equal(t, "cos(z)*z + sin(z)", d.String())
}

// ============================================================
// Pow
// ============================================================

func TestPow_Simplify(t *testing.T) {
	z := goresidue.S("z")
	tests := []struct {
		name string
		expr goresidue.Expr
		want string
	}{
		{"simple", goresidue.PowOf(z, goresidue.N(2)), "z^2"},
		{"zero exponent", goresidue.PowOf(z, goresidue.N(0)), "1"},
		{"unit exponent", goresidue.PowOf(z, goresidue.N(1)), "z"},
		{"numeric", goresidue.PowOf(goresidue.N(2), goresidue.N(10)), "1024"},
		{"imaginary", goresidue.PowOf(goresidue.I(), goresidue.N(2)), "-1"},
		{"reciprocal", goresidue.PowOf(z, goresidue.N(-1)), "1/z"},
		{"sqrt", goresidue.SqrtOf(z), "sqrt(z)"},
		{"nested integer", goresidue.PowOf(goresidue.PowOf(z, goresidue.N(2)), goresidue.N(3)), "z^6"},
		{"distribute", goresidue.PowOf(goresidue.MulOf(goresidue.N(2), z), goresidue.N(-1)), "1/(2*z)"},
		{"exp power", goresidue.PowOf(goresidue.ExpOf(z), goresidue.N(-1)), "exp(-z)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestPow_Diff(t *testing.T) {
	z := goresidue.S("z")
	assert.Equal(t, "3*z^2", goresidue.Diff(goresidue.PowOf(z, goresidue.N(3)), "z").String())
	assert.Equal(t, "24", goresidue.DiffN(goresidue.PowOf(z, goresidue.N(4)), "z", 4).String())
	assert.Equal(t, "-1/z^2", goresidue.Diff(goresidue.PowOf(z, goresidue.N(-1)), "z").String())
}

func TestPow_LaTeX(t *testing.T) {
	z := goresidue.S("z")
	assert.Equal(t, "z^{2}", goresidue.PowOf(z, goresidue.N(2)).LaTeX())
	assert.Equal(t, `\sqrt{z}`, goresidue.SqrtOf(z).LaTeX())
	assert.Equal(t, `\frac{1}{z}`, goresidue.PowOf(z, goresidue.N(-1)).LaTeX())
}

// ============================================================
// Func
// ============================================================

func TestFunc(t *testing.T) {
	z := goresidue.S("z")
	assert.Equal(t, "sin(z)", goresidue.SinOf(z).String())
	assert.Equal(t, "cos(z)", goresidue.Diff(goresidue.SinOf(z), "z").String())
	assert.Equal(t, "-sin(z)", goresidue.Diff(goresidue.CosOf(z), "z").String())
	assert.Equal(t, "exp(z)", goresidue.Diff(goresidue.ExpOf(z), "z").String())
	assert.Equal(t, "2*exp(2*z)", goresidue.Diff(goresidue.ExpOf(goresidue.MulOf(goresidue.N(2), z)), "z").String())
	assert.Equal(t, "0", goresidue.SinOf(goresidue.N(0)).String())
	assert.Equal(t, "1", goresidue.CosOf(goresidue.N(0)).String())
	assert.Equal(t, "1", goresidue.ExpOf(goresidue.N(0)).String())
	assert.Equal(t, `\sin\left(z\right)`, goresidue.SinOf(z).LaTeX())
}

// ============================================================
// Symbols, equality, JSON
// ============================================================

func TestFreeSymbols(t *testing.T) {
	e := goresidue.AddOf(goresidue.S("z"), goresidue.MulOf(goresidue.S("w"), goresidue.N(2)))
	syms := goresidue.FreeSymbols(e)
	assert.Len(t, syms, 2)
	assert.Contains(t, syms, "z")
	assert.Contains(t, syms, "w")
	assert.Empty(t, goresidue.FreeSymbols(goresidue.MulOf(goresidue.Pi(), goresidue.I())))
}

func TestEqual(t *testing.T) {
	assert.True(t, goresidue.N(3).Equal(goresidue.N(3)))
	assert.False(t, goresidue.N(3).Equal(goresidue.N(4)))
	assert.True(t, goresidue.S("z").Equal(goresidue.S("z")))
	assert.False(t, goresidue.N(1).Equal(goresidue.S("z")))
}

func TestToJSON_Num(t *testing.T) {
	j, err := goresidue.ToJSON(goresidue.AddOf(goresidue.N(3), goresidue.I()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"num","value":"3","imag":"1"}`, j)
}

func TestFromJSON_RoundTrip(t *testing.T) {
	z := goresidue.S("z")
	original := goresidue.MulOf(goresidue.ExpOf(z), goresidue.PowOf(goresidue.AddOf(z, goresidue.N(-2)), goresidue.N(-3)))
	j, err := goresidue.ToJSON(original)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(j), &m))

	rebuilt, err := goresidue.FromJSON(m)
	require.NoError(t, err)
	assert.True(t, rebuilt.Equal(original), rebuilt.String())
}

func TestFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		data map[string]interface{}
	}{
		{"nil", nil},
		{"missing type", map[string]interface{}{"name": "z"}},
		{"unknown type", map[string]interface{}{"type": "matrix"}},
		{"unknown function", map[string]interface{}{"type": "func", "name": "tan", "arg": map[string]interface{}{"type": "sym", "name": "z"}}},
		{"unknown constant", map[string]interface{}{"type": "const", "name": "e"}},
		{"bad number", map[string]interface{}{"type": "num", "value": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := goresidue.FromJSON(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestDeterminism(t *testing.T) {
	build := func() string {
		z := goresidue.S("z")
		return goresidue.AddOf(goresidue.SinOf(z), goresidue.PowOf(z, goresidue.N(3)), goresidue.ExpOf(z), goresidue.N(1)).String()
	}
	first := build()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, build())
	}
}

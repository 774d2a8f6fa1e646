package goresidue

import (
	"fmt"
	"math/big"
)

// Pole is an isolated singular point with its residue and order.
type Pole struct {
	Point   Value `json:"point"`
	Residue Value `json:"residue"`
	Order   int   `json:"order"`
}

// PoleMap is the pole → residue mapping in a deterministic order.
type PoleMap []Pole

// Lookup finds the pole whose point has the exact key.
func (m PoleMap) Lookup(key string) (Pole, bool) {
	for _, p := range m {
		if p.Point.Key() == key {
			return p, true
		}
	}
	return Pole{}, false
}

func (m PoleMap) Points() []Value {
	out := make([]Value, len(m))
	for i, p := range m {
		out[i] = p.Point
	}
	return out
}

// Residue returns the residue of e at point and the order of the pole there.
// A point that is not a pole has residue 0 and order 0.
func Residue(e Expr, variable string, point Value) (res Value, order int, err error) {
	defer recoverEngine(&err)
	r, err := together(e, variable)
	if err != nil {
		return Value{}, 0, err
	}
	return r.residue(point, variable)
}

// residue computes the (m-1)-th Taylor coefficient of (z-z0)^m f(z) at z0,
// where m is the multiplicity of z0 in the denominator:
//
//	(z-z0)^m f = A/Q,  A = Σ a_k h^k,  Q = Σ q_k h^k,  c = A/Q
//	c_k = (a_k - Σ_{j=1..k} q_j c_{k-j}) / q_0
func (r rational) residue(z0 Value, variable string) (Value, int, error) {
	d, inv, err := r.den.monic()
	if err != nil || d.deg() < 1 {
		return Value{}, 0, err
	}
	m, q := 0, d
	for q.deg() > 0 {
		quo, rem := q.divLinear(z0)
		if !rem.IsZero() {
			break
		}
		m++
		q = quo
	}
	if m == 0 {
		return Value{}, 0, nil
	}

	qs := q.taylorAt(z0, m)
	q0inv, err := qs[0].Inverse()
	if err != nil {
		return Value{}, 0, err
	}
	a := make([]Value, m)
	deriv := r.num
	fact := big.NewRat(1, 1)
	for k := 0; k < m; k++ {
		if k > 0 {
			deriv = Diff(deriv, variable)
			fact.Mul(fact, big.NewRat(int64(k), 1))
		}
		v, err := evaluate(deriv, variable, &z0)
		if err != nil {
			return Value{}, 0, err
		}
		a[k] = v.scaleRat(new(big.Rat).Inv(fact))
	}
	c := make([]Value, m)
	for k := 0; k < m; k++ {
		acc := a[k]
		for j := 1; j <= k; j++ {
			acc = acc.Sub(qs[j].Mul(c[k-j]))
		}
		c[k] = acc.Mul(q0inv)
	}
	order := 0
	for k := 0; k < m; k++ {
		if !c[k].IsZero() {
			order = m - k
			break
		}
	}
	return c[m-1].Mul(inv), order, nil
}

// PolesAndResidues finds every pole of e with a nonzero residue. Any failure
// empties the whole mapping and is reported as ErrSingularityComputation.
func PolesAndResidues(e Expr, variable string) (poles PoleMap, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			poles, err = nil, fmt.Errorf("%w: %v", ErrSingularityComputation, rec)
		}
	}()
	r, err := together(e, variable)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularityComputation, err)
	}
	return r.poles(variable)
}

// poles computes the residue at every root of the denominator. The first
// failure discards the residues already found.
func (r rational) poles(variable string) (PoleMap, error) {
	roots, err := r.roots()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularityComputation, err)
	}
	var poles PoleMap
	for _, rt := range roots {
		res, order, err := r.residue(rt.val, variable)
		if err != nil {
			return nil, fmt.Errorf("%w: residue at %s: %w", ErrSingularityComputation, rt.val, err)
		}
		if res.IsZero() {
			continue
		}
		poles = append(poles, Pole{Point: rt.val, Residue: res, Order: order})
	}
	return poles, nil
}

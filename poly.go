package goresidue

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"sort"
)

// ============================================================
// poly — univariate polynomials with exact coefficients
// ============================================================

// poly holds coefficients lowest degree first. The zero polynomial is empty.
type poly []Value

func polyConst(v Value) poly { return poly{v}.trim() }
func polyOne() poly          { return poly{one()} }
func polyX() poly            { return poly{Value{}, one()} }

func (p poly) trim() poly {
	n := len(p)
	for n > 0 && p[n-1].IsZero() {
		n--
	}
	return p[:n]
}

func (p poly) deg() int { return len(p.trim()) - 1 }

func (p poly) lead() Value {
	t := p.trim()
	if len(t) == 0 {
		return Value{}
	}
	return t[len(t)-1]
}

func (p poly) add(q poly) poly {
	n := max(len(p), len(q))
	out := make(poly, n)
	for i := range out {
		var a, b Value
		if i < len(p) {
			a = p[i]
		}
		if i < len(q) {
			b = q[i]
		}
		out[i] = a.Add(b)
	}
	return out.trim()
}

func (p poly) mul(q poly) poly {
	p, q = p.trim(), q.trim()
	if len(p) == 0 || len(q) == 0 {
		return nil
	}
	out := make(poly, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			out[i+j] = out[i+j].Add(a.Mul(b))
		}
	}
	return out.trim()
}

func (p poly) scale(v Value) poly {
	out := make(poly, len(p))
	for i, c := range p {
		out[i] = c.Mul(v)
	}
	return out.trim()
}

// maxDegree bounds the degree of a polynomial built by pow.
const maxDegree = 128

// pow raises p to n >= 0 by squaring. Constants take a direct path; other
// powers fail with ErrUnsupported past maxDegree.
func (p poly) pow(n int) (poly, error) {
	p = p.trim()
	switch {
	case n == 0:
		return polyOne(), nil
	case len(p) == 0:
		return nil, nil
	case len(p) == 1:
		if p[0].Equal(one()) {
			return polyOne(), nil
		}
		if n > 1<<16 {
			return nil, fmt.Errorf("%w: exponent %d too large", ErrUnsupported, n)
		}
		c, err := p[0].Pow(n)
		if err != nil {
			return nil, err
		}
		return polyConst(c), nil
	case len(p)-1 > maxDegree/n:
		return nil, fmt.Errorf("%w: degree %d exceeds %d", ErrUnsupported, int64(len(p)-1)*int64(n), maxDegree)
	}
	out, base := polyOne(), p
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			out = out.mul(base)
		}
		if n > 1 {
			base = base.mul(base)
		}
	}
	return out, nil
}

func (p poly) equal(q poly) bool {
	p, q = p.trim(), q.trim()
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !p[i].Equal(q[i]) {
			return false
		}
	}
	return true
}

func (p poly) deriv() poly {
	if len(p) < 2 {
		return nil
	}
	out := make(poly, len(p)-1)
	for k := 1; k < len(p); k++ {
		out[k-1] = p[k].Mul(IntValue(int64(k)))
	}
	return out.trim()
}

// eval evaluates p at x with Horner's rule.
func (p poly) eval(x Value) Value {
	var acc Value
	for i := len(p) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(p[i])
	}
	return acc
}

// divLinear divides p by (z - r) and returns the quotient and p(r).
func (p poly) divLinear(r Value) (poly, Value) {
	p = p.trim()
	n := len(p)
	if n == 0 {
		return nil, Value{}
	}
	quo := make(poly, n-1)
	acc := p[n-1]
	for i := n - 2; i >= 0; i-- {
		quo[i] = acc
		acc = p[i].Add(acc.Mul(r))
	}
	return quo.trim(), acc
}

// divMod is polynomial long division.
func (p poly) divMod(q poly) (poly, poly, error) {
	q = q.trim()
	if len(q) == 0 {
		return nil, nil, fmt.Errorf("%w: division by the zero polynomial", ErrNotInvertible)
	}
	inv, err := q.lead().Inverse()
	if err != nil {
		return nil, nil, err
	}
	r := append(poly(nil), p.trim()...)
	dq := len(q) - 1
	if len(r)-1 < dq {
		return nil, r, nil
	}
	quo := make(poly, len(r)-dq)
	for len(r)-1 >= dq {
		shift := len(r) - 1 - dq
		c := r[len(r)-1].Mul(inv)
		quo[shift] = c
		for i := 0; i <= dq; i++ {
			r[i+shift] = r[i+shift].Sub(c.Mul(q[i]))
		}
		// The leading term cancels exactly.
		r = r[:len(r)-1].trim()
	}
	return quo.trim(), r, nil
}

// monic scales p to leading coefficient 1 and returns the scale used.
func (p poly) monic() (poly, Value, error) {
	if p.deg() < 0 {
		return nil, Value{}, fmt.Errorf("%w: zero polynomial", ErrNotInvertible)
	}
	inv, err := p.lead().Inverse()
	if err != nil {
		return nil, Value{}, err
	}
	return p.scale(inv), inv, nil
}

func polyGCD(a, b poly) (poly, error) {
	a, b = a.trim(), b.trim()
	for len(b) > 0 {
		_, r, err := a.divMod(b)
		if err != nil {
			return nil, err
		}
		if r.deg() == 0 {
			return polyOne(), nil
		}
		a, b = b, r
	}
	m, _, err := a.monic()
	return m, err
}

func (p poly) isGauss() bool {
	for _, c := range p {
		if _, ok := c.gauss(); !ok {
			return false
		}
	}
	return true
}

// taylorAt returns the first n coefficients of p(x + h) in powers of h.
func (p poly) taylorAt(x Value, n int) []Value {
	out := make([]Value, n)
	q := p.trim()
	for k := 0; k < n && len(q) > 0; k++ {
		quo, rem := q.divLinear(x)
		out[k] = rem
		q = quo
	}
	return out
}

func (p poly) toExpr(variable string) Expr {
	terms := make([]Expr, 0, len(p))
	for k, c := range p.trim() {
		if c.IsZero() {
			continue
		}
		terms = append(terms, MulOf(c.Expr(), PowOf(S(variable), N(int64(k)))))
	}
	return AddOf(terms...)
}

func (p poly) String() string { return p.toExpr("z").String() }

// toPoly reads e as a polynomial in variable.
func toPoly(e Expr, variable string) (poly, error) {
	if !hasSymbol(e, variable) {
		c, err := evaluate(e, variable, nil)
		if err != nil {
			return nil, err
		}
		return polyConst(c), nil
	}
	switch v := e.(type) {
	case *Sym:
		return polyX(), nil
	case *Add:
		var out poly
		for _, t := range v.terms {
			p, err := toPoly(t, variable)
			if err != nil {
				return nil, err
			}
			out = out.add(p)
		}
		return out, nil
	case *Mul:
		out := polyOne()
		for _, f := range v.factors {
			p, err := toPoly(f, variable)
			if err != nil {
				return nil, err
			}
			out = out.mul(p)
		}
		return out, nil
	case *Pow:
		if n, ok := v.exp.(*Num); ok {
			if k, ok := n.int64(); ok && k >= 0 {
				base, err := toPoly(v.base, variable)
				if err != nil {
					return nil, err
				}
				return base.pow(int(k))
			}
		}
	}
	return nil, fmt.Errorf("%w: %s is not a polynomial in %s", ErrUnsupported, e, variable)
}

// ============================================================
// Exact roots
// ============================================================

type root struct {
	val  Value
	mult int
}

// polyRoots returns the distinct roots of d with their multiplicities.
func polyRoots(d poly) ([]root, error) {
	if d.deg() < 1 {
		return nil, nil
	}
	if !d.isGauss() {
		return nil, fmt.Errorf("%w: denominator %s has symbolic coefficients", ErrNoClosedForm, d)
	}
	m, _, err := d.monic()
	if err != nil {
		return nil, err
	}
	g, err := polyGCD(m, m.deriv())
	if err != nil {
		return nil, err
	}
	sf, rem, err := m.divMod(g)
	if err != nil {
		return nil, err
	}
	if rem.deg() >= 0 {
		return nil, fmt.Errorf("%w: inexact square-free part of %s", ErrNoClosedForm, d)
	}
	vals, err := squareFreeRoots(sf)
	if err != nil {
		return nil, err
	}
	roots := make([]root, 0, len(vals))
	for _, v := range vals {
		k := m.multiplicity(v)
		if k == 0 {
			return nil, fmt.Errorf("%w: %s is not a root of %s", ErrNoClosedForm, v, d)
		}
		roots = append(roots, root{val: v, mult: k})
	}
	sortRoots(roots)
	return roots, nil
}

// multiplicity counts how often (z - v) divides p.
func (p poly) multiplicity(v Value) int {
	k := 0
	for p.deg() > 0 {
		quo, r := p.divLinear(v)
		if !r.IsZero() {
			break
		}
		k++
		p = quo
	}
	return k
}

// factoredRoots solves a denominator with symbolic coefficients through the
// factors it was built from. Gaussian factors go through polyRoots; linear
// and quadratic ones are solved in closed form.
func factoredRoots(d poly, factors []poly) ([]root, error) {
	seen := make(map[string]bool)
	var out []root
	for _, f := range factors {
		var vals []Value
		switch {
		case f.deg() < 1:
			continue
		case f.isGauss():
			rs, err := polyRoots(f)
			if err != nil {
				return nil, err
			}
			for _, rt := range rs {
				vals = append(vals, rt.val)
			}
		case f.deg() == 1:
			m, _, err := f.monic()
			if err != nil {
				return nil, err
			}
			vals = []Value{m[0].Neg()}
		case f.deg() == 2:
			rs, err := quadRoots(f)
			if err != nil {
				return nil, err
			}
			vals = rs
		default:
			return nil, fmt.Errorf("%w: factor %s has symbolic coefficients", ErrNoClosedForm, f)
		}
		for _, v := range vals {
			if seen[v.Key()] {
				continue
			}
			seen[v.Key()] = true
			k := d.multiplicity(v)
			if k == 0 {
				return nil, fmt.Errorf("%w: %s is not a root of %s", ErrNoClosedForm, v, d)
			}
			out = append(out, root{val: v, mult: k})
		}
	}
	sortRoots(out)
	return out, nil
}

func sortRoots(rs []root) {
	sort.SliceStable(rs, func(i, j int) bool { return lessValue(rs[i].val, rs[j].val) })
}

// lessValue orders points by real part, imaginary part, then exact text.
func lessValue(a, b Value) bool {
	ca, cb := a.Complex(), b.Complex()
	if real(ca) != real(cb) {
		return real(ca) < real(cb)
	}
	if imag(ca) != imag(cb) {
		return imag(ca) < imag(cb)
	}
	return a.String() < b.String()
}

// squareFreeRoots solves a monic square-free polynomial with Gaussian
// coefficients. Numeric approximations are only used to guess candidates;
// every root returned is verified exactly.
func squareFreeRoots(p poly) ([]Value, error) {
	var out []Value
	if p.deg() > 2 {
		var pending []complex128
		for _, r := range approxRoots(p.complexCoeffs()) {
			if g, ok := gaussNear(r); ok {
				v := gaussValue(g)
				if q, rem := p.divLinear(v); rem.IsZero() {
					out = append(out, v)
					p = q
					continue
				}
			}
			pending = append(pending, r)
		}
		for p.deg() > 2 {
			q, ok := splitQuadratic(p, &pending)
			if !ok {
				return nil, fmt.Errorf("%w: cannot factor %s", ErrNoClosedForm, p)
			}
			rs, err := quadRoots(q)
			if err != nil {
				return nil, err
			}
			out = append(out, rs...)
			p, _, err = p.divMod(q)
			if err != nil {
				return nil, err
			}
		}
	}
	switch p.deg() {
	case 2:
		rs, err := quadRoots(p)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	case 1:
		m, _, err := p.monic()
		if err != nil {
			return nil, err
		}
		out = append(out, m[0].Neg())
	}
	return out, nil
}

// splitQuadratic looks for two pending numeric roots whose quadratic factor
// divides p exactly. The pair is removed from pending.
func splitQuadratic(p poly, pending *[]complex128) (poly, bool) {
	rs := *pending
	for i := 0; i < len(rs); i++ {
		for j := i + 1; j < len(rs); j++ {
			b, ok1 := gaussNear(-(rs[i] + rs[j]))
			c, ok2 := gaussNear(rs[i] * rs[j])
			if !ok1 || !ok2 {
				continue
			}
			q := poly{gaussValue(c), gaussValue(b), one()}
			if _, rem, err := p.divMod(q); err != nil || rem.deg() >= 0 {
				continue
			}
			rest := make([]complex128, 0, len(rs)-2)
			for k, r := range rs {
				if k != i && k != j {
					rest = append(rest, r)
				}
			}
			*pending = rest
			return q, true
		}
	}
	return nil, false
}

// quadRoots solves a z² + b z + c = 0 with the exact quadratic formula.
func quadRoots(p poly) ([]Value, error) {
	m, _, err := p.monic()
	if err != nil {
		return nil, err
	}
	b, c := m[1], m[0]
	sq, err := sqrtValue(b.Mul(b).Sub(c.Mul(IntValue(4))))
	if err != nil {
		return nil, err
	}
	half := gaussValue(gFrac(1, 2))
	nb := b.Neg()
	return []Value{
		nb.Add(sq).Mul(half),
		nb.Sub(sq).Mul(half),
	}, nil
}

// sqrtValue takes square roots of Gaussian rationals and of single terms
// whose atoms all carry even powers.
func sqrtValue(v Value) (Value, error) {
	if g, ok := v.gauss(); ok {
		return sqrtGauss(g)
	}
	if len(v.terms) == 1 && v.terms[0].m.surd <= 1 {
		t := v.terms[0]
		half := make([]factor, 0, len(t.m.factors))
		for _, f := range t.m.factors {
			if f.pow%2 != 0 || f.a.kind == atomExp {
				return Value{}, fmt.Errorf("%w: sqrt(%s)", ErrNoClosedForm, v)
			}
			half = append(half, factor{a: f.a, pow: f.pow / 2})
		}
		k, err := sqrtGauss(t.c)
		if err != nil {
			return Value{}, err
		}
		return k.Mul(Value{terms: []term{{c: gInt(1), m: monomial{surd: 1, factors: half}}}}), nil
	}
	return Value{}, fmt.Errorf("%w: sqrt(%s)", ErrNoClosedForm, v)
}

func (p poly) complexCoeffs() []complex128 {
	p = p.trim()
	out := make([]complex128, len(p))
	for i, c := range p {
		out[i] = c.Complex()
	}
	return out
}

// approxRoots runs Durand–Kerner iterations on the coefficients c (lowest
// degree first).
func approxRoots(c []complex128) []complex128 {
	n := len(c) - 1
	if n < 1 {
		return nil
	}
	lead := c[n]
	mon := make([]complex128, n+1)
	for i := range c {
		mon[i] = c[i] / lead
	}
	eval := func(x complex128) complex128 {
		acc := mon[n]
		for i := n - 1; i >= 0; i-- {
			acc = acc*x + mon[i]
		}
		return acc
	}

	roots := make([]complex128, n)
	seed, w := complex(0.4, 0.9), complex(1, 0)
	for k := range roots {
		roots[k] = w
		w *= seed
	}
	for iter := 0; iter < 1000; iter++ {
		maxStep := 0.0
		for i := range roots {
			den := complex(1, 0)
			for j := range roots {
				if j != i {
					den *= roots[i] - roots[j]
				}
			}
			if den == 0 {
				den = complex(1e-12, 0)
			}
			step := eval(roots[i]) / den
			roots[i] -= step
			if s := cmplx.Abs(step); s > maxStep {
				maxStep = s
			}
		}
		if maxStep < 1e-15 {
			break
		}
	}
	return roots
}

func gaussNear(z complex128) (gauss, bool) {
	re, ok1 := approxRat(real(z))
	im, ok2 := approxRat(imag(z))
	if !ok1 || !ok2 {
		return gauss{}, false
	}
	return gauss{re: re, im: im}, true
}

// approxRat finds a small-denominator rational close to x by continued
// fractions.
func approxRat(x float64) (*big.Rat, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, false
	}
	const maxDen = 1 << 20
	tol := 1e-9 * math.Max(1, math.Abs(x))
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	r := x
	for i := 0; i < 40; i++ {
		a := math.Floor(r)
		if math.Abs(a) > 1<<50 {
			return nil, false
		}
		ai := int64(a)
		h0, h1 = h1, ai*h1+h0
		k0, k1 = k1, ai*k1+k0
		if k1 > maxDen {
			return nil, false
		}
		if math.Abs(x-float64(h1)/float64(k1)) <= tol {
			return big.NewRat(h1, k1), true
		}
		frac := r - a
		if frac < 1e-15 {
			break
		}
		r = 1 / frac
	}
	return nil, false
}

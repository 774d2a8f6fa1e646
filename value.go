package goresidue

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Value — exact complex constants in canonical form
// ============================================================

// Value is an exact complex constant: a sum of Gaussian-rational coefficients
// times monomials made of one square root sqrt(s) and integer powers of
// atoms (pi, exp(c), sin(c), cos(c), opaque radicals and reciprocal sums).
// The zero Value is 0.
//
// Two equal Values print the same string; String doubles as the exact key
// used to identify poles.
type Value struct {
	terms []term
}

type atomKind int

const (
	atomPi atomKind = iota
	atomExp
	atomFunc
	atomRadical
	atomSum
)

type atom struct {
	kind atomKind
	name string
	arg  Value
	exp  *big.Rat // radicals only
	key  string
	num  complex128
}

type factor struct {
	a   *atom
	pow int
}

type monomial struct {
	surd    int64 // square-free; 1 means no root
	factors []factor
}

type term struct {
	c gauss
	m monomial
}

var unitMono = monomial{surd: 1}

func (m monomial) isUnit() bool { return m.surd <= 1 && len(m.factors) == 0 }

func (m monomial) isPi() bool {
	return m.surd <= 1 && len(m.factors) == 1 && m.factors[0].a.kind == atomPi && m.factors[0].pow == 1
}

func (m monomial) key() string {
	var parts []string
	if m.surd > 1 {
		parts = append(parts, surdString(m.surd))
	}
	for _, f := range m.factors {
		if f.pow == 1 {
			parts = append(parts, f.a.key)
		} else {
			parts = append(parts, fmt.Sprintf("%s^%d", f.a.key, f.pow))
		}
	}
	return strings.Join(parts, "*")
}

func surdString(s int64) string { return "sqrt(" + strconv.FormatInt(s, 10) + ")" }

func (m monomial) complex128() complex128 {
	out := complex(1, 0)
	if m.surd > 1 {
		out = complex(math.Sqrt(float64(m.surd)), 0)
	}
	for _, f := range m.factors {
		out *= ipowComplex(f.a.num, f.pow)
	}
	return out
}

func ipowComplex(z complex128, n int) complex128 {
	if n < 0 {
		return 1 / ipowComplex(z, -n)
	}
	out := complex(1, 0)
	for i := 0; i < n; i++ {
		out *= z
	}
	return out
}

func sortFactors(fs []factor) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].a.kind != fs[j].a.kind {
			return fs[i].a.kind < fs[j].a.kind
		}
		return fs[i].a.key < fs[j].a.key
	})
}

// newValue collects like monomials, drops zero coefficients and sorts.
func newValue(ts []term) Value {
	acc := make(map[string]term, len(ts))
	var order []string
	for _, t := range ts {
		if t.c.isZero() {
			continue
		}
		k := t.m.key()
		if prev, ok := acc[k]; ok {
			prev.c = prev.c.add(t.c)
			acc[k] = prev
			continue
		}
		acc[k] = t
		order = append(order, k)
	}
	sort.Strings(order)
	out := make([]term, 0, len(order))
	for _, k := range order {
		if t := acc[k]; !t.c.isZero() {
			out = append(out, t)
		}
	}
	return Value{terms: out}
}

func gaussValue(g gauss) Value {
	if g.isZero() {
		return Value{}
	}
	return Value{terms: []term{{c: g, m: unitMono}}}
}

func one() Value { return gaussValue(gInt(1)) }

func atomValue(a *atom) Value {
	return Value{terms: []term{{c: gInt(1), m: monomial{surd: 1, factors: []factor{{a: a, pow: 1}}}}}}
}

func surdValue(k *big.Rat, s int64) Value {
	if s <= 1 {
		return gaussValue(gRat(k))
	}
	return newValue([]term{{c: gRat(k), m: monomial{surd: s}}})
}

func piValue() Value {
	return atomValue(&atom{kind: atomPi, name: "pi", key: "pi", num: complex(math.Pi, 0)})
}

// twoPiI is the factor of the residue theorem.
func twoPiI() Value { return gaussValue(gImag(big.NewRat(2, 1))).Mul(piValue()) }

// IntValue returns the integer n as a Value.
func IntValue(n int64) Value { return gaussValue(gInt(n)) }

// ComplexValue returns re + im*I for exact rationals re and im.
func ComplexValue(re, im *big.Rat) Value { return gaussValue(gComplex(re, im)) }

// ============================================================
// Arithmetic
// ============================================================

func (v Value) IsZero() bool { return len(v.terms) == 0 }

func (v Value) Equal(o Value) bool { return v.String() == o.String() }

// Key is the canonical string of v.
func (v Value) Key() string { return v.String() }

// gauss reports whether v is a plain Gaussian rational.
func (v Value) gauss() (gauss, bool) {
	switch {
	case len(v.terms) == 0:
		return gInt(0), true
	case len(v.terms) == 1 && v.terms[0].m.isUnit():
		return v.terms[0].c, true
	}
	return gauss{}, false
}

func (v Value) Add(o Value) Value {
	ts := make([]term, 0, len(v.terms)+len(o.terms))
	ts = append(ts, v.terms...)
	ts = append(ts, o.terms...)
	return newValue(ts)
}

func (v Value) Neg() Value {
	ts := make([]term, len(v.terms))
	for i, t := range v.terms {
		ts[i] = term{c: t.c.neg(), m: t.m}
	}
	return Value{terms: ts}
}

func (v Value) Sub(o Value) Value { return v.Add(o.Neg()) }

func (v Value) Mul(o Value) Value {
	ts := make([]term, 0, len(v.terms)*len(o.terms))
	for _, a := range v.terms {
		for _, b := range o.terms {
			m, k := mulMono(a.m, b.m)
			ts = append(ts, term{c: a.c.mul(b.c).mul(k), m: m})
		}
	}
	return newValue(ts)
}

func (v Value) scaleRat(r *big.Rat) Value { return v.Mul(gaussValue(gRat(r))) }

// mulMono multiplies monomials; the returned coefficient absorbs the square
// factor of merged roots and the powers of I peeled off merged exponentials.
func mulMono(a, b monomial) (monomial, gauss) {
	coeff := gInt(1)
	surd := int64(1)
	sa, sb := max(a.surd, 1), max(b.surd, 1)
	if sa > 1 || sb > 1 {
		g := gcd64(sa, sb)
		surd = (sa / g) * (sb / g)
		coeff = gInt(g)
	}

	var expArg Value
	hasExp := false
	pows := make(map[string]factor)
	var order []string
	all := make([]factor, 0, len(a.factors)+len(b.factors))
	all = append(all, a.factors...)
	all = append(all, b.factors...)
	for _, f := range all {
		if f.a.kind == atomExp {
			expArg = expArg.Add(f.a.arg.Mul(IntValue(int64(f.pow))))
			hasExp = true
			continue
		}
		p, ok := pows[f.a.key]
		if !ok {
			order = append(order, f.a.key)
			p.a = f.a
		}
		p.pow += f.pow
		pows[f.a.key] = p
	}
	out := make([]factor, 0, len(order)+1)
	for _, k := range order {
		if f := pows[k]; f.pow != 0 {
			out = append(out, f)
		}
	}
	if hasExp {
		ea, k := expAtom(expArg)
		coeff = coeff.mul(k)
		if ea != nil {
			out = append(out, factor{a: ea, pow: 1})
		}
	}
	sortFactors(out)
	return monomial{surd: surd, factors: out}, coeff
}

// expAtom builds exp(arg), peeling off I*pi*q with 2q integral as I^(2q).
func expAtom(arg Value) (*atom, gauss) {
	coeff := gInt(1)
	for _, t := range arg.terms {
		if !t.m.isPi() || t.c.im.Sign() == 0 {
			continue
		}
		twice := new(big.Rat).Mul(t.c.im, big.NewRat(2, 1))
		if !twice.IsInt() || !twice.Num().IsInt64() {
			break
		}
		coeff = iPow(twice.Num().Int64())
		arg = arg.Sub(newValue([]term{{c: gImag(t.c.im), m: t.m}}))
		break
	}
	if arg.IsZero() {
		return nil, coeff
	}
	return &atom{
		kind: atomExp,
		name: "exp",
		arg:  arg,
		key:  "exp(" + arg.String() + ")",
		num:  cmplx.Exp(arg.Complex()),
	}, coeff
}

func expValue(arg Value) Value {
	a, k := expAtom(arg)
	if a == nil {
		return gaussValue(k)
	}
	return atomValue(a).Mul(gaussValue(k))
}

func funcValue(name string, arg Value) (Value, error) {
	switch name {
	case "sin", "cos":
		return trigValue(name, arg), nil
	case "ln":
		if arg.IsZero() {
			return Value{}, fmt.Errorf("%w: ln(0)", ErrNotInvertible)
		}
		if arg.Equal(one()) {
			return Value{}, nil
		}
		return atomValue(&atom{kind: atomFunc, name: name, arg: arg, key: "ln(" + arg.String() + ")", num: cmplx.Log(arg.Complex())}), nil
	}
	return Value{}, fmt.Errorf("%w: function %s", ErrUnsupported, name)
}

// quarterShift rewrites name(x + k*pi/2) as sign*name'(x).
func quarterShift(name string, k int64) (string, int64) {
	other := map[string]string{"sin": "cos", "cos": "sin"}[name]
	switch k {
	case 1:
		if name == "sin" {
			return other, 1
		}
		return other, -1
	case 2:
		return name, -1
	case 3:
		if name == "sin" {
			return other, -1
		}
		return other, 1
	}
	return name, 1
}

// trigValue evaluates sin or cos of arg. Real multiples of pi are reduced
// into [0, pi/2), the rest of the argument is made sign-positive, and
// multiples of pi/6 and pi/4 get their closed forms.
func trigValue(name string, arg Value) Value {
	q := new(big.Rat)
	for _, t := range arg.terms {
		if t.m.isPi() {
			q.Set(t.c.re)
		}
	}
	w := arg.Sub(piValue().scaleRat(q))

	// arg = w + q*pi with q = n/2 + r, 0 <= r < 1/2.
	twice := new(big.Rat).Mul(q, big.NewRat(2, 1))
	n := new(big.Int).Div(twice.Num(), twice.Denom())
	r := new(big.Rat).Sub(q, new(big.Rat).SetFrac(n, big.NewInt(2)))
	name, sign := quarterShift(name, new(big.Int).Mod(n, big.NewInt(4)).Int64())

	if !w.IsZero() && w.leadingNegative() {
		// sin(-x) = -sin(x), cos(-x) = cos(x); -r*pi = (1/2 - r)*pi - pi/2.
		if name == "sin" {
			sign = -sign
		}
		w = w.Neg()
		if r.Sign() > 0 {
			r.Sub(big.NewRat(1, 2), r)
			var s int64
			name, s = quarterShift(name, 3)
			sign *= s
		}
	}

	k := gInt(sign)
	if w.IsZero() {
		if v, ok := trigTable(name, r); ok {
			return v.Mul(gaussValue(k))
		}
	}
	rest := w.Add(piValue().scaleRat(r))
	var num complex128
	if name == "sin" {
		num = cmplx.Sin(rest.Complex())
	} else {
		num = cmplx.Cos(rest.Complex())
	}
	a := &atom{kind: atomFunc, name: name, arg: rest, key: name + "(" + rest.String() + ")", num: num}
	return atomValue(a).Mul(gaussValue(k))
}

// trigTable holds sin and cos of r*pi for r in {0, 1/6, 1/4, 1/3}.
func trigTable(name string, r *big.Rat) (Value, bool) {
	half := big.NewRat(1, 2)
	var s, c Value
	switch r.RatString() {
	case "0":
		s, c = Value{}, one()
	case "1/6":
		s, c = gaussValue(gRat(half)), surdValue(half, 3)
	case "1/4":
		s, c = surdValue(half, 2), surdValue(half, 2)
	case "1/3":
		s, c = surdValue(half, 3), gaussValue(gRat(half))
	default:
		return Value{}, false
	}
	if name == "sin" {
		return s, true
	}
	return c, true
}

// leadingNegative reports whether the first term of v has a negative real
// part, or a zero real part and a negative imaginary part.
func (v Value) leadingNegative() bool {
	if len(v.terms) == 0 {
		return false
	}
	c := v.terms[0].c
	if c.re.Sign() != 0 {
		return c.re.Sign() < 0
	}
	return c.im.Sign() < 0
}

func invMono(m monomial) (monomial, gauss) {
	coeff := gInt(1)
	out := monomial{surd: max(m.surd, 1)}
	if out.surd > 1 {
		// 1/sqrt(s) = sqrt(s)/s
		coeff = gFrac(1, out.surd)
	}
	for _, f := range m.factors {
		if f.a.kind == atomExp {
			ea, k := expAtom(f.a.arg.Neg())
			coeff = coeff.mul(k)
			if ea != nil {
				out.factors = append(out.factors, factor{a: ea, pow: 1})
			}
			continue
		}
		out.factors = append(out.factors, factor{a: f.a, pow: -f.pow})
	}
	sortFactors(out.factors)
	return out, coeff
}

// surdPair matches x + y*sqrt(s) with Gaussian x and y.
func (v Value) surdPair() (s int64, x, y gauss, ok bool) {
	if len(v.terms) != 2 {
		return 0, gauss{}, gauss{}, false
	}
	a, b := v.terms[0], v.terms[1]
	if !a.m.isUnit() || len(b.m.factors) != 0 || b.m.surd <= 1 {
		return 0, gauss{}, gauss{}, false
	}
	return b.m.surd, a.c, b.c, true
}

// Inverse returns 1/v. Single terms and x + y*sqrt(s) invert in closed
// form; other sums become 1/(sum). Only zero is not invertible.
func (v Value) Inverse() (Value, error) {
	switch {
	case v.IsZero():
		return Value{}, fmt.Errorf("%w: division by zero", ErrNotInvertible)
	case len(v.terms) == 1:
		t := v.terms[0]
		m, k := invMono(t.m)
		return newValue([]term{{c: t.c.inv().mul(k), m: m}}).expandSums(), nil
	}
	if s, x, y, ok := v.surdPair(); ok {
		den := x.mul(x).sub(y.mul(y).mul(gInt(s)))
		if den.isZero() {
			return Value{}, fmt.Errorf("%w: %s", ErrNotInvertible, v)
		}
		d := den.inv()
		return newValue([]term{
			{c: x.mul(d), m: unitMono},
			{c: y.neg().mul(d), m: monomial{surd: s}},
		}), nil
	}
	// Any other sum stays as the reciprocal of an opaque atom, scaled so the
	// sum's first coefficient is 1.
	lead := v.terms[0].c.inv()
	norm := v.Mul(gaussValue(lead))
	a := &atom{kind: atomSum, name: "sum", arg: norm, key: "(" + norm.String() + ")", num: norm.Complex()}
	return Value{terms: []term{{c: lead, m: monomial{surd: 1, factors: []factor{{a: a, pow: -1}}}}}}, nil
}

// expandSums multiplies out sum atoms raised to positive powers.
func (v Value) expandSums() Value {
	found := false
	for _, t := range v.terms {
		for _, f := range t.m.factors {
			found = found || (f.a.kind == atomSum && f.pow > 0)
		}
	}
	if !found {
		return v
	}
	var out Value
	for _, t := range v.terms {
		acc := Value{terms: []term{{c: t.c, m: monomial{surd: t.m.surd}}}}
		for _, f := range t.m.factors {
			if f.a.kind == atomSum && f.pow > 0 {
				for i := 0; i < f.pow; i++ {
					acc = acc.Mul(f.a.arg)
				}
				continue
			}
			acc = acc.Mul(Value{terms: []term{{c: gInt(1), m: monomial{surd: 1, factors: []factor{f}}}}})
		}
		out = out.Add(acc)
	}
	return out
}

func (v Value) Pow(n int) (Value, error) {
	if n < 0 {
		inv, err := v.Inverse()
		if err != nil {
			return Value{}, err
		}
		return inv.Pow(-n)
	}
	out := one()
	base := v
	for n > 0 {
		if n&1 == 1 {
			out = out.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	return out, nil
}

// sqrtGauss returns the principal square root of g in closed form.
func sqrtGauss(g gauss) (Value, error) {
	if g.isZero() {
		return Value{}, nil
	}
	if g.isReal() {
		abs := new(big.Rat).Abs(g.re)
		k, s, ok := sqrtRat(abs)
		if !ok {
			return Value{}, fmt.Errorf("%w: sqrt(%s)", ErrNoClosedForm, g)
		}
		root := surdValue(k, s)
		if g.re.Sign() < 0 {
			root = root.Mul(gaussValue(gImag(big.NewRat(1, 1))))
		}
		return root, nil
	}
	// sqrt(a+bi) = x + yi with x = sqrt((|w|+a)/2), y = b/(2x).
	m, ok := exactSqrtRat(g.norm())
	if !ok {
		return Value{}, fmt.Errorf("%w: sqrt(%s)", ErrNoClosedForm, g)
	}
	half := new(big.Rat).Add(m, g.re)
	half.Quo(half, big.NewRat(2, 1))
	k, s, ok := sqrtRat(half)
	if !ok || k.Sign() == 0 {
		return Value{}, fmt.Errorf("%w: sqrt(%s)", ErrNoClosedForm, g)
	}
	// x = k*sqrt(s); y = b*sqrt(s)/(2*k*s)
	ks := new(big.Rat).Mul(k, new(big.Rat).SetInt64(2*s))
	y := new(big.Rat).Quo(g.im, ks)
	c := gComplex(k, y)
	if s == 1 {
		return gaussValue(c), nil
	}
	return newValue([]term{{c: c, m: monomial{surd: s}}}), nil
}

// root returns the principal value of v^r for a non-integral rational r.
func (v Value) root(r *big.Rat) (Value, error) {
	if v.IsZero() {
		if r.Sign() < 0 {
			return Value{}, fmt.Errorf("%w: 0^%s", ErrNotInvertible, r.RatString())
		}
		return Value{}, nil
	}
	if r.Denom().Cmp(big.NewInt(2)) == 0 && r.Num().IsInt64() {
		w, err := v.Pow(int(r.Num().Int64()))
		if err != nil {
			return Value{}, err
		}
		if g, ok := w.gauss(); ok {
			if s, err := sqrtGauss(g); err == nil {
				return s, nil
			}
		}
		return atomValue(radical(w, big.NewRat(1, 2))), nil
	}
	return atomValue(radical(v, r)), nil
}

func radical(base Value, r *big.Rat) *atom {
	key := "(" + base.String() + ")^(" + r.RatString() + ")"
	if r.Cmp(big.NewRat(1, 2)) == 0 {
		key = "sqrt(" + base.String() + ")"
	}
	f, _ := r.Float64()
	return &atom{
		kind: atomRadical,
		name: "radical",
		arg:  base,
		exp:  new(big.Rat).Set(r),
		key:  key,
		num:  cmplx.Pow(base.Complex(), complex(f, 0)),
	}
}

// ============================================================
// Conversion & printing
// ============================================================

// Complex returns the floating point value of v.
func (v Value) Complex() complex128 {
	var out complex128
	for _, t := range v.terms {
		out += t.c.complex128() * t.m.complex128()
	}
	return out
}

func (v Value) String() string {
	parts := make([]string, 0, len(v.terms))
	for _, t := range v.terms {
		surd := ""
		if t.m.surd > 1 {
			surd = surdString(t.m.surd)
		}
		var num, den []string
		for _, f := range t.m.factors {
			switch {
			case f.pow == 1:
				num = append(num, f.a.key)
			case f.pow > 1:
				num = append(num, fmt.Sprintf("%s^%d", f.a.key, f.pow))
			case f.pow == -1:
				den = append(den, f.a.key)
			default:
				den = append(den, fmt.Sprintf("%s^%d", f.a.key, -f.pow))
			}
		}
		if t.c.re.Sign() != 0 {
			parts = append(parts, formatProduct(t.c.re, false, surd, num, den))
		}
		if t.c.im.Sign() != 0 {
			parts = append(parts, formatProduct(t.c.im, true, surd, num, den))
		}
	}
	return joinTerms(parts)
}

// Expr rebuilds v as an expression tree.
func (v Value) Expr() Expr {
	if v.IsZero() {
		return N(0)
	}
	sum := make([]Expr, 0, len(v.terms))
	for _, t := range v.terms {
		fs := []Expr{numOf(t.c)}
		if t.m.surd > 1 {
			fs = append(fs, SqrtOf(N(t.m.surd)))
		}
		for _, f := range t.m.factors {
			fs = append(fs, PowOf(f.a.expr(), N(int64(f.pow))))
		}
		sum = append(sum, MulOf(fs...))
	}
	return AddOf(sum...)
}

func (a *atom) expr() Expr {
	switch a.kind {
	case atomPi:
		return Pi()
	case atomExp:
		return ExpOf(a.arg.Expr())
	case atomRadical:
		return PowOf(a.arg.Expr(), &Num{val: gRat(a.exp)})
	case atomSum:
		return a.arg.Expr()
	}
	return (&Func{name: a.name, arg: a.arg.Expr()}).Simplify()
}

// MarshalJSON encodes v as its exact string plus the numeric parts.
func (v Value) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"exact": v.String()}
	if c := v.Complex(); !cmplx.IsInf(c) && !cmplx.IsNaN(c) {
		out["re"] = real(c)
		out["im"] = imag(c)
	}
	return json.Marshal(out)
}

// ============================================================
// Exact evaluation
// ============================================================

// Evaluate computes a constant expression exactly.
func Evaluate(e Expr) (Value, error) { return evaluate(e, "", nil) }

// evaluate computes e exactly with variable bound to at (when non-nil).
func evaluate(e Expr, variable string, at *Value) (Value, error) {
	switch v := e.(type) {
	case *Num:
		return gaussValue(v.val), nil
	case *Const:
		if v.name == "pi" {
			return piValue(), nil
		}
	case *Sym:
		if v.name == variable && at != nil {
			return *at, nil
		}
		return Value{}, fmt.Errorf("%w: free symbol %s", ErrUnsupported, v.name)
	case *Add:
		var acc Value
		for _, t := range v.terms {
			x, err := evaluate(t, variable, at)
			if err != nil {
				return Value{}, err
			}
			acc = acc.Add(x)
		}
		return acc, nil
	case *Mul:
		acc := one()
		for _, f := range v.factors {
			x, err := evaluate(f, variable, at)
			if err != nil {
				return Value{}, err
			}
			acc = acc.Mul(x)
		}
		return acc, nil
	case *Pow:
		n, ok := v.exp.(*Num)
		if !ok || !n.IsReal() {
			return Value{}, fmt.Errorf("%w: exponent %s", ErrUnsupported, v.exp)
		}
		b, err := evaluate(v.base, variable, at)
		if err != nil {
			return Value{}, err
		}
		if k, ok := n.int64(); ok {
			if k > 1<<16 || k < -(1<<16) {
				return Value{}, fmt.Errorf("%w: exponent %d too large", ErrUnsupported, k)
			}
			return b.Pow(int(k))
		}
		return b.root(n.val.re)
	case *Func:
		a, err := evaluate(v.arg, variable, at)
		if err != nil {
			return Value{}, err
		}
		if v.name == "exp" {
			return expValue(a), nil
		}
		return funcValue(v.name, a)
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnsupported, e)
}

package goresidue

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Diff(varName string) Expr
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num — exact complex rational number
// ============================================================

type Num struct{ val gauss }

func N(n int64) *Num { return &Num{val: gInt(n)} }
func F(p, q int64) *Num { return &Num{val: gFrac(p, q)} }

// I is the imaginary unit.
func I() *Num { return &Num{val: gImag(big.NewRat(1, 1))} }

func numOf(g gauss) *Num { return &Num{val: g} }

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.equal(o.val) }
func (n *Num) exprType() string      { return "num" }
func (n *Num) IsZero() bool          { return n.val.isZero() }
func (n *Num) IsOne() bool           { return n.val.isOne() }
func (n *Num) IsNegOne() bool        { return n.val.isReal() && n.val.re.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsReal() bool          { return n.val.isReal() }
func (n *Num) IsInteger() bool       { return n.val.isReal() && n.val.re.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.isReal() && n.val.re.Sign() < 0 }
func (n *Num) Complex128() complex128 { return n.val.complex128() }
func (n *Num) String() string        { return n.val.String() }

func (n *Num) int64() (int64, bool) {
	if !n.IsInteger() || !n.val.re.Num().IsInt64() {
		return 0, false
	}
	return n.val.re.Num().Int64(), true
}

func (n *Num) LaTeX() string {
	g := n.val
	switch {
	case g.isReal():
		return ratLaTeX(g.re)
	case g.re.Sign() == 0:
		return imagLaTeX(g.im)
	}
	im := imagLaTeX(g.im)
	if strings.HasPrefix(im, "-") {
		return ratLaTeX(g.re) + " - " + im[1:]
	}
	return ratLaTeX(g.re) + " + " + im
}

func ratLaTeX(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(r)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func imagLaTeX(r *big.Rat) string {
	sign := ""
	abs := new(big.Rat).Abs(r)
	if r.Sign() < 0 {
		sign = "-"
	}
	if abs.Cmp(big.NewRat(1, 1)) == 0 {
		return sign + "i"
	}
	return sign + ratLaTeX(abs) + " i"
}

func (n *Num) toJSON() map[string]interface{} {
	out := map[string]interface{}{"type": "num", "value": n.val.re.RatString()}
	if n.val.im.Sign() != 0 {
		out["imag"] = n.val.im.RatString()
	}
	return out
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) LaTeX() string         { return s.name }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const — named constants
// ============================================================

type Const struct{ name string }

func Pi() *Const                       { return &Const{name: "pi"} }
func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) LaTeX() string         { return "\\" + c.name }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string      { return "const" }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := gInt(0)
	coeffs := map[string]gauss{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAccum.add(v.val)
			continue
		}
		c, rest := splitCoeff(t)
		k := rest.String()
		if _, seen := coeffs[k]; !seen {
			order = append(order, k)
			coeffs[k] = gInt(0)
			rests[k] = rest
		}
		coeffs[k] = coeffs[k].add(c)
	}
	// Highest degree first, then by text.
	sort.SliceStable(order, func(i, j int) bool {
		di, dj := termDegree(rests[order[i]]), termDegree(rests[order[j]])
		if di != dj {
			return di > dj
		}
		return order[i] < order[j]
	})
	result := []Expr{}
	for _, k := range order {
		c := coeffs[k]
		if c.isZero() {
			continue
		}
		if c.isOne() {
			result = append(result, rests[k])
		} else {
			result = append(result, MulOf(numOf(c), rests[k]))
		}
	}
	if !numAccum.isZero() {
		result = append(result, numOf(numAccum))
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

// splitCoeff separates the numeric coefficient of a product.
func splitCoeff(e Expr) (gauss, Expr) {
	m, ok := e.(*Mul)
	if !ok || len(m.factors) < 2 {
		return gInt(1), e
	}
	c, ok := m.factors[0].(*Num)
	if !ok {
		return gInt(1), e
	}
	if len(m.factors) == 2 {
		return c.val, m.factors[1]
	}
	return c.val, &Mul{factors: m.factors[1:]}
}

func termDegree(e Expr) int {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if _, isSym := v.base.(*Sym); isSym {
			if n, ok := v.exp.(*Num); ok {
				if k, ok := n.int64(); ok {
					return int(k)
				}
			}
		}
	case *Mul:
		d := 0
		for _, f := range v.factors {
			d += termDegree(f)
		}
		return d
	}
	return 0
}

func (a *Add) String() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return joinTerms(parts)
}

func (a *Add) LaTeX() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.LaTeX()
	}
	return joinTerms(parts)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return a.terms }

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	// Collect powers of equal bases: x^a * x^b = x^(a+b).
	type group struct{ base, exp Expr }
	coeff := gInt(1)
	groups := map[string]*group{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = coeff.mul(v.val)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		k := base.String()
		if g, seen := groups[k]; seen {
			g.exp = AddOf(g.exp, exp)
			continue
		}
		groups[k] = &group{base: base, exp: exp}
		order = append(order, k)
	}
	if coeff.isZero() {
		return N(0)
	}
	others := []Expr{}
	for _, k := range order {
		g := groups[k]
		switch p := PowOf(g.base, g.exp).(type) {
		case *Num:
			coeff = coeff.mul(p.val)
		case *Mul:
			for _, f := range p.factors {
				if v, ok := f.(*Num); ok {
					coeff = coeff.mul(v.val)
				} else {
					others = append(others, f)
				}
			}
		default:
			others = append(others, p)
		}
	}
	if coeff.isZero() {
		return N(0)
	}
	if len(others) == 0 {
		return numOf(coeff)
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sortedOthers := make([]Expr, len(ks))
	for i := range ks {
		sortedOthers[i] = ks[i].e
	}
	others = sortedOthers

	if coeff.isOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{numOf(coeff)}, others...)}
}

func (m *Mul) String() string {
	coeff := gInt(1)
	var num, den []string
	for _, f := range m.factors {
		switch v := f.(type) {
		case *Num:
			coeff = coeff.mul(v.val)
			continue
		case *Pow:
			if n, ok := v.exp.(*Num); ok && n.IsNegative() {
				den = append(den, powBody(v.base, numOf(n.val.neg())))
				continue
			}
		}
		num = append(num, wrapFactor(f))
	}
	switch {
	case coeff.isReal():
		return formatProduct(coeff.re, false, "", num, den)
	case coeff.re.Sign() == 0:
		return formatProduct(coeff.im, true, "", num, den)
	}
	num = append([]string{"(" + coeff.String() + ")"}, num...)
	return formatProduct(big.NewRat(1, 1), false, "", num, den)
}

func (m *Mul) LaTeX() string {
	var coeff *Num
	var num, den []string
	for _, f := range m.factors {
		switch v := f.(type) {
		case *Num:
			coeff = v
			continue
		case *Pow:
			if n, ok := v.exp.(*Num); ok && n.IsNegative() {
				den = append(den, powLaTeX(v.base, numOf(n.val.neg())))
				continue
			}
		}
		if _, isAdd := f.(*Add); isAdd {
			num = append(num, "\\left("+f.LaTeX()+"\\right)")
		} else {
			num = append(num, f.LaTeX())
		}
	}
	sign := ""
	if coeff != nil && !coeff.IsOne() {
		c := coeff
		if c.IsNegative() {
			sign = "-"
			c = numOf(c.val.neg())
		}
		switch {
		case c.IsOne():
		case c.IsReal() || c.val.re.Sign() == 0:
			num = append([]string{c.LaTeX()}, num...)
		default:
			num = append([]string{"\\left(" + c.LaTeX() + "\\right)"}, num...)
		}
	}
	top := strings.Join(num, " ")
	if len(den) == 0 {
		return sign + top
	}
	if top == "" {
		top = "1"
	}
	return sign + "\\frac{" + top + "}{" + strings.Join(den, " ") + "}"
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		if len(others) == 0 {
			terms[i] = dfi
		} else {
			terms[i] = MulOf(append([]Expr{dfi}, others...)...)
		}
	}
	return AddOf(terms...)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return m.factors }

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()
	en, expIsNum := exp.(*Num)

	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}
	if bn, ok := base.(*Num); ok {
		if bn.IsZero() {
			// 0^negative is division by zero and stays unevaluated.
			if expIsNum && en.IsReal() && !en.IsNegative() {
				return N(0)
			}
			return &Pow{base: base, exp: exp}
		}
		if bn.IsOne() {
			return N(1)
		}
		if expIsNum {
			if k, ok := en.int64(); ok && k >= -64 && k <= 64 {
				return numOf(bn.val.pow(int(k)))
			}
		}
	}
	if expIsNum && en.IsInteger() {
		// (b^e)^k = b^(e*k) holds for integral k only.
		if inner, ok := base.(*Pow); ok {
			return PowOf(inner.base, MulOf(inner.exp, exp))
		}
		if f, ok := base.(*Func); ok && f.name == "exp" {
			return ExpOf(MulOf(exp, f.arg))
		}
		if m, ok := base.(*Mul); ok {
			fs := make([]Expr, len(m.factors))
			for i, f := range m.factors {
				fs[i] = PowOf(f, exp)
			}
			return MulOf(fs...)
		}
	}
	return &Pow{base: base, exp: exp}
}

func wrapFactor(e Expr) string {
	switch e.(type) {
	case *Add, *Mul:
		return "(" + e.String() + ")"
	}
	return e.String()
}

func wrapBase(e Expr) string {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return "(" + e.String() + ")"
	case *Num:
		if !v.IsInteger() || v.IsNegative() {
			return "(" + e.String() + ")"
		}
	}
	return e.String()
}

// powBody prints base^exp for a non-negative exponent.
func powBody(base, exp Expr) string {
	if n, ok := exp.(*Num); ok {
		if n.IsOne() {
			return wrapFactor(base)
		}
		if n.Equal(F(1, 2)) {
			return "sqrt(" + base.String() + ")"
		}
	}
	expStr := exp.String()
	_, expIsSym := exp.(*Sym)
	if n, ok := exp.(*Num); !expIsSym && !(ok && n.IsInteger()) {
		expStr = "(" + expStr + ")"
	}
	return wrapBase(base) + "^" + expStr
}

func (p *Pow) String() string {
	if n, ok := p.exp.(*Num); ok && n.IsNegative() {
		return "1/" + powBody(p.base, numOf(n.val.neg()))
	}
	return powBody(p.base, p.exp)
}

func powLaTeX(base, exp Expr) string {
	if n, ok := exp.(*Num); ok {
		if n.IsOne() {
			return base.LaTeX()
		}
		if n.Equal(F(1, 2)) {
			return "\\sqrt{" + base.LaTeX() + "}"
		}
	}
	baseStr := base.LaTeX()
	switch base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + exp.LaTeX() + "}"
}

func (p *Pow) LaTeX() string {
	if n, ok := p.exp.(*Num); ok && n.IsNegative() {
		return "\\frac{1}{" + powLaTeX(p.base, numOf(n.val.neg())) + "}"
	}
	return powLaTeX(p.base, p.exp)
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if !hasSymbol(p.base, varName) {
		return MulOf(PowOf(p.base, p.exp), lnOf(p.base), dv)
	}
	logTerm := MulOf(dv, lnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Func — named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

// knownFuncs lists the functions the tree can carry. ln only appears in
// derivatives of symbolic exponents.
var knownFuncs = map[string]bool{"exp": true, "sin": true, "cos": true, "ln": true}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func lnOf(arg Expr) Expr   { return funcOf("ln", arg).Simplify() }

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	switch f.name {
	case "sin":
		if isNumEqual(arg, 0) {
			return N(0)
		}
	case "cos":
		if isNumEqual(arg, 0) {
			return N(1)
		}
	case "exp":
		if isNumEqual(arg, 0) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "ln":
		if isNumEqual(arg, 1) {
			return N(0)
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	default:
		panic("goresidue: no derivative for " + f.name)
	}
	return MulOf(outer, du)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(N(v))
}

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

func DiffN(expr Expr, varName string, n int) Expr {
	result := expr
	for i := 0; i < n; i++ {
		result = Diff(result, varName)
	}
	return result
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

func hasSymbol(e Expr, name string) bool {
	_, ok := FreeSymbols(e)[name]
	return ok
}

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subObj := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}

	subObjArray := func(field string) ([]Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			e, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	subRat := func(field string, required bool) (*big.Rat, error) {
		if _, ok := data[field]; !ok && !required {
			return new(big.Rat), nil
		}
		s, err := subString(field)
		if err != nil {
			return nil, err
		}
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, fmt.Errorf("invalid num %s: %s", field, s)
		}
		return r, nil
	}

	switch typ {
	case "num":
		re, err := subRat("value", true)
		if err != nil {
			return nil, err
		}
		im, err := subRat("imag", false)
		if err != nil {
			return nil, err
		}
		return numOf(gComplex(re, im)), nil

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "const":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		if name != "pi" {
			return nil, fmt.Errorf("unknown constant: %s", name)
		}
		return Pi(), nil

	case "add":
		terms, err := subObjArray("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subObjArray("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		base, err := subObj("base")
		if err != nil {
			return nil, err
		}
		exp, err := subObj("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		if !knownFuncs[name] {
			return nil, fmt.Errorf("unknown function: %s", name)
		}
		arg, err := subObj("arg")
		if err != nil {
			return nil, err
		}
		return funcOf(name, arg).Simplify(), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

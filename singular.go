package goresidue

import (
	"fmt"
)

// ============================================================
// Rational decomposition f = A/D
// ============================================================

// rational is f written as num/den, where num is analytic in the variable
// (polynomials, exp/sin/cos of polynomials) and den is a polynomial. factors
// lists the polynomials den was multiplied together from.
type rational struct {
	num     Expr
	den     poly
	factors []poly
}

func (r rational) add(o rational, variable string) rational {
	if r.den.equal(o.den) {
		return rational{num: AddOf(r.num, o.num), den: r.den, factors: r.factors}
	}
	return rational{
		num:     AddOf(MulOf(r.num, o.den.toExpr(variable)), MulOf(o.num, r.den.toExpr(variable))),
		den:     r.den.mul(o.den),
		factors: append(append([]poly(nil), r.factors...), o.factors...),
	}
}

func (r rational) mul(o rational) rational {
	return rational{
		num:     MulOf(r.num, o.num),
		den:     r.den.mul(o.den),
		factors: append(append([]poly(nil), r.factors...), o.factors...),
	}
}

// roots returns the distinct zeros of the denominator.
func (r rational) roots() ([]root, error) {
	if r.den.isGauss() {
		return polyRoots(r.den)
	}
	return factoredRoots(r.den, r.factors)
}

// polyFactors splits a product into polynomial factors, dropping constants.
func polyFactors(e Expr, variable string) ([]poly, error) {
	if !hasSymbol(e, variable) {
		return nil, nil
	}
	switch v := e.(type) {
	case *Mul:
		var out []poly
		for _, f := range v.factors {
			ps, err := polyFactors(f, variable)
			if err != nil {
				return nil, err
			}
			out = append(out, ps...)
		}
		return out, nil
	case *Pow:
		if n, ok := v.exp.(*Num); ok {
			if k, ok := n.int64(); ok && k > 0 {
				return polyFactors(v.base, variable)
			}
		}
	}
	p, err := toPoly(e, variable)
	if err != nil {
		return nil, err
	}
	return []poly{p}, nil
}

// together brings e over a single polynomial denominator.
func together(e Expr, variable string) (rational, error) {
	if !hasSymbol(e, variable) {
		return rational{num: e, den: polyOne()}, nil
	}
	switch v := e.(type) {
	case *Sym:
		return rational{num: v, den: polyOne()}, nil

	case *Add:
		acc := rational{num: N(0), den: polyOne()}
		for _, t := range v.terms {
			r, err := together(t, variable)
			if err != nil {
				return rational{}, err
			}
			acc = acc.add(r, variable)
		}
		return acc, nil

	case *Mul:
		acc := rational{num: N(1), den: polyOne()}
		for _, f := range v.factors {
			r, err := together(f, variable)
			if err != nil {
				return rational{}, err
			}
			acc = acc.mul(r)
		}
		return acc, nil

	case *Pow:
		n, ok := v.exp.(*Num)
		k, isInt := int64(0), false
		if ok {
			k, isInt = n.int64()
		}
		if !isInt {
			return rational{}, fmt.Errorf("%w: %s has a branch point", ErrUnsupported, v)
		}
		base, err := together(v.base, variable)
		if err != nil {
			return rational{}, err
		}
		if k >= 0 {
			den, err := base.den.pow(int(k))
			if err != nil {
				return rational{}, err
			}
			return rational{num: PowOf(base.num, N(k)), den: den, factors: base.factors}, nil
		}
		p, err := toPoly(base.num, variable)
		if err != nil {
			return rational{}, fmt.Errorf("%w: cannot divide by %s", ErrUnsupported, base.num)
		}
		den, err := p.pow(int(-k))
		if err != nil {
			return rational{}, err
		}
		fs, err := polyFactors(base.num, variable)
		if err != nil {
			return rational{}, err
		}
		return rational{num: PowOf(base.den.toExpr(variable), N(-k)), den: den, factors: fs}, nil

	case *Func:
		if v.name == "ln" {
			return rational{}, fmt.Errorf("%w: %s has a branch point", ErrUnsupported, v)
		}
		arg, err := together(v.arg, variable)
		if err != nil {
			return rational{}, err
		}
		if arg.den.deg() > 0 {
			return rational{}, fmt.Errorf("%w: essential singularity in %s", ErrUnsupported, v)
		}
		return rational{num: v, den: polyOne()}, nil
	}
	return rational{}, fmt.Errorf("%w: %s", ErrUnsupported, e)
}

// ============================================================
// Singularity Finder
// ============================================================

// Singularities returns the isolated singular points of e in variable.
// Forms the engine cannot decompose yield no points.
func Singularities(e Expr, variable string) []Value {
	pts, _ := FindSingularities(e, variable)
	return pts
}

// FindSingularities is Singularities with the reason for an empty answer.
func FindSingularities(e Expr, variable string) (pts []Value, err error) {
	defer recoverEngine(&err)
	r, err := together(e, variable)
	if err != nil {
		return nil, err
	}
	roots, err := r.roots()
	if err != nil {
		return nil, err
	}
	pts = make([]Value, len(roots))
	for i, rt := range roots {
		pts[i] = rt.val
	}
	return pts, nil
}

// recoverEngine turns an arithmetic panic into ErrSingularityComputation.
func recoverEngine(err *error) {
	if rec := recover(); rec != nil {
		*err = fmt.Errorf("%w: %v", ErrSingularityComputation, rec)
	}
}

package goresidue

import (
	"math/big"
	"strings"
)

// ============================================================
// gauss — exact complex rational re + im*I
// ============================================================

type gauss struct{ re, im *big.Rat }

func gInt(n int64) gauss { return gauss{re: new(big.Rat).SetInt64(n), im: new(big.Rat)} }
func gFrac(p, q int64) gauss {
	if q == 0 {
		panic("goresidue: denominator is zero")
	}
	return gauss{re: big.NewRat(p, q), im: new(big.Rat)}
}
func gRat(r *big.Rat) gauss         { return gauss{re: new(big.Rat).Set(r), im: new(big.Rat)} }
func gImag(r *big.Rat) gauss        { return gauss{re: new(big.Rat), im: new(big.Rat).Set(r)} }
func gComplex(re, im *big.Rat) gauss { return gauss{re: new(big.Rat).Set(re), im: new(big.Rat).Set(im)} }

func (g gauss) isZero() bool { return g.re.Sign() == 0 && g.im.Sign() == 0 }
func (g gauss) isReal() bool { return g.im.Sign() == 0 }
func (g gauss) isImag() bool { return g.re.Sign() == 0 && g.im.Sign() != 0 }
func (g gauss) isOne() bool  { return g.im.Sign() == 0 && g.re.Cmp(big.NewRat(1, 1)) == 0 }
func (g gauss) equal(o gauss) bool {
	return g.re.Cmp(o.re) == 0 && g.im.Cmp(o.im) == 0
}

func (g gauss) add(o gauss) gauss {
	return gauss{re: new(big.Rat).Add(g.re, o.re), im: new(big.Rat).Add(g.im, o.im)}
}
func (g gauss) sub(o gauss) gauss {
	return gauss{re: new(big.Rat).Sub(g.re, o.re), im: new(big.Rat).Sub(g.im, o.im)}
}
func (g gauss) neg() gauss {
	return gauss{re: new(big.Rat).Neg(g.re), im: new(big.Rat).Neg(g.im)}
}
func (g gauss) conj() gauss {
	return gauss{re: new(big.Rat).Set(g.re), im: new(big.Rat).Neg(g.im)}
}
func (g gauss) scale(r *big.Rat) gauss {
	return gauss{re: new(big.Rat).Mul(g.re, r), im: new(big.Rat).Mul(g.im, r)}
}

func (g gauss) mul(o gauss) gauss {
	ac := new(big.Rat).Mul(g.re, o.re)
	bd := new(big.Rat).Mul(g.im, o.im)
	ad := new(big.Rat).Mul(g.re, o.im)
	bc := new(big.Rat).Mul(g.im, o.re)
	return gauss{re: ac.Sub(ac, bd), im: ad.Add(ad, bc)}
}

// norm returns re² + im².
func (g gauss) norm() *big.Rat {
	n := new(big.Rat).Mul(g.re, g.re)
	return n.Add(n, new(big.Rat).Mul(g.im, g.im))
}

func (g gauss) inv() gauss {
	if g.isZero() {
		panic("goresidue: division by zero")
	}
	d := new(big.Rat).Inv(g.norm())
	return g.conj().scale(d)
}

func (g gauss) pow(n int) gauss {
	if n < 0 {
		return g.inv().pow(-n)
	}
	result := gInt(1)
	base := g
	for n > 0 {
		if n&1 == 1 {
			result = result.mul(base)
		}
		base = base.mul(base)
		n >>= 1
	}
	return result
}

func (g gauss) complex128() complex128 {
	re, _ := g.re.Float64()
	im, _ := g.im.Float64()
	return complex(re, im)
}

func (g gauss) String() string {
	var parts []string
	if g.re.Sign() != 0 {
		parts = append(parts, formatProduct(g.re, false, "", nil, nil))
	}
	if g.im.Sign() != 0 {
		parts = append(parts, formatProduct(g.im, true, "", nil, nil))
	}
	return joinTerms(parts)
}

// iPow returns I^n.
func iPow(n int64) gauss {
	switch ((n % 4) + 4) % 4 {
	case 1:
		return gImag(big.NewRat(1, 1))
	case 2:
		return gInt(-1)
	case 3:
		return gImag(big.NewRat(-1, 1))
	}
	return gInt(1)
}

// ============================================================
// Printing helpers shared by Num and Value
// ============================================================

// formatProduct prints r·[surd]·[I]·num / den in the form sympy users expect:
// "exp(2)/2", "-I/4", "sqrt(2)*I", "3*pi".
func formatProduct(r *big.Rat, imag bool, surd string, num, den []string) string {
	sign := ""
	if r.Sign() < 0 {
		sign = "-"
	}
	p := new(big.Int).Abs(r.Num())
	var numParts []string
	if !(p.IsInt64() && p.Int64() == 1) {
		numParts = append(numParts, p.String())
	}
	if surd != "" {
		numParts = append(numParts, surd)
	}
	if imag {
		numParts = append(numParts, "I")
	}
	numParts = append(numParts, num...)

	var denParts []string
	if !r.IsInt() {
		denParts = append(denParts, r.Denom().String())
	}
	denParts = append(denParts, den...)

	s := "1"
	if len(numParts) > 0 {
		s = strings.Join(numParts, "*")
	}
	switch len(denParts) {
	case 0:
	case 1:
		s += "/" + denParts[0]
	default:
		s += "/(" + strings.Join(denParts, "*") + ")"
	}
	return sign + s
}

// joinTerms joins signed summands, folding "+ -x" into "- x".
func joinTerms(parts []string) string {
	if len(parts) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, p := range parts {
		switch {
		case i == 0:
			sb.WriteString(p)
		case strings.HasPrefix(p, "-"):
			sb.WriteString(" - ")
			sb.WriteString(p[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(p)
		}
	}
	return sb.String()
}

// ============================================================
// Exact square roots
// ============================================================

// trialLimit bounds the trial division used to pull square factors out of
// integers; cofactors beyond it are kept whole.
const trialLimit = 1 << 20

// squarePart writes n = a²·s with s square-free (up to trialLimit).
func squarePart(n *big.Int) (a, s *big.Int) {
	a, s = big.NewInt(1), big.NewInt(1)
	rem := new(big.Int).Set(n)
	d := big.NewInt(2)
	mod := new(big.Int)
	for i := int64(2); i <= trialLimit; i++ {
		d.SetInt64(i)
		if new(big.Int).Mul(d, d).Cmp(rem) > 0 {
			break
		}
		e := 0
		for {
			q, m := new(big.Int).QuoRem(rem, d, mod)
			if m.Sign() != 0 {
				break
			}
			rem = q
			e++
		}
		for k := 0; k < e/2; k++ {
			a.Mul(a, d)
		}
		if e%2 == 1 {
			s.Mul(s, d)
		}
	}
	if r := new(big.Int).Sqrt(rem); new(big.Int).Mul(r, r).Cmp(rem) == 0 {
		a.Mul(a, r)
	} else {
		s.Mul(s, rem)
	}
	return a, s
}

// sqrtRat writes sqrt(r) = k·sqrt(s) for r ≥ 0, with s square-free.
func sqrtRat(r *big.Rat) (k *big.Rat, s int64, ok bool) {
	if r.Sign() < 0 {
		return nil, 0, false
	}
	if r.Sign() == 0 {
		return new(big.Rat), 1, true
	}
	// sqrt(p/q) = sqrt(p·q)/q
	n := new(big.Int).Mul(r.Num(), r.Denom())
	a, sq := squarePart(n)
	if !sq.IsInt64() {
		return nil, 0, false
	}
	k = new(big.Rat).SetFrac(a, r.Denom())
	return k, sq.Int64(), true
}

// exactSqrtRat returns sqrt(r) when it is rational.
func exactSqrtRat(r *big.Rat) (*big.Rat, bool) {
	k, s, ok := sqrtRat(r)
	if !ok || s != 1 {
		return nil, false
	}
	return k, true
}

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

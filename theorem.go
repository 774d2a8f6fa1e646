package goresidue

// ApplyTheorem sums the residues of the enclosed poles, taken from the
// mapping by exact key, and returns the sum with the contour integral
// 2*pi*I*sum. With nothing enclosed both are exactly 0.
func ApplyTheorem(poles, enclosed PoleMap) (sum, integral Value) {
	if len(enclosed) == 0 {
		return Value{}, Value{}
	}
	for _, e := range enclosed {
		if p, ok := poles.Lookup(e.Point.Key()); ok {
			sum = sum.Add(p.Residue)
		}
	}
	return sum, sum.Mul(twoPiI())
}

// Package goresidue computes contour integrals of complex functions with the
// residue theorem.
//
// A function is given as text in Python expression syntax over one complex
// variable (z by default) with I, pi, exp, sin, cos and sqrt:
//
//	_, res, err := goresidue.Analyze(goresidue.Request{
//		Function: "exp(z) / (z - 2)**3",
//		Contour:  "circle",
//		Center:   "0+0j",
//		Radius:   "3.0",
//	})
//	// res.Poles[0].Residue  -> exp(2)/2
//	// res.Integral          -> I*pi*exp(2)
//
// Arithmetic is exact. Points and residues are Values: canonical sums of
// Gaussian-rational multiples of square roots, pi and exponentials, so that
// two equal numbers always print the same text. The text is the key used to
// match poles.
//
// The pipeline is
//
//	Parse → PolesAndResidues → Classify → ApplyTheorem → Report
//
// Singularities are the zeros of the polynomial denominator once the function
// is brought over a common denominator. Forms outside that class (branch
// points, 1/sin(z), exp(1/z)) produce no poles; the reason is kept in
// Result.Err and logged.
//
// Design goals:
//   - Deterministic output: same input, same report
//   - No package state; analyses may run concurrently
//   - JSON, LaTeX and MCP-style tool calls for agent backends
package goresidue

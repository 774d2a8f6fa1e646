package goresidue

import (
	"errors"
	"fmt"
	"strings"
)

const (
	parseErrorReport   = "### Error\nThe function you entered is not valid. Check the syntax."
	contourErrorReport = "### Error\nThe contour parameters are not valid. Check the numbers you entered."
)

// Report renders an analysis as Markdown. It only prints values already
// held by r.
func Report(r *Result) string {
	v := r.Variable
	if v == "" {
		v = DefaultVariable
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "### Analysis of `f(%s) = %s`\n", v, r.Function)
	if len(r.Poles) == 0 {
		sb.WriteString("**No poles were found for the given function.**")
	} else {
		sb.WriteString("**Poles and residues found:**\n")
		for _, p := range r.Poles {
			fmt.Fprintf(&sb, "* **Pole at %s = `%s`** (order %d) → Residue = `%s`\n", v, p.Point, p.Order, p.Residue)
		}
	}

	sb.WriteString("\n### Residue theorem\n")
	if len(r.Enclosed) == 0 {
		sb.WriteString("**No pole lies inside the contour.**\n")
	} else {
		sb.WriteString("**Poles enclosed by the contour:**\n")
		for _, p := range r.Enclosed {
			fmt.Fprintf(&sb, "* `%s`\n", p.Point)
		}
	}
	fmt.Fprintf(&sb, "\n**Sum of enclosed residues:** `%s`\n", r.ResidueSum)
	fmt.Fprintf(&sb, "#### Integral ∮f(%s)d%s = `%s`", v, v, r.Integral)
	return sb.String()
}

// ErrorReport renders the user-facing message for a rejected input.
func ErrorReport(err error) string {
	switch {
	case errors.Is(err, ErrParse):
		return parseErrorReport
	case errors.Is(err, ErrContourParameter):
		return contourErrorReport
	}
	return "### Error\n" + err.Error()
}

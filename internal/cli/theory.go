package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const theoryText = `Residue theorem

For f analytic inside and on a simple closed contour C except at the
isolated singularities z_1, ..., z_n inside C,

    ∮_C f(z) dz = 2πi Σ Res(f, z_k)

Simple pole at z_0:

    Res(f, z_0) = lim_{z→z_0} (z - z_0) f(z)

Pole of order m at z_0:

    Res(f, z_0) = 1/(m-1)! lim_{z→z_0} d^{m-1}/dz^{m-1} [(z - z_0)^m f(z)]

Poles on the contour itself are not enclosed.`

var theoryLaTeX = []string{
	`\oint_C f(z)\,dz = 2\pi i \sum_{k=1}^{n} \mathrm{Res}(f, z_k)`,
	`\mathrm{Res}(f, z_0) = \lim_{z \to z_0} (z - z_0) f(z)`,
	`\mathrm{Res}(f, z_0) = \frac{1}{(m-1)!} \lim_{z \to z_0} \frac{d^{m-1}}{dz^{m-1}} \left[ (z - z_0)^m f(z) \right]`,
}

func theoryCmd() *cobra.Command {
	var latex bool
	c := &cobra.Command{
		Use:   "theory",
		Short: "Print the residue theorem and the residue formulas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if latex {
				for _, f := range theoryLaTeX {
					fmt.Fprintf(w, "$$%s$$\n", f)
				}
				return nil
			}
			fmt.Fprintln(w, theoryText)
			return nil
		},
	}
	c.Flags().BoolVar(&latex, "latex", false, "print the formulas as LaTeX")
	return c
}

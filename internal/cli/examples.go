package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	goresidue "github.com/njchilds90/goresidue"
	"github.com/njchilds90/goresidue/internal/catalog"
)

func examplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List the built-in examples usable with 'analyze --example N'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for i, ex := range catalog.All() {
				fmt.Fprintf(w, "%s %s\n", headingStyle.Render(fmt.Sprintf("%d.", i+1)), ex.Name)
				fmt.Fprintf(w, "   f(z) = %s\n", ex.Function)
				fmt.Fprintf(w, "   %s\n", dimStyle.Render(exampleContour(ex.Request)))
				if ex.Note != "" {
					fmt.Fprintf(w, "   %s\n", ex.Note)
				}
			}
			return nil
		},
	}
}

func exampleContour(r goresidue.Request) string {
	kind, err := goresidue.ParseContourKind(r.Contour)
	if err != nil {
		return r.Contour
	}
	if kind == goresidue.KindRectangle {
		return fmt.Sprintf("rectangle from %s to %s", r.LowerLeft, r.UpperRight)
	}
	return fmt.Sprintf("circle, center %s, radius %s", r.Center, r.Radius)
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	goresidue "github.com/njchilds90/goresidue"
	"github.com/njchilds90/goresidue/internal/catalog"
	"github.com/njchilds90/goresidue/internal/config"
	"github.com/njchilds90/goresidue/internal/plane"
)

var errNoFunction = errors.New("a function is required (pass it as an argument or use --example)")

type analyzeFlags struct {
	contour    string
	center     string
	radius     string
	lowerLeft  string
	upperRight string
	variable   string
	format     string
	example    int
	plot       bool
}

func analyzeCmd(a *app) *cobra.Command {
	var f analyzeFlags

	c := &cobra.Command{
		Use:   "analyze [function]",
		Short: "Find poles and residues and evaluate the contour integral",
		Example: `  residue analyze "exp(z)/(z-2)**3" --radius 3
  residue analyze "1/sin(z)" --contour rectangle --lower-left -4-1j --upper-right 4+1j
  residue analyze --example 2 --plot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, variable, format, err := f.resolve(cmd, a.cfg, args)
			if err != nil {
				return err
			}

			an := &goresidue.Analyzer{Variable: variable, Logger: a.log}
			report, res, aerr := an.Analyze(cmd.Context(), req)

			out := cmd.OutOrStdout()
			if err := printAnalysis(out, format, report, res, aerr); err != nil {
				return err
			}
			if f.plot && res != nil && format != config.FormatJSON {
				fmt.Fprintln(out, plane.Render(res, plane.Options{}))
			}
			return aerr
		},
	}

	c.Flags().StringVar(&f.contour, "contour", "", "contour kind: circle|rectangle")
	c.Flags().StringVar(&f.center, "center", "", "circle center, e.g. 0+0j")
	c.Flags().StringVar(&f.radius, "radius", "", "circle radius")
	c.Flags().StringVar(&f.lowerLeft, "lower-left", "", "rectangle lower-left corner")
	c.Flags().StringVar(&f.upperRight, "upper-right", "", "rectangle upper-right corner")
	c.Flags().StringVar(&f.variable, "var", "", "name of the complex variable")
	c.Flags().StringVar(&f.format, "format", "", "output format: markdown|pretty|json")
	c.Flags().IntVar(&f.example, "example", 0, "start from a built-in example (see 'residue examples')")
	c.Flags().BoolVar(&f.plot, "plot", false, "draw the contour and poles")
	return c
}

// resolve layers config defaults, then the chosen example, then the
// positional function and any flags set explicitly.
func (f analyzeFlags) resolve(cmd *cobra.Command, cfg config.Config, args []string) (goresidue.Request, string, string, error) {
	req := cfg.Request("")
	if f.example != 0 {
		ex, err := catalog.Get(f.example)
		if err != nil {
			return req, "", "", err
		}
		req = ex.Request
	}
	if len(args) == 1 {
		req.Function = args[0]
	}
	if strings.TrimSpace(req.Function) == "" {
		return req, "", "", errNoFunction
	}

	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("contour", &req.Contour, f.contour)
	set("center", &req.Center, f.center)
	set("radius", &req.Radius, f.radius)
	set("lower-left", &req.LowerLeft, f.lowerLeft)
	set("upper-right", &req.UpperRight, f.upperRight)

	variable, format := cfg.Variable, cfg.Format
	set("var", &variable, f.variable)
	set("format", &format, f.format)
	switch format {
	case config.FormatMarkdown, config.FormatPretty, config.FormatJSON:
	default:
		return req, "", "", fmt.Errorf("unsupported format %q (expected markdown|pretty|json)", format)
	}
	return req, variable, format, nil
}

func printAnalysis(w io.Writer, format, report string, res *goresidue.Result, aerr error) error {
	switch format {
	case config.FormatJSON:
		payload := map[string]any{
			"report": report,
			"result": res,
		}
		if aerr != nil {
			payload["error"] = aerr.Error()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case config.FormatPretty:
		printPretty(w, report, res)
		return nil
	default:
		_, err := fmt.Fprintln(w, report)
		return err
	}
}

func printPretty(w io.Writer, report string, res *goresidue.Result) {
	if res == nil {
		fmt.Fprintln(w, errorStyle.Render(strings.TrimPrefix(report, "### ")))
		return
	}
	v := res.Variable

	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Analysis of f(%s) = %s", v, res.Function)))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("expression"), res.Expression)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("contour   "), describeContour(res.Contour))
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("Poles"))
	if len(res.Poles) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  none"))
	}
	for _, p := range res.Poles {
		mark := dimStyle.Render("outside")
		if _, in := res.Enclosed.Lookup(p.Point.String()); in {
			mark = enclosedStyle.Render("enclosed")
		}
		fmt.Fprintf(w, "  %s = %s  order %d  residue %s  %s\n",
			v, valueStyle.Render(p.Point.String()), p.Order, valueStyle.Render(p.Residue.String()), mark)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Sum of enclosed residues"), valueStyle.Render(res.ResidueSum.String()))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("Integral ∮f(%s)d%s       ", v, v)), valueStyle.Render(res.Integral.String()))
}

func describeContour(c goresidue.Contour) string {
	switch c := c.(type) {
	case goresidue.Circle:
		return fmt.Sprintf("circle, center %v, radius %g", c.Center, c.Radius)
	case goresidue.Rectangle:
		return fmt.Sprintf("rectangle, corners %v and %v", c.LowerLeft, c.UpperRight)
	}
	return "none"
}

package goresidue

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Request carries the six text inputs of an analysis.
type Request struct {
	Function   string `json:"function" yaml:"function"`
	Contour    string `json:"contour" yaml:"contour"`
	Center     string `json:"center" yaml:"center"`
	Radius     string `json:"radius" yaml:"radius"`
	LowerLeft  string `json:"lower_left" yaml:"lower_left"`
	UpperRight string `json:"upper_right" yaml:"upper_right"`
}

// Result is the neutral record of one analysis, consumed by the report, the
// plane renderer and JSON output.
type Result struct {
	Function   string  `json:"function"`
	Variable   string  `json:"variable"`
	Expr       Expr    `json:"-"`
	Expression string  `json:"expression"`
	LaTeX      string  `json:"latex"`
	Poles      PoleMap `json:"poles"`
	Enclosed   PoleMap `json:"enclosed"`
	ResidueSum Value   `json:"residue_sum"`
	Integral   Value   `json:"integral"`
	Contour    Contour `json:"contour"`

	// Err is an absorbed singularity failure; it is logged, never rendered.
	Err error `json:"-"`
}

// Analyzer runs analyses. The zero value uses the variable z and discards
// logs; it holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	Variable string
	Logger   *slog.Logger
}

func (a *Analyzer) variable() string {
	if a == nil || a.Variable == "" {
		return DefaultVariable
	}
	return a.Variable
}

func (a *Analyzer) logger() *slog.Logger {
	if a == nil || a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// Analyze validates the contour, parses the function, finds poles and
// residues, classifies them and applies the residue theorem. It returns the
// Markdown report and the result. Invalid input yields the error report, a
// nil result and an error matching ErrContourParameter or ErrParse.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (string, *Result, error) {
	v := a.variable()
	log := a.logger().With("request_id", uuid.NewString())
	log.Info("analysis.start", "function", req.Function, "contour", req.Contour)

	c, err := ParseContour(req.Contour, req.Center, req.Radius, req.LowerLeft, req.UpperRight)
	if err != nil {
		log.Info("analysis.rejected", "reason", "contour", "error", err)
		return ErrorReport(err), nil, err
	}
	e, err := ParseContext(ctx, req.Function, v)
	if err != nil {
		log.Info("analysis.rejected", "reason", "function", "error", err)
		return ErrorReport(err), nil, err
	}

	poles, perr := PolesAndResidues(e, v)
	if perr != nil {
		log.Warn("analysis.degraded", "error", perr)
		poles = PoleMap{}
	}
	if poles == nil {
		poles = PoleMap{}
	}
	enclosed := Classify(c, poles)
	sum, integral := ApplyTheorem(poles, enclosed)

	res := &Result{
		Function:   req.Function,
		Variable:   v,
		Expr:       e,
		Expression: e.String(),
		LaTeX:      e.LaTeX(),
		Poles:      poles,
		Enclosed:   enclosed,
		ResidueSum: sum,
		Integral:   integral,
		Contour:    c,
		Err:        perr,
	}
	log.Info("analysis.done",
		"poles", len(poles),
		"enclosed", len(enclosed),
		"integral", integral.String(),
	)
	return Report(res), res, nil
}

// Analyze runs an analysis with the default Analyzer.
func Analyze(req Request) (string, *Result, error) {
	return (&Analyzer{}).Analyze(context.Background(), req)
}

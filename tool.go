package goresidue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Defaults for contour parameters omitted from a tool call.
const (
	defaultContour    = "circle"
	defaultCenter     = "0+0j"
	defaultRadius     = "3.0"
	defaultLowerLeft  = "-1-1j"
	defaultUpperRight = "1+1j"
)

func HandleToolCall(req ToolRequest) ToolResponse {
	return (&Analyzer{}).HandleToolCall(context.Background(), req)
}

// HandleToolCall dispatches one tool call using the analyzer's variable and
// logger.
func (a *Analyzer) HandleToolCall(ctx context.Context, req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getOptional := func(key, def string) (string, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getString(key)
	}
	getStrings := func(key string) ([]string, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be array", key)
		}
		result := make([]string, len(raw))
		for i, r := range raw {
			s, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("param %s[%d] must be string", key, i)
			}
			result[i] = s
		}
		return result, nil
	}
	variable, err := getOptional("var", a.variable())
	if err != nil {
		return ToolResponse{Error: err.Error()}
	}
	// getExpr reads either function text or a JSON expression tree.
	getExpr := func() (Expr, error) {
		if raw, ok := req.Params["expr"]; ok {
			m, ok := raw.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("invalid type for param expr")
			}
			return FromJSON(m)
		}
		text, err := getString("function")
		if err != nil {
			return nil, err
		}
		return ParseContext(ctx, text, variable)
	}
	getContour := func() (Contour, error) {
		fields := []struct{ key, def string }{
			{"contour", defaultContour},
			{"center", defaultCenter},
			{"radius", defaultRadius},
			{"lower_left", defaultLowerLeft},
			{"upper_right", defaultUpperRight},
		}
		vals := make([]string, len(fields))
		for i, f := range fields {
			s, err := getOptional(f.key, f.def)
			if err != nil {
				return nil, err
			}
			vals[i] = s
		}
		return ParseContour(vals[0], vals[1], vals[2], vals[3], vals[4])
	}
	getPoint := func(text string) (Value, error) {
		e, err := ParseContext(ctx, text, variable)
		if err != nil {
			return Value{}, err
		}
		return Evaluate(e)
	}
	respond := func(e Expr) ToolResponse {
		return ToolResponse{Result: e.toJSON(), LaTeX: LaTeX(e), String: String(e)}
	}

	switch req.Tool {
	case "analyze":
		fn, err := getString("function")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		r := Request{Function: fn}
		for _, f := range []struct {
			key, def string
			dst      *string
		}{
			{"contour", defaultContour, &r.Contour},
			{"center", defaultCenter, &r.Center},
			{"radius", defaultRadius, &r.Radius},
			{"lower_left", defaultLowerLeft, &r.LowerLeft},
			{"upper_right", defaultUpperRight, &r.UpperRight},
		} {
			if *f.dst, err = getOptional(f.key, f.def); err != nil {
				return ToolResponse{Error: err.Error()}
			}
		}
		an := &Analyzer{Variable: variable, Logger: a.logger()}
		report, res, err := an.Analyze(ctx, r)
		if err != nil {
			return ToolResponse{String: report, Error: err.Error()}
		}
		return ToolResponse{Result: res, LaTeX: res.LaTeX, String: report}

	case "parse":
		e, err := getExpr()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(e)

	case "singularities":
		e, err := getExpr()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		pts, err := FindSingularities(e, variable)
		if err != nil {
			return ToolResponse{Result: []Value{}, Error: err.Error()}
		}
		strs := make([]string, len(pts))
		for i, p := range pts {
			strs[i] = p.String()
		}
		return ToolResponse{Result: pts, String: strings.Join(strs, ", ")}

	case "residue":
		e, err := getExpr()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		text, err := getString("point")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		pt, err := getPoint(text)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		res, order, err := Residue(e, variable, pt)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{
			Result: Pole{Point: pt, Residue: res, Order: order},
			LaTeX:  res.Expr().LaTeX(),
			String: res.String(),
		}

	case "classify":
		texts, err := getStrings("points")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		c, err := getContour()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		inside := []Value{}
		var strs []string
		for _, t := range texts {
			pt, err := getPoint(t)
			if err != nil {
				return ToolResponse{Error: err.Error()}
			}
			if c.Encloses(pt.Complex()) {
				inside = append(inside, pt)
				strs = append(strs, pt.String())
			}
		}
		return ToolResponse{Result: inside, String: strings.Join(strs, ", ")}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ============================================================
// MCP tool schema
// ============================================================

func MCPToolSpec() string {
	contour := map[string]string{
		"contour":     "string",
		"center":      "string",
		"radius":      "string",
		"lower_left":  "string",
		"upper_right": "string",
	}
	withContour := func(extra map[string]string) map[string]string {
		out := map[string]string{}
		for k, v := range contour {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}
	tools := []map[string]interface{}{
		ts("analyze", "Poles, residues and the contour integral of f by the residue theorem. contour is circle (center, radius) or rectangle (lower_left, upper_right)", []string{"function"}, withContour(map[string]string{"function": "string", "var": "string"})),
		ts("parse", "Parse function text into an expression tree", []string{"function"}, map[string]string{"function": "string", "var": "string"}),
		ts("singularities", "Isolated singular points of f. Accepts function text or expr", []string{}, map[string]string{"function": "string", "expr": "object", "var": "string"}),
		ts("residue", "Residue and pole order of f at point (exact text such as 2*I)", []string{"point"}, map[string]string{"function": "string", "expr": "object", "var": "string", "point": "string"}),
		ts("classify", "Points strictly inside a contour", []string{"points"}, withContour(map[string]string{"points": "array"})),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}

package goresidue_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goresidue "github.com/njchilds90/goresidue"
)

func call(tool string, params map[string]interface{}) goresidue.ToolResponse {
	return goresidue.HandleToolCall(goresidue.ToolRequest{Tool: tool, Params: params})
}

func TestHandleToolCall_Analyze(t *testing.T) {
	resp := call("analyze", map[string]interface{}{"function": "exp(z)/(z-2)**3"})
	require.Empty(t, resp.Error)
	assert.Contains(t, resp.String, "#### Integral ∮f(z)dz = `I*pi*exp(2)`")
	res, ok := resp.Result.(*goresidue.Result)
	require.True(t, ok, "%T", resp.Result)
	assert.Len(t, res.Enclosed, 1)
	assert.Equal(t, `\frac{\exp\left(z\right)}{\left(z - 2\right)^{3}}`, resp.LaTeX)
}

func TestHandleToolCall_AnalyzeRejected(t *testing.T) {
	resp := call("analyze", map[string]interface{}{"function": "1/z", "radius": "abc"})
	assert.NotEmpty(t, resp.Error)
	assert.Contains(t, resp.String, "contour parameters are not valid")

	resp = call("analyze", map[string]interface{}{"function": 3})
	assert.Equal(t, "param function must be a string", resp.Error)
}

func TestHandleToolCall_Parse(t *testing.T) {
	resp := call("parse", map[string]interface{}{"function": "1/(w**2+4)", "var": "w"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "1/(w^2 + 4)", resp.String)
	assert.Equal(t, `\frac{1}{w^{2} + 4}`, resp.LaTeX)

	resp = call("parse", map[string]interface{}{"function": "exp(z"})
	assert.NotEmpty(t, resp.Error)
}

func TestHandleToolCall_Singularities(t *testing.T) {
	resp := call("singularities", map[string]interface{}{"function": "1/(z**2+4)"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "-2*I, 2*I", resp.String)

	resp = call("singularities", map[string]interface{}{"function": "1/sin(z)"})
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, []goresidue.Value{}, resp.Result)
}

func TestHandleToolCall_SingularitiesFromJSON(t *testing.T) {
	j, err := goresidue.ToJSON(mustParse(t, "z/(z-1)"))
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(j), &m))

	resp := call("singularities", map[string]interface{}{"expr": m})
	require.Empty(t, resp.Error)
	assert.Equal(t, "1", resp.String)
}

func TestHandleToolCall_SingularitiesLogarithm(t *testing.T) {
	expr := map[string]interface{}{
		"type": "mul",
		"factors": []interface{}{
			map[string]interface{}{"type": "func", "name": "ln", "arg": map[string]interface{}{"type": "sym", "name": "z"}},
			map[string]interface{}{
				"type": "pow",
				"base": map[string]interface{}{
					"type": "add",
					"terms": []interface{}{
						map[string]interface{}{"type": "sym", "name": "z"},
						map[string]interface{}{"type": "num", "value": "-2"},
					},
				},
				"exp": map[string]interface{}{"type": "num", "value": "-1"},
			},
		},
	}
	resp := call("singularities", map[string]interface{}{"expr": expr})
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, []goresidue.Value{}, resp.Result)
}

func TestHandleToolCall_Residue(t *testing.T) {
	resp := call("residue", map[string]interface{}{"function": "1/(z**2+4)", "point": "2*I"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "-I/4", resp.String)
	p, ok := resp.Result.(goresidue.Pole)
	require.True(t, ok)
	assert.Equal(t, 1, p.Order)

	resp = call("residue", map[string]interface{}{"function": "1/z"})
	assert.Equal(t, "missing param: point", resp.Error)
}

func TestHandleToolCall_Classify(t *testing.T) {
	resp := call("classify", map[string]interface{}{
		"points":      []interface{}{"0", "2*I", "1/2 + I/2"},
		"contour":     "rectangle",
		"lower_left":  "-1-1j",
		"upper_right": "1+1j",
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "0, 1/2 + I/2", resp.String)

	resp = call("classify", map[string]interface{}{"points": "0"})
	assert.Equal(t, "param points must be array", resp.Error)
}

func TestHandleToolCall_UnknownTool(t *testing.T) {
	resp := call("nonexistent", map[string]interface{}{})
	assert.Equal(t, "unknown tool: nonexistent", resp.Error)
}

func TestMCPToolSpec(t *testing.T) {
	spec := goresidue.MCPToolSpec()
	var m struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(spec), &m))
	var names []string
	for _, tool := range m.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"analyze", "parse", "singularities", "residue", "classify", "mcp_spec"}, names)

	resp := call("mcp_spec", nil)
	assert.Equal(t, spec, resp.Result)
}

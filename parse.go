package goresidue

import (
	"context"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// DefaultVariable is the complex variable used when none is declared.
const DefaultVariable = "z"

// functions maps the callable names of the input language to constructors.
var functions = map[string]func(Expr) Expr{
	"exp":  ExpOf,
	"sin":  SinOf,
	"cos":  CosOf,
	"sqrt": SqrtOf,
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse converts function text written in Python expression syntax into an
// expression of the given variable.
func Parse(text, variable string) (Expr, error) {
	return ParseContext(context.Background(), text, variable)
}

// ParseContext is Parse with cancellation.
func ParseContext(ctx context.Context, text, variable string) (Expr, error) {
	if variable == "" {
		variable = DefaultVariable
	}
	if !identPattern.MatchString(variable) || isReserved(variable) {
		return nil, &ParseError{Input: text, Msg: fmt.Sprintf("%q cannot be used as the variable", variable)}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Input: text, Msg: "empty function"}
	}

	// ^ is accepted as exponentiation, as in the usual math notation.
	src := []byte(strings.ReplaceAll(text, "^", "**"))

	// A parser per call keeps concurrent analyses independent.
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &ParseError{Input: text, Msg: err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, &ParseError{Input: text, Msg: "empty syntax tree"}
	}
	if root.HasError() {
		return nil, &ParseError{Input: text, Offset: errorOffset(root), Msg: "invalid syntax"}
	}

	node, err := singleExpression(root, text)
	if err != nil {
		return nil, err
	}
	b := builder{src: src, text: text, variable: variable}
	return b.build(node)
}

func isReserved(name string) bool {
	if _, ok := functions[name]; ok {
		return true
	}
	return name == "I" || name == "pi"
}

// errorOffset returns the start of the first ERROR or missing node.
func errorOffset(n *sitter.Node) int {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartByte())
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.HasError() {
			return errorOffset(c)
		}
	}
	return int(n.StartByte())
}

// namedChildren lists the named children of n, skipping comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// singleExpression accepts a module made of exactly one expression statement.
func singleExpression(root *sitter.Node, text string) (*sitter.Node, error) {
	stmts := namedChildren(root)
	if len(stmts) != 1 {
		return nil, &ParseError{Input: text, Msg: "expected a single expression"}
	}
	stmt := stmts[0]
	if stmt.Type() != "expression_statement" {
		return nil, &ParseError{Input: text, Offset: int(stmt.StartByte()), Msg: "expected an expression, found " + stmt.Type()}
	}
	exprs := namedChildren(stmt)
	if len(exprs) != 1 {
		return nil, &ParseError{Input: text, Offset: int(stmt.StartByte()), Msg: "expected a single expression"}
	}
	return exprs[0], nil
}

type builder struct {
	src      []byte
	text     string
	variable string
}

func (b builder) fail(n *sitter.Node, format string, args ...interface{}) error {
	return &ParseError{Input: b.text, Offset: int(n.StartByte()), Msg: fmt.Sprintf(format, args...)}
}

func (b builder) build(n *sitter.Node) (Expr, error) {
	switch n.Type() {
	case "parenthesized_expression":
		inner := namedChildren(n)
		if len(inner) != 1 {
			return nil, b.fail(n, "expected one expression in parentheses")
		}
		return b.build(inner[0])

	case "binary_operator":
		left, right, op := n.ChildByFieldName("left"), n.ChildByFieldName("right"), n.ChildByFieldName("operator")
		if left == nil || right == nil || op == nil {
			return nil, b.fail(n, "incomplete operation")
		}
		l, err := b.build(left)
		if err != nil {
			return nil, err
		}
		r, err := b.build(right)
		if err != nil {
			return nil, err
		}
		switch op.Type() {
		case "+":
			return AddOf(l, r), nil
		case "-":
			return AddOf(l, MulOf(N(-1), r)), nil
		case "*":
			return MulOf(l, r), nil
		case "/":
			return MulOf(l, PowOf(r, N(-1))), nil
		case "**":
			return PowOf(l, r), nil
		}
		return nil, b.fail(op, "unsupported operator %q", op.Type())

	case "unary_operator":
		op, arg := n.ChildByFieldName("operator"), n.ChildByFieldName("argument")
		if op == nil || arg == nil {
			return nil, b.fail(n, "incomplete operation")
		}
		x, err := b.build(arg)
		if err != nil {
			return nil, err
		}
		switch op.Type() {
		case "-":
			return MulOf(N(-1), x), nil
		case "+":
			return x, nil
		}
		return nil, b.fail(op, "unsupported operator %q", op.Type())

	case "call":
		return b.call(n)

	case "identifier":
		name := n.Content(b.src)
		switch {
		case name == b.variable:
			return S(name), nil
		case name == "I":
			return I(), nil
		case name == "pi":
			return Pi(), nil
		}
		if _, ok := functions[name]; ok {
			return nil, b.fail(n, "function %s needs an argument", name)
		}
		return nil, b.fail(n, "unknown name %q", name)

	case "integer", "float":
		num, err := parseNumber(n.Content(b.src))
		if err != nil {
			return nil, b.fail(n, "%v", err)
		}
		return num, nil
	}
	return nil, b.fail(n, "unsupported syntax %s", n.Type())
}

func (b builder) call(n *sitter.Node) (Expr, error) {
	fn, args := n.ChildByFieldName("function"), n.ChildByFieldName("arguments")
	if fn == nil || args == nil || fn.Type() != "identifier" {
		return nil, b.fail(n, "unsupported call")
	}
	name := fn.Content(b.src)
	ctor, ok := functions[name]
	if !ok {
		return nil, b.fail(fn, "unknown function %q", name)
	}
	if args.Type() != "argument_list" {
		return nil, b.fail(args, "unsupported arguments for %s", name)
	}
	list := namedChildren(args)
	if len(list) != 1 {
		return nil, b.fail(args, "%s takes exactly one argument", name)
	}
	arg, err := b.build(list[0])
	if err != nil {
		return nil, err
	}
	return ctor(arg), nil
}

// parseNumber reads an integer, float or imaginary literal exactly.
func parseNumber(lit string) (*Num, error) {
	s := strings.ReplaceAll(lit, "_", "")
	imag := false
	if strings.HasSuffix(s, "j") || strings.HasSuffix(s, "J") {
		imag = true
		s = s[:len(s)-1]
	}
	r := new(big.Rat)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0x"), strings.HasPrefix(lower, "0o"), strings.HasPrefix(lower, "0b"):
		n, ok := new(big.Int).SetString(lower, 0)
		if !ok {
			return nil, fmt.Errorf("invalid number %q", lit)
		}
		r.SetInt(n)
	default:
		if _, ok := r.SetString(s); !ok {
			return nil, fmt.Errorf("invalid number %q", lit)
		}
	}
	if imag {
		return numOf(gImag(r)), nil
	}
	return numOf(gRat(r)), nil
}

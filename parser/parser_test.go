/*
File    : korc/parser/parser_test.go
*/
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kayagokalp/korc/ast"
	"github.com/kayagokalp/korc/lexer"
)

func mustTokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)
	return toks
}

func TestParse_ExternDeclaration(t *testing.T) {
	toks := mustTokenize(t, "use kaya();")
	nodes, leftover, err := Parse(toks, nil)
	require.NoError(t, err)
	assert.Empty(t, leftover)
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.ExternNode{Prototype: ast.Prototype{Name: "kaya", Args: nil}}, nodes[0])
}

func TestParse_FunctionDefinition(t *testing.T) {
	toks := mustTokenize(t, "fun kaya() { 5 }")
	nodes, leftover, err := Parse(toks, nil)
	require.NoError(t, err)
	assert.Empty(t, leftover)
	require.Len(t, nodes, 1)
	want := ast.FunctionNode{Function: ast.Function{
		Prototype: ast.Prototype{Name: "kaya", Args: nil},
		Body:      ast.Literal{Value: 5.0},
	}}
	assert.Equal(t, want, nodes[0])
}

func TestParse_OperatorPrecedence(t *testing.T) {
	expr, _, err := ParseExpression(mustTokenize(t, "5 + 4 * 2"))
	require.NoError(t, err)
	want := ast.Binary{
		Op:  "+",
		LHS: ast.Literal{Value: 5},
		RHS: ast.Binary{Op: "*", LHS: ast.Literal{Value: 4}, RHS: ast.Literal{Value: 2}},
	}
	assert.Equal(t, want, expr)
}

func TestParse_OperatorPrecedence_MulThenPlus(t *testing.T) {
	expr, _, err := ParseExpression(mustTokenize(t, "a * b + c"))
	require.NoError(t, err)
	want := ast.Binary{
		Op:  "+",
		LHS: ast.Binary{Op: "*", LHS: ast.Variable{Name: "a"}, RHS: ast.Variable{Name: "b"}},
		RHS: ast.Variable{Name: "c"},
	}
	assert.Equal(t, want, expr)
}

func TestParse_LeftAssociativeAtEqualPrecedence(t *testing.T) {
	expr, _, err := ParseExpression(mustTokenize(t, "a - b - c"))
	require.NoError(t, err)
	want := ast.Binary{
		Op:  "-",
		LHS: ast.Binary{Op: "-", LHS: ast.Variable{Name: "a"}, RHS: ast.Variable{Name: "b"}},
		RHS: ast.Variable{Name: "c"},
	}
	assert.Equal(t, want, expr)
}

func TestParse_Conditional(t *testing.T) {
	expr, _, err := ParseExpression(mustTokenize(t, "if 5 { 1 } else { 2 }"))
	require.NoError(t, err)
	want := ast.Conditional{
		Cond: ast.Literal{Value: 5},
		Then: ast.Literal{Value: 1},
		Else: ast.Literal{Value: 2},
	}
	assert.Equal(t, want, expr)
}

func TestParse_AssignmentIsRightAssociative(t *testing.T) {
	expr, _, err := ParseExpression(mustTokenize(t, "a = b = c"))
	require.NoError(t, err)
	want := ast.Binary{
		Op:  "=",
		LHS: ast.Variable{Name: "a"},
		RHS: ast.Binary{Op: "=", LHS: ast.Variable{Name: "b"}, RHS: ast.Variable{Name: "c"}},
	}
	assert.Equal(t, want, expr)
}

func TestParse_CallExpression(t *testing.T) {
	expr, _, err := ParseExpression(mustTokenize(t, "add(1, 2)"))
	require.NoError(t, err)
	want := ast.Call{Callee: "add", Args: []ast.Expression{ast.Literal{Value: 1}, ast.Literal{Value: 2}}}
	assert.Equal(t, want, expr)
}

func TestParse_BareExpressionWrappedAsAnonymousFunction(t *testing.T) {
	toks := mustTokenize(t, "1 + 2")
	nodes, leftover, err := Parse(toks, nil)
	require.NoError(t, err)
	assert.Empty(t, leftover)
	require.Len(t, nodes, 1)
	fn, ok := nodes[0].(ast.FunctionNode)
	require.True(t, ok)
	assert.Equal(t, "", fn.Function.Prototype.Name)
	assert.Empty(t, fn.Function.Prototype.Args)
}

func TestParse_UnknownOperatorIsHardError(t *testing.T) {
	toks := mustTokenize(t, "1 @ 2")
	_, _, err := Parse(toks, nil)
	require.Error(t, err)
	assert.False(t, isNotComplete(err))
}

func TestParse_TruncatedFunctionIsNotCompleteAndRestoresTokens(t *testing.T) {
	toks := mustTokenize(t, "fun kaya(a, b) { a + ")
	nodes, leftover, err := Parse(toks, nil)
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Equal(t, toks, leftover)
}

func TestParse_Reentry_EmptyLeftoverIsFixedPoint(t *testing.T) {
	toks := mustTokenize(t, "fun kaya() { 5 }")
	nodes, leftover, err := Parse(toks, nil)
	require.NoError(t, err)
	require.Empty(t, leftover)

	again, leftoverAgain, err := Parse(leftover, nodes)
	require.NoError(t, err)
	assert.Equal(t, nodes, again)
	assert.Empty(t, leftoverAgain)
}

func TestParse_ReentryAfterNotComplete(t *testing.T) {
	first := mustTokenize(t, "fun kaya() { 5")
	nodes, leftover, err := Parse(first, nil)
	require.NoError(t, err)
	require.Empty(t, nodes)
	require.Equal(t, first, leftover)

	more := mustTokenize(t, " }")
	retried, leftoverRetried, err := Parse(append(append([]lexer.Token{}, leftover...), more...), nodes)
	require.NoError(t, err)
	assert.Empty(t, leftoverRetried)
	require.Len(t, retried, 1)
	assert.Equal(t, ast.FunctionNode{Function: ast.Function{
		Prototype: ast.Prototype{Name: "kaya", Args: nil},
		Body:      ast.Literal{Value: 5},
	}}, retried[0])
}

func TestParse_PrototypeErrors(t *testing.T) {
	_, _, err := Parse(mustTokenize(t, "fun 5() { 1 }"), nil)
	require.Error(t, err)
	assert.Equal(t, "expected function name in prototype", err.Error())

	_, _, err = Parse(mustTokenize(t, "fun kaya a) { 1 }"), nil)
	require.Error(t, err)
	assert.Equal(t, "expected '(' in prototype", err.Error())

	_, _, err = Parse(mustTokenize(t, "fun kaya(a"), nil)
	require.NoError(t, err) // truncated -> NotComplete, not a hard error
}

func TestParse_DelimitersAreSkipped(t *testing.T) {
	toks := mustTokenize(t, ";;; fun f() { 1 } ;")
	nodes, leftover, err := Parse(toks, nil)
	require.NoError(t, err)
	assert.Empty(t, leftover)
	assert.Len(t, nodes, 1)
}

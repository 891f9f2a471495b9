/*
File    : korc/parser/expressions.go
*/
package parser

import (
	"fmt"

	"github.com/kayagokalp/korc/ast"
	"github.com/kayagokalp/korc/lexer"
)

// ParseExpression parses a single expression from the front of tokens
// and returns it along with whatever tokens remain. It is a standalone
// entry point for callers that just want one expression tree, kept
// separate from the top-level Parse rather than overloading one
// function on its return type.
func ParseExpression(tokens []lexer.Token) (ast.Expression, []lexer.Token, error) {
	p := New(tokens)
	expr, err := p.parseExpression()
	if err != nil {
		return nil, nil, err
	}
	return expr, p.remaining(), nil
}

// parseExpression parses a primary followed by an operator-precedence
// climb.
func (p *Parser) parseExpression() (ast.Expression, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseBinaryRHS(0, lhs)
}

// parseBinaryRHS implements a Pratt-style precedence climb: while the
// next operator's precedence is at least minPrec, consume it and a
// primary rhs, then absorb any run of strictly-higher-precedence
// operators into rhs before folding (lhs op rhs) and continuing.
func (p *Parser) parseBinaryRHS(minPrec int, lhs ast.Expression) (ast.Expression, error) {
	for {
		if p.atEnd() {
			return lhs, nil
		}
		tok := p.current()
		if tok.Type != lexer.OPERATOR {
			return lhs, nil
		}
		prec, ok := precedenceOf(tok.Literal)
		if !ok {
			return nil, fmt.Errorf("unknown operator found")
		}
		if prec < minPrec {
			return lhs, nil
		}
		op := p.advance().Literal

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		nextMinPrec := prec + 1
		if isRightAssociative(op) {
			nextMinPrec = prec
		}

		for {
			if p.atEnd() {
				break
			}
			next := p.current()
			if next.Type != lexer.OPERATOR {
				break
			}
			nextPrec, ok := precedenceOf(next.Literal)
			if !ok {
				return nil, fmt.Errorf("unknown operator found")
			}
			if nextPrec < nextMinPrec {
				break
			}
			rhs, err = p.parseBinaryRHS(nextMinPrec, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = ast.Binary{Op: op, LHS: lhs, RHS: rhs}
	}
}

// parsePrimary dispatches on the next token.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	if p.atEnd() {
		return nil, ErrNotComplete
	}

	tok := p.current()
	switch tok.Type {
	case lexer.IDENT:
		// An IDENT followed by '(' is a call; anything else is a bare
		// variable reference. Checking the token beyond the one being
		// consumed (rather than advancing first and inspecting the new
		// current) keeps this a one-token lookahead on the unconsumed
		// stream instead of a post-hoc check.
		isCall := p.peekNext().Type == lexer.OPENING_PARENTHESIS
		name := p.advance().Literal
		if isCall {
			return p.parseCall(name)
		}
		return ast.Variable{Name: name}, nil

	case lexer.NUMBER:
		p.advance()
		return ast.Literal{Value: tok.Value}, nil

	case lexer.OPENING_PARENTHESIS:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.CLOSING_PARENTHESIS, "expected ')'"); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.IF:
		return p.parseConditional()

	default:
		return nil, fmt.Errorf("unknown token when expecting an expression")
	}
}

// parseCall parses the `'(' expr { ',' expr } ')'` argument list
// following an identifier already consumed as the callee name.
func (p *Parser) parseCall(callee string) (ast.Expression, error) {
	p.advance() // consume '('

	var args []ast.Expression
	for {
		if p.atEnd() {
			return nil, ErrNotComplete
		}
		if p.current().Type == lexer.CLOSING_PARENTHESIS {
			break
		}
		if len(args) > 0 {
			if p.current().Type != lexer.COMMA {
				return nil, fmt.Errorf("expected ',' or ')' in call arguments")
			}
			p.advance()
			if p.atEnd() {
				return nil, ErrNotComplete
			}
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if err := p.expect(lexer.CLOSING_PARENTHESIS, "expected ')' in call arguments"); err != nil {
		return nil, err
	}
	return ast.Call{Callee: callee, Args: args}, nil
}

// parseConditional implements `if Expression '{' Expression '}' else
// '{' Expression '}'`. There is no `else if` shortcut; nesting must be
// written explicitly.
func (p *Parser) parseConditional() (ast.Expression, error) {
	p.advance() // consume `if`

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.OPENING_BRACE, "expected '{' after if condition"); err != nil {
		return nil, err
	}
	thenBranch, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.CLOSING_BRACE, "expected '}' after then branch"); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.ELSE, "expected 'else' after if block"); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.OPENING_BRACE, "expected '{' after else"); err != nil {
		return nil, err
	}
	elseBranch, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.CLOSING_BRACE, "expected '}' after else branch"); err != nil {
		return nil, err
	}

	return ast.Conditional{Cond: cond, Then: thenBranch, Else: elseBranch}, nil
}

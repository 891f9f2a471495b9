/*
File    : korc/parser/parser.go
*/

// Package parser implements a recursive-descent parser with
// operator-precedence climbing for Klang. It converts a flat
// lexer.Token sequence into an ordered sequence of ast.Node values.
//
// The externally observable re-entry contract: the parser reads
// tokens left-to-right and, if it runs out of input while part-way
// through a top-level statement, it restores every token consumed for
// that statement and returns them as leftover with a nil error instead
// of a hard error, so a REPL-style caller can append more input and
// retry Parse with the tokens Parse returned as leftover and the nodes
// it already committed as prefix.
package parser

import (
	"fmt"

	"github.com/kayagokalp/korc/ast"
	"github.com/kayagokalp/korc/lexer"
)

// Parser holds the token cursor for one parse attempt, reduced to what
// Klang's single-pass, one-token-lookahead grammar needs.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a Parser over tokens, positioned before the first token.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes tokens, appending newly parsed top-level nodes
// to prefix (an already-accumulated AST, which supports
// incremental/REPL feeding). It returns the full node sequence, any
// tokens left unconsumed, and an error.
//
// When the input is exhausted mid-statement, Parse returns
// (nodes-so-far, leftover, nil) where leftover begins with every token
// consumed while attempting the in-progress statement — none of it is
// committed to nodes. A non-empty leftover is the only sign of
// truncation; ErrNotComplete itself does not reach the caller.
func Parse(tokens []lexer.Token, prefix []ast.Node) ([]ast.Node, []lexer.Token, error) {
	p := New(tokens)
	nodes := append([]ast.Node(nil), prefix...)

	for {
		if p.atEnd() {
			return nodes, nil, nil
		}

		mark := p.pos
		tok := p.current()

		switch tok.Type {
		case lexer.DELIMITER:
			p.advance()
			continue

		case lexer.FUN:
			fn, err := p.parseFunctionDefinition()
			if err != nil {
				return p.restoreOnNotComplete(nodes, mark, err)
			}
			nodes = append(nodes, ast.FunctionNode{Function: fn})

		case lexer.USE:
			ext, err := p.parseExternDeclaration()
			if err != nil {
				return p.restoreOnNotComplete(nodes, mark, err)
			}
			nodes = append(nodes, ast.ExternNode{Prototype: ext})

		default:
			expr, err := p.parseExpression()
			if err != nil {
				return p.restoreOnNotComplete(nodes, mark, err)
			}
			nodes = append(nodes, ast.FunctionNode{Function: ast.Function{
				Prototype: ast.Prototype{Name: "", Args: nil},
				Body:      expr,
			}})
		}
	}
}

// restoreOnNotComplete implements the NotComplete restoration
// contract: on ErrNotComplete it rewinds the cursor to mark (so none
// of the in-progress statement's tokens are lost) and reports success
// with the leftover tokens; any other error propagates unchanged.
func (p *Parser) restoreOnNotComplete(nodes []ast.Node, mark int, err error) ([]ast.Node, []lexer.Token, error) {
	if isNotComplete(err) {
		p.pos = mark
		return nodes, p.remaining(), nil
	}
	return nodes, nil, err
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

// current returns the token at the cursor, or an EOF token if the
// cursor has run past the end.
func (p *Parser) current() lexer.Token {
	if p.atEnd() {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// peekNext looks one token beyond current without consuming anything.
func (p *Parser) peekNext() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) remaining() []lexer.Token {
	return p.tokens[p.pos:]
}

// expect consumes the current token if it matches tokType; otherwise
// it returns ErrNotComplete (ran out of input) or a hard error
// carrying msg (wrong token present).
func (p *Parser) expect(tokType lexer.TokenType, msg string) error {
	if p.atEnd() {
		return ErrNotComplete
	}
	if p.current().Type != tokType {
		return fmt.Errorf("%s", msg)
	}
	p.advance()
	return nil
}

// parsePrototype implements `IDENT '(' (IDENT (',' IDENT)*)? ')'`.
func (p *Parser) parsePrototype() (ast.Prototype, error) {
	if p.atEnd() {
		return ast.Prototype{}, ErrNotComplete
	}
	if p.current().Type != lexer.IDENT {
		return ast.Prototype{}, fmt.Errorf("expected function name in prototype")
	}
	name := p.advance().Literal

	if err := p.expect(lexer.OPENING_PARENTHESIS, "expected '(' in prototype"); err != nil {
		return ast.Prototype{}, err
	}

	var args []string
	for {
		if p.atEnd() {
			return ast.Prototype{}, ErrNotComplete
		}
		if p.current().Type == lexer.CLOSING_PARENTHESIS {
			break
		}
		if len(args) > 0 {
			if p.current().Type != lexer.COMMA {
				return ast.Prototype{}, fmt.Errorf("expected ')' in prototype")
			}
			p.advance()
			if p.atEnd() {
				return ast.Prototype{}, ErrNotComplete
			}
		}
		if p.current().Type != lexer.IDENT {
			return ast.Prototype{}, fmt.Errorf("expected ')' in prototype")
		}
		args = append(args, p.advance().Literal)
	}

	if err := p.expect(lexer.CLOSING_PARENTHESIS, "expected ')' in prototype"); err != nil {
		return ast.Prototype{}, err
	}

	return ast.Prototype{Name: name, Args: args}, nil
}

// parseExternDeclaration implements `Use Prototype`. A trailing `;` is
// consumed if present but is not required, matching the EBNF's
// `useDecl := 'use' proto ';'?`.
func (p *Parser) parseExternDeclaration() (ast.Prototype, error) {
	p.advance() // consume `use`
	proto, err := p.parsePrototype()
	if err != nil {
		return ast.Prototype{}, err
	}
	if !p.atEnd() && p.current().Type == lexer.DELIMITER {
		p.advance()
	}
	return proto, nil
}

// parseFunctionDefinition implements `Fun Prototype '{' Expression '}'`.
func (p *Parser) parseFunctionDefinition() (ast.Function, error) {
	p.advance() // consume `fun`
	proto, err := p.parsePrototype()
	if err != nil {
		return ast.Function{}, err
	}
	if err := p.expect(lexer.OPENING_BRACE, "expected '{' in function body"); err != nil {
		return ast.Function{}, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return ast.Function{}, err
	}
	if err := p.expect(lexer.CLOSING_BRACE, "expected '}' in function body"); err != nil {
		return ast.Function{}, err
	}
	return ast.Function{Prototype: proto, Body: body}, nil
}

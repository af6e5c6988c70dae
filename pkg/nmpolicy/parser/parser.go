// Package parser turns a lexer.Token stream into an ast.Node tree, the
// way parser/tokenizer.go walks graft's token stream into an Expr.
package parser

import (
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/ast"
	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/lexer"
)

// Parser walks a fully-lexed token slice with one-token lookback: a
// path loop that discovers the next token isn't part of the path can
// "unread" it by clearing tokenConsumed, and the following next()
// call hands the same token back out instead of advancing.
type Parser struct {
	expression string
	tokens     []lexer.Token
	idx        int

	tokenConsumed bool
	currentToken  *lexer.Token

	rootNode    *ast.Node
	pipedInNode *ast.Node
}

// Parse lexes and parses expression into a single root node. An empty
// expression yields a Bug error.
func Parse(expression string) (ast.Node, error) {
	tokens, err := lexer.Tokenize(expression)
	if err != nil {
		return ast.Node{}, err
	}
	p := &Parser{expression: expression, tokens: tokens, tokenConsumed: true}
	root, err := p.parseTokens()
	if err != nil {
		pe := err.(*nmpolicyerrors.PolicyError)
		if p.currentToken != nil {
			pe = pe.Decorate(expression, p.currentToken.Pos)
		}
		return ast.Node{}, pe
	}
	if root == nil {
		return ast.Node{}, nmpolicyerrors.New(nmpolicyerrors.Bug)
	}
	return *root, nil
}

func (p *Parser) next() (*lexer.Token, bool) {
	if !p.tokenConsumed {
		p.tokenConsumed = true
		return p.currentToken, true
	}
	if p.idx >= len(p.tokens) {
		return nil, false
	}
	tok := p.tokens[p.idx]
	p.idx++
	p.currentToken = &tok
	p.tokenConsumed = true
	return p.currentToken, true
}

// unread makes the next call to next() hand back the current token
// again instead of advancing, the way parse_path breaks out of its
// loop on a token that belongs to the caller.
func (p *Parser) unread() {
	p.tokenConsumed = false
}

func (p *Parser) parseTokens() (*ast.Node, error) {
	for {
		tok, ok := p.next()
		if !ok {
			break
		}
		if err := p.parseToken(tok); err != nil {
			return nil, err
		}
	}
	if p.pipedInNode != nil {
		return nil, nmpolicyerrors.Validationf("invalid pipe: missing right expression")
	}
	return p.rootNode, nil
}

func (p *Parser) parseToken(tok *lexer.Token) error {
	switch tok.Kind {
	case lexer.Identity:
		return p.parsePath(tok.Pos, tok.Text)
	case lexer.EqFilter:
		return p.parseEqFilter(tok.Pos)
	case lexer.Replace:
		return p.parseReplace(tok.Pos)
	case lexer.Pipe:
		return p.parsePipe()
	case lexer.Str:
		p.setRoot(ast.NewStr(tok.Pos, tok.Text))
		return nil
	default:
		return nmpolicyerrors.Validationf("invalid expression: unexpected token '%s'", tok)
	}
}

func (p *Parser) setRoot(n ast.Node) *ast.Node {
	p.rootNode = &n
	return p.rootNode
}

func (p *Parser) parsePath(pos int, literal string) error {
	steps := []ast.Node{ast.NewIdentity(pos, literal)}
	for {
		tok, ok := p.next()
		if !ok {
			break
		}
		switch tok.Kind {
		case lexer.Dot:
			next, ok := p.next()
			if !ok {
				return nmpolicyerrors.Validationf("invalid path: unexpected token after dot")
			}
			switch next.Kind {
			case lexer.Identity:
				steps = append(steps, ast.NewIdentity(next.Pos, next.Text))
			case lexer.Number:
				steps = append(steps, ast.NewNumber(next.Pos, int32(next.Num)))
			default:
				return nmpolicyerrors.Validationf("invalid path: unexpected token after dot")
			}
		case lexer.EqFilter, lexer.Replace, lexer.Merge, lexer.Pipe:
			p.unread()
			return p.finishPath(pos, steps)
		default:
			return nmpolicyerrors.Validationf("invalid path: missing dot")
		}
	}
	return p.finishPath(pos, steps)
}

func (p *Parser) finishPath(pos int, steps []ast.Node) error {
	p.setRoot(ast.NewPath(pos, steps))
	return nil
}

func (p *Parser) parseEqFilter(pos int) error {
	input, target, value, err := p.fillInTernaryOperator("equality filter")
	if err != nil {
		return err
	}
	p.setRoot(ast.NewEqFilter(pos, input, target, value))
	return nil
}

func (p *Parser) parseReplace(pos int) error {
	input, target, value, err := p.fillInTernaryOperator("replace")
	if err != nil {
		return err
	}
	p.setRoot(ast.NewReplace(pos, input, target, value))
	return nil
}

func (p *Parser) parsePipe() error {
	if p.rootNode == nil {
		return nmpolicyerrors.Validationf("invalid pipe: missing left expression")
	}
	if p.rootNode.Kind != ast.Path {
		return nmpolicyerrors.Validationf("invalid pipe: left expression must be a path")
	}
	p.pipedInNode = p.rootNode
	return nil
}

func (p *Parser) fillInTernaryOperator(operatorName string) (ast.Node, ast.Node, ast.Node, error) {
	if p.rootNode == nil {
		return ast.Node{}, ast.Node{}, ast.Node{}, nmpolicyerrors.Validationf(
			"invalid ternary: missing left hand side of %s", operatorName,
		)
	}
	if p.rootNode.Kind != ast.Path {
		return ast.Node{}, ast.Node{}, ast.Node{}, nmpolicyerrors.Validationf(
			"invalid ternary: unexpected left hand side of %s", operatorName,
		)
	}

	var input ast.Node
	if p.pipedInNode != nil {
		input = *p.pipedInNode
		p.pipedInNode = nil
	} else {
		input = ast.CurrentState(0)
	}
	target := ast.NewPath(p.rootNode.Pos, p.rootNode.Steps)

	tok, ok := p.next()
	if !ok {
		return ast.Node{}, ast.Node{}, ast.Node{}, nmpolicyerrors.Validationf(
			"invalid ternary: missing right hand side of %s", operatorName,
		)
	}
	switch tok.Kind {
	case lexer.Str:
		value := ast.NewStr(tok.Pos, tok.Text)
		return input, target, value, nil
	case lexer.Identity:
		if err := p.parsePath(tok.Pos, tok.Text); err != nil {
			return ast.Node{}, ast.Node{}, ast.Node{}, err
		}
		return input, target, *p.rootNode, nil
	default:
		return ast.Node{}, ast.Node{}, ast.Node{}, nmpolicyerrors.Validationf(
			"invalid ternary: unexpected right hand side of %s", operatorName,
		)
	}
}

package parser

import (
	"strconv"
	"strings"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expr {
	if p.err != nil {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.setError(NewSyntaxError(ErrorOpts{
			Code:          errors.E1009,
			Message:       "maximum nesting depth exceeded",
			File:          p.filename,
			StartPosition: p.curToken.StartPosition,
			EndPosition:   p.curToken.EndPosition,
			SourceCode:    p.lineText(p.curToken),
		}))
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if p.err != nil {
		return nil
	}
	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if p.err != nil {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) parseIdent() ast.Expr {
	return &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
}

func (p *Parser) parseThis() ast.Expr {
	return &ast.This{ThisPos: p.curToken.StartPosition, Literal: p.curToken.Literal}
}

func (p *Parser) parseNumber() ast.Expr {
	tok := p.curToken
	if !strings.Contains(tok.Literal, ".") {
		if value, err := strconv.ParseInt(tok.Literal, 10, 64); err == nil {
			return &ast.Int{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}
		}
		// Too large for an int64; fall through to a float.
	}
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.setTokenError(tok, "invalid number literal %q", tok.Literal)
		return nil
	}
	return &ast.Float{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}
}

func (p *Parser) parseString() ast.Expr {
	return &ast.String{
		ValuePos:  p.curToken.StartPosition,
		EndPos:    p.curToken.EndPosition,
		Value:     p.curToken.Literal,
		Multiline: p.curTokenIs(token.MULTILINE),
	}
}

func (p *Parser) parseBoolean() ast.Expr {
	return &ast.Bool{ValuePos: p.curToken.StartPosition, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expr {
	return &ast.Null{NullPos: p.curToken.StartPosition}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if p.err != nil {
		return nil
	}
	return &ast.Prefix{OpPos: tok.StartPosition, Op: tok.Literal, X: right}
}

func (p *Parser) parseAwait() ast.Expr {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if p.err != nil {
		return nil
	}
	return &ast.Await{AwaitPos: tok.StartPosition, X: right}
}

func (p *Parser) parseNew() ast.Expr {
	expr := &ast.New{NewPos: p.curToken.StartPosition}
	if !p.expectPeek("new expression", token.IDENT) {
		return nil
	}
	expr.Class = &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if !p.peekTokenIs(token.LPAREN) {
		expr.Rparen = expr.Class.End().Advance(-1)
		return expr
	}
	p.nextToken()
	expr.Args = p.parseExprList(token.RPAREN, "constructor arguments")
	if p.err != nil {
		return nil
	}
	expr.Rparen = p.curToken.StartPosition
	return expr
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	tok := p.curToken
	precedence := p.curPrecedence()
	if tok.Type == token.POW {
		// Right associative
		precedence--
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	if p.err != nil {
		return nil
	}
	return &ast.Infix{X: left, OpPos: tok.StartPosition, Op: tok.Literal, Y: right}
}

func (p *Parser) parseTernary(cond ast.Expr) ast.Expr {
	expr := &ast.Ternary{Cond: cond, Question: p.curToken.StartPosition}
	p.nextToken()
	expr.IfTrue = p.parseExpression(LOWEST)
	if !p.expectPeek("ternary expression", token.COLON) {
		return nil
	}
	expr.Colon = p.curToken.StartPosition
	p.nextToken()
	expr.IfFalse = p.parseExpression(TERNARY - 1)
	if p.err != nil {
		return nil
	}
	return expr
}

func (p *Parser) parseAssign(target ast.Expr) ast.Expr {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(ASSIGN - 1)
	if p.err != nil {
		return nil
	}
	return &ast.Assign{Target: target, OpPos: tok.StartPosition, Op: tok.Literal, Value: value}
}

func (p *Parser) parsePostfix(left ast.Expr) ast.Expr {
	return &ast.Postfix{X: left, OpPos: p.curToken.StartPosition, Op: p.curToken.Literal}
}

func (p *Parser) parseCall(fn ast.Expr) ast.Expr {
	call := &ast.Call{Fun: fn, Lparen: p.curToken.StartPosition}
	call.Args = p.parseExprList(token.RPAREN, "call arguments")
	if p.err != nil {
		return nil
	}
	call.Rparen = p.curToken.StartPosition
	return call
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	expr := &ast.Index{X: left, Lbrack: p.curToken.StartPosition}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if !p.expectPeek("index expression", token.RBRACKET) {
		return nil
	}
	expr.Rbrack = p.curToken.StartPosition
	return expr
}

func (p *Parser) parseMember(left ast.Expr) ast.Expr {
	period := p.curToken.StartPosition
	if !p.expectPeekName("member access") {
		return nil
	}
	name := &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	return &ast.Member{X: left, Period: period, Name: name}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek("grouped expression", token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseList() ast.Expr {
	list := &ast.List{Lbrack: p.curToken.StartPosition}
	list.Items = p.parseExprList(token.RBRACKET, "list literal")
	if p.err != nil {
		return nil
	}
	list.Rbrack = p.curToken.StartPosition
	return list
}

// parseExprList parses a comma separated list of expressions up to the end
// token. A trailing comma is allowed. curToken must be the opening
// delimiter; on return it is the end token.
func (p *Parser) parseExprList(end token.Type, context string) []ast.Expr {
	list := []ast.Expr{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	item := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	list = append(list, item)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		item := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		list = append(list, item)
	}
	if !p.expectPeek(context, end) {
		return nil
	}
	return list
}

func (p *Parser) parseMap() ast.Expr {
	m := &ast.Map{Lbrace: p.curToken.StartPosition}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		var key string
		switch {
		case p.curTokenIs(token.IDENT), p.curTokenIs(token.STRING):
			key = p.curToken.Literal
		case token.IsKeyword(p.curToken.Literal):
			key = p.curToken.Literal
		default:
			p.setTokenError(p.curToken, "invalid object key %s (expected identifier or string)",
				tokenDescription(p.curToken))
			return nil
		}
		if !p.expectPeek("object literal", token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		m.Items = append(m.Items, ast.MapItem{Key: key, Value: value})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.peekTokenIs(token.RBRACE) {
			p.peekError("object literal", token.RBRACE, p.peekToken)
			return nil
		}
	}
	p.nextToken()
	m.Rbrace = p.curToken.StartPosition
	return m
}

func (p *Parser) parseLambda() ast.Expr {
	lambda := &ast.Lambda{LambdaPos: p.curToken.StartPosition, Params: []*ast.Param{}}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		lambda.Params = p.parseParams("lambda parameters")
		if p.err != nil {
			return nil
		}
	}
	if !p.expectPeek("lambda", token.ARROW) {
		return nil
	}
	p.nextToken()
	lambda.Body = p.parseExpression(ASSIGN)
	if p.err != nil {
		return nil
	}
	return lambda
}

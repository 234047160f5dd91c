package parser

import (
	"path/filepath"
	"strings"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/internal/token"
)

// httpMethods lists the verbs accepted in api route tables.
var httpMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// parseStatement parses the statement starting at curToken. On return,
// curToken is the last token of the statement.
func (p *Parser) parseStatement() ast.Stmt {
	if p.err != nil {
		return nil
	}
	var stmt ast.Stmt
	switch p.curToken.Type {
	case token.LET, token.VAR, token.CONST:
		stmt = p.parseVar()
	case token.FUNC:
		stmt = p.parseFunc(p.curToken.StartPosition, false)
	case token.ASYNC:
		asyncPos := p.curToken.StartPosition
		if !p.expectPeek("async function", token.FUNC) {
			return nil
		}
		stmt = p.parseFunc(asyncPos, true)
	case token.CLASS:
		stmt = p.parseClass()
	case token.IF, token.ELSEIF:
		stmt = p.parseIf()
	case token.WHILE:
		stmt = p.parseWhile()
	case token.FOR:
		stmt = p.parseFor()
	case token.RETURN:
		stmt = p.parseReturn()
	case token.BREAK:
		stmt = &ast.Break{BreakPos: p.curToken.StartPosition}
	case token.CONTINUE:
		stmt = &ast.Continue{ContinuePos: p.curToken.StartPosition}
	case token.IMPORT:
		stmt = p.parseImport()
	case token.EXPORT:
		stmt = p.parseExport()
	case token.TRY:
		stmt = p.parseTry()
	case token.THROW:
		stmt = p.parseThrow()
	case token.API:
		stmt = p.parseAPI()
	default:
		expr := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		stmt = &ast.ExprStmt{X: expr}
	}
	if p.err != nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseVar() ast.Stmt {
	decl := &ast.Var{
		DeclPos: p.curToken.StartPosition,
		Kind:    ast.VarKind(p.curToken.Literal),
	}
	if !p.expectPeek(string(decl.Kind)+" statement", token.IDENT) {
		return nil
	}
	decl.Name = &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		decl.Type = p.parseType()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		decl.Value = p.parseExpression(LOWEST)
	}
	if p.err != nil {
		return nil
	}
	return decl
}

// parseType parses a type annotation after a ':' or '->'. The annotation is
// a name optionally followed by "[]".
func (p *Parser) parseType() *ast.TypeRef {
	if !p.expectPeekName("type annotation") {
		return nil
	}
	ref := &ast.TypeRef{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if p.peekTokenIs(token.LBRACKET) && p.tokenAt(p.pos+2).Type == token.RBRACKET {
		p.nextToken()
		p.nextToken()
		ref.Name += "[]"
	}
	return ref
}

func (p *Parser) parseParams(context string) []*ast.Param {
	params := []*ast.Param{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	for {
		if !p.expectPeek(context, token.IDENT) {
			return nil
		}
		param := &ast.Param{Name: &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			param.Type = p.parseType()
			if p.err != nil {
				return nil
			}
		}
		params = append(params, param)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(context, token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseFunc(pos token.Position, async bool) *ast.Func {
	fn := &ast.Func{FuncPos: pos, Async: async}
	if !p.expectPeek("function declaration", token.IDENT) {
		return nil
	}
	fn.Name = &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if !p.expectPeek("function declaration", token.LPAREN) {
		return nil
	}
	fn.Params = p.parseParams("function parameters")
	if p.err != nil {
		return nil
	}
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		fn.ReturnType = p.parseType()
	}
	if !p.expectPeek("function body", token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlock()
	if p.err != nil {
		return nil
	}
	return fn
}

// parseBlock parses a braced block. curToken must be the opening brace; on
// return it is the closing brace.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	p.nextToken()
	p.skipSemicolons()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unexpected end of input (expected \"}\")")
			return nil
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil
		}
		block.Stmts = append(block.Stmts, stmt)
		p.nextToken()
		p.skipSemicolons()
	}
	block.Rbrace = p.curToken.StartPosition
	return block
}

func (p *Parser) parseClass() ast.Stmt {
	class := &ast.Class{ClassPos: p.curToken.StartPosition}
	if !p.expectPeek("class declaration", token.IDENT) {
		return nil
	}
	class.Name = &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		if !p.expectPeek("base class", token.IDENT) {
			return nil
		}
		class.Base = &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	}
	if !p.expectPeek("class body", token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		switch p.curToken.Type {
		case token.SEMICOLON:
		case token.FUNC:
			if fn := p.parseFunc(p.curToken.StartPosition, false); fn != nil {
				class.Methods = append(class.Methods, fn)
			}
		case token.ASYNC:
			pos := p.curToken.StartPosition
			if p.expectPeek("async method", token.FUNC) {
				if fn := p.parseFunc(pos, true); fn != nil {
					class.Methods = append(class.Methods, fn)
				}
			}
		case token.EOF:
			p.setTokenError(p.curToken, "unexpected end of input in class %s", class.Name.Name)
		default:
			p.setTokenError(p.curToken, "unexpected %s in class body (expected method)",
				tokenDescription(p.curToken))
		}
		if p.err != nil {
			return nil
		}
		p.nextToken()
	}
	class.Rbrace = p.curToken.StartPosition
	return class
}

func (p *Parser) parseIf() ast.Stmt {
	stmt := &ast.If{IfPos: p.curToken.StartPosition}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek("if statement", token.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlock()
	if p.err != nil {
		return nil
	}
	switch {
	case p.peekTokenIs(token.ELSEIF):
		p.nextToken()
		if alt := p.parseIf(); alt != nil {
			stmt.Alternative = alt
		}
	case p.peekTokenIs(token.ELSE):
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			if alt := p.parseIf(); alt != nil {
				stmt.Alternative = alt
			}
		} else if p.expectPeek("else block", token.LBRACE) {
			if alt := p.parseBlock(); alt != nil {
				stmt.Alternative = alt
			}
		}
	}
	if p.err != nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	stmt := &ast.While{WhilePos: p.curToken.StartPosition}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek("while loop", token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if p.err != nil {
		return nil
	}
	return stmt
}

// isForIn scans the tokens inside the for loop's parentheses. It reports
// true if an "in" appears at paren depth 1 before any ';'. curToken must be
// the opening parenthesis.
func (p *Parser) isForIn() bool {
	depth := 1
	for i := p.pos + 1; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
			if depth == 0 {
				return false
			}
		case token.SEMICOLON:
			if depth == 1 {
				return false
			}
		case token.IN:
			if depth == 1 {
				return true
			}
		case token.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseFor() ast.Stmt {
	forPos := p.curToken.StartPosition
	if !p.expectPeek("for loop", token.LPAREN) {
		return nil
	}
	if p.isForIn() {
		return p.parseForIn(forPos)
	}
	stmt := &ast.For{ForPos: forPos}
	p.nextToken()
	if !p.curTokenIs(token.SEMICOLON) {
		switch p.curToken.Type {
		case token.LET, token.VAR, token.CONST:
			if init := p.parseVar(); init != nil {
				stmt.Init = init
			}
		default:
			if x := p.parseExpression(LOWEST); x != nil {
				stmt.Init = &ast.ExprStmt{X: x}
			}
		}
		if !p.expectPeek("for loop initializer", token.SEMICOLON) {
			return nil
		}
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	} else {
		p.nextToken()
		stmt.Cond = p.parseExpression(LOWEST)
		if !p.expectPeek("for loop condition", token.SEMICOLON) {
			return nil
		}
	}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		stmt.Post = p.parseExpression(LOWEST)
		if !p.expectPeek("for loop increment", token.RPAREN) {
			return nil
		}
	}
	if !p.expectPeek("for loop body", token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if p.err != nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseForIn(forPos token.Position) ast.Stmt {
	stmt := &ast.ForIn{ForPos: forPos}
	if p.peekTokenIs(token.LET) || p.peekTokenIs(token.VAR) || p.peekTokenIs(token.CONST) {
		p.nextToken()
	}
	if !p.expectPeek("for-in loop", token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if !p.expectPeek("for-in loop", token.IN) {
		return nil
	}
	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	if !p.expectPeek("for-in loop", token.RPAREN) {
		return nil
	}
	if !p.expectPeek("for-in loop body", token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if p.err != nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{ReturnPos: p.curToken.StartPosition}
	switch p.peekToken.Type {
	case token.SEMICOLON, token.RBRACE, token.EOF:
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseImport() ast.Stmt {
	stmt := &ast.Import{ImportPos: p.curToken.StartPosition}
	if !p.expectPeek("import statement", token.STRING) {
		return nil
	}
	stmt.Path = &ast.String{
		ValuePos: p.curToken.StartPosition,
		EndPos:   p.curToken.EndPosition,
		Value:    p.curToken.Literal,
	}
	if p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		switch {
		case p.curTokenIs(token.STRING), p.curTokenIs(token.IDENT):
			stmt.Ext = strings.TrimPrefix(p.curToken.Literal, ".")
		case p.curTokenIs(token.PERIOD) && p.peekTokenIs(token.IDENT):
			p.nextToken()
			stmt.Ext = p.curToken.Literal
		default:
			p.setTokenError(p.curToken, "invalid import extension %s", tokenDescription(p.curToken))
			return nil
		}
	}
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek("import alias", token.IDENT) {
			return nil
		}
		stmt.Alias = &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	} else {
		stmt.Alias = &ast.Ident{Name: ModuleStem(stmt.Path.Value)}
	}
	return stmt
}

// ModuleStem returns the default import alias for a module path: the file
// name without its extension, with characters that cannot appear in an
// identifier replaced by underscores.
func ModuleStem(path string) string {
	base := filepath.Base(strings.TrimRight(path, "/"))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	var b strings.Builder
	for i := 0; i < len(base); i++ {
		ch := base[i]
		switch {
		case ch == '_' || 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z':
			b.WriteByte(ch)
		case '0' <= ch && ch <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteByte(ch)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func (p *Parser) parseExport() ast.Stmt {
	stmt := &ast.Export{ExportPos: p.curToken.StartPosition}
	p.nextToken()
	inner := p.parseStatement()
	if p.err != nil {
		return nil
	}
	stmt.Stmt = inner
	return stmt
}

func (p *Parser) parseTry() ast.Stmt {
	stmt := &ast.Try{TryPos: p.curToken.StartPosition}
	if !p.expectPeek("try statement", token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlock()
	if p.err != nil {
		return nil
	}
	if p.peekTokenIs(token.CATCH) {
		p.nextToken()
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			if !p.expectPeek("catch clause", token.IDENT) {
				return nil
			}
			stmt.CatchIdent = &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
			if !p.expectPeek("catch clause", token.RPAREN) {
				return nil
			}
		}
		if !p.expectPeek("catch block", token.LBRACE) {
			return nil
		}
		stmt.CatchBlock = p.parseBlock()
	}
	if p.err == nil && p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek("finally block", token.LBRACE) {
			return nil
		}
		stmt.FinallyBlock = p.parseBlock()
	}
	if p.err != nil {
		return nil
	}
	if stmt.CatchBlock == nil && stmt.FinallyBlock == nil {
		p.setTokenError(p.peekToken, "try statement requires a catch or finally block")
		return nil
	}
	return stmt
}

func (p *Parser) parseThrow() ast.Stmt {
	stmt := &ast.Throw{ThrowPos: p.curToken.StartPosition}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseAPI() ast.Stmt {
	stmt := &ast.API{APIPos: p.curToken.StartPosition}
	if !p.expectPeek("api declaration", token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if !p.expectPeek("api declaration", token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		switch {
		case p.curTokenIs(token.SEMICOLON), p.curTokenIs(token.COMMA):
		case p.curTokenIs(token.EOF):
			p.setTokenError(p.curToken, "unexpected end of input in api %s", stmt.Name.Name)
			return nil
		case p.curTokenIs(token.IDENT) && httpMethods[strings.ToUpper(p.curToken.Literal)]:
			route := &ast.Route{
				MethodPos: p.curToken.StartPosition,
				Method:    strings.ToUpper(p.curToken.Literal),
			}
			if !p.expectPeek("route path", token.STRING) {
				return nil
			}
			route.Path = p.curToken.Literal
			if !p.expectPeek("route", token.ARROW) {
				return nil
			}
			if !p.expectPeek("route handler", token.IDENT) {
				return nil
			}
			route.Handler = &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
			stmt.Routes = append(stmt.Routes, route)
		default:
			p.setTokenError(p.curToken, "unexpected %s in api %s (expected HTTP method)",
				tokenDescription(p.curToken), stmt.Name.Name)
			return nil
		}
		p.nextToken()
	}
	stmt.Rbrace = p.curToken.StartPosition
	return stmt
}

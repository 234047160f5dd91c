// Package parser is used to generate the abstract syntax tree (AST) for a
// Hexza program.
//
// A parser is created by calling New() with the tokens of a program. The parser
// should then be used only once, by calling parser.Parse() to produce the AST.
// Parsing stops at the first syntax error; no partial program is returned.
package parser

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza/ast"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/internal/lexer"
	"github.com/hexza-lang/hexza/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parse the provided input as Hexza source code and return the AST. This is
// shorthand way to lex the input and then call Parse on a new Parser.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	var probe Parser
	for _, opt := range options {
		opt(&probe)
	}
	lexOpts := []lexer.Option{lexer.WithFilename(probe.filename)}
	if probe.strict {
		lexOpts = append(lexOpts, lexer.WithStrict())
	}
	if probe.logger != nil {
		lexOpts = append(lexOpts, lexer.WithLogger(*probe.logger))
	}
	l := lexer.New(input, lexOpts...)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			code := errors.E1003
			if tok.Type == token.ILLEGAL && tok.Literal == "" {
				code = errors.E1002
			}
			return nil, NewSyntaxError(ErrorOpts{
				Code:          code,
				Cause:         err,
				File:          probe.filename,
				StartPosition: tok.StartPosition,
				EndPosition:   tok.EndPosition,
				SourceCode:    l.GetLineText(tok),
			})
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	options = append(options, WithSource(input))
	return New(tokens, options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in syntax errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithSource provides the source text the tokens were produced from, so
// syntax errors can show the offending line.
func WithSource(source string) Option {
	return func(p *Parser) {
		p.source = source
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithStrictLexing makes Parse reject unrecognized characters instead of
// dropping them.
func WithStrictLexing() Option {
	return func(p *Parser) {
		p.strict = true
	}
}

// WithLogger sets the logger handed to the lexer by Parse.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = &logger
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// tokens is the full token stream, terminated by EOF
	tokens []token.Token

	// pos is the index of curToken within tokens
	pos int

	// curToken holds the current token.
	curToken token.Token

	// peekToken holds the next token.
	peekToken token.Token

	// err is the first syntax error encountered
	err ParserError

	// prefixParseFns holds a map of parsing methods for
	// prefix-based syntax.
	prefixParseFns map[token.Type]prefixParseFn

	// infixParseFns holds a map of parsing methods for
	// infix-based syntax.
	infixParseFns map[token.Type]infixParseFn

	filename string
	source   string
	strict   bool
	logger   *zerolog.Logger

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the given tokens.
func New(tokens []token.Token, options ...Option) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		var end token.Position
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].EndPosition.Advance(1)
		}
		tokens = append(tokens, token.Token{Type: token.EOF, StartPosition: end, EndPosition: end})
	}
	p := &Parser{
		tokens:         tokens,
		pos:            -1,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	p.nextToken()

	// Register prefix-functions
	p.registerPrefix(token.AWAIT, p.parseAwait)
	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.LAMBDA, p.parseLambda)
	p.registerPrefix(token.LBRACE, p.parseMap)
	p.registerPrefix(token.LBRACKET, p.parseList)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.MULTILINE, p.parseString)
	p.registerPrefix(token.NEW, p.parseNew)
	p.registerPrefix(token.NOT, p.parsePrefixExpr)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.TILDE, p.parsePrefixExpr)
	p.registerPrefix(token.TRUE, p.parseBoolean)

	// Register infix functions
	for _, typ := range []token.Type{
		token.AMPERSAND, token.AND, token.ASTERISK, token.CARET, token.EQ,
		token.GT, token.GT_EQUALS, token.GT_GT, token.KW_AND, token.KW_OR,
		token.LT, token.LT_EQUALS, token.LT_LT, token.MINUS, token.MOD,
		token.NOT_EQ, token.OR, token.PIPE, token.PLUS, token.POW, token.SLASH,
	} {
		p.registerInfix(typ, p.parseInfixExpr)
	}
	p.registerInfix(token.ASSIGN, p.parseAssign)
	p.registerInfix(token.ASTERISK_EQUALS, p.parseAssign)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.MINUS_EQUALS, p.parseAssign)
	p.registerInfix(token.MINUS_MINUS, p.parsePostfix)
	p.registerInfix(token.PERIOD, p.parseMember)
	p.registerInfix(token.PLUS_EQUALS, p.parseAssign)
	p.registerInfix(token.PLUS_PLUS, p.parsePostfix)
	p.registerInfix(token.QUESTION, p.parseTernary)
	p.registerInfix(token.SLASH_EQUALS, p.parseAssign)
	return p
}

// nextToken advances to the next token. Past the end of the stream the
// EOF token is repeated.
func (p *Parser) nextToken() {
	p.pos++
	p.curToken = p.tokenAt(p.pos)
	p.peekToken = p.tokenAt(p.pos + 1)
}

func (p *Parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// Parse the program. The first syntax error aborts parsing and is returned
// without a partial program.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	var statements []ast.Stmt
	p.skipSemicolons()
	for !p.curTokenIs(token.EOF) {
		if p.cancelled() {
			return nil, ctx.Err()
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil, p.err
		}
		statements = append(statements, stmt)
		p.nextToken()
		p.skipSemicolons()
	}
	return &ast.Program{Stmts: statements}, nil
}

// registerPrefix registers a function for handling a prefix-based expression.
func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers a function for handling an infix-based expression.
func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) setError(err ParserError) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) lineText(tok token.Token) string {
	if p.source == "" {
		return ""
	}
	return lexer.LineText(p.source, tok.StartPosition)
}

func (p *Parser) setTokenError(tok token.Token, format string, args ...any) {
	code := errors.E1003
	if tok.Type == token.EOF {
		code = errors.E1004
	}
	p.setError(NewSyntaxError(ErrorOpts{
		Code:          code,
		Message:       fmt.Sprintf(format, args...),
		File:          p.filename,
		StartPosition: tok.StartPosition,
		EndPosition:   tok.EndPosition,
		SourceCode:    p.lineText(tok),
	}))
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	if t.Type == token.EOF {
		p.setTokenError(t, "unexpected end of input")
		return
	}
	p.setTokenError(t, "invalid syntax (unexpected %s)", tokenDescription(t))
}

// peekError records an error if the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	code := errors.E1001
	if got.Type == token.EOF {
		code = errors.E1004
	}
	p.setError(NewSyntaxError(ErrorOpts{
		Code: code,
		Message: fmt.Sprintf("unexpected %s while parsing %s (expected %s)",
			tokenDescription(got), context, tokenTypeDescription(expected)),
		File:          p.filename,
		StartPosition: got.StartPosition,
		EndPosition:   got.EndPosition,
		SourceCode:    p.lineText(got),
	}))
}

// cancelled checks if the parsing context has been cancelled.
func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return true
	default:
		return false
	}
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has the expected type, and records
// a syntax error otherwise.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.err != nil {
		return false
	}
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

// expectPeekName advances if the next token can be used as a name. Keywords
// are accepted so that members like "obj.default" work.
func (p *Parser) expectPeekName(context string) bool {
	if p.err != nil {
		return false
	}
	if p.peekTokenIs(token.IDENT) || token.IsKeyword(p.peekToken.Literal) {
		p.nextToken()
		return true
	}
	p.peekError(context, token.IDENT, p.peekToken)
	return false
}

func (p *Parser) skipSemicolons() {
	for p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

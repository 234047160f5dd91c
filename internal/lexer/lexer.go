// Package lexer converts Hexza source code into a stream of tokens.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hexza-lang/hexza/internal/token"
)

// escapes maps the characters that may follow a backslash in a quoted string
// to their replacement. Any other escaped character keeps its backslash.
var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
	'0':  0,
}

// Option is a configuration function for a Lexer.
type Option func(*Lexer)

// WithFilename sets the file name recorded in token positions.
func WithFilename(filename string) Option {
	return func(l *Lexer) {
		l.file = filename
	}
}

// WithStrict causes unrecognized characters to produce an error instead of
// being dropped.
func WithStrict() Option {
	return func(l *Lexer) {
		l.strict = true
	}
}

// WithLogger sets the logger used to report dropped characters.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Lexer) {
		l.logger = logger
	}
}

// Lexer holds our object-state.
type Lexer struct {
	input        string
	position     int  // byte offset of the current character
	readPosition int  // byte offset of the next character
	ch           rune // current character
	prev         token.Position
	line         int
	column       int
	lineStart    int
	file         string
	strict       bool
	logger       zerolog.Logger
	// lastType is the type of the previously emitted token. It is used to
	// keep "1.2.3" from lexing ".3" as a number.
	lastType token.Type
	lastEnd  int
}

// New creates a Lexer instance for the given input.
func New(input string, options ...Option) *Lexer {
	l := &Lexer{input: input, column: -1, logger: zerolog.Nop()}
	for _, opt := range options {
		opt(l)
	}
	l.readChar()
	return l
}

// Tokenize lexes the whole input. The returned slice always ends with an EOF
// token when the error is nil.
func Tokenize(input string, options ...Option) ([]token.Token, error) {
	l := New(input, options...)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// SetFilename sets the file name recorded in token positions.
func (l *Lexer) SetFilename(filename string) {
	l.file = filename
}

// Filename returns the file name recorded in token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// Next returns the next token from the input.
func (l *Lexer) Next() (token.Token, error) {
	tok, err := l.next()
	if err == nil {
		l.lastType = tok.Type
		l.lastEnd = l.position
	}
	return tok, err
}

func (l *Lexer) next() (token.Token, error) {
	for {
		l.skipWhitespace()
		if l.ch == '/' && l.peekChar() == '/' {
			l.skipLineComment()
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.skipBlockComment()
			continue
		}
		break
	}
	start := l.pos()
	switch {
	case l.ch == 0 && l.position >= len(l.input):
		return token.Token{Type: token.EOF, StartPosition: start, EndPosition: start}, nil
	case isDigit(l.ch):
		return l.readNumber(start), nil
	case l.ch == '.' && isDigit(l.peekChar()) && !l.followsNumber():
		return l.readNumber(start), nil
	case l.ch == '"' || l.ch == '\'':
		if l.peekChar() == l.ch && l.peekCharAt(2) == l.ch {
			return l.readMultiline(start)
		}
		return l.readString(start)
	case isLetter(l.ch):
		ident := l.readIdentifier()
		return token.Token{
			Type:          token.LookupIdentifier(ident),
			Literal:       ident,
			StartPosition: start,
			EndPosition:   l.prevPos(),
		}, nil
	}
	if l.readPosition < len(l.input) {
		if typ, ok := token.LookupOperator(l.input[l.position : l.readPosition+1]); ok {
			lit := l.input[l.position : l.readPosition+1]
			l.readChar()
			end := l.pos()
			l.readChar()
			return token.Token{Type: typ, Literal: lit, StartPosition: start, EndPosition: end}, nil
		}
	}
	if typ, ok := lookupChar(l.ch); ok {
		lit := string(l.ch)
		l.readChar()
		return token.Token{Type: typ, Literal: lit, StartPosition: start, EndPosition: start}, nil
	}
	ch := l.ch
	if l.strict {
		return token.Token{Type: token.ILLEGAL, Literal: string(ch), StartPosition: start, EndPosition: start},
			fmt.Errorf("unexpected character %q", ch)
	}
	l.logger.Debug().
		Str("char", string(ch)).
		Int("line", start.LineNumber()).
		Int("column", start.ColumnNumber()).
		Msg("dropping unrecognized character")
	l.readChar()
	return l.next()
}

// GetLineText returns the full line of source containing the given token.
func (l *Lexer) GetLineText(tok token.Token) string {
	return LineText(l.input, tok.StartPosition)
}

// LineText returns the line of input that contains the given position.
func LineText(input string, pos token.Position) string {
	if pos.LineStart > len(input) {
		return ""
	}
	rest := input[pos.LineStart:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimRight(rest, "\r")
}

func (l *Lexer) followsNumber() bool {
	return l.lastType == token.NUMBER && l.lastEnd == l.position
}

func (l *Lexer) pos() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.column,
		File:      l.file,
	}
}

// prevPos returns the position of the last character consumed.
func (l *Lexer) prevPos() token.Position {
	return l.prev
}

// readChar advances one character. Columns count characters, not bytes.
func (l *Lexer) readChar() {
	l.prev = l.pos()
	if l.ch == '\n' {
		l.line++
		l.column = -1
		l.lineStart = l.readPosition
	}
	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.readPosition++
	} else {
		r, width := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.readPosition += width
	}
	l.column++
}

func (l *Lexer) peekChar() rune {
	return l.peekCharAt(1)
}

// peekCharAt returns the character offset characters past the current one.
func (l *Lexer) peekCharAt(offset int) rune {
	idx := l.readPosition
	for ; offset > 1; offset-- {
		if idx >= len(l.input) {
			return 0
		}
		_, width := utf8.DecodeRuneInString(l.input[idx:])
		idx += width
	}
	if idx >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[idx:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.position < len(l.input) {
		l.readChar()
	}
}

func (l *Lexer) skipBlockComment() {
	l.readChar() // '/'
	l.readChar() // '*'
	for l.position < len(l.input) {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
}

func (l *Lexer) readNumber(start token.Position) token.Token {
	begin := l.position
	seenDot := false
	for isDigit(l.ch) || (l.ch == '.' && !seenDot && l.peekChar() != '.') {
		if l.ch == '.' {
			seenDot = true
		}
		l.readChar()
	}
	return token.Token{
		Type:          token.NUMBER,
		Literal:       l.input[begin:l.position],
		StartPosition: start,
		EndPosition:   l.prevPos(),
	}
}

func (l *Lexer) readIdentifier() string {
	begin := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[begin:l.position]
}

func (l *Lexer) readString(start token.Position) (token.Token, error) {
	quote := l.ch
	var out strings.Builder
	l.readChar()
	for l.ch != quote {
		if l.position >= len(l.input) {
			return token.Token{Type: token.ILLEGAL, StartPosition: start, EndPosition: l.pos()},
				fmt.Errorf("unterminated string literal")
		}
		if l.ch == '\\' {
			next := l.peekChar()
			if repl, ok := escapes[next]; ok {
				out.WriteRune(repl)
				l.readChar()
				l.readChar()
				continue
			}
			out.WriteByte('\\')
			l.readChar()
			continue
		}
		out.WriteRune(l.ch)
		l.readChar()
	}
	end := l.pos()
	l.readChar() // closing quote
	return token.Token{Type: token.STRING, Literal: out.String(), StartPosition: start, EndPosition: end}, nil
}

func (l *Lexer) readMultiline(start token.Position) (token.Token, error) {
	quote := l.ch
	delim := strings.Repeat(string(quote), 3)
	for i := 0; i < 3; i++ {
		l.readChar()
	}
	begin := l.position
	for !strings.HasPrefix(l.input[l.position:], delim) {
		if l.position >= len(l.input) {
			return token.Token{Type: token.ILLEGAL, StartPosition: start, EndPosition: l.pos()},
				fmt.Errorf("unterminated multiline string")
		}
		l.readChar()
	}
	text := l.input[begin:l.position]
	l.readChar()
	l.readChar()
	end := l.pos()
	l.readChar()
	return token.Token{Type: token.MULTILINE, Literal: text, StartPosition: start, EndPosition: end}, nil
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' ||
		ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

// isDigit accepts ASCII digits only; number literals are parsed with
// strconv.
func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func lookupChar(ch rune) (token.Type, bool) {
	if ch >= utf8.RuneSelf {
		return "", false
	}
	return token.LookupChar(byte(ch))
}

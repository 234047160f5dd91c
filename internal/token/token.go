// Package token defines language keywords and tokens used when lexing Hexza
// source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes on the same line.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	EOF       Type = "EOF"
	ILLEGAL   Type = "ILLEGAL"
	IDENT     Type = "IDENT"
	NUMBER    Type = "NUMBER"
	STRING    Type = "STRING"
	MULTILINE Type = "MULTILINE"

	// Operators
	ASSIGN          Type = "="
	PLUS            Type = "+"
	MINUS           Type = "-"
	ASTERISK        Type = "*"
	SLASH           Type = "/"
	MOD             Type = "%"
	POW             Type = "**"
	BANG            Type = "!"
	TILDE           Type = "~"
	AMPERSAND       Type = "&"
	PIPE            Type = "|"
	CARET           Type = "^"
	LT              Type = "<"
	GT              Type = ">"
	EQ              Type = "=="
	NOT_EQ          Type = "!="
	LT_EQUALS       Type = "<="
	GT_EQUALS       Type = ">="
	LT_LT           Type = "<<"
	GT_GT           Type = ">>"
	AND             Type = "&&"
	OR              Type = "||"
	ARROW           Type = "->"
	FAT_ARROW       Type = "=>"
	PLUS_PLUS       Type = "++"
	MINUS_MINUS     Type = "--"
	PLUS_EQUALS     Type = "+="
	MINUS_EQUALS    Type = "-="
	ASTERISK_EQUALS Type = "*="
	SLASH_EQUALS    Type = "/="
	RANGE           Type = ".."
	QUESTION        Type = "?"
	AT              Type = "@"
	DOLLAR          Type = "$"
	BACKTICK        Type = "`"

	// Delimiters
	COMMA     Type = ","
	SEMICOLON Type = ";"
	COLON     Type = ":"
	PERIOD    Type = "."
	LPAREN    Type = "("
	RPAREN    Type = ")"
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	LBRACKET  Type = "["
	RBRACKET  Type = "]"

	// Keywords
	IF       Type = "IF"
	ELSE     Type = "ELSE"
	ELSEIF   Type = "ELSEIF"
	WHILE    Type = "WHILE"
	FOR      Type = "FOR"
	BREAK    Type = "BREAK"
	CONTINUE Type = "CONTINUE"
	FUNC     Type = "FUNC"
	RETURN   Type = "RETURN"
	CLASS    Type = "CLASS"
	STRUCT   Type = "STRUCT"
	ENUM     Type = "ENUM"
	IMPORT   Type = "IMPORT"
	FROM     Type = "FROM"
	EXPORT   Type = "EXPORT"
	AS       Type = "AS"
	TRUE     Type = "TRUE"
	FALSE    Type = "FALSE"
	NULL     Type = "NULL"
	TRY      Type = "TRY"
	CATCH    Type = "CATCH"
	FINALLY  Type = "FINALLY"
	THROW    Type = "THROW"
	ASYNC    Type = "ASYNC"
	AWAIT    Type = "AWAIT"
	YIELD    Type = "YIELD"
	LAMBDA   Type = "LAMBDA"
	MATCH    Type = "MATCH"
	CASE     Type = "CASE"
	DEFAULT  Type = "DEFAULT"
	IN       Type = "IN"
	OF       Type = "OF"
	IS       Type = "IS"
	KW_AND   Type = "AND"
	KW_OR    Type = "OR"
	NOT      Type = "NOT"
	NEW      Type = "NEW"
	THIS     Type = "THIS"
	SUPER    Type = "SUPER"
	STATIC   Type = "STATIC"
	CONST    Type = "CONST"
	LET      Type = "LET"
	VAR      Type = "VAR"
	LOG      Type = "LOG"
	API      Type = "API"
	ROUTE    Type = "ROUTE"
	FASTFUNC Type = "FASTFUNC"
)

// Reserved keywords
var keywords = map[string]Type{
	"if":       IF,
	"else":     ELSE,
	"elseif":   ELSEIF,
	"while":    WHILE,
	"for":      FOR,
	"break":    BREAK,
	"continue": CONTINUE,
	"func":     FUNC,
	"return":   RETURN,
	"class":    CLASS,
	"struct":   STRUCT,
	"enum":     ENUM,
	"import":   IMPORT,
	"from":     FROM,
	"export":   EXPORT,
	"as":       AS,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"try":      TRY,
	"catch":    CATCH,
	"finally":  FINALLY,
	"throw":    THROW,
	"async":    ASYNC,
	"await":    AWAIT,
	"yield":    YIELD,
	"lambda":   LAMBDA,
	"match":    MATCH,
	"case":     CASE,
	"default":  DEFAULT,
	"in":       IN,
	"of":       OF,
	"is":       IS,
	"and":      KW_AND,
	"or":       KW_OR,
	"not":      NOT,
	"new":      NEW,
	"this":     THIS,
	"self":     THIS,
	"super":    SUPER,
	"static":   STATIC,
	"const":    CONST,
	"let":      LET,
	"var":      VAR,
	"log":      LOG,
	"api":      API,
	"route":    ROUTE,
	"fastfunc": FASTFUNC,
}

// twoCharOperators lists the operators the lexer matches before falling back
// to single character operators.
var twoCharOperators = map[string]Type{
	"==": EQ,
	"!=": NOT_EQ,
	"<=": LT_EQUALS,
	">=": GT_EQUALS,
	"**": POW,
	"->": ARROW,
	"=>": FAT_ARROW,
	"<<": LT_LT,
	">>": GT_GT,
	"++": PLUS_PLUS,
	"--": MINUS_MINUS,
	"+=": PLUS_EQUALS,
	"-=": MINUS_EQUALS,
	"*=": ASTERISK_EQUALS,
	"/=": SLASH_EQUALS,
	"&&": AND,
	"||": OR,
	"..": RANGE,
}

var singleCharOperators = map[byte]Type{
	'+': PLUS,
	'-': MINUS,
	'*': ASTERISK,
	'/': SLASH,
	'%': MOD,
	'=': ASSIGN,
	'<': LT,
	'>': GT,
	'!': BANG,
	'&': AMPERSAND,
	'|': PIPE,
	'^': CARET,
	'~': TILDE,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACKET,
	']': RBRACKET,
	',': COMMA,
	';': SEMICOLON,
	':': COLON,
	'.': PERIOD,
	'?': QUESTION,
	'@': AT,
	'$': DOLLAR,
	'`': BACKTICK,
}

// LookupIdentifier returns the keyword type for the identifier, or IDENT if
// the identifier is not reserved.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// LookupOperator returns the operator type for a two character sequence.
func LookupOperator(op string) (Type, bool) {
	tok, ok := twoCharOperators[op]
	return tok, ok
}

// LookupChar returns the operator or delimiter type for a single byte.
func LookupChar(ch byte) (Type, bool) {
	tok, ok := singleCharOperators[ch]
	return tok, ok
}

// IsKeyword reports whether the identifier is reserved.
func IsKeyword(identifier string) bool {
	_, ok := keywords[identifier]
	return ok
}

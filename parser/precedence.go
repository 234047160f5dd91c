package parser

import "github.com/hexza-lang/hexza/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= *= /=
	TERNARY     // ? :
	OR          // or ||
	AND         // and &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	BITWISE     // & | ^ << >>
	SUM         // + -
	PRODUCT     // * / %
	POWER       // **
	PREFIX      // -X !X not X ~X await X
	POSTFIX     // f(X) x[i] x.y x++
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_EQUALS:     ASSIGN,
	token.MINUS_EQUALS:    ASSIGN,
	token.ASTERISK_EQUALS: ASSIGN,
	token.SLASH_EQUALS:    ASSIGN,
	token.QUESTION:        TERNARY,
	token.OR:              OR,
	token.KW_OR:           OR,
	token.AND:             AND,
	token.KW_AND:          AND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.LT:              LESSGREATER,
	token.LT_EQUALS:       LESSGREATER,
	token.GT:              LESSGREATER,
	token.GT_EQUALS:       LESSGREATER,
	token.AMPERSAND:       BITWISE,
	token.PIPE:            BITWISE,
	token.CARET:           BITWISE,
	token.LT_LT:           BITWISE,
	token.GT_GT:           BITWISE,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.MOD:             PRODUCT,
	token.POW:             POWER,
	token.LPAREN:          POSTFIX,
	token.LBRACKET:        POSTFIX,
	token.PERIOD:          POSTFIX,
	token.PLUS_PLUS:       POSTFIX,
	token.MINUS_MINUS:     POSTFIX,
}

// Package robotfile provides lexer, parser, and AST for robot control programs.
package robotfile

import "fmt"

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Actions
	TokenMove
	TokenTakeFuel
	TokenTurnL
	TokenTurnR
	TokenWait
	TokenTurnAround
	TokenShieldOn
	TokenShieldOff

	// Control keywords
	TokenLoop
	TokenIf
	TokenElif
	TokenElse
	TokenWhile

	// Sensors
	TokenFuelLeft
	TokenOppLR
	TokenOppFB
	TokenNumBarrels
	TokenBarrelLR
	TokenBarrelFB
	TokenWallDist

	// Operators
	TokenAdd
	TokenSub
	TokenMul
	TokenDiv

	// Conditionals
	TokenLt
	TokenGt
	TokenEq
	TokenAnd
	TokenOr
	TokenNot

	// Literals
	TokenVar    // $name
	TokenNumber // -?[0-9]+

	// Punctuation
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenComma     // ,
	TokenSemicolon // ;
	TokenAssign    // =
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenIllegal:    "ILLEGAL",
	TokenMove:       "move",
	TokenTakeFuel:   "takeFuel",
	TokenTurnL:      "turnL",
	TokenTurnR:      "turnR",
	TokenWait:       "wait",
	TokenTurnAround: "turnAround",
	TokenShieldOn:   "shieldOn",
	TokenShieldOff:  "shieldOff",
	TokenLoop:       "loop",
	TokenIf:         "if",
	TokenElif:       "elif",
	TokenElse:       "else",
	TokenWhile:      "while",
	TokenFuelLeft:   "fuelLeft",
	TokenOppLR:      "oppLR",
	TokenOppFB:      "oppFB",
	TokenNumBarrels: "numBarrels",
	TokenBarrelLR:   "barrelLR",
	TokenBarrelFB:   "barrelFB",
	TokenWallDist:   "wallDist",
	TokenAdd:        "add",
	TokenSub:        "sub",
	TokenMul:        "mul",
	TokenDiv:        "div",
	TokenLt:         "lt",
	TokenGt:         "gt",
	TokenEq:         "eq",
	TokenAnd:        "and",
	TokenOr:         "or",
	TokenNot:        "not",
	TokenVar:        "VAR",
	TokenNumber:     "NUMBER",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
	TokenComma:      ",",
	TokenSemicolon:  ";",
	TokenAssign:     "=",
}

// String returns the string representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsAction reports whether the token names an action.
func (t TokenType) IsAction() bool {
	return t >= TokenMove && t <= TokenShieldOff
}

// IsExtendedAction reports whether the token is one of the actions that are
// only accepted when extended actions are enabled.
func (t TokenType) IsExtendedAction() bool {
	return t == TokenTurnAround || t == TokenShieldOn || t == TokenShieldOff
}

// IsSensor reports whether the token names a sensor.
func (t TokenType) IsSensor() bool {
	return t >= TokenFuelLeft && t <= TokenWallDist
}

// IsOperator reports whether the token names an arithmetic operator.
func (t TokenType) IsOperator() bool {
	return t >= TokenAdd && t <= TokenDiv
}

// IsCondition reports whether the token names a condition.
func (t TokenType) IsCondition() bool {
	return t >= TokenLt && t <= TokenNot
}

// Position is a line/column location in source text (both 1-indexed).
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a single token from the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// keywords maps keyword strings to their token types.
var keywords = map[string]TokenType{
	"move":       TokenMove,
	"takeFuel":   TokenTakeFuel,
	"turnL":      TokenTurnL,
	"turnR":      TokenTurnR,
	"wait":       TokenWait,
	"turnAround": TokenTurnAround,
	"shieldOn":   TokenShieldOn,
	"shieldOff":  TokenShieldOff,
	"loop":       TokenLoop,
	"if":         TokenIf,
	"elif":       TokenElif,
	"else":       TokenElse,
	"while":      TokenWhile,
	"fuelLeft":   TokenFuelLeft,
	"oppLR":      TokenOppLR,
	"oppFB":      TokenOppFB,
	"numBarrels": TokenNumBarrels,
	"barrelLR":   TokenBarrelLR,
	"barrelFB":   TokenBarrelFB,
	"wallDist":   TokenWallDist,
	"add":        TokenAdd,
	"sub":        TokenSub,
	"mul":        TokenMul,
	"div":        TokenDiv,
	"lt":         TokenLt,
	"gt":         TokenGt,
	"eq":         TokenEq,
	"and":        TokenAnd,
	"or":         TokenOr,
	"not":        TokenNot,
	"(":          TokenLParen,
	")":          TokenRParen,
	"{":          TokenLBrace,
	"}":          TokenRBrace,
	",":          TokenComma,
	";":          TokenSemicolon,
	"=":          TokenAssign,
}

// LookupLexeme classifies a whole lexeme against the pattern table.
// Lexemes that match no pattern are TokenIllegal.
func LookupLexeme(lexeme string) TokenType {
	if tok, ok := keywords[lexeme]; ok {
		return tok
	}
	if isVariable(lexeme) {
		return TokenVar
	}
	if isInteger(lexeme) {
		return TokenNumber
	}
	return TokenIllegal
}

// isVariable matches \$[A-Za-z][A-Za-z0-9]*
func isVariable(s string) bool {
	if len(s) < 2 || s[0] != '$' || !isLetter(s[1]) {
		return false
	}
	for i := 2; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// isInteger matches -?[0-9]+
func isInteger(s string) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

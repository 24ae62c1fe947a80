package robotfile

// Lexer tokenizes robot program source.
//
// Whitespace separates lexemes, and each of { } ( ) , ; is always a lexeme on
// its own, so "move(2);" yields four tokens. The lexer never fails: a lexeme
// that matches no pattern is returned as TokenIllegal for the parser to reject.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number (1-indexed)
	column       int  // current column number (1-indexed)
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := Position{Line: l.line, Column: l.column}

	if l.position >= len(l.input) {
		return Token{Type: TokenEOF, Pos: pos}
	}

	if isPunct(l.ch) {
		literal := string(l.ch)
		l.readChar()
		return Token{Type: LookupLexeme(literal), Literal: literal, Pos: pos}
	}

	start := l.position
	for l.position < len(l.input) && !isSpace(l.ch) && !isPunct(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.position]
	return Token{Type: LookupLexeme(literal), Literal: literal, Pos: pos}
}

// Tokenize reads the whole input. The returned slice always ends with a
// TokenEOF token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

// skipWhitespace skips whitespace, tracking line breaks.
func (l *Lexer) skipWhitespace() {
	for l.position < len(l.input) && isSpace(l.ch) {
		if l.ch == '\n' {
			l.readChar()
			l.line++
			l.column = 1
			continue
		}
		l.readChar()
	}
}

// Tokenize splits source into tokens.
func Tokenize(input string) []Token {
	return NewLexer(input).Tokenize()
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// isPunct reports whether ch always forms a token by itself.
func isPunct(ch byte) bool {
	switch ch {
	case '{', '}', '(', ')', ',', ';':
		return true
	}
	return false
}

// isLetter returns true if the byte is a letter.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if the byte is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

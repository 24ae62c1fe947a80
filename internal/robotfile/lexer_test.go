package robotfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func literals(tokens []Token) []string {
	var out []string
	for _, tok := range tokens {
		if tok.Type == TokenEOF {
			continue
		}
		out = append(out, tok.Literal)
	}
	return out
}

func TestLexer_PunctuationSplitsWithoutWhitespace(t *testing.T) {
	tokens := Tokenize("move(add(2,3));loop{turnL;}")
	assert.Equal(t, []string{
		"move", "(", "add", "(", "2", ",", "3", ")", ")", ";",
		"loop", "{", "turnL", ";", "}",
	}, literals(tokens))
}

func TestLexer_WhitespaceRuns(t *testing.T) {
	tokens := Tokenize("  \t wait \n\n\r  ;  ")
	assert.Equal(t, []string{"wait", ";"}, literals(tokens))
	assert.Equal(t, TokenEOF, tokens[len(tokens)-1].Type)
}

func TestLexer_NoEmptyTokens(t *testing.T) {
	for _, input := range []string{"", "   ", "(((", ";;\n;", "{ } ( ) , ;"} {
		for _, tok := range Tokenize(input) {
			if tok.Type != TokenEOF {
				assert.NotEmpty(t, tok.Literal, "input %q", input)
			}
		}
	}
}

func TestLexer_Classification(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"move", TokenMove},
		{"takeFuel", TokenTakeFuel},
		{"turnL", TokenTurnL},
		{"turnR", TokenTurnR},
		{"wait", TokenWait},
		{"turnAround", TokenTurnAround},
		{"loop", TokenLoop},
		{"if", TokenIf},
		{"elif", TokenElif},
		{"else", TokenElse},
		{"while", TokenWhile},
		{"fuelLeft", TokenFuelLeft},
		{"barrelFB", TokenBarrelFB},
		{"wallDist", TokenWallDist},
		{"div", TokenDiv},
		{"not", TokenNot},
		{"$x", TokenVar},
		{"$abc123", TokenVar},
		{"42", TokenNumber},
		{"-7", TokenNumber},
		{"=", TokenAssign},
		{"$", TokenIllegal},
		{"$1x", TokenIllegal},
		{"$a_b", TokenIllegal},
		{"-", TokenIllegal},
		{"4x", TokenIllegal},
		{"Move", TokenIllegal},
		{"$x=5", TokenIllegal},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := NewLexer(tt.input).NextToken()
			assert.Equal(t, tt.expected, tok.Type)
			assert.Equal(t, tt.input, tok.Literal)
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	tokens := Tokenize("move;\n  turnL;")
	require.Len(t, tokens, 5)
	assert.Equal(t, Position{Line: 1, Column: 1}, tokens[0].Pos)
	assert.Equal(t, Position{Line: 1, Column: 5}, tokens[1].Pos)
	assert.Equal(t, Position{Line: 2, Column: 3}, tokens[2].Pos)
	assert.Equal(t, Position{Line: 2, Column: 8}, tokens[3].Pos)
}

func TestTokenType_Groups(t *testing.T) {
	assert.True(t, TokenMove.IsAction())
	assert.True(t, TokenShieldOff.IsAction())
	assert.True(t, TokenShieldOff.IsExtendedAction())
	assert.False(t, TokenMove.IsExtendedAction())
	assert.False(t, TokenLoop.IsAction())
	assert.True(t, TokenWallDist.IsSensor())
	assert.True(t, TokenMul.IsOperator())
	assert.True(t, TokenNot.IsCondition())
	assert.False(t, TokenVar.IsCondition())
	assert.Equal(t, "barrelLR", TokenBarrelLR.String())
	assert.Equal(t, ";", TokenSemicolon.String())
}

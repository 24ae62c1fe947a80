package robotfile

import (
	"fmt"
	"strconv"
)

// Parser parses robot program tokens into an AST.
type Parser struct {
	tokens   []Token
	pos      int
	extended bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithExtendedActions accepts turnAround, shieldOn and shieldOff.
func WithExtendedActions() Option {
	return func(p *Parser) {
		p.extended = true
	}
}

// NewParser creates a new parser over the given tokens. A missing trailing
// EOF token is added.
func NewParser(tokens []Token, opts ...Option) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		var pos Position
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens[:len(tokens):len(tokens)], Token{Type: TokenEOF, Pos: pos})
	}
	p := &Parser{tokens: tokens}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// peek returns the token under the cursor without consuming it.
func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

// next consumes and returns the token under the cursor. EOF is never consumed.
func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

// check reports whether the next token has type t.
func (p *Parser) check(t TokenType) bool {
	return p.peek().Type == t
}

// checkFor consumes the next token if it has type t.
func (p *Parser) checkFor(t TokenType) bool {
	if p.check(t) {
		p.next()
		return true
	}
	return false
}

// require consumes a token of type t or fails with "expected t <where>".
func (p *Parser) require(t TokenType, where string) (Token, error) {
	if p.check(t) {
		return p.next(), nil
	}
	return Token{}, p.unexpected(fmt.Sprintf("'%s' %s", t, where))
}

// unexpected builds the error for a token that does not fit the current rule.
func (p *Parser) unexpected(want string) *ParseError {
	tok := p.peek()
	if tok.Type == TokenEOF {
		return p.fail(fmt.Sprintf("expected %s, got end of input", want), ErrUnexpectedEOF)
	}
	return p.fail(fmt.Sprintf("expected %s, got %q", want, tok.Literal), ErrUnexpectedToken)
}

// fail builds a ParseError positioned at the cursor, carrying up to five of
// the remaining tokens.
func (p *Parser) fail(msg string, cause error) *ParseError {
	var ctx []string
	for i := p.pos; i < len(p.tokens) && len(ctx) < contextTokens; i++ {
		if p.tokens[i].Type == TokenEOF {
			break
		}
		ctx = append(ctx, p.tokens[i].Literal)
	}
	return &ParseError{
		Message: msg,
		Context: ctx,
		Pos:     p.peek().Pos,
		Cause:   cause,
	}
}

// Parse parses the token stream and returns the program AST.
func (p *Parser) Parse() (*Program, error) {
	prog := &Program{}

	if p.check(TokenEOF) {
		return nil, p.fail("program cannot be empty", ErrEmptyProgram)
	}

	for !p.check(TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

// parseStatement parses: Action ';' | Loop | If | While | Assign
func (p *Parser) parseStatement() (Statement, error) {
	tok := p.peek()
	switch {
	case tok.Type.IsAction():
		return p.parseAction()
	case tok.Type == TokenLoop:
		return p.parseLoop()
	case tok.Type == TokenIf:
		return p.parseIf()
	case tok.Type == TokenWhile:
		return p.parseWhile()
	case tok.Type == TokenVar:
		return p.parseAssign()
	case tok.Type == TokenEOF:
		return nil, p.fail("expected statement, got end of input", ErrUnexpectedEOF)
	default:
		return nil, p.fail(fmt.Sprintf("unknown statement %q", tok.Literal), ErrUnexpectedToken)
	}
}

// parseAction parses: ('move' | 'wait') ['(' Expr ')'] ';' | 'takeFuel' ';' | 'turnL' ';' | 'turnR' ';'
func (p *Parser) parseAction() (Statement, error) {
	tok := p.peek()
	if tok.Type.IsExtendedAction() && !p.extended {
		return nil, p.fail(fmt.Sprintf("unknown action %q", tok.Literal), ErrUnexpectedToken)
	}
	p.next() // consume action

	var stmt Statement
	switch tok.Type {
	case TokenMove, TokenWait:
		count, err := p.parseOptionalArg(tok.Literal)
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenMove {
			stmt = &Move{Count: count, Pos: tok.Pos}
		} else {
			stmt = &Wait{Count: count, Pos: tok.Pos}
		}
	case TokenTakeFuel:
		stmt = &TakeFuel{Pos: tok.Pos}
	case TokenTurnL:
		stmt = &TurnLeft{Pos: tok.Pos}
	case TokenTurnR:
		stmt = &TurnRight{Pos: tok.Pos}
	case TokenTurnAround:
		stmt = &TurnAround{Pos: tok.Pos}
	case TokenShieldOn:
		stmt = &ShieldOn{Pos: tok.Pos}
	case TokenShieldOff:
		stmt = &ShieldOff{Pos: tok.Pos}
	}

	if _, err := p.require(TokenSemicolon, "after "+tok.Literal); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseOptionalArg parses: ['(' Expr ')']
// Returns nil when no argument is present.
func (p *Parser) parseOptionalArg(name string) (Expr, error) {
	if !p.checkFor(TokenLParen) {
		return nil, nil
	}
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.require(TokenRParen, "after "+name+" argument"); err != nil {
		return nil, err
	}
	return arg, nil
}

// parseLoop parses: 'loop' Block
func (p *Parser) parseLoop() (Statement, error) {
	tok := p.next() // consume loop
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &Loop{Body: body, Pos: tok.Pos}, nil
}

// parseIf parses: 'if' '(' Cond ')' Block ('elif' '(' Cond ')' Block)* ['else' Block]
func (p *Parser) parseIf() (Statement, error) {
	tok := p.next() // consume if

	cond, then, err := p.parseGuardedBlock("if")
	if err != nil {
		return nil, err
	}
	stmt := &If{Cond: cond, Then: then, Pos: tok.Pos}

	for p.checkFor(TokenElif) {
		cond, body, err := p.parseGuardedBlock("elif")
		if err != nil {
			return nil, err
		}
		stmt.Elifs = append(stmt.Elifs, Elif{Cond: cond, Body: body})
	}

	if p.checkFor(TokenElse) {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = body
	}

	return stmt, nil
}

// parseWhile parses: 'while' '(' Cond ')' Block
func (p *Parser) parseWhile() (Statement, error) {
	tok := p.next() // consume while
	cond, body, err := p.parseGuardedBlock("while")
	if err != nil {
		return nil, err
	}
	return &While{Cond: cond, Body: body, Pos: tok.Pos}, nil
}

// parseGuardedBlock parses: '(' Cond ')' Block
func (p *Parser) parseGuardedBlock(keyword string) (Cond, *Block, error) {
	if _, err := p.require(TokenLParen, "after "+keyword); err != nil {
		return nil, nil, err
	}
	cond, err := p.parseCond()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.require(TokenRParen, "after "+keyword+" condition"); err != nil {
		return nil, nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, nil, err
	}
	return cond, body, nil
}

// parseAssign parses: Variable '=' Expr ';'
func (p *Parser) parseAssign() (Statement, error) {
	tok := p.next() // consume variable

	if _, err := p.require(TokenAssign, "after variable "+tok.Literal); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.require(TokenSemicolon, "after assignment"); err != nil {
		return nil, err
	}
	return &Assign{Name: tok.Literal, Value: value, Pos: tok.Pos}, nil
}

// parseBlock parses: '{' Statement+ '}'
func (p *Parser) parseBlock() (*Block, error) {
	open, err := p.require(TokenLBrace, "to open block")
	if err != nil {
		return nil, err
	}

	block := &Block{Pos: open.Pos}
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}

	if len(block.Statements) == 0 {
		return nil, p.fail("block cannot be empty", ErrEmptyBlock)
	}

	if _, err := p.require(TokenRBrace, "to close block"); err != nil {
		return nil, err
	}
	return block, nil
}

// parseExpr parses: Integer | Sensor | Variable | Op
func (p *Parser) parseExpr() (Expr, error) {
	tok := p.peek()
	switch {
	case tok.Type == TokenNumber:
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, p.fail(fmt.Sprintf("integer %s out of range", tok.Literal), ErrBadInteger)
		}
		p.next()
		return &Number{Value: n}, nil
	case tok.Type.IsSensor():
		return p.parseSensor()
	case tok.Type == TokenVar:
		p.next()
		return &Var{Name: tok.Literal}, nil
	case tok.Type.IsOperator():
		return p.parseOp()
	default:
		return nil, p.unexpected("expression")
	}
}

var sensorKinds = map[TokenType]SensorKind{
	TokenFuelLeft:   SensorFuelLeft,
	TokenOppLR:      SensorOppLR,
	TokenOppFB:      SensorOppFB,
	TokenNumBarrels: SensorNumBarrels,
	TokenBarrelLR:   SensorBarrelLR,
	TokenBarrelFB:   SensorBarrelFB,
	TokenWallDist:   SensorWallDist,
}

// parseSensor parses: 'fuelLeft' | 'oppLR' | 'oppFB' | 'numBarrels' | 'wallDist'
// | ('barrelLR' | 'barrelFB') ['(' Expr ')']
func (p *Parser) parseSensor() (Expr, error) {
	tok := p.next() // consume sensor
	kind := sensorKinds[tok.Type]
	sensor := &Sensor{Kind: kind}
	if kind.TakesArg() {
		arg, err := p.parseOptionalArg(tok.Literal)
		if err != nil {
			return nil, err
		}
		sensor.Arg = arg
	}
	return sensor, nil
}

var operators = map[TokenType]Operator{
	TokenAdd: OpAdd,
	TokenSub: OpSub,
	TokenMul: OpMul,
	TokenDiv: OpDiv,
}

// parseOp parses: ('add'|'sub'|'mul'|'div') '(' Expr ',' Expr ')'
func (p *Parser) parseOp() (Expr, error) {
	tok := p.next() // consume operator
	left, right, err := p.parseExprPair(tok.Literal)
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Op: operators[tok.Type], Left: left, Right: right}, nil
}

// parseExprPair parses: '(' Expr ',' Expr ')'
func (p *Parser) parseExprPair(name string) (Expr, Expr, error) {
	if _, err := p.require(TokenLParen, "after "+name); err != nil {
		return nil, nil, err
	}
	left, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.require(TokenComma, "between "+name+" arguments"); err != nil {
		return nil, nil, err
	}
	right, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.require(TokenRParen, "after "+name+" arguments"); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

var comparisons = map[TokenType]Comparison{
	TokenLt: CmpLt,
	TokenGt: CmpGt,
	TokenEq: CmpEq,
}

// parseCond parses: ('lt'|'gt'|'eq') '(' Expr ',' Expr ')'
// | ('and'|'or') '(' Cond ',' Cond ')' | 'not' '(' Cond ')'
func (p *Parser) parseCond() (Cond, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenLt, TokenGt, TokenEq:
		p.next()
		left, right, err := p.parseExprPair(tok.Literal)
		if err != nil {
			return nil, err
		}
		return &Compare{Op: comparisons[tok.Type], Left: left, Right: right}, nil
	case TokenAnd, TokenOr:
		p.next()
		if _, err := p.require(TokenLParen, "after "+tok.Literal); err != nil {
			return nil, err
		}
		left, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		if _, err := p.require(TokenComma, "between "+tok.Literal+" arguments"); err != nil {
			return nil, err
		}
		right, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		if _, err := p.require(TokenRParen, "after "+tok.Literal+" arguments"); err != nil {
			return nil, err
		}
		if tok.Type == TokenAnd {
			return &And{Left: left, Right: right}, nil
		}
		return &Or{Left: left, Right: right}, nil
	case TokenNot:
		p.next()
		if _, err := p.require(TokenLParen, "after not"); err != nil {
			return nil, err
		}
		inner, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		if _, err := p.require(TokenRParen, "after not argument"); err != nil {
			return nil, err
		}
		return &Not{Cond: inner}, nil
	default:
		return nil, p.unexpected("condition")
	}
}

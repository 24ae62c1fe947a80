package robotfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ignorePos compares ASTs structurally, ignoring source positions.
var ignorePos = cmp.FilterPath(func(p cmp.Path) bool {
	sf, ok := p.Last().(cmp.StructField)
	return ok && sf.Name() == "Pos"
}, cmp.Ignore())

func mustParse(t *testing.T, input string, opts ...Option) *Program {
	t.Helper()
	prog, err := ParseString(input, opts...)
	require.NoError(t, err)
	return prog
}

func parseErr(t *testing.T, input string, opts ...Option) *ParseError {
	t.Helper()
	_, err := ParseString(input, opts...)
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
	return perr
}

func TestParser_Actions(t *testing.T) {
	prog := mustParse(t, "move; turnL; turnR; takeFuel; wait; move(3); wait(fuelLeft);")

	want := []Statement{
		&Move{},
		&TurnLeft{},
		&TurnRight{},
		&TakeFuel{},
		&Wait{},
		&Move{Count: &Number{Value: 3}},
		&Wait{Count: &Sensor{Kind: SensorFuelLeft}},
	}
	if diff := cmp.Diff(want, prog.Statements, ignorePos); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_StatementCount(t *testing.T) {
	tests := []struct {
		input string
		count int
	}{
		{"move;", 1},
		{"move; turnL;", 2},
		{"loop { move; turnL; }", 1},
		{"$x = 1; while (lt($x, 3)) { $x = add($x, 1); } wait;", 3},
		{"if (eq(1, 1)) { move; } elif (gt(2, 1)) { wait; } else { turnR; } takeFuel;", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := mustParse(t, tt.input)
			assert.Len(t, prog.Statements, tt.count)
		})
	}
}

func TestParser_Expressions(t *testing.T) {
	prog := mustParse(t, "$a = sub(mul(barrelLR(1), 2), div(barrelFB, -4));")

	want := &Assign{
		Name: "$a",
		Value: &BinaryOp{
			Op: OpSub,
			Left: &BinaryOp{
				Op:    OpMul,
				Left:  &Sensor{Kind: SensorBarrelLR, Arg: &Number{Value: 1}},
				Right: &Number{Value: 2},
			},
			Right: &BinaryOp{
				Op:    OpDiv,
				Left:  &Sensor{Kind: SensorBarrelFB},
				Right: &Number{Value: -4},
			},
		},
	}
	require.Len(t, prog.Statements, 1)
	if diff := cmp.Diff(want, prog.Statements[0], ignorePos); diff != "" {
		t.Errorf("assign mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_Conditions(t *testing.T) {
	prog := mustParse(t, "while (or(and(lt(oppLR, 0), gt(oppFB, 2)), not(eq(wallDist, numBarrels)))) { wait; }")

	want := &While{
		Cond: &Or{
			Left: &And{
				Left:  &Compare{Op: CmpLt, Left: &Sensor{Kind: SensorOppLR}, Right: &Number{Value: 0}},
				Right: &Compare{Op: CmpGt, Left: &Sensor{Kind: SensorOppFB}, Right: &Number{Value: 2}},
			},
			Right: &Not{
				Cond: &Compare{Op: CmpEq, Left: &Sensor{Kind: SensorWallDist}, Right: &Sensor{Kind: SensorNumBarrels}},
			},
		},
		Body: &Block{Statements: []Statement{&Wait{}}},
	}
	if diff := cmp.Diff(want, prog.Statements[0], ignorePos); diff != "" {
		t.Errorf("while mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_ElifChain(t *testing.T) {
	prog := mustParse(t, `
if (lt($a, 1)) { move; }
elif (lt($a, 2)) { turnL; }
elif (lt($a, 3)) { turnR; }
else { wait; }`)

	require.Len(t, prog.Statements, 1)
	stmt, ok := prog.Statements[0].(*If)
	require.True(t, ok)
	require.Len(t, stmt.Elifs, 2)
	assert.IsType(t, &TurnLeft{}, stmt.Elifs[0].Body.Statements[0])
	assert.IsType(t, &TurnRight{}, stmt.Elifs[1].Body.Statements[0])
	assert.Equal(t, "lt($a, 3)", stmt.Elifs[1].Cond.String())
	require.NotNil(t, stmt.Else)
	assert.IsType(t, &Wait{}, stmt.Else.Statements[0])
}

func TestParser_IfWithoutElse(t *testing.T) {
	prog := mustParse(t, "if (eq(1, 1)) { move; }")
	stmt := prog.Statements[0].(*If)
	assert.Empty(t, stmt.Elifs)
	assert.Nil(t, stmt.Else)
}

func TestParser_EmptyBlock(t *testing.T) {
	inputs := []string{
		"loop { }",
		"loop {}",
		"while (lt($x, 5)) { }",
		"if (eq(1, 1)) { } else { move; }",
		"if (eq(1, 1)) { move; } elif (eq(1, 2)) {}",
		"if (eq(1, 1)) { move; } else { }",
		"loop { loop { } }",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			perr := parseErr(t, input)
			assert.ErrorIs(t, perr, ErrEmptyBlock)
			assert.Contains(t, perr.Message, "block cannot be empty")
			require.NotEmpty(t, perr.Context)
			assert.Equal(t, "}", perr.Context[0])
		})
	}
}

func TestParser_EmptyProgram(t *testing.T) {
	for _, input := range []string{"", "   \n\t "} {
		perr := parseErr(t, input)
		assert.ErrorIs(t, perr, ErrEmptyProgram)
	}
}

func TestParser_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		cause   error
		message string
	}{
		{"missing semicolon", "move turnL;", ErrUnexpectedToken, "expected ';' after move"},
		{"missing semicolon at end", "move", ErrUnexpectedEOF, "got end of input"},
		{"unknown statement", "jump;", ErrUnexpectedToken, `unknown statement "jump"`},
		{"unclosed paren", "move(3;", ErrUnexpectedToken, "expected ')' after move argument"},
		{"bad expression", "move(lt);", ErrUnexpectedToken, "expected expression"},
		{"bad condition", "while (5) { move; }", ErrUnexpectedToken, "expected condition"},
		{"missing comma", "$x = add(1 2);", ErrUnexpectedToken, "expected ',' between add arguments"},
		{"unterminated block", "loop { move;", ErrUnexpectedEOF, "got end of input"},
		{"missing assign", "$x 5;", ErrUnexpectedToken, "expected '=' after variable $x"},
		{"sensor as statement", "fuelLeft;", ErrUnexpectedToken, `unknown statement "fuelLeft"`},
		{"illegal variable", "$1 = 2;", ErrUnexpectedToken, `unknown statement "$1"`},
		{"turn takes no argument", "turnL(2);", ErrUnexpectedToken, "expected ';' after turnL"},
		{"integer overflow", "move(99999999999999999999999);", ErrBadInteger, "out of range"},
		{"extended action disabled", "turnAround;", ErrUnexpectedToken, `unknown action "turnAround"`},
		{"stray close brace", "move; }", ErrUnexpectedToken, `unknown statement "}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseErr(t, tt.input)
			assert.ErrorIs(t, perr, tt.cause)
			assert.Contains(t, perr.Message, tt.message)
		})
	}
}

func TestParseError_Context(t *testing.T) {
	perr := parseErr(t, "$x = 0; loop { } while ( lt ( $x , 5 ) ) { move; }")

	assert.Equal(t, []string{"}", "while", "(", "lt", "("}, perr.Context)
	assert.Equal(t, Position{Line: 1, Column: 16}, perr.Pos)
	assert.Equal(t, "line 1, col 16: block cannot be empty\n   @ ... } while ( lt (...", perr.Error())
}

func TestParseError_ContextShortTail(t *testing.T) {
	perr := parseErr(t, "move(2")
	assert.Empty(t, perr.Context)
	assert.True(t, strings.HasSuffix(perr.Error(), "\n   @ ......"))
}

func TestParser_ExtendedActions(t *testing.T) {
	prog := mustParse(t, "turnAround; shieldOn; move; shieldOff;", WithExtendedActions())

	want := []Statement{&TurnAround{}, &ShieldOn{}, &Move{}, &ShieldOff{}}
	if diff := cmp.Diff(want, prog.Statements, ignorePos); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_Deterministic(t *testing.T) {
	src := `
$n = 0;
loop {
	if (gt(numBarrels, 0)) {
		while (not(eq(barrelFB(0), 0))) { move; }
		takeFuel;
	} elif (lt(fuelLeft, 10)) {
		wait(2);
	} else {
		$n = add($n, 1);
		turnR;
	}
}`
	tokens := Tokenize(src)
	first, err := NewParser(tokens).Parse()
	require.NoError(t, err)
	second, err := NewParser(tokens).Parse()
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestParser_RoundTrip(t *testing.T) {
	inputs := []string{
		"move;",
		"move(add(2,3));turnL;turnR;takeFuel;wait(-1);",
		"$x = add($y, 1); wait($x);",
		"loop { if (lt(fuelLeft, 5)) { takeFuel; } elif (gt(oppLR, 0)) { turnR; } elif (lt(oppLR, 0)) { turnL; } else { move(wallDist); } }",
		"while (and(lt($i, 3), or(not(eq($i, 7)), gt(barrelLR(2), barrelFB)))) { $i = add($i, 1); loop { wait; } }",
		"if (eq(div(10, 3), mul(sub(0, 1), -3))) { move; }",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			prog := mustParse(t, input)
			rendered := prog.String()

			again, err := ParseString(rendered)
			require.NoError(t, err, "rendered:\n%s", rendered)
			if diff := cmp.Diff(prog.Statements, again.Statements, ignorePos); diff != "" {
				t.Errorf("round trip mismatch (-first +second):\n%s\nrendered:\n%s", diff, rendered)
			}
			assert.Equal(t, rendered, again.String())
		})
	}
}

func TestProgram_StringFormat(t *testing.T) {
	prog := mustParse(t, "loop { if (lt($x, 1)) { move(2); } else { wait; } $x = 1; }")

	want := "loop {\n" +
		"\tif (lt($x, 1)) {\n" +
		"\t\tmove(2);\n" +
		"\t} else {\n" +
		"\t\twait;\n" +
		"\t}\n" +
		"\t$x = 1;\n" +
		"}\n"
	assert.Equal(t, want, prog.String())
}

func TestProgram_Variables(t *testing.T) {
	prog := mustParse(t, "$x = add($y, 1); while (lt($i, $x)) { $i = add($i, 1); } wait($x);")
	assert.Equal(t, []string{"$x", "$y", "$i"}, prog.Variables())
}

func TestInspect_SkipChildren(t *testing.T) {
	prog := mustParse(t, "loop { move(3); } wait(4);")

	var numbers []int
	Inspect(prog, func(n Node) bool {
		if _, ok := n.(*Loop); ok {
			return false
		}
		if num, ok := n.(*Number); ok {
			numbers = append(numbers, num.Value)
		}
		return true
	})
	assert.Equal(t, []int{4}, numbers)
}

func TestDescribe(t *testing.T) {
	prog := mustParse(t, "if (lt(barrelLR, 2)) { move; } else { $x = 3; }")
	tree := Describe(prog)

	assert.Equal(t, "program", tree.Kind)
	require.Len(t, tree.Children, 1)
	ifTree := tree.Children[0]
	assert.Equal(t, "if", ifTree.Kind)
	assert.Equal(t, 1, ifTree.Line)
	require.Len(t, ifTree.Children, 3)
	assert.Equal(t, "cmp", ifTree.Children[0].Kind)
	assert.Equal(t, "lt", ifTree.Children[0].Value)
	assert.Equal(t, "else", ifTree.Children[2].Kind)
	assign := ifTree.Children[2].Children[0].Children[0]
	assert.Equal(t, "assign", assign.Kind)
	assert.Equal(t, "$x", assign.Value)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot.robot")
	require.NoError(t, os.WriteFile(path, []byte("move;\nturnAround;\n"), 0644))

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrUnexpectedToken)

	prog, err := LoadFileWithOptions(path, LoadOptions{ExtendedActions: true})
	require.NoError(t, err)
	assert.Equal(t, path, prog.Name)
	assert.Len(t, prog.Statements, 2)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.robot"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to read program")
}

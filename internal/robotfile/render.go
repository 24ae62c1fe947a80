package robotfile

import (
	"strconv"
	"strings"
)

// String renders the program in canonical form: one statement per line,
// block contents indented by one tab per nesting level. The output parses
// back to a structurally equal program.
func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		writeStatement(&sb, s, 0)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Block) String() string {
	var sb strings.Builder
	writeBlock(&sb, b, 0)
	return sb.String()
}

func (m *Move) String() string { return renderStatement(m) }
func (w *Wait) String() string { return renderStatement(w) }
func (*TurnLeft) String() string { return "turnL;" }
func (*TurnRight) String() string { return "turnR;" }
func (*TakeFuel) String() string { return "takeFuel;" }
func (*TurnAround) String() string { return "turnAround;" }
func (*ShieldOn) String() string { return "shieldOn;" }
func (*ShieldOff) String() string { return "shieldOff;" }
func (l *Loop) String() string { return renderStatement(l) }
func (i *If) String() string { return renderStatement(i) }
func (w *While) String() string { return renderStatement(w) }
func (a *Assign) String() string { return renderStatement(a) }
func (n *Number) String() string { return strconv.Itoa(n.Value) }
func (v *Var) String() string { return v.Name }
func (o *BinaryOp) String() string { return call(o.Op.String(), o.Left, o.Right) }
func (c *Compare) String() string { return call(c.Op.String(), c.Left, c.Right) }
func (a *And) String() string { return call("and", a.Left, a.Right) }
func (o *Or) String() string { return call("or", o.Left, o.Right) }
func (n *Not) String() string { return call("not", n.Cond) }

func (s *Sensor) String() string {
	if s.Arg == nil {
		return s.Kind.String()
	}
	return call(s.Kind.String(), s.Arg)
}

func renderStatement(s Statement) string {
	var sb strings.Builder
	writeStatement(&sb, s, 0)
	return sb.String()
}

// call renders name(arg, arg, ...).
func call(name string, args ...Node) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// writeStatement writes s without a trailing newline. depth is the nesting
// level of the line s starts on; it only affects nested blocks.
func writeStatement(sb *strings.Builder, s Statement, depth int) {
	switch s := s.(type) {
	case *Move:
		writeCountedAction(sb, "move", s.Count)
	case *Wait:
		writeCountedAction(sb, "wait", s.Count)
	case *Loop:
		sb.WriteString("loop ")
		writeBlock(sb, s.Body, depth)
	case *If:
		sb.WriteString("if (")
		sb.WriteString(s.Cond.String())
		sb.WriteString(") ")
		writeBlock(sb, s.Then, depth)
		for _, elif := range s.Elifs {
			sb.WriteString(" elif (")
			sb.WriteString(elif.Cond.String())
			sb.WriteString(") ")
			writeBlock(sb, elif.Body, depth)
		}
		if s.Else != nil {
			sb.WriteString(" else ")
			writeBlock(sb, s.Else, depth)
		}
	case *While:
		sb.WriteString("while (")
		sb.WriteString(s.Cond.String())
		sb.WriteString(") ")
		writeBlock(sb, s.Body, depth)
	case *Assign:
		sb.WriteString(s.Name)
		sb.WriteString(" = ")
		sb.WriteString(s.Value.String())
		sb.WriteByte(';')
	case *Block:
		writeBlock(sb, s, depth)
	default:
		sb.WriteString(s.String())
	}
}

func writeCountedAction(sb *strings.Builder, name string, count Expr) {
	sb.WriteString(name)
	if count != nil {
		sb.WriteByte('(')
		sb.WriteString(count.String())
		sb.WriteByte(')')
	}
	sb.WriteByte(';')
}

func writeBlock(sb *strings.Builder, b *Block, depth int) {
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		sb.WriteString(strings.Repeat("\t", depth+1))
		writeStatement(sb, s, depth+1)
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat("\t", depth))
	sb.WriteByte('}')
}

package robotfile

import "strconv"

// Tree is a generic description of an AST node, used for structured exports
// (YAML, JSON) of a parsed program.
type Tree struct {
	Kind     string  `yaml:"kind" json:"kind"`
	Value    string  `yaml:"value,omitempty" json:"value,omitempty"`
	Line     int     `yaml:"line,omitempty" json:"line,omitempty"`
	Children []*Tree `yaml:"children,omitempty" json:"children,omitempty"`
}

// Describe converts a node and its subtree into a Tree.
func Describe(n Node) *Tree {
	switch n := n.(type) {
	case *Program:
		t := &Tree{Kind: "program", Value: n.Name}
		for _, s := range n.Statements {
			t.Children = append(t.Children, Describe(s))
		}
		return t
	case *Block:
		t := &Tree{Kind: "block", Line: n.Pos.Line}
		for _, s := range n.Statements {
			t.Children = append(t.Children, Describe(s))
		}
		return t
	case *Move:
		return counted("move", n.Count, n.Pos)
	case *Wait:
		return counted("wait", n.Count, n.Pos)
	case *TurnLeft:
		return &Tree{Kind: "turnL", Line: n.Pos.Line}
	case *TurnRight:
		return &Tree{Kind: "turnR", Line: n.Pos.Line}
	case *TakeFuel:
		return &Tree{Kind: "takeFuel", Line: n.Pos.Line}
	case *TurnAround:
		return &Tree{Kind: "turnAround", Line: n.Pos.Line}
	case *ShieldOn:
		return &Tree{Kind: "shieldOn", Line: n.Pos.Line}
	case *ShieldOff:
		return &Tree{Kind: "shieldOff", Line: n.Pos.Line}
	case *Loop:
		return &Tree{Kind: "loop", Line: n.Pos.Line, Children: []*Tree{Describe(n.Body)}}
	case *If:
		t := &Tree{Kind: "if", Line: n.Pos.Line}
		t.Children = append(t.Children, Describe(n.Cond), Describe(n.Then))
		for _, elif := range n.Elifs {
			t.Children = append(t.Children, &Tree{
				Kind:     "elif",
				Children: []*Tree{Describe(elif.Cond), Describe(elif.Body)},
			})
		}
		if n.Else != nil {
			t.Children = append(t.Children, &Tree{Kind: "else", Children: []*Tree{Describe(n.Else)}})
		}
		return t
	case *While:
		return &Tree{Kind: "while", Line: n.Pos.Line, Children: []*Tree{Describe(n.Cond), Describe(n.Body)}}
	case *Assign:
		return &Tree{Kind: "assign", Value: n.Name, Line: n.Pos.Line, Children: []*Tree{Describe(n.Value)}}
	case *Number:
		return &Tree{Kind: "number", Value: strconv.Itoa(n.Value)}
	case *Var:
		return &Tree{Kind: "var", Value: n.Name}
	case *Sensor:
		t := &Tree{Kind: "sensor", Value: n.Kind.String()}
		if n.Arg != nil {
			t.Children = []*Tree{Describe(n.Arg)}
		}
		return t
	case *BinaryOp:
		return &Tree{Kind: "op", Value: n.Op.String(), Children: []*Tree{Describe(n.Left), Describe(n.Right)}}
	case *Compare:
		return &Tree{Kind: "cmp", Value: n.Op.String(), Children: []*Tree{Describe(n.Left), Describe(n.Right)}}
	case *And:
		return &Tree{Kind: "and", Children: []*Tree{Describe(n.Left), Describe(n.Right)}}
	case *Or:
		return &Tree{Kind: "or", Children: []*Tree{Describe(n.Left), Describe(n.Right)}}
	case *Not:
		return &Tree{Kind: "not", Children: []*Tree{Describe(n.Cond)}}
	default:
		return &Tree{Kind: "unknown"}
	}
}

func counted(kind string, count Expr, pos Position) *Tree {
	t := &Tree{Kind: kind, Line: pos.Line}
	if count != nil {
		t.Children = []*Tree{Describe(count)}
	}
	return t
}

package robotfile

// Node is the interface implemented by all AST nodes.
type Node interface {
	node()
	String() string
}

// Statement is an executable node.
type Statement interface {
	Node
	stmtNode()
}

// Expr is a node that evaluates to an integer.
type Expr interface {
	Node
	exprNode()
}

// Cond is a node that evaluates to a boolean.
type Cond interface {
	Node
	condNode()
}

// Program represents the root AST node of a robot program.
type Program struct {
	Name       string // source name (file path or "<input>")
	Statements []Statement
}

func (p *Program) node() {}

// Block is a braced, non-empty statement list.
type Block struct {
	Statements []Statement
	Pos        Position
}

// Move moves the robot forward Count times (once when Count is nil).
type Move struct {
	Count Expr
	Pos   Position
}

// Wait idles Count times (once when Count is nil).
type Wait struct {
	Count Expr
	Pos   Position
}

// TurnLeft turns the robot left.
type TurnLeft struct{ Pos Position }

// TurnRight turns the robot right.
type TurnRight struct{ Pos Position }

// TakeFuel picks up a fuel barrel.
type TakeFuel struct{ Pos Position }

// TurnAround turns the robot by 180 degrees. Extended action.
type TurnAround struct{ Pos Position }

// ShieldOn raises the shield. Extended action.
type ShieldOn struct{ Pos Position }

// ShieldOff lowers the shield. Extended action.
type ShieldOff struct{ Pos Position }

// Loop repeats Body until the run is stopped from outside.
type Loop struct {
	Body *Block
	Pos  Position
}

// Elif is one elif clause of an If statement.
type Elif struct {
	Cond Cond
	Body *Block
}

// If runs the first branch whose condition holds.
type If struct {
	Cond  Cond
	Then  *Block
	Elifs []Elif
	Else  *Block // nil if absent
	Pos   Position
}

// While repeats Body while Cond holds.
type While struct {
	Cond Cond
	Body *Block
	Pos  Position
}

// Assign stores the value of Value into the variable Name.
type Assign struct {
	Name  string // includes the leading '$'
	Value Expr
	Pos   Position
}

func (*Block) node()      {}
func (*Move) node()       {}
func (*Wait) node()       {}
func (*TurnLeft) node()   {}
func (*TurnRight) node()  {}
func (*TakeFuel) node()   {}
func (*TurnAround) node() {}
func (*ShieldOn) node()   {}
func (*ShieldOff) node()  {}
func (*Loop) node()       {}
func (*If) node()         {}
func (*While) node()      {}
func (*Assign) node()     {}

func (*Block) stmtNode()      {}
func (*Move) stmtNode()       {}
func (*Wait) stmtNode()       {}
func (*TurnLeft) stmtNode()   {}
func (*TurnRight) stmtNode()  {}
func (*TakeFuel) stmtNode()   {}
func (*TurnAround) stmtNode() {}
func (*ShieldOn) stmtNode()   {}
func (*ShieldOff) stmtNode()  {}
func (*Loop) stmtNode()       {}
func (*If) stmtNode()         {}
func (*While) stmtNode()      {}
func (*Assign) stmtNode()     {}

// SensorKind identifies which robot sensor a Sensor node reads.
type SensorKind int

const (
	SensorFuelLeft SensorKind = iota
	SensorOppLR
	SensorOppFB
	SensorNumBarrels
	SensorBarrelLR
	SensorBarrelFB
	SensorWallDist
)

func (k SensorKind) String() string {
	switch k {
	case SensorFuelLeft:
		return "fuelLeft"
	case SensorOppLR:
		return "oppLR"
	case SensorOppFB:
		return "oppFB"
	case SensorNumBarrels:
		return "numBarrels"
	case SensorBarrelLR:
		return "barrelLR"
	case SensorBarrelFB:
		return "barrelFB"
	case SensorWallDist:
		return "wallDist"
	default:
		return "UNKNOWN"
	}
}

// TakesArg reports whether the sensor accepts an optional argument.
func (k SensorKind) TakesArg() bool {
	return k == SensorBarrelLR || k == SensorBarrelFB
}

// Operator is an arithmetic operator.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
)

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	default:
		return "UNKNOWN"
	}
}

// Number is an integer literal.
type Number struct {
	Value int
}

// Var reads a variable cell.
type Var struct {
	Name string // includes the leading '$'
}

// Sensor reads a robot sensor. Arg is only set for barrelLR/barrelFB.
type Sensor struct {
	Kind SensorKind
	Arg  Expr
}

// BinaryOp applies an arithmetic operator to two expressions.
type BinaryOp struct {
	Op    Operator
	Left  Expr
	Right Expr
}

func (*Number) node()   {}
func (*Var) node()      {}
func (*Sensor) node()   {}
func (*BinaryOp) node() {}

func (*Number) exprNode()   {}
func (*Var) exprNode()      {}
func (*Sensor) exprNode()   {}
func (*BinaryOp) exprNode() {}

// Comparison is an integer comparison operator.
type Comparison int

const (
	CmpLt Comparison = iota
	CmpGt
	CmpEq
)

func (c Comparison) String() string {
	switch c {
	case CmpLt:
		return "lt"
	case CmpGt:
		return "gt"
	case CmpEq:
		return "eq"
	default:
		return "UNKNOWN"
	}
}

// Compare compares two expressions.
type Compare struct {
	Op    Comparison
	Left  Expr
	Right Expr
}

// And holds when both operands hold.
type And struct {
	Left  Cond
	Right Cond
}

// Or holds when either operand holds.
type Or struct {
	Left  Cond
	Right Cond
}

// Not negates its operand.
type Not struct {
	Cond Cond
}

func (*Compare) node() {}
func (*And) node()     {}
func (*Or) node()      {}
func (*Not) node()     {}

func (*Compare) condNode() {}
func (*And) condNode()     {}
func (*Or) condNode()      {}
func (*Not) condNode()     {}

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. If f returns false, the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		for _, s := range n.Statements {
			Inspect(s, f)
		}
	case *Block:
		for _, s := range n.Statements {
			Inspect(s, f)
		}
	case *Move:
		inspectExpr(n.Count, f)
	case *Wait:
		inspectExpr(n.Count, f)
	case *Loop:
		Inspect(n.Body, f)
	case *If:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		for _, elif := range n.Elifs {
			Inspect(elif.Cond, f)
			Inspect(elif.Body, f)
		}
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *While:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *Assign:
		Inspect(n.Value, f)
	case *Sensor:
		inspectExpr(n.Arg, f)
	case *BinaryOp:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *Compare:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *And:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *Or:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *Not:
		Inspect(n.Cond, f)
	}
}

// inspectExpr guards against typed-nil optional arguments.
func inspectExpr(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

// Variables returns the variable names referenced by the program, in order of
// first appearance, whether read or assigned.
func (p *Program) Variables() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	Inspect(p, func(n Node) bool {
		switch n := n.(type) {
		case *Assign:
			add(n.Name)
		case *Var:
			add(n.Name)
		}
		return true
	})
	return names
}

package ir

// Expr is a node of the IR tree.
//
// This is a sealed interface: the marker method keeps implementations inside
// this package so the compiler and the emitter can switch over every node
// type exhaustively.
//
// Node types:
//   - Param, Local: variable slots
//   - Const: a literal of a numeric kind
//   - Binary: add, multiply, greater-than
//   - Decrement: post-decrement of a variable
//   - Assign: store into a variable
//   - Block: ordered scope with declared locals
//   - Loop: repeat body until a Break targets its Label
//   - IfThenElse: evaluate exactly one branch
//   - Break: leave the Loop that owns Label, carrying Value
//
// Every node records its result Kind at construction, so no later stage has
// to infer types.
type Expr interface {
	Kind() Kind
	exprNode()
}

// Var is an assignable slot: a unit Param or a Block Local.
type Var interface {
	Expr
	VarID() int
	VarName() string
	varNode()
}

// Unit is a complete, bound IR tree: the input of compilation.
//
// Kind is the numeric kind the unit was built for. Params are in call order,
// so a compiled unit has exactly len(Params) arguments.
type Unit struct {
	Name   string
	Kind   Kind
	Params []*Param
	Body   Expr
}

// Param is a named input slot of a unit.
//
// Params are mutable within one invocation: a body may assign to or decrement
// them. Each invocation gets fresh storage initialised from the call arguments.
type Param struct {
	ID   int
	Name string
	Type Kind
}

func (p *Param) Kind() Kind      { return p.Type }
func (p *Param) VarID() int      { return p.ID }
func (p *Param) VarName() string { return p.Name }
func (*Param) exprNode()         {}
func (*Param) varNode()          {}

// Local is a variable declared by exactly one Block.
// Locals start at the zero value of their kind.
type Local struct {
	ID   int
	Name string
	Type Kind
}

func (l *Local) Kind() Kind      { return l.Type }
func (l *Local) VarID() int      { return l.ID }
func (l *Local) VarName() string { return l.Name }
func (*Local) exprNode()         {}
func (*Local) varNode()          {}

// Const is a literal value.
//
// Value holds the literal text in the canonical form of its kind ("1",
// "-3", "2.5"). Keeping the literal as text leaves the tree independent of
// any Go type; the compiler parses it once per specialization.
type Const struct {
	Value string
	Type  Kind
}

func (c *Const) Kind() Kind { return c.Type }
func (*Const) exprNode()    {}

// Op identifies a binary operator.
type Op int

const (
	OpAdd Op = iota
	OpMul
	OpGreaterThan
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpMul:
		return "mul"
	case OpGreaterThan:
		return "gt"
	default:
		return "op?"
	}
}

// Binary applies Op to two operands of the same numeric kind.
// Type is the operand kind for add/mul and Bool for greater-than.
type Binary struct {
	Op   Op
	L, R Expr
	Type Kind
}

func (b *Binary) Kind() Kind { return b.Type }
func (*Binary) exprNode()    {}

// Decrement stores Target-1 into Target and yields the previous value.
type Decrement struct {
	Target Var
}

func (d *Decrement) Kind() Kind { return d.Target.Kind() }
func (*Decrement) exprNode()    {}

// Assign stores Value into Target and yields the stored value.
type Assign struct {
	Target Var
	Value  Expr
}

func (a *Assign) Kind() Kind { return a.Value.Kind() }
func (*Assign) exprNode()    {}

// Block evaluates Stmts in order, then Result when present.
// Locals are visible only to the Block's own statements and result.
type Block struct {
	Locals []*Local
	Stmts  []Expr
	Result Expr // nil when the block is used for effect only
}

func (b *Block) Kind() Kind {
	if b.Result == nil {
		return Void
	}
	return b.Result.Kind()
}
func (*Block) exprNode() {}

// Label is a loop exit target. Type is the kind of value every Break to the
// label carries, and therefore the kind of the owning Loop.
type Label struct {
	ID   int
	Name string
	Type Kind
}

// Loop evaluates Body repeatedly until a Break targeting Label fires.
type Loop struct {
	Label *Label
	Body  Expr
}

func (l *Loop) Kind() Kind { return l.Label.Type }
func (*Loop) exprNode()    {}

// IfThenElse evaluates Cond and then exactly one of Then or Else.
// Else may be nil, in which case the node is used for control only.
type IfThenElse struct {
	Cond Expr
	Then Expr
	Else Expr
	Type Kind
}

func (i *IfThenElse) Kind() Kind { return i.Type }
func (*IfThenElse) exprNode()    {}

// Break exits the Loop owning Label; Value becomes that Loop's value.
type Break struct {
	Label *Label
	Value Expr
}

func (*Break) Kind() Kind { return Void }
func (*Break) exprNode()  {}

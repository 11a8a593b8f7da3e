package printscript

// Node is implemented by every statement and expression.
type Node interface {
	Position() Position
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Declaration is `let name: type = value;` or `const ...` in 1.1.
// Type and Value are optional, but not both.
type Declaration struct {
	Pos     Position
	Keyword string
	Name    string
	NamePos Position
	Type    string
	Value   Expr
}

// Assignment is `name = value;`.
type Assignment struct {
	Pos   Position
	Name  string
	Value Expr
}

// Println is `println(arg);`.
type Println struct {
	Pos Position
	Arg Expr
}

// Literal is a number, string or boolean constant. String values keep their
// original quotes.
type Literal struct {
	Pos   Position
	Kind  Kind
	Value string
}

// Identifier references a variable.
type Identifier struct {
	Pos  Position
	Name string
}

// Binary is an arithmetic operation.
type Binary struct {
	Pos   Position
	Op    string
	Left  Expr
	Right Expr
}

// Unary is a negation.
type Unary struct {
	Pos     Position
	Op      string
	Operand Expr
}

// Call is readInput(arg) or readEnv(arg).
type Call struct {
	Pos  Position
	Func string
	Arg  Expr
}

// Group is a parenthesized expression.
type Group struct {
	Pos   Position
	Inner Expr
}

func (d *Declaration) Position() Position { return d.Pos }
func (a *Assignment) Position() Position  { return a.Pos }
func (p *Println) Position() Position     { return p.Pos }
func (l *Literal) Position() Position     { return l.Pos }
func (i *Identifier) Position() Position  { return i.Pos }
func (b *Binary) Position() Position      { return b.Pos }
func (u *Unary) Position() Position       { return u.Pos }
func (c *Call) Position() Position        { return c.Pos }
func (g *Group) Position() Position       { return g.Pos }

func (*Literal) expr()    {}
func (*Identifier) expr() {}
func (*Binary) expr()     {}
func (*Unary) expr()      {}
func (*Call) expr()       {}
func (*Group) expr()      {}

// isBoolLiteral distinguishes true/false from numbers and strings.
func isBoolLiteral(l *Literal) bool {
	return l.Kind == KindKeyword
}

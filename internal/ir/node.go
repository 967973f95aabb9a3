package ir

// Node is any element of the generated expression tree.
type Node interface {
	node()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is a statement node in a function body.
type Stmt interface {
	Node
	stmt()
}

// Ident is an identifier reference.
type Ident struct {
	Name string
}

// StringLit is a string literal.
type StringLit struct {
	Value string
}

// NumLit is an integer literal. Generated code only ever carries indices.
type NumLit struct {
	Value int
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
}

// ArrayExpr is an array literal.
type ArrayExpr struct {
	Elems []Expr
}

// CallExpr is a call of Callee with positional Args.
type CallExpr struct {
	Callee Expr
	Args   []Expr
}

// ArrowFunc is a parameterised callable with a statement body.
// The zero value is the no-op callable.
type ArrowFunc struct {
	Params []*Ident
	Body   []Stmt
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	X Expr
}

func (*Ident) node()     {}
func (*StringLit) node() {}
func (*NumLit) node()    {}
func (*BoolLit) node()   {}
func (*ArrayExpr) node() {}
func (*CallExpr) node()  {}
func (*ArrowFunc) node() {}
func (*ExprStmt) node()  {}

func (*Ident) expr()     {}
func (*StringLit) expr() {}
func (*NumLit) expr()    {}
func (*BoolLit) expr()   {}
func (*ArrayExpr) expr() {}
func (*CallExpr) expr()  {}
func (*ArrowFunc) expr() {}

func (*ExprStmt) stmt() {}

// Call builds an expression statement invoking name with no arguments,
// the shape updater invocations take in a generated function body.
func Call(name string) *ExprStmt {
	return &ExprStmt{X: &CallExpr{Callee: &Ident{Name: name}}}
}

// CalleeName returns the identifier invoked by s, if s is an expression
// statement whose expression is a call of a plain identifier.
func CalleeName(s Stmt) (string, bool) {
	es, ok := s.(*ExprStmt)
	if !ok {
		return "", false
	}
	call, ok := es.X.(*CallExpr)
	if !ok {
		return "", false
	}
	id, ok := call.Callee.(*Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

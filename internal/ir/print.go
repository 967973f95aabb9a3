package ir

import (
	"strconv"
	"strings"
)

// Printer renders expression trees as JavaScript source text.
//
// Trailing maps nodes to a comment printed after them. It is a side table so
// annotations never live on the nodes themselves.
type Printer struct {
	Trailing map[Node]string
}

// Render prints n without annotations.
func Render(n Node) string {
	return (&Printer{}).Print(n)
}

// Print renders n.
func (p *Printer) Print(n Node) string {
	var b strings.Builder
	p.print(&b, n)
	return b.String()
}

func (p *Printer) print(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Ident:
		b.WriteString(n.Name)
	case *StringLit:
		b.WriteString(strconv.Quote(n.Value))
	case *NumLit:
		b.WriteString(strconv.Itoa(n.Value))
	case *BoolLit:
		b.WriteString(strconv.FormatBool(n.Value))
	case *ArrayExpr:
		b.WriteByte('[')
		for i, e := range n.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			p.print(b, e)
		}
		b.WriteByte(']')
	case *CallExpr:
		p.print(b, n.Callee)
		b.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			p.print(b, a)
		}
		b.WriteByte(')')
	case *ArrowFunc:
		b.WriteByte('(')
		for i, param := range n.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			p.print(b, param)
		}
		b.WriteString(") => {")
		for _, s := range n.Body {
			b.WriteByte(' ')
			p.print(b, s)
		}
		if len(n.Body) > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('}')
	case *ExprStmt:
		p.print(b, n.X)
		b.WriteByte(';')
	}

	if c, ok := p.Trailing[n]; ok && c != "" {
		b.WriteString(" /* ")
		b.WriteString(c)
		b.WriteString(" */")
	}
}

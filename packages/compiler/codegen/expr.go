// Package codegen compiles the markup tree into the render-call expression
// consumed by the runtime. The traversal builds an explicit tree of call
// nodes which is serialized once at the end, so the emitted structure is
// testable without string matching.
package codegen

import (
	"strconv"
	"strings"
)

// Expr is a node of the output call-expression tree.
type Expr interface {
	isExpr()
}

// Raw is a verbatim code fragment.
type Raw struct {
	Code string
}

func (*Raw) isExpr() {}

// Str is a string literal, quoted on serialization.
type Str struct {
	Value string
}

func (*Str) isExpr() {}

// Call is one render call: callee(arg1, arg2, ...).
type Call struct {
	Callee Expr
	Args   []Expr
}

func (*Call) isExpr() {}

// Serialize renders the call tree as a single expression string.
func Serialize(e Expr) string {
	var b strings.Builder
	serialize(&b, e)
	return b.String()
}

func serialize(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Raw:
		b.WriteString(n.Code)
	case *Str:
		b.WriteString(strconv.Quote(n.Value))
	case *Call:
		serialize(b, n.Callee)
		b.WriteString("(")
		for i, arg := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			serialize(b, arg)
		}
		b.WriteString(")")
	default:
		panic("codegen: unknown expression node")
	}
}

package ir

import "tlog.app/go/tlog/tlwire"

type (
	Expr  int
	Label int

	Cond string

	Package struct {
		Path string

		Funcs []Expr

		Exprs []any
	}

	Func struct {
		Name string

		In []Expr

		Code []Expr
	}

	// Arg is an incoming function argument. Unique marks arguments known
	// to reference a uniquely owned object on entry.
	Arg struct {
		Name   string
		Unique bool
	}

	// Alloc is a fresh allocation site.
	Alloc struct {
		Size int64
	}

	Load struct {
		Ptr Expr
	}

	// Store writes Val to the memory addressed by Ptr.
	Store struct {
		Val Expr
		Ptr Expr
	}

	Call struct {
		Func string

		In []Expr
	}

	// Phi merges one value per predecessor edge of the block it lives in.
	Phi struct {
		Block Label

		Ins []PhiBranch
	}

	PhiBranch struct {
		Block Label
		Expr  Expr
	}

	Select struct {
		Cond Expr
		Then Expr
		Else Expr
	}

	// Cast preserves the provenance of Ptr under a different type.
	Cast struct {
		Ptr Expr
	}

	// Offset derives a pointer into the same object at Base + Off bytes.
	Offset struct {
		Base Expr
		Off  int64
	}

	PtrToInt struct {
		Ptr Expr
	}

	Imm int64

	B struct {
		Label Label
	}

	BCond struct {
		Expr  Expr
		Cond  Cond
		Label Label
	}
)

const (
	Nil Expr = -1
)

// Incoming returns the value merged over the edge from l, or Nil if the
// phi has no branch for that edge.
func (p Phi) Incoming(l Label) Expr {
	for _, br := range p.Ins {
		if br.Block == l {
			return br.Expr
		}
	}

	return Nil
}

func (p PhiBranch) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 2)
	b = e.AppendKeyInt64(b, "b", int64(p.Block))
	b = e.AppendKeyInt64(b, "id", int64(p.Expr))

	return b
}

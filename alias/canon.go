package alias

import (
	"github.com/asterite/llvm/ir"
)

type (
	// Canon is the default Canonicalizer: it strips casts and offsets to
	// a fixed point, exposing the value the pointer provenances from.
	Canon struct{}

	// Objects is the default ObjectOracle: allocation sites and unique
	// incoming arguments are identified.
	Objects struct{}
)

func (Canon) Canonical(p *ir.Package, v ir.Expr) ir.Expr {
	for {
		switch x := p.Exprs[v].(type) {
		case ir.Cast:
			v = x.Ptr
		case ir.Offset:
			v = x.Base
		default:
			return v
		}
	}
}

func (Objects) Identified(p *ir.Package, v ir.Expr) bool {
	switch x := p.Exprs[v].(type) {
	case ir.Alloc:
		return true
	case ir.Arg:
		return x.Unique
	}

	return false
}

package alias

import (
	"github.com/asterite/llvm/ir"
)

type (
	// Base is the default BaseOracle: a coarse filter over the value
	// graph. It only answers NoAlias or MustAlias when the graph proves
	// it and falls back to MayAlias everywhere else.
	Base struct{}
)

func (b Base) Alias(p *ir.Package, x, y ir.Expr) AliasType {
	if x == y {
		return MustAlias
	}

	xv, yv := p.Exprs[x], p.Exprs[y]

	// Values that do not address memory alias nothing.
	if !pointerish(xv) || !pointerish(yv) {
		return NoAlias
	}

	// Distinct allocation sites are distinct objects, and a fresh
	// allocation cannot equal a pointer that existed on entry.
	if alloc(xv) && (alloc(yv) || arg(yv)) || alloc(yv) && arg(xv) {
		return NoAlias
	}

	xo, xok := xv.(ir.Offset)
	yo, yok := yv.(ir.Offset)

	switch {
	case xok && yok:
		// Pointers into one object at unequal offsets are disjoint.
		if b.Alias(p, xo.Base, yo.Base) == MustAlias {
			if xo.Off == yo.Off {
				return MustAlias
			}

			return NoAlias
		}
	case xok && xo.Off == 0:
		if b.Alias(p, xo.Base, y) == MustAlias {
			return MustAlias
		}
	case yok && yo.Off == 0:
		if b.Alias(p, x, yo.Base) == MustAlias {
			return MustAlias
		}
	}

	return MayAlias
}

func pointerish(x any) bool {
	switch x.(type) {
	case ir.Arg, ir.Alloc, ir.Load, ir.Call, ir.Phi, ir.Select, ir.Cast, ir.Offset:
		return true
	}

	return false
}

func alloc(x any) bool {
	_, ok := x.(ir.Alloc)
	return ok
}

func arg(x any) bool {
	_, ok := x.(ir.Arg)
	return ok
}

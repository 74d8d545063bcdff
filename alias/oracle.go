package alias

import (
	"github.com/asterite/llvm/ir"
)

type (
	// Canonicalizer strips provenance pass-throughs, exposing the
	// underlying object a pointer provenances from. Must be idempotent:
	// Canonical(p, Canonical(p, v)) == Canonical(p, v).
	Canonicalizer interface {
		Canonical(p *ir.Package, v ir.Expr) ir.Expr
	}

	// ObjectOracle reports whether v is a uniquely allocated object whose
	// only aliases are pointers explicitly derived from it. False
	// negatives fall through to the conservative path; false positives
	// break soundness and are not permitted.
	ObjectOracle interface {
		Identified(p *ir.Package, v ir.Expr) bool
	}

	// BaseOracle is a coarse first-pass alias query. NoAlias and
	// MustAlias are trusted absolutely.
	BaseOracle interface {
		Alias(p *ir.Package, x, y ir.Expr) AliasType
	}

	AliasType uint8
)

const (
	NoAlias AliasType = iota
	MayAlias
	MustAlias
	PartialAlias
)

func (t AliasType) String() string {
	switch t {
	case NoAlias:
		return "NoAlias"
	case MayAlias:
		return "MayAlias"
	case MustAlias:
		return "MustAlias"
	case PartialAlias:
		return "PartialAlias"
	}

	return "Unknown"
}

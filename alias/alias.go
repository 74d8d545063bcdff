package alias

import (
	"context"

	"nikand.dev/go/heap"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/asterite/llvm/ir"
	"github.com/asterite/llvm/set"
)

type (
	// Analysis answers may-alias queries over one package value graph.
	// It is sound: false is only returned when the two values provably
	// refer to different objects. One instance serves one analysis run;
	// instances are not safe for concurrent use.
	Analysis struct {
		Canon   Canonicalizer
		Objects ObjectOracle
		Base    BaseOracle

		pkg  *ir.Package
		uses [][]ir.Expr

		cache map[pair]rel

		from loc.PC
	}

	// pair is an unordered value pair, low id first.
	pair struct {
		x, y ir.Expr
	}

	rel uint8
)

const (
	// relPending marks a query still being computed. A lookup observing
	// it answers related, which terminates recursive self-queries.
	relPending rel = iota
	relRelated
	relUnrelated
)

func New(p *ir.Package) *Analysis {
	return &Analysis{
		Canon:   Canon{},
		Objects: Objects{},
		Base:    Base{},

		pkg:  p,
		uses: p.Uses(),

		cache: map[pair]rel{},

		from: loc.Caller(1),
	}
}

// MayAlias reports whether x and y can refer to the same object at
// runtime. Results are memoized for the lifetime of the Analysis.
func (a *Analysis) MayAlias(ctx context.Context, x, y ir.Expr) bool {
	r := a.related(ctx, x, y)

	tlog.SpanFromContext(ctx).V("alias").Printw("may alias", "x", x, "y", y, "related", r, "from", a.from)

	return r
}

func (a *Analysis) related(ctx context.Context, x, y ir.Expr) bool {
	x = a.Canon.Canonical(a.pkg, x)
	y = a.Canon.Canonical(a.pkg, y)

	if x == y {
		return true
	}

	pr := makePair(x, y)

	// Insert pending before computing. A recursive query over the same
	// pair hits the entry and stops, conservatively related.
	if r, ok := a.cache[pr]; ok {
		return r != relUnrelated
	}

	a.cache[pr] = relPending

	r := relUnrelated
	if a.relatedCheck(ctx, x, y) {
		r = relRelated
	}

	a.cache[pr] = r

	return r == relRelated
}

func (a *Analysis) relatedCheck(ctx context.Context, x, y ir.Expr) bool {
	switch r := a.Base.Alias(a.pkg, x, y); r {
	case NoAlias:
		return false
	case MustAlias, PartialAlias:
		return true
	case MayAlias:
	}

	xident := a.Objects.Identified(a.pkg, x)
	yident := a.Objects.Identified(a.pkg, y)

	// An identified object can't alias a load unless it was stored
	// somewhere a load could re-derive it from.
	if xident {
		if a.isLoad(y) {
			return a.stored(ctx, x)
		}

		if yident {
			if a.isLoad(x) {
				return a.stored(ctx, y)
			}

			return false
		}
	} else if yident {
		if a.isLoad(x) {
			return a.stored(ctx, y)
		}
	}

	if _, ok := a.pkg.Exprs[x].(ir.Phi); ok {
		return a.relatedPhi(ctx, x, y)
	}
	if _, ok := a.pkg.Exprs[y].(ir.Phi); ok {
		return a.relatedPhi(ctx, y, x)
	}
	if _, ok := a.pkg.Exprs[x].(ir.Select); ok {
		return a.relatedSelect(ctx, x, y)
	}
	if _, ok := a.pkg.Exprs[y].(ir.Select); ok {
		return a.relatedSelect(ctx, y, x)
	}

	return true
}

func (a *Analysis) relatedPhi(ctx context.Context, x, y ir.Expr) bool {
	p := a.pkg.Exprs[x].(ir.Phi)

	// Phis in the same block merge over the same edges, so only values
	// from corresponding edges can coexist at runtime.
	if q, ok := a.pkg.Exprs[y].(ir.Phi); ok && q.Block == p.Block {
		for _, br := range p.Ins {
			w := q.Incoming(br.Block)
			if br.Expr == ir.Nil || w == ir.Nil {
				return true
			}

			if a.related(ctx, br.Expr, w) {
				return true
			}
		}

		return false
	}

	var seen set.Bitmap

	for _, br := range p.Ins {
		if br.Expr == ir.Nil {
			continue
		}

		// Duplicate incoming values need checking once.
		if seen.IsSet(int(br.Expr)) {
			continue
		}

		seen.Set(int(br.Expr))

		if a.related(ctx, br.Expr, y) {
			return true
		}
	}

	return false
}

func (a *Analysis) relatedSelect(ctx context.Context, x, y ir.Expr) bool {
	s := a.pkg.Exprs[x].(ir.Select)

	// Same condition selects the same arm on both sides, so cross-arm
	// pairs never coexist.
	if t, ok := a.pkg.Exprs[y].(ir.Select); ok && t.Cond == s.Cond {
		return a.related(ctx, s.Then, t.Then) || a.related(ctx, s.Else, t.Else)
	}

	return a.related(ctx, s.Then, y) || a.related(ctx, s.Else, y)
}

// stored reports whether v, or any value derived from it, is ever written
// into memory within the package. A stored pointer can be re-derived by an
// unrelated load. Passing v as a call argument is not counted: the object
// class this analysis runs on is screened by the ObjectOracle, and plain
// argument passing does not expose identity for it.
func (a *Analysis) stored(ctx context.Context, v ir.Expr) bool {
	tr := tlog.SpanFromContext(ctx).V("stored")

	var visited set.Bitmap

	work := heap.Heap[ir.Expr]{Less: exprLess}

	work.Push(v)
	visited.Set(int(v))

	for work.Len() != 0 {
		p := work.Pop()

		for _, u := range a.uses[p] {
			switch x := a.pkg.Exprs[u].(type) {
			case ir.Store:
				if x.Val == p {
					tr.Printw("pointer stored", "v", v, "via", p, "store", u)
					return true
				}

				// Stored through, not stored.
				continue
			case ir.Call:
				continue
			case ir.PtrToInt:
				// Identity can be rebuilt from an integer.
				tr.Printw("pointer cast to int", "v", v, "via", p, "cast", u)
				return true
			}

			if visited.IsSet(int(u)) {
				continue
			}

			visited.Set(int(u))
			work.Push(u)
		}
	}

	tr.Printw("never stored", "v", v, "visited", visited.Size())

	return false
}

func (a *Analysis) isLoad(v ir.Expr) bool {
	_, ok := a.pkg.Exprs[v].(ir.Load)
	return ok
}

func makePair(x, y ir.Expr) pair {
	if x > y {
		x, y = y, x
	}

	return pair{x: x, y: y}
}

func exprLess(d []ir.Expr, i, j int) bool { return d[i] < d[j] }

package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asterite/llvm/alias"
	"github.com/asterite/llvm/ir"
)

const sample = `
// provenance example
func main(p, u unique)
entry:
	a = alloc 16
	c = cast a
	o = offset c, 8
	l = load p
	s = select l, a, p
	store a, p
	call retain(a, p)
	r = call make()
	bcond l, ne, loop
loop:
	m = phi [entry: a, loop: m]
	b loop
`

func TestPackage(t *testing.T) {
	ctx := context.Background()

	p, err := Package(ctx, "sample.ir", []byte(sample))
	require.NoError(t, err)

	require.Len(t, p.Funcs, 1)

	f, ok := p.Exprs[p.Funcs[0]].(*ir.Func)
	require.True(t, ok)
	require.Equal(t, "main", f.Name)
	require.Len(t, f.In, 2)

	require.False(t, p.Exprs[f.In[0]].(ir.Arg).Unique)
	require.True(t, p.Exprs[f.In[1]].(ir.Arg).Unique)

	kinds := map[string]int{}

	for _, id := range f.Code {
		switch p.Exprs[id].(type) {
		case ir.Alloc:
			kinds["alloc"]++
		case ir.Cast:
			kinds["cast"]++
		case ir.Offset:
			kinds["offset"]++
		case ir.Load:
			kinds["load"]++
		case ir.Select:
			kinds["select"]++
		case ir.Store:
			kinds["store"]++
		case ir.Call:
			kinds["call"]++
		case ir.Phi:
			kinds["phi"]++
		case ir.Label:
			kinds["label"]++
		case ir.B:
			kinds["b"]++
		case ir.BCond:
			kinds["bcond"]++
		}
	}

	require.Equal(t, map[string]int{
		"alloc": 1, "cast": 1, "offset": 1, "load": 1, "select": 1,
		"store": 1, "call": 2, "phi": 1, "label": 2, "b": 1, "bcond": 1,
	}, kinds)
}

func TestForwardReference(t *testing.T) {
	ctx := context.Background()

	text := `
func f(p)
head:
	m = phi [head: x, tail: m]
	b tail
tail:
	x = load p
	b head
`

	p, err := Package(ctx, "fwd.ir", []byte(text))
	require.NoError(t, err)

	f := p.Exprs[p.Funcs[0]].(*ir.Func)

	var phi ir.Phi
	var found bool

	for _, id := range f.Code {
		if x, ok := p.Exprs[id].(ir.Phi); ok {
			phi, found = x, true
		}
	}

	require.True(t, found)
	require.Len(t, phi.Ins, 2)

	// The first branch resolves to the load defined below the phi.
	_, ok := p.Exprs[phi.Ins[0].Expr].(ir.Load)
	require.True(t, ok)
}

func TestErrors(t *testing.T) {
	ctx := context.Background()

	for _, text := range []string{
		"x = alloc 8",                  // instruction outside func
		"func f(p)\n\tx = frob p",      // unknown op
		"func f(p)\n\tx = load q",      // unknown value
		"func f(p)\n\tx = alloc 8\n\tx = alloc 8", // redefinition
		"func f(p)\n\tb nowhere",       // unknown label
		"func f",                       // malformed header
	} {
		_, err := Package(ctx, "bad.ir", []byte(text))
		require.Error(t, err, "%q", text)
	}
}

func TestPhiNeedsLabel(t *testing.T) {
	ctx := context.Background()

	// The phi in g sits before any label of g and must not pick up a
	// block from the previous function.
	text := `
func f(p)
head:
	x = load p
	b head

func g(q)
	m = phi [tail: q]
tail:
	b tail
`

	_, err := Package(ctx, "phi.ir", []byte(text))
	require.Error(t, err)
}

func TestParseAndAnalyze(t *testing.T) {
	ctx := context.Background()

	text := `
func f(p, u unique)
entry:
	a = alloc 8
	l = load p
	store a, p
`

	p, err := Package(ctx, "esc.ir", []byte(text))
	require.NoError(t, err)

	f := p.Exprs[p.Funcs[0]].(*ir.Func)

	var a, l ir.Expr = ir.Nil, ir.Nil

	for _, id := range f.Code {
		switch p.Exprs[id].(type) {
		case ir.Alloc:
			a = id
		case ir.Load:
			l = id
		}
	}

	require.NotEqual(t, ir.Nil, a)
	require.NotEqual(t, ir.Nil, l)

	aa := alias.New(p)

	// a is stored, the load may re-derive it.
	require.True(t, aa.MayAlias(ctx, a, l))

	// u is identified and never stored.
	require.False(t, aa.MayAlias(ctx, f.In[1], l))
}

package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOperands(t *testing.T) {
	require.Nil(t, Operands(Alloc{Size: 8}))
	require.Nil(t, Operands(Imm(1)))
	require.Nil(t, Operands(Label(0)))

	require.Equal(t, []Expr{3}, Operands(Load{Ptr: 3}))
	require.Equal(t, []Expr{1, 2}, Operands(Store{Val: 1, Ptr: 2}))
	require.Equal(t, []Expr{4, 5, 6}, Operands(Select{Cond: 4, Then: 5, Else: 6}))
	require.Equal(t, []Expr{7, 8}, Operands(Call{Func: "f", In: []Expr{7, 8}}))
	require.Equal(t, []Expr{9}, Operands(BCond{Expr: 9, Cond: "ne", Label: 1}))

	phi := Phi{Block: 0, Ins: []PhiBranch{{Block: 1, Expr: 10}, {Block: 2, Expr: 11}}}
	require.Equal(t, []Expr{10, 11}, Operands(phi))
}

func TestUses(t *testing.T) {
	p := &Package{Path: "test"}

	add := func(x any) Expr {
		id := Expr(len(p.Exprs))
		p.Exprs = append(p.Exprs, x)

		return id
	}

	a := add(Alloc{Size: 8})
	q := add(Arg{Name: "q"})
	c := add(Cast{Ptr: a})
	s := add(Store{Val: c, Ptr: q})
	l := add(Load{Ptr: q})

	u := p.Uses()

	require.Equal(t, []Expr{c}, u[a])
	require.Equal(t, []Expr{s, l}, u[q])
	require.Equal(t, []Expr{s}, u[c])
	require.Empty(t, u[s])
	require.Empty(t, u[l])
}

func TestPhiIncoming(t *testing.T) {
	phi := Phi{Block: 0, Ins: []PhiBranch{{Block: 1, Expr: 10}, {Block: 2, Expr: 11}}}

	require.Equal(t, Expr(10), phi.Incoming(1))
	require.Equal(t, Expr(11), phi.Incoming(2))
	require.Equal(t, Nil, phi.Incoming(3))
}

package ir

// Operands returns the value operands of a node in operand order.
// Labels, immediates and other non-value references are not included.
func Operands(x any) []Expr {
	switch x := x.(type) {
	case Load:
		return []Expr{x.Ptr}
	case Store:
		return []Expr{x.Val, x.Ptr}
	case Call:
		return x.In
	case Phi:
		in := make([]Expr, len(x.Ins))

		for i, br := range x.Ins {
			in[i] = br.Expr
		}

		return in
	case Select:
		return []Expr{x.Cond, x.Then, x.Else}
	case Cast:
		return []Expr{x.Ptr}
	case Offset:
		return []Expr{x.Base}
	case PtrToInt:
		return []Expr{x.Ptr}
	case BCond:
		return []Expr{x.Expr}
	}

	return nil
}

// Uses builds the reverse of the operand relation: for each expr, the
// exprs using it as an operand. Indexed by Expr.
func (p *Package) Uses() [][]Expr {
	u := make([][]Expr, len(p.Exprs))

	for id, x := range p.Exprs {
		for _, op := range Operands(x) {
			if op == Nil {
				continue
			}

			u[op] = append(u[op], Expr(id))
		}
	}

	return u
}

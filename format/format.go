package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/asterite/llvm/ir"
)

// Format renders a package back into its textual form, appending to b.
// Values are named by their expr id.
func Format(ctx context.Context, b []byte, p *ir.Package) (_ []byte, err error) {
	for i, fid := range p.Funcs {
		if i != 0 {
			b = append(b, '\n')
		}

		f, ok := p.Exprs[fid].(*ir.Func)
		if !ok {
			return nil, errors.New("func expected at %v, got %T", fid, p.Exprs[fid])
		}

		b, err = formatFunc(ctx, b, p, f)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	return b, nil
}

func formatFunc(ctx context.Context, b []byte, p *ir.Package, f *ir.Func) ([]byte, error) {
	b = hfmt.Appendf(b, "func %v(", f.Name)

	for i, id := range f.In {
		if i != 0 {
			b = append(b, ", "...)
		}

		a, ok := p.Exprs[id].(ir.Arg)
		if !ok {
			return nil, errors.New("arg expected at %v, got %T", id, p.Exprs[id])
		}

		b = hfmt.Appendf(b, "%%%d", id)

		if a.Unique {
			b = append(b, " unique"...)
		}
	}

	b = append(b, ")\n"...)

	for _, id := range f.Code {
		x := p.Exprs[id]

		if l, ok := x.(ir.Label); ok {
			b = hfmt.Appendf(b, "L%d:\n", l)
			continue
		}

		b = append(b, '\t')

		var err error

		b, err = formatExpr(ctx, b, id, x)
		if err != nil {
			return nil, errors.Wrap(err, "expr %v", id)
		}

		b = append(b, '\n')
	}

	return b, nil
}

func formatExpr(ctx context.Context, b []byte, id ir.Expr, x any) ([]byte, error) {
	switch x := x.(type) {
	case ir.Alloc:
		b = hfmt.Appendf(b, "%%%d = alloc %d", id, x.Size)
	case ir.Imm:
		b = hfmt.Appendf(b, "%%%d = imm %d", id, int64(x))
	case ir.Load:
		b = hfmt.Appendf(b, "%%%d = load %%%d", id, x.Ptr)
	case ir.Cast:
		b = hfmt.Appendf(b, "%%%d = cast %%%d", id, x.Ptr)
	case ir.Offset:
		b = hfmt.Appendf(b, "%%%d = offset %%%d, %d", id, x.Base, x.Off)
	case ir.PtrToInt:
		b = hfmt.Appendf(b, "%%%d = ptrtoint %%%d", id, x.Ptr)
	case ir.Select:
		b = hfmt.Appendf(b, "%%%d = select %%%d, %%%d, %%%d", id, x.Cond, x.Then, x.Else)
	case ir.Store:
		b = hfmt.Appendf(b, "store %%%d, %%%d", x.Val, x.Ptr)
	case ir.Call:
		b = hfmt.Appendf(b, "%%%d = call %v(", id, x.Func)

		for i, a := range x.In {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = hfmt.Appendf(b, "%%%d", a)
		}

		b = append(b, ')')
	case ir.Phi:
		b = hfmt.Appendf(b, "%%%d = phi [", id)

		for i, br := range x.Ins {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = hfmt.Appendf(b, "L%d: %%%d", br.Block, br.Expr)
		}

		b = append(b, ']')
	case ir.B:
		b = hfmt.Appendf(b, "b L%d", x.Label)
	case ir.BCond:
		b = hfmt.Appendf(b, "bcond %%%d, %v, L%d", x.Expr, x.Cond, x.Label)
	default:
		return nil, errors.New("unsupported node: %T", x)
	}

	return b, nil
}

package parse

import (
	"context"
	"os"
	"strconv"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/asterite/llvm/ir"
)

type (
	state struct {
		p *ir.Package

		f      *ir.Func
		names  map[string]ir.Expr
		labels map[string]ir.Label

		nextlabel ir.Label

		// per func tables from the index pass, replayed by fill
		def []map[string]ir.Expr
		lab []map[string]ir.Label

		fn  int
		ci  int
		cur ir.Label
	}
)

func File(ctx context.Context, name string) (*ir.Package, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Package(ctx, name, text)
}

// Package parses the textual form of a value graph. Definitions may
// reference values and labels defined later, so the text is walked
// twice: the index pass allocates ids, the fill pass resolves operands.
func Package(ctx context.Context, path string, text []byte) (p *ir.Package, err error) {
	tr := tlog.SpanFromContext(ctx).V("parse")

	p = &ir.Package{Path: path}

	st := &state{p: p}

	lines := strings.Split(string(text), "\n")

	for ln, raw := range lines {
		l := clean(raw)
		if l == "" {
			continue
		}

		err = st.index(l)
		if err != nil {
			return nil, errors.Wrap(err, "%v:%d", path, ln+1)
		}
	}

	st.f = nil
	st.fn = 0

	for ln, raw := range lines {
		l := clean(raw)
		if l == "" {
			continue
		}

		err = st.fill(l)
		if err != nil {
			return nil, errors.Wrap(err, "%v:%d", path, ln+1)
		}
	}

	tr.Printw("package parsed", "path", path, "funcs", len(p.Funcs), "exprs", len(p.Exprs))

	return p, nil
}

func (st *state) index(l string) error {
	switch {
	case strings.HasPrefix(l, "func "):
		name, args, ok := splitCall(l[len("func "):])
		if !ok {
			return errors.New("malformed func header")
		}

		st.f = &ir.Func{Name: name}
		st.names = map[string]ir.Expr{}
		st.labels = map[string]ir.Label{}

		st.def = append(st.def, st.names)
		st.lab = append(st.lab, st.labels)

		fid := st.add(st.f)
		st.p.Funcs = append(st.p.Funcs, fid)

		for _, a := range args {
			var arg ir.Arg

			arg.Name, arg.Unique = strings.CutSuffix(a, " unique")
			arg.Name = strings.TrimSpace(arg.Name)

			if arg.Name == "" {
				return errors.New("malformed argument: %q", a)
			}

			id := st.add(arg)

			st.names[arg.Name] = id
			st.f.In = append(st.f.In, id)
		}

		return nil
	case strings.HasSuffix(l, ":"):
		if st.f == nil {
			return errors.New("label outside func")
		}

		name := strings.TrimSuffix(l, ":")

		lab := st.nextlabel
		st.nextlabel++

		st.labels[name] = lab

		st.code(st.add(lab))

		return nil
	}

	if st.f == nil {
		return errors.New("instruction outside func")
	}

	if name, _, ok := strings.Cut(l, "="); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return errors.New("empty destination")
		}
		if _, ok := st.names[name]; ok {
			return errors.New("redefined: %v", name)
		}

		st.names[name] = st.code(st.add(nil))

		return nil
	}

	st.code(st.add(nil))

	return nil
}

func (st *state) fill(l string) (err error) {
	switch {
	case strings.HasPrefix(l, "func "):
		st.names = st.def[st.fn]
		st.labels = st.lab[st.fn]

		fid := st.p.Funcs[st.fn]
		st.f = st.p.Exprs[fid].(*ir.Func)

		st.fn++
		st.ci = 0
		st.cur = -1

		return nil
	case strings.HasSuffix(l, ":"):
		st.cur = st.labels[strings.TrimSuffix(l, ":")]
		st.ci++

		return nil
	}

	id := st.f.Code[st.ci]
	st.ci++

	rhs := l

	if _, r, ok := strings.Cut(l, "="); ok {
		rhs = strings.TrimSpace(r)
	}

	x, err := st.instr(rhs)
	if err != nil {
		return err
	}

	st.p.Exprs[id] = x

	return nil
}

func (st *state) instr(l string) (any, error) {
	op, rest, _ := strings.Cut(l, " ")
	rest = strings.TrimSpace(rest)

	switch op {
	case "alloc":
		size, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "alloc size")
		}

		return ir.Alloc{Size: size}, nil
	case "imm":
		v, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "imm value")
		}

		return ir.Imm(v), nil
	case "load":
		p, err := st.val(rest)

		return ir.Load{Ptr: p}, err
	case "cast":
		p, err := st.val(rest)

		return ir.Cast{Ptr: p}, err
	case "ptrtoint":
		p, err := st.val(rest)

		return ir.PtrToInt{Ptr: p}, err
	case "offset":
		args := splitList(rest)
		if len(args) != 2 {
			return nil, errors.New("offset wants base, off")
		}

		base, err := st.val(args[0])
		if err != nil {
			return nil, err
		}

		off, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "offset")
		}

		return ir.Offset{Base: base, Off: off}, nil
	case "store":
		args := splitList(rest)
		if len(args) != 2 {
			return nil, errors.New("store wants val, ptr")
		}

		val, err := st.val(args[0])
		if err != nil {
			return nil, err
		}

		ptr, err := st.val(args[1])
		if err != nil {
			return nil, err
		}

		return ir.Store{Val: val, Ptr: ptr}, nil
	case "select":
		args := splitList(rest)
		if len(args) != 3 {
			return nil, errors.New("select wants cond, then, else")
		}

		var ops [3]ir.Expr

		for i, a := range args {
			v, err := st.val(a)
			if err != nil {
				return nil, err
			}

			ops[i] = v
		}

		return ir.Select{Cond: ops[0], Then: ops[1], Else: ops[2]}, nil
	case "call":
		name, args, ok := splitCall(rest)
		if !ok {
			return nil, errors.New("malformed call")
		}

		c := ir.Call{Func: name}

		for _, a := range args {
			v, err := st.val(a)
			if err != nil {
				return nil, err
			}

			c.In = append(c.In, v)
		}

		return c, nil
	case "phi":
		if st.cur < 0 {
			return nil, errors.New("phi before any label")
		}

		rest = strings.TrimPrefix(rest, "[")
		rest = strings.TrimSuffix(rest, "]")

		phi := ir.Phi{Block: st.cur}

		for _, a := range splitList(rest) {
			lab, v, ok := strings.Cut(a, ":")
			if !ok {
				return nil, errors.New("phi branch wants label: value")
			}

			l, ok := st.labels[strings.TrimSpace(lab)]
			if !ok {
				return nil, errors.New("unknown label: %v", lab)
			}

			e, err := st.val(strings.TrimSpace(v))
			if err != nil {
				return nil, err
			}

			phi.Ins = append(phi.Ins, ir.PhiBranch{Block: l, Expr: e})
		}

		return phi, nil
	case "b":
		l, ok := st.labels[rest]
		if !ok {
			return nil, errors.New("unknown label: %v", rest)
		}

		return ir.B{Label: l}, nil
	case "bcond":
		args := splitList(rest)
		if len(args) != 3 {
			return nil, errors.New("bcond wants val, cond, label")
		}

		v, err := st.val(args[0])
		if err != nil {
			return nil, err
		}

		l, ok := st.labels[args[2]]
		if !ok {
			return nil, errors.New("unknown label: %v", args[2])
		}

		return ir.BCond{Expr: v, Cond: ir.Cond(args[1]), Label: l}, nil
	}

	return nil, errors.New("unknown op: %v", op)
}

func (st *state) val(name string) (ir.Expr, error) {
	id, ok := st.names[strings.TrimSpace(name)]
	if !ok {
		return ir.Nil, errors.New("unknown value: %v", name)
	}

	return id, nil
}

func (st *state) add(x any) ir.Expr {
	id := ir.Expr(len(st.p.Exprs))
	st.p.Exprs = append(st.p.Exprs, x)

	return id
}

func (st *state) code(id ir.Expr) ir.Expr {
	st.f.Code = append(st.f.Code, id)

	return id
}

func clean(l string) string {
	if i := strings.Index(l, "//"); i >= 0 {
		l = l[:i]
	}

	return strings.TrimSpace(l)
}

func splitList(l string) []string {
	if l == "" {
		return nil
	}

	s := strings.Split(l, ",")

	for i := range s {
		s[i] = strings.TrimSpace(s[i])
	}

	return s
}

func splitCall(l string) (name string, args []string, ok bool) {
	name, rest, ok := strings.Cut(l, "(")
	if !ok {
		return "", nil, false
	}

	rest, _, ok = strings.Cut(rest, ")")
	if !ok {
		return "", nil, false
	}

	return strings.TrimSpace(name), splitList(rest), true
}

package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/asterite/llvm/alias"
	"github.com/asterite/llvm/format"
	"github.com/asterite/llvm/ir"
	"github.com/asterite/llvm/parse"
)

func main() {
	dumpCmd := &cli.Command{
		Name:   "dump",
		Action: dumpAct,
		Args:   cli.Args{},
	}

	aliasCmd := &cli.Command{
		Name:   "alias",
		Action: aliasAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "arc",
		Description: "arc is a provenance alias analysis over textual value graphs",
		Commands: []*cli.Command{
			dumpCmd,
			aliasCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func dumpAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := parse.File(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err := format.Format(ctx, nil, p)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}

func aliasAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := parse.File(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		aa := alias.New(p)

		for _, fid := range p.Funcs {
			f := p.Exprs[fid].(*ir.Func)

			ids := pointers(p, f)

			fmt.Printf("func %v\n", f.Name)

			for i, x := range ids {
				for _, y := range ids[i+1:] {
					fmt.Printf("\t%%%d vs %%%d: may alias %v\n", x, y, aa.MayAlias(ctx, x, y))
				}
			}
		}
	}

	return nil
}

func pointers(p *ir.Package, f *ir.Func) (ids []ir.Expr) {
	add := func(id ir.Expr) {
		switch p.Exprs[id].(type) {
		case ir.Arg, ir.Alloc, ir.Load, ir.Call, ir.Phi, ir.Select, ir.Cast, ir.Offset:
			ids = append(ids, id)
		}
	}

	for _, id := range f.In {
		add(id)
	}

	for _, id := range f.Code {
		add(id)
	}

	return ids
}

package compiler

import (
	"fmt"
	"go/ast"
	"strings"
)

// cmdDirective marks a function for the command transform.
const cmdDirective = "//roko:cmd"

type param struct {
	name     *ast.Ident
	typ      ast.Expr
	variadic bool
}

func params(fl *ast.FieldList) []param {
	if fl == nil {
		return nil
	}
	var out []param
	for _, f := range fl.List {
		typ := f.Type
		variadic := false
		if e, ok := typ.(*ast.Ellipsis); ok {
			typ, variadic = e.Elt, true
		}
		if len(f.Names) == 0 {
			out = append(out, param{typ: typ, variadic: variadic})
			continue
		}
		for _, n := range f.Names {
			out = append(out, param{name: n, typ: typ, variadic: variadic})
		}
	}
	return out
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == cmdDirective {
			return true
		}
	}
	return false
}

// commands records an edit for every //roko:cmd function.
func (s *source) commands() error {
	for _, d := range s.file.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || !hasDirective(fn.Doc) {
			continue
		}
		if err := s.command(fn); err != nil {
			return err
		}
	}
	return nil
}

// command renames fn to <name>Future and generates a function of the
// original name and parameters that starts it and returns the future:
//
//	func load(ctx context.Context, id string) *command.Future[Msg] {
//		return command.Start(ctx, func(ctx context.Context) (Msg, bool) {
//			return loadFuture(ctx, id)
//		})
//	}
func (s *source) command(fn *ast.FuncDecl) error {
	name := fn.Name.Name
	in := params(fn.Type.Params)

	ctxPkg := s.importName("context", "context")
	if len(in) == 0 || in[0].variadic || !isContext(in[0].typ, ctxPkg) {
		return s.errorAt("RE110", fn.Name.Pos()).
			WithDetailf("%s must take a context.Context as its first parameter", name)
	}

	out := params(fn.Type.Results)
	if len(out) != 2 || !isIdent(out[1].typ, "bool") {
		pos := fn.Name.Pos()
		if fn.Type.Results != nil {
			pos = fn.Type.Results.Pos()
		}
		return s.errorAt("RE112", pos).
			WithDetailf("%s must return (Msg, bool)", name)
	}

	var recv string
	if fn.Recv != nil {
		r := params(fn.Recv)
		if len(r) != 1 || !named(r[0]) {
			return s.errorAt("RE111", fn.Recv.Pos()).
				WithDetailf("the receiver of %s must be named", name)
		}
		recv = r[0].name.Name + "."
	}

	args := make([]string, len(in))
	for i, p := range in {
		if !named(p) {
			return s.errorAt("RE111", p.typ.Pos()).
				WithDetailf("parameter %d of %s must be a named binding", i+1, name)
		}
		args[i] = p.name.Name
		if p.variadic {
			args[i] += "..."
		}
	}

	var typeArgs string
	if tp := params(fn.Type.TypeParams); len(tp) > 0 {
		names := make([]string, len(tp))
		for i, p := range tp {
			names[i] = p.name.Name
		}
		typeArgs = "[" + strings.Join(names, ", ") + "]"
	}

	cmd := s.require(s.opts.CommandPackage)
	ctx := in[0].name.Name
	ctxType := s.text(in[0].typ)
	result := s.text(out[0].typ)
	future := name + "Future"

	var b strings.Builder
	for _, c := range fn.Doc.List {
		if strings.TrimSpace(c.Text) != cmdDirective {
			b.WriteString(c.Text + "\n")
		}
	}
	b.WriteString("func ")
	if fn.Recv != nil {
		b.WriteString(s.text(fn.Recv) + " ")
	}
	b.WriteString(name)
	if fn.Type.TypeParams != nil {
		b.WriteString(s.text(fn.Type.TypeParams))
	}
	b.WriteString(s.text(fn.Type.Params))
	fmt.Fprintf(&b, " *%s.Future[%s] {\n", cmd, result)
	fmt.Fprintf(&b, "return %s.Start(%s, func(%s %s) (%s, bool) {\n", cmd, ctx, ctx, ctxType, result)
	fmt.Fprintf(&b, "return %s%s%s(%s)\n", recv, future, typeArgs, strings.Join(args, ", "))
	b.WriteString("})\n}\n\n")

	fmt.Fprintf(&b, "// %s is the work started by %s.\n", future, name)
	b.WriteString(string(s.src[s.offset(fn.Pos()):s.offset(fn.Name.Pos())]))
	b.WriteString(future)

	s.edits = append(s.edits, edit{
		start: s.offset(fn.Doc.Pos()),
		end:   s.offset(fn.Name.End()),
		text:  b.String(),
	})
	return nil
}

func named(p param) bool {
	return p.name != nil && p.name.Name != "_"
}

func isContext(typ ast.Expr, pkg string) bool {
	sel, ok := typ.(*ast.SelectorExpr)
	if !ok || pkg == "" || sel.Sel.Name != "Context" {
		return false
	}
	return isIdent(sel.X, pkg)
}

func isIdent(e ast.Expr, name string) bool {
	id, ok := e.(*ast.Ident)
	return ok && id.Name == name
}

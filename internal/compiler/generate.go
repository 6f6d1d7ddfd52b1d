package compiler

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/rokoui/roko/internal/errors"
)

// VDOMPackage is the import path whose HTML calls are compiled.
const VDOMPackage = "github.com/rokoui/roko/pkg/vdom"

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

// source is one input file being rewritten.
type source struct {
	name    string
	src     []byte
	opts    Options
	fset    *token.FileSet
	tok     *token.File
	file    *ast.File
	edits   []edit
	imports []string
}

// CompileSource compiles one roko source file held in memory and returns
// the formatted generated file. filename is used for diagnostics and the
// generated header only.
//
// Every vdom.HTML[Msg](`...`) call is replaced by node constructors,
// every //roko:cmd function gets a command wrapper, and the build
// constraint naming opts.BuildTag is removed.
func CompileSource(filename string, src []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	s := &source{name: filename, src: src, opts: opts, fset: token.NewFileSet()}

	file, err := parser.ParseFile(s.fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, s.parseError(err)
	}
	s.file = file
	s.tok = s.fset.File(file.Pos())

	if err := s.templates(); err != nil {
		return nil, err
	}
	if err := s.commands(); err != nil {
		return nil, err
	}
	s.constraints()

	return s.finish(s.apply())
}

func (s *source) parseError(err error) error {
	e := errors.New("RE106").Wrap(err)
	var list scanner.ErrorList
	if stderrors.As(err, &list) && len(list) > 0 {
		p := list[0].Pos
		e = e.WithSourceLocation(p.Filename, s.src, p.Line, p.Column)
	}
	return e
}

// templates records an edit for every HTML call.
func (s *source) templates() error {
	local := s.importName(VDOMPackage, "vdom")
	if local == "" {
		return nil
	}

	var err error
	ast.Inspect(s.file, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		msg, ok := s.templateCall(call, local)
		if !ok {
			return true
		}
		err = s.template(call, msg, local)
		return false
	})
	return err
}

// templateCall matches local.HTML[Msg](...) and returns the Msg source.
// An HTML call without a type argument matches with msg "".
func (s *source) templateCall(call *ast.CallExpr, local string) (msg string, ok bool) {
	fun := call.Fun
	if idx, isIndex := fun.(*ast.IndexExpr); isIndex {
		fun = idx.X
		msg = s.text(idx.Index)
	}
	sel, isSel := fun.(*ast.SelectorExpr)
	if !isSel || sel.Sel.Name != "HTML" {
		return "", false
	}
	id, isIdent := sel.X.(*ast.Ident)
	if !isIdent || id.Name != local {
		return "", false
	}
	return msg, true
}

func (s *source) template(call *ast.CallExpr, msg, local string) error {
	if msg == "" {
		return s.errorAt("RE103", call.Pos()).
			WithDetail("HTML needs an explicit message type argument, e.g. vdom.HTML[Msg]")
	}
	if len(call.Args) != 1 {
		return s.errorAt("RE103", call.Pos()).
			WithDetailf("HTML takes one argument, got %d", len(call.Args))
	}
	lit, ok := call.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return s.errorAt("RE103", call.Args[0].Pos())
	}
	text, err := strconv.Unquote(lit.Value)
	if err != nil {
		return s.errorAt("RE103", lit.Pos()).Wrap(err)
	}

	code, err := compileTemplate(text, local, msg)
	if err != nil {
		return s.templateError(err, lit)
	}
	s.edits = append(s.edits, edit{
		start: s.offset(call.Pos()),
		end:   s.offset(call.End()),
		text:  code,
	})
	return nil
}

// templateError positions a template error inside the file. Offsets map
// one to one onto raw string literals only.
func (s *source) templateError(err error, lit *ast.BasicLit) error {
	var se *syntaxError
	if !stderrors.As(err, &se) {
		return errors.New("RE100").Wrap(err)
	}
	pos := lit.Pos()
	if se.offset >= 0 && strings.HasPrefix(lit.Value, "`") && !strings.Contains(lit.Value, "\r") {
		pos += token.Pos(1 + se.offset)
	}
	return s.errorAt(se.code, pos).WithDetail(se.msg)
}

// constraints drops opts.BuildTag from the file's //go:build line, and the
// line itself when nothing else remains.
func (s *source) constraints() {
	for _, group := range s.file.Comments {
		if group.Pos() >= s.file.Package {
			break
		}
		for _, c := range group.List {
			switch {
			case constraint.IsGoBuild(c.Text):
				x, err := constraint.Parse(c.Text)
				if err != nil {
					continue
				}
				rest := withoutTag(x, s.opts.BuildTag)
				switch {
				case rest == nil:
					s.removeLine(c)
				case rest.String() != x.String():
					s.edits = append(s.edits, edit{
						start: s.offset(c.Pos()),
						end:   s.offset(c.End()),
						text:  "//go:build " + rest.String(),
					})
				}
			case constraint.IsPlusBuild(c.Text):
				s.removeLine(c)
			}
		}
	}
}

func withoutTag(x constraint.Expr, tag string) constraint.Expr {
	switch x := x.(type) {
	case *constraint.TagExpr:
		if x.Tag == tag {
			return nil
		}
	case *constraint.AndExpr:
		l, r := withoutTag(x.X, tag), withoutTag(x.Y, tag)
		switch {
		case l == nil:
			return r
		case r == nil:
			return l
		}
		return &constraint.AndExpr{X: l, Y: r}
	}
	return x
}

func (s *source) removeLine(c *ast.Comment) {
	end := s.offset(c.End())
	if end < len(s.src) && s.src[end] == '\n' {
		end++
	}
	s.edits = append(s.edits, edit{start: s.offset(c.Pos()), end: end})
}

// apply splices the recorded edits into the source and prepends the
// generated header.
func (s *source) apply() []byte {
	sort.SliceStable(s.edits, func(i, j int) bool {
		return s.edits[i].start < s.edits[j].start
	})

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by roko gen from %s. DO NOT EDIT.\n\n", filepath.Base(s.name))
	last := 0
	for _, e := range s.edits {
		b.Write(s.src[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.Write(s.src[last:])
	return b.Bytes()
}

// finish adds the imports the generated code needs and formats it.
func (s *source) finish(out []byte) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, s.name, out, parser.ParseComments)
	if err != nil {
		e := errors.New("RE113").Wrap(err)
		var list scanner.ErrorList
		if stderrors.As(err, &list) && len(list) > 0 {
			p := list[0].Pos
			e = e.WithSourceLocation(p.Filename, out, p.Line, p.Column)
		}
		return nil, e
	}
	for _, path := range s.imports {
		astutil.AddImport(fset, file, path)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, errors.New("RE113").Wrap(err)
	}
	return buf.Bytes(), nil
}

// importName returns the local name of the import of path, def when it is
// imported without a name, or "" when it is not usable by qualifier.
func (s *source) importName(path, def string) string {
	for _, imp := range s.file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || p != path {
			continue
		}
		if imp.Name == nil {
			return def
		}
		if imp.Name.Name == "_" || imp.Name.Name == "." {
			return ""
		}
		return imp.Name.Name
	}
	return ""
}

// require returns the qualifier for path, scheduling an import when the
// file does not have one yet.
func (s *source) require(path string) string {
	def := path[strings.LastIndex(path, "/")+1:]
	if name := s.importName(path, def); name != "" {
		return name
	}
	for _, p := range s.imports {
		if p == path {
			return def
		}
	}
	s.imports = append(s.imports, path)
	return def
}

func (s *source) text(n ast.Node) string {
	return string(s.src[s.offset(n.Pos()):s.offset(n.End())])
}

func (s *source) offset(pos token.Pos) int {
	return s.tok.Offset(pos)
}

func (s *source) errorAt(code string, pos token.Pos) *errors.RokoError {
	p := s.fset.Position(pos)
	return errors.New(code).WithSourceLocation(p.Filename, s.src, p.Line, p.Column)
}

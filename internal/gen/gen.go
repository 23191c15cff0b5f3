// Package gen translates the template IR into Go source text. Generation
// is IR-driven and mechanical: every tree the parser accepts is generable,
// so the only failure mode of an emitted function is sink I/O.
package gen

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/templc/templc/internal/parse"
)

// DefaultRuntimePath is the import path of the runtime support library the
// generated code depends on.
const DefaultRuntimePath = "github.com/templc/templc/render"

// Options control the fixed surroundings of generated files.
type Options struct {
	Header      string // first-line comment of every generated file
	RuntimePath string // import path of the render runtime
}

type generator struct {
	unit  Unit
	table *Table
	opts  Options
	body  bytes.Buffer
	text  bytes.Buffer      // pending literal text, coalesced into one write
	deps  map[string]string // import path -> package identifier ("" = path base)
}

// Generate translates one parsed template into a Go source file declaring a
// single exported rendering function: the sink parameter first, then the
// declared parameters in declared order, returning error for sink I/O
// failure only. Output is canonical gofmt form, so recompiling an unchanged
// template is byte-identical.
func Generate(t *parse.Template, u Unit, tbl *Table, opts Options) ([]byte, error) {
	if opts.RuntimePath == "" {
		opts.RuntimePath = DefaultRuntimePath
	}
	g := &generator{unit: u, table: tbl, opts: opts, deps: map[string]string{"io": ""}}
	g.emitBody(t.Body)
	g.flushText()

	var buf bytes.Buffer
	if opts.Header != "" {
		fmt.Fprintf(&buf, "// %s\n\n", opts.Header)
	}
	fmt.Fprintf(&buf, "package %s\n\n", tbl.PkgName(u.Dir))
	buf.WriteString("import (\n")
	for _, path := range sortedKeys(g.deps) {
		name := g.deps[path]
		if name != "" && name != pathBase(path) {
			fmt.Fprintf(&buf, "\t%s %s\n", name, strconv.Quote(path))
		} else {
			fmt.Fprintf(&buf, "\t%s\n", strconv.Quote(path))
		}
	}
	buf.WriteString(")\n\n")
	fmt.Fprintf(&buf, "func %s(w io.Writer", FuncName(u.Name))
	for _, p := range t.Params {
		fmt.Fprintf(&buf, ", %s %s", p.Name, p.Type)
	}
	buf.WriteString(") error {\n")
	buf.Write(g.body.Bytes())
	buf.WriteString("return nil\n}\n")

	out, err := imports.Process(u.Name+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("malformed generated source for %s: %w", u.Qualified(), err)
	}
	return out, nil
}

func (g *generator) emitBody(nodes []parse.Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *parse.TextNode:
			g.text.WriteString(n.Text)
			continue
		case *parse.ExprNode:
			g.flushText()
			g.emitExpr(n.Expr)
		case *parse.CondNode:
			g.flushText()
			for i, br := range n.Branches {
				if i == 0 {
					fmt.Fprintf(&g.body, "if %s {\n", br.Cond)
				} else {
					fmt.Fprintf(&g.body, "} else if %s {\n", br.Cond)
				}
				g.emitBody(br.Body)
				g.flushText()
			}
			if n.HasElse {
				g.body.WriteString("} else {\n")
				g.emitBody(n.Else)
				g.flushText()
			}
			g.body.WriteString("}\n")
		case *parse.LoopNode:
			g.flushText()
			fmt.Fprintf(&g.body, "for %s := range %s {\n", rangePattern(n.Pattern), n.Source)
			g.emitBody(n.Body)
			g.flushText()
			g.body.WriteString("}\n")
		case *parse.CallNode:
			g.flushText()
			g.emitCall(n)
		}
	}
}

func (g *generator) flushText() {
	if g.text.Len() == 0 {
		return
	}
	fmt.Fprintf(&g.body, "if _, err := io.WriteString(w, %s); err != nil {\nreturn err\n}\n",
		strconv.Quote(g.text.String()))
	g.text.Reset()
}

// emitExpr routes an interpolated value through the escaping primitive
// unless the expression is statically wrapped in the raw marker, in which
// case the write bypasses escaping entirely.
func (g *generator) emitExpr(expr string) {
	expr = strings.TrimSpace(expr)
	g.deps[g.opts.RuntimePath] = ""
	if isRawWrapped(expr) {
		fmt.Fprintf(&g.body, "if _, err := io.WriteString(w, string(%s)); err != nil {\nreturn err\n}\n", expr)
		return
	}
	fmt.Fprintf(&g.body, "if err := render.Escape(w, %s); err != nil {\nreturn err\n}\n", expr)
}

// isRawWrapped reports whether expr is exactly one render.Raw(...) call.
// The check is conservative: an expression it cannot prove raw still renders
// raw, because render.Escape unwraps the Raw type at run time.
func isRawWrapped(expr string) bool {
	const prefix = "render.Raw("
	if !strings.HasPrefix(expr, prefix) {
		return false
	}
	depth := 1
	for i := len(prefix); i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(expr)-1
			}
		}
	}
	return false
}

func (g *generator) emitCall(n *parse.CallNode) {
	tgt, ok := g.table.Resolve(g.unit, n.Name)
	if !ok {
		// not a known template: keep the directive as a value interpolation
		// so host-language calls such as @render.Raw(x) work unbraced
		g.emitExpr(n.Name + "(" + strings.Join(n.Args, ", ") + ")")
		return
	}
	callee := tgt.Func
	if tgt.PkgPath != "" {
		g.deps[tgt.PkgPath] = tgt.PkgName
		callee = tgt.PkgName + "." + tgt.Func
	}
	args := append([]string{"w"}, n.Args...)
	fmt.Fprintf(&g.body, "if err := %s(%s); err != nil {\nreturn err\n}\n", callee, strings.Join(args, ", "))
}

// rangePattern maps a loop binding to Go range variables: a bare name binds
// the element, a parenthesized pair binds index and element.
func rangePattern(pat string) string {
	if strings.HasPrefix(pat, "(") && strings.HasSuffix(pat, ")") {
		return strings.TrimSpace(pat[1 : len(pat)-1])
	}
	return "_, " + pat
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func pathBase(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

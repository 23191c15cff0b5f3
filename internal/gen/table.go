package gen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Unit identifies one template file within the compiled tree.
type Unit struct {
	Name string   // file base name as written, e.g. "hello"
	Dir  []string // directory elements relative to the template root
}

// Qualified returns the dotted qualified name, e.g. "sub.hello".
func (u Unit) Qualified() string {
	if len(u.Dir) == 0 {
		return u.Name
	}
	return strings.Join(u.Dir, ".") + "." + u.Name
}

// Target is a resolved call destination.
type Target struct {
	Func    string // generated Go identifier
	PkgName string // package identifier at the call site; "" for same package
	PkgPath string // import path; "" for same package
}

// Table is the name-resolution table built in the enumeration pass, before
// any file is generated. Call targets resolve against it, so forward and
// cross-directory references need no dependency ordering.
type Table struct {
	modulePath string
	rootPkg    string
	units      map[string]Unit
	funcs      map[string]string // dir + generated identifier -> qualified name
}

// NewTable returns an empty table. modulePath is the import path of the
// generated root package; rootPkg is its package name.
func NewTable(modulePath, rootPkg string) *Table {
	return &Table{
		modulePath: modulePath,
		rootPkg:    rootPkg,
		units:      make(map[string]Unit),
		funcs:      make(map[string]string),
	}
}

// Add registers one template unit. Distinct file names in one directory can
// sanitize to the same Go identifier ("my-page" and "my_page" both become
// My_page); the collision is detected here, while failures are still
// per-file warnings, rather than by the downstream Go compile.
func (t *Table) Add(u Unit) error {
	key := strings.Join(u.Dir, "/") + "\x00" + FuncName(u.Name)
	if prev, ok := t.funcs[key]; ok {
		return fmt.Errorf("template %s collides with %s: both generate function %s in the same package",
			u.Qualified(), prev, FuncName(u.Name))
	}
	t.funcs[key] = u.Qualified()
	t.units[u.Qualified()] = u
	return nil
}

// Resolve resolves a dotted call name written in the template identified by
// from. Names resolve relative to the caller's directory first, then
// relative to the template root, so a sibling is reachable by its simple
// name from anywhere in the same directory.
func (t *Table) Resolve(from Unit, name string) (Target, bool) {
	parts := strings.Split(name, ".")
	if tgt, ok := t.lookup(from, append(append([]string{}, from.Dir...), parts...)); ok {
		return tgt, true
	}
	return t.lookup(from, parts)
}

func (t *Table) lookup(from Unit, parts []string) (Target, bool) {
	q := strings.Join(parts, ".")
	u, ok := t.units[q]
	if !ok {
		return Target{}, false
	}
	tgt := Target{Func: FuncName(u.Name)}
	if samePath(from.Dir, u.Dir) {
		return tgt, true
	}
	tgt.PkgPath = t.modulePath
	if len(u.Dir) > 0 {
		tgt.PkgPath += "/" + strings.Join(u.Dir, "/")
	}
	tgt.PkgName = t.PkgName(u.Dir)
	return tgt, true
}

// PkgName returns the package name for a directory of the mirrored tree.
func (t *Table) PkgName(dir []string) string {
	if len(dir) == 0 {
		return t.rootPkg
	}
	return sanitize(dir[len(dir)-1], false)
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FuncName maps a template file base name to its generated Go identifier.
// The identifier is exported so cross-package calls resolve; the mapping is
// deterministic, keeping recompiles byte-identical.
func FuncName(name string) string {
	return sanitize(name, true)
}

func sanitize(name string, export bool) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	s := sb.String()
	if s == "" || unicode.IsDigit(rune(s[0])) {
		s = "T" + s
	}
	if export {
		r, size := utf8.DecodeRuneInString(s)
		s = string(unicode.ToUpper(r)) + s[size:]
	}
	return s
}

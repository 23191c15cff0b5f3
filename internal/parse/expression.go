package parse

import "fmt"

// expression scans one opaque host-language expression starting at pos and
// returns the matched span. The scanner validates delimiter balance and
// finds the expression boundary; it never interprets the expression, which
// is type-checked later by the host compiler. The token ends at the first
// byte that cannot extend it, so a closing brace belonging to an enclosing
// block is never consumed.
func (p *parser) expression(pos int) Result[string] {
	i := pos
	for i < len(p.src) && (p.src[i] == '&' || p.src[i] == '*') {
		i++
	}
	if i >= len(p.src) {
		return incomplete[string](1)
	}
	var r Result[struct{}]
	switch c := p.src[i]; {
	case c == '(' || c == '[':
		r = p.balanced(i)
	case c == '"' || c == '\'' || c == '`':
		r = p.quoted(i)
	case isDigit(c):
		r = p.number(i)
	case isIdentStart(c):
		id := p.identifier(i)
		if id.Status != StatusComplete {
			return carry[string](id)
		}
		r = complete(struct{}{}, id.Rest)
	default:
		return failed[string](i, fmt.Sprintf("expected expression, found %q", c))
	}
	if r.Status != StatusComplete {
		return carry[string](r)
	}
	i = r.Rest

	// postfix chain: field/path access, call arguments, indexing
	for i < len(p.src) {
		switch {
		case p.src[i] == '.' && i+1 < len(p.src) && isIdentStart(p.src[i+1]):
			id := p.identifier(i + 1)
			i = id.Rest
		case p.src[i] == ':' && i+2 < len(p.src) && p.src[i+1] == ':' && isIdentStart(p.src[i+2]):
			id := p.identifier(i + 2)
			i = id.Rest
		case p.src[i] == '(' || p.src[i] == '[':
			r := p.balanced(i)
			if r.Status != StatusComplete {
				return carry[string](r)
			}
			i = r.Rest
		default:
			return complete(string(p.src[pos:i]), i)
		}
	}
	return complete(string(p.src[pos:i]), i)
}

// balanced consumes a delimited group starting at the opening delimiter,
// honoring nested (), [], {} and quoted literals. Input ending inside the
// group is Incomplete; a mismatched closer is Failed.
func (p *parser) balanced(pos int) Result[struct{}] {
	var stack []byte
	i := pos
	for i < len(p.src) {
		switch c := p.src[i]; c {
		case '(':
			stack = append(stack, ')')
			i++
		case '[':
			stack = append(stack, ']')
			i++
		case '{':
			stack = append(stack, '}')
			i++
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return failed[struct{}](i, fmt.Sprintf("unbalanced %q", c))
			}
			stack = stack[:len(stack)-1]
			i++
			if len(stack) == 0 {
				return complete(struct{}{}, i)
			}
		case '"', '\'', '`':
			r := p.quoted(i)
			if r.Status != StatusComplete {
				return r
			}
			i = r.Rest
		default:
			i++
		}
	}
	return incomplete[struct{}](1)
}

// quoted consumes a string or character literal. Backslash escapes are
// honored except in backtick strings. An unterminated literal is Incomplete.
func (p *parser) quoted(pos int) Result[struct{}] {
	q := p.src[pos]
	i := pos + 1
	for i < len(p.src) {
		switch {
		case p.src[i] == q:
			return complete(struct{}{}, i+1)
		case p.src[i] == '\\' && q != '`':
			i += 2
		default:
			i++
		}
	}
	return incomplete[struct{}](1)
}

func (p *parser) number(pos int) Result[struct{}] {
	i := pos
	for i < len(p.src) && isDigit(p.src[i]) {
		i++
	}
	if i+1 < len(p.src) && p.src[i] == '.' && isDigit(p.src[i+1]) {
		i++
		for i < len(p.src) && isDigit(p.src[i]) {
			i++
		}
	}
	return complete(struct{}{}, i)
}

func (p *parser) identifier(pos int) Result[string] {
	if pos >= len(p.src) {
		return incomplete[string](1)
	}
	if !isIdentStart(p.src[pos]) {
		return failed[string](pos, "expected identifier")
	}
	i := pos + 1
	for i < len(p.src) && isIdentChar(p.src[i]) {
		i++
	}
	return complete(string(p.src[pos:i]), i)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

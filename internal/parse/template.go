package parse

import "fmt"

// Parse parses one template file with the default grammar. The buffer is
// the whole file; a valid file must parse exactly, with no trailing bytes.
func Parse(src []byte) (*Template, error) {
	return ParseWith(DefaultGrammar(), src)
}

// ParseWith is Parse with an explicit grammar table.
func ParseWith(g Grammar, src []byte) (*Template, error) {
	p := &parser{src: src, g: g}
	r := p.template()
	switch r.Status {
	case StatusComplete:
		if r.Rest != len(src) {
			return nil, &Error{Pos: r.Rest, Msg: "trailing input after template"}
		}
		return r.Value, nil
	case StatusIncomplete:
		return nil, &Error{Pos: len(src), Msg: "input ends inside an unterminated construct", Incomplete: true}
	default:
		return nil, &Error{Pos: r.Pos, Msg: r.Msg}
	}
}

// template parses an optional parameter header followed by the body.
func (p *parser) template() Result[*Template] {
	t := &Template{}
	i := 0
	sp := p.spacelike(0)
	if sp.Status != StatusComplete {
		return carry[*Template](sp)
	}
	if j := sp.Value.rest; j+1 < len(p.src) && p.src[j] == p.g.Marker && p.src[j+1] == '(' {
		h := p.header(j)
		if h.Status != StatusComplete {
			return carry[*Template](h)
		}
		t.Params = h.Value
		i = h.Rest
	}
	// without a header, leading whitespace is literal text
	b := p.body(i, false)
	if b.Status != StatusComplete {
		return carry[*Template](b)
	}
	t.Body = b.Value
	return complete(t, b.Rest)
}

// header parses marker+"(name: type, ...)". src[pos] is the marker.
// Horizontal whitespace and at most one newline after the closing
// parenthesis are consumed.
func (p *parser) header(pos int) Result[[]Param] {
	var params []Param
	i := pos + 2
	for {
		sp := p.spacelike(i)
		if sp.Status != StatusComplete {
			return carry[[]Param](sp)
		}
		i = sp.Value.rest
		if i >= len(p.src) {
			return incomplete[[]Param](1)
		}
		if p.src[i] == ')' {
			i++
			break
		}
		name := p.identifier(i)
		if name.Status != StatusComplete {
			return failAt[[]Param](name, pos)
		}
		sp = p.spacelike(name.Rest)
		if sp.Status != StatusComplete {
			return carry[[]Param](sp)
		}
		i = sp.Value.rest
		if i >= len(p.src) {
			return incomplete[[]Param](1)
		}
		if p.src[i] != ':' {
			return failed[[]Param](pos, fmt.Sprintf("expected ':' after parameter %s", name.Value))
		}
		sp = p.spacelike(i + 1)
		if sp.Status != StatusComplete {
			return carry[[]Param](sp)
		}
		typ := p.typeExpr(sp.Value.rest)
		if typ.Status != StatusComplete {
			return failAt[[]Param](typ, pos)
		}
		params = append(params, Param{Name: name.Value, Type: typ.Value})
		i = typ.Rest
		if i < len(p.src) && p.src[i] == ',' {
			i++
		}
	}
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t' || p.src[i] == '\r') {
		i++
	}
	if i < len(p.src) && p.src[i] == '\n' {
		i++
	}
	return complete(params, i)
}

// typeExpr scans a type expression up to a comma or closing parenthesis at
// delimiter depth zero. The span is passed through verbatim; only balance
// is validated here. A colon at depth zero means a new name: entry began
// without a separating comma, which would otherwise be absorbed into the
// type and only surface as malformed generated source.
func (p *parser) typeExpr(pos int) Result[string] {
	var stack []byte
	i := pos
scan:
	for i < len(p.src) {
		switch c := p.src[i]; c {
		case '(':
			stack = append(stack, ')')
		case '[':
			stack = append(stack, ']')
		case '{':
			stack = append(stack, '}')
		case ':':
			if len(stack) == 0 {
				return failed[string](i, "expected ',' between parameters")
			}
		case ')', ']', '}':
			if len(stack) == 0 {
				if c == ')' {
					break scan
				}
				return failed[string](i, fmt.Sprintf("unbalanced %q in type", c))
			}
			if stack[len(stack)-1] != c {
				return failed[string](i, fmt.Sprintf("unbalanced %q in type", c))
			}
			stack = stack[:len(stack)-1]
		case ',':
			if len(stack) == 0 {
				break scan
			}
		}
		i++
	}
	if len(stack) > 0 {
		return incomplete[string](1)
	}
	typ := trimSpace(p.src[pos:i])
	if typ == "" {
		return failed[string](pos, "empty parameter type")
	}
	return complete(typ, i)
}

func trimSpace(b []byte) string {
	start, end := 0, len(b)
	for start < end && isSpaceByte(b[start]) {
		start++
	}
	for end > start && isSpaceByte(b[end-1]) {
		end--
	}
	return string(b[start:end])
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// body parses a maximal ordered sequence of body elements. Inside a block
// it stops at the unconsumed closing brace; at the top level it runs to the
// end of input, where a bare closing brace is ordinary text.
func (p *parser) body(pos int, inBlock bool) Result[[]Node] {
	var nodes []Node
	i := pos
	for {
		if i >= len(p.src) {
			if inBlock {
				return incomplete[[]Node](1)
			}
			return complete(nodes, i)
		}
		c := p.src[i]
		if c == p.g.Marker {
			r := p.templateExpression(i)
			if r.Status != StatusComplete {
				return carry[[]Node](r)
			}
			if r.Value != nil {
				nodes = append(nodes, r.Value)
			}
			i = r.Rest
			continue
		}
		if inBlock && c == '}' {
			return complete(nodes, i)
		}
		start := i
		for i < len(p.src) && p.src[i] != p.g.Marker && !(inBlock && p.src[i] == '}') {
			i++
		}
		nodes = append(nodes, &TextNode{Text: string(p.src[start:i]), pos: start})
	}
}

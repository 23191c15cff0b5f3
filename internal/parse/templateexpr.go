package parse

import "fmt"

// templateExpression parses one directive at pos, where src[pos] is the
// marker. A comment directive completes with a nil node; the body parser
// drops it. A malformed directive fails the whole enclosing body parse,
// reporting the marker position.
func (p *parser) templateExpression(pos int) Result[Node] {
	i := pos + 1
	if i >= len(p.src) {
		return incomplete[Node](1)
	}
	switch c := p.src[i]; {
	case c == p.g.Marker:
		return complete[Node](&TextNode{Text: string(p.g.Marker), pos: pos}, i+1)
	case c == p.g.CommentMark:
		r := p.comment(pos)
		if r.Status != StatusComplete {
			return carry[Node](r)
		}
		return complete[Node](nil, r.Rest)
	case c == '{':
		return p.bracedExpression(pos)
	}
	if after := p.keyword(i, p.g.If); after >= 0 {
		return p.conditional(pos, after)
	}
	if after := p.keyword(i, p.g.For); after >= 0 {
		return p.loop(pos, after)
	}
	if r := p.call(pos); r.Status != StatusFailed {
		return r
	}
	r := p.expression(i)
	if r.Status != StatusComplete {
		return failAt[Node](r, pos)
	}
	return complete[Node](&ExprNode{Expr: r.Value, pos: pos}, r.Rest)
}

// keyword matches kw at pos with a word boundary after it, returning the
// position after the keyword or -1.
func (p *parser) keyword(pos int, kw string) int {
	end := pos + len(kw)
	if end > len(p.src) || string(p.src[pos:end]) != kw {
		return -1
	}
	if end < len(p.src) && isIdentChar(p.src[end]) {
		return -1
	}
	return end
}

// bracedExpression parses the explicit interpolation form marker+"{expr}",
// used when the expression would otherwise absorb adjacent literal text.
func (p *parser) bracedExpression(pos int) Result[Node] {
	sp := p.spacelike(pos + 2)
	if sp.Status != StatusComplete {
		return failAt[Node](sp, pos)
	}
	e := p.expression(sp.Value.rest)
	if e.Status != StatusComplete {
		return failAt[Node](e, pos)
	}
	sp = p.spacelike(e.Rest)
	if sp.Status != StatusComplete {
		return failAt[Node](sp, pos)
	}
	i := sp.Value.rest
	if i >= len(p.src) {
		return incomplete[Node](1)
	}
	if p.src[i] != '}' {
		return failed[Node](pos, fmt.Sprintf("expected '}' to close interpolation, found %q", p.src[i]))
	}
	return complete[Node](&ExprNode{Expr: e.Value, pos: pos}, i+1)
}

// block parses "{ body }" and applies the trimming rule: one newline
// immediately after the closing brace is consumed, once, never cascading.
func (p *parser) block(pos int) Result[[]Node] {
	sp := p.spacelike(pos)
	if sp.Status != StatusComplete {
		return carry[[]Node](sp)
	}
	i := sp.Value.rest
	if i >= len(p.src) {
		return incomplete[[]Node](1)
	}
	if p.src[i] != '{' {
		return failed[[]Node](i, fmt.Sprintf("expected '{', found %q", p.src[i]))
	}
	b := p.body(i+1, true)
	if b.Status != StatusComplete {
		return b
	}
	// body stops at the unconsumed closing brace
	j := b.Rest + 1
	switch {
	case j+1 < len(p.src) && p.src[j] == '\r' && p.src[j+1] == '\n':
		j += 2
	case j < len(p.src) && p.src[j] == '\n':
		j++
	}
	return complete(b.Value, j)
}

// conditional parses an if / else if / else chain. after is the position
// just past the if keyword. At most one condition-less arm is accepted and
// it must be last.
func (p *parser) conditional(pos, after int) Result[Node] {
	n := &CondNode{pos: pos}
	i := after
	for {
		sp := p.spacelike(i)
		if sp.Status != StatusComplete {
			return failAt[Node](sp, pos)
		}
		cond := p.expression(sp.Value.rest)
		if cond.Status != StatusComplete {
			return failAt[Node](cond, pos)
		}
		body := p.block(cond.Rest)
		if body.Status != StatusComplete {
			return failAt[Node](body, pos)
		}
		n.Branches = append(n.Branches, Branch{Cond: cond.Value, Body: body.Value})

		next, ok := p.elseArm(body.Rest)
		if !ok {
			return complete[Node](n, body.Rest)
		}
		sp = p.spacelike(next)
		if sp.Status != StatusComplete {
			return failAt[Node](sp, pos)
		}
		if after := p.keyword(sp.Value.rest, p.g.If); after >= 0 {
			i = after
			continue
		}
		eb := p.block(sp.Value.rest)
		if eb.Status != StatusComplete {
			return failAt[Node](eb, pos)
		}
		n.Else = eb.Value
		n.HasElse = true
		if _, again := p.elseArm(eb.Rest); again {
			return failed[Node](pos, "conditional arm after the default else arm")
		}
		return complete[Node](n, eb.Rest)
	}
}

// elseArm looks ahead from pos for an else keyword separated only by
// insignificant input, returning the position after the keyword. The chain
// continues only when the keyword is itself followed by a block or a
// chained if, so body text that merely starts with the word stays text.
// The lookahead never consumes input on a miss.
func (p *parser) elseArm(pos int) (int, bool) {
	sp := p.spacelike(pos)
	if sp.Status != StatusComplete {
		return 0, false
	}
	after := p.keyword(sp.Value.rest, p.g.Else)
	if after < 0 {
		return 0, false
	}
	sp = p.spacelike(after)
	if sp.Status != StatusComplete {
		return 0, false
	}
	if j := sp.Value.rest; j < len(p.src) && (p.src[j] == '{' || p.keyword(j, p.g.If) >= 0) {
		return after, true
	}
	return 0, false
}

// loop parses marker+"for pattern in expr { body }".
func (p *parser) loop(pos, after int) Result[Node] {
	sp := p.spacelike(after)
	if sp.Status != StatusComplete {
		return failAt[Node](sp, pos)
	}
	pat := p.pattern(sp.Value.rest)
	if pat.Status != StatusComplete {
		return failAt[Node](pat, pos)
	}
	sp = p.spacelike(pat.Rest)
	if sp.Status != StatusComplete {
		return failAt[Node](sp, pos)
	}
	in := p.keyword(sp.Value.rest, p.g.In)
	if in < 0 {
		return failed[Node](pos, fmt.Sprintf("expected %q after loop pattern", p.g.In))
	}
	sp = p.spacelike(in)
	if sp.Status != StatusComplete {
		return failAt[Node](sp, pos)
	}
	src := p.expression(sp.Value.rest)
	if src.Status != StatusComplete {
		return failAt[Node](src, pos)
	}
	body := p.block(src.Rest)
	if body.Status != StatusComplete {
		return failAt[Node](body, pos)
	}
	n := &LoopNode{Pattern: pat.Value, Source: src.Value, Body: body.Value, pos: pos}
	return complete[Node](n, body.Rest)
}

// pattern parses a loop binding: a bare identifier or a parenthesized
// identifier list such as (i, item).
func (p *parser) pattern(pos int) Result[string] {
	if pos < len(p.src) && p.src[pos] == '(' {
		r := p.balanced(pos)
		if r.Status != StatusComplete {
			return carry[string](r)
		}
		return complete(string(p.src[pos:r.Rest]), r.Rest)
	}
	return p.identifier(pos)
}

// call parses marker + qualified name + parenthesized argument list, with
// nothing trailing the list. Anything else is Failed so the caller falls
// back to a value interpolation; the name itself is resolved at code
// generation time, not here.
func (p *parser) call(pos int) Result[Node] {
	id := p.identifier(pos + 1)
	if id.Status != StatusComplete {
		return failAt[Node](id, pos+1)
	}
	name := id.Value
	i := id.Rest
	for i+1 < len(p.src) && p.src[i] == '.' && isIdentStart(p.src[i+1]) {
		id = p.identifier(i + 1)
		name += "." + id.Value
		i = id.Rest
	}
	if i >= len(p.src) || p.src[i] != '(' {
		return failed[Node](i, "not a call")
	}
	i++
	sp := p.spacelike(i)
	if sp.Status != StatusComplete {
		return failAt[Node](sp, pos)
	}
	i = sp.Value.rest
	var args []string
	for {
		if i >= len(p.src) {
			return incomplete[Node](1)
		}
		if p.src[i] == ')' {
			i++
			break
		}
		a := p.expression(i)
		if a.Status != StatusComplete {
			return failAt[Node](a, pos)
		}
		args = append(args, a.Value)
		sp = p.spacelike(a.Rest)
		if sp.Status != StatusComplete {
			return failAt[Node](sp, pos)
		}
		i = sp.Value.rest
		if i < len(p.src) && p.src[i] == ',' {
			sp = p.spacelike(i + 1)
			if sp.Status != StatusComplete {
				return failAt[Node](sp, pos)
			}
			i = sp.Value.rest
		} else if i < len(p.src) && p.src[i] != ')' {
			return failed[Node](i, "expected ',' or ')' in argument list")
		}
	}
	// an expression continuing past the argument list is a value
	// interpolation, not a template call
	if i < len(p.src) {
		switch p.src[i] {
		case '.', '(', '[', ':':
			return failed[Node](i, "not a call")
		}
	}
	return complete[Node](&CallNode{Name: name, Args: args, pos: pos}, i)
}

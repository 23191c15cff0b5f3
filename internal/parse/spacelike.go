package parse

type parser struct {
	src []byte
	g   Grammar
}

// space describes a consumed run of insignificant input.
type space struct {
	rest    int
	newline bool // a newline was crossed inside the run
}

// spacelike consumes the longest run of whitespace and comments starting at
// pos. A zero-length run is a valid match; the only failure is an
// unterminated comment, reported at its opening marker.
func (p *parser) spacelike(pos int) Result[space] {
	i := pos
	nl := false
	for i < len(p.src) {
		c := p.src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '\n':
			nl = true
			i++
		case c == p.g.Marker && i+1 < len(p.src) && p.src[i+1] == p.g.CommentMark:
			r := p.comment(i)
			if r.Status != StatusComplete {
				return carry[space](r)
			}
			i = r.Rest
		default:
			return complete(space{rest: i, newline: nl}, i)
		}
	}
	return complete(space{rest: i, newline: nl}, i)
}

// comment consumes a marker-delimited comment. src[pos] is the marker and
// src[pos+1] the comment mark. Comments do not nest.
func (p *parser) comment(pos int) Result[struct{}] {
	i := pos + 2
	for i+1 < len(p.src) {
		if p.src[i] == p.g.CommentMark && p.src[i+1] == p.g.Marker {
			return complete(struct{}{}, i+2)
		}
		i++
	}
	return failed[struct{}](pos, "unterminated comment")
}

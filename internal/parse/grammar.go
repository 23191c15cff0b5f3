package parse

// Grammar is the directive syntax table. The marker, keyword spellings and
// comment delimiter are data rather than hard-coded so alternative spellings
// stay a configuration change. The escape convention is fixed: a doubled
// marker is a literal marker character.
type Grammar struct {
	Marker      byte // introduces a directive; doubled for a literal marker
	CommentMark byte // Marker+CommentMark opens a comment, CommentMark+Marker closes it
	If          string
	Else        string
	For         string
	In          string
}

// DefaultGrammar returns the documented syntax: @ marker, @* ... *@
// comments, @if / else if / else, @for ... in ... blocks.
func DefaultGrammar() Grammar {
	return Grammar{
		Marker:      '@',
		CommentMark: '*',
		If:          "if",
		Else:        "else",
		For:         "for",
		In:          "in",
	}
}

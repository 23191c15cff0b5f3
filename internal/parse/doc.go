// Package parse is the template language front-end. It turns the bytes of
// one template file into an immutable Template IR consumed by the code
// generator.
//
// The concrete syntax (see Grammar for the pluggable parts):
//
//	@(name: string, items: []string)   optional typed-parameter header
//	<h1>Hello @name!</h1>              interpolation, escaped at render time
//	@{items[0]}                        braced interpolation for disambiguation
//	@@                                 literal marker character
//	@* never rendered *@               comment
//	@if cond { ... } else if c { ... } else { ... }
//	@for item in items { ... }
//	@other(arg1, arg2)                 call another template, possibly
//	@sub.page(arg)                     in a sibling directory
//
// Embedded expressions are opaque: the parser validates delimiter balance
// and finds boundaries but never interprets them; the generated source
// hands them to the Go compiler verbatim.
//
// Every parser stage returns a tri-state Result: Complete, Incomplete
// (input ended mid-construct), or Failed (structurally invalid input).
// A malformed directive fails the whole file; partial recovery could emit
// code that silently drops content, so the compiler never attempts it.
//
// After a conditional block, the word "else" continues the chain only when
// a block or a chained if follows it; otherwise it is ordinary body text.
//
// One newline (LF or CRLF) immediately after a block's closing brace is
// consumed, so a directive occupying its own line leaves no blank line in
// the output.
package parse

package parse

import "fmt"

// Status classifies the outcome of a parser stage.
type Status int

const (
	// StatusComplete means the stage matched and consumed input up to Rest.
	StatusComplete Status = iota
	// StatusIncomplete means the input ended in the middle of the construct.
	// The buffer is finite, so the top-level caller turns this into a final
	// error, but intermediate combinators keep it distinct from StatusFailed
	// so alternation knows when backtracking is pointless.
	StatusIncomplete
	// StatusFailed means the input cannot form the construct at this position.
	StatusFailed
)

// Result is the tri-state outcome of a parser stage. Every parser is a pure
// function over the immutable source buffer and a byte position.
type Result[T any] struct {
	Status Status
	Value  T      // valid when Status == StatusComplete
	Rest   int    // position of the remaining input when complete
	Pos    int    // byte offset of the problem when failed
	Msg    string // description of the problem when failed
	Needed int    // lower bound of missing bytes when incomplete; 0 if unknown
}

func complete[T any](v T, rest int) Result[T] {
	return Result[T]{Status: StatusComplete, Value: v, Rest: rest}
}

func incomplete[T any](needed int) Result[T] {
	return Result[T]{Status: StatusIncomplete, Needed: needed}
}

func failed[T any](pos int, msg string) Result[T] {
	return Result[T]{Status: StatusFailed, Pos: pos, Msg: msg}
}

// carry converts a non-complete result to another value type, preserving the
// failure or incompleteness.
func carry[U, T any](r Result[T]) Result[U] {
	return Result[U]{Status: r.Status, Pos: r.Pos, Msg: r.Msg, Needed: r.Needed}
}

// failAt is carry with the failure position moved to pos. Directive parsers
// use it so a malformed directive body reports the directive marker.
func failAt[U, T any](r Result[T], pos int) Result[U] {
	if r.Status == StatusIncomplete {
		return incomplete[U](r.Needed)
	}
	return failed[U](pos, r.Msg)
}

// Error is the single error type reported at the template boundary. The
// distinction between a failed and an incomplete parse is kept only for
// diagnostics; both mean the file could not be compiled.
type Error struct {
	Pos        int
	Msg        string
	Incomplete bool
}

func (e *Error) Error() string {
	if e.Incomplete {
		return fmt.Sprintf("offset %d: unexpected end of input: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("offset %d: %s", e.Pos, e.Msg)
}

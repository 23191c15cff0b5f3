// Package render is the runtime support library for generated template
// functions. Generated code routes every interpolated value through Escape
// unless the value is wrapped in Raw.
package render

import (
	"fmt"
	"io"
	"strings"
)

// Raw marks a string as already-safe HTML. Interpolating a Raw value writes
// its contents verbatim, bypassing escaping.
type Raw string

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

// EscapeString returns s with the HTML-significant characters replaced by
// entity references.
func EscapeString(s string) string {
	return escaper.Replace(s)
}

// Escape writes the HTML-escaped textual form of v to w. Raw values are
// written verbatim. Non-string values are rendered with fmt.Sprint before
// escaping.
func Escape(w io.Writer, v any) error {
	var s string
	switch t := v.(type) {
	case Raw:
		_, err := io.WriteString(w, string(t))
		return err
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(v)
	}
	_, err := io.WriteString(w, EscapeString(s))
	return err
}

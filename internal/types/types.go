package types

import "fmt"

// Severity classifies a compile diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Warning reports that one template file could not be compiled. Warnings
// are per-file and never abort compilation of sibling files.
type Warning struct {
	Filename string
	Offset   int
	Line     int
	Column   int
	Message  string
	Severity Severity
}

// NewWarning builds a Warning, deriving line and column from the byte
// offset into src.
func NewWarning(filename string, src []byte, offset int, msg string, sev Severity) Warning {
	line, col := Position(src, offset)
	return Warning{
		Filename: filename,
		Offset:   offset,
		Line:     line,
		Column:   col,
		Message:  msg,
		Severity: sev,
	}
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", w.Filename, w.Line, w.Column, w.Severity, w.Message)
}

// Position converts a byte offset into 1-based line and column numbers.
func Position(src []byte, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	line, col = 1, 1
	for _, c := range src[:offset] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

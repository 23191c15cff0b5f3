package formatter

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/templc/templc/internal/types"
)

func init() {
	// keep assertions free of ANSI escapes
	color.NoColor = true
}

func TestFormat(t *testing.T) {
	warnings := []tt.Warning{
		tt.NewWarning("b.html.tpl", []byte("line one\n@bad"), 9, "could not compile template: oops", tt.SeverityWarning),
		tt.NewWarning("a.html.tpl", nil, 0, "read: permission denied", tt.SeverityWarning),
	}

	out := Format(warnings)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	// grouped and ordered by file name
	assert.Equal(t, "a.html.tpl:1:1: warning read: permission denied", lines[0])
	assert.Equal(t, "b.html.tpl:2:1: warning could not compile template: oops", lines[1])
}

func TestFormatSeverity(t *testing.T) {
	out := Format([]tt.Warning{
		tt.NewWarning("x.html.tpl", nil, 0, "boom", tt.SeverityError),
	})
	assert.Contains(t, out, " error boom")
}

func TestFormatEmpty(t *testing.T) {
	assert.Empty(t, Format(nil))
}

func TestPosition(t *testing.T) {
	src := []byte("ab\ncd\ne")
	tests := []struct {
		offset int
		line   int
		col    int
	}{
		{offset: 0, line: 1, col: 1},
		{offset: 2, line: 1, col: 3},
		{offset: 3, line: 2, col: 1},
		{offset: 5, line: 2, col: 3},
		{offset: 6, line: 3, col: 1},
		{offset: 99, line: 3, col: 2},
	}
	for _, tc := range tests {
		line, col := tt.Position(src, tc.offset)
		assert.Equal(t, tc.line, line, "offset %d", tc.offset)
		assert.Equal(t, tc.col, col, "offset %d", tc.offset)
	}
}

// Package formatter renders compile diagnostics for terminal output.
package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	tt "github.com/templc/templc/internal/types"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgWhite)
)

// Format renders warnings grouped by file, one line per diagnostic.
func Format(warnings []tt.Warning) string {
	byFile := make(map[string][]tt.Warning)
	for _, w := range warnings {
		byFile[w.Filename] = append(byFile[w.Filename], w)
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var sb strings.Builder
	for _, f := range files {
		for _, w := range byFile[f] {
			style := warningStyle
			if w.Severity == tt.SeverityError {
				style = errorStyle
			}
			fmt.Fprintf(&sb, "%s%s %s %s\n",
				fileStyle.Sprint(w.Filename),
				lineStyle.Sprintf(":%d:%d:", w.Line, w.Column),
				style.Sprint(w.Severity.String()),
				messageStyle.Sprint(w.Message),
			)
		}
	}
	return sb.String()
}

package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text", input: "hello world", expected: "hello world"},
		{name: "angle brackets", input: "<script>", expected: "&lt;script&gt;"},
		{name: "ampersand", input: "a & b", expected: "a &amp; b"},
		{name: "quotes", input: `"quoted" and 'single'`, expected: "&#34;quoted&#34; and &#39;single&#39;"},
		{name: "already escaped is escaped again", input: "&amp;", expected: "&amp;amp;"},
		{name: "empty", input: "", expected: ""},
		{name: "unicode passes through", input: "héllo ✓", expected: "héllo ✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeString(tt.input))
		})
	}
}

type stamp struct{}

func (stamp) String() string { return "<t>" }

func TestEscape(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "string is escaped", value: `<a href="x">`, expected: "&lt;a href=&#34;x&#34;&gt;"},
		{name: "raw bypasses escaping", value: Raw("<b>bold</b>"), expected: "<b>bold</b>"},
		{name: "stringer is escaped", value: stamp{}, expected: "&lt;t&gt;"},
		{name: "int", value: 42, expected: "42"},
		{name: "bool", value: true, expected: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			require.NoError(t, Escape(&sb, tt.value))
			assert.Equal(t, tt.expected, sb.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("sink closed") }

func TestEscapePropagatesWriteError(t *testing.T) {
	err := Escape(failingWriter{}, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink closed")

	err = Escape(failingWriter{}, Raw("text"))
	require.Error(t, err)
}

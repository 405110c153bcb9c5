package repl

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// MarkStyle renders the '^' line of a caret diagnostic.
var MarkStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("9")).
	Bold(true)

// maskRune replaces each parameter value rune in [MaskedCaret].
const maskRune = '*'

// Caret returns text followed by a line with a '^' under the byte offset pos.
// Offsets past the end of text point just after its last rune.
func Caret(text string, pos int) string {
	return caret(text, pos, nil)
}

// MaskedCaret is [Caret] with every parameter value rune shown as '*'.
// Service names, keys and delimiters are shown as is.
func MaskedCaret(text string, pos int) string {
	return caret(text, pos, valueBytes(text))
}

func caret(text string, pos int, masked []bool) string {
	pos = max(0, min(pos, len(text)))

	var b strings.Builder

	col := -1

	for i, r := range text {
		if col < 0 && i >= pos {
			col = lipgloss.Width(b.String())
		}

		if i < len(masked) && masked[i] {
			r = maskRune
		} else {
			r = visible(r)
		}

		b.WriteRune(r)
	}

	line := b.String()
	if col < 0 {
		col = lipgloss.Width(line)
	}

	return line + "\n" + strings.Repeat(" ", col) + "^"
}

// Control characters have no width; show them substituted.
func visible(r rune) rune {
	switch {
	case r == '\t':
		return ' '
	case unicode.IsControl(r):
		return '?'
	}

	return r
}

// valueBytes marks the bytes of text that belong to parameter values,
// including both bytes of an escaped ";;". It follows the grammar loosely so
// that text which fails to parse is still masked past the error.
func valueBytes(text string) []bool {
	start := strings.Index(text, "::")
	if start < 0 {
		return nil
	}

	masked := make([]bool, len(text))
	inKey := true

	for i := start + 2; i < len(text); i++ {
		c := text[i]

		switch {
		case inKey:
			inKey = c != '='

		case c != ';':
			masked[i] = true

		case i+1 < len(text) && text[i+1] == ';':
			masked[i], masked[i+1] = true, true
			i++

		default:
			inKey = true
		}
	}

	return masked
}

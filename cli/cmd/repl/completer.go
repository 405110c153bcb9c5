package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available command-mode commands.
var ctrlCommands = []string{"help", "keys", "get", "show", "clear", "quit"}

// isWordBoundary reports whether r separates completion words: whitespace
// and the grammar's punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', ':', ';', '=':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets in input.
// The word is empty when cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inKeyPosition reports whether the word starting at wordStart is a
// parameter key: it follows "::" or a ';' that is not an escaped ";;".
func inKeyPosition(input string, wordStart int) bool {
	prefix := input[:wordStart]

	if strings.HasSuffix(prefix, "::") {
		return true
	}

	semis := len(prefix) - len(strings.TrimRight(prefix, ";"))
	if semis%2 == 0 {
		return false
	}

	// A key cannot start inside a value that is still open, so the text
	// before the run must contain a "::".
	return strings.Contains(prefix, "::")
}

// computeMatches returns the fuzzy matches for the word at the cursor, best
// first, and the word's byte offsets.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, ws, we := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, ws, we
	}

	var candidates []string

	switch m.mode {
	case modeCtrl:
		fields := strings.Fields(input[:ws])

		switch {
		case len(fields) == 0:
			candidates = ctrlCommands
		case len(fields) == 1 && fields[0] == "get":
			candidates = m.keys()
		}

	case modeValidate:
		if inKeyPosition(input, ws) {
			candidates = m.keys()
		}
	}

	if len(candidates) == 0 {
		return nil, ws, we
	}

	return fuzzy.Find(word, candidates), ws, we
}

// renderCandidateBar builds the one-line completion bar, ellipsized to width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		last := i == len(matches)-1
		if i > 0 && (used+w > width || (!last && used+w+reserve > width)) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders match with its matched runes highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

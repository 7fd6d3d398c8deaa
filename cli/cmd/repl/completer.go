package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/stash/lang"
)

// isWordRune reports whether r may appear in an identifier, keyword, or
// command name. Every other rune delimits words for completion.
func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// an operator, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset lies inside a string literal of input.
func inString(input string, offset int) bool {
	var (
		quote   rune
		escaped bool
	)

	for _, r := range input[:min(offset, len(input))] {
		switch {
		case escaped:
			escaped = false
		case quote == 0:
			if r == '"' || r == '\'' {
				quote = r
			}
		case r == '\\':
			escaped = true
		case r == quote:
			quote = 0
		}
	}

	return quote != 0
}

// previousWord returns the word immediately before offset, skipping
// whitespace.
func previousWord(input string, offset int) string {
	prefix := strings.TrimRight(input[:offset], " \t")

	word, _, _ := wordBounds(prefix, len(prefix))

	return word
}

// evalCandidates returns the completions offered in eval mode for a word
// starting at wordStart. Only type names follow the keyword "as"; elsewhere
// keywords and visible variable names are offered.
func evalCandidates(session *lang.Session, input string, wordStart int) []string {
	if inString(input, wordStart) {
		return nil
	}

	if previousWord(input, wordStart) == lang.KeywordAs {
		return lang.TypeNames
	}

	names := slices.Clone(lang.Keywords)

	return append(names, session.Names()...)
}

// draft is an unsubmitted input line.
type draft struct {
	text   string
	cursor int
}

// completion holds the candidates offered for the word at the cursor.
type completion struct {
	matches  fuzzy.Matches
	saved    draft // input before cycling began
	start    int   // byte offsets of the word being completed
	end      int
	selected int
	cycling  bool
}

func (c *completion) reset() { *c = completion{} }

// highlighted returns the index of the match shown as selected, or -1.
func (c completion) highlighted() int {
	if !c.cycling {
		return -1
	}

	return c.selected
}

// computeMatches ranks the candidates for the word at the cursor, best
// first, and returns them with the word's byte offsets. An empty word has
// no matches, except directly after "as" where every type name is offered.
func (m model) computeMatches() (matches fuzzy.Matches, start, end int) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())

	var candidates []string
	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = evalCandidates(m.eval.session, input, start)
	}

	switch {
	case len(candidates) == 0:
		return nil, start, end

	case word != "":
		return fuzzy.Find(word, candidates), start, end

	case m.mode == modeCtrl || previousWord(input, start) != lang.KeywordAs:
		return nil, start, end
	}

	matches = make(fuzzy.Matches, len(candidates))
	for i, c := range candidates {
		matches[i] = fuzzy.Match{Str: c, Index: i}
	}

	return matches, start, end
}

// complete refreshes the matches. With settle set, a word that already
// equals its only match is left alone.
func (m *model) complete(settle bool) {
	c := &m.comp
	c.matches, c.start, c.end = m.computeMatches()

	if settle && len(c.matches) == 1 &&
		m.input.Value()[c.start:c.end] == c.matches[0].Str {
		c.matches = nil
	}
}

// cycle replaces the word at the cursor with the next match in direction
// step. A lone match is inserted outright.
func (m model) cycle(step int) model {
	c := &m.comp
	n := len(c.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceWord(c.matches[0].Str)
		c.reset()

		return m

	case c.cycling:
		c.selected = (c.selected + step + n) % n

	default:
		c.cycling = true
		c.saved = m.draft()

		c.selected = 0
		if step < 0 {
			c.selected = n - 1
		}
	}

	m.replaceWord(c.matches[c.selected].Str)

	return m
}

// abandon restores the input from before cycling began.
func (m *model) abandon() {
	m.restore(m.comp.saved)
	m.comp.cycling = false
	m.complete(false)
}

func (m *model) replaceWord(s string) {
	text := m.input.Value()

	m.input.SetValue(text[:m.comp.start] + s + text[m.comp.end:])
	m.comp.end = m.comp.start + len(s)
	m.input.SetCursor(m.comp.end)
}

// valueHint returns a description of the variable named by the word at the
// cursor, or "" if the word is not a visible variable.
func (m model) valueHint() string {
	if m.mode != modeEval {
		return ""
	}

	word, _, _ := wordBounds(m.input.Value(), m.input.Position())
	if word == "" || lang.IsKeyword(word) {
		return ""
	}

	v, ok := m.eval.session.Lookup(word)
	if !ok {
		return ""
	}

	return hintStyle.Render(word + ": " + preview(v))
}

// renderCandidateBar renders matches on one line no wider than width,
// ending in an ellipsis when some do not fit. Match i is drawn selected
// when i == selected.
func renderCandidateBar(matches fuzzy.Matches, selected, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Keywords are rendered in the keyword style.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	if lang.IsKeyword(match.Str) {
		baseStyle = keywordStyle
	}

	highlightStyle := baseStyle.Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedStyle.Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}

package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// DefaultHistorySize is the number of entries kept in the history file.
const DefaultHistorySize = 1000

// Mode prefixes of lines in the history file.
const (
	evalPrefix = "E:"
	ctrlPrefix = "C:"
)

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

func (e HistoryEntry) encode() string {
	if e.Mode == modeCtrl {
		return ctrlPrefix + e.Line
	}

	return evalPrefix + e.Line
}

func decodeEntry(line string) HistoryEntry {
	if s, ok := strings.CutPrefix(line, ctrlPrefix); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}
	}

	s, _ := strings.CutPrefix(line, evalPrefix)

	return HistoryEntry{Line: s, Mode: modeEval}
}

// History manages command history with file persistence.
//
// Each entry occupies one line of the file, prefixed with its mode. Entries
// spanning several lines, such as a string continued onto a new line, are
// stored with their line breaks escaped.
type History struct {
	path    string
	size    int
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
// An empty path keeps history in memory only.
func NewHistory(path string) *History {
	return &History{path: path, size: DefaultHistorySize}
}

// Load reads history entries from the history file. A missing file is not
// an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry := decodeEntry(line)
		entry.Line = unescapeLine(entry.Line)
		h.entries = append(h.entries, entry)
	}

	h.trim()

	return scanner.Err()
}

// Add appends a new entry to the history with the specified mode.
// An existing identical entry is moved to the end rather than repeated.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{Line: line, Mode: mode}

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	rewrite := false

	for i, e := range h.entries {
		if e == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			rewrite = true

			break
		}
	}

	h.entries = append(h.entries, entry)

	if len(h.entries) > h.size {
		h.trim()

		rewrite = true
	}

	if h.path == "" {
		return nil
	}

	if rewrite {
		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(escapeLine(entry.encode()) + "\n")

	return err
}

// Entry retrieves a historic entry (line and mode) by index.
// Index 0 is the oldest entry.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Lines returns the text of every entry of the given mode, oldest first.
func (h *History) Lines(mode inputMode) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var lines []string

	for _, e := range h.entries {
		if e.Mode == mode {
			lines = append(lines, e.Line)
		}
	}

	return lines
}

// trim drops the oldest entries beyond the size limit.
// Must be called with h.mu held.
func (h *History) trim() {
	if over := len(h.entries) - h.size; over > 0 {
		h.entries = append([]HistoryEntry(nil), h.entries[over:]...)
	}
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() error {
	var b strings.Builder

	for _, entry := range h.entries {
		b.WriteString(escapeLine(entry.encode()))
		b.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}

var (
	lineEscaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	lineUnescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n")
)

func escapeLine(s string) string   { return lineEscaper.Replace(s) }
func unescapeLine(s string) string { return lineUnescaper.Replace(s) }

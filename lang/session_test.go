package lang

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/stash/log"
)

func TestSession_Persistence(t *testing.T) {
	s := NewSession("repl")

	mustExec(t, s, "store count as int = 1")
	mustExec(t, s, "count = count + 1")

	values := mustExec(t, s, "count * 10")
	if values[0].Int != 20 {
		t.Errorf("count * 10 = %s, want 20", values[0])
	}

	if s.Global().Name != "repl" || s.Scope() != s.Global() {
		t.Error("unexpected session scope")
	}

	if got, want := s.Names(), []string{"count"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestSession_ExecReader(t *testing.T) {
	s := NewSession("")

	values, err := s.ExecReader(t.Context(), strings.NewReader("1\n2\n3"), "reader")
	if err != nil {
		t.Fatalf("ExecReader error: %v", err)
	}

	if len(values) != 3 {
		t.Errorf("got %d values, want 3", len(values))
	}

	_, err = s.ExecReader(t.Context(), errReader{}, "broken")
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("ExecReader(broken) error = %v, want ErrReadInput", err)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestSession_Logging(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false))

	s := NewSession("", WithLogger(logger))
	mustExec(t, s, "1 + 1")

	var messages []string

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("log line %q is not JSON: %v", line, err)
		}

		messages = append(messages, rec[slog.MessageKey].(string))
	}

	for _, want := range []string{"exec", "lex complete", "parse complete", "evaluate complete"} {
		if !slices.Contains(messages, want) {
			t.Errorf("log messages %v missing %q", messages, want)
		}
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	values := mustExec(t, NewSession(""), `"x" * 2`)

	data, err := json.Marshal(values[0])
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	if got, want := string(data), `{"type":"string","value":"xx"}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestNode_ToMap(t *testing.T) {
	root, err := ParseString(t.Context(), "store a as int = -1", "test")
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	m := root.ToMap()
	if m["kind"] != "List" {
		t.Fatalf("root kind = %v", m["kind"])
	}

	decl := m["children"].([]any)[0].(map[string]any)
	if decl["kind"] != "VarAssign" || decl["name"] != "a" || decl["type"] != "int" {
		t.Errorf("declaration = %v", decl)
	}

	neg := decl["init"].(map[string]any)
	if neg["kind"] != "Negative" {
		t.Errorf("init = %v", neg)
	}

	if _, err := json.Marshal(root); err != nil {
		t.Errorf("Marshal error: %v", err)
	}
}

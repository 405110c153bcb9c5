package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHistory_PersistsModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, e := range []HistoryEntry{
		{"http::port=80;", modeValidate},
		{"keys", modeCtrl},
		{"ftp", modeValidate},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "V:http::port=80;\nC:keys\nV:ftp\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}

	if loaded.Len() != 3 {
		t.Fatalf("Len = %d", loaded.Len())
	}

	if e, _ := loaded.Entry(1); e.Line != "keys" || e.Mode != modeCtrl {
		t.Errorf("entry 1 = %+v", e)
	}
}

func TestHistory_MovesDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "a", "a"} {
		if err := h.Add(line, modeValidate); err != nil {
			t.Fatal(err)
		}
	}

	// Same text in another mode is a different entry.
	if err := h.Add("a", modeCtrl); err != nil {
		t.Fatal(err)
	}

	got := h.Entries()
	want := []HistoryEntry{{"b", modeValidate}, {"a", modeValidate}, {"a", modeCtrl}}

	if len(got) != len(want) {
		t.Fatalf("entries = %+v, want %+v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "V:b\nV:a\nC:a\n" {
		t.Errorf("file = %q", data)
	}
}

func TestHistory_LoadUnprefixedAndMissing(t *testing.T) {
	dir := t.TempDir()

	if err := NewHistory(filepath.Join(dir, "missing")).Load(); err != nil {
		t.Errorf("missing file: %v", err)
	}

	path := filepath.Join(dir, baseHistory)
	if err := os.WriteFile(path, []byte("http\n\n  \nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if e, _ := h.Entry(0); e != (HistoryEntry{"http", modeValidate}) {
		t.Errorf("entry 0 = %+v", e)
	}

	if _, err := h.Entry(2); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("x", modeValidate); err != nil {
		t.Fatal(err)
	}

	if err := h.Add("   ", modeValidate); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}
}

package repl

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/confstr/confstr"
	"github.com/ardnew/confstr/log"
)

func testModel() model {
	return newModel(context.Background(), NewHistory(""), log.Logger{})
}

func typeText(m model, s string) model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return next.(model)
}

func press(m model, k tea.KeyType) model {
	next, _ := m.Update(tea.KeyMsg{Type: k})

	return next.(model)
}

func TestModel_LiveValidation(t *testing.T) {
	m := typeText(testModel(), "http::port=80;")

	if m.live.conf == nil || m.live.conf.Service() != "http" {
		t.Fatalf("expected live parse, got %+v", m.live)
	}

	if view := m.View(); !strings.Contains(view, "✔ http · 1 parameter") {
		t.Errorf("view missing summary: %q", view)
	}

	m = typeText(testModel(), "http;port")

	if m.live.err == nil || m.live.err.Pos != 4 {
		t.Fatalf("expected error at 4, got %+v", m.live)
	}

	view := m.View()
	if !strings.Contains(view, "✗ bad separator") {
		t.Errorf("view missing error: %q", view)
	}

	if !strings.Contains(view, strings.Repeat(" ", 2+4)+"^") {
		t.Errorf("caret not under position 4: %q", view)
	}
}

func TestModel_AcceptAndHistory(t *testing.T) {
	m := typeText(testModel(), "http::port=80;")
	m = press(m, tea.KeyEnter)

	if m.current == nil || m.current.Encode() != "http::port=80;" {
		t.Fatalf("not accepted: %v", m.current)
	}

	if m.input.Value() != "" || m.history.Len() != 1 {
		t.Errorf("input %q, history %d", m.input.Value(), m.history.Len())
	}

	// Rejected input is kept in history but not accepted.
	m = typeText(m, "ftp::")
	m = typeText(m, "=")
	m = press(m, tea.KeyEnter)

	if m.current.Service() != "http" {
		t.Errorf("rejected input replaced accepted string")
	}

	m = press(m, tea.KeyUp)
	if m.input.Value() != "ftp::=" {
		t.Errorf("history up = %q", m.input.Value())
	}

	m = press(m, tea.KeyDown)
	if m.input.Value() != "" {
		t.Errorf("history down past end = %q", m.input.Value())
	}
}

func TestModel_ModeToggleKeepsInput(t *testing.T) {
	m := typeText(testModel(), "http::a")
	m = press(m, tea.KeyEsc)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("mode %v, input %q", m.mode, m.input.Value())
	}

	m = typeText(m, "keys")
	m = press(m, tea.KeyEsc)

	if m.mode != modeValidate || m.input.Value() != "http::a" {
		t.Errorf("mode %v, input %q", m.mode, m.input.Value())
	}

	m = press(m, tea.KeyEsc)
	if m.input.Value() != "keys" {
		t.Errorf("command input lost: %q", m.input.Value())
	}
}

func TestModel_TabCompletion(t *testing.T) {
	m := testModel()
	m.current = confstr.New("db", map[string]string{"user": "", "port": "", "path": ""})

	m = typeText(m, "db::p")
	if len(m.matches) != 2 {
		t.Fatalf("matches = %v", m.matches)
	}

	m = press(m, tea.KeyTab)
	first := m.input.Value()

	m = press(m, tea.KeyTab)
	second := m.input.Value()

	if first == second || !strings.HasPrefix(first, "db::p") || !strings.HasPrefix(second, "db::p") {
		t.Errorf("tab cycle = %q, %q", first, second)
	}

	m = press(m, tea.KeyEsc)
	if m.input.Value() != "db::p" || m.mode != modeValidate {
		t.Errorf("esc should restore pre-tab text, got %q", m.input.Value())
	}

	m = typeText(m, "o")
	m = press(m, tea.KeyTab)

	if m.input.Value() != "db::port" || m.tabActive {
		t.Errorf("sole candidate = %q (tab %v)", m.input.Value(), m.tabActive)
	}
}

func TestModel_Commands(t *testing.T) {
	m := testModel()
	m.current = confstr.New("db", map[string]string{"port": "5432"})

	if style, s := m.lookup("port"); s != "5432" || style.GetForeground() != resultStyle.GetForeground() {
		t.Errorf("lookup = %q", s)
	}

	if _, s := m.lookup("prt"); !strings.Contains(s, `did you mean "port"`) {
		t.Errorf("lookup suggestion = %q", s)
	}

	m = press(m, tea.KeyEsc)
	m = typeText(m, "quit")
	m = press(m, tea.KeyEnter)

	if !m.quitting {
		t.Error("quit did not quit")
	}

	if m.View() != "" {
		t.Error("view should be empty when quitting")
	}
}

func TestFormatConf_Redacts(t *testing.T) {
	out := formatConf(confstr.New("db", map[string]string{
		"password": "hunter2", "user": "admin",
	}))

	if strings.Contains(out, "hunter2") || !strings.Contains(out, `user = "admin"`) {
		t.Errorf("formatConf = %q", out)
	}
}

package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/confstr/confstr"
	"github.com/ardnew/confstr/log"
)

const (
	validatePrompt = "➜ "
	ctrlPrompt     = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help       Print this cruft
  keys       List the keys of the last accepted string
  get KEY    Print the value of KEY
  show       Print the last accepted string in canonical form
  clear      Clear screen
  quit       Exit REPL

Usage:
  Type a configuration string; it is checked as you type
  Press Enter to accept it (keys and values become available to commands)
  Keys of the last accepted string are completed after "::" and ";"
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between validate and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode is the interpretation of the input line.
type inputMode int

const (
	modeValidate inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// status is the live parse result of the input line.
type status struct {
	conf *confstr.ConfStr
	err  *confstr.Error
}

func check(input string) status {
	c, err := confstr.Parse(input)
	if err == nil {
		return status{conf: c}
	}

	var perr *confstr.Error
	if errors.As(err, &perr) {
		return status{err: perr}
	}

	return status{}
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	logger       log.Logger
	history      *History
	current      *confstr.ConfStr // last accepted configuration string
	live         status
	matches      fuzzy.Matches
	historyIdx   int
	wordStart    int
	wordEnd      int
	suggIdx      int
	preTabCursor int
	width        int
	mode         inputMode
	preTabText   string
	valText      string
	valCursor    int
	ctrlText     string
	ctrlCursor   int
	tabActive    bool
	quitting     bool
}

// Run starts the REPL. A non-empty initial string is accepted as if typed.
// History is kept under cacheDir.
func Run(
	ctx context.Context,
	initial string,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Bool("has_initial", initial != ""),
	)

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, history, logger)

	if initial != "" {
		if st := check(initial); st.conf != nil {
			m.current = st.conf
		} else {
			m.input.SetValue(initial)
			m.input.SetCursor(len(initial))
			m.live = st
		}
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, history *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(validatePrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		suggIdx:    -1,
		mode:       modeValidate,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(validatePrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		if m.mode == modeValidate {
			b.WriteString(hintStyle.Render(
				"Type a configuration string or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render(
				"Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case m.mode == modeValidate:
		b.WriteString(m.liveView())
	}

	b.WriteString("\n")

	return b.String()
}

// liveView describes the live status of the input line: a summary when it
// parses, otherwise a caret under the error position and the message.
func (m model) liveView() string {
	switch {
	case m.live.conf != nil:
		return resultStyle.Render("✔ " + summary(m.live.conf))

	case m.live.err != nil:
		pad := strings.Repeat(" ", lipgloss.Width(validatePrompt))
		lines := strings.SplitN(Caret(m.input.Value(), m.live.err.Pos), "\n", 2)

		return pad + MarkStyle.Render(lines[1]) + "\n" +
			errorStyle.Render("✗ "+m.live.err.Error())
	}

	return ""
}

func summary(c *confstr.ConfStr) string {
	switch n := c.Len(); n {
	case 1:
		return c.Service() + " · 1 parameter"
	default:
		return fmt.Sprintf("%s · %d parameters", c.Service(), n)
	}
}

// formatConf renders c as one "key = value" line per parameter. Values of
// sensitive keys are masked.
func formatConf(c *confstr.ConfStr) string {
	var b strings.Builder

	b.WriteString("service: " + c.Service())

	for k, v := range c.All() {
		if log.Sensitive(log.DefaultRedactKeys, k) {
			v = log.Redacted
		}

		fmt.Fprintf(&b, "\n  %s = %q", k, v)
	}

	return b.String()
}

func (m model) keys() []string {
	if m.current == nil {
		return nil
	}

	return m.current.Keys()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refresh()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current candidate without executing.
		m.tabActive = false
		m.refresh()

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refresh()

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil
	}

	var cmd tea.Cmd

	// Editing accepts the candidate being cycled.
	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// cycle moves the selected completion candidate by dir, replacing the word
// at the cursor. A sole candidate is inserted and confirmed.
func (m model) cycle(dir int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the word under completion with s.
func (m *model) replaceWord(s string) {
	input := m.input.Value()
	cursor := m.wordStart + len(s)

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
	m.live = check(m.input.Value())
}

// refresh recomputes completions and the live status of the input line.
func (m *model) refresh() {
	if !m.tabActive {
		m.matches, m.wordStart, m.wordEnd = m.computeMatches()
		m.suggIdx = -1
	}

	if m.mode == modeValidate {
		m.live = check(m.input.Value())
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.valText, m.valCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil
	m.live = status{}

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "could not write history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(validatePrompt) + inputStyle.Render(input))

	st := check(input)
	if st.conf == nil {
		m.logger.TraceContext(m.ctxFunc(), "repl reject", slog.Any("error", st.err))

		msg := "invalid UTF-8"
		if st.err != nil {
			lines := strings.SplitN(Caret(input, st.err.Pos), "\n", 2)
			msg = lines[0] + "\n" + MarkStyle.Render(lines[1]) + "\n" +
				errorStyle.Render("error: "+st.err.Error())
		}

		return m, tea.Sequence(echo, tea.Println(msg))
	}

	m.current = st.conf

	m.logger.TraceContext(m.ctxFunc(), "repl accept", slog.Any("confstr", st.conf))

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(formatConf(st.conf))))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	cmd, args := parts[0], parts[1:]

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", cmd),
		slog.Int("args", len(args)),
	)

	reply := func(style lipgloss.Style, s string) (model, tea.Cmd) {
		return m, tea.Sequence(echo, tea.Println(style.Render(s)))
	}

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return reply(hintStyle, helpMessage())

	case "c", "clear":
		return m, tea.ClearScreen
	}

	if m.current == nil {
		switch cmd {
		case "k", "keys", "g", "get", "s", "show":
			return reply(errorStyle, "nothing accepted yet")
		}
	}

	switch cmd {
	case "k", "keys":
		return reply(resultStyle, strings.Join(m.current.Keys(), "\n"))

	case "s", "show":
		return reply(resultStyle, m.current.Encode())

	case "g", "get":
		if len(args) != 1 {
			return reply(errorStyle, "usage: get KEY")
		}

		return reply(m.lookup(args[0]))
	}

	return m, tea.Println(errorStyle.Render("Unknown command: " + cmd + " (try 'help')"))
}

// lookup returns the style and text replying to "get key".
func (m model) lookup(key string) (lipgloss.Style, string) {
	if v, ok := m.current.Get(key); ok {
		return resultStyle, v
	}

	msg := fmt.Sprintf("key %q not found", key)

	if found := fuzzy.Find(key, m.current.Keys()); len(found) > 0 {
		msg += fmt.Sprintf("; did you mean %q?", found[0].Str)
	}

	return errorStyle, msg
}

// historyStep moves dir entries through the history. With sameMode it skips
// entries of the other mode; otherwise it switches mode to match the entry.
// Stepping past the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refresh()

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refresh()
	}

	return m
}

// switchToMode switches to mode, keeping each mode's pending input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeValidate {
		m.valText, m.valCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.live = status{}

	if mode == modeValidate {
		m.input.Prompt = promptStyle.Render(validatePrompt)
		m.input.SetValue(m.valText)
		m.input.SetCursor(m.valCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	m.refresh()

	return m
}

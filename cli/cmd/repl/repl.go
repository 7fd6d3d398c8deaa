package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/stash/lang"
	"github.com/ardnew/stash/log"
)

// editDoneMsg is sent when the edit process finishes.
type editDoneMsg struct {
	result outcome
	ran    bool
}

// editDeclinedMsg is sent when the user declined to re-edit after a fault.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters an error.
type editErrorMsg struct{ err error }

const (
	evalPrompt     = "➜ "
	ctrlPrompt     = " :"
	continuePrompt = "… "
)

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

func (i inputMode) other() inputMode {
	if i == modeEval {
		return modeCtrl
	}

	return modeEval
}

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
	keywordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Config configures a REPL run.
type Config struct {
	// CacheDir holds the history file. Empty keeps history in memory.
	CacheDir string
	Logger   log.Logger
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

func (c Config) withDefaults() Config {
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}

	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}

	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	return c
}

func (c Config) history() *History {
	if c.CacheDir == "" {
		return NewHistory("")
	}

	return NewHistory(filepath.Join(c.CacheDir, baseHistory))
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx      func() context.Context
	eval     *evaluator
	history  *History
	logger   log.Logger
	input    textinput.Model
	comp     completion
	drafts   [2]draft // unsubmitted input of each mode
	recalled int      // index of the history entry shown, or history.Len()
	width    int
	mode     inputMode
	quitting bool
}

// Run starts the full-screen REPL on session.
func Run(ctx context.Context, session *lang.Session, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg = cfg.withDefaults()

	history := cfg.history()
	if err := history.Load(); err != nil {
		fmt.Fprintf(cfg.Stderr, "history unavailable: %v\n", err)
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Int("history_count", history.Len()),
		slog.String("scope", session.Scope().Name))

	m := newModel(ctx, newEvaluator(session, cfg.Logger), history, cfg.Logger)

	_, err = tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cfg.Stdin),
		tea.WithOutput(cfg.Stdout),
	).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const (
	defaultWidth = 80
	maxInput     = 1024
)

func newModel(
	ctx context.Context,
	eval *evaluator,
	history *History,
	logger log.Logger,
) model {
	in := textinput.New()
	in.Prompt = promptStyle.Render(evalPrompt)
	in.CharLimit = maxInput
	in.Width = defaultWidth
	in.Focus()

	return model{
		ctx:      func() context.Context { return ctx },
		eval:     eval,
		history:  history,
		logger:   logger,
		input:    in,
		recalled: history.Len(),
		width:    defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		if !msg.ran {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		return m, m.printOutcome(msg.result)

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit abandoned"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var status string

	switch n := m.history.Len(); {
	case m.recalled < n:
		status = hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.recalled+1)), n))

	case strings.TrimSpace(m.input.Value()) == "":
		status = hintStyle.Render(m.emptyHint())

	case len(m.comp.matches) > 0:
		status = renderCandidateBar(m.comp.matches, m.comp.highlighted(), m.width)

	default:
		status = m.valueHint()
	}

	return m.input.View() + "\n" + status + "\n"
}

func (m model) emptyHint() string {
	switch {
	case m.mode == modeCtrl:
		return "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
	case m.eval.Pending():
		return "Continue the string, or press Ctrl+C to discard it"
	default:
		return "Type a statement or press Esc for commands"
	}
}

func (m model) prompt() string {
	if m.mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(m.eval.Prompt())
}

func (m model) draft() draft {
	return draft{text: m.input.Value(), cursor: m.input.Position()}
}

func (m *model) restore(d draft) {
	m.input.SetValue(d.text)
	m.input.SetCursor(d.cursor)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.TraceContext(m.ctx(), "repl key", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && !m.eval.Pending() {
			return m.quit()
		}

		return m.discard(), nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			return m.quit()
		}

		return m, nil

	case tea.KeyEnter:
		if !m.comp.cycling {
			return m.submit()
		}

		m.comp.cycling = false
		m.complete(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp, tea.KeyShiftUp:
		return m.browse(-1, msg.Type == tea.KeyShiftUp), nil

	case tea.KeyDown, tea.KeyShiftDown:
		return m.browse(1, msg.Type == tea.KeyShiftDown), nil

	case tea.KeyEsc:
		if m.comp.cycling {
			m.abandon()

			return m, nil
		}

		return m.switchTo(m.mode.other()), nil
	}

	var cmd tea.Cmd

	m.comp.cycling = false
	m.recalled = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.complete(msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace)

	return m, cmd
}

func (m model) quit() (model, tea.Cmd) {
	m.quitting = true

	return m, tea.Quit
}

// discard drops the input line and any buffered partial statement.
func (m model) discard() model {
	m.eval.Reset()
	m.input.SetValue("")
	m.input.Prompt = m.prompt()
	m.comp.reset()
	m.recalled = m.history.Len()

	return m
}

func (m model) submit() (model, tea.Cmd) {
	raw := m.input.Value()

	line := strings.TrimSpace(raw)
	if line == "" && !m.eval.Pending() {
		return m, nil
	}

	m.drafts = [2]draft{}
	m.input.SetValue("")
	m.comp.reset()

	if m.mode == modeCtrl {
		m.remember(line, modeCtrl)

		return m.command(line)
	}

	echo := tea.Println(promptStyle.Render(m.eval.Prompt()) + inputStyle.Render(raw))

	res := m.eval.Eval(m.ctx(), raw)
	m.input.Prompt = m.prompt()

	if res.pending {
		return m, echo
	}

	m.remember(m.eval.last, modeEval)

	return m, tea.Sequence(echo, m.printOutcome(res))
}

func (m *model) remember(line string, mode inputMode) {
	if err := m.history.Add(line, mode); err != nil {
		m.logger.WarnContext(m.ctx(), "history not saved",
			slog.String("error", err.Error()))
	}

	m.recalled = m.history.Len()
}

// printOutcome prints res above the input line.
func (m model) printOutcome(res outcome) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(res.results)+2)

	for _, r := range res.results {
		cmds = append(cmds, tea.Println(resultStyle.Render(r)))
	}

	if res.info != "" {
		cmds = append(cmds, tea.Println(res.info))
	}

	if res.report != "" {
		cmds = append(cmds, tea.Println(errorStyle.Render(res.report)))
	}

	return tea.Sequence(cmds...)
}

func (m model) command(line string) (model, tea.Cmd) {
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(line))

	res := m.eval.Command(m.ctx(), line)

	switch {
	case res.quit:
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case res.clear:
		return m, tea.ClearScreen

	case res.edit:
		return m, tea.Sequence(echo, m.edit())
	}

	return m, tea.Sequence(echo, m.printOutcome(res))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{eval: m.eval, ctxFunc: m.ctx}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		}

		return editDoneMsg{result: cmd.result, ran: cmd.ran}
	})
}

// browse steps through history in direction dir. With sameMode set, entries
// of the other mode are skipped; otherwise the mode follows the entry.
// Stepping past the newest entry clears the input.
func (m model) browse(dir int, sameMode bool) model {
	n := m.history.Len()

	for i := m.recalled + dir; i >= 0 && i < n; i += dir {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchTo(entry.Mode)
		}

		m.recalled = i
		m.restore(draft{text: entry.Line, cursor: len(entry.Line)})
		m.complete(false)

		return m
	}

	if dir > 0 && m.recalled < n {
		m.recalled = n
		m.input.SetValue("")
		m.complete(false)
	}

	return m
}

// switchTo changes the input mode. Each mode keeps its own unsubmitted line.
func (m model) switchTo(mode inputMode) model {
	m.drafts[m.mode] = m.draft()
	m.mode = mode
	m.input.Prompt = m.prompt()
	m.restore(m.drafts[mode])
	m.complete(false)

	return m
}

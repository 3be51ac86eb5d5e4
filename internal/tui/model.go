// Package tui is the interactive terminal front end. The screen follows the
// session state: count prompt, question, review of a miss, final score.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quiz-drill/internal/quiz"
	"quiz-drill/internal/service"
	"quiz-drill/internal/util"
)

// Options configures the terminal UI.
type Options struct {
	DefaultCount int
	NoColor      bool
	// Journal records finished runs; nil disables recording.
	Journal service.JournalService
}

// Model drives one quiz.Session from key presses.
type Model struct {
	session *quiz.Session
	journal service.JournalService
	runID   string

	count    textinput.Model
	bar      progress.Model
	cursor   int
	selected []int
	feedback string

	noColor  bool
	quitting bool
}

// recordedMsg reports the outcome of a journal write.
type recordedMsg struct{ err error }

// NewModel expects a session in the configuring state.
func NewModel(session *quiz.Session, opts Options) Model {
	if opts.DefaultCount < 1 {
		opts.DefaultCount = 1
	}
	if opts.Journal == nil {
		opts.Journal = service.NewJournalService(nil)
	}

	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(opts.DefaultCount)
	ti.SetValue(strconv.Itoa(opts.DefaultCount))
	ti.CharLimit = 6
	ti.Width = 8
	ti.Focus()

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	if opts.NoColor {
		bar = progress.New(progress.WithSolidFill("#ffffff"), progress.WithoutPercentage())
	}
	bar.Width = 40

	return Model{
		session: session,
		journal: opts.Journal,
		count:   ti,
		bar:     bar,
		noColor: opts.NoColor,
	}
}

// Session exposes the driven session, mostly for tests.
func (m Model) Session() *quiz.Session { return m.session }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = max(min(typed.Width-4, 60), 10)
		return m, nil
	case recordedMsg:
		if typed.err != nil {
			m.feedback = "Could not save this run to the journal: " + typed.err.Error()
		}
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.session.State() {
		case quiz.StateConfiguring:
			return m.updateConfiguring(typed)
		case quiz.StateInProgress:
			return m.updateQuestion(typed)
		case quiz.StateReviewing:
			return m.updateReview(typed)
		case quiz.StateCompleted:
			return m.updateCompleted(typed)
		}
	}
	return m, nil
}

func (m Model) updateConfiguring(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		k, err := parseCount(m.count.Value(), m.count.Placeholder)
		if err != nil {
			m.feedback = "Enter a number of questions of at least 1."
			return m, nil
		}
		if err := m.session.Start(k); err != nil {
			m.feedback = err.Error()
			return m, nil
		}
		m.runID = util.NewULID()
		m.cursor, m.selected, m.feedback = 0, nil, ""
		return m, nil
	}
	var cmd tea.Cmd
	m.count, cmd = m.count.Update(key)
	return m, cmd
}

// parseCount reads the count prompt. An empty prompt takes the default.
func parseCount(value, fallback string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	k, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if k < 1 {
		return 0, strconv.ErrRange
	}
	return k, nil
}

func (m Model) updateQuestion(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	q, err := m.session.CurrentQuestion()
	if err != nil {
		m.feedback = err.Error()
		return m, nil
	}

	switch s := key.String(); s {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(q.Choices)-1 {
			m.cursor++
		}
	case " ", "space", "x":
		m.selected = quiz.ToggleOrSelect(m.selected, m.cursor, q.IsMultiple())
		m.feedback = ""
	case "enter":
		if len(m.selected) == 0 {
			m.feedback = "Select at least one answer."
			return m, nil
		}
		t, err := m.session.Submit(m.selected)
		if err != nil {
			m.feedback = err.Error()
			return m, nil
		}
		m.cursor, m.selected, m.feedback = 0, nil, ""
		return m, m.recordIfCompleted(t)
	default:
		// 1-9 click the numbered choice.
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(q.Choices) {
			m.cursor = n - 1
			m.selected = quiz.ToggleOrSelect(m.selected, m.cursor, q.IsMultiple())
			m.feedback = ""
		}
	}
	return m, nil
}

func (m Model) updateReview(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "enter", " ", "space":
		t, err := m.session.Continue()
		if err != nil {
			m.feedback = err.Error()
			return m, nil
		}
		return m, m.recordIfCompleted(t)
	}
	return m, nil
}

func (m Model) updateCompleted(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "esc", "enter":
		m.quitting = true
		return m, tea.Quit
	case "r":
		requested := m.session.Requested()
		if err := m.session.Restart(); err != nil {
			m.feedback = err.Error()
			return m, nil
		}
		m.count.SetValue(strconv.Itoa(requested))
		m.count.Focus()
		m.feedback = ""
	}
	return m, nil
}

// recordIfCompleted journals a finished run from an independent copy, so a
// restart cannot race the write.
func (m Model) recordIfCompleted(t quiz.Transition) tea.Cmd {
	if t.To != quiz.StateCompleted || !m.journal.Enabled() {
		return nil
	}
	finished, err := quiz.Restore(m.session.Bank(), m.session.Snapshot())
	if err != nil {
		return func() tea.Msg { return recordedMsg{err: err} }
	}
	journal, runID := m.journal, m.runID
	return func() tea.Msg {
		return recordedMsg{err: journal.RecordRun(context.Background(), runID, finished)}
	}
}

package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the operator aborts a question.
var ErrCancelled = errors.New("prompt cancelled")

var (
	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#94a3b8"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			PaddingLeft(1)
)

// Terminal asks the operator questions on a terminal.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal creates a prompter on stdin and stdout.
func NewTerminal() *Terminal {
	return &Terminal{in: os.Stdin, out: os.Stdout}
}

// Ask reads one line of free text.
func (t *Terminal) Ask(ctx context.Context, question string) (string, error) {
	m, err := t.run(ctx, newAskModel(question))
	if err != nil {
		return "", err
	}
	am := m.(askModel)
	if am.cancelled {
		return "", ErrCancelled
	}
	return am.input.Value(), nil
}

// Confirm asks a yes/no question.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	m, err := t.run(ctx, confirmModel{question: question})
	if err != nil {
		return false, err
	}
	cm := m.(confirmModel)
	if cm.cancelled {
		return false, ErrCancelled
	}
	return cm.answer, nil
}

// Notify shows a message until a key is pressed.
func (t *Terminal) Notify(ctx context.Context, message string) error {
	m, err := t.run(ctx, noticeModel{message: message})
	if err != nil {
		return err
	}
	if m.(noticeModel).cancelled {
		return ErrCancelled
	}
	return nil
}

func (t *Terminal) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return final, nil
}

type askModel struct {
	question  string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newAskModel(question string) askModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 128
	ti.Width = 40
	ti.Focus()
	return askModel{question: question, input: ti}
}

func (m askModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m askModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m askModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return questionStyle.Render(m.question) + "\n" + m.input.View() + "\n" +
		hintStyle.Render("enter to submit, esc to cancel") + "\n"
}

type confirmModel struct {
	question  string
	answer    bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "y":
		m.answer, m.done = true, true
		return m, tea.Quit
	case "n":
		m.answer, m.done = false, true
		return m, tea.Quit
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return questionStyle.Render(m.question) + " " + hintStyle.Render("[y/n]") + "\n"
}

type noticeModel struct {
	message   string
	done      bool
	cancelled bool
}

func (m noticeModel) Init() tea.Cmd {
	return nil
}

func (m noticeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		m.cancelled = true
	} else {
		m.done = true
	}
	return m, tea.Quit
}

func (m noticeModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return noticeStyle.Render(m.message) + "\n" + hintStyle.Render("press any key to continue") + "\n"
}

package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/netauto/iosxecfg/internal/logging"
	"github.com/netauto/iosxecfg/internal/restconf"
	"github.com/netauto/iosxecfg/internal/ui"
)

// State is the screen the shell is on
type State int

const (
	StateMenu State = iota
	StatePreparing
	StateInput
	StateRunning
	StateResult
)

type prepareDoneMsg struct {
	prep Preparation
	err  error
}

type outcomeMsg struct {
	outcome Outcome
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(ui.PrimaryColor).Bold(true)
	targetStyle = lipgloss.NewStyle().Foreground(ui.MutedColor)
	promptStyle = lipgloss.NewStyle().Foreground(ui.TextColor).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(ui.MutedColor)
	errorStyle  = lipgloss.NewStyle().Foreground(ui.ErrorColor)
)

// choiceItem wraps a Choice for use with bubbles/list
type choiceItem struct {
	choice Choice
}

func (i choiceItem) FilterValue() string { return i.choice.String() }

func (i choiceItem) Title() string { return fmt.Sprintf("%d. %s", int(i.choice), i.choice) }

func (i choiceItem) Description() string { return "" }

// Model is the interactive shell. Each menu entry runs through the Commands
// dispatch table; the model only collects input and renders outcomes.
type Model struct {
	ctx    context.Context
	dev    Device
	target string

	State    State
	Menu     list.Model
	Input    textinput.Model
	Spinner  spinner.Model
	Help     help.Model
	Current  *Command
	FieldIdx int
	Values   Input
	Prep     Preparation
	InputErr string
	Outcome  *Outcome

	menuKeys   menuKeyMap
	inputKeys  inputKeyMap
	resultKeys resultKeyMap

	Width  int
	Height int
}

// New creates a shell bound to one device. target is shown in the title bar.
func New(ctx context.Context, dev Device, target string) Model {
	items := make([]list.Item, 0, len(Commands))
	for _, c := range Choices() {
		items = append(items, choiceItem{choice: c})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	menu := list.New(items, delegate, ui.MinTerminalWidth, len(items)+4)
	menu.Title = "Choose an action"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	menu.Styles.Title = titleStyle

	in := textinput.New()
	in.CharLimit = 240
	in.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.PrimaryColor)

	return Model{
		ctx:        ctx,
		dev:        dev,
		target:     target,
		State:      StateMenu,
		Menu:       menu,
		Input:      in,
		Spinner:    s,
		Help:       help.New(),
		menuKeys:   newMenuKeyMap(),
		inputKeys:  newInputKeyMap(),
		resultKeys: newResultKeyMap(),
		Width:      ui.MinTerminalWidth,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Menu.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.State {
		case StateMenu:
			return m.updateMenu(msg)
		case StateInput:
			return m.updateInput(msg)
		case StateResult:
			return m.updateResult(msg)
		}
		return m, nil

	case prepareDoneMsg:
		if msg.err != nil {
			o := failed(m.Current.Choice, m.Current.Title, msg.err)
			return m.showOutcome(o), nil
		}
		m.Prep = msg.prep
		return m.startInput()

	case outcomeMsg:
		return m.showOutcome(msg.outcome), nil

	case spinner.TickMsg:
		if m.State != StatePreparing && m.State != StateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.menuKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.menuKeys.Number):
		choice, err := ParseChoice(msg.String())
		if err != nil {
			return m, nil
		}
		return m.begin(choice)

	case key.Matches(msg, m.menuKeys.Select):
		item, ok := m.Menu.SelectedItem().(choiceItem)
		if !ok {
			return m, nil
		}
		return m.begin(item.choice)
	}

	var cmd tea.Cmd
	m.Menu, cmd = m.Menu.Update(msg)
	return m, cmd
}

// begin starts a command: prepare it if needed, then prompt for its fields
func (m Model) begin(choice Choice) (tea.Model, tea.Cmd) {
	cmd := Commands[choice]
	m.Current = &cmd
	m.Values = Input{}
	m.Prep = Preparation{}
	m.FieldIdx = 0
	m.InputErr = ""
	m.Outcome = nil

	if cmd.Prepare != nil {
		m.State = StatePreparing
		return m, tea.Batch(m.Spinner.Tick, m.prepare(cmd))
	}
	return m.startInput()
}

func (m Model) prepare(cmd Command) tea.Cmd {
	ctx, dev := m.ctx, m.dev
	return func() tea.Msg {
		prep, err := cmd.Prepare(ctx, dev)
		return prepareDoneMsg{prep: prep, err: err}
	}
}

func (m Model) startInput() (tea.Model, tea.Cmd) {
	if len(m.Current.Fields) == 0 {
		return m.run()
	}
	m.State = StateInput
	m.focusField()
	return m, textinput.Blink
}

func (m *Model) focusField() {
	f := m.Current.Fields[m.FieldIdx]
	m.Input.SetValue("")
	m.Input.Placeholder = f.Placeholder
	m.Input.Prompt = f.Prompt + ": "
	m.Input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.inputKeys.Cancel):
		m.Input.Blur()
		m.State = StateMenu
		m.Current = nil
		return m, nil

	case key.Matches(msg, m.inputKeys.Confirm):
		f := m.Current.Fields[m.FieldIdx]
		value := strings.TrimSpace(m.Input.Value())
		if err := f.Check(value, m.Prep.Allowed[f.Key]); err != nil {
			// stay on the field until the value is usable
			m.InputErr = restconf.ShortMessage(err)
			m.Input.SetValue("")
			return m, nil
		}

		m.InputErr = ""
		m.Values[f.Key] = value
		m.FieldIdx++
		if m.FieldIdx < len(m.Current.Fields) {
			m.focusField()
			return m, nil
		}
		m.Input.Blur()
		return m.run()
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) run() (tea.Model, tea.Cmd) {
	m.State = StateRunning
	ctx, dev, choice, values := m.ctx, m.dev, m.Current.Choice, m.Values
	return m, tea.Batch(m.Spinner.Tick, func() tea.Msg {
		return outcomeMsg{outcome: Dispatch(ctx, dev, choice, values)}
	})
}

func (m Model) showOutcome(o Outcome) Model {
	if o.Status == StatusFailed {
		logging.Warn("Menu action failed", zap.String("action", o.Choice.String()), zap.Error(o.Err))
	}
	m.Outcome = &o
	m.State = StateResult
	return m
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.resultKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.resultKeys.Continue):
		m.State = StateMenu
		m.Current = nil
		m.Outcome = nil
	}
	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("IOS-XE RESTCONF"))
	b.WriteString(" ")
	b.WriteString(targetStyle.Render(m.target))
	b.WriteString("\n\n")

	var helpView string
	switch m.State {
	case StateMenu:
		b.WriteString(m.Menu.View())
		helpView = m.Help.View(m.menuKeys)

	case StatePreparing, StateRunning:
		b.WriteString(m.Spinner.View() + " " + m.Current.Title + "...")

	case StateInput:
		b.WriteString(promptStyle.Render(m.Current.Title))
		b.WriteString("\n\n")
		if m.Prep.Notice != "" {
			b.WriteString(noticeStyle.Render(m.Prep.Notice))
			b.WriteString("\n")
		}
		b.WriteString(m.Input.View())
		if m.InputErr != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render("INVALID: " + m.InputErr))
		}
		helpView = m.Help.View(m.inputKeys)

	case StateResult:
		if m.Outcome != nil {
			b.WriteString(m.Outcome.Result().SetWidth(m.Width).Render())
			if m.Outcome.Body != "" {
				b.WriteString("\n")
				b.WriteString(m.Outcome.Body)
			}
		}
		helpView = m.Help.View(m.resultKeys)
	}

	if helpView != "" {
		b.WriteString("\n\n")
		b.WriteString(helpView)
	}
	return b.String()
}

// Run starts the interactive shell and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, dev Device, target string, in io.Reader, out io.Writer) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	p := tea.NewProgram(New(ctx, dev, target), opts...)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("shell: %w", err)
	}
	return nil
}

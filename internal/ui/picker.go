// Package ui provides the interactive terminal UI of starter: a Bubble Tea
// picker for the stored default log level.
package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/logging"
	"github.com/tungetti/starter/internal/ui/theme"
)

const (
	defaultWidth  = 72
	defaultHeight = 12
)

// levelItem is one severity in the picker list.
// It implements the list.Item interface from bubbles.
type levelItem struct {
	level       logging.Severity
	description string
}

func (i levelItem) Title() string       { return i.level.String() }
func (i levelItem) Description() string { return i.description }
func (i levelItem) FilterValue() string { return i.level.String() }

// levelItems lists the choices from least to most severe, NOTSET last.
func levelItems() []list.Item {
	return []list.Item{
		levelItem{logging.LevelTrace, "very fine-grained diagnostics"},
		levelItem{logging.LevelDebug, "detailed debugging information"},
		levelItem{logging.LevelInfo, "general progress messages"},
		levelItem{logging.LevelWarn, "potential problems"},
		levelItem{logging.LevelError, "failed operations"},
		levelItem{logging.LevelCritical, "failures the program cannot continue from"},
		levelItem{logging.LevelNotSet, "no stored default, WARNING applies"},
	}
}

// levelDelegate renders one line per severity.
type levelDelegate struct {
	theme   *theme.Theme
	current logging.Severity
}

func (d levelDelegate) Height() int                             { return 1 }
func (d levelDelegate) Spacing() int                            { return 0 }
func (d levelDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d levelDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(levelItem)
	if !ok {
		return
	}

	styles := d.theme.Styles
	line := d.theme.LevelStyle(it.level).Render(it.level.String()) + " " +
		styles.Description.Render(it.description)
	if it.level == d.current {
		line += " " + styles.Current.Render("(current)")
	}

	style := styles.ListItem
	if index == m.Index() {
		style = styles.ListItemSelected
	}
	fmt.Fprint(w, style.Render(line))
}

// Model is the Bubble Tea model of the level picker.
type Model struct {
	list      list.Model
	keys      KeyMap
	help      help.Model
	theme     *theme.Theme
	current   logging.Severity
	chosen    logging.Severity
	done      bool
	cancelled bool
}

// NewPicker creates a picker with current preselected.
func NewPicker(current logging.Severity, th *theme.Theme) Model {
	if th == nil {
		th = theme.DefaultTheme()
	}

	items := levelItems()
	l := list.New(items, levelDelegate{theme: th, current: current}, defaultWidth, defaultHeight)
	l.Title = "Default log level"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.Styles.Title = th.Styles.Title
	l.Styles.TitleBar = th.Styles.Header

	for i, item := range items {
		if item.(levelItem).level == current {
			l.Select(i)
			break
		}
	}

	return Model{
		list:    l,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		theme:   th,
		current: current,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, min(msg.Height, defaultHeight))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			m.chosen = m.Selected()
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.list.CursorUp()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.list.CursorDown()
			return m, nil
		case key.Matches(msg, m.keys.Home):
			m.list.Select(0)
			return m, nil
		case key.Matches(msg, m.keys.End):
			m.list.Select(len(m.list.Items()) - 1)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}
	return m.list.View() + "\n" + m.theme.Styles.Help.Render(m.help.View(m.keys))
}

// Selected returns the severity under the cursor.
func (m Model) Selected() logging.Severity {
	if it, ok := m.list.SelectedItem().(levelItem); ok {
		return it.level
	}
	return m.current
}

// Chosen returns the confirmed severity and whether one was confirmed.
func (m Model) Chosen() (logging.Severity, bool) {
	return m.chosen, m.done && !m.cancelled
}

// Cancelled reports whether the user left without choosing.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// PickLevel runs the picker until the user chooses a level or cancels.
// Cancelling, or cancelling ctx, returns an error with the Cancelled code.
func PickLevel(ctx context.Context, current logging.Severity, th *theme.Theme, opts ...tea.ProgramOption) (logging.Severity, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(NewPicker(current, th), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return current, errors.Wrap(errors.Cancelled, "level selection cancelled", ctx.Err()).
				WithOp("ui.PickLevel")
		}
		return current, errors.Wrap(errors.Unknown, "level picker failed", err).WithOp("ui.PickLevel")
	}

	m, ok := final.(Model)
	if !ok {
		return current, errors.New(errors.Unknown, "unexpected picker model").WithOp("ui.PickLevel")
	}
	level, chosen := m.Chosen()
	if !chosen {
		return current, errors.New(errors.Cancelled, "level selection cancelled").WithOp("ui.PickLevel")
	}
	return level, nil
}

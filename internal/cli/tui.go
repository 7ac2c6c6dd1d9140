package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/upgrader/pkg/cache"
	"github.com/matzehuels/upgrader/pkg/check"
	"github.com/matzehuels/upgrader/pkg/manifest"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PickModel - Interactive upgrade picker
// =============================================================================

// pickKeys are the picker's bindings; they double as the help line.
type pickKeys struct {
	Up, Down, Minor, Major, Refresh, Quit key.Binding
}

func (k pickKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Minor, k.Major, k.Refresh, k.Quit}
}

func (k pickKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var defaultPickKeys = pickKeys{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Minor:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minor")),
	Major:   key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "major")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// checkedMsg carries the outcome of a background check.
type checkedMsg struct {
	results []check.Result
	err     error
}

// progressMsg reports lookup progress of the run that owns ch.
// A nil ch marks the end of a run.
type progressMsg struct {
	done, total int
	ch          <-chan progressMsg
}

// PickModel is the bubbletea model for choosing upgrades one dependency at a time.
type PickModel struct {
	Path    string
	Text    string
	Results []check.Result
	Cursor  int
	Offset  int
	Height  int
	Applied int
	Status  string
	Err     error

	keys     pickKeys
	help     help.Model
	ctx      context.Context
	checker  *check.Checker
	cache    *cache.Cache
	save     func(text string) error
	progress <-chan progressMsg
	initCmd  tea.Cmd
	loading  bool
	done     int
	total    int
}

// NewPickModel creates a picker for the manifest text read from path.
// save persists every accepted edit.
func NewPickModel(ctx context.Context, path, text string, checker *check.Checker, c *cache.Cache, save func(string) error) PickModel {
	m := PickModel{
		Path:    path,
		Text:    text,
		Height:  15,
		keys:    defaultPickKeys,
		help:    help.New(),
		ctx:     ctx,
		checker: checker,
		cache:   c,
		save:    save,
	}
	m.initCmd = m.startCheck()
	return m
}

func (m PickModel) Init() tea.Cmd {
	return m.initCmd
}

// startCheck launches a check of the current text and a listener for its progress.
func (m *PickModel) startCheck() tea.Cmd {
	if m.checker == nil {
		return nil
	}
	m.loading = true
	m.done, m.total = 0, len(manifest.Parse(m.Text))
	ch := make(chan progressMsg, 1)
	m.progress = ch

	ctx, checker, text := m.ctx, m.checker, m.Text
	run := func() tea.Msg {
		defer close(ch)
		results, err := checker.Check(ctx, text, func(done, total int) {
			select {
			case ch <- progressMsg{done: done, total: total}:
			default:
			}
		})
		return checkedMsg{results: results, err: err}
	}
	return tea.Batch(run, waitProgress(ch))
}

func waitProgress(ch <-chan progressMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return progressMsg{}
		}
		msg.ch = ch
		return msg
	}
}

func (m PickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		if msg.ch == nil || msg.ch != m.progress {
			return m, nil
		}
		m.done, m.total = msg.done, msg.total
		return m, waitProgress(msg.ch)
	case checkedMsg:
		m.loading = false
		m.Err = msg.err
		if m.Status == "Refreshing..." {
			m.Status = ""
		}
		m.Results = msg.results
		m.Cursor = min(m.Cursor, max(len(m.Results)-1, 0))
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.Cursor > 0 {
				m.Cursor--
				m.Offset = min(m.Offset, m.Cursor)
			}
		case key.Matches(msg, m.keys.Down):
			if m.Cursor < len(m.Results)-1 {
				m.Cursor++
				m.Offset = max(m.Offset, m.Cursor-m.Height+1)
			}
		case key.Matches(msg, m.keys.Minor):
			return m.apply(check.Minor)
		case key.Matches(msg, m.keys.Major):
			return m.apply(check.Major)
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			if m.cache != nil {
				m.cache.Clear()
			}
			m.Status = "Refreshing..."
			return m, m.startCheck()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.help.Width = msg.Width
	}
	return m, nil
}

// apply rewrites the highlighted dependency to its kind candidate, saves the
// file, and re-checks so offsets and candidates match the new text.
func (m PickModel) apply(kind check.Kind) (tea.Model, tea.Cmd) {
	if m.loading || m.Cursor >= len(m.Results) {
		return m, nil
	}
	r := m.Results[m.Cursor]
	target := r.Target(kind)
	if target == "" {
		m.Status = fmt.Sprintf("No %s upgrade for %s", kind, r.Name)
		return m, nil
	}

	text, err := manifest.ReplaceVersion(m.Text, r.Start, r.End, target)
	if err == nil && m.save != nil {
		err = m.save(text)
	}
	if err != nil {
		m.Err = err
		return m, nil
	}

	m.Text = text
	m.Applied++
	m.Status = fmt.Sprintf("Updated %s to %s", r.Name, target)
	return m, m.startCheck()
}

func (m PickModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Upgrade " + m.Path))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	if m.loading && len(m.Results) == 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("Checking updates: %d/%d", m.done, m.total)))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.Results) == 0 {
		b.WriteString(listDimStyle.Render("No dependencies found"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Results))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Results[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		minor, major := "", ""
		if r.Found() {
			minor, major = orNone(r.Target(check.Minor), styleMinor), orNone(r.Target(check.Major), styleMajor)
		} else {
			minor = "not found"
		}
		rows = append(rows, []string{cursor, r.Name, r.Constraint, minor, major})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Declared", "Minor", "Major").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Results) {
				return lipgloss.NewStyle()
			}
			if idx == m.Cursor && col <= 2 {
				return listSelectedStyle
			}
			if !m.Results[idx].Found() {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	footer := fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Results))
	if m.loading {
		footer += fmt.Sprintf("  checking %d/%d", m.done, m.total)
	}
	b.WriteString(listDimStyle.Render(footer))
	if m.Status != "" {
		b.WriteString("  " + StyleSuccess.Render(m.Status))
	}
	if m.Err != nil {
		b.WriteString("\n" + styleError.Render(iconError) + " " + m.Err.Error())
	}
	b.WriteString("\n")
	return b.String()
}

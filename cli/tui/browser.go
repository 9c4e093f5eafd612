package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/obsforge-io/obsforge/runtime"
	"github.com/obsforge-io/obsforge/types"
)

// BrowserModel is a Bubble Tea model browsing a saved run summary:
// a cycle list on the left, the selected cycle's details on the right.
type BrowserModel struct {
	summary  *types.RunSummary
	cursor   int
	width    int
	height   int
	quitting bool
}

// NewBrowserModel creates a summary browser model.
func NewBrowserModel(summary *types.RunSummary) BrowserModel {
	return BrowserModel{summary: summary}
}

// Init implements tea.Model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.summary.Cycles)-1 {
				m.cursor++
			}
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Run Summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Cycles:"),
		ValueStyle.Render(fmt.Sprintf("%d total, %d processed, %d failed",
			m.summary.TotalCycles, m.summary.ProcessedCycles, m.summary.FailedCycles))))
	b.WriteString("\n")

	for i := range m.summary.Cycles {
		result := &m.summary.Cycles[i]
		status := string(runtime.ClassifyCycle(result))

		line := fmt.Sprintf("%-22s %s", result.Cycle, StatusStyle(status).Render(status))
		if i == m.cursor {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetail())

	help := HelpStyle.Render("up/down: select cycle, q: quit")
	return b.String() + "\n" + help
}

// renderDetail renders the selected cycle's record.
func (m BrowserModel) renderDetail() string {
	if len(m.summary.Cycles) == 0 {
		return BoxStyle.Render("No cycles in summary")
	}
	result := &m.summary.Cycles[m.cursor]

	var b strings.Builder
	b.WriteString(TitleStyle.Render(result.Cycle))
	b.WriteString("\n\n")

	rows := [][]string{
		{"Categories", fmt.Sprintf("%d", len(result.Observations))},
		{"Files", fmt.Sprintf("%d", result.Observations.FileCount())},
		{"Obs Types", strings.Join(result.ObsTypes, ", ")},
	}
	if result.JobCard != nil {
		rows = append(rows, []string{"Job Card", *result.JobCard})
	}
	if result.ConfigFile != nil {
		rows = append(rows, []string{"Config", *result.ConfigFile})
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render(row[0]+":"),
			ValueStyle.Render(row[1])))
	}

	if exec := result.Execution; exec != nil {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Execution:"),
			StatusStyle(string(exec.Status)).Render(string(exec.Status))))
		if exec.JobID != nil {
			b.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render("Job ID:"),
				ValueStyle.Render(fmt.Sprintf("%d", *exec.JobID))))
		}
		if exec.ReturnCode != nil {
			b.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render("Return Code:"),
				ValueStyle.Render(fmt.Sprintf("%d", *exec.ReturnCode))))
		}
		if exec.Error != "" {
			b.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render("Error:"),
				ErrorStyle.Render(exec.Error)))
		}
		if exec.Reason != "" {
			b.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render("Reason:"),
				ValueStyle.Render(exec.Reason)))
		}
	}

	return BoxStyle.Render(b.String())
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
	Up   key.Binding
	Down key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "previous cycle"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "next cycle"),
	),
}

// RunSummaryBrowser runs the summary browser TUI.
func RunSummaryBrowser(summary *types.RunSummary) error {
	model := NewBrowserModel(summary)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

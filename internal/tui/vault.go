// Package tui implements the interactive vault front end: one masked input
// per token spec, submitted through the persistence engine.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salmonumbrella/envkeep/internal/engine"
	"github.com/salmonumbrella/envkeep/internal/redact"
)

// RunFunc persists the collected values and returns the run report.
type RunFunc func(values map[string]string) *engine.Report

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Width(28)
	hintStyle   = lipgloss.NewStyle().Faint(true)
	statusStyle = map[engine.Status]lipgloss.Style{
		engine.StatusPersisted: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		engine.StatusUnchanged: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		engine.StatusSkipped:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		engine.StatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// Model is the Bubble Tea model for the vault form.
type Model struct {
	specs  []engine.TokenSpec
	inputs []textinput.Model
	run    RunFunc

	focus  int
	report *engine.Report
}

// NewModel builds the vault form over the given token catalog.
func NewModel(specs []engine.TokenSpec, run RunFunc) Model {
	inputs := make([]textinput.Model, len(specs))
	for i, spec := range specs {
		ti := textinput.New()
		ti.Placeholder = spec.Label
		ti.Prompt = ""
		if redact.Sensitive(spec.Name) {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}
	return Model{specs: specs, inputs: inputs, run: run}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key events: tab/arrows move focus, enter on the last field
// submits, any key after submission quits.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	if m.report != nil {
		return m, tea.Quit
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		return m.moveFocus(1), nil
	case "shift+tab", "up":
		return m.moveFocus(-1), nil
	case "enter":
		if m.focus < len(m.inputs)-1 {
			return m.moveFocus(1), nil
		}
		m.report = m.run(m.values())
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) moveFocus(delta int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

// values collects the non-empty form fields.
func (m Model) values() map[string]string {
	values := make(map[string]string)
	for i, spec := range m.specs {
		if v := strings.TrimSpace(m.inputs[i].Value()); v != "" {
			values[spec.Name] = v
		}
	}
	return values
}

// Report returns the run report once the form was submitted, or nil.
func (m Model) Report() *engine.Report {
	return m.report
}

// View renders the form, or the per-token outcomes after submission.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("envkeep vault"))
	b.WriteString("\n\n")

	if m.report != nil {
		for _, out := range m.report.Results {
			style := statusStyle[out.Status]
			line := fmt.Sprintf("%-24s %s", out.Name, style.Render(string(out.Status)))
			if out.Error != "" {
				line += "  " + out.Error
			}
			b.WriteString(line + "\n")
		}
		s := m.report.Summary
		b.WriteString(fmt.Sprintf("\n%d persisted, %d skipped, %d failed\n",
			s.TokensModified, s.TokensSkipped, s.TokensFailed))
		b.WriteString(hintStyle.Render("press any key to exit"))
		return b.String()
	}

	for i, spec := range m.specs {
		label := spec.Label
		if spec.Required {
			label += " *"
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter: next/submit · tab: move · esc: cancel"))
	return b.String()
}

package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PeriodPreset is a predefined or custom statement period selection.
// Statements are almost always drawn up for the previous calendar year,
// so that preset comes first.
type PeriodPreset int

const (
	PeriodLastYear PeriodPreset = 0
	PeriodThisYear PeriodPreset = 1
	PeriodLast12   PeriodPreset = 2
	PeriodCustom   PeriodPreset = 3
)

func (p PeriodPreset) String() string {
	switch p {
	case PeriodLastYear:
		return "Letztes Kalenderjahr"
	case PeriodThisYear:
		return "Dieses Jahr (bis heute)"
	case PeriodLast12:
		return "Letzte 12 Monate"
	case PeriodCustom:
		return "Benutzerdefiniert"
	}

	return "Unknown"
}

func presetToDateRange(p PeriodPreset) (time.Time, time.Time) {
	now := time.Now()

	var start, end time.Time

	switch p {
	case PeriodLastYear:
		start = time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC)
	case PeriodThisYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodLast12:
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start = end.AddDate(-1, 0, 1)
	}

	return start, end
}

// PeriodSelectedMsg is emitted when the user has confirmed a statement
// period.
type PeriodSelectedMsg struct {
	Start time.Time
	End   time.Time
}

type periodState int

const (
	periodStateSelect periodState = iota
	periodStateCustom
)

// PeriodPicker is a reusable component for selecting the statement period.
type PeriodPicker struct {
	state    periodState
	selected PeriodPreset

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewPeriodPicker() PeriodPicker {
	si := textinput.New()
	si.Placeholder = "TT.MM.JJJJ"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Von: "

	ei := textinput.New()
	ei.Placeholder = "TT.MM.JJJJ"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "Bis: "

	return PeriodPicker{
		state:      periodStateSelect,
		selected:   PeriodLastYear,
		startInput: si,
		endInput:   ei,
	}
}

func (m PeriodPicker) Init() tea.Cmd {
	return nil
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case periodStateSelect:
			return m.updateSelect(msg)
		case periodStateCustom:
			return m.updateCustom(msg)
		}
	}

	if m.state == periodStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > PeriodLastYear {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == PeriodCustom {
			m.state = periodStateCustom
			m.startInput.Focus()
			m.focusIndex = 0
			return m, textinput.Blink
		}

		start, end := presetToDateRange(m.selected)
		return m, func() tea.Msg {
			return PeriodSelectedMsg{Start: start, End: end}
		}
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()
		if m.focusIndex == 0 {
			m.startInput.Focus()
			return m, textinput.Blink
		}
		m.endInput.Focus()
		return m, textinput.Blink

	case "enter":
		start, err := ParseDate(m.startInput.Value())
		if err != nil {
			m.err = fmt.Errorf("ungültiges Startdatum (TT.MM.JJJJ)")
			return m, nil
		}

		end, err := ParseDate(m.endInput.Value())
		if err != nil {
			m.err = fmt.Errorf("ungültiges Enddatum (TT.MM.JJJJ)")
			return m, nil
		}

		if end.Before(start) {
			m.err = fmt.Errorf("Ende liegt vor Beginn")
			return m, nil
		}

		m.err = nil
		return m, func() tea.Msg {
			return PeriodSelectedMsg{Start: start, End: end}
		}

	case "esc":
		m.state = periodStateSelect
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m PeriodPicker) updateInputs(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	var cmds []tea.Cmd
	var c tea.Cmd

	m.startInput, c = m.startInput.Update(msg)
	cmds = append(cmds, c)
	m.endInput, c = m.endInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("\n\nFehler: %v", m.err))
	}

	if m.state == periodStateCustom {
		return fmt.Sprintf(
			"Abrechnungszeitraum eingeben:\n\n%s\n%s\n\n(Enter bestätigen, Tab wechseln, Esc zurück)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	s := "Abrechnungszeitraum wählen:\n\n"
	for i := PeriodLastYear; i <= PeriodCustom; i++ {
		cursor := " "
		if m.selected == i {
			cursor = ">"
		}
		s += fmt.Sprintf("%s %s\n", cursor, i.String())
	}
	s += "\n(Enter wählen, Esc zurück)"

	return s + errStr
}

// Reset returns the picker to its initial selection state.
func (m *PeriodPicker) Reset() {
	m.state = periodStateSelect
	m.selected = PeriodLastYear
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}

package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/property"
)

type buildingsState int

const (
	buildingsStateBrowse buildingsState = iota
	buildingsStateCreate
	buildingsStateUnits
)

// BuildingSelectedMsg is emitted when the user picks a building to draft
// a statement for.
type BuildingSelectedMsg struct {
	Building *property.Building
}

type BuildingsModel struct {
	CommonModel
	propertySvc *property.Service
	landlordID  uuid.UUID

	state     buildingsState
	table     table.Model
	unitTable table.Model
	buildings []*property.Building
	units     []*property.Unit
	form      *huh.Form

	// selectable controls whether Enter emits BuildingSelectedMsg. The
	// master-data view browses only; draft setup selects.
	selectable bool

	loading bool
	err     error
	status  string

	// Form bindings
	formName   string
	formStreet string
	formZIP    string
	formCity   string

	formUnitLabel string
	formUnitSpace string
	formUnitUsage property.UsageType
}

func NewBuildingsModel(propertySvc *property.Service, landlordID uuid.UUID, selectable bool) BuildingsModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Straße", Width: 24},
		{Title: "PLZ", Width: 6},
		{Title: "Ort", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())

	ut := table.New(
		table.WithColumns([]table.Column{
			{Title: "Lage", Width: 20},
			{Title: "Nutzung", Width: 12},
			{Title: "Wohnfläche m²", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ut.SetStyles(tableStyles())

	return BuildingsModel{
		propertySvc: propertySvc,
		landlordID:  landlordID,
		selectable:  selectable,
		table:       t,
		unitTable:   ut,
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return s
}

func (m BuildingsModel) Init() tea.Cmd {
	return m.loadBuildingsCmd()
}

func (m BuildingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBuildingsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.buildings = msg.buildings
		m.refreshTable()
		return m, nil

	case loadUnitsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.units = msg.units
		m.state = buildingsStateUnits
		m.refreshUnitTable()
		return m, nil

	case buildingSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Fehler beim Speichern: %v", msg.err)
		} else {
			m.status = "Gespeichert."
		}
		m.state = buildingsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadBuildingsCmd()

	case unitSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Fehler beim Speichern: %v", msg.err)
		}
		m.form = nil
		if b := m.selectedBuilding(); b != nil {
			return m, m.loadUnitsCmd(b.ID)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case buildingsStateBrowse:
		return m.updateBrowse(msg)
	case buildingsStateCreate:
		return m.updateForm(msg)
	case buildingsStateUnits:
		return m.updateUnits(msg)
	}

	return m, nil
}

func (m BuildingsModel) selectedBuilding() *property.Building {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.buildings) {
		return nil
	}

	return m.buildings[idx]
}

func (m BuildingsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadBuildingsCmd()
		case "n":
			return m.enterCreateMode()
		case "u":
			if b := m.selectedBuilding(); b != nil {
				return m, m.loadUnitsCmd(b.ID)
			}
			return m, nil
		case "enter":
			if b := m.selectedBuilding(); m.selectable && b != nil {
				return m, func() tea.Msg {
					return BuildingSelectedMsg{Building: b}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BuildingsModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.formName = ""
	m.formStreet = ""
	m.formZIP = ""
	m.formCity = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("Name darf nicht leer sein")
					}
					return nil
				}),

			huh.NewInput().
				Key("street").
				Title("Straße").
				Value(&m.formStreet),

			huh.NewInput().
				Key("zip").
				Title("PLZ").
				Value(&m.formZIP),

			huh.NewInput().
				Key("city").
				Title("Ort").
				Value(&m.formCity),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = buildingsStateCreate
	m.table.Blur()
	return m, m.form.Init()
}

func (m BuildingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = buildingsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveBuildingCmd()
}

func (m BuildingsModel) updateUnits(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.form = nil
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		return m, m.saveUnitCmd()
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = buildingsStateBrowse
			m.units = nil
			return m, nil
		case "n":
			return m.enterUnitCreateMode()
		}
	}

	var cmd tea.Cmd
	m.unitTable, cmd = m.unitTable.Update(msg)
	return m, cmd
}

func (m BuildingsModel) enterUnitCreateMode() (tea.Model, tea.Cmd) {
	m.formUnitLabel = ""
	m.formUnitSpace = ""
	m.formUnitUsage = property.UsageResidential

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("label").
				Title("Lage (z.B. EG links)").
				Value(&m.formUnitLabel).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("Lage darf nicht leer sein")
					}
					return nil
				}),

			huh.NewInput().
				Key("space").
				Title("Wohnfläche m²").
				Value(&m.formUnitSpace).
				Validate(func(s string) error {
					if _, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err != nil {
						return fmt.Errorf("ungültige Fläche")
					}
					return nil
				}),

			huh.NewSelect[property.UsageType]().
				Key("usage").
				Title("Nutzung").
				Options(
					huh.NewOption("Wohnen", property.UsageResidential),
					huh.NewOption("Gewerbe", property.UsageCommercial),
					huh.NewOption("Sonstige", property.UsageOther),
				).
				Value(&m.formUnitUsage),
		),
	).WithWidth(45).WithShowHelp(false)

	return m, m.form.Init()
}

func (m BuildingsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Lade Gebäude...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Fehler: %v", m.err))
	}

	if m.state == buildingsStateUnits {
		return m.viewUnits()
	}

	header := "Gebäude  [n] neu | [u] Einheiten | [r] aktualisieren | [Esc] zurück"
	if m.selectable {
		header = "Gebäude wählen  [Enter] wählen | " + header[len("Gebäude  "):]
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == buildingsStateCreate && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Neues Gebäude\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m BuildingsModel) viewUnits() string {
	name := ""
	if b := m.selectedBuilding(); b != nil {
		name = b.Name
	}

	header := fmt.Sprintf("Einheiten: %s  [n] neue Einheit | [Esc] zurück", name)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.unitTable.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Neue Einheit\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BuildingsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.buildings))
	for _, b := range m.buildings {
		rows = append(rows, table.Row{b.Name, b.Street, b.ZIP, b.City})
	}
	m.table.SetRows(rows)
}

func (m *BuildingsModel) refreshUnitTable() {
	rows := make([]table.Row, 0, len(m.units))
	for _, u := range m.units {
		rows = append(rows, table.Row{
			u.Label,
			string(u.Usage),
			fmt.Sprintf("%.1f", u.LivingSpaceM2),
		})
	}
	m.unitTable.SetRows(rows)
}

// Messages

type loadBuildingsMsg struct {
	buildings []*property.Building
	err       error
}

func (m BuildingsModel) loadBuildingsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		buildings, err := m.propertySvc.ListBuildings(ctx, m.landlordID)
		return loadBuildingsMsg{buildings: buildings, err: err}
	}
}

type loadUnitsMsg struct {
	units []*property.Unit
	err   error
}

func (m BuildingsModel) loadUnitsCmd(buildingID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		units, err := m.propertySvc.ListUnits(ctx, buildingID)
		return loadUnitsMsg{units: units, err: err}
	}
}

type buildingSavedMsg struct {
	err error
}

func (m BuildingsModel) saveBuildingCmd() tea.Cmd {
	params := property.CreateBuildingParams{
		LandlordID: m.landlordID,
		Name:       m.formName,
		Street:     m.formStreet,
		ZIP:        m.formZIP,
		City:       m.formCity,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.propertySvc.CreateBuilding(ctx, params)
		return buildingSavedMsg{err: err}
	}
}

type unitSavedMsg struct {
	err error
}

func (m BuildingsModel) saveUnitCmd() tea.Cmd {
	b := m.selectedBuilding()
	if b == nil {
		return nil
	}

	space, _ := strconv.ParseFloat(strings.ReplaceAll(m.formUnitSpace, ",", "."), 64)

	params := property.CreateUnitParams{
		BuildingID:    b.ID,
		Usage:         m.formUnitUsage,
		Label:         m.formUnitLabel,
		LivingSpaceM2: space,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.propertySvc.CreateUnit(ctx, params)
		return unitSavedMsg{err: err}
	}
}

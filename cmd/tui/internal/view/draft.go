package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/invoice"
	"github.com/jmeindl/umlage/internal/property"
	"github.com/jmeindl/umlage/internal/statement"
)

type draftState int

const (
	draftStatePeriod draftState = iota
	draftStateGroups
	draftStateInvoices
	draftStateSummary
)

// exportTimeout bounds one statement bundle export, attachment downloads
// included.
const exportTimeout = 2 * time.Minute

// allocationKeys is the cycle order for the [k] key binding.
var allocationKeys = []category.AllocationKey{
	category.AllocateByConsumption,
	category.AllocateByLivingSpace,
	category.AllocateByUnitCount,
}

// DraftModel drives one statement draft from period selection through
// group editing to the reconciled summary.
type DraftModel struct {
	CommonModel
	invoiceSvc   *invoice.Service
	propertySvc  *property.Service
	statementSvc *statement.Service
	exportDir    string

	session   *billing.Session
	building  *property.Building
	contracts []*property.Contract

	state        draftState
	period       PeriodPicker
	groupTable   table.Model
	invoiceTable table.Model
	form         *huh.Form

	// groupCursor pins the group being edited while the invoice table has
	// focus.
	groupCursor int

	loading bool
	err     error
	status  string

	// Form bindings
	formPurpose string
	formAmount  string
	formSpread  bool
}

func NewDraftModel(
	kind billing.Kind,
	building *property.Building,
	invoiceSvc *invoice.Service,
	propertySvc *property.Service,
	statementSvc *statement.Service,
	exportDir string,
) DraftModel {
	gt := table.New(
		table.WithColumns([]table.Column{
			{Title: "Kostenart", Width: 26},
			{Title: "Schlüssel", Width: 16},
			{Title: "Belege", Width: 7},
			{Title: "Summe", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(16),
	)
	gt.SetStyles(tableStyles())

	it := table.New(
		table.WithColumns([]table.Column{
			{Title: "Verwendungszweck", Width: 36},
			{Title: "Betrag", Width: 14},
			{Title: "Umlage", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	it.SetStyles(tableStyles())

	return DraftModel{
		invoiceSvc:   invoiceSvc,
		propertySvc:  propertySvc,
		statementSvc: statementSvc,
		exportDir:    exportDir,
		session:      billing.NewSession(kind, building.ID),
		building:     building,
		state:        draftStatePeriod,
		period:       NewPeriodPicker(),
		groupTable:   gt,
		invoiceTable: it,
		loading:      true,
	}
}

func (m DraftModel) Init() tea.Cmd {
	return m.seedCmd()
}

func (m DraftModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case draftSeedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session.SeedInvoices(msg.invoices)
		m.contracts = msg.contracts
		m.refreshGroupTable()
		return m, nil

	case PeriodSelectedMsg:
		m.session.SetPeriod(billing.Period{Start: msg.Start, End: msg.End})
		m.state = draftStateGroups
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export fehlgeschlagen: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Exportiert: %s", msg.path)
		}
		return m, nil
	}

	switch m.state {
	case draftStatePeriod:
		var cmd tea.Cmd
		m.period, cmd = m.period.Update(msg)
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
		return m, cmd
	case draftStateGroups:
		return m.updateGroups(msg)
	case draftStateInvoices:
		return m.updateInvoices(msg)
	case draftStateSummary:
		return m.updateSummary(msg)
	}

	return m, nil
}

func (m DraftModel) updateGroups(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "p":
			m.period.Reset()
			m.state = draftStatePeriod
			return m, nil
		case "s":
			m.state = draftStateSummary
			return m, nil
		case "k":
			m.cycleAllocationKey()
			m.refreshGroupTable()
			return m, nil
		case "enter":
			groups := m.session.Groups()
			if idx := m.groupTable.Cursor(); idx >= 0 && idx < len(groups) {
				m.groupCursor = idx
				m.state = draftStateInvoices
				m.refreshInvoiceTable()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.groupTable, cmd = m.groupTable.Update(msg)
	return m, cmd
}

func (m *DraftModel) cycleAllocationKey() {
	groups := m.session.Groups()

	idx := m.groupTable.Cursor()
	if idx < 0 || idx >= len(groups) {
		return
	}

	g := groups[idx]

	next := allocationKeys[0]
	for i, k := range allocationKeys {
		if k == g.Key {
			next = allocationKeys[(i+1)%len(allocationKeys)]
			break
		}
	}

	if err := m.session.SetAllocationKey(g.Category.Type, next); err != nil {
		m.status = fmt.Sprintf("Fehler: %v", err)
	}
}

func (m DraftModel) currentGroup() (billing.Group, bool) {
	groups := m.session.Groups()
	if m.groupCursor < 0 || m.groupCursor >= len(groups) {
		return billing.Group{}, false
	}

	return groups[m.groupCursor], true
}

func (m DraftModel) updateInvoices(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		m.form = nil
		m.addInvoiceFromForm()
		m.refreshInvoiceTable()
		m.refreshGroupTable()
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = draftStateGroups
			return m, nil
		case "a":
			return m.enterAddInvoiceMode()
		case "d":
			g, ok := m.currentGroup()
			if !ok {
				return m, nil
			}

			if err := m.session.RemoveInvoice(g.Category.Type, m.invoiceTable.Cursor()); err != nil {
				m.status = fmt.Sprintf("Fehler: %v", err)
			}

			m.refreshInvoiceTable()
			m.refreshGroupTable()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.invoiceTable, cmd = m.invoiceTable.Update(msg)
	return m, cmd
}

func (m DraftModel) enterAddInvoiceMode() (tea.Model, tea.Cmd) {
	m.formPurpose = ""
	m.formAmount = ""
	m.formSpread = true

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("purpose").
				Title("Verwendungszweck").
				Value(&m.formPurpose).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("Verwendungszweck darf nicht leer sein")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Betrag (z.B. 588,74)").
				Value(&m.formAmount).
				Validate(func(s string) error {
					if _, err := invoice.ParseAmount(s); err != nil {
						return fmt.Errorf("ungültiger Betrag")
					}
					return nil
				}),

			huh.NewConfirm().
				Key("spread").
				Title("Auf alle Mieter umlegen?").
				Affirmative("Ja").
				Negative("Nein, Direktzuordnung").
				Value(&m.formSpread),
		),
	).WithWidth(50).WithShowHelp(false)

	return m, m.form.Init()
}

func (m *DraftModel) addInvoiceFromForm() {
	g, ok := m.currentGroup()
	if !ok {
		return
	}

	amount, err := invoice.ParseAmount(m.formAmount)
	if err != nil {
		m.status = fmt.Sprintf("Fehler: %v", err)
		return
	}

	err = m.session.AddInvoice(g.Category.Type, invoice.Invoice{
		BuildingID:    m.building.ID,
		Purpose:       m.formPurpose,
		ForAllTenants: m.formSpread,
		TotalAmount:   amount,
	})
	if err != nil {
		m.status = fmt.Sprintf("Fehler: %v", err)
	}
}

func (m DraftModel) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = draftStateGroups
			return m, nil
		case "x":
			m.status = "Exportiere..."
			return m, m.exportCmd()
		}
	}

	return m, nil
}

func (m DraftModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Lade Belege...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Fehler: %v", m.err))
	}

	switch m.state {
	case draftStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(
			m.titleLine() + "\n\n" + m.period.View(),
		)
	case draftStateGroups:
		return m.viewGroups()
	case draftStateInvoices:
		return m.viewInvoices()
	case draftStateSummary:
		return m.viewSummary()
	}

	return ""
}

func (m DraftModel) titleLine() string {
	kind := "Betriebskostenabrechnung"
	if m.session.Kind() == billing.KindHeating {
		kind = "Heizkostenabrechnung"
	}

	title := fmt.Sprintf("%s: %s", kind, m.building.Name)

	if p := m.session.Period(); p.Valid() {
		title += fmt.Sprintf("  (%s - %s)", p.FormatStart(), p.FormatEnd())
	}

	return lipgloss.NewStyle().Bold(true).Render(title)
}

func (m DraftModel) viewGroups() string {
	header := "[Enter] Belege | [k] Schlüssel wechseln | [p] Zeitraum | [s] Abrechnung | [Esc] zurück"

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.groupTable.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.titleLine(),
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		fmt.Sprintf("Gesamt: %s", FormatAmount(m.session.Total())),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DraftModel) viewInvoices() string {
	g, ok := m.currentGroup()
	if !ok {
		return ""
	}

	header := fmt.Sprintf("%s  [a] neuer Beleg | [d] löschen | [Esc] zurück", g.Category.Name)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.invoiceTable.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.titleLine(),
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		fmt.Sprintf("Summe %s: %s", g.Category.Name, FormatAmount(g.Total())),
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render("Neuer Beleg\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DraftModel) viewSummary() string {
	rec := billing.Reconcile(m.session, m.contracts)

	label := lipgloss.NewStyle().Width(24)
	value := lipgloss.NewStyle().Bold(true)

	balanceStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	balanceNote := "Guthaben des Mieters"
	if rec.Balance < 0 {
		balanceStyle = balanceStyle.Foreground(lipgloss.Color("196"))
		balanceNote = "Nachzahlung des Mieters"
	}

	lines := []string{
		m.titleLine(),
		"",
		label.Render("Umlagefähige Kosten:") + value.Render(FormatAmount(rec.SpreadTotal)),
		label.Render("Direkte Kosten:") + value.Render(FormatAmount(rec.DirectTotal)),
		label.Render("Gesamtkosten:") + value.Render(FormatAmount(rec.Total)),
		label.Render("Vorauszahlungen:") + value.Render(FormatAmount(rec.PrepaymentTotal)),
		"",
		label.Render("Differenzbetrag:") + balanceStyle.Render(
			fmt.Sprintf("%s  (%s)", FormatAmount(rec.Balance), balanceNote),
		),
		"",
		"[x] Export | [Esc] zurück",
	}

	if m.status != "" {
		lines = append(lines, "", lipgloss.NewStyle().Faint(true).Render(m.status))
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join(lines, "\n"))

	return lipgloss.NewStyle().Padding(1).Render(panel)
}

func (m *DraftModel) refreshGroupTable() {
	groups := m.session.Groups()

	rows := make([]table.Row, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, table.Row{
			g.Category.Name,
			string(g.Key),
			fmt.Sprintf("%d", len(g.Invoices)),
			FormatAmount(g.Total()),
		})
	}
	m.groupTable.SetRows(rows)
}

func (m *DraftModel) refreshInvoiceTable() {
	g, ok := m.currentGroup()
	if !ok {
		m.invoiceTable.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(g.Invoices))
	for _, inv := range g.Invoices {
		spread := "alle"
		if !inv.ForAllTenants {
			spread = "direkt"
		}

		rows = append(rows, table.Row{inv.Purpose, FormatAmount(inv.TotalAmount), spread})
	}
	m.invoiceTable.SetRows(rows)
}

// Messages

type draftSeedMsg struct {
	invoices  []invoice.Invoice
	contracts []*property.Contract
	err       error
}

func (m DraftModel) seedCmd() tea.Cmd {
	buildingID := m.building.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stored, err := m.invoiceSvc.ListForBuilding(ctx, buildingID)
		if err != nil {
			return draftSeedMsg{err: err}
		}

		contracts, err := m.propertySvc.ListContractsByBuilding(ctx, buildingID)
		if err != nil {
			return draftSeedMsg{err: err}
		}

		invoices := make([]invoice.Invoice, len(stored))
		for i, inv := range stored {
			invoices[i] = *inv
		}

		return draftSeedMsg{invoices: invoices, contracts: contracts}
	}
}

type exportDoneMsg struct {
	path string
	err  error
}

func (m DraftModel) exportCmd() tea.Cmd {
	stmt := billing.Assemble(m.session, m.contracts)
	dir := m.exportDir

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		path, err := m.statementSvc.Bundle(ctx, &stmt, dir)
		return exportDoneMsg{path: path, err: err}
	}
}

package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/jmeindl/umlage/cmd/tui/internal/view"
	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/config"
	"github.com/jmeindl/umlage/internal/database"
	"github.com/jmeindl/umlage/internal/invoice"
	invoiceStore "github.com/jmeindl/umlage/internal/invoice/store"
	"github.com/jmeindl/umlage/internal/property"
	propertyStore "github.com/jmeindl/umlage/internal/property/store"
	"github.com/jmeindl/umlage/internal/statement"
)

type model struct {
	propertyService  *property.Service
	invoiceService   *invoice.Service
	statementService *statement.Service

	landlordID uuid.UUID
	exportDir  string

	currentView View

	// pendingKind is the draft flavour chosen on the menu, applied once a
	// building has been picked.
	pendingKind billing.Kind

	buildingsView view.BuildingsModel
	draftView     view.DraftModel
}

type View int

const (
	ViewMenu         View = 0
	ViewBuildings    View = 1
	ViewPickBuilding View = 2
	ViewDraft        View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	landlordID, err := uuid.Parse(cfg.Landlord.ID)
	if err != nil {
		slog.Error("LANDLORD_ID must be a valid UUID", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	propertySvc := property.NewService(propertyStore.New(db))
	invoiceSvc := invoice.NewService(invoiceStore.New(db))
	statementSvc := statement.NewService(cfg.Docs.Token)

	return model{
		propertyService:  propertySvc,
		invoiceService:   invoiceSvc,
		statementService: statementSvc,
		landlordID:       landlordID,
		exportDir:        cfg.Export.Dir,
		currentView:      ViewMenu,
		buildingsView:    view.NewBuildingsModel(propertySvc, landlordID, false),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewBuildings
				m.buildingsView = view.NewBuildingsModel(m.propertyService, m.landlordID, false)

				return m, m.buildingsView.Init()
			case "2":
				m.currentView = ViewPickBuilding
				m.pendingKind = billing.KindHeating
				m.buildingsView = view.NewBuildingsModel(m.propertyService, m.landlordID, true)

				return m, m.buildingsView.Init()
			case "3":
				m.currentView = ViewPickBuilding
				m.pendingKind = billing.KindOperating
				m.buildingsView = view.NewBuildingsModel(m.propertyService, m.landlordID, true)

				return m, m.buildingsView.Init()
			}
		}
	case view.BuildingSelectedMsg:
		m.currentView = ViewDraft
		m.draftView = view.NewDraftModel(
			m.pendingKind,
			msg.Building,
			m.invoiceService,
			m.propertyService,
			m.statementService,
			m.exportDir,
		)

		return m, m.draftView.Init()
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewBuildings, ViewPickBuilding:
		var newModel tea.Model
		newModel, cmd = m.buildingsView.Update(msg)
		m.buildingsView = newModel.(view.BuildingsModel)
	case ViewDraft:
		var newModel tea.Model
		newModel, cmd = m.draftView.Update(msg)
		m.draftView = newModel.(view.DraftModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Umlage TUI\n\n" +
				"1. Gebäude verwalten\n" +
				"2. Heizkostenabrechnung erstellen\n" +
				"3. Betriebskostenabrechnung erstellen\n\n" +
				"q. Beenden",
		)
	case ViewBuildings, ViewPickBuilding:
		return m.buildingsView.View()
	case ViewDraft:
		return m.draftView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

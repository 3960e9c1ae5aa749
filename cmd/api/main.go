package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/classify"
	classifyStore "github.com/jmeindl/umlage/internal/classify/store"
	"github.com/jmeindl/umlage/internal/config"
	"github.com/jmeindl/umlage/internal/database"
	umlageHttp "github.com/jmeindl/umlage/internal/http"
	billingHandler "github.com/jmeindl/umlage/internal/http/billing"
	classifyHandler "github.com/jmeindl/umlage/internal/http/classify"
	invoiceHandler "github.com/jmeindl/umlage/internal/http/invoice"
	propertyHandler "github.com/jmeindl/umlage/internal/http/property"
	statementHandler "github.com/jmeindl/umlage/internal/http/statement"
	"github.com/jmeindl/umlage/internal/invoice"
	invoiceStore "github.com/jmeindl/umlage/internal/invoice/store"
	"github.com/jmeindl/umlage/internal/property"
	propertyStore "github.com/jmeindl/umlage/internal/property/store"
	"github.com/jmeindl/umlage/internal/statement"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		propertyService  = property.NewService(propertyStore.New(db))
		invoiceService   = invoice.NewService(invoiceStore.New(db))
		classifyService  = classify.NewService(classifyStore.New(db))
		statementService = statement.NewService(cfg.Docs.Token)
		draftStore       = billing.NewDraftStore()
	)

	var (
		propertyH  = propertyHandler.NewHandler(propertyService)
		invoiceH   = invoiceHandler.NewHandler(invoiceService)
		classifyH  = classifyHandler.NewHandler(classifyService)
		draftH     = billingHandler.NewHandler(draftStore, invoiceService, propertyService)
		statementH = statementHandler.NewHandler(statementService, draftStore, propertyService)
	)

	router := umlageHttp.New(propertyH, invoiceH, classifyH, draftH, statementH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

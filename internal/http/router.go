package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmeindl/umlage/internal/http/billing"
	"github.com/jmeindl/umlage/internal/http/classify"
	"github.com/jmeindl/umlage/internal/http/invoice"
	"github.com/jmeindl/umlage/internal/http/property"
	"github.com/jmeindl/umlage/internal/http/statement"
)

func New(
	propertiesV1 *property.Handler,
	invoicesV1 *invoice.Handler,
	classifyV1 *classify.Handler,
	draftsV1 *billing.Handler,
	statementsV1 *statement.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/buildings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			propertiesV1.Routes(r)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)
		})

		r.Route("/classify", func(r chi.Router) {
			classifyV1.Routes(r)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			draftsV1.Routes(r)
		})

		r.Route("/statements", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			statementsV1.Routes(r)
		})
	})

	return router
}

package router

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/alderworks/workshop/internal/job"
	"github.com/alderworks/workshop/internal/ledger"
	"github.com/alderworks/workshop/internal/logger"
	"github.com/alderworks/workshop/internal/middleware"
	"github.com/alderworks/workshop/internal/roster"
	"github.com/alderworks/workshop/internal/shop"
)

func NewRouter(
	jobH *job.Handler,
	ledgerH *ledger.Handler,
	shopH *shop.Handler,
	rosterH *roster.Handler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(logger.WithLogging)
	r.Use(chiMiddleware.Recoverer)

	r.Use(middleware.GzipHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", jobH.Board)
		r.Post("/board/{id}/accept", jobH.Accept)
		r.Post("/board/{id}/decline", jobH.Decline)
		r.Post("/board/{id}/deliver", jobH.Deliver)
		r.Post("/production", jobH.ReportProduction)

		r.Get("/roster", rosterH.GetRoster)
		r.Get("/wallet", ledgerH.GetWallet)

		r.Get("/shop", shopH.ListItems)
		r.Post("/shop/{id}/buy", shopH.Buy)
	})

	return r
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hanhanxue/260110-personal-budget/internal/api/handlers"
	"github.com/hanhanxue/260110-personal-budget/internal/api/middleware"
)

// Deps carries everything the router wires together.
type Deps struct {
	Store      handlers.TransactionStore
	Rates      handlers.RateSource
	Uploader   handlers.Uploader
	Password   string
	Production bool
	Log        zerolog.Logger
}

// NewRouter builds the full HTTP surface. Reads are open; every mutation
// goes through the shared-password gate.
func NewRouter(d Deps) http.Handler {
	transactions := handlers.NewTransactionsHandler(d.Store, d.Log)
	rates := handlers.NewExchangeHandler(d.Rates, d.Log)
	upload := handlers.NewUploadHandler(d.Uploader, d.Log)
	auth := handlers.NewAuthHandler(d.Password, d.Production)

	gate := middleware.RequireAuth(d.Password, d.Production)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)

	r.Post("/api/auth", auth.Verify)
	r.Get("/api/exchange-rate", rates.Get)
	r.With(gate).Post("/api/upload", upload.Upload)

	r.Route("/api/{budget}", func(r chi.Router) {
		r.Get("/schema", transactions.Schema)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", transactions.List)
			r.With(gate).Post("/", transactions.Create)
			r.With(gate).Put("/", transactions.Update)
			r.With(gate).Delete("/", transactions.Delete)

			r.Get("/vendors", transactions.Vendors)
			r.Get("/accounts", transactions.Accounts)
			r.Get("/tags", transactions.Tags)
			r.Get("/defaults", transactions.Defaults)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteData(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return r
}

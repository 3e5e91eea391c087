package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/broomstones/loaners/internal/auth"
	"github.com/broomstones/loaners/internal/handlers"
	"github.com/broomstones/loaners/internal/logging"
	"github.com/broomstones/loaners/internal/metrics"
)

func Router(h *handlers.Handlers, gate *auth.Gate, m *metrics.Metrics, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(log))
	r.Use(m.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/qr/lookup.png", h.LookupQR)

	// Public pages
	r.Get("/", h.Home)
	r.Get("/lookup", h.LookupPage)
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.RegisterSubmit)
	r.Get("/request", h.RequestForm)
	r.Post("/request", h.RequestSubmit)

	// Coordinator login (public)
	r.Route("/admin", func(ar chi.Router) {
		ar.Get("/login", h.AdminLoginForm)
		ar.Post("/login", h.AdminLoginSubmit)
		ar.Post("/logout", h.AdminLogout)
	})

	// Coordinator pages
	r.Group(func(pg chi.Router) {
		pg.Use(gate.RequirePage)

		pg.Get("/kids", h.KidsPage)
		pg.Post("/kids", h.KidCreateSubmit)
		pg.Post("/kids/{id}", h.KidUpdateSubmit)
		pg.Post("/kids/{id}/delete", h.KidDeleteSubmit)
		pg.Get("/equipment", h.EquipmentPage)
		pg.Post("/equipment", h.EquipmentCreateSubmit)
		pg.Post("/equipment/{id}", h.EquipmentUpdateSubmit)
		pg.Post("/equipment/{id}/retire", h.EquipmentRetireSubmit)
		pg.Post("/equipment/{id}/delete", h.EquipmentDeleteSubmit)
		pg.Get("/match", h.MatchPage)
		pg.Get("/waitlist", h.WaitlistPage)
		pg.Post("/waitlist/{id}/notify", h.WaitlistNotifySubmit)
		pg.Get("/checkouts", h.CheckoutsPage)
		pg.Post("/checkouts", h.CheckoutSubmit)
		pg.Post("/checkouts/return", h.ReturnSelectedSubmit)
		pg.Post("/checkouts/{id}/return", h.ReturnSubmit)
		pg.Get("/print", h.PrintPage)
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/auth", h.AuthStatus)
		api.Post("/auth", h.AuthLogin)
		api.Delete("/auth", h.AuthLogout)

		// Public
		api.Get("/kids", h.ListKids)
		api.Post("/kids", h.CreateKid)
		api.Get("/equipment", h.ListEquipment)
		api.Get("/equipment/{id}", h.GetEquipment)
		api.Get("/lookup", h.Lookup)
		api.Post("/requests", h.CreateRequest)
		api.Post("/waitlist", h.JoinWaitlist)
		api.Get("/stats", h.Stats)

		// Coordinator only
		api.Group(func(ag chi.Router) {
			ag.Use(gate.RequireAPI)

			ag.Get("/kids/{id}", h.GetKid)
			ag.Put("/kids/{id}", h.UpdateKid)
			ag.Delete("/kids/{id}", h.DeleteKid)

			ag.Post("/equipment", h.CreateEquipment)
			ag.Put("/equipment/{id}", h.UpdateEquipment)
			ag.Delete("/equipment/{id}", h.DeleteEquipment)
			ag.Get("/equipment/{id}/qr.png", h.EquipmentQR)

			ag.Get("/checkouts", h.ListCheckouts)
			ag.Post("/checkouts", h.CreateCheckout)
			ag.Post("/checkouts/return", h.ReturnCheckouts)
			ag.Post("/checkouts/{id}/return", h.ReturnCheckout)

			ag.Get("/requests", h.ListRequests)
			ag.Post("/requests/{id}/fulfill", h.FulfillRequest)

			ag.Get("/waitlist", h.ListWaitlist)
			ag.Post("/waitlist/{id}/notify", h.NotifyWaitlist)
		})
	})

	return r
}

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"village-admin-go/internal/config"
	"village-admin-go/internal/metrics"
	"village-admin-go/internal/transport/httpserver/handler"
	authmw "village-admin-go/internal/transport/httpserver/middleware"
	"village-admin-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens authmw.TokenVerifier, m *metrics.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))
	r.Use(m.Middleware)

	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)
		r.Post("/auth/login", handlers.Common.Login)

		auth := authmw.NewJWTAuth(tokens, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)

			r.Get("/family-cards", handlers.Residents.ListFamilyCards)
			r.Post("/family-cards", handlers.Residents.CreateFamilyCard)
			r.Get("/family-cards/headless", handlers.Residents.ListHeadlessFamilyCards)
			r.Get("/family-cards/{id}", handlers.Residents.GetFamilyCard)
			r.Put("/family-cards/{id}", handlers.Residents.UpdateFamilyCard)
			r.Delete("/family-cards/{id}", handlers.Residents.DeleteFamilyCard)

			r.Get("/household-heads", handlers.Residents.ListHouseholdHeads)
			r.Post("/household-heads", handlers.Residents.CreateHouseholdHead)
			r.Get("/household-heads/{id}", handlers.Residents.GetHouseholdHead)
			r.Put("/household-heads/{id}", handlers.Residents.UpdateHouseholdHead)
			r.Delete("/household-heads/{id}", handlers.Residents.DeleteHouseholdHead)

			r.Post("/family-members", handlers.Residents.CreateFamilyMember)
			r.Get("/family-members/{id}", handlers.Residents.GetFamilyMember)
			r.Put("/family-members/{id}", handlers.Residents.UpdateFamilyMember)
			r.Delete("/family-members/{id}", handlers.Residents.DeleteFamilyMember)

			r.Get("/residents", handlers.Residents.ListResidents)

			r.Get("/mutations/{kind}", handlers.Mutations.List)
			r.Post("/mutations/{kind}", handlers.Mutations.Create)
			r.Get("/mutations/{kind}/{id}", handlers.Mutations.Get)
			r.Put("/mutations/{kind}/{id}", handlers.Mutations.Update)
			r.Delete("/mutations/{kind}/{id}", handlers.Mutations.Delete)

			r.Get("/files/{type}/{filename}", handlers.Files.Serve)
		})
	})

	return r
}

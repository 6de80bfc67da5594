package api

import (
	"net/http"

	"github.com/dom/xwing-campaign/internal/api/handlers"
	"github.com/dom/xwing-campaign/internal/api/middleware"
	"github.com/dom/xwing-campaign/internal/config"
	"github.com/dom/xwing-campaign/internal/metrics"
	"github.com/dom/xwing-campaign/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg.IsProduction())
	userHandler := handlers.NewUserHandler(services.User)
	campaignHandler := handlers.NewCampaignHandler(services.Campaign, services.Pilot)
	pilotHandler := handlers.NewPilotHandler(services.Pilot)
	catalogHandler := handlers.NewCatalogHandler(services.Catalog)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login/{username}", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Post("/logout", authHandler.Logout)
		})
	})

	r.Route("/api", func(r chi.Router) {
		// Static reference data
		r.Get("/ships", catalogHandler.Ships)
		r.Get("/ship/{name}", catalogHandler.Ship)
		r.Get("/upgrades", catalogHandler.Upgrades)
		r.Get("/upgrades/{slot}", catalogHandler.Upgrades)
		r.Get("/upgrade/{name}", catalogHandler.Upgrade)
		r.Get("/missions", catalogHandler.Missions)
		r.Get("/missions/initial", catalogHandler.InitialMissions)
		r.Get("/mission/{name}", catalogHandler.Mission)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Get("/users", userHandler.List)
			r.Route("/user/{name}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Put("/", userHandler.Put)
				r.Delete("/", userHandler.Delete)
			})

			r.Route("/campaigns/{username}", func(r chi.Router) {
				r.Get("/", campaignHandler.List)
				r.Post("/", campaignHandler.Create)
			})

			r.Route("/campaign/{id}", func(r chi.Router) {
				r.Get("/", campaignHandler.Get)
				r.Put("/", campaignHandler.Update)
				r.Delete("/", campaignHandler.Delete)
				r.Get("/pilots", campaignHandler.Pilots)
				r.Post("/pilot", campaignHandler.CreatePilot)
				r.Get("/status", campaignHandler.Status)
				r.Post("/aftermath", campaignHandler.Aftermath)
				r.Post("/undo", campaignHandler.Undo)
				r.Post("/unlock", campaignHandler.Unlock)
			})

			r.Route("/pilot/{id}", func(r chi.Router) {
				r.Get("/", pilotHandler.Get)
				r.Put("/", pilotHandler.Update)
				r.Delete("/", pilotHandler.Delete)
				r.Get("/xp", pilotHandler.XP)
				r.Post("/aftermath", pilotHandler.Aftermath)
				r.Post("/upgrades", pilotHandler.BuyUpgrade)
				r.Post("/ship", pilotHandler.ChangeShip)
				r.Post("/skill", pilotHandler.IncreaseSkill)
			})
		})
	})

	return r
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/trackops/startline/config"
	"github.com/trackops/startline/docs"
	"github.com/trackops/startline/handlers"
	"github.com/trackops/startline/middleware"
	"github.com/trackops/startline/models"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Meets     *handlers.MeetHandler
	Events    *handlers.EventHandler
	Results   *handlers.ResultHandler
	WebSocket *handlers.WebSocketHandler
}

// SetupRoutes wires the full HTTP surface. Read endpoints are public;
// mutations require a token with the right role.
func SetupRoutes(cfg *config.Config, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	adminOnly := auth.Authorize(models.RoleAdmin)
	judges := auth.Authorize(models.RoleAdmin, models.RoleJudge)
	anyStaff := auth.Authorize(models.RoleAdmin, models.RoleJudge, models.RoleVolunteer)

	r.Post("/auth/login", h.Auth.Login)

	r.Route("/users", func(r chi.Router) {
		r.Use(auth.Authenticate, adminOnly)
		r.Post("/", h.Users.Create)
		r.Get("/", h.Users.List)
		r.Get("/{userID}", h.Users.GetByID)
		r.Patch("/{userID}", h.Users.Update)
		r.Delete("/{userID}", h.Users.Delete)
	})

	r.Route("/meets", func(r chi.Router) {
		r.Get("/", h.Meets.List)
		r.Get("/{meetID}", h.Meets.GetByID)
		r.Get("/{meetID}/events", h.Events.ListEvents)
		r.Get("/{meetID}/events/{eventCode}/entries", h.Events.ListEntries)
		r.Get("/{meetID}/results", h.Results.MeetResults)
		r.Get("/{meetID}/results.csv", h.Results.ExportCSV)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate, adminOnly)
			r.Post("/", h.Meets.Create)
			r.Patch("/{meetID}", h.Meets.Update)
			r.Delete("/{meetID}", h.Meets.Delete)
			r.Post("/{meetID}/import", h.Meets.Import)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate, judges)
			r.Patch("/{meetID}/events/{eventCode}/comments", h.Events.UpdateComment)
			r.Patch("/{meetID}/entries/{entryID}/finish", h.Events.RecordFinish)
			r.Patch("/{meetID}/entries/{entryID}/photo-finish", h.Events.RecordPhotoFinish)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate, anyStaff)
			r.Patch("/{meetID}/entries/{entryID}/check-in", h.Events.CheckIn)
			r.Patch("/{meetID}/entries/{entryID}/start-time", h.Events.RecordStartTime)
		})
	})

	r.Get("/ws/meets/{meetID}", h.WebSocket.MeetUpdates)

	r.Get("/swagger/doc.json", docs.ServeOpenAPI)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}

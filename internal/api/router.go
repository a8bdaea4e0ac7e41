package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "note-ai/assistant/docs"
)

// NewRouter creates and configures a chi router with all the application's routes.
func NewRouter(chatHandler *ChatHandler, settingsHandler *SettingsHandler) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID) // Injects a unique request ID into the context.
	r.Use(middleware.RealIP)    // Sets the remote address to the real IP from proxy headers.
	r.Use(middleware.Logger)    // Logs the start and end of each request.
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error.

	// Serves the Swagger UI. The OpenAPI document lives in docs/ and is
	// regenerated from the handler annotations via `make swag`.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// A simple health check endpoint for container orchestration probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Standard JSON API routes get a request timeout so client
		// connections cannot hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Sessions ---
			r.Get("/sessions", chatHandler.ListSessions)
			r.Get("/sessions/{uid}", chatHandler.GetSession)
			r.Put("/sessions/{uid}/title", chatHandler.UpdateSessionTitle)
			r.Delete("/sessions/{uid}", chatHandler.DeleteSession)

			// --- Settings ---
			r.Get("/settings/ai", settingsHandler.GetSetting)
			r.Put("/settings/ai", settingsHandler.UpdateSetting)
		})

		// The generation endpoint holds a connection open for the whole
		// stream and must NOT have a timeout.
		r.Group(func(r chi.Router) {
			r.Post("/generate", chatHandler.Generate)
		})
	})

	return r
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pageledger/pageledger-api/internal/api"
	apiMiddleware "github.com/pageledger/pageledger-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth.TokenLifetimeMinutes,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	datasetHandler := api.NewDatasetHandler(app.feedService)
	pageHandler := api.NewPageHandler(app.feedService, app.config.Pagination.DefaultPageSize)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Dataset management
			r.Post("/datasets", datasetHandler.CreateDataset)
			r.Get("/datasets", datasetHandler.ListDatasets)
			r.Get("/datasets/{datasetID}", datasetHandler.GetDataset)
			r.Delete("/datasets/{datasetID}", datasetHandler.DeleteDataset)

			// Items
			r.Post("/datasets/{datasetID}/items", datasetHandler.AppendItem)
			r.Delete("/datasets/{datasetID}/items/{identity}", datasetHandler.DeleteItem)

			// Offset page view
			r.Get("/datasets/{datasetID}/page", pageHandler.GetPage)

			// Cursor sessions
			r.Post("/datasets/{datasetID}/cursors", pageHandler.OpenCursor)
			r.Post("/cursors/{cursorID}/next", pageHandler.FetchNext)
			r.Delete("/cursors/{cursorID}", pageHandler.CloseCursor)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mediagraph/infrastructure/di"
	"mediagraph/interfaces/http/rest/handlers"
	"mediagraph/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.container.Metrics))

	// CORS configuration
	if rt.container.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.container.Config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Metrics endpoint
	if rt.container.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			rt.container.Metrics.Registry(),
			promhttp.HandlerOpts{},
		))
	}

	graphHandler := handlers.NewGraphHandler(rt.container.Workspace, rt.logger)
	selectionHandler := handlers.NewSelectionHandler(rt.container.Selection, rt.logger)
	pasteHandler := handlers.NewPasteHandler(rt.container.Paste, rt.container.Config.UploadMaxBytes, rt.logger)
	workflowHandler := handlers.NewWorkflowHandler(rt.container.Workflows, rt.logger)
	downloadHandler := handlers.NewDownloadHandler(rt.container.Downloads, rt.logger)
	uploadHandler := handlers.NewUploadHandler(rt.container.AssetStore, rt.container.Config.UploadMaxBytes, rt.logger)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		// Node endpoints
		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", graphHandler.CreateNode)
			r.Get("/{nodeID}", graphHandler.GetNode)
			r.Patch("/{nodeID}", graphHandler.UpdateNode)
			r.Put("/{nodeID}/position", graphHandler.MoveNode)
			r.Put("/{nodeID}/size", graphHandler.ResizeNode)
		})

		// Edge endpoints
		r.Post("/edges", graphHandler.CreateEdge)

		// Graph snapshot for rendering
		r.Get("/graph", graphHandler.GetGraph)

		// Viewport endpoints
		r.Route("/viewport", func(r chi.Router) {
			r.Get("/", graphHandler.GetViewport)
			r.Put("/", graphHandler.SetViewport)
		})

		// Selection and sharing endpoints
		r.Route("/selection", func(r chi.Router) {
			r.Get("/", selectionHandler.GetSelection)
			r.Put("/", selectionHandler.SetSelection)
			r.Post("/share", selectionHandler.ShareSelection)
			r.Get("/shared", selectionHandler.GetShared)
			r.Delete("/shared", selectionHandler.ClearShared)
			r.Delete("/shared/{nodeID}", selectionHandler.RemoveShared)
		})

		// Clipboard paste endpoints
		r.Post("/paste", pasteHandler.Paste)
		r.Get("/paste/status", pasteHandler.Status)

		// Workflow endpoints
		r.Route("/workflows", func(r chi.Router) {
			r.Route("/generate", func(r chi.Router) {
				r.Get("/", workflowHandler.GenerateStatus)
				r.Post("/", workflowHandler.SubmitGenerate)
				r.Post("/accept", workflowHandler.AcceptGenerate)
				r.Post("/discard", workflowHandler.DiscardGenerate)
				r.Post("/regenerate", workflowHandler.RegenerateGenerate)
				r.Post("/suggest", workflowHandler.Suggest)
			})
			r.Route("/edit", func(r chi.Router) {
				r.Get("/", workflowHandler.EditStatus)
				r.Post("/", workflowHandler.SubmitEdit)
				r.Post("/accept", workflowHandler.AcceptEdit)
				r.Post("/discard", workflowHandler.DiscardEdit)
				r.Post("/regenerate", workflowHandler.RegenerateEdit)
			})
			r.Route("/upscale", func(r chi.Router) {
				r.Get("/", workflowHandler.UpscaleStatus)
				r.Get("/options", workflowHandler.UpscaleCatalogue)
				r.Post("/", workflowHandler.SubmitUpscale)
				r.Post("/accept", workflowHandler.AcceptUpscale)
				r.Post("/discard", workflowHandler.DiscardUpscale)
				r.Post("/regenerate", workflowHandler.RegenerateUpscale)
			})
		})

		// Upload endpoints
		r.Route("/uploads", func(r chi.Router) {
			r.Post("/", uploadHandler.Upload)
			r.Delete("/", uploadHandler.Delete)
			r.Post("/presign", uploadHandler.PresignUpload)
			r.Get("/presign", uploadHandler.PresignDownload)
		})

		// Download endpoints
		r.Get("/downloads", downloadHandler.Single)
		r.Post("/downloads/bundle", downloadHandler.Bundle)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

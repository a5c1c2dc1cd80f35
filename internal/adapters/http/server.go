// Package httpadapter exposes the evaluation services over HTTP. Routing and
// response shapes mirror the API the front-end consumes; identity arrives in
// the X-User-ID header set by the auth front sitting outside this service.
package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"a11yassessor/internal/ports"
)

// Server wires the service ports to routes.
type Server struct {
	scanner    ports.Scanner
	catalog    ports.Catalog
	manualEval ports.ManualEvaluator
	sites      ports.Sites
	logger     *zap.Logger
}

// New creates the HTTP server adapter.
func New(scanner ports.Scanner, catalog ports.Catalog, manualEval ports.ManualEvaluator, sites ports.Sites, logger *zap.Logger) *Server {
	return &Server{
		scanner:    scanner,
		catalog:    catalog,
		manualEval: manualEval,
		sites:      sites,
		logger:     logger,
	}
}

// Routes returns the service router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(s.logger))

	r.Get("/healthz", s.handleHealthz)

	// Guest scans need no identity and persist nothing.
	r.Get("/guest/results", s.handleGuestScan)

	// The evaluation form catalog is reference data, readable by anyone
	// who can reach the service.
	r.Get("/manual/evalFormDetails", s.handleEvalFormDetails)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)

		r.Post("/automated/results", s.handleRunAutomated)
		r.Get("/automated/results/{siteid}", s.handleGetAutomated)

		r.Post("/manual/results", s.handleSaveManual)
		r.Get("/manual/results/{siteid}", s.handleGetManual)

		r.Post("/site", s.handleAddSite)
		r.Get("/site", s.handleListSites)
		r.Get("/site/{id}", s.handleGetSite)
		r.Delete("/site/{id}", s.handleDeleteSite)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

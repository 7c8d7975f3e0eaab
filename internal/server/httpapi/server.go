// Package httpapi exposes the public request surface of the publication
// pipeline over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/logging"
	"github.com/dmitrijs2005/vidpress/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// requestTimeout bounds every request, so a transaction can never stay open
// past it.
const requestTimeout = 30 * time.Second

const shutdownTimeout = 5 * time.Second

type Server struct {
	address   string
	logger    logging.Logger
	uploads   *services.UploadService
	documents *services.DocumentService
	access    *services.AccessService
	secrets   *services.SecretService
	jwtSecret []byte
}

func NewServer(address string, logger logging.Logger, uploads *services.UploadService,
	documents *services.DocumentService, access *services.AccessService,
	secrets *services.SecretService, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    logger.With("module", "http_server"),
		uploads:   uploads,
		documents: documents,
		access:    access,
		secrets:   secrets,
		jwtSecret: []byte(secretKey),
	}
}

// Routes builds the chi router. Exposed for handler tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.identityMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/upload-session", s.handleCreateUploadSession)
	r.Post("/upload-session/{id}/finalize", s.handleFinalize)

	r.Get("/videos/{id}", s.handleGetDocument)
	r.Put("/videos/{id}", s.handleUpdateDocument)
	r.Delete("/videos/{id}", s.handleDeleteDocument)

	r.Route("/secret", func(r chi.Router) {
		r.Use(s.accessGateMiddleware)
		r.Get("/staging-env", s.handleStagingEnv)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

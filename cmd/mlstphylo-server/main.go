// Command mlstphylo-server provides a REST API for mlstphylo
// operations.
//
// Configuration is read from the environment:
//
//	MLSTPHYLO_HOST       Host to bind to (default: localhost)
//	MLSTPHYLO_PORT       Port to listen on (default: 8080)
//	MLSTPHYLO_LOG_LEVEL  Log level (default: info)
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/phylokit/mlstphylo/api/handlers"
	"github.com/phylokit/mlstphylo/api/middleware"
)

type config struct {
	Host     string `default:"localhost"`
	Port     int    `default:"8080"`
	LogLevel string `default:"info" split_words:"true"`
}

func main() {
	var cfg config
	if err := envconfig.Process("mlstphylo", &cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/matrix", func(r chi.Router) {
			r.Post("/assemble", handlers.AssembleHandler)
			r.Post("/filter", handlers.FilterHandler)
		})
		r.Route("/distance", func(r chi.Router) {
			r.Post("/compute", handlers.DistanceHandler)
		})
		r.Route("/pipeline", func(r chi.Router) {
			r.Post("/run", handlers.PipelineHandler)
		})
	})

	// Home page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(`mlstphylo API

POST /api/matrix/assemble   Assemble typing sources into an allele matrix
POST /api/matrix/filter     Apply presence thresholds to a matrix
POST /api/distance/compute  Compute pairwise allelic distances
POST /api/pipeline/run      Assemble, filter and compute in one call
GET  /health                Health check
`))
	})

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("could not gracefully shutdown: %v", err)
		}
		close(done)
	}()

	log.Infof("mlstphylo API server starting on http://%s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("could not listen on %s: %v", addr, err)
	}

	<-done
	log.Info("server stopped")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bpresles/CasaNova/common/config"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/crawlers"
	"github.com/bpresles/CasaNova/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type AppHttpServer struct {
	router *chi.Mux
	cfg    config.Config
	server *http.Server
	app    *app
	bulk   *crawlers.BulkRunner
}

func NewAppHttpServer(cfg config.Config, a *app, bulk *crawlers.BulkRunner) *AppHttpServer {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Listen.CorsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300, // Maximum value not ignored by any of major browsers
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(cfg.Listen.ScrapeTimeout))

	return &AppHttpServer{
		router: r,
		cfg:    cfg,
		app:    a,
		bulk:   bulk,
	}
}

func (s *AppHttpServer) setupRoute() {
	r := s.router
	a := s.app

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	health := handler.NewHealthHandler(a.db, a.db.Redis).Router()
	r.Mount("/health", health)

	r.Route("/v1", func(r chi.Router) {
		for _, category := range constants.Categories {
			h := handler.NewCategoryHandler(category, a.info, a.countries, a.orchestrator, s.bulk)
			r.Mount("/"+category.String(), h.Router())
		}

		r.Mount("/countries", handler.NewCountriesHandler(a.countries).Router())
		r.Mount("/works", handler.NewWorkManagerHandler(a.works, s.bulk).Router())
		r.Mount("/scrape-logs", handler.NewScrapeLogHandler(a.logs).Router())
		r.Mount("/health", health)
	})
}

func (s *AppHttpServer) start() error {
	log.Info().Str("address", s.cfg.Listen.Addr()).Msg("Starting up server...")

	s.server = &http.Server{
		Addr:         s.cfg.Listen.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.Listen.ScrapeTimeout + time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// stop gracefully shuts down the server
func (s *AppHttpServer) stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

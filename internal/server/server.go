// Package server exposes the scan pipeline over HTTP: the trigger surface
// the hosting application and browser extension call into.
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/webfindlead/leadworker/config"
	"github.com/webfindlead/leadworker/internal/classify"
	"github.com/webfindlead/leadworker/internal/page"
	"github.com/webfindlead/leadworker/internal/scan"
	"github.com/webfindlead/leadworker/services/store"
)

// PageScanner extracts deduplicated records from a rendered page.
type PageScanner interface {
	Scan(ctx context.Context, surface page.Surface) []scan.BusinessRecord
}

// WebsiteClassifier scores one website.
type WebsiteClassifier interface {
	Classify(ctx context.Context, url string) classify.Analysis
}

// ClassificationQueue accepts records for asynchronous classification.
type ClassificationQueue interface {
	Enqueue(records []scan.BusinessRecord) int
}

// Server aggregates the handlers' dependencies. Store and queue may be nil
// when persistence or async classification is not configured.
type Server struct {
	cfg        config.Config
	scanner    PageScanner
	classifier WebsiteClassifier
	queue      ClassificationQueue
	store      store.LeadStore
}

// New wires a server.
func New(cfg config.Config, scanner PageScanner, classifier WebsiteClassifier, queue ClassificationQueue, leadStore store.LeadStore) *Server {
	return &Server{
		cfg:        cfg,
		scanner:    scanner,
		classifier: classifier,
		queue:      queue,
		store:      leadStore,
	}
}

// Echo builds the echo instance with all routes registered.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.GET("/healthz", func(c echo.Context) error {
		return Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	api := e.Group("/api")
	api.POST("/scan", s.HandleScan)
	api.GET("/analyze", s.HandleAnalyze)
	api.POST("/extension/sync", s.HandleSync)
	api.GET("/leads", s.HandleLeads)

	return e
}

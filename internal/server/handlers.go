package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/webfindlead/leadworker/internal/page"
	"github.com/webfindlead/leadworker/internal/scan"
	"github.com/webfindlead/leadworker/logger"
)

// ScanRequest triggers a scan of one results page. HTML is the captured
// document when the extension did the rendering; when absent the page is
// rendered live, which requires live scanning to be enabled.
type ScanRequest struct {
	URL      string `json:"url"`
	HTML     string `json:"html,omitempty"`
	Classify bool   `json:"classify,omitempty"`
}

// ScanResponse carries the scan outcome.
type ScanResponse struct {
	Results []scan.BusinessRecord `json:"results"`
	Queued  int                   `json:"queued"`
}

// SyncRequest persists extension-scanned leads.
type SyncRequest struct {
	Leads []scan.BusinessRecord `json:"leads"`
}

// HandleScan runs the scan pipeline against a captured or live page.
func (s *Server) HandleScan(c echo.Context) error {
	var req ScanRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if req.URL == "" {
		return Error(c, http.StatusBadRequest, "url is required")
	}

	ctx := c.Request().Context()

	var surface page.Surface
	if req.HTML != "" {
		static, err := page.NewStaticSurface(req.URL, req.HTML)
		if err != nil {
			return Error(c, http.StatusBadRequest, "could not parse html")
		}
		surface = static
	} else {
		if !s.cfg.LiveScanEnabled {
			return Error(c, http.StatusBadRequest, "html is required when live scanning is disabled")
		}
		chrome, err := page.NewChromeSurface(ctx, req.URL, s.cfg.NavigateTimeout)
		if err != nil {
			logger.ForServer().Error().Err(err).Str("url", req.URL).Msg("Could not open live surface")
			return Error(c, http.StatusBadGateway, "could not render page")
		}
		defer chrome.Close()
		surface = chrome
	}

	records := s.scanner.Scan(ctx, surface)

	queued := 0
	if req.Classify && s.queue != nil {
		// Website-bearing records go pending until the worker lands a
		// terminal tier.
		for i := range records {
			if records[i].Website != "" {
				records[i].WebsiteStatus = scan.StatusPending
			}
		}
		queued = s.queue.Enqueue(records)
	}

	return Success(c, http.StatusOK, "", ScanResponse{Results: records, Queued: queued})
}

// HandleAnalyze classifies a single website synchronously.
func (s *Server) HandleAnalyze(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return Error(c, http.StatusBadRequest, "url is required")
	}

	analysis := s.classifier.Classify(c.Request().Context(), url)
	return Success(c, http.StatusOK, "", analysis)
}

// HandleSync persists extension-captured leads with at-most-once semantics
// per canonical identity.
func (s *Server) HandleSync(c echo.Context) error {
	var req SyncRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid leads data")
	}
	if req.Leads == nil {
		return Error(c, http.StatusBadRequest, "invalid leads data")
	}
	if s.store == nil {
		return Error(c, http.StatusServiceUnavailable, "lead store not configured")
	}

	saved, err := s.store.SaveLeads(c.Request().Context(), req.Leads)
	if err != nil {
		logger.ForServer().Error().Err(err).Msg("Lead sync failed")
		return Error(c, http.StatusInternalServerError, "failed to save leads")
	}

	return Success(c, http.StatusOK, "", map[string]any{"savedCount": saved})
}

// HandleLeads lists stored leads, newest first.
func (s *Server) HandleLeads(c echo.Context) error {
	if s.store == nil {
		return Error(c, http.StatusServiceUnavailable, "lead store not configured")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	leads, err := s.store.ListLeads(c.Request().Context(), limit)
	if err != nil {
		logger.ForServer().Error().Err(err).Msg("Lead listing failed")
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}

	return Success(c, http.StatusOK, "", map[string]any{"results": leads})
}

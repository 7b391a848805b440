package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/webfindlead/leadworker/config"
	"github.com/webfindlead/leadworker/helpers"
	"github.com/webfindlead/leadworker/internal/classify"
	"github.com/webfindlead/leadworker/internal/scan"
	"github.com/webfindlead/leadworker/internal/server"
	"github.com/webfindlead/leadworker/services/worker"
)

// businessSiteHTML is what the classified business website serves: mobile
// viewport plus contact details.
const businessSiteHTML = `<html><head>
<meta name="viewport" content="width=device-width, initial-scale=1">
</head><body>
<p>Order online or email orders@tonyspizza.com</p>
<a href="https://www.facebook.com/tonyspizza">Find us on Facebook</a>
</body></html>`

// capturedPageTemplate is a captured map results page whose only listing
// links to the test business site.
const capturedPageTemplate = `<html><body>
<div role="feed">
	<div role="article">
		<a class="hfpxzc" aria-label="Tony's Pizza" href="/maps/place/Tonys+Pizza/"></a>
		<span role="img" aria-label="4.5 stars, 120 reviews"></span>
		<a data-value="Website" href="%s"></a>
	</div>
	<div role="article">
		<a class="hfpxzc" aria-label="Cash Only Diner" href="/maps/place/Cash+Only+Diner/"></a>
	</div>
</div>
</body></html>`

// recordingStore captures classification updates for assertions
type recordingStore struct {
	mu      sync.Mutex
	updates map[string]classify.Analysis
	applied chan string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		updates: make(map[string]classify.Analysis),
		applied: make(chan string, 16),
	}
}

func (s *recordingStore) UpdateClassification(_ context.Context, identityKey string, analysis classify.Analysis) error {
	s.mu.Lock()
	s.updates[identityKey] = analysis
	s.mu.Unlock()
	s.applied <- identityKey
	return nil
}

func (s *recordingStore) get(key string) (classify.Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.updates[key]
	return a, ok
}

// TestScanClassifyPipeline drives the whole pipeline: a captured page goes
// through the scan endpoint, the website-bearing record is queued, and the
// worker lands a terminal tier against the store.
func TestScanClassifyPipeline(t *testing.T) {
	site := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(businessSiteHTML))
	}))
	defer site.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Config{
		ScrollBudget:      1,
		ScrollDelay:       time.Millisecond,
		ClassifyTimeout:   5 * time.Second,
		SlowLoadThreshold: 3 * time.Second,
		MapsBaseURL:       "https://www.google.com",
		PhoneRegion:       "US",
	}

	scanner := scan.NewScanner(scan.Options{
		ScrollBudget: cfg.ScrollBudget,
		ScrollDelay:  cfg.ScrollDelay,
		BaseURL:      cfg.MapsBaseURL,
		PhoneRegion:  cfg.PhoneRegion,
	})

	// The fetch goes through the test server's client so its certificate
	// is trusted
	classifier := classify.New(classify.Options{
		Fetch: func(fctx context.Context, url string, timeout time.Duration) (*helpers.FetchResult, error) {
			reqCtx, fcancel := context.WithTimeout(fctx, timeout)
			defer fcancel()

			req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}

			start := time.Now()
			resp, err := site.Client().Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, err
			}
			return &helpers.FetchResult{StatusCode: resp.StatusCode, Body: data, Elapsed: time.Since(start)}, nil
		},
		Timeout:  cfg.ClassifyTimeout,
		SlowLoad: cfg.SlowLoadThreshold,
	})

	leadStore := newRecordingStore()
	w := worker.NewWorker(ctx, classifier, leadStore, nil, 0, 16)
	go w.Start()

	srv := server.New(cfg, scanner, classifier, w, nil)
	e := srv.Echo()

	capturedPage := fmt.Sprintf(capturedPageTemplate, site.URL)
	body, _ := json.Marshal(server.ScanRequest{
		URL:      "https://www.google.com/maps/search/pizza",
		HTML:     capturedPage,
		Classify: true,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data server.ScanResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, len(resp.Data.Results))
	assert.Equal(t, 1, resp.Data.Queued)

	// The record with a website is pending until the worker lands a tier
	assert.Equal(t, "Tony's Pizza", resp.Data.Results[0].Name)
	assert.Equal(t, scan.StatusPending, resp.Data.Results[0].WebsiteStatus)
	assert.Equal(t, "Cash Only Diner", resp.Data.Results[1].Name)
	assert.Equal(t, scan.StatusNoWebsite, resp.Data.Results[1].WebsiteStatus)

	select {
	case <-leadStore.applied:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for classification to land")
	}

	analysis, ok := leadStore.get("https://www.google.com/maps/place/tonys+pizza")
	assert.True(t, ok)
	// HTTPS, fast and viewport-tagged
	assert.Equal(t, scan.StatusGood, analysis.Status)
	assert.Equal(t, []string{"orders@tonyspizza.com"}, analysis.Emails)
	assert.Equal(t, "https://www.facebook.com/tonyspizza", analysis.Socials["facebook"])
}

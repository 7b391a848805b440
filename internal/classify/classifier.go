// Package classify scores candidate business websites into quality tiers
// and pulls contact details out of them. The tier is an intentionally cheap
// three-signal heuristic used to triage outreach priority, not a full audit.
package classify

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/webfindlead/leadworker/helpers"
	"github.com/webfindlead/leadworker/internal/scan"
	"github.com/webfindlead/leadworker/logger"
	"github.com/webfindlead/leadworker/pkg/errors"
	"github.com/webfindlead/leadworker/services/cache"
)

// Analysis is the outcome of classifying one website.
type Analysis struct {
	Status  scan.WebsiteStatus `json:"status"`
	Emails  []string           `json:"emails"`
	Socials map[string]string  `json:"socials"`
}

// FetchFunc issues one GET and reports body plus wall-clock duration.
type FetchFunc func(ctx context.Context, url string, timeout time.Duration) (*helpers.FetchResult, error)

// Options configure a Classifier.
type Options struct {
	// Fetch overrides the HTTP fetch, mainly for tests. Defaults to
	// helpers.FetchWebsite.
	Fetch FetchFunc

	// Timeout bounds the single fetch per classification.
	Timeout time.Duration

	// SlowLoad is the duration above which the fetch counts as slow.
	SlowLoad time.Duration

	// Cache memoizes analyses per URL so repeated scans do not re-fetch
	// the same site within the TTL. Optional.
	Cache    cache.CacheService
	CacheTTL time.Duration
}

// Classifier fetches and scores websites. Classification is total: every
// input, including unreachable hosts and malformed URLs, produces a tier.
type Classifier struct {
	fetch    FetchFunc
	timeout  time.Duration
	slowLoad time.Duration
	cache    cache.CacheService
	cacheTTL time.Duration
}

// New builds a classifier.
func New(opts Options) *Classifier {
	fetch := opts.Fetch
	if fetch == nil {
		fetch = helpers.FetchWebsite
	}
	return &Classifier{
		fetch:    fetch,
		timeout:  opts.Timeout,
		slowLoad: opts.SlowLoad,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
	}
}

// Classify fetches url once and scores it. GOOD requires all three signals:
// HTTPS scheme, a fetch under the slow-load threshold, and a viewport meta
// marker in the body. Any fetch failure is terminal LOW_QUALITY with empty
// contact data; errors never propagate, since one unreachable site must not
// abort a batch.
func (c *Classifier) Classify(ctx context.Context, url string) Analysis {
	if url == "" {
		return Analysis{Status: scan.StatusNoWebsite, Emails: []string{}, Socials: map[string]string{}}
	}

	log := logger.ForClassifier()

	if cached, ok := c.cached(url); ok {
		log.Debug().Str("url", url).Msg("Analysis served from cache")
		return cached
	}

	result, err := c.fetch(ctx, url, c.timeout)
	if err != nil {
		log.Debug().Err(errors.NewClassification("classifier", "fetch failed", err)).
			Str("url", url).
			Msg("Classification fell back to low quality")
		return Analysis{Status: scan.StatusLowQuality, Emails: []string{}, Socials: map[string]string{}}
	}

	body := string(result.Body)
	lowerBody := strings.ToLower(body)

	isHTTPS := strings.HasPrefix(url, "https")
	slowLoad := result.Elapsed > c.slowLoad
	hasViewport := strings.Contains(lowerBody, "viewport")

	status := scan.StatusGood
	if !isHTTPS || slowLoad || !hasViewport {
		status = scan.StatusLowQuality
	}

	analysis := Analysis{
		Status:  status,
		Emails:  ExtractEmails(body),
		Socials: ExtractSocials(body, lowerBody),
	}

	c.store(url, analysis)

	log.Debug().
		Str("url", url).
		Str("status", string(status)).
		Bool("https", isHTTPS).
		Bool("slow", slowLoad).
		Bool("viewport", hasViewport).
		Dur("elapsed", result.Elapsed).
		Msg("Website classified")

	return analysis
}

func (c *Classifier) cacheKey(url string) string {
	return "analysis:" + strings.ToLower(strings.TrimSpace(url))
}

func (c *Classifier) cached(url string) (Analysis, bool) {
	if c.cache == nil {
		return Analysis{}, false
	}

	data, err := c.cache.Get(c.cacheKey(url))
	if err != nil {
		return Analysis{}, false
	}

	var analysis Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return Analysis{}, false
	}
	return analysis, true
}

func (c *Classifier) store(url string, analysis Analysis) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	if err := c.cache.Set(c.cacheKey(url), data, c.cacheTTL); err != nil {
		logger.ForCache().Debug().Err(err).Str("url", url).Msg("Could not cache analysis")
	}
}

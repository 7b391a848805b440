// Package scan implements the heuristic lead-extraction engine: locating
// business cards on a results page, extracting fields from each, and
// collapsing duplicates. Everything here is best-effort parsing of
// third-party markup that changes without notice; partial results always
// beat hard failure.
package scan

import (
	"context"
	"time"

	"github.com/webfindlead/leadworker/internal/page"
	"github.com/webfindlead/leadworker/logger"
)

// Scanner is the single entry point for scanning the current page.
type Scanner struct {
	locator   Locator
	extractor Extractor
}

// Options tune the scanner's fixed policies.
type Options struct {
	ScrollBudget int
	ScrollDelay  time.Duration
	BaseURL      string
	PhoneRegion  string
}

// NewScanner builds a scanner with the given policies.
func NewScanner(opts Options) *Scanner {
	return &Scanner{
		locator: Locator{
			ScrollBudget: opts.ScrollBudget,
			ScrollDelay:  opts.ScrollDelay,
		},
		extractor: Extractor{
			BaseURL:     opts.BaseURL,
			PhoneRegion: opts.PhoneRegion,
		},
	}
}

// Scan extracts the deduplicated business records visible on the surface.
// It never fails: unrecognized layouts and unreadable pages produce an empty
// result, and the hosting UI turns that into "no businesses found". Output
// order follows first-seen order among the located cards.
func (s *Scanner) Scan(ctx context.Context, surface page.Surface) []BusinessRecord {
	log := logger.ForScanner()
	layout := DetectLayout(surface.Location())

	var records []BusinessRecord
	switch layout {
	case LayoutMap:
		cards := s.locator.LocateMapCards(ctx, surface)
		entries := dedupeMapCards(cards)
		records = make([]BusinessRecord, 0, len(entries))
		for _, entry := range entries {
			records = append(records, s.extractor.ExtractMapCard(entry.container, entry.link))
		}
	case LayoutSearch:
		cards := s.locator.LocateSearchCards(ctx, surface)
		records = make([]BusinessRecord, 0, len(cards))
		for _, card := range cards {
			records = append(records, s.extractor.ExtractSearchCard(card))
		}
	default:
		log.Debug().Str("url", surface.Location()).Msg("Unrecognized page layout")
		return nil
	}

	log.Info().
		Str("url", surface.Location()).
		Int("records", len(records)).
		Msg("Scan complete")
	return records
}

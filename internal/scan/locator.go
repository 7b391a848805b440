package scan

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/webfindlead/leadworker/internal/page"
	"github.com/webfindlead/leadworker/logger"
)

// Layout identifies which of the two known results layouts a page renders.
type Layout int

const (
	LayoutUnknown Layout = iota
	LayoutMap
	LayoutSearch
)

const (
	feedSelector       = `div[role="feed"]`
	articleSelector    = `div[role="article"]`
	mapCardSelector    = `div[role="article"], div.Nv2PK, a.hfpxzc`
	searchCardSelector = `.VkpGBb, div[jscontroller="AtSb"], div.C75aDd`
	actionSelector     = `a, div[role="button"]`

	// feedFallbackMinArticles is the minimum article-like children a
	// container must hold before the fallback treats it as the results
	// feed.
	feedFallbackMinArticles = 3

	// searchFallbackMinCards triggers the action-control fallback when the
	// primary search selectors, which go stale more often than the map
	// ones, return fewer containers than this.
	searchFallbackMinCards = 2
)

// DetectLayout classifies a page by its URL path. Unrecognized pages scan to
// an empty result, not an error.
func DetectLayout(pageURL string) Layout {
	switch {
	case strings.Contains(pageURL, "/maps/"):
		return LayoutMap
	case strings.Contains(pageURL, "/search"):
		return LayoutSearch
	default:
		return LayoutUnknown
	}
}

// Locator finds card-root elements on a results page and triggers lazy
// loading of additional cards. Its output may contain overlapping matches;
// deduplication happens downstream.
type Locator struct {
	// ScrollBudget is the fixed number of scroll-to-bottom operations
	// performed on the map feed. The loop never stops early or extends on
	// long lists, so very long result sets come back incomplete.
	ScrollBudget int

	// ScrollDelay is how long each scroll waits for the page's own lazy
	// loading to settle before the next one.
	ScrollDelay time.Duration
}

// LocateMapCards returns the card roots of a map-layout page, scrolling the
// results feed first when one can be found. It never fails: a missing feed
// degrades to scanning whatever cards are already visible.
func (l *Locator) LocateMapCards(ctx context.Context, surface page.Surface) []*goquery.Selection {
	log := logger.ForScanner()

	doc, err := surface.Document(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not snapshot page")
		return nil
	}

	if hasFeed(doc) {
	scroll:
		for i := 0; i < l.ScrollBudget; i++ {
			if err := surface.ScrollFeed(ctx, feedSelector); err != nil {
				log.Debug().Err(err).Int("scroll", i+1).Msg("Feed scroll failed")
				break
			}
			select {
			case <-time.After(l.ScrollDelay):
			case <-ctx.Done():
				break scroll
			}
		}
		if fresh, err := surface.Document(ctx); err == nil {
			doc = fresh
		}
	} else {
		log.Debug().Msg("No scrollable feed found, scanning visible cards only")
	}

	return collect(doc.Find(mapCardSelector))
}

// hasFeed reports whether the page holds a results feed: either the primary
// structural marker, or any container with enough article-like children to
// plausibly be the list.
func hasFeed(doc *goquery.Document) bool {
	if doc.Find(feedSelector).Length() > 0 {
		return true
	}

	found := false
	doc.Find("div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Find(articleSelector).Length() > feedFallbackMinArticles {
			found = true
			return false
		}
		return true
	})
	return found
}

// LocateSearchCards returns the local-pack containers of a search-layout
// page. When the primary selectors come up short it walks up from
// "Directions"/"Website" action controls to the nearest card-like ancestor.
func (l *Locator) LocateSearchCards(ctx context.Context, surface page.Surface) []*goquery.Selection {
	log := logger.ForScanner()

	doc, err := surface.Document(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not snapshot page")
		return nil
	}

	cards := collect(doc.Find(searchCardSelector))
	if len(cards) >= searchFallbackMinCards {
		return cards
	}

	fallback := locateByActionControls(doc)
	if len(fallback) > 0 {
		log.Debug().Int("count", len(fallback)).Msg("Search selectors stale, using action-control fallback")
		return fallback
	}
	return cards
}

// locateByActionControls finds cards by their action buttons instead of
// container markup.
func locateByActionControls(doc *goquery.Document) []*goquery.Selection {
	var cards []*goquery.Selection
	seen := make(map[*html.Node]bool)

	doc.Find(actionSelector).Each(func(_ int, s *goquery.Selection) {
		txt := strings.ToLower(strings.TrimSpace(s.Text()))
		if txt != "directions" && txt != "website" {
			return
		}

		container := s.Closest("div.g")
		if container.Length() == 0 {
			container = s.Closest("div.VkpGBb")
		}
		if container.Length() == 0 {
			container = s.Parent().Parent().Parent()
		}
		if container.Length() == 0 {
			return
		}

		node := container.Get(0)
		if !seen[node] {
			seen[node] = true
			cards = append(cards, container)
		}
	})

	return cards
}

// collect splits a combined selection into per-card selections, preserving
// document order.
func collect(sel *goquery.Selection) []*goquery.Selection {
	cards := make([]*goquery.Selection, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		cards = append(cards, s)
	})
	return cards
}

package scan

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/webfindlead/leadworker/internal/places"
)

const listingURLMarker = "/maps/place/"

// cardEntry pairs a card container with its primary listing link.
type cardEntry struct {
	container *goquery.Selection
	link      *goquery.Selection
}

// dedupeMapCards collapses overlapping card matches to at most one entry per
// place identifier, in first-seen order. First wins on purpose: later
// duplicates tend to be already-expanded detail panels, noisier than the
// original list entry, so overwriting would lose quality. Cards with no
// locatable listing link are dropped entirely.
func dedupeMapCards(cards []*goquery.Selection) []cardEntry {
	unique := make(map[string]bool, len(cards))
	entries := make([]cardEntry, 0, len(cards))

	for _, card := range cards {
		link := primaryLink(card)
		if link == nil {
			continue
		}

		href := link.AttrOr("href", "")
		if !strings.Contains(href, listingURLMarker) {
			continue
		}

		id := places.PlaceID(href)
		if unique[id] {
			continue
		}
		unique[id] = true

		entries = append(entries, cardEntry{container: hoistContainer(card), link: link})
	}

	return entries
}

// primaryLink finds the anchor that carries the card's listing URL: the card
// itself when it is an anchor, otherwise the first listing-pattern anchor
// inside it, otherwise any anchor at all.
func primaryLink(card *goquery.Selection) *goquery.Selection {
	if goquery.NodeName(card) == "a" {
		return card
	}

	if link := card.Find(`a[href*="` + listingURLMarker + `"]`).First(); link.Length() > 0 {
		return link
	}
	if link := card.Find("a").First(); link.Length() > 0 {
		return link
	}
	return nil
}

// hoistContainer lifts a bare anchor or nested match up to the nearest
// card-like ancestor, so field extraction sees the whole card.
func hoistContainer(card *goquery.Selection) *goquery.Selection {
	container := card
	if goquery.NodeName(card) == "a" {
		if parent := card.Parent(); parent.Length() > 0 {
			container = parent
		}
	}

	if container.AttrOr("role", "") != "article" && !container.HasClass("Nv2PK") {
		if ancestor := container.Closest(`div[role="article"], div.Nv2PK`); ancestor.Length() > 0 {
			container = ancestor
		}
	}
	return container
}

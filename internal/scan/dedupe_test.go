package scan

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
)

func cardsFromHTML(t *testing.T, html string) []*goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	assert.NoError(t, err)
	return collect(doc.Find(mapCardSelector))
}

func TestDedupeMapCardsFirstWins(t *testing.T) {
	// The anchor selector matches the link inside the first article again,
	// and a second article points at the same listing. All three collapse
	// to the first-seen card.
	cards := cardsFromHTML(t, `
		<div role="article" id="first">
			<a class="hfpxzc" aria-label="Tony's Pizza" href="/maps/place/Tonys+Pizza/"></a>
		</div>
		<div role="article" id="second">
			<a href="/maps/place/Tonys+Pizza/?entry=ttu"></a>
		</div>`)
	assert.Equal(t, 3, len(cards))

	entries := dedupeMapCards(cards)
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "first", entries[0].container.AttrOr("id", ""))
}

func TestDedupeMapCardsDistinctPlaces(t *testing.T) {
	cards := cardsFromHTML(t, `
		<div role="article"><a href="/maps/place/Tonys+Pizza/"></a></div>
		<div role="article"><a href="/maps/place/Cafe+Luna/"></a></div>`)

	entries := dedupeMapCards(cards)
	assert.Equal(t, 2, len(entries))
}

func TestDedupeMapCardsSkipsCardsWithoutListingLink(t *testing.T) {
	// An ad card with no listing link contributes nothing but must not
	// abort processing of the cards around it
	cards := cardsFromHTML(t, `
		<div role="article"><a href="/maps/place/Tonys+Pizza/"></a></div>
		<div role="article"><a href="https://ads.example.com/promo"></a></div>
		<div role="article"></div>
		<div role="article"><a href="/maps/place/Cafe+Luna/"></a></div>`)

	entries := dedupeMapCards(cards)
	assert.Equal(t, 2, len(entries))
}

func TestDedupeMapCardsVolatileParamsSamePlace(t *testing.T) {
	// Same listing reached through different entry points
	cards := cardsFromHTML(t, `
		<div role="article"><a href="https://www.google.com/maps/place/Cafe+Luna/?entry=ttu"></a></div>
		<div role="article"><a href="https://www.google.com/maps/place/Cafe+Luna/?authuser=1"></a></div>`)

	entries := dedupeMapCards(cards)
	assert.Equal(t, 1, len(entries))
}

func TestHoistContainerLiftsBareAnchor(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div role="article" id="card">
			<div><a class="hfpxzc" id="anchor" href="/maps/place/X/"></a></div>
		</div>`))
	assert.NoError(t, err)

	anchor := doc.Find("a.hfpxzc")
	container := hoistContainer(anchor)
	assert.Equal(t, "card", container.AttrOr("id", ""))
}

func TestPrimaryLinkPrefersListingAnchor(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div role="article">
			<a id="site" href="https://example.com"></a>
			<a id="listing" href="/maps/place/X/"></a>
		</div>`))
	assert.NoError(t, err)

	link := primaryLink(doc.Find(`div[role="article"]`))
	assert.Equal(t, "listing", link.AttrOr("id", ""))
}

package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/webfindlead/leadworker/internal/page"
)

// mapPageHTML is a trimmed map-layout results page: a feed with two real
// listings, a duplicate match for the first one, and an ad card without a
// listing link.
const mapPageHTML = `
<html><body>
<div role="feed">
	<div role="article">
		<a class="hfpxzc" aria-label="Tony's Pizza" href="/maps/place/Tonys+Pizza/"></a>
		<span role="img" aria-label="4.5 stars, 120 reviews"></span>
		<a data-value="Website" href="http://tonyspizza.com"></a>
	</div>
	<div role="article">
		<a class="hfpxzc" aria-label="Cafe Luna" href="/maps/place/Cafe+Luna/"></a>
		<span role="img" aria-label="4.8 stars, 1,034 reviews"></span>
	</div>
	<div role="article">
		<a href="/maps/place/Tonys+Pizza/?entry=ttu"></a>
	</div>
	<div role="article">
		<a href="https://ads.example.com/promo">Sponsored</a>
	</div>
</div>
</body></html>`

const searchPageHTML = `
<html><body>
<div class="VkpGBb">
	<div class="dbg0pd">Cafe Luna</div>
	<span class="Y0A0hc">4.2 (1.2K)</span>
	<a href="https://cafeluna.com">Website</a>
</div>
<div class="VkpGBb">
	<div class="dbg0pd">Cash Only Diner</div>
	<span class="Y0A0hc">3.9 (87)</span>
</div>
</body></html>`

func newTestScanner() *Scanner {
	return NewScanner(Options{
		ScrollBudget: 1,
		ScrollDelay:  time.Millisecond,
		BaseURL:      "https://www.google.com",
		PhoneRegion:  "US",
	})
}

func TestScanMapPage(t *testing.T) {
	surface, err := page.NewStaticSurface("https://www.google.com/maps/search/pizza", mapPageHTML)
	assert.NoError(t, err)

	records := newTestScanner().Scan(context.Background(), surface)
	assert.Equal(t, 2, len(records))

	assert.Equal(t, "Tony's Pizza", records[0].Name)
	assert.Equal(t, 4.5, records[0].Rating)
	assert.Equal(t, 120, records[0].Reviews)
	assert.Equal(t, "http://tonyspizza.com", records[0].Website)
	assert.Equal(t, StatusLowQuality, records[0].WebsiteStatus)
	assert.Equal(t, "https://www.google.com/maps/place/Tonys+Pizza/", records[0].MapsLink)

	assert.Equal(t, "Cafe Luna", records[1].Name)
	assert.Equal(t, 4.8, records[1].Rating)
	assert.Equal(t, 1034, records[1].Reviews)
	assert.Equal(t, "", records[1].Website)
	assert.Equal(t, StatusNoWebsite, records[1].WebsiteStatus)
}

func TestScanSearchPage(t *testing.T) {
	surface, err := page.NewStaticSurface("https://www.google.com/search?q=pizza", searchPageHTML)
	assert.NoError(t, err)

	records := newTestScanner().Scan(context.Background(), surface)
	assert.Equal(t, 2, len(records))

	assert.Equal(t, "Cafe Luna", records[0].Name)
	assert.Equal(t, 4.2, records[0].Rating)
	assert.Equal(t, 1200, records[0].Reviews)
	assert.Equal(t, "https://cafeluna.com", records[0].Website)

	assert.Equal(t, "Cash Only Diner", records[1].Name)
	assert.Equal(t, StatusNoWebsite, records[1].WebsiteStatus)
}

func TestScanUnknownLayout(t *testing.T) {
	surface, err := page.NewStaticSurface("https://example.com/contact", `<div>hello</div>`)
	assert.NoError(t, err)

	records := newTestScanner().Scan(context.Background(), surface)
	assert.Empty(t, records)
}

func TestScanEmptyMapPage(t *testing.T) {
	surface, err := page.NewStaticSurface("https://www.google.com/maps/search/nothing", `<html><body></body></html>`)
	assert.NoError(t, err)

	records := newTestScanner().Scan(context.Background(), surface)
	assert.Empty(t, records)
}

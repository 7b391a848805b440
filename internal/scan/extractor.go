package scan

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nyaruka/phonenumbers"
)

const (
	unknownName       = "Unknown"
	unknownSearchName = "Unknown Business"
)

// Extractor maps a located card to a BusinessRecord. Every field is
// best-effort: a miss yields the documented default instead of failing the
// card.
type Extractor struct {
	// BaseURL resolves relative listing hrefs to absolute maps links.
	BaseURL string

	// PhoneRegion is the default region for loose phone normalization.
	PhoneRegion string
}

// ExtractMapCard builds a record from a map-layout card and its primary
// listing link.
func (e *Extractor) ExtractMapCard(container, link *goquery.Selection) BusinessRecord {
	name := e.mapName(container, link)
	website := e.mapWebsite(container)

	rating, reviews := 0.0, 0
	if label := container.Find(`span[role="img"]`).First().AttrOr("aria-label", ""); label != "" {
		rating = parseMapRating(label)
		reviews = parseMapReviews(label)
	}

	return BusinessRecord{
		Name:          name,
		Category:      DefaultCategory,
		Rating:        rating,
		Reviews:       reviews,
		Website:       website,
		Phone:         e.phone(container),
		MapsLink:      e.resolveURL(link.AttrOr("href", "")),
		WebsiteStatus: initialStatus(website),
	}
}

// mapName tries, in order: the link's accessible label, the headline
// sub-element, the first line of the link's own text.
func (e *Extractor) mapName(container, link *goquery.Selection) string {
	var name string
	if aria := link.AttrOr("aria-label", ""); aria != "" {
		name = aria
	} else if headline := container.Find("div.fontHeadlineSmall"); headline.Length() > 0 {
		name = headline.First().Text()
	} else {
		name = firstLine(link.Text())
	}

	if name = cleanName(name); name == "" {
		return unknownName
	}
	return name
}

// mapWebsite walks every anchor in the card. A strong signal (explicit
// website label or data attribute) wins outright and stops the walk. The
// heuristic tier keeps the last plausible off-domain link but never
// short-circuits: a later anchor may be a better fit than the first
// off-domain link encountered, since sharing and ads links precede the real
// site link in some layouts.
func (e *Extractor) mapWebsite(container *goquery.Selection) string {
	var strong, heuristic string

	container.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		if href == "" {
			return true
		}

		text := strings.ToLower(a.Text())
		aria := strings.ToLower(a.AttrOr("aria-label", ""))

		if strings.Contains(text, "visit site") ||
			strings.Contains(text, "website") ||
			strings.Contains(aria, "website") ||
			a.AttrOr("data-value", "") == "Website" {
			strong = href
			return false
		}

		if strings.HasPrefix(href, "http") &&
			!strings.Contains(href, "google.com/") &&
			!strings.HasPrefix(href, "javascript") {
			heuristic = href
		}
		return true
	})

	if strong != "" {
		return strong
	}
	return heuristic
}

// ExtractSearchCard builds a record from a search-layout (local pack)
// container. Search cards carry no listing link, so no maps link is set.
func (e *Extractor) ExtractSearchCard(item *goquery.Selection) BusinessRecord {
	name := e.searchName(item)
	if name == "" {
		name = unknownSearchName
	}
	website := e.searchWebsite(item)

	rating, reviews := 0.0, 0
	block := item.Find(".Y0A0hc")
	if block.Length() == 0 {
		block = item.Find(".rllt__details")
	}
	if block.Length() > 0 {
		text := block.First().Text()
		rating = parseSearchRating(text)
		reviews = parseSearchReviews(text)
	}

	return BusinessRecord{
		Name:          name,
		Category:      DefaultCategory,
		Rating:        rating,
		Reviews:       reviews,
		Website:       website,
		Phone:         e.phone(item),
		WebsiteStatus: initialStatus(website),
	}
}

// searchName tries the known headline classes before falling back to the
// bolded span variant.
func (e *Extractor) searchName(item *goquery.Selection) string {
	nameEl := item.Find(".dbg0pd")
	if nameEl.Length() == 0 {
		nameEl = item.Find(`div[role="heading"]`)
	}
	if nameEl.Length() == 0 {
		nameEl = item.Find(".OSrXXb")
	}
	if nameEl.Length() == 0 {
		nameEl = item.Find("span.OSrXXb")
	}
	if nameEl.Length() == 0 {
		return ""
	}
	return cleanName(nameEl.First().Text())
}

// searchWebsite looks for an explicitly labeled website control, then the
// globe-icon anchor, then the button-grid variant where "Website" text sits
// in a div nested inside the anchor.
func (e *Extractor) searchWebsite(item *goquery.Selection) string {
	var website string

	item.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		if href == "" {
			return true
		}

		txt := strings.ToLower(strings.TrimSpace(a.Text()))
		aria := strings.ToLower(a.AttrOr("aria-label", ""))

		if txt == "website" || strings.Contains(aria, "website") {
			website = href
			return false
		}
		if a.Find("div.A1zNzb").Length() > 0 {
			website = href
		}
		return true
	})

	if website == "" {
		item.Find("a div").EachWithBreak(func(_ int, d *goquery.Selection) bool {
			if strings.ToLower(strings.TrimSpace(d.Text())) != "website" {
				return true
			}
			if anchor := d.Closest("a"); anchor.Length() > 0 {
				website = anchor.AttrOr("href", "")
			}
			return false
		})
	}

	return website
}

// phone regex-scans the card's rendered text; the first match wins and is
// loosely normalized when it parses as a valid number.
func (e *Extractor) phone(card *goquery.Selection) string {
	raw := matchPhone(card.Text())
	if raw == "" {
		return ""
	}

	num, err := phonenumbers.Parse(raw, e.PhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}

// resolveURL makes a card href absolute against the scan's base URL.
func (e *Extractor) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return e.BaseURL + href
	default:
		return href
	}
}

package scan

import "strings"

// WebsiteStatus is the quality tier attached to a record's website.
type WebsiteStatus string

const (
	// StatusNoWebsite marks a record with no website at all.
	StatusNoWebsite WebsiteStatus = "NO_WEBSITE"
	// StatusLowQuality marks a website that failed one or more quality signals.
	StatusLowQuality WebsiteStatus = "LOW_QUALITY"
	// StatusGood marks a website that passed every quality signal.
	StatusGood WebsiteStatus = "GOOD"
	// StatusPending marks a record awaiting asynchronous classification.
	StatusPending WebsiteStatus = "PENDING"
)

// DefaultCategory is emitted for every scanned card: the current markup
// exposes no category field the extractor can rely on.
const DefaultCategory = "Local Business"

// BusinessRecord is one extracted business listing.
type BusinessRecord struct {
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	Rating        float64           `json:"rating"`
	Reviews       int               `json:"reviews"`
	Website       string            `json:"website,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	MapsLink      string            `json:"mapsLink,omitempty"`
	Email         string            `json:"email,omitempty"`
	Socials       map[string]string `json:"socials,omitempty"`
	WebsiteStatus WebsiteStatus     `json:"websiteStatus"`
}

// initialStatus assigns the pre-classification tier: no website at all, a
// plausible absolute URL pending a real audit, or an in-page reference we
// have no reason to distrust yet.
func initialStatus(website string) WebsiteStatus {
	switch {
	case website == "":
		return StatusNoWebsite
	case strings.HasPrefix(website, "http"):
		return StatusLowQuality
	default:
		return StatusGood
	}
}

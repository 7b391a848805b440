// Package places derives canonical identity for map listings. Keys produced
// here are heuristic join keys, not canonical-form guarantees: two URLs that
// normalize equal denote the same listing modulo a known set of volatile
// query parameters.
package places

import (
	"net/url"
	"regexp"
	"strings"
)

// placeIDPattern captures the place-name path segment of a listing URL.
var placeIDPattern = regexp.MustCompile(`/maps/place/([^/]+)/`)

// volatileParams vary between visits to the same listing (entry point,
// account, locale markers) and are stripped before comparison.
var volatileParams = []string{"entry", "authuser", "hl", "gl", "short_url"}

// NormalizeMapsURL canonicalizes a map-listing URL for equality comparison
// across scans. It never fails: malformed input degrades to a trimmed,
// lower-cased copy of the raw string. Ordering of the surviving query
// parameters is not normalized.
func NormalizeMapsURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(raw), "/"))
	}

	q := u.Query()
	for _, p := range volatileParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()

	return strings.ToLower(strings.TrimSuffix(u.String(), "/"))
}

// PlaceID extracts the listing identifier from a card link href. When the
// marker segment is absent the whole href becomes the key; weaker, but the
// same href always yields the same key.
func PlaceID(href string) string {
	if m := placeIDPattern.FindStringSubmatch(href); len(m) > 1 {
		return m[1]
	}
	return href
}

// IdentityKey resolves the canonical identity of a record: the normalized
// maps link when one exists, the business name otherwise. The link comparison
// is always attempted first.
func IdentityKey(mapsLink, name string) string {
	if key := NormalizeMapsURL(mapsLink); key != "" {
		return key
	}
	return name
}

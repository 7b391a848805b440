package scan

import (
	"regexp"
	"strconv"
	"strings"
)

// Every heuristic the extractor leans on is a named pattern, so when the
// third-party markup drifts the breakage is localized to one policy.
var (
	// mapRatingPattern pulls the star value out of a composite accessible
	// label such as "4.5 stars, 120 reviews".
	mapRatingPattern = regexp.MustCompile(`(\d+\.?\d*) stars`)

	// mapReviewsPattern pulls the review count from the same label.
	mapReviewsPattern = regexp.MustCompile(`([\d,]+)\s+reviews`)

	// searchRatingPattern matches the bare "4.5" rendered in search rating
	// blocks.
	searchRatingPattern = regexp.MustCompile(`(\d\.\d)`)

	// searchReviewsPattern matches "(120)" or "(1.2K)" in search rating
	// blocks. The K suffix only appears in this layout; the map-layout
	// pattern deliberately does not accept it.
	searchReviewsPattern = regexp.MustCompile(`\(([\d,]+|[\d.]+K)\)`)

	// phonePattern matches North-American phone shapes with optional
	// country code and mixed separators.
	phonePattern = regexp.MustCompile(`(\+\d{1,2}\s)?\(?\d{3}\)?[\s.-]\d{3}[\s.-]\d{4}`)

	// visitedLinkPattern strips the accessibility marker some cards append
	// to their names.
	visitedLinkPattern = regexp.MustCompile(`(?i)visited link`)
)

// parseMapRating reads the star value from a map-card accessible label.
// Anything unparseable is 0; results are clamped into [0, 5].
func parseMapRating(label string) float64 {
	m := mapRatingPattern.FindStringSubmatch(label)
	if len(m) < 2 {
		return 0
	}
	return clampRating(m[1])
}

// parseMapReviews reads the review count from a map-card accessible label.
func parseMapReviews(label string) int {
	m := mapReviewsPattern.FindStringSubmatch(label)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseSearchRating reads the rating rendered in a search-layout block.
func parseSearchRating(text string) float64 {
	m := searchRatingPattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	return clampRating(m[1])
}

// parseSearchReviews reads the parenthesized count in a search-layout
// block, expanding a thousands suffix when present.
func parseSearchReviews(text string) int {
	m := searchReviewsPattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}

	raw := strings.ReplaceAll(m[1], ",", "")
	if strings.Contains(raw, "K") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(raw, "K"), 64)
		if err != nil {
			return 0
		}
		return int(f * 1000)
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// matchPhone returns the first phone-shaped substring of text, or "".
func matchPhone(text string) string {
	return phonePattern.FindString(text)
}

// cleanName strips the visited-link marker and surrounding whitespace.
func cleanName(name string) string {
	return strings.TrimSpace(visitedLinkPattern.ReplaceAllString(name, ""))
}

func clampRating(raw string) float64 {
	r, err := strconv.ParseFloat(raw, 64)
	if err != nil || r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

// firstLine returns text up to the first newline, trimmed.
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

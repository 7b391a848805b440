package classify

import (
	"regexp"
	"strings"
)

// maxEmails caps how many distinct addresses one page contributes.
const maxEmails = 3

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}`)

// socialPlatform names one platform and the domains its profile links live
// on. The first domain with a matching href wins.
type socialPlatform struct {
	name    string
	domains []string
}

var socialPlatforms = []socialPlatform{
	{name: "facebook", domains: []string{"facebook.com"}},
	{name: "instagram", domains: []string{"instagram.com"}},
	{name: "twitter", domains: []string{"twitter.com", "x.com"}},
	{name: "linkedin", domains: []string{"linkedin.com"}},
	{name: "tiktok", domains: []string{"tiktok.com"}},
	{name: "youtube", domains: []string{"youtube.com"}},
}

// hrefPatterns are compiled once per platform domain.
var hrefPatterns = buildHrefPatterns()

func buildHrefPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, p := range socialPlatforms {
		for _, domain := range p.domains {
			patterns[domain] = regexp.MustCompile(
				`(?i)href=["'](https?://(?:www\.)?` + regexp.QuoteMeta(domain) + `[^"']+)["']`)
		}
	}
	return patterns
}

// ExtractEmails returns up to maxEmails unique email-like substrings in
// first-seen order. Always non-nil.
func ExtractEmails(body string) []string {
	emails := make([]string, 0, maxEmails)
	seen := make(map[string]bool)

	for _, m := range emailPattern.FindAllString(body, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		emails = append(emails, m)
		if len(emails) == maxEmails {
			break
		}
	}
	return emails
}

// ExtractSocials returns the first profile href per platform whose domain
// appears in the page. Always non-nil.
func ExtractSocials(body, lowerBody string) map[string]string {
	socials := make(map[string]string)

	for _, platform := range socialPlatforms {
		for _, domain := range platform.domains {
			if !strings.Contains(lowerBody, domain) {
				continue
			}
			if m := hrefPatterns[domain].FindStringSubmatch(body); len(m) > 1 {
				socials[platform.name] = m[1]
				break
			}
		}
	}
	return socials
}

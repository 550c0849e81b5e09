package fetcher

import (
	"math/rand/v2"
	"strings"
)

// DefaultUserAgent identifies the scraper to the sites it visits
const DefaultUserAgent = "Mozilla/5.0 (compatible; LoanRatesBot/1.0)"

// AcceptLanguages are common Accept-Language header values
var AcceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9,en-US;q=0.8",
	"en-US,en;q=0.9,es;q=0.8",
	"en-US,en;q=0.9,de;q=0.8",
	"en-US,en;q=0.9,fr;q=0.8",
	"en-US,en;q=0.9,pt;q=0.8",
}

// RandomAcceptLanguage returns a random Accept-Language header value
func RandomAcceptLanguage() string {
	return AcceptLanguages[rand.IntN(len(AcceptLanguages))]
}

// RequestHeaders returns the headers sent with every request. Rate pages are
// either HTML or JSON, so both are accepted.
func RequestHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	headers := map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8",
		"Accept-Language": RandomAcceptLanguage(),
		"Accept-Encoding": "gzip, deflate, br",
		"Cache-Control":   "no-cache",
		"Pragma":          "no-cache",
	}

	// A browser user agent configured by the operator gets the client hints
	// a real Chrome would send.
	if strings.Contains(userAgent, "Chrome") || strings.Contains(userAgent, "Chromium") {
		headers["Sec-CH-UA"] = `"Google Chrome";v="131", "Chromium";v="131", "Not_A Brand";v="24"`
		headers["Sec-CH-UA-Mobile"] = "?0"
		headers["Upgrade-Insecure-Requests"] = "1"
	}

	return headers
}

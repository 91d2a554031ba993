package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// Prices outside this range are treated as false positives (ad banners,
// order totals, phone numbers picked up by the looser fallback patterns).
const (
	minPrice = 0
	maxPrice = 2_000_000
)

// patternRule is one step in an extraction cascade. A cascade is tried in
// order and stops at the first rule that yields an acceptable value; earlier
// rules are anchored to specific markup and later ones are looser catch-alls,
// so the ordering itself is part of the contract.
type patternRule struct {
	name string
	re   *regexp.Regexp
}

// reOutOfStock is the fixed marker for the shop's "Out of Stock" badge.
// There is no fallback: absence of the marker means the item is in stock.
var reOutOfStock = regexp.MustCompile(`(?i)>\s*out\s+of\s+stock\s*<`)

// mrpRules extract the original (pre-discount) price, which the shop renders
// struck through next to the sale price.
var mrpRules = []patternRule{
	{"strike-class", regexp.MustCompile(`(?i)class="[^"]*(?:line-through|strike)[^"]*"[^>]*>\s*₹\s*([0-9][0-9,]*)`)},
	{"del-tag", regexp.MustCompile(`(?i)<del[^>]*>[^<₹]*₹\s*([0-9][0-9,]*)`)},
	{"s-tag", regexp.MustCompile(`(?i)<s[^>]*>[^<₹]*₹\s*([0-9][0-9,]*)`)},
	{"strike-style", regexp.MustCompile(`(?i)text-decoration:\s*line-through[^>]*>\s*₹?\s*([0-9][0-9,]*)`)},
}

// saleRules extract the current selling price. The primary rules are anchored
// to the page's price semantics; the class and JSON fallbacks can match any
// currency figure and therefore come last.
var saleRules = []patternRule{
	{"itemprop-price", regexp.MustCompile(`(?i)itemprop="price"[^>]*content="([0-9][0-9,.]*)"`)},
	{"price-attr", regexp.MustCompile(`(?i)data-testid="price"[^>]*>\s*₹\s*([0-9][0-9,]*)`)},
	{"price-class", regexp.MustCompile(`(?i)class="[^"]*price[^"]*"[^>]*>\s*₹\s*([0-9][0-9,]*)`)},
	{"json-price", regexp.MustCompile(`"price"\s*:\s*"?([0-9]+(?:\.[0-9]+)?)"?`)},
}

// discountRules extract the advertised discount percentage. When none of
// them match the discount is computed from mrp and sale price instead.
var discountRules = []patternRule{
	{"discount-badge", regexp.MustCompile(`(?i)class="[^"]*discount[^"]*"[^>]*>\s*-?\s*([0-9]{1,2})\s*%`)},
	{"percent-off", regexp.MustCompile(`([0-9]{1,2})\s*%\s*(?i:off)`)},
	{"save-percent", regexp.MustCompile(`(?i)save\s+([0-9]{1,2})\s*%`)},
}

var (
	// reDescriptor matches the comma-separated spec line the shop renders
	// under the title: "Warranty, <condition>, <ram> GB / <storage> GB, <color>".
	reDescriptor = regexp.MustCompile(`(?i)warranty\s*,[^<]{1,160}`)

	// reCondition is the page-wide fallback when the descriptor line is
	// absent or does not carry a recognizable grade.
	reCondition = regexp.MustCompile(`(?i)\b(fair|good|excellent|superb)\b`)

	// reRAMStorage splits a "<N> GB / <N> GB|TB" pair into ram and storage.
	reRAMStorage = regexp.MustCompile(`(?i)([0-9]+)\s*GB\s*/\s*([0-9]+)\s*([GT]B)`)

	// reStorageToken is the loose fallback: any standalone capacity token.
	reStorageToken = regexp.MustCompile(`(?i)\b([0-9]{1,4}\s*[GT]B)\b`)

	reTitleTag   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	reWhitespace = regexp.MustCompile(`\s+`)

	// reSiteSuffix strips the shop's trailing branding from page titles.
	reSiteSuffix = regexp.MustCompile(`(?i)\s*(?:[|\-–—:]\s*)?(?:renewkart[^|]*|buy\s+refurbished[^|]*)$`)
)

// firstPrice runs a price cascade and returns the first value inside the
// accepted range, with the name of the rule that produced it.
func firstPrice(rules []patternRule, html string) (int, string, bool) {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		v, ok := parsePrice(m[1])
		if !ok {
			continue
		}
		return v, r.name, true
	}
	return 0, "", false
}

// firstMatch runs a text cascade and returns the first non-empty submatch.
func firstMatch(rules []patternRule, html string) (string, string, bool) {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		v := strings.TrimSpace(m[1])
		if v == "" {
			continue
		}
		return v, r.name, true
	}
	return "", "", false
}

// parsePrice normalizes a matched currency figure ("50,000", "40000.00") to
// whole rupees and rejects values outside the accepted range.
func parsePrice(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	v := int(f)
	if v <= minPrice || v >= maxPrice {
		return 0, false
	}
	return v, true
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

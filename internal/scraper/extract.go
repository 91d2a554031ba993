// Package scraper turns a product page of the supported shop into a
// structured snapshot. Every field is extracted by an ordered cascade of
// pattern rules; earlier rules are anchored to specific markup and must be
// tried before the loose catch-alls, which can false-positive on any
// currency figure found on the page.
package scraper

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dropalert/dropalert/internal/domain"
)

const (
	maxTitleLen = 100
	// fallbackTitle is shown when neither an h1 nor a title tag exists.
	fallbackTitle = "Unknown Product"

	// Placeholder prices keep out-of-stock records displayable when the page
	// carries no figures at all. The values are not meaningful.
	placeholderMRP  = 50000
	placeholderSale = 45000
	// placeholderOffset derives the missing side of the pair when only one
	// price could be read off an out-of-stock page.
	placeholderOffset = 5000
)

var imageKeywords = []string{"product", "mobile", "phone", "iphone"}

// Extract parses raw page HTML into a snapshot. It fails only when neither
// the MRP nor the sale price can be derived by any rule, wrapping
// domain.ErrNoPrice; every other field degrades to a default instead.
func Extract(html, sourceURL string) (domain.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc = nil
	}

	var snap domain.Snapshot

	snap.OutOfStock = reOutOfStock.MatchString(html)
	snap.Title = extractTitle(doc, html)

	snap.MRP, _, _ = firstPrice(mrpRules, html)

	if !snap.OutOfStock {
		snap.SalePrice, _, _ = firstPrice(saleRules, html)
		snap.Discount = extractDiscount(html, snap.MRP, snap.SalePrice)
	} else {
		snap.Discount = "0%"
	}

	snap.Condition, snap.RAM, snap.Storage, snap.Color = extractDescriptor(html, snap.Title)
	snap.ImageURL = extractImage(doc, sourceURL)

	if snap.OutOfStock {
		backfillPrices(&snap)
	}

	if snap.MRP == 0 && snap.SalePrice == 0 {
		return domain.Snapshot{}, fmt.Errorf("extract %s: %w", sourceURL, domain.ErrNoPrice)
	}

	return snap, nil
}

// extractTitle prefers the first h1, then the title tag, then a fixed
// fallback. The shop's trailing branding is stripped and the result is
// whitespace-collapsed and capped at maxTitleLen characters.
func extractTitle(doc *goquery.Document, html string) string {
	var title string
	if doc != nil {
		title = collapseWhitespace(doc.Find("h1").First().Text())
	}
	if title == "" {
		if m := reTitleTag.FindStringSubmatch(html); m != nil {
			title = collapseWhitespace(m[1])
		}
	}
	if title == "" {
		return fallbackTitle
	}

	title = strings.TrimSpace(reSiteSuffix.ReplaceAllString(title, ""))
	if title == "" {
		return fallbackTitle
	}

	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen]) + "..."
	}
	return title
}

// extractDiscount reads the advertised badge and, failing that, computes the
// percentage from the two prices. "0%" is the terminal default.
func extractDiscount(html string, mrp, sale int) string {
	if v, _, ok := firstMatch(discountRules, html); ok {
		return v + "%"
	}
	if mrp > 0 && sale > 0 && mrp > sale {
		pct := int(math.Round(float64(mrp-sale) / float64(mrp) * 100))
		return fmt.Sprintf("%d%%", pct)
	}
	return "0%"
}

// extractDescriptor parses the "Warranty, <condition>, <ram> GB / <storage>,
// <color>" spec line. Each field falls back to its own page-wide pattern when
// the line is absent or incomplete.
func extractDescriptor(html, title string) (domain.Condition, string, string, string) {
	var parts []string
	if m := reDescriptor.FindString(html); m != "" {
		for _, p := range strings.Split(m, ",") {
			parts = append(parts, strings.TrimSpace(p))
		}
	}

	part := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	condition := extractCondition(part(1), html)
	ram, storage := extractStorage(part(2), title, html)

	color := part(3)

	return condition, ram, storage, color
}

func extractCondition(descriptor, html string) domain.Condition {
	if descriptor != "" && reCondition.MatchString(descriptor) {
		return domain.ParseCondition(descriptor)
	}
	if m := reCondition.FindString(html); m != "" {
		return domain.ParseCondition(m)
	}
	return domain.DefaultCondition
}

// extractStorage splits a "<N> GB / <N> GB|TB" pair into ram and a combined
// storage string. The fallback accepts any short capacity token, searched in
// the title before the full page so "iPhone 12 128GB" wins over unrelated
// figures elsewhere in the markup.
func extractStorage(descriptor, title, html string) (ram, storage string) {
	if m := reRAMStorage.FindStringSubmatch(descriptor); m != nil {
		ram = m[1] + " GB"
		storage = fmt.Sprintf("%s GB / %s %s", m[1], m[2], strings.ToUpper(m[3]))
		return ram, storage
	}

	for _, hay := range []string{title, html} {
		for _, m := range reStorageToken.FindAllString(hay, -1) {
			// Short matches only: longer ones tend to be dimensions or SKUs.
			if len(m) <= 7 {
				return "", strings.ToUpper(collapseWhitespace(m))
			}
		}
	}
	return "", ""
}

// extractImage prefers img tags whose src filename names the product, then
// any img whose alt text mentions "product". Relative URLs are resolved
// against the page URL.
func extractImage(doc *goquery.Document, sourceURL string) string {
	if doc == nil {
		return ""
	}

	var src string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr("src")
		if !ok {
			return true
		}
		lowered := strings.ToLower(v)
		for _, kw := range imageKeywords {
			if strings.Contains(lowered, kw) {
				src = v
				return false
			}
		}
		return true
	})

	if src == "" {
		doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v, ok := s.Attr("src")
			if !ok {
				return true
			}
			if strings.Contains(strings.ToLower(s.AttrOr("alt", "")), "product") {
				src = v
				return false
			}
			return true
		})
	}

	if src == "" {
		return ""
	}
	return resolveURL(sourceURL, src)
}

func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

// backfillPrices substitutes placeholder figures for out-of-stock pages so
// the record stays displayable. The values are stand-ins, not business data.
func backfillPrices(snap *domain.Snapshot) {
	switch {
	case snap.MRP == 0 && snap.SalePrice == 0:
		snap.MRP = placeholderMRP
		snap.SalePrice = placeholderSale
	case snap.SalePrice == 0:
		snap.SalePrice = snap.MRP - placeholderOffset
		if snap.SalePrice < 0 {
			snap.SalePrice = 0
		}
	case snap.MRP == 0:
		snap.MRP = snap.SalePrice + placeholderOffset
	}
}

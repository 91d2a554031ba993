package scraper

import (
	"errors"
	"strings"
	"testing"

	"github.com/dropalert/dropalert/internal/domain"
)

const productURL = "https://www.renewkart.com/phones/iphone-12"

func TestExtractFullPage(t *testing.T) {
	html := `<html><head><title>Apple iPhone 12 128GB | RenewKart</title></head><body>
<h1>iPhone 12 128GB</h1>
<p>Warranty, Superb, 4 GB / 128 GB, Black</p>
<span class="old-price line-through">₹50,000</span>
<span data-testid="price">₹40,000</span>
<span class="discount-badge">20% OFF</span>
<img src="/images/iphone-12-black.jpg" alt="iPhone 12">
</body></html>`

	snap, err := Extract(html, productURL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if snap.Title != "iPhone 12 128GB" {
		t.Errorf("Title = %q, want %q", snap.Title, "iPhone 12 128GB")
	}
	if snap.MRP != 50000 {
		t.Errorf("MRP = %d, want 50000", snap.MRP)
	}
	if snap.SalePrice != 40000 {
		t.Errorf("SalePrice = %d, want 40000", snap.SalePrice)
	}
	if snap.Discount != "20%" {
		t.Errorf("Discount = %q, want %q", snap.Discount, "20%")
	}
	if snap.Condition != domain.ConditionSuperb {
		t.Errorf("Condition = %q, want Superb", snap.Condition)
	}
	if snap.RAM != "4 GB" {
		t.Errorf("RAM = %q, want %q", snap.RAM, "4 GB")
	}
	if snap.Storage != "4 GB / 128 GB" {
		t.Errorf("Storage = %q, want %q", snap.Storage, "4 GB / 128 GB")
	}
	if snap.Color != "Black" {
		t.Errorf("Color = %q, want %q", snap.Color, "Black")
	}
	if snap.ImageURL != "https://www.renewkart.com/images/iphone-12-black.jpg" {
		t.Errorf("ImageURL = %q, want absolute image URL", snap.ImageURL)
	}
	if snap.OutOfStock {
		t.Errorf("OutOfStock = true, want false")
	}
}

// The scenario from the drop-tracking flow: strikethrough MRP, semantic sale
// price, no discount badge. The discount must be computed.
func TestExtractComputedDiscount(t *testing.T) {
	html := `<h1>iPhone 12 128GB</h1>
<span class="line-through">₹50,000</span>
<span data-testid="price">₹40,000</span>`

	snap, err := Extract(html, productURL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if snap.MRP != 50000 || snap.SalePrice != 40000 {
		t.Fatalf("prices = %d/%d, want 50000/40000", snap.MRP, snap.SalePrice)
	}
	if snap.Discount != "20%" {
		t.Errorf("Discount = %q, want %q", snap.Discount, "20%")
	}
	if snap.OutOfStock {
		t.Errorf("OutOfStock = true, want false")
	}
}

func TestExtractNoPrices(t *testing.T) {
	html := `<h1>Some Phone</h1><p>no figures on this page</p>`
	_, err := Extract(html, productURL)
	if !errors.Is(err, domain.ErrNoPrice) {
		t.Fatalf("Extract error = %v, want ErrNoPrice", err)
	}
}

// Strikethrough only, no sale-price marker, in stock: discount defaults to 0%
// because the sale price is unresolved.
func TestExtractStrikethroughOnly(t *testing.T) {
	html := `<h1>iPhone 11</h1><del>₹30,000</del>`
	snap, err := Extract(html, productURL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if snap.MRP != 30000 {
		t.Errorf("MRP = %d, want 30000", snap.MRP)
	}
	if snap.SalePrice != 0 {
		t.Errorf("SalePrice = %d, want 0", snap.SalePrice)
	}
	if snap.Discount != "0%" {
		t.Errorf("Discount = %q, want %q", snap.Discount, "0%")
	}
}

func TestExtractOutOfStockPlaceholders(t *testing.T) {
	html := `<h1>iPhone X</h1><span class="stock-badge">Out of Stock</span>`
	snap, err := Extract(html, productURL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !snap.OutOfStock {
		t.Fatalf("OutOfStock = false, want true")
	}
	if snap.MRP != 50000 || snap.SalePrice != 45000 {
		t.Errorf("placeholder prices = %d/%d, want 50000/45000", snap.MRP, snap.SalePrice)
	}
	if snap.Discount != "0%" {
		t.Errorf("Discount = %q, want %q", snap.Discount, "0%")
	}
}

func TestExtractOutOfStockDerivesMissingSale(t *testing.T) {
	html := `<span>Out of Stock</span><del>₹30,000</del>`
	snap, err := Extract(html, productURL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if snap.MRP != 30000 {
		t.Errorf("MRP = %d, want 30000", snap.MRP)
	}
	if snap.SalePrice != 25000 {
		t.Errorf("SalePrice = %d, want 25000 (mrp minus offset)", snap.SalePrice)
	}
}

func TestExtractTitleTruncation(t *testing.T) {
	long := strings.Repeat("a", 150)
	html := `<h1>` + long + `</h1><span data-testid="price">₹10,000</span>`
	snap, err := Extract(html, productURL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(snap.Title) != 103 {
		t.Errorf("title length = %d, want 103 (100 + ellipsis)", len(snap.Title))
	}
	if !strings.HasSuffix(snap.Title, "...") {
		t.Errorf("title = %q, want trailing ellipsis", snap.Title)
	}
}

func TestExtractTitleFallbacks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "title tag with site suffix",
			html: `<html><head><title>  Apple iPhone   13 | RenewKart - Buy Refurbished Phones</title></head><body><span data-testid="price">₹10,000</span></body></html>`,
			want: "Apple iPhone 13",
		},
		{
			name: "no h1 and no title",
			html: `<span data-testid="price">₹10,000</span>`,
			want: "Unknown Product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Extract(tt.html, productURL)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if snap.Title != tt.want {
				t.Errorf("Title = %q, want %q", snap.Title, tt.want)
			}
		})
	}
}

// The specific MRP rule must win over looser ones when both could match.
func TestMRPCascadeOrder(t *testing.T) {
	html := `<span class="line-through">₹45,000</span><del>₹99,000</del>`
	v, rule, ok := firstPrice(mrpRules, html)
	if !ok {
		t.Fatal("no MRP matched")
	}
	if rule != "strike-class" {
		t.Errorf("matched rule = %q, want strike-class", rule)
	}
	if v != 45000 {
		t.Errorf("MRP = %d, want 45000", v)
	}
}

func TestSalePriceRange(t *testing.T) {
	// 5,000,000 exceeds the accepted range so the cascade must fall through
	// to the JSON fragment.
	html := `<span data-testid="price">₹5,000,000</span><script>{"price": "39999"}</script>`
	v, rule, ok := firstPrice(saleRules, html)
	if !ok {
		t.Fatal("no sale price matched")
	}
	if rule != "json-price" {
		t.Errorf("matched rule = %q, want json-price", rule)
	}
	if v != 39999 {
		t.Errorf("sale price = %d, want 39999", v)
	}
}

func TestExtractStorageFallback(t *testing.T) {
	ram, storage := extractStorage("", "iPhone 12 128GB", "")
	if ram != "" {
		t.Errorf("ram = %q, want empty", ram)
	}
	if storage != "128GB" {
		t.Errorf("storage = %q, want 128GB", storage)
	}
}

func TestExtractImagePreference(t *testing.T) {
	html := `<h1>x</h1><span data-testid="price">₹10,000</span>
<img src="/assets/banner.png" alt="sale banner">
<img src="/cdn/iphone-12-front.webp" alt="front view">`
	snap, err := Extract(html, productURL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if snap.ImageURL != "https://www.renewkart.com/cdn/iphone-12-front.webp" {
		t.Errorf("ImageURL = %q, want the iphone image resolved absolute", snap.ImageURL)
	}
}

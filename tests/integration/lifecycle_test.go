package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/dropalert/dropalert/internal/domain"
	"github.com/dropalert/dropalert/internal/logger"
	"github.com/dropalert/dropalert/internal/notifier"
	"github.com/dropalert/dropalert/internal/scraper"
	"github.com/dropalert/dropalert/internal/sources/sitecfg"
	"github.com/dropalert/dropalert/internal/tracker"
)

// shopPage is a mutable fixture product page served over a real HTTP server,
// so the whole fetch -> extract -> reconcile -> notify chain runs unmocked.
type shopPage struct {
	mu         sync.Mutex
	salePrice  int
	outOfStock bool
}

func (s *shopPage) set(salePrice int, outOfStock bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salePrice = salePrice
	s.outOfStock = outOfStock
}

func (s *shopPage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<html><head><title>iPhone 12 128GB | RenewKart</title></head><body>`)
	fmt.Fprint(w, `<h1>iPhone 12 128GB</h1>`)
	fmt.Fprint(w, `<p>1 Year Warranty, Superb, 4 GB / 128 GB, Black</p>`)
	if s.outOfStock {
		fmt.Fprint(w, `<span class="badge">Out of Stock</span>`)
	} else {
		fmt.Fprint(w, `<del>₹60,000</del>`)
		fmt.Fprintf(w, `<span data-testid="price">₹%d</span>`, s.salePrice)
	}
	fmt.Fprint(w, `<img src="/images/iphone-12-front.jpg" alt="product photo">`)
	fmt.Fprint(w, `</body></html>`)
}

type memStore struct {
	products map[string]*domain.TrackedProduct
	alerts   map[string]*domain.PriceAlert
}

func (m *memStore) CreateProduct(_ context.Context, p *domain.TrackedProduct) error {
	m.products[p.ID] = p
	return nil
}

func (m *memStore) GetProduct(_ context.Context, id string) (*domain.TrackedProduct, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *memStore) UpdateProduct(_ context.Context, p *domain.TrackedProduct) error {
	m.products[p.ID] = p
	return nil
}

func (m *memStore) ListProductIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) ActiveAlerts(_ context.Context, productID string) ([]*domain.PriceAlert, error) {
	var out []*domain.PriceAlert
	for _, a := range m.alerts {
		if a.ProductID == productID && a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) DeactivateAlert(_ context.Context, id string) error {
	a, ok := m.alerts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Active = false
	return nil
}

type recordingNotifier struct {
	kinds []notifier.Kind
}

func (r *recordingNotifier) Dispatch(_ context.Context, kind notifier.Kind, _ string, _ *domain.TrackedProduct) {
	r.kinds = append(r.kinds, kind)
}

func (r *recordingNotifier) count(kind notifier.Kind) int {
	n := 0
	for _, k := range r.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

// TestProductLifecycle walks one product through the full story: tracking
// starts, the price drops past an alert, the item sells out, then restocks.
func TestProductLifecycle(t *testing.T) {
	page := &shopPage{salePrice: 50000}
	ts := httptest.NewServer(page)
	defer ts.Close()

	host, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	site := &sitecfg.Site{Name: "RenewKart", Domains: []string{host.Hostname()}}

	store := &memStore{
		products: make(map[string]*domain.TrackedProduct),
		alerts:   make(map[string]*domain.PriceAlert),
	}
	notif := &recordingNotifier{}
	svc := tracker.New(store, scraper.NewFetcher(5*time.Second, nil), notif, site,
		logger.New("error", false), 0, time.Hour)

	ctx := context.Background()

	// Day 0: tracking starts.
	p, err := svc.Track(ctx, "u1", "u1@example.com", ts.URL+"/p/iphone-12")
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if p.Title != "iPhone 12 128GB" {
		t.Errorf("title = %q", p.Title)
	}
	if p.MRP != 60000 || p.SalePrice != 50000 {
		t.Errorf("prices = %d/%d, want 60000/50000", p.MRP, p.SalePrice)
	}
	if p.Condition != domain.ConditionSuperb {
		t.Errorf("condition = %q, want Superb", p.Condition)
	}
	if p.Storage == "" {
		t.Error("storage not extracted")
	}
	if len(p.PriceHistory) != 1 {
		t.Fatalf("history length = %d, want 1", len(p.PriceHistory))
	}
	if notif.count(notifier.KindTrackingStarted) != 1 {
		t.Errorf("tracking_started notifications = %d, want 1", notif.count(notifier.KindTrackingStarted))
	}

	store.alerts["a1"] = &domain.PriceAlert{ID: "a1", UserID: "u1", ProductID: p.ID, TargetPrice: 45000, Active: true}

	// The price drops below the alert target.
	page.set(44000, false)
	p, err = svc.Refresh(ctx, p.ID)
	if err != nil {
		t.Fatalf("Refresh after drop failed: %v", err)
	}
	if p.SalePrice != 44000 {
		t.Errorf("sale price = %d, want 44000", p.SalePrice)
	}
	if len(p.PriceHistory) != 2 {
		t.Errorf("history length = %d, want 2", len(p.PriceHistory))
	}
	if notif.count(notifier.KindPriceDrop) != 1 {
		t.Errorf("price_drop notifications = %d, want 1", notif.count(notifier.KindPriceDrop))
	}
	if store.alerts["a1"].Active {
		t.Error("alert still active after firing")
	}

	// The item sells out: the snapshot flips to out of stock and the history
	// gains nothing.
	page.set(0, true)
	p, err = svc.Refresh(ctx, p.ID)
	if err != nil {
		t.Fatalf("Refresh after sell-out failed: %v", err)
	}
	if !p.OutOfStock {
		t.Error("OutOfStock = false after sell-out")
	}
	if len(p.PriceHistory) != 2 {
		t.Errorf("history length = %d after sell-out, want 2", len(p.PriceHistory))
	}

	// Back in stock at the old price: restock notification, no price change.
	page.set(44000, false)
	p, err = svc.Refresh(ctx, p.ID)
	if err != nil {
		t.Fatalf("Refresh after restock failed: %v", err)
	}
	if notif.count(notifier.KindRestock) != 1 {
		t.Errorf("restock notifications = %d, want 1", notif.count(notifier.KindRestock))
	}
	if len(p.PriceHistory) != 2 {
		t.Errorf("history length = %d after restock, want 2", len(p.PriceHistory))
	}
	// No second price-drop email: the only alert already fired.
	if notif.count(notifier.KindPriceDrop) != 1 {
		t.Errorf("price_drop notifications = %d after restock, want still 1", notif.count(notifier.KindPriceDrop))
	}
}

// Package tracker orchestrates the product lifecycle: start tracking a URL,
// refresh one product, and re-check the whole collection in a paced batch.
package tracker

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dropalert/dropalert/internal/domain"
	"github.com/dropalert/dropalert/internal/logger"
	"github.com/dropalert/dropalert/internal/notifier"
	"github.com/dropalert/dropalert/internal/scraper"
	"github.com/dropalert/dropalert/internal/sources/sitecfg"
)

// Store is the persistence surface the tracker needs.
type Store interface {
	CreateProduct(ctx context.Context, p *domain.TrackedProduct) error
	GetProduct(ctx context.Context, id string) (*domain.TrackedProduct, error)
	UpdateProduct(ctx context.Context, p *domain.TrackedProduct) error
	ListProductIDs(ctx context.Context) ([]string, error)
	ActiveAlerts(ctx context.Context, productID string) ([]*domain.PriceAlert, error)
	DeactivateAlert(ctx context.Context, id string) error
}

// Fetcher retrieves a product page as raw HTML.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Notifier delivers best-effort notifications; it never reports failure.
type Notifier interface {
	Dispatch(ctx context.Context, kind notifier.Kind, recipient string, p *domain.TrackedProduct)
}

// Report summarizes one batch re-check.
type Report struct {
	Updated int
	Total   int
	Errors  []string
}

// Service wires the store, fetcher and notifier together.
type Service struct {
	store    Store
	fetcher  Fetcher
	notifier Notifier
	site     *sitecfg.Site
	logger   logger.Logger

	pacing     time.Duration // delay between products in a batch
	staleAfter time.Duration // products checked more recently are skipped

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a tracker service.
func New(store Store, fetcher Fetcher, n Notifier, site *sitecfg.Site, log logger.Logger, pacing, staleAfter time.Duration) *Service {
	return &Service{
		store:      store,
		fetcher:    fetcher,
		notifier:   n,
		site:       site,
		logger:     log,
		pacing:     pacing,
		staleAfter: staleAfter,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// Track starts tracking rawURL for a user. The URL must be well-formed and
// belong to the supported shop, and the user must not already track it.
func (s *Service) Track(ctx context.Context, userID, email, rawURL string) (*domain.TrackedProduct, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%q: %w", rawURL, domain.ErrInvalidURL)
	}
	if !s.site.Supports(u.Hostname()) {
		return nil, fmt.Errorf("%q: %w", u.Hostname(), domain.ErrUnsupportedSite)
	}

	html, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	snap, err := scraper.Extract(html, rawURL)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := &domain.TrackedProduct{
		ID:          uuid.NewString(),
		UserID:      userID,
		Email:       email,
		URL:         rawURL,
		Snapshot:    snap,
		CreatedAt:   now,
		LastChecked: now,
	}
	if !snap.OutOfStock {
		p.PriceHistory = []domain.HistoryEntry{{Price: snap.SalePrice, CheckedAt: now}}
	}

	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("tracking started",
		logger.String("product_id", p.ID),
		logger.String("user_id", userID),
		logger.Int("sale_price", snap.SalePrice))

	s.notifier.Dispatch(ctx, notifier.KindTrackingStarted, email, p)
	return p, nil
}

// Refresh re-checks a single product regardless of how recently it was
// checked. Errors are fatal: there is no batch context to recover into.
func (s *Service) Refresh(ctx context.Context, productID string) (*domain.TrackedProduct, error) {
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RefreshAll re-checks every product whose last check is older than the
// staleness window. Products are processed sequentially in stable order with
// a pacing delay between them; per-product failures are recorded and the
// batch continues.
func (s *Service) RefreshAll(ctx context.Context) (Report, error) {
	ids, err := s.store.ListProductIDs(ctx)
	if err != nil {
		return Report{}, err
	}

	var report Report
	var stale []*domain.TrackedProduct
	for _, id := range ids {
		p, err := s.store.GetProduct(ctx, id)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		if s.now().Sub(p.LastChecked) < s.staleAfter {
			continue
		}
		stale = append(stale, p)
	}

	report.Total = len(stale)
	for i, p := range stale {
		if i > 0 {
			s.sleep(s.pacing)
		}
		if err := s.refresh(ctx, p); err != nil {
			s.logger.Warn("product re-check failed",
				logger.String("product_id", p.ID),
				logger.Error(err))
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", p.ID, err))
			continue
		}
		report.Updated++
	}

	s.logger.Info("batch re-check finished",
		logger.Int("updated", report.Updated),
		logger.Int("total", report.Total),
		logger.Int("errors", len(report.Errors)))
	return report, nil
}

// refresh fetches, extracts, reconciles and persists one product, then fires
// whatever notifications the reconcile decided on. p is updated in place.
func (s *Service) refresh(ctx context.Context, p *domain.TrackedProduct) error {
	html, err := s.fetcher.Fetch(ctx, p.URL)
	if err != nil {
		return err
	}
	fresh, err := scraper.Extract(html, p.URL)
	if err != nil {
		return err
	}

	res := domain.Reconcile(p, fresh, s.now())

	p.Snapshot = fresh
	p.PriceHistory = res.History
	p.LastChecked = s.now()
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return err
	}

	if res.PriceDropped {
		s.matchAlerts(ctx, p)
	}
	if res.Restocked {
		s.notifier.Dispatch(ctx, notifier.KindRestock, p.Email, p)
	}
	return nil
}

// matchAlerts sends one price-drop email per active alert whose target price
// is met, then deactivates each matched alert so it can never fire again.
func (s *Service) matchAlerts(ctx context.Context, p *domain.TrackedProduct) {
	alerts, err := s.store.ActiveAlerts(ctx, p.ID)
	if err != nil {
		s.logger.Warn("failed to load alerts",
			logger.String("product_id", p.ID),
			logger.Error(err))
		return
	}

	for _, a := range alerts {
		if a.TargetPrice < p.SalePrice {
			continue
		}
		s.notifier.Dispatch(ctx, notifier.KindPriceDrop, p.Email, p)
		if err := s.store.DeactivateAlert(ctx, a.ID); err != nil {
			s.logger.Warn("failed to deactivate alert",
				logger.String("alert_id", a.ID),
				logger.Error(err))
		}
	}
}

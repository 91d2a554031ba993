package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/dropalert/dropalert/internal/domain"
)

// CreateAlert stores a price alert and indexes it under its product.
func (s *Store) CreateAlert(ctx context.Context, a *domain.PriceAlert) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, AlertKey(a.ID), data, 0)
	pipe.SAdd(ctx, ProductAlertsKey(a.ProductID), a.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

// GetAlert retrieves a price alert by ID.
func (s *Store) GetAlert(ctx context.Context, id string) (*domain.PriceAlert, error) {
	data, err := s.client.Get(ctx, AlertKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	var a domain.PriceAlert
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert: %w", err)
	}
	return &a, nil
}

// ActiveAlerts retrieves the active alerts targeting a product, sorted by ID
// for stable notification order.
func (s *Store) ActiveAlerts(ctx context.Context, productID string) ([]*domain.PriceAlert, error) {
	ids, err := s.client.SMembers(ctx, ProductAlertsKey(productID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get alert IDs: %w", err)
	}

	alerts := make([]*domain.PriceAlert, 0, len(ids))
	for _, id := range ids {
		a, err := s.GetAlert(ctx, id)
		if err != nil {
			continue
		}
		if a.Active {
			alerts = append(alerts, a)
		}
	}

	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ID < alerts[j].ID })
	return alerts, nil
}

// DeactivateAlert flips an alert to inactive. Alerts are never reactivated:
// each one fires at most once.
func (s *Store) DeactivateAlert(ctx context.Context, id string) error {
	a, err := s.GetAlert(ctx, id)
	if err != nil {
		return err
	}
	a.Active = false
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	if err := s.client.Set(ctx, AlertKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to deactivate alert: %w", err)
	}
	return nil
}

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

// Store handles Redis persistence for tracked products and price alerts.
// Products live forever until the owning user deletes them; there are no
// TTLs anywhere.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// CreateProduct stores a new tracked product. The (user, url) pair is claimed
// with SETNX first, so a second tracking request for the same URL by the same
// user fails with domain.ErrDuplicateURL even under concurrent requests.
func (s *Store) CreateProduct(ctx context.Context, p *domain.TrackedProduct) error {
	claimed, err := s.client.SetNX(ctx, UserURLKey(p.UserID, p.URL), p.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim product url: %w", err)
	}
	if !claimed {
		return domain.ErrDuplicateURL
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, ProductKey(p.ID), data, 0)
	pipe.SAdd(ctx, UserProductsKey(p.UserID), p.ID)
	pipe.SAdd(ctx, KeyAllProducts, p.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		// Roll back the uniqueness claim so the user can retry.
		_ = s.client.Del(ctx, UserURLKey(p.UserID, p.URL)).Err()
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// GetProduct retrieves a product by ID, regardless of owner.
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.TrackedProduct, error) {
	data, err := s.client.Get(ctx, ProductKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	var p domain.TrackedProduct
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &p, nil
}

// GetOwnedProduct retrieves a product and verifies it belongs to userID.
// Ownership failures are indistinguishable from missing products.
func (s *Store) GetOwnedProduct(ctx context.Context, userID, id string) (*domain.TrackedProduct, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ListProducts retrieves all products tracked by a user, sorted by creation
// time so the UI order is stable.
func (s *Store) ListProducts(ctx context.Context, userID string) ([]*domain.TrackedProduct, error) {
	ids, err := s.client.SMembers(ctx, UserProductsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get product IDs: %w", err)
	}

	products := make([]*domain.TrackedProduct, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProduct(ctx, id)
		if err != nil {
			// Skip records that couldn't be retrieved
			continue
		}
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products, nil
}

// UpdateProduct overwrites a product record in place.
func (s *Store) UpdateProduct(ctx context.Context, p *domain.TrackedProduct) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	if err := s.client.Set(ctx, ProductKey(p.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product owned by userID, along with its uniqueness
// claim and any alerts that target it.
func (s *Store) DeleteProduct(ctx context.Context, userID, id string) error {
	p, err := s.GetOwnedProduct(ctx, userID, id)
	if err != nil {
		return err
	}

	alertIDs, err := s.client.SMembers(ctx, ProductAlertsKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to get alert IDs: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, ProductKey(id))
	pipe.Del(ctx, UserURLKey(userID, p.URL))
	pipe.SRem(ctx, UserProductsKey(userID), id)
	pipe.SRem(ctx, KeyAllProducts, id)
	for _, alertID := range alertIDs {
		pipe.Del(ctx, AlertKey(alertID))
	}
	pipe.Del(ctx, ProductAlertsKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// ListProductIDs retrieves the IDs of all tracked products, sorted so batch
// rechecks process them in a stable order.
func (s *Store) ListProductIDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, KeyAllProducts).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get product IDs: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dropalert/dropalert/internal/auth"
	"github.com/dropalert/dropalert/internal/domain"
	"github.com/dropalert/dropalert/internal/logger"
	"github.com/dropalert/dropalert/internal/tracker"
)

// Tracker is the slice of the tracker service the handlers use.
type Tracker interface {
	Track(ctx context.Context, userID, email, rawURL string) (*domain.TrackedProduct, error)
	Refresh(ctx context.Context, productID string) (*domain.TrackedProduct, error)
	RefreshAll(ctx context.Context) (tracker.Report, error)
}

// ProductStore is the slice of the store the handlers use directly.
// Mutations that involve scraping go through the Tracker instead.
type ProductStore interface {
	GetOwnedProduct(ctx context.Context, userID, id string) (*domain.TrackedProduct, error)
	ListProducts(ctx context.Context, userID string) ([]*domain.TrackedProduct, error)
	DeleteProduct(ctx context.Context, userID, id string) error
	CreateAlert(ctx context.Context, a *domain.PriceAlert) error
}

// Auth issues and verifies bearer tokens.
type Auth interface {
	Issue(userID, email string) (string, error)
	Verify(token string) (auth.Identity, error)
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	RedisClient *redis.Client // readiness probe pings through it

	Tracker  Tracker
	Products ProductStore
	Auth     Auth

	DevTokens bool // expose the dev-only token endpoint
}

package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/novaplan/premium/internal/identity"
	"github.com/novaplan/premium/internal/premium/application"
	"github.com/novaplan/premium/internal/premium/domain"
	"github.com/novaplan/premium/internal/premium/infrastructure/persistence"
	"github.com/novaplan/premium/internal/premium/infrastructure/storegateway"
	"github.com/novaplan/premium/internal/premium/infrastructure/tags"
	"github.com/novaplan/premium/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Connections
	DB          *pgxpool.Pool
	SQLiteDB    *sql.DB
	RedisClient *redis.Client

	// Collaborators
	Store        domain.Store
	ProfileStore domain.ProfileStore
	TagService   domain.TagService
	Identity     domain.IdentityResolver

	// Premium flow
	Catalog    *application.CatalogLoader
	Reconciler *application.Reconciler
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	store, err := c.initStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.Store = store

	if err := c.initProfileStore(ctx, cfg, logger); err != nil {
		c.Close()
		return nil, err
	}

	c.initTagService(ctx, cfg, logger)
	c.Identity = buildIdentityResolver(cfg, logger)

	c.Catalog = application.NewCatalogLoader(c.Store, cfg.ProductIDs, domain.KindSubscription, logger)
	acks := application.NewAcknowledger(c.Store, logger)
	remote := application.NewRemoteSync(c.ProfileStore, c.TagService, c.Identity, logger)

	c.Reconciler = application.NewReconciler(application.Config{
		Enabled:           cfg.PremiumEnabled,
		ProductIDs:        cfg.ProductIDs,
		DefaultProductID:  cfg.DefaultProductID,
		PreferredBasePlan: cfg.PreferredBasePlan,
	}, c.Store, c.Catalog, acks, remote, c.Identity, logger)

	return c, nil
}

// initStore selects the billing store backend. A configured gateway URL
// means the real REST gateway, optionally with the AMQP event feed for
// live purchases. Without one the in-memory store serves local mode.
func (c *Container) initStore(cfg *config.Config, logger *slog.Logger) (domain.Store, error) {
	if cfg.GatewayURL == "" {
		logger.Info("no billing gateway configured, using in-memory store")
		return storegateway.NewMemoryStore(localCatalog(cfg), nil, logger), nil
	}

	var feed *storegateway.EventFeed
	if cfg.BrokerURL != "" {
		feed = storegateway.NewEventFeed(storegateway.EventFeedConfig{
			URL:      cfg.BrokerURL,
			Exchange: cfg.EventExchange,
			Queue:    cfg.EventQueue,
			Logger:   logger,
		})
	} else {
		logger.Warn("no event broker configured, live purchase events disabled")
	}

	gw := storegateway.NewGateway(storegateway.GatewayConfig{
		BaseURL:    cfg.GatewayURL,
		APIKey:     cfg.GatewayAPIKey,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		Logger:     logger,
	}, feed)
	return gw, nil
}

// initProfileStore connects to PostgreSQL when DATABASE_URL is set,
// falling back to a local SQLite file otherwise.
func (c *Container) initProfileStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.DatabaseURL != "" && strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		c.DB = pool
		c.ProfileStore = persistence.NewPostgresProfileRepository(pool)
		logger.Info("connected to database")
		return nil
	}

	db, err := persistence.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite: %w", err)
	}
	repo := persistence.NewSQLiteProfileRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	c.SQLiteDB = db
	c.ProfileStore = repo
	logger.Info("profile store initialized", "database", cfg.SQLitePath, "driver", "sqlite")
	return nil
}

// initTagService connects to Redis when configured. The tag service is
// optional; remote sync tolerates a nil collaborator.
func (c *Container) initTagService(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	if cfg.RedisURL == "" {
		return
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid Redis URL, tag sync disabled", "error", err)
		return
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis not available, tag sync disabled", "error", err)
		_ = client.Close()
		return
	}
	c.RedisClient = client
	c.TagService = tags.NewRedisTagService(client, cfg.DeviceID)
	logger.Info("connected to Redis")
}

// buildIdentityResolver maps configuration onto a resolver. With an API
// token the resolver validates it on every lookup; with only a user ID
// the static resolver serves local mode. No user ID means unresolvable,
// which turns remote sync into a no-op.
func buildIdentityResolver(cfg *config.Config, logger *slog.Logger) domain.IdentityResolver {
	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Warn("no valid user id configured, remote sync disabled")
		return identity.StaticResolver{}
	}
	if cfg.GatewayToken != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GatewayToken})
		return identity.NewTokenResolver(source, userID, logger)
	}
	return identity.StaticResolver{UserID: userID}
}

// localCatalog builds the in-memory store's product set from configuration.
func localCatalog(cfg *config.Config) []domain.Product {
	products := make([]domain.Product, 0, len(cfg.ProductIDs))
	for i, id := range cfg.ProductIDs {
		products = append(products, domain.Product{
			ID:           id,
			PriceMicros:  int64(4990000 * (i + 1)),
			DisplayPrice: fmt.Sprintf("$%d.99", 4+i*45),
			Platform:     "local",
			Offers: []domain.OfferDetail{
				{BasePlanID: cfg.PreferredBasePlan, Token: "offer-" + id},
			},
		})
	}
	return products
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.Reconciler != nil {
		c.Reconciler.Close()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}

	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		} else {
			c.Logger.Info("SQLite connection closed")
		}
	}
}

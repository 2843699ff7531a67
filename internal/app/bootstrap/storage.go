package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	catalogmemory "creatorhub/contexts/community-experience/catalog-service/adapters/memory"
	catalogpostgres "creatorhub/contexts/community-experience/catalog-service/adapters/postgres"
	catalogports "creatorhub/contexts/community-experience/catalog-service/ports"
	chatmemory "creatorhub/contexts/community-experience/chat-service/adapters/memory"
	chatmongo "creatorhub/contexts/community-experience/chat-service/adapters/mongo"
	chatpostgres "creatorhub/contexts/community-experience/chat-service/adapters/postgres"
	chatports "creatorhub/contexts/community-experience/chat-service/ports"
	requestmemory "creatorhub/contexts/community-experience/custom-request-service/adapters/memory"
	requestpostgres "creatorhub/contexts/community-experience/custom-request-service/adapters/postgres"
	requestports "creatorhub/contexts/community-experience/custom-request-service/ports"
	mediaports "creatorhub/contexts/community-experience/media-service/ports"
	billingmemory "creatorhub/contexts/finance-core/billing-service/adapters/memory"
	billingpostgres "creatorhub/contexts/finance-core/billing-service/adapters/postgres"
	billingports "creatorhub/contexts/finance-core/billing-service/ports"
	accountmemory "creatorhub/contexts/identity-access/account-service/adapters/memory"
	accountpostgres "creatorhub/contexts/identity-access/account-service/adapters/postgres"
	accountports "creatorhub/contexts/identity-access/account-service/ports"
	moderationmemory "creatorhub/contexts/moderation-safety/moderation-service/adapters/memory"
	moderationpostgres "creatorhub/contexts/moderation-safety/moderation-service/adapters/postgres"
	moderationports "creatorhub/contexts/moderation-safety/moderation-service/ports"
	"creatorhub/internal/platform/cache"
	"creatorhub/internal/platform/config"
	"creatorhub/internal/platform/db"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// accountStore is everything the other contexts read from or write to the
// account context.
type accountStore interface {
	accountports.Repository
	catalogports.AccountReader
	billingports.AccountDirectory
	requestports.AccountDirectory
	moderationports.AccountDirectory
	mediaports.AccountDirectory
}

type catalogStore interface {
	catalogports.Repository
	catalogports.ContentSummaries
}

type billingStore interface {
	billingports.Repository
	billingports.IdempotencyStore
	billingports.EventDedup
}

type requestStore interface {
	requestports.Repository
	requestports.CreatorReports
}

// storage holds one store per context for the selected backend.
type storage struct {
	accounts   accountStore
	catalog    catalogStore
	billing    billingStore
	requests   requestStore
	reports    moderationports.Repository
	chats      chatports.ChatRepository
	messages   chatports.MessageStore
	eventDedup billingports.EventDedup
	counter    rateCounter

	postgres *db.Postgres
	redis    *cache.Redis
	mongo    *mongo.Client
}

type rateCounter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storage, error) {
	s := &storage{}
	switch cfg.StoreBackend {
	case "postgres":
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		s.postgres = pg
		accounts := accountpostgres.NewRepository(pg.DB, logger)
		catalog := catalogpostgres.NewRepository(pg.DB, logger)
		billing := billingpostgres.NewRepository(pg.DB, logger)
		requests := requestpostgres.NewRepository(pg.DB, logger)
		reports := moderationpostgres.NewRepository(pg.DB, logger)
		chats := chatpostgres.NewRepository(pg.DB, logger)
		if err := pg.Migrate(ctx, accounts, catalog, billing, requests, reports, chats); err != nil {
			_ = pg.Close()
			return nil, err
		}
		s.accounts, s.catalog, s.billing, s.requests, s.reports = accounts, catalog, billing, requests, reports
		s.chats, s.messages = chats, chats
	case "memory", "":
		chats := chatmemory.NewStore()
		s.accounts = accountmemory.NewStore()
		s.catalog = catalogmemory.NewStore()
		s.billing = billingmemory.NewStore()
		s.requests = requestmemory.NewStore()
		s.reports = moderationmemory.NewStore()
		s.chats, s.messages = chats, chats
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}
	s.eventDedup = s.billing

	if cfg.ChatStore == "mongo" {
		if err := s.openMongo(ctx, cfg, logger); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	if cfg.RedisURL != "" {
		redis, err := cache.NewRedis(cfg.RedisURL, cfg.ServiceName)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.redis = redis
		s.eventDedup = redis
		s.counter = redis
	}
	return s, nil
}

func (s *storage) openMongo(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongo: %w", err)
	}
	s.mongo = client

	store := chatmongo.NewMessageStore(client.Database(cfg.MongoDatabase).Collection(chatmongo.CollectionName), logger)
	if err := store.EnsureIndexes(connectCtx); err != nil {
		return err
	}
	s.messages = store
	return nil
}

// Close releases every connection storage opened, returning the first failure.
func (s *storage) Close() error {
	var first error
	if s.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.mongo.Disconnect(ctx); err != nil && first == nil {
			first = err
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil && first == nil {
			first = err
		}
	}
	if s.postgres != nil {
		if err := s.postgres.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

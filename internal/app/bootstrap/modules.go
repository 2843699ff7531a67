package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	catalog "creatorhub/contexts/community-experience/catalog-service"
	catalogpostgres "creatorhub/contexts/community-experience/catalog-service/adapters/postgres"
	chat "creatorhub/contexts/community-experience/chat-service"
	chatpostgres "creatorhub/contexts/community-experience/chat-service/adapters/postgres"
	customrequest "creatorhub/contexts/community-experience/custom-request-service"
	requestpostgres "creatorhub/contexts/community-experience/custom-request-service/adapters/postgres"
	media "creatorhub/contexts/community-experience/media-service"
	mediadisk "creatorhub/contexts/community-experience/media-service/adapters/disk"
	medias3 "creatorhub/contexts/community-experience/media-service/adapters/s3"
	mediaports "creatorhub/contexts/community-experience/media-service/ports"
	billing "creatorhub/contexts/finance-core/billing-service"
	billingpostgres "creatorhub/contexts/finance-core/billing-service/adapters/postgres"
	account "creatorhub/contexts/identity-access/account-service"
	accountpostgres "creatorhub/contexts/identity-access/account-service/adapters/postgres"
	creatordashboard "creatorhub/contexts/internal-ops/creator-dashboard-service"
	moderationservice "creatorhub/contexts/moderation-safety/moderation-service"
	moderationpostgres "creatorhub/contexts/moderation-safety/moderation-service/adapters/postgres"
	"creatorhub/contexts/moderation-safety/moderation-service/domain/services"
	"creatorhub/internal/platform/auth"
	"creatorhub/internal/platform/config"
	"creatorhub/internal/platform/httpserver"
	"creatorhub/internal/platform/messaging"
	"creatorhub/internal/platform/observability"
	"creatorhub/internal/platform/payments"
	"creatorhub/internal/platform/textpolicy"
)

// container is the fully wired object graph shared by the API and worker
// processes.
type container struct {
	cfg     config.Config
	storage *storage
	modules httpserver.Modules
	tokens  *auth.JWTIssuer
	bus     *messaging.Bus
	metrics *observability.Metrics
	uploads string
}

func buildContainer(ctx context.Context, cfg config.Config, metrics *observability.Metrics, logger *slog.Logger) (*container, error) {
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)
	policy := textpolicy.New(cfg.BlockedWords, cfg.RequestTopicKeywords)
	gateway := payments.NewStripeGateway(payments.StripeConfig{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		MockMode:      cfg.StripeMockMode(),
	}, metrics, logger)
	bus := messaging.NewBus(logger)

	accountModule := account.NewModule(account.Dependencies{
		Repository:  store.accounts,
		Hasher:      auth.BcryptHasher{},
		Tokens:      tokens,
		Clock:       accountpostgres.SystemClock{},
		IDGenerator: accountpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	moderationModule := moderationservice.NewModule(moderationservice.Dependencies{
		Repository: store.reports,
		Accounts:   store.accounts,
		Deliveries: store.requests,
		Policy:     policy,
		Clock:      moderationpostgres.SystemClock{},
		IDGen:      moderationpostgres.UUIDGenerator{},
		Thresholds: services.DefaultThresholds(),
		Logger:     logger,
	})

	requestModule := customrequest.NewModule(customrequest.Dependencies{
		Repository:      store.requests,
		Reports:         store.requests,
		Accounts:        store.accounts,
		Policy:          policy,
		Gateway:         gateway,
		Moderation:      moderationModule.Service,
		Clock:           requestpostgres.SystemClock{},
		IDGenerator:     requestpostgres.UUIDGenerator{},
		PlatformFeeRate: cfg.PlatformFeeRate,
		Expiry:          cfg.RequestExpiry,
		FrontendURL:     cfg.FrontendURL,
		Logger:          logger,
	})

	billingModule := billing.NewModule(billing.Dependencies{
		Repository:             store.billing,
		Idempotency:            store.billing,
		EventDedup:             store.eventDedup,
		Accounts:               store.accounts,
		Catalog:                store.catalog,
		Requests:               requestModule.Payments,
		Gateway:                gateway,
		Webhooks:               metrics,
		Clock:                  billingpostgres.SystemClock{},
		IDGenerator:            billingpostgres.UUIDGenerator{},
		Logger:                 logger,
		FrontendURL:            cfg.FrontendURL,
		PassPriceID:            cfg.StripePricePassID,
		SubscriptionPriceID:    cfg.StripePriceSubscriptionID,
		PassPriceCents:         cfg.PassPriceCents,
		SubscriptionPriceCents: cfg.SubscriptionPriceCents,
		PlatformFeeRate:        cfg.PlatformFeeRate,
		AccessPeriod:           cfg.AccessPeriod(),
		IdempotencyTTL:         cfg.IdempotencyTTL,
		EventDedupTTL:          cfg.WebhookDedupTTL,
	})

	catalogModule := catalog.NewModule(catalog.Dependencies{
		Repository:   store.catalog,
		Summaries:    store.catalog,
		Accounts:     store.accounts,
		Purchases:    store.billing,
		Clock:        catalogpostgres.SystemClock{},
		IDGenerator:  catalogpostgres.UUIDGenerator{},
		PreviewCount: cfg.PreviewCount,
		Logger:       logger,
	})

	chatModule := chat.NewModule(chat.Dependencies{
		Chats:          store.chats,
		Messages:       store.messages,
		Accounts:       store.accounts,
		Policy:         policy,
		Publisher:      bus,
		Clock:          chatpostgres.SystemClock{},
		IDGen:          chatpostgres.UUIDGenerator{},
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         logger,
	})

	dashboardModule := creatordashboard.NewModule(creatordashboard.Dependencies{
		Accounts:  store.accounts,
		Content:   store.catalog,
		Purchases: store.billing,
		Requests:  store.requests,
		Logger:    logger,
	})

	objects, uploadDir, err := buildObjectStore(ctx, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	mediaModule := media.NewModule(media.Dependencies{
		Store:    objects,
		Accounts: store.accounts,
		IDGen:    mediadisk.UUIDGenerator{},
		Logger:   logger,
	})

	return &container{
		cfg:     cfg,
		storage: store,
		modules: httpserver.Modules{
			Accounts:   accountModule,
			Catalog:    catalogModule,
			Billing:    billingModule,
			Requests:   requestModule,
			Chat:       chatModule,
			Moderation: moderationModule,
			Dashboard:  dashboardModule,
			Media:      mediaModule,
		},
		tokens:  tokens,
		bus:     bus,
		metrics: metrics,
		uploads: uploadDir,
	}, nil
}

// buildObjectStore returns the media store and, for local uploads, the
// directory the API serves under /uploads/.
func buildObjectStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (mediaports.ObjectStore, string, error) {
	switch cfg.UploadBackend {
	case "s3":
		s3cfg := medias3.Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UsePathStyle:  cfg.S3UsePathStyle,
			PublicBaseURL: cfg.S3PublicBaseURL,
		}
		client, err := medias3.NewClient(ctx, s3cfg)
		if err != nil {
			return nil, "", err
		}
		return medias3.NewStore(client, s3cfg, logger), "", nil
	case "local", "":
		store, err := mediadisk.NewStore(cfg.UploadDir, cfg.PublicBaseURL, logger)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	default:
		return nil, "", fmt.Errorf("unsupported UPLOAD_BACKEND %q", cfg.UploadBackend)
	}
}

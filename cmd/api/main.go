package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/godlywomen/community-api/internal/api/http"
	"github.com/godlywomen/community-api/internal/api/http/handlers"
	"github.com/godlywomen/community-api/internal/auth"
	"github.com/godlywomen/community-api/internal/cache"
	"github.com/godlywomen/community-api/internal/config"
	"github.com/godlywomen/community-api/internal/events"
	"github.com/godlywomen/community-api/internal/observability"
	"github.com/godlywomen/community-api/internal/persistence"
	"github.com/godlywomen/community-api/internal/repository"
	"github.com/godlywomen/community-api/internal/repository/memory"
	"github.com/godlywomen/community-api/internal/service"
	"github.com/godlywomen/community-api/internal/worker"
)

type repositories struct {
	users     repository.UserRepository
	listings  repository.ListingRepository
	articles  repository.ArticleRepository
	comments  repository.CommentRepository
	prayers   repository.PrayerRepository
	responses repository.PrayerResponseRepository

	conversations repository.ConversationRepository
	messages      repository.MessageRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	repos := buildRepositories(pg)

	var (
		redis      *persistence.Redis
		statsCache cache.StatsCache = cache.NoopStatsCache{}
	)
	if cfg.Cache.Enabled {
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		statsCache = cache.NewRedisStatsCache(redis.Client, cfg.Cache.StatsTTL())
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartCacheInvalidationWorker(dispatcher, statsCache, logger)

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, auth.WithTTLs(cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL()))
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   repos.users,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	activityService := service.NewActivityService(service.ActivityDependencies{
		UserRepo:    repos.users,
		ArticleRepo: repos.articles,
		PrayerRepo:  repos.prayers,
		ListingRepo: repos.listings,
		StatsCache:  statsCache,
		Logger:      logger,
	})
	listingService := service.NewListingService(service.ListingDependencies{
		ListingRepo: repos.listings,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	articleService := service.NewArticleService(service.ArticleDependencies{
		ArticleRepo: repos.articles,
		CommentRepo: repos.comments,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	prayerService := service.NewPrayerService(service.PrayerDependencies{
		PrayerRepo:   repos.prayers,
		ResponseRepo: repos.responses,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	messagingService := service.NewMessagingService(service.MessagingDependencies{
		UserRepo:         repos.users,
		ConversationRepo: repos.conversations,
		MessageRepo:      repos.messages,
		Logger:           logger,
	})

	metrics := observability.NewMetrics()
	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		Routes: httptransport.RouteConfig{
			Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
			Auth:           handlers.NewAuthHandler(authService, activityService),
			Marketplace:    handlers.NewMarketplaceHandler(listingService),
			Articles:       handlers.NewArticlesHandler(articleService),
			Prayers:        handlers.NewPrayersHandler(prayerService),
			Messaging:      handlers.NewMessagingHandler(messagingService),
			AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		},
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildRepositories(pg *persistence.Postgres) repositories {
	if !pg.Enabled() {
		store := memory.NewStore()
		return repositories{
			users:     store.Users(),
			listings:  store.Listings(),
			articles:  store.Articles(),
			comments:  store.Comments(),
			prayers:   store.Prayers(),
			responses: store.PrayerResponses(),

			conversations: store.Conversations(),
			messages:      store.Messages(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		users:     repository.NewUserRepository(pool),
		listings:  repository.NewListingRepository(pool),
		articles:  repository.NewArticleRepository(pool),
		comments:  repository.NewCommentRepository(pool),
		prayers:   repository.NewPrayerRepository(pool),
		responses: repository.NewPrayerResponseRepository(pool),

		conversations: repository.NewConversationRepository(pool),
		messages:      repository.NewMessageRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

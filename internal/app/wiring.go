package app

import (
	"fmt"

	"forms-service/internal/audit"
	"forms-service/internal/config"
	"forms-service/internal/infra/cache"
	"forms-service/internal/infra/s3"
	"forms-service/internal/repository/postgres"
	"forms-service/internal/security/authn"
	"forms-service/internal/security/pipeline"
	"forms-service/internal/security/rbac"
	"forms-service/internal/security/resolver"
	transport "forms-service/internal/transport/echo"

	"github.com/redis/go-redis/v9"
)

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService() (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	objectStore, err := s3.NewObjectStore(&cfg.AWS, cfg.App.PresignedURLExpiry)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create object store: %w", err)
	}

	apiKeyCache, err := cache.NewAPIKeyCache(int64(cfg.Cache.APIKeyCacheSize), cfg.Cache.APIKeyCacheTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create api key cache: %w", err)
	}
	formCache := cache.NewFormCache(redisClient, cfg.Cache.FormCacheTTL)

	formRepo := postgres.NewFormRepository(db)
	submissionRepo := postgres.NewSubmissionRepository(db)
	fileRepo := postgres.NewFileRepository(db)
	apiKeyRepo := postgres.NewAPIKeyRepository(db)
	userRepo := postgres.NewUserRepository(db)

	jwtService := authn.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)

	authRegistry := authn.NewRegistry(
		authn.NewSessionStrategy(jwtService),
		authn.NewAPIKeyStrategy(apiKeyRepo, apiKeyCache),
		authn.NewGatewayStrategy(cfg.Gateway.Secret),
		authn.NewAnonymousStrategy(),
	)

	resourceResolver := resolver.New(formRepo, submissionRepo, fileRepo, formCache)
	enricher := rbac.MustNewEnricher(rbac.DefaultConfig())
	recorder := audit.NewRecorder(db.Pool)

	orchestrator := pipeline.New(transport.Policies(), authRegistry, resourceResolver, enricher, recorder)

	server := transport.NewServer(&transport.Dependencies{
		Config:         cfg,
		Orchestrator:   orchestrator,
		JWTService:     jwtService,
		UserRepo:       userRepo,
		FormRepo:       formRepo,
		SubmissionRepo: submissionRepo,
		FileRepo:       fileRepo,
		ObjectStore:    objectStore,
	})

	return &Service{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		apiKeyCache: apiKeyCache,
		server:      server,
	}, nil
}

package app

import (
	"context"

	"forms-service/internal/config"
	"forms-service/internal/infra/cache"
	"forms-service/internal/logging"
	"forms-service/internal/repository/postgres"
	transport "forms-service/internal/transport/echo"

	"github.com/redis/go-redis/v9"
)

// Service bundles the running parts of the application: the HTTP server
// plus the connections and caches it owns.
type Service struct {
	config      *config.Config
	db          *postgres.DB
	redis       *redis.Client
	apiKeyCache *cache.APIKeyCache
	server      *transport.Server
}

// NewService creates and initializes a new Service instance
// This is a convenience wrapper around InitializeService
func NewService() (*Service, error) {
	return InitializeService()
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Service) Start() error {
	log := logging.Component("app")
	log.Info().
		Str("port", s.config.Server.Port).
		Msg("starting forms service")
	return s.server.Start()
}

// Shutdown gracefully shuts down the server and releases connections.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	s.apiKeyCache.Close()
	if closeErr := s.redis.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	s.db.Close()

	return err
}

package authn

import (
	"context"
	"strings"
	"time"

	"forms-service/internal/domain/apikey"
	"forms-service/internal/infra/cache"
	"forms-service/internal/logging"
	"forms-service/internal/repository"
	"forms-service/internal/security"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const apiKeyLastUsedUpdateTimeout = 500 * time.Millisecond

// APIKeyStrategy authenticates machine callers via the X-API-Key header.
// Keys are looked up by hash, through the hot cache first.
type APIKeyStrategy struct {
	repo  repository.APIKeyRepository
	cache *cache.APIKeyCache
	log   zerolog.Logger
}

// NewAPIKeyStrategy builds the strategy. keyCache may be nil to disable
// caching.
func NewAPIKeyStrategy(repo repository.APIKeyRepository, keyCache *cache.APIKeyCache) *APIKeyStrategy {
	return &APIKeyStrategy{
		repo:  repo,
		cache: keyCache,
		log:   logging.Component("auth_registry"),
	}
}

func (s *APIKeyStrategy) Name() security.AuthType {
	return security.AuthTypeAPIKey
}

func (s *APIKeyStrategy) Authenticate(c echo.Context) (*security.Actor, error) {
	keyString := strings.TrimSpace(c.Request().Header.Get(headerAPIKey))
	if keyString == "" {
		return nil, security.ErrNoCredentials
	}

	if !strings.HasPrefix(keyString, apiKeyPrefix) {
		return nil, security.NewUnauthorized(msgInvalidAPIKeyFormat)
	}

	key, err := s.lookup(c.Request().Context(), HashKey(keyString))
	if err != nil {
		return nil, security.NewUnauthorized(msgInvalidAPIKey)
	}

	if !key.IsActive() {
		if key.RevokedAt != nil {
			return nil, security.NewForbidden(msgAPIKeyRevoked)
		}
		return nil, security.NewForbidden(msgAPIKeyExpired)
	}

	s.touchLastUsed(key)

	return &security.Actor{
		Type:   security.ActorTypeAPI,
		ID:     key.ID.String(),
		Scopes: scopesFor(key),
	}, nil
}

func (s *APIKeyStrategy) lookup(ctx context.Context, hash string) (*apikey.APIKey, error) {
	if s.cache != nil {
		if key, ok := s.cache.Get(hash); ok {
			return key, nil
		}
	}

	key, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(hash, key)
	}

	return key, nil
}

func (s *APIKeyStrategy) touchLastUsed(key *apikey.APIKey) {
	ctx, cancel := context.WithTimeout(context.Background(), apiKeyLastUsedUpdateTimeout)
	defer cancel()

	if err := s.repo.UpdateLastUsed(ctx, key.ID); err != nil {
		s.log.Warn().
			Str("api_key_id", key.ID.String()).
			Err(err).
			Msg("failed to update API key last_used_at")
	}
}

// scopesFor maps the key's stored permissions onto the pipeline's
// permission names. API keys act on the file surface.
func scopesFor(key *apikey.APIKey) []security.Permission {
	scopes := make([]security.Permission, 0, len(key.Permissions))
	for _, p := range key.Permissions {
		switch p {
		case apikey.PermissionRead:
			scopes = append(scopes, security.PermFileRead)
		case apikey.PermissionWrite:
			scopes = append(scopes, security.PermFileCreate)
		case apikey.PermissionDelete:
			scopes = append(scopes, security.PermFileDelete)
		}
	}
	return scopes
}

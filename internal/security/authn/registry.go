// Package authn holds the pluggable authentication strategies and the
// registry that tries them in policy order.
package authn

import (
	"forms-service/internal/logging"
	"forms-service/internal/security"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Strategy authenticates one kind of credential. Authenticate returns
// security.ErrNoCredentials when the request carries nothing the strategy
// recognizes, which lets the registry fall through to the next allowed
// strategy. Any other error is fatal and aborts authentication
// immediately (e.g. a malformed or expired credential).
type Strategy interface {
	Name() security.AuthType
	Authenticate(c echo.Context) (*security.Actor, error)
}

// Registry is the pluggable set of authentication strategies. Like the
// policy registry it is built once at startup and read-only afterwards.
type Registry struct {
	strategies map[security.AuthType]Strategy
	log        zerolog.Logger
}

func NewRegistry(strategies ...Strategy) *Registry {
	m := make(map[security.AuthType]Strategy, len(strategies))
	for _, s := range strategies {
		m[s.Name()] = s
	}
	return &Registry{
		strategies: m,
		log:        logging.Component("auth_registry"),
	}
}

// Authenticate attempts each strategy named in allowedAuth, in order,
// until one succeeds. An empty allowedAuth list means the route is
// implicitly public and yields the anonymous Who. If every listed
// strategy exhausts without producing an actor, authentication fails with
// a 401; nothing is retried at this layer.
func (r *Registry) Authenticate(c echo.Context, correlationID string, allowedAuth []security.AuthType) (*security.Who, error) {
	if len(allowedAuth) == 0 {
		return &security.Who{AuthType: security.AuthTypePublic, Actor: security.PublicActor()}, nil
	}

	for _, name := range allowedAuth {
		strategy, ok := r.strategies[name]
		if !ok {
			r.log.Warn().
				Str("correlation_id", correlationID).
				Str("auth_type", string(name)).
				Msg("policy references unregistered auth strategy")
			continue
		}

		actor, err := strategy.Authenticate(c)
		if err == security.ErrNoCredentials {
			continue
		}
		if err != nil {
			logging.LogAuthAttempt(r.log, correlationID, name, false, err)
			return nil, err
		}

		logging.LogAuthAttempt(r.log, correlationID, name, true, nil)
		return &security.Who{AuthType: name, Actor: actor}, nil
	}

	err := security.NewUnauthorized(msgAuthenticationRequired)
	logging.LogAuthAttempt(r.log, correlationID, "", false, err)
	return nil, err
}

package authn

import (
	"forms-service/internal/security"

	"github.com/labstack/echo/v4"
)

// AnonymousStrategy always succeeds with the public actor. Listing it in a
// policy's allowedAuth makes the route public as a last resort after the
// stronger strategies have fallen through.
type AnonymousStrategy struct{}

func NewAnonymousStrategy() *AnonymousStrategy {
	return &AnonymousStrategy{}
}

func (s *AnonymousStrategy) Name() security.AuthType {
	return security.AuthTypePublic
}

func (s *AnonymousStrategy) Authenticate(echo.Context) (*security.Actor, error) {
	return security.PublicActor(), nil
}

package authn

import (
	"strings"

	"forms-service/internal/security"

	"github.com/labstack/echo/v4"
)

// SessionStrategy authenticates human users via a bearer session token.
type SessionStrategy struct {
	jwt *JWTService
}

func NewSessionStrategy(jwt *JWTService) *SessionStrategy {
	return &SessionStrategy{jwt: jwt}
}

func (s *SessionStrategy) Name() security.AuthType {
	return security.AuthTypeUser
}

func (s *SessionStrategy) Authenticate(c echo.Context) (*security.Actor, error) {
	token := extractBearerToken(c)
	if token == "" {
		return nil, security.ErrNoCredentials
	}

	claims, err := s.jwt.Verify(token)
	if err != nil {
		// A presented-but-invalid token is fatal, not a fall-through.
		return nil, security.NewUnauthorized(msgInvalidOrExpiredToken)
	}

	return &security.Actor{
		Type:     security.ActorTypeUser,
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Roles:    claims.Roles,
	}, nil
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

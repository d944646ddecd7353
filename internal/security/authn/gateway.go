package authn

import (
	"fmt"

	"forms-service/internal/security"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// GatewayClaims are the claims minted by the trusted API gateway in front
// of this service. The gateway has already authenticated the caller; this
// strategy only verifies the gateway's signature.
type GatewayClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// GatewayStrategy authenticates requests carrying a gateway-issued bearer
// token in the X-Gateway-Token header.
type GatewayStrategy struct {
	secret []byte
}

func NewGatewayStrategy(secret string) *GatewayStrategy {
	return &GatewayStrategy{secret: []byte(secret)}
}

func (s *GatewayStrategy) Name() security.AuthType {
	return security.AuthTypeGateway
}

func (s *GatewayStrategy) Authenticate(c echo.Context) (*security.Actor, error) {
	tokenString := c.Request().Header.Get(headerGatewayToken)
	if tokenString == "" {
		return nil, security.ErrNoCredentials
	}

	token, err := jwt.ParseWithClaims(tokenString, &GatewayClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, security.NewUnauthorized(msgInvalidGatewayToken)
	}

	claims, ok := token.Claims.(*GatewayClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, security.NewUnauthorized(msgInvalidGatewayToken)
	}

	scopes := make([]security.Permission, len(claims.Scopes))
	for i, sc := range claims.Scopes {
		scopes[i] = security.Permission(sc)
	}

	return &security.Actor{
		Type:   security.ActorTypeGateway,
		ID:     claims.Subject,
		Scopes: scopes,
	}, nil
}

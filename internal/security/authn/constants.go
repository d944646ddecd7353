package authn

const (
	headerAuthorization = "Authorization"
	headerAPIKey        = "X-API-Key"
	headerGatewayToken  = "X-Gateway-Token"

	bearerScheme    = "bearer"
	apiKeyPrefix    = "fk_"
	authHeaderParts = 2

	msgAuthenticationRequired  = "authentication required"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgInvalidAPIKey           = "invalid API key"
	msgInvalidAPIKeyFormat     = "invalid API key format"
	msgAPIKeyRevoked           = "API key has been revoked"
	msgAPIKeyExpired           = "API key has expired"
	msgInvalidGatewayToken     = "invalid gateway token"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
)

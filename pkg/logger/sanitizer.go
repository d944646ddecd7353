package logger

import (
	"regexp"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

// credentialPatterns match key[: =]value pairs that must never reach logs.
var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`),
	regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s]+`),
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)[\s:=]+[^\s]+`),
	regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s]+`),
}

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"token", "jwt", "bearer",
	"api_key", "apikey", "api-key",
	"secret", "private_key", "private-key",
	"password_hash", "passwordhash",
}

// SanitizeLogMessage redacts credential-looking values from a free-form
// log message.
func SanitizeLogMessage(message string) string {
	for _, pattern := range credentialPatterns {
		message = pattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	}
	return message
}

// SanitizeMap returns a copy of data with values under sensitive keys
// replaced by the redaction placeholder. Key matching is a
// case-insensitive substring check.
func SanitizeMap(data map[string]interface{}) map[string]interface{} {
	sanitized := make(map[string]interface{}, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
			continue
		}
		sanitized[k] = v
	}
	return sanitized
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

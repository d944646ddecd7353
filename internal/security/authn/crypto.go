package authn

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// Argon2 parameters for key derivation
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	// Default salt for API key hashing (should be overridden via config in production)
	defaultAPIKeySalt = "forms-service-api-key-salt-v1"
)

// ConstantTimeCompareHashes compares two hex-encoded hash strings in constant time.
// This prevents timing attacks that could leak information about valid hashes.
func ConstantTimeCompareHashes(a, b string) bool {
	aBytes := []byte(a)
	bBytes := []byte(b)

	// If lengths differ, still do comparison to maintain constant time
	if len(aBytes) != len(bBytes) {
		if len(aBytes) < len(bBytes) {
			aBytes = make([]byte, len(bBytes))
		} else {
			bBytes = make([]byte, len(aBytes))
		}
	}

	return subtle.ConstantTimeCompare(aBytes, bBytes) == 1
}

// HashKey hashes an API key using SHA256 for storage-side lookup.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// HashKeySecure hashes a key using Argon2id. Used when minting new keys.
func HashKeySecure(key string) string {
	return HashKeySecureWithSalt(key, []byte(defaultAPIKeySalt))
}

// HashKeySecureWithSalt hashes a key using Argon2id with a custom salt.
func HashKeySecureWithSalt(key string, salt []byte) string {
	hash := argon2.IDKey([]byte(key), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return hex.EncodeToString(hash)
}

// VerifyKeyHash verifies a key against a stored hash, supporting both the
// SHA256 lookup format and the Argon2id format.
func VerifyKeyHash(key, storedHash string) bool {
	if ConstantTimeCompareHashes(HashKeySecure(key), storedHash) {
		return true
	}
	return ConstantTimeCompareHashes(HashKey(key), storedHash)
}

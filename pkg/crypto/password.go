package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// VerificationTokenBytes is the entropy of an email verification token
	VerificationTokenBytes = 32

	// Parameters of hashes imported from the previous deployment, stored as
	// "<hex key>.<salt>".
	legacyScryptN      = 16384
	legacyScryptR      = 8
	legacyScryptP      = 1
	legacyScryptKeyLen = 64
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, DefaultCost)
}

// HashPasswordWithCost hashes a password using bcrypt at the given cost
func HashPasswordWithCost(password string, cost int) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash in constant time.
// Both bcrypt and legacy scrypt hashes are accepted.
func CheckPassword(password, hash string) bool {
	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	return checkLegacyScrypt(password, hash)
}

// NeedsRehash reports whether hash uses the legacy scheme and should be
// replaced with a bcrypt hash after the next successful login.
func NeedsRehash(hash string) bool {
	return !strings.HasPrefix(hash, "$2")
}

func checkLegacyScrypt(password, stored string) bool {
	hexKey, salt, ok := strings.Cut(stored, ".")
	if !ok || salt == "" {
		return false
	}
	want, err := hex.DecodeString(hexKey)
	if err != nil || len(want) != legacyScryptKeyLen {
		return false
	}
	got, err := scrypt.Key([]byte(password), []byte(salt), legacyScryptN, legacyScryptR, legacyScryptP, legacyScryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(want, got) == 1
}

// LegacyScryptHash produces a hash in the imported format. Only tests and
// data migration tooling need it.
func LegacyScryptHash(password, salt string) (string, error) {
	key, err := scrypt.Key([]byte(password), []byte(salt), legacyScryptN, legacyScryptR, legacyScryptP, legacyScryptKeyLen)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key) + "." + salt, nil
}

// Fingerprint returns a short digest of a stored hash. Tokens that embed it
// stop validating once the hash changes.
func Fingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}

// GenerateRandomToken generates a random token of specified length
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateVerificationToken generates a 64-character verification token
func GenerateVerificationToken() (string, error) {
	return GenerateRandomToken(VerificationTokenBytes)
}

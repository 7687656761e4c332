package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashScheme   = "pbkdf2"
	hashFunction = "sha256"
)

var (
	// ErrEmptyPassword is returned when an empty password is hashed or verified
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrMalformedHash is returned when a stored hash cannot be parsed
	ErrMalformedHash = errors.New("malformed password hash")
)

// PasswordHasherOptions tune the PBKDF2 parameters
type PasswordHasherOptions struct {
	Iterations int
	SaltBytes  int
	KeyBytes   int
}

// DefaultPasswordHasherOptions returns the default PBKDF2 parameters
func DefaultPasswordHasherOptions() PasswordHasherOptions {
	return PasswordHasherOptions{
		Iterations: 120000,
		SaltBytes:  16,
		KeyBytes:   32,
	}
}

// PasswordHasher hashes and verifies passwords using PBKDF2-SHA256.
// Encoded form: pbkdf2$sha256$<iterations>$<salt>$<key>, base64 raw std.
type PasswordHasher struct {
	options PasswordHasherOptions
}

// NewPasswordHasher creates a PasswordHasher, filling zero options with defaults
func NewPasswordHasher(options PasswordHasherOptions) *PasswordHasher {
	defaults := DefaultPasswordHasherOptions()
	if options.Iterations <= 0 {
		options.Iterations = defaults.Iterations
	}
	if options.SaltBytes <= 0 {
		options.SaltBytes = defaults.SaltBytes
	}
	if options.KeyBytes <= 0 {
		options.KeyBytes = defaults.KeyBytes
	}
	return &PasswordHasher{options: options}
}

// Hash derives an encoded hash from the password with a fresh random salt
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, h.options.SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, h.options.Iterations, h.options.KeyBytes, sha256.New)

	return fmt.Sprintf(
		"%s$%s$%d$%s$%s",
		hashScheme,
		hashFunction,
		h.options.Iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks a password against an encoded hash in constant time
func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	if password == "" {
		return false, ErrEmptyPassword
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != hashScheme || parts[1] != hashFunction {
		return false, ErrMalformedHash
	}

	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations <= 0 {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, ErrMalformedHash
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}

	derived := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(derived, expected) == 1, nil
}

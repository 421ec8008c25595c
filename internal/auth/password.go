// Package auth provides admin password hashing and HTTP Basic verification.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hasher digests admin passwords and checks candidates against a stored digest.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) (bool, error)
}

// NewHasher returns the hasher for a configured scheme name.
func NewHasher(scheme string) (Hasher, error) {
	switch scheme {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "argon2id":
		return Argon2idHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hash scheme %q", scheme)
	}
}

// SHA256Hasher stores the hex-encoded SHA-256 of the password's UTF-8 bytes.
//
// There is no salt and no work factor. Identical passwords produce identical
// digests and offline guessing is cheap. It is kept as the default so stored
// digests stay comparable with existing deployments; set
// PASSWORD_HASH_SCHEME=argon2id for new installs.
type SHA256Hasher struct{}

// Hash implements Hasher.
func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Verify implements Hasher. The comparison is exact and case-sensitive.
func (h SHA256Hasher) Verify(password, stored string) (bool, error) {
	computed, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1, nil
}

// Verify checks password against a stored digest of either scheme, so
// switching PASSWORD_HASH_SCHEME does not lock out an existing admin.
func Verify(password, stored string) (bool, error) {
	if strings.HasPrefix(stored, "$argon2id$") {
		return Argon2idHasher{}.Verify(password, stored)
	}
	return SHA256Hasher{}.Verify(password, stored)
}

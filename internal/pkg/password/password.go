// Package password hashes staff credentials and stored refresh tokens.
package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor for staff passwords
const Cost = 12

// MinLength is the shortest password accepted for staff accounts
const MinLength = 8

// Hash derives the bcrypt hash stored for a staff password
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored bcrypt hash
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashToken digests a refresh token for storage. Only the digest ever
// reaches the database, so a leaked row cannot be replayed as the token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidatePassword reports whether a candidate password is acceptable
func ValidatePassword(plain string) bool {
	return len(plain) >= MinLength
}

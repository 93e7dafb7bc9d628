package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetToken is a one-time password reset credential.  Plain goes to the
// user by email and is never stored; Hash and Exp are persisted on the user.
type ResetToken struct {
	Plain string
	Hash  string
	Exp   time.Time
}

// NewResetToken draws 32 random bytes and returns them hex-encoded together
// with their digest and an expiry ttl from now.
func NewResetToken(ttl time.Duration) (ResetToken, error) {
	raw, err := randomHex(32)
	if err != nil {
		return ResetToken{}, err
	}
	return ResetToken{
		Plain: raw,
		Hash:  HashResetToken(raw),
		Exp:   time.Now().UTC().Add(ttl),
	}, nil
}

// HashResetToken returns the SHA-256 hex digest of a plain reset token.  It
// is deterministic so a stored hash can be matched with an equality query.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Package pkce generates Proof Key for Code Exchange (RFC 7636) verifier/challenge pairs.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/oauth2"
)

const (
	// VerifierLength is the number of characters in a generated code verifier.
	VerifierLength = 64

	// MethodS256 is the only challenge method this client sends.
	MethodS256 = "S256"

	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Pair holds a code verifier and the challenge derived from it.
// A Pair belongs to exactly one login attempt and must not be reused.
type Pair struct {
	Verifier  string
	Challenge string
	Method    string
}

// Generate returns a fresh pair with a 64 character alphanumeric verifier
// drawn from crypto/rand and its S256 challenge.
func Generate() Pair {
	verifier := RandomAlphanumeric(VerifierLength)
	return Pair{
		Verifier:  verifier,
		Challenge: Challenge(verifier),
		Method:    MethodS256,
	}
}

// Challenge derives the S256 code challenge: base64url(sha256(verifier)) without padding.
func Challenge(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// Verify reports whether verifier hashes to challenge. The comparison is constant time.
func Verify(verifier, challenge string) bool {
	sum := sha256.Sum256([]byte(verifier))
	expected := base64.RawURLEncoding.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(challenge)) == 1
}

// RandomAlphanumeric returns n characters drawn uniformly from [A-Za-z0-9].
// Bytes that would bias the distribution are rejected and redrawn.
func RandomAlphanumeric(n int) string {
	if n <= 0 {
		return ""
	}
	// 248 is the largest multiple of 62 that fits in a byte.
	const limit = 256 - 256%len(alphanumeric)

	out := make([]byte, 0, n)
	buf := make([]byte, n+n/4)
	for len(out) < n {
		// crypto/rand.Read never returns an error since Go 1.24.
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphanumeric[int(b)%len(alphanumeric)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out)
}

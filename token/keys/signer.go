package keys

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues RS256 tokens and publishes the keys that verify them.
type Signer interface {
	Sign(claims jwt.MapClaims) (string, error)
	JWKS() JWKS
}

// KeyPairSigner signs with a single key pair.
type KeyPairSigner struct {
	keyPair *KeyPair
}

var _ Signer = (*KeyPairSigner)(nil)

func NewKeyPairSigner(keyPair *KeyPair) *KeyPairSigner {
	return &KeyPairSigner{keyPair: keyPair}
}

// Sign returns the compact serialization of claims, with the key's kid in the header.
func (s *KeyPairSigner) Sign(claims jwt.MapClaims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = s.keyPair.KeyID

	signed, err := tok.SignedString(s.keyPair.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("[keys.Sign] %w", err)
	}
	return signed, nil
}

func (s *KeyPairSigner) JWKS() JWKS {
	return JWKS{Keys: []JWK{s.keyPair.ToJWK()}}
}

// KeyPair exposes the underlying keys, e.g. to build a static verifier in tests.
func (s *KeyPairSigner) KeyPair() *KeyPair {
	return s.keyPair
}

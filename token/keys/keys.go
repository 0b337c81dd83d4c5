// Package keys holds the RSA signing keys of the mock authorization server and
// their JWK form.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/jrsteele09/go-okta-login/internal/errors"
)

const (
	// RS256 is the only algorithm keys are published and used with.
	RS256 = "RS256"

	// MinRSABits is the smallest modulus GenerateRSAKeyPair produces.
	MinRSABits = 2048
)

// KeyPair is an RSA key identified by the kid it is published under.
type KeyPair struct {
	KeyID      string
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

// JWKS is the document served at the keys endpoint.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK is the public half of an RSA signing key.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// GenerateRSAKeyPair creates a key of at least MinRSABits bits.
func GenerateRSAKeyPair(keyID string, bits int) (*KeyPair, error) {
	bits = max(bits, MinRSABits)
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("[keys.GenerateRSAKeyPair] %w", err)
	}
	return newKeyPair(keyID, priv), nil
}

// LoadKeyPairFromPEM reads an RSA private key in PKCS#1 or PKCS#8 PEM form.
func LoadKeyPairFromPEM(keyID, privateKeyPEM string) (*KeyPair, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("[keys.LoadKeyPairFromPEM] no PEM block found")
	}

	if priv, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return newKeyPair(keyID, priv), nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("[keys.LoadKeyPairFromPEM] %w", err)
	}
	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("[keys.LoadKeyPairFromPEM] %w: %T", errors.ErrUnsupportedKey, parsed)
	}
	return newKeyPair(keyID, priv), nil
}

func newKeyPair(keyID string, priv *rsa.PrivateKey) *KeyPair {
	return &KeyPair{KeyID: keyID, PrivateKey: priv, PublicKey: &priv.PublicKey}
}

// ExportPrivateKeyPEM encodes the private key as PKCS#1 PEM, the form
// LoadKeyPairFromPEM reads first.
func (kp *KeyPair) ExportPrivateKeyPEM() string {
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(kp.PrivateKey),
	}))
}

// ToJWK publishes the public key for signature verification.
func (kp *KeyPair) ToJWK() JWK {
	return JWK{
		Kty: "RSA",
		Use: "sig",
		Kid: kp.KeyID,
		Alg: RS256,
		N:   base64.RawURLEncoding.EncodeToString(kp.PublicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(kp.PublicKey.E)).Bytes()),
	}
}

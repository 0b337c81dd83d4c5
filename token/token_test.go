package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-okta-login/internal/errors"
	"github.com/jrsteele09/go-okta-login/token"
	"github.com/jrsteele09/go-okta-login/token/keys"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://example.oktapreview.com/oauth2/default"
	testClientID = "client-1"
)

type signFixture struct {
	signer *keys.KeyPairSigner
}

func setupSigner(t *testing.T) *signFixture {
	t.Helper()
	kp, err := keys.GenerateRSAKeyPair("test-kid", 2048)
	require.NoError(t, err)
	return &signFixture{signer: keys.NewKeyPairSigner(kp)}
}

func (f *signFixture) sign(t *testing.T, overrides jwt.MapClaims) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   testIssuer,
		"sub":   "00u1",
		"aud":   testClientID,
		"email": "alice@example.com",
		"name":  "Alice Liddell",
		"amr":   []string{"pwd"},
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	for k, v := range overrides {
		claims[k] = v
	}
	raw, err := f.signer.Sign(claims)
	require.NoError(t, err)
	return raw
}

func TestParseClaims(t *testing.T) {
	f := setupSigner(t)

	t.Run("reads identity claims", func(t *testing.T) {
		c, err := token.ParseClaims(f.sign(t, nil))
		require.NoError(t, err)

		require.Equal(t, "00u1", c.Subject)
		require.Equal(t, testIssuer, c.Issuer)
		require.Equal(t, []string{testClientID}, c.Audience)
		require.Equal(t, "alice@example.com", c.Email)
		require.Equal(t, "Alice Liddell", c.Name)
		require.Equal(t, []string{"pwd"}, c.AuthMethods)
		require.False(t, c.Expired(time.Now()))
		require.True(t, c.Expired(time.Now().Add(2*time.Hour)))
	})

	t.Run("audience list", func(t *testing.T) {
		c, err := token.ParseClaims(f.sign(t, jwt.MapClaims{"aud": []string{"a", "b"}}))
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, c.Audience)
	})

	t.Run("not a jwt", func(t *testing.T) {
		_, err := token.ParseClaims("IDT1")
		require.Error(t, err)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("bad exp type", func(t *testing.T) {
		_, err := token.ParseClaims(f.sign(t, jwt.MapClaims{"exp": "tomorrow"}))
		require.Error(t, err)
		require.Contains(t, err.Error(), "claim exp")
	})
}

func TestStaticVerifier(t *testing.T) {
	f := setupSigner(t)
	v := token.NewStaticVerifier(testIssuer, testClientID, f.signer.KeyPair().PublicKey)
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		idt, err := v.Verify(ctx, f.sign(t, nil))
		require.NoError(t, err)
		require.Equal(t, "00u1", idt.Subject)
	})

	t.Run("wrong audience", func(t *testing.T) {
		_, err := v.Verify(ctx, f.sign(t, jwt.MapClaims{"aud": "someone-else"}))
		require.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := v.Verify(ctx, f.sign(t, jwt.MapClaims{"iss": "https://evil.example.com"}))
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := v.Verify(ctx, f.sign(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()}))
		require.Error(t, err)
	})

	t.Run("other key", func(t *testing.T) {
		other := setupSigner(t)
		_, err := v.Verify(ctx, other.sign(t, nil))
		require.Error(t, err)
	})
}

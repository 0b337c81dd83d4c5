package token

import (
	"context"
	"crypto"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-okta-login/internal/errors"
)

// Verifier checks an ID token's signature, issuer, audience and expiry.
// *oidc.IDTokenVerifier satisfies it.
type Verifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

var _ Verifier = (*oidc.IDTokenVerifier)(nil)

// NewVerifier discovers issuer's signing keys through its OpenID configuration
// document and returns a verifier for tokens issued to clientID. httpClient may
// be nil; it must follow redirects.
func NewVerifier(ctx context.Context, issuer, clientID string, httpClient *http.Client) (*oidc.IDTokenVerifier, error) {
	if httpClient != nil {
		ctx = oidc.ClientContext(ctx, httpClient)
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, errors.Wrapf(err, "[token.NewVerifier] discover %s", issuer)
	}
	return provider.Verifier(&oidc.Config{ClientID: clientID}), nil
}

// NewStaticVerifier verifies against fixed public keys, skipping discovery.
func NewStaticVerifier(issuer, clientID string, publicKeys ...crypto.PublicKey) *oidc.IDTokenVerifier {
	keySet := &oidc.StaticKeySet{PublicKeys: publicKeys}
	return oidc.NewVerifier(issuer, keySet, &oidc.Config{
		ClientID:             clientID,
		SupportedSigningAlgs: []string{oidc.RS256},
	})
}
